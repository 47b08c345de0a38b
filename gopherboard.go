// This file is part of Gopherboard.
//
// Gopherboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopherboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopherboard.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/gopherboard/bridge"
	"github.com/jetsetilly/gopherboard/command"
	"github.com/jetsetilly/gopherboard/console"
	"github.com/jetsetilly/gopherboard/console/easyterm"
	"github.com/jetsetilly/gopherboard/engine"
	"github.com/jetsetilly/gopherboard/governor"
	"github.com/jetsetilly/gopherboard/hardware"
	"github.com/jetsetilly/gopherboard/logger"
	"github.com/jetsetilly/gopherboard/mailbox"
	"github.com/jetsetilly/gopherboard/modalflag"
	"github.com/jetsetilly/gopherboard/paths"
	"github.com/jetsetilly/gopherboard/performance"
	"github.com/jetsetilly/gopherboard/preferences"
	"github.com/jetsetilly/gopherboard/remote"
	"github.com/jetsetilly/gopherboard/statsview"
	"github.com/jetsetilly/gopherboard/status"
	"github.com/jetsetilly/gopherboard/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "REMOTE", "PERFORMANCE", "PREFS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md)
	case "REMOTE":
		err = request(ctx, md)
	case "PERFORMANCE":
		err = perform(ctx, md)
	case "PREFS":
		err = showPrefs(md)
	case "VERSION":
		fmt.Println(version.String())
	}

	stop()

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md, err)
		os.Exit(20)
	}
}

// flags common to all modes that run the board
func addPrefFlags(md *modalflag.Modes, prf *preferences.Preferences) {
	md.AddPref("target", &prf.TargetRate, "target clock rate in Hz")
	md.AddPref("throttle", &prf.Throttle, "throttle the engine to the target rate")
}

// load the program named on the command line, if any
func loadProgram(md *modalflag.Modes, brd *hardware.Board) error {
	switch len(md.RemainingArgs()) {
	case 0:
		return nil
	case 1:
		f, err := os.Open(md.GetArg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		return brd.LoadFromText(f)
	}
	return fmt.Errorf("too many arguments for %s mode", md)
}

func run(ctx context.Context, md *modalflag.Modes) error {
	prf, err := preferences.NewPreferences("")
	if err != nil {
		return err
	}

	md.NewMode()
	addPrefFlags(md, prf)
	md.AddPref("mailbox", &prf.MailboxPath, "location of the mailbox file")
	md.AddPref("poll", &prf.MailboxPoll, "poll for mailbox requests rather than use filesystem notifications")
	md.AddPref("bridge", &prf.BridgeDevice, "host serial device to bridge to the board (use \"list\" to list devices)")
	md.AddPref("baud", &prf.BridgeBaud, "baud rate of the bridged device")
	log := md.AddBool("log", false, "echo debugging log to the terminal")
	viz := md.AddBool("memviz", false, "write a memviz graph of the board state on exit")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	md.AdditionalHelp("An S-record file can be named to preload the board's memory.")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if prf.BridgeDevice.String() == "list" {
		ports, err := bridge.Ports()
		if err != nil {
			return err
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	}

	brd := hardware.NewBoard()
	defer brd.Close()

	if err := loadProgram(md, brd); err != nil {
		return err
	}

	// the console is only available if there is a terminal. without one the
	// board runs headless until interrupted
	var out io.Writer = os.Stdout
	term, err := easyterm.Open("")
	if err != nil {
		logger.Logf(logger.Allow, "console", "no terminal: %v", err)
	} else {
		out = term
		defer term.Close()
	}

	if *log {
		logger.SetEcho(out)
		defer logger.SetEcho(nil)
	}

	logger.Logf(logger.Allow, "gopherboard", "%s", version.String())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gov := governor.NewGovernor(float64(prf.TargetRate.Get().(int)))
	eng := engine.NewEngine(brd, gov, prf)

	router := command.NewRouter(ctx, brd)
	router.SetExecutor(remote.NewArgs(eng, gov, brd, router, prf))

	display := status.NewDisplay(out, eng, func() int {
		return prf.TargetRate.Get().(int)
	})
	gov.SetObserver(display.Update)

	var wg sync.WaitGroup
	launch := func(tag string, f func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				logger.Log(logger.Allow, tag, err.Error())
			}
		}()
	}

	launch("governor", func(ctx context.Context) error {
		return gov.Run(ctx, eng, func() time.Duration {
			return prf.GovernorPeriod.Get().(time.Duration)
		})
	})

	serialOut := out
	if prf.BridgeDevice.String() != "" {
		brg, err := bridge.Open(prf.BridgeDevice.String(), prf.BridgeBaud.Get().(int))
		if err != nil {
			return err
		}
		defer brg.Close()
		serialOut = io.MultiWriter(out, brg)
		launch("bridge", func(ctx context.Context) error {
			return brg.Forward(ctx, brd)
		})
	}

	launch("serial", func(ctx context.Context) error {
		return brd.Serial.Drain(ctx, serialOut)
	})

	var notifier mailbox.Notifier = mailbox.FSNotify{}
	if prf.MailboxPoll.Get().(bool) {
		notifier = mailbox.Poller{Period: prf.MailboxPollPeriod.Get().(time.Duration)}
	}
	mb := mailbox.NewMailbox(mailbox.Config{
		Path:        prf.MailboxPath.String(),
		Settle:      prf.MailboxSettle.Get().(time.Duration),
		LockTimeout: prf.MailboxLockTimeout.Get().(time.Duration),
		Notifier:    notifier,
	}, router)
	launch("mailbox", mb.Run)

	if term != nil {
		con := console.NewConsole(term, term, eng, router)
		con.OnPrompt(display.Suspend)
		launch("console", func(ctx context.Context) error {
			defer cancel()
			return con.Run(ctx)
		})
	}

	if *stats {
		statsview.Launch(out)
	}

	err = eng.Run(ctx)

	// closing the board releases any goroutine blocked on the serial port
	cancel()
	brd.Close()
	if term != nil {
		term.Close()
	}
	wg.Wait()
	router.Wait()

	fmt.Fprint(os.Stdout, "\r\n")

	if *viz {
		if err := dumpMemviz(brd, eng, gov); err != nil {
			logger.Log(logger.Allow, "memviz", err.Error())
		}
	}

	return err
}

// snapshot of the board for the memviz graph. the board's memory is omitted
type snapshot struct {
	State         string
	PC            uint16
	Retired       uint64
	Ticks         uint64
	Switches      string
	Overrun       uint64
	StepsPerSleep int
	Rate          governor.RateEstimate
}

func dumpMemviz(brd *hardware.Board, eng *engine.Engine, gov *governor.Governor) error {
	fn := paths.UniqueFilename("memviz", "dot")
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	memviz.Map(f, &snapshot{
		State:         eng.State().String(),
		PC:            brd.PC(),
		Retired:       eng.Steps(),
		Ticks:         eng.Ticks(),
		Switches:      brd.Switches.String(),
		Overrun:       brd.Serial.Overrun(),
		StepsPerSleep: eng.StepsPerSleep(),
		Rate:          gov.Estimate(),
	})

	fmt.Printf("memviz graph written to %s\n", fn)
	return nil
}

func request(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()
	path := md.AddString("mailbox", "", "location of the mailbox file (default from preferences)")
	timeout := md.AddDuration("timeout", 5*time.Second, "time to wait for a response")
	md.AdditionalHelp("The request is formed from the remaining arguments. Use HELP for a list of requests.")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *path == "" {
		prf, err := preferences.NewPreferences("")
		if err != nil {
			return err
		}
		*path = prf.MailboxPath.String()
	}

	req := strings.Join(md.RemainingArgs(), " ")
	if req == "" {
		return fmt.Errorf("a request is required for %s mode", md)
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	resp, err := mailbox.Request(ctx, *path, req)
	if err != nil {
		return err
	}

	fmt.Println(strings.TrimRight(resp, "\n"))

	if strings.HasPrefix(resp, "error: ") {
		return fmt.Errorf("%s", strings.TrimPrefix(resp, "error: "))
	}
	return nil
}

func perform(ctx context.Context, md *modalflag.Modes) error {
	prf, err := preferences.NewPreferences("")
	if err != nil {
		return err
	}

	md.NewMode()
	addPrefFlags(md, prf)
	duration := md.AddDuration("duration", 5*time.Second, "period of measurement")
	profile := md.AddString("profile", "none", "run with profiling: cpu, mem, trace, all (comma separated)")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	}

	prof, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	brd := hardware.NewBoard()
	defer brd.Close()

	if err := loadProgram(md, brd); err != nil {
		return err
	}

	_, err = performance.Check(ctx, os.Stdout, prof, brd, prf, *duration)
	return err
}

func showPrefs(md *modalflag.Modes) error {
	prf, err := preferences.NewPreferences("")
	if err != nil {
		return err
	}

	md.NewMode()
	addPrefFlags(md, prf)
	md.AddPref("governor", &prf.GovernorPeriod, "sampling period of the rate governor")
	md.AddPref("mailbox", &prf.MailboxPath, "location of the mailbox file")
	md.AddPref("settle", &prf.MailboxSettle, "delay before a mailbox request is read")
	md.AddPref("locktimeout", &prf.MailboxLockTimeout, "time to wait for the mailbox lock")
	md.AddPref("poll", &prf.MailboxPoll, "poll for mailbox requests")
	md.AddPref("pollperiod", &prf.MailboxPollPeriod, "period of mailbox polling")
	md.AddPref("bridge", &prf.BridgeDevice, "host serial device to bridge to the board")
	md.AddPref("baud", &prf.BridgeBaud, "baud rate of the bridged device")
	defaults := md.AddBool("defaults", false, "revert to default values. other preference flags are ignored")
	save := md.AddBool("save", false, "save the preferences")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *defaults {
		prf.SetDefaults()
	}

	if *save {
		if err := prf.Save(); err != nil {
			return err
		}
	}

	fmt.Println(prf.Path())
	fmt.Println(prf)
	return nil
}
