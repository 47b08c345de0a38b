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

// Package preferences groups the user preferences for the board, the engine
// and the external interfaces. Values are live: components read them on every
// use and changes made through Set() take effect immediately.
package preferences

import (
	"fmt"
	"time"

	"github.com/jetsetilly/gopherboard/paths"
	"github.com/jetsetilly/gopherboard/prefs"
)

// DefaultPrefsFile is the name of the preferences file in the resource
// directory.
const DefaultPrefsFile = "preferences.toml"

// Default values.
const (
	DefaultTargetRate         = 4000000
	DefaultGovernorPeriod     = 100 * time.Millisecond
	DefaultMailboxSettle      = 20 * time.Millisecond
	DefaultMailboxLockTimeout = 2 * time.Second
	DefaultMailboxPollPeriod  = 50 * time.Millisecond
	DefaultBridgeBaud         = 9600
)

// Preferences for the application.
type Preferences struct {
	dsk *prefs.Disk

	// target rate of the engine in steps per second
	TargetRate prefs.Int

	// whether the engine is throttled at all. an unthrottled engine runs as
	// quickly as possible
	Throttle prefs.Bool

	// sampling period of the rate governor
	GovernorPeriod prefs.Duration

	// location of the mailbox file
	MailboxPath prefs.String

	// time to wait after a mailbox notification before opening the file
	MailboxSettle prefs.Duration

	// maximum time to wait for the exclusive lock on the mailbox file
	MailboxLockTimeout prefs.Duration

	// use the stat poller rather than filesystem notifications. useful for
	// network filesystems where notifications are not reliable
	MailboxPoll       prefs.Bool
	MailboxPollPeriod prefs.Duration

	// host serial device to bridge to the board's serial port. the empty string
	// means no bridge
	BridgeDevice prefs.String
	BridgeBaud   prefs.Int
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. An empty path will use the default preferences file in
// the resource directory. Values are loaded from the file if it exists.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()
	p.hooks()

	if path == "" {
		path = paths.ResourcePath(DefaultPrefsFile)
	}

	var err error
	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}

	for _, e := range []struct {
		key string
		p   interface {
			fmt.Stringer
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
		}
	}{
		{"engine.targetRate", &p.TargetRate},
		{"engine.throttle", &p.Throttle},
		{"governor.period", &p.GovernorPeriod},
		{"mailbox.path", &p.MailboxPath},
		{"mailbox.settle", &p.MailboxSettle},
		{"mailbox.lockTimeout", &p.MailboxLockTimeout},
		{"mailbox.poll", &p.MailboxPoll},
		{"mailbox.pollPeriod", &p.MailboxPollPeriod},
		{"bridge.device", &p.BridgeDevice},
		{"bridge.baud", &p.BridgeBaud},
	} {
		if err := p.dsk.Add(e.key, e.p); err != nil {
			return nil, err
		}
	}

	if err := p.dsk.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// validation of values that would otherwise break the component using them
func (p *Preferences) hooks() {
	p.TargetRate.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return fmt.Errorf("target rate cannot be negative")
		}
		return nil
	})

	positive := func(name string) func(v prefs.Value) error {
		return func(v prefs.Value) error {
			if v.(time.Duration) <= 0 {
				return fmt.Errorf("%s must be greater than zero", name)
			}
			return nil
		}
	}
	p.GovernorPeriod.SetHookPre(positive("governor period"))
	p.MailboxLockTimeout.SetHookPre(positive("mailbox lock timeout"))
	p.MailboxPollPeriod.SetHookPre(positive("mailbox poll period"))

	p.MailboxSettle.SetHookPre(func(v prefs.Value) error {
		if v.(time.Duration) < 0 {
			return fmt.Errorf("mailbox settle time cannot be negative")
		}
		return nil
	})

	p.BridgeBaud.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return fmt.Errorf("baud rate must be greater than zero")
		}
		return nil
	})
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	p.TargetRate.Set(DefaultTargetRate)
	p.Throttle.Set(true)
	p.GovernorPeriod.Set(DefaultGovernorPeriod)
	p.MailboxPath.Set(paths.MailboxPath())
	p.MailboxSettle.Set(DefaultMailboxSettle)
	p.MailboxLockTimeout.Set(DefaultMailboxLockTimeout)
	p.MailboxPoll.Set(false)
	p.MailboxPollPeriod.Set(DefaultMailboxPollPeriod)
	p.BridgeDevice.Set("")
	p.BridgeBaud.Set(DefaultBridgeBaud)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// Path returns the location of the preferences file.
func (p *Preferences) Path() string {
	return p.dsk.Path()
}
