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

package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// Disk represents preference values as stored on disk.
type Disk struct {
	crit    sync.Mutex
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type. The
// file does not need to exist.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs: disk requires a path")
	}
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Path returns the filename used by the Disk instance.
func (dsk *Disk) Path() string {
	return dsk.path
}

func (dsk *Disk) String() string {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	keys := dsk.keys()
	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s :: %s\n", k, dsk.entries[k]))
	}
	return s.String()
}

func (dsk *Disk) keys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add preference value to list of values to store/load from disk. The key
// must be unique.
func (dsk *Disk) Add(key string, p pref) error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	if key == "" || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") {
		return fmt.Errorf("prefs: illegal key %q", key)
	}
	if _, ok := dsk.entries[key]; ok {
		return fmt.Errorf("prefs: key %q already added", key)
	}
	dsk.entries[key] = p
	return nil
}

// Load preference values from disk. A missing file is not an error. Keys in
// the file that have not been added to the Disk instance are ignored.
func (dsk *Disk) Load() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	var data map[string]interface{}
	_, err := toml.DecodeFile(dsk.path, &data)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("prefs: %w", err)
	}

	flat := make(map[string]interface{})
	flatten("", data, flat)

	for k, v := range flat {
		if p, ok := dsk.entries[k]; ok {
			if err := p.Set(v); err != nil {
				return fmt.Errorf("prefs: %s: %w", k, err)
			}
		}
	}

	return nil
}

func flatten(prefix string, data map[string]interface{}, flat map[string]interface{}) {
	for k, v := range data {
		if prefix != "" {
			k = prefix + "." + k
		}
		if m, ok := v.(map[string]interface{}); ok {
			flatten(k, m, flat)
		} else {
			flat[k] = v
		}
	}
}

// Save current preference values to disk. Values in the file for keys that
// have not been added to the Disk instance are preserved.
func (dsk *Disk) Save() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	data := make(map[string]interface{})
	if _, err := toml.DecodeFile(dsk.path, &data); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("prefs: %w", err)
	}

	for _, k := range dsk.keys() {
		v := dsk.entries[k].Get()
		if d, ok := v.(time.Duration); ok {
			v = d.String()
		}
		if err := insert(data, strings.Split(k, "."), v); err != nil {
			return fmt.Errorf("prefs: %s: %w", k, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dsk.path), 0o700); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	f, err := os.Create(dsk.path)
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(data); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	return nil
}

func insert(data map[string]interface{}, path []string, v interface{}) error {
	if len(path) == 1 {
		data[path[0]] = v
		return nil
	}

	sub, ok := data[path[0]]
	if !ok {
		sub = make(map[string]interface{})
		data[path[0]] = sub
	}

	m, ok := sub.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%s is not a table", path[0])
	}

	return insert(m, path[1:], v)
}

// Reset all values added to the Disk instance. Note that this resets to the
// zero value for the type, not to any default value.
func (dsk *Disk) Reset() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()
	for _, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return err
		}
	}
	return nil
}
