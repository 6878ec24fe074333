// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evol

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Manager holds named evolutions
type Manager map[string]Evolution

// Add adds a new evolution; an error is returned if the name is already in use
func (o Manager) Add(name string, ev Evolution) error {
	if _, ok := o[name]; ok {
		return chk.Err("evolution %q already defined", name)
	}
	o[name] = ev
	return nil
}

// Set sets (or replaces) an evolution
func (o Manager) Set(name string, ev Evolution) {
	o[name] = ev
}

// Get returns an evolution or nil if not found
func (o Manager) Get(name string) Evolution {
	return o[name]
}

// Has tells whether an evolution is defined
func (o Manager) Has(name string) bool {
	_, ok := o[name]
	return ok
}

// Names returns the sorted names of all evolutions
func (o Manager) Names() (names []string) {
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
