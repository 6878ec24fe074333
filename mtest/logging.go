// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mtest

import (
	"github.com/cpmech/gosl/io"
)

// VerboseLevel controls the amount of messages printed during a run
type VerboseLevel int

// verbose levels
const (
	VerboseQuiet VerboseLevel = iota
	VerboseLevel1
	VerboseLevel2
	VerboseLevel3
	VerboseDebug
)

// Logf prints a message if the verbose level is at least lvl
func (o *MTest) Logf(lvl VerboseLevel, msg string, prm ...interface{}) {
	logf(o.Verbose, lvl, msg, prm...)
}

// Verbosity returns the verbose level
func (o *MTest) Verbosity() VerboseLevel { return o.Verbose }

// warnf prints a warning if the verbose level is at least lvl
func (o *MTest) warnf(lvl VerboseLevel, msg string, prm ...interface{}) {
	if o.Verbose >= lvl {
		io.Pfyel(msg, prm...)
	}
}

// logf prints a message if v ≥ lvl
func logf(v, lvl VerboseLevel, msg string, prm ...interface{}) {
	if v >= lvl {
		io.Pf(msg, prm...)
	}
}

// logVector prints a vector if v ≥ lvl
func logVector(v, lvl VerboseLevel, name string, x []float64) {
	if v < lvl {
		return
	}
	io.Pf("%s:\n", name)
	for _, val := range x {
		io.Pf(" %13.6e", val)
	}
	io.Pf("\n")
}

// logMatrix prints a matrix if v ≥ lvl, highlighting the entry (mi,mj)
func logMatrix(v, lvl VerboseLevel, name string, m [][]float64, mi, mj int) {
	if v < lvl {
		return
	}
	io.Pf("%s:\n", name)
	for i := range m {
		for j := range m[i] {
			if i == mi && j == mj {
				io.Pfred(" %13.6e", m[i][j])
				continue
			}
			io.Pf(" %13.6e", m[i][j])
		}
		io.Pf("\n")
	}
}
