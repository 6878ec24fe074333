// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_state01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("state01")

	ndv, nth, niv, nmp, nesv := 4, 4, 1, 2, 1
	state0 := NewState(ndv, nth, niv, nmp, nesv)
	io.Pforan("state0 = %+v\n", state0)
	chk.Array(tst, "s0", 1.0e-17, state0.S0, []float64{0, 0, 0, 0})
	chk.Array(tst, "iv0", 1.0e-17, state0.Iv0, []float64{0})
	chk.Deep2(tst, "R", 1.0e-17, state0.R, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})

	state0.S0[0] = 10.0
	state0.S0[1] = 11.0
	state0.S0[2] = 12.0
	state0.S0[3] = 13.0
	state0.Iv0[0] = 20.0
	state0.Esv0[0] = 293.15
	state0.Desv[0] = 10

	state1 := NewState(ndv, nth, niv, nmp, nesv)
	state1.Set(state0)
	io.Pforan("state1 = %+v\n", state1)
	chk.Array(tst, "s0", 1.0e-17, state1.S0, []float64{10, 11, 12, 13})
	chk.Array(tst, "iv0", 1.0e-17, state1.Iv0, []float64{20})
	chk.Float64(tst, "T0", 1e-17, state1.T0(), 293.15)
	chk.Float64(tst, "T1", 1e-12, state1.T1(), 303.15)

	state2 := state1.GetCopy()
	state2.S1[0] = 123
	state2.Revert()
	io.Pforan("state2 = %+v\n", state2)
	chk.Array(tst, "s1", 1.0e-17, state2.S1, []float64{10, 11, 12, 13})
	chk.Array(tst, "iv1", 1.0e-17, state2.Iv1, []float64{20})
	chk.Array(tst, "s1 of state1 is untouched", 1.0e-17, state1.S1, []float64{0, 0, 0, 0})
}
