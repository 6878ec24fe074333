// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import "github.com/cpmech/gosl/utl"

// State holds the data exchanged with a behaviour at one integration point
//  Note: for small strain behaviours, E0 and E1 are mechanical strains (thermal strains removed)
type State struct {

	// driving variables and thermodynamic forces
	E0 []float64 // driving variables at the beginning of the time step [ndv]
	E1 []float64 // driving variables at the end of the time step [ndv]
	S0 []float64 // thermodynamic forces at the beginning of the time step [nth]
	S1 []float64 // thermodynamic forces at the end of the time step [nth]

	// internal state variables
	Iv0 []float64 // at the beginning of the time step [niv]
	Iv1 []float64 // at the end of the time step [niv]

	// material properties and external state variables
	Mprops []float64 // material properties at the end of the time step [nmp]
	Esv0   []float64 // external state variables at the beginning of the time step [nesv]
	Desv   []float64 // increments of external state variables [nesv]

	// material frame
	R [][]float64 // rotation matrix from the material frame to the global frame [3][3]
}

// NewState allocates state structure
func NewState(ndv, nth, niv, nmp, nesv int) *State {
	var o State
	o.E0 = make([]float64, ndv)
	o.E1 = make([]float64, ndv)
	o.S0 = make([]float64, nth)
	o.S1 = make([]float64, nth)
	o.Iv0 = make([]float64, niv)
	o.Iv1 = make([]float64, niv)
	o.Mprops = make([]float64, nmp)
	o.Esv0 = make([]float64, nesv)
	o.Desv = make([]float64, nesv)
	o.R = utl.Alloc(3, 3)
	for i := 0; i < 3; i++ {
		o.R[i][i] = 1
	}
	return &o
}

// Set copies states
//  Note: 1) this and other states must have been pre-allocated with the same sizes
//        2) this method does not check for errors
func (o *State) Set(other *State) {
	copy(o.E0, other.E0)
	copy(o.E1, other.E1)
	copy(o.S0, other.S0)
	copy(o.S1, other.S1)
	copy(o.Iv0, other.Iv0)
	copy(o.Iv1, other.Iv1)
	copy(o.Mprops, other.Mprops)
	copy(o.Esv0, other.Esv0)
	copy(o.Desv, other.Desv)
	for i := 0; i < 3; i++ {
		copy(o.R[i], other.R[i])
	}
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	other := NewState(len(o.E0), len(o.S0), len(o.Iv0), len(o.Mprops), len(o.Esv0))
	other.Set(o)
	return other
}

// Revert resets the end-of-step values to the beginning-of-step ones
func (o *State) Revert() {
	copy(o.E1, o.E0)
	copy(o.S1, o.S0)
	copy(o.Iv1, o.Iv0)
}

// T0 returns the temperature at the beginning of the time step
func (o *State) T0() float64 { return o.Esv0[0] }

// T1 returns the temperature at the end of the time step
func (o *State) T1() float64 { return o.Esv0[0] + o.Desv[0] }
