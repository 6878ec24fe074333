// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mtest

import (
	"github.com/thelfer/tfel-sub019/msolid"
)

// CurrentState holds the state of the material point
//  Note: "_1" is the previous converged step, "0" the beginning of the
//        current step and "1" the current estimate at the end of the step
type CurrentState struct {
	msolid.State // what the behaviour sees

	// unknowns: driving variables followed by Lagrange multipliers
	U_1 []float64 // previous converged step
	U0  []float64 // beginning of the time step
	U1  []float64 // current estimate

	// history
	S_1  []float64 // thermodynamic forces of the previous converged step
	Iv_1 []float64 // internal state variables of the previous converged step
	Dt_1 float64   // previous time step

	// thermal strains
	Eth0 []float64 // at the beginning of the time step
	Eth1 []float64 // at the end of the time step
	Tref float64   // reference temperature for the thermal expansion

	// statistics
	Period     int // number of converged (sub) steps + 1
	Iterations int // total number of Newton iterations
	SubSteps   int // total number of sub steps

	// Lagrange multipliers normalisation factor; zero if not computed yet
	A float64
}

// NewCurrentState allocates a state
//  ndv  -- number of driving variables
//  nu   -- number of unknowns (ndv + number of Lagrange multipliers)
func NewCurrentState(ndv, nu, nth, niv, nmp, nesv int) *CurrentState {
	var o CurrentState
	o.State = *msolid.NewState(ndv, nth, niv, nmp, nesv)
	o.U_1 = make([]float64, nu)
	o.U0 = make([]float64, nu)
	o.U1 = make([]float64, nu)
	o.S_1 = make([]float64, nth)
	o.Iv_1 = make([]float64, niv)
	o.Eth0 = make([]float64, ndv)
	o.Eth1 = make([]float64, ndv)
	o.Tref = 293.15
	o.Period = 1
	return &o
}

// Update moves the converged state forward
func (o *CurrentState) Update(dt float64) {
	copy(o.U_1, o.U0)
	copy(o.U0, o.U1)
	copy(o.S_1, o.S0)
	copy(o.S0, o.S1)
	copy(o.Iv_1, o.Iv0)
	copy(o.Iv0, o.Iv1)
	o.Dt_1 = dt
}

// Revert resets the estimates to the beginning of the time step
func (o *CurrentState) Revert() {
	copy(o.U1, o.U0)
	o.State.Revert()
}

// MakeLinearPrediction extrapolates the unknowns, internal state variables and forces
//  from the previous time step. Nothing is done for the first period
func (o *CurrentState) MakeLinearPrediction(dt float64) {
	if o.Period <= 1 || o.Dt_1 <= 0 {
		return
	}
	r := dt / o.Dt_1
	for i := range o.U1 {
		o.U1[i] = o.U0[i] + (o.U0[i]-o.U_1[i])*r
	}
	for i := range o.Iv1 {
		o.Iv1[i] = o.Iv0[i] + (o.Iv0[i]-o.Iv_1[i])*r
	}
	for i := range o.S1 {
		o.S1[i] = o.S0[i] + (o.S0[i]-o.S_1[i])*r
	}
}

// setMechanicalDrivingVariables computes E0 and E1 from the unknowns and the thermal strains
func (o *CurrentState) setMechanicalDrivingVariables() {
	for i := range o.E0 {
		o.E0[i] = o.U0[i] - o.Eth0[i]
		o.E1[i] = o.U1[i] - o.Eth1[i]
	}
}

// setEndOfStepDrivingVariables computes E1 from the current estimate only
func (o *CurrentState) setEndOfStepDrivingVariables() {
	for i := range o.E1 {
		o.E1[i] = o.U1[i] - o.Eth1[i]
	}
}
