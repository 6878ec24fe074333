// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package evol implements scalar functions of time describing the loading path
package evol

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Evolution defines a scalar function of time
type Evolution interface {
	F(t float64) float64 // F returns the value at time t
	IsConstant() bool    // IsConstant tells whether the value does not depend on time
}

// Constant implements a constant evolution
type Constant struct {
	V float64 // value
}

// F returns the value
func (o Constant) F(t float64) float64 { return o.V }

// IsConstant returns true
func (o Constant) IsConstant() bool { return true }

// LPE implements a piecewise linear evolution
//  Note: outside [T[0], T[n-1]] the first or last value is returned
type LPE struct {
	T []float64 // times; strictly increasing
	V []float64 // values
}

// NewLPE returns a new piecewise linear evolution
func NewLPE(times, values []float64) (o *LPE, err error) {
	if len(times) == 0 {
		return nil, chk.Err("LPE: no values given")
	}
	if len(times) != len(values) {
		return nil, chk.Err("LPE: the number of times (%d) does not match the number of values (%d)", len(times), len(values))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, chk.Err("LPE: times must be strictly increasing (t[%d]=%g ≤ t[%d]=%g)", i, times[i], i-1, times[i-1])
		}
	}
	o = &LPE{make([]float64, len(times)), make([]float64, len(values))}
	copy(o.T, times)
	copy(o.V, values)
	return
}

// F returns the interpolated value
func (o LPE) F(t float64) float64 {
	n := len(o.T)
	if n == 1 || t <= o.T[0] {
		return o.V[0]
	}
	if t >= o.T[n-1] {
		return o.V[n-1]
	}
	i := sort.SearchFloat64s(o.T, t) // T[i-1] < t ≤ T[i]
	ta, tb := o.T[i-1], o.T[i]
	va, vb := o.V[i-1], o.V[i]
	return va + (vb-va)*(t-ta)/(tb-ta)
}

// IsConstant returns true if only one value is given
func (o LPE) IsConstant() bool { return len(o.T) == 1 }

// Function implements an evolution given by a function from the gosl database
type Function struct {
	Typ string // function type; e.g. "cte", "rmp", "lin", "sin"
	Fcn dbf.T  // function
}

// NewFunction allocates a new function evolution
//  Note: dbf.New panics on unknown names or invalid parameters; the panic is returned as an error
func NewFunction(typ string, prms dbf.Params) (o *Function, err error) {
	defer func() {
		if r := recover(); r != nil {
			o, err = nil, chk.Err("Function: cannot allocate function %q:\n%v", typ, r)
		}
	}()
	return &Function{typ, dbf.New(typ, prms)}, nil
}

// F returns the value at time t
func (o Function) F(t float64) float64 { return o.Fcn.F(t, nil) }

// IsConstant returns true for the "cte" function
func (o Function) IsConstant() bool { return o.Typ == "cte" }
