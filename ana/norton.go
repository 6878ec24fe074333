// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Norton implements uniaxial solutions of Norton's viscoplasticity: dp/dt = A σ^N
type Norton struct {
	E float64 // Young's modulus
	A float64 // Norton's coefficient
	N float64 // Norton's exponent
}

// Init initialises this structure
func (o *Norton) Init(prms dbf.Params) (err error) {
	o.E, o.A, o.N = 200000, 1e-10, 3
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "A":
			o.A = p.V
		case "N":
			o.N = p.V
		default:
			return chk.Err("Norton: parameter named %q is incorrect", p.N)
		}
	}
	if o.E <= 0 || o.A < 0 || o.N < 1 {
		return chk.Err("Norton: E=%g, A=%g and N=%g are invalid", o.E, o.A, o.N)
	}
	return
}

// Creep returns the axial strain and the viscoplastic strain at time t under constant stress σ
func (o Norton) Creep(σ, t float64) (εxx, p float64) {
	p = o.A * math.Pow(math.Abs(σ), o.N) * t
	if σ < 0 {
		return σ/o.E - p, p
	}
	return σ/o.E + p, p
}

// Relaxation returns the axial stress at time t when the axial strain is kept constant
// and the initial stress is σ0 > 0
//  dσ/dt = -E A σ^N
func (o Norton) Relaxation(σ0, t float64) float64 {
	if o.N == 1 {
		return σ0 * math.Exp(-o.E*o.A*t)
	}
	return math.Pow(math.Pow(σ0, 1.0-o.N)+(o.N-1.0)*o.E*o.A*t, 1.0/(1.0-o.N))
}

// RelaxationTime returns the time needed to halve the initial stress σ0
func (o Norton) RelaxationTime(σ0 float64) float64 {
	if o.N == 1 {
		return math.Ln2 / (o.E * o.A)
	}
	return (math.Pow(2, o.N-1.0) - 1.0) / ((o.N - 1.0) * o.E * o.A * math.Pow(σ0, o.N-1.0))
}
