// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Norton implements Norton viscoplasticity: dp/dt = A σeq^N
//  material properties: YoungModulus, PoissonRatio, NortonCoefficient (A), NortonExponent (N)
//  parameters:          epsilon and iterMax of the local Newton method
//                       dpmax: increment of p per time step aimed at (optional; time step scaling)
//  internal variables:  ElasticStrain, EquivalentViscoplasticStrain
//  Note: implicit Euler scheme with radial return
type Norton struct {
	Traits
	SmallElasticity
	Eps     float64 // tolerance of the local Newton method
	ItMax   int     // maximum number of local iterations
	NlIt    int     // number of local iterations of the last update
	DpMax   float64 // increment of p aimed at; 0 means no time step scaling proposal
	rdt     float64 // time step scaling factor proposed by the last update
	epstr   []float64
	sigtr   []float64
	nrm     []float64
	dp      float64 // Δp of last update
	qtr     float64 // trial equivalent stress of last update
	hcoef   float64 // dt A N σeq^(N-1) of last update
	viscous bool    // viscoplastic flow occurred in last update
}

// add model to factory
func init() {
	allocators["norton"] = func() Behaviour { return new(Norton) }
}

// Init initialises model
func (o *Norton) Init(prms dbf.Params) (err error) {
	o.Traits = Traits{
		Btype:   SmallStrain,
		Mpnames: []string{"YoungModulus", "PoissonRatio", "NortonCoefficient", "NortonExponent"},
		Ivnames: []string{"ElasticStrain", "EquivalentViscoplasticStrain"},
		Ivtypes: []VarType{Stensor, Scalar},
	}
	o.Eps = 1e-13
	o.ItMax = 100
	for _, p := range prms {
		switch p.N {
		case "epsilon":
			o.Eps = p.V
		case "iterMax":
			o.ItMax = int(p.V)
		case "dpmax":
			o.DpMax = p.V
		default:
			return chk.Err("norton: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Eps <= 0 || o.ItMax < 1 {
		return chk.Err("norton: epsilon=%g and iterMax=%d must be positive\n", o.Eps, o.ItMax)
	}
	if o.DpMax < 0 {
		return chk.Err("norton: dpmax=%g must not be negative\n", o.DpMax)
	}
	return
}

// TimeStepScalingFactor returns dpmax/Δp of the last update (0.9 dpmax/Δp when Δp > dpmax)
//  Note: a failed integration proposes to halve the time step
func (o *Norton) TimeStepScalingFactor() float64 { return o.rdt }

// ComputePredictionOperator computes the elastic stiffness
func (o *Norton) ComputePredictionOperator(kt [][]float64, s *State, h Hypothesis, ktype StiffnessMatrixType) bool {
	if o.SmallElasticity.Set(s.Mprops[0], s.Mprops[1]) != nil {
		return false
	}
	o.SmallElasticity.CalcD(kt)
	return true
}

// Integrate updates stresses and internal variables
func (o *Norton) Integrate(kt [][]float64, s *State, h Hypothesis, dt float64, ktype StiffnessMatrixType) bool {

	// constants
	o.rdt = 0.5
	if o.SmallElasticity.Set(s.Mprops[0], s.Mprops[1]) != nil {
		return false
	}
	A, N := s.Mprops[2], s.Mprops[3]
	if A < 0 || N < 1 {
		return false
	}

	// trial state
	nsig := len(s.S1)
	if len(o.epstr) != nsig {
		o.epstr = make([]float64, nsig)
		o.sigtr = make([]float64, nsig)
		o.nrm = make([]float64, nsig)
	}
	for i := 0; i < nsig; i++ {
		o.epstr[i] = s.Iv0[i] + s.E1[i] - s.E0[i]
	}
	zero := make([]float64, nsig)
	o.SmallElasticity.Update(o.sigtr, zero, o.epstr)
	o.qtr = Qinv(o.sigtr)
	o.dp, o.hcoef, o.NlIt = 0, 0, 0
	o.viscous = false

	// viscoplastic correction
	if o.qtr > 0 && A > 0 && dt > 0 {
		if !o.solve(A, N, dt) {
			return false
		}
		o.viscous = true
	}

	// update
	Dev(o.nrm, o.sigtr)
	for i := 0; i < nsig; i++ {
		if o.viscous {
			o.nrm[i] *= 1.5 / o.qtr
		} else {
			o.nrm[i] = 0
		}
		s.Iv1[i] = o.epstr[i] - o.dp*o.nrm[i]
		s.S1[i] = o.sigtr[i] - 2.0*o.G*o.dp*o.nrm[i]
	}
	s.Iv1[nsig] = s.Iv0[nsig] + o.dp
	o.rdt = math.MaxFloat64
	if o.DpMax > 0 && o.dp > 0 {
		o.rdt = o.DpMax / o.dp
		if o.rdt < 1 {
			o.rdt *= 0.9 // aims below dpmax after a reduction
		}
	}

	// stiffness
	if ktype == NoStiffness {
		return true
	}
	o.SmallElasticity.CalcD(kt)
	if ktype == Elastic || ktype == SecantOperator || !o.viscous {
		return true
	}
	G2 := o.G * o.G
	c1 := 6.0 * G2 * o.dp / o.qtr
	c2 := 4.0*G2*o.dp/o.qtr - 4.0*G2*o.hcoef/(1.0+3.0*o.G*o.hcoef)
	for i := 0; i < nsig; i++ {
		for j := 0; j < nsig; j++ {
			kt[i][j] += -c1*psd[i][j] + c2*o.nrm[i]*o.nrm[j]
		}
	}
	return true
}

// solve solves g(Δp) = Δp - dt A (qtr - 3G Δp)^N = 0 with Newton's method safeguarded by bisection
func (o *Norton) solve(A, N, dt float64) bool {
	G3 := 3.0 * o.G
	pmin, pmax := 0.0, o.qtr/G3
	scale := pmax
	Δp := 0.0
	for o.NlIt = 0; o.NlIt < o.ItMax; o.NlIt++ {
		seq := o.qtr - G3*Δp
		g := Δp - dt*A*math.Pow(seq, N)
		if math.Abs(g) <= o.Eps*scale {
			o.dp = Δp
			o.hcoef = dt * A * N * math.Pow(seq, N-1)
			return true
		}
		if g < 0 {
			pmin = Δp
		} else {
			pmax = Δp
		}
		dg := 1.0 + G3*dt*A*N*math.Pow(seq, N-1)
		Δp -= g / dg
		if Δp <= pmin || Δp >= pmax || math.IsNaN(Δp) {
			Δp = (pmin + pmax) / 2.0
		}
	}
	return false
}
