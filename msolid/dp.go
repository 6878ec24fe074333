// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// DruckerPrager implements Drucker-Prager plasticity model with linear hardening
//  material properties:   YoungModulus, PoissonRatio
//  parameters:            M, Mb, qy0, H  or  c, phi, typ (Mohr-Coulomb match)
//  internal variables:    EquivalentPlasticStrain (α)
//  Note: p = -tr(σ)/3 is positive in compression
type DruckerPrager struct {
	Traits
	SmallElasticity
	M   float64 // slope of fc line
	Mb  float64 // slope of fc line of plastic potential
	qy0 float64 // initial qy
	H   float64 // hardening variable

	// auxiliary
	ten []float64 // auxiliary tensor
	Δε  []float64 // strain increment

	// results of last update
	dgam       float64 // Δγ: increment of Lagrange multiplier
	loading    bool    // elastoplastic loading
	apexReturn bool    // return-to-apex
}

// add model to factory
func init() {
	allocators["dp"] = func() Behaviour { return new(DruckerPrager) }
}

// Init initialises model
func (o *DruckerPrager) Init(prms dbf.Params) (err error) {

	// declarations
	o.Traits = Traits{
		Btype:   SmallStrain,
		Mpnames: []string{"YoungModulus", "PoissonRatio"},
		Ivnames: []string{"EquivalentPlasticStrain"},
		Ivtypes: []VarType{Scalar},
	}

	// parse parameters
	var c, φ float64
	var typ int
	for _, p := range prms {
		switch p.N {
		case "M":
			o.M = p.V
		case "Mb":
			o.Mb = p.V
		case "qy0":
			o.qy0 = p.V
		case "H":
			o.H = p.V
		case "c":
			c = p.V
		case "phi":
			φ = p.V
		case "typ":
			typ = int(p.V)
		default:
			return chk.Err("dp: parameter named %q is incorrect\n", p.N)
		}
	}

	// compute M from φ
	//  typ == 0 : compression cone (outer)
	//      == 1 : extension cone (inner)
	//      == 2 : plane-strain
	if φ > 0 {
		o.M, o.qy0, err = Mmatch(c, φ, typ)
		if err != nil {
			return
		}
		o.Mb = o.M
	}
	if o.qy0 <= 0 {
		return chk.Err("dp: qy0 must be positive. qy0=%g is invalid\n", o.qy0)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o DruckerPrager) GetPrms() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "M", V: 1},
		&dbf.P{N: "Mb", V: 1},
		&dbf.P{N: "qy0", V: 0.5},
		&dbf.P{N: "H", V: 0},
	}
}

// ComputePredictionOperator computes the elastic stiffness
func (o *DruckerPrager) ComputePredictionOperator(kt [][]float64, s *State, h Hypothesis, ktype StiffnessMatrixType) bool {
	if o.SmallElasticity.Set(s.Mprops[0], s.Mprops[1]) != nil {
		return false
	}
	o.SmallElasticity.CalcD(kt)
	return true
}

// Integrate updates stresses for given strains
func (o *DruckerPrager) Integrate(kt [][]float64, s *State, h Hypothesis, dt float64, ktype StiffnessMatrixType) bool {
	if o.SmallElasticity.Set(s.Mprops[0], s.Mprops[1]) != nil {
		return false
	}
	nsig := len(s.S1)
	if len(o.ten) != nsig {
		o.ten = make([]float64, nsig)
		o.Δε = make([]float64, nsig)
	}
	for i := 0; i < nsig; i++ {
		o.Δε[i] = s.E1[i] - s.E0[i]
	}
	o.update(s.S1, &s.Iv1[0], s.S0, s.Iv0[0], o.Δε)
	if ktype == NoStiffness {
		return true
	}
	switch ktype {
	case Elastic, SecantOperator:
		o.SmallElasticity.CalcD(kt)
	case TangentOperator:
		o.ContD(kt, s.S1)
	default:
		o.CalcD(kt, s.S1)
	}
	return true
}

// update performs the return mapping
func (o *DruckerPrager) update(σ []float64, α1 *float64, σ0 []float64, α0 float64, Δε []float64) {

	// set flags
	o.loading = false    // => not elastoplastic
	o.apexReturn = false // => not return-to-apex
	o.dgam = 0           // Δγ := 0
	*α1 = α0

	// trial stress
	var devΔε_i float64
	trΔε := Δε[0] + Δε[1] + Δε[2]
	for i := 0; i < len(σ); i++ {
		devΔε_i = Δε[i] - trΔε*im[i]/3.0
		o.ten[i] = σ0[i] + o.K*trΔε*im[i] + 2.0*o.G*devΔε_i // ten := σtr
	}
	ptr, qtr := Pinv(o.ten), Qinv(o.ten)

	// trial yield function
	ftr := qtr - o.M*ptr - o.qy0 - o.H*α0

	// elastic update
	if ftr <= 0.0 {
		copy(σ, o.ten) // σ := ten = σtr
		return
	}

	// elastoplastic update
	var str_i float64
	hp := 3.0*o.G + o.K*o.M*o.Mb + o.H
	o.dgam = ftr / hp
	*α1 = α0 + o.dgam
	pnew := ptr + o.dgam*o.K*o.Mb
	m := 1.0 - o.dgam*3.0*o.G/qtr
	for i := 0; i < len(σ); i++ {
		str_i = o.ten[i] + ptr*im[i]
		σ[i] = m*str_i - pnew*im[i]
	}
	o.loading = true

	// check for apex singularity
	acone := qtr - o.dgam*3.0*o.G
	if acone < 0 {
		o.dgam = (-o.M*ptr - o.qy0 - o.H*α0) / (3.0*o.K*o.M + o.H)
		*α1 = α0 + o.dgam
		pnew = ptr + o.dgam*3.0*o.K
		for i := 0; i < len(σ); i++ {
			σ[i] = -pnew * im[i]
		}
		o.apexReturn = true
	}
}

// CalcD computes D = dσ_new/dε_new consistent with the return mapping
func (o *DruckerPrager) CalcD(D [][]float64, σ []float64) {

	// elastic
	if !o.loading {
		o.SmallElasticity.CalcD(D)
		return
	}

	// return to apex
	nsig := len(σ)
	if o.apexReturn {
		a1 := o.K * o.H / (3.0*o.K*o.M + o.H)
		for i := 0; i < nsig; i++ {
			for j := 0; j < nsig; j++ {
				D[i][j] = a1 * im[i] * im[j]
			}
		}
		return
	}

	// elastoplastic => consistent stiffness
	Δγ := o.dgam
	p, q := Pinv(σ), Qinv(σ)
	qtr := q + Δγ*3.0*o.G
	m := 1.0 - Δγ*3.0*o.G/qtr
	nstr := sq2by3 * qtr // norm(str)
	for i := 0; i < nsig; i++ {
		o.ten[i] = (σ[i] + p*im[i]) / (m * nstr) // ten := unit(str) = snew / (m * nstr)
	}
	hp := 3.0*o.G + o.K*o.M*o.Mb + o.H
	a1 := o.K - o.K*o.K*o.Mb*o.M/hp
	a2 := -2.0 * o.G * o.K * o.Mb * sq3by2 / hp
	b1 := -sq6 * o.G * o.M * o.K / hp
	b2 := 6.0 * o.G * o.G * (Δγ/qtr - 1.0/hp)
	for i := 0; i < nsig; i++ {
		for j := 0; j < nsig; j++ {
			D[i][j] = 2.0*o.G*m*psd[i][j] +
				a1*im[i]*im[j] +
				a2*im[i]*o.ten[j] +
				b1*o.ten[i]*im[j] +
				b2*o.ten[i]*o.ten[j]
		}
	}
}

// ContD computes D = dσ_new/dε_new continuous
func (o *DruckerPrager) ContD(D [][]float64, σ []float64) {

	// elastic part
	o.SmallElasticity.CalcD(D)

	// only elastic
	if !o.loading {
		return
	}

	// apex: the continuum operator is not defined; use the consistent one
	if o.apexReturn {
		o.CalcD(D, σ)
		return
	}

	// elastoplastic
	nsig := len(σ)
	d1 := o.K*o.Mb*o.M + 3.0*o.G + o.H
	a1 := o.K * o.K * o.Mb * o.M / d1
	a2 := sq6 * o.K * o.G * o.Mb / d1
	a3 := sq6 * o.K * o.G * o.M / d1
	a4 := 6.0 * o.G * o.G / d1
	Dev(o.ten, σ) // ten := dev(σ)
	var sno float64
	for i := 0; i < nsig; i++ {
		sno += o.ten[i] * o.ten[i]
	}
	sno = math.Sqrt(sno)
	for i := 0; i < nsig; i++ {
		for j := 0; j < nsig; j++ {
			D[i][j] -= a1*im[i]*im[j] +
				a2*im[i]*o.ten[j]/sno +
				a3*o.ten[i]*im[j]/sno +
				a4*o.ten[i]*o.ten[j]/(sno*sno)
		}
	}
}

// YieldFunc computes the yield function
func (o DruckerPrager) YieldFunc(σ []float64, α float64) float64 {
	return Qinv(σ) - o.M*Pinv(σ) - o.qy0 - o.H*α
}
