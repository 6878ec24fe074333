// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Calc_K_from_Enu computes the bulk modulus from E and ν
func Calc_K_from_Enu(E, ν float64) float64 { return E / (3.0 * (1.0 - 2.0*ν)) }

// Calc_G_from_Enu computes the shear modulus from E and ν
func Calc_G_from_Enu(E, ν float64) float64 { return E / (2.0 * (1.0 + ν)) }

// SmallElasticity implements isotropic linear elasticity for small strains
type SmallElasticity struct {
	E  float64 // Young's modulus
	Nu float64 // Poisson's coefficient
	K  float64 // bulk modulus
	G  float64 // shear modulus
}

// Set sets the elastic moduli from E and ν
func (o *SmallElasticity) Set(E, ν float64) (err error) {
	if E <= 0 || ν <= -1 || ν >= 0.5 {
		return chk.Err("invalid elastic constants: E=%g ν=%g", E, ν)
	}
	o.E, o.Nu = E, ν
	o.K = Calc_K_from_Enu(E, ν)
	o.G = Calc_G_from_Enu(E, ν)
	return
}

// CalcD computes the elastic stiffness D = K I⊗I + 2G Psd
func (o *SmallElasticity) CalcD(D [][]float64) {
	n := len(D)
	for i := 0; i < n; i++ {
		for j := 0; j < len(D[i]); j++ {
			D[i][j] = o.K*im[i]*im[j] + 2.0*o.G*psd[i][j]
		}
	}
}

// Update computes σ = σ0 + D:Δε
func (o *SmallElasticity) Update(σ, σ0, Δε []float64) {
	trΔε := Δε[0] + Δε[1] + Δε[2]
	for i := 0; i < len(σ); i++ {
		σ[i] = σ0[i] + o.K*trΔε*im[i] + 2.0*o.G*(Δε[i]-trΔε*im[i]/3.0)
	}
}

// LinElast implements isotropic linear elasticity
//  material properties: YoungModulus, PoissonRatio
type LinElast struct {
	Traits
	SmallElasticity
	Δε []float64 // strain increment
}

// add model to factory
func init() {
	allocators["elastic"] = func() Behaviour { return new(LinElast) }
}

// Init initialises model
func (o *LinElast) Init(prms dbf.Params) (err error) {
	o.Traits = Traits{
		Btype:   SmallStrain,
		Mpnames: []string{"YoungModulus", "PoissonRatio"},
	}
	if len(prms) > 0 {
		return chk.Err("elastic: parameter named %q is incorrect\n", prms[0].N)
	}
	return
}

// ComputePredictionOperator computes the elastic stiffness
func (o *LinElast) ComputePredictionOperator(kt [][]float64, s *State, h Hypothesis, ktype StiffnessMatrixType) bool {
	if o.SmallElasticity.Set(s.Mprops[0], s.Mprops[1]) != nil {
		return false
	}
	o.CalcD(kt)
	return true
}

// Integrate updates stresses
func (o *LinElast) Integrate(kt [][]float64, s *State, h Hypothesis, dt float64, ktype StiffnessMatrixType) bool {
	if o.SmallElasticity.Set(s.Mprops[0], s.Mprops[1]) != nil {
		return false
	}
	if len(o.Δε) != len(s.E1) {
		o.Δε = make([]float64, len(s.E1))
	}
	for i := range o.Δε {
		o.Δε[i] = s.E1[i] - s.E0[i]
	}
	o.Update(s.S1, s.S0, o.Δε)
	if ktype != NoStiffness {
		o.CalcD(kt)
	}
	return true
}
