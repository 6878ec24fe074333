// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
)

// SaintVenantKirchhoff implements a Saint-Venant-Kirchhoff hyperelastic model
//  material properties: YoungModulus, PoissonRatio
//  parameters:          pv: perturbation of the deformation gradient for the numerical tangent
//  S = λ tr(E) I + 2 μ E ,  E = (Fᵀ·F - I)/2 ,  σ = F·S·Fᵀ / J
type SaintVenantKirchhoff struct {
	Traits
	Pv  float64 // perturbation value
	λ   float64 // Lamé's first parameter
	μ   float64 // shear modulus
	fm  [][]float64
	sm  [][]float64
	tmp [][]float64
	fp  []float64 // perturbed deformation gradient
	sp  []float64 // perturbed stress
	sn  []float64
}

// add model to factory
func init() {
	allocators["svk"] = func() Behaviour { return new(SaintVenantKirchhoff) }
}

// Init initialises model
func (o *SaintVenantKirchhoff) Init(prms dbf.Params) (err error) {
	o.Traits = Traits{
		Btype:   FiniteStrain,
		Mpnames: []string{"YoungModulus", "PoissonRatio"},
	}
	o.Pv = 1e-7
	for _, p := range prms {
		switch p.N {
		case "pv":
			o.Pv = p.V
		default:
			return chk.Err("svk: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Pv <= 0 {
		return chk.Err("svk: perturbation value must be positive. pv=%g is invalid\n", o.Pv)
	}
	o.fm = utl.Alloc(3, 3)
	o.sm = utl.Alloc(3, 3)
	o.tmp = utl.Alloc(3, 3)
	return
}

// ComputePredictionOperator computes the tangent at the beginning of the time step
func (o *SaintVenantKirchhoff) ComputePredictionOperator(kt [][]float64, s *State, h Hypothesis, ktype StiffnessMatrixType) bool {
	if !o.setModuli(s) {
		return false
	}
	return o.tangent(kt, s.E0)
}

// Integrate computes the Cauchy stress for given deformation gradient
func (o *SaintVenantKirchhoff) Integrate(kt [][]float64, s *State, h Hypothesis, dt float64, ktype StiffnessMatrixType) bool {
	if !o.setModuli(s) {
		return false
	}
	if !o.Cauchy(s.S1, s.E1) {
		return false
	}
	if ktype == NoStiffness {
		return true
	}
	return o.tangent(kt, s.E1)
}

// Cauchy computes the Cauchy stress σ (Mandel components) for the deformation gradient f
func (o *SaintVenantKirchhoff) Cauchy(σ, f []float64) bool {

	// F and J
	F := o.fm
	TensorToMatrix(F, f)
	J := F[0][0]*(F[1][1]*F[2][2]-F[1][2]*F[2][1]) -
		F[0][1]*(F[1][0]*F[2][2]-F[1][2]*F[2][0]) +
		F[0][2]*(F[1][0]*F[2][1]-F[1][1]*F[2][0])
	if J <= 0 {
		return false
	}

	// Green-Lagrange strain and second Piola-Kirchhoff stress
	var trE float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			o.tmp[i][j] = 0
			for k := 0; k < 3; k++ {
				o.tmp[i][j] += F[k][i] * F[k][j]
			}
			o.tmp[i][j] /= 2.0
		}
		o.tmp[i][i] -= 0.5
		trE += o.tmp[i][i]
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			o.sm[i][j] = 2.0 * o.μ * o.tmp[i][j]
		}
		o.sm[i][i] += o.λ * trE
	}

	// push forward: σ = F·S·Fᵀ / J
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			o.tmp[i][j] = 0
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					o.tmp[i][j] += F[i][k] * o.sm[k][l] * F[j][l]
				}
			}
			o.tmp[i][j] /= J
		}
	}
	MatrixToStensor(σ, o.tmp)
	return true
}

// setModuli computes the Lamé parameters
func (o *SaintVenantKirchhoff) setModuli(s *State) bool {
	E, ν := s.Mprops[0], s.Mprops[1]
	if E <= 0 || ν <= -1 || ν >= 0.5 {
		return false
	}
	o.λ = E * ν / ((1.0 + ν) * (1.0 - 2.0*ν))
	o.μ = E / (2.0 * (1.0 + ν))
	return true
}

// tangent computes kt = dσ/dF by central differences
func (o *SaintVenantKirchhoff) tangent(kt [][]float64, f []float64) bool {
	nth, ndv := len(kt), len(f)
	if len(o.fp) != ndv || len(o.sp) != nth {
		o.fp = make([]float64, ndv)
		o.sp = make([]float64, nth)
		o.sn = make([]float64, nth)
	}
	copy(o.fp, f)
	for j := 0; j < ndv; j++ {
		o.fp[j] = f[j] + o.Pv
		if !o.Cauchy(o.sp, o.fp) {
			return false
		}
		o.fp[j] = f[j] - o.Pv
		if !o.Cauchy(o.sn, o.fp) {
			return false
		}
		o.fp[j] = f[j]
		for i := 0; i < nth; i++ {
			kt[i][j] = (o.sp[i] - o.sn[i]) / (2.0 * o.Pv)
		}
	}
	return true
}
