// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/mat"
)

// OrthoElast implements orthotropic linear elasticity
//  material properties: YoungModulus1, YoungModulus2, YoungModulus3,
//                       PoissonRatio12, PoissonRatio23, PoissonRatio13,
//                       ShearModulus12, ShearModulus23, ShearModulus13
//  Note: the moduli are given in the material frame
type OrthoElast struct {
	Traits

	// auxiliary
	S  *mat.Dense  // compliance in the material frame [6][6]
	Di mat.Dense   // stiffness in the material frame [6][6]
	D  [][]float64 // restricted stiffness in the material frame [nsig][nsig]
	Q  [][]float64 // rotation of stensors [nsig][nsig]
	K  [][]float64 // stiffness in the global frame [nsig][nsig]
	Δε []float64   // strain increment
}

// add model to factory
func init() {
	allocators["ortho-elastic"] = func() Behaviour { return new(OrthoElast) }
}

// Init initialises model
func (o *OrthoElast) Init(prms dbf.Params) (err error) {
	o.Traits = Traits{
		Btype: SmallStrain,
		Sym:   Orthotropic,
		Mpnames: []string{
			"YoungModulus1", "YoungModulus2", "YoungModulus3",
			"PoissonRatio12", "PoissonRatio23", "PoissonRatio13",
			"ShearModulus12", "ShearModulus23", "ShearModulus13",
		},
	}
	if len(prms) > 0 {
		return chk.Err("ortho-elastic: parameter named %q is incorrect\n", prms[0].N)
	}
	o.S = mat.NewDense(6, 6, nil)
	return
}

// ComputePredictionOperator computes the elastic stiffness in the global frame
func (o *OrthoElast) ComputePredictionOperator(kt [][]float64, s *State, h Hypothesis, ktype StiffnessMatrixType) bool {
	if !o.calcK(s) {
		return false
	}
	for i := range kt {
		copy(kt[i], o.K[i])
	}
	return true
}

// Integrate updates stresses
func (o *OrthoElast) Integrate(kt [][]float64, s *State, h Hypothesis, dt float64, ktype StiffnessMatrixType) bool {
	if !o.calcK(s) {
		return false
	}
	for i := range o.Δε {
		o.Δε[i] = s.E1[i] - s.E0[i]
	}
	for i := range s.S1 {
		s.S1[i] = s.S0[i]
		for j := range o.Δε {
			s.S1[i] += o.K[i][j] * o.Δε[j]
		}
	}
	if ktype != NoStiffness {
		for i := range kt {
			copy(kt[i], o.K[i])
		}
	}
	return true
}

// calcK computes the stiffness in the global frame: K = Q·D·Qᵀ
func (o *OrthoElast) calcK(s *State) bool {

	// allocate
	nsig := len(s.S1)
	if len(o.D) != nsig {
		o.D = utl.Alloc(nsig, nsig)
		o.Q = utl.Alloc(nsig, nsig)
		o.K = utl.Alloc(nsig, nsig)
		o.Δε = make([]float64, len(s.E1))
	}

	// compliance
	m := s.Mprops
	E1, E2, E3 := m[0], m[1], m[2]
	ν12, ν23, ν13 := m[3], m[4], m[5]
	G12, G23, G13 := m[6], m[7], m[8]
	if E1 <= 0 || E2 <= 0 || E3 <= 0 || G12 <= 0 || G23 <= 0 || G13 <= 0 {
		return false
	}
	o.S.Zero()
	o.S.Set(0, 0, 1.0/E1)
	o.S.Set(1, 1, 1.0/E2)
	o.S.Set(2, 2, 1.0/E3)
	o.S.Set(0, 1, -ν12/E1)
	o.S.Set(1, 0, -ν12/E1)
	o.S.Set(0, 2, -ν13/E1)
	o.S.Set(2, 0, -ν13/E1)
	o.S.Set(1, 2, -ν23/E2)
	o.S.Set(2, 1, -ν23/E2)
	o.S.Set(3, 3, 1.0/(2.0*G12))
	o.S.Set(4, 4, 1.0/(2.0*G13))
	o.S.Set(5, 5, 1.0/(2.0*G23))

	// stiffness
	err := o.Di.Inverse(o.S)
	if err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return false
		}
	}
	for i := 0; i < nsig; i++ {
		for j := 0; j < nsig; j++ {
			o.D[i][j] = o.Di.At(i, j)
		}
	}

	// rotate
	StensorRotation(o.Q, s.R)
	RotateOperator(o.K, o.D, o.Q)
	return true
}
