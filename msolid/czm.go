// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// CzElastic implements a linear cohesive zone model
//  material properties: NormalStiffness, TangentialStiffness
//  t_n = kn u_n ,  t_t = kt u_t
type CzElastic struct {
	Traits
}

// add model to factory
func init() {
	allocators["cz-elastic"] = func() Behaviour { return new(CzElastic) }
}

// Init initialises model
func (o *CzElastic) Init(prms dbf.Params) (err error) {
	o.Traits = Traits{
		Btype:   CohesiveZone,
		Mpnames: []string{"NormalStiffness", "TangentialStiffness"},
	}
	if len(prms) > 0 {
		return chk.Err("cz-elastic: parameter named %q is incorrect\n", prms[0].N)
	}
	return
}

// ComputePredictionOperator computes the stiffness
func (o *CzElastic) ComputePredictionOperator(kt [][]float64, s *State, h Hypothesis, ktype StiffnessMatrixType) bool {
	return o.stiffness(kt, s)
}

// Integrate computes the cohesive forces
func (o *CzElastic) Integrate(kt [][]float64, s *State, h Hypothesis, dt float64, ktype StiffnessMatrixType) bool {
	kn, ks := s.Mprops[0], s.Mprops[1]
	if kn <= 0 || ks <= 0 {
		return false
	}
	s.S1[0] = kn * s.E1[0]
	for i := 1; i < len(s.S1); i++ {
		s.S1[i] = ks * s.E1[i]
	}
	if ktype == NoStiffness {
		return true
	}
	return o.stiffness(kt, s)
}

// stiffness sets the diagonal stiffness
func (o *CzElastic) stiffness(kt [][]float64, s *State) bool {
	kn, ks := s.Mprops[0], s.Mprops[1]
	if kn <= 0 || ks <= 0 {
		return false
	}
	for i := range kt {
		for j := range kt[i] {
			kt[i][j] = 0
		}
		kt[i][i] = ks
	}
	kt[0][0] = kn
	return true
}
