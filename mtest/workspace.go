// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mtest

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/mat"
)

// WorkSpace holds the buffers of the Newton iterations
//  Note: everything is allocated once and reused
type WorkSpace struct {

	// linear system: K·du = r
	K  [][]float64 // [nu][nu] stiffness
	R  []float64   // [nu] residual
	Du []float64   // [nu] correction

	// behaviour
	Kt  [][]float64 // [nth][ndv] tangent operator
	Nkt [][]float64 // [nth][ndv] numerical tangent operator
	Kp  [][]float64 // [nth][ndv] scratch operator of perturbed integrations
	Sp  []float64   // [nth] perturbed forces (+)
	Sm  []float64   // [nth] perturbed forces (-)

	// saved end-of-step values during perturbations
	e1, s1, iv1 []float64

	// error norms of the current and previous iterations
	Ne   float64
	Nep  float64
	Nep2 float64

	// dense solver
	kd *mat.Dense
	rv *mat.VecDense
	dv *mat.VecDense
	lu mat.LU
}

// NewWorkSpace allocates workspace
func NewWorkSpace(nu, ndv, nth, niv int) *WorkSpace {
	var o WorkSpace
	o.K = utl.Alloc(nu, nu)
	o.R = make([]float64, nu)
	o.Du = make([]float64, nu)
	o.Kt = utl.Alloc(nth, ndv)
	o.Nkt = utl.Alloc(nth, ndv)
	o.Sp = make([]float64, nth)
	o.Sm = make([]float64, nth)
	o.Kp = utl.Alloc(nth, ndv)
	o.e1 = make([]float64, ndv)
	o.s1 = make([]float64, nth)
	o.iv1 = make([]float64, niv)
	o.kd = mat.NewDense(nu, nu, nil)
	o.rv = mat.NewVecDense(nu, nil)
	o.dv = mat.NewVecDense(nu, nil)
	return &o
}

// Clear zeroes K and R
func (o *WorkSpace) Clear() {
	for i := range o.K {
		for j := range o.K[i] {
			o.K[i][j] = 0
		}
		o.R[i] = 0
	}
}

// Solve solves K·du = r
func (o *WorkSpace) Solve() (err error) {
	nu := len(o.R)
	for i := 0; i < nu; i++ {
		o.kd.SetRow(i, o.K[i])
		o.rv.SetVec(i, o.R[i])
	}
	o.lu.Factorize(o.kd)
	err = o.lu.SolveVecTo(o.dv, false, o.rv)
	if err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return chk.Err("singular stiffness matrix: %v", err)
		}
	}
	for i := 0; i < nu; i++ {
		o.Du[i] = o.dv.AtVec(i)
		if math.IsNaN(o.Du[i]) || math.IsInf(o.Du[i], 0) {
			return chk.Err("singular stiffness matrix")
		}
	}
	return nil
}
