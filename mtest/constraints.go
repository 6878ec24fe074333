// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mtest

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/thelfer/tfel-sub019/evol"
	"github.com/thelfer/tfel-sub019/msolid"
)

// Constraint adds rows to the Newton system and defines a convergence test
type Constraint interface {

	// NumberOfLagrangeMultipliers returns the number of extra unknowns
	NumberOfLagrangeMultipliers() int

	// SetValues adds the contribution of the constraint to K and r
	//  Input:
	//   u0, u1 -- unknowns at the beginning and current estimate of the end of the time step
	//   kt     -- tangent operator of the behaviour
	//   s1     -- thermodynamic forces at the end of the time step
	//   pos    -- position of the first Lagrange multiplier of this constraint
	//   dim    -- space dimension
	//   a      -- normalisation factor of the Lagrange multipliers
	SetValues(K [][]float64, r, u0, u1 []float64, kt [][]float64, s1 []float64, pos, dim int, t, dt, a float64)

	// CheckConvergence returns true if the constraint is satisfied
	CheckConvergence(u1, s1 []float64, eeps, seps, t, dt float64) bool

	// FailedCriteriaDiagnostic explains why the convergence test failed
	FailedCriteriaDiagnostic(u1, s1 []float64, eeps, seps, t, dt float64) string
}

// ImposedDrivingVariable imposes one component of the driving variables
type ImposedDrivingVariable struct {
	C  int            // component
	Ev evol.Evolution // imposed value
}

// NewImposedDrivingVariable returns a new constraint on the component named c of the driving variables
func NewImposedDrivingVariable(b msolid.Behaviour, h msolid.Hypothesis, c string, ev evol.Evolution) (*ImposedDrivingVariable, error) {
	idx, err := componentIndex(b.DrivingVariablesComponents(h), c)
	if err != nil {
		return nil, chk.Err("ImposedDrivingVariable: %v", err)
	}
	return &ImposedDrivingVariable{C: idx, Ev: ev}, nil
}

// NumberOfLagrangeMultipliers returns 1
func (o *ImposedDrivingVariable) NumberOfLagrangeMultipliers() int { return 1 }

// SetValues adds the contribution of the constraint to K and r
func (o *ImposedDrivingVariable) SetValues(K [][]float64, r, u0, u1 []float64, kt [][]float64, s1 []float64, pos, dim int, t, dt, a float64) {
	K[pos][o.C] -= a
	K[o.C][pos] -= a
	r[pos] -= a * (u1[o.C] - o.Ev.F(t+dt))
	r[o.C] -= a * u1[pos]
}

// CheckConvergence returns true if the component is reached
func (o *ImposedDrivingVariable) CheckConvergence(u1, s1 []float64, eeps, seps, t, dt float64) bool {
	return math.Abs(u1[o.C]-o.Ev.F(t+dt)) <= eeps
}

// FailedCriteriaDiagnostic explains why the convergence test failed
func (o *ImposedDrivingVariable) FailedCriteriaDiagnostic(u1, s1 []float64, eeps, seps, t, dt float64) string {
	return io.Sf("imposed driving variable not reached (error : %g, criterion : %g)", math.Abs(u1[o.C]-o.Ev.F(t+dt)), eeps)
}

// ImposedThermodynamicForce imposes one component of the thermodynamic forces
type ImposedThermodynamicForce struct {
	C      int            // component
	Ev     evol.Evolution // imposed value
	Finite bool           // finite strain behaviour: off-diagonal components are duplicated
}

// NewImposedThermodynamicForce returns a new constraint on the component named c of the thermodynamic forces
func NewImposedThermodynamicForce(b msolid.Behaviour, h msolid.Hypothesis, c string, ev evol.Evolution) (*ImposedThermodynamicForce, error) {
	idx, err := componentIndex(b.ThermodynamicForcesComponents(h), c)
	if err != nil {
		return nil, chk.Err("ImposedThermodynamicForce: %v", err)
	}
	return &ImposedThermodynamicForce{C: idx, Ev: ev, Finite: b.Type() == msolid.FiniteStrain}, nil
}

// NumberOfLagrangeMultipliers returns 0
func (o *ImposedThermodynamicForce) NumberOfLagrangeMultipliers() int { return 0 }

// SetValues adds the contribution of the constraint to r
func (o *ImposedThermodynamicForce) SetValues(K [][]float64, r, u0, u1 []float64, kt [][]float64, s1 []float64, pos, dim int, t, dt, a float64) {
	v := o.Ev.F(t + dt)
	if o.Finite && o.C >= 3 {
		r[2*(o.C-3)+3] -= v
		r[2*(o.C-3)+4] -= v
		return
	}
	r[o.C] -= v
}

// CheckConvergence returns true if the component is reached
func (o *ImposedThermodynamicForce) CheckConvergence(u1, s1 []float64, eeps, seps, t, dt float64) bool {
	return math.Abs(s1[o.C]-o.Ev.F(t+dt)) <= seps
}

// FailedCriteriaDiagnostic explains why the convergence test failed
func (o *ImposedThermodynamicForce) FailedCriteriaDiagnostic(u1, s1 []float64, eeps, seps, t, dt float64) string {
	return io.Sf("imposed thermodynamic force not reached (error : %g, criterion : %g)", math.Abs(s1[o.C]-o.Ev.F(t+dt)), seps)
}

// LinearConstraint imposes Σ a_i u_i + Σ b_j s_j = ev(t)
//  Note: the thermodynamic forces are linearised with the tangent operator
type LinearConstraint struct {
	Udv  []int          // components of the driving variables
	Adv  []float64      // coefficients of the driving variables
	Uth  []int          // components of the thermodynamic forces
	Bth  []float64      // coefficients of the thermodynamic forces
	Ev   evol.Evolution // right-hand side
	Ndv  int            // number of driving variables
	Kind ConstraintKind // normalisation policy
}

// ConstraintKind tells whether a linear constraint is normalised as a driving
// variable or as a thermodynamic force constraint
type ConstraintKind int

// constraint kinds
const (
	DrivingVariableConstraint ConstraintKind = iota
	ThermodynamicForceConstraint
)

// LinearTerm is one term of a linear constraint
type LinearTerm struct {
	Name  string  // component name; e.g. "EXX" or "SXX"
	Coeff float64 // coefficient
}

// NewLinearConstraint returns a new linear constraint
func NewLinearConstraint(b msolid.Behaviour, h msolid.Hypothesis, terms []LinearTerm, ev evol.Evolution, kind ConstraintKind) (*LinearConstraint, error) {
	if len(terms) == 0 {
		return nil, chk.Err("LinearConstraint: no terms given")
	}
	o := &LinearConstraint{Ev: ev, Ndv: b.DrivingVariablesSize(h), Kind: kind}
	dvs := b.DrivingVariablesComponents(h)
	ths := b.ThermodynamicForcesComponents(h)
	for _, term := range terms {
		if idx, err := componentIndex(dvs, term.Name); err == nil {
			o.Udv = append(o.Udv, idx)
			o.Adv = append(o.Adv, term.Coeff)
			continue
		}
		idx, err := componentIndex(ths, term.Name)
		if err != nil {
			return nil, chk.Err("LinearConstraint: %q is neither a driving variable nor a thermodynamic force", term.Name)
		}
		o.Uth = append(o.Uth, idx)
		o.Bth = append(o.Bth, term.Coeff)
	}
	return o, nil
}

// NumberOfLagrangeMultipliers returns 1
func (o *LinearConstraint) NumberOfLagrangeMultipliers() int { return 1 }

// value computes the value of the constraint
func (o *LinearConstraint) value(u1, s1 []float64, t, dt float64) (c float64) {
	for i, k := range o.Udv {
		c += o.Adv[i] * u1[k]
	}
	for j, k := range o.Uth {
		c += o.Bth[j] * s1[k]
	}
	return c - o.Ev.F(t+dt)
}

// SetValues adds the contribution of the constraint to K and r
func (o *LinearConstraint) SetValues(K [][]float64, r, u0, u1 []float64, kt [][]float64, s1 []float64, pos, dim int, t, dt, a float64) {
	nf := 1.0
	if o.Kind == DrivingVariableConstraint {
		nf = a
	}
	l := u1[pos]
	r[pos] -= nf * o.value(u1, s1, t, dt)
	for i, k := range o.Udv {
		K[pos][k] -= nf * o.Adv[i]
		K[k][pos] -= nf * o.Adv[i]
		r[k] -= nf * o.Adv[i] * l
	}
	for j, m := range o.Uth {
		for k := 0; k < o.Ndv; k++ {
			v := nf * o.Bth[j] * kt[m][k]
			K[pos][k] -= v
			K[k][pos] -= v
			r[k] -= v * l
		}
	}
}

// CheckConvergence returns true if the constraint is satisfied
func (o *LinearConstraint) CheckConvergence(u1, s1 []float64, eeps, seps, t, dt float64) bool {
	c := math.Abs(o.value(u1, s1, t, dt))
	if o.Kind == DrivingVariableConstraint {
		return c <= eeps
	}
	return c <= seps
}

// FailedCriteriaDiagnostic explains why the convergence test failed
func (o *LinearConstraint) FailedCriteriaDiagnostic(u1, s1 []float64, eeps, seps, t, dt float64) string {
	eps := eeps
	if o.Kind == ThermodynamicForceConstraint {
		eps = seps
	}
	return io.Sf("imposed constraint not reached (constraint value: %g, criteria : %g)", o.value(u1, s1, t, dt), eps)
}

// componentIndex returns the position of name in names
func componentIndex(names []string, name string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return -1, chk.Err("invalid component %q; valid components are %v", name, names)
}
