// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Traits implements the queries of Behaviour that only depend on declarations
type Traits struct {
	Btype    BehaviourType       // behaviour type
	Sym      SymmetryType        // symmetry
	Mpnames  []string            // material properties
	Esvnames []string            // external state variables, besides the temperature
	Ivnames  []string            // internal state variables
	Ivtypes  []VarType           // types of internal state variables
	Ktype    StiffnessMatrixType // default stiffness matrix type
}

// CheckHypothesis returns an error if the hypothesis is not supported
func (o *Traits) CheckHypothesis(h Hypothesis) error {
	if h == UndefinedHypothesis {
		return chk.Err("modelling hypothesis is not set")
	}
	if o.Btype == CohesiveZone && h.SpaceDimension() == 1 {
		return chk.Err("cohesive zone models are not available in %v", h)
	}
	return nil
}

// Type returns the behaviour type
func (o *Traits) Type() BehaviourType { return o.Btype }

// Symmetry returns the material symmetry
func (o *Traits) Symmetry() SymmetryType { return o.Sym }

// DrivingVariablesSize returns the number of driving variables
func (o *Traits) DrivingVariablesSize(h Hypothesis) int {
	switch o.Btype {
	case FiniteStrain:
		return h.TensorSize()
	case CohesiveZone:
		return h.SpaceDimension()
	}
	return h.StensorSize()
}

// ThermodynamicForcesSize returns the number of thermodynamic forces
func (o *Traits) ThermodynamicForcesSize(h Hypothesis) int {
	if o.Btype == CohesiveZone {
		return h.SpaceDimension()
	}
	return h.StensorSize()
}

// DrivingVariablesComponents returns the names of the driving variables
func (o *Traits) DrivingVariablesComponents(h Hypothesis) (names []string) {
	switch o.Btype {
	case FiniteStrain:
		for _, c := range h.TensorComponents() {
			names = append(names, "F"+c)
		}
	case CohesiveZone:
		names = cohesiveComponents("U", h)
	default:
		for _, c := range h.StensorComponents() {
			names = append(names, "E"+c)
		}
	}
	return
}

// ThermodynamicForcesComponents returns the names of the thermodynamic forces
func (o *Traits) ThermodynamicForcesComponents(h Hypothesis) (names []string) {
	if o.Btype == CohesiveZone {
		return cohesiveComponents("T", h)
	}
	for _, c := range h.StensorComponents() {
		names = append(names, "S"+c)
	}
	return
}

// DrivingVariablesDefaultInitialValues sets the default initial values (identity for the deformation gradient)
func (o *Traits) DrivingVariablesDefaultInitialValues(v []float64, h Hypothesis) {
	for i := range v {
		v[i] = 0
	}
	if o.Btype == FiniteStrain {
		v[0], v[1], v[2] = 1, 1, 1
	}
}

// MaterialPropertiesNames returns the names of the material properties
func (o *Traits) MaterialPropertiesNames() []string { return o.Mpnames }

// ExternalStateVariablesNames returns the names of the external state variables
func (o *Traits) ExternalStateVariablesNames() []string {
	return append([]string{"Temperature"}, o.Esvnames...)
}

// InternalStateVariablesNames returns the names of the internal state variables
func (o *Traits) InternalStateVariablesNames() []string { return o.Ivnames }

// InternalStateVariableType returns the type of an internal state variable
func (o *Traits) InternalStateVariableType(name string) (VarType, error) {
	for i, n := range o.Ivnames {
		if n == name {
			return o.Ivtypes[i], nil
		}
	}
	return Scalar, chk.Err("the behaviour does not declare an internal state variable named %q", name)
}

// InternalStateVariablePosition returns the position of the first component of an internal state variable
func (o *Traits) InternalStateVariablePosition(h Hypothesis, name string) (int, error) {
	pos := 0
	for i, n := range o.Ivnames {
		if n == name {
			return pos, nil
		}
		pos += VarSize(o.Ivtypes[i], h)
	}
	return -1, chk.Err("the behaviour does not declare an internal state variable named %q", name)
}

// InternalStateVariablesSize returns the total number of components of internal state variables
func (o *Traits) InternalStateVariablesSize(h Hypothesis) (n int) {
	for _, t := range o.Ivtypes {
		n += VarSize(t, h)
	}
	return
}

// InternalStateVariablesDescriptions returns one description per component
func (o *Traits) InternalStateVariablesDescriptions(h Hypothesis) (res []string) {
	for i, n := range o.Ivnames {
		var sfx []string
		switch o.Ivtypes[i] {
		case Scalar:
			res = append(res, n)
			continue
		case Stensor:
			sfx = h.StensorComponents()
		case Tensor:
			sfx = h.TensorComponents()
		}
		for j, c := range sfx {
			res = append(res, io.Sf("%dth component of internal variable '%s' (%s%s)", j+1, n, n, c))
		}
	}
	return
}

// InternalStateVariablesComponents returns the names of all components of internal state variables
func (o *Traits) InternalStateVariablesComponents(h Hypothesis) (res []string) {
	for i, n := range o.Ivnames {
		switch o.Ivtypes[i] {
		case Scalar:
			res = append(res, n)
		case Stensor:
			for _, c := range h.StensorComponents() {
				res = append(res, n+c)
			}
		case Tensor:
			for _, c := range h.TensorComponents() {
				res = append(res, n+c)
			}
		}
	}
	return
}

// DefaultStiffnessMatrixType returns the stiffness matrix type used if none is specified
func (o *Traits) DefaultStiffnessMatrixType() StiffnessMatrixType {
	if o.Ktype == UnspecifiedStiffness {
		return ConsistentTangentOperator
	}
	return o.Ktype
}

// RotationMatrix returns the global rotation matrix
func (o *Traits) RotationMatrix(mprops []float64, r [][]float64) [][]float64 { return r }

// VarSize returns the number of components of a variable
func VarSize(t VarType, h Hypothesis) int {
	switch t {
	case Stensor:
		return h.StensorSize()
	case Tensor:
		return h.TensorSize()
	}
	return 1
}

// cohesiveComponents returns the names of the normal and tangential components
func cohesiveComponents(prefix string, h Hypothesis) []string {
	if h.SpaceDimension() == 2 {
		return []string{prefix + "n", prefix + "t"}
	}
	return []string{prefix + "n", prefix + "t1", prefix + "t2"}
}
