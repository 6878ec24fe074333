// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msolid implements material models for solids integrated at a single point
package msolid

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// BehaviourType defines the kind of driving variables and thermodynamic forces
type BehaviourType int

// behaviour types
const (
	SmallStrain  BehaviourType = iota // strain / stress
	FiniteStrain                      // deformation gradient / Cauchy stress
	CohesiveZone                      // opening displacement / cohesive force
)

// SymmetryType defines the material symmetry
type SymmetryType int

// symmetries
const (
	Isotropic SymmetryType = iota
	Orthotropic
)

// VarType defines the type of an internal state variable
type VarType int

// variable types
const (
	Scalar  VarType = iota // one component
	Stensor                // symmetric tensor
	Tensor                 // non-symmetric tensor
)

// StiffnessMatrixType selects the operator returned by the behaviour
type StiffnessMatrixType int

// stiffness matrix types
const (
	UnspecifiedStiffness StiffnessMatrixType = iota // use behaviour's default
	NoStiffness
	Elastic
	SecantOperator
	TangentOperator
	ConsistentTangentOperator
	NumericalTangentOperator // estimated by the driver with central differences; never passed to Integrate
)

var stiffnessNames = map[StiffnessMatrixType]string{
	UnspecifiedStiffness:      "Unspecified",
	NoStiffness:               "NoStiffness",
	Elastic:                   "Elastic",
	SecantOperator:            "SecantOperator",
	TangentOperator:           "TangentOperator",
	ConsistentTangentOperator: "ConsistentTangentOperator",
	NumericalTangentOperator:  "NumericalTangentOperator",
}

// String returns the name of the stiffness matrix type
func (o StiffnessMatrixType) String() string { return stiffnessNames[o] }

// NewStiffnessMatrixType returns the stiffness matrix type corresponding to name
func NewStiffnessMatrixType(name string) (StiffnessMatrixType, error) {
	for k, n := range stiffnessNames {
		if n == name {
			return k, nil
		}
	}
	return UnspecifiedStiffness, chk.Err("invalid stiffness matrix type %q", name)
}

// Behaviour defines a constitutive law integrated at one material point
//  Note: sizes and names are constant for a given hypothesis
type Behaviour interface {
	Init(prms dbf.Params) error          // Init initialises non-evolving parameters of the model
	CheckHypothesis(h Hypothesis) error  // CheckHypothesis returns an error if h is not supported
	Type() BehaviourType                 // Type returns the behaviour type
	Symmetry() SymmetryType              // Symmetry returns the material symmetry
	DrivingVariablesSize(h Hypothesis) int
	ThermodynamicForcesSize(h Hypothesis) int
	DrivingVariablesComponents(h Hypothesis) []string
	ThermodynamicForcesComponents(h Hypothesis) []string
	DrivingVariablesDefaultInitialValues(v []float64, h Hypothesis)
	MaterialPropertiesNames() []string       // material properties evaluated at t+Δt
	ExternalStateVariablesNames() []string   // external state variables; "Temperature" comes first
	InternalStateVariablesNames() []string   // names of internal state variables
	InternalStateVariableType(name string) (VarType, error)
	InternalStateVariablePosition(h Hypothesis, name string) (int, error)
	InternalStateVariablesSize(h Hypothesis) int
	InternalStateVariablesDescriptions(h Hypothesis) []string
	InternalStateVariablesComponents(h Hypothesis) []string
	DefaultStiffnessMatrixType() StiffnessMatrixType

	// RotationMatrix returns the rotation matrix from the material frame to the global frame
	RotationMatrix(mprops []float64, r [][]float64) [][]float64

	// ComputePredictionOperator computes kt without updating the state
	ComputePredictionOperator(kt [][]float64, s *State, h Hypothesis, ktype StiffnessMatrixType) (ok bool)

	// Integrate updates S1, Iv1 and kt over [t, t+Δt] for the driving variables given in E1
	//  Note: a failure is not fatal; the caller may try again with a smaller Δt
	Integrate(kt [][]float64, s *State, h Hypothesis, dt float64, ktype StiffnessMatrixType) (ok bool)
}

// TimeStepScaler is implemented by behaviours proposing a scaling of the time step
//  Note: with dynamic time step scaling, a factor lower than one rejects a converged step
type TimeStepScaler interface {
	TimeStepScalingFactor() float64 // factor proposed by the last call to Integrate
}

// New allocates behaviour by name
func New(name string) (model Behaviour, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("behaviour %q is not available", name)
	}
	return allocator(), nil
}

// Available returns the names of all behaviours in the factory
func Available() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// allocators holds all available behaviours; name => allocator
var allocators = make(map[string]func() Behaviour)
