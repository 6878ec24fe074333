// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import "github.com/cpmech/gosl/chk"

// Hypothesis defines a modelling hypothesis
type Hypothesis int

// modelling hypotheses
const (
	UndefinedHypothesis Hypothesis = iota
	AxisymmetricalGeneralisedPlaneStrain
	AxisymmetricalGeneralisedPlaneStress
	Axisymmetrical
	PlaneStress
	PlaneStrain
	GeneralisedPlaneStrain
	Tridimensional
)

var hypothesisNames = map[Hypothesis]string{
	UndefinedHypothesis:                  "Undefined",
	AxisymmetricalGeneralisedPlaneStrain: "AxisymmetricalGeneralisedPlaneStrain",
	AxisymmetricalGeneralisedPlaneStress: "AxisymmetricalGeneralisedPlaneStress",
	Axisymmetrical:                       "Axisymmetrical",
	PlaneStress:                          "PlaneStress",
	PlaneStrain:                          "PlaneStrain",
	GeneralisedPlaneStrain:               "GeneralisedPlaneStrain",
	Tridimensional:                       "Tridimensional",
}

// NewHypothesis returns the hypothesis corresponding to name
func NewHypothesis(name string) (Hypothesis, error) {
	for h, n := range hypothesisNames {
		if h != UndefinedHypothesis && n == name {
			return h, nil
		}
	}
	return UndefinedHypothesis, chk.Err("invalid modelling hypothesis %q", name)
}

// String returns the name of the hypothesis
func (h Hypothesis) String() string {
	if n, ok := hypothesisNames[h]; ok {
		return n
	}
	return "Undefined"
}

// SpaceDimension returns the space dimension (1, 2 or 3)
func (h Hypothesis) SpaceDimension() int {
	switch h {
	case AxisymmetricalGeneralisedPlaneStrain, AxisymmetricalGeneralisedPlaneStress:
		return 1
	case Axisymmetrical, PlaneStress, PlaneStrain, GeneralisedPlaneStrain:
		return 2
	case Tridimensional:
		return 3
	}
	chk.Panic("SpaceDimension: undefined modelling hypothesis")
	return 0
}

// StensorSize returns the number of components of symmetric tensors
func (h Hypothesis) StensorSize() int {
	return []int{3, 4, 6}[h.SpaceDimension()-1]
}

// TensorSize returns the number of components of non-symmetric tensors
func (h Hypothesis) TensorSize() int {
	return []int{3, 5, 9}[h.SpaceDimension()-1]
}

// IsAxisymmetrical tells whether the cylindrical components (r, z, θ) are used
func (h Hypothesis) IsAxisymmetrical() bool {
	return h == Axisymmetrical || h == AxisymmetricalGeneralisedPlaneStrain || h == AxisymmetricalGeneralisedPlaneStress
}

// StensorComponents returns the suffixes of the components of symmetric tensors
func (h Hypothesis) StensorComponents() []string {
	if h.IsAxisymmetrical() {
		return []string{"RR", "ZZ", "TT", "RZ"}[:h.StensorSize()]
	}
	return []string{"XX", "YY", "ZZ", "XY", "XZ", "YZ"}[:h.StensorSize()]
}

// TensorComponents returns the suffixes of the components of non-symmetric tensors
func (h Hypothesis) TensorComponents() []string {
	if h.IsAxisymmetrical() {
		return []string{"RR", "ZZ", "TT", "RZ", "ZR"}[:h.TensorSize()]
	}
	return []string{"XX", "YY", "ZZ", "XY", "YX", "XZ", "ZX", "YZ", "ZY"}[:h.TensorSize()]
}
