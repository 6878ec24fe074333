// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mtest

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/thelfer/tfel-sub019/msolid"
)

// PredictionPolicy selects how the first estimate of a time step is computed
type PredictionPolicy int

// prediction policies
const (
	NoPrediction              PredictionPolicy = iota // start from the beginning of the time step
	LinearPrediction                                  // extrapolate from the previous time step
	ElasticPrediction                                 // one linear solve with the elastic operator
	SecantOperatorPrediction                          // one linear solve with the secant operator
	TangentOperatorPrediction                         // one linear solve with the tangent operator
)

var predictionNames = map[PredictionPolicy]string{
	NoPrediction:              "NoPrediction",
	LinearPrediction:          "LinearPrediction",
	ElasticPrediction:         "ElasticPrediction",
	SecantOperatorPrediction:  "SecantOperatorPrediction",
	TangentOperatorPrediction: "TangentOperatorPrediction",
}

// String returns the name of the prediction policy
func (o PredictionPolicy) String() string { return predictionNames[o] }

// NewPredictionPolicy returns the prediction policy corresponding to name
func NewPredictionPolicy(name string) (PredictionPolicy, error) {
	for k, n := range predictionNames {
		if n == name {
			return k, nil
		}
	}
	return NoPrediction, chk.Err("invalid prediction policy %q", name)
}

// stiffness returns the stiffness matrix type used to compute the prediction operator
func (o PredictionPolicy) stiffness() msolid.StiffnessMatrixType {
	switch o {
	case ElasticPrediction:
		return msolid.Elastic
	case SecantOperatorPrediction:
		return msolid.SecantOperator
	case TangentOperatorPrediction:
		return msolid.TangentOperator
	}
	return msolid.NoStiffness
}

// OutputFrequency selects when results are written
type OutputFrequency int

// output frequencies
const (
	UserDefinedTimes OutputFrequency = iota // at the times given by the user
	EveryPeriod                             // after every converged (sub) step
)

// SolverOptions holds the resolved parameters of the Newton solver
type SolverOptions struct {
	Eeps        float64                    // criterion on driving variables
	Seps        float64                    // criterion on thermodynamic forces
	IterMax     int                        // maximum number of iterations per step
	MaxSubSteps int                        // maximum number of sub steps per time step
	MinTimeStep float64                    // minimal time step; 0 means no floor
	MaxTimeStep float64                    // maximal time step; 0 means no ceiling
	Ktype       msolid.StiffnessMatrixType // stiffness matrix type
	Ppolicy     PredictionPolicy           // prediction policy

	// dynamic time step scaling: the behaviour proposes a factor after each integration
	DynamicTimeStepScaling   bool
	MinTimeStepScalingFactor float64 // floor of the reduction factor
	MaxTimeStepScalingFactor float64 // ceiling of the increase factor

	// comparison to numerical tangent operator
	CompareToNumericalTangentOperator bool
	Toeps                             float64 // comparison criterion
	Pv                                float64 // perturbation value

	// output
	Frequency OutputFrequency
}

// settings holds the user choices; nil means unset
type settings struct {
	eeps, seps, toeps, pv *float64
	minTimeStep           *float64
	maxTimeStep           *float64
	mintsf, maxtsf        *float64
	dynamic               bool
	iterMax, maxSubSteps  *int
	ktype                 msolid.StiffnessMatrixType
	ppolicy               PredictionPolicy
	cto                   bool
	frequency             OutputFrequency
}

// resolve fills the unset values with their defaults
func (o *settings) resolve(b msolid.Behaviour) (opts SolverOptions) {
	opts.Eeps = 1e-12
	if o.eeps != nil {
		opts.Eeps = *o.eeps
	}
	opts.Seps = 1e-3
	if o.seps != nil {
		opts.Seps = *o.seps
	}
	opts.Toeps = (opts.Seps / 1e-3) * 1e7
	if o.toeps != nil {
		opts.Toeps = *o.toeps
	}
	opts.Pv = 10 * opts.Eeps
	if o.pv != nil {
		opts.Pv = *o.pv
	}
	opts.IterMax = 100
	if o.iterMax != nil {
		opts.IterMax = *o.iterMax
	}
	opts.MaxSubSteps = 10
	if o.maxSubSteps != nil {
		opts.MaxSubSteps = *o.maxSubSteps
	}
	if o.minTimeStep != nil {
		opts.MinTimeStep = *o.minTimeStep
	}
	if o.maxTimeStep != nil {
		opts.MaxTimeStep = *o.maxTimeStep
	}
	opts.DynamicTimeStepScaling = o.dynamic
	opts.MinTimeStepScalingFactor = 0.1
	if o.mintsf != nil {
		opts.MinTimeStepScalingFactor = *o.mintsf
	}
	opts.MaxTimeStepScalingFactor = math.MaxFloat64
	if o.maxtsf != nil {
		opts.MaxTimeStepScalingFactor = *o.maxtsf
	}
	opts.Ktype = o.ktype
	if opts.Ktype == msolid.UnspecifiedStiffness {
		opts.Ktype = b.DefaultStiffnessMatrixType()
	}
	opts.Ppolicy = o.ppolicy
	opts.CompareToNumericalTangentOperator = o.cto
	opts.Frequency = o.frequency
	return
}

// positive returns an error if v is not a strictly positive value
func positive(method, what string, v float64) error {
	if v < 100*math.SmallestNonzeroFloat64 || math.IsNaN(v) || math.IsInf(v, 0) {
		return chk.Err("MTest.%s: invalid %s (%g)", method, what, v)
	}
	return nil
}
