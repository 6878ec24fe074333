// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.yaml) test description
package inp

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
	"github.com/thelfer/tfel-sub019/evol"
	"github.com/thelfer/tfel-sub019/msolid"
	"github.com/thelfer/tfel-sub019/mtest"
	"gopkg.in/yaml.v3"
)

// default values
const (
	DefaultHypothesis  = "Tridimensional"
	DefaultTemperature = 293.15
)

// ParamData holds one behaviour parameter
type ParamData struct {
	N string  `yaml:"n"` // name of parameter
	V float64 `yaml:"v"` // value of parameter
}

// BehaviourData holds the behaviour definition
type BehaviourData struct {
	Name string       `yaml:"name"` // name in the behaviours factory; e.g. "elastic", "dp", "norton"
	Prms []*ParamData `yaml:"prms"` // parameters
}

// EvolutionData defines an evolution
//  Note: a number is read as a constant; any other scalar as a reference to a named evolution
type EvolutionData struct {
	Value  *float64     `yaml:"value"`  // constant value
	Times  []float64    `yaml:"times"`  // times of a piecewise linear evolution
	Values []float64    `yaml:"values"` // values of a piecewise linear evolution
	Func   string       `yaml:"func"`   // type of gosl function; e.g. "lin", "rmp", "sin"
	Prms   []*ParamData `yaml:"prms"`   // parameters of gosl function
	Ref    string       `yaml:"ref"`    // name of an evolution defined in "evolutions"
}

// UnmarshalYAML accepts the short forms "YoungModulus: 150" and "AxialStress: load"
func (o *EvolutionData) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var v float64
		if err := node.Decode(&v); err == nil {
			o.Value = &v
			return nil
		}
		o.Ref = node.Value
		return nil
	}
	type plain EvolutionData
	return node.Decode((*plain)(o))
}

// TimesData holds the loading path
//  Note: either a list of times or {t0, tf, n} with n the number of steps
type TimesData struct {
	List []float64 `yaml:"-"`
	T0   float64   `yaml:"t0"` // initial time
	Tf   float64   `yaml:"tf"` // final time
	N    int       `yaml:"n"`  // number of steps
}

// UnmarshalYAML accepts a sequence of times or a mapping
func (o *TimesData) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&o.List)
	}
	type plain TimesData
	return node.Decode((*plain)(o))
}

// Values returns the times
func (o TimesData) Values() []float64 {
	if len(o.List) > 0 || o.N < 1 {
		return o.List
	}
	return utl.LinSpace(o.T0, o.Tf, o.N+1)
}

// ImposedData holds an imposed component
type ImposedData struct {
	Component string         `yaml:"component"` // e.g. "EXX" or "SXX"
	Ev        *EvolutionData `yaml:"evolution"` // imposed value
}

// TermData holds one term of a linear constraint
type TermData struct {
	Name  string  `yaml:"name"`  // component
	Coeff float64 `yaml:"coeff"` // coefficient
}

// LinearConstraintData holds a linear constraint
type LinearConstraintData struct {
	Terms []*TermData    `yaml:"terms"`     // terms
	Ev    *EvolutionData `yaml:"evolution"` // right-hand side
	Kind  string         `yaml:"kind"`      // "driving" (default) or "force": normalisation and criterion
}

// SolverData holds solver options; zero values mean defaults
type SolverData struct {
	Eeps        float64 `yaml:"eeps"`        // criterion on driving variables
	Seps        float64 `yaml:"seps"`        // criterion on thermodynamic forces
	IterMax     int     `yaml:"itermax"`     // maximum number of iterations
	MaxSubSteps int     `yaml:"maxsubsteps"` // maximum number of sub steps
	MinTimeStep float64 `yaml:"mintimestep"` // minimal time step
	Stiffness   string  `yaml:"stiffness"`   // stiffness matrix type; e.g. "ConsistentTangentOperator"
	Prediction  string  `yaml:"prediction"`  // prediction policy; e.g. "LinearPrediction"
	Thermal     *bool   `yaml:"thermal"`     // handle thermal expansion (default true)

	// dynamic time step scaling
	Dynamic     bool    `yaml:"dynamic"`     // let the behaviour rescale the time step
	MaxTimeStep float64 `yaml:"maxtimestep"` // maximal time step
	Mintsf      float64 `yaml:"mintsf"`      // minimal time step scaling factor
	Maxtsf      float64 `yaml:"maxtsf"`      // maximal time step scaling factor

	// comparison to numerical tangent operator
	Cto   bool    `yaml:"cto"`   // compare consistent tangent operator with numerical approximation
	Toeps float64 `yaml:"toeps"` // comparison criterion
	Pv    float64 `yaml:"pv"`    // perturbation value
}

// OutputData holds output options
type OutputData struct {
	File        string `yaml:"file"`        // output file
	Residual    string `yaml:"residual"`    // residual file
	Summary     string `yaml:"summary"`     // summary file (json)
	Precision   int    `yaml:"precision"`   // precision of output file
	ResPrec     int    `yaml:"resprec"`     // precision of residual file
	Frequency   string `yaml:"frequency"`   // "UserDefinedTimes" (default) or "EveryPeriod"
	Multipliers bool   `yaml:"multipliers"` // print Lagrange multipliers
}

// TestData holds a test
//  Note: either an evolution or a reference file with a column must be given
type TestData struct {
	Variable string         `yaml:"variable"`  // name of component; e.g. "SXX"
	Ev       *EvolutionData `yaml:"evolution"` // expected values
	File     string         `yaml:"file"`      // reference file
	Column   string         `yaml:"column"`    // column of reference file; default is Variable
	Eps      float64        `yaml:"eps"`       // tolerance
}

// Config holds all data defining a test
type Config struct {

	// input
	Desc       string                    `yaml:"desc"`       // description
	Behaviour  BehaviourData             `yaml:"behaviour"`  // behaviour
	Hypothesis string                    `yaml:"hypothesis"` // modelling hypothesis
	Times      TimesData                 `yaml:"times"`      // loading path
	Verbose    int                       `yaml:"verbose"`    // verbose level
	Evolutions map[string]*EvolutionData `yaml:"evolutions"` // named evolutions; e.g. AxialStress or ThermalExpansion

	// behaviour inputs
	MaterialProperties map[string]*EvolutionData `yaml:"material_properties"`      // material properties
	ExternalStateVars  map[string]*EvolutionData `yaml:"external_state_variables"` // external state variables

	// loading
	ImposedDrivingVars []*ImposedData          `yaml:"imposed_driving_variables"`    // imposed driving variables
	ImposedForces      []*ImposedData          `yaml:"imposed_thermodynamic_forces"` // imposed thermodynamic forces
	LinearConstraints  []*LinearConstraintData `yaml:"linear_constraints"`           // linear constraints

	// initial values and material frame
	DrivingVars0   []float64            `yaml:"driving_variables"`        // initial driving variables
	Forces0        []float64            `yaml:"thermodynamic_forces"`     // initial thermodynamic forces
	InternalVars0  map[string][]float64 `yaml:"internal_state_variables"` // initial internal state variables
	RotationMatrix [][]float64          `yaml:"rotation_matrix"`          // rotation matrix

	// options
	Solver SolverData  `yaml:"solver"` // solver options
	Output OutputData  `yaml:"output"` // output files
	Tests  []*TestData `yaml:"tests"`  // tests

	// derived
	Dir string `yaml:"-"` // directory of the test file; relative paths are resolved against it
}

// DefaultConfig returns a configuration with defaults
func DefaultConfig() *Config {
	return &Config{
		Hypothesis: DefaultHypothesis,
		Evolutions: make(map[string]*EvolutionData),
	}
}

// Load reads a test description
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("Load: cannot read file %q:\n%v", path, err)
	}
	o := DefaultConfig()
	if err = yaml.Unmarshal(b, o); err != nil {
		return nil, chk.Err("Load: cannot unmarshal file %q:\n%v", path, err)
	}
	o.Dir = filepath.Dir(path)
	return o, nil
}

// Build returns a driver configured with all data
func (o *Config) Build() (m *mtest.MTest, err error) {

	// behaviour
	h, err := msolid.NewHypothesis(o.Hypothesis)
	if err != nil {
		return nil, chk.Err("Build: %v", err)
	}
	var prms dbf.Params
	for _, p := range o.Behaviour.Prms {
		prms = append(prms, &dbf.P{N: p.N, V: p.V})
	}
	m, err = mtest.New(h, o.Behaviour.Name, prms)
	if err != nil {
		return nil, chk.Err("Build: %v", err)
	}
	m.Verbose = mtest.VerboseLevel(o.Verbose)
	b := m.Behaviour()

	// evolutions
	named := make(map[string]evol.Evolution)
	for _, name := range sortedKeys(o.Evolutions) {
		d := o.Evolutions[name]
		if d == nil || d.Ref != "" {
			return nil, chk.Err("Build: named evolution %q must be defined by values or a function", name)
		}
		if named[name], err = d.evolution(named); err != nil {
			return nil, chk.Err("Build: evolution %q: %v", name, err)
		}
		if err = m.SetEvolution(name, named[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(o.MaterialProperties) {
		ev, err := o.MaterialProperties[name].evolution(named)
		if err != nil {
			return nil, chk.Err("Build: material property %q: %v", name, err)
		}
		if err = m.SetMaterialProperty(name, ev); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(o.ExternalStateVars) {
		ev, err := o.ExternalStateVars[name].evolution(named)
		if err != nil {
			return nil, chk.Err("Build: external state variable %q: %v", name, err)
		}
		if err = m.SetExternalStateVariable(name, ev); err != nil {
			return nil, err
		}
	}
	if _, ok := o.ExternalStateVars["Temperature"]; !ok && named["Temperature"] == nil {
		m.SetExternalStateVariable("Temperature", evol.Constant{V: DefaultTemperature})
	}

	// constraints
	for _, d := range o.ImposedDrivingVars {
		ev, err := d.Ev.evolution(named)
		if err != nil {
			return nil, chk.Err("Build: imposed driving variable %q: %v", d.Component, err)
		}
		c, err := mtest.NewImposedDrivingVariable(b, h, d.Component, ev)
		if err != nil {
			return nil, chk.Err("Build: %v", err)
		}
		m.AddConstraint(c)
	}
	for _, d := range o.ImposedForces {
		ev, err := d.Ev.evolution(named)
		if err != nil {
			return nil, chk.Err("Build: imposed thermodynamic force %q: %v", d.Component, err)
		}
		c, err := mtest.NewImposedThermodynamicForce(b, h, d.Component, ev)
		if err != nil {
			return nil, chk.Err("Build: %v", err)
		}
		m.AddConstraint(c)
	}
	for i, d := range o.LinearConstraints {
		ev, err := d.Ev.evolution(named)
		if err != nil {
			return nil, chk.Err("Build: linear constraint %d: %v", i, err)
		}
		kind := mtest.DrivingVariableConstraint
		switch d.Kind {
		case "", "driving":
		case "force":
			kind = mtest.ThermodynamicForceConstraint
		default:
			return nil, chk.Err("Build: linear constraint %d: invalid kind %q", i, d.Kind)
		}
		var terms []mtest.LinearTerm
		for _, t := range d.Terms {
			terms = append(terms, mtest.LinearTerm{Name: t.Name, Coeff: t.Coeff})
		}
		c, err := mtest.NewLinearConstraint(b, h, terms, ev, kind)
		if err != nil {
			return nil, chk.Err("Build: %v", err)
		}
		m.AddConstraint(c)
	}

	// initial values
	if len(o.DrivingVars0) > 0 {
		if err = m.SetDrivingVariablesInitialValues(o.DrivingVars0); err != nil {
			return nil, err
		}
	}
	if len(o.Forces0) > 0 {
		if err = m.SetThermodynamicForcesInitialValues(o.Forces0); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(o.InternalVars0) {
		if err = m.SetInternalStateVariableInitialValues(name, o.InternalVars0[name]); err != nil {
			return nil, err
		}
	}
	if len(o.RotationMatrix) > 0 {
		if err = m.SetRotationMatrix(o.RotationMatrix, false); err != nil {
			return nil, err
		}
	}

	// loading path and options
	if err = m.SetTimes(o.Times.Values()); err != nil {
		return nil, err
	}
	if err = o.setSolverOptions(m); err != nil {
		return nil, err
	}
	if err = o.setOutput(m); err != nil {
		return nil, err
	}

	// tests
	for _, d := range o.Tests {
		if err = o.addTest(m, d, named); err != nil {
			return nil, err
		}
	}
	return
}

// setSolverOptions sets the options given by the user
func (o *Config) setSolverOptions(m *mtest.MTest) (err error) {
	s := o.Solver
	if s.Eeps > 0 {
		err = m.SetDrivingVariableEpsilon(s.Eeps)
	}
	if err == nil && s.Seps > 0 {
		err = m.SetThermodynamicForceEpsilon(s.Seps)
	}
	if err == nil && s.IterMax > 0 {
		err = m.SetMaximumNumberOfIterations(s.IterMax)
	}
	if err == nil && s.MaxSubSteps > 0 {
		err = m.SetMaximumNumberOfSubSteps(s.MaxSubSteps)
	}
	if err == nil && s.MinTimeStep > 0 {
		err = m.SetMinimalTimeStep(s.MinTimeStep)
	}
	if err == nil && s.MaxTimeStep > 0 {
		err = m.SetMaximalTimeStep(s.MaxTimeStep)
	}
	if err == nil && s.Mintsf > 0 {
		err = m.SetMinimalTimeStepScalingFactor(s.Mintsf)
	}
	if err == nil && s.Maxtsf > 0 {
		err = m.SetMaximalTimeStepScalingFactor(s.Maxtsf)
	}
	if err == nil && s.Toeps > 0 {
		err = m.SetTangentOperatorComparisonCriterion(s.Toeps)
	}
	if err == nil && s.Pv > 0 {
		err = m.SetNumericalTangentOperatorPerturbationValue(s.Pv)
	}
	if err != nil {
		return
	}
	if s.Stiffness != "" {
		ktype, err := msolid.NewStiffnessMatrixType(s.Stiffness)
		if err != nil {
			return chk.Err("Build: %v", err)
		}
		m.SetStiffnessMatrixType(ktype)
	}
	if s.Prediction != "" {
		p, err := mtest.NewPredictionPolicy(s.Prediction)
		if err != nil {
			return chk.Err("Build: %v", err)
		}
		m.SetPredictionPolicy(p)
	}
	if s.Thermal != nil {
		m.SetHandleThermalExpansion(*s.Thermal)
	}
	m.SetDynamicTimeStepScaling(s.Dynamic)
	m.SetCompareToNumericalTangentOperator(s.Cto)
	return
}

// setOutput sets the output files
func (o *Config) setOutput(m *mtest.MTest) (err error) {
	out := o.Output
	if out.File != "" {
		if err = m.SetOutputFile(o.path(out.File)); err != nil {
			return
		}
	}
	if out.Residual != "" {
		if err = m.SetResidualFile(o.path(out.Residual)); err != nil {
			return
		}
	}
	if out.Precision > 0 {
		if err = m.SetOutputFilePrecision(out.Precision); err != nil {
			return
		}
	}
	if out.ResPrec > 0 {
		if err = m.SetResidualFilePrecision(out.ResPrec); err != nil {
			return
		}
	}
	switch out.Frequency {
	case "", "UserDefinedTimes":
		m.SetOutputFrequency(mtest.UserDefinedTimes)
	case "EveryPeriod":
		m.SetOutputFrequency(mtest.EveryPeriod)
	default:
		return chk.Err("Build: invalid output frequency %q", out.Frequency)
	}
	m.PrintLagrangeMultipliers(out.Multipliers)
	return
}

// addTest adds an analytical or a reference file test
func (o *Config) addTest(m *mtest.MTest, d *TestData, named map[string]evol.Evolution) (err error) {
	b, h := m.Behaviour(), m.Hypothesis()
	if d.Ev != nil {
		ev, err := d.Ev.evolution(named)
		if err != nil {
			return chk.Err("Build: test on %q: %v", d.Variable, err)
		}
		t, err := mtest.NewAnalyticalTest(b, h, d.Variable, ev, d.Eps)
		if err != nil {
			return err
		}
		m.AddTest(t)
		return nil
	}
	if d.File == "" {
		return chk.Err("Build: test on %q: an evolution or a reference file must be given", d.Variable)
	}
	col := d.Column
	if col == "" {
		col = d.Variable
	}
	vals, err := mtest.ReadReferenceColumn(o.path(d.File), col)
	if err != nil {
		return
	}
	t, err := mtest.NewReferenceFileTest(b, h, d.Variable, vals, d.Eps)
	if err != nil {
		return
	}
	m.AddTest(t)
	return
}

// path resolves a path relative to the directory of the test file
func (o *Config) path(fn string) string {
	if filepath.IsAbs(fn) || o.Dir == "" {
		return fn
	}
	return filepath.Join(o.Dir, fn)
}

// evolution allocates the evolution
func (o *EvolutionData) evolution(named map[string]evol.Evolution) (evol.Evolution, error) {
	if o == nil {
		return nil, chk.Err("no evolution given")
	}
	switch {
	case o.Ref != "":
		ev, ok := named[o.Ref]
		if !ok {
			return nil, chk.Err("cannot find evolution named %q", o.Ref)
		}
		return ev, nil
	case o.Func != "":
		var prms dbf.Params
		for _, p := range o.Prms {
			prms = append(prms, &dbf.P{N: p.N, V: p.V})
		}
		return evol.NewFunction(o.Func, prms)
	case len(o.Times) > 0:
		return evol.NewLPE(o.Times, o.Values)
	case o.Value != nil:
		return evol.Constant{V: *o.Value}, nil
	}
	return nil, chk.Err("evolution must have a value, a table, a function or a reference")
}

// sortedKeys returns the keys of a map in increasing order
func sortedKeys[T any](m map[string]T) (keys []string) {
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}
