// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mtest implements a driver for constitutive laws at a single material point
package mtest

import (
	"bytes"
	"math"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/thelfer/tfel-sub019/evol"
	"github.com/thelfer/tfel-sub019/msolid"
)

// Study defines the callbacks used by a Solver
type Study interface {
	Options() SolverOptions
	Verbosity() VerboseLevel
	Logf(lvl VerboseLevel, msg string, prm ...interface{})
	Prepare(s *CurrentState, t, dt float64)
	ComputePredictionStiffnessAndResidual(s *CurrentState, wk *WorkSpace, t, dt float64, ktype msolid.StiffnessMatrixType) bool
	ComputeStiffnessMatrixAndResidual(s *CurrentState, wk *WorkSpace, t, dt float64, ktype msolid.StiffnessMatrixType) (ok bool, rdt float64)
	CheckConvergence(s *CurrentState, wk *WorkSpace, t, dt float64, iter int) bool
	FailedCriteriaDiagnostic(s *CurrentState, wk *WorkSpace, t, dt float64) string
	PostConvergence(s *CurrentState, t, dt float64, period int)
	PrintOutput(t float64, s *CurrentState, force bool)
}

// Solver advances a study from ti to te
type Solver interface {
	Execute(s *CurrentState, wk *WorkSpace, p Study, ti, te float64) error
}

// MTest drives a behaviour at one material point along a loading path
type MTest struct {

	// input
	Verbose VerboseLevel // verbose level
	Solver  Solver       // solver; GenericSolver by default

	// output
	Summary *Summary // statistics of the last run

	// behaviour
	b     msolid.Behaviour  // behaviour
	h     msolid.Hypothesis // modelling hypothesis
	bname string            // name of the behaviour

	// loading
	evm         evol.Manager // evolutions; material properties, external state variables, etc.
	constraints []Constraint // constraints
	times       []float64    // loading path
	tests       []UTest      // tests run after each converged step

	// initial values and material frame
	e0, s0  []float64   // initial driving variables and forces; nil means default
	iv0     []float64   // initial internal state variables
	rm      [][]float64 // rotation matrix
	rmSet   bool        // rotation matrix has been given
	thermal bool        // handle thermal expansion
	noTherm bool        // thermal expansion handling has been disabled by the user

	// options
	cfg  settings      // user choices
	opts SolverOptions // resolved options

	// files
	outPath, resPath string       // output and residual files; empty means none
	outPrec, resPrec int          // precisions; 0 means default formatting
	printLM          bool         // print Lagrange multipliers
	out, res         bytes.Buffer // buffers
	outFile, resFile *os.File     // files

	// auxiliary
	state       *CurrentState // current state
	wk          *WorkSpace    // workspace
	initialised bool          // CompleteInitialisation has been called
	executed    bool          // Execute has been called
}

// New returns a new driver for the behaviour allocated by name
func New(h msolid.Hypothesis, behaviourName string, prms dbf.Params) (o *MTest, err error) {
	b, err := msolid.New(behaviourName)
	if err != nil {
		return nil, chk.Err("MTest.New: %v", err)
	}
	err = b.Init(prms)
	if err != nil {
		return nil, chk.Err("MTest.New: cannot initialise behaviour %q:\n%v", behaviourName, err)
	}
	o, err = NewWithBehaviour(h, b)
	if err != nil {
		return
	}
	o.bname = behaviourName
	return
}

// NewWithBehaviour returns a new driver for an already initialised behaviour
func NewWithBehaviour(h msolid.Hypothesis, b msolid.Behaviour) (o *MTest, err error) {
	if b == nil {
		return nil, chk.Err("MTest.New: no behaviour defined")
	}
	err = b.CheckHypothesis(h)
	if err != nil {
		return nil, chk.Err("MTest.New: %v", err)
	}
	o = new(MTest)
	o.Solver = new(GenericSolver)
	o.b = b
	o.h = h
	o.bname = io.Sf("%T", b)
	o.evm = make(evol.Manager)
	o.iv0 = make([]float64, b.InternalStateVariablesSize(h))
	o.rm = utl.Alloc(3, 3)
	for i := 0; i < 3; i++ {
		o.rm[i][i] = 1
	}
	return
}

// Behaviour returns the behaviour
func (o *MTest) Behaviour() msolid.Behaviour { return o.b }

// Hypothesis returns the modelling hypothesis
func (o *MTest) Hypothesis() msolid.Hypothesis { return o.h }

// State returns the current state; nil before Execute
func (o *MTest) State() *CurrentState { return o.state }

// Options returns the resolved solver options
func (o *MTest) Options() SolverOptions { return o.opts }

// Constraints returns the constraints, including the ones added by CompleteInitialisation
func (o *MTest) Constraints() []Constraint { return o.constraints }

// evolutions /////////////////////////////////////////////////////////////////////////////////////

// SetEvolution declares a named evolution; e.g. "AxialStress" or "ThermalExpansion"
func (o *MTest) SetEvolution(name string, ev evol.Evolution) error {
	if err := o.notInitialised("SetEvolution"); err != nil {
		return err
	}
	if ev == nil {
		return chk.Err("MTest.SetEvolution: nil evolution given for %q", name)
	}
	if err := o.evm.Add(name, ev); err != nil {
		return chk.Err("MTest.SetEvolution: %v", err)
	}
	return nil
}

// SetMaterialProperty declares the evolution of a material property
//  Note: the thermal expansion coefficients are accepted for small strain behaviours
func (o *MTest) SetMaterialProperty(name string, ev evol.Evolution) error {
	if idx(o.b.MaterialPropertiesNames(), name) < 0 && !isThermalExpansionName(name) {
		return chk.Err("MTest.SetMaterialProperty: the behaviour does not declare a material property named %q", name)
	}
	return o.SetEvolution(name, ev)
}

// SetExternalStateVariable declares the evolution of an external state variable
func (o *MTest) SetExternalStateVariable(name string, ev evol.Evolution) error {
	if idx(o.b.ExternalStateVariablesNames(), name) < 0 {
		return chk.Err("MTest.SetExternalStateVariable: the behaviour does not declare an external state variable named %q", name)
	}
	return o.SetEvolution(name, ev)
}

// criteria ///////////////////////////////////////////////////////////////////////////////////////

// SetDrivingVariableEpsilon sets the convergence criterion on the driving variables
func (o *MTest) SetDrivingVariableEpsilon(e float64) error {
	if o.cfg.eeps != nil {
		return chk.Err("MTest.SetDrivingVariableEpsilon: the epsilon value has already been declared")
	}
	if err := positive("SetDrivingVariableEpsilon", "value", e); err != nil {
		return err
	}
	o.cfg.eeps = &e
	return nil
}

// SetThermodynamicForceEpsilon sets the convergence criterion on the thermodynamic forces
func (o *MTest) SetThermodynamicForceEpsilon(s float64) error {
	if o.cfg.seps != nil {
		return chk.Err("MTest.SetThermodynamicForceEpsilon: the epsilon value has already been declared")
	}
	if err := positive("SetThermodynamicForceEpsilon", "value", s); err != nil {
		return err
	}
	o.cfg.seps = &s
	return nil
}

// SetCompareToNumericalTangentOperator activates the comparison of the consistent tangent
// operator with a numerical approximation
func (o *MTest) SetCompareToNumericalTangentOperator(flag bool) { o.cfg.cto = flag }

// SetTangentOperatorComparisonCriterion sets the criterion of the tangent operator comparison
func (o *MTest) SetTangentOperatorComparisonCriterion(v float64) error {
	if o.cfg.toeps != nil {
		return chk.Err("MTest.SetTangentOperatorComparisonCriterion: the criterion has already been declared")
	}
	if err := positive("SetTangentOperatorComparisonCriterion", "criterion", v); err != nil {
		return err
	}
	o.cfg.toeps = &v
	return nil
}

// SetNumericalTangentOperatorPerturbationValue sets the perturbation of the numerical tangent operator
func (o *MTest) SetNumericalTangentOperatorPerturbationValue(v float64) error {
	if o.cfg.pv != nil {
		return chk.Err("MTest.SetNumericalTangentOperatorPerturbationValue: the perturbation value has already been declared")
	}
	if err := positive("SetNumericalTangentOperatorPerturbationValue", "perturbation value", v); err != nil {
		return err
	}
	o.cfg.pv = &v
	return nil
}

// SetMaximumNumberOfIterations sets the maximum number of Newton iterations per step
func (o *MTest) SetMaximumNumberOfIterations(n int) error {
	if o.cfg.iterMax != nil {
		return chk.Err("MTest.SetMaximumNumberOfIterations: the maximum number of iterations has already been declared")
	}
	if n < 1 {
		return chk.Err("MTest.SetMaximumNumberOfIterations: invalid maximum number of iterations (%d)", n)
	}
	o.cfg.iterMax = &n
	return nil
}

// SetMaximumNumberOfSubSteps sets the maximum number of sub steps per time step
func (o *MTest) SetMaximumNumberOfSubSteps(n int) error {
	if o.cfg.maxSubSteps != nil {
		return chk.Err("MTest.SetMaximumNumberOfSubSteps: the maximum number of sub steps has already been declared")
	}
	if n < 1 {
		return chk.Err("MTest.SetMaximumNumberOfSubSteps: invalid maximum number of sub steps (%d)", n)
	}
	o.cfg.maxSubSteps = &n
	return nil
}

// SetMinimalTimeStep sets the floor of the sub stepping
func (o *MTest) SetMinimalTimeStep(dt float64) error {
	if o.cfg.minTimeStep != nil {
		return chk.Err("MTest.SetMinimalTimeStep: the minimal time step has already been declared")
	}
	if err := positive("SetMinimalTimeStep", "minimal time step", dt); err != nil {
		return err
	}
	if o.cfg.maxTimeStep != nil && dt >= *o.cfg.maxTimeStep {
		return chk.Err("MTest.SetMinimalTimeStep: the minimal time step (%g) is greater than the maximal time step (%g)", dt, *o.cfg.maxTimeStep)
	}
	o.cfg.minTimeStep = &dt
	return nil
}

// SetMaximalTimeStep sets the ceiling of the time step used with dynamic time step scaling
func (o *MTest) SetMaximalTimeStep(dt float64) error {
	if o.cfg.maxTimeStep != nil {
		return chk.Err("MTest.SetMaximalTimeStep: the maximal time step has already been declared")
	}
	if err := positive("SetMaximalTimeStep", "maximal time step", dt); err != nil {
		return err
	}
	if o.cfg.minTimeStep != nil {
		if dt <= *o.cfg.minTimeStep {
			return chk.Err("MTest.SetMaximalTimeStep: the maximal time step (%g) is lower than the minimal time step (%g)", dt, *o.cfg.minTimeStep)
		}
		if math.Abs(dt-*o.cfg.minTimeStep) < 0.1**o.cfg.minTimeStep {
			return chk.Err("MTest.SetMaximalTimeStep: the maximal time step is too close to the minimal time step")
		}
	}
	o.cfg.maxTimeStep = &dt
	return nil
}

// SetDynamicTimeStepScaling lets the behaviour rescale the time step after each integration
func (o *MTest) SetDynamicTimeStepScaling(flag bool) { o.cfg.dynamic = flag }

// SetMinimalTimeStepScalingFactor sets the floor of the reduction of the time step
func (o *MTest) SetMinimalTimeStepScalingFactor(v float64) error {
	if o.cfg.mintsf != nil {
		return chk.Err("MTest.SetMinimalTimeStepScalingFactor: the minimal time step scaling factor has already been declared")
	}
	if v < 100*machEps || v >= 1 || math.IsNaN(v) {
		return chk.Err("MTest.SetMinimalTimeStepScalingFactor: invalid minimal time step scaling factor (%g); it must lie in (0, 1)", v)
	}
	o.cfg.mintsf = &v
	return nil
}

// SetMaximalTimeStepScalingFactor sets the ceiling of the increase of the time step
func (o *MTest) SetMaximalTimeStepScalingFactor(v float64) error {
	if o.cfg.maxtsf != nil {
		return chk.Err("MTest.SetMaximalTimeStepScalingFactor: the maximal time step scaling factor has already been declared")
	}
	if v < 1 || math.IsNaN(v) {
		return chk.Err("MTest.SetMaximalTimeStepScalingFactor: invalid maximal time step scaling factor (%g); it must be greater than one", v)
	}
	o.cfg.maxtsf = &v
	return nil
}

// SetStiffnessMatrixType sets the type of stiffness matrix used by the Newton iterations
func (o *MTest) SetStiffnessMatrixType(ktype msolid.StiffnessMatrixType) { o.cfg.ktype = ktype }

// SetPredictionPolicy sets the prediction policy
func (o *MTest) SetPredictionPolicy(p PredictionPolicy) { o.cfg.ppolicy = p }

// SetOutputFrequency sets when results are written
func (o *MTest) SetOutputFrequency(f OutputFrequency) { o.cfg.frequency = f }

// SetHandleThermalExpansion enables or disables the computation of thermal strains
func (o *MTest) SetHandleThermalExpansion(flag bool) { o.noTherm = !flag }

// initial values /////////////////////////////////////////////////////////////////////////////////

// SetRotationMatrix sets the rotation matrix from the material frame to the global frame
//  force -- replaces a previously defined matrix
func (o *MTest) SetRotationMatrix(r [][]float64, force bool) error {
	const eps = 100 * machEps
	if o.b.Symmetry() != msolid.Orthotropic {
		return chk.Err("MTest.SetRotationMatrix: rotation matrix may only be defined for orthotropic behaviours")
	}
	if o.rmSet && !force {
		return chk.Err("MTest.SetRotationMatrix: rotation matrix already defined")
	}
	if len(r) != 3 || len(r[0]) != 3 || len(r[1]) != 3 || len(r[2]) != 3 {
		return chk.Err("MTest.SetRotationMatrix: rotation matrix must be 3x3")
	}
	col := func(j int) []float64 { return []float64{r[0][j], r[1][j], r[2][j]} }
	c0, c1, c2 := col(0), col(1), col(2)
	for _, c := range [][]float64{c0, c1, c2} {
		if math.Abs(math.Sqrt(dot(c, c))-1) > eps {
			return chk.Err("MTest.SetRotationMatrix: at least one column is not normalised")
		}
	}
	if math.Abs(dot(c0, c1)) > eps || math.Abs(dot(c0, c2)) > eps || math.Abs(dot(c1, c2)) > eps {
		return chk.Err("MTest.SetRotationMatrix: at least two columns are not orthogonals")
	}
	for i := 0; i < 3; i++ {
		copy(o.rm[i], r[i])
	}
	o.rmSet = true
	return nil
}

// SetDrivingVariablesInitialValues sets the initial values of the driving variables
func (o *MTest) SetDrivingVariablesInitialValues(v []float64) error {
	if o.e0 != nil {
		return chk.Err("MTest.SetDrivingVariablesInitialValues: the initial values of the driving variables have already been declared")
	}
	if len(v) != o.b.DrivingVariablesSize(o.h) {
		return chk.Err("MTest.SetDrivingVariablesInitialValues: invalid initial values size (%d instead of %d)", len(v), o.b.DrivingVariablesSize(o.h))
	}
	o.e0 = make([]float64, len(v))
	copy(o.e0, v)
	return nil
}

// SetThermodynamicForcesInitialValues sets the initial values of the thermodynamic forces
func (o *MTest) SetThermodynamicForcesInitialValues(v []float64) error {
	if o.s0 != nil {
		return chk.Err("MTest.SetThermodynamicForcesInitialValues: the initial values of the thermodynamic forces have already been declared")
	}
	if len(v) != o.b.ThermodynamicForcesSize(o.h) {
		return chk.Err("MTest.SetThermodynamicForcesInitialValues: invalid initial values size (%d instead of %d)", len(v), o.b.ThermodynamicForcesSize(o.h))
	}
	o.s0 = make([]float64, len(v))
	copy(o.s0, v)
	return nil
}

// SetInternalStateVariableInitialValue sets the initial value of a scalar internal state variable
func (o *MTest) SetInternalStateVariableInitialValue(name string, v float64) error {
	typ, err := o.b.InternalStateVariableType(name)
	if err != nil {
		return chk.Err("MTest.SetInternalStateVariableInitialValue: %v", err)
	}
	if typ != msolid.Scalar {
		return chk.Err("MTest.SetInternalStateVariableInitialValue: internal state variable %q is not a scalar", name)
	}
	pos, err := o.b.InternalStateVariablePosition(o.h, name)
	if err != nil {
		return chk.Err("MTest.SetInternalStateVariableInitialValue: %v", err)
	}
	o.iv0[pos] = v
	return nil
}

// SetInternalStateVariableInitialValues sets the initial values of a tensorial internal state variable
func (o *MTest) SetInternalStateVariableInitialValues(name string, v []float64) error {
	typ, err := o.b.InternalStateVariableType(name)
	if err != nil {
		return chk.Err("MTest.SetInternalStateVariableInitialValues: %v", err)
	}
	if typ == msolid.Scalar {
		if len(v) != 1 {
			return chk.Err("MTest.SetInternalStateVariableInitialValues: internal state variable %q is a scalar", name)
		}
		return o.SetInternalStateVariableInitialValue(name, v[0])
	}
	n := msolid.VarSize(typ, o.h)
	if len(v) != n {
		return chk.Err("MTest.SetInternalStateVariableInitialValues: invalid number of values for %q (%d instead of %d)", name, len(v), n)
	}
	pos, err := o.b.InternalStateVariablePosition(o.h, name)
	if err != nil {
		return chk.Err("MTest.SetInternalStateVariableInitialValues: %v", err)
	}
	copy(o.iv0[pos:pos+n], v)
	return nil
}

// loading ////////////////////////////////////////////////////////////////////////////////////////

// AddConstraint adds a new constraint
func (o *MTest) AddConstraint(c Constraint) error {
	if o.initialised {
		return chk.Err("MTest.AddConstraint: constraints cannot be added after CompleteInitialisation has been called")
	}
	o.constraints = append(o.constraints, c)
	return nil
}

// SetTimes sets the loading path
func (o *MTest) SetTimes(times []float64) error {
	if err := o.notInitialised("SetTimes"); err != nil {
		return err
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return chk.Err("MTest.SetTimes: times must be strictly increasing (t[%d]=%g ≤ t[%d]=%g)", i, times[i], i-1, times[i-1])
		}
	}
	o.times = make([]float64, len(times))
	copy(o.times, times)
	return nil
}

// AddTest adds a test checked after each converged step
func (o *MTest) AddTest(t UTest) { o.tests = append(o.tests, t) }

// files //////////////////////////////////////////////////////////////////////////////////////////

// SetOutputFile sets the path of the output file
func (o *MTest) SetOutputFile(path string) error {
	if err := o.notInitialised("SetOutputFile"); err != nil {
		return err
	}
	if o.outPath != "" {
		return chk.Err("MTest.SetOutputFile: output file already defined")
	}
	o.outPath = path
	return nil
}

// SetResidualFile sets the path of the residual file
func (o *MTest) SetResidualFile(path string) error {
	if err := o.notInitialised("SetResidualFile"); err != nil {
		return err
	}
	if o.resPath != "" {
		return chk.Err("MTest.SetResidualFile: residual file already defined")
	}
	o.resPath = path
	return nil
}

// SetOutputFilePrecision sets the number of significant digits of the output file
func (o *MTest) SetOutputFilePrecision(p int) error {
	if p < 1 {
		return chk.Err("MTest.SetOutputFilePrecision: invalid precision (%d)", p)
	}
	o.outPrec = p
	return nil
}

// SetResidualFilePrecision sets the number of significant digits of the residual file
func (o *MTest) SetResidualFilePrecision(p int) error {
	if p < 1 {
		return chk.Err("MTest.SetResidualFilePrecision: invalid precision (%d)", p)
	}
	o.resPrec = p
	return nil
}

// PrintLagrangeMultipliers adds the Lagrange multipliers to the output file
func (o *MTest) PrintLagrangeMultipliers(flag bool) { o.printLM = flag }

// initialisation /////////////////////////////////////////////////////////////////////////////////

// NumberOfUnknowns returns the number of driving variables plus the number of Lagrange multipliers
func (o *MTest) NumberOfUnknowns() (int, error) {
	if !o.initialised {
		return 0, chk.Err("MTest.NumberOfUnknowns: object not initialised")
	}
	return o.numberOfUnknowns(), nil
}

func (o *MTest) numberOfUnknowns() int {
	n := o.b.DrivingVariablesSize(o.h)
	for _, c := range o.constraints {
		n += c.NumberOfLagrangeMultipliers()
	}
	return n
}

// CompleteInitialisation checks the evolutions, resolves the options, adds the constraints
// implied by the modelling hypothesis and opens the output files
func (o *MTest) CompleteInitialisation() (err error) {
	if o.initialised {
		return chk.Err("MTest.CompleteInitialisation: object already initialised")
	}

	// evolutions
	for _, name := range o.b.MaterialPropertiesNames() {
		if !o.evm.Has(name) {
			return chk.Err("MTest.CompleteInitialisation: no evolution defined for material property %q", name)
		}
	}
	for _, name := range o.b.ExternalStateVariablesNames() {
		if !o.evm.Has(name) {
			return chk.Err("MTest.CompleteInitialisation: no evolution defined for external state variable %q", name)
		}
	}
	if ev := o.evm.Get("ThermalExpansionReferenceTemperature"); ev != nil && !ev.IsConstant() {
		return chk.Err("MTest.CompleteInitialisation: 'ThermalExpansionReferenceTemperature' must be a constant evolution")
	}
	err = o.checkThermalExpansion()
	if err != nil {
		return
	}

	// options
	o.opts = o.cfg.resolve(o.b)

	// constraints implied by the modelling hypothesis; removed if the files cannot be opened
	nc := len(o.constraints)
	o.constraints = append(o.constraints, o.hypothesisConstraints()...)
	defer func() {
		if err != nil {
			o.constraints = o.constraints[:nc]
		}
	}()

	// files
	if o.outPath != "" {
		o.outFile, err = os.Create(o.outPath)
		if err != nil {
			return chk.Err("MTest.CompleteInitialisation: cannot open output file %q:\n%v", o.outPath, err)
		}
		o.writeOutputHeader()
	}
	if o.resPath != "" {
		o.resFile, err = os.Create(o.resPath)
		if err != nil {
			o.closeFiles()
			return chk.Err("MTest.CompleteInitialisation: cannot open residual file %q:\n%v", o.resPath, err)
		}
		io.Ff(&o.res, "#first  column: iteration number\n")
		io.Ff(&o.res, "#second column: driving variable residual\n")
		io.Ff(&o.res, "#third  column: thermodynamic force residual\n")
		io.Ff(&o.res, "#The following columns are the components of the driving variable\n")
	}
	o.initialised = true
	return
}

// hypothesisConstraints returns the constraints implied by the modelling hypothesis
func (o *MTest) hypothesisConstraints() (res []Constraint) {
	btype := o.b.Type()
	if btype != msolid.SmallStrain && btype != msolid.FiniteStrain {
		return
	}
	finite := btype == msolid.FiniteStrain
	switch o.h {
	case msolid.PlaneStrain:
		v := 0.0
		if finite {
			v = 1
		}
		res = append(res, &ImposedDrivingVariable{C: 2, Ev: evol.Constant{V: v}})
	case msolid.PlaneStress:
		res = append(res, &ImposedThermodynamicForce{C: 2, Ev: evol.Constant{V: 0}, Finite: finite})
	case msolid.AxisymmetricalGeneralisedPlaneStress:
		var sev evol.Evolution = evol.Constant{V: 0}
		if o.evm.Has("AxialStress") {
			sev = o.evm.Get("AxialStress")
		}
		res = append(res, &ImposedThermodynamicForce{C: 1, Ev: sev, Finite: finite})
	}
	return
}

// checkThermalExpansion checks the thermal expansion coefficients and decides whether thermal
// strains are computed
func (o *MTest) checkThermalExpansion() error {
	iso := o.evm.Has("ThermalExpansion")
	n := 0
	for _, name := range []string{"ThermalExpansion1", "ThermalExpansion2", "ThermalExpansion3"} {
		if o.evm.Has(name) {
			n++
		}
	}
	o.thermal = false
	if o.noTherm || (!iso && n == 0) {
		return nil
	}
	if o.b.Type() != msolid.SmallStrain {
		o.warnf(VerboseLevel1, "MTest.CompleteInitialisation: thermal expansion is only handled for small strain behaviours\n")
		return nil
	}
	switch o.b.Symmetry() {
	case msolid.Isotropic:
		if n > 0 {
			return chk.Err("MTest.CompleteInitialisation: orthotropic thermal expansion coefficients defined for an isotropic behaviour")
		}
	case msolid.Orthotropic:
		if iso {
			return chk.Err("MTest.CompleteInitialisation: 'ThermalExpansion' defined for an orthotropic behaviour; use ThermalExpansion1 to ThermalExpansion3")
		}
		if n != 3 {
			return chk.Err("MTest.CompleteInitialisation: all the orthotropic thermal expansion coefficients must be defined (ThermalExpansion1 to ThermalExpansion3)")
		}
	}
	o.thermal = true
	return nil
}

// writeOutputHeader writes the description of the columns of the output file
func (o *MTest) writeOutputHeader() {
	dvn, thn := "strain", "stress"
	switch o.b.Type() {
	case msolid.FiniteStrain:
		dvn, thn = "deformation gradient", "Cauchy stress"
	case msolid.CohesiveZone:
		dvn, thn = "opening displacement", "cohesive force"
	}
	cnbr := 2
	io.Ff(&o.out, "# first column: time\n")
	for i, c := range o.b.DrivingVariablesComponents(o.h) {
		io.Ff(&o.out, "# %d column: %dth component of the %s (%s)\n", cnbr, i+1, dvn, c)
		cnbr++
	}
	if o.printLM {
		for k, c := range o.constraints {
			for i := 0; i < c.NumberOfLagrangeMultipliers(); i++ {
				io.Ff(&o.out, "# %d column: %dth Lagrange multplier of constraint %d\n", cnbr, i+1, k+1)
				cnbr++
			}
		}
	}
	for i, c := range o.b.ThermodynamicForcesComponents(o.h) {
		io.Ff(&o.out, "# %d column: %dth component of the %s (%s)\n", cnbr, i+1, thn, c)
		cnbr++
	}
	for _, d := range o.b.InternalStateVariablesDescriptions(o.h) {
		io.Ff(&o.out, "# %d column: %s\n", cnbr, d)
		cnbr++
	}
}

// initializeCurrentState allocates the state and sets the initial values
func (o *MTest) initializeCurrentState() {
	ndv := o.b.DrivingVariablesSize(o.h)
	nth := o.b.ThermodynamicForcesSize(o.h)
	niv := o.b.InternalStateVariablesSize(o.h)
	s := NewCurrentState(ndv, o.numberOfUnknowns(), nth, niv, len(o.b.MaterialPropertiesNames()), len(o.b.ExternalStateVariablesNames()))
	if o.e0 != nil {
		copy(s.U_1, o.e0)
	} else {
		o.b.DrivingVariablesDefaultInitialValues(s.U_1[:ndv], o.h)
	}
	copy(s.U0, s.U_1)
	copy(s.U1, s.U_1)
	if o.s0 != nil {
		copy(s.S_1, o.s0)
		copy(s.S0, o.s0)
	}
	copy(s.Iv_1, o.iv0)
	copy(s.Iv0, o.iv0)
	s.Revert()
	for i := 0; i < 3; i++ {
		copy(s.R[i], o.rm[i])
	}
	if ev := o.evm.Get("ThermalExpansionReferenceTemperature"); ev != nil {
		s.Tref = ev.F(0)
	}
	o.state = s
}

// steps //////////////////////////////////////////////////////////////////////////////////////////

// Prepare evaluates the material properties, the external state variables and the thermal
// strains over [t, t+dt]
func (o *MTest) Prepare(s *CurrentState, t, dt float64) {
	if o.resFile != nil {
		io.Ff(&o.res, "\n#resolution from %s to %s\n", o.format(o.resPrec, t), o.format(o.resPrec, t+dt))
	}
	if o.Summary != nil {
		o.Summary.Resids = append(o.Summary.Resids, []float64{})
	}
	for i, name := range o.b.MaterialPropertiesNames() {
		s.Mprops[i] = o.evm.Get(name).F(t + dt)
	}
	for i, name := range o.b.ExternalStateVariablesNames() {
		ev := o.evm.Get(name)
		s.Esv0[i] = ev.F(t)
		s.Desv[i] = ev.F(t+dt) - s.Esv0[i]
	}
	o.thermalStrain(s.Eth0, s, t)
	o.thermalStrain(s.Eth1, s, t+dt)
	s.setMechanicalDrivingVariables()
}

// thermalStrain computes the free thermal strain at time t
func (o *MTest) thermalStrain(eth []float64, s *CurrentState, t float64) {
	for i := range eth {
		eth[i] = 0
	}
	if !o.thermal {
		return
	}
	ΔT := o.evm.Get("Temperature").F(t) - s.Tref
	if o.b.Symmetry() == msolid.Isotropic {
		v := o.evm.Get("ThermalExpansion").F(t) * ΔT
		eth[0], eth[1], eth[2] = v, v, v
		return
	}
	em := make([]float64, len(eth))
	em[0] = o.evm.Get("ThermalExpansion1").F(t) * ΔT
	em[1] = o.evm.Get("ThermalExpansion2").F(t) * ΔT
	em[2] = o.evm.Get("ThermalExpansion3").F(t) * ΔT
	if o.h.SpaceDimension() == 1 {
		copy(eth, em)
		return
	}
	msolid.RotateStensor(eth, em, o.b.RotationMatrix(s.Mprops, s.R))
}

// assemble copies the tangent operator and the thermodynamic forces into K and r
func (o *MTest) assemble(wk *WorkSpace, sig []float64) {
	ndv := o.b.DrivingVariablesSize(o.h)
	nth := o.b.ThermodynamicForcesSize(o.h)
	if o.b.Type() == msolid.FiniteStrain {
		for i := 0; i < 3; i++ {
			wk.R[i] = sig[i]
			copy(wk.K[i][:ndv], wk.Kt[i])
		}
		if o.h.SpaceDimension() > 1 {
			for i := 0; i < nth-3; i++ {
				for _, row := range []int{2*i + 3, 2*i + 4} {
					wk.R[row] = sig[i+3]
					copy(wk.K[row][:ndv], wk.Kt[i+3])
				}
			}
		}
		return
	}
	for i := 0; i < nth; i++ {
		wk.R[i] = sig[i]
		copy(wk.K[i][:ndv], wk.Kt[i])
	}
}

// normalisation sets the normalisation factor of the Lagrange multipliers if not set yet
func (o *MTest) normalisation(s *CurrentState, wk *WorkSpace) {
	if s.A != 0 {
		return
	}
	for i := range wk.K {
		for j := range wk.K[i] {
			s.A = math.Max(s.A, math.Abs(wk.K[i][j]))
		}
	}
	if s.A == 0 {
		s.A = 1
	}
}

// setConstraints adds the contribution of the constraints
func (o *MTest) setConstraints(s *CurrentState, wk *WorkSpace, u1, sig []float64, t, dt float64) {
	pos := o.b.DrivingVariablesSize(o.h)
	dim := o.h.SpaceDimension()
	for _, c := range o.constraints {
		c.SetValues(wk.K, wk.R, s.U0, u1, wk.Kt, sig, pos, dim, t, dt, s.A)
		pos += c.NumberOfLagrangeMultipliers()
	}
}

// ComputePredictionStiffnessAndResidual assembles the linear system giving the prediction of u1
func (o *MTest) ComputePredictionStiffnessAndResidual(s *CurrentState, wk *WorkSpace, t, dt float64, ktype msolid.StiffnessMatrixType) bool {
	wk.Clear()
	if !o.b.ComputePredictionOperator(wk.Kt, &s.State, o.h, ktype) {
		return false
	}
	o.assemble(wk, s.S0)
	if o.b.Type() == msolid.SmallStrain {
		nth := o.b.ThermodynamicForcesSize(o.h)
		ndv := o.b.DrivingVariablesSize(o.h)
		for i := 0; i < nth; i++ {
			for j := 0; j < ndv; j++ {
				wk.R[i] -= wk.K[i][j] * (s.Eth1[j] - s.Eth0[j])
			}
		}
	}
	o.normalisation(s, wk)
	o.setConstraints(s, wk, s.U0, s.S0, t, dt)
	return true
}

// ComputeStiffnessMatrixAndResidual integrates the behaviour and assembles the Newton system
//  rdt -- time step scaling factor proposed by the behaviour
func (o *MTest) ComputeStiffnessMatrixAndResidual(s *CurrentState, wk *WorkSpace, t, dt float64, ktype msolid.StiffnessMatrixType) (ok bool, rdt float64) {
	wk.Clear()
	s.setEndOfStepDrivingVariables()
	numerical := ktype == msolid.NumericalTangentOperator
	if numerical {
		ktype = msolid.NoStiffness
	}
	ok = o.b.Integrate(wk.Kt, &s.State, o.h, dt, ktype)
	rdt = o.timeStepScalingFactor(ok)
	if !ok {
		o.Logf(VerboseLevel1, "MTest.ComputeStiffnessMatrixAndResidual: behaviour integration failed\n")
		return
	}
	if numerical {
		if !o.numericalTangentOperator(s, wk, dt) {
			o.Logf(VerboseLevel1, "MTest.ComputeStiffnessMatrixAndResidual: numerical evaluation of the tangent operator failed\n")
			return false, 0.5
		}
		for i := range wk.Kt {
			copy(wk.Kt[i], wk.Nkt[i])
		}
	}
	if o.opts.CompareToNumericalTangentOperator && ktype == msolid.ConsistentTangentOperator {
		o.compareToNumericalTangentOperator(s, wk, dt)
	}
	o.assemble(wk, s.S1)
	if len(o.constraints) > 0 {
		o.normalisation(s, wk)
	}
	o.setConstraints(s, wk, s.U1, s.S1, t, dt)
	return
}

// timeStepScalingFactor returns the factor proposed by the behaviour after an integration
//  Note: behaviours without proposal accept any step and halve the failed ones
func (o *MTest) timeStepScalingFactor(success bool) float64 {
	if b, ok := o.b.(msolid.TimeStepScaler); ok {
		return b.TimeStepScalingFactor()
	}
	if success {
		return math.MaxFloat64
	}
	return 0.5
}

// numericalTangentOperator fills wk.Nkt with central differences of the thermodynamic forces
//  Note: the state at the end of the time step is restored
func (o *MTest) numericalTangentOperator(s *CurrentState, wk *WorkSpace, dt float64) bool {
	pv := o.opts.Pv
	copy(wk.e1, s.E1)
	copy(wk.s1, s.S1)
	copy(wk.iv1, s.Iv1)
	perturb := func(j int, δ float64, res []float64) bool {
		s.State.Revert()
		copy(s.E1, wk.e1)
		s.E1[j] += δ
		if !o.b.Integrate(wk.Kp, &s.State, o.h, dt, msolid.NoStiffness) {
			return false
		}
		copy(res, s.S1)
		return true
	}
	ok := true
	for j := 0; j < len(s.E1) && ok; j++ {
		ok = perturb(j, pv, wk.Sp) && perturb(j, -pv, wk.Sm)
		if !ok {
			break
		}
		for i := range wk.Sp {
			wk.Nkt[i][j] = (wk.Sp[i] - wk.Sm[i]) / (2 * pv)
		}
	}
	copy(s.E1, wk.e1)
	copy(s.S1, wk.s1)
	copy(s.Iv1, wk.iv1)
	return ok
}

// compareToNumericalTangentOperator compares the tangent operator with central differences
func (o *MTest) compareToNumericalTangentOperator(s *CurrentState, wk *WorkSpace, dt float64) {
	if !o.numericalTangentOperator(s, wk, dt) {
		o.warnf(VerboseLevel1, "Numerical evalution of tangent operator failed.\n")
		return
	}
	merr, mi, mj := 0.0, 0, 0
	for i := range wk.Kt {
		for j := range wk.Kt[i] {
			e := math.Abs(wk.Kt[i][j] - wk.Nkt[i][j])
			if e > merr {
				merr, mi, mj = e, i, j
			}
		}
	}
	if o.Summary != nil {
		o.Summary.TangentError = math.Max(o.Summary.TangentError, merr)
	}
	if merr > o.opts.Toeps {
		o.warnf(VerboseLevel1, "Comparison to numerical jacobian failed (error : %g for (%d,%d), criterium %g).\n", merr, mi, mj, o.opts.Toeps)
		logMatrix(o.Verbose, VerboseLevel1, "Tangent operator", wk.Kt, mi, mj)
		logMatrix(o.Verbose, VerboseLevel1, "Numerical tangent operator", wk.Nkt, mi, mj)
	}
}

// errorNorms returns the norms of the correction and of the residual over the driving variables
func (o *MTest) errorNorms(wk *WorkSpace) (ne, nr float64) {
	ndv := o.b.DrivingVariablesSize(o.h)
	return maxAbs(wk.Du[:ndv]), maxAbs(wk.R[:ndv])
}

// CheckConvergence checks the norms of the Newton correction and of the residual and
// asks every constraint
func (o *MTest) CheckConvergence(s *CurrentState, wk *WorkSpace, t, dt float64, iter int) bool {
	ndv := o.b.DrivingVariablesSize(o.h)
	ne, nr := o.errorNorms(wk)
	if o.Verbose >= VerboseLevel1 {
		io.Pf("iteration %d : %g %g (", iter, ne, nr)
		for i := 0; i < ndv; i++ {
			if i > 0 {
				io.Pf(" ")
			}
			io.Pf("%g", s.U1[i])
		}
		io.Pf(")\n")
	}
	if o.resFile != nil {
		io.Ff(&o.res, "%d %s %s", iter, o.format(o.resPrec, ne), o.format(o.resPrec, nr))
		for i := 0; i < ndv; i++ {
			io.Ff(&o.res, " %s", o.format(o.resPrec, s.U1[i]))
		}
		io.Ff(&o.res, "\n")
	}
	if o.Summary != nil && len(o.Summary.Resids) > 0 {
		k := len(o.Summary.Resids) - 1
		o.Summary.Resids[k] = append(o.Summary.Resids[k], nr)
	}
	if !finite(ne) || !finite(nr) {
		return false
	}
	if ne > o.opts.Eeps || nr > o.opts.Seps {
		return false
	}
	for _, c := range o.constraints {
		if !c.CheckConvergence(s.U1, s.S1, o.opts.Eeps, o.opts.Seps, t, dt) {
			return false
		}
	}
	return true
}

// FailedCriteriaDiagnostic explains why the convergence test failed
func (o *MTest) FailedCriteriaDiagnostic(s *CurrentState, wk *WorkSpace, t, dt float64) string {
	ne, nr := o.errorNorms(wk)
	var buf bytes.Buffer
	io.Ff(&buf, "No convergence, the following criteria were not met:\n")
	if !finite(ne) || ne > o.opts.Eeps {
		io.Ff(&buf, "- test on driving variables (error : %g, criterion value : %g)\n", ne, o.opts.Eeps)
	}
	if !finite(nr) || nr > o.opts.Seps {
		io.Ff(&buf, "- test on thermodynamic forces (error : %g, criterion value : %g)\n", nr, o.opts.Seps)
	}
	for _, c := range o.constraints {
		if !c.CheckConvergence(s.U1, s.S1, o.opts.Eeps, o.opts.Seps, t, dt) {
			io.Ff(&buf, "- %s\n", c.FailedCriteriaDiagnostic(s.U1, s.S1, o.opts.Eeps, o.opts.Seps, t, dt))
		}
	}
	return buf.String()
}

// PostConvergence runs the tests on the converged state
func (o *MTest) PostConvergence(s *CurrentState, t, dt float64, period int) {
	for _, test := range o.tests {
		test.Check(s, t, dt, period)
	}
	if o.Summary != nil {
		o.Summary.Times = append(o.Summary.Times, t+dt)
	}
}

// PrintOutput writes the state at the beginning of the time step
//  force -- write even if the output frequency is UserDefinedTimes
func (o *MTest) PrintOutput(t float64, s *CurrentState, force bool) {
	if o.outFile == nil {
		return
	}
	if !force && o.opts.Frequency == UserDefinedTimes {
		return
	}
	u := s.U0[:o.b.DrivingVariablesSize(o.h)]
	if o.printLM {
		u = s.U0
	}
	io.Ff(&o.out, "%s", o.format(o.outPrec, t))
	for _, vals := range [][]float64{u, s.S0, s.Iv0} {
		for _, v := range vals {
			io.Ff(&o.out, " %s", o.format(o.outPrec, v))
		}
	}
	io.Ff(&o.out, "\n")
}

// execution //////////////////////////////////////////////////////////////////////////////////////

// Execute runs the loading path and returns the results of the tests
func (o *MTest) Execute() (res TestResult, err error) {
	if o.executed {
		return res, chk.Err("MTest.Execute: the loading path has already been run")
	}
	if len(o.times) == 0 {
		return res, chk.Err("MTest.Execute: no times defined")
	}
	if len(o.times) < 2 {
		return res, chk.Err("MTest.Execute: invalid number of times defined")
	}
	if !o.initialised {
		err = o.CompleteInitialisation()
		if err != nil {
			return
		}
	}
	o.executed = true
	defer func() {
		if e := o.closeFiles(); e != nil && err == nil {
			err = e
		}
	}()

	// state and workspace
	o.Summary = &Summary{Behaviour: o.bname, Hypothesis: o.h.String()}
	o.initializeCurrentState()
	s := o.state
	o.wk = NewWorkSpace(len(s.U0), len(s.E0), len(s.S0), len(s.Iv0))
	report := func(msg string, ok bool) {
		o.Summary.Periods = s.Period - 1
		o.Summary.Iterations = s.Iterations
		o.Summary.SubSteps = s.SubSteps
		if o.Verbose < VerboseLevel1 {
			return
		}
		if ok {
			io.Pfgreen("Execution succeeded\n")
		} else {
			io.Pfred("Execution failed (%s)\n", msg)
		}
		io.Pf("-number of period:     %d\n", s.Period-1)
		io.Pf("-number of iterations: %d\n", s.Iterations)
		io.Pf("-number of sub-steps:  %d\n", s.SubSteps)
	}

	// loading path
	o.PrintOutput(o.times[0], s, true)
	for i := 1; i < len(o.times); i++ {
		err = o.Solver.Execute(s, o.wk, o, o.times[i-1], o.times[i])
		if err != nil {
			report(err.Error(), false)
			return
		}
		o.PrintOutput(o.times[i], s, true)
	}
	report("", true)

	// tests
	res = TestResult{Name: "MTest", Success: true}
	for _, test := range o.tests {
		res.Append(test.Results())
	}
	return
}

// closeFiles writes the buffers and closes the files
func (o *MTest) closeFiles() (err error) {
	for _, f := range []struct {
		fil *os.File
		buf *bytes.Buffer
	}{{o.outFile, &o.out}, {o.resFile, &o.res}} {
		if f.fil == nil {
			continue
		}
		_, e := f.fil.Write(f.buf.Bytes())
		if e == nil {
			e = f.fil.Close()
		} else {
			f.fil.Close()
		}
		if e != nil && err == nil {
			err = chk.Err("MTest: cannot write file %q:\n%v", f.fil.Name(), e)
		}
		f.buf.Reset()
	}
	o.outFile, o.resFile = nil, nil
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// notInitialised returns an error if CompleteInitialisation has been called
func (o *MTest) notInitialised(method string) error {
	if o.initialised {
		return chk.Err("MTest.%s: cannot be called after CompleteInitialisation", method)
	}
	return nil
}

// format formats a number with prec significant digits; prec == 0 means %g
func (o *MTest) format(prec int, v float64) string {
	if prec > 0 {
		return io.Sf("%.*g", prec, v)
	}
	return io.Sf("%g", v)
}

// isThermalExpansionName tells whether name is one of the evolutions used to compute thermal strains
func isThermalExpansionName(name string) bool {
	switch name {
	case "ThermalExpansion", "ThermalExpansion1", "ThermalExpansion2", "ThermalExpansion3", "ThermalExpansionReferenceTemperature":
		return true
	}
	return false
}

// idx returns the position of name in names or -1
func idx(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func dot(a, b []float64) (res float64) {
	for i := range a {
		res += a[i] * b[i]
	}
	return
}

func maxAbs(v []float64) (res float64) {
	for _, x := range v {
		res = math.Max(res, math.Abs(x))
	}
	return
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
