// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/thelfer/tfel-sub019/evol"
	"github.com/thelfer/tfel-sub019/msolid"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// elastic returns a driver for isotropic elasticity
func elastic(tst *testing.T, h msolid.Hypothesis, E, ν float64) *MTest {
	m, err := New(h, "elastic", nil)
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	setEvolutions(tst, m, map[string]float64{"YoungModulus": E, "PoissonRatio": ν, "Temperature": 293.15})
	return m
}

// setEvolutions declares constant evolutions
func setEvolutions(tst *testing.T, m *MTest, values map[string]float64) {
	for name, v := range values {
		if err := m.SetEvolution(name, evol.Constant{V: v}); err != nil {
			tst.Fatalf("%v\n", err)
		}
	}
}

// impose adds an imposed driving variable or thermodynamic force
func impose(tst *testing.T, m *MTest, name string, ev evol.Evolution) {
	var c Constraint
	var err error
	if idx(m.Behaviour().ThermodynamicForcesComponents(m.Hypothesis()), name) >= 0 {
		c, err = NewImposedThermodynamicForce(m.Behaviour(), m.Hypothesis(), name, ev)
	} else {
		c, err = NewImposedDrivingVariable(m.Behaviour(), m.Hypothesis(), name, ev)
	}
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	if err = m.AddConstraint(c); err != nil {
		tst.Fatalf("%v\n", err)
	}
}

// ramp returns a piecewise linear evolution
func ramp(tst *testing.T, times, values []float64) evol.Evolution {
	ev, err := evol.NewLPE(times, values)
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	return ev
}

// countingSolver records the calls to the solver
type countingSolver struct {
	GenericSolver
	calls [][]float64
}

func (o *countingSolver) Execute(s *CurrentState, wk *WorkSpace, p Study, ti, te float64) error {
	o.calls = append(o.calls, []float64{ti, te})
	return o.GenericSolver.Execute(s, wk, p, ti, te)
}

// failingBehaviour never integrates successfully
type failingBehaviour struct {
	msolid.LinElast
}

func (o *failingBehaviour) Integrate(kt [][]float64, s *msolid.State, h msolid.Hypothesis, dt float64, ktype msolid.StiffnessMatrixType) bool {
	return false
}

// constraintsChecker checks all constraints at convergence
type constraintsChecker struct {
	m   *MTest
	tol float64
	n   int
	res TestResult
}

func (o *constraintsChecker) Check(s *CurrentState, t, dt float64, period int) {
	o.n++
	for _, c := range o.m.Constraints() {
		if !c.CheckConvergence(s.U1, s.S1, o.tol, o.tol, t, dt) {
			o.res.Success = false
			o.res.Message = c.FailedCriteriaDiagnostic(s.U1, s.S1, o.tol, o.tol, t, dt)
		}
	}
}

func (o *constraintsChecker) Results() TestResult { return o.res }

func Test_mtest01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mtest01. uniaxial elastic scenario")

	E, ν := 200000.0, 0.3
	m := elastic(tst, msolid.Tridimensional, E, ν)
	impose(tst, m, "EXX", evol.Constant{V: 0.01})
	if err := m.SetTimes([]float64{0, 1}); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	res, err := m.Execute()
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if !res.Success {
		tst.Errorf("tests should have passed\n")
	}

	s := m.State()
	io.Pforan("u0 = %v\n", s.U0)
	io.Pforan("s0 = %v\n", s.S0)
	chk.Float64(tst, "σxx", m.Options().Seps, s.S0[0], E*0.01)
	chk.Array(tst, "σ (lateral)", m.Options().Seps, s.S0[1:], []float64{0, 0, 0, 0, 0})
	chk.Array(tst, "ε", 1e-10, s.U0[:6], []float64{0.01, -ν * 0.01, -ν * 0.01, 0, 0, 0})
	chk.Int(tst, "periods", m.Summary.Periods, 1)
	chk.Int(tst, "iterations", m.Summary.Iterations, 2)
	chk.Int(tst, "sub steps", m.Summary.SubSteps, 0)

	// a second run is not allowed
	if _, err = m.Execute(); err == nil {
		tst.Errorf("second run should have failed\n")
	}
}

func Test_mtest02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mtest02. monotone time and state forwarding")

	m := elastic(tst, msolid.Tridimensional, 200000, 0.3)
	impose(tst, m, "EXX", ramp(tst, []float64{0, 1, 2}, []float64{0, 0.01, 0.02}))
	m.SetTimes([]float64{0, 1, 2})
	solver := new(countingSolver)
	m.Solver = solver
	_, err := m.Execute()
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Deep2(tst, "calls", 1e-17, solver.calls, [][]float64{{0, 1}, {1, 2}})
	chk.Int(tst, "generic solver calls", solver.Calls, 2)

	s := m.State()
	chk.Array(tst, "u0 == u1", 1e-17, s.U0, s.U1)
	chk.Float64(tst, "u_1[0]", 1e-12, s.U_1[0], 0.01)
	chk.Float64(tst, "u0[0]", 1e-12, s.U0[0], 0.02)
	chk.Float64(tst, "Dt_1", 1e-17, s.Dt_1, 1)
	chk.Int(tst, "period", s.Period, 3)
	chk.Array(tst, "times", 1e-15, m.Summary.Times, []float64{1, 2})
}

func Test_mtest03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mtest03. number of unknowns")

	m := elastic(tst, msolid.PlaneStrain, 200000, 0.3)
	impose(tst, m, "EXX", evol.Constant{V: 0.001})
	impose(tst, m, "SXY", evol.Constant{V: 0})
	if _, err := m.NumberOfUnknowns(); err == nil {
		tst.Errorf("NumberOfUnknowns should fail before initialisation\n")
		return
	}
	if err := m.SetTimes([]float64{0, 0.5, 1}); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err := m.CompleteInitialisation(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err := m.SetTimes([]float64{0, 2}); err == nil {
		tst.Errorf("SetTimes should fail after initialisation\n")
		return
	}

	// 4 strains + EXX + automatic EZZ
	n, _ := m.NumberOfUnknowns()
	chk.Int(tst, "unknowns", n, 6)
	chk.Int(tst, "constraints", len(m.Constraints()), 3)

	if _, err := m.Execute(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	n, _ = m.NumberOfUnknowns()
	chk.Int(tst, "unknowns after run", n, 6)
	chk.Int(tst, "len(u1)", len(m.State().U1), 6)

	// plane strain
	E, ν := 200000.0, 0.3
	s := m.State()
	chk.Float64(tst, "ezz", 1e-15, s.U0[2], 0)
	chk.Float64(tst, "eyy", 1e-12, s.U0[1], -ν/(1-ν)*0.001)
	chk.Float64(tst, "sxx", 1e-3, s.S0[0], E/(1-ν*ν)*0.001)
	chk.Float64(tst, "szz", 1e-3, s.S0[2], ν*E/(1-ν*ν)*0.001)

	// failed initialisations do not add the plane strain constraint
	m, _ = New(msolid.PlaneStrain, "elastic", nil)
	setEvolutions(tst, m, map[string]float64{"PoissonRatio": ν, "Temperature": 293.15})
	impose(tst, m, "EXX", evol.Constant{V: 0.001})
	m.SetOutputFile(filepath.Join(tst.TempDir(), "nonexistent", "ps.res"))
	for i := 0; i < 2; i++ {
		if err := m.CompleteInitialisation(); err == nil {
			tst.Errorf("initialisation without YoungModulus should have failed\n")
			return
		}
		chk.Int(tst, "constraints after failure", len(m.Constraints()), 1)
	}
	setEvolutions(tst, m, map[string]float64{"YoungModulus": E})
	if err := m.CompleteInitialisation(); err == nil {
		tst.Errorf("initialisation with an invalid output file should have failed\n")
		return
	}
	chk.Int(tst, "constraints after failure", len(m.Constraints()), 1)
	if _, err := m.NumberOfUnknowns(); err == nil {
		tst.Errorf("NumberOfUnknowns should fail after a failed initialisation\n")
	}
}

func Test_mtest04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mtest04. constraints are satisfied at convergence")

	m := elastic(tst, msolid.Tridimensional, 200000, 0.3)
	impose(tst, m, "EXX", ramp(tst, []float64{0, 3}, []float64{0, 0.003}))
	impose(tst, m, "SYY", ramp(tst, []float64{0, 3}, []float64{0, -150}))
	impose(tst, m, "EXY", evol.Constant{V: 0.0005})
	m.SetTimes([]float64{0, 1, 2, 3})
	checker := &constraintsChecker{m: m, tol: 1e-3, res: TestResult{Success: true}}
	m.AddTest(checker)
	res, err := m.Execute()
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if !res.Success {
		tst.Errorf("constraints not satisfied: %v\n", checker.res.Message)
	}
	chk.Int(tst, "number of checks", checker.n, 3)
	chk.Float64(tst, "syy", 1e-3, m.State().S0[1], -150)
}

func Test_mtest05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mtest05. sub stepping terminates")

	b := new(failingBehaviour)
	if err := b.Init(nil); err != nil {
		tst.Errorf("%v\n", err)
		return
	}

	// maximum number of sub steps
	m, err := NewWithBehaviour(msolid.Tridimensional, b)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	setEvolutions(tst, m, map[string]float64{"YoungModulus": 1000, "PoissonRatio": 0.2, "Temperature": 293.15})
	m.SetTimes([]float64{0, 1})
	_, err = m.Execute()
	if err == nil {
		tst.Errorf("execution should have failed\n")
		return
	}
	io.Pforan("err = %v\n", err)
	if !strings.Contains(err.Error(), "maximum number of sub stepping reached") {
		tst.Errorf("wrong error message: %v\n", err)
	}
	if !strings.Contains(err.Error(), "behaviour integration failed") {
		tst.Errorf("error message should contain the diagnostic: %v\n", err)
	}
	chk.Int(tst, "sub steps", m.State().SubSteps, 10)

	// unmet criteria are reported
	m = elastic(tst, msolid.Tridimensional, 200000, 0.3)
	impose(tst, m, "EXX", evol.Constant{V: 0.001})
	m.SetPredictionPolicy(NoPrediction)
	m.SetMaximumNumberOfIterations(1)
	m.SetMaximumNumberOfSubSteps(2)
	m.SetTimes([]float64{0, 1})
	_, err = m.Execute()
	if err == nil {
		tst.Errorf("execution should have failed\n")
		return
	}
	io.Pforan("err = %v\n", err)
	if !strings.Contains(err.Error(), "No convergence, the following criteria were not met") {
		tst.Errorf("error message should contain the diagnostic: %v\n", err)
	}
	chk.Int(tst, "sub steps", m.State().SubSteps, 2)

	// minimal time step
	m, _ = NewWithBehaviour(msolid.Tridimensional, b)
	setEvolutions(tst, m, map[string]float64{"YoungModulus": 1000, "PoissonRatio": 0.2, "Temperature": 293.15})
	m.SetTimes([]float64{0, 1})
	m.SetMinimalTimeStep(0.1)
	_, err = m.Execute()
	if err == nil {
		tst.Errorf("execution should have failed\n")
		return
	}
	if !strings.Contains(err.Error(), "time step is below its minimal value") {
		tst.Errorf("wrong error message: %v\n", err)
	}
	chk.Int(tst, "sub steps", m.State().SubSteps, 4)
}

func Test_mtest06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mtest06. thermal strains")

	// zero thermal expansion
	m := elastic(tst, msolid.Tridimensional, 200000, 0.3)
	m.SetEvolution("ThermalExpansion", evol.Constant{V: 0})
	if err := m.CompleteInitialisation(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	m.initializeCurrentState()
	s := m.State()
	copy(s.U1, []float64{0.001, 0.002, 0.003, 0.004, 0.005, 0.006})
	m.Prepare(s, 0, 1)
	chk.Array(tst, "eth0", 1e-17, s.Eth0, make([]float64, 6))
	chk.Array(tst, "eth1", 1e-17, s.Eth1, make([]float64, 6))
	chk.Array(tst, "e1", 1e-17, s.E1, s.U1)

	// free isotropic dilatation
	α, ΔT := 1e-5, 100.0
	m, _ = New(msolid.Tridimensional, "elastic", nil)
	setEvolutions(tst, m, map[string]float64{"YoungModulus": 200000, "PoissonRatio": 0.3, "ThermalExpansion": α})
	m.SetExternalStateVariable("Temperature", ramp(tst, []float64{0, 1}, []float64{293.15, 293.15 + ΔT}))
	m.SetTimes([]float64{0, 1})
	if _, err := m.Execute(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	s = m.State()
	chk.Array(tst, "ε", 1e-10, s.U0, []float64{α * ΔT, α * ΔT, α * ΔT, 0, 0, 0})
	chk.Array(tst, "σ", 1e-3, s.S0, make([]float64, 6))

	// no thermal expansion handling
	m, _ = New(msolid.Tridimensional, "elastic", nil)
	setEvolutions(tst, m, map[string]float64{"YoungModulus": 200000, "PoissonRatio": 0.3, "ThermalExpansion": α})
	m.SetExternalStateVariable("Temperature", ramp(tst, []float64{0, 1}, []float64{293.15, 293.15 + ΔT}))
	m.SetHandleThermalExpansion(false)
	m.SetTimes([]float64{0, 1})
	if _, err := m.Execute(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Array(tst, "ε", 1e-12, m.State().U0, make([]float64, 6))
}

func Test_mtest07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mtest07. output and residual files")

	dir := tst.TempDir()
	outfn := filepath.Join(dir, "elastic.res")
	resfn := filepath.Join(dir, "elastic-residual.txt")
	m := elastic(tst, msolid.Tridimensional, 200000, 0.3)
	impose(tst, m, "EXX", ramp(tst, []float64{0, 2}, []float64{0, 0.02}))
	m.SetTimes([]float64{0, 1, 2})
	m.SetOutputFile(outfn)
	m.SetResidualFile(resfn)
	m.SetOutputFilePrecision(14)
	m.PrintLagrangeMultipliers(true)
	if _, err := m.Execute(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}

	// residual file
	comments, data := readLines(tst, resfn)
	chk.Int(tst, "residual file: comments", comments, 6)
	chk.Int(tst, "residual file: data lines", data, m.Summary.Iterations)

	// output file: time, 6 strains, 1 multiplier, 6 stresses
	comments, data = readLines(tst, outfn)
	chk.Int(tst, "output file: comments", comments, 14)
	chk.Int(tst, "output file: data lines", data, 3)
	b, _ := os.ReadFile(outfn)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	chk.String(tst, lines[0], "# first column: time")
	chk.String(tst, lines[1], "# 2 column: 1th component of the strain (EXX)")
	chk.String(tst, lines[7], "# 8 column: 1th Lagrange multplier of constraint 1")
	chk.String(tst, lines[8], "# 9 column: 1th component of the stress (SXX)")
	chk.Int(tst, "number of columns", len(strings.Fields(lines[len(lines)-1])), 14)
	chk.String(tst, strings.Fields(lines[len(lines)-1])[0], "2")

	// summary
	sumfn := filepath.Join(dir, "elastic.json")
	if err := m.Summary.Save(sumfn, "json", false); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	sum, err := ReadSummary(sumfn, "json")
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Int(tst, "periods", sum.Periods, 2)
	chk.Int(tst, "iterations", sum.Iterations, m.Summary.Iterations)
	chk.String(tst, sum.Behaviour, "elastic")
	chk.Int(tst, "resolutions", len(sum.Resids), 2)
}

// readLines counts the comment and data lines of a file
func readLines(tst *testing.T, filename string) (comments, data int) {
	b, err := os.ReadFile(filename)
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "#"):
			comments++
		default:
			data++
		}
	}
	return
}

func Test_mtest08(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mtest08. prediction policies")

	// elastic prediction
	m := elastic(tst, msolid.Tridimensional, 200000, 0.3)
	impose(tst, m, "EXX", evol.Constant{V: 0.01})
	m.SetTimes([]float64{0, 1})
	m.SetPredictionPolicy(ElasticPrediction)
	if _, err := m.Execute(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Int(tst, "iterations (elastic prediction)", m.Summary.Iterations, 1)
	chk.Float64(tst, "σxx", 1e-3, m.State().S0[0], 2000)

	// linear prediction
	m = elastic(tst, msolid.Tridimensional, 200000, 0.3)
	impose(tst, m, "EXX", ramp(tst, []float64{0, 2}, []float64{0, 0.02}))
	m.SetTimes([]float64{0, 1, 2})
	m.SetPredictionPolicy(LinearPrediction)
	if _, err := m.Execute(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Int(tst, "iterations (linear prediction)", m.Summary.Iterations, 3)
	chk.Float64(tst, "σxx", 1e-3, m.State().S0[0], 4000)

	// policies by name
	p, err := NewPredictionPolicy("TangentOperatorPrediction")
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.String(tst, p.String(), "TangentOperatorPrediction")
	if _, err = NewPredictionPolicy("Magic"); err == nil {
		tst.Errorf("invalid prediction policy should have failed\n")
	}
}

func Test_mtest09(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mtest09. setters")

	m := elastic(tst, msolid.Tridimensional, 200000, 0.3)

	// criteria
	if err := m.SetDrivingVariableEpsilon(-1); err == nil {
		tst.Errorf("negative epsilon should have failed\n")
	}
	if err := m.SetDrivingVariableEpsilon(1e-10); err != nil {
		tst.Errorf("%v\n", err)
	}
	if err := m.SetDrivingVariableEpsilon(1e-10); err == nil {
		tst.Errorf("second declaration should have failed\n")
	}
	if err := m.SetThermodynamicForceEpsilon(0); err == nil {
		tst.Errorf("zero epsilon should have failed\n")
	}
	if err := m.SetMaximumNumberOfIterations(0); err == nil {
		tst.Errorf("zero iterations should have failed\n")
	}

	// time steps
	if err := m.SetMinimalTimeStep(1e-3); err != nil {
		tst.Errorf("%v\n", err)
	}
	if err := m.SetMaximalTimeStep(1e-4); err == nil {
		tst.Errorf("maximal time step below the minimal one should have failed\n")
	}
	if err := m.SetMaximalTimeStep(1.05e-3); err == nil {
		tst.Errorf("maximal time step too close to the minimal one should have failed\n")
	}
	if err := m.SetMaximalTimeStep(0.5); err != nil {
		tst.Errorf("%v\n", err)
	}
	if err := m.SetMaximalTimeStep(0.5); err == nil {
		tst.Errorf("second declaration should have failed\n")
	}
	n := elastic(tst, msolid.Tridimensional, 200000, 0.3)
	n.SetMaximalTimeStep(0.5)
	if err := n.SetMinimalTimeStep(0.5); err == nil {
		tst.Errorf("minimal time step above the maximal one should have failed\n")
	}
	for _, v := range []float64{0, 1, 1.5} {
		if err := n.SetMinimalTimeStepScalingFactor(v); err == nil {
			tst.Errorf("minimal time step scaling factor %g should have failed\n", v)
		}
	}
	if err := n.SetMinimalTimeStepScalingFactor(0.2); err != nil {
		tst.Errorf("%v\n", err)
	}
	if err := n.SetMinimalTimeStepScalingFactor(0.3); err == nil {
		tst.Errorf("second declaration should have failed\n")
	}
	if err := n.SetMaximalTimeStepScalingFactor(0.9); err == nil {
		tst.Errorf("maximal time step scaling factor below one should have failed\n")
	}
	if err := n.SetMaximalTimeStepScalingFactor(2); err != nil {
		tst.Errorf("%v\n", err)
	}
	n.SetDynamicTimeStepScaling(true)
	if err := n.CompleteInitialisation(); err != nil {
		tst.Errorf("%v\n", err)
	} else {
		opts := n.Options()
		if !opts.DynamicTimeStepScaling {
			tst.Errorf("dynamic time step scaling should be enabled\n")
		}
		chk.Float64(tst, "maxTimeStep", 1e-15, opts.MaxTimeStep, 0.5)
		chk.Float64(tst, "mintsf", 1e-15, opts.MinTimeStepScalingFactor, 0.2)
		chk.Float64(tst, "maxtsf", 1e-15, opts.MaxTimeStepScalingFactor, 2)
	}

	// rotation matrix
	if err := m.SetRotationMatrix([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, false); err == nil {
		tst.Errorf("rotation matrix for an isotropic behaviour should have failed\n")
	}
	o, _ := New(msolid.Tridimensional, "ortho-elastic", nil)
	if err := o.SetRotationMatrix([][]float64{{1, 0, 0}, {0, 2, 0}, {0, 0, 1}}, false); err == nil {
		tst.Errorf("non-normalised matrix should have failed\n")
	}
	c := 1.0 / 1.4142135623730951
	if err := o.SetRotationMatrix([][]float64{{1, c, 0}, {0, c, 0}, {0, 0, 1}}, false); err == nil {
		tst.Errorf("non-orthogonal matrix should have failed\n")
	}
	if err := o.SetRotationMatrix([][]float64{{c, -c, 0}, {c, c, 0}, {0, 0, 1}}, false); err != nil {
		tst.Errorf("%v\n", err)
	}
	if err := o.SetRotationMatrix([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, false); err == nil {
		tst.Errorf("second rotation matrix should have failed\n")
	}
	if err := o.SetRotationMatrix([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, true); err != nil {
		tst.Errorf("%v\n", err)
	}

	// initial values
	if err := m.SetDrivingVariablesInitialValues([]float64{0, 0}); err == nil {
		tst.Errorf("wrong size should have failed\n")
	}
	if err := m.SetThermodynamicForcesInitialValues(make([]float64, 6)); err != nil {
		tst.Errorf("%v\n", err)
	}
	if err := m.SetThermodynamicForcesInitialValues(make([]float64, 6)); err == nil {
		tst.Errorf("second declaration should have failed\n")
	}
	if err := m.SetInternalStateVariableInitialValue("EquivalentPlasticStrain", 0); err == nil {
		tst.Errorf("unknown internal state variable should have failed\n")
	}

	// evolutions
	if err := m.SetMaterialProperty("Density", evol.Constant{V: 1}); err == nil {
		tst.Errorf("unknown material property should have failed\n")
	}
	if err := m.SetEvolution("YoungModulus", evol.Constant{V: 1}); err == nil {
		tst.Errorf("duplicated evolution should have failed\n")
	}
	if err := m.SetTimes([]float64{0, 1, 1}); err == nil {
		tst.Errorf("non increasing times should have failed\n")
	}

	// missing evolution
	n, _ = New(msolid.Tridimensional, "elastic", nil)
	n.SetMaterialProperty("YoungModulus", evol.Constant{V: 1})
	if err := n.CompleteInitialisation(); err == nil {
		tst.Errorf("missing evolution should have failed\n")
	}

	// non constant reference temperature
	n = elastic(tst, msolid.Tridimensional, 200000, 0.3)
	n.SetEvolution("ThermalExpansionReferenceTemperature", ramp(tst, []float64{0, 1}, []float64{0, 1}))
	if err := n.CompleteInitialisation(); err == nil {
		tst.Errorf("non constant reference temperature should have failed\n")
	}

	// times
	n = elastic(tst, msolid.Tridimensional, 200000, 0.3)
	if _, err := n.Execute(); err == nil {
		tst.Errorf("missing times should have failed\n")
	}
	n.SetTimes([]float64{0})
	if _, err := n.Execute(); err == nil {
		tst.Errorf("single time should have failed\n")
	}

	// constraints after initialisation
	if err := m.CompleteInitialisation(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err := m.AddConstraint(&ImposedDrivingVariable{C: 0, Ev: evol.Constant{V: 0}}); err == nil {
		tst.Errorf("constraint after initialisation should have failed\n")
	}
	if err := m.CompleteInitialisation(); err == nil {
		tst.Errorf("second initialisation should have failed\n")
	}
	chk.Float64(tst, "eeps", 1e-17, m.Options().Eeps, 1e-10)
	chk.Float64(tst, "seps", 1e-17, m.Options().Seps, 1e-3)
	chk.Float64(tst, "toeps", 1e-7, m.Options().Toeps, 1e7)
	chk.Float64(tst, "pv", 1e-20, m.Options().Pv, 1e-9)
	chk.Int(tst, "iterMax", m.Options().IterMax, 100)
}
