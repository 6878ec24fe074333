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

// TestResult holds the outcome of a test and of its sub tests
type TestResult struct {
	Name    string       // name of the test
	Success bool         // all checks passed
	Message string       // description of the first failure
	Details []TestResult // sub tests
}

// Append adds a sub test; the result fails if the sub test failed
func (o *TestResult) Append(r TestResult) {
	o.Details = append(o.Details, r)
	if !r.Success {
		o.Success = false
	}
}

// UTest defines a test checked after each converged step
type UTest interface {
	Check(s *CurrentState, t, dt float64, period int) // Check compares the state at t+dt with the expected value
	Results() TestResult                              // Results returns the outcome of all checks
}

// VariableKind tells where a named variable is stored
type VariableKind int

// kinds of variables
const (
	DrivingVariable VariableKind = iota
	ThermodynamicForce
	InternalStateVariable
)

// Variable locates a component of the state by name; e.g. "EXX", "SXX" or "ElasticStrainXX"
type Variable struct {
	Name string       // name of the component
	Kind VariableKind // where the component is stored
	Pos  int          // position in the corresponding array
}

// NewVariable finds the component named name
func NewVariable(b msolid.Behaviour, h msolid.Hypothesis, name string) (v Variable, err error) {
	v.Name = name
	if v.Pos = idx(b.DrivingVariablesComponents(h), name); v.Pos >= 0 {
		v.Kind = DrivingVariable
		return
	}
	if v.Pos = idx(b.ThermodynamicForcesComponents(h), name); v.Pos >= 0 {
		v.Kind = ThermodynamicForce
		return
	}
	if v.Pos = idx(b.InternalStateVariablesComponents(h), name); v.Pos >= 0 {
		v.Kind = InternalStateVariable
		return
	}
	return v, chk.Err("no variable named %q", name)
}

// Value returns the value of the component at the end of the time step
func (o Variable) Value(s *CurrentState) float64 {
	switch o.Kind {
	case ThermodynamicForce:
		return s.S1[o.Pos]
	case InternalStateVariable:
		return s.Iv1[o.Pos]
	}
	return s.U1[o.Pos]
}

// AnalyticalTest compares a variable with an evolution
type AnalyticalTest struct {
	V   Variable       // variable
	Ev  evol.Evolution // expected value
	Eps float64        // tolerance
	res TestResult
}

// NewAnalyticalTest returns a new test comparing the variable name with ev
func NewAnalyticalTest(b msolid.Behaviour, h msolid.Hypothesis, name string, ev evol.Evolution, eps float64) (*AnalyticalTest, error) {
	v, err := NewVariable(b, h, name)
	if err != nil {
		return nil, chk.Err("AnalyticalTest: %v", err)
	}
	if err = positive("AnalyticalTest", "tolerance", eps); err != nil {
		return nil, err
	}
	return &AnalyticalTest{V: v, Ev: ev, Eps: eps, res: TestResult{Name: "AnalyticalTest(" + name + ")", Success: true}}, nil
}

// Check compares the value at t+dt
func (o *AnalyticalTest) Check(s *CurrentState, t, dt float64, period int) {
	val, ref := o.V.Value(s), o.Ev.F(t+dt)
	if math.Abs(val-ref) > o.Eps && o.res.Success {
		o.res.Success = false
		o.res.Message = io.Sf("test on %q failed at time %g: %g instead of %g (error : %g, criterion : %g)", o.V.Name, t+dt, val, ref, math.Abs(val-ref), o.Eps)
	}
}

// Results returns the outcome of all checks
func (o *AnalyticalTest) Results() TestResult { return o.res }

// ReferenceFileTest compares a variable with values given for each period
type ReferenceFileTest struct {
	V      Variable  // variable
	Values []float64 // reference values; Values[0] corresponds to the initial time
	Eps    float64   // tolerance
	res    TestResult
}

// NewReferenceFileTest returns a new test comparing the variable name with values
func NewReferenceFileTest(b msolid.Behaviour, h msolid.Hypothesis, name string, values []float64, eps float64) (*ReferenceFileTest, error) {
	v, err := NewVariable(b, h, name)
	if err != nil {
		return nil, chk.Err("ReferenceFileTest: %v", err)
	}
	if err = positive("ReferenceFileTest", "tolerance", eps); err != nil {
		return nil, err
	}
	return &ReferenceFileTest{V: v, Values: values, Eps: eps, res: TestResult{Name: "ReferenceFileTest(" + name + ")", Success: true}}, nil
}

// ReadReferenceColumn reads the column key of a table with a header line
//  Note: io.ReadTable panics on unreadable files or malformed rows; the panic is returned as an error
func ReadReferenceColumn(filename, key string) (vals []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			vals, err = nil, chk.Err("ReadReferenceColumn: cannot read file %q:\n%v", filename, r)
		}
	}()
	_, res := io.ReadTable(filename)
	vals, ok := res[key]
	if !ok {
		return nil, chk.Err("ReadReferenceColumn: file %q has no column %q", filename, key)
	}
	return vals, nil
}

// Check compares the value at the end of the period
func (o *ReferenceFileTest) Check(s *CurrentState, t, dt float64, period int) {
	if !o.res.Success {
		return
	}
	if period >= len(o.Values) {
		o.res.Success = false
		o.res.Message = io.Sf("test on %q failed: no reference value for period %d", o.V.Name, period)
		return
	}
	val, ref := o.V.Value(s), o.Values[period]
	if math.Abs(val-ref) > o.Eps {
		o.res.Success = false
		o.res.Message = io.Sf("test on %q failed at time %g: %g instead of %g (error : %g, criterion : %g)", o.V.Name, t+dt, val, ref, math.Abs(val-ref), o.Eps)
	}
}

// Results returns the outcome of all checks
func (o *ReferenceFileTest) Results() TestResult { return o.res }
