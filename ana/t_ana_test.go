// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/thelfer/tfel-sub019/evol"
	"github.com/thelfer/tfel-sub019/msolid"
	"github.com/thelfer/tfel-sub019/mtest"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// newTest allocates a material point test with constant evolutions
func newTest(tst *testing.T, h msolid.Hypothesis, name string, values map[string]float64) *mtest.MTest {
	m, err := mtest.New(h, name, nil)
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	for key, v := range values {
		if err = m.SetEvolution(key, evol.Constant{V: v}); err != nil {
			tst.Fatalf("%v\n", err)
		}
	}
	return m
}

// run imposes exx linearly from 0 to εmax and executes the test
func run(tst *testing.T, m *mtest.MTest, εmax float64) {
	ev, _ := evol.NewLPE([]float64{0, 1}, []float64{0, εmax})
	c, err := mtest.NewImposedDrivingVariable(m.Behaviour(), m.Hypothesis(), "EXX", ev)
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	m.AddConstraint(c)
	m.SetTimes([]float64{0, 0.5, 1})
	if _, err = m.Execute(); err != nil {
		tst.Fatalf("%v\n", err)
	}
}

func Test_elast01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("elast01. closed-form solutions")

	var sol IsoElast
	err := sol.Init(dbf.Params{
		&dbf.P{N: "E", V: 1000},
		&dbf.P{N: "nu", V: 0.25},
		&dbf.P{N: "alpha", V: 1e-5},
		&dbf.P{N: "T0", V: 300},
	})
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Float64(tst, "λ", 1e-12, sol.λ, 400)
	chk.Float64(tst, "G", 1e-12, sol.G, 400)
	chk.Float64(tst, "K", 1e-12, sol.K, 2000.0/3.0)

	σxx, εyy := sol.Uniaxial(0.01)
	chk.Float64(tst, "uniaxial: σxx", 1e-12, σxx, 10)
	chk.Float64(tst, "uniaxial: εyy", 1e-15, εyy, -0.0025)

	σa, σl := sol.Oedometric(0.01)
	chk.Float64(tst, "oedometric: σxx", 1e-12, σa, 12)
	chk.Float64(tst, "oedometric: σyy", 1e-12, σl, 4)
	chk.Float64(tst, "shear", 1e-12, sol.Shear(0.01), 4)

	chk.Float64(tst, "free dilatation", 1e-15, sol.FreeDilatation(400), 1e-3)
	chk.Float64(tst, "blocked dilatation", 1e-12, sol.BlockedDilatation(400), -2)

	if err = sol.Init(dbf.Params{&dbf.P{N: "nu", V: 0.5}}); err == nil {
		tst.Errorf("incompressible material should have failed\n")
	}
	if err = sol.Init(dbf.Params{&dbf.P{N: "G", V: 1}}); err == nil {
		tst.Errorf("unknown parameter should have failed\n")
	}
}

func Test_elast02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("elast02. closed-form solutions versus material point tests")

	E, ν, εmax := 200000.0, 0.3, 1e-3
	var sol IsoElast
	sol.Init(dbf.Params{&dbf.P{N: "E", V: E}, &dbf.P{N: "nu", V: ν}})
	props := map[string]float64{"YoungModulus": E, "PoissonRatio": ν, "Temperature": 293.15}

	// tridimensional
	m := newTest(tst, msolid.Tridimensional, "elastic", props)
	run(tst, m, εmax)
	σxx, εyy := sol.Uniaxial(εmax)
	s := m.State()
	io.Pforan("3D: σ = %v\n", s.S0)
	chk.Float64(tst, "3D: σxx", 1e-6, s.S0[0], σxx)
	chk.Float64(tst, "3D: εyy", 1e-12, s.U0[1], εyy)
	chk.Float64(tst, "3D: εzz", 1e-12, s.U0[2], εyy)

	// plane strain
	m = newTest(tst, msolid.PlaneStrain, "elastic", props)
	run(tst, m, εmax)
	σxx, σzz, εyy := sol.PlaneStrain(εmax)
	s = m.State()
	io.Pforan("PS: σ = %v\n", s.S0)
	chk.Float64(tst, "PS: σxx", 1e-6, s.S0[0], σxx)
	chk.Float64(tst, "PS: σyy", 1e-6, s.S0[1], 0)
	chk.Float64(tst, "PS: σzz", 1e-6, s.S0[2], σzz)
	chk.Float64(tst, "PS: εyy", 1e-12, s.U0[1], εyy)
	chk.Float64(tst, "PS: εzz", 1e-15, s.U0[2], 0)
}

func Test_elast03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("elast03. free thermal dilatation")

	α, T0, T1 := 1e-5, 293.15, 393.15
	var sol IsoElast
	sol.Init(dbf.Params{&dbf.P{N: "alpha", V: α}, &dbf.P{N: "T0", V: T0}})

	m := newTest(tst, msolid.Tridimensional, "elastic", map[string]float64{
		"YoungModulus": 200000, "PoissonRatio": 0.3, "ThermalExpansion": α, "ThermalExpansionReferenceTemperature": T0,
	})
	temp, _ := evol.NewLPE([]float64{0, 1}, []float64{T0, T1})
	m.SetEvolution("Temperature", temp)
	m.SetTimes([]float64{0, 0.5, 1})
	if _, err := m.Execute(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	s := m.State()
	for i := 0; i < 3; i++ {
		chk.Float64(tst, io.Sf("ε%d", i), 1e-12, s.U0[i], sol.FreeDilatation(T1))
	}
	chk.Array(tst, "σ", 1e-6, s.S0, make([]float64, 6))
}

func Test_norton01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("norton01. creep and relaxation")

	var sol Norton
	if err := sol.Init(dbf.Params{&dbf.P{N: "E", V: 1000}, &dbf.P{N: "A", V: 1e-3}, &dbf.P{N: "N", V: 2}}); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	εxx, p := sol.Creep(10, 2)
	chk.Float64(tst, "creep: εxx", 1e-15, εxx, 0.21)
	chk.Float64(tst, "creep: p", 1e-15, p, 0.2)
	εxx, _ = sol.Creep(-10, 2)
	chk.Float64(tst, "creep: εxx (compression)", 1e-15, εxx, -0.21)

	// σ = σ0 / (1 + E A σ0 t)
	chk.Float64(tst, "relaxation", 1e-12, sol.Relaxation(10, 0.1), 5)
	chk.Float64(tst, "relaxation time", 1e-12, sol.RelaxationTime(10), 0.1)

	sol.N = 1
	chk.Float64(tst, "linear relaxation", 1e-12, sol.Relaxation(10, sol.RelaxationTime(10)), 5)

	if err := sol.Init(dbf.Params{&dbf.P{N: "N", V: 0.5}}); err == nil {
		tst.Errorf("exponent smaller than one should have failed\n")
	}
}

// relaxation is the expected stress history of a relaxation test
type relaxation struct {
	sol Norton
	σ0  float64
}

func (o relaxation) F(t float64) float64 { return o.sol.Relaxation(o.σ0, t) }
func (o relaxation) IsConstant() bool    { return false }

func Test_norton02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("norton02. relaxation versus material point test")

	E, ν, A, N, ε0 := 200000.0, 0.3, 1e-10, 3.0, 1e-3
	var sol Norton
	sol.Init(dbf.Params{&dbf.P{N: "E", V: E}, &dbf.P{N: "A", V: A}, &dbf.P{N: "N", V: N}})
	σ0 := E * ε0

	m := newTest(tst, msolid.Tridimensional, "norton", map[string]float64{
		"YoungModulus": E, "PoissonRatio": ν, "NortonCoefficient": A, "NortonExponent": N, "Temperature": 293.15,
	})

	// start from the elastic uniaxial state
	ε := []float64{ε0, -ν * ε0, -ν * ε0, 0, 0, 0}
	if err := m.SetDrivingVariablesInitialValues(ε); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	m.SetThermodynamicForcesInitialValues([]float64{σ0, 0, 0, 0, 0, 0})
	m.SetInternalStateVariableInitialValues("ElasticStrain", ε)
	c, _ := mtest.NewImposedDrivingVariable(m.Behaviour(), m.Hypothesis(), "EXX", evol.Constant{V: ε0})
	m.AddConstraint(c)

	tf := 2.0 * sol.RelaxationTime(σ0)
	m.SetTimes(utl.LinSpace(0, tf, 201))
	t, _ := mtest.NewAnalyticalTest(m.Behaviour(), m.Hypothesis(), "SXX", relaxation{sol, σ0}, 1.0)
	m.AddTest(t)
	res, err := m.Execute()
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	for _, r := range res.Details {
		if !r.Success {
			tst.Errorf("%s\n", r.Message)
		}
	}

	// the stress is more than halved; the plastic flow is isochoric
	s := m.State()
	io.Pforan("σxx(tf) = %v (%v)\n", s.S0[0], sol.Relaxation(σ0, tf))
	if s.S0[0] > σ0/2 {
		tst.Errorf("stress should have relaxed below %g: %g\n", σ0/2, s.S0[0])
	}
	p := s.Iv0[6]
	chk.Float64(tst, "εxx - εxx_el", 1e-8, ε0-s.Iv0[0], p)

	// the free lateral strains are only converged up to seps/E
	tol := 3 * m.Options().Seps / E
	chk.Float64(tst, "trace of plastic strain", tol, (s.U0[0]+s.U0[1]+s.U0[2])-(s.Iv0[0]+s.Iv0[1]+s.Iv0[2]), 0)
	if math.Abs(s.S0[1]) > 1e-3 {
		tst.Errorf("lateral stress should vanish: %g\n", s.S0[1])
	}
}
