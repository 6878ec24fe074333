// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	. "github.com/onsi/gomega"
	"github.com/thelfer/tfel-sub019/mtest"
	"gopkg.in/yaml.v3"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// copyData copies a data file into a temporary directory
func copyData(tst *testing.T, names ...string) (dir string) {
	dir = tst.TempDir()
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join("data", name))
		if err != nil {
			tst.Fatalf("%v\n", err)
		}
		if err = os.WriteFile(filepath.Join(dir, name), b, 0644); err != nil {
			tst.Fatalf("%v\n", err)
		}
	}
	return
}

func Test_config01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("config01. defaults and short forms")

	g := NewWithT(tst)
	cfg := DefaultConfig()
	g.Expect(cfg.Hypothesis).To(Equal("Tridimensional"))
	g.Expect(cfg.Evolutions).To(BeEmpty())

	var d struct {
		A *EvolutionData `yaml:"a"`
		B *EvolutionData `yaml:"b"`
		C *EvolutionData `yaml:"c"`
		T TimesData      `yaml:"t"`
		U TimesData      `yaml:"u"`
	}
	err := yaml.Unmarshal([]byte("a: 150\nb: load\nc: {times: [0, 1], values: [0, 2]}\nt: [0, 0.5, 1]\nu: {t0: 0, tf: 2, n: 4}\n"), &d)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(*d.A.Value).To(BeNumerically("==", 150))
	g.Expect(d.B.Ref).To(Equal("load"))
	g.Expect(d.C.Times).To(Equal([]float64{0, 1}))
	g.Expect(d.T.Values()).To(Equal([]float64{0, 0.5, 1}))
	g.Expect(d.U.Values()).To(HaveLen(5))
	g.Expect(d.U.Values()[4]).To(BeNumerically("~", 2, 1e-15))

	ev, err := d.C.evolution(nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ev.F(0.5)).To(BeNumerically("~", 1, 1e-15))
	_, err = d.B.evolution(nil)
	g.Expect(err).To(HaveOccurred())
	_, err = (&EvolutionData{}).evolution(nil)
	g.Expect(err).To(HaveOccurred())
}

func Test_config02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("config02. uniaxial test from file")

	g := NewWithT(tst)
	dir := copyData(tst, "uniaxial.yaml")
	cfg, err := Load(filepath.Join(dir, "uniaxial.yaml"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Behaviour.Name).To(Equal("elastic"))
	g.Expect(cfg.Times.Values()).To(HaveLen(5))
	g.Expect(cfg.ImposedDrivingVars).To(HaveLen(1))

	m, err := cfg.Build()
	g.Expect(err).NotTo(HaveOccurred())
	res, err := m.Execute()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Success).To(BeTrue())
	g.Expect(res.Details).To(HaveLen(2))
	g.Expect(m.Summary.Periods).To(Equal(4))
	g.Expect(m.State().S0[0]).To(BeNumerically("~", 2000, 1e-3))

	// files
	g.Expect(filepath.Join(dir, "uniaxial.res")).To(BeAnExistingFile())
	g.Expect(filepath.Join(dir, "uniaxial-residual.txt")).To(BeAnExistingFile())
}

func Test_config03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("config03. Norton creep with named evolutions and reference file")

	g := NewWithT(tst)
	dir := copyData(tst, "norton.yaml", "norton-ref.txt")
	cfg, err := Load(filepath.Join(dir, "norton.yaml"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Evolutions).To(HaveKey("stress"))
	g.Expect(cfg.Times.Values()).To(Equal([]float64{0, 1, 2, 4, 6, 8, 10}))

	m, err := cfg.Build()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(m.Options().Ppolicy).To(Equal(mtest.NoPrediction)) // resolved at initialisation
	res, err := m.Execute()
	g.Expect(err).NotTo(HaveOccurred())
	for _, r := range res.Details {
		g.Expect(r.Success).To(BeTrue(), r.Message)
	}
	g.Expect(m.Options().Ppolicy).To(Equal(mtest.ElasticPrediction))

	// dynamic time step scaling with a ceiling of 0.5
	cfg, err = Load(filepath.Join(dir, "norton.yaml"))
	g.Expect(err).NotTo(HaveOccurred())
	err = yaml.Unmarshal([]byte("dynamic: true\nmaxtimestep: 0.5\nmintsf: 0.2\nmaxtsf: 3\n"), &cfg.Solver)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Solver.Prediction).To(Equal("ElasticPrediction"))
	cfg.Tests = cfg.Tests[:1] // the reference file holds one value per user time
	m, err = cfg.Build()
	g.Expect(err).NotTo(HaveOccurred())
	res, err = m.Execute()
	g.Expect(err).NotTo(HaveOccurred())
	for _, r := range res.Details {
		g.Expect(r.Success).To(BeTrue(), r.Message)
	}
	opts := m.Options()
	g.Expect(opts.DynamicTimeStepScaling).To(BeTrue())
	g.Expect(opts.MaxTimeStep).To(Equal(0.5))
	g.Expect(opts.MinTimeStepScalingFactor).To(Equal(0.2))
	g.Expect(opts.MaxTimeStepScalingFactor).To(Equal(3.0))
	g.Expect(m.Summary.Periods).To(Equal(20))

	cfg.Solver.Maxtsf = 0.5
	_, err = cfg.Build()
	g.Expect(err).To(MatchError(ContainSubstring("maximal time step scaling factor")))
}

func Test_config04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("config04. Drucker-Prager in plane strain")

	g := NewWithT(tst)
	cfg, err := Load(filepath.Join("data", "dp-planestrain.yaml"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Behaviour.Prms).To(HaveLen(4))
	m, err := cfg.Build()
	g.Expect(err).NotTo(HaveOccurred())
	_, err = m.Execute()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(m.Summary.TangentError).To(BeNumerically("<", 1e-2))
	g.Expect(m.State().U0[2]).To(BeNumerically("~", 0, 1e-14))
	g.Expect(m.State().Iv0[0]).To(BeNumerically(">", 0))
}

func Test_config05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("config05. errors")

	g := NewWithT(tst)

	_, err := Load("data/nonexistent.yaml")
	g.Expect(err).To(HaveOccurred())

	cfg := DefaultConfig()
	cfg.Behaviour.Name = "unknown"
	_, err = cfg.Build()
	g.Expect(err).To(HaveOccurred())

	cfg = DefaultConfig()
	cfg.Behaviour.Name = "elastic"
	cfg.Hypothesis = "OneDimensional"
	_, err = cfg.Build()
	g.Expect(err).To(HaveOccurred())

	cfg = DefaultConfig()
	cfg.Behaviour.Name = "elastic"
	cfg.MaterialProperties = map[string]*EvolutionData{"YoungModulus": {Ref: "missing"}}
	_, err = cfg.Build()
	g.Expect(err).To(MatchError(ContainSubstring("missing")))

	cfg = DefaultConfig()
	cfg.Behaviour.Name = "elastic"
	cfg.Times = TimesData{List: []float64{0, 1}}
	cfg.Output.Frequency = "Sometimes"
	_, err = cfg.Build()
	g.Expect(err).To(HaveOccurred())

	cfg = DefaultConfig()
	cfg.Behaviour.Name = "elastic"
	cfg.Times = TimesData{List: []float64{0, 1}}
	cfg.Tests = []*TestData{{Variable: "SXX", Eps: 1e-3}}
	_, err = cfg.Build()
	g.Expect(err).To(MatchError(ContainSubstring("reference file")))

	cfg = DefaultConfig()
	cfg.Behaviour.Name = "elastic"
	cfg.MaterialProperties = map[string]*EvolutionData{"YoungModulus": {Func: "nosuchfunction"}}
	_, err = cfg.Build()
	g.Expect(err).To(MatchError(ContainSubstring("nosuchfunction")))

	cfg = DefaultConfig()
	cfg.Behaviour.Name = "elastic"
	cfg.Times = TimesData{List: []float64{0, 1}}
	cfg.Tests = []*TestData{{Variable: "SXX", File: "data/none.txt", Eps: 1e-3}}
	_, err = cfg.Build()
	g.Expect(err).To(MatchError(ContainSubstring("cannot read file")))
}
