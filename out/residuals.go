// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
	"github.com/guptarohit/asciigraph"
	"github.com/thelfer/tfel-sub019/mtest"
)

// CountIterations returns the number of iterations of each resolution
func CountIterations(resids [][]float64) (N []float64) {
	N = make([]float64, len(resids))
	for i, r := range resids {
		if len(r) > 0 {
			N[i] = float64(len(r) - 1)
		}
	}
	return
}

// ConvergenceCurves returns log10(R) versus the iteration index of each resolution
//  skip -- number of initial resolutions to skip
//  Note: zero residuals are replaced by the smallest positive float
func ConvergenceCurves(resids [][]float64, skip int) (X, Y [][]float64) {
	for i, r := range resids {
		if i < skip || len(r) == 0 {
			continue
		}
		x := make([]float64, len(r))
		y := make([]float64, len(r))
		for k, v := range r {
			x[k] = float64(k)
			y[k] = math.Log10(math.Max(math.Abs(v), math.SmallestNonzeroFloat64))
		}
		X = append(X, x)
		Y = append(Y, y)
	}
	return
}

// PlotResiduals adds the convergence curves of a summary to a new subplot
func (o *Figure) PlotResiduals(sum *mtest.Summary, skip int) error {
	X, Y := ConvergenceCurves(sum.Resids, skip)
	if len(X) == 0 {
		return chk.Err("PlotResiduals: no residuals to plot")
	}
	o.Splot(io.Sf("%s (%s)", sum.Behaviour, sum.Hypothesis))
	for i := range X {
		o.Csplot.Data = append(o.Csplot.Data, &PltEntity{Alias: io.Sf("%d", i+skip), X: X[i], Y: Y[i], Xlbl: "iteration index", Ylbl: "log10(R)", Style: &plt.A{M: "."}})
	}
	o.Csplot.Xlbl, o.Csplot.Ylbl = "iteration index", "log10(R)"
	return nil
}

// TerminalResiduals renders the convergence curves of a summary as a text chart
func TerminalResiduals(sum *mtest.Summary, skip, width, height int) (string, error) {
	_, Y := ConvergenceCurves(sum.Resids, skip)
	if len(Y) == 0 {
		return "", chk.Err("TerminalResiduals: no residuals to plot")
	}
	N := CountIterations(sum.Resids)
	var total float64
	for _, n := range N {
		total += n
	}
	caption := io.Sf("log10(R) vs iteration; %d resolutions, %g iterations", len(N), total)
	return asciigraph.PlotMany(Y,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
