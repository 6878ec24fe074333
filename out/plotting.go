// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"
)

// PltEntity stores all data for a plot entity (X vs Y)
type PltEntity struct {
	Alias string    // alias
	X     []float64 // x-values
	Y     []float64 // y-values
	Xlbl  string    // horizontal axis label (raw; e.g. "t")
	Ylbl  string    // vertical axis label (raw; e.g. "SXX")
	Style *plt.A    // style
}

// SplotDat stores all data for one subplot
type SplotDat struct {
	Title  string       // title of subplot
	Xscale float64      // x-axis scale
	Yscale float64      // y-axis scale
	Xlbl   string       // x-axis label
	Ylbl   string       // y-axis label
	Data   []*PltEntity // data and styles to be plotted
}

// Figure holds subplots
type Figure struct {
	Splots []*SplotDat // all subplots
	Csplot *SplotDat   // current subplot
}

// Splot activates a new subplot window
func (o *Figure) Splot(title string) {
	s := &SplotDat{Title: title, Xscale: 1, Yscale: 1}
	o.Splots = append(o.Splots, s)
	o.Csplot = s
}

// SplotConfig configures scales of axes of the current subplot
func (o *Figure) SplotConfig(xscale, yscale float64) {
	if o.Csplot == nil {
		return
	}
	o.Csplot.Xscale = xscale
	o.Csplot.Yscale = yscale
}

// Plot adds the curve y(x) of a results file to the current subplot
//  x, y  -- column keys; e.g. "t", "EXX" or "SXX"
//  alias -- label of curve; e.g. the name of the test
//  fm    -- style; may be nil
func (o *Figure) Plot(res *Results, x, y, alias string, fm *plt.A) (err error) {
	var e PltEntity
	e.Alias = alias
	e.Style = fm
	e.Xlbl, e.Ylbl = x, y
	e.X, err = res.Get(x)
	if err != nil {
		return
	}
	e.Y, err = res.Get(y)
	if err != nil {
		return
	}
	if len(e.X) != len(e.Y) {
		return chk.Err("lengths of x- and y-series are different. len(x)=%d, len(y)=%d", len(e.X), len(e.Y))
	}
	if o.Csplot == nil {
		o.Splot("")
	}
	o.Csplot.Data = append(o.Csplot.Data, &e)
	if o.Csplot.Xlbl == "" {
		o.Csplot.Xlbl, o.Csplot.Ylbl = x, y
	}
	return
}

// Draw saves figure with all subplots
//  dirout -- directory to save figure
//  fnkey  -- file name key, without extension. Use "" to skip saving
//  show   -- shows figure
func (o *Figure) Draw(dirout, fnkey string, show bool) {
	nplots := len(o.Splots)
	if nplots == 0 {
		return
	}
	plt.Reset(false, nil)
	nr, nc := utl.BestSquare(nplots)
	var k int
	for i := 0; i < nr && k < nplots; i++ {
		for j := 0; j < nc && k < nplots; j++ {
			s := o.Splots[k]
			plt.Subplot(nr, nc, k+1)
			if s.Title != "" {
				plt.Title(s.Title, nil)
			}
			for _, d := range s.Data {
				args := d.Style
				if args == nil {
					args = &plt.A{}
				}
				if args.L == "" {
					args.L = d.Alias
				}
				args.NoClip = true
				plt.Plot(scaled(d.X, s.Xscale), scaled(d.Y, s.Yscale), args)
			}
			plt.Gll(s.Xlbl, s.Ylbl, nil)
			k++
		}
	}
	if fnkey != "" {
		plt.Save(dirout, fnkey)
	}
	if show {
		plt.Show()
	}
}

// scaled returns a copy of v multiplied by m
func scaled(v []float64, m float64) []float64 {
	if m == 0 || m == 1 {
		return v
	}
	res := make([]float64, len(v))
	for i, x := range v {
		res[i] = m * x
	}
	return res
}
