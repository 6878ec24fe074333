// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/guptarohit/asciigraph"
)

// Terminal renders the column y of a results file as a text chart
//  Note: points are assumed to be ordered by time; x is only used in the caption
func Terminal(res *Results, x, y string, width, height int) (string, error) {
	xs, err := res.Get(x)
	if err != nil {
		return "", err
	}
	ys, err := res.Get(y)
	if err != nil {
		return "", err
	}
	if len(ys) == 0 {
		return "", chk.Err("Terminal: column %q is empty", y)
	}
	caption := io.Sf("%s vs %s", y, x)
	if len(xs) > 0 {
		caption = io.Sf("%s vs %s (%g to %g)", y, x, xs[0], xs[len(xs)-1])
	}
	return asciigraph.Plot(ys,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
