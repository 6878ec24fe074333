// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements post-processing of the results of a material point test
package out

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Results holds the columns of an output file
type Results struct {
	Keys []string             // column keys in file order; e.g. "t", "EXX", "SXX"
	Desc map[string]string    // description of each column given in the header
	Cols map[string][]float64 // values of each column
}

// header line: "# 2 column: 1th component of the strain (EXX)"
var (
	reColumn = regexp.MustCompile(`^#\s*(\d+|first)\s+column:\s*(.*)$`)
	reKey    = regexp.MustCompile(`\(([A-Za-z0-9_]+)\)\s*$`)
	reLM     = regexp.MustCompile(`^(\d+)th Lagrange multplier of constraint (\d+)$`)
	reIsv    = regexp.MustCompile(`internal variable '([^']+)' \(([A-Za-z0-9_]+)\)$`)
)

// columnKey returns a short key for a column description
func columnKey(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "time" {
		return "t"
	}
	if m := reIsv.FindStringSubmatch(desc); m != nil {
		return m[2]
	}
	if m := reLM.FindStringSubmatch(desc); m != nil {
		return io.Sf("LM%s_%s", m[2], m[1])
	}
	if m := reKey.FindStringSubmatch(desc); m != nil {
		return m[1]
	}
	return strings.Join(strings.Fields(desc), "_")
}

// ReadResults reads an output file written by MTest
func ReadResults(filename string) (o *Results, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("ReadResults: cannot open file %q:\n%v", filename, err)
	}
	defer f.Close()
	o = &Results{Desc: make(map[string]string), Cols: make(map[string][]float64)}
	sc := bufio.NewScanner(f)
	nl := 0
	for sc.Scan() {
		nl++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			m := reColumn.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			key := columnKey(m[2])
			if _, ok := o.Desc[key]; ok {
				return nil, chk.Err("ReadResults: file %q: duplicated column %q", filename, key)
			}
			o.Keys = append(o.Keys, key)
			o.Desc[key] = strings.TrimSpace(m[2])
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != len(o.Keys) {
			return nil, chk.Err("ReadResults: file %q: line %d has %d columns instead of %d", filename, nl, len(fields), len(o.Keys))
		}
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, chk.Err("ReadResults: file %q: line %d: cannot parse %q", filename, nl, s)
			}
			o.Cols[o.Keys[i]] = append(o.Cols[o.Keys[i]], v)
		}
	}
	if err = sc.Err(); err != nil {
		return nil, chk.Err("ReadResults: cannot read file %q:\n%v", filename, err)
	}
	if len(o.Keys) == 0 {
		return nil, chk.Err("ReadResults: file %q has no column description", filename)
	}
	return
}

// Get returns the values of column key
func (o *Results) Get(key string) ([]float64, error) {
	v, ok := o.Cols[key]
	if !ok {
		if _, ok = o.Desc[key]; !ok {
			return nil, chk.Err("Results: cannot find column %q; available columns are %v", key, o.Keys)
		}
	}
	return v, nil
}

// Len returns the number of rows
func (o *Results) Len() int {
	if len(o.Keys) == 0 {
		return 0
	}
	return len(o.Cols[o.Keys[0]])
}
