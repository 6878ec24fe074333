// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mtest

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Summary records the statistics of a run
type Summary struct {
	Behaviour    string      // name of the behaviour
	Hypothesis   string      // modelling hypothesis
	Periods      int         // number of converged (sub) steps
	Iterations   int         // total number of Newton iterations
	SubSteps     int         // total number of sub steps
	Times        []float64   // end times of converged (sub) steps
	Resids       [][]float64 // thermodynamic force residuals; one list per resolution, including failed ones
	TangentError float64     // largest difference found by the comparison to the numerical tangent operator
}

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// Save saves summary to disc
//  enctype -- "json" or "gob"
func (o Summary) Save(filename, enctype string, verbose bool) (err error) {
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("Summary.Save: cannot encode summary\n%v", err)
	}
	return saveFile(filename, &buf, verbose)
}

// ReadSummary reads summary back
func ReadSummary(filename, enctype string) (o *Summary, err error) {
	fil, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("ReadSummary: cannot open file %q:\n%v", filename, err)
	}
	defer fil.Close()
	o = new(Summary)
	err = GetDecoder(fil, enctype).Decode(o)
	if err != nil {
		return nil, chk.Err("ReadSummary: cannot decode summary\n%v", err)
	}
	return
}

// saveFile writes buffer to file
func saveFile(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
