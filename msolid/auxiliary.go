// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/tsr"
	"github.com/cpmech/gosl/utl"
)

// Mmatch computes M=q/p and qy0 from c and φ corresponding to the strength that would
// be modelled by the Mohr-Coulomb model matching one of the following cones:
//  typ == 0 : compression cone (outer)
//      == 1 : extension cone (inner)
//      == 2 : plane-strain
func Mmatch(c, φ float64, typ int) (M, qy0 float64, err error) {
	φr := φ * math.Pi / 180.0
	si := math.Sin(φr)
	co := math.Cos(φr)
	var ξ float64
	switch typ {
	case 0: // compression cone (outer)
		M = 6.0 * si / (3.0 - si)
		ξ = 6.0 * co / (3.0 - si)
	case 1: // extension cone (inner)
		M = 6.0 * si / (3.0 + si)
		ξ = 6.0 * co / (3.0 + si)
	case 2: // plane-strain
		t := si / co
		d := math.Sqrt(3.0 + 4.0*t*t)
		M = 3.0 * t / d
		ξ = 3.0 / d
	default:
		return 0, 0, chk.Err("typ=%d is invalid", typ)
	}
	qy0 = ξ * c
	return
}

// symmetric tensors //////////////////////////////////////////////////////////////////////////////
//  Mandel components: xx yy zz √2xy √2xz √2yz (first 3, 4 or 6 components)

var (
	sq2    = math.Sqrt(2.0)       // sqrt(2)
	sq6    = math.Sqrt(6.0)       // sqrt(6)
	sq3by2 = math.Sqrt(3.0 / 2.0) // sqrt(3/2)
	sq2by3 = math.Sqrt(2.0 / 3.0) // sqrt(2/3)

	im  = tsr.SecIdenMan // second order identity
	psd = tsr.FouPsdMan  // symmetric-deviatoric projector
)

// Pinv returns the mean pressure p = -tr(σ)/3 (positive in compression)
func Pinv(σ []float64) float64 {
	return -(σ[0] + σ[1] + σ[2]) / 3.0
}

// Qinv returns the von Mises equivalent stress q = sqrt(3/2 dev(σ):dev(σ))
func Qinv(σ []float64) float64 {
	tr := σ[0] + σ[1] + σ[2]
	var sum float64
	for i := 0; i < len(σ); i++ {
		d := σ[i] - tr*im[i]/3.0
		sum += d * d
	}
	return sq3by2 * math.Sqrt(sum)
}

// Dev computes the deviator of a symmetric tensor
func Dev(dev, σ []float64) {
	tr := σ[0] + σ[1] + σ[2]
	for i := 0; i < len(σ); i++ {
		dev[i] = σ[i] - tr*im[i]/3.0
	}
}

// StensorToMatrix converts Mandel components to a 3x3 matrix
func StensorToMatrix(m [][]float64, s []float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = 0
		}
		m[i][i] = s[i]
	}
	if len(s) > 3 {
		m[0][1], m[1][0] = s[3]/sq2, s[3]/sq2
	}
	if len(s) > 4 {
		m[0][2], m[2][0] = s[4]/sq2, s[4]/sq2
		m[1][2], m[2][1] = s[5]/sq2, s[5]/sq2
	}
}

// MatrixToStensor converts a symmetric 3x3 matrix to Mandel components (len(s) = 3, 4 or 6)
func MatrixToStensor(s []float64, m [][]float64) {
	s[0], s[1], s[2] = m[0][0], m[1][1], m[2][2]
	if len(s) > 3 {
		s[3] = sq2 * m[0][1]
	}
	if len(s) > 4 {
		s[4] = sq2 * m[0][2]
		s[5] = sq2 * m[1][2]
	}
}

// TensorToMatrix converts the components of a non-symmetric tensor to a 3x3 matrix
//  components: xx yy zz xy yx xz zx yz zy (first 3, 5 or 9 components)
func TensorToMatrix(m [][]float64, f []float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = 0
		}
		m[i][i] = f[i]
	}
	if len(f) > 3 {
		m[0][1], m[1][0] = f[3], f[4]
	}
	if len(f) > 5 {
		m[0][2], m[2][0] = f[5], f[6]
		m[1][2], m[2][1] = f[7], f[8]
	}
}

// RotateStensor computes dst = r·s·rᵀ
//  Note: 1D stensors (len(s)==3) are not rotated; in 2D, r must be a rotation about z
func RotateStensor(dst, s []float64, r [][]float64) {
	if len(s) == 3 {
		copy(dst, s)
		return
	}
	m := utl.Alloc(3, 3)
	res := utl.Alloc(3, 3)
	StensorToMatrix(m, s)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					res[i][j] += r[i][k] * m[k][l] * r[j][l]
				}
			}
		}
	}
	MatrixToStensor(dst, res)
}

// StensorRotation computes the matrix Q such that RotateStensor(s, r) = Q·s
func StensorRotation(Q [][]float64, r [][]float64) {
	n := len(Q)
	e := make([]float64, n)
	q := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			e[i] = 0
		}
		e[j] = 1
		RotateStensor(q, e, r)
		for i := 0; i < n; i++ {
			Q[i][j] = q[i]
		}
	}
}

// Transpose3 returns the transpose of a 3x3 matrix
func Transpose3(r [][]float64) (rt [][]float64) {
	rt = utl.Alloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rt[i][j] = r[j][i]
		}
	}
	return
}

// RotateOperator computes K = Q·D·Qᵀ
func RotateOperator(K, D, Q [][]float64) {
	n := len(D)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			K[i][j] = 0
			for k := 0; k < n; k++ {
				for l := 0; l < n; l++ {
					K[i][j] += Q[i][k] * D[k][l] * Q[j][l]
				}
			}
		}
	}
}
