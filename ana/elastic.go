// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions of material point tests
package ana

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// IsoElast implements closed-form solutions for isotropic linear elasticity
type IsoElast struct {

	// input
	E  float64 // Young's modulus
	ν  float64 // Poisson's coefficient
	α  float64 // thermal expansion coefficient
	T0 float64 // reference temperature

	// derived
	λ float64 // Lamé's first coefficient
	G float64 // shear modulus
	K float64 // bulk modulus
}

// Init initialises this structure
func (o *IsoElast) Init(prms dbf.Params) (err error) {

	// default values
	o.E = 200000 // [MPa] Young modulus
	o.ν = 0.3    // [-] Poisson's ratio
	o.α = 0      // [1/K] thermal expansion
	o.T0 = 293.15

	// parameters
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "nu":
			o.ν = p.V
		case "alpha":
			o.α = p.V
		case "T0":
			o.T0 = p.V
		default:
			return chk.Err("IsoElast: parameter named %q is incorrect", p.N)
		}
	}
	if o.E <= 0 || o.ν <= -1 || o.ν >= 0.5 {
		return chk.Err("IsoElast: E=%g and nu=%g are invalid", o.E, o.ν)
	}

	// derived
	o.λ = o.E * o.ν / ((1.0 + o.ν) * (1.0 - 2.0*o.ν))
	o.G = o.E / (2.0 * (1.0 + o.ν))
	o.K = o.E / (3.0 * (1.0 - 2.0*o.ν))
	return
}

// Uniaxial returns the solution of a tensile test with imposed axial strain
//  lateral stresses vanish
func (o IsoElast) Uniaxial(εxx float64) (σxx, εyy float64) {
	return o.E * εxx, -o.ν * εxx
}

// PlaneStrain returns the solution of a tensile test with imposed axial strain
// where the out-of-plane strain is blocked and σyy vanishes
func (o IsoElast) PlaneStrain(εxx float64) (σxx, σzz, εyy float64) {
	σxx = o.E * εxx / (1.0 - o.ν*o.ν)
	σzz = o.ν * σxx
	εyy = -o.ν * εxx / (1.0 - o.ν)
	return
}

// Oedometric returns the axial and lateral stresses when only εxx is non-zero
func (o IsoElast) Oedometric(εxx float64) (σxx, σyy float64) {
	return (o.λ + 2.0*o.G) * εxx, o.λ * εxx
}

// Shear returns the shear stress for an engineering shear strain γ = 2 εxy
func (o IsoElast) Shear(γ float64) float64 {
	return o.G * γ
}

// FreeDilatation returns the normal strain of a stress free point at temperature T
func (o IsoElast) FreeDilatation(T float64) float64 {
	return o.α * (T - o.T0)
}

// BlockedDilatation returns the pressure-like normal stress of a point whose strains are blocked
func (o IsoElast) BlockedDilatation(T float64) float64 {
	return -3.0 * o.K * o.FreeDilatation(T)
}
