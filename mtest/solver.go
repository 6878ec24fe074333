// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mtest

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/thelfer/tfel-sub019/msolid"
)

// GenericSolver implements Newton-Raphson iterations with sub stepping
//  Note: a time step is divided by two each time the iterations fail; with dynamic time step
//        scaling, the factor proposed by the behaviour drives the reduction and the increase
type GenericSolver struct {
	Calls int // number of calls to Execute
}

// Execute advances the state from ti to te
func (o *GenericSolver) Execute(s *CurrentState, wk *WorkSpace, p Study, ti, te float64) (err error) {
	o.Calls++
	opts := p.Options()
	const aone = 1 - 10*machEps
	tEps := (te - ti) * 100 * machEps
	t, dt := ti, te-ti
	if dt < 0 {
		return chk.Err("GenericSolver.Execute: negative time step")
	}
	if opts.DynamicTimeStepScaling && opts.MaxTimeStep > 0 && dt > opts.MaxTimeStep {
		dt = opts.MaxTimeStep
	}
	end := false
	subStep := 0
	for !end && subStep != opts.MaxSubSteps {
		var converged bool
		var rdt float64
		var diag string
		converged, rdt, diag, err = o.iterate(s, wk, p, opts, t, dt)
		if err != nil {
			return
		}
		accepted := converged
		if opts.DynamicTimeStepScaling && converged && rdt < aone {
			accepted = false
			diag = io.Sf("time step rejected by the behaviour (proposed scaling factor %g)\n", rdt)
		}
		if accepted {
			p.PostConvergence(s, t, dt, s.Period)
			s.Update(dt)
			t += dt
			end = math.Abs(te-t) < tEps || te < t
			s.Period++
			if !end {
				p.PrintOutput(t, s, false)
			}
			if opts.DynamicTimeStepScaling {
				f := math.Max(math.Min(opts.MaxTimeStepScalingFactor, rdt), 1)
				if f > aone {
					p.Logf(VerboseLevel1, "Increasing time step by a factor: %g (time step scaling factor proposed by the behaviour %g)\n", f, rdt)
				}
				dt *= f
			}
		} else {
			s.SubSteps++
			subStep++
			if subStep == opts.MaxSubSteps {
				return chk.Err("GenericSolver.Execute: maximum number of sub stepping reached\n%s", diag)
			}
			s.Revert()
			if opts.DynamicTimeStepScaling {
				f := math.Max(rdt, opts.MinTimeStepScalingFactor)
				if !converged {
					f = math.Max(math.Min(0.5, rdt), opts.MinTimeStepScalingFactor)
				}
				p.Logf(VerboseLevel1, "Reducing time step by a factor: %g (time step scaling factor proposed by the behaviour %g)\n", f, rdt)
				dt *= f
			} else {
				p.Logf(VerboseLevel1, "Dividing time step by two\n")
				dt *= 0.5
			}
		}
		if !end {
			if opts.DynamicTimeStepScaling && opts.MaxTimeStep > 0 && dt > opts.MaxTimeStep {
				dt = opts.MaxTimeStep
			}
			if dt > te-t-opts.MinTimeStep {
				dt = te - t
			}
			if dt < 0 {
				return chk.Err("GenericSolver.Execute: negative time step")
			}
			if dt < opts.MinTimeStep {
				return chk.Err("GenericSolver.Execute: time step is below its minimal value (%g < %g)", dt, opts.MinTimeStep)
			}
		}
	}
	return
}

// iterate runs the Newton iterations over [t, t+dt]
//  rdt  -- time step scaling factor proposed by the behaviour at the last iteration
//  diag -- explains the failure when the iterations did not converge
func (o *GenericSolver) iterate(s *CurrentState, wk *WorkSpace, p Study, opts SolverOptions, t, dt float64) (converged bool, rdt float64, diag string, err error) {
	p.Prepare(s, t, dt)

	// prediction
	switch opts.Ppolicy {
	case NoPrediction:
	case LinearPrediction:
		s.MakeLinearPrediction(dt)
	default:
		if p.ComputePredictionStiffnessAndResidual(s, wk, t, dt, opts.Ppolicy.stiffness()) {
			err = wk.Solve()
			if err != nil {
				return false, 0, "", chk.Err("GenericSolver.Execute: prediction failed:\n%v", err)
			}
			for i := range s.U1 {
				s.U1[i] -= wk.Du[i]
			}
		} else {
			p.Logf(VerboseLevel1, "GenericSolver.Execute: behaviour compute prediction matrix failed\n")
		}
	}

	// iterations
	v := p.Verbosity()
	ndv := len(s.E1)
	iter := 0
	wk.Ne, wk.Nep, wk.Nep2 = 0, 0, 0
	for !converged && iter != opts.IterMax {
		s.Iterations++
		iter++
		wk.Nep2 = wk.Nep
		wk.Nep = wk.Ne
		var ok bool
		ok, rdt = p.ComputeStiffnessMatrixAndResidual(s, wk, t, dt, opts.Ktype)
		if !ok {
			return false, rdt, io.Sf("behaviour integration failed at iteration %d (t=%g, dt=%g)\n", iter, t, dt), nil
		}
		if opts.Ktype != msolid.NoStiffness {
			logMatrix(v, VerboseDebug, "Stiffness matrix", wk.K, -1, -1)
		}
		logVector(v, VerboseDebug, "residual", wk.R)
		err = wk.Solve()
		if err != nil {
			return false, rdt, "", chk.Err("GenericSolver.Execute: iteration %d failed:\n%v", iter, err)
		}
		for i := range s.U1 {
			s.U1[i] -= wk.Du[i]
		}
		converged = opts.Ppolicy != NoPrediction || iter > 1
		converged = p.CheckConvergence(s, wk, t, dt, iter) && converged
		wk.Ne = maxAbs(wk.Du[:ndv])
		if !converged {
			if iter == opts.IterMax {
				diag = p.FailedCriteriaDiagnostic(s, wk, t, dt)
				p.Logf(VerboseLevel1, "%s", diag)
			} else {
				p.Logf(VerboseLevel3, "%s", p.FailedCriteriaDiagnostic(s, wk, t, dt))
			}
		}
	}
	if !converged {
		return
	}

	// convergence order
	switch {
	case iter == 1:
		p.Logf(VerboseLevel1, "convergence, after one iteration\n")
	case iter >= 3 && wk.Ne > tiny && wk.Nep > tiny && wk.Nep2 > tiny && math.Abs(math.Log(wk.Nep/wk.Nep2)) > tiny:
		p.Logf(VerboseLevel1, "convergence, after %d iterations, order %g\n", iter, math.Log(wk.Ne/wk.Nep)/math.Log(wk.Nep/wk.Nep2))
	default:
		p.Logf(VerboseLevel1, "convergence, after %d iterations, order undefined\n", iter)
	}
	return
}

// constants
const (
	machEps = 2.220446049250313e-16         // machine epsilon
	tiny    = 100 * 2.2250738585072014e-308 // hundred times the smallest normalised number
)
