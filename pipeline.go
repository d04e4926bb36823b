/*
Copyright © 2026 the geompipe authors.
This file is part of geompipe.

geompipe is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

geompipe is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with geompipe.  If not, see <http://www.gnu.org/licenses/>.
*/

package geompipe

import (
	"errors"
	"fmt"
)

// A Pipeline is a named, ordered sequence of operations. It is
// validated when built, immutable afterward, and may be run any number
// of times against different inputs; runs share no state.
type Pipeline struct {
	name  string
	steps []Op
}

// NewPipeline builds a pipeline from steps, validating every
// operation's parameters up front. It fails with the
// InvalidOperationParameters kind on the first violation, so nothing
// partially built ever executes.
func NewPipeline(name string, steps ...Op) (*Pipeline, error) {
	for i, op := range steps {
		if err := op.validate(i); err != nil {
			return nil, newError(InvalidOperationParameters, i+1, op.Name(), err)
		}
	}
	s := make([]Op, len(steps))
	copy(s, steps)
	return &Pipeline{name: name, steps: s}, nil
}

// Name returns the pipeline's identifier, used in reports and cache
// keys.
func (p *Pipeline) Name() string { return p.name }

// Len returns the number of steps in the pipeline.
func (p *Pipeline) Len() int { return len(p.steps) }

// Steps returns a copy of the pipeline's operations.
func (p *Pipeline) Steps() []Op {
	s := make([]Op, len(p.steps))
	copy(s, p.steps)
	return s
}

// An ExecutionResult is the outcome of running a pipeline against one
// input: either a complete output Value or a single structured
// failure. Intermediate geometries never leak; a failed run reports
// only the failing step.
type ExecutionResult struct {
	Value Value
	Err   *Error
}

// Failed reports whether the run produced a failure instead of a
// geometry.
func (r ExecutionResult) Failed() bool { return r.Err != nil }

// Run executes p against input using e. Steps execute strictly in
// sequence: the output of step i is the sole geometry input of step
// i+1, except that a Boolean step additionally consumes a previously
// produced value addressed by its OtherOperand. The first failing step
// short-circuits the run.
//
// The input and the outputs of Boolean and Cast steps are checked
// against the structural invariants of Value.Check; the outputs of
// Simplify, Buffer, and Affine steps deliberately are not, so those
// steps may produce self-intersecting or overlapping geometries.
func (p *Pipeline) Run(e Engine, input Value) ExecutionResult {
	if err := checkGeom(input.Geom); err != nil {
		return ExecutionResult{Err: newError(MalformedGeometry, 0, "", err)}
	}

	// results[0] is the input; results[k] is the output of step k.
	results := make([]Value, 1, len(p.steps)+1)
	results[0] = input

	cur := input
	for i, op := range p.steps {
		step := i + 1
		out, perr := p.runStep(e, op, cur, results)
		if perr != nil {
			perr.Step = step
			perr.Op = op.Name()
			return ExecutionResult{Err: perr}
		}
		results = append(results, out)
		cur = out
	}
	return ExecutionResult{Value: cur}
}

func (p *Pipeline) runStep(e Engine, op Op, cur Value, results []Value) (Value, *Error) {
	switch o := op.(type) {
	case Simplify:
		if cur.SR == "" {
			return Value{}, noSRError(op)
		}
		g, err := e.Simplify(cur.Geom, o.Tolerance, o.PreserveTopology)
		if err != nil {
			return Value{}, newError(EngineFailure, 0, "", err)
		}
		return Value{Geom: g, SR: cur.SR}, nil

	case Buffer:
		if cur.SR == "" {
			return Value{}, noSRError(op)
		}
		g, err := e.Buffer(cur.Geom, o.Distance, o.SegmentsPerQuadrant)
		if err != nil {
			return Value{}, newError(EngineFailure, 0, "", err)
		}
		return Value{Geom: g, SR: cur.SR}, nil

	case Centroid:
		if cur.SR == "" {
			return Value{}, noSRError(op)
		}
		pt, err := e.Centroid(cur.Geom, o.OfLargestPolygon)
		if err != nil {
			return Value{}, newError(EngineFailure, 0, "", err)
		}
		return Value{Geom: pt, SR: cur.SR}, nil

	case PointOnSurface:
		if cur.SR == "" {
			return Value{}, noSRError(op)
		}
		pt, err := e.PointOnSurface(cur.Geom)
		if err != nil {
			return Value{}, newError(EngineFailure, 0, "", err)
		}
		return Value{Geom: pt, SR: cur.SR}, nil

	case Affine:
		// The affine coefficients operate in the current coordinate
		// space, so the reference system tag does not survive.
		g, err := e.ApplyAffine(cur.Geom, o.M, o.T)
		if err != nil {
			return Value{}, newError(EngineFailure, 0, "", err)
		}
		return Value{Geom: g}, nil

	case Boolean:
		other := results[o.OtherOperand]
		if cur.SR == "" || other.SR == "" {
			return Value{}, noSRError(op)
		}
		if cur.SR != other.SR {
			return Value{}, newError(EngineFailure, 0, "",
				fmt.Errorf("operands are in different reference systems (%q and %q)", cur.SR, other.SR))
		}
		g, err := e.Boolean(o.Kind, cur.Geom, other.Geom)
		if err != nil {
			return Value{}, newError(EngineFailure, 0, "", err)
		}
		if err := checkGeom(g); err != nil {
			return Value{}, newError(MalformedGeometry, 0, "", err)
		}
		return Value{Geom: g, SR: cur.SR}, nil

	case Cast:
		g, err := e.Cast(cur.Geom, o.Target)
		if err != nil {
			var uc UnsupportedCastError
			if errors.As(err, &uc) {
				return Value{}, newError(UnsupportedCast, 0, "", err)
			}
			return Value{}, newError(EngineFailure, 0, "", err)
		}
		if err := checkGeom(g); err != nil {
			return Value{}, newError(MalformedGeometry, 0, "", err)
		}
		return Value{Geom: g, SR: cur.SR}, nil

	case Reproject:
		if cur.SR == "" {
			return Value{}, noSRError(op)
		}
		g, sr, err := e.Reproject(cur.Geom, cur.SR, o.To)
		if err != nil {
			return Value{}, newError(EngineFailure, 0, "", err)
		}
		return Value{Geom: g, SR: sr}, nil

	default:
		return Value{}, newError(EngineFailure, 0, "",
			fmt.Errorf("unknown operation type %T", op))
	}
}

func noSRError(op Op) *Error {
	return newError(EngineFailure, 0, "",
		fmt.Errorf("%s requires a geometry with a reference system, but none is set", op.Name()))
}
