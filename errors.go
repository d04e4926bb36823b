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

import "fmt"

// ErrorKind classifies the failures that a pipeline can report.
type ErrorKind int

const (
	// MalformedGeometry means a geometry violated a structural
	// invariant: a polygon ring that is not closed or has fewer than
	// four coordinates, or a line string with fewer than two.
	MalformedGeometry ErrorKind = iota + 1

	// InvalidOperationParameters means an operation was constructed
	// with parameters that can never be valid, such as a non-positive
	// simplification tolerance or a forward boolean-operand reference.
	// It is always reported at pipeline build time, before any
	// geometry work starts.
	InvalidOperationParameters

	// UnsupportedCast means a requested geometry type conversion has
	// no valid mapping for the source geometry.
	UnsupportedCast

	// EngineFailure means the geometry engine could not complete an
	// operation, for example a degenerate input to a buffer or a
	// boolean operation on geometry without a reference system.
	EngineFailure
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedGeometry:
		return "malformed geometry"
	case InvalidOperationParameters:
		return "invalid operation parameters"
	case UnsupportedCast:
		return "unsupported cast"
	case EngineFailure:
		return "engine failure"
	default:
		return fmt.Sprintf("unknown error kind (%d)", int(k))
	}
}

// Error is a structured pipeline failure. Step is the 1-based index of
// the failing pipeline step; it is 0 when the failure is attributable
// to the input geometry or to pipeline construction rather than to a
// step. Op names the failing operation, if any.
type Error struct {
	Kind ErrorKind
	Step int
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Step == 0:
		return fmt.Sprintf("geompipe: %s: %v", e.Kind, e.Err)
	case e.Op == "":
		return fmt.Sprintf("geompipe: step %d: %s: %v", e.Step, e.Kind, e.Err)
	default:
		return fmt.Sprintf("geompipe: step %d (%s): %s: %v", e.Step, e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, step int, op string, err error) *Error {
	return &Error{Kind: kind, Step: step, Op: op, Err: err}
}

// UnsupportedCastError is the error an Engine returns from Cast when
// there is no valid mapping from the source geometry to the target
// type. The pipeline translates it to the UnsupportedCast kind;
// any other Cast error is reported as an EngineFailure.
type UnsupportedCastError struct {
	From, To GeomType
}

func (e UnsupportedCastError) Error() string {
	return fmt.Sprintf("no valid cast from %s to %s", e.From, e.To)
}
