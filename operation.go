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
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// GeomType identifies one of the closed set of geometry variants.
type GeomType int

const (
	PointType GeomType = iota + 1
	MultiPointType
	LineStringType
	MultiLineStringType
	PolygonType
	MultiPolygonType
	GeometryCollectionType
)

func (t GeomType) String() string {
	switch t {
	case PointType:
		return "Point"
	case MultiPointType:
		return "MultiPoint"
	case LineStringType:
		return "LineString"
	case MultiLineStringType:
		return "MultiLineString"
	case PolygonType:
		return "Polygon"
	case MultiPolygonType:
		return "MultiPolygon"
	case GeometryCollectionType:
		return "GeometryCollection"
	default:
		return fmt.Sprintf("unknown geometry type (%d)", int(t))
	}
}

// TypeOf returns the GeomType of g, or 0 if g is not one of the
// supported variants.
func TypeOf(g geom.Geom) GeomType {
	switch g.(type) {
	case geom.Point:
		return PointType
	case geom.MultiPoint:
		return MultiPointType
	case geom.LineString:
		return LineStringType
	case geom.MultiLineString:
		return MultiLineStringType
	case geom.Polygon:
		return PolygonType
	case geom.MultiPolygon:
		return MultiPolygonType
	case geom.GeometryCollection:
		return GeometryCollectionType
	default:
		return 0
	}
}

// BooleanKind selects a set operation between two geometries.
type BooleanKind int

const (
	Intersection BooleanKind = iota + 1
	Union
	Difference
	SymDifference
)

func (k BooleanKind) String() string {
	switch k {
	case Intersection:
		return "intersection"
	case Union:
		return "union"
	case Difference:
		return "difference"
	case SymDifference:
		return "symdifference"
	default:
		return fmt.Sprintf("unknown boolean kind (%d)", int(k))
	}
}

// An Op is one pipeline step. Ops are immutable once constructed;
// their parameters are checked when the pipeline is built, so a
// malformed configuration is rejected before any geometry work starts.
type Op interface {
	// Name returns the operation name used in reports and
	// configuration files.
	Name() string

	// validate checks the operation's parameters. pos is the 0-based
	// position of the operation within the pipeline.
	validate(pos int) error
}

// Simplify reduces a geometry's vertex count within the given distance
// tolerance. PreserveTopology requests that the result be free of
// self-intersections; engines whose simplifier is inherently
// topology-safe may ignore the flag, since it licenses topology loss
// but never requires it.
type Simplify struct {
	Tolerance        float64
	PreserveTopology bool
}

func (o Simplify) Name() string { return "simplify" }

func (o Simplify) validate(pos int) error {
	if !(o.Tolerance > 0) || math.IsInf(o.Tolerance, 1) {
		return fmt.Errorf("simplify tolerance must be a positive number; got %g", o.Tolerance)
	}
	return nil
}

// Buffer computes the region within Distance of the geometry. Circular
// arcs are approximated with SegmentsPerQuadrant vertices per quarter
// circle. A negative distance erodes a polygonal geometry.
type Buffer struct {
	Distance            float64
	SegmentsPerQuadrant int
}

func (o Buffer) Name() string { return "buffer" }

func (o Buffer) validate(pos int) error {
	if o.Distance == 0 || math.IsNaN(o.Distance) || math.IsInf(o.Distance, 0) {
		return fmt.Errorf("buffer distance must be a nonzero finite number; got %g", o.Distance)
	}
	if o.SegmentsPerQuadrant < 1 {
		return fmt.Errorf("buffer segments per quadrant must be at least 1; got %d", o.SegmentsPerQuadrant)
	}
	return nil
}

// Centroid replaces a polygonal geometry with its area-weighted
// centroid. If OfLargestPolygon is true, only the constituent polygon
// with the greatest area contributes.
type Centroid struct {
	OfLargestPolygon bool
}

func (o Centroid) Name() string { return "centroid" }

func (o Centroid) validate(pos int) error { return nil }

// PointOnSurface replaces a geometry with a point guaranteed to lie on
// it, which is the centroid when the centroid is interior.
type PointOnSurface struct{}

func (o PointOnSurface) Name() string { return "pointonsurface" }

func (o PointOnSurface) validate(pos int) error { return nil }

// Affine maps each coordinate (x, y) to M·(x, y) + T. The affine
// coefficients operate in the geometry's current coordinate space, so
// the result's reference system tag is dropped; re-attach one with
// Value.WithSR if the transform was meant to stay in the same system.
type Affine struct {
	M [2][2]float64
	T [2]float64
}

func (o Affine) Name() string { return "affine" }

func (o Affine) validate(pos int) error {
	for _, row := range o.M {
		for _, m := range row {
			if math.IsNaN(m) || math.IsInf(m, 0) {
				return fmt.Errorf("affine matrix entries must be finite; got %g", m)
			}
		}
	}
	for _, t := range o.T {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("affine translation entries must be finite; got %g", t)
		}
	}
	return nil
}

// Identity returns the affine operation that leaves coordinates
// unchanged (it still drops the reference system tag).
func Identity() Affine {
	return Affine{M: [2][2]float64{{1, 0}, {0, 1}}}
}

// Boolean combines the current geometry with a previously produced
// value in the same run: OtherOperand 0 addresses the pipeline input,
// and k addresses the output of step k. Only backward references are
// valid; the current geometry is the left operand.
type Boolean struct {
	Kind         BooleanKind
	OtherOperand int
}

func (o Boolean) Name() string { return "boolean " + o.Kind.String() }

func (o Boolean) validate(pos int) error {
	switch o.Kind {
	case Intersection, Union, Difference, SymDifference:
	default:
		return fmt.Errorf("unknown boolean kind (%d)", int(o.Kind))
	}
	if o.OtherOperand < 0 || o.OtherOperand > pos {
		return fmt.Errorf("boolean operand %d is not a previously produced result (have 0 through %d)",
			o.OtherOperand, pos)
	}
	return nil
}

// Cast converts the geometry to Target where a lossless widening or
// narrowing exists, such as Polygon to MultiPolygon or a single-element
// MultiPolygon back to Polygon. Impossible mappings fail at run time.
type Cast struct {
	Target GeomType
}

func (o Cast) Name() string { return "cast" }

func (o Cast) validate(pos int) error {
	switch o.Target {
	case PointType, MultiPointType, LineStringType, MultiLineStringType,
		PolygonType, MultiPolygonType, GeometryCollectionType:
		return nil
	default:
		return fmt.Errorf("unknown cast target (%d)", int(o.Target))
	}
}

// Reproject transforms the geometry's coordinates from its current
// reference system to the system identified by To (a proj4 string or
// WKT definition), and replaces the reference system tag accordingly.
// It fails at run time if the input's reference system is unset.
type Reproject struct {
	To string
}

func (o Reproject) Name() string { return "reproject" }

func (o Reproject) validate(pos int) error {
	if o.To == "" {
		return fmt.Errorf("reproject target reference system must not be empty")
	}
	return nil
}
