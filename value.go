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

	"github.com/ctessum/geom"
)

// Value is a geometry together with the identifier of the reference
// system its coordinates are expressed in. SR is opaque to the
// pipeline: it is carried, dropped, or replaced by operations but only
// ever interpreted by the engine (for reprojection). An empty SR means
// the reference system is unset, in which case operations that are
// sensitive to distance or area fail at run time.
//
// Values are treated as immutable: operations return new Values and
// callers must not modify the coordinate slices of a Value that has
// been handed to a pipeline.
type Value struct {
	Geom geom.Geom
	SR   string
}

// NewValue returns a Value holding g tagged with the reference system
// sr, validating that g is structurally well formed.
func NewValue(g geom.Geom, sr string) (Value, error) {
	v := Value{Geom: g, SR: sr}
	if err := v.Check(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// WithSR returns a copy of v tagged with the reference system sr. The
// receiver is not modified.
func (v Value) WithSR(sr string) Value {
	return Value{Geom: v.Geom, SR: sr}
}

// Check validates the structural invariants of v's geometry: polygon
// rings must be closed (first coordinate equal to last) and have at
// least four coordinates, and line strings must have at least two.
// Empty geometries are valid; they represent the empty set, which
// boolean operations can legitimately produce.
func (v Value) Check() error {
	if err := checkGeom(v.Geom); err != nil {
		return newError(MalformedGeometry, 0, "", err)
	}
	return nil
}

// Equal reports whether v and o hold the same geometry type with
// exactly equal coordinate sequences. Equality is deliberately strict
// rather than tolerance-based; reference system tags are not compared.
func (v Value) Equal(o Value) bool {
	return geomEqual(v.Geom, o.Geom)
}

// VertexCount returns the total number of coordinates in v's geometry,
// counting the closing coordinate of each polygon ring.
func (v Value) VertexCount() int {
	return vertexCount(v.Geom)
}

func checkGeom(g geom.Geom) error {
	switch t := g.(type) {
	case geom.Point, geom.MultiPoint:
		return nil
	case geom.LineString:
		if len(t) == 1 {
			return fmt.Errorf("line string has 1 coordinate; need at least 2")
		}
		return nil
	case geom.MultiLineString:
		for _, l := range t {
			if err := checkGeom(l); err != nil {
				return err
			}
		}
		return nil
	case geom.Polygon:
		return checkRings(t)
	case geom.MultiPolygon:
		for _, p := range t {
			if err := checkGeom(p); err != nil {
				return err
			}
		}
		return nil
	case geom.GeometryCollection:
		for _, g2 := range t {
			if err := checkGeom(g2); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return fmt.Errorf("nil geometry")
	default:
		return fmt.Errorf("unknown geometry type %T", g)
	}
}

func checkRings(p geom.Polygon) error {
	for i, r := range p {
		if len(r) < 4 {
			return fmt.Errorf("polygon ring %d has %d coordinates; need at least 4", i, len(r))
		}
		if !r[0].Equals(r[len(r)-1]) {
			return fmt.Errorf("polygon ring %d is not closed", i)
		}
	}
	return nil
}

func geomEqual(a, b geom.Geom) bool {
	switch t := a.(type) {
	case geom.Point:
		b2, ok := b.(geom.Point)
		return ok && t.Equals(b2)
	case geom.MultiPoint:
		b2, ok := b.(geom.MultiPoint)
		return ok && pointsEqual(t, b2)
	case geom.LineString:
		b2, ok := b.(geom.LineString)
		return ok && pointsEqual(t, b2)
	case geom.MultiLineString:
		b2, ok := b.(geom.MultiLineString)
		if !ok || len(t) != len(b2) {
			return false
		}
		for i := range t {
			if !pointsEqual(t[i], b2[i]) {
				return false
			}
		}
		return true
	case geom.Polygon:
		b2, ok := b.(geom.Polygon)
		return ok && ringsEqual(t, b2)
	case geom.MultiPolygon:
		b2, ok := b.(geom.MultiPolygon)
		if !ok || len(t) != len(b2) {
			return false
		}
		for i := range t {
			if !ringsEqual(t[i], b2[i]) {
				return false
			}
		}
		return true
	case geom.GeometryCollection:
		b2, ok := b.(geom.GeometryCollection)
		if !ok || len(t) != len(b2) {
			return false
		}
		for i := range t {
			if !geomEqual(t[i], b2[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		return false
	}
}

func pointsEqual(a, b []geom.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

func ringsEqual(a, b geom.Polygon) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !pointsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func vertexCount(g geom.Geom) int {
	switch t := g.(type) {
	case geom.Point:
		return 1
	case geom.MultiPoint:
		return len(t)
	case geom.LineString:
		return len(t)
	case geom.MultiLineString:
		n := 0
		for _, l := range t {
			n += len(l)
		}
		return n
	case geom.Polygon:
		n := 0
		for _, r := range t {
			n += len(r)
		}
		return n
	case geom.MultiPolygon:
		n := 0
		for _, p := range t {
			n += vertexCount(p)
		}
		return n
	case geom.GeometryCollection:
		n := 0
		for _, g2 := range t {
			n += vertexCount(g2)
		}
		return n
	default:
		return 0
	}
}
