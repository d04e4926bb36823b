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

// Package planar implements the geompipe engine capability on planar
// geometry from github.com/ctessum/geom. Simplification, polygon
// clipping, centroids, and reprojection are delegated to that library;
// buffering is composed from its union primitive. Boolean operations
// are supported between polygonal geometries only.
package planar

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/op"
	"github.com/ctessum/geom/proj"

	"github.com/spatialmodel/geompipe"
)

// Engine implements geompipe.Engine. It is stateless; the zero value
// is ready to use and safe for concurrent use.
type Engine struct{}

var _ geompipe.Engine = Engine{}

// Simplify reduces g's vertex count within tolerance. The underlying
// simplifier is topology-safe regardless of preserveTopology: the flag
// licenses topology loss but never requires it. Pointlike geometries
// are returned unchanged.
func (e Engine) Simplify(g geom.Geom, tolerance float64, preserveTopology bool) (geom.Geom, error) {
	switch t := g.(type) {
	case geom.Point, geom.MultiPoint:
		return g, nil
	case geom.GeometryCollection:
		out := make(geom.GeometryCollection, len(t))
		for i, g2 := range t {
			var err error
			out[i], err = e.Simplify(g2, tolerance, preserveTopology)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	case geom.Simplifier:
		return t.Simplify(tolerance), nil
	default:
		return nil, fmt.Errorf("planar: cannot simplify %T", g)
	}
}

// Centroid returns the area-weighted centroid of a polygonal geometry.
// If ofLargestPolygon is true, only the constituent polygon with the
// greatest area contributes.
func (e Engine) Centroid(g geom.Geom, ofLargestPolygon bool) (geom.Point, error) {
	p, ok := g.(geom.Polygonal)
	if !ok {
		return geom.Point{}, fmt.Errorf("planar: centroid requires a polygonal geometry; got %T", g)
	}
	polys := p.Polygons()
	if countVertices(polys) == 0 {
		return geom.Point{}, fmt.Errorf("planar: centroid of empty polygonal geometry")
	}
	if ofLargestPolygon {
		best := polys[0]
		bestArea := math.Inf(-1)
		for _, pp := range polys {
			if a := pp.Area(); a > bestArea {
				best, bestArea = pp, a
			}
		}
		return best.Centroid(), nil
	}
	return p.Centroid(), nil
}

// PointOnSurface returns a point guaranteed to lie on g, which is the
// centroid when the centroid is interior.
func (e Engine) PointOnSurface(g geom.Geom) (geom.Point, error) {
	switch t := g.(type) {
	case geom.Point:
		return t, nil
	case geom.MultiPoint:
		if len(t) == 0 {
			return geom.Point{}, fmt.Errorf("planar: point on surface of empty geometry")
		}
		return t[0], nil
	case geom.LineString, geom.MultiLineString, geom.Polygon:
		pt, err := op.PointOnSurface(g)
		if err != nil {
			return geom.Point{}, fmt.Errorf("planar: point on surface: %w", err)
		}
		return pt, nil
	case geom.MultiPolygon:
		if len(t) == 0 {
			return geom.Point{}, fmt.Errorf("planar: point on surface of empty geometry")
		}
		best := t[0]
		bestArea := math.Inf(-1)
		for _, pp := range t {
			if a := pp.Area(); a > bestArea {
				best, bestArea = pp, a
			}
		}
		return e.PointOnSurface(best)
	default:
		return geom.Point{}, fmt.Errorf("planar: cannot compute point on surface of %T", g)
	}
}

// ApplyAffine maps each coordinate (x, y) of g to m·(x, y) + t.
func (e Engine) ApplyAffine(g geom.Geom, m [2][2]float64, t [2]float64) (geom.Geom, error) {
	return mapPoints(g, func(p geom.Point) geom.Point {
		return geom.Point{
			X: m[0][0]*p.X + m[0][1]*p.Y + t[0],
			Y: m[1][0]*p.X + m[1][1]*p.Y + t[1],
		}
	})
}

// Boolean combines two polygonal geometries with the given set
// operation, returning a polygon that may be empty or cover several
// disjoint areas.
func (e Engine) Boolean(kind geompipe.BooleanKind, a, b geom.Geom) (geom.Geom, error) {
	pa, ok := a.(geom.Polygonal)
	if !ok {
		return nil, fmt.Errorf("planar: boolean %s requires polygonal operands; left operand is %T", kind, a)
	}
	pb, ok := b.(geom.Polygonal)
	if !ok {
		return nil, fmt.Errorf("planar: boolean %s requires polygonal operands; right operand is %T", kind, b)
	}
	switch kind {
	case geompipe.Intersection:
		return pa.Intersection(pb), nil
	case geompipe.Union:
		return pa.Union(pb), nil
	case geompipe.Difference:
		return pa.Difference(pb), nil
	case geompipe.SymDifference:
		return pa.XOr(pb), nil
	default:
		return nil, fmt.Errorf("planar: unknown boolean kind (%d)", int(kind))
	}
}

// Reproject transforms g's coordinates from the reference system
// identified by from to the one identified by to. Both identifiers
// must be proj4 strings or WKT definitions.
func (e Engine) Reproject(g geom.Geom, from, to string) (geom.Geom, string, error) {
	src, err := proj.Parse(from)
	if err != nil {
		return nil, "", fmt.Errorf("planar: parsing source reference system: %w", err)
	}
	dst, err := proj.Parse(to)
	if err != nil {
		return nil, "", fmt.Errorf("planar: parsing target reference system: %w", err)
	}
	t, err := src.NewTransform(dst)
	if err != nil {
		return nil, "", fmt.Errorf("planar: creating transform: %w", err)
	}
	g2, err := g.Transform(t)
	if err != nil {
		return nil, "", fmt.Errorf("planar: reprojecting: %w", err)
	}
	return g2, to, nil
}

func mapPoints(g geom.Geom, f func(geom.Point) geom.Point) (geom.Geom, error) {
	switch t := g.(type) {
	case geom.Point:
		return f(t), nil
	case geom.MultiPoint:
		out := make(geom.MultiPoint, len(t))
		for i, p := range t {
			out[i] = f(p)
		}
		return out, nil
	case geom.LineString:
		out := make(geom.LineString, len(t))
		for i, p := range t {
			out[i] = f(p)
		}
		return out, nil
	case geom.MultiLineString:
		out := make(geom.MultiLineString, len(t))
		for i, l := range t {
			g2, err := mapPoints(l, f)
			if err != nil {
				return nil, err
			}
			out[i] = g2.(geom.LineString)
		}
		return out, nil
	case geom.Polygon:
		out := make(geom.Polygon, len(t))
		for i, r := range t {
			out[i] = make([]geom.Point, len(r))
			for j, p := range r {
				out[i][j] = f(p)
			}
		}
		return out, nil
	case geom.MultiPolygon:
		out := make(geom.MultiPolygon, len(t))
		for i, p := range t {
			g2, err := mapPoints(p, f)
			if err != nil {
				return nil, err
			}
			out[i] = g2.(geom.Polygon)
		}
		return out, nil
	case geom.GeometryCollection:
		out := make(geom.GeometryCollection, len(t))
		for i, g2 := range t {
			var err error
			out[i], err = mapPoints(g2, f)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("planar: cannot transform %T", g)
	}
}

func countVertices(polys []geom.Polygon) int {
	n := 0
	for _, p := range polys {
		for _, r := range p {
			n += len(r)
		}
	}
	return n
}
