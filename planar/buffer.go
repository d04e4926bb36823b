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

package planar

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// Buffer returns the region within distance of g as a polygonal
// geometry. It is composed from the clipping library's union primitive:
// each segment of g contributes an offset rectangle, each vertex a disc
// with 4*segmentsPerQuadrant arc vertices, and polygonal inputs
// additionally contribute themselves. A negative distance erodes a
// polygonal geometry by subtracting the band around its boundary.
func (e Engine) Buffer(g geom.Geom, distance float64, segmentsPerQuadrant int) (geom.Geom, error) {
	if distance == 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return nil, fmt.Errorf("planar: buffer distance must be a nonzero finite number; got %g", distance)
	}
	if segmentsPerQuadrant < 1 {
		return nil, fmt.Errorf("planar: buffer segments per quadrant must be at least 1; got %d", segmentsPerQuadrant)
	}
	if distance < 0 {
		p, ok := g.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("planar: negative buffer distance requires a polygonal geometry; got %T", g)
		}
		return erode(p, -distance, segmentsPerQuadrant)
	}
	out, err := dilate(g, distance, segmentsPerQuadrant)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func dilate(g geom.Geom, r float64, segs int) (geom.Polygonal, error) {
	switch t := g.(type) {
	case geom.Point:
		return disc(t, r, segs), nil
	case geom.MultiPoint:
		if len(t) == 0 {
			return nil, fmt.Errorf("planar: buffer of empty geometry")
		}
		var acc geom.Polygonal
		for i, p := range t {
			if containsPoint(t[:i], p) {
				continue
			}
			acc = merge(acc, disc(p, r, segs))
		}
		return acc, nil
	case geom.LineString:
		return bufferCurve(t, r, segs)
	case geom.MultiLineString:
		if len(t) == 0 {
			return nil, fmt.Errorf("planar: buffer of empty geometry")
		}
		var acc geom.Polygonal
		for _, l := range t {
			b, err := bufferCurve(l, r, segs)
			if err != nil {
				return nil, err
			}
			acc = merge(acc, b)
		}
		return acc, nil
	case geom.Polygonal:
		band, err := boundaryBand(t, r, segs)
		if err != nil {
			return nil, err
		}
		return t.Union(band), nil
	case geom.GeometryCollection:
		if len(t) == 0 {
			return nil, fmt.Errorf("planar: buffer of empty geometry")
		}
		var acc geom.Polygonal
		for _, g2 := range t {
			b, err := dilate(g2, r, segs)
			if err != nil {
				return nil, err
			}
			acc = merge(acc, b)
		}
		return acc, nil
	default:
		return nil, fmt.Errorf("planar: cannot buffer %T", g)
	}
}

func erode(p geom.Polygonal, r float64, segs int) (geom.Geom, error) {
	band, err := boundaryBand(p, r, segs)
	if err != nil {
		return nil, err
	}
	// Subtracting the band around the boundary leaves the points at
	// least r inside the original area. The result may be empty.
	out := p.Difference(band)
	if out == nil {
		return geom.Polygon{}, nil
	}
	return out, nil
}

// boundaryBand returns the set of points within r of p's boundary: the
// union, over every ring, of one offset rectangle per segment and one
// disc per vertex.
func boundaryBand(p geom.Polygonal, r float64, segs int) (geom.Polygonal, error) {
	var acc geom.Polygonal
	for _, poly := range p.Polygons() {
		for _, ring := range poly {
			b, err := bufferCurve(ring, r, segs)
			if err != nil {
				return nil, err
			}
			acc = merge(acc, b)
		}
	}
	if acc == nil {
		return nil, fmt.Errorf("planar: buffer of empty geometry")
	}
	return acc, nil
}

// bufferCurve returns the set of points within r of the polyline. Each
// vertex contributes exactly one disc: the clipping library mishandles
// unions of operands that contain an identical contour, which is what
// per-segment capsules would produce at every shared vertex.
func bufferCurve(points []geom.Point, r float64, segs int) (geom.Polygonal, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("planar: buffer of empty geometry")
	}
	var acc geom.Polygonal = disc(points[0], r, segs)
	last := len(points) - 1
	closed := last > 0 && points[0].Equals(points[last])
	for i := 0; i < last; i++ {
		a, b := points[i], points[i+1]
		if a.Equals(b) {
			continue
		}
		acc = acc.Union(offsetRect(a, b, r))
		if i+1 < last || !closed {
			acc = acc.Union(disc(b, r, segs))
		}
	}
	return acc, nil
}

// offsetRect returns the rectangle of half-width r around the segment
// ab. The caller guarantees a != b.
func offsetRect(a, b geom.Point, r float64) geom.Polygon {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	nx, ny := -dy/l*r, dx/l*r
	return geom.Polygon{{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
		{X: a.X + nx, Y: a.Y + ny},
	}}
}

// disc returns a regular polygon approximating the circle of radius r
// around c with 4*segs vertices.
func disc(c geom.Point, r float64, segs int) geom.Polygon {
	n := 4 * segs
	ring := make([]geom.Point, n+1)
	for i := 0; i < n; i++ {
		θ := 2 * math.Pi * float64(i) / float64(n)
		ring[i] = geom.Point{X: c.X + r*math.Cos(θ), Y: c.Y + r*math.Sin(θ)}
	}
	ring[n] = ring[0]
	return geom.Polygon{ring}
}

func merge(acc, p geom.Polygonal) geom.Polygonal {
	if acc == nil {
		return p
	}
	if p == nil {
		return acc
	}
	return acc.Union(p)
}

func containsPoint(points []geom.Point, p geom.Point) bool {
	for _, q := range points {
		if q.Equals(p) {
			return true
		}
	}
	return false
}
