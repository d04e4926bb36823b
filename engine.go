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

import "github.com/ctessum/geom"

// Engine is the geometry capability a pipeline drives. Implementations
// must be stateless per call (reentrant), so that batch runs can share
// one engine across goroutines. The planar package provides an
// implementation on planar geometry; the pipeline itself contains no
// geometry numerics.
//
// All methods operate on bare geometries: reference system tags are
// carried by the pipeline, not the engine, except for Reproject, which
// receives the source tag and returns the tag of its output.
type Engine interface {
	// Simplify reduces g's vertex count within tolerance.
	Simplify(g geom.Geom, tolerance float64, preserveTopology bool) (geom.Geom, error)

	// Buffer returns the region within distance of g, approximating
	// arcs with segmentsPerQuadrant vertices per quarter circle.
	Buffer(g geom.Geom, distance float64, segmentsPerQuadrant int) (geom.Geom, error)

	// Centroid returns the area-weighted centroid of a polygonal
	// geometry, or of its largest constituent polygon.
	Centroid(g geom.Geom, ofLargestPolygon bool) (geom.Point, error)

	// PointOnSurface returns a point guaranteed to lie on g.
	PointOnSurface(g geom.Geom) (geom.Point, error)

	// ApplyAffine maps each coordinate (x, y) of g to m·(x, y) + t.
	ApplyAffine(g geom.Geom, m [2][2]float64, t [2]float64) (geom.Geom, error)

	// Boolean combines a and b with the given set operation.
	Boolean(kind BooleanKind, a, b geom.Geom) (geom.Geom, error)

	// Cast converts g to the target type, returning an
	// UnsupportedCastError if no valid mapping exists.
	Cast(g geom.Geom, target GeomType) (geom.Geom, error)

	// Reproject transforms g's coordinates from the reference system
	// identified by from to the one identified by to, returning the
	// transformed geometry and the tag of the system it is now in.
	Reproject(g geom.Geom, from, to string) (geom.Geom, string, error)
}
