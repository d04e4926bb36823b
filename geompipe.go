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

// Package geompipe runs declarative geometry-transform pipelines: named,
// ordered, parameterized sequences of vector-geometry operations
// (simplify, buffer, centroid, point on surface, affine transform,
// boolean set operations, reprojection, and type casts) applied to one
// or more input geometries.
//
// The package contains no geometry numerics of its own: a Pipeline
// drives an Engine, and the planar subpackage implements that
// capability on planar geometry from github.com/ctessum/geom. The
// geompipeutil subpackage loads pipelines from TOML configuration and
// geometries from GeoJSON or shapefiles.
package geompipe

// Version gives the version number of this version of geompipe.
const Version = "0.1.0"
