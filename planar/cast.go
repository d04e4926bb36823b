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

	"github.com/ctessum/geom"

	"github.com/spatialmodel/geompipe"
)

// Cast converts g to the target type where a lossless mapping exists:
// each single type widens to its multi variant and to a geometry
// collection, a multi variant with one element narrows to its single
// type, and a collection of uniformly pointlike, linear, or polygonal
// elements flattens to the corresponding multi variant. Anything else
// returns an UnsupportedCastError.
func (e Engine) Cast(g geom.Geom, target geompipe.GeomType) (geom.Geom, error) {
	from := geompipe.TypeOf(g)
	if from == 0 {
		return nil, fmt.Errorf("planar: cannot cast unknown geometry type %T", g)
	}
	if from == target {
		return g, nil
	}
	if target == geompipe.GeometryCollectionType {
		return geom.GeometryCollection{g}, nil
	}

	unsupported := geompipe.UnsupportedCastError{From: from, To: target}

	switch t := g.(type) {
	case geom.Point:
		if target == geompipe.MultiPointType {
			return geom.MultiPoint{t}, nil
		}
	case geom.MultiPoint:
		if target == geompipe.PointType && len(t) == 1 {
			return t[0], nil
		}
	case geom.LineString:
		if target == geompipe.MultiLineStringType {
			return geom.MultiLineString{t}, nil
		}
	case geom.MultiLineString:
		if target == geompipe.LineStringType && len(t) == 1 {
			return t[0], nil
		}
	case geom.Polygon:
		if target == geompipe.MultiPolygonType {
			return geom.MultiPolygon{t}, nil
		}
	case geom.MultiPolygon:
		if target == geompipe.PolygonType && len(t) == 1 {
			return t[0], nil
		}
	case geom.GeometryCollection:
		return castCollection(t, target, unsupported)
	}
	return nil, unsupported
}

func castCollection(gc geom.GeometryCollection, target geompipe.GeomType, unsupported geompipe.UnsupportedCastError) (geom.Geom, error) {
	switch target {
	case geompipe.MultiPointType:
		var out geom.MultiPoint
		for _, g := range gc {
			switch t := g.(type) {
			case geom.Point:
				out = append(out, t)
			case geom.MultiPoint:
				out = append(out, t...)
			default:
				return nil, unsupported
			}
		}
		return out, nil
	case geompipe.MultiLineStringType:
		var out geom.MultiLineString
		for _, g := range gc {
			switch t := g.(type) {
			case geom.LineString:
				out = append(out, t)
			case geom.MultiLineString:
				out = append(out, t...)
			default:
				return nil, unsupported
			}
		}
		return out, nil
	case geompipe.MultiPolygonType:
		var out geom.MultiPolygon
		for _, g := range gc {
			switch t := g.(type) {
			case geom.Polygon:
				out = append(out, t)
			case geom.MultiPolygon:
				out = append(out, t...)
			default:
				return nil, unsupported
			}
		}
		return out, nil
	case geompipe.PointType, geompipe.LineStringType, geompipe.PolygonType:
		if len(gc) == 1 {
			e := Engine{}
			return e.Cast(gc[0], target)
		}
		return nil, unsupported
	default:
		return nil, unsupported
	}
}
