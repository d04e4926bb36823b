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
	"testing"

	"github.com/ctessum/geom"
)

func TestNewValue(t *testing.T) {
	tests := []struct {
		name string
		g    geom.Geom
		ok   bool
	}{
		{
			name: "point",
			g:    geom.Point{X: 1, Y: 2},
			ok:   true,
		},
		{
			name: "closed square",
			g:    geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}},
			ok:   true,
		},
		{
			name: "unclosed ring",
			g:    geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}},
			ok:   false,
		},
		{
			name: "ring with too few coordinates",
			g:    geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 0}}},
			ok:   false,
		},
		{
			name: "one-coordinate line string",
			g:    geom.LineString{{X: 1, Y: 1}},
			ok:   false,
		},
		{
			name: "two-coordinate line string",
			g:    geom.LineString{{X: 1, Y: 1}, {X: 2, Y: 2}},
			ok:   true,
		},
		{
			name: "empty polygon",
			g:    geom.Polygon{},
			ok:   true,
		},
		{
			name: "nil geometry",
			g:    nil,
			ok:   false,
		},
		{
			name: "collection with bad member",
			g: geom.GeometryCollection{
				geom.Point{X: 0, Y: 0},
				geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}},
			},
			ok: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewValue(test.g, "")
			if test.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !test.ok {
				if err == nil {
					t.Fatal("expected an error")
				}
				var perr *Error
				if !errors.As(err, &perr) {
					t.Fatalf("error %v is not a *Error", err)
				}
				if perr.Kind != MalformedGeometry {
					t.Errorf("kind = %v; want %v", perr.Kind, MalformedGeometry)
				}
			}
		})
	}
}

func TestValueWithSR(t *testing.T) {
	v, err := NewValue(geom.Point{X: 1, Y: 2}, "")
	if err != nil {
		t.Fatal(err)
	}
	v2 := v.WithSR("+proj=longlat +datum=WGS84 +no_defs")
	if v.SR != "" {
		t.Error("WithSR modified the receiver")
	}
	if v2.SR == "" {
		t.Error("WithSR did not attach the reference system")
	}
	if !v.Equal(v2) {
		t.Error("WithSR changed the geometry")
	}
}

func TestValueEqual(t *testing.T) {
	square := geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}}
	a := Value{Geom: square}
	b := Value{Geom: geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}}}
	if !a.Equal(b) {
		t.Error("identical polygons are not equal")
	}
	// Equality is exact, not fuzzy.
	c := Value{Geom: geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 1e-12}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}}}
	if a.Equal(c) {
		t.Error("nearly identical polygons compare equal")
	}
	d := Value{Geom: geom.MultiPolygon{square}}
	if a.Equal(d) {
		t.Error("polygon compares equal to its multi variant")
	}
}

func TestVertexCount(t *testing.T) {
	v := Value{Geom: geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}}}
	if n := v.VertexCount(); n != 5 {
		t.Errorf("vertex count = %d; want 5", n)
	}
	gc := Value{Geom: geom.GeometryCollection{
		geom.Point{},
		geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}},
	}}
	if n := gc.VertexCount(); n != 4 {
		t.Errorf("vertex count = %d; want 4", n)
	}
}
