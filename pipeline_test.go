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

package geompipe_test

import (
	"testing"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/spatialmodel/geompipe"
	"github.com/spatialmodel/geompipe/planar"
)

// testSR is an opaque reference system tag; it is only parsed by
// reprojection steps, which these tests don't use.
const testSR = "+proj=merc +datum=WGS84 +units=m +no_defs"

var engine = planar.Engine{}

func square(x0, y0, side float64) geom.Polygon {
	return geom.Polygon{{
		{X: x0, Y: y0},
		{X: x0 + side, Y: y0},
		{X: x0 + side, Y: y0 + side},
		{X: x0, Y: y0 + side},
		{X: x0, Y: y0},
	}}
}

func area(t *testing.T, g geom.Geom) float64 {
	t.Helper()
	p, ok := g.(geom.Polygonal)
	if !ok {
		t.Fatalf("geometry %T is not polygonal", g)
	}
	return p.Area()
}

func mustRun(t *testing.T, p *geompipe.Pipeline, in geompipe.Value) geompipe.Value {
	t.Helper()
	res := p.Run(engine, in)
	if res.Failed() {
		t.Fatalf("pipeline %s failed: %v", p.Name(), res.Err)
	}
	return res.Value
}

func TestRunBufferSquare(t *testing.T) {
	p, err := geompipe.NewPipeline("buffer",
		geompipe.Buffer{Distance: 2, SegmentsPerQuadrant: 8})
	if err != nil {
		t.Fatal(err)
	}
	out := mustRun(t, p, geompipe.Value{Geom: square(0, 0, 10), SR: testSR})
	if out.SR != testSR {
		t.Errorf("buffer did not preserve the reference system: %q", out.SR)
	}
	if a := area(t, out.Geom); a <= 100 {
		t.Errorf("buffered area = %g; want > 100", a)
	}
	b := out.Geom.Bounds()
	const tol = 1e-9
	if !scalar.EqualWithinAbs(b.Min.X, -2, tol) || !scalar.EqualWithinAbs(b.Min.Y, -2, tol) ||
		!scalar.EqualWithinAbs(b.Max.X, 12, tol) || !scalar.EqualWithinAbs(b.Max.Y, 12, tol) {
		t.Errorf("bounds = %+v; want (-2,-2) to (12,12)", b)
	}
}

func TestRunIdentityAffineDropsSR(t *testing.T) {
	p, err := geompipe.NewPipeline("identity", geompipe.Identity())
	if err != nil {
		t.Fatal(err)
	}
	in := geompipe.Value{Geom: square(0, 0, 10), SR: testSR}
	res := p.Run(engine, in)
	if res.Failed() {
		t.Fatal(res.Err)
	}
	if !res.Value.Equal(in) {
		t.Error("identity affine changed the coordinates")
	}
	if res.Value.SR != "" {
		t.Errorf("affine did not drop the reference system: %q", res.Value.SR)
	}
	// Re-attaching is the caller's responsibility.
	if got := res.Value.WithSR(testSR).SR; got != testSR {
		t.Errorf("WithSR = %q; want %q", got, testSR)
	}
}

func TestRunAffineScaleAndShift(t *testing.T) {
	p, err := geompipe.NewPipeline("scale-shift",
		geompipe.Affine{M: [2][2]float64{{2, 0}, {0, 3}}, T: [2]float64{1, -1}})
	if err != nil {
		t.Fatal(err)
	}
	out := mustRun(t, p, geompipe.Value{Geom: geom.Point{X: 10, Y: 10}, SR: testSR})
	want := geom.Point{X: 21, Y: 29}
	if !out.Equal(geompipe.Value{Geom: want}) {
		t.Errorf("got %+v; want %+v", out.Geom, want)
	}
}

func TestRunBooleanCommutativity(t *testing.T) {
	a, err := engine.Buffer(geom.Point{X: 0, Y: 0}, 1, 8)
	if err != nil {
		t.Fatal(err)
	}
	b, err := engine.Buffer(geom.Point{X: 1, Y: 0}, 1, 8)
	if err != nil {
		t.Fatal(err)
	}

	ab, err := engine.Boolean(geompipe.Intersection, a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := engine.Boolean(geompipe.Intersection, b, a)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbsOrRel(area(t, ab), area(t, ba), 1e-9, 1e-9) {
		t.Errorf("intersection areas differ: %g != %g", area(t, ab), area(t, ba))
	}
	if area(t, ab) <= 0 {
		t.Error("overlapping circles have empty intersection")
	}

	// Difference is not commutative for distinct operands.
	d1, err := engine.Boolean(geompipe.Difference, a, b)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := engine.Boolean(geompipe.Difference, b, a)
	if err != nil {
		t.Fatal(err)
	}
	v1 := geompipe.Value{Geom: d1}
	if v1.Equal(geompipe.Value{Geom: d2}) {
		t.Error("difference of distinct geometries is commutative")
	}
}

func TestRunSymDifferenceAreaIdentity(t *testing.T) {
	a, err := engine.Buffer(geom.Point{X: 0, Y: 0}, 1, 16)
	if err != nil {
		t.Fatal(err)
	}
	b, err := engine.Buffer(geom.Point{X: 1, Y: 0}, 1, 16)
	if err != nil {
		t.Fatal(err)
	}
	inter, err := engine.Boolean(geompipe.Intersection, a, b)
	if err != nil {
		t.Fatal(err)
	}
	sym, err := engine.Boolean(geompipe.SymDifference, a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := area(t, a) + area(t, b) - 2*area(t, inter)
	if !scalar.EqualWithinAbsOrRel(area(t, sym), want, 1e-9, 1e-9) {
		t.Errorf("symmetric difference area = %g; want %g", area(t, sym), want)
	}
}

func TestRunBooleanSideOperand(t *testing.T) {
	// Buffer the square, then subtract the original input: the result
	// is the band around the square, addressed through operand 0.
	p, err := geompipe.NewPipeline("band",
		geompipe.Buffer{Distance: 2, SegmentsPerQuadrant: 8},
		geompipe.Boolean{Kind: geompipe.Difference, OtherOperand: 0},
		geompipe.Boolean{Kind: geompipe.Intersection, OtherOperand: 1},
	)
	if err != nil {
		t.Fatal(err)
	}
	out := mustRun(t, p, geompipe.Value{Geom: square(0, 0, 10), SR: testSR})
	a := area(t, out.Geom)
	if a <= 0 {
		t.Fatal("band is empty")
	}
	// The band intersected with the buffered square is the band again.
	buffered, err := engine.Buffer(square(0, 0, 10), 2, 8)
	if err != nil {
		t.Fatal(err)
	}
	want := area(t, buffered) - 100
	if !scalar.EqualWithinAbsOrRel(a, want, 1e-6, 1e-6) {
		t.Errorf("band area = %g; want %g", a, want)
	}
}

func TestRunShortCircuitsOnFailure(t *testing.T) {
	p, err := geompipe.NewPipeline("fail-fast",
		geompipe.Cast{Target: geompipe.LineStringType},
		geompipe.Buffer{Distance: 1, SegmentsPerQuadrant: 4},
	)
	if err != nil {
		t.Fatal(err)
	}
	res := p.Run(engine, geompipe.Value{Geom: square(0, 0, 10), SR: testSR})
	if !res.Failed() {
		t.Fatal("expected a failure")
	}
	if res.Err.Kind != geompipe.UnsupportedCast {
		t.Errorf("kind = %v; want %v", res.Err.Kind, geompipe.UnsupportedCast)
	}
	if res.Err.Step != 1 {
		t.Errorf("step = %d; want 1", res.Err.Step)
	}
	// No partial result leaks.
	if res.Value.Geom != nil {
		t.Error("failed run carries a geometry")
	}
}

func TestRunCastRoundTrip(t *testing.T) {
	p, err := geompipe.NewPipeline("cast-roundtrip",
		geompipe.Cast{Target: geompipe.MultiPolygonType},
		geompipe.Cast{Target: geompipe.PolygonType},
	)
	if err != nil {
		t.Fatal(err)
	}
	in := geompipe.Value{Geom: square(3, 4, 5), SR: testSR}
	out := mustRun(t, p, in)
	if !out.Equal(in) {
		t.Error("lossless cast round trip changed the geometry")
	}
	if out.SR != testSR {
		t.Errorf("cast did not preserve the reference system: %q", out.SR)
	}
}

func TestRunSimplifyMonotonicReduction(t *testing.T) {
	// A zigzag line: larger tolerances may never keep more vertices.
	var zigzag geom.LineString
	for i := 0; i < 21; i++ {
		y := 0.0
		if i%2 == 1 {
			y = 0.5
		}
		zigzag = append(zigzag, geom.Point{X: float64(i), Y: y})
	}
	in := geompipe.Value{Geom: zigzag, SR: testSR}

	counts := make([]int, 0, 3)
	for _, tol := range []float64{0.1, 1, 10} {
		p, err := geompipe.NewPipeline("simplify",
			geompipe.Simplify{Tolerance: tol, PreserveTopology: true})
		if err != nil {
			t.Fatal(err)
		}
		out := mustRun(t, p, in)
		counts = append(counts, out.VertexCount())
	}
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[i-1] {
			t.Errorf("vertex counts %v increase with tolerance", counts)
		}
	}
	if counts[0] > in.VertexCount() {
		t.Errorf("simplification added vertices: %d > %d", counts[0], in.VertexCount())
	}
}

func TestRunCentroid(t *testing.T) {
	p, err := geompipe.NewPipeline("centroid", geompipe.Centroid{})
	if err != nil {
		t.Fatal(err)
	}
	out := mustRun(t, p, geompipe.Value{Geom: square(0, 0, 10), SR: testSR})
	pt, ok := out.Geom.(geom.Point)
	if !ok {
		t.Fatalf("centroid returned %T", out.Geom)
	}
	if !scalar.EqualWithinAbs(pt.X, 5, 1e-9) || !scalar.EqualWithinAbs(pt.Y, 5, 1e-9) {
		t.Errorf("centroid = %+v; want (5, 5)", pt)
	}

	// With two squares of different size, only the largest counts.
	big := geompipe.Value{
		Geom: geom.MultiPolygon{square(0, 0, 10), square(100, 100, 1)},
		SR:   testSR,
	}
	p2, err := geompipe.NewPipeline("centroid-largest",
		geompipe.Centroid{OfLargestPolygon: true})
	if err != nil {
		t.Fatal(err)
	}
	out2 := mustRun(t, p2, big)
	pt2 := out2.Geom.(geom.Point)
	if !scalar.EqualWithinAbs(pt2.X, 5, 1e-9) || !scalar.EqualWithinAbs(pt2.Y, 5, 1e-9) {
		t.Errorf("largest-polygon centroid = %+v; want (5, 5)", pt2)
	}
}

func TestRunRequiresReferenceSystem(t *testing.T) {
	// Distance- and area-sensitive operations must fail when the
	// reference system is unset; affine transforms are permitted.
	in := geompipe.Value{Geom: square(0, 0, 10)}

	for _, op := range []geompipe.Op{
		geompipe.Simplify{Tolerance: 1},
		geompipe.Buffer{Distance: 1, SegmentsPerQuadrant: 4},
		geompipe.Centroid{},
		geompipe.PointOnSurface{},
		geompipe.Boolean{Kind: geompipe.Union, OtherOperand: 0},
		geompipe.Reproject{To: "+proj=longlat +datum=WGS84 +no_defs"},
	} {
		p, err := geompipe.NewPipeline("no-sr", op)
		if err != nil {
			t.Fatal(err)
		}
		res := p.Run(engine, in)
		if !res.Failed() {
			t.Errorf("%s succeeded without a reference system", op.Name())
			continue
		}
		if res.Err.Kind != geompipe.EngineFailure {
			t.Errorf("%s: kind = %v; want %v", op.Name(), res.Err.Kind, geompipe.EngineFailure)
		}
	}

	p, err := geompipe.NewPipeline("affine-ok", geompipe.Identity())
	if err != nil {
		t.Fatal(err)
	}
	if res := p.Run(engine, in); res.Failed() {
		t.Errorf("affine failed without a reference system: %v", res.Err)
	}
}

func TestRunMalformedInput(t *testing.T) {
	p, err := geompipe.NewPipeline("validate",
		geompipe.Buffer{Distance: 1, SegmentsPerQuadrant: 4})
	if err != nil {
		t.Fatal(err)
	}
	open := geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}}
	res := p.Run(engine, geompipe.Value{Geom: open, SR: testSR})
	if !res.Failed() {
		t.Fatal("expected a failure")
	}
	if res.Err.Kind != geompipe.MalformedGeometry {
		t.Errorf("kind = %v; want %v", res.Err.Kind, geompipe.MalformedGeometry)
	}
	if res.Err.Step != 0 {
		t.Errorf("step = %d; want 0 for input validation", res.Err.Step)
	}
}
