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

package geompipeutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/spatialmodel/geompipe"
)

// PipelineConfig is the declarative on-disk form of a pipeline: a name
// and an ordered list of step tables. Only syntactic conversion
// happens here; semantic validation of parameters stays in the core,
// so a malformed file is rejected by NewPipeline before anything runs.
type PipelineConfig struct {
	Name  string       `toml:"name"`
	Steps []StepConfig `toml:"step"`
}

// StepConfig describes one pipeline step. Type selects the operation;
// the remaining fields are its parameters and only the ones relevant
// to the selected type are read.
type StepConfig struct {
	// Type is one of simplify, buffer, centroid, pointonsurface,
	// affine, boolean, cast, or reproject.
	Type string `toml:"type"`

	Tolerance        float64 `toml:"tolerance"`
	PreserveTopology bool    `toml:"preserve_topology"`

	Distance float64 `toml:"distance"`
	// SegmentsPerQuadrant defaults to 8 when omitted.
	SegmentsPerQuadrant int `toml:"segments_per_quadrant"`

	OfLargestPolygon bool `toml:"of_largest_polygon"`

	// Matrix is the row-major 2x2 affine matrix; it defaults to the
	// identity when omitted. Translation defaults to zero.
	Matrix      []float64 `toml:"matrix"`
	Translation []float64 `toml:"translation"`

	// Kind is one of intersection, union, difference, or
	// symdifference. OtherOperand addresses a previously produced
	// value: 0 is the pipeline input, k the output of step k.
	Kind         string `toml:"kind"`
	OtherOperand int    `toml:"other_operand"`

	// Target is a geometry type name for cast steps.
	Target string `toml:"target"`

	// To is the target reference system for reproject steps; it may
	// contain environment variables.
	To string `toml:"to"`
}

// LoadPipeline reads a TOML pipeline definition from path and builds
// the pipeline from it.
func LoadPipeline(path string) (*geompipe.Pipeline, error) {
	var c PipelineConfig
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("geompipeutil: reading pipeline file %s: %w", path, err)
	}
	return c.Pipeline()
}

// Pipeline converts c to a validated pipeline.
func (c *PipelineConfig) Pipeline() (*geompipe.Pipeline, error) {
	name := c.Name
	if name == "" {
		name = "pipeline"
	}
	steps := make([]geompipe.Op, len(c.Steps))
	for i, s := range c.Steps {
		op, err := s.op()
		if err != nil {
			return nil, fmt.Errorf("geompipeutil: step %d: %w", i+1, err)
		}
		steps[i] = op
	}
	return geompipe.NewPipeline(name, steps...)
}

func (s StepConfig) op() (geompipe.Op, error) {
	switch strings.ToLower(s.Type) {
	case "simplify":
		return geompipe.Simplify{
			Tolerance:        s.Tolerance,
			PreserveTopology: s.PreserveTopology,
		}, nil
	case "buffer":
		segs := s.SegmentsPerQuadrant
		if segs == 0 {
			segs = 8
		}
		return geompipe.Buffer{Distance: s.Distance, SegmentsPerQuadrant: segs}, nil
	case "centroid":
		return geompipe.Centroid{OfLargestPolygon: s.OfLargestPolygon}, nil
	case "pointonsurface":
		return geompipe.PointOnSurface{}, nil
	case "affine":
		op := geompipe.Identity()
		switch len(s.Matrix) {
		case 0:
		case 4:
			op.M = [2][2]float64{{s.Matrix[0], s.Matrix[1]}, {s.Matrix[2], s.Matrix[3]}}
		default:
			return nil, fmt.Errorf("affine matrix must have 4 entries (row-major 2x2); got %d", len(s.Matrix))
		}
		switch len(s.Translation) {
		case 0:
		case 2:
			op.T = [2]float64{s.Translation[0], s.Translation[1]}
		default:
			return nil, fmt.Errorf("affine translation must have 2 entries; got %d", len(s.Translation))
		}
		return op, nil
	case "boolean":
		kind, err := parseBooleanKind(s.Kind)
		if err != nil {
			return nil, err
		}
		return geompipe.Boolean{Kind: kind, OtherOperand: s.OtherOperand}, nil
	case "cast":
		target, err := parseGeomType(s.Target)
		if err != nil {
			return nil, err
		}
		return geompipe.Cast{Target: target}, nil
	case "reproject":
		return geompipe.Reproject{To: os.ExpandEnv(s.To)}, nil
	default:
		return nil, fmt.Errorf("unknown step type %q", s.Type)
	}
}

func parseBooleanKind(s string) (geompipe.BooleanKind, error) {
	switch strings.ToLower(s) {
	case "intersection":
		return geompipe.Intersection, nil
	case "union":
		return geompipe.Union, nil
	case "difference":
		return geompipe.Difference, nil
	case "symdifference", "xor":
		return geompipe.SymDifference, nil
	default:
		return 0, fmt.Errorf("unknown boolean kind %q", s)
	}
}

func parseGeomType(s string) (geompipe.GeomType, error) {
	switch strings.ToLower(s) {
	case "point":
		return geompipe.PointType, nil
	case "multipoint":
		return geompipe.MultiPointType, nil
	case "linestring":
		return geompipe.LineStringType, nil
	case "multilinestring":
		return geompipe.MultiLineStringType, nil
	case "polygon":
		return geompipe.PolygonType, nil
	case "multipolygon":
		return geompipe.MultiPolygonType, nil
	case "geometrycollection":
		return geompipe.GeometryCollectionType, nil
	default:
		return 0, fmt.Errorf("unknown geometry type %q", s)
	}
}
