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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"

	"github.com/spatialmodel/geompipe"
)

// ReadInputs loads geometry values from path. GeoJSON files (.geojson
// or .json) may hold a single geometry object or an array of geometry
// objects; since GeoJSON carries no projection information, the
// returned values are tagged with sr, which may be empty. Shapefiles
// (.shp) are tagged with the contents of the accompanying .prj file
// instead, and sr is ignored.
//
// Inputs are not validated here: the pipeline checks each batch item
// when it runs, so one malformed record does not prevent the others
// from loading.
func ReadInputs(path, sr string) ([]geompipe.Value, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return readGeoJSON(path, sr)
	case ".shp":
		return readShapefile(path)
	default:
		return nil, fmt.Errorf("geompipeutil: unsupported input format %q; need .geojson, .json, or .shp", filepath.Ext(path))
	}
}

func readGeoJSON(path, sr string) ([]geompipe.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geompipeutil: reading %s: %w", path, err)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		// Not an array; try a single geometry object.
		g, err := geojson.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("geompipeutil: decoding %s: %w", path, err)
		}
		return []geompipe.Value{{Geom: g, SR: sr}}, nil
	}
	out := make([]geompipe.Value, len(raws))
	for i, raw := range raws {
		g, err := geojson.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("geompipeutil: decoding %s geometry %d: %w", path, i, err)
		}
		out[i] = geompipe.Value{Geom: g, SR: sr}
	}
	return out, nil
}

func readShapefile(path string) ([]geompipe.Value, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("geompipeutil: opening shapefile %s: %w", path, err)
	}
	defer d.Close()

	// The .prj contents, when present, become the reference system
	// tag. proj accepts WKT, so reprojection steps can consume it.
	// The decoder's SR method parses the .prj eagerly and would fail
	// the whole load on an exotic definition; the tag is opaque here,
	// so keep the raw string and let a reproject step surface any
	// parse error.
	var sr string
	if prj, err := os.ReadFile(strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"); err == nil {
		sr = strings.TrimSpace(string(prj))
	}

	var out []geompipe.Value
	for {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		out = append(out, geompipe.Value{Geom: g, SR: sr})
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("geompipeutil: reading shapefile %s: %w", path, err)
	}
	return out, nil
}

// resultRecord is the JSON form of one batch item in an output file.
type resultRecord struct {
	Geometry *geojson.Geometry `json:"geometry,omitempty"`
	SR       string            `json:"sr,omitempty"`
	Error    string            `json:"error,omitempty"`
	Step     int               `json:"step,omitempty"`
	Kind     string            `json:"kind,omitempty"`
}

// WriteResults writes one record per batch item to path as a JSON
// array, in input order. Successful items carry a GeoJSON geometry and
// reference system tag; failed items carry the failure's kind, step
// index, and message instead.
func WriteResults(path string, results []geompipe.ExecutionResult) error {
	records := make([]resultRecord, len(results))
	for i, res := range results {
		if res.Failed() {
			records[i] = resultRecord{
				Error: res.Err.Error(),
				Step:  res.Err.Step,
				Kind:  res.Err.Kind.String(),
			}
			continue
		}
		g, err := geojson.ToGeoJSON(res.Value.Geom)
		if err != nil {
			return fmt.Errorf("geompipeutil: encoding result %d: %w", i, err)
		}
		records[i] = resultRecord{Geometry: g, SR: res.Value.SR}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("geompipeutil: encoding results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("geompipeutil: writing %s: %w", path, err)
	}
	return nil
}
