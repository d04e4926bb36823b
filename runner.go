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
	"context"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/requestcache"

	"github.com/spatialmodel/geompipe/internal/hash"
)

func init() {
	// Register the geometry and operation variants so that cache keys
	// can be computed with gob rather than falling back to reflection.
	gob.Register(Simplify{})
	gob.Register(Buffer{})
	gob.Register(Centroid{})
	gob.Register(PointOnSurface{})
	gob.Register(Affine{})
	gob.Register(Boolean{})
	gob.Register(Cast{})
	gob.Register(Reproject{})
	gob.Register(geom.Point{})
	gob.Register(geom.MultiPoint{})
	gob.Register(geom.LineString{})
	gob.Register(geom.MultiLineString{})
	gob.Register(geom.Polygon{})
	gob.Register(geom.MultiPolygon{})
	gob.Register(geom.GeometryCollection{})
}

// A Runner executes pipelines over batches of inputs, in parallel
// across a fixed number of processors, memoizing results per
// (pipeline, input) pair and merging duplicate in-flight requests.
type Runner struct {
	engine Engine
	cache  *requestcache.Cache
}

// NewRunner creates a Runner that executes pipelines with engine using
// numProcessors parallel workers. Up to memCacheSize results are
// memoized in memory; a memCacheSize of zero disables memoization but
// duplicate in-flight requests are still merged.
func NewRunner(engine Engine, numProcessors, memCacheSize int) *Runner {
	if numProcessors < 1 {
		numProcessors = 1
	}
	r := &Runner{engine: engine}
	cachefuncs := []requestcache.CacheFunc{requestcache.Deduplicate()}
	if memCacheSize > 0 {
		cachefuncs = append(cachefuncs, requestcache.Memory(memCacheSize))
	}
	r.cache = requestcache.NewCache(r.process, numProcessors, cachefuncs...)
	return r
}

type runRequest struct {
	pipeline *Pipeline
	input    Value
}

// process runs one pipeline execution. Failures are data, not errors:
// they are carried inside the ExecutionResult so that failed runs are
// memoized the same way successful ones are.
func (r *Runner) process(ctx context.Context, request interface{}) (interface{}, error) {
	req := request.(*runRequest)
	return req.pipeline.Run(r.engine, req.input), nil
}

// RunBatch executes p against each input, returning one result per
// input in input order. Batch items are independent: a failure on one
// input never aborts the others. Canceling ctx stops the submission of
// further items; items not submitted report the cancellation as their
// failure, so the returned slice always has one entry per input.
func (r *Runner) RunBatch(ctx context.Context, p *Pipeline, inputs []Value) []ExecutionResult {
	out := make([]ExecutionResult, len(inputs))
	// The key covers the pipeline's steps, not just its name: two
	// pipelines may share a name (configuration files without one all
	// default to the same) and must not serve each other's results.
	steps := p.Steps()
	var wg sync.WaitGroup
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			out[i] = ExecutionResult{Err: newError(EngineFailure, 0, "",
				fmt.Errorf("batch item %d not run: %w", i, err))}
			continue
		}
		wg.Add(1)
		go func(i int, in Value) {
			defer wg.Done()
			key := hash.Key(p.Name(), steps, in)
			result, err := r.cache.NewRequest(ctx, &runRequest{pipeline: p, input: in}, key).Result()
			if err != nil {
				out[i] = ExecutionResult{Err: newError(EngineFailure, 0, "", err)}
				return
			}
			out[i] = result.(ExecutionResult)
		}(i, in)
	}
	wg.Wait()
	return out
}
