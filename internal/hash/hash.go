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
along with geompipe.  If not, see <http://www.gnu.org/licenses/>.*/

// Package hash builds deterministic cache keys for pipeline runs.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Key returns the cache key for running the named pipeline over the
// given parts, one hash segment per part. Two runs share a key only
// when the name and every part hash equal, so callers must include
// everything the result depends on: the step list as well as the input
// value, never the name alone.
func Key(name string, parts ...interface{}) string {
	segs := make([]string, 0, len(parts)+1)
	segs = append(segs, name)
	for _, part := range parts {
		segs = append(segs, Hash(part))
	}
	return strings.Join(segs, "_")
}

// Hash returns a deterministic hash of object.
func Hash(object interface{}) string {
	h := fnv.New128a()
	e := gob.NewEncoder(h)
	if err := e.Encode(object); err == nil {
		return fmt.Sprintf("%x", h.Sum(nil))
	}
	// gob cannot encode everything (unregistered interface values,
	// types with no exported fields); fall back to a printed
	// representation.
	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	printer.Fprintf(h, "%#v", object)
	return fmt.Sprintf("%x", h.Sum(nil))
}
