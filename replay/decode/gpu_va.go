// Copyright (C) 2024 Advanced Micro Devices, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package decode

import (
	"golang.org/x/exp/slices"

	"github.com/rurra-amd/gfxreconstruct/core/math/interval"
	"github.com/rurra-amd/gfxreconstruct/replay/dx"
)

// vaMapping is one resource's capture-to-replay GPU virtual address mapping.
type vaMapping struct {
	capture  interval.U64Span
	replay   uint64
	resource dx.Resource
}

// gpuVaMap translates capture-time GPU virtual addresses to their replay-time
// equivalents. Entries are kept sorted by capture range start; ranges of live
// resources do not overlap.
type gpuVaMap struct {
	entries []vaMapping
}

func (m *gpuVaMap) search(address uint64) (int, bool) {
	return slices.BinarySearchFunc(m.entries, address, func(e vaMapping, addr uint64) int {
		switch {
		case e.capture.End <= addr:
			return -1
		case e.capture.Start > addr:
			return 1
		default:
			return 0
		}
	})
}

// Add records a resource's address mapping. The first observation is
// authoritative; re-adding the same range for the same resource is a no-op.
func (m *gpuVaMap) Add(resource dx.Resource, captureBase, replayBase, width uint64) {
	span := interval.U64Span{Start: captureBase, End: captureBase + width}
	i, found := m.search(captureBase)
	if found {
		// Either a repeat observation of the same resource or capture-side
		// aliasing; the first observation wins in both cases.
		return
	}
	m.entries = slices.Insert(m.entries, i, vaMapping{
		capture:  span,
		replay:   replayBase,
		resource: resource,
	})
}

// Translate rewrites a capture-time address to its replay-time equivalent.
// Addresses outside every known range are returned unchanged; they may be
// null, sentinels, or offsets into ranges not yet observed.
func (m *gpuVaMap) Translate(address uint64) uint64 {
	if i, found := m.search(address); found {
		e := m.entries[i]
		return e.replay + (address - e.capture.Start)
	}
	return address
}

// TranslateSlice rewrites capture-time addresses in place.
func (m *gpuVaMap) TranslateSlice(addresses []uint64) {
	for i, address := range addresses {
		addresses[i] = m.Translate(address)
	}
}

// Remove drops a resource's mapping when the resource is destroyed.
func (m *gpuVaMap) Remove(resource dx.Resource, captureBase, width uint64) {
	span := interval.U64Span{Start: captureBase, End: captureBase + width}
	if i, found := m.search(captureBase); found {
		if m.entries[i].resource == resource && m.entries[i].capture == span {
			m.entries = slices.Delete(m.entries, i, i+1)
		}
	}
}
