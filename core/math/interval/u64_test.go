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

package interval_test

import (
	"testing"

	"github.com/rurra-amd/gfxreconstruct/core/assert"
	"github.com/rurra-amd/gfxreconstruct/core/log"
	"github.com/rurra-amd/gfxreconstruct/core/math/interval"
)

func TestSpanRangeRoundTrip(t *testing.T) {
	ctx := log.Testing(t)
	span := interval.U64Span{Start: 0x1000, End: 0x1100}

	assert.For(ctx, "range").That(span.Range()).Equals(interval.U64Range{First: 0x1000, Count: 0x100})
	assert.For(ctx, "span").That(span.Range().Span()).Equals(span)
}

func TestSpanContains(t *testing.T) {
	ctx := log.Testing(t)
	span := interval.U64Span{Start: 10, End: 20}

	for _, test := range []struct {
		value  uint64
		expect bool
	}{
		{9, false},
		{10, true},
		{19, true},
		{20, false},
	} {
		assert.For(ctx, "contains %d", test.value).That(span.Contains(test.value)).Equals(test.expect)
	}
}

func TestSpanOverlaps(t *testing.T) {
	ctx := log.Testing(t)
	span := interval.U64Span{Start: 10, End: 20}

	for _, test := range []struct {
		other  interval.U64Span
		expect bool
	}{
		{interval.U64Span{Start: 0, End: 10}, false},
		{interval.U64Span{Start: 0, End: 11}, true},
		{interval.U64Span{Start: 19, End: 30}, true},
		{interval.U64Span{Start: 20, End: 30}, false},
	} {
		assert.For(ctx, "overlaps %v", test.other).That(span.Overlaps(test.other)).Equals(test.expect)
	}
}
