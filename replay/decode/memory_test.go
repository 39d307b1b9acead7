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
	"testing"

	"github.com/rurra-amd/gfxreconstruct/core/assert"
	"github.com/rurra-amd/gfxreconstruct/core/log"
	"github.com/rurra-amd/gfxreconstruct/replay/dx"
	"github.com/rurra-amd/gfxreconstruct/replay/format"
)

func TestFillAppliesToMappedMemory(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture(ctx, Options{})

	resource := newFakeResource(0, 64)
	info := f.consumer.AddObject(format.HandleID(30), resource)

	f.consumer.OverrideResourceMap(ctx, info, dx.OK, 0, nil, 42)
	f.consumer.ProcessFillMemoryCommand(ctx, 42, 16, 4, []byte{1, 2, 3, 4})

	assert.For(ctx, "bytes applied").ThatSlice(resource.backing[0][16:20]).DeepEquals([]byte{1, 2, 3, 4})
}

func TestFillUnknownMemoryWarnsAndSkips(t *testing.T) {
	ctx, r := recordingContext()
	f := newFixture(ctx, Options{})

	f.consumer.ProcessFillMemoryCommand(ctx, 99, 0, 4, []byte{1, 2, 3, 4})

	assert.For(t, "warned").That(r.count(log.Warning)).Equals(1)
}

func TestNestedMapUnmap(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture(ctx, Options{})

	resource := newFakeResource(0, 64)
	info := f.consumer.AddObject(format.HandleID(30), resource)

	f.consumer.OverrideResourceMap(ctx, info, dx.OK, 0, nil, 42)
	f.consumer.OverrideResourceMap(ctx, info, dx.OK, 0, nil, 42)
	f.consumer.OverrideResourceUnmap(ctx, info, 0, nil)

	// Still mapped once; the index entry stays.
	assert.For(ctx, "still indexed").That(f.consumer.mappedMemory[42]).IsNotNil()

	f.consumer.OverrideResourceUnmap(ctx, info, 0, nil)
	assert.For(ctx, "index dropped").That(f.consumer.mappedMemory[42]).IsNil()
	assert.For(ctx, "driver unmapped").That(resource.mapped[0]).Equals(0)
}

func TestHeapAllocationTransfer(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture(ctx, Options{})

	f.consumer.ProcessCreateHeapAllocationCommand(ctx, 7, 4096)
	assert.For(ctx, "pooled").That(f.consumer.heapAllocations[7]).IsNotNil()

	result := f.consumer.OverrideOpenExistingHeapFromAddress(ctx, f.device, dx.OK, 7, format.HandleID(31))
	assert.For(ctx, "result").That(result).Equals(dx.OK)
	// Adoption moved the allocation out of the pool and into the heap record.
	assert.For(ctx, "consumed").That(f.consumer.heapAllocations[7]).IsNil()

	heap := f.consumer.GetObjectInfo(31)
	assert.For(ctx, "heap recorded").That(heap).IsNotNil()
	assert.For(ctx, "adopted").That(heap.extra.(*heapInfo).externalAllocation).IsNotNil()
}

func TestHeapAllocationReleasedOnDriverFailure(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture(ctx, Options{})

	f.consumer.ProcessCreateHeapAllocationCommand(ctx, 7, 4096)
	f.api.device.openHeapResult = dx.Fail

	result := f.consumer.OverrideOpenExistingHeapFromAddress(ctx, f.device, dx.OK, 7, format.HandleID(31))

	assert.For(ctx, "result").That(result).Equals(dx.Fail)
	assert.For(ctx, "pool entry erased").That(f.consumer.heapAllocations[7]).IsNil()
	assert.For(ctx, "no record").That(f.consumer.GetObjectInfo(31)).IsNil()
}

func TestOpenHeapWithoutAllocationIsFatal(t *testing.T) {
	ctx, r := recordingContext()
	f := newFixture(ctx, Options{})

	fatals := 0
	f.consumer.SetFatalErrorHandler(func(string) { fatals++ })

	result := f.consumer.OverrideOpenExistingHeapFromAddress(ctx, f.device, dx.OK, 8, format.HandleID(31))

	assert.For(t, "result").That(result).Equals(dx.Fail)
	assert.For(t, "fatal handler").That(fatals).Equals(1)
	assert.For(t, "fatal logged").That(r.count(log.Fatal)).Equals(1)
}
