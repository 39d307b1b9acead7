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
	"context"
	"math"

	"github.com/rurra-amd/gfxreconstruct/core/log"
	"github.com/rurra-amd/gfxreconstruct/core/os/hostmem"
)

// ProcessFillMemoryCommand applies a recorded memory-fill event to the mapped
// memory region registered under memoryID. Unknown regions are skipped with a
// warning; they belong to resources the trace unmapped or never mapped.
func (c *Consumer) ProcessFillMemoryCommand(ctx context.Context, memoryID, offset, size uint64, data []byte) {
	mapped, ok := c.mappedMemory[memoryID]
	if !ok {
		log.W(ctx, "Skipping memory fill for unrecognized mapped memory object (ID = %d)", memoryID)
		return
	}
	if !c.checkConversionDataLoss(ctx, "FillMemory", size) {
		return
	}
	copy(mapped[offset:offset+size], data[:size])
}

// ProcessCreateHeapAllocationCommand commits writable host memory for a
// recorded external heap allocation, to be adopted later by
// OpenExistingHeapFromAddress. Allocation failure is fatal.
func (c *Consumer) ProcessCreateHeapAllocationCommand(ctx context.Context, allocationID, allocationSize uint64) {
	if !c.checkConversionDataLoss(ctx, "CreateHeapAllocation", allocationSize) {
		return
	}

	allocation, err := hostmem.Commit(int(allocationSize))
	if err != nil {
		c.raiseFatalf(ctx, "Failed to create external heap allocation (ID = %d) of size %d", allocationID, allocationSize)
		return
	}
	c.heapAllocations[allocationID] = allocation
}

// consumeHeapAllocation removes and returns the allocation registered under
// allocationID; the caller becomes responsible for its release.
func (c *Consumer) consumeHeapAllocation(allocationID uint64) ([]byte, bool) {
	allocation, ok := c.heapAllocations[allocationID]
	if ok {
		delete(c.heapAllocations, allocationID)
	}
	return allocation, ok
}

// releaseAllocation returns a committed allocation to the OS.
func (c *Consumer) releaseAllocation(ctx context.Context, allocation []byte) {
	if err := hostmem.Release(allocation); err != nil {
		log.E(ctx, "Failed to release heap allocation: %v", err)
	}
}

// checkConversionDataLoss verifies that a recorded 64-bit size fits in the
// platform's memory-size type. A size that does not fit is fatal: the trace
// was captured on a platform this host cannot reproduce.
func (c *Consumer) checkConversionDataLoss(ctx context.Context, callName string, size uint64) bool {
	if size > uint64(math.MaxInt) {
		c.raiseFatalf(ctx, "%s size %d exceeds the platform memory size type", callName, size)
		return false
	}
	return true
}
