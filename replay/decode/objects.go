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

	"github.com/rurra-amd/gfxreconstruct/core/event/task"
	"github.com/rurra-amd/gfxreconstruct/replay/dx"
	"github.com/rurra-amd/gfxreconstruct/replay/format"
	"github.com/rurra-amd/gfxreconstruct/replay/window"
)

// ObjectInfo is the replay record for one live driver object.
// The decoder resolves capture IDs to ObjectInfo pointers through the
// consumer and passes them to the Override entry points.
type ObjectInfo struct {
	// CaptureID is the trace-side identifier of the object.
	CaptureID format.HandleID
	// Object is the replay-side driver object.
	Object dx.Object

	// refCount counts the replay tool's own references to the object.
	refCount uint32
	// extraRef counts keep-alive references held by the replay core itself,
	// such as swap-chain back-buffer retention.
	extraRef uint32
	// extra is the optional kind-specific auxiliary record.
	extra extraInfo
}

type extraInfoKind int

const (
	kindDevice extraInfoKind = iota
	kindCommandQueue
	kindDescriptorHeap
	kindFence
	kindResource
	kindHeap
	kindSwapchain
)

func (k extraInfoKind) String() string {
	switch k {
	case kindDevice:
		return "Device"
	case kindCommandQueue:
		return "CommandQueue"
	case kindDescriptorHeap:
		return "DescriptorHeap"
	case kindFence:
		return "Fence"
	case kindResource:
		return "Resource"
	case kindHeap:
		return "Heap"
	case kindSwapchain:
		return "Swapchain"
	default:
		return "Unknown"
	}
}

// extraInfo is the tagged auxiliary record attached to an ObjectInfo.
// kind reports the record's tag; downcasts use Go type assertions.
type extraInfo interface {
	kind() extraInfoKind
}

// deviceInfo records replay-time descriptor increments, shared by reference
// with every descriptor heap created from the device.
type deviceInfo struct {
	replayIncrements map[dx.DescriptorHeapType]uint32
}

func newDeviceInfo() *deviceInfo {
	return &deviceInfo{replayIncrements: map[dx.DescriptorHeapType]uint32{}}
}

func (*deviceInfo) kind() extraInfoKind { return kindDevice }

// queueSyncEvent is one entry in a command queue's pending operation FIFO.
type queueSyncEvent struct {
	isWait     bool
	isSignaled bool
	fence      *ObjectInfo
	value      uint64
}

// commandQueueInfo tracks a queue's outstanding synchronization operations,
// plus the internal fence used by the sync-queue-submissions option.
type commandQueueInfo struct {
	syncFence     dx.Fence
	syncEvent     *task.Event
	syncValue     uint64
	syncFenceInfo *ObjectInfo

	// pendingEvents is processed strictly in FIFO order; a later signal never
	// fires before an earlier wait resolves.
	pendingEvents []queueSyncEvent
}

func (*commandQueueInfo) kind() extraInfoKind { return kindCommandQueue }

// descriptorHeapInfo records the heap type and the first observed replay-time
// base handles, used to translate recorded descriptor handle offsets.
type descriptorHeapInfo struct {
	descriptorType   dx.DescriptorHeapType
	replayIncrements map[dx.DescriptorHeapType]uint32
	replayCPUStart   uint64
	replayGPUStart   uint64
}

func (*descriptorHeapInfo) kind() extraInfoKind { return kindDescriptorHeap }

// fenceInfo tracks a fence's last signaled value and the objects waiting on
// values not yet signaled. Every waitingObjects key is greater than
// lastSignaledValue.
type fenceInfo struct {
	lastSignaledValue uint64
	waitingObjects    waitingObjects
}

func (*fenceInfo) kind() extraInfoKind { return kindFence }

// mappedMemoryInfo tracks one subresource's nested map calls.
type mappedMemoryInfo struct {
	memoryID uint64
	count    int
}

// resourceInfo records a resource's GPU virtual address pair and its mapped
// subresources.
type resourceInfo struct {
	captureAddress uint64
	replayAddress  uint64
	mapped         map[uint32]*mappedMemoryInfo
}

func newResourceInfo() *resourceInfo {
	return &resourceInfo{mapped: map[uint32]*mappedMemoryInfo{}}
}

func (*resourceInfo) kind() extraInfoKind { return kindResource }

// heapInfo records an application-provided allocation adopted by the heap;
// the allocation is released when the heap is destroyed.
type heapInfo struct {
	externalAllocation []byte
}

func (*heapInfo) kind() extraInfoKind { return kindHeap }

// swapchainInfo records the replay window, the recorded window handle id and
// the per-slot back-buffer records, each holding one extraRef.
type swapchainInfo struct {
	window     window.Window
	hwndID     format.HandleID
	imageCount uint32
	images     []*ObjectInfo
}

func (*swapchainInfo) kind() extraInfoKind { return kindSwapchain }

// AddObject inserts a new record for a driver object produced on replay.
// The record starts with a single replay-owned reference.
func (c *Consumer) AddObject(id format.HandleID, object dx.Object) *ObjectInfo {
	return c.addObjectWithInfo(id, object, nil)
}

func (c *Consumer) addObjectWithInfo(id format.HandleID, object dx.Object, extra extraInfo) *ObjectInfo {
	if object == nil {
		return nil
	}
	info := &ObjectInfo{
		CaptureID: id,
		Object:    object,
		refCount:  1,
		extra:     extra,
	}
	c.objects[id] = info
	return info
}

// GetObjectInfo returns the record for a capture ID, or nil if the ID is not
// mapped.
func (c *Consumer) GetObjectInfo(id format.HandleID) *ObjectInfo {
	return c.objects[id]
}

// RemoveObject tears down a record's auxiliary state and unmaps its capture
// ID. Not reentrant.
func (c *Consumer) RemoveObject(ctx context.Context, info *ObjectInfo) {
	if info == nil {
		return
	}
	c.destroyObjectExtraInfo(ctx, info, true)
	delete(c.objects, info.CaptureID)
}

// destroyObjectExtraInfo releases the kind-specific satellite state of a
// record. releaseExtraRefs controls whether swap-chain back-buffer
// references are dropped; the shutdown path skips this because every record
// is torn down regardless.
func (c *Consumer) destroyObjectExtraInfo(ctx context.Context, info *ObjectInfo, releaseExtraRefs bool) {
	switch extra := info.extra.(type) {
	case nil:
	case *resourceInfo:
		if extra.captureAddress != 0 {
			resource := info.Object.(dx.Resource)
			desc := resource.GetDesc()
			c.gpuVaMap.Remove(resource, extra.captureAddress, desc.Width)
		}
		for _, mapped := range extra.mapped {
			delete(c.mappedMemory, mapped.memoryID)
		}
	case *commandQueueInfo:
		if extra.syncEvent != nil {
			extra.syncEvent.Set()
		}
	case *heapInfo:
		if extra.externalAllocation != nil {
			c.releaseAllocation(ctx, extra.externalAllocation)
		}
	case *swapchainInfo:
		if releaseExtraRefs {
			c.releaseSwapchainImages(ctx, extra)
		}
		c.windowFactory.Destroy(extra.window)
		delete(c.activeWindows, extra.window)
		if extra.hwndID != 0 {
			delete(c.windowHandles, extra.hwndID)
		}
	}
	info.extra = nil
}
