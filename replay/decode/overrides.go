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
	"github.com/rurra-amd/gfxreconstruct/core/log"
	"github.com/rurra-amd/gfxreconstruct/replay/dx"
	"github.com/rurra-amd/gfxreconstruct/replay/format"
)

// OverrideAddRef replays IUnknown::AddRef on a tracked object.
func (c *Consumer) OverrideAddRef(ctx context.Context, info *ObjectInfo, captured uint32) uint32 {
	info.refCount++
	return info.Object.AddRef()
}

// OverrideRelease replays IUnknown::Release on a tracked object. When the
// replay-owned count reaches zero and no keep-alive references remain, the
// record is destroyed.
func (c *Consumer) OverrideRelease(ctx context.Context, info *ObjectInfo, captured uint32) uint32 {
	object := info.Object
	info.refCount--
	if info.refCount == 0 && info.extraRef == 0 {
		c.RemoveObject(ctx, info)
	}
	return object.Release()
}

// OverrideCreateFactory replays the factory creation entry point, adding the
// debug flag when the validation layer option is active.
func (c *Consumer) OverrideCreateFactory(ctx context.Context, captured dx.Result, flags dx.FactoryFlags, factoryID format.HandleID) dx.Result {
	if c.options.EnableValidationLayer {
		flags |= dx.FactoryFlagDebug
	}
	factory, result := c.api.CreateFactory(flags)
	if result.Succeeded() {
		c.AddObject(factoryID, factory)
	}
	return result
}

// OverrideCreateDevice replays the device creation entry point.
func (c *Consumer) OverrideCreateDevice(ctx context.Context, captured dx.Result, adapter *ObjectInfo, minimumFeatureLevel dx.FeatureLevel, deviceID format.HandleID) dx.Result {
	var adapterObject dx.Object
	if adapter != nil {
		adapterObject = adapter.Object
	}

	device, result := c.api.CreateDevice(adapterObject, minimumFeatureLevel)
	if result.Succeeded() {
		c.addObjectWithInfo(deviceID, device, newDeviceInfo())
	}
	return result
}

// OverrideCreateCommandQueue replays ID3D12Device::CreateCommandQueue.
// With the sync-queue-submissions option the queue also gets an internal
// fence and event for lockstep waits.
func (c *Consumer) OverrideCreateCommandQueue(ctx context.Context, device *ObjectInfo, captured dx.Result, desc *dx.CommandQueueDesc, queueID format.HandleID) dx.Result {
	deviceObject := device.Object.(dx.Device)
	queue, result := deviceObject.CreateCommandQueue(desc)
	if result.Failed() {
		return result
	}

	queueExtra := &commandQueueInfo{}
	if c.options.SyncQueueSubmissions {
		if fence, fenceResult := deviceObject.CreateFence(0, dx.FenceFlagNone); fenceResult.Succeeded() {
			queueExtra.syncFence = fence
			queueExtra.syncEvent = task.NewEvent()
			// The fence info record is queued on pendingEvents whenever the
			// queue has outstanding wait operations.
			queueExtra.syncFenceInfo = &ObjectInfo{Object: fence, extra: &fenceInfo{}}
		} else {
			log.E(ctx, "Failed to create fence object for the sync-queue-submissions option")
		}
	}

	c.addObjectWithInfo(queueID, queue, queueExtra)
	return result
}

// OverrideCreateDescriptorHeap replays ID3D12Device::CreateDescriptorHeap,
// linking the heap to the device's replay-time increment sizes.
func (c *Consumer) OverrideCreateDescriptorHeap(ctx context.Context, device *ObjectInfo, captured dx.Result, desc *dx.DescriptorHeapDesc, heapID format.HandleID) dx.Result {
	deviceObject := device.Object.(dx.Device)
	heap, result := deviceObject.CreateDescriptorHeap(desc)
	if result.Failed() {
		return result
	}

	heapExtra := &descriptorHeapInfo{descriptorType: desc.Type}
	if deviceExtra, ok := device.extra.(*deviceInfo); ok {
		heapExtra.replayIncrements = deviceExtra.replayIncrements
	} else {
		c.raiseFatalf(ctx, "Device object %d does not have an associated info structure", device.CaptureID)
	}

	c.addObjectWithInfo(heapID, heap, heapExtra)
	return result
}

// OverrideCreateFence replays ID3D12Device::CreateFence.
func (c *Consumer) OverrideCreateFence(ctx context.Context, device *ObjectInfo, captured dx.Result, initialValue uint64, flags dx.FenceFlags, fenceID format.HandleID) dx.Result {
	deviceObject := device.Object.(dx.Device)
	fence, result := deviceObject.CreateFence(initialValue, flags)
	if result.Succeeded() {
		c.addObjectWithInfo(fenceID, fence, &fenceInfo{lastSignaledValue: initialValue})
	}
	return result
}

// OverrideGetDescriptorHandleIncrementSize replays the increment query and
// records the replay-time value for descriptor handle translation.
func (c *Consumer) OverrideGetDescriptorHandleIncrementSize(ctx context.Context, device *ObjectInfo, captured uint32, ty dx.DescriptorHeapType) uint32 {
	deviceObject := device.Object.(dx.Device)
	replayed := deviceObject.GetDescriptorHandleIncrementSize(ty)

	if deviceExtra, ok := device.extra.(*deviceInfo); ok {
		deviceExtra.replayIncrements[ty] = replayed
	} else {
		c.raiseFatalf(ctx, "Device object %d does not have an associated info structure", device.CaptureID)
	}
	return replayed
}

// OverrideGetCPUDescriptorHandleForHeapStart snapshots the replay-time CPU
// base handle on the first call per heap.
func (c *Consumer) OverrideGetCPUDescriptorHandleForHeapStart(ctx context.Context, heap *ObjectInfo, captured dx.CPUDescriptorHandle) dx.CPUDescriptorHandle {
	heapObject := heap.Object.(dx.DescriptorHeap)
	replayed := heapObject.GetCPUDescriptorHandleForHeapStart()

	if heapExtra, ok := heap.extra.(*descriptorHeapInfo); ok {
		// Only initialize on the first call.
		if heapExtra.replayCPUStart == 0 {
			heapExtra.replayCPUStart = replayed.Ptr
		}
	} else {
		c.raiseFatalf(ctx, "DescriptorHeap object %d does not have an associated info structure", heap.CaptureID)
	}
	return replayed
}

// OverrideGetGPUDescriptorHandleForHeapStart snapshots the replay-time GPU
// base handle on the first call per heap.
func (c *Consumer) OverrideGetGPUDescriptorHandleForHeapStart(ctx context.Context, heap *ObjectInfo, captured dx.GPUDescriptorHandle) dx.GPUDescriptorHandle {
	heapObject := heap.Object.(dx.DescriptorHeap)
	replayed := heapObject.GetGPUDescriptorHandleForHeapStart()

	if heapExtra, ok := heap.extra.(*descriptorHeapInfo); ok {
		// Only initialize on the first call.
		if heapExtra.replayGPUStart == 0 {
			heapExtra.replayGPUStart = replayed.Ptr
		}
	} else {
		c.raiseFatalf(ctx, "DescriptorHeap object %d does not have an associated info structure", heap.CaptureID)
	}
	return replayed
}

// OverrideGetGpuVirtualAddress replays ID3D12Resource::GetGPUVirtualAddress,
// recording the capture/replay address pair on first observation.
func (c *Consumer) OverrideGetGpuVirtualAddress(ctx context.Context, resource *ObjectInfo, captured uint64) uint64 {
	resourceObject := resource.Object.(dx.Resource)
	replayed := resourceObject.GetGPUVirtualAddress()

	if captured != 0 && replayed != 0 {
		resourceExtra, ok := resource.extra.(*resourceInfo)
		if !ok {
			// Create the resource info record on first use.
			resourceExtra = newResourceInfo()
			resource.extra = resourceExtra
		}
		// Only initialize on the first call.
		if resourceExtra.captureAddress == 0 {
			resourceExtra.captureAddress = captured
			resourceExtra.replayAddress = replayed

			desc := resourceObject.GetDesc()
			c.gpuVaMap.Add(resourceObject, captured, replayed, desc.Width)
		}
	}
	return replayed
}

// MapGpuVirtualAddress rewrites a capture-time GPU virtual address to its
// replay-time equivalent.
func (c *Consumer) MapGpuVirtualAddress(address uint64) uint64 {
	return c.gpuVaMap.Translate(address)
}

// MapGpuVirtualAddresses rewrites capture-time GPU virtual addresses in
// place.
func (c *Consumer) MapGpuVirtualAddresses(addresses []uint64) {
	c.gpuVaMap.TranslateSlice(addresses)
}

// OverrideResourceMap replays ID3D12Resource::Map, indexing the mapped bytes
// under the recorded memory ID so later fill commands land in them.
func (c *Consumer) OverrideResourceMap(ctx context.Context, resource *ObjectInfo, captured dx.Result, subresource uint32, readRange *dx.Range, memoryID uint64) dx.Result {
	resourceObject := resource.Object.(dx.Resource)
	data, result := resourceObject.Map(subresource, readRange)
	if result.Failed() || memoryID == 0 || data == nil {
		return result
	}

	resourceExtra, ok := resource.extra.(*resourceInfo)
	if !ok {
		// Create the resource info record on first use.
		resourceExtra = newResourceInfo()
		resource.extra = resourceExtra
	}

	mapped, ok := resourceExtra.mapped[subresource]
	if !ok {
		mapped = &mappedMemoryInfo{}
		resourceExtra.mapped[subresource] = mapped
	}
	mapped.memoryID = memoryID
	mapped.count++

	c.mappedMemory[memoryID] = data
	return result
}

// OverrideResourceUnmap replays ID3D12Resource::Unmap, dropping the memory
// index entry when the last nested map is released.
func (c *Consumer) OverrideResourceUnmap(ctx context.Context, resource *ObjectInfo, subresource uint32, writtenRange *dx.Range) {
	resourceObject := resource.Object.(dx.Resource)

	if resourceExtra, ok := resource.extra.(*resourceInfo); ok {
		if mapped, ok := resourceExtra.mapped[subresource]; ok {
			mapped.count--
			if mapped.count == 0 {
				delete(c.mappedMemory, mapped.memoryID)
				delete(resourceExtra.mapped, subresource)
			}
		}
	}

	resourceObject.Unmap(subresource, writtenRange)
}

// OverrideWriteToSubresource is not implemented; a correct replay requires
// staging-buffer plumbing.
func (c *Consumer) OverrideWriteToSubresource(ctx context.Context, resource *ObjectInfo, captured dx.Result, dstSubresource uint32, dstBox *dx.Box, srcData uint64, srcRowPitch, srcDepthPitch uint32) dx.Result {
	// TODO(GH-71): Implement function
	return dx.Fail
}

// OverrideReadFromSubresource is not implemented; a correct replay requires
// staging-buffer plumbing.
func (c *Consumer) OverrideReadFromSubresource(ctx context.Context, resource *ObjectInfo, captured dx.Result, dstData uint64, dstRowPitch, dstDepthPitch uint32, srcSubresource uint32, srcBox *dx.Box) dx.Result {
	// TODO(GH-71): Implement function
	return dx.Fail
}

// OverrideOpenExistingHeapFromAddress replays
// ID3D12Device3::OpenExistingHeapFromAddress, transferring ownership of the
// pre-committed allocation into the new heap's record.
func (c *Consumer) OverrideOpenExistingHeapFromAddress(ctx context.Context, device *ObjectInfo, captured dx.Result, allocationID uint64, heapID format.HandleID) dx.Result {
	deviceObject := device.Object.(dx.Device)

	allocation, ok := c.consumeHeapAllocation(allocationID)
	if !ok {
		c.raiseFatalf(ctx, "No heap allocation has been created for OpenExistingHeapFromAddress allocation ID = %d", allocationID)
		return dx.Fail
	}

	heap, result := deviceObject.OpenExistingHeapFromAddress(allocation)
	if result.Failed() {
		// The allocation won't be used.
		c.releaseAllocation(ctx, allocation)
		return result
	}

	c.addObjectWithInfo(heapID, heap, &heapInfo{externalAllocation: allocation})
	return result
}

// OverrideEnqueueMakeResident replays ID3D12Device3::EnqueueMakeResident;
// the residency fence participates in queue/fence synchronization.
func (c *Consumer) OverrideEnqueueMakeResident(ctx context.Context, device *ObjectInfo, captured dx.Result, flags dx.ResidencyFlags, objects []*ObjectInfo, fence *ObjectInfo, fenceValue uint64) dx.Result {
	deviceObject := device.Object.(dx.Device)

	pageables := make([]dx.Object, 0, len(objects))
	for _, info := range objects {
		if info != nil {
			pageables = append(pageables, info.Object)
		}
	}

	var fenceObject dx.Fence
	if fence != nil {
		fenceObject = fence.Object.(dx.Fence)
	}

	result := deviceObject.EnqueueMakeResident(flags, pageables, fenceObject, fenceValue)
	if result.Succeeded() {
		c.ProcessFenceSignal(ctx, fence, fenceValue)
	}
	return result
}

// OverrideCreatePipelineLibrary replays ID3D12Device1::CreatePipelineLibrary.
// The capture layer can fail this call intentionally to make the application
// recreate the library; replay skips the call and returns the same code.
func (c *Consumer) OverrideCreatePipelineLibrary(ctx context.Context, device *ObjectInfo, captured dx.Result, blob []byte, libraryID format.HandleID) dx.Result {
	if captured == dx.ErrDriverVersionMismatch {
		return captured
	}

	deviceObject := device.Object.(dx.Device)
	library, result := deviceObject.CreatePipelineLibrary(blob)
	if result.Succeeded() {
		c.AddObject(libraryID, library)
	}
	return result
}

// OverrideLoadGraphicsPipeline replays
// ID3D12PipelineLibrary::LoadGraphicsPipeline, skipping loads the capture
// layer failed intentionally.
func (c *Consumer) OverrideLoadGraphicsPipeline(ctx context.Context, library *ObjectInfo, captured dx.Result, name string, desc *dx.GraphicsPipelineStateDesc, stateID format.HandleID) dx.Result {
	if captured == dx.InvalidArg {
		return captured
	}

	libraryObject := library.Object.(dx.PipelineLibrary)
	state, result := libraryObject.LoadGraphicsPipeline(name, desc)
	if result.Succeeded() {
		c.AddObject(stateID, state)
	}
	return result
}

// OverrideLoadComputePipeline replays
// ID3D12PipelineLibrary::LoadComputePipeline, skipping loads the capture
// layer failed intentionally.
func (c *Consumer) OverrideLoadComputePipeline(ctx context.Context, library *ObjectInfo, captured dx.Result, name string, desc *dx.ComputePipelineStateDesc, stateID format.HandleID) dx.Result {
	if captured == dx.InvalidArg {
		return captured
	}

	libraryObject := library.Object.(dx.PipelineLibrary)
	state, result := libraryObject.LoadComputePipeline(name, desc)
	if result.Succeeded() {
		c.AddObject(stateID, state)
	}
	return result
}

// OverrideLoadPipeline replays ID3D12PipelineLibrary1::LoadPipeline, skipping
// loads the capture layer failed intentionally.
func (c *Consumer) OverrideLoadPipeline(ctx context.Context, library *ObjectInfo, captured dx.Result, name string, desc *dx.PipelineStateStreamDesc, stateID format.HandleID) dx.Result {
	if captured == dx.InvalidArg {
		return captured
	}

	libraryObject := library.Object.(dx.PipelineLibrary)
	state, result := libraryObject.LoadPipeline(name, desc)
	if result.Succeeded() {
		c.AddObject(stateID, state)
	}
	return result
}

// ProcessCheckFeatureSupport replays ID3D12Device::CheckFeatureSupport and
// verifies the result against capture.
func (c *Consumer) ProcessCheckFeatureSupport(ctx context.Context, deviceID format.HandleID, captured dx.Result, feature dx.Feature, data []byte) {
	device := c.GetObjectInfo(deviceID)
	if device == nil || data == nil {
		return
	}
	replayed := device.Object.(dx.Device).CheckFeatureSupport(feature, data)
	c.CheckReplayResult(ctx, "Device::CheckFeatureSupport", captured, replayed)
}
