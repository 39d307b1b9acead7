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

// Package dx abstracts the live graphics driver surface used by replay.
//
// The interfaces mirror the recorded D3D12/DXGI object model closely enough
// that the consumer can reissue recorded calls one-for-one, while leaving the
// binding to a real driver (or a test fake) to the implementer.
package dx

import (
	"github.com/rurra-amd/gfxreconstruct/core/event/task"
)

// Object is the surface common to every driver object.
// AddRef and Release return the post-operation reference count.
type Object interface {
	AddRef() uint32
	Release() uint32
}

// API is the set of global driver entry points used by replay.
type API interface {
	CreateFactory(flags FactoryFlags) (Factory, Result)
	CreateDevice(adapter Object, minimumFeatureLevel FeatureLevel) (Device, Result)
	GetDebugInterface() (Debug, Result)
}

// Debug is the driver-side validation controller.
type Debug interface {
	Object
	EnableDebugLayer()
}

// Factory creates swap chains and owns window association state.
type Factory interface {
	Object
	CreateSwapChain(device Object, desc *SwapChainDesc) (SwapChain, Result)
	CreateSwapChainForHwnd(device Object, hwnd uintptr, desc *SwapChainDesc, fullscreen *SwapChainFullscreenDesc, restrictToOutput Object) (SwapChain, Result)
	MakeWindowAssociation(hwnd uintptr, flags uint32) Result
}

// Device is the driver device, including the extended entry points replay
// uses from the versioned device interfaces.
type Device interface {
	Object
	CreateCommandQueue(desc *CommandQueueDesc) (CommandQueue, Result)
	CreateDescriptorHeap(desc *DescriptorHeapDesc) (DescriptorHeap, Result)
	CreateFence(initialValue uint64, flags FenceFlags) (Fence, Result)
	CreatePipelineLibrary(blob []byte) (PipelineLibrary, Result)
	GetDescriptorHandleIncrementSize(ty DescriptorHeapType) uint32
	OpenExistingHeapFromAddress(address []byte) (Heap, Result)
	EnqueueMakeResident(flags ResidencyFlags, objects []Object, fence Fence, value uint64) Result
	CheckFeatureSupport(feature Feature, data []byte) Result
}

// CommandQueue is a driver submission queue.
type CommandQueue interface {
	Object
	ExecuteCommandLists(lists []CommandList)
	Signal(fence Fence, value uint64) Result
	Wait(fence Fence, value uint64) Result
	GetDevice() (Device, Result)
}

// CommandList is a recorded command buffer handle.
type CommandList interface {
	Object
}

// Fence is a monotonic 64-bit synchronization counter.
type Fence interface {
	Object
	GetCompletedValue() uint64
	SetEventOnCompletion(value uint64, event *task.Event) Result
	Signal(value uint64) Result
}

// DescriptorHeap is a driver-managed descriptor array.
type DescriptorHeap interface {
	Object
	GetCPUDescriptorHandleForHeapStart() CPUDescriptorHandle
	GetGPUDescriptorHandleForHeapStart() GPUDescriptorHandle
}

// Resource is a driver memory resource.
// Map returns the mapped bytes for a subresource; the slice stays valid until
// the matching Unmap.
type Resource interface {
	Object
	Map(subresource uint32, readRange *Range) ([]byte, Result)
	Unmap(subresource uint32, writtenRange *Range)
	GetGPUVirtualAddress() uint64
	GetDesc() ResourceDesc
}

// Heap is a driver memory heap.
type Heap interface {
	Object
}

// SwapChain is the presentable back-buffer queue bound to a window.
type SwapChain interface {
	Object
	GetBuffer(buffer uint32) (Resource, Result)
	ResizeBuffers(bufferCount, width, height uint32, format Format, flags uint32) Result
	ResizeBuffers1(bufferCount, width, height uint32, format Format, flags uint32, nodeMasks []uint32, presentQueues []Object) Result
	Present(syncInterval, flags uint32) Result
}

// PipelineLibrary is a cache of serialized pipeline state objects.
type PipelineLibrary interface {
	Object
	LoadGraphicsPipeline(name string, desc *GraphicsPipelineStateDesc) (PipelineState, Result)
	LoadComputePipeline(name string, desc *ComputePipelineStateDesc) (PipelineState, Result)
	LoadPipeline(name string, desc *PipelineStateStreamDesc) (PipelineState, Result)
}

// PipelineState is a compiled pipeline state object.
type PipelineState interface {
	Object
}
