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

package dx

// FactoryFlags are the flags passed to API.CreateFactory.
type FactoryFlags uint32

// FactoryFlagDebug requests a factory with debug instrumentation,
// DXGI_CREATE_FACTORY_DEBUG.
const FactoryFlagDebug FactoryFlags = 0x1

// FeatureLevel is a minimum hardware feature level, D3D_FEATURE_LEVEL.
type FeatureLevel uint32

const (
	FeatureLevel11_0 FeatureLevel = 0xb000
	FeatureLevel11_1 FeatureLevel = 0xb100
	FeatureLevel12_0 FeatureLevel = 0xc000
	FeatureLevel12_1 FeatureLevel = 0xc100
)

// Feature identifies a D3D12_FEATURE query.
type Feature uint32

// FenceFlags are the flags passed to Device.CreateFence.
type FenceFlags uint32

// FenceFlagNone requests a default fence.
const FenceFlagNone FenceFlags = 0

// ResidencyFlags are the flags passed to Device.EnqueueMakeResident.
type ResidencyFlags uint32

// Format is a DXGI_FORMAT value.
type Format uint32

// FormatB8G8R8A8Unorm is DXGI_FORMAT_B8G8R8A8_UNORM.
const FormatB8G8R8A8Unorm Format = 87

// DescriptorHeapType is a D3D12_DESCRIPTOR_HEAP_TYPE value.
type DescriptorHeapType uint32

const (
	DescriptorHeapCbvSrvUav DescriptorHeapType = iota
	DescriptorHeapSampler
	DescriptorHeapRtv
	DescriptorHeapDsv
	// NumDescriptorHeapTypes is the number of descriptor heap types.
	NumDescriptorHeapTypes
)

// CommandListType is a D3D12_COMMAND_LIST_TYPE value.
type CommandListType uint32

const (
	CommandListDirect  CommandListType = 0
	CommandListCompute CommandListType = 2
	CommandListCopy    CommandListType = 3
)

// CommandQueueDesc matches D3D12_COMMAND_QUEUE_DESC.
type CommandQueueDesc struct {
	Type     CommandListType
	Priority int32
	Flags    uint32
	NodeMask uint32
}

// DescriptorHeapDesc matches D3D12_DESCRIPTOR_HEAP_DESC.
type DescriptorHeapDesc struct {
	Type           DescriptorHeapType
	NumDescriptors uint32
	Flags          uint32
	NodeMask       uint32
}

// CPUDescriptorHandle matches D3D12_CPU_DESCRIPTOR_HANDLE.
type CPUDescriptorHandle struct {
	Ptr uint64
}

// GPUDescriptorHandle matches D3D12_GPU_DESCRIPTOR_HANDLE.
type GPUDescriptorHandle struct {
	Ptr uint64
}

// Range matches D3D12_RANGE, a half open byte range.
type Range struct {
	Begin uint64
	End   uint64
}

// Box matches D3D12_BOX.
type Box struct {
	Left, Top, Front    uint32
	Right, Bottom, Back uint32
}

// ResourceDesc carries the subset of D3D12_RESOURCE_DESC replay consumes.
// Width is the resource extent used to size GPU virtual address ranges.
type ResourceDesc struct {
	Width  uint64
	Height uint32
	Format Format
}

// SwapChainDesc carries the subset of DXGI_SWAP_CHAIN_DESC1 replay consumes.
// OutputWindow is the replay-time native window handle substituted by the
// consumer before the driver call.
type SwapChainDesc struct {
	Width        uint32
	Height       uint32
	Format       Format
	BufferCount  uint32
	OutputWindow uintptr
}

// SwapChainFullscreenDesc matches DXGI_SWAP_CHAIN_FULLSCREEN_DESC.
type SwapChainFullscreenDesc struct {
	Windowed bool
}

// GraphicsPipelineStateDesc is an opaque graphics pipeline description.
type GraphicsPipelineStateDesc struct {
	Blob []byte
}

// ComputePipelineStateDesc is an opaque compute pipeline description.
type ComputePipelineStateDesc struct {
	Blob []byte
}

// PipelineStateStreamDesc is an opaque pipeline state stream description.
type PipelineStateStreamDesc struct {
	Blob []byte
}
