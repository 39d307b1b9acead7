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
	"github.com/rurra-amd/gfxreconstruct/core/event/task"
	"github.com/rurra-amd/gfxreconstruct/replay/dx"
	"github.com/rurra-amd/gfxreconstruct/replay/window"
)

// fakeObject implements the reference counting surface shared by all fakes.
type fakeObject struct {
	refs int
}

func (o *fakeObject) AddRef() uint32 {
	o.refs++
	return uint32(o.refs)
}

func (o *fakeObject) Release() uint32 {
	o.refs--
	return uint32(o.refs)
}

type fakeAPI struct {
	fakeObject
	device       *fakeDevice
	factory      *fakeFactory
	debug        *fakeDebug
	debugResult  dx.Result
	debugQueried bool
}

func newFakeAPI() *fakeAPI {
	device := &fakeDevice{increments: map[dx.DescriptorHeapType]uint32{}}
	return &fakeAPI{
		device:      device,
		factory:     &fakeFactory{},
		debug:       &fakeDebug{},
		debugResult: dx.OK,
	}
}

func (a *fakeAPI) CreateFactory(flags dx.FactoryFlags) (dx.Factory, dx.Result) {
	a.factory.flags = flags
	return a.factory, dx.OK
}

func (a *fakeAPI) CreateDevice(adapter dx.Object, minimumFeatureLevel dx.FeatureLevel) (dx.Device, dx.Result) {
	return a.device, dx.OK
}

func (a *fakeAPI) GetDebugInterface() (dx.Debug, dx.Result) {
	a.debugQueried = true
	if a.debugResult.Failed() {
		return nil, a.debugResult
	}
	return a.debug, dx.OK
}

type fakeDebug struct {
	fakeObject
	enabled bool
}

func (d *fakeDebug) EnableDebugLayer() { d.enabled = true }

type fakeDevice struct {
	fakeObject
	increments     map[dx.DescriptorHeapType]uint32
	openHeapResult dx.Result
	openedHeaps    [][]byte
	residentFences []uint64
}

func (d *fakeDevice) CreateCommandQueue(desc *dx.CommandQueueDesc) (dx.CommandQueue, dx.Result) {
	return &fakeQueue{device: d}, dx.OK
}

func (d *fakeDevice) CreateDescriptorHeap(desc *dx.DescriptorHeapDesc) (dx.DescriptorHeap, dx.Result) {
	return &fakeDescriptorHeap{cpuStart: 0x1000, gpuStart: 0x2000}, dx.OK
}

func (d *fakeDevice) CreateFence(initialValue uint64, flags dx.FenceFlags) (dx.Fence, dx.Result) {
	return newFakeFence(initialValue), dx.OK
}

func (d *fakeDevice) CreatePipelineLibrary(blob []byte) (dx.PipelineLibrary, dx.Result) {
	return &fakePipelineLibrary{}, dx.OK
}

func (d *fakeDevice) GetDescriptorHandleIncrementSize(ty dx.DescriptorHeapType) uint32 {
	return d.increments[ty]
}

func (d *fakeDevice) OpenExistingHeapFromAddress(address []byte) (dx.Heap, dx.Result) {
	if d.openHeapResult.Failed() {
		return nil, d.openHeapResult
	}
	d.openedHeaps = append(d.openedHeaps, address)
	return &fakeHeap{}, dx.OK
}

func (d *fakeDevice) EnqueueMakeResident(flags dx.ResidencyFlags, objects []dx.Object, fence dx.Fence, value uint64) dx.Result {
	d.residentFences = append(d.residentFences, value)
	if fence != nil {
		fence.Signal(value)
	}
	return dx.OK
}

func (d *fakeDevice) CheckFeatureSupport(feature dx.Feature, data []byte) dx.Result {
	return dx.OK
}

type fakeHeap struct {
	fakeObject
}

type fakePipelineLibrary struct {
	fakeObject
	loads int
}

func (l *fakePipelineLibrary) LoadGraphicsPipeline(name string, desc *dx.GraphicsPipelineStateDesc) (dx.PipelineState, dx.Result) {
	l.loads++
	return &fakePipelineState{}, dx.OK
}

func (l *fakePipelineLibrary) LoadComputePipeline(name string, desc *dx.ComputePipelineStateDesc) (dx.PipelineState, dx.Result) {
	l.loads++
	return &fakePipelineState{}, dx.OK
}

func (l *fakePipelineLibrary) LoadPipeline(name string, desc *dx.PipelineStateStreamDesc) (dx.PipelineState, dx.Result) {
	l.loads++
	return &fakePipelineState{}, dx.OK
}

type fakePipelineState struct {
	fakeObject
}

// fakeFence completes values immediately when signaled, releasing any
// registered events at or below the completed value.
type fakeFence struct {
	fakeObject
	completed uint64
	pending   map[uint64][]*task.Event
}

func newFakeFence(initial uint64) *fakeFence {
	return &fakeFence{completed: initial, pending: map[uint64][]*task.Event{}}
}

func (f *fakeFence) GetCompletedValue() uint64 { return f.completed }

func (f *fakeFence) SetEventOnCompletion(value uint64, event *task.Event) dx.Result {
	if event == nil {
		return dx.InvalidArg
	}
	if value <= f.completed {
		event.Set()
		return dx.OK
	}
	f.pending[value] = append(f.pending[value], event)
	return dx.OK
}

func (f *fakeFence) Signal(value uint64) dx.Result {
	f.complete(value)
	return dx.OK
}

func (f *fakeFence) complete(value uint64) {
	if value > f.completed {
		f.completed = value
	}
	for v, events := range f.pending {
		if v <= f.completed {
			for _, event := range events {
				event.Set()
			}
			delete(f.pending, v)
		}
	}
}

type queueCall struct {
	wait  bool
	fence dx.Fence
	value uint64
}

type fakeQueue struct {
	fakeObject
	device   *fakeDevice
	executed int
	calls    []queueCall
}

func (q *fakeQueue) ExecuteCommandLists(lists []dx.CommandList) { q.executed++ }

func (q *fakeQueue) Signal(fence dx.Fence, value uint64) dx.Result {
	q.calls = append(q.calls, queueCall{fence: fence, value: value})
	if f, ok := fence.(*fakeFence); ok {
		f.complete(value)
	}
	return dx.OK
}

func (q *fakeQueue) Wait(fence dx.Fence, value uint64) dx.Result {
	q.calls = append(q.calls, queueCall{wait: true, fence: fence, value: value})
	return dx.OK
}

func (q *fakeQueue) GetDevice() (dx.Device, dx.Result) {
	q.device.AddRef()
	return q.device, dx.OK
}

type fakeDescriptorHeap struct {
	fakeObject
	cpuStart uint64
	gpuStart uint64
}

func (h *fakeDescriptorHeap) GetCPUDescriptorHandleForHeapStart() dx.CPUDescriptorHandle {
	return dx.CPUDescriptorHandle{Ptr: h.cpuStart}
}

func (h *fakeDescriptorHeap) GetGPUDescriptorHandleForHeapStart() dx.GPUDescriptorHandle {
	return dx.GPUDescriptorHandle{Ptr: h.gpuStart}
}

// fakeResource maps every subresource to its own backing store.
type fakeResource struct {
	fakeObject
	desc    dx.ResourceDesc
	address uint64
	backing map[uint32][]byte
	mapped  map[uint32]int
}

func newFakeResource(address, width uint64) *fakeResource {
	return &fakeResource{
		desc:    dx.ResourceDesc{Width: width},
		address: address,
		backing: map[uint32][]byte{},
		mapped:  map[uint32]int{},
	}
}

func (r *fakeResource) Map(subresource uint32, readRange *dx.Range) ([]byte, dx.Result) {
	if _, ok := r.backing[subresource]; !ok {
		r.backing[subresource] = make([]byte, r.desc.Width)
	}
	r.mapped[subresource]++
	return r.backing[subresource], dx.OK
}

func (r *fakeResource) Unmap(subresource uint32, writtenRange *dx.Range) {
	r.mapped[subresource]--
}

func (r *fakeResource) GetGPUVirtualAddress() uint64 { return r.address }

func (r *fakeResource) GetDesc() dx.ResourceDesc { return r.desc }

type fakeSwapChain struct {
	fakeObject
	buffers []*fakeResource
	resizes int
}

func newFakeSwapChain(bufferCount int) *fakeSwapChain {
	s := &fakeSwapChain{}
	s.reset(bufferCount)
	return s
}

func (s *fakeSwapChain) reset(bufferCount int) {
	s.buffers = make([]*fakeResource, bufferCount)
	for i := range s.buffers {
		s.buffers[i] = newFakeResource(0, 4)
	}
}

func (s *fakeSwapChain) GetBuffer(buffer uint32) (dx.Resource, dx.Result) {
	if buffer >= uint32(len(s.buffers)) {
		return nil, dx.InvalidArg
	}
	return s.buffers[buffer], dx.OK
}

func (s *fakeSwapChain) ResizeBuffers(bufferCount, width, height uint32, format dx.Format, flags uint32) dx.Result {
	s.resizes++
	s.reset(int(bufferCount))
	return dx.OK
}

func (s *fakeSwapChain) ResizeBuffers1(bufferCount, width, height uint32, format dx.Format, flags uint32, nodeMasks []uint32, presentQueues []dx.Object) dx.Result {
	return s.ResizeBuffers(bufferCount, width, height, format, flags)
}

func (s *fakeSwapChain) Present(syncInterval, flags uint32) dx.Result { return dx.OK }

type fakeFactory struct {
	fakeObject
	flags        dx.FactoryFlags
	lastHwnd     uintptr
	createResult dx.Result
	swapchains   []*fakeSwapChain
}

func (f *fakeFactory) newSwapChain(desc *dx.SwapChainDesc) (dx.SwapChain, dx.Result) {
	if f.createResult.Failed() {
		return nil, f.createResult
	}
	s := newFakeSwapChain(int(desc.BufferCount))
	f.swapchains = append(f.swapchains, s)
	return s, dx.OK
}

func (f *fakeFactory) CreateSwapChain(device dx.Object, desc *dx.SwapChainDesc) (dx.SwapChain, dx.Result) {
	f.lastHwnd = desc.OutputWindow
	return f.newSwapChain(desc)
}

func (f *fakeFactory) CreateSwapChainForHwnd(device dx.Object, hwnd uintptr, desc *dx.SwapChainDesc, fullscreen *dx.SwapChainFullscreenDesc, restrictToOutput dx.Object) (dx.SwapChain, dx.Result) {
	f.lastHwnd = hwnd
	return f.newSwapChain(desc)
}

func (f *fakeFactory) MakeWindowAssociation(hwnd uintptr, flags uint32) dx.Result { return dx.OK }

type fakeWindow struct {
	hwnd   uintptr
	width  uint32
	height uint32
}

func (w *fakeWindow) GetNativeHandle(kind window.HandleKind) (uintptr, bool) {
	if kind != window.KindWin32HWnd {
		return 0, false
	}
	return w.hwnd, true
}

func (w *fakeWindow) SetSize(width, height uint32) {
	w.width, w.height = width, height
}

type fakeWindowFactory struct {
	nextHwnd  uintptr
	created   []*fakeWindow
	destroyed []window.Window
}

func newFakeWindowFactory() *fakeWindowFactory {
	return &fakeWindowFactory{nextHwnd: 0x100}
}

func (f *fakeWindowFactory) Create(x, y int32, width, height uint32) window.Window {
	w := &fakeWindow{hwnd: f.nextHwnd, width: width, height: height}
	f.nextHwnd++
	f.created = append(f.created, w)
	return w
}

func (f *fakeWindowFactory) Destroy(w window.Window) {
	f.destroyed = append(f.destroyed, w)
}
