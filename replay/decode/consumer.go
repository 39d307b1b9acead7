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

// Package decode implements the replay consumer: the per-call entry points a
// trace decoder drives to reissue a recorded workload against a live driver.
//
// The consumer owns all replay state — the object info table, GPU virtual
// address map, mapped memory index, heap allocation pool, event registry and
// queue/fence synchronization bookkeeping — and is driven on a single thread
// in strict trace order.
package decode

import (
	"context"
	"fmt"

	"github.com/rurra-amd/gfxreconstruct/core/event/task"
	"github.com/rurra-amd/gfxreconstruct/core/log"
	"github.com/rurra-amd/gfxreconstruct/replay/dx"
	"github.com/rurra-amd/gfxreconstruct/replay/format"
	"github.com/rurra-amd/gfxreconstruct/replay/window"
)

const (
	defaultWindowPositionX = int32(0)
	defaultWindowPositionY = int32(0)
)

// internalEventID names the single event the consumer reuses for synthetic
// waits that have no capture-time equivalent.
const internalEventID = ^uint64(0)

// FatalErrorHandler receives a human-readable message when replay cannot
// continue.
type FatalErrorHandler func(message string)

// Consumer replays recorded driver calls. It is not safe for concurrent use;
// the decoder must deliver calls on one thread in trace order.
type Consumer struct {
	api           dx.API
	windowFactory window.Factory
	options       Options
	fatalHandler  FatalErrorHandler

	objects         map[format.HandleID]*ObjectInfo
	gpuVaMap        gpuVaMap
	mappedMemory    map[uint64][]byte
	heapAllocations map[uint64][]byte
	eventObjects    map[uint64]*task.Event
	windowHandles   map[format.HandleID]uintptr
	activeWindows   map[window.Window]struct{}
}

// NewConsumer returns a Consumer that replays through api and presents
// through windowFactory. If the validation layer option is set but the debug
// interface is unavailable, the option is downgraded with a warning.
func NewConsumer(ctx context.Context, api dx.API, windowFactory window.Factory, options Options) *Consumer {
	c := &Consumer{
		api:             api,
		windowFactory:   windowFactory,
		options:         options,
		objects:         map[format.HandleID]*ObjectInfo{},
		mappedMemory:    map[uint64][]byte{},
		heapAllocations: map[uint64][]byte{},
		eventObjects:    map[uint64]*task.Event{},
		windowHandles:   map[format.HandleID]uintptr{},
		activeWindows:   map[window.Window]struct{}{},
	}

	if c.options.EnableValidationLayer {
		if debug, result := api.GetDebugInterface(); result.Succeeded() {
			debug.EnableDebugLayer()
			debug.Release()
		} else {
			log.W(ctx, "Failed to enable debug layer for the validation option.")
			c.options.EnableValidationLayer = false
		}
	}

	return c
}

// SetFatalErrorHandler installs the callback invoked when replay cannot
// continue. If unset, fatal errors are logged but otherwise silent.
func (c *Consumer) SetFatalErrorHandler(handler FatalErrorHandler) {
	c.fatalHandler = handler
}

// Close waits for pending work to complete and then destroys all replay
// state: objects, windows, events and orphan heap allocations.
func (c *Consumer) Close(ctx context.Context) {
	c.WaitIdle(ctx)
	c.destroyActiveObjects(ctx)
	c.destroyActiveWindows()
	c.destroyActiveEvents()
	c.destroyHeapAllocations(ctx)
}

func (c *Consumer) destroyActiveObjects(ctx context.Context) {
	for _, info := range c.objects {
		c.destroyObjectExtraInfo(ctx, info, false)
		// Release all of the replay tool's references to the object.
		for i := uint32(0); i < info.refCount; i++ {
			info.Object.Release()
		}
	}
	c.objects = map[format.HandleID]*ObjectInfo{}
}

func (c *Consumer) destroyActiveWindows() {
	for w := range c.activeWindows {
		c.windowFactory.Destroy(w)
	}
	c.activeWindows = map[window.Window]struct{}{}
	c.windowHandles = map[format.HandleID]uintptr{}
}

func (c *Consumer) destroyActiveEvents() {
	for _, event := range c.eventObjects {
		event.Set()
	}
	c.eventObjects = map[uint64]*task.Event{}
}

func (c *Consumer) destroyHeapAllocations(ctx context.Context) {
	for _, allocation := range c.heapAllocations {
		c.releaseAllocation(ctx, allocation)
	}
	c.heapAllocations = map[uint64][]byte{}
}

// getEventObject returns the cached host event for eventID, resetting it to
// unsignaled iff reset is set. On first use a manual-reset event is allocated
// unsignaled and cached.
func (c *Consumer) getEventObject(ctx context.Context, eventID uint64, reset bool) *task.Event {
	if event, ok := c.eventObjects[eventID]; ok {
		if reset {
			event.Reset()
		}
		return event
	}
	event := task.NewEvent()
	c.eventObjects[eventID] = event
	return event
}

// CheckReplayResult compares a replayed call's result against the captured
// one. A mismatch is a warning, unless replay reports a removed device, which
// is fatal.
func (c *Consumer) CheckReplayResult(ctx context.Context, callName string, captured, replayed dx.Result) {
	if captured == replayed {
		return
	}
	if replayed == dx.ErrDeviceRemoved {
		c.raiseFatalf(ctx, "%s returned %v, which does not match the value returned at capture %v. Replay cannot continue.",
			callName, replayed, captured)
		return
	}
	log.W(ctx, "%s returned %v, which does not match the value returned at capture %v.", callName, replayed, captured)
}

// raiseFatalf logs a fatal message and invokes the fatal error handler.
func (c *Consumer) raiseFatalf(ctx context.Context, f string, args ...interface{}) {
	log.F(ctx, true, f, args...)
	if c.fatalHandler != nil {
		c.fatalHandler(fmt.Sprintf(f, args...))
	}
}
