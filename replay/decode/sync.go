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

	"golang.org/x/exp/slices"

	"github.com/rurra-amd/gfxreconstruct/core/event/task"
	"github.com/rurra-amd/gfxreconstruct/core/log"
	"github.com/rurra-amd/gfxreconstruct/replay/dx"
	"github.com/rurra-amd/gfxreconstruct/replay/format"
)

// waitingEntry collects the host events and queues waiting for one fence
// value.
type waitingEntry struct {
	value  uint64
	events []*task.Event
	queues []*ObjectInfo
}

// waitingObjects is an ordered collection of waitingEntry, ascending by
// value, so that fence signals can notify waiters in value order.
type waitingObjects struct {
	entries []waitingEntry
}

func (w *waitingObjects) search(value uint64) (int, bool) {
	return slices.BinarySearchFunc(w.entries, value, func(e waitingEntry, v uint64) int {
		switch {
		case e.value < v:
			return -1
		case e.value > v:
			return 1
		default:
			return 0
		}
	})
}

// at returns the entry for value, inserting one if absent.
func (w *waitingObjects) at(value uint64) *waitingEntry {
	i, found := w.search(value)
	if !found {
		w.entries = slices.Insert(w.entries, i, waitingEntry{value: value})
	}
	return &w.entries[i]
}

// take removes and returns the entries with values in (lo, hi].
func (w *waitingObjects) take(lo, hi uint64) []waitingEntry {
	begin, _ := w.search(lo + 1)
	end, found := w.search(hi)
	if found {
		end++
	}
	if begin >= end {
		return nil
	}
	taken := make([]waitingEntry, end-begin)
	copy(taken, w.entries[begin:end])
	w.entries = slices.Delete(w.entries, begin, end)
	return taken
}

// ProcessQueueSignal handles a successful queue-side fence signal.
// With no pending waits the signal takes effect immediately; otherwise it is
// queued behind them.
func (c *Consumer) ProcessQueueSignal(ctx context.Context, queue, fence *ObjectInfo, value uint64) {
	if queue == nil || fence == nil {
		return
	}
	queueExtra, ok := queue.extra.(*commandQueueInfo)
	if !ok {
		c.raiseFatalf(ctx, "CommandQueue object %d does not have an associated info structure", queue.CaptureID)
		return
	}
	if len(queueExtra.pendingEvents) == 0 {
		c.ProcessFenceSignal(ctx, fence, value)
		return
	}
	queueExtra.pendingEvents = append(queueExtra.pendingEvents, queueSyncEvent{
		isWait: false,
		fence:  fence,
		value:  value,
	})
}

// ProcessQueueWait handles a successful queue-side fence wait.
// A wait on a value at or below the fence's last signaled value is already
// satisfied; otherwise the wait is queued and the queue registers with the
// fence for notification.
func (c *Consumer) ProcessQueueWait(ctx context.Context, queue, fence *ObjectInfo, value uint64) {
	if queue == nil || fence == nil {
		return
	}
	fenceExtra, ok := fence.extra.(*fenceInfo)
	if !ok {
		c.raiseFatalf(ctx, "Fence object %d does not have an associated info structure", fence.CaptureID)
		return
	}
	if value <= fenceExtra.lastSignaledValue {
		return
	}
	queueExtra, ok := queue.extra.(*commandQueueInfo)
	if !ok {
		c.raiseFatalf(ctx, "CommandQueue object %d does not have an associated info structure", queue.CaptureID)
		return
	}
	// Signal operations added to the queue after this entry will not be
	// processed until the wait resolves.
	queueExtra.pendingEvents = append(queueExtra.pendingEvents, queueSyncEvent{
		isWait: true,
		fence:  fence,
		value:  value,
	})
	entry := fenceExtra.waitingObjects.at(value)
	entry.queues = append(entry.queues, queue)
}

// ProcessFenceSignal advances a fence to value, notifying every waiter whose
// threshold is at or below it, in ascending value order.
func (c *Consumer) ProcessFenceSignal(ctx context.Context, fence *ObjectInfo, value uint64) {
	if fence == nil {
		return
	}
	fenceExtra, ok := fence.extra.(*fenceInfo)
	if !ok {
		c.raiseFatalf(ctx, "Fence object %d does not have an associated info structure", fence.CaptureID)
		return
	}
	for _, entry := range fenceExtra.waitingObjects.take(fenceExtra.lastSignaledValue, value) {
		// Recorded events the application registered itself must fire in
		// capture order before subsequent work proceeds.
		for _, event := range entry.events {
			c.waitForEvent(ctx, event, fence.CaptureID)
		}
		for _, queue := range entry.queues {
			c.SignalWaitingQueue(ctx, queue, fence, entry.value)
		}
	}
	if value > fenceExtra.lastSignaledValue {
		fenceExtra.lastSignaledValue = value
	}
}

// SignalWaitingQueue marks the queue's pending waits on (fence, value) as
// signaled, then drains the head of the queue: satisfied waits pop, and
// deferred signals pop and recursively advance their own fences. Processing
// stops at the first unsatisfied wait.
func (c *Consumer) SignalWaitingQueue(ctx context.Context, queue *ObjectInfo, fence *ObjectInfo, value uint64) {
	if queue == nil || fence == nil {
		return
	}
	queueExtra, ok := queue.extra.(*commandQueueInfo)
	if !ok {
		return
	}
	if _, ok := fence.extra.(*fenceInfo); !ok {
		return
	}

	pending := queueExtra.pendingEvents
	for i := range pending {
		entry := &pending[i]
		if entry.isWait && entry.fence == fence && entry.value == value {
			entry.isSignaled = true
		}
	}

	for len(queueExtra.pendingEvents) > 0 {
		front := queueExtra.pendingEvents[0]
		if front.isWait && !front.isSignaled {
			break
		}
		queueExtra.pendingEvents = queueExtra.pendingEvents[1:]
		if !front.isWait {
			c.ProcessFenceSignal(ctx, front.fence, front.value)
		}
	}
}

// OverrideCommandQueueSignal replays ID3D12CommandQueue::Signal.
func (c *Consumer) OverrideCommandQueueSignal(ctx context.Context, queue *ObjectInfo, captured dx.Result, fence *ObjectInfo, value uint64) dx.Result {
	if captured.Failed() {
		// Skip fence operations that failed at capture, in case they succeed
		// on replay.
		log.W(ctx, "Ignoring CommandQueue::Signal operation that failed at capture with result %v", captured)
		return captured
	}

	queueObject := queue.Object.(dx.CommandQueue)
	var fenceObject dx.Fence
	if fence != nil {
		fenceObject = fence.Object.(dx.Fence)
	}

	result := queueObject.Signal(fenceObject, value)
	if result.Succeeded() {
		c.ProcessQueueSignal(ctx, queue, fence, value)
	}
	return result
}

// OverrideCommandQueueWait replays ID3D12CommandQueue::Wait.
func (c *Consumer) OverrideCommandQueueWait(ctx context.Context, queue *ObjectInfo, captured dx.Result, fence *ObjectInfo, value uint64) dx.Result {
	if captured.Failed() {
		// Skip fence operations that failed at capture, in case they succeed
		// on replay.
		log.W(ctx, "Ignoring CommandQueue::Wait operation that failed at capture with result %v", captured)
		return captured
	}

	queueObject := queue.Object.(dx.CommandQueue)
	var fenceObject dx.Fence
	if fence != nil {
		fenceObject = fence.Object.(dx.Fence)
	}

	result := queueObject.Wait(fenceObject, value)
	if result.Succeeded() {
		c.ProcessQueueWait(ctx, queue, fence, value)
	}
	return result
}

// OverrideFenceSignal replays ID3D12Fence::Signal, the CPU-side signal.
func (c *Consumer) OverrideFenceSignal(ctx context.Context, fence *ObjectInfo, captured dx.Result, value uint64) dx.Result {
	if captured.Failed() {
		// Skip fence operations that failed at capture, in case they succeed
		// on replay.
		log.W(ctx, "Ignoring Fence::Signal operation that failed at capture with result %v", captured)
		return captured
	}

	result := fence.Object.(dx.Fence).Signal(value)
	if result.Succeeded() {
		c.ProcessFenceSignal(ctx, fence, value)
	}
	return result
}

// OverrideGetCompletedValue replays ID3D12Fence::GetCompletedValue.
// The capture-time value is returned for determinism; if replay has fallen
// behind it, the call first waits for the driver to catch up so no new work
// starts that depends on completions that have not occurred.
func (c *Consumer) OverrideGetCompletedValue(ctx context.Context, fence *ObjectInfo, captured uint64) uint64 {
	fenceObject := fence.Object.(dx.Fence)
	replayed := fenceObject.GetCompletedValue()

	if _, ok := fence.extra.(*fenceInfo); !ok {
		c.raiseFatalf(ctx, "Fence object %d does not have an associated info structure", fence.CaptureID)
		return captured
	}

	if captured > replayed {
		event := c.getEventObject(ctx, internalEventID, true)
		if event != nil {
			fenceObject.SetEventOnCompletion(captured, event)
			c.waitForEvent(ctx, event, fence.CaptureID)
		}
	}

	return captured
}

// OverrideSetEventOnCompletion replays ID3D12Fence::SetEventOnCompletion.
// Values already signaled are waited on synchronously; future values register
// the event with the fence's waiting objects.
func (c *Consumer) OverrideSetEventOnCompletion(ctx context.Context, fence *ObjectInfo, captured dx.Result, value uint64, eventID uint64) dx.Result {
	if captured.Failed() {
		// Skip fence operations that failed at capture, in case they succeed
		// on replay.
		log.W(ctx, "Ignoring Fence::SetEventOnCompletion operation that failed at capture with result %v", captured)
		return captured
	}

	fenceObject := fence.Object.(dx.Fence)
	event := c.getEventObject(ctx, eventID, true)

	result := fenceObject.SetEventOnCompletion(value, event)
	if result.Succeeded() && event != nil {
		fenceExtra, ok := fence.extra.(*fenceInfo)
		if !ok {
			c.raiseFatalf(ctx, "Fence object %d does not have an associated info structure", fence.CaptureID)
			return result
		}
		if value <= fenceExtra.lastSignaledValue {
			// The value has already been signaled, so the wait can be
			// processed immediately.
			c.waitForEvent(ctx, event, fence.CaptureID)
		} else {
			entry := fenceExtra.waitingObjects.at(value)
			entry.events = append(entry.events, event)
		}
	}
	return result
}

// OverrideExecuteCommandLists replays ID3D12CommandQueue::ExecuteCommandLists.
// With the sync-queue-submissions option the submission is fenced and waited
// on, either immediately or queued behind the queue's outstanding waits.
func (c *Consumer) OverrideExecuteCommandLists(ctx context.Context, queue *ObjectInfo, lists []dx.CommandList) {
	queueObject := queue.Object.(dx.CommandQueue)
	queueObject.ExecuteCommandLists(lists)

	if !c.options.SyncQueueSubmissions || len(lists) == 0 {
		return
	}

	queueExtra, ok := queue.extra.(*commandQueueInfo)
	if !ok {
		c.raiseFatalf(ctx, "CommandQueue object %d does not have an associated info structure", queue.CaptureID)
		return
	}
	if queueExtra.syncEvent == nil {
		log.E(ctx, "Failed to create synchronization event object for the sync-queue-submissions option")
		return
	}

	queueExtra.syncValue++
	queueObject.Signal(queueExtra.syncFence, queueExtra.syncValue)

	queueExtra.syncEvent.Reset()
	queueExtra.syncFence.SetEventOnCompletion(queueExtra.syncValue, queueExtra.syncEvent)

	if len(queueExtra.pendingEvents) == 0 {
		// No outstanding waits on the queue, so the event can be waited on
		// immediately. Lockstep waits are unbounded by design.
		queueExtra.syncEvent.Wait(ctx, task.NoTimeout)
		return
	}

	// The sync signal will not be processed until the outstanding waits are
	// signaled, so it is queued behind them.
	fenceExtra := queueExtra.syncFenceInfo.extra.(*fenceInfo)
	entry := fenceExtra.waitingObjects.at(queueExtra.syncValue)
	entry.events = append(entry.events, queueExtra.syncEvent)

	queueExtra.pendingEvents = append(queueExtra.pendingEvents, queueSyncEvent{
		isWait: false,
		fence:  queueExtra.syncFenceInfo,
		value:  queueExtra.syncValue,
	})
}

// WaitIdle blocks until every live command queue has drained its submitted
// work. Called before teardown; the waits are unbounded.
func (c *Consumer) WaitIdle(ctx context.Context) {
	for _, info := range c.objects {
		queueExtra, ok := info.extra.(*commandQueueInfo)
		if !ok {
			continue
		}
		queue := info.Object.(dx.CommandQueue)
		syncEvent := c.getEventObject(ctx, internalEventID, true)
		if syncEvent == nil {
			continue
		}
		if queueExtra.syncFence == nil {
			// Create a temporary fence on the queue's parent device and wait
			// for its signal to come back.
			device, result := queue.GetDevice()
			if result.Failed() {
				continue
			}
			fence, result := device.CreateFence(0, dx.FenceFlagNone)
			if result.Failed() {
				continue
			}
			queue.Signal(fence, 1)
			fence.SetEventOnCompletion(1, syncEvent)
			syncEvent.Wait(ctx, task.NoTimeout)
			fence.Release()
			device.Release()
			continue
		}
		// The sync-queue-submissions option gave the queue its own fence.
		queueExtra.syncValue++
		queue.Signal(queueExtra.syncFence, queueExtra.syncValue)
		queueExtra.syncFence.SetEventOnCompletion(queueExtra.syncValue, syncEvent)
		syncEvent.Wait(ctx, task.NoTimeout)
	}
}

// waitForEvent waits on a host event with the configured timeout. Timeouts
// and wait failures are warnings; neither aborts replay.
func (c *Consumer) waitForEvent(ctx context.Context, event *task.Event, fenceID format.HandleID) {
	switch err := event.Wait(ctx, c.options.waitTimeout()); err {
	case nil:
	case task.ErrTimeout:
		log.W(ctx, "Wait operation timed out for Fence object %v synchronization", fenceID)
	default:
		log.W(ctx, "Wait operation failed with error %v for Fence object %v synchronization", err, fenceID)
	}
}
