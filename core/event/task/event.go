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

// Package task provides host synchronization primitives for replay.
package task

import (
	"context"
	"sync"
	"time"

	"github.com/rurra-amd/gfxreconstruct/core/fault"
)

const (
	// ErrTimeout is returned by Event.Wait when the timeout elapses before the
	// event is set.
	ErrTimeout = fault.Const("Wait operation timed out")
	// ErrCancelled is returned by Event.Wait when the context is cancelled
	// before the event is set.
	ErrCancelled = fault.Const("Wait operation cancelled")
)

// NoTimeout waits indefinitely when passed to Event.Wait.
const NoTimeout = time.Duration(0)

// Event is a manual-reset synchronization event.
// Once set it stays signaled, releasing every waiter, until Reset is called.
type Event struct {
	mu  sync.Mutex
	ch  chan struct{}
	set bool
}

// NewEvent returns a new Event in the unsignaled state.
func NewEvent() *Event {
	return &Event{ch: make(chan struct{})}
}

// Set transitions the event to the signaled state, releasing all current and
// future waiters.
func (e *Event) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.set {
		e.set = true
		close(e.ch)
	}
}

// Reset returns the event to the unsignaled state.
func (e *Event) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set {
		e.set = false
		e.ch = make(chan struct{})
	}
}

// Signaled returns true if the event is currently in the signaled state.
func (e *Event) Signaled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set
}

func (e *Event) wait() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ch
}

// Wait blocks until the event is set, the context is cancelled, or the
// timeout elapses. A timeout of NoTimeout waits indefinitely.
func (e *Event) Wait(ctx context.Context, timeout time.Duration) error {
	ch := e.wait()
	if timeout == NoTimeout {
		select {
		case <-ch:
			return nil
		case <-ctx.Done():
			return ErrCancelled
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ErrCancelled
	case <-t.C:
		return ErrTimeout
	}
}
