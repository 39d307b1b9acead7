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

package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/rurra-amd/gfxreconstruct/core/assert"
	"github.com/rurra-amd/gfxreconstruct/core/event/task"
	"github.com/rurra-amd/gfxreconstruct/core/log"
)

const expectNonBlocking = 250 * time.Millisecond

func TestEventSetReleasesWaiter(t *testing.T) {
	ctx := log.Testing(t)
	event := task.NewEvent()

	assert.For(ctx, "before set").That(event.Signaled()).IsFalse()
	event.Set()
	assert.For(ctx, "after set").That(event.Signaled()).IsTrue()
	assert.For(ctx, "wait").ThatError(event.Wait(ctx, expectNonBlocking)).Succeeded()
}

func TestEventSetIsIdempotent(t *testing.T) {
	ctx := log.Testing(t)
	event := task.NewEvent()

	event.Set()
	event.Set()
	assert.For(ctx, "still signaled").That(event.Signaled()).IsTrue()
}

func TestEventReset(t *testing.T) {
	ctx := log.Testing(t)
	event := task.NewEvent()

	event.Set()
	event.Reset()
	assert.For(ctx, "unsignaled").That(event.Signaled()).IsFalse()
	assert.For(ctx, "wait times out").ThatError(event.Wait(ctx, time.Millisecond)).Equals(task.ErrTimeout)

	// The event is reusable after a reset.
	event.Set()
	assert.For(ctx, "wait after re-set").ThatError(event.Wait(ctx, expectNonBlocking)).Succeeded()
}

func TestEventWaitTimeout(t *testing.T) {
	ctx := log.Testing(t)
	event := task.NewEvent()

	before := time.Now()
	err := event.Wait(ctx, time.Millisecond)
	assert.For(ctx, "timeout").ThatError(err).Equals(task.ErrTimeout)
	assert.For(ctx, "bounded").That(time.Since(before) < expectNonBlocking).IsTrue()
}

func TestEventWaitCancelled(t *testing.T) {
	ctx := log.Testing(t)
	cancellable, cancel := context.WithCancel(ctx)
	cancel()

	event := task.NewEvent()
	assert.For(ctx, "cancelled").ThatError(event.Wait(cancellable, task.NoTimeout)).Equals(task.ErrCancelled)
}

func TestEventCrossGoroutine(t *testing.T) {
	ctx := log.Testing(t)
	event := task.NewEvent()

	go event.Set()
	assert.For(ctx, "released").ThatError(event.Wait(ctx, 5*time.Second)).Succeeded()
}
