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

import "time"

// DefaultWaitTimeout bounds synchronization waits when Options does not
// override it. Shutdown waits and --sync lockstep waits made right after a
// submission are unbounded. A --sync wait queued behind outstanding queue
// waits is made when the queue drains, with this bounded timeout.
const DefaultWaitTimeout = 10 * time.Second

// Options holds the recognized replay options, supplied by the host
// application's settings subsystem.
type Options struct {
	// EnableValidationLayer enables driver-side validation. If the debug
	// interface is unavailable the option is downgraded with a warning.
	EnableValidationLayer bool
	// SyncQueueSubmissions makes every ExecuteCommandLists run in lockstep
	// with the host by signaling and waiting on a per-queue fence.
	SyncQueueSubmissions bool
	// WaitTimeout bounds synchronization waits. Zero selects
	// DefaultWaitTimeout.
	WaitTimeout time.Duration
}

func (o *Options) waitTimeout() time.Duration {
	if o.WaitTimeout == 0 {
		return DefaultWaitTimeout
	}
	return o.WaitTimeout
}
