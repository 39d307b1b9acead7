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

// Package format declares the capture-file identifier types shared between
// the trace decoder and the replay consumer.
package format

// HandleID is the opaque identifier assigned by the capture tool to every
// driver object, event, memory region, heap allocation and window handle.
// Globally unique within a trace.
type HandleID uint64

// NullHandleID is the HandleID for a null capture-time handle.
const NullHandleID HandleID = 0

// APICallID identifies a recorded API call site.
// Only the calls that carry external object handles are listed; the decoder
// forwards these so the consumer can substitute replay-time handles.
type APICallID uint32

const (
	// APICallUnknown is an unrecognized call site.
	APICallUnknown APICallID = iota
	// APICallRegisterVideoMemoryBudgetChangeNotificationEvent carries an
	// event handle.
	APICallRegisterVideoMemoryBudgetChangeNotificationEvent
	// APICallMakeWindowAssociation carries a window handle.
	APICallMakeWindowAssociation
	// APICallGetWindowAssociation returns a window handle.
	APICallGetWindowAssociation
	// APICallGetDC returns a device context handle.
	APICallGetDC
	// APICallGetHwnd returns a window handle.
	APICallGetHwnd
)
