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

	"github.com/rurra-amd/gfxreconstruct/core/log"
	"github.com/rurra-amd/gfxreconstruct/replay/dx"
	"github.com/rurra-amd/gfxreconstruct/replay/format"
)

// PreProcessExternalObject resolves a recorded external object handle to its
// replay-time equivalent before a call that consumes one. Unsupported call
// sites are skipped with a warning.
func (c *Consumer) PreProcessExternalObject(ctx context.Context, objectID format.HandleID, callID format.APICallID, callName string) interface{} {
	switch callID {
	case format.APICallRegisterVideoMemoryBudgetChangeNotificationEvent:
		return c.getEventObject(ctx, uint64(objectID), false)
	case format.APICallMakeWindowAssociation:
		if hwnd, ok := c.windowHandles[objectID]; ok {
			return hwnd
		}
		return nil
	default:
		log.W(ctx, "Skipping object handle mapping for unsupported external object type processed by %s", callName)
		return nil
	}
}

// PostProcessExternalObject handles an external object handle returned by a
// replayed call. The recognized call sites need no replay-side mapping and
// are accepted without recording anything; anything else is skipped with a
// warning.
func (c *Consumer) PostProcessExternalObject(ctx context.Context, replayed dx.Result, object interface{}, objectID format.HandleID, callID format.APICallID, callName string) {
	switch callID {
	case format.APICallGetDC, format.APICallGetWindowAssociation, format.APICallGetHwnd:
	default:
		log.W(ctx, "Skipping object handle mapping for unsupported external object type processed by %s", callName)
	}
}
