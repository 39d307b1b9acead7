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

import "fmt"

// Result is an HRESULT value returned by a driver call.
// Replay compares the capture-time and replay-time values rather than
// converting them to Go errors; a failed HRESULT is data, not an error.
type Result uint32

const (
	// OK is S_OK.
	OK Result = 0x00000000
	// False is S_FALSE.
	False Result = 0x00000001
	// Fail is E_FAIL.
	Fail Result = 0x80004005
	// OutOfMemory is E_OUTOFMEMORY.
	OutOfMemory Result = 0x8007000E
	// InvalidArg is E_INVALIDARG.
	InvalidArg Result = 0x80070057
	// ErrDeviceRemoved is DXGI_ERROR_DEVICE_REMOVED.
	ErrDeviceRemoved Result = 0x887A0005
	// ErrDeviceReset is DXGI_ERROR_DEVICE_RESET.
	ErrDeviceReset Result = 0x887A0007
	// ErrWaitTimeout is DXGI_ERROR_WAIT_TIMEOUT.
	ErrWaitTimeout Result = 0x887A0027
	// ErrDriverVersionMismatch is D3D12_ERROR_DRIVER_VERSION_MISMATCH, the
	// code the capture layer substitutes to force pipeline library recreation.
	ErrDriverVersionMismatch Result = 0x887E0003
)

// Succeeded returns true if the result is a success code.
func (r Result) Succeeded() bool { return r&0x80000000 == 0 }

// Failed returns true if the result is a failure code.
func (r Result) Failed() bool { return !r.Succeeded() }

func (r Result) String() string {
	switch r {
	case OK:
		return "S_OK"
	case False:
		return "S_FALSE"
	case Fail:
		return "E_FAIL"
	case OutOfMemory:
		return "E_OUTOFMEMORY"
	case InvalidArg:
		return "E_INVALIDARG"
	case ErrDeviceRemoved:
		return "DXGI_ERROR_DEVICE_REMOVED"
	case ErrDeviceReset:
		return "DXGI_ERROR_DEVICE_RESET"
	case ErrWaitTimeout:
		return "DXGI_ERROR_WAIT_TIMEOUT"
	case ErrDriverVersionMismatch:
		return "D3D12_ERROR_DRIVER_VERSION_MISMATCH"
	default:
		return fmt.Sprintf("HRESULT<0x%08X>", uint32(r))
	}
}
