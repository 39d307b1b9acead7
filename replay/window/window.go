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

// Package window declares the windowing capability the replay consumer
// presents swap chains through. The host application supplies the Factory.
package window

// HandleKind selects which native handle GetNativeHandle returns.
type HandleKind int

const (
	// KindWin32HWnd is a Win32 HWND.
	KindWin32HWnd HandleKind = iota
	// KindWin32HInstance is a Win32 HINSTANCE.
	KindWin32HInstance
	// KindXcbWindow is an XCB window id.
	KindXcbWindow
	// KindWaylandSurface is a Wayland surface pointer.
	KindWaylandSurface
)

// Window is a single presentable surface.
type Window interface {
	// GetNativeHandle returns the native handle of the requested kind, or
	// false if the window cannot provide one.
	GetNativeHandle(kind HandleKind) (uintptr, bool)
	// SetSize resizes the window's client area.
	SetSize(width, height uint32)
}

// Factory creates and destroys windows for replayed swap chains.
type Factory interface {
	// Create returns a new window at the given position and size, or nil on
	// failure.
	Create(x, y int32, width, height uint32) Window
	// Destroy releases a window created by this factory.
	Destroy(Window)
}
