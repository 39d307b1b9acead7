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

	"github.com/rurra-amd/gfxreconstruct/replay/dx"
	"github.com/rurra-amd/gfxreconstruct/replay/format"
	"github.com/rurra-amd/gfxreconstruct/replay/window"
)

// OverrideCreateSwapChain replays IDXGIFactory::CreateSwapChain, creating a
// replay window and substituting its native handle into the description.
func (c *Consumer) OverrideCreateSwapChain(ctx context.Context, factory *ObjectInfo, captured dx.Result, device *ObjectInfo, hwndID format.HandleID, desc *dx.SwapChainDesc, swapchainID format.HandleID) dx.Result {
	if desc == nil {
		return dx.Fail
	}

	win := c.windowFactory.Create(defaultWindowPositionX, defaultWindowPositionY, desc.Width, desc.Height)
	if win == nil {
		c.raiseFatalf(ctx, "Failed to create a window. Replay cannot continue.")
		return dx.Fail
	}
	hwnd, ok := win.GetNativeHandle(window.KindWin32HWnd)
	if !ok {
		c.raiseFatalf(ctx, "Failed to retrieve handle from window")
		c.windowFactory.Destroy(win)
		return dx.Fail
	}

	factoryObject := factory.Object.(dx.Factory)
	var deviceObject dx.Object
	if device != nil {
		deviceObject = device.Object
	}

	desc.OutputWindow = hwnd

	swapchain, result := factoryObject.CreateSwapChain(deviceObject, desc)
	if result.Failed() {
		c.windowFactory.Destroy(win)
		return result
	}

	info := c.AddObject(swapchainID, swapchain)
	c.setSwapchainInfo(info, win, hwndID, hwnd, desc.BufferCount)
	return result
}

// OverrideCreateSwapChainForHwnd replays IDXGIFactory2::CreateSwapChainForHwnd.
func (c *Consumer) OverrideCreateSwapChainForHwnd(ctx context.Context, factory *ObjectInfo, captured dx.Result, device *ObjectInfo, hwndID format.HandleID, desc *dx.SwapChainDesc, fullscreen *dx.SwapChainFullscreenDesc, restrictToOutput *ObjectInfo, swapchainID format.HandleID) dx.Result {
	return c.createSwapChainForHwnd(ctx, factory, device, hwndID, desc, fullscreen, restrictToOutput, swapchainID)
}

// OverrideCreateSwapChainForCoreWindow replays
// IDXGIFactory2::CreateSwapChainForCoreWindow through the hwnd path; core
// windows have no recorded HWND id.
func (c *Consumer) OverrideCreateSwapChainForCoreWindow(ctx context.Context, factory *ObjectInfo, captured dx.Result, device *ObjectInfo, coreWindow *ObjectInfo, desc *dx.SwapChainDesc, restrictToOutput *ObjectInfo, swapchainID format.HandleID) dx.Result {
	return c.createSwapChainForHwnd(ctx, factory, device, 0, desc, nil, restrictToOutput, swapchainID)
}

// OverrideCreateSwapChainForComposition replays
// IDXGIFactory2::CreateSwapChainForComposition through the hwnd path.
func (c *Consumer) OverrideCreateSwapChainForComposition(ctx context.Context, factory *ObjectInfo, captured dx.Result, device *ObjectInfo, desc *dx.SwapChainDesc, restrictToOutput *ObjectInfo, swapchainID format.HandleID) dx.Result {
	return c.createSwapChainForHwnd(ctx, factory, device, 0, desc, nil, restrictToOutput, swapchainID)
}

func (c *Consumer) createSwapChainForHwnd(ctx context.Context, factory *ObjectInfo, device *ObjectInfo, hwndID format.HandleID, desc *dx.SwapChainDesc, fullscreen *dx.SwapChainFullscreenDesc, restrictToOutput *ObjectInfo, swapchainID format.HandleID) dx.Result {
	if desc == nil {
		return dx.Fail
	}

	win := c.windowFactory.Create(defaultWindowPositionX, defaultWindowPositionY, desc.Width, desc.Height)
	if win == nil {
		c.raiseFatalf(ctx, "Failed to create a window. Replay cannot continue.")
		return dx.Fail
	}
	hwnd, ok := win.GetNativeHandle(window.KindWin32HWnd)
	if !ok {
		c.raiseFatalf(ctx, "Failed to retrieve handle from window")
		c.windowFactory.Destroy(win)
		return dx.Fail
	}

	factoryObject := factory.Object.(dx.Factory)
	var deviceObject, restrictObject dx.Object
	if device != nil {
		deviceObject = device.Object
	}
	if restrictToOutput != nil {
		restrictObject = restrictToOutput.Object
	}

	swapchain, result := factoryObject.CreateSwapChainForHwnd(deviceObject, hwnd, desc, fullscreen, restrictObject)
	if result.Failed() {
		c.windowFactory.Destroy(win)
		return result
	}

	info := c.AddObject(swapchainID, swapchain)
	c.setSwapchainInfo(info, win, hwndID, hwnd, desc.BufferCount)
	return result
}

// setSwapchainInfo attaches the swapchain's auxiliary record and registers
// the window. Swap chains created without HWND handles have no recorded
// window handle id.
func (c *Consumer) setSwapchainInfo(info *ObjectInfo, win window.Window, hwndID format.HandleID, hwnd uintptr, imageCount uint32) {
	if win == nil {
		return
	}
	if info != nil {
		info.extra = &swapchainInfo{
			window:     win,
			hwndID:     hwndID,
			imageCount: imageCount,
			images:     make([]*ObjectInfo, imageCount),
		}
		if hwndID != 0 {
			c.windowHandles[hwndID] = hwnd
		}
	}
	c.activeWindows[win] = struct{}{}
}

// OverrideGetBuffer replays IDXGISwapChain::GetBuffer. The first query of a
// slot takes a keep-alive reference on the buffer's record so the entry
// survives application releases while the swapchain owns it.
func (c *Consumer) OverrideGetBuffer(ctx context.Context, swapchain *ObjectInfo, captured dx.Result, buffer uint32, surfaceID format.HandleID) dx.Result {
	swapchainObject := swapchain.Object.(dx.SwapChain)
	surface, result := swapchainObject.GetBuffer(buffer)
	if result.Failed() || surface == nil {
		return result
	}

	swapchainExtra, ok := swapchain.extra.(*swapchainInfo)
	if !ok {
		c.raiseFatalf(ctx, "SwapChain object %d does not have an associated info structure", swapchain.CaptureID)
		return result
	}

	if buffer < uint32(len(swapchainExtra.images)) && swapchainExtra.images[buffer] == nil {
		info := c.GetObjectInfo(surfaceID)
		if info == nil {
			info = c.AddObject(surfaceID, surface)
		}
		// Keep the image's record in the object info table while the
		// swapchain is active.
		info.extraRef++
		swapchainExtra.images[buffer] = info
	}
	return result
}

// OverrideResizeBuffers replays IDXGISwapChain::ResizeBuffers, dropping the
// per-slot buffer references and resizing the replay window.
func (c *Consumer) OverrideResizeBuffers(ctx context.Context, swapchain *ObjectInfo, captured dx.Result, bufferCount, width, height uint32, newFormat dx.Format, flags uint32) dx.Result {
	swapchainObject := swapchain.Object.(dx.SwapChain)
	result := swapchainObject.ResizeBuffers(bufferCount, width, height, newFormat, flags)
	if result.Succeeded() {
		c.resetSwapchainImages(ctx, swapchain, bufferCount, width, height)
	}
	return result
}

// OverrideResizeBuffers1 replays IDXGISwapChain3::ResizeBuffers1.
func (c *Consumer) OverrideResizeBuffers1(ctx context.Context, swapchain *ObjectInfo, captured dx.Result, bufferCount, width, height uint32, newFormat dx.Format, flags uint32, nodeMasks []uint32, presentQueues []*ObjectInfo) dx.Result {
	swapchainObject := swapchain.Object.(dx.SwapChain)

	queues := make([]dx.Object, 0, len(presentQueues))
	for _, info := range presentQueues {
		if info != nil {
			queues = append(queues, info.Object)
		}
	}

	result := swapchainObject.ResizeBuffers1(bufferCount, width, height, newFormat, flags, nodeMasks, queues)
	if result.Succeeded() {
		c.resetSwapchainImages(ctx, swapchain, bufferCount, width, height)
	}
	return result
}

// resetSwapchainImages clears the old image records, resets the slot array to
// the new buffer count, and resizes the swapchain's window.
func (c *Consumer) resetSwapchainImages(ctx context.Context, swapchain *ObjectInfo, bufferCount, width, height uint32) {
	swapchainExtra, ok := swapchain.extra.(*swapchainInfo)
	if !ok {
		c.raiseFatalf(ctx, "SwapChain object %d does not have an associated info structure", swapchain.CaptureID)
		return
	}

	c.releaseSwapchainImages(ctx, swapchainExtra)

	swapchainExtra.imageCount = bufferCount
	swapchainExtra.images = make([]*ObjectInfo, bufferCount)
	swapchainExtra.window.SetSize(width, height)
}

// releaseSwapchainImages drops the keep-alive reference on every buffered
// image record, destroying records with no remaining references.
func (c *Consumer) releaseSwapchainImages(ctx context.Context, info *swapchainInfo) {
	for _, image := range info.images {
		if image != nil && image.extraRef > 0 {
			image.extraRef--
			if image.refCount == 0 && image.extraRef == 0 {
				c.RemoveObject(ctx, image)
			}
		}
	}
	info.images = nil
}
