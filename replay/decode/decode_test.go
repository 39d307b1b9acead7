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

const (
	testDeviceID  = format.HandleID(1)
	testQueueID   = format.HandleID(2)
	testQueue2ID  = format.HandleID(3)
	testFenceID   = format.HandleID(4)
	testFence2ID  = format.HandleID(5)
	testFactoryID = format.HandleID(6)
	testSwapID    = format.HandleID(7)
)

// replayFixture assembles a consumer with a device, two queues and two
// fences replayed through the standard overrides.
type replayFixture struct {
	consumer *Consumer
	api      *fakeAPI
	windows  *fakeWindowFactory

	device *ObjectInfo
	queue  *ObjectInfo
	queue2 *ObjectInfo
	fence  *ObjectInfo
	fence2 *ObjectInfo
}

func newFixture(ctx context.Context, options Options) *replayFixture {
	f := &replayFixture{
		api:     newFakeAPI(),
		windows: newFakeWindowFactory(),
	}
	f.consumer = NewConsumer(ctx, f.api, f.windows, options)
	f.consumer.OverrideCreateDevice(ctx, dx.OK, nil, dx.FeatureLevel12_0, testDeviceID)
	f.device = f.consumer.GetObjectInfo(testDeviceID)
	f.consumer.OverrideCreateCommandQueue(ctx, f.device, dx.OK, &dx.CommandQueueDesc{}, testQueueID)
	f.queue = f.consumer.GetObjectInfo(testQueueID)
	f.consumer.OverrideCreateCommandQueue(ctx, f.device, dx.OK, &dx.CommandQueueDesc{}, testQueue2ID)
	f.queue2 = f.consumer.GetObjectInfo(testQueue2ID)
	f.consumer.OverrideCreateFence(ctx, f.device, dx.OK, 0, dx.FenceFlagNone, testFenceID)
	f.fence = f.consumer.GetObjectInfo(testFenceID)
	f.consumer.OverrideCreateFence(ctx, f.device, dx.OK, 0, dx.FenceFlagNone, testFence2ID)
	f.fence2 = f.consumer.GetObjectInfo(testFence2ID)
	return f
}

func (f *replayFixture) fenceExtra(info *ObjectInfo) *fenceInfo {
	return info.extra.(*fenceInfo)
}

func (f *replayFixture) queueExtra(info *ObjectInfo) *commandQueueInfo {
	return info.extra.(*commandQueueInfo)
}

// recording collects handled log messages so tests can assert on warnings
// and fatals without failing the test through the testing handler.
type recording struct {
	messages []*log.Message
}

func (r *recording) count(s log.Severity) int {
	n := 0
	for _, m := range r.messages {
		if m.Severity == s {
			n++
		}
	}
	return n
}

func recordingContext() (context.Context, *recording) {
	r := &recording{}
	ctx := log.PutHandler(context.Background(), log.NewHandler(func(m *log.Message) {
		r.messages = append(r.messages, m)
	}, nil))
	return ctx, r
}
