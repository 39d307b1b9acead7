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

// Package hostmem commits and releases writable host memory blocks that can
// outlive the Go allocator's view of them, such as allocations adopted by a
// driver heap.
package hostmem

// Commit reserves and commits size bytes of zeroed, writable host memory.
func Commit(size int) ([]byte, error) {
	return commit(size)
}

// Release returns memory obtained from Commit to the OS.
// The block must be the exact slice returned by Commit.
func Release(block []byte) error {
	return release(block)
}
