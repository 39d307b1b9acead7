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

package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Handler is the interface to an object that receives log messages.
type Handler interface {
	Handle(*Message)
	Close()
}

// Filter is the interface to a log message filter.
type Filter interface {
	// ShowSeverity returns true if messages at severity s should be handled.
	ShowSeverity(s Severity) bool
}

// SeverityFilter is a Filter that shows messages at or above a threshold
// severity.
type SeverityFilter Severity

// ShowSeverity returns true if s is at or above the filter's threshold.
func (f SeverityFilter) ShowSeverity(s Severity) bool { return s >= Severity(f) }

type handler struct {
	handle func(*Message)
	close  func()
}

func (h handler) Handle(m *Message) { h.handle(m) }
func (h handler) Close()            { h.close() }

// NewHandler returns a Handler that calls handle for each message, and close
// when the handler is closed. close may be nil.
func NewHandler(handle func(*Message), close func()) Handler {
	if close == nil {
		close = func() {}
	}
	return handler{handle, close}
}

// Writer returns a Handler that writes each formatted message as a line to w.
func Writer(w io.Writer) Handler {
	mu := &sync.Mutex{}
	return NewHandler(func(m *Message) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, m)
	}, nil)
}

// Stdout returns a Handler that writes to os.Stdout.
func Stdout() Handler { return Writer(os.Stdout) }

// Stderr returns a Handler that writes to os.Stderr.
func Stderr() Handler { return Writer(os.Stderr) }

// Fork returns a Handler that forwards each message to all of handlers.
func Fork(handlers ...Handler) Handler {
	return NewHandler(func(m *Message) {
		for _, h := range handlers {
			h.Handle(m)
		}
	}, func() {
		for _, h := range handlers {
			h.Close()
		}
	})
}
