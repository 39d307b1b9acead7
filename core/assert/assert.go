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

// Package assert provides a fluent assertion interface for tests.
//
//	assert.For(ctx, "title").That(got).Equals(want)
package assert

import (
	"context"
	"fmt"

	"github.com/rurra-amd/gfxreconstruct/core/log"
)

// Output matches the logging methods of the test host types.
type Output interface {
	Fatal(...interface{})
	Error(...interface{})
	Log(...interface{})
}

// Manager wraps an assertion output target in something that can construct
// assertion objects. The output object is normally a testing.T.
type Manager struct {
	out Output
}

type ctxOutput struct{ ctx context.Context }

func (o ctxOutput) Fatal(args ...interface{}) { log.F(o.ctx, true, "%v", fmt.Sprint(args...)) }
func (o ctxOutput) Error(args ...interface{}) { log.E(o.ctx, "%v", fmt.Sprint(args...)) }
func (o ctxOutput) Log(args ...interface{})   { log.I(o.ctx, "%v", fmt.Sprint(args...)) }

// To creates an assertion manager using the target t for logging.
// t can be a context.Context or an Output.
func To(t interface{}) Manager {
	switch t := t.(type) {
	case context.Context:
		return Manager{ctxOutput{t}}
	case Output:
		return Manager{t}
	default:
		panic(fmt.Errorf("unsupported assertion target type %T", t))
	}
}

// For is shorthand for assert.To(t).For(msg, args...).
func For(t interface{}, msg string, args ...interface{}) Assertion {
	return To(t).For(msg, args...)
}

// For starts a new assertion with the supplied title.
func (m Manager) For(msg string, args ...interface{}) Assertion {
	return Assertion{to: m.out, title: fmt.Sprintf(msg, args...)}
}

// Assertion is the start of an assertion line.
type Assertion struct {
	to    Output
	title string
}

func (a Assertion) fail(format string, args ...interface{}) bool {
	a.to.Error(a.title + ": " + fmt.Sprintf(format, args...))
	return false
}
