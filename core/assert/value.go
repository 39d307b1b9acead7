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

package assert

import "reflect"

// OnValue is the result of calling That on an Assertion.
// It provides the generic assertion tests.
type OnValue struct {
	assertion Assertion
	value     interface{}
}

// That returns an OnValue for the assertions to be applied to.
func (a Assertion) That(value interface{}) OnValue {
	return OnValue{assertion: a, value: value}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// IsNil asserts that the value is a nil.
func (o OnValue) IsNil() bool {
	if !isNil(o.value) {
		return o.assertion.fail("got %v, expect nil", o.value)
	}
	return true
}

// IsNotNil asserts that the value is not a nil.
func (o OnValue) IsNotNil() bool {
	if isNil(o.value) {
		return o.assertion.fail("got nil")
	}
	return true
}

// IsTrue asserts that the value is true.
func (o OnValue) IsTrue() bool { return o.Equals(true) }

// IsFalse asserts that the value is false.
func (o OnValue) IsFalse() bool { return o.Equals(false) }

// Equals asserts that the value matches the expected value.
func (o OnValue) Equals(expect interface{}) bool {
	if o.value != expect {
		return o.assertion.fail("got %v, expect %v", o.value, expect)
	}
	return true
}

// NotEquals asserts that the value does not match the test value.
func (o OnValue) NotEquals(test interface{}) bool {
	if o.value == test {
		return o.assertion.fail("got %v, expect a different value", o.value)
	}
	return true
}

// DeepEquals asserts that the value matches the expected value using
// reflect.DeepEqual.
func (o OnValue) DeepEquals(expect interface{}) bool {
	if !reflect.DeepEqual(o.value, expect) {
		return o.assertion.fail("got %+v, expect %+v", o.value, expect)
	}
	return true
}

// ThatError returns an OnError over the error for the assertions to be
// applied to.
func (a Assertion) ThatError(err error) OnError {
	return OnError{assertion: a, err: err}
}

// OnError is the result of calling ThatError on an Assertion.
type OnError struct {
	assertion Assertion
	err       error
}

// Succeeded asserts that the error is nil.
func (o OnError) Succeeded() bool {
	if o.err != nil {
		return o.assertion.fail("got error %v, expect success", o.err)
	}
	return true
}

// Failed asserts that the error is not nil.
func (o OnError) Failed() bool {
	if o.err == nil {
		return o.assertion.fail("got success, expect an error")
	}
	return true
}

// Equals asserts that the error matches the expected error.
func (o OnError) Equals(expect error) bool {
	if o.err != expect {
		return o.assertion.fail("got %v, expect %v", o.err, expect)
	}
	return true
}

// ThatSlice returns an OnSlice over the slice for the assertions to be
// applied to.
func (a Assertion) ThatSlice(slice interface{}) OnSlice {
	return OnSlice{assertion: a, slice: slice}
}

// OnSlice is the result of calling ThatSlice on an Assertion.
type OnSlice struct {
	assertion Assertion
	slice     interface{}
}

// IsEmpty asserts that the slice has no elements.
func (o OnSlice) IsEmpty() bool { return o.IsLength(0) }

// IsNotEmpty asserts that the slice has at least one element.
func (o OnSlice) IsNotEmpty() bool {
	if reflect.ValueOf(o.slice).Len() == 0 {
		return o.assertion.fail("got an empty slice")
	}
	return true
}

// IsLength asserts that the slice has exactly the specified number of
// elements.
func (o OnSlice) IsLength(length int) bool {
	if got := reflect.ValueOf(o.slice).Len(); got != length {
		return o.assertion.fail("got length %v, expect %v", got, length)
	}
	return true
}

// DeepEquals asserts that the slice matches the expected slice using
// reflect.DeepEqual.
func (o OnSlice) DeepEquals(expect interface{}) bool {
	if !reflect.DeepEqual(o.slice, expect) {
		return o.assertion.fail("got %+v, expect %+v", o.slice, expect)
	}
	return true
}
