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
	"time"
)

// Severity defines the severity of a logging message.
// The levels match the order of severity values used by the capture format.
type Severity int

const (
	// Debug is the lowest severity, used for verbose diagnostics.
	Debug Severity = iota
	// Info is the severity for general progress messages.
	Info
	// Warning is the severity for recoverable issues.
	Warning
	// Error is the severity for failures that do not stop replay.
	Error
	// Fatal is the severity for failures that terminate replay.
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal"
	default:
		return fmt.Sprintf("Severity<%d>", int(s))
	}
}

// Short returns the single character representation of the severity.
func (s Severity) Short() string {
	switch s {
	case Debug:
		return "D"
	case Info:
		return "I"
	case Warning:
		return "W"
	case Error:
		return "E"
	case Fatal:
		return "F"
	default:
		return "?"
	}
}

// Message is a single log entry.
type Message struct {
	// Text is the message text.
	Text string
	// Time is the time the message was logged.
	Time time.Time
	// Severity is the severity of the message.
	Severity Severity
	// StopProcess indicates the process should stop after handling the
	// message.
	StopProcess bool
	// Tag is the optional tag bound to the logging context.
	Tag string
}

func (m *Message) String() string {
	if m.Tag != "" {
		return fmt.Sprintf("%s: [%s] %s", m.Severity.Short(), m.Tag, m.Text)
	}
	return fmt.Sprintf("%s: %s", m.Severity.Short(), m.Text)
}
