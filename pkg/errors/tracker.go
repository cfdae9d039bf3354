// xkcdfetch: A streamlined CLI tool for downloading xkcd comics.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package errors

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// TrackedError wraps errors with a category, context data and the call chain
// that produced them.
type TrackedError struct {
	Original    error                  `json:"original_error"`
	RootCause   error                  `json:"root_cause"`
	CallChain   []FunctionCall         `json:"call_chain"`
	Context     map[string]interface{} `json:"context,omitempty"`
	UserMessage string                 `json:"user_message,omitempty"`
	Category    ErrorCategory          `json:"category"`
}

// FunctionCall represents a single function in the call chain
type FunctionCall struct {
	Function  string    `json:"function"`
	ShortName string    `json:"short_name"`
	File      string    `json:"file"`
	Line      int       `json:"line"`
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation,omitempty"`
}

// ErrorCategory helps classify different types of errors
type ErrorCategory string

const (
	CategoryNetwork    ErrorCategory = "network"
	CategoryParser     ErrorCategory = "parsing"
	CategoryValidation ErrorCategory = "validation"
	CategoryTimeout    ErrorCategory = "timeout"
	CategoryRateLimit  ErrorCategory = "rate_limit"
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryDownload   ErrorCategory = "download"
	CategoryUnknown    ErrorCategory = "unknown"
)

func (e *TrackedError) Error() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	if e.Original != nil {
		return e.Original.Error()
	}
	return "unknown error"
}

func (e *TrackedError) Unwrap() error {
	return e.Original
}

// GetFunctionChain returns the function call path as a string
func (e *TrackedError) GetFunctionChain() string {
	if len(e.CallChain) == 0 {
		return ""
	}

	functions := make([]string, len(e.CallChain))
	for i, call := range e.CallChain {
		functions[i] = call.ShortName
	}

	return strings.Join(functions, " → ")
}

// track wraps err, or extends the chain of err when it already is a TrackedError.
func track(err error) *TrackedError {
	if err == nil {
		return nil
	}

	call, ok := callerFrame()

	// A wrapper around a tracked error gets its own entry
	if trackedErr, isTracked := err.(*TrackedError); isTracked {
		if ok {
			trackedErr.CallChain = append(trackedErr.CallChain, call)
		}
		return trackedErr
	}

	te := &TrackedError{
		Original:  err,
		RootCause: findRootCause(err),
		Context:   make(map[string]interface{}),
		Category:  classifyError(err),
	}
	if ok {
		te.CallChain = []FunctionCall{call}
	}
	return te
}

// callerFrame walks up the stack to the first frame outside this package.
func callerFrame() (FunctionCall, bool) {
	for i := 2; i < 12; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if strings.Contains(filepath.ToSlash(file), "pkg/errors/") && !strings.HasSuffix(file, "_test.go") {
			continue
		}

		name := "unknown"
		if fn := runtime.FuncForPC(pc); fn != nil {
			name = fn.Name()
		}
		short := extractShortFunctionName(name)
		return FunctionCall{
			Function:  name,
			ShortName: short,
			File:      filepath.Base(file),
			Line:      line,
			Timestamp: time.Now(),
			Operation: detectOperation(short),
		}, true
	}
	return FunctionCall{}, false
}

func extractShortFunctionName(full string) string {
	if idx := strings.LastIndex(full, "/"); idx >= 0 {
		full = full[idx+1:]
	}
	if idx := strings.Index(full, "."); idx >= 0 {
		full = full[idx+1:]
	}
	return full
}

func detectOperation(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "resolve"):
		return "resolve"
	case strings.Contains(lower, "fetch"), strings.Contains(lower, "comic"), strings.Contains(lower, "latest"):
		return "fetch"
	case strings.Contains(lower, "save"), strings.Contains(lower, "write"):
		return "write"
	case strings.Contains(lower, "record"), strings.Contains(lower, "history"):
		return "history"
	}
	return ""
}

func findRootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// classifyError picks a category from the error's identity.
func classifyError(err error) ErrorCategory {
	var netErr net.Error
	var pathErr *os.PathError

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		return CategoryTimeout
	case errors.Is(err, ErrInvalidIdentifier), errors.Is(err, ErrInvalidInput):
		return CategoryValidation
	case errors.Is(err, ErrRateLimit):
		return CategoryRateLimit
	case errors.Is(err, ErrNotFound):
		return CategoryNotFound
	case errors.Is(err, ErrWrite), errors.Is(err, ErrLocked), errors.As(err, &pathErr):
		return CategoryFileSystem
	case errors.Is(err, ErrFetch), errors.As(err, &netErr):
		return CategoryNetwork
	}
	return CategoryUnknown
}
