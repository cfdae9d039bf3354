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
	"fmt"
)

// ErrorBuilder provides a fluent interface for building tracked errors
type ErrorBuilder struct {
	err *TrackedError
}

// Track wraps any error with automatic tracking and returns a builder
func Track(err error) *ErrorBuilder {
	if err == nil {
		return nil
	}
	return &ErrorBuilder{err: track(err)}
}

// New creates a new error with tracking
func New(message string) *ErrorBuilder {
	return Track(errors.New(message))
}

// Newf creates a new formatted error with tracking
func Newf(format string, args ...interface{}) *ErrorBuilder {
	return Track(fmt.Errorf(format, args...))
}

// WithContext adds context data to the error
func (b *ErrorBuilder) WithContext(key string, value interface{}) *ErrorBuilder {
	if b == nil || b.err == nil {
		return b
	}

	b.err.Context[key] = value
	return b
}

// WithMessage sets a user-friendly message
func (b *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	if b == nil || b.err == nil {
		return b
	}

	b.err.UserMessage = message
	return b
}

// WithMessagef sets a formatted user-friendly message
func (b *ErrorBuilder) WithMessagef(format string, args ...interface{}) *ErrorBuilder {
	return b.WithMessage(fmt.Sprintf(format, args...))
}

// AsCategory sets the error category
func (b *ErrorBuilder) AsCategory(category ErrorCategory) *ErrorBuilder {
	if b == nil || b.err == nil {
		return b
	}

	b.err.Category = category
	return b
}

// AsNetwork marks the error as network-related
func (b *ErrorBuilder) AsNetwork() *ErrorBuilder {
	return b.AsCategory(CategoryNetwork)
}

// AsParser marks the error as parsing-related
func (b *ErrorBuilder) AsParser() *ErrorBuilder {
	return b.AsCategory(CategoryParser)
}

// AsValidation marks the error as an input validation failure
func (b *ErrorBuilder) AsValidation() *ErrorBuilder {
	return b.AsCategory(CategoryValidation)
}

// AsTimeout marks the error as timeout-related
func (b *ErrorBuilder) AsTimeout() *ErrorBuilder {
	return b.AsCategory(CategoryTimeout)
}

// AsFileSystem marks the error as filesystem-related
func (b *ErrorBuilder) AsFileSystem() *ErrorBuilder {
	return b.AsCategory(CategoryFileSystem)
}

// AsDownload marks the error as download-related
func (b *ErrorBuilder) AsDownload() *ErrorBuilder {
	return b.AsCategory(CategoryDownload)
}

// Error returns the tracked error
func (b *ErrorBuilder) Error() error {
	if b == nil || b.err == nil {
		return nil
	}
	return b.err
}

// WithHTTPContext adds HTTP-related context
func (b *ErrorBuilder) WithHTTPContext(method, url string, statusCode int) *ErrorBuilder {
	return b.
		WithContext("method", method).
		WithContext("url", url).
		WithContext("status_code", statusCode)
}

// WithFileContext adds file-related context
func (b *ErrorBuilder) WithFileContext(path string, operation string) *ErrorBuilder {
	return b.
		WithContext("file_path", path).
		WithContext("file_operation", operation)
}

// FromContext creates an error from a context
func FromContext(ctx context.Context) *ErrorBuilder {
	err := ctx.Err()
	if err == nil {
		return nil
	}

	builder := Track(err).AsTimeout()
	if errors.Is(err, context.DeadlineExceeded) {
		return builder.WithMessage("Operation timed out")
	}
	return builder.WithMessage("Operation was cancelled")
}

// TN (Track Network) marks an error as network-related.
func TN(err error) error {
	return Track(err).AsNetwork().Error()
}
