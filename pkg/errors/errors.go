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
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	As     = stderrors.As
	Is     = stderrors.Is
	Unwrap = stderrors.Unwrap
)

var (
	ErrNotFound          = stderrors.New("resource not found")
	ErrServerError       = stderrors.New("server error")
	ErrTimeout           = stderrors.New("operation timed out")
	ErrRateLimit         = stderrors.New("rate limit exceeded")
	ErrInvalidInput      = stderrors.New("invalid input")
	ErrInvalidIdentifier = stderrors.New("invalid comic identifier")
	ErrFetch             = stderrors.New("fetch failed")
	ErrWrite             = stderrors.New("write failed")
	ErrLocked            = stderrors.New("output directory is locked by another run")
	ErrCollision         = stderrors.New("file name already taken by another comic")
)

func IsNotFound(err error) bool          { return Is(err, ErrNotFound) }
func IsRateLimited(err error) bool       { return Is(err, ErrRateLimit) }
func IsInvalidIdentifier(err error) bool { return Is(err, ErrInvalidIdentifier) }
func IsFetch(err error) bool             { return Is(err, ErrFetch) }
func IsWrite(err error) bool             { return Is(err, ErrWrite) }

// InvalidIdentifierError reports a comic number that cannot be downloaded.
type InvalidIdentifierError struct {
	ID     int
	Max    int
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("invalid comic identifier %d (valid range 1..%d): %s", e.ID, e.Max, e.Reason)
	}
	return fmt.Sprintf("invalid comic identifier %d: %s", e.ID, e.Reason)
}

func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier || target == ErrInvalidInput
}

// FetchError reports a failed metadata or image request.
type FetchError struct {
	ID         int
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := "fetch"
	if e.ID > 0 {
		msg = fmt.Sprintf("fetch comic %d", e.ID)
	}
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrFetch:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrServerError:
		return e.StatusCode >= 500
	case ErrRateLimit:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// WriteError reports a filesystem failure while persisting a comic.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s failed", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// fatalError marks a failure that must stop the whole run.
type fatalError struct {
	err error
}

func (f *fatalError) Error() string { return f.err.Error() }
func (f *fatalError) Unwrap() error { return f.err }

// Fatal marks err as non-recoverable for the current run.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err, or anything it wraps, was marked with Fatal.
func IsFatal(err error) bool {
	var f *fatalError
	return As(err, &f)
}
