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

package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"xkcdfetch/pkg/errors"
)

// Range is the half-open interval [Start, Stop)
type Range struct {
	Start int
	Stop  int
}

// DefaultRange is used when no selector is given
var DefaultRange = Range{Start: 1, Stop: 100}

// ParseRange accepts "START:STOP", "START-STOP" or "START,STOP"
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, ":-,")
	if sep <= 0 || sep == len(s)-1 {
		return Range{}, invalidRange(s, "expected START:STOP")
	}

	start, err := strconv.Atoi(strings.TrimSpace(s[:sep]))
	if err != nil {
		return Range{}, invalidRange(s, "start is not a number")
	}
	stop, err := strconv.Atoi(strings.TrimSpace(s[sep+1:]))
	if err != nil {
		return Range{}, invalidRange(s, "stop is not a number")
	}

	r := Range{Start: start, Stop: stop}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate checks that the range is non-empty and starts at a real comic
func (r Range) Validate() error {
	if r.Start < 1 {
		return errors.Track(&errors.InvalidIdentifierError{ID: r.Start, Reason: "range must start at 1 or later"}).
			AsValidation().
			Error()
	}
	if r.Stop <= r.Start {
		return invalidRange(r.String(), "stop must be greater than start")
	}
	return nil
}

// Len returns the number of identifiers covered
func (r Range) Len() int {
	if r.Stop <= r.Start {
		return 0
	}
	return r.Stop - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d", r.Start, r.Stop)
}

// Set implements pflag.Value
func (r *Range) Set(s string) error {
	parsed, err := ParseRange(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Type implements pflag.Value
func (r *Range) Type() string { return "start:stop" }

func invalidRange(s, reason string) error {
	return errors.Track(fmt.Errorf("%w: range %q: %s", errors.ErrInvalidInput, s, reason)).
		AsValidation().
		Error()
}
