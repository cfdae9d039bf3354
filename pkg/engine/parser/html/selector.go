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

package html

import (
	"fmt"

	"xkcdfetch/pkg/errors"
)

// Selector provides methods for querying HTML elements
type Selector struct {
	parser   *Parser
	selector string
}

// First returns the first element matching the selector
func (s *Selector) First() (*Element, error) {
	elem := s.FirstOrNil()
	if elem == nil {
		return nil, errors.Track(fmt.Errorf("no elements found for %q", s.selector)).
			AsParser().
			WithContext("selector", s.selector).
			Error()
	}
	return elem, nil
}

// FirstOrNil returns the first element or nil if not found
func (s *Selector) FirstOrNil() *Element {
	selection := s.parser.doc.Find(s.selector).First()
	if selection.Length() == 0 {
		return nil
	}
	return &Element{selection: selection}
}

// Count returns the number of elements matching the selector
func (s *Selector) Count() int {
	return s.parser.doc.Find(s.selector).Length()
}

// MultiSelector allows trying multiple selectors in order
type MultiSelector struct {
	parser    *Parser
	selectors []string
}

// MultiSelect creates a selector that tries multiple CSS selectors
func (p *Parser) MultiSelect(selectors ...string) *MultiSelector {
	return &MultiSelector{
		parser:    p,
		selectors: selectors,
	}
}

// First returns the first element found using any of the selectors
func (m *MultiSelector) First() (*Element, error) {
	for _, selector := range m.selectors {
		if elem := m.parser.Select(selector).FirstOrNil(); elem != nil {
			return elem, nil
		}
	}

	return nil, errors.Track(fmt.Errorf("no elements found")).
		AsParser().
		WithContext("selectors", m.selectors).
		Error()
}
