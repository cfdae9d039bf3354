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
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element wraps a goquery selection for easier access
type Element struct {
	selection *goquery.Selection
}

// Text returns the text content of the element
func (e *Element) Text() string {
	return strings.TrimSpace(e.selection.Text())
}

// Attr returns an attribute value
func (e *Element) Attr(name string) (string, bool) {
	return e.selection.Attr(name)
}

// AttrOr returns an attribute value or default if not found
func (e *Element) AttrOr(name string, defaultValue string) string {
	if val, exists := e.Attr(name); exists {
		return val
	}
	return defaultValue
}
