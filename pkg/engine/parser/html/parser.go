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
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"xkcdfetch/pkg/errors"
)

// Parser wraps goquery document for HTML parsing
type Parser struct {
	doc *goquery.Document
}

// Parse creates a new parser from HTML content
func Parse(content []byte) (*Parser, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Track(err).
			AsParser().
			WithContext("operation", "html_parse").
			WithContext("content_size", len(content)).
			Error()
	}
	return &Parser{doc: doc}, nil
}

// ParseReader creates a new parser from an io.Reader
func ParseReader(r io.Reader) (*Parser, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Track(err).
			AsParser().
			WithContext("operation", "html_parse_reader").
			Error()
	}
	return &Parser{doc: doc}, nil
}

// Select returns a selector for querying elements
func (p *Parser) Select(selector string) *Selector {
	return &Selector{
		parser:   p,
		selector: selector,
	}
}

// Title returns the document title
func (p *Parser) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// Meta returns a map of meta tags keyed by name or property
func (p *Parser) Meta() map[string]string {
	meta := make(map[string]string)

	p.doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		if name, exists := s.Attr("name"); exists {
			meta[name] = content
		}
		// og: tags use property
		if property, exists := s.Attr("property"); exists {
			meta[property] = content
		}
	})

	return meta
}
