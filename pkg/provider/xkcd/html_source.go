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

package xkcd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"xkcdfetch/pkg/engine/parser/html"
	"xkcdfetch/pkg/errors"
)

// HTMLSource scrapes the comic page itself
type HTMLSource struct {
	client  Fetcher
	baseURL string
}

// NewHTMLSource creates a page scraping source
func NewHTMLSource(client Fetcher, baseURL string) *HTMLSource {
	return &HTMLSource{client: client, baseURL: baseURL}
}

func (s *HTMLSource) Name() string { return "html" }

func (s *HTMLSource) Latest(ctx context.Context) (*Comic, error) {
	return s.scrape(ctx, s.baseURL+"/", 0)
}

func (s *HTMLSource) Comic(ctx context.Context, id int) (*Comic, error) {
	return s.scrape(ctx, fmt.Sprintf("%s/%d/", s.baseURL, id), id)
}

func (s *HTMLSource) scrape(ctx context.Context, url string, id int) (*Comic, error) {
	body, err := s.client.FetchBytes(ctx, url)
	if err != nil {
		return nil, fetchFailure(err, id)
	}

	page, err := html.Parse(body)
	if err != nil {
		return nil, fetchFailure(err, id)
	}

	if id == 0 {
		id = numberFromPermalink(page.Meta()["og:url"])
	}

	img, err := page.Select("#comic img").First()
	if err != nil {
		return nil, errors.Track(&errors.FetchError{ID: id, URL: url, Err: fmt.Errorf("no image in #comic")}).
			AsParser().
			Error()
	}

	src := strings.TrimSpace(img.AttrOr("src", ""))
	if src == "" {
		return nil, errors.Track(&errors.FetchError{ID: id, URL: url, Err: fmt.Errorf("image has no src")}).
			AsParser().
			Error()
	}

	comic := &Comic{
		Num: id,
		Img: absoluteURL(src),
		Alt: img.AttrOr("title", ""),
	}
	if title, err := page.MultiSelect("#ctitle").First(); err == nil {
		comic.Title = title.Text()
	} else {
		comic.Title = img.AttrOr("alt", "")
	}
	comic.SafeTitle = comic.Title

	return comic, nil
}

// absoluteURL turns protocol-relative and root-relative sources into https URLs
func absoluteURL(src string) string {
	switch {
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "/"):
		return "https://imgs.xkcd.com" + src
	}
	return src
}

// numberFromPermalink pulls 614 out of https://xkcd.com/614/
func numberFromPermalink(link string) int {
	parts := strings.Split(strings.Trim(link, "/"), "/")
	if len(parts) == 0 {
		return 0
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return n
}
