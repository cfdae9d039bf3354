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
	"strings"

	"xkcdfetch/pkg/errors"
)

// JSONSource reads the info.0.json endpoints
type JSONSource struct {
	client  Fetcher
	baseURL string
}

// NewJSONSource creates a JSON backed source
func NewJSONSource(client Fetcher, baseURL string) *JSONSource {
	return &JSONSource{client: client, baseURL: baseURL}
}

func (s *JSONSource) Name() string { return "json" }

func (s *JSONSource) Latest(ctx context.Context) (*Comic, error) {
	return s.fetch(ctx, s.baseURL+"/info.0.json", 0)
}

func (s *JSONSource) Comic(ctx context.Context, id int) (*Comic, error) {
	return s.fetch(ctx, fmt.Sprintf("%s/%d/info.0.json", s.baseURL, id), id)
}

func (s *JSONSource) fetch(ctx context.Context, url string, id int) (*Comic, error) {
	var comic Comic
	if err := s.client.FetchJSON(ctx, url, &comic); err != nil {
		return nil, fetchFailure(err, id)
	}

	if id == 0 {
		id = comic.Num
	}
	if strings.TrimSpace(comic.Img) == "" {
		return nil, errors.Track(&errors.FetchError{ID: id, URL: url, Err: fmt.Errorf("missing image field")}).
			AsParser().
			Error()
	}
	if comic.Num == 0 {
		comic.Num = id
	}
	return &comic, nil
}
