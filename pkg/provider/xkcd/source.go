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
	"sort"
	"strings"

	"xkcdfetch/pkg/errors"
)

// DefaultBaseURL is the public xkcd site
const DefaultBaseURL = "https://xkcd.com"

// Fetcher is the subset of the network client a Source needs
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, result interface{}) error
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Source resolves comic identifiers into comic metadata
type Source interface {
	Name() string
	// Latest returns the newest published comic
	Latest(ctx context.Context) (*Comic, error)
	Comic(ctx context.Context, id int) (*Comic, error)
}

// Comic mirrors the fields of info.0.json
type Comic struct {
	Num        int    `json:"num"`
	Img        string `json:"img"`
	Title      string `json:"title"`
	SafeTitle  string `json:"safe_title"`
	Alt        string `json:"alt"`
	Transcript string `json:"transcript"`
	Link       string `json:"link"`
	News       string `json:"news"`
	Year       string `json:"year"`
	Month      string `json:"month"`
	Day        string `json:"day"`
}

// Date formats the publication date as YYYY-MM-DD, or "" when unknown
func (c *Comic) Date() string {
	if c.Year == "" {
		return ""
	}
	var month, day int
	_, _ = fmt.Sscanf(c.Month, "%d", &month)
	_, _ = fmt.Sscanf(c.Day, "%d", &day)
	return fmt.Sprintf("%s-%02d-%02d", c.Year, month, day)
}

type factory func(client Fetcher, baseURL string) Source

var sources = map[string]factory{
	"json": func(client Fetcher, baseURL string) Source { return NewJSONSource(client, baseURL) },
	"html": func(client Fetcher, baseURL string) Source { return NewHTMLSource(client, baseURL) },
}

// New returns the metadata strategy registered under name
func New(name string, client Fetcher, baseURL string) (Source, error) {
	create, ok := sources[strings.ToLower(name)]
	if !ok {
		return nil, errors.Track(fmt.Errorf("%w: unknown source %q (available: %s)",
			errors.ErrInvalidInput, name, strings.Join(Names(), ", "))).
			AsValidation().
			Error()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return create(client, strings.TrimRight(baseURL, "/")), nil
}

// Names lists the registered strategies
func Names() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fetchFailure attaches the comic number to a failed request
func fetchFailure(err error, id int) error {
	var fetchErr *errors.FetchError
	if !errors.As(err, &fetchErr) {
		err = &errors.FetchError{ID: id, Err: err}
	} else if fetchErr.ID == 0 {
		fetchErr.ID = id
	}
	return errors.Track(err).WithContext("comic", id).Error()
}
