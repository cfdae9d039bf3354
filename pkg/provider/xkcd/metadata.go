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
	"fmt"
	"net/url"
	"path"
	"strings"

	"xkcdfetch/pkg/errors"
)

// Metadata is everything the downloader needs for one comic
type Metadata struct {
	Identifier int
	Title      string
	ImageURL   string
	FileName   string
}

// NewMetadata derives the output file name from the image URL's final path
// segment, prefixed with "<id>_" when numbered is set.
func NewMetadata(comic *Comic, numbered bool) (Metadata, error) {
	name, err := fileName(comic.Img)
	if err != nil {
		return Metadata{}, errors.Track(&errors.FetchError{ID: comic.Num, URL: comic.Img, Err: err}).
			AsParser().
			Error()
	}
	if numbered {
		name = fmt.Sprintf("%d_%s", comic.Num, name)
	}

	title := comic.SafeTitle
	if title == "" {
		title = comic.Title
	}

	return Metadata{
		Identifier: comic.Num,
		Title:      title,
		ImageURL:   comic.Img,
		FileName:   name,
	}, nil
}

func fileName(imageURL string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", fmt.Errorf("empty image URL")
	}

	p := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	if p == "" || strings.HasSuffix(p, "/") {
		return "", fmt.Errorf("image URL %q has no file name", imageURL)
	}

	name := path.Base(p)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("image URL %q has no file name", imageURL)
	}
	return name, nil
}
