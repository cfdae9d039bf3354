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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head><title>xkcd: Barrel - Part 1</title>
<meta property="og:url" content="https://xkcd.com/1/">
<meta name="description" content="comic">
</head><body>
<div id="ctitle">Barrel - Part 1</div>
<div id="comic"><img src="//imgs.xkcd.com/comics/barrel_cropped_(1).jpg" title="Don't we all." alt="Barrel - Part 1"></div>
</body></html>`

func TestParseAndSelect(t *testing.T) {
	p, err := Parse([]byte(page))
	require.NoError(t, err)

	assert.Equal(t, "xkcd: Barrel - Part 1", p.Title())
	assert.Equal(t, "https://xkcd.com/1/", p.Meta()["og:url"])
	assert.Equal(t, "comic", p.Meta()["description"])

	img, err := p.Select("#comic img").First()
	require.NoError(t, err)
	src, ok := img.Attr("src")
	assert.True(t, ok)
	assert.Equal(t, "//imgs.xkcd.com/comics/barrel_cropped_(1).jpg", src)
	assert.Equal(t, "Don't we all.", img.AttrOr("title", ""))
	assert.Equal(t, "fallback", img.AttrOr("data-missing", "fallback"))

	assert.Equal(t, 1, p.Select("#comic img").Count())
}

func TestSelectMissing(t *testing.T) {
	p, err := ParseReader(strings.NewReader(page))
	require.NoError(t, err)

	_, err = p.Select("#nothing").First()
	assert.Error(t, err)
	assert.Nil(t, p.Select("#nothing").FirstOrNil())

	elem, err := p.MultiSelect("#nothing", "#ctitle").First()
	require.NoError(t, err)
	assert.Equal(t, "Barrel - Part 1", elem.Text())

	_, err = p.MultiSelect("#a", "#b").First()
	assert.Error(t, err)
}
