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

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xkcdfetch/pkg/errors"
	"xkcdfetch/pkg/util"
)

func TestNormalizeArgs(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"download", "--range", "1", "5"}, []string{"download", "--range=1:5"}},
		{[]string{"download", "-r", "1:5"}, []string{"download", "-r", "1:5"}},
		{[]string{"download", "--list", "404", "10", "10", "-o", "x"}, []string{"download", "--list=404,10,10", "-o", "x"}},
		{[]string{"download", "-l", "1,2", "3"}, []string{"download", "--list=1,2,3"}},
		{[]string{"download", "--random", "3"}, []string{"download", "--random=3"}},
		{[]string{"download", "--random", "--latest"}, []string{"download", "--random", "--latest"}},
		{[]string{"download", "--", "--range", "1", "5"}, []string{"download", "--", "--range", "1", "5"}},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeArgs(c.in), strings.Join(c.in, " "))
	}
}

func TestParseComicArg(t *testing.T) {
	id, err := parseComicArg("latest")
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	id, err = parseComicArg("614")
	require.NoError(t, err)
	assert.Equal(t, 614, id)

	_, err = parseComicArg("zero")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = parseComicArg("0")
	assert.True(t, errors.IsInvalidIdentifier(err))
}

var png = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

func fakeXKCD(t *testing.T, newest int, failing ...int) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case r.URL.Path == "/info.0.json":
			fmt.Fprintf(w, `{"num": %d, "img": "%s/comics/c%d.png", "safe_title": "Newest"}`, newest, srv.URL, newest)
		case len(parts) == 2 && parts[1] == "info.0.json":
			id, _ := strconv.Atoi(parts[0])
			for _, f := range failing {
				if f == id {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
			}
			fmt.Fprintf(w, `{"num": %d, "img": "%s/comics/c%d.png", "safe_title": "Comic %d", "year": "2020", "month": "1", "day": "2"}`, id, srv.URL, id, id)
		case len(parts) == 2 && parts[0] == "comics":
			_, _ = w.Write(png)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	base := []string{
		"--base-url", srv.URL,
		"--history-db", filepath.Join(dir, "history.db"),
		"--log-file=",
		"--no-color",
	}
	root := NewRootCommand("test", &out, &errOut)
	root.SetArgs(NormalizeArgs(append(args, base...)))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDownloadCommand(t *testing.T) {
	srv := fakeXKCD(t, 50)
	dir := t.TempDir()
	outDir := filepath.Join(dir, "comics")

	out, err := run(t, srv, dir, "download", "--range", "1", "5", "-o", outDir, "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "Time took:")
	for id := 1; id <= 4; id++ {
		assert.FileExists(t, filepath.Join(outDir, fmt.Sprintf("c%d.png", id)))
	}
	assert.NoFileExists(t, filepath.Join(outDir, "c5.png"))

	out, err = run(t, srv, dir, "history", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Comic 4")
}

func TestDownloadCommandReportsFailures(t *testing.T) {
	srv := fakeXKCD(t, 50, 3)
	dir := t.TempDir()
	outDir := filepath.Join(dir, "comics")

	out, err := run(t, srv, dir, "download", "--list", "2", "3", "-o", outDir, "-q", "--retries", "0", "--numbered")
	assert.Equal(t, errRunFailed, err)
	assert.Contains(t, out, "Failed Comics")
	assert.FileExists(t, filepath.Join(outDir, "2_c2.png"))
}

func TestDownloadCommandAPI(t *testing.T) {
	srv := fakeXKCD(t, 50)
	dir := t.TempDir()

	out, err := run(t, srv, dir, "download", "--random", "3", "-o", filepath.Join(dir, "comics"), "--api")
	require.NoError(t, err)

	var resp util.APIResponse
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &resp))
	assert.Equal(t, "success", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, data["jobs"], 3)
	assert.EqualValues(t, 3, data["succeeded"])
}

func TestDownloadCommandRejectsStrayArgs(t *testing.T) {
	srv := fakeXKCD(t, 50)
	_, err := run(t, srv, t.TempDir(), "download", "--latest", "banana")
	assert.Error(t, err)
}

func TestDownloadCommandInvalidList(t *testing.T) {
	srv := fakeXKCD(t, 50)
	dir := t.TempDir()
	out, err := run(t, srv, dir, "download", "--list", "51", "-o", filepath.Join(dir, "comics"))
	assert.Equal(t, errRunFailed, err)
	assert.Contains(t, out, "51")
}

func TestInfoCommand(t *testing.T) {
	srv := fakeXKCD(t, 50)
	out, err := run(t, srv, t.TempDir(), "info", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "#7 Comic 7")
	assert.Contains(t, out, "2020-01-02")

	out, err = run(t, srv, t.TempDir(), "info", "latest", "--api")
	require.NoError(t, err)
	assert.Contains(t, out, `"num":50`)
}

func TestVersionCommand(t *testing.T) {
	srv := fakeXKCD(t, 1)
	out, err := run(t, srv, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
	assert.Contains(t, out, "disabled")
}
