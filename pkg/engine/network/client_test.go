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

package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xkcdfetch/pkg/errors"
)

func newTestClient(retries int) *Client {
	c := NewClient(nil, retries)
	c.InitialBackoff = time.Millisecond
	c.MaxBackoff = 5 * time.Millisecond
	return c
}

func TestGetRetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"num": 7}`))
	}))
	defer srv.Close()

	var out struct {
		Num int `json:"num"`
	}
	err := newTestClient(3).FetchJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Num)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestGetGivesUpAfterRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(2).FetchBytes(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.IsFetch(err))
	assert.True(t, errors.Is(err, errors.ErrServerError))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestGetDoesNotRetryNotFound(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestClient(3).FetchBytes(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	var fetchErr *errors.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGetHonoursRetryAfter(t *testing.T) {
	var hits int32
	var first atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			first.Store(time.Now().UnixNano())
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		assert.GreaterOrEqual(t, time.Since(time.Unix(0, first.Load())), 900*time.Millisecond)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := newTestClient(1).FetchBytes(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestGetStopsOnCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(5).FetchBytes(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchJSONMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := newTestClient(0).FetchJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)
	assert.True(t, errors.IsFetch(err))
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "xkcd.com", ExtractDomain("https://xkcd.com/info.0.json"))
	assert.Equal(t, "imgs.xkcd.com", ExtractDomain("https://imgs.xkcd.com/comics/barrel_cropped_(1).jpg"))
}
