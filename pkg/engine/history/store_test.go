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

package history

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xkcdfetch/pkg/errors"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(ctx, Entry{Num: 1, Title: "Barrel - Part 1", FilePath: "/tmp/a.jpg", Bytes: 10, SHA256: "aa", MIME: "image/jpeg", DownloadedAt: at}))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Barrel - Part 1", got[0].Title)
	assert.Equal(t, int64(10), got[0].Bytes)
	assert.True(t, at.Equal(got[0].DownloadedAt))

	_, err = s.Get(ctx, 2)
	assert.True(t, errors.IsNotFound(err))
}

func TestRecordUpserts(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Entry{Num: 5, FilePath: "/x/5.png", Bytes: 1, SHA256: "old"}))
	require.NoError(t, s.Record(ctx, Entry{Num: 5, FilePath: "/x/5.png", Bytes: 2, SHA256: "new"}))
	require.NoError(t, s.Record(ctx, Entry{Num: 5, FilePath: "/y/5_5.png", Bytes: 3}))

	got, err := s.Get(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	for _, e := range got {
		if e.FilePath == "/x/5.png" {
			assert.Equal(t, "new", e.SHA256)
			assert.Equal(t, int64(2), e.Bytes)
		}
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 0)

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Record(ctx, Entry{Num: i, FilePath: fmt.Sprintf("/c/%d.png", i), DownloadedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	got, err := s.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{5, 4, 3}, []int{got[0].Num, got[1].Num, got[2].Num})
}

func TestConcurrentRecord(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Record(ctx, Entry{Num: i, FilePath: fmt.Sprintf("/c/%d.png", i)}))
		}(i)
	}
	wg.Wait()

	got, err := s.List(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, got, 25)
}
