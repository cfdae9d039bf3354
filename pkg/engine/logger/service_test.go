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

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceWritesFormattedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "xkcdfetch.log")
	s := NewService(path)

	s.Info("saved comic %d", 42)
	s.Debug("hidden at info level")
	s.SetLevel(LevelDebug)
	s.Debug("visible now")
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO ")
	assert.Contains(t, lines[0], "service_test.go:")
	assert.True(t, strings.HasSuffix(lines[0], "- saved comic 42"))
	assert.Contains(t, lines[1], "DEBUG")
	assert.Equal(t, path, s.LogFile())
}

func TestServiceConcurrentUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.log")
	s := NewService(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Warn("worker %d", i)
		}(i)
	}
	wg.Wait()
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20, strings.Count(string(data), "WARN"))
}

func TestServiceWithoutFileDiscards(t *testing.T) {
	s := NewService("")
	assert.NotPanics(t, func() { s.Error("nowhere to go") })
	assert.NoError(t, s.Close())
}
