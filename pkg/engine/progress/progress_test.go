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

package progress

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarCompletes(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf)
	b.Start(10)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Increment(i%3 != 0)
		}(i)
	}
	wg.Wait()
	b.Wait()

	assert.Equal(t, int64(4), b.failed.Load())
	assert.Nil(t, b.current())
}

func TestBarWaitDoesNotHangWhenUnfinished(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf)
	b.Start(5)
	b.Increment(true)
	b.Wait()
}

func TestBarWithoutWork(t *testing.T) {
	b := NewBar(&bytes.Buffer{})
	b.Start(0)
	b.Increment(false)
	b.Wait()

	var n Reporter = Nop{}
	n.Start(3)
	n.Increment(true)
	n.Wait()
}
