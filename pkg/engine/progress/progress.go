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
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Reporter receives per-comic progress; implementations must be safe for concurrent use
type Reporter interface {
	Start(total int)
	Increment(ok bool)
	Wait()
}

// Nop reports nothing
type Nop struct{}

func (Nop) Start(int)      {}
func (Nop) Increment(bool) {}
func (Nop) Wait()          {}

// Bar draws a single "Comics" bar with counters, failures and elapsed time
type Bar struct {
	out    io.Writer
	mu     sync.Mutex
	p      *mpb.Progress
	bar    *mpb.Bar
	failed atomic.Int64
}

// NewBar creates a bar reporter writing to w
func NewBar(w io.Writer) *Bar {
	return &Bar{out: w}
}

func (b *Bar) Start(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if total <= 0 {
		return
	}

	b.p = mpb.New(mpb.WithOutput(b.out), mpb.WithWidth(60))
	b.bar = b.p.New(int64(total), barStyle(), barOptions(&b.failed)...)
}

func (b *Bar) Increment(ok bool) {
	if !ok {
		b.failed.Add(1)
	}
	if bar := b.current(); bar != nil {
		bar.Increment()
	}
}

// Wait flushes the bar; an unfinished bar is aborted so Wait never hangs
func (b *Bar) Wait() {
	b.mu.Lock()
	p, bar := b.p, b.bar
	b.p, b.bar = nil, nil
	b.mu.Unlock()

	if p == nil {
		return
	}
	if !bar.Completed() {
		bar.Abort(false)
	}
	p.Wait()
}

func (b *Bar) current() *mpb.Bar {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bar
}

func barStyle() mpb.BarStyleComposer {
	return mpb.BarStyle().Lbound("").Filler("█").Padding("░").Tip("").Refiller("").Rbound("")
}

func barOptions(failed *atomic.Int64) []mpb.BarOption {
	return []mpb.BarOption{
		mpb.PrependDecorators(
			decor.Name("Comics: "),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "Done!"),
			decor.Any(func(decor.Statistics) string {
				if n := failed.Load(); n > 0 {
					return fmt.Sprintf(" %d failed", n)
				}
				return ""
			}),
			decor.Name(" "),
			decor.Elapsed(decor.ET_STYLE_GO),
		),
	}
}
