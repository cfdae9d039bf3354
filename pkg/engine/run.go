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

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"xkcdfetch/pkg/engine/download"
	"xkcdfetch/pkg/engine/history"
	"xkcdfetch/pkg/engine/pool"
	"xkcdfetch/pkg/engine/resolve"
	"xkcdfetch/pkg/errors"
	"xkcdfetch/pkg/provider/xkcd"
)

// Request selects what a run downloads and where it goes
type Request struct {
	Options resolve.Options
	// OutputDir and Numbered fall back to the engine config when empty
	OutputDir string
	Numbered  *bool
}

// Result is the outcome for one comic
type Result struct {
	ID       int           `json:"num"`
	Title    string        `json:"title,omitempty"`
	Path     string        `json:"path,omitempty"`
	Bytes    int64         `json:"bytes"`
	MIME     string        `json:"mime,omitempty"`
	Skipped  bool          `json:"skipped"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// OK reports whether the comic is on disk
func (r Result) OK() bool { return r.Err == nil }

// Report summarises a run
type Report struct {
	OutputDir  string         `json:"output_dir"`
	Jobs       resolve.JobSet `json:"jobs"`
	Results    []Result       `json:"results"`
	Succeeded  int            `json:"succeeded"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
	TotalBytes int64          `json:"total_bytes"`
	Elapsed    time.Duration  `json:"elapsed_ns"`
}

// Failures returns the failed results in identifier order
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Run resolves the request, downloads every comic with the worker pool and
// reports the outcome. The error is only set for run-level failures; per-comic
// failures are in the report.
func (e *Engine) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()

	outDir := req.OutputDir
	if outDir == "" {
		outDir = e.config.OutputDir
	}
	numbered := e.config.Numbered
	if req.Numbered != nil {
		numbered = *req.Numbered
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.Track(&errors.WriteError{Path: outDir, Op: "mkdir", Err: err}).
			AsFileSystem().
			WithMessagef("Could not create output directory %s", outDir).
			Error()
	}

	unlock, err := e.Download.Lock(outDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(); err != nil {
			e.Logger.Warn("Failed to release lock on %s: %v", outDir, err)
		}
	}()

	opts := req.Options
	if opts.Empty() {
		fallback := resolve.DefaultRange
		opts.Range = &fallback
		e.Logger.Info("No selector given, using default range %s", fallback)
	}

	resolver := resolve.NewResolver(e.latest, e.Logger)
	jobs, err := resolver.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	e.Logger.Info("Resolved %d comics into %s", len(jobs), outDir)

	report := &Report{
		OutputDir: outDir,
		Jobs:      jobs,
		Results:   make([]Result, len(jobs)),
	}

	e.Progress.Start(len(jobs))

	names := &claims{owner: make(map[string]int, len(jobs))}
	workers := pool.New(e.config.Concurrency, e.config.UnitTimeout)
	outcomes, fatal := workers.Run(ctx, jobs, func(ctx context.Context, id int) error {
		slot := slotOf(jobs, id)
		res := e.fetchOne(ctx, id, outDir, numbered, names)
		report.Results[slot] = res
		e.Progress.Increment(res.OK())
		return res.Err
	})

	// Units the pool never started still need a result and a tick
	for i, o := range outcomes {
		if report.Results[i].ID == 0 {
			report.Results[i] = Result{ID: o.ID, Err: o.Err}
			e.Progress.Increment(false)
		}
		report.Results[i].Duration = o.Duration
		if report.Results[i].Err != nil {
			report.Results[i].Error = report.Results[i].Err.Error()
		}
	}
	e.Progress.Wait()

	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			report.Failed++
		case res.Skipped:
			report.Skipped++
		default:
			report.Succeeded++
			report.TotalBytes += res.Bytes
		}
	}
	report.Elapsed = time.Since(start)

	e.Logger.Info("Run finished: %d downloaded, %d skipped, %d failed in %v",
		report.Succeeded, report.Skipped, report.Failed, report.Elapsed)

	if fatal != nil {
		e.Logger.Error("Run aborted: %v", fatal)
		return report, fatal
	}
	return report, nil
}

// fetchOne is one unit of work: metadata, image, ledger
func (e *Engine) fetchOne(ctx context.Context, id int, outDir string, numbered bool, names *claims) Result {
	res := Result{ID: id}

	comic, err := e.Source.Comic(ctx, id)
	if err != nil {
		e.Logger.Error("Comic %d: metadata: %v", id, err)
		res.Err = err
		return res
	}

	meta, err := xkcd.NewMetadata(comic, numbered)
	if err != nil {
		e.Logger.Error("Comic %d: %v", id, err)
		res.Err = err
		return res
	}
	res.Title = meta.Title

	dest := filepath.Join(outDir, download.SanitizeFilename(meta.FileName))
	if other, ok := names.take(dest, id); !ok {
		e.Logger.Warn("Comic %d: %s is already written by comic %d in this run, use --numbered to keep both", id, dest, other)
		res.Err = errors.Track(&errors.WriteError{
			Path: dest,
			Op:   "claim",
			Err:  fmt.Errorf("%w: comic %d", errors.ErrCollision, other),
		}).AsFileSystem().WithContext("comic", id).Error()
		return res
	}

	written, err := e.Download.Save(ctx, meta.ImageURL, dest)
	if err != nil {
		e.Logger.Error("Comic %d: %v", id, err)
		if isFatalWrite(err) {
			err = errors.Fatal(err)
		}
		res.Err = err
		return res
	}

	res.Path = written.Path
	res.Bytes = written.Bytes
	res.MIME = written.MIME
	res.Skipped = written.Skipped

	if written.Skipped {
		e.Logger.Debug("Comic %d already saved at %s", id, written.Path)
		return res
	}

	if e.History != nil {
		path := written.Path
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		entry := history.Entry{
			Num:      id,
			Title:    meta.Title,
			FilePath: path,
			Bytes:    written.Bytes,
			SHA256:   written.SHA256,
			MIME:     written.MIME,
		}
		if err := e.History.Record(ctx, entry); err != nil {
			e.Logger.Warn("Comic %d: could not record history: %v", id, err)
		}
	}

	e.Logger.Info("Comic %d saved to %s", id, written.Path)
	return res
}

func (e *Engine) latest(ctx context.Context) (int, error) {
	comic, err := e.Source.Latest(ctx)
	if err != nil {
		return 0, err
	}
	return comic.Num, nil
}

// isFatalWrite reports disk conditions every later unit would hit too
func isFatalWrite(err error) bool {
	return errors.IsWrite(err) && (errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EROFS))
}

// claims maps each destination path to the first comic that asked for it
type claims struct {
	mu    sync.Mutex
	owner map[string]int
}

// take claims path for id. On conflict it returns the current owner.
func (c *claims) take(path string, id int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if other, ok := c.owner[path]; ok && other != id {
		return other, false
	}
	c.owner[path] = id
	return id, true
}

func slotOf(jobs resolve.JobSet, id int) int {
	i, _ := slices.BinarySearch(jobs, id)
	return i
}
