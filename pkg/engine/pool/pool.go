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

package pool

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"xkcdfetch/pkg/errors"
)

const (
	DefaultLimit       = 10
	DefaultUnitTimeout = 2 * time.Minute
)

// Unit processes one identifier
type Unit func(ctx context.Context, id int) error

// Outcome is the result of one unit
type Outcome struct {
	ID       int
	Err      error
	Duration time.Duration
}

// Pool runs units with bounded concurrency. Failures stay local to their unit
// unless marked with errors.Fatal, which cancels everything still running.
type Pool struct {
	Limit       int
	UnitTimeout time.Duration
}

// New creates a pool, falling back to defaults for non-positive values
func New(limit int, unitTimeout time.Duration) *Pool {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if unitTimeout <= 0 {
		unitTimeout = DefaultUnitTimeout
	}
	return &Pool{Limit: limit, UnitTimeout: unitTimeout}
}

// Run executes unit for every id and returns one outcome per id, in input order.
// The returned error is the first fatal unit error, if any.
func (p *Pool) Run(ctx context.Context, ids []int, unit Unit) ([]Outcome, error) {
	outcomes := make([]Outcome, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	g.SetLimit(limit)

	for i, id := range ids {
		outcomes[i].ID = id

		// Go blocks while the pool is full; stop queueing once cancelled
		if gctx.Err() != nil {
			outcomes[i].Err = errors.FromContext(gctx).WithContext("comic", id).Error()
			continue
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				outcomes[i].Err = errors.FromContext(gctx).WithContext("comic", id).Error()
				return nil
			}

			unitCtx := gctx
			if p.UnitTimeout > 0 {
				var cancel context.CancelFunc
				unitCtx, cancel = context.WithTimeout(gctx, p.UnitTimeout)
				defer cancel()
			}

			start := time.Now()
			err := p.safeRun(unitCtx, id, unit)
			outcomes[i].Err = err
			outcomes[i].Duration = time.Since(start)

			if errors.IsFatal(err) {
				return err
			}
			return nil
		})
	}

	return outcomes, g.Wait()
}

// safeRun turns a panicking unit into a failed outcome
func (p *Pool) safeRun(ctx context.Context, id int, unit Unit) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("comic %d: panic: %v", id, r).Error()
		}
	}()
	return unit(ctx, id)
}
