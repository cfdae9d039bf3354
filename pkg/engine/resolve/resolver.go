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

package resolve

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"xkcdfetch/pkg/engine/logger"
	"xkcdfetch/pkg/errors"
)

// NotAComic is the identifier xkcd deliberately never published
const NotAComic = 404

// JobSet is the sorted, duplicate free set of identifiers to download
type JobSet []int

// Contains reports whether id is part of the set
func (j JobSet) Contains(id int) bool {
	_, found := slices.BinarySearch(j, id)
	return found
}

// Options are the user's selectors; any combination may be set
type Options struct {
	Range  *Range
	List   []int
	Random int
	Latest bool
}

// Empty reports whether no selector was given
func (o Options) Empty() bool {
	return o.Range == nil && len(o.List) == 0 && o.Random == 0 && !o.Latest
}

// LatestFunc returns the highest published identifier
type LatestFunc func(ctx context.Context) (int, error)

// Resolver turns Options into a JobSet
type Resolver struct {
	Latest LatestFunc
	Rand   *rand.Rand
	Logger logger.Logger
}

// NewResolver creates a resolver seeded from the clock
func NewResolver(latest LatestFunc, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop{}
	}
	seed := uint64(time.Now().UnixNano())
	return &Resolver{
		Latest: latest,
		Rand:   rand.New(rand.NewPCG(seed, seed>>1|1)),
		Logger: log,
	}
}

// Resolve validates the options against the newest comic and returns the JobSet.
// An empty JobSet is returned as-is.
func (r *Resolver) Resolve(ctx context.Context, opts Options) (JobSet, error) {
	if opts.Random < 0 {
		return nil, errors.Track(fmt.Errorf("%w: random count must not be negative, got %d", errors.ErrInvalidInput, opts.Random)).
			AsValidation().
			Error()
	}
	if opts.Range != nil {
		if err := opts.Range.Validate(); err != nil {
			return nil, err
		}
	}

	newest, err := r.Latest(ctx)
	if err != nil {
		return nil, errors.Track(err).WithMessage("Could not determine the newest comic").Error()
	}
	if newest < 1 {
		return nil, errors.Track(fmt.Errorf("upstream reported newest comic %d", newest)).AsParser().Error()
	}

	ids := make([]int, 0, r.estimate(opts, newest))

	if opts.Range != nil {
		stop := opts.Range.Stop
		if stop > newest+1 {
			r.logger().Info("Range %s reaches past newest comic %d, dropping %d identifiers", opts.Range, newest, stop-newest-1)
			stop = newest + 1
		}
		for id := opts.Range.Start; id < stop; id++ {
			ids = append(ids, id)
		}
	}

	for _, id := range opts.List {
		if id == NotAComic {
			continue
		}
		if id < 1 || id > newest {
			return nil, errors.Track(&errors.InvalidIdentifierError{ID: id, Max: newest, Reason: "no such comic"}).
				AsValidation().
				Error()
		}
		ids = append(ids, id)
	}

	if opts.Random > 0 {
		ids = append(ids, r.sample(opts.Random, newest)...)
	}

	if opts.Latest {
		ids = append(ids, newest)
	}

	return normalize(ids), nil
}

// normalize sorts, deduplicates and drops 404 into a fresh slice
func normalize(ids []int) JobSet {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	out := make(JobSet, 0, len(sorted))
	for _, id := range sorted {
		if id != NotAComic {
			out = append(out, id)
		}
	}
	return out
}

// sample draws count distinct identifiers from [1, newest] without 404
func (r *Resolver) sample(count, newest int) []int {
	pool := make([]int, 0, newest)
	for id := 1; id <= newest; id++ {
		if id != NotAComic {
			pool = append(pool, id)
		}
	}
	if count >= len(pool) {
		if count > len(pool) {
			r.logger().Warn("Requested %d random comics but only %d exist", count, len(pool))
		}
		return pool
	}

	rng := r.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	// Partial Fisher-Yates: the first count slots end up uniformly sampled
	for i := 0; i < count; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count]
}

// estimate sizes the id buffer. Every term is bounded by newest so an
// absurd --random cannot drive the allocation.
func (r *Resolver) estimate(opts Options, newest int) int {
	n := min(len(opts.List), newest) + min(opts.Random, newest) + 1
	if opts.Range != nil {
		n += min(opts.Range.Len(), newest)
	}
	return n
}

func (r *Resolver) logger() logger.Logger {
	if r.Logger == nil {
		return logger.Nop{}
	}
	return r.Logger
}
