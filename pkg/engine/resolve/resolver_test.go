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
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xkcdfetch/pkg/errors"
)

func fixedLatest(newest int, calls *int) LatestFunc {
	return func(ctx context.Context) (int, error) {
		if calls != nil {
			*calls++
		}
		return newest, nil
	}
}

func newTestResolver(newest int, calls *int) *Resolver {
	return &Resolver{
		Latest: fixedLatest(newest, calls),
		Rand:   rand.New(rand.NewPCG(1, 2)),
	}
}

func TestResolveRangeIsHalfOpen(t *testing.T) {
	calls := 0
	jobs, err := newTestResolver(3000, &calls).Resolve(context.Background(), Options{Range: &Range{Start: 1, Stop: 5}})
	require.NoError(t, err)
	assert.Equal(t, JobSet{1, 2, 3, 4}, jobs)
	assert.Equal(t, 1, calls)
}

func TestResolveListDropsNotAComicAndDuplicates(t *testing.T) {
	jobs, err := newTestResolver(3000, nil).Resolve(context.Background(), Options{List: []int{404, 10, 10}})
	require.NoError(t, err)
	assert.Equal(t, JobSet{10}, jobs)
}

func TestResolveRandomSample(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		r := &Resolver{Latest: fixedLatest(100, nil), Rand: rand.New(rand.NewPCG(seed, seed))}
		jobs, err := r.Resolve(context.Background(), Options{Random: 3})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(jobs), 3)
		assert.NotEmpty(t, jobs)
		for _, id := range jobs {
			assert.GreaterOrEqual(t, id, 1)
			assert.LessOrEqual(t, id, 100)
		}
		assert.IsIncreasing(t, []int(jobs))
	}
}

func TestResolveRandomNeverPicksNotAComic(t *testing.T) {
	jobs, err := newTestResolver(405, nil).Resolve(context.Background(), Options{Random: 1000})
	require.NoError(t, err)
	assert.Len(t, jobs, 404)
	assert.False(t, jobs.Contains(404))
	assert.True(t, jobs.Contains(405))
}

func TestResolveRandomHugeCountIsCapped(t *testing.T) {
	for _, count := range []int{math.MaxInt, 1 << 40} {
		t.Run(fmt.Sprint(count), func(t *testing.T) {
			jobs, err := newTestResolver(100, nil).Resolve(context.Background(), Options{Random: count})
			require.NoError(t, err)
			assert.Len(t, jobs, 100)
			assert.Equal(t, 1, jobs[0])
			assert.Equal(t, 100, jobs[len(jobs)-1])
		})
	}

	jobs, err := newTestResolver(405, nil).Resolve(context.Background(), Options{Random: math.MaxInt, List: []int{1, 2}})
	require.NoError(t, err)
	assert.Len(t, jobs, 404)
	assert.False(t, jobs.Contains(404))
}

func TestResolveRangeOverlappingNotAComic(t *testing.T) {
	jobs, err := newTestResolver(3000, nil).Resolve(context.Background(), Options{Range: &Range{Start: 400, Stop: 410}})
	require.NoError(t, err)
	assert.Len(t, jobs, 9)
	assert.False(t, jobs.Contains(404))
}

func TestResolveRangeBeyondNewestIsTrimmed(t *testing.T) {
	jobs, err := newTestResolver(50, nil).Resolve(context.Background(), Options{Range: &Range{Start: 45, Stop: 100}})
	require.NoError(t, err)
	assert.Equal(t, JobSet{45, 46, 47, 48, 49, 50}, jobs)
}

func TestResolveListOutOfRangeFailsFast(t *testing.T) {
	for _, id := range []int{0, -3, 3001} {
		_, err := newTestResolver(3000, nil).Resolve(context.Background(), Options{List: []int{5, id}})
		require.Error(t, err, id)
		assert.True(t, errors.IsInvalidIdentifier(err), id)

		var invalid *errors.InvalidIdentifierError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, id, invalid.ID)
		assert.Equal(t, 3000, invalid.Max)
	}
}

func TestResolveUnionOfSelectors(t *testing.T) {
	jobs, err := newTestResolver(2000, nil).Resolve(context.Background(), Options{
		Range:  &Range{Start: 1, Stop: 4},
		List:   []int{3, 1500},
		Latest: true,
	})
	require.NoError(t, err)
	assert.Equal(t, JobSet{1, 2, 3, 1500, 2000}, jobs)
}

func TestResolveEmpty(t *testing.T) {
	opts := Options{}
	assert.True(t, opts.Empty())
	jobs, err := newTestResolver(10, nil).Resolve(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestResolveRejectsBadInput(t *testing.T) {
	r := newTestResolver(10, nil)

	_, err := r.Resolve(context.Background(), Options{Random: -1})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = r.Resolve(context.Background(), Options{Range: &Range{Start: 5, Stop: 5}})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = r.Resolve(context.Background(), Options{Range: &Range{Start: 0, Stop: 5}})
	assert.True(t, errors.IsInvalidIdentifier(err))
}

func TestResolveLatestFailure(t *testing.T) {
	r := &Resolver{Latest: func(ctx context.Context) (int, error) {
		return 0, &errors.FetchError{StatusCode: 503, Err: fmt.Errorf("unavailable")}
	}}
	_, err := r.Resolve(context.Background(), Options{Latest: true})
	require.Error(t, err)
	assert.True(t, errors.IsFetch(err))
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := []int{5, 404, 1, 5}
	out := normalize(in)
	assert.Equal(t, JobSet{1, 5}, out)
	assert.Equal(t, []int{5, 404, 1, 5}, in)
}

func TestParseRange(t *testing.T) {
	for _, in := range []string{"1:5", "1-5", "1,5", " 1 : 5 "} {
		r, err := ParseRange(in)
		require.NoError(t, err, in)
		assert.Equal(t, Range{Start: 1, Stop: 5}, r, in)
	}

	for _, in := range []string{"", "5", ":5", "5:", "a:b", "5:1", "0:3"} {
		_, err := ParseRange(in)
		assert.Error(t, err, in)
	}

	var r Range
	require.NoError(t, r.Set("10:20"))
	assert.Equal(t, "10:20", r.String())
	assert.Equal(t, 10, r.Len())
	assert.Equal(t, "start:stop", r.Type())
}
