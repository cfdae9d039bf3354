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
	"net/url"
	"sync"
	"time"

	"xkcdfetch/pkg/errors"
)

// RateLimiter spaces out requests per host
type RateLimiter struct {
	domains map[string]*domainLimiter
	mu      sync.RWMutex
}

// domainLimiter tracks rate limiting for a specific host
type domainLimiter struct {
	lastRequest time.Time
	notBefore   time.Time
	mu          sync.Mutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		domains: make(map[string]*domainLimiter),
	}
}

// Wait blocks until a request to rawURL may be sent
func (r *RateLimiter) Wait(ctx context.Context, rawURL string, delay time.Duration) error {
	limiter := r.getLimiter(ExtractDomain(rawURL))
	return limiter.wait(ctx, delay)
}

// Defer pushes back every request to the host of rawURL until the given time.
// Used when the server answers with Retry-After.
func (r *RateLimiter) Defer(rawURL string, until time.Time) {
	limiter := r.getLimiter(ExtractDomain(rawURL))
	limiter.mu.Lock()
	if until.After(limiter.notBefore) {
		limiter.notBefore = until
	}
	limiter.mu.Unlock()
}

// getLimiter returns or creates a limiter for a host
func (r *RateLimiter) getLimiter(domain string) *domainLimiter {
	r.mu.RLock()
	limiter, exists := r.domains[domain]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := r.domains[domain]; exists {
		return limiter
	}

	limiter = &domainLimiter{}
	r.domains[domain] = limiter
	return limiter
}

// wait enforces the rate limit
func (l *domainLimiter) wait(ctx context.Context, delay time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.notBefore
	if delay > 0 && l.lastRequest.Add(delay).After(next) {
		next = l.lastRequest.Add(delay)
	}

	if waitTime := time.Until(next); waitTime > 0 {
		timer := time.NewTimer(waitTime)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return errors.FromContext(ctx).
				WithContext("wait_time", waitTime).
				Error()
		}
	}

	l.lastRequest = time.Now()
	return nil
}

// ExtractDomain extracts the host from a URL, or returns the input when it does not parse
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
