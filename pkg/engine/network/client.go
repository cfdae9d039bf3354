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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/vfaronov/httpheader"

	"xkcdfetch/pkg/engine/logger"
	"xkcdfetch/pkg/errors"
)

// DefaultUserAgent identifies the client to the comic server
const DefaultUserAgent = "xkcdfetch/1.0 (+https://github.com/LuMiSxh/xkcdfetch)"

// Client performs GET requests with retries, backoff and per-host throttling
type Client struct {
	HTTP      *http.Client
	Retries   int
	UserAgent string
	// Throttle is the minimum gap between two requests to the same host
	Throttle time.Duration
	// InitialBackoff seeds the exponential backoff between attempts
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Logger         logger.Logger

	limiter *RateLimiter
}

// NewClient creates a client with sensible defaults
func NewClient(log logger.Logger, retries int) *Client {
	if log == nil {
		log = logger.Nop{}
	}
	return &Client{
		HTTP: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		Retries:        retries,
		UserAgent:      DefaultUserAgent,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
		Logger:         log,
		limiter:        NewRateLimiter(),
	}
}

// Get performs a GET request, retrying on transport errors, 5xx and 429.
// The caller owns the returned body. Non-retryable statuses come back as *errors.FetchError.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter == nil {
		c.limiter = NewRateLimiter()
	}

	var resp *http.Response
	attempt, lastStatus := 0, 0

	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx, url, c.Throttle); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(&errors.FetchError{URL: url, Err: err})
		}
		req.Header.Set("User-Agent", c.UserAgent)

		c.Logger.Debug("[HTTP] GET %s (attempt %d/%d)", url, attempt, c.Retries+1)

		r, err := c.HTTP.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(errors.FromContext(ctx).WithContext("url", url).Error())
			}
			return &errors.FetchError{URL: url, Err: err}
		}

		lastStatus = r.StatusCode
		if r.StatusCode >= 200 && r.StatusCode < 300 {
			resp = r
			return nil
		}

		// Drain a little of the body so the connection can be reused
		_, _ = io.CopyN(io.Discard, r.Body, 4096)
		_ = r.Body.Close()

		fetchErr := &errors.FetchError{URL: url, StatusCode: r.StatusCode, Err: fmt.Errorf("%s", http.StatusText(r.StatusCode))}
		if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
			if until := httpheader.RetryAfter(r.Header); !until.IsZero() {
				c.Logger.Debug("[HTTP] %s asked to retry after %s", url, until.Format(time.RFC3339))
				c.limiter.Defer(url, until)
			}
			return fetchErr
		}
		return backoff.Permanent(fetchErr)
	}

	notify := func(err error, wait time.Duration) {
		c.Logger.Debug("[HTTP] %v, retrying in %v", err, wait)
	}

	if err := backoff.RetryNotify(operation, c.policy(ctx), notify); err != nil {
		return nil, errors.Track(err).
			WithHTTPContext(http.MethodGet, url, lastStatus).
			WithContext("attempts", attempt).
			Error()
	}
	return resp, nil
}

func (c *Client) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.InitialBackoff > 0 {
		b.InitialInterval = c.InitialBackoff
	}
	if c.MaxBackoff > 0 {
		b.MaxInterval = c.MaxBackoff
	}
	// Attempts are bounded by Retries, not elapsed time
	b.MaxElapsedTime = 0

	retries := c.Retries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// FetchJSON fetches url and decodes the JSON body into result
func (c *Client) FetchJSON(ctx context.Context, url string, result interface{}) error {
	body, err := c.FetchBytes(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return errors.Track(&errors.FetchError{URL: url, Err: err}).
			AsParser().
			WithMessagef("Malformed JSON from %s", url).
			Error()
	}
	return nil
}

// FetchBytes fetches url and returns the whole body
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.Logger.Warn("failed to close response body: %v", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.TN(&errors.FetchError{URL: url, Err: err})
	}
	return data, nil
}
