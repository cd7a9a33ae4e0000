// Package health probes the backend's HTTP health endpoint. Results are
// informational; they never change supervisor state.
package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultPath is the backend's health endpoint.
const DefaultPath = "/api/pos/health"

// URL builds the probe address for a backend on localhost.
func URL(port uint16, path string) string {
	return fmt.Sprintf("http://localhost:%d%s", port, path)
}

// Result is the outcome of one probe.
type Result struct {
	URL        string
	Reachable  bool
	StatusCode int
	Latency    time.Duration
	Err        error
	CheckedAt  time.Time
}

func (r Result) String() string {
	switch {
	case r.Reachable:
		return fmt.Sprintf("healthy (%d in %s)", r.StatusCode, r.Latency.Round(time.Millisecond))
	case r.Err != nil:
		return "unreachable"
	default:
		return fmt.Sprintf("unhealthy (%d)", r.StatusCode)
	}
}

// Observer is notified of every completed probe.
type Observer interface {
	ObserveHealth(r Result)
}

// Checker issues GET requests against a fixed URL.
type Checker struct {
	url      string
	client   *http.Client
	observer Observer
}

func NewChecker(url string, timeout time.Duration) *Checker {
	return &Checker{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// WithObserver returns c reporting every probe to o.
func (c *Checker) WithObserver(o Observer) *Checker {
	c.observer = o
	return c
}

func (c *Checker) URL() string {
	return c.url
}

// Check probes the endpoint once. Any 2xx response counts as reachable.
func (c *Checker) Check(ctx context.Context) Result {
	res := Result{URL: c.url, CheckedAt: time.Now()}
	defer func() {
		if c.observer != nil {
			c.observer.ObserveHealth(res)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		res.Err = errors.Wrap(err, "build health request")
		return res
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	res.Latency = time.Since(start)
	if err != nil {
		res.Err = errors.Wrap(err, "health request")
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	res.StatusCode = resp.StatusCode
	res.Reachable = resp.StatusCode >= 200 && resp.StatusCode < 300
	return res
}
