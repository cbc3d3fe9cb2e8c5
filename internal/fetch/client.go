// Package fetch performs the small, rate limited GET requests against the
// broadcaster's API and image servers.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly"
	"golang.org/x/time/rate"
)

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected status")

// StatusError carries the status code of a failed request.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s: %d %s", e.URL, ErrStatus, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client issues GET requests through a colly collector. Every request waits
// for the shared rate limiter first.
type Client struct {
	collector *colly.Collector
	limiter   *rate.Limiter
}

// Options configures a Client.
type Options struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

func NewClient(opts Options) *Client {
	collectorOpts := []func(*colly.Collector){
		colly.AllowURLRevisit(),
		colly.Async(false),
	}
	if opts.UserAgent != "" {
		collectorOpts = append(collectorOpts, colly.UserAgent(opts.UserAgent))
	}

	c := colly.NewCollector(collectorOpts...)
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		collector: c,
		limiter:   rate.NewLimiter(limit, max(opts.Burst, 1)),
	}
}

// Get fetches url. Responses with a status outside 2xx are returned as a
// *StatusError.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// A clone shares the transport but not the callbacks, so concurrent
	// requests do not see each other's responses.
	collector := c.collector.Clone()

	var resp *Response
	collector.OnResponse(func(r *colly.Response) {
		resp = newResponse(r)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			resp = newResponse(r)
		}
	})

	err := collector.Visit(url)
	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("request %s: no response", url)
	}

	return resp, nil
}

func newResponse(r *colly.Response) *Response {
	resp := &Response{
		StatusCode: r.StatusCode,
		Body:       r.Body,
	}
	if r.Headers != nil {
		resp.Header = *r.Headers
	}
	return resp
}
