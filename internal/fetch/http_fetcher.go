package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/pickline/aggregator/internal/platform/logging"
)

// HTTPFetcher retrieves pages with a pooled fasthttp client for low
// per-request overhead across many source URLs.
type HTTPFetcher struct {
	client    *fasthttp.Client
	userAgent string
	timeout   time.Duration
	logger    *logging.Logger
}

func NewHTTPFetcher(userAgent string, timeout time.Duration, logger *logging.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 90 * time.Second,
		},
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url, etag string) (Result, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(f.userAgent)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	deadline := time.Now().Add(f.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := f.client.DoDeadline(req, resp, deadline); err != nil {
		return Result{}, fmt.Errorf("fetch: GET %s: %w", url, err)
	}

	fetchedAt := time.Now().UTC()
	status := resp.StatusCode()
	if status == fasthttp.StatusNotModified {
		return Result{URL: url, StatusCode: status, NotModified: true, FetchedAt: fetchedAt}, nil
	}
	if status != fasthttp.StatusOK {
		return Result{URL: url, StatusCode: status, FetchedAt: fetchedAt}, fmt.Errorf("fetch: GET %s: unexpected status %d", url, status)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.Write(resp.Body()); err != nil {
		return Result{}, fmt.Errorf("fetch: buffer body for %s: %w", url, err)
	}
	body := make([]byte, buf.Len())
	copy(body, buf.Bytes())

	return Result{
		URL:        url,
		Body:       body,
		StatusCode: status,
		FetchedAt:  fetchedAt,
	}, nil
}
