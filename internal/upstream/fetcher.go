package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/statline/nginx-exporter/internal/pkg/httpclient"
)

// Typed fetch failures. The caller classifies with errors.Is; no retries
// happen at this layer.
var (
	ErrUnreachable = errors.New("upstream unreachable")
	ErrTimeout     = errors.New("upstream timeout")
	ErrBadStatus   = errors.New("upstream returned non-2xx status")
)

// stub_status payloads are a few hundred bytes; anything close to this
// limit is not a status page.
const maxBodySize = 64 << 10

// Fetcher retrieves the raw status payload. Tests substitute a fake to
// avoid network I/O.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPFetcher fetches the stub_status page over plain HTTP with a
// bounded per-request timeout.
type HTTPFetcher struct {
	client  *httpclient.Client
	url     string
	timeout time.Duration
}

func NewHTTPFetcher(client *httpclient.Client, url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:  client,
		url:     url,
		timeout: timeout,
	}
}

// Fetch performs one GET against the status URL. The given context is
// honored so an aborted scrape cancels the in-flight request.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.Get(ctx, f.url)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return "", fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", classify(err)
	}
	return string(body), nil
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
