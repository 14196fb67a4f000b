package intake

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/claimsure/internal/model"
	"github.com/ppiankov/claimsure/internal/util"
)

const (
	maxFetchAttempts = 3
	maxRedirects     = 3
)

// fetchBackoff is the wait before the second attempt; later attempts wait
// proportionally longer. Tests shrink it.
var fetchBackoff = time.Second

// Fetcher retrieves claim documents from a claims portal over HTTP(S)
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a Fetcher. Empty proxy settings fall back to the
// standard proxy environment variables.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, httpProxy, httpsProxy, noProxy string) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(httpProxy, httpsProxy, noProxy)

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch downloads the document at rawURL. Bodies longer than the size cap
// are rejected rather than truncated, since a cut JSON document never decodes.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, application/x-ndjson;q=0.9, */*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("read body: response exceeds %d bytes", f.maxBytes)
	}
	return body, nil
}

// FetchWithRetry retries transient failures (5xx, 429 and connection errors)
// with linear backoff, up to three attempts in total.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		body, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < maxFetchAttempts {
			if err := backoff(ctx, time.Duration(attempt)*fetchBackoff); err != nil {
				return nil, fmt.Errorf("retry %s: %w", rawURL, err)
			}
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxFetchAttempts, lastErr)
}

func backoff(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FetchClaims downloads and decodes every claim at rawURL
func (f *Fetcher) FetchClaims(ctx context.Context, rawURL string) ([]model.Claim, error) {
	body, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	claims, err := DecodeAll(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawURL, err)
	}
	return claims, nil
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "unexpected status: ") {
		var code int
		if _, scanErr := fmt.Sscanf(msg, "unexpected status: %d", &code); scanErr != nil {
			return false
		}
		return code == http.StatusTooManyRequests || code >= 500
	}
	return strings.HasPrefix(msg, "fetch: ")
}

// IsURL reports whether src names an http or https resource
func IsURL(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Loader resolves a claim source (file, directory or URL) into claims
type Loader struct {
	Fetcher     *Fetcher
	Concurrency int // files read at once from a directory
}

// Load dispatches on the kind of source
func (l *Loader) Load(ctx context.Context, src string) ([]model.Claim, error) {
	if IsURL(src) {
		if l.Fetcher == nil {
			return nil, fmt.Errorf("no fetcher configured for %s", src)
		}
		return l.Fetcher.FetchClaims(ctx, src)
	}

	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("stat claim source: %w", err)
	}
	if info.IsDir() {
		return ReadDir(ctx, src, l.Concurrency)
	}
	return ReadFile(src)
}
