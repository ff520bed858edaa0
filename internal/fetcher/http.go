package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/MaineStateEconomist207/pepv2024/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	CacheDir   string // optional on-disk cache keyed by URL
	MaxBytes   int64  // response size cap, default 16 MiB
}

// HTTPFetcher downloads small static files (scripts, stylesheets) with retry,
// a per-host rate limit and an optional on-disk cache.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "pepv2024/1.0"
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = 16 << 20
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (f *HTTPFetcher) limiterFor(rawURL string) *rate.Limiter {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(10, 10)
		f.limiters[host] = lim
	}
	return lim
}

// Get returns the body of rawURL, serving from the cache when possible.
func (f *HTTPFetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if data, ok := f.readCache(rawURL); ok {
		return data, nil
	}

	policy := resilience.AssetPolicy()
	policy.Attempts = f.opts.MaxRetries
	policy.OnRetry = resilience.RetryLogger("http", rawURL)

	data, err := resilience.Get(ctx, policy, func(ctx context.Context) ([]byte, error) {
		return f.get(ctx, rawURL)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "http: get %s", rawURL)
	}

	f.writeCache(rawURL, data)
	return data, nil
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiterFor(rawURL).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("unexpected status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			te := resilience.NewTransientError(statusErr, resp.StatusCode)
			te.RetryAfter, _ = resilience.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
			return nil, te
		}
		return nil, statusErr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}
	if int64(len(data)) > f.opts.MaxBytes {
		return nil, eris.Errorf("response exceeds %d bytes", f.opts.MaxBytes)
	}
	return data, nil
}

func (f *HTTPFetcher) cachePath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(f.opts.CacheDir, hex.EncodeToString(sum[:])+filepath.Ext(rawURL))
}

func (f *HTTPFetcher) readCache(rawURL string) ([]byte, bool) {
	if f.opts.CacheDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(f.cachePath(rawURL))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (f *HTTPFetcher) writeCache(rawURL string, data []byte) {
	if f.opts.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(f.opts.CacheDir, 0o755); err != nil {
		zap.L().Debug("http: cache dir unavailable", zap.Error(err))
		return
	}
	if err := os.WriteFile(f.cachePath(rawURL), data, 0o644); err != nil {
		zap.L().Debug("http: cache write failed", zap.String("url", rawURL), zap.Error(err))
	}
}
