package export

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MaineStateEconomist207/pepv2024/internal/fetcher"
	"github.com/MaineStateEconomist207/pepv2024/internal/render"
)

// AssetFetcher returns the contents of a widget asset.
type AssetFetcher interface {
	Fetch(ctx context.Context, a render.Asset) ([]byte, error)
}

// HTTPAssets downloads assets from their URLs.
type HTTPAssets struct {
	Client *fetcher.HTTPFetcher
}

// Fetch implements AssetFetcher.
func (h *HTTPAssets) Fetch(ctx context.Context, a render.Asset) ([]byte, error) {
	return h.Client.Get(ctx, a.URL)
}

type fetchResult struct {
	data []byte
	err  error
}

// memoFetcher remembers each URL's outcome, failures included, so a chain
// run does not download or retry the same asset once per strategy.
type memoFetcher struct {
	next AssetFetcher

	mu   sync.Mutex
	seen map[string]fetchResult
}

func newMemoFetcher(next AssetFetcher) *memoFetcher {
	return &memoFetcher{next: next, seen: make(map[string]fetchResult)}
}

func (m *memoFetcher) Fetch(ctx context.Context, a render.Asset) ([]byte, error) {
	m.mu.Lock()
	r, ok := m.seen[a.URL]
	m.mu.Unlock()
	if ok {
		return r.data, r.err
	}

	data, err := m.next.Fetch(ctx, a)
	if ctx.Err() == nil {
		m.mu.Lock()
		m.seen[a.URL] = fetchResult{data: data, err: err}
		m.mu.Unlock()
	}
	return data, err
}

// fetchConcurrency bounds parallel asset downloads per widget.
const fetchConcurrency = 4

// fetchAll downloads every asset concurrently. Results and errors are indexed
// like assets; one failure does not stop the others.
func fetchAll(ctx context.Context, f AssetFetcher, assets []render.Asset) ([][]byte, []error) {
	data := make([][]byte, len(assets))
	errs := make([]error, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, a := range assets {
		i, a := i, a
		g.Go(func() error {
			data[i], errs[i] = f.Fetch(gctx, a)
			return nil
		})
	}
	_ = g.Wait()
	return data, errs
}
