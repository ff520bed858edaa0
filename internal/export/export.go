// Package export writes rendered widgets to disk, falling back through
// progressively weaker strategies when a self-contained file cannot be made.
package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MaineStateEconomist207/pepv2024/internal/render"
)

// Strategy writes a widget to dest.
type Strategy interface {
	Name() string
	Export(ctx context.Context, w *render.Widget, dest string) (*Result, error)
}

// Result describes a written artifact.
type Result struct {
	Path          string
	Strategy      string
	SelfContained bool
	AssetsDir     string   // set when assets live next to the file
	Missing       []string // assets still referenced remotely
}

// Attempt records one strategy's outcome.
type Attempt struct {
	Strategy string
	Err      error
}

// Report is the outcome of a chain export.
type Report struct {
	Dest     string
	Result   *Result
	Attempts []Attempt
}

// Degraded reports whether the artifact was written but is not a single
// self-contained file.
func (r *Report) Degraded() bool {
	return r.Result != nil && !r.Result.SelfContained
}

// Chain tries strategies in order and stops at the first success.
type Chain struct {
	strategies []Strategy
}

// NewChain creates a Chain over the given strategies.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// DefaultChain returns the self-contained, undecorated, bundled ladder.
// Asset downloads are shared between strategies.
func DefaultChain(assets AssetFetcher, tempDir string) *Chain {
	memo := newMemoFetcher(assets)
	primary := &SelfContained{Assets: memo}
	return NewChain(
		primary,
		&Undecorated{Next: primary},
		&Bundled{Assets: memo, TempDir: tempDir},
	)
}

// Export writes w to dest. The returned report lists every attempt; an error
// is returned only when no strategy produced a file.
func (c *Chain) Export(ctx context.Context, w *render.Widget, dest string) (*Report, error) {
	log := zap.L().With(zap.String("component", "export"), zap.String("dest", dest))
	report := &Report{Dest: dest}

	if err := ensureDir(filepath.Dir(dest)); err != nil {
		return report, err
	}

	var lastErr error
	for _, s := range c.strategies {
		res, err := s.Export(ctx, w, dest)
		if err == nil && res == nil {
			err = eris.Errorf("export: strategy %s returned no result", s.Name())
		}
		report.Attempts = append(report.Attempts, Attempt{Strategy: s.Name(), Err: err})

		if err == nil {
			report.Result = res
			if res.SelfContained {
				log.Info("export: wrote artifact", zap.String("strategy", s.Name()))
			} else {
				log.Warn("export: wrote non-self-contained artifact",
					zap.String("strategy", s.Name()),
					zap.String("assets_dir", res.AssetsDir),
					zap.Strings("missing", res.Missing),
				)
			}
			return report, nil
		}

		lastErr = err
		log.Warn("export: strategy failed, trying next",
			zap.String("strategy", s.Name()),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			return report, eris.Wrap(ctx.Err(), "export: cancelled")
		}
	}

	if lastErr == nil {
		return report, eris.New("export: no strategies configured")
	}
	return report, eris.Wrapf(lastErr, "export: all strategies failed for %s", dest)
}

// ensureDir creates dir if it does not exist.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create directory %s", dir)
	}
	return nil
}
