package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MaineStateEconomist207/pepv2024/internal/render"
)

// SelfContained inlines every asset into a single file.
type SelfContained struct {
	Assets AssetFetcher
}

// Name implements Strategy.
func (s *SelfContained) Name() string { return "selfcontained" }

// Export implements Strategy.
func (s *SelfContained) Export(ctx context.Context, w *render.Widget, dest string) (*Result, error) {
	data, errs := fetchAll(ctx, s.Assets, w.Assets)
	sources := make([]render.Source, 0, len(w.Assets))
	for i, a := range w.Assets {
		if errs[i] != nil {
			return nil, eris.Wrapf(errs[i], "export: fetch asset %s", a.Name)
		}
		sources = append(sources, render.Source{Asset: a, Content: data[i]})
	}

	var buf bytes.Buffer
	if err := w.WriteHTML(&buf, sources); err != nil {
		return nil, err
	}
	if err := writeAtomic(dest, buf.Bytes()); err != nil {
		return nil, err
	}
	return &Result{Path: dest, Strategy: s.Name(), SelfContained: true}, nil
}

// Undecorated retries Next with the widget's decoration removed.
type Undecorated struct {
	Next Strategy
}

// Name implements Strategy.
func (u *Undecorated) Name() string { return "undecorated" }

// Export implements Strategy.
func (u *Undecorated) Export(ctx context.Context, w *render.Widget, dest string) (*Result, error) {
	if w.Decoration == "" {
		return nil, eris.New("export: widget has no decoration to drop")
	}
	res, err := u.Next.Export(ctx, w.Undecorated(), dest)
	if err != nil {
		return nil, err
	}
	res.Strategy = u.Name()
	return res, nil
}

// Bundled writes the document and an assets directory to a temporary
// location, then inlines the local assets. When some asset could not be
// downloaded the document and its assets directory are copied to the
// destination instead and the result is not self-contained.
type Bundled struct {
	Assets  AssetFetcher
	TempDir string // empty uses the system default
}

// Name implements Strategy.
func (b *Bundled) Name() string { return "bundled" }

// Export implements Strategy.
func (b *Bundled) Export(ctx context.Context, w *render.Widget, dest string) (*Result, error) {
	if b.TempDir != "" {
		if err := ensureDir(b.TempDir); err != nil {
			return nil, err
		}
	}
	tmp, err := os.MkdirTemp(b.TempDir, "pep-export-*")
	if err != nil {
		return nil, eris.Wrap(err, "export: create temp dir")
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	base := strings.TrimSuffix(filepath.Base(dest), filepath.Ext(dest))
	filesDir := base + "_files"
	if err := ensureDir(filepath.Join(tmp, filesDir)); err != nil {
		return nil, err
	}

	var missing []string
	sources := make([]render.Source, 0, len(w.Assets))
	data, errs := fetchAll(ctx, b.Assets, w.Assets)
	if ctx.Err() != nil {
		return nil, eris.Wrap(ctx.Err(), "export: cancelled")
	}
	for i, a := range w.Assets {
		if errs[i] != nil {
			missing = append(missing, a.Name)
			sources = append(sources, render.Source{Asset: a, Href: a.URL})
			continue
		}
		if err := os.WriteFile(filepath.Join(tmp, filesDir, a.Name), data[i], 0o644); err != nil {
			return nil, eris.Wrapf(err, "export: write asset %s", a.Name)
		}
		sources = append(sources, render.Source{Asset: a, Href: filesDir + "/" + a.Name})
	}

	var doc bytes.Buffer
	if err := w.WriteHTML(&doc, sources); err != nil {
		return nil, err
	}
	tmpDoc := filepath.Join(tmp, base+".html")
	if err := os.WriteFile(tmpDoc, doc.Bytes(), 0o644); err != nil {
		return nil, eris.Wrap(err, "export: write temp document")
	}

	inlined, inlineErr := InlineLocal(doc.Bytes(), tmp)
	if inlineErr == nil {
		if err := writeAtomic(dest, inlined); err != nil {
			return nil, err
		}
		return &Result{Path: dest, Strategy: b.Name(), SelfContained: true}, nil
	}

	zap.L().Warn("export: inlining unavailable, copying bundle",
		zap.String("component", "export"),
		zap.String("dest", dest),
		zap.Error(inlineErr),
	)

	assetsDir := filepath.Join(filepath.Dir(dest), filesDir)
	if err := os.RemoveAll(assetsDir); err != nil {
		return nil, eris.Wrapf(err, "export: clear %s", assetsDir)
	}
	if err := copyDir(filepath.Join(tmp, filesDir), assetsDir); err != nil {
		return nil, err
	}
	if err := copyFile(tmpDoc, dest); err != nil {
		return nil, err
	}

	return &Result{
		Path:      dest,
		Strategy:  b.Name(),
		AssetsDir: assetsDir,
		Missing:   missing,
	}, nil
}
