// Package screenshot rasterizes exported HTML reports to PNG with headless
// Chrome.
package screenshot

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options configures the browser used for captures.
type Options struct {
	Zoom       float64 // device scale factor
	Width      int64
	Height     int64
	Timeout    time.Duration
	ChromePath string        // empty finds Chrome on PATH
	Settle     time.Duration // wait after load for scripts to draw
}

// Shooter captures full-page screenshots of local HTML files.
type Shooter struct {
	opts Options
	run  func(ctx context.Context, pageURL string, buf *[]byte) error
}

// New creates a Shooter. Zero options fall back to a 1000x800 viewport at
// zoom 2 with a one minute timeout.
func New(opts Options) *Shooter {
	if opts.Zoom <= 0 {
		opts.Zoom = 2
	}
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if opts.Settle <= 0 {
		opts.Settle = 500 * time.Millisecond
	}
	s := &Shooter{opts: opts}
	s.run = s.runChrome
	return s
}

// Capture renders htmlPath and writes a PNG of the full page to pngPath.
func (s *Shooter) Capture(ctx context.Context, htmlPath, pngPath string) error {
	pageURL, err := FileURL(htmlPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(htmlPath); err != nil {
		return eris.Wrapf(err, "screenshot: stat %s", htmlPath)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	var buf []byte
	if err := s.run(ctx, pageURL, &buf); err != nil {
		return eris.Wrapf(err, "screenshot: capture %s", htmlPath)
	}
	if len(buf) == 0 {
		return eris.Errorf("screenshot: empty capture of %s", htmlPath)
	}

	if err := os.MkdirAll(filepath.Dir(pngPath), 0o755); err != nil {
		return eris.Wrapf(err, "screenshot: create directory for %s", pngPath)
	}
	if err := os.WriteFile(pngPath, buf, 0o644); err != nil {
		return eris.Wrapf(err, "screenshot: write %s", pngPath)
	}

	zap.L().Info("screenshot: wrote png",
		zap.String("component", "screenshot"),
		zap.String("path", pngPath),
		zap.Int("bytes", len(buf)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (s *Shooter) runChrome(ctx context.Context, pageURL string, buf *[]byte) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(int(s.opts.Width), int(s.opts.Height)),
	)
	if s.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.opts.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	return chromedp.Run(browserCtx, captureTasks(pageURL, s.opts, buf))
}

// captureTasks loads the page at the configured viewport and zoom, lets its
// scripts settle, then captures the full page as PNG.
func captureTasks(pageURL string, opts Options, buf *[]byte) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.EmulateViewport(opts.Width, opts.Height, chromedp.EmulateScale(opts.Zoom)),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(opts.Settle),
		chromedp.FullScreenshot(buf, 100),
	}
}

// FileURL converts a local path to an absolute file:// URL.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", eris.Wrapf(err, "screenshot: resolve %s", path)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
