package screenshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	s := New(Options{})
	assert.Equal(t, 2.0, s.opts.Zoom)
	assert.Equal(t, int64(1000), s.opts.Width)
	assert.Equal(t, int64(800), s.opts.Height)
	assert.Equal(t, time.Minute, s.opts.Timeout)
}

func TestFileURL(t *testing.T) {
	u, err := FileURL(filepath.Join(t.TempDir(), "top 10.html"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file:///"), u)
	assert.True(t, strings.HasSuffix(u, "/top%2010.html"), u)
}

func TestCapture_WritesPNG(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "top10.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<html></html>"), 0o644))

	s := New(Options{})
	var gotURL string
	s.run = func(_ context.Context, pageURL string, buf *[]byte) error {
		gotURL = pageURL
		*buf = []byte("\x89PNG fake")
		return nil
	}

	pngPath := filepath.Join(dir, "png", "top10.png")
	require.NoError(t, s.Capture(context.Background(), htmlPath, pngPath))

	data, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(data))
	assert.True(t, strings.HasSuffix(gotURL, "/top10.html"))
}

func TestCapture_Errors(t *testing.T) {
	dir := t.TempDir()
	s := New(Options{})
	s.run = func(context.Context, string, *[]byte) error { return errors.New("chrome not found") }

	err := s.Capture(context.Background(), filepath.Join(dir, "missing.html"), filepath.Join(dir, "x.png"))
	assert.Error(t, err)

	htmlPath := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<html></html>"), 0o644))
	err = s.Capture(context.Background(), htmlPath, filepath.Join(dir, "x.png"))
	assert.ErrorContains(t, err, "chrome not found")

	s.run = func(context.Context, string, *[]byte) error { return nil }
	err = s.Capture(context.Background(), htmlPath, filepath.Join(dir, "x.png"))
	assert.ErrorContains(t, err, "empty capture")
	assert.NoFileExists(t, filepath.Join(dir, "x.png"))
}

func TestCaptureTasks(t *testing.T) {
	var buf []byte
	tasks := captureTasks("file:///tmp/x.html", New(Options{}).opts, &buf)
	assert.Len(t, tasks, 5)
}
