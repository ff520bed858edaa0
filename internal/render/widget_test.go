package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWidget() *Widget {
	return &Widget{
		Title:      "Towns & Cities",
		Decoration: "body { margin: 0; }",
		Body:       `<div id="w"></div>`,
		Script:     `console.log("ready");`,
		Assets: []Asset{
			{Name: "a.css", URL: "https://cdn.example.com/a.css", Kind: Stylesheet},
			{Name: "a.js", URL: "https://cdn.example.com/a.js", Kind: Script},
		},
	}
}

func TestWriteHTML_Remote(t *testing.T) {
	w := testWidget()
	var buf bytes.Buffer
	require.NoError(t, w.WriteHTML(&buf, RemoteSources(w.Assets)))

	html := buf.String()
	assert.Contains(t, html, "<title>Towns &amp; Cities</title>")
	assert.Contains(t, html, `<link rel="stylesheet" href="https://cdn.example.com/a.css">`)
	assert.Contains(t, html, `<script src="https://cdn.example.com/a.js"></script>`)
	assert.Contains(t, html, "<style>body { margin: 0; }</style>")
	assert.Contains(t, html, `<div id="w"></div>`)
	assert.Contains(t, html, `<script>console.log("ready");</script>`)
	assert.Less(t, strings.Index(html, "a.js"), strings.Index(html, `console.log`))
}

func TestWriteHTML_Inline(t *testing.T) {
	w := testWidget()
	sources := []Source{
		{Asset: w.Assets[0], Content: []byte(".x { color: red; }")},
		{Asset: w.Assets[1], Content: []byte(`var s = "</script>";`)},
	}
	var buf bytes.Buffer
	require.NoError(t, w.WriteHTML(&buf, sources))

	html := buf.String()
	assert.Contains(t, html, "<style>.x { color: red; }</style>")
	assert.Contains(t, html, `<script>var s = "<\/script>";</script>`)
	assert.NotContains(t, html, "cdn.example.com")
}

func TestWriteHTML_UnsafeDecoration(t *testing.T) {
	w := testWidget()
	w.Decoration = "</STYLE><script>alert(1)</script>"
	err := w.WriteHTML(&bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, ErrUnsafeDecoration)

	var buf bytes.Buffer
	require.NoError(t, w.Undecorated().WriteHTML(&buf, nil))
	assert.NotContains(t, buf.String(), "alert(1)")
}

func TestUndecorated(t *testing.T) {
	w := testWidget()
	u := w.Undecorated()

	assert.Empty(t, u.Decoration)
	assert.Equal(t, w.Body, u.Body)
	assert.Equal(t, w.Assets, u.Assets)
	assert.NotEmpty(t, w.Decoration, "original keeps its decoration")
}

func TestGuardClose(t *testing.T) {
	assert.Equal(t, `a<\/script>b<\/Style>`, GuardClose([]byte("a</script>b</Style>")))
	assert.Equal(t, "plain", GuardClose([]byte("plain")))
}
