// Package render turns cleaned frames and joined polygons into interactive
// HTML widgets backed by DataTables and Leaflet.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// ErrUnsafeDecoration is returned when decoration CSS would close its
// enclosing style element.
var ErrUnsafeDecoration = eris.New("render: decoration closes style element")

// AssetKind distinguishes scripts from stylesheets.
type AssetKind int

// Asset kinds.
const (
	Script AssetKind = iota
	Stylesheet
)

// Asset is a third-party file a widget needs at display time.
type Asset struct {
	Name string // file name used when bundled, e.g. "jquery.min.js"
	URL  string
	Kind AssetKind
}

// Widget is a rendered table or map, ready to be written as a document.
type Widget struct {
	Title string
	// Decoration is extra CSS styling the widget's surroundings.
	Decoration string
	Body       template.HTML
	Script     template.JS
	Assets     []Asset
}

// Undecorated returns a copy of the widget without its decoration.
func (w *Widget) Undecorated() *Widget {
	out := *w
	out.Decoration = ""
	out.Assets = append([]Asset(nil), w.Assets...)
	return &out
}

// Source says how a document references one asset: inline when Content is
// set, by Href otherwise.
type Source struct {
	Asset   Asset
	Href    string
	Content []byte
}

// RemoteSources references every asset by its URL.
func RemoteSources(assets []Asset) []Source {
	out := make([]Source, len(assets))
	for i, a := range assets {
		out[i] = Source{Asset: a, Href: a.URL}
	}
	return out
}

type pageSource struct {
	Href   string
	Inline bool
	CSS    template.CSS
	JS     template.JS
}

// WriteHTML writes the widget as a complete HTML document.
func (w *Widget) WriteHTML(out io.Writer, sources []Source) error {
	if strings.Contains(strings.ToLower(w.Decoration), "</style") {
		return ErrUnsafeDecoration
	}

	data := struct {
		Title      string
		Decoration template.CSS
		Styles     []pageSource
		Scripts    []pageSource
		Body       template.HTML
		Script     template.JS
	}{
		Title:      w.Title,
		Decoration: template.CSS(w.Decoration),
		Body:       w.Body,
		Script:     w.Script,
	}

	for _, s := range sources {
		ps := pageSource{Href: s.Href, Inline: s.Content != nil}
		switch s.Asset.Kind {
		case Stylesheet:
			if ps.Inline {
				ps.CSS = template.CSS(GuardClose(s.Content))
			}
			data.Styles = append(data.Styles, ps)
		default:
			if ps.Inline {
				ps.JS = template.JS(GuardClose(s.Content))
			}
			data.Scripts = append(data.Scripts, ps)
		}
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return eris.Wrap(err, "render: execute page template")
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return eris.Wrap(err, "render: write page")
	}
	return nil
}

// closingTag matches end tags that would terminate an inline element.
var closingTag = regexp.MustCompile(`(?i)</(script|style)`)

// GuardClose escapes closing tags inside inlined content so the enclosing
// element is not terminated early.
func GuardClose(content []byte) string {
	return closingTag.ReplaceAllString(string(content), `<\/$1`)
}
