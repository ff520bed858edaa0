package render

import (
	"bytes"
	"encoding/json"
	"html/template"
	texttemplate "text/template"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
	"github.com/MaineStateEconomist207/pepv2024/internal/geo"
	"github.com/MaineStateEconomist207/pepv2024/internal/model"
)

var (
	mapScriptTmpl = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/choropleth.js.tmpl"))
	tooltipTmpl   = template.Must(template.ParseFS(templateFS, "templates/tooltip.html.tmpl"))
	mapBodyTmpl   = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))
)

// Change glyphs and colors used in tooltips.
const (
	GlyphUp      = "▲"
	GlyphDown    = "▼"
	GlyphNeutral = "►"

	ColorUp      = "#1a9850"
	ColorDown    = "#d73027"
	ColorNeutral = "#7f7f7f"
)

// MapSpec configures RenderChoropleth.
type MapSpec struct {
	ID          string
	Title       string
	LegendTitle string
	TileURL     string
	Attribution string
	Height      int // pixels
}

type legendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// RenderChoropleth renders joined town polygons as a Leaflet map: a fill
// layer colored by bucket, the county outlines on top, a tooltip per town and
// a legend listing every bucket.
func RenderChoropleth(joined []geo.Joined, outlines []geo.Outline, spec MapSpec) (*Widget, error) {
	if spec.ID == "" {
		spec.ID = "pep-map"
	}
	if spec.Height <= 0 {
		spec.Height = 720
	}
	if spec.LegendTitle == "" {
		spec.LegendTitle = model.ColNumericChange
	}

	towns, err := townCollection(joined)
	if err != nil {
		return nil, err
	}
	borders := outlineCollection(outlines)

	legend := make([]legendEntry, 0, len(geo.Legend()))
	for _, b := range geo.Legend() {
		legend = append(legend, legendEntry{Label: b.Label, Color: b.Color})
	}

	data := map[string]any{
		"ID":          spec.ID,
		"TileURL":     spec.TileURL,
		"Attribution": spec.Attribution,
		"LegendTitle": spec.LegendTitle,
		"Towns":       towns,
		"Outlines":    borders,
		"Legend":      legend,
	}
	encoded := make(map[string]string, len(data))
	for k, v := range data {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, eris.Wrapf(err, "render: marshal map %s", k)
		}
		encoded[k] = string(b)
	}

	var script bytes.Buffer
	if err := mapScriptTmpl.Execute(&script, encoded); err != nil {
		return nil, eris.Wrap(err, "render: execute map script template")
	}

	var body bytes.Buffer
	err = mapBodyTmpl.Execute(&body, struct {
		ID     string
		Title  string
		Height int
	}{spec.ID, spec.Title, spec.Height})
	if err != nil {
		return nil, eris.Wrap(err, "render: execute map body template")
	}

	zap.L().Debug("rendered choropleth",
		zap.String("component", "render"),
		zap.Int("towns", len(towns.Features)),
		zap.Int("outlines", len(borders.Features)),
	)

	return &Widget{
		Title:      spec.Title,
		Decoration: mapDecoration,
		Body:       template.HTML(body.String()),
		Script:     template.JS(script.String()),
		Assets:     MapAssets(),
	}, nil
}

func townCollection(joined []geo.Joined) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(joined))}
	for _, j := range joined {
		props, err := townProperties(j)
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         j.Feature.GEOID,
			Geometry:   j.Feature.Geometry,
			Properties: props,
		})
	}
	return fc, nil
}

func outlineCollection(outlines []geo.Outline) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(outlines))}
	for _, o := range outlines {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         o.Key,
			Geometry:   o.Geometry,
			Properties: map[string]interface{}{"county": o.Key},
		})
	}
	return fc
}

func townProperties(j geo.Joined) (map[string]interface{}, error) {
	props := map[string]interface{}{
		"bucket": j.Bucket.Label,
		"color":  j.Bucket.Color,
	}
	if c, err := j.Feature.Centroid(); err == nil {
		props["anchor"] = []float64{c.X(), c.Y()}
	}

	tip, err := Tooltip(j)
	if err != nil {
		return nil, err
	}
	props["tooltip"] = tip
	return props, nil
}

// Tooltip renders the hover text for one town. Towns without a record show
// NA for every value.
func Tooltip(j geo.Joined) (string, error) {
	name := j.Feature.Name
	var rec model.TownRecord
	if j.Record != nil {
		rec = *j.Record
		if rec.Name != "" {
			name = rec.Name
		}
	}

	glyph, color := ChangeGlyph(rec.NumericChange)
	data := struct {
		Name          string
		County        string
		Population    string
		NumericChange string
		PercentChange string
		Glyph         string
		Color         template.CSS
		Bucket        string
	}{
		Name:          name,
		County:        orNA(rec.County),
		Population:    FormatThousands.Apply(numberValue(rec.Population)),
		NumericChange: FormatThousands.Apply(numberValue(rec.NumericChange)),
		PercentChange: FormatPercent(2).Apply(numberValue(rec.PercentChange)),
		Glyph:         glyph,
		Color:         template.CSS(color),
		Bucket:        j.Bucket.Label,
	}

	var buf bytes.Buffer
	if err := tooltipTmpl.Execute(&buf, data); err != nil {
		return "", eris.Wrapf(err, "render: tooltip for %s", j.Feature.GEOID)
	}
	return buf.String(), nil
}

// ChangeGlyph returns the arrow and color for the sign of a change.
func ChangeGlyph(n model.Number) (string, string) {
	switch n.Sign() {
	case 1:
		return GlyphUp, ColorUp
	case -1:
		return GlyphDown, ColorDown
	default:
		return GlyphNeutral, ColorNeutral
	}
}

func numberValue(n model.Number) frame.Value {
	if !n.Valid {
		return frame.NA()
	}
	return frame.Num(n.Value)
}

func orNA(s string) string {
	if s == "" {
		return NAText
	}
	return s
}

const mapDecoration = `body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 0; }
.pep-title { margin: 12px 16px; font-size: 1.3em; }
.pep-legend { background: rgba(255,255,255,0.9); padding: 8px 10px; border-radius: 4px; line-height: 18px; color: #333; }
.pep-legend i { width: 16px; height: 16px; float: left; margin-right: 8px; opacity: 0.85; }`
