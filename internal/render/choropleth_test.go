package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/MaineStateEconomist207/pepv2024/internal/geo"
	"github.com/MaineStateEconomist207/pepv2024/internal/model"
)

func unitSquare(x float64) *geom.MultiPolygon {
	ring := geom.NewLinearRingFlat(geom.XY, []float64{x, 0, x, 1, x + 1, 1, x + 1, 0, x, 0})
	poly := geom.NewPolygon(geom.XY)
	_ = poly.Push(ring)
	mp := geom.NewMultiPolygon(geom.XY)
	_ = mp.Push(poly)
	return mp
}

func testJoined() []geo.Joined {
	features := []geo.Feature{
		{GEOID: "2300102060", Name: "Auburn", CountyFP: "001", Geometry: unitSquare(0)},
		{GEOID: "2300199999", Name: "Unorganized", CountyFP: "001", Geometry: unitSquare(1)},
	}
	records := []model.TownRecord{{
		GEOID:         "2300102060",
		Name:          "Auburn city",
		County:        "Androscoggin County",
		Population:    model.Number{Value: 24866, Valid: true},
		NumericChange: model.Number{Value: 215, Valid: true},
		PercentChange: model.Number{Value: 0.87, Valid: true},
	}}
	return geo.Join(features, records)
}

func TestTooltip(t *testing.T) {
	joined := testJoined()

	tip, err := Tooltip(joined[0])
	require.NoError(t, err)
	assert.Contains(t, tip, "<strong>Auburn city</strong>")
	assert.Contains(t, tip, "Androscoggin County")
	assert.Contains(t, tip, "24,866")
	assert.Contains(t, tip, "color: #1a9850")
	assert.Contains(t, tip, "▲ 215 (0.87%)")
	assert.Contains(t, tip, "Gain&gt;100")

	missing, err := Tooltip(joined[1])
	require.NoError(t, err)
	assert.Contains(t, missing, "<strong>Unorganized</strong>")
	assert.Contains(t, missing, "County: NA")
	assert.Contains(t, missing, "► NA (NA)")
	assert.Contains(t, missing, "color: #7f7f7f")
	assert.Contains(t, missing, "Class: missing")
}

func TestChangeGlyph(t *testing.T) {
	g, c := ChangeGlyph(model.Number{Value: -3, Valid: true})
	assert.Equal(t, GlyphDown, g)
	assert.Equal(t, ColorDown, c)

	g, c = ChangeGlyph(model.Number{Value: 0, Valid: true})
	assert.Equal(t, GlyphNeutral, g)
	assert.Equal(t, ColorNeutral, c)
}

func TestTownCollection(t *testing.T) {
	fc, err := townCollection(testJoined())
	require.NoError(t, err)

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	var decoded geojson.FeatureCollection
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Features, 2)

	matched := decoded.Features[0]
	assert.Equal(t, "2300102060", matched.ID)
	assert.Equal(t, geo.GainOver100.Color, matched.Properties["color"])
	assert.Equal(t, []interface{}{0.5, 0.5}, matched.Properties["anchor"])
	_, ok := matched.Geometry.(*geom.MultiPolygon)
	assert.True(t, ok)

	unmatched := decoded.Features[1]
	assert.Equal(t, geo.Missing.Color, unmatched.Properties["color"])
	assert.Equal(t, "missing", unmatched.Properties["bucket"])
}

func TestRenderChoropleth(t *testing.T) {
	joined := testJoined()
	features := []geo.Feature{joined[0].Feature, joined[1].Feature}

	w, err := RenderChoropleth(joined, geo.Dissolve(features, geo.ByCounty), MapSpec{
		Title:   "Maine Town Population Change, 2023-2024",
		TileURL: "https://tiles.example.com/{z}/{x}/{y}.png",
	})
	require.NoError(t, err)

	assert.Contains(t, string(w.Body), `<div id="pep-map" style="height: 720px; width: 100%;"></div>`)
	assert.Contains(t, string(w.Body), "Maine Town Population Change, 2023-2024")

	script := string(w.Script)
	assert.Contains(t, script, `L.map("pep-map")`)
	assert.Contains(t, script, `"https://tiles.example.com/{z}/{x}/{y}.png"`)
	for _, b := range geo.Legend() {
		assert.Contains(t, script, b.Color)
	}
	assert.Contains(t, script, `"MultiLineString"`)
	assert.NotContains(t, script, "</", "inline data must not close the script element")
	assert.Equal(t, MapAssets(), w.Assets)
}
