package geo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

type testTown struct {
	geoid, name, countyFP, stateFP string
	rings                          [][]shp.Point
}

// square returns a clockwise unit square with its lower-left corner at x,y.
func square(x, y float64) []shp.Point {
	return []shp.Point{{X: x, Y: y}, {X: x, Y: y + 1}, {X: x + 1, Y: y + 1}, {X: x + 1, Y: y}, {X: x, Y: y}}
}

// writeTestShapefile writes a TIGER-like polygon shapefile and returns its path.
func writeTestShapefile(t *testing.T, towns []testTown) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cousub.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("GEOID", 10),
		shp.StringField("NAME", 40),
		shp.StringField("COUNTYFP", 3),
		shp.StringField("STATEFP", 2),
	}))

	for _, town := range towns {
		poly := shp.Polygon(*shp.NewPolyLine(town.rings))
		row := int(w.Write(&poly))
		require.NoError(t, w.WriteAttribute(row, 0, town.geoid))
		require.NoError(t, w.WriteAttribute(row, 1, town.name))
		require.NoError(t, w.WriteAttribute(row, 2, town.countyFP))
		require.NoError(t, w.WriteAttribute(row, 3, town.stateFP))
	}
	w.Close()

	// go-shp's SetFields names the attribute table "<base>dbf" without the dot.
	base := strings.TrimSuffix(path, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	return path
}

// squareFeature builds a feature directly, without a shapefile.
func squareFeature(geoid, countyFP string, x, y float64) Feature {
	ring := geom.NewLinearRingFlat(geom.XY, []float64{x, y, x, y + 1, x + 1, y + 1, x + 1, y, x, y})
	poly := geom.NewPolygon(geom.XY)
	_ = poly.Push(ring)
	mp := geom.NewMultiPolygon(geom.XY)
	_ = mp.Push(poly)
	return Feature{GEOID: geoid, Name: geoid, CountyFP: countyFP, Geometry: mp}
}
