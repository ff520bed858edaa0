package geo

import (
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// Feature is one town polygon from a TIGER county subdivision shapefile.
type Feature struct {
	GEOID    string
	Name     string
	CountyFP string
	Geometry *geom.MultiPolygon
}

// Centroid returns the area-weighted centroid of the feature.
func (f Feature) Centroid() (geom.Coord, error) {
	c, err := xy.Centroid(f.Geometry)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: centroid of %s", f.GEOID)
	}
	return c, nil
}

// ShapefileOptions filters the features read by LoadShapefile.
type ShapefileOptions struct {
	StateFP string // keep only this state's features; empty keeps all
}

// shapeReader is the subset of go-shp's Reader and ZipReader used here.
type shapeReader interface {
	Next() bool
	Shape() (int, shp.Shape)
	Attribute(n int) string
	Fields() []shp.Field
	Err() error
	Close() error
}

func openShapes(path string) (shapeReader, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		zr, err := shp.OpenZip(path)
		if err != nil {
			return nil, err
		}
		return zr, nil
	}
	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// LoadShapefile reads polygon features from a .shp file or a zipped
// shapefile. Records without a polygon are skipped.
func LoadShapefile(path string, opts ShapefileOptions) ([]Feature, error) {
	reader, err := openShapes(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := make(map[string]int)
	for i, f := range reader.Fields() {
		fieldIdx[strings.ToUpper(f.String())] = i
	}
	if _, ok := fieldIdx["GEOID"]; !ok {
		return nil, eris.Errorf("geo: shapefile %s has no GEOID field", path)
	}

	attr := func(name string) string {
		idx, ok := fieldIdx[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
	}

	var features []Feature
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		if opts.StateFP != "" {
			if fp := attr("STATEFP"); fp != "" && fp != opts.StateFP {
				continue
			}
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		features = append(features, Feature{
			GEOID:    attr("GEOID"),
			Name:     attr("NAME"),
			CountyFP: attr("COUNTYFP"),
			Geometry: mp,
		})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "geo: read shapefile %s", path)
	}

	zap.L().Info("loaded shapefile",
		zap.String("component", "geo"),
		zap.String("path", path),
		zap.Int("features", len(features)),
		zap.Int("skipped", skipped),
	)
	return features, nil
}

// polygonToMultiPolygon groups shapefile rings into polygons. Clockwise
// rings start a polygon; counter-clockwise rings are holes of the polygon
// before them.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	var current *geom.Polygon
	flush := func() {
		if current == nil {
			return
		}
		if err := mp.Push(current); err != nil {
			zap.L().Debug("geo: skipping malformed polygon", zap.Error(err))
		}
		current = nil
	}

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if end-start < 4 {
			continue
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		hole := signedArea(flat) > 0
		if !hole || current == nil {
			flush()
			current = geom.NewPolygon(geom.XY)
		}
		if err := current.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("geo: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
		}
	}
	flush()

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// signedArea is positive for counter-clockwise rings.
func signedArea(flat []float64) float64 {
	var sum float64
	n := len(flat) / 2
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += flat[2*i]*flat[2*j+1] - flat[2*j]*flat[2*i+1]
	}
	return sum / 2
}
