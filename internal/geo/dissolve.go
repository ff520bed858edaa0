package geo

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"
)

// Outline is the dissolved boundary of a group of features.
type Outline struct {
	Key      string
	Geometry *geom.MultiLineString
}

// ByCounty groups features by county FIPS code.
func ByCounty(f Feature) string { return f.CountyFP }

// Dissolve merges the features sharing a key into one boundary. Edges shared
// by two members of a group cancel; the remaining edges are chained into
// line strings. Outlines are ordered by key.
func Dissolve(features []Feature, key func(Feature) string) []Outline {
	groups := make(map[string][]Feature)
	for _, f := range features {
		k := key(f)
		groups[k] = append(groups[k], f)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Outline, 0, len(keys))
	for _, k := range keys {
		if mls := dissolveGroup(groups[k]); mls.NumLineStrings() > 0 {
			out = append(out, Outline{Key: k, Geometry: mls})
		}
	}
	return out
}

type vertex [2]int64

type segment struct {
	from, to geom.Coord
	a, b     vertex
}

// snap rounds to roughly a centimetre so shared TIGER vertices match.
func snap(c geom.Coord) vertex {
	return vertex{int64(math.Round(c[0] * 1e7)), int64(math.Round(c[1] * 1e7))}
}

func dissolveGroup(features []Feature) *geom.MultiLineString {
	type edgeKey [2]vertex
	counts := make(map[edgeKey]int)
	var segs []segment

	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		for i := 0; i < f.Geometry.NumPolygons(); i++ {
			poly := f.Geometry.Polygon(i)
			for r := 0; r < poly.NumLinearRings(); r++ {
				coords := poly.LinearRing(r).Coords()
				for j := 0; j+1 < len(coords); j++ {
					s := segment{from: coords[j], to: coords[j+1], a: snap(coords[j]), b: snap(coords[j+1])}
					if s.a == s.b {
						continue
					}
					k := edgeKey{s.a, s.b}
					if less(s.b, s.a) {
						k = edgeKey{s.b, s.a}
					}
					counts[k]++
					segs = append(segs, s)
				}
			}
		}
	}

	var boundary []segment
	for _, s := range segs {
		k := edgeKey{s.a, s.b}
		if less(s.b, s.a) {
			k = edgeKey{s.b, s.a}
		}
		if counts[k] == 1 {
			boundary = append(boundary, s)
		}
	}

	return chain(boundary)
}

// chain joins segments end to start into line strings.
func chain(segs []segment) *geom.MultiLineString {
	starts := make(map[vertex][]int)
	for i, s := range segs {
		starts[s.a] = append(starts[s.a], i)
	}
	used := make([]bool, len(segs))

	mls := geom.NewMultiLineString(geom.XY)
	for i := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		flat := []float64{segs[i].from[0], segs[i].from[1], segs[i].to[0], segs[i].to[1]}
		end := segs[i].b

		for {
			next := -1
			for _, c := range starts[end] {
				if !used[c] {
					next = c
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			flat = append(flat, segs[next].to[0], segs[next].to[1])
			end = segs[next].b
		}

		_ = mls.Push(geom.NewLineStringFlat(geom.XY, flat))
	}
	return mls
}

func less(a, b vertex) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}
