// Package geo classifies population change for the choropleth and prepares
// town polygons: shapefile loading, joining to records and dissolving
// outlines by county.
package geo

import "github.com/MaineStateEconomist207/pepv2024/internal/model"

// Bucket is one choropleth class.
type Bucket struct {
	Key   string
	Label string
	Color string
}

// Choropleth classes of numeric change, in legend order.
var (
	LossOver50  = Bucket{Key: "loss-gt-50", Label: "Loss>50", Color: "#b2182b"}
	Loss10To50  = Bucket{Key: "loss-10-50", Label: "Loss 10-50", Color: "#d6604d"}
	LossUnder10 = Bucket{Key: "loss-lt-10", Label: "Loss<10", Color: "#f4a582"}
	NoChange    = Bucket{Key: "no-change", Label: "No change", Color: "#f7f7f7"}
	GainUnder10 = Bucket{Key: "gain-lt-10", Label: "Gain<10", Color: "#92c5de"}
	Gain10To50  = Bucket{Key: "gain-10-50", Label: "Gain 10-50", Color: "#4393c3"}
	Gain50To100 = Bucket{Key: "gain-50-100", Label: "Gain 50-100", Color: "#2166ac"}
	GainOver100 = Bucket{Key: "gain-gt-100", Label: "Gain>100", Color: "#053061"}
	Missing     = Bucket{Key: "missing", Label: "missing", Color: "#bdbdbd"}
)

// Classify maps a numeric change to its bucket:
//
//	x <= -50         Loss>50
//	-50 < x <= -10   Loss 10-50
//	-10 < x < 0      Loss<10
//	x == 0           No change
//	0 < x < 10       Gain<10
//	10 <= x < 50     Gain 10-50
//	50 <= x <= 100   Gain 50-100
//	x > 100          Gain>100
//	missing          missing
func Classify(n model.Number) Bucket {
	if !n.Valid {
		return Missing
	}
	x := n.Value
	switch {
	case x <= -50:
		return LossOver50
	case x <= -10:
		return Loss10To50
	case x < 0:
		return LossUnder10
	case x == 0:
		return NoChange
	case x < 10:
		return GainUnder10
	case x < 50:
		return Gain10To50
	case x <= 100:
		return Gain50To100
	default:
		return GainOver100
	}
}

// Legend returns every bucket in display order with missing last.
func Legend() []Bucket {
	return []Bucket{
		LossOver50, Loss10To50, LossUnder10, NoChange,
		GainUnder10, Gain10To50, Gain50To100, GainOver100,
		Missing,
	}
}
