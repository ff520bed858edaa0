package model

import (
	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
)

// Number is a numeric field that may be missing.
type Number struct {
	Value float64
	Valid bool
}

// NumberOf converts a frame cell; non-numeric cells are invalid.
func NumberOf(v frame.Value) Number {
	f, ok := v.Float()
	return Number{Value: f, Valid: ok}
}

// Sign returns -1, 0 or 1, and 0 for missing values.
func (n Number) Sign() int {
	switch {
	case !n.Valid || n.Value == 0:
		return 0
	case n.Value > 0:
		return 1
	default:
		return -1
	}
}

// TownRecord is one municipality's estimates after cleaning. Percent fields
// are percentage points. Category and Rank are set only on ranked subsets.
type TownRecord struct {
	GEOID             string
	Name              string
	County            string
	Population        Number
	Density           Number
	NumericChange     Number
	PercentChange     Number
	NumericChangeBase Number
	PercentChangeBase Number
	Rank              int
	Category          string
}

// RecordsFromFrame builds records from a cleaned frame. Absent columns leave
// their fields missing. Rows whose GEOID repeats an earlier row are skipped
// and their IDs returned.
func RecordsFromFrame(f *frame.Frame) ([]TownRecord, []string) {
	seen := make(map[string]bool, f.Len())
	var dupes []string
	records := make([]TownRecord, 0, f.Len())

	for i := 0; i < f.Len(); i++ {
		rec := TownRecord{
			GEOID:             textOf(f.Get(i, ColGEOID)),
			Name:              textOf(f.Get(i, ColTown)),
			County:            textOf(f.Get(i, ColCounty)),
			Population:        NumberOf(f.Get(i, ColPopulation)),
			Density:           NumberOf(f.Get(i, ColDensity)),
			NumericChange:     NumberOf(f.Get(i, ColNumericChange)),
			PercentChange:     NumberOf(f.Get(i, ColPercentChange)),
			NumericChangeBase: NumberOf(f.Get(i, ColNumericChangeBase)),
			PercentChangeBase: NumberOf(f.Get(i, ColPercentChangeBase)),
		}
		if r := NumberOf(f.Get(i, ColRank)); r.Valid {
			rec.Rank = int(r.Value)
		}
		rec.Category = textOf(f.Get(i, ColCategory))

		if rec.GEOID != "" {
			if seen[rec.GEOID] {
				dupes = append(dupes, rec.GEOID)
				continue
			}
			seen[rec.GEOID] = true
		}
		records = append(records, rec)
	}
	return records, dupes
}

func textOf(v frame.Value) string {
	if v.IsNA() {
		return ""
	}
	return v.String()
}
