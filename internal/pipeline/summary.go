package pipeline

import (
	"github.com/montanaflynn/stats"

	"github.com/MaineStateEconomist207/pepv2024/internal/model"
)

// Summary describes the towns in one estimates file.
type Summary struct {
	Towns               int
	Gaining             int
	Losing              int
	Unchanged           int
	Missing             int
	Population          float64
	NumericChange       float64
	MeanPercentChange   float64
	MedianPercentChange float64
}

// Summarize counts towns by direction of change and aggregates population
// and percent change. Missing values are left out of every aggregate.
func Summarize(records []model.TownRecord) Summary {
	s := Summary{Towns: len(records)}
	var pop, change, pct stats.Float64Data

	for _, r := range records {
		if r.Population.Valid {
			pop = append(pop, r.Population.Value)
		}
		if r.PercentChange.Valid {
			pct = append(pct, r.PercentChange.Value)
		}
		if !r.NumericChange.Valid {
			s.Missing++
			continue
		}
		change = append(change, r.NumericChange.Value)
		switch r.NumericChange.Sign() {
		case 1:
			s.Gaining++
		case -1:
			s.Losing++
		default:
			s.Unchanged++
		}
	}

	s.Population = orZero(stats.Sum(pop))
	s.NumericChange = orZero(stats.Sum(change))
	s.MeanPercentChange = orZero(stats.Mean(pct))
	s.MedianPercentChange = orZero(stats.Median(pct))
	return s
}

// orZero maps the NaN returned for empty input to 0.
func orZero(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	return v
}
