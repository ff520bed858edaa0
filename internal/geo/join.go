package geo

import (
	"go.uber.org/zap"

	"github.com/MaineStateEconomist207/pepv2024/internal/model"
)

// Joined is a feature with its matching record, if any, and its class.
type Joined struct {
	Feature Feature
	Record  *model.TownRecord
	Bucket  Bucket
}

// Join left-joins records onto features by GEOID. Every feature is kept;
// features without a record get a nil Record and the Missing bucket.
func Join(features []Feature, records []model.TownRecord) []Joined {
	byID := make(map[string]*model.TownRecord, len(records))
	for i := range records {
		if records[i].GEOID == "" {
			continue
		}
		if _, ok := byID[records[i].GEOID]; !ok {
			byID[records[i].GEOID] = &records[i]
		}
	}

	out := make([]Joined, 0, len(features))
	var unmatched int
	for _, f := range features {
		j := Joined{Feature: f, Bucket: Missing}
		if rec, ok := byID[f.GEOID]; ok {
			j.Record = rec
			j.Bucket = Classify(rec.NumericChange)
		} else {
			unmatched++
		}
		out = append(out, j)
	}

	if unmatched > 0 {
		zap.L().Warn("geometries without a matching record",
			zap.String("component", "geo"),
			zap.Int("unmatched", unmatched),
			zap.Int("features", len(features)),
		)
	}
	return out
}
