// Package transform cleans raw estimate frames and derives ranked subsets.
package transform

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
	"github.com/MaineStateEconomist207/pepv2024/internal/model"
)

// FractionThreshold is the mean absolute value below which a percent column
// is treated as fractions and rescaled to percentage points.
const FractionThreshold = 0.1

// Category labels attached by TopBottom.
const (
	LabelLargestIncreases = "Largest Increases"
	LabelLargestDeclines  = "Largest Declines"
)

// ErrMissingColumn is returned when a ranking column is absent.
var ErrMissingColumn = eris.New("transform: missing column")

// Options selects the cleaning steps applied by Clean.
type Options struct {
	Drop           []string
	Rename         []frame.Rename
	PercentColumns []string
}

// DefaultOptions returns the cleaning used for the town estimates file.
func DefaultOptions() Options {
	return Options{
		Drop:           model.IdentifierColumns,
		Rename:         model.Renames,
		PercentColumns: model.PercentColumns,
	}
}

// Clean drops and renames columns, then rescales each percent column that
// looks fractional. Absent columns are skipped.
func Clean(f *frame.Frame, opts Options) *frame.Frame {
	out := f.Drop(opts.Drop...).Rename(opts.Rename)
	for _, col := range opts.PercentColumns {
		out = RescalePercent(out, col)
	}
	return out
}

// RescalePercent multiplies the column by 100 when its mean absolute value is
// below FractionThreshold. All-NA and absent columns are returned unchanged.
func RescalePercent(f *frame.Frame, col string) *frame.Frame {
	mean, ok := MeanAbs(f, col)
	if !ok || mean >= FractionThreshold {
		return f
	}

	zap.L().Debug("rescaling fractional percent column",
		zap.String("component", "transform"),
		zap.String("column", col),
		zap.Float64("mean_abs", mean),
	)
	return f.Map(col, func(v frame.Value) frame.Value {
		x, ok := v.Float()
		if !ok {
			return v
		}
		return frame.Num(x * 100)
	})
}

// MeanAbs returns the mean absolute value of the numeric cells in col.
func MeanAbs(f *frame.Frame, col string) (float64, bool) {
	vals, ok := f.Floats(col)
	if !ok {
		return 0, false
	}
	abs := make(stats.Float64Data, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			abs = append(abs, math.Abs(v))
		}
	}
	mean, err := stats.Mean(abs)
	if err != nil {
		return 0, false
	}
	return mean, true
}

// TopBottom returns the n largest rows of col in descending order labelled
// LabelLargestIncreases, followed by the n smallest in ascending order
// labelled LabelLargestDeclines. Ties keep their input order and rows with
// no value in col are excluded. Rank and Category lead the column order.
func TopBottom(f *frame.Frame, col string, n int) (*frame.Frame, error) {
	if !f.Has(col) {
		return nil, eris.Wrapf(ErrMissingColumn, "transform: top/bottom by %q", col)
	}
	valued := withValue(f, col)

	top, err := ranked(valued.SortStable(col, true).Head(n), LabelLargestIncreases)
	if err != nil {
		return nil, err
	}
	bottom, err := ranked(valued.SortStable(col, false).Head(n), LabelLargestDeclines)
	if err != nil {
		return nil, err
	}

	out, err := frame.Concat(top, bottom)
	if err != nil {
		return nil, eris.Wrap(err, "transform: concat top/bottom")
	}
	return out, nil
}

// TopN returns the n largest rows of col in descending order with a Rank column.
func TopN(f *frame.Frame, col string, n int) (*frame.Frame, error) {
	if !f.Has(col) {
		return nil, eris.Wrapf(ErrMissingColumn, "transform: top %d by %q", n, col)
	}
	head := withValue(f, col).SortStable(col, true).Head(n)

	out, err := head.WithColumn(model.ColRank, ranks(head.Len()))
	if err != nil {
		return nil, eris.Wrap(err, "transform: add rank")
	}
	return out.Select(leading(out, model.ColRank)...), nil
}

func withValue(f *frame.Frame, col string) *frame.Frame {
	return f.Filter(func(i int) bool {
		_, ok := f.Get(i, col).Float()
		return ok
	})
}

func ranked(f *frame.Frame, label string) (*frame.Frame, error) {
	labels := make([]frame.Value, f.Len())
	for i := range labels {
		labels[i] = frame.Str(label)
	}

	out, err := f.WithColumn(model.ColRank, ranks(f.Len()))
	if err != nil {
		return nil, eris.Wrap(err, "transform: add rank")
	}
	out, err = out.WithColumn(model.ColCategory, labels)
	if err != nil {
		return nil, eris.Wrap(err, "transform: add category")
	}
	return out.Select(leading(out, model.ColRank, model.ColCategory)...), nil
}

func ranks(n int) []frame.Value {
	vals := make([]frame.Value, n)
	for i := range vals {
		vals[i] = frame.Num(float64(i + 1))
	}
	return vals
}

// leading returns the frame's columns with first moved to the front.
func leading(f *frame.Frame, first ...string) []string {
	skip := make(map[string]bool, len(first))
	cols := append([]string(nil), first...)
	for _, c := range first {
		skip[c] = true
	}
	for _, c := range f.Columns() {
		if !skip[c] {
			cols = append(cols, c)
		}
	}
	return cols
}
