package frame

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

// Rename maps an existing column name to a new one.
type Rename struct {
	From string
	To   string
}

// Frame is an ordered set of named columns over rows of Values. Operations
// return new frames; a Frame is never mutated once built.
type Frame struct {
	names []string
	index map[string]int
	rows  [][]Value
}

// New creates an empty frame with the given column names. Duplicate names
// keep their first position.
func New(names ...string) *Frame {
	f := &Frame{index: make(map[string]int, len(names))}
	for _, n := range names {
		if _, ok := f.index[n]; ok {
			continue
		}
		f.index[n] = len(f.names)
		f.names = append(f.names, n)
	}
	return f
}

// AppendRow adds a row. The number of values must match the column count.
func (f *Frame) AppendRow(vals ...Value) error {
	if len(vals) != len(f.names) {
		return eris.Errorf("frame: row has %d values, frame has %d columns", len(vals), len(f.names))
	}
	row := make([]Value, len(vals))
	copy(row, vals)
	f.rows = append(f.rows, row)
	return nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Has reports whether the frame has the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns a copy of the named column's values.
func (f *Frame) Column(name string) ([]Value, bool) {
	idx, ok := f.index[name]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[idx]
	}
	return out, true
}

// Floats returns the named column as float64s, with NaN for non-numeric cells.
func (f *Frame) Floats(name string) ([]float64, bool) {
	vals, ok := f.Column(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if n, isNum := v.Float(); isNum {
			out[i] = n
		} else {
			out[i] = math.NaN()
		}
	}
	return out, true
}

// Get returns the cell at row i in the named column, or NA if the column is absent.
func (f *Frame) Get(i int, name string) Value {
	idx, ok := f.index[name]
	if !ok || i < 0 || i >= len(f.rows) {
		return NA()
	}
	return f.rows[i][idx]
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := New(f.names...)
	out.rows = make([][]Value, len(f.rows))
	for i, row := range f.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}

// Select returns a frame with only the named columns, in the given order.
// Absent names are ignored.
func (f *Frame) Select(names ...string) *Frame {
	var keep []string
	var idxs []int
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		idx, ok := f.index[n]
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		keep = append(keep, n)
		idxs = append(idxs, idx)
	}
	out := New(keep...)
	out.rows = make([][]Value, len(f.rows))
	for i, row := range f.rows {
		nr := make([]Value, len(idxs))
		for j, idx := range idxs {
			nr[j] = row[idx]
		}
		out.rows[i] = nr
	}
	return out
}

// Drop returns a frame without the named columns. Absent names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []string
	for _, n := range f.names {
		if !drop[n] {
			keep = append(keep, n)
		}
	}
	return f.Select(keep...)
}

// Rename returns a frame with columns renamed in order. A rename whose source
// is absent is a no-op, and so is one whose target already names another
// column. Values are never touched.
func (f *Frame) Rename(pairs []Rename) *Frame {
	out := f.Clone()
	for _, p := range pairs {
		idx, ok := out.index[p.From]
		if !ok || p.From == p.To {
			continue
		}
		if _, clash := out.index[p.To]; clash {
			continue
		}
		delete(out.index, p.From)
		out.index[p.To] = idx
		out.names[idx] = p.To
	}
	return out
}

// WithColumn returns a frame with the named column set to vals, replacing an
// existing column in place or appending a new one.
func (f *Frame) WithColumn(name string, vals []Value) (*Frame, error) {
	if len(vals) != len(f.rows) {
		return nil, eris.Errorf("frame: column %q has %d values, frame has %d rows", name, len(vals), len(f.rows))
	}
	out := f.Clone()
	idx, ok := out.index[name]
	if !ok {
		idx = len(out.names)
		out.index[name] = idx
		out.names = append(out.names, name)
		for i := range out.rows {
			out.rows[i] = append(out.rows[i], NA())
		}
	}
	for i := range out.rows {
		out.rows[i][idx] = vals[i]
	}
	return out, nil
}

// Map returns a frame with fn applied to every cell of the named column.
// An absent column returns an unchanged copy.
func (f *Frame) Map(name string, fn func(Value) Value) *Frame {
	out := f.Clone()
	idx, ok := out.index[name]
	if !ok {
		return out
	}
	for i := range out.rows {
		out.rows[i][idx] = fn(out.rows[i][idx])
	}
	return out
}

// Filter returns the rows for which keep returns true, in order.
func (f *Frame) Filter(keep func(i int) bool) *Frame {
	out := New(f.names...)
	for i, row := range f.rows {
		if keep(i) {
			out.rows = append(out.rows, append([]Value(nil), row...))
		}
	}
	return out
}

// SortStable returns the rows ordered by the named numeric column. Ties keep
// their original order and NA or non-numeric cells always sort last. An
// absent column returns an unchanged copy.
func (f *Frame) SortStable(name string, desc bool) *Frame {
	out := f.Clone()
	idx, ok := out.index[name]
	if !ok {
		return out
	}
	sort.SliceStable(out.rows, func(a, b int) bool {
		va, okA := out.rows[a][idx].Float()
		vb, okB := out.rows[b][idx].Float()
		switch {
		case !okA:
			return false
		case !okB:
			return true
		case desc:
			return va > vb
		default:
			return va < vb
		}
	})
	return out
}

// Head returns the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n > len(f.rows) {
		n = len(f.rows)
	}
	if n < 0 {
		n = 0
	}
	return f.Filter(func(i int) bool { return i < n })
}

// Concat stacks frames with identical column names.
func Concat(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return New(), nil
	}
	out := frames[0].Clone()
	for _, fr := range frames[1:] {
		if !sameColumns(out.names, fr.names) {
			return nil, eris.Errorf("frame: concat column mismatch %v vs %v", out.names, fr.names)
		}
		for _, row := range fr.rows {
			out.rows = append(out.rows, append([]Value(nil), row...))
		}
	}
	return out, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
