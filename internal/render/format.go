package render

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
)

// NAText is shown for missing cells.
const NAText = "NA"

var printer = message.NewPrinter(language.English)

type formatKind int

const (
	formatText formatKind = iota
	formatThousands
	formatDecimal
	formatPercent
)

// Format controls how a column's cells are displayed.
type Format struct {
	kind   formatKind
	digits int
}

// FormatText shows cells unchanged.
var FormatText = Format{kind: formatText}

// FormatThousands rounds to an integer with thousands separators.
var FormatThousands = Format{kind: formatThousands}

// FormatDecimal rounds to d decimal places with thousands separators.
func FormatDecimal(d int) Format { return Format{kind: formatDecimal, digits: d} }

// FormatPercent rounds percentage points to d places and appends "%".
func FormatPercent(d int) Format { return Format{kind: formatPercent, digits: d} }

// Apply formats one cell. Missing cells render as NAText and text cells are
// passed through.
func (f Format) Apply(v frame.Value) string {
	if v.IsNA() {
		return NAText
	}
	x, ok := v.Float()
	if !ok || f.kind == formatText {
		return v.String()
	}

	switch f.kind {
	case formatThousands:
		return printer.Sprintf("%d", int64(math.Round(x)))
	case formatDecimal:
		return printer.Sprintf(fmt.Sprintf("%%.%df", f.digits), x)
	default:
		return printer.Sprintf(fmt.Sprintf("%%.%df", f.digits), x) + "%"
	}
}

// sortKey is the value DataTables orders a cell by.
func sortKey(v frame.Value) string {
	if x, ok := v.Float(); ok {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	if v.IsNA() {
		return ""
	}
	return v.String()
}
