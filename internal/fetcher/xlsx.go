package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
)

// XLSXOptions configures the XLSX parser.
type XLSXOptions struct {
	SheetIndex  int      // default 0
	SheetName   string   // if set, overrides SheetIndex
	SkipRows    int      // title rows above the header
	TextColumns []string // columns kept as text even when numeric-looking
}

// ReadXLSX reads one sheet of an XLSX file into a frame. The first row after
// SkipRows is the header; blank trailing rows are ignored.
func ReadXLSX(path string, opts XLSXOptions) (*frame.Frame, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var header []string
	var parsers []func(string) frame.Value
	var out *frame.Frame

	for i, row := range sheet.Rows {
		if i < opts.SkipRows || row == nil {
			continue
		}
		cells := rowToStrings(row)

		if header == nil {
			for j := range cells {
				cells[j] = strings.TrimSpace(cells[j])
			}
			header = cells
			parsers = columnParsers(header, opts.TextColumns)
			out = frame.New(header...)
			continue
		}

		if blankRow(cells) {
			continue
		}
		if err := out.AppendRow(parseRow(cells, parsers)...); err != nil {
			return nil, err
		}
	}

	if header == nil {
		return nil, eris.Errorf("xlsx: sheet %q has no header row", sheet.Name)
	}
	return out, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
