// Package workbook writes report tables to a styled XLSX workbook.
package workbook

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
)

// Excel number formats for report columns.
const (
	FormatGeneral  = ""
	FormatInteger  = "#,##0"
	FormatDecimal1 = "#,##0.0"
	FormatPercent2 = `0.00"%"`
)

const maxSheetName = 31

// Column selects a frame column and its Excel number format.
type Column struct {
	Name   string
	Format string
}

// Sheet is one worksheet of the workbook.
type Sheet struct {
	Name    string
	Frame   *frame.Frame
	Columns []Column // absent columns are skipped

	// FillColumn names a column whose value picks a row fill from Fills.
	FillColumn string
	Fills      map[string]string
}

// Write saves the sheets to path in order. Missing cells are left empty.
func Write(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return eris.New("workbook: no sheets")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	w := &writer{file: f, styles: make(map[string]int)}
	for i, s := range sheets {
		name := SheetName(s.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return eris.Wrapf(err, "workbook: rename first sheet to %q", name)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return eris.Wrapf(err, "workbook: add sheet %q", name)
		}
		if err := w.writeSheet(name, s); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "workbook: create directory for %s", path)
	}
	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "workbook: save %s", path)
	}

	zap.L().Info("workbook: wrote xlsx",
		zap.String("component", "workbook"),
		zap.String("path", path),
		zap.Int("sheets", len(sheets)),
	)
	return nil
}

// SheetName makes s a valid Excel sheet name.
func SheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		s = "Sheet"
	}
	if r := []rune(s); len(r) > maxSheetName {
		s = string(r[:maxSheetName])
	}
	return s
}

type writer struct {
	file   *excelize.File
	styles map[string]int
}

func (w *writer) writeSheet(name string, s Sheet) error {
	var cols []Column
	for _, c := range s.Columns {
		if s.Frame.Has(c.Name) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return eris.Errorf("workbook: sheet %q has no columns", name)
	}

	header, err := w.style("header", "", "")
	if err != nil {
		return err
	}
	for j, c := range cols {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		if err := w.file.SetCellValue(name, cell, c.Name); err != nil {
			return eris.Wrapf(err, "workbook: header %s!%s", name, cell)
		}
		if err := w.file.SetCellStyle(name, cell, cell, header); err != nil {
			return eris.Wrapf(err, "workbook: style header %s!%s", name, cell)
		}
		width := float64(len(c.Name)) + 4
		if width < 12 {
			width = 12
		}
		colName, _ := excelize.ColumnNumberToName(j + 1)
		if err := w.file.SetColWidth(name, colName, colName, width); err != nil {
			return eris.Wrapf(err, "workbook: column width %s!%s", name, colName)
		}
	}

	for i := 0; i < s.Frame.Len(); i++ {
		fill := ""
		if s.FillColumn != "" {
			fill = s.Fills[s.Frame.Get(i, s.FillColumn).String()]
		}
		for j, c := range cols {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			v := s.Frame.Get(i, c.Name)
			if err := w.setValue(name, cell, v); err != nil {
				return err
			}
			if c.Format == FormatGeneral && fill == "" {
				continue
			}
			style, err := w.style("cell", c.Format, fill)
			if err != nil {
				return err
			}
			if err := w.file.SetCellStyle(name, cell, cell, style); err != nil {
				return eris.Wrapf(err, "workbook: style %s!%s", name, cell)
			}
		}
	}

	if err := w.file.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return eris.Wrapf(err, "workbook: freeze header of %s", name)
	}

	last, _ := excelize.CoordinatesToCellName(len(cols), s.Frame.Len()+1)
	if err := w.file.AutoFilter(name, "A1:"+last, nil); err != nil {
		return eris.Wrapf(err, "workbook: autofilter %s", name)
	}
	return nil
}

func (w *writer) setValue(sheet, cell string, v frame.Value) error {
	var val interface{}
	if x, ok := v.Float(); ok {
		val = x
	} else if s, ok := v.Text(); ok {
		val = s
	} else {
		return nil
	}
	if err := w.file.SetCellValue(sheet, cell, val); err != nil {
		return eris.Wrapf(err, "workbook: set %s!%s", sheet, cell)
	}
	return nil
}

// style returns a cached style ID for the kind, number format and fill.
func (w *writer) style(kind, numFmt, fill string) (int, error) {
	key := kind + "|" + numFmt + "|" + fill
	if id, ok := w.styles[key]; ok {
		return id, nil
	}

	st := &excelize.Style{}
	if kind == "header" {
		st.Font = &excelize.Font{Bold: true, Color: "#FFFFFF"}
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#305496"}}
		st.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	}
	if numFmt != "" {
		f := numFmt
		st.CustomNumFmt = &f
	}
	if fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}}
	}

	id, err := w.file.NewStyle(st)
	if err != nil {
		return 0, eris.Wrapf(err, "workbook: new style %s", key)
	}
	w.styles[key] = id
	return id, nil
}
