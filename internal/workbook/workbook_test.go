package workbook

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
)

func testFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New("Category", "Town", "Population (2024)", "Percent Change (2023-2024)")
	require.NoError(t, f.AppendRow(frame.Str("Largest Increases"), frame.Str("Sanford city"), frame.Num(22761), frame.Num(2.5)))
	require.NoError(t, f.AppendRow(frame.Str("Largest Declines"), frame.Str("Millinocket town"), frame.NA(), frame.Num(-1.75)))
	return f
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "maine_towns.xlsx")
	fr := testFrame(t)

	err := Write(path, []Sheet{
		{
			Name:  "All Towns",
			Frame: fr,
			Columns: []Column{
				{Name: "Town"},
				{Name: "Population (2024)", Format: FormatInteger},
				{Name: "Percent Change (2023-2024)", Format: FormatPercent2},
				{Name: "Not There"},
			},
		},
		{
			Name:       "Top/Bottom: Percent Change",
			Frame:      fr,
			Columns:    []Column{{Name: "Category"}, {Name: "Town"}},
			FillColumn: "Category",
			Fills:      map[string]string{"Largest Increases": "#E5F5E0", "Largest Declines": "#FDE0DD"},
		},
	})
	require.NoError(t, err)

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close() //nolint:errcheck

	assert.Equal(t, []string{"All Towns", "Top-Bottom- Percent Change"}, wb.GetSheetList())

	rows, err := wb.GetRows("All Towns")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Town", "Population (2024)", "Percent Change (2023-2024)"}, rows[0])
	assert.Equal(t, "Sanford city", rows[1][0])
	assert.Equal(t, "", rows[2][1], "missing values stay empty")

	raw, err := wb.GetCellValue("All Towns", "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "22761", raw)

	styleID, err := wb.GetCellStyle("Top-Bottom- Percent Change", "A2")
	require.NoError(t, err)
	style, err := wb.GetStyle(styleID)
	require.NoError(t, err)
	require.NotEmpty(t, style.Fill.Color)
	assert.True(t, strings.HasSuffix(strings.ToUpper(style.Fill.Color[0]), "E5F5E0"), style.Fill.Color[0])
}

func TestWrite_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, Write(filepath.Join(dir, "a.xlsx"), nil))

	err := Write(filepath.Join(dir, "b.xlsx"), []Sheet{{Name: "x", Frame: testFrame(t), Columns: []Column{{Name: "nope"}}}})
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Top-Bottom- Percent", SheetName("Top/Bottom: Percent"))
	assert.Equal(t, "Sheet", SheetName("  "))
	assert.Len(t, []rune(SheetName(strings.Repeat("x", 40))), 31)
}
