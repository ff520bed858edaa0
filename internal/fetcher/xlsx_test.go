package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeTestXLSX builds a workbook with one sheet holding rows verbatim.
func writeTestXLSX(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close() //nolint:errcheck

	require.NoError(t, wb.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "towns.xlsx")
	require.NoError(t, wb.SaveAs(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeTestXLSX(t, "Towns", [][]any{
		{"Annual Estimates of the Resident Population"},
		{"GEOID", "NAME", "POPESTIMATE2024"},
		{"2300102060", "Auburn city", 24866},
		{"2300138740", "Lewiston city", 38546},
		{},
	})

	f, err := ReadXLSX(path, XLSXOptions{SkipRows: 1, TextColumns: []string{"GEOID"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"GEOID", "NAME", "POPESTIMATE2024"}, f.Columns())
	require.Equal(t, 2, f.Len())
	assert.Equal(t, "2300138740", f.Get(1, "GEOID").String())

	pop, ok := f.Get(1, "POPESTIMATE2024").Float()
	require.True(t, ok)
	assert.Equal(t, 38546.0, pop)
}

func TestReadXLSX_SheetSelection(t *testing.T) {
	path := writeTestXLSX(t, "Towns", [][]any{{"NAME"}, {"Bath"}})

	f, err := ReadXLSX(path, XLSXOptions{SheetName: "Towns"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.Len())

	_, err = ReadXLSX(path, XLSXOptions{SheetName: "Counties"})
	assert.Error(t, err)

	_, err = ReadXLSX(path, XLSXOptions{SheetIndex: 3})
	assert.Error(t, err)
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	assert.Error(t, err)
}
