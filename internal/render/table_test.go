package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
)

func rankedFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New("Rank", "Category", "Town", "Population (2024)", "Percent Change (2023-2024)")
	rows := [][]frame.Value{
		{frame.Num(1), frame.Str("Largest Increases"), frame.Str("Sanford city"), frame.Num(22761), frame.Num(2.5)},
		{frame.Num(1), frame.Str("Largest Declines"), frame.Str("Millinocket town"), frame.Num(4114), frame.Num(-1.75)},
		{frame.Num(2), frame.Str("Largest Declines"), frame.Str("Unknown"), frame.NA(), frame.Num(-1)},
	}
	for _, r := range rows {
		require.NoError(t, f.AppendRow(r...))
	}
	return f
}

func TestRenderTable(t *testing.T) {
	w, err := RenderTable(rankedFrame(t), TableSpec{
		ID:      "top10",
		Caption: "Top 10 by Percent Change",
		Columns: []Column{
			{Name: "Rank", Format: FormatThousands},
			{Name: "Category", Format: FormatText},
			{Name: "Town", Format: FormatText},
			{Name: "Population (2024)", Format: FormatThousands},
			{Name: "Percent Change (2023-2024)", Format: FormatPercent(2)},
			{Name: "Not A Column", Format: FormatText},
		},
		PageLength:     20,
		RowColorColumn: "Category",
		RowColors: map[string]string{
			"Largest Increases": "#e5f5e0",
			"Largest Declines":  "#fde0dd",
		},
	})
	require.NoError(t, err)

	body := string(w.Body)
	assert.Contains(t, body, `<table id="top10"`)
	assert.Contains(t, body, "<caption>Top 10 by Percent Change</caption>")
	assert.NotContains(t, body, "Not A Column")
	assert.Contains(t, body, `data-order="22761">22,761</td>`)
	assert.Contains(t, body, `data-order="-1.75">-1.75%</td>`)
	assert.Contains(t, body, `data-order="">NA</td>`)
	assert.Contains(t, body, `style="background-color: #e5f5e0;"`)
	assert.Contains(t, body, `style="background-color: #fde0dd;"`)

	// Row order is preserved.
	assert.Less(t, strings.Index(body, "Sanford city"), strings.Index(body, "Millinocket town"))
	assert.Less(t, strings.Index(body, "Millinocket town"), strings.Index(body, "Unknown"))

	script := string(w.Script)
	assert.Contains(t, script, `new DataTable("#top10"`)
	assert.Contains(t, script, `"ordering":false`)
	assert.Contains(t, script, `"pageLength":20`)
	assert.Contains(t, script, `"buttons":["copy","excel","pdf"]`)

	assert.Equal(t, "Top 10 by Percent Change", w.Title)
	assert.NotEmpty(t, w.Decoration)
	assert.Equal(t, TableAssets(), w.Assets)
}

func TestRenderTable_SortableAndDefaults(t *testing.T) {
	w, err := RenderTable(rankedFrame(t), TableSpec{
		Columns:  []Column{{Name: "Town", Format: FormatText}},
		Sortable: true,
	})
	require.NoError(t, err)
	assert.Contains(t, string(w.Body), `<table id="pep-table"`)
	assert.Contains(t, string(w.Script), `"ordering":true`)
	assert.Contains(t, string(w.Script), `"pageLength":25`)
}

func TestRenderTable_NoColumns(t *testing.T) {
	_, err := RenderTable(rankedFrame(t), TableSpec{Columns: []Column{{Name: "nope"}}})
	assert.Error(t, err)
}

func TestTableAssetsOrder(t *testing.T) {
	names := make([]string, 0)
	for _, a := range TableAssets() {
		names = append(names, a.Name)
	}
	idx := func(n string) int {
		for i, v := range names {
			if v == n {
				return i
			}
		}
		return -1
	}
	assert.Less(t, idx("jquery.min.js"), idx("dataTables.min.js"))
	assert.Less(t, idx("dataTables.min.js"), idx("dataTables.buttons.min.js"))
	assert.Less(t, idx("dataTables.buttons.min.js"), idx("buttons.html5.min.js"))
}
