package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/rotisserie/eris"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
)

var tableTmpl = template.Must(template.ParseFS(templateFS, "templates/table.html.tmpl"))

// Column selects a frame column and its display format.
type Column struct {
	Name   string
	Format Format
}

// TableSpec configures RenderTable.
type TableSpec struct {
	ID         string
	Caption    string
	Columns    []Column // absent columns are skipped
	Sortable   bool     // false keeps the frame's row order
	PageLength int

	// RowColorColumn names a column whose value picks the row background
	// from RowColors.
	RowColorColumn string
	RowColors      map[string]string
}

type tableCell struct {
	Text    string
	Order   string
	Numeric bool
}

type tableRow struct {
	Style template.CSS
	Cells []tableCell
}

// RenderTable renders the frame as a DataTables grid with search, paging
// and copy/Excel/PDF export buttons.
func RenderTable(f *frame.Frame, spec TableSpec) (*Widget, error) {
	if spec.ID == "" {
		spec.ID = "pep-table"
	}
	if spec.PageLength <= 0 {
		spec.PageLength = 25
	}

	var cols []Column
	for _, c := range spec.Columns {
		if f.Has(c.Name) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, eris.Errorf("render: table %q has no displayable columns", spec.ID)
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Name
	}

	rows := make([]tableRow, f.Len())
	for i := range rows {
		cells := make([]tableCell, len(cols))
		for j, c := range cols {
			v := f.Get(i, c.Name)
			_, numeric := v.Float()
			cells[j] = tableCell{Text: c.Format.Apply(v), Order: sortKey(v), Numeric: numeric}
		}
		rows[i].Cells = cells

		if spec.RowColorColumn != "" {
			if color, ok := spec.RowColors[f.Get(i, spec.RowColorColumn).String()]; ok {
				rows[i].Style = template.CSS(fmt.Sprintf("background-color: %s;", color))
			}
		}
	}

	var body bytes.Buffer
	err := tableTmpl.Execute(&body, struct {
		ID      string
		Caption string
		Headers []string
		Rows    []tableRow
	}{spec.ID, spec.Caption, headers, rows})
	if err != nil {
		return nil, eris.Wrapf(err, "render: execute table template %q", spec.ID)
	}

	script, err := tableScript(spec)
	if err != nil {
		return nil, err
	}

	return &Widget{
		Title:      spec.Caption,
		Decoration: tableDecoration,
		Body:       template.HTML(body.String()),
		Script:     script,
		Assets:     TableAssets(),
	}, nil
}

func tableScript(spec TableSpec) (template.JS, error) {
	opts := map[string]any{
		"pageLength": spec.PageLength,
		"ordering":   spec.Sortable,
		"order":      []any{},
		"layout": map[string]any{
			"topStart": map[string]any{"buttons": []string{"copy", "excel", "pdf"}},
			"topEnd":   "search",
		},
	}
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return "", eris.Wrap(err, "render: marshal table options")
	}
	idJSON, err := json.Marshal("#" + spec.ID)
	if err != nil {
		return "", eris.Wrap(err, "render: marshal table id")
	}
	return template.JS(fmt.Sprintf("new DataTable(%s, %s);", idJSON, optsJSON)), nil
}

const tableDecoration = `body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 24px; color: #222; }
table.dataTable caption { caption-side: top; font-size: 1.25em; font-weight: bold; text-align: left; padding-bottom: 8px; }
table.dataTable td.num { text-align: right; font-variant-numeric: tabular-nums; }`
