package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
	"github.com/MaineStateEconomist207/pepv2024/internal/geo"
	"github.com/MaineStateEconomist207/pepv2024/internal/model"
	"github.com/MaineStateEconomist207/pepv2024/internal/render"
	"github.com/MaineStateEconomist207/pepv2024/internal/transform"
	"github.com/MaineStateEconomist207/pepv2024/internal/workbook"
)

// Output file names.
const (
	FileTowns = "maine_towns_all.html"
	FileMap   = "maine_towns_map.html"
)

// Row backgrounds of the top/bottom tables.
const (
	ColorIncrease = "#e5f5e0"
	ColorDecline  = "#fde0dd"
)

const mapAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`

// FileRanking names a ranking table file, e.g. top10_pct_change.html.
func FileRanking(n int, kind string) string {
	return fmt.Sprintf("top%d_%s.html", n, kind)
}

var displayFormats = map[string]render.Format{
	model.ColRank:              render.FormatThousands,
	model.ColCategory:          render.FormatText,
	model.ColTown:              render.FormatText,
	model.ColCounty:            render.FormatText,
	model.ColPopulation:        render.FormatThousands,
	model.ColDensity:           render.FormatDecimal(1),
	model.ColNumericChange:     render.FormatThousands,
	model.ColPercentChange:     render.FormatPercent(2),
	model.ColNumericChangeBase: render.FormatThousands,
	model.ColPercentChangeBase: render.FormatPercent(2),
}

var sheetFormats = map[string]string{
	model.ColRank:              workbook.FormatInteger,
	model.ColPopulation:        workbook.FormatInteger,
	model.ColDensity:           workbook.FormatDecimal1,
	model.ColNumericChange:     workbook.FormatInteger,
	model.ColPercentChange:     workbook.FormatPercent2,
	model.ColNumericChangeBase: workbook.FormatInteger,
	model.ColPercentChangeBase: workbook.FormatPercent2,
}

var categoryColors = map[string]string{
	transform.LabelLargestIncreases: ColorIncrease,
	transform.LabelLargestDeclines:  ColorDecline,
}

func tableColumns(names []string) []render.Column {
	cols := make([]render.Column, len(names))
	for i, n := range names {
		cols[i] = render.Column{Name: n, Format: displayFormats[n]}
	}
	return cols
}

func sheetColumns(names []string) []workbook.Column {
	cols := make([]workbook.Column, len(names))
	for i, n := range names {
		cols[i] = workbook.Column{Name: n, Format: sheetFormats[n]}
	}
	return cols
}

// towns writes the sortable table of every town.
func (r *Runner) towns(ctx context.Context, st *run) error {
	f := st.cleaned()
	w, err := render.RenderTable(f, render.TableSpec{
		ID:         "towns",
		Caption:    fmt.Sprintf("Maine Town Population Estimates, %d", r.cfg.Report.Year),
		Columns:    tableColumns(model.DisplayColumns),
		Sortable:   true,
		PageLength: r.cfg.Report.PageLength,
	})
	if err != nil {
		return eris.Wrap(err, "pipeline: render towns table")
	}

	r.publish(ctx, st, "towns", FileTowns, w, false)
	st.sheets = append(st.sheets, workbook.Sheet{
		Name:    "All Towns",
		Frame:   f,
		Columns: sheetColumns(model.DisplayColumns),
	})
	return nil
}

type ranking struct {
	name    string
	kind    string
	col     string
	caption string
	sheet   string
	bottom  bool // top and bottom n, else top n only
}

func (r *Runner) rankingsFor() []ranking {
	n, y := r.cfg.Report.TopN, r.cfg.Report.Year
	return []ranking{
		{
			name:    "pct_change",
			kind:    "pct_change",
			col:     model.ColPercentChange,
			caption: fmt.Sprintf("Maine Towns with the Largest Percent Changes, %d-%d", y-1, y),
			sheet:   fmt.Sprintf("Top %d Pct Change", n),
			bottom:  true,
		},
		{
			name:    "num_change",
			kind:    "num_change",
			col:     model.ColNumericChange,
			caption: fmt.Sprintf("Maine Towns with the Largest Numeric Changes, %d-%d", y-1, y),
			sheet:   fmt.Sprintf("Top %d Num Change", n),
			bottom:  true,
		},
		{
			name:    "population",
			kind:    "population",
			col:     model.ColPopulation,
			caption: fmt.Sprintf("Maine's %d Most Populous Towns, %d", n, y),
			sheet:   fmt.Sprintf("Top %d Population", n),
		},
	}
}

// rankings writes the top/bottom tables and screenshots each one. A ranking
// whose column is absent from the input is skipped.
func (r *Runner) rankings(ctx context.Context, st *run) error {
	f := st.cleaned()
	n := r.cfg.Report.TopN

	for _, rk := range r.rankingsFor() {
		var (
			ranked *frame.Frame
			err    error
			spec   = render.TableSpec{ID: rk.kind, Caption: rk.caption}
			sheet  = workbook.Sheet{Name: rk.sheet}
		)
		if rk.bottom {
			ranked, err = transform.TopBottom(f, rk.col, n)
			spec.PageLength = 2 * n
			spec.RowColorColumn = model.ColCategory
			spec.RowColors = categoryColors
			sheet.FillColumn = model.ColCategory
			sheet.Fills = categoryColors
		} else {
			ranked, err = transform.TopN(f, rk.col, n)
			spec.PageLength = n
		}
		if errors.Is(err, transform.ErrMissingColumn) {
			zap.L().Warn("pipeline: ranking skipped",
				zap.String("component", "pipeline"),
				zap.String("ranking", rk.name),
				zap.String("column", rk.col),
			)
			continue
		}
		if err != nil {
			return eris.Wrapf(err, "pipeline: rank %s", rk.name)
		}

		names := ranked.Columns()
		spec.Columns = tableColumns(names)
		w, err := render.RenderTable(ranked, spec)
		if err != nil {
			return eris.Wrapf(err, "pipeline: render %s table", rk.name)
		}

		r.publish(ctx, st, rk.name, FileRanking(n, rk.kind), w, true)

		sheet.Frame = ranked
		sheet.Columns = sheetColumns(names)
		st.sheets = append(st.sheets, sheet)
	}
	return nil
}

// choropleth joins the estimates to town boundaries and writes the map.
func (r *Runner) choropleth(ctx context.Context, st *run) error {
	if r.cfg.Input.Shapefile == "" {
		return eris.New("pipeline: map needs input.shapefile")
	}
	features, err := geo.LoadShapefile(r.cfg.Input.Shapefile, geo.ShapefileOptions{StateFP: r.cfg.Input.StateFP})
	if err != nil {
		return eris.Wrap(err, "pipeline: load boundaries")
	}

	records, dupes := model.RecordsFromFrame(st.cleanedWithID())
	if len(dupes) > 0 {
		zap.L().Warn("pipeline: duplicate GEOIDs ignored",
			zap.String("component", "pipeline"),
			zap.Strings("geoids", dupes),
		)
	}

	y := r.cfg.Report.Year
	w, err := render.RenderChoropleth(
		geo.Join(features, records),
		geo.Dissolve(features, geo.ByCounty),
		render.MapSpec{
			ID:          "towns-map",
			Title:       fmt.Sprintf("Population Change by Maine Town, %d-%d", y-1, y),
			TileURL:     r.cfg.Report.TileURL,
			Attribution: mapAttribution,
		},
	)
	if err != nil {
		return eris.Wrap(err, "pipeline: render map")
	}

	r.publish(ctx, st, "map", FileMap, w, false)
	return nil
}
