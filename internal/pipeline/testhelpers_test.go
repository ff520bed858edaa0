package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MaineStateEconomist207/pepv2024/internal/config"
	"github.com/MaineStateEconomist207/pepv2024/internal/export"
	"github.com/MaineStateEconomist207/pepv2024/internal/render"
)

const estimatesCSV = `GEOID,SUMLEV,STATE,COUSUB,NAME,COUNTY,POPESTIMATE2024,DENSITY2024,NPOPCHG2024,PPOPCHG2024,NPOPCHG_2020_2024,PPOPCHG_2020_2024
2300102060,061,23,02060,Auburn city,Androscoggin County,24611,416.3,120,0.49,1500,6.5
2300138740,061,23,38740,Lewiston city,Androscoggin County,38912,1138.2,-85,-0.22,1200,3.2
2300560545,061,23,60545,Portland city,Cumberland County,68313,3155.6,410,0.60,2800,4.3
2300571990,061,23,71990,South Portland city,Cumberland County,26498,2197.7,-40,-0.15,800,3.1
2300580740,061,23,80740,Westbrook city,Cumberland County,20999,1213.2,0,0,1300,6.6
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testConfig returns a config reading csv and writing to a temp directory.
func testConfig(t *testing.T, csv string) *config.Config {
	t.Helper()
	return &config.Config{
		Input:  config.InputConfig{CSV: writeFile(t, "estimates.csv", csv), StateFP: "23"},
		Output: config.OutputConfig{Dir: t.TempDir()},
		Report: config.ReportConfig{
			TopN:       2,
			PageLength: 25,
			Year:       2024,
			TileURL:    "https://tiles.example.com/{z}/{x}/{y}.png",
		},
		Workbook: config.WorkbookConfig{File: "maine_towns.xlsx"},
	}
}

// stubAssets serves every asset from memory.
type stubAssets struct{}

func (stubAssets) Fetch(_ context.Context, a render.Asset) ([]byte, error) {
	return []byte("/* " + a.Name + " */"), nil
}

func testExporter() *export.Chain {
	return export.NewChain(&export.SelfContained{Assets: stubAssets{}})
}

type failingExporter struct{}

func (failingExporter) Export(_ context.Context, _ *render.Widget, dest string) (*export.Report, error) {
	return &export.Report{Dest: dest}, errors.New("disk full")
}

// fakeCapturer records captures and writes a placeholder PNG.
type fakeCapturer struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (f *fakeCapturer) Capture(_ context.Context, htmlPath, pngPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, htmlPath)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(pngPath, []byte("\x89PNG"), 0o644)
}

type testTown struct {
	geoid, name, countyFP string
	x, y                  float64
}

// writeTestShapefile writes unit squares for each town and returns the .shp path.
func writeTestShapefile(t *testing.T, towns []testTown) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cousub.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("GEOID", 10),
		shp.StringField("NAME", 40),
		shp.StringField("COUNTYFP", 3),
		shp.StringField("STATEFP", 2),
	}))

	for _, town := range towns {
		x, y := town.x, town.y
		ring := []shp.Point{{X: x, Y: y}, {X: x, Y: y + 1}, {X: x + 1, Y: y + 1}, {X: x + 1, Y: y}, {X: x, Y: y}}
		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
		row := int(w.Write(&poly))
		require.NoError(t, w.WriteAttribute(row, 0, town.geoid))
		require.NoError(t, w.WriteAttribute(row, 1, town.name))
		require.NoError(t, w.WriteAttribute(row, 2, town.countyFP))
		require.NoError(t, w.WriteAttribute(row, 3, "23"))
	}
	w.Close()

	// go-shp's SetFields names the attribute table "<base>dbf" without the dot.
	base := strings.TrimSuffix(path, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// writeTestWorkbook writes a notes sheet first and the estimates on a sheet
// named sheet, and returns the .xlsx path.
func writeTestWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close() //nolint:errcheck

	require.NoError(t, wb.SetSheetName("Sheet1", "Notes"))
	require.NoError(t, wb.SetCellValue("Notes", "A1", "Source: U.S. Census Bureau, Population Division"))

	_, err := wb.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "estimates.xlsx")
	require.NoError(t, wb.SaveAs(path))
	return path
}
