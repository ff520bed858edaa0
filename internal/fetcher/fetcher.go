// Package fetcher loads tabular inputs from CSV and XLSX files and downloads
// remote assets over HTTP.
package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
)

// LoadOptions configures Load for either file format.
type LoadOptions struct {
	Encoding    string   // CSV only
	SheetName   string   // XLSX only
	TextColumns []string // columns kept as text
}

// Load reads a .csv or .xlsx file into a frame, choosing the parser by extension.
func Load(ctx context.Context, path string, opts LoadOptions) (*frame.Frame, error) {
	log := zap.L().With(zap.String("component", "fetcher"), zap.String("path", path))

	var (
		f   *frame.Frame
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err = ReadXLSX(path, XLSXOptions{SheetName: opts.SheetName, TextColumns: opts.TextColumns})
	case ".csv", ".txt":
		f, err = loadCSVFile(ctx, path, opts)
	default:
		return nil, eris.Errorf("fetcher: unsupported input format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: load %s", path)
	}

	log.Info("loaded input",
		zap.Int("rows", f.Len()),
		zap.Int("columns", len(f.Columns())),
	)
	return f, nil
}

func loadCSVFile(ctx context.Context, path string, opts LoadOptions) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open file")
	}
	defer file.Close() //nolint:errcheck

	return ReadCSV(ctx, file, CSVOptions{
		Encoding:    opts.Encoding,
		TextColumns: opts.TextColumns,
	})
}
