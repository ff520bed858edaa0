// Package pipeline runs the town reports: load the estimates, clean them,
// render each table or map and export it, best effort per artifact.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MaineStateEconomist207/pepv2024/internal/config"
	"github.com/MaineStateEconomist207/pepv2024/internal/export"
	"github.com/MaineStateEconomist207/pepv2024/internal/fetcher"
	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
	"github.com/MaineStateEconomist207/pepv2024/internal/model"
	"github.com/MaineStateEconomist207/pepv2024/internal/render"
	"github.com/MaineStateEconomist207/pepv2024/internal/transform"
	"github.com/MaineStateEconomist207/pepv2024/internal/workbook"
)

// Exporter writes a widget to dest.
type Exporter interface {
	Export(ctx context.Context, w *render.Widget, dest string) (*export.Report, error)
}

// Capturer rasterizes an exported HTML file to PNG.
type Capturer interface {
	Capture(ctx context.Context, htmlPath, pngPath string) error
}

// Artifact is one report file and how it was produced.
type Artifact struct {
	Name   string
	Path   string
	Report *export.Report
	Err    error
	PNG    string
	PNGErr error
}

// Degraded reports whether the file was written without inlined assets.
func (a Artifact) Degraded() bool {
	return a.Err == nil && a.Report != nil && a.Report.Degraded()
}

// Result collects the artifacts of one run.
type Result struct {
	Artifacts []Artifact
	Summary   Summary
	Workbook  string
	Duration  time.Duration
}

// Failed counts artifacts that could not be written.
func (r *Result) Failed() int {
	n := 0
	for _, a := range r.Artifacts {
		if a.Err != nil {
			n++
		}
	}
	return n
}

// Runner produces the reports described by a config.
type Runner struct {
	cfg      *config.Config
	exporter Exporter
	capturer Capturer
}

// New creates a Runner. A nil capturer disables PNG screenshots.
func New(cfg *config.Config, exporter Exporter, capturer Capturer) *Runner {
	return &Runner{cfg: cfg, exporter: exporter, capturer: capturer}
}

// run holds state shared by the steps of one invocation.
type run struct {
	raw    *frame.Frame
	result *Result
	sheets []workbook.Sheet
}

type step func(ctx context.Context, st *run) error

// Towns writes the table of all towns.
func (r *Runner) Towns(ctx context.Context) (*Result, error) {
	return r.execute(ctx, r.towns)
}

// Rankings writes the top/bottom tables and their screenshots.
func (r *Runner) Rankings(ctx context.Context) (*Result, error) {
	return r.execute(ctx, r.rankings)
}

// Map writes the choropleth of numeric change.
func (r *Runner) Map(ctx context.Context) (*Result, error) {
	return r.execute(ctx, r.choropleth)
}

// All writes every report.
func (r *Runner) All(ctx context.Context) (*Result, error) {
	return r.execute(ctx, r.towns, r.rankings, r.choropleth)
}

func (r *Runner) execute(ctx context.Context, steps ...step) (*Result, error) {
	start := time.Now()
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	raw, err := fetcher.Load(ctx, r.cfg.Input.CSV, fetcher.LoadOptions{
		Encoding:    r.cfg.Input.Encoding,
		SheetName:   r.cfg.Input.Sheet,
		TextColumns: model.TextColumns,
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load estimates")
	}

	st := &run{raw: raw, result: &Result{}}
	st.result.Summary = r.summarize(raw)

	for _, s := range steps {
		if err := s(ctx, st); err != nil {
			return st.result, err
		}
		if ctx.Err() != nil {
			return st.result, eris.Wrap(ctx.Err(), "pipeline: cancelled")
		}
	}

	if r.cfg.Workbook.Enabled && len(st.sheets) > 0 {
		path := filepath.Join(r.cfg.Output.Dir, r.cfg.Workbook.File)
		if err := workbook.Write(path, st.sheets); err != nil {
			zap.L().Error("pipeline: workbook failed",
				zap.String("component", "pipeline"),
				zap.String("path", path),
				zap.Error(err),
			)
		} else {
			st.result.Workbook = path
		}
	}

	st.result.Duration = time.Since(start)
	zap.L().Info("pipeline: run complete",
		zap.String("component", "pipeline"),
		zap.Int("artifacts", len(st.result.Artifacts)),
		zap.Int("failed", st.result.Failed()),
		zap.Duration("elapsed", st.result.Duration),
	)
	return st.result, nil
}

// cleaned returns the display frame, dropping every identifier column.
func (st *run) cleaned() *frame.Frame {
	return transform.Clean(st.raw, transform.DefaultOptions())
}

// cleanedWithID keeps GEOID for joining to geometry.
func (st *run) cleanedWithID() *frame.Frame {
	opts := transform.DefaultOptions()
	opts.Drop = nil
	for _, c := range model.IdentifierColumns {
		if c != model.RawGEOID {
			opts.Drop = append(opts.Drop, c)
		}
	}
	return transform.Clean(st.raw, opts)
}

func (r *Runner) summarize(raw *frame.Frame) Summary {
	records, _ := model.RecordsFromFrame(transform.Clean(raw, transform.Options{
		Rename:         model.Renames,
		PercentColumns: model.PercentColumns,
	}))
	s := Summarize(records)
	zap.L().Info("pipeline: estimates summary",
		zap.String("component", "pipeline"),
		zap.Int("towns", s.Towns),
		zap.Int("gaining", s.Gaining),
		zap.Int("losing", s.Losing),
		zap.Int("unchanged", s.Unchanged),
		zap.Float64("population", s.Population),
		zap.Float64("numeric_change", s.NumericChange),
		zap.Float64("mean_pct_change", s.MeanPercentChange),
		zap.Float64("median_pct_change", s.MedianPercentChange),
	)
	return s
}

// publish exports a widget and, when asked, screenshots the result. Failures
// are recorded on the artifact and never abort the run.
func (r *Runner) publish(ctx context.Context, st *run, name, file string, w *render.Widget, png bool) {
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("report", name))
	dest := filepath.Join(r.cfg.Output.Dir, file)
	art := Artifact{Name: name, Path: dest}

	report, err := r.exporter.Export(ctx, w, dest)
	art.Report = report
	if err != nil {
		art.Err = err
		log.Error("pipeline: export failed", zap.String("dest", dest), zap.Error(err))
	}

	if png && art.Err == nil && r.capturer != nil {
		pngPath := dest[:len(dest)-len(filepath.Ext(dest))] + ".png"
		if err := r.capturer.Capture(ctx, dest, pngPath); err != nil {
			art.PNGErr = err
			log.Warn("pipeline: screenshot failed", zap.String("png", pngPath), zap.Error(err))
		} else {
			art.PNG = pngPath
		}
	}

	st.result.Artifacts = append(st.result.Artifacts, art)
}
