package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MaineStateEconomist207/pepv2024/internal/config"
	"github.com/MaineStateEconomist207/pepv2024/internal/export"
	"github.com/MaineStateEconomist207/pepv2024/internal/fetcher"
	"github.com/MaineStateEconomist207/pepv2024/internal/pipeline"
	"github.com/MaineStateEconomist207/pepv2024/internal/screenshot"
)

// newRunner wires the export chain and screenshot browser from config.
func newRunner(c *config.Config) *pipeline.Runner {
	client := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout:    time.Duration(c.Export.TimeoutSecs) * time.Second,
		MaxRetries: c.Export.MaxRetries,
		CacheDir:   c.Export.AssetCacheDir,
	})
	chain := export.DefaultChain(&export.HTTPAssets{Client: client}, c.Export.TempDir)

	var capturer pipeline.Capturer
	if c.Screenshot.Enabled {
		capturer = screenshot.New(screenshot.Options{
			Zoom:       c.Screenshot.Zoom,
			Width:      c.Screenshot.Width,
			Height:     c.Screenshot.Height,
			Timeout:    time.Duration(c.Screenshot.TimeoutSecs) * time.Second,
			ChromePath: c.Screenshot.ChromePath,
		})
	}
	return pipeline.New(c, chain, capturer)
}

type reportFunc func(r *pipeline.Runner, ctx context.Context) (*pipeline.Result, error)

// runReport is the RunE body shared by the report commands.
func runReport(report reportFunc) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		res, err := report(newRunner(cfg), ctx)
		if res != nil {
			printResult(os.Stdout, res)
		}
		return err
	}
}

// printResult writes a one-line status per artifact and the run summary.
func printResult(w io.Writer, res *pipeline.Result) {
	ok := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	for _, a := range res.Artifacts {
		switch {
		case a.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n", fail("FAIL"), a.Path, a.Err)
			continue
		case a.Degraded():
			fmt.Fprintf(w, "%s %s (assets in %s)\n", warn("PART"), a.Path, a.Report.Result.AssetsDir)
		default:
			fmt.Fprintf(w, "%s %s\n", ok("OK  "), a.Path)
		}
		if a.PNG != "" {
			fmt.Fprintf(w, "%s %s\n", ok("OK  "), a.PNG)
		}
		if a.PNGErr != nil {
			fmt.Fprintf(w, "%s screenshot: %v\n", warn("SKIP"), a.PNGErr)
		}
	}
	if res.Workbook != "" {
		fmt.Fprintf(w, "%s %s\n", ok("OK  "), res.Workbook)
	}

	s := res.Summary
	fmt.Fprintf(w, "\n%d towns: %s gaining, %s losing, %d unchanged, %d missing\n",
		s.Towns, ok(s.Gaining), fail(s.Losing), s.Unchanged, s.Missing)
	fmt.Fprintf(w, "mean change %.2f%%, median %.2f%%, net %+.0f people\n",
		s.MeanPercentChange, s.MedianPercentChange, s.NumericChange)
}
