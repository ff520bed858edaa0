package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MaineStateEconomist207/pepv2024/internal/config"
)

var cfg *config.Config

var (
	flagInput         string
	flagShapefile     string
	flagEncoding      string
	flagSheet         string
	flagOut           string
	flagTop           int
	flagNoScreenshots bool
	flagXLSX          bool
)

var rootCmd = &cobra.Command{
	Use:   "pepv2024",
	Short: "Maine town population estimate reports",
	Long:  "Builds HTML tables, ranking screenshots and a choropleth map from the Census Bureau's 2024 population estimates for Maine towns.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(cmd, c)
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.ReplaceGlobals(zap.L().With(zap.String("run_id", uuid.NewString())))

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// applyFlags overrides config values with flags set on the command line.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("input") {
		c.Input.CSV = flagInput
	}
	if flags.Changed("encoding") {
		c.Input.Encoding = flagEncoding
	}
	if flags.Changed("sheet") {
		c.Input.Sheet = flagSheet
	}
	if flags.Changed("shapefile") {
		c.Input.Shapefile = flagShapefile
	}
	if flags.Changed("out") {
		c.Output.Dir = flagOut
	}
	if flags.Changed("top") {
		c.Report.TopN = flagTop
	}
	if flags.Changed("no-screenshots") && flagNoScreenshots {
		c.Screenshot.Enabled = false
	}
	if flags.Changed("xlsx") {
		c.Workbook.Enabled = flagXLSX
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagInput, "input", "", "population estimates file (.csv or .xlsx)")
	pf.StringVar(&flagEncoding, "encoding", "", "text encoding of a CSV input, e.g. latin1")
	pf.StringVar(&flagSheet, "sheet", "", "sheet to read from an XLSX input")
	pf.StringVar(&flagShapefile, "shapefile", "", "town boundary shapefile (.shp or .zip)")
	pf.StringVar(&flagOut, "out", "", "output directory")
	pf.IntVar(&flagTop, "top", 10, "rows per ranking group")
	pf.BoolVar(&flagNoScreenshots, "no-screenshots", false, "skip PNG captures of ranking tables")
	pf.BoolVar(&flagXLSX, "xlsx", false, "also write an Excel workbook of every table")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
