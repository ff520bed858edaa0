package main

import (
	"github.com/spf13/cobra"

	"github.com/MaineStateEconomist207/pepv2024/internal/pipeline"
)

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Write the top and bottom ranking tables",
	Long:  "Three tables with PNG screenshots: the largest and smallest percent and numeric changes, and the most populous towns.",
	RunE:  runReport((*pipeline.Runner).Rankings),
}

func init() {
	rootCmd.AddCommand(rankingsCmd)
}
