package main

import (
	"github.com/spf13/cobra"

	"github.com/MaineStateEconomist207/pepv2024/internal/pipeline"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Write every report",
	Long:  "Runs towns, rankings and map in one pass over the estimates file.",
	RunE:  runReport((*pipeline.Runner).All),
}

func init() {
	rootCmd.AddCommand(allCmd)
}
