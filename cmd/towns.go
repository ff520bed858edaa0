package main

import (
	"github.com/spf13/cobra"

	"github.com/MaineStateEconomist207/pepv2024/internal/pipeline"
)

var townsCmd = &cobra.Command{
	Use:   "towns",
	Short: "Write the sortable table of every town",
	Long:  "Writes maine_towns_all.html, a searchable table of every Maine town with its 2024 estimate and change since 2023 and 2020.",
	RunE:  runReport((*pipeline.Runner).Towns),
}

func init() {
	rootCmd.AddCommand(townsCmd)
}
