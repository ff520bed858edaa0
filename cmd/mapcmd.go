package main

import (
	"github.com/spf13/cobra"

	"github.com/MaineStateEconomist207/pepv2024/internal/pipeline"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Write the choropleth of population change",
	Long:  "Writes maine_towns_map.html, a Leaflet map of towns colored by 2023-2024 numeric change with county outlines.",
	RunE:  runReport((*pipeline.Runner).Map),
}

func init() {
	rootCmd.AddCommand(mapCmd)
}
