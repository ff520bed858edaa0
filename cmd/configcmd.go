package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as YAML",
	Long:  "Prints defaults merged with config.yaml, PEP_* environment variables and flags. The output is a valid config.yaml.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return eris.Wrap(err, "config: encode yaml")
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
