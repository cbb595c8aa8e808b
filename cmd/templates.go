package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mapgrid/georef/pkg/crs"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available CRS templates",
	Long:  "Lists the registered coordinate reference system templates and the parameters each one takes.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("templates"); err != nil {
			return err
		}

		reg := crs.DefaultRegistry()
		for _, id := range reg.IDs() {
			tmpl, _ := reg.Find(id)
			fmt.Printf("%s\n", tmpl.ID())
			for _, p := range tmpl.Parameters() {
				fmt.Printf("  %-10s %s\n", p.Key, p.Name)
			}
			fmt.Printf("  %s\n", tmpl.SpecificationTemplate())
		}
		return nil
	},
}

func init() { rootCmd.AddCommand(templatesCmd) }
