package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	countriesCmd.Flags().BoolVar(&refresh, "refresh", false, "Rebuild the dataset snapshot first")
	rootCmd.AddCommand(countriesCmd)
}

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the distinct countries in the dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		engine, err := openEngine(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = engine.Close() }() // safe to ignore

		countries, err := engine.ListCountries(cmd.Context())
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Country"})
		for _, c := range countries {
			table.Append([]string{c})
		}
		table.Render()
		fmt.Printf("%d countries\n", len(countries))
		return nil
	},
}
