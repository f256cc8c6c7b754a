package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var topLimit int

func init() {
	topCmd.Flags().IntVarP(&topLimit, "limit", "n", 0, "Maximum rows (default from config)")
	topCmd.Flags().BoolVar(&refresh, "refresh", false, "Rebuild the dataset snapshot first")
	rootCmd.AddCommand(topCmd)
}

var topCmd = &cobra.Command{
	Use:   "top [country]",
	Short: "Show the most populous cities of a country",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		country := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		limit := cfg.Limit
		if topLimit > 0 {
			limit = topLimit
		}

		engine, err := openEngine(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = engine.Close() }() // safe to ignore

		cities, err := engine.TopCities(cmd.Context(), country, limit)
		if err != nil {
			return err
		}
		if len(cities) == 0 {
			fmt.Printf("no cities found for %q\n", country)
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Country", "Population", "Latitude", "Longitude"})
		for _, c := range cities {
			table.Append([]string{
				c.Name,
				c.Country,
				strconv.FormatInt(c.Population, 10),
				strconv.FormatFloat(c.Latitude, 'f', 4, 64),
				strconv.FormatFloat(c.Longitude, 'f', 4, 64),
			})
		}
		table.Render()
		return nil
	},
}
