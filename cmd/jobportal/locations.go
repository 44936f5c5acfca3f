package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/jobportal/internal/locations"
	"github.com/jonathan/jobportal/internal/observability"
	"github.com/spf13/cobra"
)

var locationsCategory string

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List the named location catalog",
	Long:  "Prints the built-in catalog of residential and business locations used to name coordinates.",
	RunE:  runLocations,
}

func init() {
	locationsCmd.Flags().StringVarP(&locationsCategory, "category", "c", "", "Only list residential or business locations")
	rootCmd.AddCommand(locationsCmd)
}

func runLocations(cmd *cobra.Command, _ []string) error {
	category, err := parseCategory(locationsCategory)
	if err != nil {
		return err
	}

	title := "LOCATIONS"
	if category != "" {
		title = strings.ToUpper(string(category)) + " LOCATIONS"
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintLocations(title, locations.Default().ByCategory(category))
	return nil
}

func parseCategory(raw string) (locations.Category, error) {
	switch c := locations.Category(strings.ToLower(strings.TrimSpace(raw))); c {
	case "", locations.Residential, locations.Business:
		return c, nil
	default:
		return "", fmt.Errorf("unknown category %q (want %s or %s)", raw, locations.Residential, locations.Business)
	}
}
