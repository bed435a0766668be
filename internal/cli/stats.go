package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show shipment statistics",
	Args:  cobra.NoArgs,
	Run:   runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	c := initContextChecked()
	defer c.Close()

	stats, err := core.ComputeStatistics(c.Store)
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("Sendungen gesamt:  %d\n", stats.Total)
	color.New(color.FgGreen).Printf("Gültig:            %d (%d%%)\n", stats.Valid, stats.ValidPercentage)
	if stats.Invalid > 0 {
		color.New(color.FgRed).Printf("Ungültig:          %d\n", stats.Invalid)
	} else {
		fmt.Printf("Ungültig:          %d\n", stats.Invalid)
	}
	fmt.Printf("Gesamtgewicht:     %.1f KG\n", stats.TotalWeightKG)
}
