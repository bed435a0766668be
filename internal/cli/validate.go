package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var validateReport string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Re-validate all shipments and list the errors",
	Args:  cobra.NoArgs,
	Run:   runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateReport, "report", "", "write a plain-text error report to this file")
}

func runValidate(cmd *cobra.Command, args []string) {
	c := initContextChecked()
	defer c.Close()

	shipments, err := core.ValidateAll(c.Store)
	if err != nil {
		exitError("%v", err)
	}

	invalid := 0
	red := color.New(color.FgRed)
	for _, rec := range shipments {
		if rec.IsValid {
			continue
		}
		invalid++
		red.Printf("Sendung #%d (%s):\n", rec.ID, rec.CompanyName)
		for _, e := range rec.Errors {
			red.Printf("  [%s] %s\n", e.Field, e.Message)
		}
	}

	if invalid == 0 {
		color.New(color.FgGreen).Printf("Alle %d Sendungen sind gültig\n", len(shipments))
	} else {
		red.Printf("%d von %d Sendungen ungültig\n", invalid, len(shipments))
	}

	if validateReport != "" {
		report, err := core.ExportErrorReport(c.Config, c.Store)
		if err != nil {
			exitError("%v", err)
		}
		if err := os.WriteFile(validateReport, []byte(report), 0644); err != nil {
			exitError("failed to write %s: %v", validateReport, err)
		}
		color.New(color.FgGreen).Printf("Fehlerbericht nach %s geschrieben\n", validateReport)
	}
}
