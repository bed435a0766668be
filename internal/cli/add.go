package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var addFlags shipmentFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a shipment",
	Long: `Add a shipment to the batch. Missing fields are filled with
defaults; an invalid shipment is stored anyway and flagged with its
validation errors.

Examples:
  upsbatch add --company "Acme GmbH" --address1 "Hauptstr. 1" \
      --city Berlin --country DE --postal 10115 --weight 5`,
	Args: cobra.NoArgs,
	Run:  runAdd,
}

func init() {
	addFlags.register(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	c := initContextChecked()
	defer c.Close()

	rec, err := addFlags.record()
	if err != nil {
		exitError("%v", err)
	}

	added, err := core.AddShipment(c.Config, c.Store, rec)
	if err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	green.Printf("Sendung #%d hinzugefügt\n", added.ID)
	if !added.IsValid {
		yellow.Printf("Sendung ist unvollständig (%d Fehler):\n", len(added.Errors))
		for _, e := range added.Errors {
			yellow.Printf("  [%s] %s\n", e.Field, e.Message)
		}
	}
}
