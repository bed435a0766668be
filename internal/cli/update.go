package cli

import (
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var updateFlags shipmentFlags

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a shipment",
	Long: `Update a shipment. Only the flags given on the command line are
changed; the shipment is re-validated afterwards.`,
	Args: cobra.ExactArgs(1),
	Run:  runUpdate,
}

func init() {
	updateFlags.register(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitError("invalid shipment id: %s", args[0])
	}

	c := initContextChecked()
	defer c.Close()

	patch, err := updateFlags.patch(cmd)
	if err != nil {
		exitError("%v", err)
	}

	rec, err := core.UpdateShipment(c.Config, c.Store, id, patch)
	if err != nil {
		exitError("%v", err)
	}
	if rec == nil {
		exitError("Sendung #%d nicht gefunden", id)
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	green.Printf("Sendung #%d aktualisiert\n", rec.ID)
	if !rec.IsValid {
		yellow.Printf("Sendung ist unvollständig (%d Fehler):\n", len(rec.Errors))
		for _, e := range rec.Errors {
			yellow.Printf("  [%s] %s\n", e.Field, e.Message)
		}
	}
}
