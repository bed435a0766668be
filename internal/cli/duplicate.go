package cli

import (
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var duplicateCmd = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Duplicate a shipment under a new id",
	Args:  cobra.ExactArgs(1),
	Run:   runDuplicate,
}

func runDuplicate(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitError("invalid shipment id: %s", args[0])
	}

	c := initContextChecked()
	defer c.Close()

	dup, err := core.DuplicateShipment(c.Config, c.Store, id)
	if err != nil {
		exitError("%v", err)
	}
	if dup == nil {
		exitError("Sendung #%d nicht gefunden", id)
	}

	color.New(color.FgGreen).Printf("Sendung #%d als #%d dupliziert\n", id, dup.ID)
}
