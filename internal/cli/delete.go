package cli

import (
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id> [<id>...]",
	Short: "Delete one or more shipments",
	Args:  cobra.MinimumNArgs(1),
	Run:   runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			exitError("invalid shipment id: %s", arg)
		}
		ids = append(ids, id)
	}

	c := initContextChecked()
	defer c.Close()

	if !deleteForce && !confirm(pluralizePrompt(len(ids))) {
		return
	}

	green := color.New(color.FgGreen)
	if len(ids) == 1 {
		removed, err := core.DeleteShipment(c.Config, c.Store, ids[0])
		if err != nil {
			exitError("%v", err)
		}
		if !removed {
			exitError("Sendung #%d nicht gefunden", ids[0])
		}
		green.Printf("Sendung #%d gelöscht\n", ids[0])
		return
	}

	count, err := core.DeleteShipments(c.Config, c.Store, ids)
	if err != nil {
		exitError("%v", err)
	}
	green.Printf("%d von %d Sendungen gelöscht\n", count, len(ids))
}

func pluralizePrompt(n int) string {
	if n == 1 {
		return "Sendung wirklich löschen?"
	}
	return "Sendungen wirklich löschen?"
}
