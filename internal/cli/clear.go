package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all shipments",
	Long: `Delete every shipment. The records are snapshotted for undo first,
so 'upsbatch undo' restores them as long as the operation stays on the
stack.`,
	Args: cobra.NoArgs,
	Run:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) {
	c := initContextChecked()
	defer c.Close()

	if !clearForce && !confirm("Wirklich alle Sendungen löschen?") {
		return
	}

	count, err := core.ClearAllData(c.Config, c.Store)
	if err != nil {
		exitError("%v", err)
	}
	color.New(color.FgGreen).Printf("%d Sendungen gelöscht\n", count)
}
