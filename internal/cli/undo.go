package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var undoList bool

var undoCmd = &cobra.Command{
	Use:   "undo [<activity-id>]",
	Short: "Undo a recorded mutation",
	Long: `Undo the mutation recorded under an activity id. Without an id the
most recent unused operation is undone. Each operation can be undone
exactly once; the stack keeps the last 50 operations for 7 days.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runUndo,
}

func init() {
	undoCmd.Flags().BoolVar(&undoList, "list", false, "list the undo stack instead of undoing")
}

func runUndo(cmd *cobra.Command, args []string) {
	c := initContextChecked()
	defer c.Close()

	if undoList {
		printUndoStack(c)
		return
	}

	activityID := ""
	if len(args) == 1 {
		activityID = args[0]
	} else {
		ops, err := c.Store.UndoOperations()
		if err != nil {
			exitError("%v", err)
		}
		for _, op := range ops {
			if !op.Used {
				activityID = op.ActivityID
				break
			}
		}
		if activityID == "" {
			exitError("nichts rückgängig zu machen")
		}
	}

	done, err := core.PerformUndo(c.Config, c.Store, activityID)
	if err != nil {
		exitError("%v", err)
	}
	if !done {
		exitError("keine rückgängig machbare Aktion für Aktivität %s", activityID)
	}
	color.New(color.FgGreen).Println("Aktion rückgängig gemacht")
}

func printUndoStack(c *cmdContext) {
	ops, err := c.Store.UndoOperations()
	if err != nil {
		exitError("%v", err)
	}
	if len(ops) == 0 {
		fmt.Println("Undo-Stapel ist leer")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ZEIT\tAKTION\tBESCHREIBUNG\tSTATUS\tAKTIVITÄT")
	for _, op := range ops {
		status := "verfügbar"
		if op.Used {
			status = "verbraucht"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			op.Timestamp.Format("02.01.2006, 15:04"), op.ActionType, op.Data.Description, status, op.ActivityID)
	}
	w.Flush()
}
