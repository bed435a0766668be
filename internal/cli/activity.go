package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var activityClear bool

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the activity log",
	Long: `Show the activity log, newest first. The log keeps the last 50
entries. Entries that can be undone carry an id usable with
'upsbatch undo <id>'.`,
	Args: cobra.NoArgs,
	Run:  runActivity,
}

func init() {
	activityCmd.Flags().BoolVar(&activityClear, "clear", false, "empty the activity log")
}

func runActivity(cmd *cobra.Command, args []string) {
	c := initContextChecked()
	defer c.Close()

	if activityClear {
		if err := c.Store.ClearActivities(); err != nil {
			exitError("%v", err)
		}
		color.New(color.FgGreen).Println("Aktivitätsprotokoll geleert")
		return
	}

	activities, err := c.Store.Activities()
	if err != nil {
		exitError("%v", err)
	}
	if len(activities) == 0 {
		fmt.Println("Keine Aktivitäten aufgezeichnet")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ZEIT\tTYP\tBENUTZER\tMELDUNG\tID")
	for _, a := range activities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.Time, a.Type, a.User, a.Message, a.ID)
	}
	w.Flush()
}
