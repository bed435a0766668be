package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/batch"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show all fields of a shipment",
	Args:  cobra.ExactArgs(1),
	Run:   runShow,
}

func runShow(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitError("invalid shipment id: %s", args[0])
	}

	c := initContextChecked()
	defer c.Close()

	rec, err := c.Store.GetShipment(id)
	if err != nil {
		exitError("%v", err)
	}
	if rec == nil {
		exitError("Sendung #%d nicht gefunden", id)
	}

	bold := color.New(color.Bold)
	bold.Printf("Sendung #%d\n", rec.ID)
	fmt.Printf("Erstellt:     %s\n", rec.CreatedAt.Format("02.01.2006, 15:04"))
	fmt.Printf("Aktualisiert: %s\n", rec.UpdatedAt.Format("02.01.2006, 15:04"))
	fmt.Println()

	for _, f := range batch.Fields() {
		if f.Key == "" {
			continue
		}
		value := batch.FieldValue(rec, f.Key)
		if value == "" {
			continue
		}
		fmt.Printf("%-28s %s\n", f.Label+":", value)
	}

	fmt.Println()
	if rec.IsValid {
		color.New(color.FgGreen).Println("Sendung ist gültig")
	} else {
		red := color.New(color.FgRed)
		red.Printf("Sendung ist ungültig (%d Fehler):\n", len(rec.Errors))
		for _, e := range rec.Errors {
			red.Printf("  [%s] %s\n", e.Field, e.Message)
		}
	}
}
