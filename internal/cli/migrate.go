package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var (
	migrateApply      bool
	migrateFreshStart bool
	migrateBackup     bool
	migrateHistory    bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the data store to the current schema version",
	Long: `Check the stored data version against the current one and resolve
any mismatch. An older store is migrated step by step along the version
chain, with a backup written first; a newer store can only be reset.

Without flags the command asks interactively. Use --apply or
--fresh-start for non-interactive runs.`,
	Args: cobra.NoArgs,
	Run:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateApply, "apply", false, "run the pending migration without asking")
	migrateCmd.Flags().BoolVar(&migrateFreshStart, "fresh-start", false, "drop all data and start at the current version")
	migrateCmd.Flags().BoolVar(&migrateBackup, "backup", true, "write a backup before a fresh start")
	migrateCmd.Flags().BoolVar(&migrateHistory, "history", false, "show past migrations")
}

func runMigrate(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if migrateHistory {
		printMigrationHistory(c)
		return
	}

	plan, err := core.CheckVersions(c.Config, c.Store)
	if err != nil {
		exitError("version check failed: %v", err)
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if migrateFreshStart {
		runFreshStart(c)
		return
	}

	switch plan.State {
	case core.StateUpToDate, core.StateUninitialized:
		green.Printf("Datenbestand ist aktuell (Version %s)\n", core.CurrentDataVersion)

	case core.StateDowngradeDetected:
		yellow.Printf("Datenbestand hat die neuere Version %s, diese Anwendung erwartet %s\n",
			plan.StoredDataVersion, core.CurrentDataVersion)
		yellow.Println("Ein Downgrade ist nicht möglich; nur ein Neubeginn setzt den Bestand zurück.")
		if confirm("Alle Daten löschen und neu beginnen?") {
			runFreshStart(c)
		}

	case core.StateUpgradeRequired:
		yellow.Printf("Datenbestand hat Version %s, benötigt wird %s (%d Schritte)\n",
			plan.StoredDataVersion, core.CurrentDataVersion, len(plan.Steps))
		if !migrateApply {
			switch promptMigrationChoice() {
			case "m":
			case "n":
				runFreshStart(c)
				return
			default:
				fmt.Println("Abgebrochen, keine Änderungen vorgenommen")
				return
			}
		}

		record, err := core.RunMigration(c.Config, c.Store, plan)
		if err != nil {
			if record != nil && record.BackupFile != "" {
				yellow.Printf("Sicherung unter %s\n", record.BackupFile)
			}
			exitError("%v", err)
		}
		green.Printf("Migration von %s auf %s abgeschlossen\n", record.FromVersion, record.ToVersion)
		fmt.Printf("Sicherung unter %s\n", record.BackupFile)
	}
}

// promptMigrationChoice asks how to resolve a pending upgrade.
func promptMigrationChoice() string {
	fmt.Print("Jetzt [m]igrieren, [n]eu beginnen oder [a]bbrechen? ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return "a"
	}
	return strings.ToLower(strings.TrimSpace(answer))
}

func runFreshStart(c *cmdContext) {
	backupPath, err := core.FreshStart(c.Config, c.Store, migrateBackup)
	if err != nil {
		exitError("%v", err)
	}
	if backupPath != "" {
		fmt.Printf("Sicherung unter %s\n", backupPath)
	}
	color.New(color.FgGreen).Printf("Datenbestand zurückgesetzt (Version %s)\n", core.CurrentDataVersion)
}

func printMigrationHistory(c *cmdContext) {
	history, err := c.Store.MigrationHistory()
	if err != nil {
		exitError("%v", err)
	}
	if len(history) == 0 {
		fmt.Println("Keine Migrationen aufgezeichnet")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ZEIT\tVON\tNACH\tERGEBNIS\tSICHERUNG")
	for _, rec := range history {
		result := "erfolgreich"
		if !rec.Success {
			result = "fehlgeschlagen: " + rec.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.Timestamp.Format("02.01.2006, 15:04"), rec.FromVersion, rec.ToVersion, result, rec.BackupFile)
	}
	w.Flush()
}
