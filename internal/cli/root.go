// Package cli implements the command-line interface for the UPS batch
// manager.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skleinke/upsbatch/internal/config"
	"github.com/skleinke/upsbatch/internal/core"
	"github.com/skleinke/upsbatch/internal/logging"
	"github.com/skleinke/upsbatch/internal/store"
)

// cmdContext holds common resources for CLI commands.
type cmdContext struct {
	Config *config.Config
	Store  *store.Store
	Log    *zap.Logger
}

// Close releases resources held by cmdContext.
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
	if c.Log != nil {
		c.Log.Sync()
	}
}

// initContext initializes config, log, and store without the version gate.
// Only the migrate command uses this directly.
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	log := logging.New(cfg.LogPath())

	st, err := store.New(cfg.DatabasePath(), log)
	if err != nil {
		exitError("failed to open store: %v", err)
	}
	if err := st.Initialize(); err != nil {
		st.Close()
		exitError("failed to initialize store: %v", err)
	}

	return &cmdContext{Config: cfg, Store: st, Log: log}
}

// initContextChecked initializes the context and runs the startup version
// check. Stores needing a data migration block every command except
// migrate: the user has to pick how to proceed first.
func initContextChecked() *cmdContext {
	c := initContext()

	plan, err := core.CheckVersions(c.Config, c.Store)
	if err != nil {
		c.Close()
		exitError("version check failed: %v", err)
	}

	switch plan.State {
	case core.StateUpgradeRequired:
		c.Close()
		exitError("Datenbestand hat Version %s, benötigt wird %s – bitte 'upsbatch migrate' ausführen",
			plan.StoredDataVersion, core.CurrentDataVersion)
	case core.StateDowngradeDetected:
		c.Close()
		exitError("Datenbestand hat die neuere Version %s – bitte 'upsbatch migrate --fresh-start' ausführen",
			plan.StoredDataVersion)
	}

	return c
}

var rootCmd = &cobra.Command{
	Use:     "upsbatch",
	Short:   "UPS Batch Manager",
	Version: core.CurrentAppVersion,
	Long: `upsbatch manages UPS batch shipment files: create and validate
shipments, import CSV/SSV files, and export batch files in the fixed
UPS field order for upload to the carrier's batch shipping tool.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(duplicateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(watchCmd)
}

// exitError prints an error and exits.
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// confirm asks a y/N question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [j/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "j" || answer == "ja" || answer == "y" || answer == "yes"
}
