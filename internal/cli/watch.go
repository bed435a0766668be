package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/config"
	"github.com/skleinke/upsbatch/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the database and tail new activity entries",
	Long: `Watch the database file and print new activity entries whenever
another process writes to it. The database stays closed between changes
so other upsbatch invocations can take the file lock. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	dbPath := cfg.DatabasePath()
	changes := make(chan struct{}, 1)
	w, err := store.Watch(dbPath, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		exitError("%v", err)
	}
	defer w.Close()

	fmt.Printf("Beobachte %s (Strg-C zum Beenden)\n", dbPath)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	lastSeen := latestActivityID(dbPath, "")
	yellow := color.New(color.FgYellow)
	for {
		select {
		case <-changes:
			// Give the writing process a moment to release the file lock.
			time.Sleep(200 * time.Millisecond)
			lastSeen = printNewActivities(dbPath, lastSeen, yellow)
		case <-interrupt:
			fmt.Println()
			return
		}
	}
}

// latestActivityID reads the newest activity id, best effort. The fallback is
// returned when the store is locked by another process.
func latestActivityID(dbPath, fallback string) string {
	st, err := store.New(dbPath, nil)
	if err != nil {
		return fallback
	}
	defer st.Close()

	activities, err := st.Activities()
	if err != nil || len(activities) == 0 {
		return fallback
	}
	return activities[0].ID
}

// printNewActivities prints entries newer than lastSeen and returns the new
// high-water mark. Activity ids are timestamp strings, so a plain string
// comparison orders them.
func printNewActivities(dbPath, lastSeen string, out *color.Color) string {
	st, err := store.New(dbPath, nil)
	if err != nil {
		return lastSeen
	}
	defer st.Close()

	activities, err := st.Activities()
	if err != nil || len(activities) == 0 {
		return lastSeen
	}

	var fresh []string
	for _, a := range activities {
		if a.ID <= lastSeen {
			break
		}
		fresh = append(fresh, fmt.Sprintf("%s  %s", a.Time, a.Message))
	}
	// newest-first from the store, print oldest-first
	for i := len(fresh) - 1; i >= 0; i-- {
		out.Println(fresh[i])
	}
	return activities[0].ID
}
