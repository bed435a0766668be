package cli

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var importTimeout time.Duration

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import shipments from a CSV/SSV batch file",
	Long: `Import shipments from a delimited text file. The delimiter is
inferred from the extension: .csv and .txt are comma-delimited, .ssv is
semicolon-delimited. The first line must be a header row; its cells are
matched against the UPS field names and their German labels.

Bad rows never stop the batch: they are reported with their line number
and the remaining rows keep importing.`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func init() {
	importCmd.Flags().DurationVar(&importTimeout, "timeout", core.DefaultImportTimeout,
		"abort the file read after this long")
}

func runImport(cmd *cobra.Command, args []string) {
	c := initContextChecked()
	defer c.Close()

	result, err := core.ImportFile(c.Config, c.Store, args[0], importTimeout)
	if err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	green.Printf("%d Sendungen importiert\n", result.Imported)
	if len(result.Errors) > 0 {
		red.Printf("%d Zeilen fehlerhaft:\n", len(result.Errors))
		for _, e := range result.Errors {
			red.Printf("  Zeile %d: %s\n", e.Line, e.Message)
		}
	}

	invalid := 0
	for _, s := range result.Shipments {
		if !s.IsValid {
			invalid++
		}
	}
	if invalid > 0 {
		yellow.Printf("%d importierte Sendungen sind unvollständig – 'upsbatch validate' zeigt die Details\n", invalid)
	}
}
