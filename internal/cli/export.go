package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var (
	exportOutput    string
	exportFormat    string
	exportOnlyValid bool
	exportNoHeaders bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export shipments as a UPS batch file",
	Long: `Export shipments as delimited text in the fixed 79-column UPS
field order, or as flat XML. Without --output the batch is written to
stdout.

Examples:
  upsbatch export --only-valid -o sendungen.ssv
  upsbatch export --format csv --no-headers -o batch.csv
  upsbatch export --format xml -o sendungen.xml`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "csv, ssv or xml (default from config)")
	exportCmd.Flags().BoolVar(&exportOnlyValid, "only-valid", false, "export only valid shipments")
	exportCmd.Flags().BoolVar(&exportNoHeaders, "no-headers", false, "omit the header row")
}

func runExport(cmd *cobra.Command, args []string) {
	c := initContextChecked()
	defer c.Close()

	format := exportFormat
	if format == "" {
		format = c.Config.ExportFormat
	}
	includeHeaders := c.Config.ExportHeaders
	if cmd.Flags().Changed("no-headers") {
		includeHeaders = !exportNoHeaders
	}

	out, err := core.ExportBatch(c.Config, c.Store, core.ExportOptions{
		OnlyValid:      exportOnlyValid,
		Format:         format,
		IncludeHeaders: includeHeaders,
	})
	if err != nil {
		exitError("%v", err)
	}

	if exportOutput == "" {
		fmt.Print(out)
		return
	}

	if err := os.WriteFile(exportOutput, []byte(out), 0644); err != nil {
		exitError("failed to write %s: %v", exportOutput, err)
	}
	if _, err := core.LogDownload(c.Config, c.Store, exportOutput); err != nil {
		exitError("%v", err)
	}
	color.New(color.FgGreen).Printf("Batch-Datei nach %s geschrieben\n", exportOutput)
}
