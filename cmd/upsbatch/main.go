// Command upsbatch manages UPS batch shipment files from the terminal.
package main

import (
	"os"

	"github.com/skleinke/upsbatch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
