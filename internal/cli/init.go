package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/config"
)

var initUser string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an upsbatch workspace in the current directory",
	Long: `Create a .upsbatch directory with the configuration file, the
shipment database, and the snapshots directory.`,
	Args: cobra.NoArgs,
	Run:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initUser, "user", "", "user name for the activity log")
}

func runInit(cmd *cobra.Command, args []string) {
	cfg, err := config.Initialize(initUser)
	if err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Initialized upsbatch workspace in %s\n", cfg.AppPath())
	fmt.Println("Standardland:", cfg.DefaultCountry)
	fmt.Println("Standardservice:", cfg.DefaultService)
	fmt.Println("Exportformat:", cfg.ExportFormat)
}
