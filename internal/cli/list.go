package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skleinke/upsbatch/internal/core"
)

var (
	listSearch   string
	listService  string
	listCountry  string
	listValid    bool
	listInvalid  bool
	listSortBy   string
	listSortDesc bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List shipments",
	Long: `List shipments with optional filtering and sorting.

Examples:
  upsbatch list --search acme
  upsbatch list --country US --invalid
  upsbatch list --sort company_name --desc`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "substring search over company/contact/city/address")
	listCmd.Flags().StringVar(&listService, "service", "", "filter by service type code")
	listCmd.Flags().StringVar(&listCountry, "country", "", "filter by ISO-2 country code")
	listCmd.Flags().BoolVar(&listValid, "valid", false, "only valid shipments")
	listCmd.Flags().BoolVar(&listInvalid, "invalid", false, "only invalid shipments")
	listCmd.Flags().StringVar(&listSortBy, "sort", "", "sort by field key (e.g. company_name, city, weight)")
	listCmd.Flags().BoolVar(&listSortDesc, "desc", false, "sort descending")
}

func runList(cmd *cobra.Command, args []string) {
	c := initContextChecked()
	defer c.Close()

	filter := core.ListFilter{
		Search:   listSearch,
		Service:  listService,
		Country:  listCountry,
		SortBy:   listSortBy,
		SortDesc: listSortDesc,
	}
	if listValid {
		filter.Validity = "valid"
	} else if listInvalid {
		filter.Validity = "invalid"
	}

	shipments, err := core.ListShipments(c.Store, filter)
	if err != nil {
		exitError("%v", err)
	}

	if len(shipments) == 0 {
		fmt.Println("Keine Sendungen gefunden")
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIRMA\tSTADT\tLAND\tGEWICHT\tSERVICE\tSTATUS")
	for _, s := range shipments {
		status := green("gültig")
		if !s.IsValid {
			status = red(fmt.Sprintf("%d Fehler", len(s.Errors)))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%g %s\t%s\t%s\n",
			s.ID, s.CompanyName, s.City, s.Country, s.Weight, s.Unit, s.ServiceType, status)
	}
	w.Flush()
}
