package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/jmehdipour/superstore-dashboard/internal/service/report"
	"github.com/spf13/cobra"
)

var (
	reportFormat string
	reportFresh  bool
	reportOrders []string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute the dashboard once and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportFormat != "text" && reportFormat != "json" {
			return fmt.Errorf("unknown format %q (text|json)", reportFormat)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg, reportOrders)
		if err != nil {
			return err
		}
		defer a.Close()

		var snap *model.Snapshot
		if reportFresh {
			snap, err = a.svc.Refresh(cmd.Context())
		} else {
			snap, err = a.svc.Snapshot(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("build snapshot: %w", err)
		}

		if reportFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		return report.WriteText(os.Stdout, snap)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format: text|json")
	reportCmd.Flags().BoolVar(&reportFresh, "fresh", false, "ignore the cached snapshot")
	reportCmd.Flags().StringSliceVar(&reportOrders, "orders", nil, "limit revenue and profit to these SalesOrderIDs")
}
