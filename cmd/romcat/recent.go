package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewRecentCmd creates the recent command
func NewRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently launched games",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			recent, err := db.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recent) == 0 {
				printInfo("Nothing launched yet.")
				return nil
			}

			printHeader("Recently played")
			for _, sel := range recent {
				fmt.Printf("%-8s %-40s %3dx  %s\n", sel.Station, sel.Label, sel.Count, humanize.Time(sel.SelectedAt))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries")
	return cmd
}
