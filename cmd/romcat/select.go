package main

import (
	"fmt"

	"romcat/internal/errors"
	"romcat/internal/log"
	"romcat/internal/store"

	"github.com/spf13/cobra"
)

// NewSelectCmd creates the select command
func NewSelectCmd() *cobra.Command {
	var station string
	var pathOnly bool

	cmd := &cobra.Command{
		Use:   "select <query>",
		Short: "Pick the first game matching query and print its launch target",
		Long: `Select searches the catalog, picks the first match in the current sort order,
records it in the launch history and prints the ROM path and core.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openScannedCatalog(cmd.Context())
			if err != nil {
				return err
			}
			var short string
			if station != "" {
				st, err := resolveStation(svc, station)
				if err != nil {
					return err
				}
				svc.Browse(st.ID)
			}
			svc.SetSearch(args[0])
			if svc.ViewLen() == 0 {
				return errors.NewInvalidInputError("no game matches "+args[0], nil)
			}

			entry, _ := svc.Selected()
			sel, err := svc.Select()
			if err != nil {
				return err
			}
			if st, err := svc.Station(entry.StationID); err == nil {
				short = st.ShortName
			}

			db, err := openStore()
			if err != nil {
				log.LogWithError(err).Warn("history unavailable")
			} else {
				defer db.Close()
				if err := db.RecordSelection(cmd.Context(), store.Selection{
					Path: sel.Path, Label: sel.Label, Core: sel.Core, Station: short,
				}); err != nil {
					log.LogWithError(err).Warn("failed to record selection")
				}
			}

			if pathOnly {
				fmt.Println(sel.Path)
				return nil
			}
			printSuccess(sel.Label)
			fmt.Printf("path: %s\ncore: %s\n", sel.Path, sel.Core)
			return nil
		},
	}

	cmd.Flags().StringVarP(&station, "station", "s", "", "restrict the search to one station")
	cmd.Flags().BoolVar(&pathOnly, "path", false, "print only the ROM path")
	return cmd
}
