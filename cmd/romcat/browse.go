package main

import (
	"fmt"

	"romcat/internal/log"
	"romcat/internal/tui"
	"romcat/internal/watch"

	"github.com/spf13/cobra"
)

// NewBrowseCmd creates the browse command
func NewBrowseCmd() *cobra.Command {
	var station string
	var watchDirs bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Browse opens the interactive catalog. Enter launches the selected game:
its path and core are printed on exit and recorded in the history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openScannedCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if station != "" {
				st, err := resolveStation(svc, station)
				if err != nil {
					return err
				}
				svc.Browse(st.ID)
			}

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			pipe := newPipeline(svc, db)
			defer pipe.Close()

			if watchDirs || cfg.WatchMode.Enabled {
				d, err := watch.NewDaemon(cfg, svc)
				if err == nil {
					err = d.Start(cmd.Context())
				}
				if err != nil {
					log.LogWithError(err).Warn("watch mode unavailable")
				} else {
					defer d.Stop()
				}
			}

			sel, ok, err := tui.Run(svc, pipe, tui.WithRecorder(db))
			if err != nil {
				return err
			}
			if ok {
				fmt.Printf("%s\n%s\n", sel.Path, sel.Core)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&station, "station", "s", "", "start on this station")
	cmd.Flags().BoolVarP(&watchDirs, "watch", "w", false, "rescan stations when their directories change")
	return cmd
}
