package main

import (
	"fmt"
	"time"

	"romcat/internal/watch"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rescan stations whenever their ROM directories change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			svc, err := openScannedCatalog(ctx)
			if err != nil {
				return err
			}

			d, err := watch.NewDaemon(cfg, svc)
			if err != nil {
				return err
			}
			if debounce > 0 {
				d.SetDebounce(debounce)
			}
			d.SetCallback(func(id, entries int, err error) {
				name := svc.StationName(id)
				if err != nil {
					printError(fmt.Sprintf("%s: %v", name, err))
					return
				}
				printSuccess(fmt.Sprintf("%s rescanned: %d games", name, entries))
			})

			if err := d.Start(ctx); err != nil {
				return err
			}
			defer d.Stop()

			status := d.Status()
			printHeader(fmt.Sprintf("Watching %d directories", len(status.WatchDirectories)))
			printInfo("Press Ctrl+C to stop.")

			<-ctx.Done()
			printInfo(fmt.Sprintf("Stopped after %d rescans", d.Status().Rescans))
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before a rescan (default from config)")
	return cmd
}
