package main

import (
	"fmt"
	"sort"

	"romcat/internal/catalog"
	"romcat/internal/errors"
	"romcat/internal/preview"
	"romcat/internal/store"
	"romcat/internal/tui/components"
	"romcat/internal/tui/styles"

	"github.com/spf13/cobra"
)

// NewPreviewCmd creates the preview command and its subcommands
func NewPreviewCmd() *cobra.Command {
	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Show, fetch and manage box art",
	}

	previewCmd.AddCommand(newPreviewShowCmd())
	previewCmd.AddCommand(newPreviewFetchCmd())
	previewCmd.AddCommand(newPreviewBatchCmd())
	previewCmd.AddCommand(newPreviewClearCmd())
	previewCmd.AddCommand(newPreviewStatsCmd())
	return previewCmd
}

// previewTarget opens the scanned catalog, the history store and a pipeline,
// and resolves the station/game pair named by args.
func previewTarget(cmd *cobra.Command, args []string) (*catalog.Service, *store.DB, *preview.Pipeline, catalog.Entry, error) {
	svc, err := openScannedCatalog(cmd.Context())
	if err != nil {
		return nil, nil, nil, catalog.Entry{}, err
	}
	st, err := resolveStation(svc, args[0])
	if err != nil {
		return nil, nil, nil, catalog.Entry{}, err
	}
	entry, err := findEntry(svc, st.ID, args[1])
	if err != nil {
		return nil, nil, nil, catalog.Entry{}, err
	}
	db, err := openStore()
	if err != nil {
		return nil, nil, nil, catalog.Entry{}, err
	}
	return svc, db, newPipeline(svc, db), entry, nil
}

func newPreviewShowCmd() *cobra.Command {
	var fetch bool

	cmd := &cobra.Command{
		Use:   "show <station> <game>",
		Short: "Render a game's preview in the terminal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, db, pipe, entry, err := previewTarget(cmd, args)
			if err != nil {
				return err
			}
			defer db.Close()
			defer pipe.Close()

			status := pipe.LoadLocal(entry)
			if status != preview.Ready && fetch {
				if status, err = pipe.FetchOnline(cmd.Context(), entry); err != nil && !errors.IsNoConnectivity(err) && !errors.IsNotFound(err) {
					return err
				}
			}

			res := pipe.Current()
			fmt.Println(components.RenderPreview(res, svc.StationName(entry.StationID), styles.FromTheme(cfg)))
			fmt.Printf("%s: %s", entry.Name, status)
			if res.Source != "" {
				fmt.Printf(" (%s)", res.Source)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&fetch, "fetch", "f", false, "download the art when it is not on disk")
	return cmd
}

func newPreviewFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <station> <game>",
		Short: "Download box art for one game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, pipe, entry, err := previewTarget(cmd, args)
			if err != nil {
				return err
			}
			defer db.Close()
			defer pipe.Close()

			if pipe.CacheExists(entry) {
				printInfo(entry.Name + " is already cached")
				return nil
			}
			status, err := pipe.FetchOnline(cmd.Context(), entry)
			switch {
			case status == preview.Ready:
				printSuccess("Downloaded art for " + entry.Name)
			case status == preview.NoInternet:
				printWarning("No internet connection")
			case status == preview.NotFound:
				printWarning("No art found for " + entry.Name)
			default:
				return err
			}
			return nil
		},
	}
}

func newPreviewBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <station>",
		Short: "Download missing box art for every game of a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			svc, err := openScannedCatalog(ctx)
			if err != nil {
				return err
			}
			st, err := resolveStation(svc, args[0])
			if err != nil {
				return err
			}
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			pipe := newPipeline(svc, db)
			defer pipe.Close()

			printHeader("Fetching art for " + st.Name)
			n, err := pipe.BatchFetch(ctx, st.ID, func(current, total int, name string) {
				fmt.Printf("\r[%d/%d] %-48.48s", current, total, name)
			})
			fmt.Println()
			if errors.IsNoConnectivity(err) {
				printWarning("No internet connection")
				return nil
			}
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Downloaded %d images", n))
			return nil
		},
	}
}

func newPreviewClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [station]",
		Short: "Delete cached art for one station or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openCatalog()
			if err != nil {
				return err
			}
			pipe := newPipeline(svc, nil)
			defer pipe.Close()

			if len(args) == 0 {
				if err := pipe.ClearCache(); err != nil {
					return err
				}
				printSuccess("Cleared the preview cache")
				return nil
			}
			st, err := resolveStation(svc, args[0])
			if err != nil {
				return err
			}
			if err := pipe.ClearStationCache(st.ID); err != nil {
				return err
			}
			printSuccess("Cleared cached art for " + st.Name)
			return nil
		},
	}
}

func newPreviewStatsCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "stats [station]",
		Short: "Summarise online fetch attempts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var short string
			if len(args) == 1 {
				svc, err := openCatalog()
				if err != nil {
					return err
				}
				st, err := resolveStation(svc, args[0])
				if err != nil {
					return err
				}
				short = st.ShortName
			}

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if reset {
				if err := db.ClearFetches(cmd.Context(), short); err != nil {
					return err
				}
				printSuccess("Fetch history cleared")
				return nil
			}

			stats, err := db.FetchStats(cmd.Context(), short)
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				printInfo("No fetches recorded.")
				return nil
			}
			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			printHeader("Fetch results")
			for _, k := range keys {
				fmt.Printf("%-12s %6d\n", k, stats[k])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "forget recorded fetches")
	return cmd
}
