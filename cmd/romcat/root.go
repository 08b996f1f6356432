package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"romcat/internal/catalog"
	"romcat/internal/config"
	"romcat/internal/errors"
	"romcat/internal/log"
	"romcat/internal/preview"
	"romcat/internal/store"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "romcat",
		Short:   "Catalog, browse and preview ROM collections",
		Long:    `romcat indexes ROM files per console station, lets you browse them and fetches box art.`,
		Version: version,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
				if err != nil {
					return err
				}
			} else {
				cfg, err = config.LoadConfig()
				if err != nil {
					printWarning(err.Error())
					printInfo("Using default settings.")
					cfg = config.New()
				}
			}

			opts := []log.Option{}
			if cfg.Logging.JSON {
				opts = append(opts, log.WithJSON())
			}
			if cfg.Logging.File != "" {
				opts = append(opts, log.WithFile(cfg.Logging.File))
			}
			log.Configure(opts...)
			log.SetDebug(debug || cfg.Logging.Debug)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/romcat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewStationCmd())
	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewSelectCmd())
	rootCmd.AddCommand(NewPreviewCmd())
	rootCmd.AddCommand(NewBrowseCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewRecentCmd())

	return rootCmd
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func openCatalog() (*catalog.Service, error) {
	return catalog.New(cfg)
}

// openScannedCatalog builds the catalog and indexes every enabled station.
func openScannedCatalog(ctx context.Context) (*catalog.Service, error) {
	svc, err := openCatalog()
	if err != nil {
		return nil, err
	}
	if _, err := svc.ScanAll(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func openStore() (*store.DB, error) {
	return store.Open(cfg.Paths.HistoryDB)
}

func newPipeline(svc *catalog.Service, db *store.DB) *preview.Pipeline {
	var opts []preview.Option
	if db != nil {
		opts = append(opts, preview.WithLedger(db))
	}
	return preview.New(cfg, svc, opts...)
}

// resolveStation accepts a short name or a slot number.
func resolveStation(svc *catalog.Service, arg string) (catalog.Station, error) {
	if st, ok := svc.FindStation(arg); ok {
		return st, nil
	}
	if id, err := strconv.Atoi(arg); err == nil {
		return svc.Station(id)
	}
	return catalog.Station{}, errors.NewStationError("station not found: "+arg, -1, errors.NotFound, nil)
}

// findEntry returns the entry of station id whose name or filename is name.
func findEntry(svc *catalog.Service, id int, name string) (catalog.Entry, error) {
	for _, e := range svc.StationEntries(id) {
		if e.Name == name || e.Filename == name {
			return e, nil
		}
	}
	return catalog.Entry{}, errors.NewStationError("rom not found: "+name, id, errors.NotFound, nil)
}
