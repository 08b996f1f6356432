package main

import (
	"fmt"

	"romcat/internal/catalog"
	"romcat/internal/errors"

	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command
func NewScanCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "scan [station]",
		Short: "Index ROM files for one station or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return errors.NewInvalidInputError("name a station or pass --all", nil)
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			svc, err := openCatalog()
			if err != nil {
				return err
			}

			if all {
				total, err := svc.ScanAll(ctx)
				if err != nil {
					return scanError(err)
				}
				printHeader("Scan results")
				for _, st := range svc.Stations() {
					fmt.Printf("%-8s %6d\n", st.ShortName, svc.StationEntryCount(st.ID))
				}
				printSuccess(fmt.Sprintf("%d games indexed", total))
				return nil
			}

			st, err := resolveStation(svc, args[0])
			if err != nil {
				return err
			}
			n, err := svc.ScanStation(ctx, st.ID)
			if err != nil {
				return scanError(err)
			}
			printSuccess(fmt.Sprintf("%s: %d games indexed", st.Name, n))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "scan every enabled station")
	return cmd
}

func scanError(err error) error {
	if errors.Is(err, catalog.ErrScanCancelled) {
		printWarning("Scan cancelled")
		return nil
	}
	return err
}
