package main

import (
	"fmt"
	"strings"

	"romcat/internal/catalog"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		station string
		search  string
		sortBy  string
		page    int
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed games one page at a time",
		Example: `  romcat list --station SNES --sort size_desc
  romcat list --search mario --page 2`,
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
			if sortBy != "" {
				mode, err := catalog.ParseSortMode(sortBy)
				if err != nil {
					return err
				}
				svc.Sort(mode)
			}
			if search != "" {
				svc.SetSearch(search)
			}

			if all {
				for _, e := range svc.ViewEntries() {
					printEntry(svc, e, false)
				}
				return nil
			}

			for i := 1; i < page; i++ {
				svc.Navigate(catalog.NextPage)
			}
			p := svc.Rows()
			if p.Total == 0 {
				printInfo("No games match.")
				return nil
			}
			if p.MoreAbove {
				fmt.Println("  ▲")
			}
			for _, row := range p.Rows {
				fmt.Printf("%5d  %-48s %10s\n", row.Index+1, row.Label, catalog.FormatSize(row.Entry.Size))
			}
			if p.MoreBelow {
				fmt.Println("  ▼")
			}
			printInfo(fmt.Sprintf("%d games, sorted by %s", p.Total, svc.CurrentSort()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&station, "station", "s", "", "only list this station")
	cmd.Flags().StringVarP(&search, "search", "q", "", "case-insensitive substring filter")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort mode ("+sortModeList()+")")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show")
	cmd.Flags().BoolVar(&all, "all", false, "print every match without paging")
	return cmd
}

func printEntry(svc *catalog.Service, e catalog.Entry, withPath bool) {
	st, _ := svc.Station(e.StationID)
	fmt.Printf("[%s] %-48s %10s\n", st.ShortName, e.Name, catalog.FormatSize(e.Size))
	if withPath {
		fmt.Println("  " + e.Path)
	}
}

func sortModeList() string {
	var names []string
	for _, m := range catalog.SortModes() {
		names = append(names, m.String())
	}
	return strings.Join(names, ", ")
}
