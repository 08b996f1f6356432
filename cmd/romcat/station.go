package main

import (
	"fmt"
	"strconv"

	"romcat/internal/catalog"
	"romcat/internal/errors"

	"github.com/spf13/cobra"
)

// NewStationCmd creates the station command and its subcommands
func NewStationCmd() *cobra.Command {
	stationCmd := &cobra.Command{
		Use:     "station",
		Aliases: []string{"stations"},
		Short:   "Manage console stations",
	}

	stationCmd.AddCommand(newStationListCmd())
	stationCmd.AddCommand(newStationAddCmd())
	stationCmd.AddCommand(newStationRemoveCmd())
	stationCmd.AddCommand(newStationUpdateCmd())
	stationCmd.AddCommand(newStationTemplatesCmd())
	return stationCmd
}

func newStationListCmd() *cobra.Command {
	var counts bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered stations",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openCatalog()
			if err != nil {
				return err
			}
			if counts {
				if _, err := svc.ScanAll(cmd.Context()); err != nil {
					return err
				}
			}

			stations := svc.Stations()
			if len(stations) == 0 {
				printInfo("No stations registered. Add one with 'romcat station add --template NES'.")
				return nil
			}

			printHeader(fmt.Sprintf("Stations (%d/%d)", len(stations), cfg.Limits.MaxStations))
			for _, st := range stations {
				line := fmt.Sprintf("%2d  %-8s %-28s %s/  [%s]", st.ID, st.ShortName, st.Name, st.RomPath, st.Extensions)
				if counts {
					line += fmt.Sprintf("  %d games", svc.StationEntryCount(st.ID))
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&counts, "count", "c", false, "scan and show game counts")
	return cmd
}

func newStationAddCmd() *cobra.Command {
	var template, short, romPath, corePath, exts string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a station from a template or explicit fields",
		Example: `  romcat station add --template SNES
  romcat station add "Virtual Boy" --short VB --roms VirtualBoy --core VB --ext vb`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if template != "" {
				t, ok := catalog.FindTemplate(template)
				if !ok {
					return errors.NewInvalidInputError("unknown template: "+template, nil)
				}
				name, short, romPath, corePath, exts = fill(name, t.Name), fill(short, t.ShortName),
					fill(romPath, t.RomPath), fill(corePath, t.CorePath), fill(exts, t.Extensions)
			}
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" || short == "" || romPath == "" {
				return errors.NewInvalidInputError("a name, --short and --roms are required without --template", nil)
			}

			svc, err := openCatalog()
			if err != nil {
				return err
			}
			id, err := svc.AddStation(name, short, romPath, corePath, exts)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Added %s (%s) in slot %d", name, short, id))
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "console template (see 'romcat station templates')")
	cmd.Flags().StringVar(&short, "short", "", "short name shown in lists")
	cmd.Flags().StringVar(&romPath, "roms", "", "ROM directory below each games root")
	cmd.Flags().StringVar(&corePath, "core", "", "core path passed to the launcher")
	cmd.Flags().StringVar(&exts, "ext", "", "space separated extension list")
	return cmd
}

func fill(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func newStationRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <station>",
		Aliases: []string{"rm"},
		Short:   "Remove a station and its catalog entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openCatalog()
			if err != nil {
				return err
			}
			st, err := resolveStation(svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.RemoveStation(st.ID); err != nil {
				return err
			}
			printSuccess("Removed " + st.Name)
			return nil
		},
	}
}

func newStationUpdateCmd() *cobra.Command {
	var name, short, romPath, corePath, exts string
	var enable, disable bool

	cmd := &cobra.Command{
		Use:   "update <station>",
		Short: "Change fields of a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openCatalog()
			if err != nil {
				return err
			}
			// disabled stations are only reachable by slot number
			id, err := strconv.Atoi(args[0])
			if err != nil {
				st, err := resolveStation(svc, args[0])
				if err != nil {
					return err
				}
				id = st.ID
			}
			st, err := svc.Station(id)
			if err != nil {
				return err
			}

			st.Name = fill(name, st.Name)
			st.ShortName = fill(short, st.ShortName)
			st.RomPath = fill(romPath, st.RomPath)
			st.CorePath = fill(corePath, st.CorePath)
			st.Extensions = fill(exts, st.Extensions)
			switch {
			case enable && disable:
				return errors.NewInvalidInputError("--enable and --disable are exclusive", nil)
			case enable:
				st.Enabled = true
			case disable:
				st.Enabled = false
			}

			if err := svc.UpdateStation(id, st); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Updated slot %d", id))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&short, "short", "", "short name")
	cmd.Flags().StringVar(&romPath, "roms", "", "ROM directory")
	cmd.Flags().StringVar(&corePath, "core", "", "core path")
	cmd.Flags().StringVar(&exts, "ext", "", "extension list")
	cmd.Flags().BoolVar(&enable, "enable", false, "enable the slot")
	cmd.Flags().BoolVar(&disable, "disable", false, "disable the slot")
	return cmd
}

func newStationTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List built-in console templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			printHeader("Templates")
			for _, t := range catalog.Templates() {
				fmt.Printf("%-8s %-28s %s\n", t.ShortName, t.Name, t.Extensions)
			}
			return nil
		},
	}
}
