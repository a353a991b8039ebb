package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/skypane/internal/airquality"
	"github.com/five82/skypane/internal/app"
	"github.com/five82/skypane/internal/logging"
	"github.com/five82/skypane/internal/state"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "skypane: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options
	var debug bool

	// applyDebug only overrides config and prefs when --debug was given.
	applyDebug := func(cmd *cobra.Command) {
		if cmd.Flags().Changed("debug") {
			opts.Debug = &debug
		}
	}

	rootCmd := &cobra.Command{
		Use:           "skypane",
		Short:         "Full-screen clock, weather and air-quality display",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyDebug(cmd)
			return app.Run(cmd.Context(), opts)
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/skypane/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "log file (default ~/.local/state/skypane/skypane.log)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging and the debug overlay")

	var asJSON bool
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Refresh every source once and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyDebug(cmd)
			cfg, err := app.LoadConfig(opts)
			if err != nil {
				return err
			}
			logger, err := logging.Open(cfg.LogFile, cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Close() }()

			snap, err := app.Snapshot(cmd.Context(), cfg, logger.Logger)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			return writeSnapshot(cmd.OutOrStdout(), snap)
		},
	}
	snapshotCmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")

	rootCmd.AddCommand(snapshotCmd)
	return rootCmd
}

func writeSnapshot(w io.Writer, snap state.Snapshot) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Location:     %s (%s)\n", snap.Location.Name, snap.Location.Outcome)

	if obs := snap.Weather; obs != nil {
		fmt.Fprintf(&b, "Weather:      %d%s %s %s\n", int(math.Round(obs.Temperature)), obs.Unit.Symbol(), obs.Icon, obs.Description)
	} else {
		fmt.Fprintf(&b, "Weather:      unavailable (%s)\n", snap.WeatherStatus.LastError)
	}

	if aq := snap.AirQuality; aq != nil {
		fmt.Fprintf(&b, "Air quality:  %.0f %s (station %.1f km)\n", aq.Index, aq.Rating, aq.StationDistanceKm)
		fmt.Fprintf(&b, "              %s\n", airquality.StatusText(aq.Index))
	} else {
		fmt.Fprintf(&b, "Air quality:  %s\n", snap.AirQualityMessage())
	}

	fmt.Fprintf(&b, "Theme:        %s, %s\n", snap.Theme.Band, snap.Theme.Greeting)
	_, err := io.WriteString(w, b.String())
	return err
}
