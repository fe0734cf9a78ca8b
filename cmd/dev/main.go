package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/mklimuk/barometer/cmd/dev/cmd"
)

var (
	debug   bool
	version string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		slog.Error("unexpected error", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dev",
		Short: "build/test tool for the barometer project",
		Long: "Builds the barometer cli (natively or cross-compiled for the NanoPi), " +
			"runs the test suites and drives the cli against the simulated BMP390",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			slog.SetDefault(newLogger(debug))
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&version, "version", "latest", "Version for build")

	root.AddCommand(
		cmd.BuildCmd(),
		cmd.ChangelogCmd(),
		cmd.TestCmd(),
		cmd.LintCmd(),
		cmd.IntegrationTestCmd(),
		cmd.SimCmd(),
	)
	return root
}

func newLogger(debug bool) *slog.Logger {
	charm := log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "baro",
		Level:           log.InfoLevel,
	})
	charm.SetColorProfile(termenv.TrueColor)
	if debug {
		charm.SetLevel(log.DebugLevel)
		charm.SetReportCaller(true)
	}
	return slog.New(charm)
}
