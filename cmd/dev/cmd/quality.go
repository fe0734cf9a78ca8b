package cmd

import (
	"fmt"
	"log/slog"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

func TestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run unit tests (driver, facade and monitor run against the simulated sensor)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Test(); err != nil {
				return fmt.Errorf("failed to run tests: %w", err)
			}
			return nil
		},
	}
}

func LintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Run linting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Lint(); err != nil {
				return fmt.Errorf("failed to run linting: %w", err)
			}
			return nil
		},
	}
}

// simFlows are cli invocations every release must survive without hardware.
var simFlows = [][]string{
	{"pressure", "read"},
	{"pressure", "read", "--protocol", "spi", "--osr-p", "x8", "--odr", "12.5hz"},
	{"pressure", "configure", "--iir", "off"},
	{"pressure", "reset", "--yes"},
	{"monitor", "--cycles", "2", "--interval", "100ms"},
}

func IntegrationTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integration-test",
		Short: "Run integration tests, then the cli flows against the simulated sensor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Integ(); err != nil {
				return fmt.Errorf("failed to run integration testing: %w", err)
			}
			skip, err := cmd.Flags().GetBool("skip-sim")
			if err != nil {
				return fmt.Errorf("could not get skip-sim flag: %w", err)
			}
			if skip {
				return nil
			}
			for _, flow := range simFlows {
				if err := runSim(cmd, flow); err != nil {
					return fmt.Errorf("sim flow %v failed: %w", flow, err)
				}
			}
			slog.Info("sim flows passed", "count", len(simFlows))
			return nil
		},
	}
	cmd.Flags().Bool("skip-sim", false, "do not run the cli against the simulated sensor")
	return cmd
}
