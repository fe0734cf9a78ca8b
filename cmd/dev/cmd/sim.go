package cmd

import (
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// SimCmd runs the barometer cli with the simulated BMP390 attached, e.g.
// `dev sim pressure read --osr-p x8`.
func SimCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "sim [command] [flags]",
		Short:              "Run a cli command against the simulated sensor",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(cmd, args)
		},
	}
}

// runSim runs the cli from source so no cross-compiled binary is needed.
func runSim(cmd *cobra.Command, args []string) error {
	argv := append([]string{"run", mainPkg}, args...)
	argv = append(argv, "--adapter", "sim")
	slog.Debug("running cli", "args", argv)
	run := exec.CommandContext(cmd.Context(), "go", argv...)
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr
	return run.Run()
}
