package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/barometer/cmd/sensors/console"
	"github.com/mklimuk/barometer/snsctx"
)

var version string
var commit string
var date string

func main() {
	os.Exit(run())
}

func run() int {
	app := cli.NewApp()
	app.Name = "barometer"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "BMP390 barometer and temperature monitor cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable verbose logging",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stdout, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		verbose := ctx.Bool("verbose")
		if verbose {
			charm.SetLevel(chlog.DebugLevel)
		}
		logger := slog.New(charm)
		slog.SetDefault(logger)
		console.Trace = verbose
		ctx.Context = snsctx.WithLogger(snsctx.SetVerbose(ctx.Context, verbose), logger)
		return nil
	}
	app.Commands = cli.Commands{
		&pressureCmd,
		&monitorCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	err := app.Run(os.Args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			log.Printf("unexpected error: %v", err)
			return exerr.ExitCode()
		}
		console.Errorf("%s", err)
		return 1
	}
	return 0
}
