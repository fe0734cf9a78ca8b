package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/barometer/adapter"
	"github.com/mklimuk/barometer/cmd/sensors/console"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 USB-I2C bridge operations",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
		&mcp2221SpeedCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name:  "status",
	Usage: "print the bridge I2C engine status",
	Action: func(c *cli.Context) error {
		status, err := adapter.NewMCP2221().Status(c.Context)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printYAML(status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current I2C transfer and free the bus",
	Action: func(c *cli.Context) error {
		status, err := adapter.NewMCP2221().ReleaseBus(c.Context)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printYAML(status)
	},
}

var mcp2221SpeedCmd = cli.Command{
	Name:  "speed",
	Usage: "set the I2C clock",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "hz", Value: 100_000, Usage: "clock frequency in Hz (47000-400000)"},
	},
	Action: func(c *cli.Context) error {
		hz := c.Int("hz")
		if err := adapter.NewMCP2221().SetSpeed(c.Context, hz); err != nil {
			return console.Exit(1, "could not set speed: %s", console.Red(err))
		}
		console.Infof("i2c clock set to %s Hz", console.White(hz))
		return nil
	},
}

func printYAML(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(v); err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
