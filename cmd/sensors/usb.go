package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/barometer/adapter"
)

// knownBridges are the USB bridges the adapter package can drive.
var knownBridges = map[string][2]uint16{
	"MCP2221": {adapter.VendorID, adapter.ProductID},
}

func bridgeName(dev hid.DeviceInfo) string {
	for name, ids := range knownBridges {
		if ids[0] == dev.VendorID && ids[1] == dev.ProductID {
			return name
		}
	}
	return ""
}

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "list USB HID devices and supported bridges",
	Subcommands: cli.Commands{
		&usbLsCmd,
		&usbDetectCmd,
	},
}

var usbLsCmd = cli.Command{
	Name:  "ls",
	Usage: "list all HID devices",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(os.Stdout, 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PATH\tSERIAL\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT\tBRIDGE\n")
		for _, dev := range hid.Enumerate(0, 0) {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%#x\t%#x\t%s\t%s\t%s\n",
				dev.Path, dev.Serial, dev.VendorID, dev.ProductID, dev.Manufacturer, dev.Product, bridgeName(dev))
		}
		_ = w.Flush()
		return nil
	},
}

var usbDetectCmd = cli.Command{
	Name:  "detect",
	Usage: "list attached I2C bridges",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(os.Stdout, 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "ID\tVENDOR\tPRODUCT\tDEVICE\tPATH\n")
		id := 0
		for _, dev := range hid.Enumerate(0, 0) {
			name := bridgeName(dev)
			if name == "" {
				continue
			}
			_, _ = fmt.Fprintf(w, "%d\t%#x\t%#x\t%s\t%s\n", id, dev.VendorID, dev.ProductID, name, dev.Path)
			id++
		}
		_ = w.Flush()
		return nil
	},
}
