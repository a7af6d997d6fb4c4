package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/go-spheretrace/tracer/device"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List available compute devices.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx)

	platforms, err := device.GetPlatformInfo()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("\nSystem provides %d compute platform(s):\n\n", len(platforms)))
	for pIdx, platformInfo := range platforms {
		buf.WriteString(fmt.Sprintf("[Platform %02d]\n  Name    %s\n  Vendor  %s\n  Version %s\n  Profile %s\n\n",
			pIdx, platformInfo.Name, platformInfo.Vendor, platformInfo.Version, platformInfo.Profile))

		table := tablewriter.NewWriter(&buf)
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"Device", "Name", "Type", "Compute units"})
		for dIdx, d := range platformInfo.Devices {
			table.Append([]string{
				fmt.Sprintf("%02d", dIdx),
				d.Name,
				d.Type.String(),
				fmt.Sprintf("%d", d.ComputeUnits()),
			})
		}
		table.Render()
	}
	buf.WriteString("\nThe host tracer can be selected with --device host\n")

	logger.Notice(buf.String())
	return nil
}
