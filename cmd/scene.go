package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/achilleasa/go-spheretrace/scene"
	"github.com/achilleasa/go-spheretrace/scene/reader"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		logger.Noticef("builtin scenes: %s", strings.Join(reader.BuiltinScenes(), ", "))
		return nil
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sc, err := reader.Load(ctx.Args().Get(idx))
		if err != nil {
			return err
		}
		logger.Noticef("scene information for %s:\n%s", ctx.Args().Get(idx), describeScene(sc))
	}

	return nil
}

func describeScene(sc *scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString(sc.Stats())
	buf.WriteString("\n\n")

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Material", "Type", "Albedo", "Fuzz", "IOR"})
	for _, mat := range sc.Materials {
		table.Append([]string{
			mat.Name,
			mat.Type.String(),
			fmt.Sprintf("%.3f, %.3f, %.3f", mat.Albedo[0], mat.Albedo[1], mat.Albedo[2]),
			fmt.Sprintf("%.3f", mat.Fuzz),
			fmt.Sprintf("%.3f", mat.IOR),
		})
	}
	table.Render()
	buf.WriteString("\n")

	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Sphere", "Center", "Radius", "Material"})
	for idx, sp := range sc.Spheres {
		table.Append([]string{
			fmt.Sprintf("%d", idx),
			fmt.Sprintf("%.3f, %.3f, %.3f", sp.Center[0], sp.Center[1], sp.Center[2]),
			fmt.Sprintf("%.3f", sp.Radius),
			sp.Material.Name,
		})
	}
	table.Render()

	return buf.String()
}
