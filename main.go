package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/achilleasa/go-spheretrace/cmd"
	"github.com/achilleasa/go-spheretrace/frame"
	"github.com/achilleasa/go-spheretrace/scene/reader"
	"github.com/achilleasa/go-spheretrace/tracer/accel"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-spheretrace"
	app.Usage = "render sphere scenes using device-resident ray tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: fmt.Sprintf(`
Render a single frame of a scene. The scene argument is either the name of a
builtin scene (%s) or the path/url of a yaml scene file.
If omitted, the %q scene is rendered.

Scene objects are constructed in device memory and each pixel is rendered
by its own work item. Use "--device host" to render on the host instead.`,
				strings.Join(reader.BuiltinScenes(), ", "), reader.DefaultScene),
			ArgsUsage: "[scene]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "device, d",
					Value: "auto",
					Usage: `compute device: "auto", "cpu", "host" or a device name substring`,
				},
				cli.IntFlag{
					Name:  "width",
					Value: 0,
					Usage: "frame width; the height is derived from the scene aspect ratio (0 = scene setting)",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 0,
					Usage: "samples per pixel (0 = scene setting)",
				},
				cli.IntFlag{
					Name:  "depth",
					Value: 0,
					Usage: "max ray bounces (0 = scene setting)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: int64(accel.DefaultSeed),
					Usage: "seed for the per-pixel random streams",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.ppm",
					Usage: fmt.Sprintf("image filename for the rendered frame (%s)", strings.Join(frame.Formats(), ", ")),
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:   "list-devices",
			Usage:  "list available compute devices",
			Action: cmd.ListDevices,
		},
		{
			Name:      "scene-info",
			Usage:     "display scene information",
			ArgsUsage: "[scene ...]",
			Description: `
Load the given builtin scenes or scene files and display their camera,
materials and spheres. Without arguments, list the builtin scenes.`,
			Action: cmd.ShowSceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
