package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/go-spheretrace/renderer"
	"github.com/achilleasa/go-spheretrace/scene/reader"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderer.Options{
		Device:          ctx.String("device"),
		FrameW:          ctx.Int("width"),
		SamplesPerPixel: ctx.Int("spp"),
		MaxDepth:        ctx.Int("depth"),
		Seed:            uint64(ctx.Int64("seed")),
		Out:             ctx.String("out"),
	}

	if ctx.NArg() > 1 {
		return fmt.Errorf("expected at most one scene argument; got %d", ctx.NArg())
	}

	// Load scene; defaults to the builtin scene
	sc, err := reader.Load(ctx.Args().First())
	if err != nil {
		return err
	}

	r, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %dx%d frame (%d spp, max depth %d)",
		sc.Camera.ImageWidth, sc.Camera.ImageHeight(), sc.Camera.SamplesPerPixel, sc.Camera.MaxDepth)
	if _, err = r.Render(); err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Frame", "SPP", "Depth", "Objects", "Scene", "Render", "Tonemap", "Readback", "Save"})
	table.Append([]string{
		stats.TracerId,
		fmt.Sprintf("%dx%d", stats.Tracer.FrameW, stats.Tracer.FrameH),
		fmt.Sprintf("%d", stats.Tracer.SamplesPerPixel),
		fmt.Sprintf("%d", stats.Tracer.MaxDepth),
		fmt.Sprintf("%d", stats.Tracer.Allocations),
		stats.Tracer.SceneTime.String(),
		stats.Tracer.RenderTime.String(),
		stats.Tracer.TonemapTime.String(),
		stats.Tracer.ReadbackTime.String(),
		stats.SaveTime.String(),
	})
	table.SetFooter([]string{"", "", "", "", "", "", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
