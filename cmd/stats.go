package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-dungeon-raytracer/pkg/renderer"
)

func displayFrameStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Tiles", "% of tiles"})
	for id, tiles := range stats.TilesPerWorker {
		share := 0.0
		if stats.Tiles > 0 {
			share = 100 * float64(tiles) / float64(stats.Tiles)
		}
		table.Append([]string{
			fmt.Sprintf("%d", id),
			fmt.Sprintf("%d", tiles),
			fmt.Sprintf("%02.1f %%", share),
		})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", stats.Tiles), stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics (%d pixels, %.0f px/s)\n%s", stats.Pixels, stats.PixelsPerSecond(), buf.String())
}

func displayWalkStats(frames []renderer.RenderStats, elapsed time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frames", "Pixels", "Render time", "Wall time", "Pixels/s"})

	var pixels int
	var renderTime time.Duration
	for _, s := range frames {
		pixels += s.Pixels
		renderTime += s.RenderTime
	}
	rate := 0.0
	if renderTime > 0 {
		rate = float64(pixels) / renderTime.Seconds()
	}
	table.Append([]string{
		fmt.Sprintf("%d", len(frames)),
		fmt.Sprintf("%d", pixels),
		renderTime.String(),
		elapsed.String(),
		fmt.Sprintf("%.0f", rate),
	})

	table.Render()
	logger.Noticef("walk statistics\n%s", buf.String())
}
