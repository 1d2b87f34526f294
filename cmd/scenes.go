package cmd

import (
	"fmt"
	"image/png"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-dungeon-raytracer/pkg/scene"
)

// ListScenes prints the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Description"})
	for _, info := range scene.List() {
		table.Append([]string{info.Name, info.Description})
	}
	table.Render()
	return nil
}

// ShowConfig prints the configuration after applying the file and flags.
func ShowConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return cfg.Encode(ctx.App.Writer)
}

// ExportAtlas writes the generated tileset as an atlas image that can be
// edited and loaded back with --tileset and --legend generated.
func ExportAtlas(ctx *cli.Context) error {
	if err := setupLogging(ctx, "notice"); err != nil {
		return err
	}
	atlas, err := scene.GeneratedAtlas(ctx.Int("cell"))
	if err != nil {
		return err
	}
	out := ctx.String("out")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := png.Encode(f, atlas.ToNRGBA()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Noticef("wrote %dx%d atlas to %s", atlas.Width, atlas.Height, out)
	return nil
}
