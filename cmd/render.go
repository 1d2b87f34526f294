package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/urfave/cli"

	"github.com/df07/go-dungeon-raytracer/pkg/display"
)

// signalContext is cancelled on interrupt so that renders stop between tiles
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// RenderFrame renders a still frame to a PNG file.
func RenderFrame(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.IsSet("out") {
		cfg.Output.Path = ctx.String("out")
	}

	runCtx, cancel := signalContext()
	defer cancel()

	s, err := newSession(runCtx, cfg)
	if err != nil {
		return err
	}

	pose := startPose(cfg, s.scene)
	logger.Noticef("rendering %s at %dx%d from %v", s.scene.Name, cfg.Width, cfg.Height, pose)
	img, stats, err := s.frame(runCtx, pose)
	if err != nil {
		return err
	}
	displayFrameStats(stats)

	if ctx.Bool("preview") {
		if err := display.NewTerminal(ctx.App.Writer).Draw(img); err != nil {
			return err
		}
	}

	if err := s.writePNG(img, cfg.Output.Path); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", cfg.Output.Path)
	return nil
}

// PreviewFrame renders a still frame straight to the terminal.
func PreviewFrame(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	runCtx, cancel := signalContext()
	defer cancel()

	s, err := newSession(runCtx, cfg)
	if err != nil {
		return err
	}
	img, stats, err := s.frame(runCtx, startPose(cfg, s.scene))
	if err != nil {
		return err
	}
	logger.Infof("rendered %d pixels in %s", stats.Pixels, stats.RenderTime)
	return display.NewTerminal(ctx.App.Writer).Draw(img)
}
