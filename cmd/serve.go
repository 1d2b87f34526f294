package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-dungeon-raytracer/web/server"
)

// Serve runs the web API until interrupted.
func Serve(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	runCtx, cancel := signalContext()
	defer cancel()

	opts, _, err := sceneOptions(runCtx, cfg)
	if err != nil {
		return err
	}
	if cfg.Item.Path != "" {
		logger.Warning("the held item is not drawn on served frames")
	}
	return server.NewServer(ctx.String("addr"), cfg, opts).Start(runCtx)
}
