package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-dungeon-raytracer/pkg/log"
)

var logger = log.New("dungeon")

// setupLogging applies the configured level, then lets -v and -vv raise it
func setupLogging(ctx *cli.Context, configured string) error {
	level, err := log.ParseLevel(configured)
	if err != nil {
		return err
	}

	verbosity := 0
	if ctx.GlobalBool("v") {
		verbosity = 1
	}
	if ctx.GlobalBool("vv") {
		verbosity = 2
	}
	if verbosity > 0 && log.ForVerbosity(verbosity) < level {
		level = log.ForVerbosity(verbosity)
	}
	log.SetLevel(level)
	return nil
}
