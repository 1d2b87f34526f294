package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/df07/go-dungeon-raytracer/pkg/display"
	"github.com/df07/go-dungeon-raytracer/pkg/renderer"
	"github.com/df07/go-dungeon-raytracer/pkg/scene"
)

// Walk plays a scripted sequence of actions through a dungeon and writes every frame.
func Walk(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	script := strings.Join(ctx.Args(), " ")
	if ctx.IsSet("actions") {
		script += "," + ctx.String("actions")
	}
	actions, err := scene.ParseActions(script)
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		return errors.New("no actions given")
	}

	runCtx, cancel := signalContext()
	defer cancel()

	s, err := newSession(runCtx, cfg)
	if err != nil {
		return err
	}
	if s.scene.Dungeon == nil {
		return fmt.Errorf("scene %s has no level to walk through", s.scene.Name)
	}

	write := !ctx.Bool("no-write")
	outDir := ctx.String("out-dir")
	if write {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	var term *display.Terminal
	if ctx.Bool("preview") {
		term = display.NewTerminal(ctx.App.Writer)
		term.Clear()
	}

	walker := scene.NewWalker(s.scene.Dungeon)
	if !cfg.Camera.UseStart {
		walker.Teleport(startPose(cfg, s.scene))
	}

	var total []renderer.RenderStats
	index := 0
	emit := func(pose scene.Pose, message string) error {
		img, stats, err := s.frame(runCtx, pose)
		if err != nil {
			return err
		}
		total = append(total, stats)
		if term != nil {
			term.Home()
			if err := term.Draw(img); err != nil {
				return err
			}
			if err := term.Message(message); err != nil {
				return err
			}
		}
		if write {
			path := filepath.Join(outDir, fmt.Sprintf("frame_%04d.png", index))
			if err := s.writePNG(img, path); err != nil {
				return err
			}
			logger.Debugf("wrote %s at %v", path, pose)
		}
		index++
		return nil
	}

	start := time.Now()
	if err := emit(walker.Pose(), ""); err != nil {
		return err
	}
	for _, action := range actions {
		step, err := walker.Do(action)
		if err != nil {
			return err
		}
		if step.Message != "" {
			logger.Noticef("%s: %s", action, strings.ReplaceAll(step.Message, "\n", ", "))
		}
		for _, pose := range step.Frames {
			if err := emit(pose, step.Message); err != nil {
				return err
			}
		}
	}

	displayWalkStats(total, time.Since(start))
	if write {
		logger.Noticef("wrote %d frames to %s", index, outDir)
	}
	return nil
}
