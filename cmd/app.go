package cmd

import (
	"github.com/urfave/cli"
)

// frameFlags are shared by every command that renders
var frameFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Usage: "built-in scene to render (see the scenes command)",
	},
	cli.StringFlag{
		Name:  "level",
		Usage: "YAML level file for the dungeon scene",
	},
	cli.StringFlag{
		Name:  "tileset",
		Usage: "tileset atlas image; the built-in generated tiles are used when empty",
	},
	cli.StringFlag{
		Name:  "legend",
		Usage: "tile index layout of the tileset: atlas or generated",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "frame height",
	},
	cli.IntFlag{
		Name:  "workers",
		Usage: "render workers; 0 uses one per CPU",
	},
	cli.IntFlag{
		Name:  "tile-size",
		Usage: "edge of the square tiles handed to workers",
	},
	cli.StringFlag{
		Name:  "integrator",
		Usage: "raytracer or casting",
	},
	cli.BoolFlag{
		Name:  "colorize",
		Usage: "tint solids by index when using the casting integrator",
	},
	cli.BoolFlag{
		Name:  "debug",
		Usage: "shade every surface with the debug material and carry a torch",
	},
	cli.StringFlag{
		Name:  "projection",
		Usage: "perspective or orthographic",
	},
	cli.Float64Flag{
		Name:  "x",
		Usage: "camera x; overrides the scene start",
	},
	cli.Float64Flag{
		Name:  "y",
		Usage: "camera y; overrides the scene start",
	},
	cli.Float64Flag{
		Name:  "z",
		Usage: "camera z; overrides the scene start",
	},
	cli.Float64Flag{
		Name:  "heading",
		Usage: "camera heading in degrees; overrides the scene start",
	},
	cli.Float64Flag{
		Name:  "fov",
		Usage: "perspective view angle in degrees",
	},
	cli.StringFlag{
		Name:  "item",
		Usage: "tileset holding a held-item sprite to draw over each frame",
	},
	cli.IntFlag{
		Name:  "item-index",
		Usage: "tile index of the held item",
	},
	cli.IntFlag{
		Name:  "scale",
		Usage: "integer upscale applied to written images",
	},
}

func withFlags(flags ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag{}, frameFlags...), flags...)
}

// App returns the command line application
func App() *cli.App {
	// the default "version, v" would collide with the global -v
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-dungeon-raytracer"
	app.Usage = "render and walk through textured dungeon scenes with a CPU ray tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "TOML configuration file; flags override its values",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame to a PNG file",
			Description: `
Render one frame of a scene from its start pose, or from the camera given in the
configuration or on the command line, and write it as a PNG image. Render
statistics are logged when the frame is done.`,
			Flags: withFlags(
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame",
				},
				cli.BoolFlag{
					Name:  "preview, p",
					Usage: "also draw the frame in the terminal",
				},
			),
			Action: RenderFrame,
		},
		{
			Name:   "preview",
			Usage:  "render a single frame to the terminal",
			Flags:  frameFlags,
			Action: PreviewFrame,
		},
		{
			Name:  "walk",
			Usage: "walk through a dungeon following a script of actions",
			Description: `
Play a sequence of actions (forward, back, left, right, jump, use) starting at the
level start. Each movement is animated over several frames and every frame is
written to the output directory. Using a door needs the key from the chest.`,
			ArgsUsage: "action1 action2 ...",
			Flags: withFlags(
				cli.StringFlag{
					Name:  "actions, a",
					Usage: "comma separated actions, appended to the arguments",
				},
				cli.StringFlag{
					Name:  "out-dir, o",
					Value: "frames",
					Usage: "directory receiving one PNG per frame",
				},
				cli.BoolFlag{
					Name:  "preview, p",
					Usage: "animate the walk in the terminal",
				},
				cli.BoolFlag{
					Name:  "no-write",
					Usage: "do not write frame images",
				},
			),
			Action: Walk,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes",
			Action: ListScenes,
		},
		{
			Name:  "atlas",
			Usage: "write the generated tileset atlas to a PNG file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Value: "tileset.png",
					Usage: "image filename for the atlas",
				},
				cli.IntFlag{
					Name:  "cell",
					Value: 32,
					Usage: "tile edge in pixels",
				},
			},
			Action: ExportAtlas,
		},
		{
			Name:  "serve",
			Usage: "serve frames, pixel inspection and dungeon walks over HTTP",
			Description: `
Start the web API. Scene, level, tileset and debug settings come from the
configuration and flags; frame size, camera and integrator can be chosen per
request.`,
			Flags: withFlags(
				cli.StringFlag{
					Name:  "addr",
					Value: ":8080",
					Usage: "address to listen on",
				},
			),
			Action: Serve,
		},
		{
			Name:   "config",
			Usage:  "print the effective configuration as TOML",
			Flags:  withFlags(),
			Action: ShowConfig,
		},
	}
	return app
}
