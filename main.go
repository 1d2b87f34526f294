package main

import (
	"fmt"
	"os"

	"github.com/df07/go-dungeon-raytracer/cmd"
)

func main() {
	if err := cmd.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
