// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fluxion processes Fluxion scene documents from the command
// line: validate reports what a document contains, fmt normalizes it
// through a parse/serialize round trip. Both run headlessly, with no
// GPU or audio device.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cogentcore.org/core/cli"

	"github.com/kisstp2006/fluxion-go/assets"
	"github.com/kisstp2006/fluxion-go/scene"
)

// Config is the configuration information for the fluxion cli.
type Config struct {

	// Input is the scene document to process.
	Input string `posarg:"0"`

	// Output is the file fmt writes the normalized document to;
	// standard output when empty and Write is not set.
	Output string `cmd:"fmt" flag:"o,output"`

	// Write rewrites the input file in place.
	Write bool `cmd:"fmt" flag:"w,write"`
}

func main() {
	opts := cli.DefaultOptions("fluxion", "Tools for Fluxion scene documents.")
	cli.Run(opts, &Config{}, Validate, Format)
}

// load parses the input document with workspace file access and no
// rendering, font, or audio backends.
func load(c *Config) (*scene.Scene, error) {
	if c.Input == "" {
		return nil, fmt.Errorf("no input document")
	}
	dir, base := filepath.Split(c.Input)
	if dir == "" {
		dir = "."
	}
	ws := &assets.Workspace{Root: dir}
	data, err := ws.Fetch(context.Background(), base)
	if err != nil {
		return nil, err
	}
	ld := &scene.Loader{Files: ws}
	return ld.LoadData(context.Background(), data, base), nil
}

// Validate loads the scene document and reports what it contains.
func Validate(c *Config) error { //cli:cmd -root
	sc, err := load(c)
	if err != nil {
		return err
	}
	nodes := 0
	for _, root := range sc.Objects {
		root.AsNodeBase().WalkDown(func(n scene.Node) bool {
			nodes++
			return scene.Continue
		})
	}
	fmt.Printf("scene %q: %d nodes in %d trees, %d audio, %d lights, %d meshes, %d materials, %d fonts\n",
		sc.Name, nodes, len(sc.Objects), len(sc.Audio), len(sc.Lights),
		sc.Meshes.Len(), sc.Materials.Len(), sc.Fonts.Len())
	if sc.Camera != nil {
		fmt.Printf("camera %q at %g,%g zoom %g\n", sc.Camera.Name, sc.Camera.Pos.X, sc.Camera.Pos.Y, sc.Camera.Zoom)
	}
	if sc.Camera3D != nil {
		fmt.Printf("camera3d %q fov %g\n", sc.Camera3D.Name, sc.Camera3D.FOV)
	}
	return nil
}

// Format normalizes the scene document through a parse/serialize round
// trip, writing to Output, in place with -w, or to standard output.
func Format(c *Config) error {
	sc, err := load(c)
	if err != nil {
		return err
	}
	out, err := sc.XMLString()
	if err != nil {
		return err
	}
	switch {
	case c.Write:
		return os.WriteFile(c.Input, []byte(out), 0o644)
	case c.Output != "":
		return os.WriteFile(c.Output, []byte(out), 0o644)
	default:
		fmt.Print(out)
	}
	return nil
}
