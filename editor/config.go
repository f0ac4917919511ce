// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package editor is the editor-side boundary around the scene core:
// workspace configuration and the save path that serializes a scene
// through the sandboxed workspace.
package editor

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the editor workspace configuration, stored as TOML in the
// workspace (fluxion.toml by convention).
type Config struct {

	// WorkspaceRoot is the directory all project files live under and
	// all saves are confined to.
	WorkspaceRoot string `toml:"workspace_root"`

	// TargetWidth and TargetHeight are the game render resolution, used
	// as the default camera size.
	TargetWidth  int `toml:"target_width"`
	TargetHeight int `toml:"target_height"`

	// Autosave enables saving the open scene on every structural edit.
	Autosave bool `toml:"autosave"`
}

// DefaultConfig returns a config with a 1280x720 target and the current
// directory as workspace.
func DefaultConfig() *Config {
	return &Config{WorkspaceRoot: ".", TargetWidth: 1280, TargetHeight: 720}
}

// LoadConfig reads a TOML config file, applying defaults for omitted
// fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes the config as TOML.
func SaveConfig(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
