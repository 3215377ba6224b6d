// Copyright (C) 2025 the vosim authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads emulator settings from a JSON file with environment
// overrides. A missing file is fine; defaults apply. Unknown fields are
// rejected so a typo in the file fails loudly instead of being ignored.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config represents the application configuration.
type Config struct {
	StateDir      string `json:"state_dir"`
	CommandsFile  string `json:"commands_file"`
	PackFile      string `json:"pack_file"`
	HistoryFile   string `json:"history_file"`
	LineWrapWidth int    `json:"line_wrap_width,omitempty"`
	Language      string `json:"language,omitempty"`
	TimeZone      string `json:"time_zone,omitempty"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		StateDir:      "vos_state",
		CommandsFile:  "vos_commands.txt",
		PackFile:      "commands.yaml",
		HistoryFile:   expandHome("~/.vosim_history"),
		LineWrapWidth: 80,
		Language:      "en",
		TimeZone:      "UTC",
	}
}

// LoadConfig loads configuration from a JSON file, applies env overrides,
// and validates values. A missing file leaves the defaults in place.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	// Env overrides apply regardless of whether the file exists.
	if v := os.Getenv("VOSIM_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("VOSIM_COMMANDS_FILE"); v != "" {
		cfg.CommandsFile = v
	}
	if v := os.Getenv("VOSIM_PACK_FILE"); v != "" {
		cfg.PackFile = v
	}
	if v := os.Getenv("VOSIM_HISTORY_FILE"); v != "" {
		cfg.HistoryFile = v
	}
	if v := os.Getenv("VOSIM_LINE_WRAP_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("VOSIM_LINE_WRAP_WIDTH: %w", err)
		}
		cfg.LineWrapWidth = n
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.StateDir == "" {
		return fmt.Errorf("state_dir cannot be empty")
	}
	if c.LineWrapWidth <= 0 {
		return fmt.Errorf("line_wrap_width must be positive")
	}
	return nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path[2:]
	}
	return home + path[1:]
}
