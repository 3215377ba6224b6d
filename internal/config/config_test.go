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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestMissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("VOSIM_STATE_DIR", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StateDir != "vos_state" || cfg.LineWrapWidth != 80 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeTempConfig(t, `{"state_dir":"from_file"}`)
	t.Setenv("VOSIM_STATE_DIR", "from_env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StateDir != "from_env" {
		t.Fatalf("expected env to override file, got %s", cfg.StateDir)
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	path := writeTempConfig(t, `{"state_dirr":"typo"}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestInvalidWrapWidthRejected(t *testing.T) {
	path := writeTempConfig(t, `{"line_wrap_width":-3}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for non-positive wrap width")
	}
}
