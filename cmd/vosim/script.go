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

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"vosim/internal/command"
	"vosim/internal/config"
	"vosim/internal/dispatch"
	"vosim/internal/handlers"
	"vosim/internal/session"
	"vosim/internal/theme"
)

// runScriptMode executes command lines from stdin and exits. Blank lines
// and '#' comments are skipped; 'exit' stops early. Output is uncolored.
func runScriptMode(logger zerolog.Logger) {
	if err := runScript(logger); err != nil {
		logger.Error().Err(err).Msg("Script mode failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runScript(logger zerolog.Logger) error {
	logger.Debug().Msg("Running in script mode")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fs := afero.NewOsFs()
	st, err := session.New(fs, cfg.StateDir)
	if err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	st.Settings.Language = cfg.Language
	st.Settings.TimeZone = cfg.TimeZone
	st.Settings.WrapWidth = cfg.LineWrapWidth

	reg := command.NewRegistry()
	handlers.Register(reg, st)
	st.SetRegistry(reg)
	loadPacks(fs, cfg, reg, st, theme.DisabledColorScheme(), logger)

	d := dispatch.New(st, logger)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		logger.Info().Str("user_input", line).Msg("Script input received")

		res := d.Execute(line)
		if res.Output != "" {
			fmt.Println(res.Output)
		}
		if res.Quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}
