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
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"vosim/internal/command"
	"vosim/internal/config"
	"vosim/internal/dispatch"
	"vosim/internal/handlers"
	"vosim/internal/pack"
	"vosim/internal/session"
	"vosim/internal/theme"
)

func runShell(logger zerolog.Logger) {
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	colors := theme.NewColorScheme()
	fs := afero.NewOsFs()

	st, err := session.New(fs, cfg.StateDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create state directory")
	}
	st.Settings.Language = cfg.Language
	st.Settings.TimeZone = cfg.TimeZone
	st.Settings.WrapWidth = cfg.LineWrapWidth

	reg := command.NewRegistry()
	handlers.Register(reg, st)
	st.SetRegistry(reg)
	loadPacks(fs, cfg, reg, st, colors, logger)

	d := dispatch.New(st, logger)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          colors.Prompt.Sprint("vos> "),
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    newCompleter(st),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize readline")
	}
	defer rl.Close()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	colors.Banner.Println("VOS Emulator - type 'commands' to list, 'help <name>' for details.")
	fmt.Println()

	for {
		line, err := rl.Readline()
		switch classifyReadlineError(line, err) {
		case readlineContinue:
			continue
		case readlineExit:
			fmt.Println()
			printResult(colors, "[SIM] Bye!")
			logger.Info().Msg("Session ended")
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		logger.Info().Str("user_input", line).Msg("User input received")

		res := executeWithSpinner(d, line, interactive)
		if res.Output != "" {
			printResult(colors, res.Output)
		}
		if res.Quit {
			logger.Info().Msg("Session ended")
			return
		}
	}
}

// executeWithSpinner runs one line, showing a brief spinner on real
// terminals the way the emulator animates command execution.
func executeWithSpinner(d *dispatch.Dispatcher, line string, interactive bool) dispatch.Result {
	if !interactive {
		return d.Execute(line)
	}
	head := strings.Fields(line)[0]
	sp, err := pterm.DefaultSpinner.
		WithRemoveWhenDone(true).
		WithShowTimer(false).
		Start("running '" + head + "'")
	if err != nil {
		return d.Execute(line)
	}
	res := d.Execute(line)
	_ = sp.Stop()
	return res
}

// loadPacks applies the bulk command list and the static command pack.
// Either file may be absent; failures are reported once and never fatal.
func loadPacks(fs afero.Fs, cfg *config.Config, reg *command.Registry, st *session.State, colors *theme.ColorScheme, logger zerolog.Logger) {
	names, err := pack.LoadNames(fs, cfg.CommandsFile)
	if err != nil {
		colors.Warn.Printf("command list %s not loaded: %v\n", cfg.CommandsFile, err)
		logger.Warn().Err(err).Str("file", cfg.CommandsFile).Msg("bulk command list unavailable")
	}
	if len(names) > 0 {
		added := reg.RegisterStubs(names)
		st.SetCanonicalNames(names)
		logger.Debug().Int("stubs", added).Int("names", len(names)).Msg("bulk commands registered")
	}

	statics, err := pack.LoadStatic(fs, cfg.PackFile)
	if err != nil {
		colors.Warn.Printf("command pack %s not loaded: %v\n", cfg.PackFile, err)
		logger.Warn().Err(err).Str("file", cfg.PackFile).Msg("command pack unavailable")
	}
	for _, s := range statics {
		reg.RegisterStatic(s.Name, s.Text)
	}
}

// printResult colors a result by its role: errors red, match-failure
// reports yellow with muted candidate lines, everything else cyan.
func printResult(colors *theme.ColorScheme, out string) {
	switch {
	case strings.HasPrefix(out, "[ERR]"):
		colors.Error.Println(out)
	case strings.HasPrefix(out, "Ambiguous command."), strings.HasPrefix(out, "Unknown command"):
		lines := strings.Split(out, "\n")
		colors.Warn.Println(lines[0])
		for _, l := range lines[1:] {
			colors.Muted.Println(l)
		}
	case strings.HasPrefix(out, "[OK]"), strings.HasPrefix(out, "[SIM]"):
		colors.Success.Println(out)
	default:
		colors.Output.Println(out)
	}
}
