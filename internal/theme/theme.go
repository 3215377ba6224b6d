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

// Package theme maps emulator output roles to terminal colors, following
// the VOS emulator convention: cyan output, yellow hints, red errors,
// magenta banners, dim grey for simulated commands.
package theme

import (
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// ColorScheme provides pterm and color styles for each output role.
type ColorScheme struct {
	Banner  *pterm.Style
	Output  *color.Color
	Warn    *color.Color
	Error   *color.Color
	Success *color.Color
	Muted   *color.Color
	Prompt  *color.Color
}

// DefaultColorScheme returns the standard emulator palette.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Banner:  pterm.NewStyle(pterm.FgLightMagenta),
		Output:  color.New(color.FgCyan),
		Warn:    color.New(color.FgYellow),
		Error:   color.New(color.FgRed),
		Success: color.New(color.FgGreen),
		Muted:   color.New(color.FgHiBlack),
		Prompt:  color.New(color.FgGreen),
	}
}

// DisabledColorScheme returns a scheme with all styling off.
func DisabledColorScheme() *ColorScheme {
	plain := func() *color.Color {
		c := color.New()
		c.DisableColor()
		return c
	}
	return &ColorScheme{
		Banner:  pterm.NewStyle(),
		Output:  plain(),
		Warn:    plain(),
		Error:   plain(),
		Success: plain(),
		Muted:   plain(),
		Prompt:  plain(),
	}
}

// NewColorScheme picks the default palette, or the disabled one when the
// NO_COLOR environment variable is set.
func NewColorScheme() *ColorScheme {
	if os.Getenv("NO_COLOR") != "" {
		return DisabledColorScheme()
	}
	return DefaultColorScheme()
}
