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

package handlers

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"vosim/internal/command"
	"vosim/internal/session"
)

// manualURL points at the published VOS Commands Reference Manual, used as
// the fallback help text for commands without local documentation.
const manualURL = "https://stratadoc.stratus.com/vos/19.3.0/r098-22/" +
	"wwhelp/wwhimpl/js/html/wwhelp.htm?context=r098-22&file=ch1r098-22.html"

func metaDefs() []def {
	return []def{
		{
			name: "commands",
			help: "List every registered command in columns sized to the terminal. Usage: commands",
			run:  listCommands,
		},
		{
			name: "help",
			help: "Show general help, or detailed help for one command. Prefixes and globs resolve like normal input. Usage: help [name]",
			run:  helpCmd,
		},
		{
			name: "show commands status",
			help: "Report which commands are implemented, simulated, or unregistered, with counts and a percentage. Usage: show commands status",
			run:  showCommandsStatus,
		},
		{
			name: "clear",
			help: "Clear the screen. Usage: clear",
			run:  clearScreen,
		},
		{
			name: "exit",
			help: "Exit the emulator. Usage: exit",
			run:  exitCmd,
		},
	}
}

func listCommands(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("commands")
	}
	names := st.Registry().Names()
	if len(names) == 0 {
		return "0 commands available:", nil
	}
	colw := 0
	for _, n := range names {
		if len(n) > colw {
			colw = len(n)
		}
	}
	colw += 2
	perRow := termColumns() / colw
	if perRow < 1 {
		perRow = 1
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d commands available:\n", len(names))
	for i := 0; i < len(names); i += perRow {
		end := min(i+perRow, len(names))
		for _, n := range names[i:end] {
			fmt.Fprintf(&sb, "%-*s", colw, n)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), " \n"), nil
}

func helpCmd(st *session.State, args []string) (string, error) {
	reg := st.Registry()
	if len(args) == 0 {
		aliases := command.DefaultAliases()
		keys := make([]string, 0, len(aliases))
		for k := range aliases {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + " -> " + aliases[k]
		}
		return "General help:\n" +
			"  - 'commands' to list all\n" +
			"  - 'help <name>' to see details\n" +
			"  - globs/prefixes allowed (e.g., 'show sy*')\n" +
			"  - aliases: " + strings.Join(pairs, ", "), nil
	}
	m := command.NewMatcher(reg).Match(args)
	if m.Kind != command.MatchExact {
		return "No help found (or ambiguous). Try exact name from 'commands'.", nil
	}
	detail := m.Entry.Help
	if detail == "" {
		detail = "No extra help available. For full details, please consult the VOS Commands " +
			"Reference Manual at " + manualURL
	}
	return m.Entry.Name + "\n  " + detail, nil
}

func showCommandsStatus(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("show commands status")
	}
	reg := st.Registry()
	names := st.CanonicalNames()
	var implemented, simulated, unregistered []string
	for _, name := range names {
		e, ok := reg.Lookup(name)
		switch {
		case !ok:
			unregistered = append(unregistered, name)
		case e.Kind == command.Stub || e.Kind == command.StaticText:
			simulated = append(simulated, name)
		default:
			implemented = append(implemented, name)
		}
	}
	sort.Strings(implemented)
	sort.Strings(simulated)
	sort.Strings(unregistered)

	total := len(names)
	pct := 0.0
	if total > 0 {
		pct = float64(len(implemented)) / float64(total) * 100
	}

	var lines []string
	lines = append(lines, fmt.Sprintf(
		"VOS commands report: %d total, %d implemented, %d simulated, %d unregistered (%.1f%% implemented)",
		total, len(implemented), len(simulated), len(unregistered), pct))
	lines = append(lines, "", "Implemented commands (name - short help):")
	if len(implemented) == 0 {
		lines = append(lines, "  (none)")
	}
	for _, name := range implemented {
		short := "(no help available)"
		if e, ok := reg.Lookup(name); ok && e.Help != "" {
			short = strings.SplitN(e.Help, "\n", 2)[0]
			if len(short) > 80 {
				short = short[:77] + "..."
			}
		}
		lines = append(lines, "  "+name+" - "+short)
	}
	lines = append(lines, "", "Simulated (not implemented) commands: (use 'help <name>' or implement handler)")
	if len(simulated) == 0 {
		lines = append(lines, "  (none)")
	}
	const perRow = 6
	for i := 0; i < len(simulated); i += perRow {
		end := min(i+perRow, len(simulated))
		lines = append(lines, "  "+strings.Join(simulated[i:end], "  "))
	}
	lines = append(lines, "", "Unregistered commands (no handler or stub):")
	if len(unregistered) == 0 {
		lines = append(lines, "  (none)")
	}
	for i := 0; i < len(unregistered); i += perRow {
		end := min(i+perRow, len(unregistered))
		lines = append(lines, "  "+strings.Join(unregistered[i:end], "  "))
	}
	return strings.Join(lines, "\n"), nil
}

func clearScreen(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("clear")
	}
	return "\033c", nil
}

func exitCmd(st *session.State, args []string) (string, error) {
	return "[SIM] Bye!", command.ErrQuit
}

func termColumns() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
