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

// Package handlers implements the built-in command bodies. Each handler is
// a thin effect: path arguments arrive already resolved to host paths by
// the dispatcher, so the functions here only read, write and report.
package handlers

import (
	"fmt"

	"vosim/internal/command"
	"vosim/internal/session"
	"vosim/internal/verrors"
)

// ok formats a success envelope the way the emulator reports effects.
func ok(format string, args ...any) string {
	return "[OK] " + fmt.Sprintf(format, args...)
}

// usage returns the canonical bad-arguments error for a command.
func usage(text string) error {
	return verrors.New(verrors.CodeUsage, "usage: "+text)
}

// failf wraps an operation failure with the command name, matching the
// "<command>: <cause>" messages of the original command set.
func failf(cmd string, err error) error {
	return verrors.Wrap(verrors.CodeHandler, cmd, err)
}

type def struct {
	name    string
	help    string
	run     func(st *session.State, args []string) (string, error)
	fileCmd bool
	dirCmd  bool
}

// Register installs every builtin into reg, closing each handler over st.
func Register(reg *command.Registry, st *session.State) {
	for _, d := range defs() {
		d := d
		reg.Register(&command.Entry{
			Name:      d.name,
			Kind:      command.Builtin,
			Help:      d.help,
			IsFileCmd: d.fileCmd,
			IsDirCmd:  d.dirCmd,
			Run: func(args []string) (string, error) {
				return d.run(st, args)
			},
		})
	}
}

func defs() []def {
	var out []def
	out = append(out, fileDefs()...)
	out = append(out, dirDefs()...)
	out = append(out, locateDefs()...)
	out = append(out, sysinfoDefs()...)
	out = append(out, settingsDefs()...)
	out = append(out, batchDefs()...)
	out = append(out, metaDefs()...)
	return out
}
