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
	"io"
	"strings"

	"github.com/chzyer/readline"
)

type readlineAction int

const (
	readlineProcess readlineAction = iota
	readlineContinue
	readlineExit
)

// classifyReadlineError maps readline outcomes to loop actions: Ctrl-C
// drops the current line, EOF on an empty line exits the shell.
func classifyReadlineError(line string, err error) readlineAction {
	switch {
	case err == nil:
		return readlineProcess
	case err == readline.ErrInterrupt:
		return readlineContinue
	case err == io.EOF:
		if strings.TrimSpace(line) == "" {
			return readlineExit
		}
		return readlineContinue
	default:
		return readlineExit
	}
}
