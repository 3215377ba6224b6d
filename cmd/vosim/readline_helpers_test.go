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
	"errors"
	"io"
	"testing"

	"github.com/chzyer/readline"
)

func TestClassifyReadlineError(t *testing.T) {
	cases := []struct {
		name string
		line string
		err  error
		want readlineAction
	}{
		{"no error", "list", nil, readlineProcess},
		{"interrupt drops line", "half-typed", readline.ErrInterrupt, readlineContinue},
		{"eof on empty line exits", "", io.EOF, readlineExit},
		{"eof on blank line exits", "   ", io.EOF, readlineExit},
		{"eof with content keeps going", "list", io.EOF, readlineContinue},
		{"other errors exit", "", errors.New("terminal gone"), readlineExit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyReadlineError(tc.line, tc.err); got != tc.want {
				t.Fatalf("classifyReadlineError(%q, %v) = %v, want %v", tc.line, tc.err, got, tc.want)
			}
		})
	}
}
