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
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/afero"

	"vosim/internal/command"
	"vosim/internal/session"
	"vosim/internal/vospath"
)

// vosCompleter completes command names, and VOS-style paths for commands
// that take path arguments. Directory completions end in '>'.
type vosCompleter struct {
	st *session.State
}

func newCompleter(st *session.State) readline.AutoCompleter {
	return &vosCompleter{st: st}
}

func (c *vosCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	cut := strings.LastIndexAny(text, " \t")
	if cut < 0 {
		return c.completeNames(text)
	}

	entry := c.headEntry(text[:cut])
	if entry == nil || (!entry.IsFileCmd && !entry.IsDirCmd) {
		return nil, 0
	}
	return c.completePath(text[cut+1:], entry.IsDirCmd)
}

func (c *vosCompleter) completeNames(prefix string) ([][]rune, int) {
	lower := strings.ToLower(prefix)
	var out [][]rune
	for _, name := range c.st.Registry().Names() {
		if strings.HasPrefix(name, lower) {
			out = append(out, []rune(name[len(lower):]+" "))
		}
	}
	return out, len(prefix)
}

// headEntry resolves the command part of the line, longest name first so
// "show state_dir" wins over a would-be "show" entry.
func (c *vosCompleter) headEntry(head string) *command.Entry {
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return nil
	}
	reg := c.st.Registry()
	for n := min(3, len(fields)); n >= 1; n-- {
		if e, ok := reg.Lookup(strings.Join(fields[:n], " ")); ok {
			return e
		}
	}
	return nil
}

func (c *vosCompleter) completePath(partial string, dirsOnly bool) ([][]rune, int) {
	dirVOS, leaf := "", partial
	if idx := strings.LastIndex(partial, vospath.Separator); idx >= 0 {
		dirVOS, leaf = partial[:idx+1], partial[idx+1:]
	}

	dir := vospath.Resolve(dirVOS, c.st.CurrentDir(), c.st.FilesystemDir())
	if !dir.HostAbsolute && !vospath.Confined(dir.Path, c.st.FilesystemDir()) {
		return nil, 0
	}

	infos, err := afero.ReadDir(c.st.Fs(), dir.Path)
	if err != nil {
		return nil, 0
	}
	var out [][]rune
	for _, info := range infos {
		name := info.Name()
		if !strings.HasPrefix(name, leaf) {
			continue
		}
		if dirsOnly && !info.IsDir() {
			continue
		}
		suffix := name[len(leaf):]
		if info.IsDir() {
			suffix += vospath.Separator
		} else {
			suffix += " "
		}
		out = append(out, []rune(suffix))
	}
	return out, len(leaf)
}
