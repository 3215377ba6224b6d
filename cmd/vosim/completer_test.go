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
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"vosim/internal/command"
	"vosim/internal/handlers"
	"vosim/internal/session"
)

func testCompleter(t *testing.T) (*vosCompleter, *session.State) {
	t.Helper()
	st, err := session.New(afero.NewMemMapFs(), "/state")
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	reg := command.NewRegistry()
	handlers.Register(reg, st)
	st.SetRegistry(reg)
	return &vosCompleter{st: st}, st
}

func complete(c *vosCompleter, text string) []string {
	cands, _ := c.Do([]rune(text), len(text))
	out := make([]string, len(cands))
	for i, r := range cands {
		out[i] = string(r)
	}
	return out
}

func TestCompleteCommandNames(t *testing.T) {
	c, _ := testCompleter(t)
	got := complete(c, "dump")
	if len(got) != 1 || got[0] != "_file " {
		t.Fatalf("dump completion = %v", got)
	}
}

func TestCompleteCommandNamesMultiple(t *testing.T) {
	c, _ := testCompleter(t)
	got := complete(c, "locate_")
	if len(got) != 3 {
		t.Fatalf("locate_ completions = %v", got)
	}
}

func TestCompletePathArguments(t *testing.T) {
	c, st := testCompleter(t)
	fs := st.Fs()
	fs.MkdirAll(filepath.Join(st.FilesystemDir(), "Sales"), 0o755)
	afero.WriteFile(fs, filepath.Join(st.FilesystemDir(), "Salary.txt"), []byte("x"), 0o644)

	got := complete(c, "display_file Sal")
	want := map[string]bool{"es>": false, "ary.txt ": false}
	for _, g := range got {
		if _, ok := want[g]; !ok {
			t.Fatalf("unexpected completion %q in %v", g, got)
		}
		want[g] = true
	}
	for w, seen := range want {
		if !seen {
			t.Fatalf("missing completion %q in %v", w, got)
		}
	}
}

func TestCompletePathInsideVOSDir(t *testing.T) {
	c, st := testCompleter(t)
	afero.WriteFile(st.Fs(), filepath.Join(st.FilesystemDir(), "Sales", "west.txt"), []byte("x"), 0o644)

	got := complete(c, "display_file >Sales>we")
	if len(got) != 1 || got[0] != "st.txt " {
		t.Fatalf(">Sales>we completion = %v", got)
	}
}

func TestDirCommandCompletesOnlyDirs(t *testing.T) {
	c, st := testCompleter(t)
	fs := st.Fs()
	fs.MkdirAll(filepath.Join(st.FilesystemDir(), "Sales"), 0o755)
	afero.WriteFile(fs, filepath.Join(st.FilesystemDir(), "Salary.txt"), []byte("x"), 0o644)

	got := complete(c, "change_current_dir Sal")
	if len(got) != 1 || got[0] != "es>" {
		t.Fatalf("dir completion = %v", got)
	}
}

func TestNonPathCommandGetsNoArgCompletion(t *testing.T) {
	c, _ := testCompleter(t)
	if got := complete(c, "display_line Sal"); len(got) != 0 {
		t.Fatalf("display_line arg completion = %v", got)
	}
}
