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
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestCreateAndDeleteFile(t *testing.T) {
	st := testState(t)
	path := fsPath(st, "report.txt")

	out := mustRun(t, st, "create_file", path)
	if !strings.HasPrefix(out, "[OK]") {
		t.Fatalf("create_file = %q", out)
	}
	if exists, _ := afero.Exists(st.Fs(), path); !exists {
		t.Fatal("file not created")
	}

	mustRun(t, st, "delete_file", path)
	if exists, _ := afero.Exists(st.Fs(), path); exists {
		t.Fatal("file not deleted")
	}
}

func TestCreateFileMakesParents(t *testing.T) {
	st := testState(t)
	path := fsPath(st, "Sales", "Jones", "q1.txt")
	mustRun(t, st, "create_file", path)
	if exists, _ := afero.Exists(st.Fs(), path); !exists {
		t.Fatal("nested file not created")
	}
}

func TestCopyFilePreservesContent(t *testing.T) {
	st := testState(t)
	src, dst := fsPath(st, "a.txt"), fsPath(st, "b.txt")
	afero.WriteFile(st.Fs(), src, []byte("quarterly totals\n"), 0o644)

	mustRun(t, st, "copy_file", src, dst)
	data, err := afero.ReadFile(st.Fs(), dst)
	if err != nil {
		t.Fatalf("reading copy: %v", err)
	}
	if string(data) != "quarterly totals\n" {
		t.Fatalf("copy content = %q", data)
	}
}

func TestMoveFile(t *testing.T) {
	st := testState(t)
	src, dst := fsPath(st, "old.txt"), fsPath(st, "archive", "new.txt")
	afero.WriteFile(st.Fs(), src, []byte("x"), 0o644)

	mustRun(t, st, "move_file", src, dst)
	if exists, _ := afero.Exists(st.Fs(), src); exists {
		t.Fatal("source still present after move")
	}
	if exists, _ := afero.Exists(st.Fs(), dst); !exists {
		t.Fatal("destination missing after move")
	}
}

func TestCompareFilesIdentical(t *testing.T) {
	st := testState(t)
	a, b := fsPath(st, "a.txt"), fsPath(st, "b.txt")
	afero.WriteFile(st.Fs(), a, []byte("same"), 0o644)
	afero.WriteFile(st.Fs(), b, []byte("same"), 0o644)

	out := mustRun(t, st, "compare_files", a, b)
	if out != "Files are identical." {
		t.Fatalf("compare_files = %q", out)
	}
}

func TestCompareFilesReportsFirstDifference(t *testing.T) {
	st := testState(t)
	a, b := fsPath(st, "a.txt"), fsPath(st, "b.txt")
	afero.WriteFile(st.Fs(), a, []byte("line one\nline two\n"), 0o644)
	afero.WriteFile(st.Fs(), b, []byte("line one\nline 2wo\n"), 0o644)

	out := mustRun(t, st, "compare_files", a, b)
	if !strings.Contains(out, "Files differ at byte") {
		t.Fatalf("compare_files = %q", out)
	}
	// Text files also get a context diff.
	if !strings.Contains(out, "line two") || !strings.Contains(out, "line 2wo") {
		t.Fatalf("missing diff context: %q", out)
	}
}

func TestDisplayFileWrapsLongLines(t *testing.T) {
	st := testState(t)
	path := fsPath(st, "long.txt")
	afero.WriteFile(st.Fs(), path, []byte(strings.Repeat("word ", 40)), 0o644)
	st.Settings.WrapWidth = 20

	out := mustRun(t, st, "display_file", path)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 20 {
			t.Fatalf("line longer than wrap width: %q", line)
		}
	}
}

func TestDisplayFileStatus(t *testing.T) {
	st := testState(t)
	path := fsPath(st, "s.txt")
	afero.WriteFile(st.Fs(), path, []byte("12345"), 0o644)

	out := mustRun(t, st, "display_file_status", path)
	for _, want := range []string{"Name:", "s.txt", "Size:", "5", "Type:", "file"} {
		if !strings.Contains(out, want) {
			t.Fatalf("display_file_status missing %q:\n%s", want, out)
		}
	}
}

func TestDumpFileHexRows(t *testing.T) {
	st := testState(t)
	path := fsPath(st, "bin.dat")
	afero.WriteFile(st.Fs(), path, []byte("ABCDEFGHIJKLMNOPQR"), 0o644)

	out := mustRun(t, st, "dump_file", path)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("18 bytes should dump as 2 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "00000000") {
		t.Fatalf("first row missing offset: %q", lines[0])
	}
	if !strings.Contains(lines[0], "ABCDEFGHIJKLMNOP") {
		t.Fatalf("first row missing ASCII column: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "00000010") {
		t.Fatalf("second row offset wrong: %q", lines[1])
	}
}

func TestRenameFile(t *testing.T) {
	st := testState(t)
	src, dst := fsPath(st, "draft.txt"), fsPath(st, "final.txt")
	afero.WriteFile(st.Fs(), src, []byte("v1"), 0o644)

	mustRun(t, st, "rename", src, dst)
	if exists, _ := afero.Exists(st.Fs(), dst); !exists {
		t.Fatal("rename target missing")
	}
}

func TestFileCommandUsageErrors(t *testing.T) {
	st := testState(t)
	for _, tc := range [][]string{
		{"create_file"},
		{"copy_file", "only-one"},
		{"compare_files", "a", "b", "c"},
		{"dump_file"},
	} {
		if _, err := run(t, st, tc[0], tc[1:]...); err == nil {
			t.Errorf("%v accepted bad arguments", tc)
		}
	}
}

func TestDeleteMissingFileFails(t *testing.T) {
	st := testState(t)
	if _, err := run(t, st, "delete_file", fsPath(st, "ghost.txt")); err == nil {
		t.Fatal("deleting a missing file should fail")
	}
}
