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

package session

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	st, err := New(afero.NewMemMapFs(), "/state")
	if err != nil {
		t.Fatalf("failed to create state: %v", err)
	}
	return st
}

func TestNewCreatesHierarchy(t *testing.T) {
	st := newTestState(t)
	for _, dir := range []string{st.BaseDir(), st.FilesystemDir(), st.BatchRoot()} {
		ok, err := afero.DirExists(st.Fs(), dir)
		if err != nil || !ok {
			t.Fatalf("expected directory %s to exist (err=%v)", dir, err)
		}
	}
	if st.CurrentDirVOS() != ">" {
		t.Fatalf("fresh state should start at root, got %s", st.CurrentDirVOS())
	}
}

func TestChangeDir(t *testing.T) {
	st := newTestState(t)
	target := filepath.Join(st.FilesystemDir(), "Sales", "Jones")
	if err := st.Fs().MkdirAll(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := st.ChangeDir(target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.CurrentDirVOS(); got != ">Sales>Jones" {
		t.Fatalf("expected >Sales>Jones, got %s", got)
	}
	if got := st.CurrentDirPath(); got != target {
		t.Fatalf("expected %s, got %s", target, got)
	}
}

func TestChangeDirFailureLeavesStateUnchanged(t *testing.T) {
	st := newTestState(t)
	sales := filepath.Join(st.FilesystemDir(), "Sales")
	if err := st.Fs().MkdirAll(sales, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := st.ChangeDir(sales); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := st.CurrentDir()

	missing := filepath.Join(st.FilesystemDir(), "nope")
	if err := st.ChangeDir(missing); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !reflect.DeepEqual(st.CurrentDir(), before) {
		t.Fatalf("failed change mutated state: %v -> %v", before, st.CurrentDir())
	}
}

func TestChangeDirRejectsEscape(t *testing.T) {
	st := newTestState(t)
	if err := st.ChangeDir("/etc"); err == nil {
		t.Fatal("expected confinement error")
	}
	if st.CurrentDirVOS() != ">" {
		t.Fatalf("state mutated on rejected change: %s", st.CurrentDirVOS())
	}
}

func TestChangeDirBackToRoot(t *testing.T) {
	st := newTestState(t)
	sales := filepath.Join(st.FilesystemDir(), "Sales")
	if err := st.Fs().MkdirAll(sales, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := st.ChangeDir(sales); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.ChangeDir(st.FilesystemDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.CurrentDirVOS() != ">" {
		t.Fatalf("expected root, got %s", st.CurrentDirVOS())
	}
}

func TestRerootMovesHierarchyAndResetsDir(t *testing.T) {
	st := newTestState(t)
	sales := filepath.Join(st.FilesystemDir(), "Sales")
	if err := st.Fs().MkdirAll(sales, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := st.ChangeDir(sales); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := st.Reroot("/elsewhere"); err != nil {
		t.Fatalf("reroot failed: %v", err)
	}
	if st.BaseDir() != "/elsewhere" {
		t.Fatalf("unexpected base dir %s", st.BaseDir())
	}
	if st.CurrentDirVOS() != ">" {
		t.Fatalf("reroot should reset current dir, got %s", st.CurrentDirVOS())
	}
	ok, err := afero.DirExists(st.Fs(), st.BatchRoot())
	if err != nil || !ok {
		t.Fatalf("batch root missing after reroot (err=%v)", err)
	}
}

func TestNoticesDrainOnce(t *testing.T) {
	st := newTestState(t)
	st.AddNotice("maintenance at noon")
	got := st.DrainNotices()
	if len(got) != 1 || got[0] != "maintenance at noon" {
		t.Fatalf("unexpected notices: %v", got)
	}
	if len(st.DrainNotices()) != 0 {
		t.Fatal("notices should be cleared after draining")
	}
}

func TestLastError(t *testing.T) {
	st := newTestState(t)
	if st.LastError() != "" {
		t.Fatal("fresh state should have no last error")
	}
	st.RecordError("copy_file: no such file")
	if st.LastError() != "copy_file: no such file" {
		t.Fatalf("unexpected last error %q", st.LastError())
	}
}
