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

package vospath

import (
	"path/filepath"
	"testing"
)

func TestResolveAbsoluteVOSPath(t *testing.T) {
	root := filepath.Join("/", "state", "filesystem")
	res := Resolve(">Sales>Jones>file.txt", []string{"somewhere", "else"}, root)
	want := filepath.Join(root, "Sales", "Jones", "file.txt")
	if res.Path != want {
		t.Fatalf("expected %s, got %s", want, res.Path)
	}
	if res.HostAbsolute {
		t.Fatal("VOS path must not be flagged host-absolute")
	}
}

func TestResolveIgnoresCurrentDirForAbsoluteVOSPath(t *testing.T) {
	root := "/r"
	a := Resolve(">a>b", nil, root)
	b := Resolve(">a>b", []string{"deep", "nested"}, root)
	if a.Path != b.Path {
		t.Fatalf("absolute VOS path depends on current dir: %s vs %s", a.Path, b.Path)
	}
}

func TestResolveRelativeVOSPath(t *testing.T) {
	root := "/r"
	res := Resolve("Jones>q1.txt", []string{"Sales"}, root)
	want := filepath.Join(root, "Sales", "Jones", "q1.txt")
	if res.Path != want {
		t.Fatalf("expected %s, got %s", want, res.Path)
	}
}

func TestResolvePlainRelativeName(t *testing.T) {
	root := "/r"
	res := Resolve("notes.txt", []string{"Sales", "Jones"}, root)
	want := filepath.Join(root, "Sales", "Jones", "notes.txt")
	if res.Path != want {
		t.Fatalf("expected %s, got %s", want, res.Path)
	}
}

func TestResolveHostAbsoluteIsIdempotent(t *testing.T) {
	first := Resolve("/tmp/x", []string{"Sales"}, "/r")
	if !first.HostAbsolute {
		t.Fatal("expected host-absolute flag")
	}
	second := Resolve(first.Path, []string{"Sales"}, "/r")
	if second.Path != first.Path || !second.HostAbsolute {
		t.Fatalf("resolution not idempotent: %+v vs %+v", first, second)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	if got := Resolve("", nil, "/r").Path; got != "/r" {
		t.Fatalf("empty input should resolve to root, got %s", got)
	}
	want := filepath.Join("/r", "Sales")
	if got := Resolve("", []string{"Sales"}, "/r").Path; got != want {
		t.Fatalf("empty input should resolve to current dir, got %s", got)
	}
}

func TestResolveSeparatorOnlyInput(t *testing.T) {
	if got := Resolve(">", []string{"Sales"}, "/r").Path; got != "/r" {
		t.Fatalf("'>' should resolve to the sandbox root, got %s", got)
	}
}

func TestDisplay(t *testing.T) {
	if got := Display(nil); got != ">" {
		t.Fatalf("root should display as '>', got %q", got)
	}
	if got := Display([]string{"Sales", "Jones"}); got != ">Sales>Jones" {
		t.Fatalf("unexpected display %q", got)
	}
}

func TestConfined(t *testing.T) {
	if !Confined("/r/a/b", "/r") {
		t.Fatal("nested path should be confined")
	}
	if Confined("/etc/passwd", "/r") {
		t.Fatal("outside path should not be confined")
	}
	if Confined(filepath.Join("/r", ".."), "/r") {
		t.Fatal("parent path should not be confined")
	}
	if !Confined("/r", "/r") {
		t.Fatal("root itself should be confined")
	}
}
