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

package command

import (
	"reflect"
	"testing"
)

func testMatcher(names ...string) *Matcher {
	r := NewRegistry()
	for _, n := range names {
		r.Register(builtin(n))
	}
	return NewMatcher(r)
}

func TestExactMatchForEveryRegisteredName(t *testing.T) {
	names := []string{"list", "create_file", "display_file", "show commands status"}
	m := testMatcher(names...)
	for _, n := range names {
		got := m.Match([]string{n})
		if got.Kind != MatchExact || got.Entry.Name != n || len(got.Args) != 0 {
			t.Fatalf("match(%q) = %+v", n, got)
		}
	}
}

func TestTwoTokenMatchKeepsTrailingArgs(t *testing.T) {
	m := testMatcher("show status", "list")
	got := m.Match([]string{"show", "status", "verbose"})
	if got.Kind != MatchExact || got.Entry.Name != "show status" {
		t.Fatalf("unexpected match %+v", got)
	}
	if !reflect.DeepEqual(got.Args, []string{"verbose"}) {
		t.Fatalf("expected args from third token onward, got %v", got.Args)
	}
}

func TestUniquePrefixResolves(t *testing.T) {
	m := testMatcher("display_file", "list")
	got := m.Match([]string{"disp", "a.txt"})
	if got.Kind != MatchExact || got.Entry.Name != "display_file" {
		t.Fatalf("unique prefix should resolve, got %+v", got)
	}
	if !reflect.DeepEqual(got.Args, []string{"a.txt"}) {
		t.Fatalf("args lost: %v", got.Args)
	}
}

func TestAmbiguousPrefixListsCandidatesInOrder(t *testing.T) {
	m := testMatcher("display_file", "display_dir_status", "list")
	got := m.Match([]string{"display"})
	if got.Kind != MatchAmbiguous {
		t.Fatalf("expected ambiguous, got %+v", got)
	}
	want := []string{"display_dir_status", "display_file"}
	if !reflect.DeepEqual(got.Candidates, want) {
		t.Fatalf("candidates not lexicographic: %v", got.Candidates)
	}
}

func TestGlobMatch(t *testing.T) {
	m := testMatcher("display_file", "display_dir_status", "dump_file")
	got := m.Match([]string{"d*_file"})
	if got.Kind != MatchAmbiguous {
		t.Fatalf("expected two glob candidates, got %+v", got)
	}
	want := []string{"display_file", "dump_file"}
	if !reflect.DeepEqual(got.Candidates, want) {
		t.Fatalf("glob candidates %v", got.Candidates)
	}

	got = m.Match([]string{"dump*"})
	if got.Kind != MatchExact || got.Entry.Name != "dump_file" {
		t.Fatalf("single glob candidate should resolve, got %+v", got)
	}
}

func TestFuzzySuggestionsRankClosestFirst(t *testing.T) {
	m := testMatcher("list", "display_file")
	got := m.Match([]string{"lst"})
	if got.Kind != MatchSuggestions {
		t.Fatalf("expected suggestions, got %+v", got)
	}
	if len(got.Candidates) == 0 || got.Candidates[0] != "list" {
		t.Fatalf("expected list ranked first, got %v", got.Candidates)
	}
	for i, c := range got.Candidates {
		if c == "display_file" && i == 0 {
			t.Fatal("display_file must rank below list")
		}
	}
}

func TestNoMatchForGarbage(t *testing.T) {
	m := testMatcher("list", "display_file")
	got := m.Match([]string{"zzzzzzzzqqqq"})
	if got.Kind != MatchNone {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestAliasExpansion(t *testing.T) {
	m := testMatcher("list", "exit", "show commands status")
	if got := m.Match([]string{"ls"}); got.Kind != MatchExact || got.Entry.Name != "list" {
		t.Fatalf("ls alias: %+v", got)
	}
	if got := m.Match([]string{"q"}); got.Kind != MatchExact || got.Entry.Name != "exit" {
		t.Fatalf("q alias: %+v", got)
	}
	got := m.Match([]string{"show", "commands", "report"})
	if got.Kind != MatchExact || got.Entry.Name != "show commands status" {
		t.Fatalf("report alias should resolve to status, got %+v", got)
	}
}

func TestEmptyInput(t *testing.T) {
	m := testMatcher("list")
	if got := m.Match(nil); got.Kind != MatchNone {
		t.Fatalf("expected none for empty input, got %+v", got)
	}
}
