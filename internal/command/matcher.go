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
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MatchKind classifies a match outcome.
type MatchKind int

const (
	// MatchExact resolved a single entry; Args holds the remaining tokens.
	MatchExact MatchKind = iota
	// MatchAmbiguous found several prefix or glob candidates.
	MatchAmbiguous
	// MatchSuggestions found nothing, but has close names to offer.
	MatchSuggestions
	// MatchNone found nothing, not even fuzzily.
	MatchNone
)

// Match is the outcome of resolving input tokens against the registry.
type Match struct {
	Kind       MatchKind
	Entry      *Entry
	Args       []string
	Candidates []string
}

// maxSuggestions bounds the fuzzy tier output.
const maxSuggestions = 5

// suggestionCutoff is the minimum normalized similarity (1 - distance/maxlen)
// for a name to qualify as a suggestion.
const suggestionCutoff = 0.5

// Matcher resolves tokenized input to registry entries. Short aliases are
// expanded before any tier runs.
type Matcher struct {
	reg     *Registry
	aliases map[string]string
}

// DefaultAliases maps shorthand to canonical command names. 'dir'-style
// spellings are deliberately absent; only VOS names are exposed.
func DefaultAliases() map[string]string {
	return map[string]string{
		"ls":                   "list",
		"ll":                   "list",
		"q":                    "exit",
		"quit":                 "exit",
		"show commands report": "show commands status",
	}
}

// NewMatcher builds a matcher over reg with the default aliases.
func NewMatcher(reg *Registry) *Matcher {
	return &Matcher{reg: reg, aliases: DefaultAliases()}
}

// Match resolves tokens through the tiers described in the package doc:
// exact (full line, one token, two tokens), strict prefix, glob, then fuzzy
// suggestion. Suggestions are never auto-executed.
func (m *Matcher) Match(tokens []string) Match {
	tokens = m.expandAlias(tokens)
	if len(tokens) == 0 {
		return Match{Kind: MatchNone}
	}

	// Full input as a single command name. Multi-word commands such as
	// "show commands status" take no arguments, so the whole line is a
	// legitimate head.
	if e, ok := m.reg.Lookup(strings.Join(tokens, " ")); ok {
		return Match{Kind: MatchExact, Entry: e}
	}
	if e, ok := m.reg.Lookup(tokens[0]); ok {
		return Match{Kind: MatchExact, Entry: e, Args: tokens[1:]}
	}
	if len(tokens) >= 2 {
		if e, ok := m.reg.Lookup(tokens[0] + " " + tokens[1]); ok {
			return Match{Kind: MatchExact, Entry: e, Args: tokens[2:]}
		}
	}

	head := strings.ToLower(tokens[0])
	args := tokens[1:]

	if c := m.prefixCandidates(head); len(c) > 0 {
		return m.narrow(c, args)
	}
	if c := m.globCandidates(head); len(c) > 0 {
		return m.narrow(c, args)
	}
	if sug := m.Suggest(head); len(sug) > 0 {
		return Match{Kind: MatchSuggestions, Candidates: sug}
	}
	return Match{Kind: MatchNone}
}

// Suggest ranks registry names by edit distance to token and returns the
// closest few. Ties are broken lexicographically for determinism.
func (m *Matcher) Suggest(token string) []string {
	type scored struct {
		name string
		dist int
	}
	var ranked []scored
	for _, name := range m.reg.Names() {
		dist := fuzzy.LevenshteinDistance(strings.ToLower(token), name)
		longest := max(len(token), len(name))
		if longest == 0 {
			continue
		}
		if 1.0-float64(dist)/float64(longest) < suggestionCutoff {
			continue
		}
		ranked = append(ranked, scored{name: name, dist: dist})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.name
	}
	return out
}

func (m *Matcher) narrow(candidates []string, args []string) Match {
	if len(candidates) == 1 {
		e, _ := m.reg.Lookup(candidates[0])
		return Match{Kind: MatchExact, Entry: e, Args: args}
	}
	return Match{Kind: MatchAmbiguous, Candidates: candidates}
}

func (m *Matcher) prefixCandidates(head string) []string {
	var out []string
	for _, name := range m.reg.Names() {
		if name != head && strings.HasPrefix(name, head) {
			out = append(out, name)
		}
	}
	return out
}

func (m *Matcher) globCandidates(head string) []string {
	if !strings.ContainsAny(head, "*?[") {
		return nil
	}
	var out []string
	for _, name := range m.reg.Names() {
		if ok, err := doublestar.Match(head, name); err == nil && ok {
			out = append(out, name)
		}
	}
	return out
}

// expandAlias replaces a leading alias with its target tokens. Longer alias
// keys are tried first so "show commands report" wins over any one-word key.
func (m *Matcher) expandAlias(tokens []string) []string {
	for n := min(3, len(tokens)); n >= 1; n-- {
		key := strings.ToLower(strings.Join(tokens[:n], " "))
		target, ok := m.aliases[key]
		if !ok {
			continue
		}
		expanded := strings.Fields(target)
		return append(expanded, tokens[n:]...)
	}
	return tokens
}
