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

// Package command holds the VOS command registry and the matcher that turns
// free-form input into a registry entry.
package command

import (
	"errors"
	"sort"
	"strings"
)

// ErrQuit is returned by a handler to tell the REPL loop to terminate.
var ErrQuit = errors.New("quit")

// Kind tags how a registry entry is executed.
type Kind int

const (
	// Builtin runs real logic against the session state.
	Builtin Kind = iota
	// Stub is recognized but unimplemented; it returns a fixed placeholder.
	Stub
	// StaticText returns a fixed output string loaded from a command pack.
	StaticText
)

func (k Kind) String() string {
	switch k {
	case Builtin:
		return "builtin"
	case Stub:
		return "stub"
	case StaticText:
		return "static"
	}
	return "unknown"
}

// HandlerFunc is a builtin command body. Handlers close over the session
// state they mutate.
type HandlerFunc func(args []string) (string, error)

// Entry is one named command.
type Entry struct {
	Name   string
	Kind   Kind
	Help   string
	Run    HandlerFunc
	Static string

	// IsFileCmd and IsDirCmd mark commands whose trailing arguments are
	// sandbox paths, for resolution and tab completion.
	IsFileCmd bool
	IsDirCmd  bool
}

// Registry maps command names to entries, preserving registration order.
type Registry struct {
	entries map[string]*Entry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds an entry, normalizing its name to lowercase. Registering an
// existing name replaces the entry in place and keeps its listing position;
// callers that must not shadow builtins use RegisterStubs instead. The entry
// is copied, so the caller's value is never modified.
func (r *Registry) Register(e *Entry) {
	name := strings.ToLower(strings.TrimSpace(e.Name))
	if name == "" {
		return
	}
	stored := *e
	stored.Name = name
	if _, ok := r.entries[name]; !ok {
		r.order = append(r.order, name)
	}
	r.entries[name] = &stored
}

// RegisterStubs adds a Stub entry for every name not already registered and
// returns how many stubs were created. Existing entries of any kind are left
// untouched.
func (r *Registry) RegisterStubs(names []string) int {
	added := 0
	for _, n := range names {
		name := strings.ToLower(strings.TrimSpace(n))
		if name == "" {
			continue
		}
		if _, ok := r.entries[name]; ok {
			continue
		}
		r.Register(&Entry{
			Name: name,
			Kind: Stub,
			Help: "This command is simulated and not fully implemented. Refer to the VOS Commands Reference Manual for details.",
		})
		added++
	}
	return added
}

// RegisterStatic registers or overwrites name with a StaticText entry.
// Static pack entries always win over stubs and earlier static text.
func (r *Registry) RegisterStatic(name, text string) {
	r.Register(&Entry{Name: name, Kind: StaticText, Static: text})
}

// Lookup finds an entry by exact (case-insensitive) name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	e, ok := r.entries[strings.ToLower(name)]
	return e, ok
}

// All returns entries in registration order.
func (r *Registry) All() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// Names returns all registered names sorted lexicographically.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of registered commands.
func (r *Registry) Len() int {
	return len(r.order)
}
