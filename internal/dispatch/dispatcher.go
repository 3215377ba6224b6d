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

// Package dispatch turns one line of user input into one result string. It
// owns tokenization, matching, path-argument rewriting, and the error
// boundary; nothing a handler does escapes Execute as a panic.
package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"vosim/internal/command"
	"vosim/internal/session"
	"vosim/internal/verrors"
	"vosim/internal/vospath"
)

// maxAmbiguousListed caps how many candidates an ambiguity report names.
const maxAmbiguousListed = 20

// Result is the outcome of executing one input line.
type Result struct {
	// Output is ready for display; empty means nothing to print.
	Output string
	// Quit tells the REPL loop to terminate.
	Quit bool
}

// Dispatcher executes input lines against a session.
type Dispatcher struct {
	st      *session.State
	matcher *command.Matcher
	log     zerolog.Logger
}

// New builds a Dispatcher over st. The session's registry must already be
// set; entries registered later are still picked up.
func New(st *session.State, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		st:      st,
		matcher: command.NewMatcher(st.Registry()),
		log:     log,
	}
}

// Execute runs one raw input line and returns its result. Errors from
// matching, path resolution, and handlers all come back as "[ERR] ..."
// output; the last-error slot records them.
func (d *Dispatcher) Execute(raw string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("input", raw).Msg("handler panicked")
			res = d.errResult(fmt.Sprintf("internal error: %v", r))
		}
	}()

	tokens := Tokenize(raw)
	if len(tokens) == 0 {
		return Result{}
	}

	m := d.matcher.Match(tokens)
	switch m.Kind {
	case command.MatchExact:
		return d.run(m.Entry, m.Args)
	case command.MatchAmbiguous:
		return Result{Output: ambiguousMessage(m.Candidates)}
	case command.MatchSuggestions:
		return Result{Output: "Unknown command. Closest matches:\n  - " + strings.Join(m.Candidates, "\n  - ")}
	default:
		return Result{Output: "Unknown command: " + strings.TrimSpace(raw) + "\nTip: use 'commands' or try a glob like 'show *status'."}
	}
}

func (d *Dispatcher) run(e *command.Entry, args []string) Result {
	switch e.Kind {
	case command.StaticText:
		return Result{Output: e.Static}
	case command.Stub:
		return Result{Output: e.Name + " (simulated)"}
	}

	if e.IsFileCmd || e.IsDirCmd {
		resolved, err := d.resolveArgs(args)
		if err != nil {
			return d.errResult(err.Error())
		}
		args = resolved
	}

	d.log.Debug().Str("command", e.Name).Strs("args", args).Msg("dispatch")
	out, err := e.Run(args)
	if err != nil {
		if errors.Is(err, command.ErrQuit) {
			return Result{Output: out, Quit: true}
		}
		return d.errResult(err.Error())
	}
	return Result{Output: out}
}

// resolveArgs rewrites each path argument to a host path. Sandbox-relative
// arguments must stay under the filesystem root; host-absolute arguments
// pass through as the documented escape hatch.
func (d *Dispatcher) resolveArgs(args []string) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		r := vospath.Resolve(a, d.st.CurrentDir(), d.st.FilesystemDir())
		if !r.HostAbsolute && !vospath.Confined(r.Path, d.st.FilesystemDir()) {
			return nil, verrors.Newf(verrors.CodePath, "path escapes the state directory: %s", a)
		}
		out[i] = r.Path
	}
	return out, nil
}

func (d *Dispatcher) errResult(msg string) Result {
	d.st.RecordError(msg)
	return Result{Output: "[ERR] " + msg}
}

func ambiguousMessage(candidates []string) string {
	listed := candidates
	more := ""
	if len(listed) > maxAmbiguousListed {
		listed = listed[:maxAmbiguousListed]
		more = "\n  ... (more)"
	}
	return "Ambiguous command. Did you mean:\n  - " + strings.Join(listed, "\n  - ") + more
}
