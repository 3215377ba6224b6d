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

// Package session owns the process-wide emulator state: the sandbox
// directories, the current logical directory and the runtime settings that
// a handful of set_* commands mutate. A single State value is threaded
// through every handler; there are no ambient globals.
package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"vosim/internal/command"
	"vosim/internal/vospath"
)

// Directory names under the base state dir. File operations live in the
// filesystem subtree; batch queues live under vos_internals so batch jobs
// never collide with ordinary files.
const (
	filesystemSubdir = "filesystem"
	batchSubdir      = "vos_internals/batches"
)

// Settings are the mutable knobs exposed through set_* and profile commands.
// They reset when the process exits.
type Settings struct {
	Language     string
	TimeZone     string
	WrapWidth    int
	Profile      string
	Profiles     []string
	LibraryPaths []string
}

// DefaultSettings mimics reasonable initial values of a fresh VOS login.
func DefaultSettings() Settings {
	return Settings{
		Language:  "en",
		TimeZone:  "UTC",
		WrapWidth: 80,
		Profile:   "default",
		Profiles:  []string{"default"},
	}
}

// State is the single mutable resource of the emulator, exclusively owned
// by the REPL loop. Handlers receive it by reference and mutate only the
// fields their contract names.
type State struct {
	fs afero.Fs

	baseDir       string
	filesystemDir string
	batchRoot     string
	currentDir    []string

	registry       *command.Registry
	canonicalNames []string

	Settings Settings

	lastError string
	notices   []string
}

// New creates a State rooted at baseDir, creating the filesystem and batch
// hierarchies. baseDir is made absolute for consistency.
func New(fs afero.Fs, baseDir string) (*State, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}
	st := &State{fs: fs, Settings: DefaultSettings()}
	if err := st.reroot(abs); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *State) reroot(abs string) error {
	filesystemDir := filepath.Join(abs, filesystemSubdir)
	batchRoot := filepath.Join(abs, filepath.FromSlash(batchSubdir))
	for _, dir := range []string{abs, filesystemDir, batchRoot} {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir %s: %w", dir, err)
		}
	}
	s.baseDir = abs
	s.filesystemDir = filesystemDir
	s.batchRoot = batchRoot
	s.currentDir = nil
	return nil
}

// Reroot moves the whole state hierarchy to a new base directory. On
// failure the previous root remains in effect.
func (s *State) Reroot(baseDir string) error {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	prevBase, prevFs, prevBatch, prevDir := s.baseDir, s.filesystemDir, s.batchRoot, s.currentDir
	if err := s.reroot(abs); err != nil {
		s.baseDir, s.filesystemDir, s.batchRoot, s.currentDir = prevBase, prevFs, prevBatch, prevDir
		return err
	}
	return nil
}

// Fs exposes the filesystem handle handlers operate through.
func (s *State) Fs() afero.Fs { return s.fs }

// BaseDir is the absolute base state directory.
func (s *State) BaseDir() string { return s.baseDir }

// FilesystemDir is the sandbox root for file operations.
func (s *State) FilesystemDir() string { return s.filesystemDir }

// BatchRoot is the directory holding batch queues.
func (s *State) BatchRoot() string { return s.batchRoot }

// CurrentDir returns a copy of the logical directory segments.
func (s *State) CurrentDir() []string {
	out := make([]string, len(s.currentDir))
	copy(out, s.currentDir)
	return out
}

// CurrentDirPath is the host path of the current logical directory.
func (s *State) CurrentDirPath() string {
	if len(s.currentDir) == 0 {
		return s.filesystemDir
	}
	return filepath.Join(append([]string{s.filesystemDir}, s.currentDir...)...)
}

// CurrentDirVOS renders the current directory in VOS notation.
func (s *State) CurrentDirVOS() string {
	return vospath.Display(s.currentDir)
}

// ChangeDir moves the logical directory to the directory at hostPath, which
// must exist and lie under the sandbox root. On failure the current
// directory is left byte-for-byte unchanged.
func (s *State) ChangeDir(hostPath string) error {
	if !vospath.Confined(hostPath, s.filesystemDir) {
		return fmt.Errorf("target %s is outside the state directory", hostPath)
	}
	ok, err := afero.DirExists(s.fs, hostPath)
	if err != nil {
		return fmt.Errorf("change_current_dir: %w", err)
	}
	if !ok {
		return fmt.Errorf("target directory does not exist: %s", hostPath)
	}
	rel, err := filepath.Rel(s.filesystemDir, hostPath)
	if err != nil {
		return fmt.Errorf("change_current_dir: %w", err)
	}
	if rel == "." {
		s.currentDir = nil
		return nil
	}
	s.currentDir = splitHostPath(rel)
	return nil
}

// SetRegistry attaches the command registry. The registry is part of the
// session so that meta commands (help, commands, status report) can reach it.
func (s *State) SetRegistry(reg *command.Registry) { s.registry = reg }

// Registry returns the attached command registry, or nil before startup
// wiring completes.
func (s *State) Registry() *command.Registry { return s.registry }

// SetCanonicalNames records the names loaded from the canonical command
// list, used by the status report to spot unregistered commands.
func (s *State) SetCanonicalNames(names []string) {
	s.canonicalNames = append([]string(nil), names...)
}

// CanonicalNames returns the canonical command list, possibly empty.
func (s *State) CanonicalNames() []string {
	return append([]string(nil), s.canonicalNames...)
}

// RecordError stores msg as the last error for display_error.
func (s *State) RecordError(msg string) { s.lastError = msg }

// LastError returns the most recent error message, or "".
func (s *State) LastError() string { return s.lastError }

// AddNotice queues a system notice for display_notices.
func (s *State) AddNotice(msg string) { s.notices = append(s.notices, msg) }

// DrainNotices returns queued notices and clears them.
func (s *State) DrainNotices() []string {
	out := s.notices
	s.notices = nil
	return out
}

func splitHostPath(rel string) []string {
	var segs []string
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if seg != "" && seg != "." {
			segs = append(segs, seg)
		}
	}
	return segs
}
