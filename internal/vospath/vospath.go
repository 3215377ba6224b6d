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

// Package vospath converts VOS-style pathnames into host filesystem paths.
//
// OpenVOS uses '>' as its directory separator: ">Sales>Jones>file.txt" is an
// absolute path, "Jones>file.txt" is relative to the current directory. The
// resolver performs path algebra only; existence and type checks belong to
// the caller.
package vospath

import (
	"os"
	"path/filepath"
	"strings"
)

// Separator is the VOS directory separator.
const Separator = ">"

// Resolved is the outcome of resolving a single path argument.
type Resolved struct {
	// Path is the host filesystem path.
	Path string
	// HostAbsolute reports that the argument was already an absolute host
	// path and no sandbox confinement was applied.
	HostAbsolute bool
}

// Resolve converts a VOS-style or host pathname into a host path rooted at
// the sandbox root.
//
// Rules, in order:
//   - empty input resolves to the current directory under root
//   - absolute host paths are returned unchanged and flagged; this is the
//     documented escape hatch out of the sandbox
//   - a leading '>' makes the path absolute within the sandbox, ignoring
//     the current directory
//   - anything else resolves relative to the current directory
func Resolve(raw string, currentDir []string, root string) Resolved {
	arg := strings.TrimSpace(raw)
	if arg == "" {
		return Resolved{Path: join(root, currentDir)}
	}
	if filepath.IsAbs(arg) {
		return Resolved{Path: arg, HostAbsolute: true}
	}
	if strings.Contains(arg, Separator) {
		parts := Split(arg)
		if strings.HasPrefix(arg, Separator) {
			return Resolved{Path: join(root, parts)}
		}
		return Resolved{Path: join(root, append(append([]string{}, currentDir...), parts...))}
	}
	return Resolved{Path: filepath.Join(join(root, currentDir), arg)}
}

// Split breaks a VOS pathname into its non-empty segments.
func Split(raw string) []string {
	var parts []string
	for _, p := range strings.Split(raw, Separator) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Display renders logical directory segments in VOS notation. The root is a
// single '>'.
func Display(segments []string) string {
	if len(segments) == 0 {
		return Separator
	}
	return Separator + strings.Join(segments, Separator)
}

// Confined reports whether path lies under base. Both paths are compared
// lexically; the resolver never touches the filesystem.
func Confined(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)))
}

func join(root string, segments []string) string {
	if len(segments) == 0 {
		return root
	}
	return filepath.Join(append([]string{root}, segments...)...)
}
