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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"vosim/internal/session"
	"vosim/internal/vospath"
)

func locateDefs() []def {
	return []def{
		{
			name: "locate_files",
			help: "Find files under the current directory whose names match a glob pattern (case-insensitive). Usage: locate_files <pattern>",
			run:  locateFiles,
		},
		{
			name: "locate_large_files",
			help: "Find files under the current directory at or above a size threshold, largest first. Sizes accept K/M/G/T suffixes. Usage: locate_large_files <size>",
			run:  locateLargeFiles,
		},
		{
			name: "locate_large_dirs",
			help: "Find directories under the current directory whose total content size is at or above a threshold, largest first. Sizes accept K/M/G/T suffixes. Usage: locate_large_dirs <size>",
			run:  locateLargeDirs,
		},
	}
}

func locateFiles(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("locate_files <pattern>")
	}
	pattern := strings.ToLower(args[0])
	if !doublestar.ValidatePattern(pattern) {
		return "", failf("locate_files", fmt.Errorf("invalid pattern: %s", args[0]))
	}
	var hits []string
	root := st.CurrentDirPath()
	err := afero.Walk(st.Fs(), root, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		matched, _ := doublestar.Match(pattern, strings.ToLower(info.Name()))
		if matched {
			hits = append(hits, vosDisplayPath(st, p))
		}
		return nil
	})
	if err != nil {
		return "", failf("locate_files", err)
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No files matching %q found.", args[0]), nil
	}
	sort.Strings(hits)
	return strings.Join(hits, "\n"), nil
}

func locateLargeFiles(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("locate_large_files <size>")
	}
	threshold, err := parseSize(args[0])
	if err != nil {
		return "", failf("locate_large_files", err)
	}
	type hit struct {
		path string
		size int64
	}
	var hits []hit
	root := st.CurrentDirPath()
	walkErr := afero.Walk(st.Fs(), root, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if info.Size() >= threshold {
			hits = append(hits, hit{path: vosDisplayPath(st, p), size: info.Size()})
		}
		return nil
	})
	if walkErr != nil {
		return "", failf("locate_large_files", walkErr)
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No files of %s or larger found.", args[0]), nil
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].size != hits[j].size {
			return hits[i].size > hits[j].size
		}
		return hits[i].path < hits[j].path
	})
	var lines []string
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf("%10s  %s", humanize.IBytes(uint64(h.size)), h.path))
	}
	return strings.Join(lines, "\n"), nil
}

func locateLargeDirs(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("locate_large_dirs <size>")
	}
	threshold, err := parseSize(args[0])
	if err != nil {
		return "", failf("locate_large_dirs", err)
	}
	root := st.CurrentDirPath()
	totals := make(map[string]int64)
	walkErr := afero.Walk(st.Fs(), root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if _, seen := totals[p]; !seen {
				totals[p] = 0
			}
			return nil
		}
		// Charge the file to every ancestor directory up to the walk root.
		for dir := filepath.Dir(p); ; dir = filepath.Dir(dir) {
			totals[dir] += info.Size()
			if dir == root || dir == filepath.Dir(dir) {
				break
			}
		}
		return nil
	})
	if walkErr != nil {
		return "", failf("locate_large_dirs", walkErr)
	}
	type hit struct {
		path string
		size int64
	}
	var hits []hit
	for dir, size := range totals {
		if size >= threshold {
			hits = append(hits, hit{path: vosDisplayPath(st, dir), size: size})
		}
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No directories of %s or larger found.", args[0]), nil
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].size != hits[j].size {
			return hits[i].size > hits[j].size
		}
		return hits[i].path < hits[j].path
	})
	var lines []string
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf("%10s  %s", humanize.IBytes(uint64(h.size)), h.path))
	}
	return strings.Join(lines, "\n"), nil
}

// parseSize reads a byte count with an optional K/M/G/T suffix (powers of 1024).
func parseSize(raw string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1<<10, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1<<20, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "G"):
		mult, s = 1<<30, strings.TrimSuffix(s, "G")
	case strings.HasSuffix(s, "T"):
		mult, s = 1<<40, strings.TrimSuffix(s, "T")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size: %s", raw)
	}
	return int64(n * float64(mult)), nil
}

// vosDisplayPath renders a host path inside the sandbox as a VOS path;
// paths outside the sandbox fall back to the host form.
func vosDisplayPath(st *session.State, hostPath string) string {
	rel, err := filepath.Rel(st.FilesystemDir(), hostPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return hostPath
	}
	if rel == "." {
		return vospath.Separator
	}
	return vospath.Display(strings.Split(filepath.ToSlash(rel), "/"))
}
