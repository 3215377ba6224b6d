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
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"

	"vosim/internal/session"
)

func fileDefs() []def {
	return []def{
		{
			name: "create_file", fileCmd: true,
			help: "Create an empty file. Usage: create_file <path>",
			run:  createFile,
		},
		{
			name: "copy_file", fileCmd: true,
			help: "Copy file. Usage: copy_file <src> <dst>",
			run:  copyFileCmd,
		},
		{
			name: "clone_file", fileCmd: true,
			help: "Clone (copy) a file. Alias of copy_file. Usage: clone_file <src> <dst>",
			run:  copyFileCmd,
		},
		{
			name: "move_file", fileCmd: true,
			help: "Move/rename file. Usage: move_file <src> <dst>",
			run:  moveFile,
		},
		{
			name: "delete_file", fileCmd: true,
			help: "Delete a file. Usage: delete_file <path>",
			run:  deleteFile,
		},
		{
			name: "rename", fileCmd: true,
			help: "Rename a file or directory within the state directory. Usage: rename <src> <dst>",
			run:  renameCmd,
		},
		{
			name: "compare_files", fileCmd: true,
			help: "Compare two files and report the first difference. Usage: compare_files <a> <b>",
			run:  compareFiles,
		},
		{
			name: "display_file", fileCmd: true,
			help: "Display the contents of a text file. Usage: display_file <path>",
			run:  displayFile,
		},
		{
			name: "display_file_status", fileCmd: true,
			help: "Show file metadata such as type, size and modification time. Usage: display_file_status <path>",
			run:  displayFileStatus,
		},
		{
			name: "dump_file", fileCmd: true,
			help: "Dump a file in hex with offsets. Usage: dump_file <path>",
			run:  dumpFile,
		},
	}
}

func createFile(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("create_file <path>")
	}
	path := args[0]
	fs := st.Fs()
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", failf("create_file", err)
	}
	f, err := fs.OpenFile(path, openAppendFlags, 0o644)
	if err != nil {
		return "", failf("create_file", err)
	}
	f.Close()
	return ok("created file: %s", path), nil
}

func copyFileCmd(st *session.State, args []string) (string, error) {
	if len(args) != 2 {
		return "", usage("copy_file <src> <dst>")
	}
	src, dst := args[0], args[1]
	if err := copyFile(st.Fs(), src, dst); err != nil {
		return "", failf("copy_file", err)
	}
	return ok("copied %s -> %s", src, dst), nil
}

func moveFile(st *session.State, args []string) (string, error) {
	if len(args) != 2 {
		return "", usage("move_file <src> <dst>")
	}
	src, dst := args[0], args[1]
	fs := st.Fs()
	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", failf("move_file", err)
	}
	if err := fs.Rename(src, dst); err != nil {
		return "", failf("move_file", err)
	}
	return ok("moved %s -> %s", src, dst), nil
}

func deleteFile(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("delete_file <path>")
	}
	if err := st.Fs().Remove(args[0]); err != nil {
		return "", failf("delete_file", err)
	}
	return ok("deleted %s", args[0]), nil
}

func renameCmd(st *session.State, args []string) (string, error) {
	if len(args) != 2 {
		return "", usage("rename <src> <dst>")
	}
	src, dst := args[0], args[1]
	fs := st.Fs()
	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", failf("rename", err)
	}
	if err := fs.Rename(src, dst); err != nil {
		return "", failf("rename", err)
	}
	return ok("renamed %s -> %s", src, dst), nil
}

func compareFiles(st *session.State, args []string) (string, error) {
	if len(args) != 2 {
		return "", usage("compare_files <a> <b>")
	}
	fs := st.Fs()
	a, err := afero.ReadFile(fs, args[0])
	if err != nil {
		return "", failf("compare_files", err)
	}
	b, err := afero.ReadFile(fs, args[1])
	if err != nil {
		return "", failf("compare_files", err)
	}
	if string(a) == string(b) {
		return "Files are identical.", nil
	}
	off := firstDifference(a, b)
	result := fmt.Sprintf("Files differ at byte %d", off)
	if isText(a) && isText(b) {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(a)),
			B:        difflib.SplitLines(string(b)),
			FromFile: args[0],
			ToFile:   args[1],
			Context:  3,
		})
		if err == nil && diff != "" {
			result += "\n" + strings.TrimRight(diff, "\n")
		}
	}
	return result, nil
}

func displayFile(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("display_file <path>")
	}
	path := args[0]
	fs := st.Fs()
	if dir, err := afero.IsDir(fs, path); err == nil && dir {
		return "", failf("display_file", fmt.Errorf("%s is a directory", path))
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", failf("display_file", err)
	}
	width := max(1, st.Settings.WrapWidth)
	wrap := pterm.DefaultParagraph.WithMaxWidth(width)
	var out []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			out = append(out, "")
			continue
		}
		out = append(out, wrap.Sprint(line))
	}
	return strings.Join(out, "\n"), nil
}

func displayFileStatus(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("display_file_status <path>")
	}
	path := args[0]
	info, err := st.Fs().Stat(path)
	if err != nil {
		return "", failf("display_file_status", err)
	}
	kind := "file"
	if info.IsDir() {
		kind = "directory"
	} else if !info.Mode().IsRegular() {
		kind = "other"
	}
	return fmt.Sprintf(
		"Name: %s\nPath: %s\nType: %s\nSize: %d bytes\nModified: %s",
		info.Name(), path, kind, info.Size(), info.ModTime().Format(timeLayout),
	), nil
}

func dumpFile(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("dump_file <path>")
	}
	path := args[0]
	fs := st.Fs()
	if dir, err := afero.IsDir(fs, path); err == nil && dir {
		return "", failf("dump_file", fmt.Errorf("%s is a directory", path))
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", failf("dump_file", err)
	}
	var lines []string
	for offset := 0; offset < len(data); offset += 16 {
		chunk := data[offset:min(offset+16, len(data))]
		var hexed []string
		var printable []byte
		for _, c := range chunk {
			hexed = append(hexed, fmt.Sprintf("%02x", c))
			if c >= 32 && c < 127 {
				printable = append(printable, c)
			} else {
				printable = append(printable, '.')
			}
		}
		lines = append(lines, fmt.Sprintf("%08x  %-47s  %s", offset, strings.Join(hexed, " "), printable))
	}
	return strings.Join(lines, "\n"), nil
}

// timeLayout renders modification times the way the status commands do.
const timeLayout = "2006-01-02 15:04:05"

// openAppendFlags create the file when absent without truncating it.
const openAppendFlags = os.O_APPEND | os.O_CREATE | os.O_WRONLY

func firstDifference(a, b []byte) int {
	limit := min(len(a), len(b))
	for i := 0; i < limit; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return limit
}

func isText(data []byte) bool {
	for _, c := range data {
		if c == 0 {
			return false
		}
	}
	return true
}

func copyFile(fs afero.Fs, src, dst string) error {
	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := fs.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if info, err := fs.Stat(src); err == nil {
		_ = fs.Chtimes(dst, time.Now(), info.ModTime())
	}
	return nil
}
