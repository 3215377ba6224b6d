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
	"strings"

	"github.com/spf13/afero"

	"vosim/internal/session"
)

func dirDefs() []def {
	return []def{
		{
			name: "list", fileCmd: true,
			help: "List files in a directory. Directories get a trailing slash. Usage: list [path]",
			run:  listDir,
		},
		{
			name: "create_dir", fileCmd: true,
			help: "Create a directory recursively within the state directory. Usage: create_dir <path>",
			run:  createDir,
		},
		{
			name: "copy_dir", fileCmd: true,
			help: "Copy a directory recursively from source to destination within the state directory. Usage: copy_dir <src> <dst>",
			run:  copyDirCmd,
		},
		{
			name: "clone_dir", fileCmd: true,
			help: "Clone (copy) a directory recursively. Alias of copy_dir. Usage: clone_dir <src> <dst>",
			run:  copyDirCmd,
		},
		{
			name: "move_dir", fileCmd: true,
			help: "Move or rename a directory within the state directory. Usage: move_dir <src> <dst>",
			run:  moveDir,
		},
		{
			name: "delete_dir", fileCmd: true,
			help: "Delete a directory and its contents within the state directory. Usage: delete_dir <path>",
			run:  deleteDir,
		},
		{
			name: "compare_dirs", fileCmd: true,
			help: "Compare two directories recursively. Usage: compare_dirs <dir1> <dir2>",
			run:  compareDirs,
		},
		{
			name: "display_dir_status", fileCmd: true,
			help: "Show a summary of a directory's contents (counts and total size). Usage: display_dir_status [path]",
			run:  displayDirStatus,
		},
		{
			name: "change_current_dir", dirCmd: true,
			help: "Change the current working directory relative to the state directory. The path may be VOS-style (e.g. >Sales>Jones) or relative. Usage: change_current_dir <path>",
			run:  changeCurrentDir,
		},
		{
			name: "display_current_dir",
			help: "Display the current working directory in VOS format (e.g. >Sales>Jones). Usage: display_current_dir",
			run:  displayCurrentDir,
		},
	}
}

func listDir(st *session.State, args []string) (string, error) {
	if len(args) > 1 {
		return "", usage("list [path]")
	}
	path := st.CurrentDirPath()
	if len(args) == 1 {
		path = args[0]
	}
	fs := st.Fs()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return "", failf("list", err)
	}
	if !exists {
		return "", failf("list", fmt.Errorf("path not found: %s", path))
	}
	isDir, err := afero.IsDir(fs, path)
	if err != nil {
		return "", failf("list", err)
	}
	if !isDir {
		return filepath.Base(path), nil
	}
	infos, err := afero.ReadDir(fs, path)
	if err != nil {
		return "", failf("list", err)
	}
	var names []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "(empty)", nil
	}
	return strings.Join(names, "\n"), nil
}

func createDir(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("create_dir <path>")
	}
	if err := st.Fs().MkdirAll(args[0], 0o755); err != nil {
		return "", failf("create_dir", err)
	}
	return ok("created directory: %s", args[0]), nil
}

func copyDirCmd(st *session.State, args []string) (string, error) {
	if len(args) != 2 {
		return "", usage("copy_dir <src> <dst>")
	}
	src, dst := args[0], args[1]
	if err := copyDir(st.Fs(), src, dst); err != nil {
		return "", failf("copy_dir", err)
	}
	return ok("copied directory %s -> %s", src, dst), nil
}

func moveDir(st *session.State, args []string) (string, error) {
	if len(args) != 2 {
		return "", usage("move_dir <src> <dst>")
	}
	src, dst := args[0], args[1]
	fs := st.Fs()
	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", failf("move_dir", err)
	}
	if err := fs.Rename(src, dst); err != nil {
		return "", failf("move_dir", err)
	}
	return ok("moved directory %s -> %s", src, dst), nil
}

func deleteDir(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("delete_dir <path>")
	}
	fs := st.Fs()
	isDir, err := afero.IsDir(fs, args[0])
	if err != nil {
		return "", failf("delete_dir", err)
	}
	if !isDir {
		return "", failf("delete_dir", fmt.Errorf("%s is not a directory", args[0]))
	}
	if err := fs.RemoveAll(args[0]); err != nil {
		return "", failf("delete_dir", err)
	}
	return ok("deleted directory: %s", args[0]), nil
}

func compareDirs(st *session.State, args []string) (string, error) {
	if len(args) != 2 {
		return "", usage("compare_dirs <dir1> <dir2>")
	}
	fs := st.Fs()
	for _, d := range args {
		if isDir, err := afero.IsDir(fs, d); err != nil || !isDir {
			return "", failf("compare_dirs", fmt.Errorf("both arguments must be directories"))
		}
	}
	first, err := dirSizes(fs, args[0])
	if err != nil {
		return "", failf("compare_dirs", err)
	}
	second, err := dirSizes(fs, args[1])
	if err != nil {
		return "", failf("compare_dirs", err)
	}

	var diffs []string
	var onlyFirst, onlySecond, mismatched []string
	for rel := range first {
		if _, ok := second[rel]; !ok {
			onlyFirst = append(onlyFirst, rel)
		} else if first[rel] != second[rel] {
			mismatched = append(mismatched, rel)
		}
	}
	for rel := range second {
		if _, ok := first[rel]; !ok {
			onlySecond = append(onlySecond, rel)
		}
	}
	sort.Strings(onlyFirst)
	sort.Strings(onlySecond)
	sort.Strings(mismatched)
	if len(onlyFirst)+len(onlySecond)+len(mismatched) == 0 {
		return "Directories are identical.", nil
	}
	if len(onlyFirst) > 0 {
		diffs = append(diffs, "Only in first: "+strings.Join(onlyFirst, ", "))
	}
	if len(onlySecond) > 0 {
		diffs = append(diffs, "Only in second: "+strings.Join(onlySecond, ", "))
	}
	for _, rel := range mismatched {
		diffs = append(diffs, fmt.Sprintf("File size mismatch: %s (first: %d, second: %d)", rel, first[rel], second[rel]))
	}
	return strings.Join(diffs, "\n"), nil
}

func displayDirStatus(st *session.State, args []string) (string, error) {
	if len(args) > 1 {
		return "", usage("display_dir_status [path]")
	}
	path := st.FilesystemDir()
	if len(args) == 1 {
		path = args[0]
	}
	fs := st.Fs()
	isDir, err := afero.IsDir(fs, path)
	if err != nil || !isDir {
		return "", failf("display_dir_status", fmt.Errorf("%s is not a directory", path))
	}
	var files, dirs int
	var size int64
	err = afero.Walk(fs, path, func(p string, info os.FileInfo, err error) error {
		if err != nil || p == path {
			return nil
		}
		if info.IsDir() {
			dirs++
		} else {
			files++
			size += info.Size()
		}
		return nil
	})
	if err != nil {
		return "", failf("display_dir_status", err)
	}
	return fmt.Sprintf(
		"Directory: %s\nSubdirectories: %d\nFiles: %d\nTotal size: %d bytes",
		path, dirs, files, size,
	), nil
}

func changeCurrentDir(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("change_current_dir <path>")
	}
	if err := st.ChangeDir(args[0]); err != nil {
		return "", failf("change_current_dir", err)
	}
	return ok("current directory set to %s", st.CurrentDirVOS()), nil
}

func displayCurrentDir(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("display_current_dir")
	}
	return "Current directory: " + st.CurrentDirVOS(), nil
}

func dirSizes(fs afero.Fs, root string) (map[string]int64, error) {
	out := make(map[string]int64)
	err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			rel, relErr := filepath.Rel(root, p)
			if relErr == nil {
				out[rel] = info.Size()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func copyDir(fs afero.Fs, src, dst string) error {
	isDir, err := afero.IsDir(fs, src)
	if err != nil {
		return err
	}
	if !isDir {
		return fmt.Errorf("%s is not a directory", src)
	}
	return afero.Walk(fs, src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, 0o755)
		}
		return copyFile(fs, p, target)
	})
}
