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
	"slices"
	"strconv"
	"strings"
	"time"

	"vosim/internal/session"
)

func settingsDefs() []def {
	return []def{
		{
			name: "set_language",
			help: "Set the session language code used for localized output. Usage: set_language <language_code>",
			run:  setLanguage,
		},
		{
			name: "set_time_zone",
			help: "Set the session time zone used by display_date_time. Usage: set_time_zone <time_zone>",
			run:  setTimeZone,
		},
		{
			name: "set_line_wrap_width",
			help: "Set the width used for wrapping lines in commands like display_file. Usage: set_line_wrap_width <number>",
			run:  setLineWrapWidth,
		},
		{
			name: "profile",
			help: "Show or change the current profile. With no arguments, displays the current profile; with a name, switches to it (creating it if needed). Usage: profile [name]",
			run:  profileCmd,
		},
		{
			name: "add_profile",
			help: "Create a new profile entry. Usage: add_profile <name>",
			run:  addProfile,
		},
		{
			name: "add_library_path",
			help: "Add a directory to the library search path list. Usage: add_library_path <path>",
			run:  addLibraryPath,
		},
		{
			name: "delete_library_path",
			help: "Remove a directory from the library search path list. Usage: delete_library_path <path>",
			run:  deleteLibraryPath,
		},
		{
			name: "list_library_paths",
			help: "List the currently configured library paths, one per line. Usage: list_library_paths",
			run:  listLibraryPaths,
		},
		{
			name: "display_error",
			help: "Display the most recent error message from this session. Usage: display_error",
			run:  displayError,
		},
		{
			name: "display_notices",
			help: "Display and clear any pending system notices. Usage: display_notices",
			run:  displayNotices,
		},
		{
			name: "set state_dir",
			help: "Set a new base state directory. The filesystem and batch hierarchies are recreated under it and the current directory resets to the root. Usage: set state_dir <directory>",
			run:  setStateDir,
		},
		{
			name: "show state_dir",
			help: "Display the current base state directory. Usage: show state_dir",
			run:  showStateDir,
		},
	}
}

func setLanguage(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("set_language <language_code>")
	}
	st.Settings.Language = args[0]
	return ok("language set to %s", st.Settings.Language), nil
}

func setTimeZone(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("set_time_zone <time_zone>")
	}
	if _, err := time.LoadLocation(args[0]); err != nil {
		return "", failf("set_time_zone", fmt.Errorf("unknown time zone: %s", args[0]))
	}
	st.Settings.TimeZone = args[0]
	return ok("time zone set to %s", st.Settings.TimeZone), nil
}

func setLineWrapWidth(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("set_line_wrap_width <number>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", failf("set_line_wrap_width", fmt.Errorf("invalid number: %s", args[0]))
	}
	if n <= 0 {
		return "", failf("set_line_wrap_width", fmt.Errorf("line wrap width must be positive"))
	}
	st.Settings.WrapWidth = n
	return ok("line wrap width set to %d", n), nil
}

func profileCmd(st *session.State, args []string) (string, error) {
	if len(args) == 0 {
		return "Current profile: " + st.Settings.Profile, nil
	}
	if len(args) != 1 {
		return "", usage("profile [name]")
	}
	name := args[0]
	if !slices.Contains(st.Settings.Profiles, name) {
		st.Settings.Profiles = append(st.Settings.Profiles, name)
	}
	st.Settings.Profile = name
	return ok("profile set to %s", name), nil
}

func addProfile(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("add_profile <name>")
	}
	name := args[0]
	if slices.Contains(st.Settings.Profiles, name) {
		return ok("profile already exists: %s", name), nil
	}
	st.Settings.Profiles = append(st.Settings.Profiles, name)
	return ok("added profile: %s", name), nil
}

func addLibraryPath(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("add_library_path <path>")
	}
	path := args[0]
	if slices.Contains(st.Settings.LibraryPaths, path) {
		return ok("library path already present: %s", path), nil
	}
	st.Settings.LibraryPaths = append(st.Settings.LibraryPaths, path)
	return ok("added library path: %s", path), nil
}

func deleteLibraryPath(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("delete_library_path <path>")
	}
	path := args[0]
	idx := slices.Index(st.Settings.LibraryPaths, path)
	if idx < 0 {
		return "", failf("delete_library_path", fmt.Errorf("library path not found: %s", path))
	}
	st.Settings.LibraryPaths = slices.Delete(st.Settings.LibraryPaths, idx, idx+1)
	return ok("removed library path: %s", path), nil
}

func listLibraryPaths(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("list_library_paths")
	}
	if len(st.Settings.LibraryPaths) == 0 {
		return "(no library paths configured)", nil
	}
	return strings.Join(st.Settings.LibraryPaths, "\n"), nil
}

func displayError(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("display_error")
	}
	if st.LastError() == "" {
		return "No errors recorded.", nil
	}
	return "Last error: " + st.LastError(), nil
}

func displayNotices(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("display_notices")
	}
	notices := st.DrainNotices()
	if len(notices) == 0 {
		return "No pending notices.", nil
	}
	return strings.Join(notices, "\n"), nil
}

func setStateDir(st *session.State, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("set state_dir <directory>")
	}
	if err := st.Reroot(args[0]); err != nil {
		return "", failf("set state_dir", err)
	}
	return ok("state directory set to %s", st.BaseDir()), nil
}

func showStateDir(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("show state_dir")
	}
	return "Current state directory: " + st.BaseDir(), nil
}
