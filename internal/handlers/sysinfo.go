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
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"vosim/internal/session"
)

func sysinfoDefs() []def {
	return []def{
		{
			name: "display_date_time",
			help: "Display the current date and time in the session time zone. Usage: display_date_time",
			run:  displayDateTime,
		},
		{
			name: "display_line",
			help: "Echo the given text back to the terminal. Usage: display_line <text...>",
			run:  displayLine,
		},
		{
			name: "display_current_module",
			help: "Display the simulated module (host) this session is running on. Usage: display_current_module",
			run:  displayCurrentModule,
		},
		{
			name: "display_device_info",
			help: "Display information about the simulated devices attached to this module. Usage: display_device_info",
			run:  displayDeviceInfo,
		},
		{
			name: "display_disk_info",
			help: "Display the disks known to this module. Usage: display_disk_info",
			run:  displayDiskInfo,
		},
		{
			name: "display_disk_usage",
			help: "Display capacity and free space for the disk holding the state directory. Usage: display_disk_usage",
			run:  displayDiskUsage,
		},
		{
			name: "display_system_usage",
			help: "Display load and memory figures for the host system. Usage: display_system_usage",
			run:  displaySystemUsage,
		},
		{
			name: "display_terminal_parameters",
			help: "Display the terminal's dimensions and type. Usage: display_terminal_parameters",
			run:  displayTerminalParameters,
		},
		{
			name: "list_users",
			help: "List the user accounts known to this module. Usage: list_users",
			run:  listUsers,
		},
	}
}

func displayDateTime(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("display_date_time")
	}
	loc, err := time.LoadLocation(st.Settings.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	return now.Format("Monday, January 2, 2006 15:04:05 MST"), nil
}

func displayLine(st *session.State, args []string) (string, error) {
	return strings.Join(args, " "), nil
}

func displayCurrentModule(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("display_current_module")
	}
	host, err := os.Hostname()
	if err != nil {
		host = "module1"
	}
	return fmt.Sprintf("Current module is %%%s#m1.", host), nil
}

func displayDeviceInfo(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("display_device_info")
	}
	host, err := os.Hostname()
	if err != nil {
		host = "module1"
	}
	lines := []string{
		fmt.Sprintf("Devices on module %%%s#m1:", host),
		"  %m1#d01   disk      online",
		"  %m1#t01   terminal  online",
		"  %m1#p01   printer   offline",
	}
	return strings.Join(lines, "\n"), nil
}

func displayDiskInfo(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("display_disk_info")
	}
	du, err := diskUsage(st.BaseDir())
	if err != nil {
		return "", failf("display_disk_info", err)
	}
	lines := []string{
		"Disk %m1#d01:",
		fmt.Sprintf("  Capacity: %s", humanize.IBytes(du.Total)),
		fmt.Sprintf("  In use:   %s", humanize.IBytes(du.Total-du.Free)),
		fmt.Sprintf("  Free:     %s", humanize.IBytes(du.Free)),
	}
	return strings.Join(lines, "\n"), nil
}

func displayDiskUsage(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("display_disk_usage")
	}
	du, err := diskUsage(st.BaseDir())
	if err != nil {
		return "", failf("display_disk_usage", err)
	}
	used := du.Total - du.Free
	var pct float64
	if du.Total > 0 {
		pct = float64(used) / float64(du.Total) * 100
	}
	stateSize, err := stateDirSize(st)
	if err != nil {
		return "", failf("display_disk_usage", err)
	}
	lines := []string{
		fmt.Sprintf("Disk usage for %s:", st.BaseDir()),
		fmt.Sprintf("  Total:      %s", humanize.IBytes(du.Total)),
		fmt.Sprintf("  Used:       %s (%.1f%%)", humanize.IBytes(used), pct),
		fmt.Sprintf("  Available:  %s", humanize.IBytes(du.Free)),
		fmt.Sprintf("  State dir:  %s", humanize.IBytes(uint64(stateSize))),
	}
	return strings.Join(lines, "\n"), nil
}

func stateDirSize(st *session.State) (int64, error) {
	var size int64
	err := afero.Walk(st.Fs(), st.BaseDir(), func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

func displaySystemUsage(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("display_system_usage")
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	lines := []string{
		fmt.Sprintf("CPUs:            %d", runtime.NumCPU()),
		fmt.Sprintf("Goroutines:      %d", runtime.NumGoroutine()),
		fmt.Sprintf("Heap in use:     %s", humanize.IBytes(m.HeapInuse)),
		fmt.Sprintf("System memory:   %s", humanize.IBytes(m.Sys)),
	}
	if load, err := os.ReadFile("/proc/loadavg"); err == nil {
		fields := strings.Fields(string(load))
		if len(fields) >= 3 {
			lines = append(lines, fmt.Sprintf("Load average:    %s %s %s", fields[0], fields[1], fields[2]))
		}
	}
	if up, err := os.ReadFile("/proc/uptime"); err == nil {
		fields := strings.Fields(string(up))
		if len(fields) >= 1 {
			var secs float64
			if _, scanErr := fmt.Sscanf(fields[0], "%f", &secs); scanErr == nil {
				lines = append(lines, fmt.Sprintf("Uptime:          %s", (time.Duration(secs)*time.Second).String()))
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func displayTerminalParameters(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("display_terminal_parameters")
	}
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	termType := os.Getenv("TERM")
	if termType == "" {
		termType = "unknown"
	}
	lines := []string{
		fmt.Sprintf("Terminal type:  %s", termType),
		fmt.Sprintf("Columns:        %d", width),
		fmt.Sprintf("Rows:           %d", height),
		fmt.Sprintf("Wrap width:     %d", st.Settings.WrapWidth),
	}
	return strings.Join(lines, "\n"), nil
}

func listUsers(st *session.State, args []string) (string, error) {
	if len(args) != 0 {
		return "", usage("list_users")
	}
	data, err := os.ReadFile("/etc/passwd")
	if err != nil {
		return "Users logged in on module %m1:\n  operator", nil
	}
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) >= 7 && strings.HasSuffix(fields[6], "sh") {
			names = append(names, fields[0])
		}
	}
	if len(names) == 0 {
		names = []string{"operator"}
	}
	out := []string{"Users logged in on module %m1:"}
	for _, n := range names {
		out = append(out, "  "+n)
	}
	return strings.Join(out, "\n"), nil
}
