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

package batch

import (
	"fmt"
	"strconv"
	"strings"
)

// boolean flags of the batch command grammar
var flagOptions = map[string]bool{
	"-privileged": true,
	"-no_restart": true,
	"-notify":     true,
}

// options that consume the following token
var valueOptions = map[string]bool{
	"-process_name":     true,
	"-output_path":      true,
	"-process_priority": true,
	"-queue_priority":   true,
	"-queue":            true,
	"-module":           true,
	"-current_dir":      true,
	"-defer_until":      true,
	"-control":          true,
	"-after":            true,
	"-cpu_limit":        true,
}

// ParseSubmitArgs interprets the arguments of the batch command: every
// non-option token joins the embedded command line, options follow the
// OpenVOS batch grammar. Unknown options are an error.
func ParseSubmitArgs(args []string) (Job, error) {
	var cmdParts []string
	opts := make(map[string]string)
	for i := 0; i < len(args); {
		token := args[i]
		switch {
		case flagOptions[token]:
			opts[strings.TrimPrefix(token, "-")] = "true"
			i++
		case valueOptions[token]:
			if i+1 >= len(args) {
				return Job{}, fmt.Errorf("missing value for %s", token)
			}
			opts[strings.TrimPrefix(token, "-")] = args[i+1]
			i += 2
		case strings.HasPrefix(token, "-"):
			return Job{}, fmt.Errorf("unknown option %s", token)
		default:
			cmdParts = append(cmdParts, token)
			i++
		}
	}
	if len(cmdParts) == 0 {
		return Job{}, fmt.Errorf("missing command line")
	}

	job := Job{
		CommandLine:   strings.Join(cmdParts, " "),
		ProcessName:   opts["process_name"],
		QueueName:     opts["queue"],
		QueuePriority: DefaultQueuePriority,
		Privileged:    opts["privileged"] == "true",
		Restart:       opts["no_restart"] != "true",
		Notify:        opts["notify"] == "true",
		OutputPath:    opts["output_path"],
		Module:        opts["module"],
		CurrentDir:    opts["current_dir"],
		DeferUntil:    opts["defer_until"],
		ControlFile:   opts["control"],
		After:         opts["after"],
		CPULimit:      opts["cpu_limit"],
	}
	if v, ok := opts["process_priority"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Job{}, fmt.Errorf("invalid process_priority")
		}
		job.ProcessPriority = &n
	}
	if v, ok := opts["queue_priority"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Job{}, fmt.Errorf("invalid queue_priority")
		}
		job.QueuePriority = n
	}
	return job, nil
}

// ParseUpdateArgs interprets the arguments of update_batch_requests:
// leading process name patterns followed by priority options. At least one
// pattern and one priority must be present.
func ParseUpdateArgs(args []string) (patterns []string, queuePriority, processPriority *int, err error) {
	for i := 0; i < len(args); {
		token := args[i]
		if !strings.HasPrefix(token, "-") {
			patterns = append(patterns, token)
			i++
			continue
		}
		switch token {
		case "-queue_priority", "-process_priority":
			if i+1 >= len(args) {
				return nil, nil, nil, fmt.Errorf("missing value for %s", token)
			}
			n, convErr := strconv.Atoi(args[i+1])
			if convErr != nil {
				return nil, nil, nil, fmt.Errorf("invalid %s", strings.TrimPrefix(token, "-"))
			}
			if token == "-queue_priority" {
				queuePriority = &n
			} else {
				processPriority = &n
			}
			i += 2
		default:
			return nil, nil, nil, fmt.Errorf("unknown option %s", token)
		}
	}
	if len(patterns) == 0 || (queuePriority == nil && processPriority == nil) {
		return nil, nil, nil, fmt.Errorf("specify process names and at least one priority option")
	}
	return patterns, queuePriority, processPriority, nil
}
