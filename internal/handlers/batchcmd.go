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
	"strconv"
	"strings"
	"text/tabwriter"

	"vosim/internal/batch"
	"vosim/internal/session"
)

func batchDefs() []def {
	return []def{
		{
			name: "batch",
			help: "Submit a command line as a batch request. Options follow the OpenVOS batch syntax, e.g. -queue, -process_name, -queue_priority, -privileged. Usage: batch <command_line> [options]",
			run:  submitBatch,
		},
		{
			name: "display_batch_status",
			help: "Display queued batch requests grouped by queue, with priorities and status. Usage: display_batch_status [queue_name]",
			run:  displayBatchStatus,
		},
		{
			name: "list_batch_requests",
			help: "List batch requests across all queues, or just the named queue. Usage: list_batch_requests [queue_name]",
			run:  listBatchRequests,
		},
		{
			name: "cancel_batch_requests",
			help: "Cancel batch requests whose process names match the given patterns (case-insensitive globs). Usage: cancel_batch_requests <process_name(s)>",
			run:  cancelBatchRequests,
		},
		{
			name: "update_batch_requests",
			help: "Change the queue or process priority of queued batch requests. Usage: update_batch_requests <process_name(s)> [-queue_priority <n>] [-process_priority <n>]",
			run:  updateBatchRequests,
		},
	}
}

func batchStore(st *session.State) *batch.Store {
	return batch.NewStore(st.Fs(), st.BatchRoot())
}

func submitBatch(st *session.State, args []string) (string, error) {
	if len(args) == 0 {
		return "", usage("batch <command_line> [options]")
	}
	job, err := batch.ParseSubmitArgs(args)
	if err != nil {
		return "", failf("batch", err)
	}
	if _, err := batchStore(st).Submit(job); err != nil {
		return "", failf("batch", err)
	}
	name := job.ProcessName
	if name == "" {
		name = batch.DeriveProcessName(job.CommandLine)
	}
	queue := job.QueueName
	if queue == "" {
		queue = batch.DefaultQueue
	}
	return ok("queued batch request %s in queue '%s'", name, queue), nil
}

func displayBatchStatus(st *session.State, args []string) (string, error) {
	if len(args) > 1 {
		return "", usage("display_batch_status [queue_name]")
	}
	var filter string
	if len(args) == 1 {
		filter = args[0]
	}
	jobs, err := batchStore(st).List(filter)
	if err != nil {
		return "", failf("display_batch_status", err)
	}
	if len(jobs) == 0 {
		return "(no batch requests)", nil
	}
	rows := [][]string{{"Queue", "Process", "QueuePri", "ProcPri", "Status"}}
	for _, q := range jobs {
		if q.Unreadable {
			rows = append(rows, []string{q.Queue, q.Job.ProcessName, "", "", "unreadable"})
			continue
		}
		ppri := ""
		if q.Job.ProcessPriority != nil {
			ppri = strconv.Itoa(*q.Job.ProcessPriority)
		}
		rows = append(rows, []string{
			q.Queue, q.Job.ProcessName,
			strconv.Itoa(q.Job.QueuePriority), ppri, "pending",
		})
	}
	return renderTable(rows), nil
}

func listBatchRequests(st *session.State, args []string) (string, error) {
	if len(args) > 1 {
		return "", usage("list_batch_requests [queue_name]")
	}
	var filter string
	if len(args) == 1 {
		filter = args[0]
	}
	jobs, err := batchStore(st).List(filter)
	if err != nil {
		return "", failf("list_batch_requests", err)
	}
	if len(jobs) == 0 {
		return "(no batch requests)", nil
	}
	rows := [][]string{{"Queue", "Process", "QueuePri"}}
	for _, q := range jobs {
		if q.Unreadable {
			rows = append(rows, []string{q.Queue, q.Job.ProcessName, ""})
			continue
		}
		rows = append(rows, []string{q.Queue, q.Job.ProcessName, strconv.Itoa(q.Job.QueuePriority)})
	}
	return renderTable(rows), nil
}

func cancelBatchRequests(st *session.State, args []string) (string, error) {
	if len(args) == 0 {
		return "", usage("cancel_batch_requests <process_name(s)>")
	}
	n, err := batchStore(st).Cancel(args)
	if err != nil {
		return "", failf("cancel_batch_requests", err)
	}
	return ok("cancelled %d batch request(s)", n), nil
}

func updateBatchRequests(st *session.State, args []string) (string, error) {
	if len(args) == 0 {
		return "", usage("update_batch_requests <process_name(s)> [options]")
	}
	patterns, qpri, ppri, err := batch.ParseUpdateArgs(args)
	if err != nil {
		return "", failf("update_batch_requests", err)
	}
	n, err := batchStore(st).Update(patterns, qpri, ppri)
	if err != nil {
		return "", failf("update_batch_requests", err)
	}
	return ok("updated %d batch request(s)", n), nil
}

// renderTable aligns rows (first row is the header) into columns.
func renderTable(rows [][]string) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for i, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
		if i == 0 {
			var seps []string
			for _, col := range row {
				seps = append(seps, strings.Repeat("-", len(col)))
			}
			fmt.Fprintln(w, strings.Join(seps, "\t"))
		}
	}
	w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}
