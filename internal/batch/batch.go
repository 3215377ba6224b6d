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

// Package batch simulates the OpenVOS batch subsystem. Each queue is a
// subdirectory of the batch root and each request is one JSON job file
// inside it. Nothing ever executes; jobs stay pending until cancelled.
package batch

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"vosim/internal/vospath"
)

// DefaultQueue receives jobs submitted without -queue.
const DefaultQueue = "normal"

// DefaultQueuePriority applies when -queue_priority is absent.
const DefaultQueuePriority = 4

const jobSuffix = ".job"

// Job is the stored form of one batch request.
type Job struct {
	CommandLine     string `json:"command_line"`
	ProcessName     string `json:"process_name"`
	QueueName       string `json:"queue_name"`
	ProcessPriority *int   `json:"process_priority"`
	QueuePriority   int    `json:"queue_priority"`
	Privileged      bool   `json:"privileged"`
	Restart         bool   `json:"restart"`
	Notify          bool   `json:"notify"`
	OutputPath      string `json:"output_path,omitempty"`
	Module          string `json:"module,omitempty"`
	CurrentDir      string `json:"current_dir,omitempty"`
	DeferUntil      string `json:"defer_until,omitempty"`
	ControlFile     string `json:"control_file,omitempty"`
	After           string `json:"after,omitempty"`
	CPULimit        string `json:"cpu_limit,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}

// Queued pairs a stored job with where it was found.
type Queued struct {
	Queue string
	File  string
	Job   Job
	// Unreadable marks a job file that exists but cannot be decoded.
	Unreadable bool
}

// Store reads and writes job files under a batch root.
type Store struct {
	fs   afero.Fs
	root string
}

// NewStore returns a Store over root. The root is created lazily on submit.
func NewStore(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: root}
}

// Submit stores job in its queue and returns the job file path. The file
// name derives from the process name, with a numeric suffix on collision.
func (s *Store) Submit(job Job) (string, error) {
	if job.QueueName == "" {
		job.QueueName = DefaultQueue
	}
	if job.ProcessName == "" {
		job.ProcessName = DeriveProcessName(job.CommandLine)
	}
	if job.Timestamp == 0 {
		job.Timestamp = time.Now().Unix()
	}
	queueDir := filepath.Join(s.root, job.QueueName)
	if err := s.fs.MkdirAll(queueDir, 0o755); err != nil {
		return "", fmt.Errorf("batch queue %s: %w", job.QueueName, err)
	}
	path, err := s.uniqueJobPath(queueDir, job.ProcessName)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return "", fmt.Errorf("batch: encode job: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("batch: store job: %w", err)
	}
	return path, nil
}

// List returns jobs across all queues, or just queueFilter when non-empty,
// sorted by queue then file name.
func (s *Store) List(queueFilter string) ([]Queued, error) {
	queues, err := s.queueNames()
	if err != nil {
		return nil, err
	}
	var out []Queued
	for _, queue := range queues {
		if queueFilter != "" && queue != queueFilter {
			continue
		}
		files, err := s.jobFiles(queue)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			q := Queued{Queue: queue, File: file}
			data, err := afero.ReadFile(s.fs, file)
			if err != nil || json.Unmarshal(data, &q.Job) != nil {
				q.Unreadable = true
				q.Job.ProcessName = jobBaseName(file)
			}
			out = append(out, q)
		}
	}
	return out, nil
}

// Cancel removes every job whose process name matches one of the glob
// patterns (case-insensitive) and reports how many were removed.
func (s *Store) Cancel(patterns []string) (int, error) {
	jobs, err := s.List("")
	if err != nil {
		return 0, err
	}
	cancelled := 0
	for _, q := range jobs {
		if !matchesAny(q.Job.ProcessName, patterns) {
			continue
		}
		if err := s.fs.Remove(q.File); err == nil {
			cancelled++
		}
	}
	return cancelled, nil
}

// Update rewrites queue and/or process priority on every matching job and
// reports how many job files changed.
func (s *Store) Update(patterns []string, queuePriority, processPriority *int) (int, error) {
	jobs, err := s.List("")
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, q := range jobs {
		if q.Unreadable || !matchesAny(q.Job.ProcessName, patterns) {
			continue
		}
		changed := false
		if queuePriority != nil && q.Job.QueuePriority != *queuePriority {
			q.Job.QueuePriority = *queuePriority
			changed = true
		}
		if processPriority != nil && (q.Job.ProcessPriority == nil || *q.Job.ProcessPriority != *processPriority) {
			v := *processPriority
			q.Job.ProcessPriority = &v
			changed = true
		}
		if !changed {
			continue
		}
		data, err := json.MarshalIndent(q.Job, "", "  ")
		if err != nil {
			continue
		}
		if err := afero.WriteFile(s.fs, q.File, data, 0o644); err == nil {
			updated++
		}
	}
	return updated, nil
}

// DeriveProcessName extracts a process name from the first word of a
// command line: last VOS path component, basename, extension stripped,
// invalid characters removed, truncated to 32 runes. Falls back to "batch".
func DeriveProcessName(commandLine string) string {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return "batch"
	}
	word := strings.Trim(fields[0], `'"`)
	if strings.Contains(word, vospath.Separator) {
		parts := strings.Split(word, vospath.Separator)
		word = parts[len(parts)-1]
	}
	word = filepath.Base(word)
	if i := strings.IndexByte(word, '.'); i >= 0 {
		word = word[:i]
	}
	var b strings.Builder
	for _, r := range word {
		if r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		return "batch"
	}
	if len(name) > 32 {
		name = name[:32]
	}
	return name
}

func (s *Store) uniqueJobPath(queueDir, processName string) (string, error) {
	candidate := filepath.Join(queueDir, processName+jobSuffix)
	for counter := 1; ; counter++ {
		exists, err := afero.Exists(s.fs, candidate)
		if err != nil {
			return "", fmt.Errorf("batch: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(queueDir, fmt.Sprintf("%s_%d%s", processName, counter, jobSuffix))
	}
}

func (s *Store) queueNames() ([]string, error) {
	exists, err := afero.DirExists(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("batch root: %w", err)
	}
	if !exists {
		return nil, nil
	}
	infos, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("batch root: %w", err)
	}
	var queues []string
	for _, info := range infos {
		if info.IsDir() {
			queues = append(queues, info.Name())
		}
	}
	sort.Strings(queues)
	return queues, nil
}

func (s *Store) jobFiles(queue string) ([]string, error) {
	dir := filepath.Join(s.root, queue)
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("batch queue %s: %w", queue, err)
	}
	var files []string
	for _, info := range infos {
		if !info.IsDir() && strings.HasSuffix(info.Name(), jobSuffix) {
			files = append(files, filepath.Join(dir, info.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func jobBaseName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), jobSuffix)
}

func matchesAny(processName string, patterns []string) bool {
	name := strings.ToLower(processName)
	for _, pat := range patterns {
		if ok, err := doublestar.Match(strings.ToLower(pat), name); err == nil && ok {
			return true
		}
	}
	return false
}
