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

// Package pack loads the optional startup files that extend the command
// registry: the canonical command name list (plain text, one name per line)
// and the static-response pack (a YAML map of command name to output text).
// A missing file disables the feature silently; a malformed file is an
// error the caller reports once and survives.
package pack

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// StaticEntry is one name -> text pair from the static-response pack, in
// file order.
type StaticEntry struct {
	Name string
	Text string
}

// LoadNames reads the canonical command list. Blank lines and '#' comments
// are skipped. A missing file yields (nil, nil).
func LoadNames(fs afero.Fs, path string) ([]string, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("command list %s: %w", path, err)
	}
	if !ok {
		return nil, nil
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("command list %s: %w", path, err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("command list %s: %w", path, err)
	}
	return names, nil
}

// LoadStatic reads the static-response pack. The file must contain a YAML
// mapping; keys and values are coerced to strings. Entries are returned in
// file order so later registrations keep the pack author's sequence. A
// missing file yields (nil, nil).
func LoadStatic(fs afero.Fs, path string) ([]StaticEntry, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("command pack %s: %w", path, err)
	}
	if !ok {
		return nil, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("command pack %s: %w", path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("command pack %s: %w", path, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("command pack %s: expected a mapping of name to text", path)
	}

	entries := make([]StaticEntry, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i]
		val := doc.Content[i+1]
		name := strings.TrimSpace(key.Value)
		if name == "" {
			continue
		}
		entries = append(entries, StaticEntry{Name: name, Text: scalarText(val)})
	}
	return entries, nil
}

func scalarText(n *yaml.Node) string {
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	// Non-scalar values are unusual in a pack; re-encode them verbatim so
	// the entry still produces something displayable.
	out, err := yaml.Marshal(n)
	if err != nil {
		return n.Value
	}
	return strings.TrimRight(string(out), "\n")
}
