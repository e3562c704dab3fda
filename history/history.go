// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

// Package history keeps the ordered list of past command lines, loaded
// on startup and persisted on clean exit.
package history

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/renameio/v2"
)

// History is an ordered sequence of distinct command strings, most
// recent last. Submitting an existing entry moves it to the end, so
// there are never any duplicates.
type History struct {
	values []string
	path   string
}

// New returns an empty history not bound to a file.
func New() *History { return &History{} }

// StorePath returns the on-disk location of the history file, or ""
// when HOME is unset.
func StorePath() string {
	home := os.Getenv("HOME")
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".lambdash", "history")
}

// Load reads the history file if present. A missing or unreadable file
// yields an empty history.
func Load() *History {
	h := &History{path: StorePath()}
	if h.path == "" {
		return h
	}
	data, err := os.ReadFile(h.path)
	if err != nil {
		return h
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			h.values = append(h.values, line)
		}
	}
	return h
}

// Submit records a command line, removing any prior occurrence first.
func (h *History) Submit(value string) {
	if i := slices.Index(h.values, value); i >= 0 {
		h.values = slices.Delete(h.values, i, i+1)
	}
	h.values = append(h.values, value)
}

// Get returns the entry at index, or "" when out of range.
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.values) {
		return ""
	}
	return h.values[index]
}

func (h *History) Len() int { return len(h.values) }

// Values returns the entries oldest-first. The slice is shared; do not
// mutate it.
func (h *History) Values() []string { return h.values }

// Persist writes the history back to disk atomically, creating the
// .lambdash directory if needed.
func (h *History) Persist() error {
	if h.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}
	data := strings.Join(h.values, "\n")
	return renameio.WriteFile(h.path, []byte(data), 0o644)
}
