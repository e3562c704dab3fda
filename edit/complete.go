// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package edit

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lambdash.dev/lambdash/expand"
)

// Completer produces candidates for the Tab key and keeps the cycling
// session alive across repeated presses.
type Completer struct {
	env     expand.Environ
	readDir func(string) ([]fs.DirEntry, error)

	session *Session
}

// Session is an active completion: the candidate list and the
// highlighted index.
type Session struct {
	Items []string
	Index int
}

// NewCompleter builds a Completer. A nil readDir falls back to
// [os.ReadDir]; a nil env falls back to the process environment.
func NewCompleter(env expand.Environ, readDir func(string) ([]fs.DirEntry, error)) *Completer {
	if env == nil {
		env = expand.FuncEnviron(os.LookupEnv)
	}
	if readDir == nil {
		readDir = os.ReadDir
	}
	return &Completer{env: env, readDir: readDir}
}

// Reset drops the active session. Any key other than Tab does this.
func (c *Completer) Reset() { c.session = nil }

// Session returns the active cycling session, or nil.
func (c *Completer) Session() *Session { return c.session }

// Complete handles one Tab press. With no active session it collects
// candidates: a single one replaces the input immediately; several
// start a session with the first candidate highlighted. With an
// active session, the highlight advances (wrapping) and the now
// highlighted candidate replaces the input.
func (c *Completer) Complete(input string) (string, bool) {
	if s := c.session; s != nil {
		s.Index = (s.Index + 1) % len(s.Items)
		return s.Items[s.Index], true
	}
	var items []string
	if strings.HasPrefix(input, "cd ") || strings.ContainsAny(input, "/.") {
		items = c.pathCandidates(input)
	} else {
		items = c.commandCandidates(input)
	}
	switch len(items) {
	case 0:
		return "", false
	case 1:
		return items[0], true
	}
	c.session = &Session{Items: items, Index: 0}
	return "", false
}

// commandCandidates scans each PATH entry's immediate files for names
// starting with the input prefix.
func (c *Completer) commandCandidates(prefix string) []string {
	var items []string
	path, _ := c.env.Get("PATH")
	for _, dir := range filepath.SplitList(path) {
		entries, err := c.readDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if name := entry.Name(); strings.HasPrefix(name, prefix) {
				items = append(items, name)
			}
		}
	}
	sort.Strings(items)
	return items
}

// pathCandidates completes the last word of the input as a filesystem
// path: the text after the final / is the prefix, what precedes it is
// the directory, "." when absent.
func (c *Completer) pathCandidates(input string) []string {
	word := input
	if i := strings.LastIndexByte(input, ' '); i >= 0 {
		word = input[i+1:]
	}
	dir, prefix := ".", word
	if i := strings.LastIndexByte(word, '/'); i >= 0 {
		dir, prefix = word[:i], word[i+1:]
		if dir == "" {
			dir = "/"
		}
	}
	entries, err := c.readDir(dir)
	if err != nil {
		return nil
	}
	var items []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasPrefix(name, prefix) {
			items = append(items, name)
		}
	}
	sort.Strings(items)
	return items
}
