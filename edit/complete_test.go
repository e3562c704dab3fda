// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package edit

import (
	"io/fs"
	"testing"

	"github.com/go-quicktest/qt"

	"lambdash.dev/lambdash/expand"
)

type fakeEntry struct {
	name string
	dir  bool
}

func (e fakeEntry) Name() string               { return e.name }
func (e fakeEntry) IsDir() bool                { return e.dir }
func (e fakeEntry) Type() fs.FileMode          { return 0 }
func (e fakeEntry) Info() (fs.FileInfo, error) { return nil, fs.ErrInvalid }

func fakeFS(dirs map[string][]fakeEntry) func(string) ([]fs.DirEntry, error) {
	return func(path string) ([]fs.DirEntry, error) {
		entries, ok := dirs[path]
		if !ok {
			return nil, fs.ErrNotExist
		}
		out := make([]fs.DirEntry, len(entries))
		for i, e := range entries {
			out[i] = e
		}
		return out, nil
	}
}

func testCompleter() *Completer {
	env := expand.ListEnviron("PATH=/bin:/usr/bin")
	return NewCompleter(env, fakeFS(map[string][]fakeEntry{
		"/bin": {
			{name: "grep"}, {name: "gzip"}, {name: "cat"},
			{name: "gdb-dir", dir: true},
		},
		"/usr/bin": {{name: "git"}},
		".":        {{name: "main.go"}, {name: "main_test.go"}, {name: "notes.txt"}},
		"sub":      {{name: "alpha"}, {name: "beta"}},
	}))
}

func TestCommandCompletion(t *testing.T) {
	t.Parallel()
	c := testCompleter()

	// several candidates: a session starts, highlighting the first
	repl, ok := c.Complete("g")
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.Equals(repl, ""))
	s := c.Session()
	qt.Assert(t, qt.IsNotNil(s))
	// directories in PATH entries are not commands
	qt.Assert(t, qt.DeepEquals(s.Items, []string{"git", "grep", "gzip"}))
	qt.Assert(t, qt.Equals(s.Index, 0))
}

func TestCommandCompletionSingle(t *testing.T) {
	t.Parallel()
	c := testCompleter()

	repl, ok := c.Complete("ca")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(repl, "cat"))
	qt.Assert(t, qt.IsNil(c.Session()))
}

func TestCompletionCycling(t *testing.T) {
	t.Parallel()
	c := testCompleter()

	c.Complete("g")
	repl, ok := c.Complete("g")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(repl, "grep"))
	repl, _ = c.Complete("grep")
	qt.Assert(t, qt.Equals(repl, "gzip"))
	// wraps around
	repl, _ = c.Complete("gzip")
	qt.Assert(t, qt.Equals(repl, "git"))

	c.Reset()
	qt.Assert(t, qt.IsNil(c.Session()))
}

func TestPathCompletion(t *testing.T) {
	t.Parallel()
	c := testCompleter()

	// a dot selects path mode against the current directory
	repl, ok := c.Complete("notes.t")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(repl, "notes.txt"))
}

func TestPathCompletionSlash(t *testing.T) {
	t.Parallel()
	c := testCompleter()

	repl, ok := c.Complete("sub/al")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(repl, "alpha"))
}

func TestCdTriggersPathMode(t *testing.T) {
	t.Parallel()
	c := testCompleter()

	repl, ok := c.Complete("cd sub/be")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(repl, "beta"))
}

func TestCompletionNoMatch(t *testing.T) {
	t.Parallel()
	c := testCompleter()

	repl, ok := c.Complete("zzz")
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.Equals(repl, ""))
	qt.Assert(t, qt.IsNil(c.Session()))
}
