// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"lambdash.dev/lambdash/config"
	"lambdash.dev/lambdash/interp"
	"lambdash.dev/lambdash/syntax"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires unix userland")
	}
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	s, err := New(config.Default(), nil, &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	return s, &stdout, &stderr
}

func keepWorkingDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func eval(t *testing.T, s *Shell, src string) {
	t.Helper()
	if err := s.Eval(context.Background(), src); err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
}

func TestEvalEcho(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	eval(t, s, "echo hello")
	if stdout.String() != "hello\n" || s.Runner.Status != 0 {
		t.Fatalf("stdout = %q, status = %d", stdout.String(), s.Runner.Status)
	}
}

func TestEvalPipeline(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	eval(t, s, "echo hi | tr h H")
	if stdout.String() != "Hi\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestEvalRedirectionAndCat(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	target := filepath.Join(t.TempDir(), "x")

	eval(t, s, "echo one > "+target+" ; cat "+target)
	if data, err := os.ReadFile(target); err != nil || string(data) != "one\n" {
		t.Fatalf("file = %q, %v", data, err)
	}
	if stdout.String() != "one\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestEvalConditionals(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	eval(t, s, "false && echo skipped ; echo ran")
	if stdout.String() != "ran\n" || s.Runner.Status != 0 {
		t.Fatalf("stdout = %q, status = %d", stdout.String(), s.Runner.Status)
	}
}

func TestEvalCdPwd(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	keepWorkingDir(t)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	eval(t, s, "cd "+dir+" ; pwd")
	if stdout.String() != dir+"\n" {
		t.Fatalf("stdout = %q, want %q", stdout.String(), dir+"\n")
	}
	if os.Getenv("PWD") != dir {
		t.Fatalf("PWD = %q", os.Getenv("PWD"))
	}
}

func TestEvalExportExpansion(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	t.Setenv("FOO", "initial")

	eval(t, s, "export FOO=bar ; echo $FOO")
	if stdout.String() != "bar\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestEvalStatusVariable(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	eval(t, s, "sh -c \"exit 7\" ; echo $?")
	if s.Runner.Status != 0 {
		t.Fatalf("status = %d", s.Runner.Status)
	}
	if stdout.String() != "7\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestEvalGlob(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	keepWorkingDir(t)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.go"), nil, 0o644)
	os.WriteFile(filepath.Join(dir, "b.go"), nil, 0o644)
	os.WriteFile(filepath.Join(dir, "c.txt"), nil, 0o644)

	// the glob expands after the chdir has taken effect
	eval(t, s, "cd "+dir+" ; echo *.go")
	if stdout.String() != "a.go b.go\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestEvalAlias(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	eval(t, s, "alias greet=echo ; greet hi")
	if stdout.String() != "hi\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestEvalContinuation(t *testing.T) {
	s, stdout, _ := newTestShell(t)

	err := s.Eval(context.Background(), "echo \"unterminated")
	var ue syntax.UnmatchedError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v", err)
	}
	// the read loop gathers one more line and retries
	eval(t, s, "echo \"unterminated\n\"")
	if stdout.String() != "unterminated\n\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestEvalExit(t *testing.T) {
	s, _, _ := newTestShell(t)
	err := s.Eval(context.Background(), "exit")
	if !errors.Is(err, interp.ErrExitRequest) {
		t.Fatalf("err = %v", err)
	}
}

func TestEvalCommandNotFound(t *testing.T) {
	s, _, _ := newTestShell(t)
	err := s.Eval(context.Background(), "definitely-not-a-command-42")
	var ee *interp.ExecError
	if !errors.As(err, &ee) || ee.Status() != 127 {
		t.Fatalf("err = %v", err)
	}
	s.ReportError(err)
	if s.Runner.Status != 127 {
		t.Fatalf("status = %d", s.Runner.Status)
	}
}

func TestEvalEmptyLine(t *testing.T) {
	s, stdout, _ := newTestShell(t)
	eval(t, s, "")
	eval(t, s, "   # just a comment")
	if stdout.Len() != 0 {
		t.Fatalf("stdout = %q", stdout.String())
	}
}
