// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

// Package interp executes parsed expression groups: it wires
// redirections, dispatches builtins, and spawns external programs,
// carrying captured output from one pipeline stage to the next.
package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"lambdash.dev/lambdash/expand"
	"lambdash.dev/lambdash/history"
	"lambdash.dev/lambdash/syntax"
)

// A Runner holds the shell state threaded through every execution: the
// last status, aliases, history, background jobs, and the output
// sinks. It lives for the whole process and must only be used from the
// main goroutine. Use [New] to build one.
type Runner struct {
	// Env is the read-only environment view used by builtins such as
	// cd. It can only be set via [Env].
	Env expand.Environ

	// Aliases maps a command name to its textual expansion.
	Aliases map[string]string

	// History is consulted by the history builtin. It may be replaced
	// after construction.
	History *history.History

	// Jobs accumulates background children, in spawn order. They are
	// not reaped; they live until process exit.
	Jobs []*Job

	// Status is the last command's exit status, the value of $?.
	Status int

	stdout io.Writer
	stderr io.Writer

	// execHandler runs a foreground program to completion. It must not
	// be nil.
	execHandler ExecHandlerFunc

	// startHandler spawns a background program without waiting. It
	// must not be nil.
	startHandler StartHandlerFunc

	// openHandler opens redirection targets. It must not be nil.
	openHandler OpenHandlerFunc
}

// New creates a Runner, applying a number of options. Unset options
// fall back to their defaults: the process environment, discarded
// output, and handlers that use the host operating system.
func New(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		Aliases:      make(map[string]string),
		History:      history.New(),
		execHandler:  DefaultExecHandler(),
		startHandler: DefaultStartHandler(),
		openHandler:  DefaultOpenHandler(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.Env == nil {
		Env(nil)(r)
	}
	if r.stdout == nil || r.stderr == nil {
		StdIO(r.stdout, r.stderr)(r)
	}
	return r, nil
}

// RunnerOption can be passed to [New] to alter a [Runner]'s behaviour.
// It can also be applied directly on an existing Runner, such as
// interp.StdIO(out, err)(runner).
type RunnerOption func(*Runner) error

// Env sets the runner's read-side environment. If nil, the process
// environment is used.
func Env(env expand.Environ) RunnerOption {
	return func(r *Runner) error {
		if env == nil {
			env = expand.FuncEnviron(os.LookupEnv)
		}
		r.Env = env
		return nil
	}
}

// StdIO configures the runner's standard output and standard error
// sinks. Nil writers discard their output.
func StdIO(out, err io.Writer) RunnerOption {
	return func(r *Runner) error {
		if out == nil {
			out = io.Discard
		}
		r.stdout = out
		if err == nil {
			err = io.Discard
		}
		r.stderr = err
		return nil
	}
}

// ExecHandler sets the foreground execution handler. See
// [ExecHandlerFunc] for more info.
func ExecHandler(f ExecHandlerFunc) RunnerOption {
	return func(r *Runner) error {
		r.execHandler = f
		return nil
	}
}

// StartHandler sets the background spawn handler. See
// [StartHandlerFunc] for more info.
func StartHandler(f StartHandlerFunc) RunnerOption {
	return func(r *Runner) error {
		r.startHandler = f
		return nil
	}
}

// OpenHandler sets the file open handler used for redirections. See
// [OpenHandlerFunc] for more info.
func OpenHandler(f OpenHandlerFunc) RunnerOption {
	return func(r *Runner) error {
		r.openHandler = f
		return nil
	}
}

// CmdOutput carries a finished execution's status and captured byte
// streams. It doubles as the input of the next pipeline stage.
type CmdOutput struct {
	Status int
	Stdout []byte
	Stderr []byte
}

// ErrExitRequest is raised by the exit builtin; the main loop persists
// history and terminates when it sees it.
var ErrExitRequest = errors.New("exit requested")

// ExecError describes a failure to execute a command: a missing
// program, a failed spawn, a broken stdin, or invalid builtin
// arguments. It carries the status code the shell should adopt.
type ExecError struct {
	Code int
	Msg  string
}

func (e *ExecError) Error() string { return e.Msg }

// Status returns the shell status code for the error.
func (e *ExecError) Status() int { return e.Code }

func execErrf(code int, format string, args ...any) *ExecError {
	return &ExecError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Run executes groups in submission order, honoring conditional
// short-circuits between them. The returned error, if any, aborts the
// current line: [ErrExitRequest], an [*ExecError], or a context error.
func (r *Runner) Run(ctx context.Context, groups []*syntax.ExpressionGroup) error {
	for _, group := range groups {
		switch group.Kind {
		case syntax.And:
			if r.Status != 0 {
				continue
			}
		case syntax.Or:
			if r.Status == 0 {
				continue
			}
		}
		if err := r.runGroup(ctx, group); err != nil {
			return err
		}
	}
	return nil
}
