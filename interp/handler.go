// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package interp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// ExecHandlerFunc runs a foreground program to completion: argv is
// args, input (if non-nil) is written fully to the child's stdin, and
// stdout/stderr are captured into the returned [CmdOutput].
//
// A nil error with a non-zero CmdOutput.Status is a command that ran
// and failed; a returned [*ExecError] is a command that could not run
// at all and aborts the current line.
type ExecHandlerFunc func(ctx context.Context, args []string, input []byte) (CmdOutput, error)

// StartHandlerFunc spawns a background program without waiting for it.
type StartHandlerFunc func(ctx context.Context, args []string) (*Job, error)

// OpenHandlerFunc opens redirection targets. It is called for every
// redirection target the runner opens; the history and config files,
// and files opened by executed programs, are not included.
type OpenHandlerFunc func(path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error)

// Job is a handle to a spawned background child.
type Job struct {
	Args    []string
	Process *os.Process
}

// DefaultExecHandler returns the [ExecHandlerFunc] used by default. It
// finds binaries in $PATH, feeds the input bytes to the child's stdin,
// and waits, decoding signal deaths into 128+signal statuses.
func DefaultExecHandler() ExecHandlerFunc {
	return func(ctx context.Context, args []string, input []byte) (CmdOutput, error) {
		path, err := exec.LookPath(args[0])
		if err != nil {
			return CmdOutput{}, execErrf(127, "%s: command not found", args[0])
		}
		cmd := exec.CommandContext(ctx, path)
		cmd.Args = args
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		var stdin io.WriteCloser
		if input != nil {
			if stdin, err = cmd.StdinPipe(); err != nil {
				return CmdOutput{}, execErrf(128, "%s: %v", args[0], err)
			}
		}
		if err := cmd.Start(); err != nil {
			return CmdOutput{}, execErrf(128, "%s: failed to spawn: %v", args[0], err)
		}
		var g errgroup.Group
		if stdin != nil {
			g.Go(func() error {
				defer stdin.Close()
				if _, err := stdin.Write(input); err != nil {
					return execErrf(129, "%s: failed to write stdin: %v", args[0], err)
				}
				return nil
			})
		}
		waitErr := cmd.Wait()
		if err := g.Wait(); err != nil {
			return CmdOutput{}, err
		}
		status := 0
		if waitErr != nil {
			var ee *exec.ExitError
			if !errors.As(waitErr, &ee) {
				return CmdOutput{}, execErrf(128, "%s: failed to wait: %v", args[0], waitErr)
			}
			if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				status = 128 + int(ws.Signal())
			} else {
				status = ee.ExitCode()
			}
		}
		return CmdOutput{Status: status, Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
	}
}

// DefaultStartHandler returns the [StartHandlerFunc] used by default.
// The child's standard streams point at the null device, so a
// background job never scribbles over the prompt.
func DefaultStartHandler() StartHandlerFunc {
	return func(ctx context.Context, args []string) (*Job, error) {
		path, err := exec.LookPath(args[0])
		if err != nil {
			return nil, execErrf(127, "%s: command not found", args[0])
		}
		cmd := exec.Command(path)
		cmd.Args = args
		if err := cmd.Start(); err != nil {
			return nil, execErrf(128, "%s: failed to spawn: %v", args[0], err)
		}
		return &Job{Args: args, Process: cmd.Process}, nil
	}
}

// DefaultOpenHandler returns the [OpenHandlerFunc] used by default,
// which uses [os.OpenFile].
func DefaultOpenHandler() OpenHandlerFunc {
	return func(path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
		return os.OpenFile(path, flag, perm)
	}
}
