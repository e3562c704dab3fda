// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

// lambdash is an interactive command-line shell: it reads command
// expressions from the terminal, evaluates them against the host
// operating system, and reports results back to the same terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"lambdash.dev/lambdash/config"
	"lambdash.dev/lambdash/edit"
	"lambdash.dev/lambdash/interp"
	"lambdash.dev/lambdash/shell"
)

var command = flag.String("c", "", "command to be executed")

func main() {
	flag.Parse()
	status, err := runAll()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if status == 0 {
			status = 1
		}
	}
	os.Exit(status)
}

func runAll() (int, error) {
	cfg := config.Load()

	if *command != "" {
		s, err := shell.New(cfg, nil, os.Stdout, os.Stderr)
		if err != nil {
			return 1, err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		if status := evalLine(ctx, s, *command); status >= 0 {
			return status, nil
		}
		return s.Runner.Status, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		t := edit.NewOSTerminal(os.Stdin, os.Stdout)
		s, err := shell.New(cfg, t, os.Stdout, os.Stderr)
		if err != nil {
			return 1, err
		}
		if err := s.Run(context.Background()); err != nil {
			return 1, err
		}
		return 0, nil
	}

	// stdin is a pipe or a file: evaluate it line by line
	s, err := shell.New(cfg, nil, os.Stdout, os.Stderr)
	if err != nil {
		return 1, err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if status := evalLine(ctx, s, scanner.Text()); status < 0 {
			return s.Runner.Status, nil
		}
	}
	return s.Runner.Status, scanner.Err()
}

// evalLine evaluates one expression, reporting errors the way the
// interactive loop does. A negative return means an exit request.
func evalLine(ctx context.Context, s *shell.Shell, line string) int {
	err := s.Eval(ctx, line)
	switch {
	case err == nil:
		return s.Runner.Status
	case errors.Is(err, interp.ErrExitRequest):
		return -1
	default:
		s.ReportError(err)
		return s.Runner.Status
	}
}
