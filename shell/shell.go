// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

// Package shell ties the pieces together into an interactive shell:
// it renders the prompt, runs the read loop, and evaluates submitted
// lines through tokenize → expand → parse → run.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"lambdash.dev/lambdash/config"
	"lambdash.dev/lambdash/edit"
	"lambdash.dev/lambdash/expand"
	"lambdash.dev/lambdash/history"
	"lambdash.dev/lambdash/interp"
	"lambdash.dev/lambdash/syntax"
)

// Shell owns the state that lives for the whole session.
type Shell struct {
	Config  *config.Config
	Runner  *interp.Runner
	History *history.History

	term     edit.Terminal
	editor   *edit.Editor
	readLoop *edit.ReadLoop

	stdout io.Writer
	stderr io.Writer

	errColor *color.Color
}

// New builds a shell: it loads history, constructs the runner bound to
// the given sinks, and prepares the editor. term may be nil when the
// shell is only used for [Shell.Eval].
func New(cfg *config.Config, term edit.Terminal, stdout, stderr io.Writer) (*Shell, error) {
	hist := history.Load()
	runner, err := interp.New(interp.StdIO(stdout, stderr))
	if err != nil {
		return nil, err
	}
	runner.History = hist

	ed := edit.NewEditor()
	comp := edit.NewCompleter(runner.Env, nil)
	s := &Shell{
		Config:   cfg,
		Runner:   runner,
		History:  hist,
		term:     term,
		editor:   ed,
		stdout:   stdout,
		stderr:   stderr,
		errColor: color.New(color.FgRed),
	}
	if term != nil {
		s.readLoop = edit.NewReadLoop(term, ed, comp, hist)
	}
	return s, nil
}

// Eval runs one expression through the full pipeline. An empty or
// comment-only line is a no-op. Errors are returned for the caller to
// report; tokenization errors in particular trigger continuation input
// in the interactive loop.
//
// Groups are expanded and executed one at a time, so that an earlier
// group's effects (export, cd, its exit status) are visible to the
// expansion of the next one.
func (s *Shell) Eval(ctx context.Context, src string) error {
	tokens, err := syntax.Tokenize(src)
	if err != nil {
		return err
	}
	next := syntax.Single
	for len(tokens) > 0 {
		var seg []syntax.Token
		var following syntax.GroupKind
		seg, following, tokens = splitSegment(tokens)
		kind := next
		next = following
		if len(seg) == 0 {
			continue
		}
		groups, err := syntax.Parse(s.expandConfig().Tokens(seg))
		if err != nil {
			return err
		}
		if kind != syntax.Single && len(groups) > 0 {
			groups[0].Kind = kind
		}
		if err := s.Runner.Run(ctx, groups); err != nil {
			return err
		}
	}
	return nil
}

// expandConfig snapshots the runner's environment view and status for
// one expansion pass. The prompt renderer shares it, so both sides
// always expand against the same state.
func (s *Shell) expandConfig() *expand.Config {
	return &expand.Config{Env: s.Runner.Env, Status: s.Runner.Status}
}

// splitSegment cuts the token list at the first separator or
// conditional operator, also returning the kind the next segment
// inherits from that boundary.
func splitSegment(tokens []syntax.Token) (seg []syntax.Token, next syntax.GroupKind, rest []syntax.Token) {
	for i, tok := range tokens {
		switch tok.Kind {
		case syntax.Separator:
			return tokens[:i], syntax.Single, tokens[i+1:]
		case syntax.Operator:
			if tok.Op == syntax.LAnd {
				return tokens[:i], syntax.And, tokens[i+1:]
			}
			return tokens[:i], syntax.Or, tokens[i+1:]
		}
	}
	return tokens, syntax.Single, nil
}

// evalCapture evaluates an expression with stdout redirected into the
// returned buffer, for prompt [cmd=…] fragments. Errors are swallowed;
// rendering is best-effort.
func (s *Shell) evalCapture(ctx context.Context, src string) []byte {
	var buf bytes.Buffer
	interp.StdIO(&buf, io.Discard)(s.Runner)
	defer interp.StdIO(s.stdout, s.stderr)(s.Runner)
	s.Eval(ctx, src)
	return buf.Bytes()
}

// Run is the interactive main loop. It returns after the exit builtin,
// or after Ctrl-D on an empty line, having persisted history.
func (s *Shell) Run(ctx context.Context) error {
	// Ctrl-C outside raw mode belongs to the foreground child, not to
	// the shell.
	signal.Ignore(os.Interrupt)
	defer signal.Reset(os.Interrupt)

	for {
		s.editor.UnstashInput()
		s.paintPrompt(ctx)

		_, exit, err := s.readLoop.Run()
		if err != nil {
			return err
		}
		if s.editor.HasInput() {
			exit = s.evalLoop(ctx, s.editor.Input()) || exit
			s.editor.ClearInput()
		}
		if exit {
			s.History.Persist()
			return nil
		}
	}
}

// evalLoop evaluates one submitted line, gathering continuation input
// while the tokenizer reports an unmatched character. It reports
// whether the shell should exit.
func (s *Shell) evalLoop(ctx context.Context, line string) bool {
	for {
		err := s.Eval(ctx, line)
		var unmatched syntax.UnmatchedError
		switch {
		case err == nil:
			// a Ctrl-C during continuation leaves an empty line behind
			if line != "" {
				s.History.Submit(line)
			}
			return false
		case errors.Is(err, interp.ErrExitRequest):
			return true
		case errors.As(err, &unmatched):
			s.editor.AddChar('\n')
			if s.readLoop.OriginRow > 0 {
				// the echoed newline scrolled the prompt up one row
				s.readLoop.OriginRow--
			}
			_, exit, rlErr := s.readLoop.Run()
			if exit || rlErr != nil {
				return true
			}
			line = s.editor.Input()
		default:
			s.History.Submit(line)
			s.ReportError(err)
			return false
		}
	}
}

// statusError is the convention shared by all shell-produced errors.
type statusError interface {
	error
	Status() int
}

// ReportError prints a shell error in red and records its status.
func (s *Shell) ReportError(err error) {
	var st statusError
	if errors.As(err, &st) {
		s.Runner.Status = st.Status()
	} else {
		s.Runner.Status = 1
	}
	s.errColor.Fprintln(s.stderr, err)
}

// paintPrompt renders the template, notes where the input area begins,
// and repaints any in-progress input after it.
func (s *Shell) paintPrompt(ctx context.Context) {
	fmt.Fprint(s.term, s.RenderPrompt(ctx, s.Config.Prompt.PS1))
	col, row := s.term.CursorPos()
	s.readLoop.OriginCol, s.readLoop.OriginRow = col, row
	fmt.Fprint(s.term, s.editor.Input())
}
