// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package interp

import (
	"context"
	"strings"

	"lambdash.dev/lambdash/syntax"
)

// runGroup executes one expression group as a sequential pipeline:
// each stage's captured stdout becomes the next stage's stdin, unless
// a redirection overrides it. After the last stage, the carried output
// is flushed to the runner's sinks and its status becomes $?.
func (r *Runner) runGroup(ctx context.Context, group *syntax.ExpressionGroup) error {
	var carry *CmdOutput
	for _, expr := range group.Expressions {
		words := r.resolveAlias(expr.Words)

		input, explicit, err := r.redirectedInput(expr.Inputs)
		if err != nil {
			return err
		}
		if !explicit && carry != nil {
			input = carry.Stdout
		}

		var out CmdOutput
		switch {
		case IsBuiltin(words[0]):
			out, err = r.builtin(ctx, words[0], words[1:], input)
		case expr.Background:
			var job *Job
			if job, err = r.startHandler(ctx, words); err == nil {
				r.Jobs = append(r.Jobs, job)
			}
		default:
			out, err = r.execHandler(ctx, words, input)
		}
		if err != nil {
			return err
		}

		wrote, err := r.applyOutputs(expr.Outputs, out.Stdout)
		if err != nil {
			return err
		}
		if wrote {
			// bytes went to a file; nothing flows to the next stage,
			// but stderr still surfaces
			out = CmdOutput{Status: out.Status, Stderr: out.Stderr}
		}
		carry = &out
	}
	if carry != nil {
		if len(carry.Stdout) > 0 {
			r.stdout.Write(carry.Stdout)
		}
		if len(carry.Stderr) > 0 {
			r.stderr.Write(carry.Stderr)
		}
		r.Status = carry.Status
	}
	return nil
}

// resolveAlias substitutes the command name once if it names an alias.
// Expansion is a single level; aliases never recurse.
func (r *Runner) resolveAlias(words []string) []string {
	body, ok := r.Aliases[words[0]]
	if !ok {
		return words
	}
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return words
	}
	return append(fields, words[1:]...)
}
