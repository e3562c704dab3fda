// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package interp

import (
	"io"
	"os"

	"lambdash.dev/lambdash/syntax"
)

// redirectedInput materializes an expression's input redirections.
// Only the last one is read into a buffer; earlier ones are opened and
// immediately closed so that their side effects still happen. A
// here-document yields an empty buffer, as bodies are not captured.
// The second return value reports whether an explicit input exists.
func (r *Runner) redirectedInput(inputs []syntax.Redirection) ([]byte, bool, error) {
	if len(inputs) == 0 {
		return nil, false, nil
	}
	for _, redir := range inputs[:len(inputs)-1] {
		if redir.Op == syntax.Hdoc {
			continue
		}
		f, err := r.openHandler(redir.Target, os.O_RDONLY, 0)
		if err != nil {
			return nil, false, execErrf(1, "%s: %v", redir.Target, err)
		}
		f.Close()
	}
	last := inputs[len(inputs)-1]
	if last.Op == syntax.Hdoc {
		return []byte{}, true, nil
	}
	f, err := r.openHandler(last.Target, os.O_RDONLY, 0)
	if err != nil {
		return nil, false, execErrf(1, "%s: %v", last.Target, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, false, execErrf(1, "%s: %v", last.Target, err)
	}
	return data, true, nil
}

// applyOutputs opens every output redirection in its mode, so that
// intermediate targets are still created or truncated, and writes the
// produced bytes to the last one. It reports whether the bytes went to
// a file instead of the pipeline.
func (r *Runner) applyOutputs(outputs []syntax.Redirection, data []byte) (bool, error) {
	for i, redir := range outputs {
		flag := os.O_CREATE | os.O_WRONLY
		if redir.Op == syntax.AppOut {
			flag |= os.O_APPEND
		} else {
			flag |= os.O_TRUNC
		}
		f, err := r.openHandler(redir.Target, flag, 0o644)
		if err != nil {
			return false, execErrf(1, "%s: %v", redir.Target, err)
		}
		if i == len(outputs)-1 {
			if _, err := f.Write(data); err != nil {
				f.Close()
				return false, execErrf(1, "%s: %v", redir.Target, err)
			}
		}
		f.Close()
	}
	return len(outputs) > 0, nil
}
