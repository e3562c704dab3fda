// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package edit

import (
	"fmt"
	"os"
	"strconv"

	"lambdash.dev/lambdash/history"
)

// ReadLoop is the event-driven key handler that fills the editor
// buffer until the user submits a line, clears the screen, or asks
// the shell to exit.
type ReadLoop struct {
	term Terminal
	ed   *Editor
	comp *Completer
	hist *history.History

	// OriginCol and OriginRow locate the first input cell, right
	// after the rendered prompt. The shell sets them before Run.
	OriginCol int
	OriginRow int

	cols, rows int

	// histIdx is the history page being shown, or -1.
	histIdx int
}

func NewReadLoop(term Terminal, ed *Editor, comp *Completer, hist *history.History) *ReadLoop {
	return &ReadLoop{term: term, ed: ed, comp: comp, hist: hist}
}

// Editor returns the loop's editor buffer.
func (rl *ReadLoop) Editor() *Editor { return rl.ed }

// Run enters raw mode and handles events until the line is finished.
// charsRead reports how many characters were actually typed; exit is
// set when the user requested to leave the shell (Ctrl-D on an empty
// buffer). Raw mode is restored on every exit path.
func (rl *ReadLoop) Run() (charsRead int, exit bool, err error) {
	restore, err := rl.term.MakeRaw()
	if err != nil {
		return 0, false, err
	}
	defer restore()

	rl.histIdx = -1
	rl.cols, rl.rows = rl.term.Size()
	for {
		ev, err := rl.term.ReadEvent()
		if err != nil {
			// a vanished input stream means the session is over
			return charsRead, true, nil
		}
		delta, finished, exit := rl.handleEvent(ev)
		charsRead += delta
		if exit || finished {
			return charsRead, exit, nil
		}
	}
}

func (rl *ReadLoop) handleEvent(ev Event) (delta int, finished, exit bool) {
	if ev.Resize {
		rl.cols, rl.rows = ev.Cols, ev.Rows
		os.Setenv("COLUMNS", strconv.Itoa(ev.Cols))
		os.Setenv("LINES", strconv.Itoa(ev.Rows))
		return 0, false, false
	}
	key := ev.Key
	if key.Type != KeyTab || key.Alt {
		// any key other than Tab ends a completion session
		rl.resetCompletion()
	}
	if key.Alt {
		switch key.Type {
		case KeyLeft:
			if rl.ed.MoveCursorLeft(Word) > 0 {
				rl.alignCursor()
			}
		case KeyRight:
			if rl.ed.MoveCursorRight(Word) > 0 {
				rl.alignCursor()
			}
		}
		return 0, false, false
	}
	switch key.Type {
	case KeyCtrlC:
		rl.ed.ClearStash()
		rl.ed.ClearInput()
		rl.comp.Reset()
		fmt.Fprint(rl.term, "^C\r\n")
		return 0, true, false
	case KeyCtrlD:
		if !rl.ed.HasInput() {
			return 0, true, true
		}
	case KeyCtrlL:
		rl.ed.StashInput()
		rl.ed.ClearInput()
		rl.comp.Reset()
		fmt.Fprint(rl.term, clearScreen)
		return 0, true, false
	case KeyCtrlK:
		if rl.ed.TruncateInput() {
			rl.alignCursor()
			fmt.Fprint(rl.term, clearBelow)
		}
	case KeyLeft:
		if rl.ed.MoveCursorLeft(One) > 0 {
			rl.alignCursor()
		}
	case KeyRight:
		if rl.ed.MoveCursorRight(One) > 0 {
			rl.alignCursor()
		}
	case KeyHome:
		if rl.ed.MoveCursor(Origin) {
			rl.alignCursor()
		}
	case KeyEnd:
		if rl.ed.MoveCursor(End) {
			rl.alignCursor()
		}
	case KeyUp:
		rl.historyUp()
	case KeyDown:
		rl.historyDown()
	case KeyTab:
		repl, ok := rl.comp.Complete(rl.ed.Input())
		if ok {
			rl.clearInput()
			rl.ed.SetInput(repl)
			rl.printInput()
		}
		if s := rl.comp.Session(); s != nil {
			rl.renderGrid(s)
		}
		rl.alignCursor()
	case KeyBackspace:
		if rl.ed.RemoveChar(true) {
			rl.resetCompletion()
			rl.repaint()
		}
	case KeyDelete:
		if rl.ed.RemoveChar(false) {
			rl.repaint()
		}
	case KeyEnter:
		rl.comp.Reset()
		fmt.Fprint(rl.term, "\r\n")
		return 0, true, false
	case KeyRune:
		rl.ed.AddChar(key.Rune)
		rl.resetCompletion()
		rl.repaint()
		return 1, false, false
	}
	return 0, false, false
}

func (rl *ReadLoop) repaint() {
	rl.clearInput()
	rl.printInput()
	rl.alignCursor()
}

func (rl *ReadLoop) resetCompletion() {
	if rl.comp.Session() != nil {
		rl.comp.Reset()
		rl.clearGrid()
	}
}

// historyUp pages backwards: the first press stashes the in-progress
// input and shows the most recent entry.
func (rl *ReadLoop) historyUp() {
	if rl.histIdx < 0 {
		last := rl.hist.Len() - 1
		if last < 0 {
			return
		}
		rl.histIdx = last
		rl.ed.StashInput()
	} else if rl.histIdx > 0 {
		rl.histIdx--
	} else {
		return
	}
	rl.clearInput()
	rl.ed.SetInput(rl.hist.Get(rl.histIdx))
	rl.printInput()
	rl.alignCursor()
}

// historyDown pages forwards; moving past the newest entry restores
// the stashed input.
func (rl *ReadLoop) historyDown() {
	if rl.histIdx < 0 {
		return
	}
	rl.clearInput()
	if rl.histIdx < rl.hist.Len()-1 {
		rl.histIdx++
		rl.ed.SetInput(rl.hist.Get(rl.histIdx))
	} else {
		rl.histIdx = -1
		rl.ed.UnstashInput()
	}
	rl.printInput()
	rl.alignCursor()
}
