// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package edit

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ANSI fragments used by the renderer. Cursor coordinates on the wire
// are 1-based.
const (
	clearLine   = "\x1b[K" // from cursor to end of line
	clearBelow  = "\x1b[J" // from cursor to end of screen
	clearScreen = "\x1b[2J\x1b[H"
)

func moveTo(col, row int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row+1, col+1)
}

var highlight = color.New(color.BgWhite, color.FgBlack)

// clearInput blanks the rows the current input occupies and leaves the
// cursor at the input origin.
func (rl *ReadLoop) clearInput() {
	for line := range rl.ed.InputRows() {
		fmt.Fprintf(rl.term, "%s%s", moveTo(rl.OriginCol, rl.OriginRow+line), clearLine)
	}
	fmt.Fprint(rl.term, moveTo(rl.OriginCol, rl.OriginRow))
}

// printInput repaints the whole input relative to the prompt origin.
// Inputs taller than the remaining screen pull the origin up, since
// the terminal scrolls.
func (rl *ReadLoop) printInput() {
	rows := rl.ed.InputRows()
	if over := rl.OriginRow + rows - rl.rows; over > 0 {
		rl.OriginRow -= over
		if rl.OriginRow < 0 {
			rl.OriginRow = 0
		}
	}
	for i, line := range strings.Split(rl.ed.Input(), "\n") {
		fmt.Fprintf(rl.term, "%s%s", moveTo(rl.OriginCol, rl.OriginRow+i), line)
	}
}

// alignCursor places the terminal cursor where the editor thinks the
// cursor is.
func (rl *ReadLoop) alignCursor() {
	col, row := rl.ed.CursorOffset()
	fmt.Fprint(rl.term, moveTo(rl.OriginCol+col, rl.OriginRow+row))
}

// renderGrid draws completion candidates as a column grid below the
// input, highlighting the session's current index.
func (rl *ReadLoop) renderGrid(s *Session) {
	width := 0
	for _, item := range s.Items {
		if len(item) > width {
			width = len(item)
		}
	}
	width += 2 // padding
	numCols := max(rl.cols/max(width, 1), 1)

	startRow := rl.OriginRow + rl.ed.InputRows()
	fmt.Fprintf(rl.term, "%s%s", moveTo(0, startRow), clearBelow)
	for i, item := range s.Items {
		col := (i % numCols) * width
		row := startRow + i/numCols
		if row >= rl.rows {
			break
		}
		fmt.Fprint(rl.term, moveTo(col, row))
		if i == s.Index {
			highlight.Fprint(rl.term, item)
		} else {
			fmt.Fprint(rl.term, item)
		}
	}
}

// clearGrid removes anything below the input, i.e. a candidate grid.
func (rl *ReadLoop) clearGrid() {
	fmt.Fprintf(rl.term, "%s%s", moveTo(0, rl.OriginRow+rl.ed.InputRows()), clearBelow)
}
