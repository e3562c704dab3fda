// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

// Package edit implements the interactive line editor: the prompt
// buffer, the raw-terminal read loop, and completion.
package edit

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// CursorPos names an absolute cursor destination.
type CursorPos uint8

const (
	Origin CursorPos = iota
	End
)

// CursorStep names a relative cursor movement unit.
type CursorStep uint8

const (
	One CursorStep = iota
	Word
)

// Editor is the stateful prompt buffer. The cursor is a byte offset
// into the input and always lies on a character boundary.
type Editor struct {
	input  string
	cursor int
	stash  *string
}

func NewEditor() *Editor { return &Editor{} }

// AddChar inserts a character at the cursor and advances past it.
func (e *Editor) AddChar(r rune) {
	e.input = e.input[:e.cursor] + string(r) + e.input[e.cursor:]
	e.cursor += utf8.RuneLen(r)
}

// RemoveChar deletes one character: the one before the cursor when
// back is true, the one under it otherwise. It reports whether the
// input changed.
func (e *Editor) RemoveChar(back bool) bool {
	if back {
		if e.cursor == 0 {
			return false
		}
		start := prevBoundary(e.input, e.cursor)
		e.input = e.input[:start] + e.input[e.cursor:]
		e.cursor = start
		return true
	}
	if e.cursor >= len(e.input) {
		return false
	}
	_, size := utf8.DecodeRuneInString(e.input[e.cursor:])
	e.input = e.input[:e.cursor] + e.input[e.cursor+size:]
	return true
}

func (e *Editor) SetInput(s string) {
	e.input = s
	e.cursor = len(s)
}

func (e *Editor) ClearInput() {
	e.input = ""
	e.cursor = 0
}

// TruncateInput discards everything from the cursor onward. It
// reports whether anything was discarded.
func (e *Editor) TruncateInput() bool {
	if e.cursor == len(e.input) {
		return false
	}
	e.input = e.input[:e.cursor]
	return true
}

func (e *Editor) HasInput() bool { return e.input != "" }

func (e *Editor) Input() string { return e.input }

// InputRows returns how many display lines the input spans.
func (e *Editor) InputRows() int {
	return 1 + strings.Count(e.input, "\n")
}

// StashInput preserves the current input so that a transient view
// (history paging, clear-screen) can replace it.
func (e *Editor) StashInput() {
	stash := e.input
	e.stash = &stash
}

// UnstashInput restores the preserved input, if any.
func (e *Editor) UnstashInput() {
	if e.stash != nil {
		e.SetInput(*e.stash)
	}
}

// ClearStash drops the preserved input.
func (e *Editor) ClearStash() { e.stash = nil }

// CursorOffset reports the cursor's display position: the column is
// relative to the current display line, and the row counts the
// newlines before the cursor. Wide characters such as emoji take two
// columns.
func (e *Editor) CursorOffset() (col, row int) {
	for _, r := range e.input[:e.cursor] {
		if r == '\n' {
			row++
			col = 0
			continue
		}
		col += displayWidth(r)
	}
	return col, row
}

func displayWidth(r rune) int {
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// MoveCursor jumps to an absolute position; it reports whether the
// cursor moved.
func (e *Editor) MoveCursor(pos CursorPos) bool {
	target := 0
	if pos == End {
		target = len(e.input)
	}
	if e.cursor == target {
		return false
	}
	e.cursor = target
	return true
}

// MoveCursorLeft moves one character, or back across the previous
// word run, stopping on the first non-word character before it. It
// returns the byte distance travelled.
func (e *Editor) MoveCursorLeft(step CursorStep) int {
	if e.cursor == 0 {
		return 0
	}
	pos := prevBoundary(e.input, e.cursor)
	if step == Word {
		for pos > 0 && wordRune(runeAt(e.input, pos)) {
			pos = prevBoundary(e.input, pos)
		}
	}
	diff := e.cursor - pos
	e.cursor = pos
	return diff
}

// MoveCursorRight mirrors [Editor.MoveCursorLeft].
func (e *Editor) MoveCursorRight(step CursorStep) int {
	if e.cursor >= len(e.input) {
		return 0
	}
	pos := nextBoundary(e.input, e.cursor)
	if step == Word {
		for pos < len(e.input) && wordRune(runeAt(e.input, pos)) {
			pos = nextBoundary(e.input, pos)
		}
	}
	diff := pos - e.cursor
	e.cursor = pos
	return diff
}

func wordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func runeAt(s string, pos int) rune {
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return r
}

func prevBoundary(s string, pos int) int {
	pos--
	for pos > 0 && !utf8.RuneStart(s[pos]) {
		pos--
	}
	return pos
}

func nextBoundary(s string, pos int) int {
	_, size := utf8.DecodeRuneInString(s[pos:])
	return pos + size
}
