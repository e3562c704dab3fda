// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package edit

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Event is one terminal input event: a keypress, or a resize.
type Event struct {
	Key    Key
	Resize bool
	Cols   int
	Rows   int
}

// Terminal is the capability bundle the read loop needs from the
// outside world, narrow enough that tests can substitute an in-memory
// fake.
type Terminal interface {
	io.Writer

	// MakeRaw switches the terminal to raw mode and returns the
	// function that restores it. Restore must run on every exit path.
	MakeRaw() (restore func() error, err error)

	// Size returns the terminal dimensions.
	Size() (cols, rows int)

	// ReadEvent blocks until the next input event.
	ReadEvent() (Event, error)

	// CursorPos queries the current cursor position, zero-based.
	// Best-effort; terminals that cannot answer report 0,0.
	CursorPos() (col, row int)
}

// OSTerminal implements [Terminal] on the process's controlling tty.
type OSTerminal struct {
	in  *os.File
	out *os.File

	once  sync.Once
	bytes chan byte
	winch chan os.Signal
}

// NewOSTerminal wraps the given tty files, typically os.Stdin and
// os.Stdout.
func NewOSTerminal(in, out *os.File) *OSTerminal {
	t := &OSTerminal{
		in:    in,
		out:   out,
		bytes: make(chan byte, 64),
		winch: make(chan os.Signal, 1),
	}
	signal.Notify(t.winch, unix.SIGWINCH)
	return t
}

// start ferries input bytes into a channel, so that ReadEvent can
// select between keys and resize signals. The goroutine never touches
// shell state; all mutation stays on the main goroutine.
func (t *OSTerminal) start() {
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := t.in.Read(buf)
			if err != nil {
				close(t.bytes)
				return
			}
			if n > 0 {
				t.bytes <- buf[0]
			}
		}
	}()
}

func (t *OSTerminal) Write(p []byte) (int, error) { return t.out.Write(p) }

func (t *OSTerminal) MakeRaw() (func() error, error) {
	t.once.Do(t.start)
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return nil, err
	}
	return func() error {
		return term.Restore(int(t.in.Fd()), state)
	}, nil
}

func (t *OSTerminal) Size() (cols, rows int) {
	cols, rows, err := term.GetSize(int(t.out.Fd()))
	if err != nil || cols <= 0 {
		return 80, 24
	}
	return cols, rows
}

func (t *OSTerminal) ReadEvent() (Event, error) {
	t.once.Do(t.start)
	select {
	case b, ok := <-t.bytes:
		if !ok {
			return Event{}, io.EOF
		}
		return Event{Key: decodeKey(b, t)}, nil
	case <-t.winch:
		cols, rows := t.Size()
		return Event{Resize: true, Cols: cols, Rows: rows}, nil
	}
}

// ReadByte feeds escape-sequence decoding from the input channel.
func (t *OSTerminal) ReadByte() (byte, error) {
	b, ok := <-t.bytes
	if !ok {
		return 0, io.EOF
	}
	return b, nil
}

// CursorPos asks the terminal where the cursor is via a DSR query and
// parses the "ESC[row;colR" answer. Only valid between read loops, in
// raw mode.
func (t *OSTerminal) CursorPos() (col, row int) {
	t.once.Do(t.start)
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return 0, 0
	}
	defer term.Restore(int(t.in.Fd()), state)
	if _, err := t.out.WriteString("\x1b[6n"); err != nil {
		return 0, 0
	}
	deadline := time.After(200 * time.Millisecond)
	var resp []byte
	for {
		select {
		case b, ok := <-t.bytes:
			if !ok {
				return 0, 0
			}
			if b == 'R' {
				var r, c int
				if _, err := fmt.Sscanf(string(resp), "\x1b[%d;%d", &r, &c); err != nil {
					return 0, 0
				}
				return c - 1, r - 1
			}
			resp = append(resp, b)
			if len(resp) > 32 {
				return 0, 0
			}
		case <-deadline:
			return 0, 0
		}
	}
}
