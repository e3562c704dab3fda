// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

//go:build unix

package edit

import (
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/go-quicktest/qt"
)

func TestOSTerminalOverPty(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()
	qt.Assert(t, qt.IsNil(pty.Setsize(ptmx, &pty.Winsize{Cols: 100, Rows: 30})))

	term := NewOSTerminal(tty, tty)
	restore, err := term.MakeRaw()
	qt.Assert(t, qt.IsNil(err))
	defer restore()

	cols, rows := term.Size()
	qt.Assert(t, qt.Equals(cols, 100))
	qt.Assert(t, qt.Equals(rows, 30))

	go func() {
		ptmx.WriteString("hi\x1b[A\r")
	}()

	want := []Key{
		{Type: KeyRune, Rune: 'h'},
		{Type: KeyRune, Rune: 'i'},
		{Type: KeyUp},
		{Type: KeyEnter},
	}
	for _, wk := range want {
		ev, err := readEventTimeout(t, term)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(ev.Key, wk))
	}
}

func readEventTimeout(t *testing.T, term Terminal) (Event, error) {
	t.Helper()
	type res struct {
		ev  Event
		err error
	}
	ch := make(chan res, 1)
	go func() {
		ev, err := term.ReadEvent()
		ch <- res{ev, err}
	}()
	select {
	case r := <-ch:
		return r.ev, r.err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for terminal event")
		return Event{}, nil
	}
}
