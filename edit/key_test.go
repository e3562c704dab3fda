// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package edit

import (
	"bytes"
	"testing"

	"github.com/go-quicktest/qt"
)

func decode(t *testing.T, seq string) Key {
	t.Helper()
	if seq == "" {
		t.Fatal("empty sequence")
	}
	return decodeKey(seq[0], bytes.NewReader([]byte(seq[1:])))
}

func TestDecodeKey(t *testing.T) {
	t.Parallel()
	tests := []struct {
		seq  string
		want Key
	}{
		{"a", Key{Type: KeyRune, Rune: 'a'}},
		{"Z", Key{Type: KeyRune, Rune: 'Z'}},
		{" ", Key{Type: KeyRune, Rune: ' '}},
		{"é", Key{Type: KeyRune, Rune: 'é'}},
		{"🙂", Key{Type: KeyRune, Rune: '🙂'}},
		{"\r", Key{Type: KeyEnter}},
		{"\n", Key{Type: KeyEnter}},
		{"\t", Key{Type: KeyTab}},
		{"\x7f", Key{Type: KeyBackspace}},
		{"\x08", Key{Type: KeyBackspace}},
		{"\x03", Key{Type: KeyCtrlC}},
		{"\x04", Key{Type: KeyCtrlD}},
		{"\x0b", Key{Type: KeyCtrlK}},
		{"\x0c", Key{Type: KeyCtrlL}},

		{"\x1b[A", Key{Type: KeyUp}},
		{"\x1b[B", Key{Type: KeyDown}},
		{"\x1b[C", Key{Type: KeyRight}},
		{"\x1b[D", Key{Type: KeyLeft}},
		{"\x1b[H", Key{Type: KeyHome}},
		{"\x1b[F", Key{Type: KeyEnd}},
		{"\x1bOH", Key{Type: KeyHome}},
		{"\x1bOF", Key{Type: KeyEnd}},
		{"\x1b[1~", Key{Type: KeyHome}},
		{"\x1b[4~", Key{Type: KeyEnd}},
		{"\x1b[7~", Key{Type: KeyHome}},
		{"\x1b[8~", Key{Type: KeyEnd}},
		{"\x1b[3~", Key{Type: KeyDelete}},

		// meta-modified motion
		{"\x1b[1;3D", Key{Type: KeyLeft, Alt: true}},
		{"\x1b[1;3C", Key{Type: KeyRight, Alt: true}},
		{"\x1b[1;5D", Key{Type: KeyLeft, Alt: true}},
		{"\x1bb", Key{Type: KeyLeft, Alt: true}},
		{"\x1bf", Key{Type: KeyRight, Alt: true}},
		{"\x1bx", Key{Type: KeyRune, Rune: 'x', Alt: true}},

		{"\x01", Key{Type: KeyUnknown}},
		{"\x1b[99z", Key{Type: KeyUnknown}},
	}
	for _, tc := range tests {
		t.Run(tc.seq, func(t *testing.T) {
			qt.Assert(t, qt.Equals(decode(t, tc.seq), tc.want))
		})
	}
}
