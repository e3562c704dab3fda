// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package edit

import (
	"io"
	"unicode/utf8"
)

// KeyType is the set of keys the read loop reacts to.
type KeyType uint8

const (
	KeyRune KeyType = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyCtrlC
	KeyCtrlD
	KeyCtrlK
	KeyCtrlL
	KeyUnknown
)

// Key is one decoded keypress. Rune is set for KeyRune; Alt marks a
// meta-modified key.
type Key struct {
	Type KeyType
	Rune rune
	Alt  bool
}

// decodeKey turns the raw byte stream of a terminal in raw mode into
// keypresses. b is the first byte, already read; more bytes of an
// escape sequence are pulled from src.
func decodeKey(b byte, src io.ByteReader) Key {
	switch b {
	case 0x03:
		return Key{Type: KeyCtrlC}
	case 0x04:
		return Key{Type: KeyCtrlD}
	case 0x0b:
		return Key{Type: KeyCtrlK}
	case 0x0c:
		return Key{Type: KeyCtrlL}
	case '\r', '\n':
		return Key{Type: KeyEnter}
	case '\t':
		return Key{Type: KeyTab}
	case 0x7f, 0x08:
		return Key{Type: KeyBackspace}
	case 0x1b:
		return decodeEscape(src)
	}
	if b < 0x20 {
		return Key{Type: KeyUnknown}
	}
	if b < utf8.RuneSelf {
		return Key{Type: KeyRune, Rune: rune(b)}
	}
	return decodeRune(b, src)
}

func decodeEscape(src io.ByteReader) Key {
	b, err := src.ReadByte()
	if err != nil {
		return Key{Type: KeyUnknown}
	}
	switch b {
	case '[':
		return decodeCSI(src)
	case 'O':
		// application-mode cursor keys
		b, err := src.ReadByte()
		if err != nil {
			return Key{Type: KeyUnknown}
		}
		switch b {
		case 'A':
			return Key{Type: KeyUp}
		case 'B':
			return Key{Type: KeyDown}
		case 'C':
			return Key{Type: KeyRight}
		case 'D':
			return Key{Type: KeyLeft}
		case 'H':
			return Key{Type: KeyHome}
		case 'F':
			return Key{Type: KeyEnd}
		}
		return Key{Type: KeyUnknown}
	case 'b':
		return Key{Type: KeyLeft, Alt: true}
	case 'f':
		return Key{Type: KeyRight, Alt: true}
	}
	if b >= 0x20 && b < utf8.RuneSelf {
		return Key{Type: KeyRune, Rune: rune(b), Alt: true}
	}
	return Key{Type: KeyUnknown}
}

func decodeCSI(src io.ByteReader) Key {
	var params []byte
	for {
		b, err := src.ReadByte()
		if err != nil {
			return Key{Type: KeyUnknown}
		}
		if b >= 0x40 && b <= 0x7e {
			return csiKey(string(params), b)
		}
		params = append(params, b)
		if len(params) > 16 {
			return Key{Type: KeyUnknown}
		}
	}
}

func csiKey(params string, final byte) Key {
	alt := params == "1;3" || params == "1;5"
	switch final {
	case 'A':
		return Key{Type: KeyUp, Alt: alt}
	case 'B':
		return Key{Type: KeyDown, Alt: alt}
	case 'C':
		return Key{Type: KeyRight, Alt: alt}
	case 'D':
		return Key{Type: KeyLeft, Alt: alt}
	case 'H':
		return Key{Type: KeyHome}
	case 'F':
		return Key{Type: KeyEnd}
	case '~':
		switch params {
		case "1", "7":
			return Key{Type: KeyHome}
		case "3":
			return Key{Type: KeyDelete}
		case "4", "8":
			return Key{Type: KeyEnd}
		}
	}
	return Key{Type: KeyUnknown}
}

func decodeRune(b byte, src io.ByteReader) Key {
	buf := []byte{b}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		nb, err := src.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, nb)
	}
	r, _ := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return Key{Type: KeyUnknown}
	}
	return Key{Type: KeyRune, Rune: r}
}
