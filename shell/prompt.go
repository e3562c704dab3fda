// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package shell

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/fatih/color"
)

// The prompt template is a small markup language: [tag=value]…[/tag]
// pairs, $VAR and $? references, and plain text.
type psKind uint8

const (
	psText psKind = iota
	psTag
	psEndTag
	psVariable
)

type psToken struct {
	kind  psKind
	text  string // psText content, psVariable name
	name  string // psTag and psEndTag
	value string // psTag value, "" when absent
}

func tokenizePS(input string) []psToken {
	var tokens []psToken
	for i := 0; i < len(input); {
		switch input[i] {
		case '[':
			body := input[i+1:]
			end := strings.IndexByte(body, ']')
			if end < 0 {
				// no closing bracket; treat the rest as text
				tokens = append(tokens, psToken{kind: psText, text: input[i:]})
				return tokens
			}
			tag := body[:end]
			i += end + 2
			if strings.HasPrefix(tag, "/") {
				tokens = append(tokens, psToken{kind: psEndTag, name: tag[1:]})
			} else if name, value, ok := strings.Cut(tag, "="); ok {
				tokens = append(tokens, psToken{kind: psTag, name: name, value: value})
			} else {
				tokens = append(tokens, psToken{kind: psTag, name: tag})
			}
		case '$':
			name, rest := scanVarName(input[i+1:])
			tokens = append(tokens, psToken{kind: psVariable, text: name})
			i = len(input) - len(rest)
		default:
			end := strings.IndexAny(input[i:], "[$")
			if end < 0 {
				end = len(input) - i
			}
			tokens = append(tokens, psToken{kind: psText, text: input[i : i+end]})
			i += end
		}
	}
	return tokens
}

func scanVarName(s string) (name, rest string) {
	if strings.HasPrefix(s, "?") {
		return "?", s[1:]
	}
	end := 0
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		end += len(string(r))
	}
	return s[:end], s[end:]
}

// RenderPrompt expands a prompt template into the string to display.
// Unknown tags are ignored and errors are swallowed; the prompt always
// renders something.
func (s *Shell) RenderPrompt(ctx context.Context, template string) string {
	ecfg := s.expandConfig()
	var sb strings.Builder
	var current *color.Color
	emit := func(text string) {
		if current != nil {
			sb.WriteString(current.Sprint(text))
		} else {
			sb.WriteString(text)
		}
	}
	for _, tok := range tokenizePS(template) {
		switch tok.kind {
		case psText:
			emit(tok.text)
		case psVariable:
			emit(ecfg.Var(tok.text))
		case psTag:
			switch tok.name {
			case "color":
				current = parseColor(tok.value)
			case "cmd":
				if tok.value != "" {
					sb.Write(s.evalCapture(ctx, tok.value))
				}
			}
		case psEndTag:
			if tok.name == "color" {
				current = nil
			}
		}
	}
	return sb.String()
}

// parseColor understands #RRGGBB and a few color names, defaulting to
// white.
func parseColor(name string) *color.Color {
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, _ := strconv.ParseUint(name[1:3], 16, 8)
		g, _ := strconv.ParseUint(name[3:5], 16, 8)
		b, _ := strconv.ParseUint(name[5:7], 16, 8)
		return color.RGB(int(r), int(g), int(b))
	}
	switch name {
	case "yellow":
		return color.New(color.FgYellow)
	case "red":
		return color.New(color.FgRed)
	case "blue":
		return color.New(color.FgBlue)
	}
	return color.New(color.FgWhite)
}
