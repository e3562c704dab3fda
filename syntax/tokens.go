// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"strings"
)

// TokKind discriminates the variants of [Token].
type TokKind uint8

// The list of all token kinds.
const (
	Illegal TokKind = iota

	Word       // any run of literal characters, including quoted text
	Variable   // $NAME or $?
	Pipe       // |
	Background // &
	Negate     // !
	Redirect   // >, >>, <, <<
	Operator   // &&, ||
	Separator  // ;
	Subexpr    // (…) or `…`
)

var kindNames = map[TokKind]string{
	Illegal:    "illegal",
	Word:       "word",
	Variable:   "variable",
	Pipe:       "|",
	Background: "&",
	Negate:     "!",
	Redirect:   "redirect",
	Operator:   "operator",
	Separator:  ";",
	Subexpr:    "subexpression",
}

func (k TokKind) String() string { return kindNames[k] }

// RedirOperator is the set of redirection operators.
type RedirOperator uint8

const (
	RdrIn  RedirOperator = iota // <
	RdrOut                      // >
	AppOut                      // >>
	Hdoc                        // <<
)

var redirNames = [...]string{
	RdrIn:  "<",
	RdrOut: ">",
	AppOut: ">>",
	Hdoc:   "<<",
}

func (o RedirOperator) String() string { return redirNames[o] }

// BinCmdOperator is the set of conditional operators joining two
// expression groups.
type BinCmdOperator uint8

const (
	LAnd BinCmdOperator = iota // &&
	LOr                        // ||
)

var binCmdNames = [...]string{
	LAnd: "&&",
	LOr:  "||",
}

func (o BinCmdOperator) String() string { return binCmdNames[o] }

// Token is a single lexical element of a shell expression. Exactly one
// variant is meaningful, according to Kind:
//
//	Word       Val holds the literal text
//	Variable   Val holds the name, "?" included
//	Redirect   Redir holds the operator
//	Operator   Op holds the operator
//	Subexpr    Sub holds the recursively tokenized contents
//
// Tokens are immutable after lexing, except during expansion, where a
// token may be rewritten or exploded into several.
type Token struct {
	Kind  TokKind
	Val   string
	Redir RedirOperator
	Op    BinCmdOperator
	Sub   []Token
}

func (t Token) String() string {
	switch t.Kind {
	case Word:
		return fmt.Sprintf("%q", t.Val)
	case Variable:
		return "$" + t.Val
	case Redirect:
		return t.Redir.String()
	case Operator:
		return t.Op.String()
	case Subexpr:
		elems := make([]string, len(t.Sub))
		for i, sub := range t.Sub {
			elems[i] = sub.String()
		}
		return "(" + strings.Join(elems, " ") + ")"
	}
	return t.Kind.String()
}

// wordTok and varTok are shorthands used by the lexer.
func wordTok(s string) Token { return Token{Kind: Word, Val: s} }
func varTok(s string) Token  { return Token{Kind: Variable, Val: s} }
