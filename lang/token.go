package lang

import (
	"iter"
	"slices"
	"strings"
)

// TokenKind identifies the variant held by a [Token].
type TokenKind int

const (
	TokenInvalid TokenKind = iota
	TokenOperator
	TokenDate
	TokenNow
)

func (k TokenKind) String() string {
	switch k {
	case TokenOperator:
		return "operator"
	case TokenDate:
		return "date"
	case TokenNow:
		return "now"
	}

	return "invalid"
}

// Operator is a binary arithmetic operator.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
)

func (op Operator) String() string { return string(rune(op)) }

// Token is one element of a [Program].
//
// Kind selects which of the remaining fields are meaningful: Op for
// operators, Date for date literals. Text and Offset locate the token in
// the source expression.
type Token struct {
	Kind   TokenKind
	Op     Operator
	Date   Fragment
	Text   string
	Offset int
}

func (t Token) String() string {
	if t.Kind == TokenOperator {
		return t.Op.String()
	}

	return t.Text
}

// Program is a parsed expression: its tokens in postfix order.
// A Program is immutable and safe for concurrent use.
type Program struct {
	source string
	tokens []Token
}

// Source returns the expression the program was parsed from.
func (p *Program) Source() string { return p.source }

// Len returns the number of tokens in the program.
func (p *Program) Len() int { return len(p.tokens) }

// Tokens returns a copy of the program's tokens in postfix order.
func (p *Program) Tokens() []Token { return slices.Clone(p.tokens) }

// All iterates over the program's tokens in postfix order.
func (p *Program) All() iter.Seq2[int, Token] { return slices.All(p.tokens) }

// String returns the tokens in postfix order separated by spaces, such as
// "2020年9月8日 4日 +".
func (p *Program) String() string {
	part := make([]string, len(p.tokens))
	for i, t := range p.tokens {
		part[i] = t.String()
	}

	return strings.Join(part, " ")
}
