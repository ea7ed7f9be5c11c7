package lang

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxDepth is the deepest nesting of parentheses accepted by [Parse].
const MaxDepth = 256

// maxComponent bounds the numeric value of a single date fragment, keeping
// [Fragment.Days] within 32 bits.
const maxComponent = 999_999

// Fragment suffixes in the order they must appear.
var suffixes = []rune{'年', '月', '日'}

// Parse parses an expression into a [Program]. The whole input must match
// the grammar; otherwise Parse returns a [*ParseError].
func Parse(src string) (*Program, error) {
	p := parser{src: src}

	if err := p.expr(0); err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.eof() {
		return nil, newParseError(src, p.pos, "",
			"+", "-", "*", "/", "end of input")
	}

	return &Program{source: src, tokens: slices.Clip(p.out)}, nil
}

// parser is a recursive-descent parser that appends tokens to out in postfix
// order as they are recognized.
type parser struct {
	src string
	pos int
	out []Token
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek(c byte) bool {
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *parser) skipSpace() {
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}

		p.pos += size
	}
}

// expr → term (('+' | '-') term)*
func (p *parser) expr(depth int) error {
	if err := p.term(depth); err != nil {
		return err
	}

	for {
		p.skipSpace()

		if !p.peek('+') && !p.peek('-') {
			return nil
		}

		op := p.operator()

		if err := p.term(depth); err != nil {
			return err
		}

		p.out = append(p.out, op)
	}
}

// term → atom (('*' | '/') atom)*
func (p *parser) term(depth int) error {
	if err := p.atom(depth); err != nil {
		return err
	}

	for {
		p.skipSpace()

		if !p.peek('*') && !p.peek('/') {
			return nil
		}

		op := p.operator()

		if err := p.atom(depth); err != nil {
			return err
		}

		p.out = append(p.out, op)
	}
}

// operator consumes the single-byte operator at the current position.
func (p *parser) operator() Token {
	c := p.src[p.pos]
	tok := Token{
		Kind:   TokenOperator,
		Op:     Operator(c),
		Text:   p.src[p.pos : p.pos+1],
		Offset: p.pos,
	}
	p.pos++

	return tok
}

// atom → ('+' | '-')* (date | 'now' | '(' expr ')')
//
// Leading signs are accepted and discarded. They emit no token.
func (p *parser) atom(depth int) error {
	for {
		p.skipSpace()

		if !p.peek('+') && !p.peek('-') {
			break
		}

		p.pos++
	}

	switch {
	case p.peek('('):
		if depth >= MaxDepth {
			return newParseError(p.src, p.pos, "parentheses nested too deeply")
		}

		p.pos++

		if err := p.expr(depth + 1); err != nil {
			return err
		}

		p.skipSpace()

		if !p.peek(')') {
			return newParseError(p.src, p.pos, "", ")", "+", "-", "*", "/")
		}

		p.pos++

	case p.keyword("now"):
		p.out = append(p.out, Token{
			Kind:   TokenNow,
			Text:   p.src[p.pos-len("now") : p.pos],
			Offset: p.pos - len("now"),
		})

	case p.digit():
		if err := p.date(); err != nil {
			return err
		}

	default:
		return newParseError(p.src, p.pos, "", "date", "now", "(")
	}

	return nil
}

// keyword consumes kw if it appears at the current position, matched without
// regard to case and not followed by an identifier character.
func (p *parser) keyword(kw string) bool {
	end := p.pos + len(kw)
	if end > len(p.src) || !strings.EqualFold(p.src[p.pos:end], kw) {
		return false
	}

	if end < len(p.src) && identChar(p.src[end]) {
		return false
	}

	p.pos = end

	return true
}

func identChar(c byte) bool {
	return c == '_' || c == '$' ||
		'0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func (p *parser) digit() bool {
	if p.eof() {
		return false
	}

	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	_, ok := digitValue(r)

	return ok
}

// digitValue returns the value of an ASCII or full-width decimal digit.
func digitValue(r rune) (int, bool) {
	switch {
	case '0' <= r && r <= '9':
		return int(r - '0'), true
	case '０' <= r && r <= '９':
		return int(r - '０'), true
	}

	return 0, false
}

// date → (digits '年')? (digits{1,2} '月')? (digits{1,2} '日')?
func (p *parser) date() error {
	var frag Fragment

	start := p.pos
	next := 0

	for next < len(suffixes) {
		at := p.pos

		n, width, err := p.number()
		if err != nil {
			return err
		}

		if width == 0 {
			break
		}

		if p.eof() {
			return newParseError(p.src, p.pos, "", runeStrings(suffixes[next:])...)
		}

		r, size := utf8.DecodeRuneInString(p.src[p.pos:])

		i := slices.Index(suffixes, r)

		switch {
		case i < 0:
			return newParseError(p.src, p.pos, "", runeStrings(suffixes[next:])...)
		case i < next:
			return newParseError(p.src, p.pos, "date fragments must appear in 年月日 order")
		case i > 0 && width > 2:
			return newParseError(p.src, at, "at most two digits allowed before "+string(r))
		}

		switch r {
		case '年':
			frag.Year, frag.Fields = n, frag.Fields|FieldYear
		case '月':
			frag.Month, frag.Fields = n, frag.Fields|FieldMonth
		case '日':
			frag.Day, frag.Fields = n, frag.Fields|FieldDay
		}

		p.pos += size
		next = i + 1
	}

	p.out = append(p.out, Token{
		Kind:   TokenDate,
		Date:   frag,
		Text:   p.src[start:p.pos],
		Offset: start,
	})

	return nil
}

// number consumes a run of decimal digits and returns its value and width.
func (p *parser) number() (n, width int, err error) {
	start := p.pos

	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])

		d, ok := digitValue(r)
		if !ok {
			break
		}

		n = n*10 + d
		if n > maxComponent {
			return 0, 0, newParseError(p.src, start, "number too large")
		}

		p.pos += size
		width++
	}

	return n, width, nil
}

func runeStrings(rs []rune) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}

	return out
}

// wide reports whether r occupies two cells in a terminal.
func wide(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) ||
		0x3000 <= r && r <= 0x303f ||
		0xff01 <= r && r <= 0xff60
}
