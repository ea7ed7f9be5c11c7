package lang

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Predefined errors (sentinel values).
var (
	ErrParse               = NewError("parse error")
	ErrEval                = NewError("evaluation error")
	ErrFormat              = NewError("invalid date")
	ErrStackUnderflow      = NewError("stack underflow")
	ErrUnsupportedOperator = NewError("unsupported operator")
	ErrOperandType         = NewError("operand type mismatch")
	ErrTrailingOperands    = NewError("operands left after evaluation")
	ErrReadInput           = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps any error into an Error. An *Error is returned unchanged.
func WrapError(err error) *Error {
	if ee, ok := err.(*Error); ok { //nolint:errorlint
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error derived from the same sentinel as e
// through [Error.Wrap] or [Error.With].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && len(t.attrs) == 0 && t.msg != "" &&
		t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// The receiver is not modified.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: append(slices.Clip(e.attrs), attrs...),
	}
}

// ParseError reports input that does not match the expression grammar.
type ParseError struct {
	Source   string   // The original expression
	Offset   int      // Byte offset of the offending input
	Column   int      // 1-based column (in runes) of the offending input
	Found    string   // Offending text, or empty at end of input
	Expected []string // Alternatives accepted at Offset
	Reason   string   // Optional description overriding Expected
}

func newParseError(src string, offset int, reason string, expected ...string) *ParseError {
	found := ""
	if offset < len(src) {
		r, _ := utf8.DecodeRuneInString(src[offset:])
		found = string(r)
	}

	return &ParseError{
		Source:   src,
		Offset:   offset,
		Column:   utf8.RuneCountInString(src[:offset]) + 1,
		Found:    found,
		Expected: expected,
		Reason:   reason,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString("parse error at column ")
	sb.WriteString(strconv.Itoa(e.Column))
	sb.WriteString(": ")

	if e.Found == "" {
		sb.WriteString("unexpected end of input")
	} else {
		sb.WriteString("unexpected " + strconv.Quote(e.Found))
	}

	switch {
	case e.Reason != "":
		sb.WriteString(" (" + e.Reason + ")")
	case len(e.Expected) > 0:
		exp := make([]string, len(e.Expected))
		for i, s := range e.Expected {
			exp[i] = strconv.Quote(s)
		}

		sb.WriteString(" (expected " + strings.Join(exp, ", ") + ")")
	}

	return sb.String()
}

// Unwrap returns [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// Snippet returns the source with a marker under the offending column:
//
//	  | (2020年
//	  |        ^
func (e *ParseError) Snippet() string {
	var sb strings.Builder

	sb.WriteString("  | ")
	sb.WriteString(e.Source)
	sb.WriteString("\n  | ")

	// Full-width runes occupy two terminal cells.
	for _, r := range e.Source[:min(e.Offset, len(e.Source))] {
		if wide(r) {
			sb.WriteString("  ")
		} else {
			sb.WriteByte(' ')
		}
	}

	sb.WriteString("^\n")

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrParse.msg),
		slog.String("source", e.Source),
		slog.Int("offset", e.Offset),
		slog.Int("column", e.Column),
		slog.String("found", e.Found),
		slog.Any("expected", e.Expected),
	)
}

// EvalError reports operands that do not fit the operator applied to them.
type EvalError struct {
	Token  Token  // Token being reduced when evaluation failed
	Reason *Error // One of the evaluation sentinels
	Detail string // Optional description of the operand
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	msg := ErrEval.msg + ": " + e.Reason.Error()

	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	if e.Token.Kind != TokenInvalid {
		msg += " (" + strconv.Quote(e.Token.Text) +
			" at offset " + strconv.Itoa(e.Token.Offset) + ")"
	}

	return msg
}

// Unwrap returns [ErrEval] and the reason.
func (e *EvalError) Unwrap() []error { return []error{ErrEval, e.Reason} }

// LogValue implements slog.LogValuer.
func (e *EvalError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrEval.msg),
		slog.String("reason", e.Reason.msg),
		slog.String("detail", e.Detail),
		slog.String("token", e.Token.Text),
		slog.Int("offset", e.Token.Offset),
	)
}

// FormatError reports a literal that cannot be read as a calendar date.
type FormatError struct {
	Literal string // Source text of the literal
	Offset  int    // Byte offset of the literal
	Reason  string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return ErrFormat.msg + " " + strconv.Quote(e.Literal) + ": " + e.Reason
}

// Unwrap returns [ErrFormat].
func (e *FormatError) Unwrap() error { return ErrFormat }

// LogValue implements slog.LogValuer.
func (e *FormatError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrFormat.msg),
		slog.String("literal", e.Literal),
		slog.Int("offset", e.Offset),
		slog.String("reason", e.Reason),
	)
}
