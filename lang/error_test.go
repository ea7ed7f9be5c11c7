package lang

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestError_WrapAndWith(t *testing.T) {
	base := NewError("base failure")

	wrapped := base.Wrap(io.EOF).With(slog.Int("line", 3))

	if got := wrapped.Error(); got != "base failure: EOF" {
		t.Errorf("Error() = %q", got)
	}

	if !errors.Is(wrapped, base) {
		t.Error("errors.Is(wrapped, base) = false")
	}

	if !errors.Is(wrapped, io.EOF) {
		t.Error("errors.Is(wrapped, io.EOF) = false")
	}

	if errors.Is(wrapped, ErrEval) {
		t.Error("errors.Is(wrapped, ErrEval) = true")
	}

	if len(base.attrs) != 0 {
		t.Errorf("With modified the receiver: %v", base.attrs)
	}

	again := wrapped.With(slog.String("source", "stdin"))
	if len(wrapped.attrs) != 1 || len(again.attrs) != 2 {
		t.Errorf("attrs = %d and %d, want 1 and 2", len(wrapped.attrs), len(again.attrs))
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrReadInput.Wrap(io.ErrUnexpectedEOF).With(slog.Int("line", 7))

	got := map[string]string{}
	for _, a := range err.LogValue().Group() {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error": "failed to read input",
		"cause": "unexpected EOF",
		"line":  "7",
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("LogValue()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestWrapError(t *testing.T) {
	if got := WrapError(ErrFormat); got != ErrFormat {
		t.Errorf("WrapError(*Error) = %p, want %p", got, ErrFormat)
	}

	got := WrapError(io.EOF)
	if got.Error() != "EOF" || !errors.Is(got, io.EOF) {
		t.Errorf("WrapError(io.EOF) = %v", got)
	}
}

func TestEvalError(t *testing.T) {
	err := &EvalError{
		Token:  Token{Kind: TokenOperator, Op: OpMul, Text: "*", Offset: 13},
		Reason: ErrUnsupportedOperator,
	}

	want := `evaluation error: unsupported operator ("*" at offset 13)`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &EvalError{Reason: ErrStackUnderflow}
	if got := err.Error(); got != "evaluation error: stack underflow" {
		t.Errorf("Error() = %q", got)
	}

	if !errors.Is(err, ErrEval) || !errors.Is(err, ErrStackUnderflow) {
		t.Error("EvalError does not match its sentinels")
	}

	if errors.Is(err, ErrParse) || errors.Is(err, ErrFormat) {
		t.Error("EvalError matches unrelated sentinels")
	}
}

func TestFormatError(t *testing.T) {
	err := &FormatError{Literal: "4日", Reason: "year, month and day are required"}

	want := `invalid date "4日": year, month and day are required`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, ErrFormat) || errors.Is(err, ErrEval) {
		t.Error("FormatError sentinel mismatch")
	}

	if v := err.LogValue(); v.Kind() != slog.KindGroup {
		t.Errorf("LogValue kind = %v", v.Kind())
	}
}
