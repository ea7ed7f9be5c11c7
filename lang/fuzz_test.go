package lang

import (
	"errors"
	"testing"
	"time"
	"unicode/utf8"
)

// FuzzParse checks that arbitrary input never panics and that every token
// of an accepted program points back into its source.
func FuzzParse(f *testing.F) {
	f.Add("2020年9月8日 - 2020年3月4日")
	f.Add("2020年9月8日 + 4日 - 3日")
	f.Add("(2020年")
	f.Add("now - -(1年2月3日)")
	f.Add("NOW*2日/3日")
	f.Add("２０２０年９月８日")
	f.Add("9月2020年")
	f.Add("((((1日))))")
	f.Add("")

	e := New(WithClock(FixedClock(testNow)), WithLocation(time.UTC), WithCache(false))

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		prog, err := Parse(input)
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error %T is not *ParseError", input, err)
			}

			if pe.Offset < 0 || pe.Offset > len(input) {
				t.Fatalf("Parse(%q) offset %d out of range", input, pe.Offset)
			}

			return
		}

		for i, tok := range prog.All() {
			end := tok.Offset + len(tok.Text)
			if tok.Offset < 0 || end > len(input) || input[tok.Offset:end] != tok.Text {
				t.Fatalf("token %d %q does not match source %q", i, tok.Text, input)
			}
		}

		_, err = e.Run(t.Context(), prog)
		if err != nil && !errors.Is(err, ErrEval) && !errors.Is(err, ErrFormat) {
			t.Fatalf("Run(%q) unexpected error %v", input, err)
		}
	})
}
