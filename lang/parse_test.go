package lang

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestParse_Postfix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2020年9月8日", "2020年9月8日"},
		{"2020年9月8日 + 4日", "2020年9月8日 4日 +"},
		{"2020年9月8日 + 4日 - 3日", "2020年9月8日 4日 + 3日 -"},
		{"2020年9月8日 - (1日 + 2日)", "2020年9月8日 1日 2日 + -"},
		{"1日 + 2日 * 3日", "1日 2日 3日 * +"},
		{"1日 * 2日 / 3日", "1日 2日 * 3日 /"},
		{"NOW - 2020年1月1日", "NOW 2020年1月1日 -"},
		{"-4日", "4日"},
		{"--4日", "4日"},
		{"+-+4日", "4日"},
		{"- - - 4日", "4日"},
		{"-(1日 + 2日)", "1日 2日 +"},
		{"2020年9月8日 - -3日", "2020年9月8日 3日 -"},
		{"2020年9月8日 + -4日", "2020年9月8日 4日 +"},
		{"２０２０年９月８日", "２０２０年９月８日"},
		{"  3月  ", "3月"},
		{"\t1年2月3日\n", "1年2月3日"},
		{"(((now)))", "now"},
		{"now+1日", "now 1日 +"},
		{"2020年9月8日　+　4日", "2020年9月8日 4日 +"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if got := prog.String(); got != tt.want {
				t.Errorf("postfix = %q, want %q", got, tt.want)
			}

			if prog.Source() != tt.input {
				t.Errorf("Source() = %q, want %q", prog.Source(), tt.input)
			}
		})
	}
}

func TestParse_Fragment(t *testing.T) {
	tests := []struct {
		input string
		want  Fragment
	}{
		{"2020年9月8日", Fragment{Year: 2020, Month: 9, Day: 8, Fields: FieldDate}},
		{"3月4日", Fragment{Month: 3, Day: 4, Fields: FieldMonth | FieldDay}},
		{"2年", Fragment{Year: 2, Fields: FieldYear}},
		{"2020年12日", Fragment{Year: 2020, Day: 12, Fields: FieldYear | FieldDay}},
		{"１２日", Fragment{Day: 12, Fields: FieldDay}},
		{"07月", Fragment{Month: 7, Fields: FieldMonth}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			toks := prog.Tokens()
			if len(toks) != 1 || toks[0].Kind != TokenDate {
				t.Fatalf("tokens = %v, want a single date", toks)
			}

			if toks[0].Date != tt.want {
				t.Errorf("fragment = %+v, want %+v", toks[0].Date, tt.want)
			}

			if toks[0].Text != tt.input || toks[0].Offset != 0 {
				t.Errorf("text = %q at %d, want %q at 0",
					toks[0].Text, toks[0].Offset, tt.input)
			}
		})
	}
}

func TestParse_TokenOffsets(t *testing.T) {
	input := "2020年9月8日 - -(3日)"

	prog, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := []struct {
		kind   TokenKind
		op     Operator
		offset int
	}{
		{TokenDate, 0, 0},
		{TokenDate, 0, 20},
		{TokenOperator, OpSub, 16},
	}

	toks := prog.Tokens()
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}

	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Op != w.op || toks[i].Offset != w.offset {
			t.Errorf("token %d = {%v %v %d}, want {%v %v %d}",
				i, toks[i].Kind, toks[i].Op, toks[i].Offset, w.kind, w.op, w.offset)
		}

		if got := input[toks[i].Offset : toks[i].Offset+len(toks[i].Text)]; got != toks[i].Text {
			t.Errorf("token %d text %q does not match source %q", i, toks[i].Text, got)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		offset   int
		column   int
		found    string
		expected []string
		reason   string
	}{
		{
			name:     "empty",
			input:    "",
			expected: []string{"date", "now", "("},
		},
		{
			name:     "unclosed paren",
			input:    "(2020年",
			offset:   8,
			column:   7,
			expected: []string{")", "+", "-", "*", "/"},
		},
		{
			name:     "space inside literal",
			input:    "2020年 9月",
			offset:   8,
			column:   7,
			found:    "9",
			expected: []string{"+", "-", "*", "/", "end of input"},
		},
		{
			name:   "fragments out of order",
			input:  "9月2020年",
			offset: 8,
			column: 7,
			found:  "年",
			reason: "date fragments must appear in 年月日 order",
		},
		{
			name:   "repeated fragment",
			input:  "3月4月",
			offset: 5,
			column: 4,
			found:  "月",
			reason: "date fragments must appear in 年月日 order",
		},
		{
			name:   "three digit month",
			input:  "123月",
			found:  "1",
			reason: "at most two digits allowed before 月",
		},
		{
			name:     "missing suffix at end",
			input:    "2020年9",
			offset:   8,
			column:   7,
			expected: []string{"月", "日"},
		},
		{
			name:     "unknown suffix",
			input:    "2020x",
			offset:   4,
			column:   5,
			found:    "x",
			expected: []string{"年", "月", "日"},
		},
		{
			name:     "keyword prefix",
			input:    "nowx",
			found:    "n",
			expected: []string{"date", "now", "("},
		},
		{
			name:     "suffix without digits",
			input:    "年",
			found:    "年",
			expected: []string{"date", "now", "("},
		},
		{
			name:     "dangling operator",
			input:    "1日 +",
			offset:   len("1日 +"),
			column:   5,
			expected: []string{"date", "now", "("},
		},
		{
			name:     "unbalanced close",
			input:    "1日)",
			offset:   4,
			column:   3,
			found:    ")",
			expected: []string{"+", "-", "*", "/", "end of input"},
		},
		{
			name:   "number too large",
			input:  "9999999999年",
			found:  "9",
			reason: "number too large",
		},
		{
			name:   "seven digit year",
			input:  "1000000年",
			found:  "1",
			reason: "number too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("errors.Is(err, ErrParse) = false for %v", err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}

			column := tt.column
			if column == 0 {
				column = 1
			}

			if pe.Offset != tt.offset || pe.Column != column {
				t.Errorf("position = %d (column %d), want %d (column %d)",
					pe.Offset, pe.Column, tt.offset, column)
			}

			if pe.Found != tt.found {
				t.Errorf("Found = %q, want %q", pe.Found, tt.found)
			}

			if !slices.Equal(pe.Expected, tt.expected) {
				t.Errorf("Expected = %q, want %q", pe.Expected, tt.expected)
			}

			if pe.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", pe.Reason, tt.reason)
			}
		})
	}
}

func TestParse_Nesting(t *testing.T) {
	nest := func(n int) string {
		return strings.Repeat("(", n) + "1日" + strings.Repeat(")", n)
	}

	if _, err := Parse(nest(MaxDepth)); err != nil {
		t.Errorf("Parse at MaxDepth: %v", err)
	}

	_, err := Parse(nest(MaxDepth + 1))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse beyond MaxDepth error = %v, want *ParseError", err)
	}

	if pe.Offset != MaxDepth {
		t.Errorf("Offset = %d, want %d", pe.Offset, MaxDepth)
	}
}

func TestParseError_Message(t *testing.T) {
	_, err := Parse("(2020年")

	want := `parse error at column 7: unexpected end of input ` +
		`(expected ")", "+", "-", "*", "/")`
	if err == nil || err.Error() != want {
		t.Errorf("error = %v\nwant    %s", err, want)
	}

	_, err = Parse("123月")

	want = `parse error at column 1: unexpected "1" (at most two digits allowed before 月)`
	if err == nil || err.Error() != want {
		t.Errorf("error = %v\nwant    %s", err, want)
	}
}

func TestParseError_Snippet(t *testing.T) {
	_, err := Parse("(2020年")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}

	// Five narrow runes and one wide rune precede the marker.
	want := "  | (2020年\n  | " + strings.Repeat(" ", 7) + "^\n"
	if got := pe.Snippet(); got != want {
		t.Errorf("Snippet() =\n%s\nwant\n%s", got, want)
	}
}

func TestProgram_TokensCopy(t *testing.T) {
	prog, err := Parse("1日 + 2日")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	toks := prog.Tokens()
	toks[0].Text = "changed"

	if prog.String() != "1日 2日 +" {
		t.Errorf("modifying Tokens() changed the program: %q", prog.String())
	}

	n := 0
	for i, tok := range prog.All() {
		if i != n || tok.Text == "changed" {
			t.Errorf("All() yielded %d %v", i, tok)
		}

		n++
	}

	if n != prog.Len() {
		t.Errorf("All() yielded %d tokens, Len() = %d", n, prog.Len())
	}
}
