// Package render formats evaluation results for display.
//
// Without a template, results are shown in their default form (see
// [lang.Result.String]). A template is an expr-lang expression evaluated
// against variables describing the result:
//
//	kind     "point" or "duration"
//	text     default rendering
//	days     whole days of a duration
//	hours    length of a duration in hours
//	seconds  length of a duration in seconds
//	year     calendar fields of a point
//	month
//	day
//	hour
//	minute
//	weekday  day of the week of a point, as a single kanji (日月火水木金土)
//	unix     seconds since the Unix epoch of a point
//	iso      RFC 3339 form of a point, or Go duration syntax of a duration
//
// The function pad(n, width) formats an integer with leading zeros.
// Whatever value the template produces is converted to text with fmt.Sprint.
package render

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/nengo/lang"
)

// Predefined errors (sentinel values).
var (
	ErrCompile = lang.NewError("template compilation failed")
	ErrRun     = lang.NewError("template evaluation failed")
)

var weekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// Template is a compiled rendering template. A nil *Template renders
// results in their default form.
type Template struct {
	source  string
	program *vm.Program
}

// Compile compiles source into a [Template]. An empty source yields a nil
// Template.
func Compile(source string) (*Template, error) {
	if source == "" {
		return nil, nil
	}

	program, err := expr.Compile(source,
		expr.Env(env(lang.Result{})),
		expr.Function("pad", pad, new(func(int, int) string)),
	)
	if err != nil {
		return nil, ErrCompile.Wrap(err).
			With(slog.String("source", source))
	}

	return &Template{source: source, program: program}, nil
}

// Source returns the template's source text.
func (t *Template) Source() string {
	if t == nil {
		return ""
	}

	return t.source
}

// Render formats res.
func (t *Template) Render(res lang.Result) (string, error) {
	if t == nil {
		return res.String(), nil
	}

	out, err := expr.Run(t.program, env(res))
	if err != nil {
		return "", ErrRun.Wrap(err).
			With(slog.String("source", t.source))
	}

	return fmt.Sprint(out), nil
}

// env returns the template variables describing res. Every variable is
// present, with its zero value when it does not apply to the result's kind.
func env(res lang.Result) map[string]any {
	m := map[string]any{
		"kind":    res.Kind().String(),
		"text":    res.String(),
		"days":    0,
		"hours":   0.0,
		"seconds": 0.0,
		"year":    0,
		"month":   0,
		"day":     0,
		"hour":    0,
		"minute":  0,
		"weekday": "",
		"unix":    int64(0),
		"iso":     "",
	}

	if t, ok := res.Point(); ok {
		m["year"] = t.Year()
		m["month"] = int(t.Month())
		m["day"] = t.Day()
		m["hour"] = t.Hour()
		m["minute"] = t.Minute()
		m["weekday"] = weekdays[t.Weekday()]
		m["unix"] = t.Unix()
		m["iso"] = t.Format(time.RFC3339)
	}

	if s, ok := res.Duration(); ok {
		d := s.Duration()
		m["days"] = s.Days
		m["hours"] = d.Hours()
		m["seconds"] = d.Seconds()
		m["iso"] = d.String()
	}

	return m
}

func pad(params ...any) (any, error) {
	n, _ := params[0].(int)
	width, _ := params[1].(int)

	if n < 0 {
		return fmt.Sprintf("-%0*d", width, -n), nil
	}

	return fmt.Sprintf("%0*d", width, n), nil
}
