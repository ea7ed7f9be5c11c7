package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// ToMap converts r to a native Go map structure.
func (r Result) ToMap() map[string]any {
	m := map[string]any{
		"kind": r.kind.String(),
		"text": r.String(),
	}

	switch r.kind {
	case KindPoint:
		m["point"] = r.point.Format(time.RFC3339Nano)
	case KindDuration:
		m["duration"] = r.span.Duration().String()
		m["days"] = r.span.Days
	}

	return m
}

// MarshalJSON implements json.Marshaler for Result.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// MarshalYAML implements yaml.InterfaceMarshaler for Result.
func (r Result) MarshalYAML() (any, error) {
	return r.ToMap(), nil
}

// ToMap converts t to a native Go map structure.
func (t Token) ToMap() map[string]any {
	m := map[string]any{
		"kind":   t.Kind.String(),
		"text":   t.Text,
		"offset": t.Offset,
	}

	switch t.Kind {
	case TokenOperator:
		m["op"] = t.Op.String()

	case TokenDate:
		if t.Date.Has(FieldYear) {
			m["year"] = t.Date.Year
		}

		if t.Date.Has(FieldMonth) {
			m["month"] = t.Date.Month
		}

		if t.Date.Has(FieldDay) {
			m["day"] = t.Date.Day
		}
	}

	return m
}

// ToMap converts p to a native Go map structure.
func (p *Program) ToMap() map[string]any {
	postfix := make([]any, len(p.tokens))
	for i, t := range p.tokens {
		postfix[i] = t.ToMap()
	}

	return map[string]any{
		"source":  p.source,
		"postfix": postfix,
	}
}

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// MarshalYAML implements yaml.InterfaceMarshaler for Program.
func (p *Program) MarshalYAML() (any, error) {
	return p.ToMap(), nil
}

// Format writes the program to w, one token per line when indent is
// positive and on a single line otherwise.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		_, err := fmt.Fprintln(w, p.String())

		return err
	}

	pad := strings.Repeat(" ", indent)

	for _, t := range p.tokens {
		_, err := fmt.Fprintf(w, "%s%-8s %s\n", pad, t.Kind, t)
		if err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the program as JSON to w.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the program as YAML to w.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
