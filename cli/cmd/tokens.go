package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/nengo/lang"
)

// Tokens prints the postfix program an expression compiles to.
type Tokens struct {
	Expression []string `arg:"" help:"Expression to compile" name:"expression"`
	Format     string   `       help:"Output format"          default:"text" enum:"text,json,yaml" short:"o"`
	Indent     int      `       help:"Indentation width; 0 prints a single line" default:"2"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	expr := strings.TrimSpace(strings.Join(t.Expression, " "))
	if expr == "" {
		return ErrNoExpression.With(slog.String("command", "tokens"))
	}

	prog, err := lang.Compile(ctx, expr)
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "tokens"),
			slog.String("expression", expr),
		)
	}

	w := outputFrom(ctx)

	switch t.Format {
	case formatJSON:
		err = prog.FormatJSON(ctx, w, t.Indent)
	case formatYAML:
		err = prog.FormatYAML(ctx, w, t.Indent)
	default:
		err = prog.Format(ctx, w, t.Indent)
	}

	if err != nil {
		return ErrMarshal.With(slog.String("format", t.Format)).Wrap(err)
	}

	return nil
}
