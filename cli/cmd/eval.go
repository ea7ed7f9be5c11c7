package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/nengo/lang"
)

// Eval evaluates one expression given on the command line.
//
// Arguments are joined with spaces, so the expression may be passed quoted
// or as separate words. Place a signed operand after "--" so it is not
// taken for a flag:
//
//	nengo -- -(2020年9月8日 - 2020年3月4日)
type Eval struct {
	Expression []string `arg:"" help:"Expression to evaluate" name:"expression" optional:""`
	Format     string   `       help:"Output format"          default:"text"    enum:"text,json,yaml" short:"o"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	expr := strings.TrimSpace(strings.Join(e.Expression, " "))
	if expr == "" {
		return ErrNoExpression.With(slog.String("command", "eval"))
	}

	ev, logger := newEvaluator(ctx, slog.String("command", "eval"))

	res, err := ev.Evaluate(ctx, expr)
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "eval"),
			slog.String("expression", expr),
		)
	}

	logger.DebugContext(ctx, "evaluated",
		slog.String("expression", expr),
		slog.Any("result", res),
	)

	return writeResult(ctx, outputFrom(ctx), e.Format, templateFrom(ctx), res)
}
