package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/ardnew/nengo/lang"
	"github.com/ardnew/nengo/pkg"
)

// Batch evaluates one expression per line of the --source files, or of stdin
// when no source is given. Blank lines and lines starting with # are skipped.
type Batch struct {
	Format string `help:"Output format" default:"text" enum:"text,json,yaml" short:"o"`
	Quiet  bool   `help:"Print results only, without the expression" short:"q"`
}

// Run executes the batch command.
func (b *Batch) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var in io.Reader

	if src := sourceFilesFrom(ctx); src != nil {
		defer src.Close()

		in = src
	} else {
		if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return ErrNoInput.With(slog.String("command", "batch"))
		}

		in = os.Stdin
	}

	batchID := uuid.NewString()
	ev, logger := newEvaluator(ctx,
		slog.String("command", "batch"),
		slog.String("batch_id", batchID),
	)

	w := outputFrom(ctx)
	tmpl := templateFrom(ctx)

	var errs pkg.Errors

	for line, err := range ev.EvaluateReader(ctx, in) {
		if err != nil {
			return err
		}

		attrs := []slog.Attr{
			slog.Int("line", line.Number),
			slog.String("expression", line.Source),
		}

		if line.Err != nil {
			logger.DebugContext(ctx, "line failed", append(attrs, slog.Any("error", line.Err))...)
			errs.Add(lang.WrapError(line.Err).With(attrs...))

			if _, err := fmt.Fprintf(w, "%s: %v\n", line.Source, line.Err); err != nil {
				return err
			}

			continue
		}

		logger.TraceContext(ctx, "line evaluated", attrs...)

		if !b.Quiet && b.Format == formatText {
			if _, err := fmt.Fprintf(w, "%s = ", line.Source); err != nil {
				return err
			}
		}

		if err := writeResult(ctx, w, b.Format, tmpl, line.Result); err != nil {
			return err
		}
	}

	if err := errs.Err(); err != nil {
		return ErrBatchFailed.With(
			slog.String("batch_id", batchID),
			slog.Int("failed", len(errs)),
		).Wrap(err)
	}

	return nil
}
