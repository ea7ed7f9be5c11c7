package lang

import (
	"bufio"
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"
)

// Line is the outcome of evaluating one line of batch input.
type Line struct {
	Number int    // 1-based line number
	Source string // Expression with surrounding space removed
	Result Result
	Err    error
}

// EvaluateReader evaluates each line read from r with a new [Evaluator]
// configured by opts. See [Evaluator.EvaluateReader].
func EvaluateReader(ctx context.Context, r io.Reader, opts ...Option) iter.Seq2[Line, error] {
	return New(opts...).EvaluateReader(ctx, r)
}

// EvaluateReader evaluates each line read from r as an expression. Blank
// lines and lines beginning with # are skipped.
//
// The sequence yields every evaluated line with a nil error; evaluation
// failures are reported in [Line.Err]. If reading fails or ctx is done, the
// sequence yields that error with a zero Line and stops.
func (e *Evaluator) EvaluateReader(ctx context.Context, r io.Reader) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		// Prefetch input while earlier lines are evaluated.
		ra := readahead.NewReader(r)
		defer ra.Close()

		scan := bufio.NewScanner(ra)
		number := 0

		for scan.Scan() {
			number++

			if err := ctx.Err(); err != nil {
				yield(Line{}, err)

				return
			}

			src := strings.TrimSpace(scan.Text())
			if src == "" || strings.HasPrefix(src, "#") {
				continue
			}

			res, err := e.Evaluate(ctx, src)
			if !yield(Line{Number: number, Source: src, Result: res, Err: err}, nil) {
				return
			}
		}

		if err := scan.Err(); err != nil {
			yield(Line{}, ErrReadInput.Wrap(err).
				With(slog.Int("line", number+1)))
		}
	}
}
