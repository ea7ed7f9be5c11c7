package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/ardnew/nengo/lang"
	"github.com/ardnew/nengo/log"
	"github.com/ardnew/nengo/render"
)

// Output formats accepted by the --format flags.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeResult writes res to w in the given format. The text format renders
// res with tmpl.
func writeResult(
	ctx context.Context,
	w io.Writer,
	format string,
	tmpl *render.Template,
	res lang.Result,
) error {
	switch format {
	case formatJSON:
		data, err := json.Marshal(res)
		if err != nil {
			return ErrMarshal.With(slog.String("format", format)).Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case formatYAML:
		data, err := yaml.MarshalContext(ctx, res.ToMap(), yaml.Flow(true))
		if err != nil {
			return ErrMarshal.With(slog.String("format", format)).Wrap(err)
		}

		_, err = fmt.Fprint(w, string(data))

		return err
	}

	text, err := tmpl.Render(res)
	if err != nil {
		return ErrRender.With(slog.String("template", tmpl.Source())).Wrap(err)
	}

	_, err = fmt.Fprintln(w, text)

	return err
}

// newEvaluator returns an evaluator configured with the shared options in
// ctx, and the logger it uses. Every record carries a fresh eval_id.
func newEvaluator(ctx context.Context, attrs ...slog.Attr) (*lang.Evaluator, log.Logger) {
	logger := log.With(slog.String("eval_id", uuid.NewString())).With(attrs...)
	opts := append(slices.Clip(optionsFrom(ctx)), lang.WithLogger(logger))

	return lang.New(opts...), logger
}
