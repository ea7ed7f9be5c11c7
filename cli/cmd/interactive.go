package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/nengo/cli/cmd/repl"
	"github.com/ardnew/nengo/log"
	"github.com/ardnew/nengo/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	History bool `help:"Persist input history in the cache directory" default:"true" negatable:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg := repl.Config{
		Options:  optionsFrom(ctx),
		Template: templateFrom(ctx),
		Logger:   log.With(slog.String("command", "repl")),
	}

	if r.History {
		dir := pkg.CacheDir()
		if ktx := kongContextFrom(ctx); ktx != nil {
			if v, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
				dir = v
			}
		}

		cfg.HistoryFile = repl.HistoryPath(dir)
	}

	return repl.Run(ctx, cfg)
}
