package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	_ "time/tzdata" // --tz accepts IANA names on hosts without a zoneinfo database

	"github.com/ardnew/nengo/cli"
	"github.com/ardnew/nengo/lang"
	"github.com/ardnew/nengo/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		log.Error("run failed", slog.Any("error", err))

		var perr *lang.ParseError
		if errors.As(err, &perr) {
			fmt.Fprint(os.Stderr, perr.Snippet())
		}

		os.Exit(1)
	}
}
