package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/nengo/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
	)

	logger.Info("evaluated", slog.String("expr", "2020年9月8日 + 4日"))
	logger.Debug("not shown")
	// Output:
	// level=INFO msg=evaluated expr="2020年9月8日 + 4日"
}
