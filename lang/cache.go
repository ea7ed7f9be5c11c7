package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/nengo/log"
)

// programCache stores compiled programs keyed by the xxh3 hash of their
// source. Entries are immutable once their sync.Once has run.
var programCache sync.Map

type entry struct {
	source string
	once   sync.Once
	prog   *Program
	err    error
}

// Compile parses source into a [Program], reusing a previously compiled
// program for the same source. Parse errors are cached as well.
func Compile(ctx context.Context, source string) (*Program, error) {
	return compile(ctx, log.Logger{}, source)
}

func compile(ctx context.Context, logger log.Logger, source string) (*Program, error) {
	hash := xxh3.HashString(source)

	value, cached := programCache.LoadOrStore(hash, &entry{source: source})

	cell, ok := value.(*entry)
	if !ok {
		return Parse(source)
	}

	logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", cached),
	)

	// A hash collision leaves an entry for different source.
	if cell.source != source {
		logger.DebugContext(ctx, "cache collision",
			slog.String("source_hash", strconv.FormatUint(hash, 16)),
		)

		return Parse(source)
	}

	cell.once.Do(func() {
		cell.prog, cell.err = Parse(source)
	})

	return cell.prog, cell.err
}

// ClearCache removes all compiled programs.
func ClearCache() {
	programCache.Clear()
}
