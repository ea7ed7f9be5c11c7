package lang

import (
	"time"

	"github.com/ardnew/nengo/log"
	"github.com/ardnew/nengo/pkg"
)

// Clock supplies the instant used for the keyword now.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the [Clock] interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the system time.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock returns a [Clock] that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Option configures an [Evaluator].
type Option = pkg.Option[Evaluator]

// WithClock sets the clock sampled for now. A nil clock is ignored.
func WithClock(c Clock) Option {
	return func(e Evaluator) Evaluator {
		if c != nil {
			e.clock = c
		}

		return e
	}
}

// WithLocation sets the timezone in which date literals are interpreted and
// now is expressed. A nil location is ignored.
func WithLocation(loc *time.Location) Option {
	return func(e Evaluator) Evaluator {
		if loc != nil {
			e.loc = loc
		}

		return e
	}
}

// WithLogger sets the logger that receives trace and debug records.
func WithLogger(logger log.Logger) Option {
	return func(e Evaluator) Evaluator {
		e.logger = logger

		return e
	}
}

// WithCache enables or disables the shared program cache used by
// [Evaluator.Evaluate]. The cache is enabled by default.
func WithCache(enabled bool) Option {
	return func(e Evaluator) Evaluator {
		e.cache = enabled

		return e
	}
}
