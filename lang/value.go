package lang

import (
	"strconv"
	"strings"
	"time"
)

// Field identifies the components present in a [Fragment].
type Field uint8

const (
	FieldYear Field = 1 << iota
	FieldMonth
	FieldDay

	FieldDate = FieldYear | FieldMonth | FieldDay
)

// Fragment is the numeric content of a date literal. Components missing from
// the literal are zero and absent from Fields.
type Fragment struct {
	Year   int
	Month  int
	Day    int
	Fields Field
}

// Has reports whether all of the given fields are present.
func (f Fragment) Has(fields Field) bool { return f.Fields&fields == fields }

// IsDate reports whether the fragment names a complete calendar date.
func (f Fragment) IsDate() bool { return f.Has(FieldDate) }

// Days converts the fragment to a number of days, counting a year as 365 days
// and a month as 30 days. The conversion is intentionally approximate.
func (f Fragment) Days() int {
	return f.Year*365 + f.Month*30 + f.Day
}

// String returns the fragment in literal form, such as "3月4日".
func (f Fragment) String() string {
	var sb strings.Builder

	if f.Has(FieldYear) {
		sb.WriteString(strconv.Itoa(f.Year) + "年")
	}

	if f.Has(FieldMonth) {
		sb.WriteString(strconv.Itoa(f.Month) + "月")
	}

	if f.Has(FieldDay) {
		sb.WriteString(strconv.Itoa(f.Day) + "日")
	}

	return sb.String()
}

const day = 24 * time.Hour

// Span is a length of time measured in whole days plus a time of day.
//
// Spans are normalized so that Clock is always in [0, 24h); a negative span
// of one hour is Days -1 and Clock 23h. Unlike [time.Duration], a Span can
// represent the distance between any two dates.
type Span struct {
	Days  int
	Clock time.Duration
}

// SpanOf returns the normalized span of the given days and duration.
func SpanOf(days int, d time.Duration) Span {
	days += int(d / day)
	d %= day

	if d < 0 {
		d += day
		days--
	}

	return Span{Days: days, Clock: d}
}

// Neg returns the span with the opposite sign.
func (s Span) Neg() Span { return SpanOf(-s.Days, -s.Clock) }

// IsZero reports whether the span is empty.
func (s Span) IsZero() bool { return s.Days == 0 && s.Clock == 0 }

// Duration returns the span as a [time.Duration], saturating at the limits of
// that type.
func (s Span) Duration() time.Duration {
	const maxDays = int(time.Duration(1<<63-1) / day)

	switch {
	case s.Days > maxDays-1:
		return time.Duration(1<<63 - 1)
	case s.Days < -maxDays+1:
		return time.Duration(-1 << 63)
	}

	return time.Duration(s.Days)*day + s.Clock
}

// String formats the span as days followed by the time of day when it is not
// zero, such as "188日" or "-1日 23時間0分0秒".
func (s Span) String() string {
	out := strconv.Itoa(s.Days) + "日"
	if s.Clock == 0 {
		return out
	}

	h := int(s.Clock / time.Hour)
	m := int(s.Clock % time.Hour / time.Minute)
	sec := s.Clock % time.Minute

	out += " " + strconv.Itoa(h) + "時間" + strconv.Itoa(m) + "分"

	if sec%time.Second == 0 {
		return out + strconv.Itoa(int(sec/time.Second)) + "秒"
	}

	return out + strconv.FormatFloat(sec.Seconds(), 'f', -1, 64) + "秒"
}

// Kind identifies the variant held by a [Result].
type Kind int

const (
	KindInvalid Kind = iota
	KindPoint
	KindDuration
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindDuration:
		return "duration"
	}

	return "invalid"
}

// Result is the value of an expression: either a point in time or a span.
// The zero Result is invalid.
type Result struct {
	kind  Kind
	point time.Time
	span  Span
}

// PointResult returns a [Result] holding the point in time t.
func PointResult(t time.Time) Result { return Result{kind: KindPoint, point: t} }

// DurationResult returns a [Result] holding the span s.
func DurationResult(s Span) Result { return Result{kind: KindDuration, span: s} }

// Kind returns the variant held by r.
func (r Result) Kind() Kind { return r.kind }

// Point returns the point in time held by r, if any.
func (r Result) Point() (time.Time, bool) { return r.point, r.kind == KindPoint }

// Duration returns the span held by r, if any.
func (r Result) Duration() (Span, bool) { return r.span, r.kind == KindDuration }

// Equal reports whether r and o hold the same variant and value. Points are
// compared as instants.
func (r Result) Equal(o Result) bool {
	if r.kind != o.kind {
		return false
	}

	switch r.kind {
	case KindPoint:
		return r.point.Equal(o.point)
	case KindDuration:
		return r.span == o.span
	}

	return true
}

// pointLayout formats points at midnight; times of day are appended with
// clockLayout.
const (
	pointLayout = "2006年1月2日"
	clockLayout = " 15:04:05.999999999"
)

// String formats r for display: points as "2020年9月12日", with the time of
// day appended unless it is midnight, and spans as described by
// [Span.String].
func (r Result) String() string {
	switch r.kind {
	case KindPoint:
		if h, m, s := r.point.Clock(); h == 0 && m == 0 && s == 0 && r.point.Nanosecond() == 0 {
			return r.point.Format(pointLayout)
		}

		return r.point.Format(pointLayout + clockLayout)

	case KindDuration:
		return r.span.String()
	}

	return "<invalid>"
}
