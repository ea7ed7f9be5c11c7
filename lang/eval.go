package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ardnew/nengo/log"
	"github.com/ardnew/nengo/pkg"
)

// Evaluator evaluates expressions. The zero value is not usable; create
// evaluators with [New]. An Evaluator is safe for concurrent use.
type Evaluator struct {
	clock  Clock
	loc    *time.Location
	logger log.Logger
	cache  bool
}

// New returns an [Evaluator] using the system clock, the local timezone, and
// the shared program cache, modified by opts.
func New(opts ...Option) *Evaluator {
	e := pkg.Apply(Evaluator{
		clock: SystemClock,
		loc:   time.Local,
		cache: true,
	}, opts...)

	return &e
}

// Evaluate parses and evaluates expression with a new [Evaluator]
// configured by opts.
func Evaluate(ctx context.Context, expression string, opts ...Option) (Result, error) {
	return New(opts...).Evaluate(ctx, expression)
}

// Location returns the timezone used by e.
func (e *Evaluator) Location() *time.Location { return e.loc }

// Evaluate parses and evaluates expression.
func (e *Evaluator) Evaluate(ctx context.Context, expression string) (Result, error) {
	var (
		prog *Program
		err  error
	)

	if e.cache {
		prog, err = compile(ctx, e.logger, expression)
	} else {
		prog, err = Parse(expression)
	}

	if err != nil {
		e.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return Result{}, err
	}

	return e.Run(ctx, prog)
}

// Run evaluates a parsed program. The program is not modified.
func (e *Evaluator) Run(ctx context.Context, prog *Program) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	r := reduction{
		ctx:    ctx,
		logger: e.logger,
		loc:    e.loc,
		now:    e.clock.Now().In(e.loc),
		stack:  prog.Tokens(),
	}

	e.logger.TraceContext(ctx, "evaluate",
		slog.String("postfix", prog.String()),
		slog.Time("now", r.now),
		slog.String("location", e.loc.String()),
	)

	top, err := r.reduce(Token{})
	if err != nil {
		e.logger.DebugContext(ctx, "evaluation failed", slog.Any("error", err))

		return Result{}, err
	}

	if n := len(r.stack); n > 0 {
		err := &EvalError{
			Token:  r.stack[n-1],
			Reason: ErrTrailingOperands,
			Detail: strconv.Itoa(n) + " token(s) not consumed",
		}
		e.logger.DebugContext(ctx, "evaluation failed", slog.Any("error", err))

		return Result{}, err
	}

	res, err := r.result(top)
	if err != nil {
		e.logger.DebugContext(ctx, "evaluation failed", slog.Any("error", err))

		return Result{}, err
	}

	e.logger.TraceContext(ctx, "evaluated",
		slog.String("kind", res.Kind().String()),
		slog.String("result", res.String()),
	)

	return res, nil
}

type operandKind int

const (
	operandLiteral operandKind = iota
	operandPoint
	operandSpan
)

// operand is an intermediate value. Literals remain unresolved until an
// operator decides whether they are a date or an offset.
type operand struct {
	kind  operandKind
	tok   Token
	point time.Time
	span  Span
}

// reduction is the state of one evaluation. Its stack is a private copy of
// the program's tokens, consumed from the end.
type reduction struct {
	ctx    context.Context
	logger log.Logger
	loc    *time.Location
	now    time.Time
	stack  []Token
}

// reduce pops one token and returns its value, recursively reducing the
// operands of operators. parent is the operator waiting on the value.
func (r *reduction) reduce(parent Token) (operand, error) {
	n := len(r.stack)
	if n == 0 {
		return operand{}, &EvalError{Token: parent, Reason: ErrStackUnderflow}
	}

	tok := r.stack[n-1]
	r.stack = r.stack[:n-1]

	switch tok.Kind {
	case TokenDate:
		return operand{kind: operandLiteral, tok: tok}, nil

	case TokenNow:
		return operand{kind: operandPoint, tok: tok, point: r.now}, nil

	case TokenOperator:
		switch tok.Op {
		case OpAdd:
			return r.add(tok)
		case OpSub:
			return r.subtract(tok)
		case OpMul, OpDiv:
			return operand{}, &EvalError{Token: tok, Reason: ErrUnsupportedOperator}
		}
	}

	return operand{}, &EvalError{
		Token:  tok,
		Reason: ErrOperandType,
		Detail: "unrecognized token " + tok.Kind.String(),
	}
}

// operands reduces the right operand, then the left.
func (r *reduction) operands(tok Token) (op1, op2 operand, err error) {
	if op2, err = r.reduce(tok); err != nil {
		return op1, op2, err
	}

	op1, err = r.reduce(tok)

	return op1, op2, err
}

func (r *reduction) subtract(tok Token) (operand, error) {
	op1, op2, err := r.operands(tok)
	if err != nil {
		return operand{}, err
	}

	// A point on the left absorbs the subtraction.
	if op1.kind == operandPoint {
		r.logger.TraceContext(r.ctx, "subtraction ignored",
			slog.String("left", op1.tok.Text),
			slog.Int("offset", tok.Offset),
		)

		return op1, nil
	}

	p1, err := r.point(op1, tok)
	if err != nil {
		return operand{}, err
	}

	p2, err := r.point(op2, tok)
	if err != nil {
		return operand{}, err
	}

	return operand{kind: operandSpan, tok: tok, span: between(p1, p2)}, nil
}

func (r *reduction) add(tok Token) (operand, error) {
	op1, op2, err := r.operands(tok)
	if err != nil {
		return operand{}, err
	}

	p1, err := r.point(op1, tok)
	if err != nil {
		return operand{}, err
	}

	var offset Span

	switch {
	case op2.kind == operandPoint,
		op2.kind == operandLiteral && op2.tok.Date.IsDate():
		r.logger.DebugContext(r.ctx, "ambiguous addition of two dates",
			slog.String("right", op2.tok.Text),
			slog.Int("offset", tok.Offset),
		)

		return operand{kind: operandPoint, tok: tok, point: p1}, nil

	case op2.kind == operandSpan:
		offset = op2.span

	default:
		offset = Span{Days: op2.tok.Date.Days()}
	}

	return operand{kind: operandPoint, tok: tok, point: shift(p1, offset)}, nil
}

// point coerces op to a point in time.
func (r *reduction) point(op operand, at Token) (time.Time, error) {
	switch op.kind {
	case operandPoint:
		return op.point, nil

	case operandSpan:
		return time.Time{}, &EvalError{
			Token:  at,
			Reason: ErrOperandType,
			Detail: "duration " + op.span.String() + " used as a date",
		}
	}

	return literalDate(op.tok, r.loc)
}

func (r *reduction) result(op operand) (Result, error) {
	switch op.kind {
	case operandPoint:
		return PointResult(op.point), nil
	case operandSpan:
		return DurationResult(op.span), nil
	}

	t, err := r.point(op, op.tok)
	if err != nil {
		return Result{}, err
	}

	return PointResult(t), nil
}

// literalDate reads a date literal as midnight of that date in loc. The
// literal must name a complete date with a four-digit year.
func literalDate(tok Token, loc *time.Location) (time.Time, error) {
	f := tok.Date

	invalid := func(reason string) (time.Time, error) {
		return time.Time{}, &FormatError{
			Literal: tok.Text,
			Offset:  tok.Offset,
			Reason:  reason,
		}
	}

	switch {
	case !f.IsDate():
		return invalid("year, month and day are required")
	case yearWidth(tok.Text) != 4:
		return invalid("year must have four digits")
	case f.Year < 1:
		return invalid("year out of range")
	case f.Month < 1 || f.Month > 12:
		return invalid("month out of range")
	case f.Day < 1 || f.Day > daysIn(f.Year, time.Month(f.Month)):
		return invalid("day out of range")
	}

	return time.Date(f.Year, time.Month(f.Month), f.Day, 0, 0, 0, 0, loc), nil
}

func yearWidth(text string) int {
	i := strings.IndexRune(text, '年')
	if i < 0 {
		return 0
	}

	return utf8.RuneCountInString(text[:i])
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// between returns the span from b to a, comparing wall clocks so that
// daylight saving transitions do not change the number of days.
func between(a, b time.Time) Span {
	da, ca := civil(a)
	db, cb := civil(b)

	return SpanOf(da-db, ca-cb)
}

// civil returns the day number and time of day of t's wall clock.
func civil(t time.Time) (int, time.Duration) {
	y, m, d := t.Date()
	h, mi, s := t.Clock()

	days := int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
	clock := time.Duration(h)*time.Hour +
		time.Duration(mi)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())

	return days, clock
}

// shift moves t's wall clock by s.
func shift(t time.Time, s Span) time.Time {
	y, m, d := t.Date()
	h, mi, sec := t.Clock()

	c := time.Date(y, m, d+s.Days, h, mi, sec, t.Nanosecond(), time.UTC).Add(s.Clock)

	return time.Date(
		c.Year(), c.Month(), c.Day(),
		c.Hour(), c.Minute(), c.Second(), c.Nanosecond(),
		t.Location(),
	)
}
