// Package lang implements a small expression language for calendar
// arithmetic.
//
// Expressions combine date literals written as Japanese date fragments
// (2020年9月8日, 3月, 4日), the keyword now, parentheses, and the operators
// + - * /. An expression evaluates to a [Result] holding either an absolute
// point in time or a span of time.
//
// # Grammar
//
//	expr        → term (('+' | '-') term)*
//	term        → atom (('*' | '/') atom)*
//	atom        → ('+' | '-')* (date | 'now' | '(' expr ')')
//	date        → (digits '年')? (digits{1,2} '月')? (digits{1,2} '日')?
//
// A date literal must contain at least one fragment, and the fragments must
// appear in year, month, day order without intervening space. Digits may be
// ASCII or full-width. The keyword now is matched without regard to case.
// Whitespace between tokens is ignored.
//
// # Evaluation
//
// [Parse] produces a [Program]: the tokens of the expression in postfix order.
// The evaluator reduces a private copy of that sequence by popping from its
// end, so no state is shared between evaluations.
//
// Date literals stay unresolved until an operator needs them:
//
//   - a - b: if a is already a point in time, the result is a, unchanged.
//     Otherwise both operands must be complete dates (Y年M月D日) and the
//     result is the span between them.
//   - a + b: a must be a complete date or a point in time; b is an offset
//     converted to days as year*365 + month*30 + day, or a span. If b is
//     itself a complete date or point in time, the result is a, unchanged.
//   - * and / are recognized by the grammar but have no defined meaning and
//     fail with [ErrUnsupportedOperator].
//
// Leading signs on an operand are accepted and ignored: 2020年9月8日 + -4日
// is 2020年9月12日. The first rule makes 2020年9月8日 + 4日 - 3日 evaluate to
// 2020年9月12日.
//
// # Errors
//
// Failures are reported as [*ParseError] (the input does not match the
// grammar), [*FormatError] (a literal cannot be read as a calendar date), or
// [*EvalError] (the operands do not fit the operator). Each matches the
// corresponding sentinel [ErrParse], [ErrFormat], or [ErrEval] with
// [errors.Is].
package lang
