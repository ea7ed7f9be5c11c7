package repl

import "errors"

var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("edit declined")
	ErrNoExpression = errors.New("no expression evaluated yet")
)
