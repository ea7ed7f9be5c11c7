package pkg

import (
	"fmt"
	"strings"
)

// Errors collects independent failures, such as one per input line of a
// batch, into a single error value.
//
// The zero value is an empty collection. [Errors.Err] returns nil when the
// collection is empty, so it can be returned directly from a function.
type Errors []error

// Add appends err to the collection unless it is nil.
func (e *Errors) Add(err error) {
	if err != nil {
		*e = append(*e, err)
	}
}

// Err returns e as an error, or nil if no errors were collected.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}

	return e
}

// Error returns a summary line followed by each collected error on its own
// line.
func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%d errors occurred", len(e))

	for _, err := range e {
		sb.WriteString("\n\t* ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Unwrap returns the collected errors for use with errors.Is and errors.As.
func (e Errors) Unwrap() []error { return e }
