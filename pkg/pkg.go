//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the nengo module embedded at build time.
// It is printed by the version subcommand.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier. It appears in help
	// text, default config paths, and environment variable prefixes.
	Name = "nengo"
	// Description is a short summary of the project used in help output.
	Description = "Calendar date and duration calculator"
)

// Option is a functional option that transforms a configuration value of
// type T and returns the result.
type Option[T any] func(T) T

// Apply returns the result of applying each of the given options to v, in
// order. Nil options are skipped.
func Apply[T any](v T, opts ...Option[T]) T {
	for _, opt := range opts {
		if opt != nil {
			v = opt(v)
		}
	}

	return v
}
