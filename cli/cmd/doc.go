// Package cmd implements the nengo subcommands.
//
// Commands read their shared state from the [context.Context] passed to Run:
// the parsed [kong.Context] ([WithContext]), evaluator options such as the
// deployment time zone ([WithOptions]), the result template
// ([WithTemplate]), the --source files ([WithSourceFiles]) and the output
// writer ([WithOutput]).
package cmd

var (
	// CacheIdentifier is the kong variable holding the path of the cache
	// directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file written by [Init].
	ConfigIdentifier = "config"
)
