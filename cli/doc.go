// Package cli contains the command line interface for nengo.
//
// # Usage
//
// The default command evaluates its arguments as one expression:
//
//	nengo 2020年9月8日 - 2020年3月4日
//	nengo --tz Asia/Tokyo 'now + 3日'
//	nengo -- -(2020年9月8日 - 2020年3月4日)
//
// Other commands evaluate files line by line (batch), print the compiled
// postfix program (tokens), start an interactive session (repl), write the
// configuration file (init) and print the version (version).
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory, followed by every directory listed in the
// NENGO_PATH environment variable. Keys name the flags with either hyphens or
// underscores, and nested mappings are joined with hyphens:
//
//	tz: Asia/Tokyo
//	render: 'kind == "point" ? iso : text'
//	log:
//	  level: debug
//
// Command-line flags override configuration values. The init command writes
// the current flag values to the configuration file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o nengo .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
