package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// SearchPathEnv names the environment variable holding additional directories
// searched for configuration files, using the same list syntax as PATH.
var SearchPathEnv = strings.ToUpper(Name) + "_PATH"

// Prefix returns the base name used for the configuration and cache
// directories.
//
// It is the base name of the executable file with the following substitutions:
//   - "__debug_bin<N>" (default output of the dlv debugger) becomes [Name]
//   - leading dots are removed
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		base := filepath.Base(id)
		id = strings.TrimSuffix(base, filepath.Ext(base))

		id = regexp.MustCompile(`^__debug_bin\d*$`).ReplaceAllString(id, Name)
		id = strings.TrimLeft(id, ".")

		if id == "" {
			return Name
		}

		return id
	},
)

// userDir joins [Prefix] to the directory returned by locate. If locate fails,
// the home directory joined with fallback is used, and then the working
// directory.
func userDir(locate func() (string, error), fallback string) string {
	dir, err := locate()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if wd, werr := os.Getwd(); werr == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// ConfigDir returns the default configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the cache directory path used for transient files such as
// the REPL history.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// SearchPath returns the directories searched for configuration files, in
// order of precedence. [ConfigDir] always comes first, followed by the
// directories listed in the environment variable [SearchPathEnv].
// Empty and duplicate entries are removed.
func SearchPath() []string {
	return searchPath(ConfigDir(), os.Getenv(SearchPathEnv))
}

func searchPath(base, list string) []string {
	sep := string(os.PathListSeparator)

	joined := mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(sep),
		mung.WithPrefixItems(base),
		mung.WithFilter(func(s string) bool { return strings.TrimSpace(s) != "" }),
	).String()

	var dirs []string

	for _, dir := range strings.Split(joined, sep) {
		dir = filepath.Clean(strings.TrimSpace(dir))
		if dir == "." || slices.Contains(dirs, dir) {
			continue
		}

		dirs = append(dirs, dir)
	}

	return dirs
}

// MkdirAll creates the configuration and cache directories.
func MkdirAll(perm os.FileMode) error {
	for _, dir := range []string{ConfigDir(), CacheDir()} {
		if err := os.MkdirAll(dir, perm); err != nil {
			return err
		}
	}

	return nil
}
