package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/nengo/log"
	"github.com/ardnew/nengo/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

var defaultDirMode os.FileMode = 0o700

// configPath returns the path of the configuration file with extension ext in
// the default configuration directory.
func configPath(ext string) string {
	return filepath.Join(pkg.ConfigDir(), baseConfig+ext)
}

// configPaths returns the candidate configuration files with extension ext in
// every directory of [pkg.SearchPath], highest precedence first.
func configPaths(ext string) []string {
	dirs := pkg.SearchPath()
	paths := make([]string, 0, len(dirs))

	for _, dir := range dirs {
		paths = append(paths, filepath.Join(dir, baseConfig+ext))
	}

	return paths
}

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Nested mappings are flattened by joining keys with "-", so the following
// two files are equivalent:
//
//	log:
//	  level: debug
//	  pretty: false
//
//	log-level: debug
//	log_pretty: false
//
// A file that cannot be decoded is ignored with a warning so that a broken
// configuration never prevents the command line from being parsed.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg := config{}

	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		name := ""
		if f, ok := r.(interface{ Name() string }); ok {
			name = f.Name()
		}

		log.Warn("ignoring configuration file",
			slog.String("file", name),
			slog.String("cause", err.Error()),
		)

		return cfg, nil
	}

	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened configuration document.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
//
// Keys may spell the flag name with either hyphens or underscores.
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(key, v)
		case []any:
			list := make([]any, len(v))
			for i, item := range v {
				list[i] = scalar(item)
			}

			c[key] = list
		default:
			c[key] = scalar(v)
		}
	}
}

// scalar converts a decoded YAML scalar to a value kong can map. Kong parses
// numbers from their string form.
func scalar(v any) any {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return v
	}
}
