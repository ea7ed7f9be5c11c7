package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/nengo/log"
	"github.com/ardnew/nengo/profile"
)

// defaultConfigIndent is the indentation width of a generated configuration
// file.
const defaultConfigIndent = 2

// Init writes a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	attr := slog.String("file", confPath)

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.With(attr, slog.Bool("exists", true)).Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(ctx, flagValues(ktx), yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.With(attr).Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.With(attr).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", attr)

	return nil
}

// flagValues returns the values of the flags worth persisting, in the order
// kong declares them. Help, profiling and unset flags are omitted.
func flagValues(ktx *kong.Context) yaml.MapSlice {
	ignore := []string{"help", profile.Tag, "source"}

	var values yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			values = append(values, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return values
}

// configValue converts a flag value to a YAML-encodable value, or nil if the
// flag is empty.
func configValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil
	case bool, int, int64, uint, uint64, float64:
		return v
	case string:
		if v == "" {
			return nil
		}

		return v
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Slice:
		if rv.Len() == 0 {
			return nil
		}

		list := make([]any, rv.Len())
		for i := range list {
			list[i] = configValue(rv.Index(i).Interface())
		}

		return list

	case reflect.String:
		return configValue(rv.String())
	}

	return fmt.Sprint(val)
}
