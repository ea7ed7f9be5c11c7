package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"testing"
)

func TestError(t *testing.T) {
	err := ErrWriteConfig.With(slog.String("path", "config.yaml")).Wrap(ErrFileExists)

	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Errorf("errors.Is(%v) failed for its sentinels", err)
	}

	if errors.Is(err, ErrMarshal) {
		t.Errorf("errors.Is(%v, ErrMarshal) = true", err)
	}

	want := "write configuration file: file exists (use --force to overwrite)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if got := ErrLocation.Wrap(fs.ErrNotExist); !errors.Is(got, fs.ErrNotExist) {
		t.Errorf("errors.Is(%v, fs.ErrNotExist) = false", got)
	}

	attrs := err.LogValue().Group()
	if len(attrs) != 3 || attrs[0].Key != "error" || attrs[1].Key != "cause" || attrs[2].Key != "path" {
		t.Errorf("LogValue() = %v", attrs)
	}
}
