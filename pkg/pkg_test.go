package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "nengo" {
		t.Errorf("Expected Name to be %q, got %q", "nengo", Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestApply(t *testing.T) {
	double := func(n int) int { return n * 2 }
	inc := func(n int) int { return n + 1 }

	got := Apply(3, double, nil, inc)
	if got != 7 {
		t.Errorf("Apply(3, double, nil, inc) = %d, want 7", got)
	}
}

func TestErrors(t *testing.T) {
	var errs Errors

	if errs.Err() != nil {
		t.Fatalf("empty Errors.Err() = %v, want nil", errs.Err())
	}

	first := errors.New("first")
	second := errors.New("second")

	errs.Add(first)
	errs.Add(nil)
	errs.Add(second)

	if len(errs) != 2 {
		t.Fatalf("len(errs) = %d, want 2", len(errs))
	}

	err := errs.Err()
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("errors.Is failed to match collected errors in %v", err)
	}

	if !strings.HasPrefix(err.Error(), "2 errors occurred") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestSearchPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	base := filepath.Join(t.TempDir(), "base")
	extra := filepath.Join(t.TempDir(), "extra")

	tests := []struct {
		name string
		list string
		want []string
	}{
		{"empty list", "", []string{base}},
		{"single extra", extra, []string{base, extra}},
		{"duplicates and blanks", extra + sep + sep + base + sep + extra, []string{base, extra}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchPath(base, tt.list)
			if !slices.Equal(got, tt.want) {
				t.Errorf("searchPath(%q) = %q, want %q", tt.list, got, tt.want)
			}
		})
	}
}

func TestPrefix(t *testing.T) {
	if p := Prefix(); p == "" || strings.HasPrefix(p, ".") {
		t.Errorf("Prefix() = %q, want non-empty without leading dot", p)
	}
}
