package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// replaceStdin points os.Stdin at a file holding content for the duration of
// the test.
func replaceStdin(t *testing.T, content string) string {
	t.Helper()

	path := writeFile(t, t.TempDir(), "stdin.txt", content)

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}

	saved := os.Stdin
	os.Stdin = file

	t.Cleanup(func() {
		os.Stdin = saved
		file.Close()
	})

	return path
}

func readSources(t *testing.T, sources ...string) string {
	t.Helper()

	src := sourceFilesFrom(WithSourceFiles(context.Background(), sources))
	if src == nil {
		t.Fatalf("WithSourceFiles(%q) = nil", sources)
	}

	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatal(err)
	}

	return string(data)
}

func TestWithSourceFiles_Empty(t *testing.T) {
	dir := t.TempDir()

	for _, sources := range [][]string{
		nil,
		{},
		{filepath.Join(dir, "missing.txt")},
		{dir},
	} {
		if src := sourceFilesFrom(WithSourceFiles(context.Background(), sources)); src != nil {
			t.Errorf("WithSourceFiles(%q) = %v, want nil", sources, src)
		}
	}
}

func TestWithSourceFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.txt", "2020年9月8日\n")
	second := writeFile(t, dir, "second.txt", "now + 3日\n")

	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		sources []string
		want    string
	}{
		{"single", []string{first}, "2020年9月8日\n"},
		{"ordered", []string{second, first}, "now + 3日\n2020年9月8日\n"},
		{"duplicate", []string{first, first, first}, "2020年9月8日\n"},
		{"relative", []string{first, filepath.Join(dir, ".", "first.txt")}, "2020年9月8日\n"},
		{"symlink", []string{link, first, second}, "2020年9月8日\nnow + 3日\n"},
		{"missing skipped", []string{filepath.Join(dir, "missing.txt"), second}, "now + 3日\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := readSources(t, tt.sources...); got != tt.want {
				t.Errorf("read %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithSourceFiles_Stdin(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "file.txt", "1日\n")

	t.Run("last", func(t *testing.T) {
		replaceStdin(t, "2日\n")

		if got, want := readSources(t, "-", file), "1日\n2日\n"; got != want {
			t.Errorf("read %q, want %q", got, want)
		}
	})

	t.Run("collapsed", func(t *testing.T) {
		replaceStdin(t, "2日\n")

		if got, want := readSources(t, "-", "-", file, "-"), "1日\n2日\n"; got != want {
			t.Errorf("read %q, want %q", got, want)
		}
	})

	t.Run("named by path", func(t *testing.T) {
		path := replaceStdin(t, "2日\n")

		src := sourceFilesFrom(WithSourceFiles(context.Background(), []string{path, file}))
		if src == nil || src.Stdin() == nil {
			t.Fatal("stdin path not recognized as stdin")
		}

		data, err := io.ReadAll(src)
		if err != nil {
			t.Fatal(err)
		}

		if got, want := string(data), "1日\n2日\n"; got != want {
			t.Errorf("read %q, want %q", got, want)
		}
	})
}
