package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nengo/lang"
	"github.com/ardnew/nengo/render"
)

type (
	contextKey     struct{}
	sourceFilesKey struct{}
	optionsKey     struct{}
	templateKey    struct{}
	outputKey      struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// WithOptions returns a new context.Context carrying the evaluator options
// shared by every command, such as the deployment time zone.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, slices.Clip(opts))
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

// WithTemplate returns a new context.Context carrying the template used to
// render results. A nil template selects the default rendering.
func WithTemplate(ctx context.Context, tmpl *render.Template) context.Context {
	return context.WithValue(ctx, templateKey{}, tmpl)
}

func templateFrom(ctx context.Context) *render.Template {
	tmpl, _ := ctx.Value(templateKey{}).(*render.Template)

	return tmpl
}

// WithOutput returns a new context.Context whose commands write their results
// to w instead of [os.Stdout].
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// SourceFiles reads the concatenation of the --source files.
type SourceFiles interface {
	io.ReadCloser
	IsZero() bool
	Stdin() io.Reader
}

type sourceFiles struct {
	read  []io.Reader
	stdin io.Reader
	multi io.Reader
}

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && s.stdin == nil }

// Stdin returns the standard input if it was named as a source, or nil.
func (s *sourceFiles) Stdin() io.Reader { return s.stdin }

// Read reads from all source files in order, then from stdin if present.
func (s *sourceFiles) Read(p []byte) (int, error) {
	if s.multi == nil {
		readers := s.read
		if s.stdin != nil {
			readers = append(slices.Clip(readers), s.stdin)
		}

		s.multi = io.MultiReader(readers...)
	}

	return s.multi.Read(p)
}

// Close closes every opened file. Stdin is left open.
func (s *sourceFiles) Close() error {
	var errs []error

	for _, r := range s.read {
		if c, ok := r.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}

	return errors.Join(errs...)
}

// fileKey identifies a file by device and inode, so the same file reached
// through symlinks or different relative paths is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource names the standard input in a source list.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing a [SourceFiles]
// reading the given paths.
//
// Duplicate files are read once. Every "-" (and any path naming the same file
// as stdin) collapses to a single stdin reader placed after all regular files.
// Paths that cannot be opened are skipped.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	srcs := sourceFiles{read: make([]io.Reader, 0, len(sources))}
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey
	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(info)
	}

	hasStdin := false

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		key, ok := statKey(src)
		if !ok {
			continue
		}

		if key == stdinKey {
			hasStdin = true

			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		file, err := os.Open(src)
		if err != nil {
			continue
		}

		seen[key] = struct{}{}
		srcs.read = append(srcs.read, file)
	}

	if hasStdin {
		srcs.stdin = os.Stdin
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// statKey resolves path through any symlinks and returns its fileKey.
func statKey(path string) (fileKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}
