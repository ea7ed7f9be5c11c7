package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/nengo/lang"
	"github.com/ardnew/nengo/log"
)

const defaultEditor = "vi"

// editHeader starts every scratch buffer opened by the edit command.
const editHeader = `# One expression per line. Lines starting with # are ignored.
# Save and quit to evaluate; clear the buffer to cancel.
`

// editCommand implements [tea.ExecCommand]. It opens the user's editor on a
// scratch buffer of expressions and evaluates every line when the editor
// exits. If a line fails to parse, the user is asked whether to edit again.
type editCommand struct {
	ctxFunc   func() context.Context
	content   string
	evaluator func() *lang.Evaluator
	logger    log.Logger
	lines     []lang.Line
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-evaluate-retry loop. It returns [ErrEditDeclined] if
// the user declines to fix a parse error. A buffer without expressions leaves
// c.lines empty.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "nengo-repl-*.txt")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.content

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path)
		if err != nil {
			return err
		}

		lines, err := c.evaluate(ctx, data)
		if err != nil {
			return err
		}

		failed := 0

		for _, line := range lines {
			var perr *lang.ParseError
			if errors.As(line.Err, &perr) {
				failed++

				fmt.Fprintf(c.stderr, "line %d: %v\n%s", line.Number, perr, perr.Snippet())
			}
		}

		c.logger.TraceContext(ctx, "editor buffer evaluated",
			slog.Int("lines", len(lines)),
			slog.Int("parse_errors", failed),
		)

		if failed == 0 {
			c.lines = lines

			return nil
		}

		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = string(data)
	}
}

func (c *editCommand) evaluate(ctx context.Context, data []byte) ([]lang.Line, error) {
	var lines []lang.Line

	for line, err := range c.evaluator().EvaluateReader(ctx, bytes.NewReader(data)) {
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// runEditor runs $EDITOR (or vi) on path and returns the edited content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
