package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/nengo/lang"
	"github.com/ardnew/nengo/log"
	"github.com/ardnew/nengo/render"
)

// editMsg carries the lines evaluated from the editor buffer.
type editMsg struct{ lines []lang.Line }

// editCancelledMsg is sent when the editor buffer held no expressions or the
// user declined to fix a parse error.
type editCancelledMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

// editHistory is the number of recent expressions copied into the editor.
const editHistory = 10

const helpMessage = `
: Commands (press Esc to toggle mode):

  help            Print this message
  tokens [expr]   Show the postfix tokens of expr or the last expression
  edit            Edit recent expressions in $EDITOR and evaluate them
  clear           Clear screen
  quit            Exit REPL

Usage:
  Type an expression such as 2020年9月8日 - 2020年3月4日 and press Enter
  The result of the current input is previewed below the prompt
  Completions of now and previously used dates appear as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`

// inputMode is the mode a line of input is entered in.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Config configures a REPL session.
type Config struct {
	// Options configure every evaluator created by the session.
	Options []lang.Option
	// Template renders results. Nil selects the default rendering.
	Template *render.Template
	// HistoryFile persists input across sessions. Empty keeps the history
	// in memory only.
	HistoryFile string
	Logger      log.Logger
}

type model struct {
	ctxFunc      func() context.Context
	cfg          Config
	preview      *lang.Evaluator
	input        textinput.Model
	history      *History
	historyIdx   int
	literals     []string      // date literals from eval history
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // rune offset of current word start
	wordEnd      int           // rune offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	hint         string        // preview of the current input's result
	last         string        // last evaluated expression
	width        int
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive session and blocks until the user quits.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(cfg.HistoryFile)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("file", cfg.HistoryFile),
			slog.Any("error", err),
		)
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history_file", cfg.HistoryFile),
		slog.Int("history_len", history.Len()),
	)

	p := tea.NewProgram(
		newModel(ctx, cfg, history),
		append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...,
	)
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		cfg:        cfg,
		preview:    lang.New(cfg.Options...),
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		literals:   literals(history.Entries()),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

// evaluator returns an evaluator whose records carry a fresh eval_id.
func (m model) evaluator() *lang.Evaluator {
	logger := m.cfg.Logger.With(slog.String("eval_id", uuid.NewString()))

	return lang.New(append(slices.Clip(m.cfg.Options), lang.WithLogger(logger))...)
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editMsg:
		cmds := make([]tea.Cmd, 0, len(msg.lines))

		for _, line := range msg.lines {
			_ = m.history.Add(line.Source, modeEval)
			m.last = line.Source
			cmds = append(cmds, tea.Println(formatCommand(line.Source)), m.resultCmd(line.Result, line.Err))
		}

		m.historyIdx = m.history.Len()
		m.literals = literals(m.history.Entries())

		return m, tea.Sequence(cmds...)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type an expression or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: help, tokens, edit, clear, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case m.hint != "":
		b.WriteString(hintStyle.Render(m.hint))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.cfg.Logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refresh(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current candidate without executing.
		m.tabActive = false
		refresh(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refresh(&m, false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		// Typing a space accepts the current candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refresh(&m, true)

		return m, cmd
	}

	// Any other key edits or moves without auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refresh(&m, false)

	return m, cmd
}

// cycle selects the next (step 1) or previous (step -1) candidate. A sole
// candidate is completed immediately.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word with replacement and moves the
// cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := []rune(m.input.Value())
	repl := []rune(replacement)

	value := slices.Concat(input[:m.wordStart], repl, input[m.wordEnd:])
	cursor := m.wordStart + len(repl)

	m.input.SetValue(string(value))
	m.input.SetCursor(cursor)
	m.wordEnd = cursor
}

// refresh recomputes the completion matches and the result preview. When
// autoConfirm is set and the word at the cursor already equals the sole
// candidate, the completion is dismissed.
func refresh(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	m.hint = m.previewHint()

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	word := string([]rune(m.input.Value())[m.wordStart:m.wordEnd])
	if word == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// previewHint evaluates the input silently and returns its rendered result,
// or an empty string if it does not evaluate.
func (m model) previewHint() string {
	input := strings.TrimSpace(m.input.Value())
	if m.mode != modeEval || input == "" {
		return ""
	}

	res, err := m.preview.Evaluate(m.ctxFunc(), input)
	if err != nil {
		return ""
	}

	text, err := m.cfg.Template.Render(res)
	if err != nil {
		return ""
	}

	return "= " + text
}

// resultCmd prints the rendered result, or the error that prevented it.
func (m model) resultCmd(res lang.Result, err error) tea.Cmd {
	if err == nil {
		var text string

		text, err = m.cfg.Template.Render(res)
		if err == nil {
			return tea.Println(resultStyle.Render(text))
		}
	}

	msg := errorStyle.Render("error: " + err.Error())

	var perr *lang.ParseError
	if errors.As(err, &perr) {
		msg += "\n" + hintStyle.Render(strings.TrimRight(perr.Snippet(), "\n"))
	}

	return tea.Println(msg)
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	refresh(&m, false)

	if err := m.history.Add(input, mode); err != nil {
		m.cfg.Logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.String("file", m.cfg.HistoryFile),
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()

	if mode == modeCtrl {
		return m.executeCommand(input)
	}

	ctx := m.ctxFunc()
	res, err := m.evaluator().Evaluate(ctx, input)

	m.cfg.Logger.TraceContext(ctx, "repl eval",
		slog.String("input", input),
		slog.Bool("ok", err == nil),
	)

	m.last = input
	m.literals = literals(m.history.Entries())

	return m, tea.Sequence(tea.Println(formatCommand(input)), m.resultCmd(res, err))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	echo := tea.Println(formatCtrlCommand(input))

	m.cfg.Logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.String("args", args),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "t", "tokens":
		return m, tea.Sequence(echo, tea.Println(m.tokensView(args)))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.editCmd())
	}

	return m, tea.Sequence(echo, tea.Println(
		errorStyle.Render("Unknown command: "+name+" (try 'help')"),
	))
}

// tokensView formats the postfix program of expr, or of the last evaluated
// expression when expr is empty.
func (m model) tokensView(expr string) string {
	if expr == "" {
		expr = m.last
	}

	if expr == "" {
		return errorStyle.Render("error: " + ErrNoExpression.Error())
	}

	ctx := m.ctxFunc()

	prog, err := lang.Compile(ctx, expr)
	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	var buf bytes.Buffer

	if err := prog.Format(ctx, &buf, 2); err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	return hintStyle.Render(strings.TrimRight(buf.String(), "\n"))
}

// editCmd opens the recent expressions in the user's editor.
func (m model) editCmd() tea.Cmd {
	var recent []string

	for _, entry := range slices.Backward(m.history.Entries()) {
		if entry.Mode == modeEval {
			recent = append(recent, entry.Line)
		}

		if len(recent) == editHistory {
			break
		}
	}

	slices.Reverse(recent)

	cmd := &editCommand{
		ctxFunc:   m.ctxFunc,
		content:   editHeader + strings.Join(append(recent, ""), "\n"),
		evaluator: m.evaluator,
		logger:    m.cfg.Logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case len(cmd.lines) == 0:
			return editCancelledMsg{}
		}

		return editMsg{lines: cmd.lines}
	})
}

// historyStep moves through the history by step. Unless sameMode is set,
// landing on an entry switches to the mode it was entered in. Moving past the
// newest entry clears the input.
func (m model) historyStep(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len([]rune(entry.Line)))
		refresh(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refresh(&m, false)
	}

	return m
}

// switchToMode switches the input to mode, keeping each mode's pending input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refresh(&m, false)

	return m
}
