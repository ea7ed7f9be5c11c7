package repl

import (
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/nengo/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "tokens", "edit", "clear", "quit"}

// keywords are always offered as completions in eval mode.
var keywords = []string{"now"}

// maxLiterals bounds the number of date literals collected from history.
const maxLiterals = 64

// isWordBoundary reports whether r separates completion words: whitespace
// (including the ideographic space), parentheses and operators.
func isWordBoundary(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune("()+-*/", r)
}

// wordBounds returns the rune offsets of the word surrounding cursor, which is
// itself a rune offset as reported by textinput. The word is empty when the
// cursor sits between two boundaries.
func wordBounds(input []rune, cursor int) (start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start, end = cursor, cursor

	for start > 0 && !isWordBoundary(input[start-1]) {
		start--
	}

	for end < len(input) && !isWordBoundary(input[end]) {
		end++
	}

	return start, end
}

// literals returns the distinct date literals written in the eval-mode
// entries, most recent first.
func literals(entries []HistoryEntry) []string {
	var found []string

	for _, entry := range slices.Backward(entries) {
		if entry.Mode != modeEval {
			continue
		}

		prog, err := lang.Parse(entry.Line)
		if err != nil {
			continue
		}

		for _, tok := range prog.All() {
			if tok.Kind != lang.TokenDate || slices.Contains(found, tok.Text) {
				continue
			}

			found = append(found, tok.Text)
			if len(found) == maxLiterals {
				return found
			}
		}
	}

	return found
}

// computeMatches ranks the candidates for the word at the cursor, best first,
// and returns the word's rune offsets. An empty word has no matches.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := []rune(m.input.Value())

	wordStart, wordEnd = wordBounds(input, m.input.Position())
	word := string(input[wordStart:wordEnd])

	if word == "" {
		return nil, wordStart, wordEnd
	}

	candidates := ctrlCommands
	if m.mode == modeEval {
		candidates = append(slices.Clip(keywords), m.literals...)
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	sepWidth := lipgloss.Width(sep)
	reserve := sepWidth + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)
		w := lipgloss.Width(rendered)

		if i > 0 {
			need := used + sepWidth + w
			if i < len(matches)-1 {
				need += reserve
			}

			if need > width {
				b.WriteString(sep)
				b.WriteString(ellipsis)

				break
			}

			b.WriteString(sep)

			used += sepWidth
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted. Matched indexes are byte offsets into the candidate.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
