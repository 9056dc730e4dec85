package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tlisp/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "env", "reset", "clear", "quit"}

// isWordRune reports whether r may appear in a completable word. It accepts
// the identifier alphabet, so a hyphenated name such as path-prefix is one
// word.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '!'
}

// wordBounds returns the word at the cursor and its byte offsets in input.
// It returns an empty word when the cursor is not touching one, such as
// after a space or an open paren.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether position cursor of input falls inside a string
// literal. Completion is suppressed there.
func inString(input string, cursor int) bool {
	open := false

	for _, r := range input[:min(max(cursor, 0), len(input))] {
		if r == '"' {
			open = !open
		}
	}

	return open
}

// computeMatches calculates the fuzzy matches for the word at the cursor,
// ranked best-first, with the word's byte offsets. An empty word yields no
// matches so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" || inString(input, cursor) {
		return nil, wordStart, wordEnd
	}

	candidates := ctrlCommands
	if m.mode == modeEval {
		candidates = m.env.Names()
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	env *lang.Env,
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
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(env, match, tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		last := i == len(matches)-1
		if i > 0 && (used+w > width || (!last && used+w+reserve > width)) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Callable names are marked with a leading paren, which is not
// part of the completion.
func renderCandidate(env *lang.Env, match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	if isCallable(env, match.Str) {
		b.WriteString(hintStyle.Render("("))
	}

	// MatchedIndexes are byte offsets.
	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

// isCallable reports whether name is bound to a function or builtin in env.
func isCallable(env *lang.Env, name string) bool {
	v, err := env.Lookup(name)
	if err != nil {
		return false
	}

	switch v.(type) {
	case *lang.Function, *lang.Builtin:
		return true
	default:
		return false
	}
}
