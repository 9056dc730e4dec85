package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// BaseHistory is the file name of the history file in the cache directory.
const BaseHistory = "history.utf8"

// DefaultHistorySize is the number of entries kept by [NewHistory].
const DefaultHistorySize = 1000

// inputMode selects how a line of input is interpreted.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// prefix is the tag stored in front of each history line.
func (m inputMode) prefix() string {
	if m == modeCtrl {
		return "C:"
	}

	return "E:"
}

// HistoryEntry is a single line of input and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History is a bounded, deduplicated list of input lines persisted to a
// file, one entry per line.
//
// An empty path keeps history in memory only.
type History struct {
	mu      sync.RWMutex
	path    string
	size    int
	entries []HistoryEntry
}

// NewHistory returns an empty History persisted at path.
func NewHistory(path string) *History {
	return &History{path: path, size: DefaultHistorySize}
}

// Load replaces the entries with the contents of the history file.
// A missing file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry := HistoryEntry{Line: line, Mode: modeEval}

		if s, ok := strings.CutPrefix(line, modeCtrl.prefix()); ok {
			entry = HistoryEntry{Line: s, Mode: modeCtrl}
		} else if s, ok := strings.CutPrefix(line, modeEval.prefix()); ok {
			entry.Line = s
		}

		h.entries = h.dedupe(entry)
	}

	h.entries = h.trim(0)

	return scanner.Err()
}

// Add appends line to the history, removing an earlier identical entry.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{Line: line, Mode: mode}

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	before := len(h.entries)
	h.entries = h.trim(1)
	h.entries = h.dedupe(entry)

	// Appending is enough unless an older entry was dropped.
	if len(h.entries) == before+1 {
		return h.append(entry)
	}

	return h.rewrite()
}

// Entry returns the entry at index i. Index 0 is the oldest entry.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// dedupe returns the entries with any copy of e moved to the end.
// Must be called with h.mu held.
func (h *History) dedupe(e HistoryEntry) []HistoryEntry {
	entries := slices.DeleteFunc(h.entries, func(x HistoryEntry) bool {
		return x == e
	})

	return append(entries, e)
}

// trim drops the oldest entries so that room more fit within the size limit.
// Must be called with h.mu held.
func (h *History) trim(room int) []HistoryEntry {
	over := len(h.entries) + room - h.size
	if h.size <= 0 || over <= 0 {
		return h.entries
	}

	return slices.Delete(h.entries, 0, min(over, len(h.entries)))
}

// Must be called with h.mu held.
func (h *History) append(e HistoryEntry) error {
	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(e.Mode.prefix() + e.Line + "\n")

	return err
}

// Must be called with h.mu held.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}

	var b strings.Builder

	for _, e := range h.entries {
		b.WriteString(e.Mode.prefix())
		b.WriteString(e.Line)
		b.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}
