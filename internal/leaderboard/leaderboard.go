// Package leaderboard keeps the ranked best results of finished rounds.
package leaderboard

import (
	"io"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
)

// Defaults for the board.
const (
	DefaultCapacity   = 5
	MaxNameWidth      = 16 // Display columns kept from a player name
	AnonymousNickname = "anonymous"
)

// Entry is one recorded round result.
type Entry struct {
	Name      string
	Score     int
	Distance  int // Ticks moved during the round
	Timestamp time.Time
}

// Store persists the whole board. Save replaces whatever was stored before.
type Store interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
}

// Leaderboard is a ranked, capped collection of entries backed by a Store.
// Safe for concurrent use by several engines.
type Leaderboard struct {
	mu       sync.Mutex
	store    Store
	logger   *log.Logger
	capacity int
	entries  []Entry
}

// New creates a leaderboard and loads the stored entries.
// A failing store is logged and treated as empty.
func New(store Store, logger *log.Logger) *Leaderboard {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	l := &Leaderboard{
		store:    store,
		logger:   logger,
		capacity: DefaultCapacity,
	}
	l.entries = l.load()
	return l
}

// Record inserts e, re-ranks, truncates to capacity and persists.
// Returns the 1-based rank of e, or 0 if it did not make the board,
// together with the resulting entries.
func (l *Leaderboard) Record(e Entry) (int, []Entry) {
	e.Name = SanitizeName(e.Name)
	if e.Score < 0 {
		e.Score = 0
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another process may have written since we last looked.
	entries := l.load()
	entries = append(entries, e)
	Rank(entries)
	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}
	l.entries = entries

	if err := l.store.Save(entries); err != nil {
		l.logger.Warn("leaderboard save failed, keeping in-memory results", "err", err)
	}

	rank := 0
	for i, got := range entries {
		if got == e {
			rank = i + 1
			break
		}
	}
	l.logger.Info("round recorded", "name", e.Name, "score", e.Score, "distance", e.Distance, "rank", rank)
	return rank, cloneEntries(entries)
}

// List returns the ranked entries.
func (l *Leaderboard) List() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneEntries(l.entries)
}

// Reload refreshes the in-memory view from the store.
func (l *Leaderboard) Reload() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.load()
	return cloneEntries(l.entries)
}

// load reads and ranks the stored entries. Must be called with lock held
// (or before the board is shared).
func (l *Leaderboard) load() []Entry {
	entries, err := l.store.Load()
	if err != nil {
		l.logger.Warn("leaderboard unavailable, starting empty", "err", err)
		// Fall back to whatever we already have in memory.
		return cloneEntries(l.entries)
	}
	Rank(entries)
	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}
	return entries
}

// Rank sorts entries by score descending, then most recent first.
func Rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}

// SanitizeName trims whitespace, drops non-printable runes and truncates the
// name to MaxNameWidth display columns. Empty names become AnonymousNickname.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	name = runewidth.Truncate(name, MaxNameWidth, "")
	name = strings.TrimSpace(name)
	if name == "" {
		return AnonymousNickname
	}
	return name
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
