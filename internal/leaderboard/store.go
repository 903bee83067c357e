package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// DefaultPath is the well-known file the board is persisted to.
const DefaultPath = "snake-leaderboard.json"

// record is the persisted form of an Entry.
type record struct {
	NickName string `json:"nickName"`
	Score    int    `json:"score"`
	Distance int    `json:"distance"`
	Date     string `json:"date"`
}

// FileStore persists entries as a single JSON object keyed by the round
// completion time in Unix milliseconds.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads all entries. A missing file is an empty board.
func (s *FileStore) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return decode(data)
}

// Save replaces the file contents with entries. The write goes through a
// temporary file in the same directory followed by a rename.
func (s *FileStore) Save(entries []Entry) error {
	data, err := encode(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp leaderboard: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op after a successful rename
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close leaderboard: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace leaderboard: %w", err)
	}
	return nil
}

func encode(entries []Entry) ([]byte, error) {
	out := make(map[string]record, len(entries))
	for _, e := range entries {
		ms := e.Timestamp.UnixMilli()
		// Two rounds finishing in the same millisecond must not overwrite each other.
		for {
			if _, taken := out[strconv.FormatInt(ms, 10)]; !taken {
				break
			}
			ms++
		}
		out[strconv.FormatInt(ms, 10)] = record{
			NickName: e.Name,
			Score:    e.Score,
			Distance: e.Distance,
			Date:     e.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode leaderboard: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]Entry, error) {
	var in map[string]record
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	entries := make([]Entry, 0, len(in))
	for key, r := range in {
		ms, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode leaderboard: bad key %q: %w", key, err)
		}
		entries = append(entries, Entry{
			Name:      SanitizeName(r.NickName),
			Score:     max(r.Score, 0),
			Distance:  max(r.Distance, 0),
			Timestamp: time.UnixMilli(ms),
		})
	}
	Rank(entries)
	return entries, nil
}

// MemoryStore keeps entries in memory. Used when no file is configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored entries.
func (s *MemoryStore) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.entries), nil
}

// Save replaces the stored entries.
func (s *MemoryStore) Save(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = cloneEntries(entries)
	return nil
}

// Compile-time checks.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
