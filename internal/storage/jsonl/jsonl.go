// Package jsonl appends interview records to a local JSON Lines file.
package jsonl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spigell/talentscout/internal/profile"
	"github.com/spigell/talentscout/internal/storage"
)

// DefaultPath is used when no path is configured.
const DefaultPath = "data/candidates.jsonl"

const maxLineSize = 4 << 20

// Store writes one line per record with a single append write.
type Store struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// New returns a Store writing to path.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path, now: time.Now}
}

// Path returns the file the store appends to.
func (s *Store) Path() string { return s.path }

// Persist implements storage.Store.
func (s *Store) Persist(_ context.Context, sessionID string, values profile.Values, transcript []storage.Message) error {
	line, err := storage.NewRecord(sessionID, values, transcript, s.now()).Encode()
	if err != nil {
		return err
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}

	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("append record: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	return nil
}

// LastProfile implements storage.Finder. Unparseable lines are skipped.
func (s *Store) LastProfile(_ context.Context, hashedEmail string) (*storage.StoredProfile, error) {
	if hashedEmail == "" {
		return nil, storage.ErrNotFound
	}

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	var found *storage.StoredProfile
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		hashed, p, err := storage.DecodeProfile(scanner.Bytes())
		if err != nil || hashed != hashedEmail {
			continue
		}
		found = p
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if found == nil {
		return nil, storage.ErrNotFound
	}
	return found, nil
}
