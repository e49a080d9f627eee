package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/askbox/internal/domain/question"
	"go.uber.org/zap"
)

// FileStore persists the document as a single JSON file. A missing file is
// an empty state; an unreadable or unrecognized file is logged and replaced
// by an empty state on the next write rather than aborting startup.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  *zap.SugaredLogger
	data Data
}

func Open(path string, log *zap.SugaredLogger) (*FileStore, error) {
	s := &FileStore{path: path, log: log, data: emptyData()}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		log.Warnw("data file is corrupt, starting empty", "path", path, "err", err)
		return s, nil
	}
	if d.SchemaVersion != SchemaVersion {
		log.Warnw("data file has unknown schema version, starting empty",
			"path", path, "version", d.SchemaVersion)
		return s, nil
	}
	if d.Questions == nil {
		d.Questions = map[string][]question.Question{}
	}
	s.data = d
	return s, nil
}

func (s *FileStore) View(fn func(d *Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

func (s *FileStore) Update(fn func(d *Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// save writes to a sibling temp file and renames it over the target so a
// crash mid-write never leaves a truncated document behind.
func (s *FileStore) save(d Data) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".askbox-*.json")
	if err != nil {
		return fmt.Errorf("store: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	return nil
}
