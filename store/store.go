// Package store persists merged article records as a JSON object keyed by
// the unique id derived from each article's URL. It is the pipeline's only
// checkpoint: a resumed batch consults it to know what already succeeded.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zombar/blogaudit/models"
)

const (
	saveAttempts = 3
	saveDelay    = time.Second
)

// Store reads and writes the merged-results file. Saves are read-modify-write
// per article; corruption on load is recovered by backing the file up and
// starting empty rather than crashing.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a store for the given file path, creating the parent directory
// if needed.
func New(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}, nil
}

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

// Load reads the full record map. A missing file yields an empty map. A
// corrupted file is renamed to a timestamped backup and an empty map is used
// going forward; the data loss is logged, not silently swallowed.
func (s *Store) Load() (map[string]models.MergedRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]models.MergedRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	records := map[string]models.MergedRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		backup := s.backupPath()
		s.logger.Warn("corrupted merged-results store, backing up and starting fresh",
			"path", s.path, "backup", backup, "error", err)
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			return nil, fmt.Errorf("failed to back up corrupted store: %w", renameErr)
		}
		return map[string]models.MergedRecord{}, nil
	}

	return records, nil
}

// Save upserts one record under its unique id, retrying the whole
// read-modify-write a bounded number of times with a fixed delay. If every
// attempt fails the record is dropped and the error returned; callers log it
// and continue with the next article.
func (s *Store) Save(id string, record models.MergedRecord) error {
	var lastErr error

	for attempt := 1; attempt <= saveAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(saveDelay)
		}

		records, err := s.Load()
		if err != nil {
			lastErr = err
			s.logger.Warn("store save failed", "attempt", attempt, "id", id, "error", err)
			continue
		}

		records[id] = record

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal store: %w", err)
		}

		if err := os.WriteFile(s.path, data, 0644); err != nil {
			lastErr = err
			s.logger.Warn("store save failed", "attempt", attempt, "id", id, "error", err)
			continue
		}

		return nil
	}

	return fmt.Errorf("failed to save record after %d attempts: %w", saveAttempts, lastErr)
}

// Has reports whether a record exists for the given id.
func (s *Store) Has(id string) (bool, error) {
	records, err := s.Load()
	if err != nil {
		return false, err
	}
	_, ok := records[id]
	return ok, nil
}

func (s *Store) backupPath() string {
	stamp := time.Now().Format("20060102_150405")
	ext := filepath.Ext(s.path)
	base := s.path[:len(s.path)-len(ext)]
	return fmt.Sprintf("%s_backup_%s%s", base, stamp, ext)
}
