// Package storage archives pipeline artifacts: finished spreadsheet reports,
// merged-results snapshots and scraped page HTML. Artifacts are write-once;
// re-archiving the same name gets a numeric suffix rather than overwriting.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zombar/blogaudit/slug"
)

// Kind names an artifact class. It selects the subdirectory (or S3 prefix)
// an artifact lands in.
type Kind string

const (
	KindReport   Kind = "reports"
	KindSnapshot Kind = "snapshots"
	KindPage     Kind = "pages"
)

// Config contains storage configuration
type Config struct {
	BasePath string // Base directory for all archived artifacts
}

// DefaultConfig returns default storage configuration
func DefaultConfig() Config {
	return Config{
		BasePath: "./artifacts",
	}
}

// Storage archives artifacts on the local filesystem under
// BasePath/<kind>/YYYY/MM/.
type Storage struct {
	config Config
}

// New creates a new Storage instance
func New(config Config) (*Storage, error) {
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory: %w", err)
	}

	return &Storage{
		config: config,
	}, nil
}

// SaveArtifact writes one artifact and returns its path relative to the base
// directory. The base name is slugified (extension kept) so titles and source
// file names become safe file names. An existing file with the same name is
// never overwritten; the name gains a -N suffix instead.
func (s *Storage) SaveArtifact(kind Kind, name string, data []byte) (string, error) {
	now := time.Now()
	dirPath := filepath.Join(s.config.BasePath, string(kind),
		fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())))

	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	base, ext := artifactName(name)

	filePath := filepath.Join(dirPath, base+ext)
	counter := 1
	for fileExists(filePath) {
		filePath = filepath.Join(dirPath, fmt.Sprintf("%s-%d%s", base, counter, ext))
		counter++
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact file: %w", err)
	}

	relPath, err := filepath.Rel(s.config.BasePath, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}

	return relPath, nil
}

// ArchiveFile copies an existing file into the archive under the given kind,
// keeping its base name. Used to snapshot the report and the merged-results
// store after a batch run.
func (s *Storage) ArchiveFile(kind Kind, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact source: %w", err)
	}
	return s.SaveArtifact(kind, filepath.Base(path), data)
}

// ReadArtifact reads a previously archived artifact by relative path.
func (s *Storage) ReadArtifact(relPath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.config.BasePath, relPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact file: %w", err)
	}
	return data, nil
}

// DeleteArtifact removes an archived artifact. Missing files are not an error.
func (s *Storage) DeleteArtifact(relPath string) error {
	if err := os.Remove(filepath.Join(s.config.BasePath, relPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact file: %w", err)
	}
	return nil
}

// GetFullPath returns the full filesystem path for a relative path
func (s *Storage) GetFullPath(relPath string) string {
	return filepath.Join(s.config.BasePath, relPath)
}

// artifactName splits an artifact name into a slugified base and its
// extension. An empty or all-symbol base falls back to "artifact".
func artifactName(name string) (base, ext string) {
	ext = filepath.Ext(name)
	base = slug.GenerateWithFallback(strings.TrimSuffix(name, ext), "artifact")
	return base, ext
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// contentTypeForArtifact returns the MIME type used when uploading an
// artifact to object storage.
func contentTypeForArtifact(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".json":
		return "application/json"
	case ".html":
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
