package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveArtifact(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	relPath, err := s.SaveArtifact(KindReport, "audit.xlsx", []byte("payload"))
	if err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}
	if !strings.HasPrefix(relPath, "reports"+string(filepath.Separator)) {
		t.Errorf("SaveArtifact() relPath = %q, want reports/ prefix", relPath)
	}

	data, err := s.ReadArtifact(relPath)
	if err != nil {
		t.Fatalf("ReadArtifact() error = %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("ReadArtifact() = %q, want %q", data, "payload")
	}
}

func TestSaveArtifactNoOverwrite(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first, err := s.SaveArtifact(KindSnapshot, "merged.json", []byte("one"))
	if err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}
	second, err := s.SaveArtifact(KindSnapshot, "merged.json", []byte("two"))
	if err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct paths, both = %q", first)
	}
	if !strings.HasSuffix(second, "merged-1.json") {
		t.Errorf("second path = %q, want merged-1.json suffix", second)
	}

	data, err := s.ReadArtifact(first)
	if err != nil {
		t.Fatalf("ReadArtifact() error = %v", err)
	}
	if string(data) != "one" {
		t.Errorf("first artifact overwritten, got %q", data)
	}
}

func TestSaveArtifactSlugsName(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"Résumé Report.xlsx", "resume-report.xlsx"},
		{"content_audit.xlsx", "content-audit.xlsx"},
		{"???.json", "artifact.json"},
	}
	for _, tt := range tests {
		relPath, err := s.SaveArtifact(KindReport, tt.name, []byte("x"))
		if err != nil {
			t.Fatalf("SaveArtifact(%q) error = %v", tt.name, err)
		}
		if got := filepath.Base(relPath); got != tt.want {
			t.Errorf("SaveArtifact(%q) base = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestArchiveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "merged_results.json")
	if err := os.WriteFile(src, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}

	s, err := New(Config{BasePath: filepath.Join(dir, "artifacts")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	relPath, err := s.ArchiveFile(KindSnapshot, src)
	if err != nil {
		t.Fatalf("ArchiveFile() error = %v", err)
	}
	if filepath.Base(relPath) != "merged-results.json" {
		t.Errorf("ArchiveFile() base = %q, want merged-results.json", filepath.Base(relPath))
	}

	data, err := s.ReadArtifact(relPath)
	if err != nil {
		t.Fatalf("ReadArtifact() error = %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("ReadArtifact() = %q", data)
	}
}

func TestDeleteArtifactMissing(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.DeleteArtifact("reports/2026/01/none.xlsx"); err != nil {
		t.Errorf("DeleteArtifact() on missing file error = %v", err)
	}
}

func TestContentTypeForArtifact(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"audit.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"merged.json", "application/json"},
		{"page.html", "text/html; charset=utf-8"},
		{"blob.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := contentTypeForArtifact(tt.name); got != tt.want {
			t.Errorf("contentTypeForArtifact(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
