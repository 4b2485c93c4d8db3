package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rbarbosa/sentiq/internal/contracts"
)

// CorpusStore persists the enriched news corpus as a single JSON array.
// Writes are atomic: the new corpus is written to a temporary file in
// the same directory and renamed over the old one, so a crash mid-write
// leaves the previous corpus untouched. Single-writer access is
// assumed; concurrent pipeline runs must be serialized by the caller.
type CorpusStore struct {
	path string
}

// NewCorpusStore creates a store backed by the given file path.
func NewCorpusStore(path string) *CorpusStore {
	return &CorpusStore{path: path}
}

// Path returns the backing file path.
func (s *CorpusStore) Path() string {
	return s.path
}

// Load reads the persisted corpus. A missing file is an empty corpus,
// not an error.
func (s *CorpusStore) Load() ([]*contracts.NewsRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []*contracts.NewsRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	return records, nil
}

// TitleSet builds the dedup key set from a corpus slice. Empty keys are
// never part of the set; such records are invalid and cannot shadow
// real titles.
func TitleSet(records []*contracts.NewsRecord) map[string]struct{} {
	titles := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if key := rec.Key(); key != "" {
			titles[key] = struct{}{}
		}
	}
	return titles
}

// Persist durably replaces the corpus with the given records. Either
// the whole file is written or the previous corpus remains intact.
func (s *CorpusStore) Persist(records []*contracts.NewsRecord) error {
	if records == nil {
		records = []*contracts.NewsRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".corpus-*.json")
	if err != nil {
		return fmt.Errorf("create temp corpus: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp corpus: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp corpus: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace corpus: %w", err)
	}

	return nil
}

// AckSource clears the raw input file after a successful persist, so
// the same batch is not reprocessed. It writes an empty JSON array to
// keep the file valid for the next crawler append. Must only be called
// after Persist succeeded.
func AckSource(path string) error {
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("clear raw source: %w", err)
	}
	return nil
}
