package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const backupStampLayout = "20060102150405"

// jsonStore keeps the collection in one indented JSON document. Every save
// of an existing document first copies its bytes into the backup directory,
// then replaces the document through a temp file + rename. Backups are never
// pruned. A mutex serializes in-process access; concurrent external writers
// of the file are not defended against.
type jsonStore struct {
	path      string
	backupDir string
	mu        sync.Mutex
}

// NewJSONStore returns a Store backed by the document at path with backups
// written to backupDir. Neither needs to exist yet.
func NewJSONStore(path, backupDir string) Store {
	return &jsonStore{path: path, backupDir: backupDir}
}

func (s *jsonStore) Load(_ context.Context) (Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := Collection{Medications: []Record{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty, nil
		}
		return empty, fmt.Errorf("read document %s: %w", s.path, err)
	}
	var col Collection
	if err := json.Unmarshal(data, &col); err != nil {
		return empty, fmt.Errorf("decode document %s: %w", s.path, err)
	}
	if col.Medications == nil {
		col.Medications = []Record{}
	}
	return col, nil
}

func (s *jsonStore) Save(_ context.Context, col Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backupCurrent(time.Now()); err != nil {
		return err
	}
	if col.Medications == nil {
		col.Medications = []Record{}
	}
	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	return s.replaceDocument(data)
}

// backupCurrent copies the document's current on-disk bytes into the backup
// directory. A document that does not exist yet has nothing to back up.
func (s *jsonStore) backupCurrent(now time.Time) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read document for backup: %w", err)
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return fmt.Errorf("create backup dir %s: %w", s.backupDir, err)
	}
	if err := os.WriteFile(s.backupName(now), data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// backupName yields backup_YYYYMMDDHHMMSS.json, appending _N when a prior
// save already claimed the same second, so every save produces a distinct
// backup file.
func (s *jsonStore) backupName(now time.Time) string {
	stamp := now.Format(backupStampLayout)
	name := filepath.Join(s.backupDir, "backup_"+stamp+".json")
	for n := 1; ; n++ {
		if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
			return name
		}
		name = filepath.Join(s.backupDir, fmt.Sprintf("backup_%s_%d.json", stamp, n))
	}
}

// replaceDocument writes data to a temp file in the document's directory and
// renames it over the document, so a crash mid-write cannot leave a
// truncated document behind.
func (s *jsonStore) replaceDocument(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp document: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace document %s: %w", s.path, err)
	}
	return nil
}
