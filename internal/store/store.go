// Package store persists the generated dataset: one airports.json per
// country plus the global countries.json index. Files are the sole
// persisted state; every run regenerates them in full.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openairmap/openairmap/internal/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("store: not found")

const indexFile = "countries.json"

// Store reads and writes the data directory.
type Store struct {
	dir string
	log *slog.Logger
}

// New creates a store rooted at dir.
func New(dir string, log *slog.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// WriteCountry writes one country document, creating the country directory
// as needed. The write is skipped when the content, ignoring last_updated,
// matches what is already on disk; the existing file then stays
// byte-identical. doc.LastUpdated is managed here: it is refreshed to now
// only when the content actually changed.
func (s *Store) WriteCountry(doc models.CountryFile, now time.Time) (bool, error) {
	path := s.countryPath(doc.CountryCode)

	existingRaw, err := os.ReadFile(path)
	if err == nil {
		var existing models.CountryFile
		if uerr := json.Unmarshal(existingRaw, &existing); uerr == nil {
			doc.LastUpdated = existing.LastUpdated
			candidate, merr := marshal(doc)
			if merr != nil {
				return false, merr
			}
			if bytes.Equal(candidate, existingRaw) {
				return false, nil
			}
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("read existing %s: %w", path, err)
	}

	doc.LastUpdated = now.UTC()
	data, err := marshal(doc)
	if err != nil {
		return false, err
	}
	if err := writeAtomic(path, data); err != nil {
		return false, err
	}

	s.log.Debug("wrote country file",
		slog.String("country", doc.CountryCode),
		slog.Int("airports", doc.TotalAirports),
	)
	return true, nil
}

// WriteIndex writes countries.json. Entries are expected pre-sorted by the
// caller; unchanged content is left untouched on disk.
func (s *Store) WriteIndex(entries []models.CountryIndexEntry) (bool, error) {
	path := filepath.Join(s.dir, indexFile)

	data, err := marshal(entries)
	if err != nil {
		return false, err
	}

	existing, rerr := os.ReadFile(path)
	if rerr == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
		return false, fmt.Errorf("read existing %s: %w", path, rerr)
	}

	if err := writeAtomic(path, data); err != nil {
		return false, err
	}

	s.log.Debug("wrote countries index", slog.Int("countries", len(entries)))
	return true, nil
}

// ReadCountry loads one country document.
func (s *Store) ReadCountry(code string) (*models.CountryFile, error) {
	path := s.countryPath(code)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: country %s", ErrNotFound, code)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc models.CountryFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}

// ReadIndex loads countries.json.
func (s *Store) ReadIndex() ([]models.CountryIndexEntry, error) {
	path := filepath.Join(s.dir, indexFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, indexFile)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var entries []models.CountryIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

func (s *Store) countryPath(code string) string {
	return filepath.Join(s.dir, strings.ToLower(code), "airports.json")
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return append(data, '\n'), nil
}

// writeAtomic writes via a temp file and rename so readers never observe a
// partially written document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".airports-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}
