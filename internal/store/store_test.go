package store_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openairmap/openairmap/internal/models"
	"github.com/openairmap/openairmap/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func usDoc() models.CountryFile {
	return models.CountryFile{
		CountryCode:   "US",
		CountryName:   "United States",
		TotalAirports: 2,
		TypesDistribution: map[string]int{
			"large_airport": 1,
			"heliport":      1,
		},
		Airports: []models.Airport{
			{Name: "Test Intl", Type: "large_airport", Country: "US", Coordinates: "40.0, -70.0"},
			{Name: "Roof Pad", Type: "heliport", Country: "US"},
		},
	}
}

func TestWriteCountryRoundTrip(t *testing.T) {
	s := store.New(t.TempDir(), discardLogger())
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	changed, err := s.WriteCountry(usDoc(), now)
	require.NoError(t, err)
	require.True(t, changed)

	got, err := s.ReadCountry("US")
	require.NoError(t, err)
	require.Equal(t, "United States", got.CountryName)
	require.Equal(t, 2, got.TotalAirports)
	require.Len(t, got.Airports, 2)
	require.Equal(t, usDoc().TypesDistribution, got.TypesDistribution)
	require.Equal(t, now, got.LastUpdated)
}

func TestWriteCountryLowercaseDir(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir, discardLogger())

	_, err := s.WriteCountry(usDoc(), time.Now())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "us", "airports.json"))
	require.NoError(t, err)
}

func TestWriteCountryIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir, discardLogger())

	_, err := s.WriteCountry(usDoc(), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "us", "airports.json"))
	require.NoError(t, err)

	// Same content, later timestamp: nothing is rewritten.
	changed, err := s.WriteCountry(usDoc(), time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.False(t, changed)

	second, err := os.ReadFile(filepath.Join(dir, "us", "airports.json"))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestWriteCountryContentChangeRefreshesTimestamp(t *testing.T) {
	s := store.New(t.TempDir(), discardLogger())

	_, err := s.WriteCountry(usDoc(), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	doc := usDoc()
	doc.Airports = doc.Airports[:1]
	doc.TotalAirports = 1
	doc.TypesDistribution = map[string]int{"large_airport": 1}

	later := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	changed, err := s.WriteCountry(doc, later)
	require.NoError(t, err)
	require.True(t, changed)

	got, err := s.ReadCountry("US")
	require.NoError(t, err)
	require.Equal(t, later, got.LastUpdated)
	require.Equal(t, 1, got.TotalAirports)
}

func TestWriteIndex(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir, discardLogger())

	entries := []models.CountryIndexEntry{
		{Code: "GB", Name: "United Kingdom", AirportCount: 1, TypesDistribution: map[string]int{"large_airport": 1}},
		{Code: "US", Name: "United States", AirportCount: 2, TypesDistribution: map[string]int{"large_airport": 1, "heliport": 1}},
	}

	changed, err := s.WriteIndex(entries)
	require.NoError(t, err)
	require.True(t, changed)

	got, err := s.ReadIndex()
	require.NoError(t, err)
	require.Equal(t, entries, got)

	// Unchanged rewrite is a no-op, byte for byte.
	first, err := os.ReadFile(filepath.Join(dir, "countries.json"))
	require.NoError(t, err)

	changed, err = s.WriteIndex(entries)
	require.NoError(t, err)
	require.False(t, changed)

	second, err := os.ReadFile(filepath.Join(dir, "countries.json"))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestReadMissing(t *testing.T) {
	s := store.New(t.TempDir(), discardLogger())

	_, err := s.ReadCountry("ZZ")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.ReadIndex()
	require.ErrorIs(t, err, store.ErrNotFound)
}
