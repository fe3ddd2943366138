package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/openairmap/openairmap/internal/config"
	"github.com/openairmap/openairmap/internal/logger"
	"github.com/openairmap/openairmap/internal/models"
	"github.com/openairmap/openairmap/internal/store"
)

type dataReader interface {
	ReadIndex() ([]models.CountryIndexEntry, error)
	ReadCountry(code string) (*models.CountryFile, error)
}

func main() {
	log := logger.New("verify")
	cfg, err := config.LoadVerify()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	st := store.New(cfg.DataDir, log)

	violations, err := verifyData(st)
	if err != nil {
		log.Error("verification aborted", slog.Any("err", err))
		os.Exit(1)
	}

	for _, v := range violations {
		log.Error("invariant violated", slog.String("detail", v))
	}
	if len(violations) > 0 {
		log.Error("verification failed", slog.Int("violations", len(violations)))
		os.Exit(1)
	}

	log.Info("data directory is consistent", slog.String("dir", cfg.DataDir))
}

// verifyData checks the published dataset against its invariants: index
// counts match the country files, type distributions sum to the totals, and
// no record is missing its name or country code.
func verifyData(st dataReader) ([]string, error) {
	entries, err := st.ReadIndex()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var violations []string
	for _, entry := range entries {
		doc, err := st.ReadCountry(entry.Code)
		if err != nil {
			violations = append(violations, fmt.Sprintf("%s: %v", entry.Code, err))
			continue
		}

		if doc.CountryCode != entry.Code {
			violations = append(violations, fmt.Sprintf("%s: file claims country %q", entry.Code, doc.CountryCode))
		}
		if len(doc.Airports) != doc.TotalAirports {
			violations = append(violations, fmt.Sprintf("%s: total_airports=%d but file holds %d records",
				entry.Code, doc.TotalAirports, len(doc.Airports)))
		}
		if entry.AirportCount != len(doc.Airports) {
			violations = append(violations, fmt.Sprintf("%s: index count=%d but file holds %d records",
				entry.Code, entry.AirportCount, len(doc.Airports)))
		}

		sum := 0
		for _, n := range doc.TypesDistribution {
			sum += n
		}
		if sum != doc.TotalAirports {
			violations = append(violations, fmt.Sprintf("%s: types_distribution sums to %d, want %d",
				entry.Code, sum, doc.TotalAirports))
		}

		for i, a := range doc.Airports {
			if a.Name == "" {
				violations = append(violations, fmt.Sprintf("%s: record %d has no name", entry.Code, i))
			}
			if a.Country == "" {
				violations = append(violations, fmt.Sprintf("%s: record %d has no country code", entry.Code, i))
			} else if a.Country != entry.Code {
				violations = append(violations, fmt.Sprintf("%s: record %d belongs to %q", entry.Code, i, a.Country))
			}
		}
	}

	return violations, nil
}
