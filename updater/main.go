package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/openairmap/openairmap/internal/config"
	"github.com/openairmap/openairmap/internal/enrich"
	"github.com/openairmap/openairmap/internal/httpclient"
	"github.com/openairmap/openairmap/internal/logger"
	"github.com/openairmap/openairmap/internal/models"
	"github.com/openairmap/openairmap/internal/source"
	"github.com/openairmap/openairmap/internal/store"
	"github.com/openairmap/openairmap/internal/transform"
)

type dataSource interface {
	FetchAirports(ctx context.Context) ([]source.Row, error)
	FetchCountryNames(ctx context.Context) map[string]string
}

type airportEnricher interface {
	Apply(ctx context.Context, airports []models.Airport)
}

type dataStore interface {
	WriteCountry(doc models.CountryFile, now time.Time) (bool, error)
	WriteIndex(entries []models.CountryIndexEntry) (bool, error)
}

func main() {
	log := logger.New("updater")
	cfg, err := config.LoadUpdater()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	log = log.With(slog.String("run_id", uuid.NewString()))

	httpc := httpclient.New(httpclient.Options{
		Timeout:         cfg.HTTPTimeout,
		RetryAttempts:   cfg.RetryAttempts,
		RetryBackoff:    cfg.RetryBackoff,
		RetryMaxBackoff: cfg.RetryMaxBackoff,
	})

	src := source.New(httpc, log, cfg.SourceURL, cfg.CountryNamesURL)
	enricher := enrich.New(httpc, log, enrich.Options{
		APIKey:        cfg.AirportDBKey,
		APIURL:        cfg.AirportDBURL,
		MetarURL:      cfg.MetarURL,
		Countries:     cfg.EnrichCountries,
		Types:         cfg.EnrichTypes,
		CacheCapacity: cfg.EnrichCacheCap,
		CacheTTL:      cfg.EnrichCacheTTL,
	})
	st := store.New(cfg.DataDir, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	log.Info("update starting", slog.String("source", cfg.SourceURL), slog.String("data_dir", cfg.DataDir))

	if err := run(ctx, log, src, enricher, st); err != nil {
		log.Error("update failed", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("update completed")
}

// run executes one full pipeline pass: fetch, transform, enrich, write.
// Phases are strictly ordered; a fetch failure aborts before any file is
// touched and a write failure aborts the remaining writes.
func run(ctx context.Context, log *slog.Logger, src dataSource, enricher airportEnricher, st dataStore) error {
	names := src.FetchCountryNames(ctx)

	rows, err := src.FetchAirports(ctx)
	if err != nil {
		return fmt.Errorf("fetch airports: %w", err)
	}

	res := transform.GroupByCountry(rows)
	if res.Dropped > 0 {
		log.Warn("dropped invalid rows", slog.Int("count", res.Dropped))
	}
	log.Info("grouped airports",
		slog.Int("countries", len(res.Groups)),
		slog.Int("rows", len(rows)),
	)

	codes := make([]string, 0, len(res.Groups))
	for code := range res.Groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	now := time.Now().UTC()
	entries := make([]models.CountryIndexEntry, 0, len(codes))
	written := 0

	for _, code := range codes {
		airports := res.Groups[code]
		enricher.Apply(ctx, airports)

		dist := transform.TypeDistribution(airports)
		doc := models.CountryFile{
			CountryCode:       code,
			CountryName:       countryName(names, code),
			TotalAirports:     len(airports),
			TypesDistribution: dist,
			Airports:          airports,
		}

		changed, err := st.WriteCountry(doc, now)
		if err != nil {
			return fmt.Errorf("write country %s: %w", code, err)
		}
		if changed {
			written++
		}

		entries = append(entries, models.CountryIndexEntry{
			Code:              code,
			Name:              doc.CountryName,
			AirportCount:      doc.TotalAirports,
			TypesDistribution: dist,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name == entries[j].Name {
			return entries[i].Code < entries[j].Code
		}
		return entries[i].Name < entries[j].Name
	})

	indexChanged, err := st.WriteIndex(entries)
	if err != nil {
		return fmt.Errorf("write countries index: %w", err)
	}

	log.Info("wrote output",
		slog.Int("countries", len(entries)),
		slog.Int("changed_files", written),
		slog.Bool("index_changed", indexChanged),
	)
	return nil
}

func countryName(names map[string]string, code string) string {
	if name, ok := names[code]; ok && name != "" {
		return name
	}
	return code
}
