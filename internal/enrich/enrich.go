// Package enrich augments prioritized airports with details from
// airportdb.io and a METAR availability flag from aviationweather.gov.
// Every failure here is soft: the record keeps its dataset-derived fields.
package enrich

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"github.com/openairmap/openairmap/internal/httpclient"
	"github.com/openairmap/openairmap/internal/models"
)

// Options configures an Enricher.
type Options struct {
	// APIKey authorizes airportdb.io requests. Without it, detail lookups
	// are skipped entirely; METAR checks run either way.
	APIKey string

	// APIURL is the airportdb.io endpoint prefix, ident appended.
	APIURL string

	// MetarURL is the aviationweather.gov METAR endpoint.
	MetarURL string

	// Countries and Types select which airports are worth the extra
	// upstream calls.
	Countries []string
	Types     []string

	CacheCapacity int
	CacheTTL      time.Duration
}

// Enricher decorates airport records with third-party data.
type Enricher struct {
	http      *httpclient.Client
	log       *slog.Logger
	apiKey    string
	apiURL    string
	metarURL  string
	countries map[string]struct{}
	types     map[string]struct{}
	cache     *Cache
}

// New creates an Enricher.
func New(http *httpclient.Client, log *slog.Logger, opts Options) *Enricher {
	e := &Enricher{
		http:      http,
		log:       log,
		apiKey:    opts.APIKey,
		apiURL:    opts.APIURL,
		metarURL:  opts.MetarURL,
		countries: toSet(opts.Countries),
		types:     toSet(opts.Types),
		cache:     NewCache(opts.CacheCapacity, opts.CacheTTL),
	}
	return e
}

// Apply decorates the airports of one country group in place.
func (e *Enricher) Apply(ctx context.Context, airports []models.Airport) {
	for i := range airports {
		a := &airports[i]
		if a.Ident == "" {
			continue
		}

		if !e.prioritized(a) {
			available := false
			a.MetarAvailable = &available
			continue
		}

		if details := e.fetchDetails(ctx, a.Ident); details != nil {
			a.Details = details
		}
		available := e.metarAvailable(ctx, a.Ident)
		a.MetarAvailable = &available
	}
}

func (e *Enricher) prioritized(a *models.Airport) bool {
	if _, ok := e.types[a.Type]; !ok {
		return false
	}
	_, ok := e.countries[a.Country]
	return ok
}

func (e *Enricher) fetchDetails(ctx context.Context, ident string) *models.AirportDetails {
	if e.apiKey == "" {
		return nil
	}
	if details, ok := e.cache.Get(ident); ok {
		return details
	}

	data, err := e.http.GetBytes(ctx, e.apiURL+ident, map[string]string{"X-API-Key": e.apiKey})
	if err != nil {
		e.log.Debug("airport details lookup failed", slog.String("ident", ident), slog.Any("err", err))
		return nil
	}

	var details models.AirportDetails
	if err := json.Unmarshal(data, &details); err != nil {
		e.log.Debug("airport details parse failed", slog.String("ident", ident), slog.Any("err", err))
		return nil
	}

	e.cache.Put(ident, &details)
	return &details
}

func (e *Enricher) metarAvailable(ctx context.Context, ident string) bool {
	u := e.metarURL + "?" + url.Values{"ids": {ident}, "format": {"json"}}.Encode()

	data, err := e.http.GetBytes(ctx, u, nil)
	if err != nil {
		return false
	}

	// The endpoint returns either an object or an array of reports.
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return false
	}
	switch v := payload.(type) {
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return false
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
