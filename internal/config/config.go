package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common contains parameters shared by every binary.
type Common struct {
	DataDir string
}

// Updater holds configuration for the fetch -> transform -> write pipeline.
type Updater struct {
	Common
	SourceURL       string
	CountryNamesURL string

	HTTPTimeout     time.Duration
	RetryAttempts   int
	RetryBackoff    time.Duration
	RetryMaxBackoff time.Duration

	AirportDBKey    string
	AirportDBURL    string
	MetarURL        string
	EnrichCountries []string
	EnrichTypes     []string
	EnrichCacheCap  int
	EnrichCacheTTL  time.Duration
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr string
	WebDir   string
}

// Verify configures the data-directory invariant checker.
type Verify struct {
	Common
}

// LoadUpdater builds an Updater config from environment variables.
func LoadUpdater() (*Updater, error) {
	c := &Updater{
		Common: Common{
			DataDir: getEnv("DATA_DIR", "data"),
		},
		SourceURL:       getEnv("SOURCE_URL", "https://raw.githubusercontent.com/datasets/airport-codes/main/data/airport-codes.csv"),
		CountryNamesURL: getEnv("COUNTRY_NAMES_URL", "https://country.io/names.json"),
		HTTPTimeout:     getDuration("HTTP_TIMEOUT", "30s"),
		RetryAttempts:   getInt("HTTP_RETRY_ATTEMPTS", 3),
		RetryBackoff:    getDuration("HTTP_RETRY_BACKOFF", "1s"),
		RetryMaxBackoff: getDuration("HTTP_RETRY_MAX_BACKOFF", "30s"),
		AirportDBKey:    getEnv("AIRPORTDB_API_KEY", ""),
		AirportDBURL:    getEnv("AIRPORTDB_API_URL", "https://airportdb.io/api/v1/airport/"),
		MetarURL:        getEnv("METAR_API_URL", "https://aviationweather.gov/api/data/metar"),
		EnrichCountries: splitAndTrim(getEnv("ENRICH_COUNTRIES", "FR,GB,IE,DE,NL,BE,LU,CH,AT,ES,PT,IT,AD,LI,MC")),
		EnrichTypes:     splitAndTrim(getEnv("ENRICH_TYPES", "large_airport,medium_airport")),
		EnrichCacheCap:  getInt("ENRICH_CACHE_CAPACITY", 4096),
		EnrichCacheTTL:  getDuration("ENRICH_CACHE_TTL", "1h"),
	}

	if c.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.SourceURL == "" {
		return nil, fmt.Errorf("SOURCE_URL must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.RetryAttempts < 0 {
		return nil, fmt.Errorf("HTTP_RETRY_ATTEMPTS cannot be negative")
	}
	if c.RetryBackoff <= 0 {
		return nil, fmt.Errorf("HTTP_RETRY_BACKOFF must be positive")
	}
	if c.RetryMaxBackoff < c.RetryBackoff {
		return nil, fmt.Errorf("HTTP_RETRY_MAX_BACKOFF cannot be below HTTP_RETRY_BACKOFF")
	}
	if c.EnrichCacheCap <= 0 {
		return nil, fmt.Errorf("ENRICH_CACHE_CAPACITY must be positive")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		Common: Common{
			DataDir: getEnv("DATA_DIR", "data"),
		},
		BindAddr: getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		WebDir:   getEnv("WEB_DIR", "web"),
	}

	if c.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.BindAddr == "" {
		return nil, fmt.Errorf("API_BIND_ADDR must not be empty")
	}

	return c, nil
}

// LoadVerify builds a Verify config from environment variables.
func LoadVerify() (*Verify, error) {
	c := &Verify{
		Common: Common{
			DataDir: getEnv("DATA_DIR", "data"),
		},
	}

	if c.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR must not be empty")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
