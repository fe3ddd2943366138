package transform

import (
	"strconv"
	"strings"

	"github.com/openairmap/openairmap/internal/models"
	"github.com/openairmap/openairmap/internal/source"
)

// Result of grouping a batch of raw rows.
type Result struct {
	// Groups maps ISO 3166-1 alpha-2 country codes (as they appear in the
	// source, upper case) to airports in source order.
	Groups map[string][]models.Airport

	// Dropped counts rows rejected by validation.
	Dropped int
}

// GroupByCountry validates every row and groups the survivors by country
// code. Rows missing a name or a country code are dropped, never fatal.
func GroupByCountry(rows []source.Row) Result {
	res := Result{Groups: map[string][]models.Airport{}}

	for _, row := range rows {
		airport, ok := BuildAirport(row)
		if !ok {
			res.Dropped++
			continue
		}
		res.Groups[airport.Country] = append(res.Groups[airport.Country], airport)
	}

	return res
}

// BuildAirport converts a raw row into an Airport. It reports false when the
// row fails validation (missing name or country code).
func BuildAirport(row source.Row) (models.Airport, bool) {
	name := strings.TrimSpace(row["name"])
	country := strings.TrimSpace(row["iso_country"])
	if name == "" || country == "" {
		return models.Airport{}, false
	}

	a := models.Airport{
		Ident:        strings.TrimSpace(row["ident"]),
		Type:         strings.TrimSpace(row["type"]),
		Name:         name,
		Continent:    strings.TrimSpace(row["continent"]),
		Country:      country,
		Region:       strings.TrimSpace(row["iso_region"]),
		Municipality: strings.TrimSpace(row["municipality"]),
		GPSCode:      strings.TrimSpace(row["gps_code"]),
		IATACode:     strings.TrimSpace(row["iata_code"]),
		LocalCode:    strings.TrimSpace(row["local_code"]),
		Coordinates:  strings.TrimSpace(row["coordinates"]),
	}

	// Elevation comes in as a decimal string; unparsable values drop the
	// field, not the row.
	if raw := strings.TrimSpace(row["elevation_ft"]); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			ft := int(v)
			a.ElevationFt = &ft
		}
	}

	return a, true
}

// TypeDistribution counts airports per type. Records without a type are
// counted under "unknown".
func TypeDistribution(airports []models.Airport) map[string]int {
	dist := map[string]int{}
	for _, a := range airports {
		t := a.Type
		if t == "" {
			t = "unknown"
		}
		dist[t]++
	}
	return dist
}
