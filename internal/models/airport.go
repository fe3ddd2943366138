package models

import "time"

// Airport is a single record in a per-country airports.json file.
// Field names mirror the source dataset columns; optional fields are
// omitted rather than serialized empty.
type Airport struct {
	Ident        string `json:"ident,omitempty"`
	Type         string `json:"type,omitempty"`
	Name         string `json:"name"`
	ElevationFt  *int   `json:"elevation_ft,omitempty"`
	Continent    string `json:"continent,omitempty"`
	Country      string `json:"iso_country"`
	Region       string `json:"iso_region,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	GPSCode      string `json:"gps_code,omitempty"`
	IATACode     string `json:"iata_code,omitempty"`
	LocalCode    string `json:"local_code,omitempty"`

	// Coordinates is a single "lat, lon" string; consumers parse it
	// into two floats and skip records where that fails.
	Coordinates string `json:"coordinates,omitempty"`

	MetarAvailable *bool           `json:"metar_available,omitempty"`
	Details        *AirportDetails `json:"details,omitempty"`
}

// AirportDetails carries optional fields merged in from airportdb.io.
type AirportDetails struct {
	ICAOCode         string `json:"icao_code,omitempty"`
	HomeLink         string `json:"home_link,omitempty"`
	WikipediaLink    string `json:"wikipedia_link,omitempty"`
	ScheduledService string `json:"scheduled_service,omitempty"`
}

// CountryFile is the document written to data/{code}/airports.json.
type CountryFile struct {
	CountryCode       string         `json:"country_code"`
	CountryName       string         `json:"country_name"`
	TotalAirports     int            `json:"total_airports"`
	LastUpdated       time.Time      `json:"last_updated"`
	TypesDistribution map[string]int `json:"types_distribution"`
	Airports          []Airport      `json:"airports"`
}

// CountryIndexEntry is one element of data/countries.json.
type CountryIndexEntry struct {
	Code              string         `json:"code"`
	Name              string         `json:"name"`
	AirportCount      int            `json:"airport_count"`
	TypesDistribution map[string]int `json:"types_distribution"`
}
