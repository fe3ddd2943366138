package geo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openairmap/openairmap/internal/geo"
	"github.com/openairmap/openairmap/internal/models"
)

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		lat, lon float64
		ok       bool
	}{
		{name: "plain", raw: "40.0, -70.0", lat: 40.0, lon: -70.0, ok: true},
		{name: "no space", raw: "51.47,-0.45", lat: 51.47, lon: -0.45, ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "single value", raw: "40.0", ok: false},
		{name: "three values", raw: "1,2,3", ok: false},
		{name: "garbage", raw: "north, west", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, ok := geo.ParseCoordinates(tt.raw)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.InDelta(t, tt.lat, lat, 1e-9)
				require.InDelta(t, tt.lon, lon, 1e-9)
			}
		})
	}
}

func TestFeatureCollectionSkipsUnparsableCoordinates(t *testing.T) {
	elev := 13
	airports := []models.Airport{
		{Name: "Test Intl", Type: "large_airport", Ident: "KTST", IATACode: "TST", Coordinates: "40.0, -70.0", ElevationFt: &elev},
		{Name: "No Coords", Type: "heliport"},
		{Name: "Bad Coords", Coordinates: "somewhere"},
	}

	fc := geo.FeatureCollection(airports)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	require.True(t, f.Geometry.IsPoint())
	// GeoJSON positions are lon, lat.
	require.Equal(t, []float64{-70.0, 40.0}, f.Geometry.Point)
	require.Equal(t, "Test Intl", f.Properties["name"])
	require.Equal(t, "TST", f.Properties["iata_code"])
	require.Equal(t, 13, f.Properties["elevation_ft"])
}
