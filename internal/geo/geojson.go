package geo

import (
	"strconv"
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"github.com/openairmap/openairmap/internal/models"
)

// ParseCoordinates splits a "lat, lon" string into two floats.
func ParseCoordinates(raw string) (lat, lon float64, ok bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// FeatureCollection converts airports into GeoJSON point features. Records
// without parsable coordinates are skipped for mapping purposes; they still
// count toward the statistics kept elsewhere.
func FeatureCollection(airports []models.Airport) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, a := range airports {
		lat, lon, ok := ParseCoordinates(a.Coordinates)
		if !ok {
			continue
		}

		f := geojson.NewPointFeature([]float64{lon, lat})
		f.SetProperty("name", a.Name)
		if a.Type != "" {
			f.SetProperty("type", a.Type)
		}
		if a.Ident != "" {
			f.SetProperty("ident", a.Ident)
		}
		if a.IATACode != "" {
			f.SetProperty("iata_code", a.IATACode)
		}
		if a.Municipality != "" {
			f.SetProperty("municipality", a.Municipality)
		}
		if a.ElevationFt != nil {
			f.SetProperty("elevation_ft", *a.ElevationFt)
		}
		fc.AddFeature(f)
	}

	return fc
}
