package source_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openairmap/openairmap/internal/httpclient"
	"github.com/openairmap/openairmap/internal/source"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient() *httpclient.Client {
	return httpclient.New(httpclient.Options{
		Timeout:         2 * time.Second,
		RetryAttempts:   1,
		RetryBackoff:    time.Millisecond,
		RetryMaxBackoff: time.Millisecond,
	})
}

func TestParseCSV(t *testing.T) {
	raw := strings.Join([]string{
		`ident,type,name,iso_country,coordinates`,
		`KTST,large_airport,"Test Intl",US,"40.0, -70.0"`,
		`EGLL,large_airport,Heathrow,GB,"51.47, -0.45"`,
	}, "\n")

	rows, skipped, err := source.ParseCSV(strings.NewReader(raw))
	require.NoError(t, err)
	require.Zero(t, skipped)
	require.Len(t, rows, 2)
	require.Equal(t, "Test Intl", rows[0]["name"])
	require.Equal(t, "US", rows[0]["iso_country"])
	require.Equal(t, "40.0, -70.0", rows[0]["coordinates"])
}

func TestParseCSVSkipsRaggedLines(t *testing.T) {
	raw := strings.Join([]string{
		`ident,type,name,iso_country`,
		`KTST,large_airport,Test Intl,US`,
		`SHORT,oops`,
		`EGLL,large_airport,Heathrow,GB`,
	}, "\n")

	rows, skipped, err := source.ParseCSV(strings.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 1, skipped)
	require.Len(t, rows, 2)
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, _, err := source.ParseCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestFetchAirports(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ident,name,iso_country\nKTST,Test Intl,US\n"))
	}))
	defer server.Close()

	c := source.New(testClient(), discardLogger(), server.URL, server.URL)
	rows, err := c.FetchAirports(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "KTST", rows[0]["ident"])
}

func TestFetchAirportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := source.New(testClient(), discardLogger(), server.URL, server.URL)
	_, err := c.FetchAirports(context.Background())
	require.Error(t, err)
}

func TestFetchCountryNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"US":"United States","GB":"United Kingdom"}`))
	}))
	defer server.Close()

	c := source.New(testClient(), discardLogger(), server.URL, server.URL)
	names := c.FetchCountryNames(context.Background())
	require.Equal(t, "United States", names["US"])
	require.Equal(t, "United Kingdom", names["GB"])
}

func TestFetchCountryNamesFailureIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := source.New(testClient(), discardLogger(), server.URL, server.URL)
	names := c.FetchCountryNames(context.Background())
	require.NotNil(t, names)
	require.Empty(t, names)
}
