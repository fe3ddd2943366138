package source

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/openairmap/openairmap/internal/httpclient"
)

// Row is a single CSV record keyed by header name. The source dataset's
// column set has changed over time, so rows are not bound to a fixed struct
// until validation.
type Row map[string]string

// Client fetches the raw airport dataset and auxiliary lookups.
type Client struct {
	http      *httpclient.Client
	log       *slog.Logger
	sourceURL string
	namesURL  string
}

// New creates a source client.
func New(http *httpclient.Client, log *slog.Logger, sourceURL, namesURL string) *Client {
	return &Client{http: http, log: log, sourceURL: sourceURL, namesURL: namesURL}
}

// FetchAirports downloads the source CSV and parses it into rows.
// Structurally broken lines are skipped; a failed download is fatal.
func (c *Client) FetchAirports(ctx context.Context) ([]Row, error) {
	body, err := c.http.Get(ctx, c.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("download source data: %w", err)
	}
	defer body.Close()

	rows, skipped, err := ParseCSV(body)
	if err != nil {
		return nil, fmt.Errorf("parse source data: %w", err)
	}
	if skipped > 0 {
		c.log.Warn("skipped malformed csv lines", slog.Int("count", skipped))
	}

	c.log.Info("downloaded airports", slog.Int("count", len(rows)))
	return rows, nil
}

// ParseCSV reads header-keyed rows from r. Lines whose field count does not
// match the header are skipped and counted rather than aborting the batch.
func ParseCSV(r io.Reader) ([]Row, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	var rows []Row
	skipped := 0
	for {
		vals, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(vals) != len(headers) {
			skipped++
			continue
		}

		row := make(Row, len(headers))
		for i, h := range headers {
			row[h] = vals[i]
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// FetchCountryNames loads the code -> full name mapping. Failure is soft:
// the pipeline falls back to bare country codes.
func (c *Client) FetchCountryNames(ctx context.Context) map[string]string {
	data, err := c.http.GetBytes(ctx, c.namesURL, nil)
	if err != nil {
		c.log.Warn("could not load country names", slog.Any("err", err))
		return map[string]string{}
	}

	names := map[string]string{}
	if err := json.Unmarshal(data, &names); err != nil {
		c.log.Warn("could not parse country names", slog.Any("err", err))
		return map[string]string{}
	}

	c.log.Info("loaded country names", slog.Int("count", len(names)))
	return names
}
