package remote

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/heat-scores-dashboard/internal/domain"
	"github.com/couchcryptid/heat-scores-dashboard/internal/observability"
)

// minBodyBytes is the smallest body treated as a real payload. Anything
// shorter is an error page or an empty export.
const minBodyBytes = 100

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 4 << 20

var (
	errShortBody = errors.New("response body too short")
	errNoRows    = errors.New("no data rows")
)

// Client implements domain.SeriesFetcher against a single CSV endpoint.
type Client struct {
	source     string
	url        string
	label      string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a fetcher for one remote source. Source is the metric
// label value ("sst", "heat-days"); label is stamped on parsed observations.
func NewClient(source, url, label string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		source: source,
		url:    url,
		label:  label,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Source returns the source name used in logs and metrics.
func (c *Client) Source() string { return c.source }

// FetchSeries issues one GET and parses the body as year,value or date,value CSV.
func (c *Client) FetchSeries(ctx context.Context) (domain.Series, error) {
	start := time.Now()
	s, err := c.fetch(ctx)
	c.metrics.FetchDuration.WithLabelValues(c.source).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.FetchRequests.WithLabelValues(c.source, outcome).Inc()

	if err != nil {
		return domain.Series{}, fmt.Errorf("%s fetch: %w", c.source, err)
	}
	c.logger.Debug("remote series fetched", "source", c.source, "url", c.url, "observations", s.Len())
	return s, nil
}

func (c *Client) fetch(ctx context.Context) (domain.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Series{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Series{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Series{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Series{}, fmt.Errorf("read body: %w", err)
	}
	if len(body) <= minBodyBytes {
		return domain.Series{}, fmt.Errorf("%w: %d bytes", errShortBody, len(body))
	}

	return parseSeries(body, c.label)
}

// parseSeries reads two-column CSV. The first column is a year or an ISO
// date; a leading header row is skipped.
func parseSeries(body []byte, label string) (domain.Series, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return domain.Series{}, fmt.Errorf("parse csv: %w", err)
	}

	s := domain.Series{Label: label, Provenance: domain.ProvenanceReal}
	for i, rec := range records {
		if len(rec) < 2 {
			return domain.Series{}, fmt.Errorf("parse csv: line %d has %d fields", i+1, len(rec))
		}
		date, derr := parseDate(rec[0])
		value, verr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if i == 0 && (derr != nil || verr != nil) {
			continue
		}
		if derr != nil {
			return domain.Series{}, fmt.Errorf("parse csv: line %d: %w", i+1, derr)
		}
		if verr != nil {
			return domain.Series{}, fmt.Errorf("parse csv: line %d: %w", i+1, verr)
		}
		s.Observations = append(s.Observations, domain.NewObservation(date, value, label))
	}

	if s.Len() == 0 {
		return domain.Series{}, errNoRows
	}
	return s, nil
}

func parseDate(field string) (time.Time, error) {
	field = strings.TrimSpace(field)
	if year, err := strconv.Atoi(field); err == nil {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(time.DateOnly, field)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", field)
	}
	return t.UTC(), nil
}
