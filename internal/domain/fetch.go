package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrSourceDisabled is reported when no remote source is configured.
var ErrSourceDisabled = errors.New("source not configured")

// SeriesFetcher retrieves a series from a remote source.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context) (Series, error)
}

// FetchResult is the outcome of FetchOrFallback. Err is informational: it
// records why the fallback was used and is never meant to be returned upward.
type FetchResult struct {
	Series     Series
	Provenance Provenance
	Err        error
}

// FellBack reports whether the fallback series was used.
func (r FetchResult) FellBack() bool { return r.Provenance != ProvenanceReal }

// FetchOrFallback tries the fetcher and substitutes fallback() on any failure:
// a nil fetcher, a fetch error, an empty series, or a series that breaks the
// observation invariants. Failures are logged, never propagated.
func FetchOrFallback(ctx context.Context, fetcher SeriesFetcher, fallback func() Series, logger *slog.Logger) FetchResult {
	useFallback := func(err error) FetchResult {
		s := fallback()
		s.Provenance = ProvenanceSynthetic
		return FetchResult{Series: s, Provenance: ProvenanceSynthetic, Err: err}
	}

	if fetcher == nil {
		return useFallback(ErrSourceDisabled)
	}

	s, err := fetcher.FetchSeries(ctx)
	if err == nil && s.Len() == 0 {
		err = errors.New("fetched series is empty")
	}
	if err == nil {
		if verr := s.Validate(); verr != nil {
			err = fmt.Errorf("fetched series invalid: %w", verr)
		}
	}
	if err != nil {
		fb := useFallback(err)
		logger.Warn("remote fetch failed, using example data",
			"label", fb.Series.Label,
			"error", err,
		)
		return fb
	}

	s.Provenance = ProvenanceReal
	return FetchResult{Series: s, Provenance: ProvenanceReal}
}
