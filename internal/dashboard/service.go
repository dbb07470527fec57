// Package dashboard assembles the official and student views from the
// generator and the remote sources, memoizing each by its parameters.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/heat-scores-dashboard/internal/domain"
	"github.com/couchcryptid/heat-scores-dashboard/internal/export"
	"github.com/couchcryptid/heat-scores-dashboard/internal/observability"
	"github.com/google/uuid"
)

// Source names used as cache keys and metric labels.
const (
	SourceSST      = "sst"
	SourceHeatDays = "heat-days"
)

// Publisher receives each freshly computed view.
type Publisher interface {
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// Sources are the remote fetchers for the official tab. A nil fetcher
// means the source is not configured and the example series is used.
type Sources struct {
	SST      domain.SeriesFetcher
	HeatDays domain.SeriesFetcher
}

// Options tune generation and memoization.
type Options struct {
	Generator domain.GeneratorParams
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultOptions returns the generator defaults with a 128-entry, 10 minute cache.
func DefaultOptions() Options {
	return Options{
		Generator: domain.DefaultGeneratorParams(),
		CacheSize: 128,
		CacheTTL:  10 * time.Minute,
	}
}

type studentData struct {
	sleep  []domain.SleepObservation
	scores []domain.ScoreObservation
}

// Service computes dashboard views. It is safe for concurrent use.
type Service struct {
	gen       *domain.Generator
	sources   Sources
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	sourceCache   *lruCache[domain.FetchResult]
	officialCache *lruCache[domain.OfficialView]
	studentCache  *lruCache[domain.StudentView]
	dataCache     *lruCache[studentData]
}

// New creates a Service. publisher may be nil.
func New(opts Options, sources Sources, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		gen:           domain.NewGenerator(opts.Generator),
		sources:       sources,
		publisher:     publisher,
		logger:        logger,
		metrics:       metrics,
		sourceCache:   newLRUCache[domain.FetchResult](2, opts.CacheTTL),
		officialCache: newLRUCache[domain.OfficialView](opts.CacheSize, opts.CacheTTL),
		studentCache:  newLRUCache[domain.StudentView](opts.CacheSize, opts.CacheTTL),
		dataCache:     newLRUCache[studentData](1, 0),
	}
}

// CheckReadiness returns nil once at least one view has been computed.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no dashboard view has been computed yet")
	}
	return nil
}

// Warm computes the default views so the service reports ready.
func (s *Service) Warm(ctx context.Context) {
	s.Official(ctx, domain.DefaultYearRange())
	s.Student(ctx, domain.DefaultStudentQuery())
}

// Official returns the official-data view for the year range. Remote
// failures degrade to example data, so the call always succeeds.
func (s *Service) Official(ctx context.Context, years domain.YearRange) domain.OfficialView {
	years.Start, years.End = domain.NormalizeYearRange(years.Start, years.End)
	key := memoKey(domain.ViewOfficial, years)
	if v, ok := cached(s.officialCache, s.metrics, "official", key); ok {
		return v
	}

	start := time.Now()
	sst := s.resolve(ctx, SourceSST, s.sources.SST, s.gen.SeaSurfaceTemperature)
	heat := s.resolve(ctx, SourceHeatDays, s.sources.HeatDays, s.gen.HeatWaveDays)

	v := domain.OfficialView{
		RenderID:    uuid.NewString(),
		GeneratedAt: domain.Now(),
		Years:       years,
		SST:         domain.FilterByYearRange(sst.Series, years.Start, years.End),
		HeatDays:    domain.FilterByYearRange(heat.Series, years.Start, years.End),
	}
	v.Correlation = domain.Correlate(v.SST, v.HeatDays)

	s.finish(ctx, domain.ViewOfficial, start, v.RenderID, v.GeneratedAt, v)
	if settled(sst) && settled(heat) {
		s.officialCache.put(key, v)
	}
	return v
}

// Student returns the student-data view for the selected metric.
func (s *Service) Student(ctx context.Context, q domain.StudentQuery) domain.StudentView {
	if q.Metric == "" {
		q.Metric = domain.MetricSleepHours
	}
	key := memoKey(domain.ViewStudent, q)
	if v, ok := cached(s.studentCache, s.metrics, "student", key); ok {
		return v
	}

	start := time.Now()
	data := s.studentData()

	v := domain.StudentView{
		RenderID:    uuid.NewString(),
		GeneratedAt: domain.Now(),
		Query:       q,
		Label:       q.Metric.Label(),
	}

	var xs, ys []float64
	if subj, ok := q.Metric.Subject(); ok {
		v.Scores = domain.FilterScoresByMetric(data.scores, subj)
		for _, r := range v.Scores {
			xs = append(xs, r.Temperature)
			ys = append(ys, r.Value)
		}
	} else {
		v.Sleep = data.sleep
		for _, r := range v.Sleep {
			xs = append(xs, r.Temperature)
			ys = append(ys, r.Value)
		}
	}

	if q.Trendline {
		fit, err := domain.FitLine(xs, ys)
		if err != nil {
			s.logger.Debug("trendline unavailable", "metric", q.Metric, "error", err)
		} else {
			v.Fit = &fit
		}
	}

	s.finish(ctx, domain.ViewStudent, start, v.RenderID, v.GeneratedAt, v)
	s.studentCache.put(key, v)
	return v
}

// Dataset renders one downloadable table. Official datasets are filtered to
// years; student datasets ignore it.
func (s *Service) Dataset(ctx context.Context, ds export.Dataset, years domain.YearRange) (export.File, error) {
	var (
		data []byte
		err  error
		prov = domain.ProvenanceSynthetic
	)

	switch ds {
	case export.DatasetSST, export.DatasetHeatDays:
		v := s.Official(ctx, years)
		series := v.SST
		if ds == export.DatasetHeatDays {
			series = v.HeatDays
		}
		prov = series.Provenance
		data, err = export.SeriesCSV(series)
	case export.DatasetSleep:
		data, err = export.SleepCSV(s.Student(ctx, domain.StudentQuery{Metric: domain.MetricSleepHours}).Sleep)
	case export.DatasetMathScore, export.DatasetEnglishScore:
		metric, _ := ds.Metric()
		data, err = export.ScoresCSV(s.Student(ctx, domain.StudentQuery{Metric: metric}).Scores)
	default:
		return export.File{}, fmt.Errorf("%w: %q", export.ErrUnknownDataset, ds)
	}
	if err != nil {
		return export.File{}, fmt.Errorf("render %s: %w", ds, err)
	}

	return export.File{
		Dataset:     ds,
		Name:        ds.FileName(prov),
		ContentType: export.ContentTypeCSV,
		Data:        data,
	}, nil
}

// Links renders every dataset as an inline data-URI download.
func (s *Service) Links(ctx context.Context, years domain.YearRange) ([]export.Link, error) {
	links := make([]export.Link, 0, len(export.Datasets()))
	for _, ds := range export.Datasets() {
		f, err := s.Dataset(ctx, ds, years)
		if err != nil {
			return nil, err
		}
		links = append(links, f.Link())
	}
	return links, nil
}

// Generator exposes the underlying generator for offline tooling.
func (s *Service) Generator() *domain.Generator { return s.gen }

// resolve fetches a source through the source cache, falling back to the
// generator series on failure. Only settled results are cached so a failed
// fetch is retried on the next request.
func (s *Service) resolve(ctx context.Context, name string, fetcher domain.SeriesFetcher, fallback func() domain.Series) domain.FetchResult {
	if res, ok := cached(s.sourceCache, s.metrics, "source", name); ok {
		return res
	}
	res := domain.FetchOrFallback(ctx, fetcher, fallback, s.logger.With("source", name))
	s.metrics.SourceResults.WithLabelValues(name, string(res.Provenance)).Inc()
	if settled(res) {
		s.sourceCache.put(name, res)
	}
	return res
}

// settled reports whether res holds the real series or comes from a source
// that is not configured. Transient failures, including a caller that gave
// up mid-fetch, are not settled.
func settled(res domain.FetchResult) bool {
	return res.Provenance == domain.ProvenanceReal || errors.Is(res.Err, domain.ErrSourceDisabled)
}

func (s *Service) studentData() studentData {
	key := fmt.Sprintf("seed:%d", s.gen.Params().Seed)
	if d, ok := cached(s.dataCache, s.metrics, "student_data", key); ok {
		return d
	}
	sleep, scores := s.gen.StudentData()
	d := studentData{sleep: sleep, scores: scores}
	s.dataCache.put(key, d)
	return d
}

// cached reads key from c and counts the hit or miss under name.
func cached[V any](c *lruCache[V], m *observability.Metrics, name, key string) (V, bool) {
	v, ok := c.get(key)
	result := "miss"
	if ok {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(name, result).Inc()
	return v, ok
}

// finish records build metrics, marks the service ready, and publishes the view.
func (s *Service) finish(ctx context.Context, view string, start time.Time, renderID string, generatedAt time.Time, payload any) {
	s.metrics.ViewBuilds.WithLabelValues(view).Inc()
	s.metrics.BuildDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	s.ready.Store(true)

	s.logger.Debug("view computed", "view", view, "render_id", renderID)

	if s.publisher == nil {
		return
	}
	snap := domain.Snapshot{RenderID: renderID, View: view, GeneratedAt: generatedAt, Payload: payload}
	if err := s.publisher.Publish(ctx, snap); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("snapshot publish failed", "view", view, "render_id", renderID, "error", err)
		return
	}
	s.metrics.SnapshotsPublished.Inc()
}
