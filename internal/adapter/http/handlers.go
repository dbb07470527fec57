package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/heat-scores-dashboard/internal/domain"
	"github.com/couchcryptid/heat-scores-dashboard/internal/export"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func (s *Server) handleOfficial(w http.ResponseWriter, r *http.Request) {
	years, err := parseYearRange(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.dashboard.Official(r.Context(), years))
}

func (s *Server) handleStudent(w http.ResponseWriter, r *http.Request) {
	q, err := parseStudentQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.dashboard.Student(r.Context(), q))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".csv")
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %q", export.ErrUnknownDataset, r.PathValue("file")))
		return
	}
	ds, err := export.ParseDataset(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	years, err := parseYearRange(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	f, err := s.dashboard.Dataset(r.Context(), ds, years)
	if err != nil {
		s.logger.Error("render dataset failed", "dataset", ds, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("render dataset failed"))
		return
	}

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(f.Data); err != nil {
		s.logger.Warn("write download failed", "dataset", ds, "error", err)
	}
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	years, err := parseYearRange(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	links, err := s.dashboard.Links(r.Context(), years)
	if err != nil {
		s.logger.Error("render links failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("render links failed"))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"links": links})
}

// parseYearRange reads start and end, defaulting each independently.
func parseYearRange(q url.Values) (domain.YearRange, error) {
	start, err := intParam(q, "start", domain.DefaultStartYear)
	if err != nil {
		return domain.YearRange{}, err
	}
	end, err := intParam(q, "end", domain.DefaultEndYear)
	if err != nil {
		return domain.YearRange{}, err
	}
	return domain.NewYearRange(start, end)
}

func parseStudentQuery(q url.Values) (domain.StudentQuery, error) {
	metric, err := domain.ParseMetric(q.Get("metric"))
	if err != nil {
		return domain.StudentQuery{}, err
	}
	trendline := true
	if v := q.Get("trendline"); v != "" {
		trendline, err = strconv.ParseBool(v)
		if err != nil {
			return domain.StudentQuery{}, fmt.Errorf("%w: trendline must be a boolean", domain.ErrInvalidParams)
		}
	}
	return domain.StudentQuery{Metric: metric, Trendline: trendline}, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer year", domain.ErrInvalidParams, key)
	}
	return n, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
