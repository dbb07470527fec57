package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Bounds and defaults of the year controls.
const (
	MinYear          = 1980
	MaxYear          = 2030
	DefaultStartYear = 2000
	DefaultEndYear   = 2023
)

// ErrInvalidParams is returned for control values outside their allowed domain.
var ErrInvalidParams = errors.New("invalid parameters")

// YearRange is an inclusive, ordered pair of years.
type YearRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// DefaultYearRange returns the range the dashboard opens with.
func DefaultYearRange() YearRange {
	return YearRange{Start: DefaultStartYear, End: DefaultEndYear}
}

// NewYearRange validates both bounds against [MinYear, MaxYear] and swaps
// them when start is after end.
func NewYearRange(start, end int) (YearRange, error) {
	for _, y := range []int{start, end} {
		if y < MinYear || y > MaxYear {
			return YearRange{}, fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidParams, y, MinYear, MaxYear)
		}
	}
	start, end = NormalizeYearRange(start, end)
	return YearRange{Start: start, End: end}, nil
}

// Contains reports whether year lies inside the range.
func (r YearRange) Contains(year int) bool {
	return r.Start <= year && year <= r.End
}

// Metric is the student-view metric selector.
type Metric string

const (
	MetricSleepHours   Metric = "sleep-hours"
	MetricMathScore    Metric = "math-score"
	MetricEnglishScore Metric = "english-score"
)

// Metrics lists the selector options in display order.
func Metrics() []Metric {
	return []Metric{MetricSleepHours, MetricMathScore, MetricEnglishScore}
}

// ParseMetric accepts a selector value; empty selects sleep hours.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MetricSleepHours, nil
	case MetricSleepHours, MetricMathScore, MetricEnglishScore:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown metric %q", ErrInvalidParams, s)
	}
}

// Subject returns the exam subject behind a score metric.
func (m Metric) Subject() (Subject, bool) {
	switch m {
	case MetricMathScore:
		return SubjectMath, true
	case MetricEnglishScore:
		return SubjectEnglish, true
	default:
		return "", false
	}
}

// Label returns the display label for the metric.
func (m Metric) Label() string {
	if subj, ok := m.Subject(); ok {
		return subj.Label()
	}
	if m == MetricSleepHours {
		return LabelSleepHours
	}
	return string(m)
}

// StudentQuery holds the student-view controls.
type StudentQuery struct {
	Metric    Metric `json:"metric" yaml:"metric"`
	Trendline bool   `json:"trendline" yaml:"trendline"`
}

// DefaultStudentQuery mirrors the dashboard's initial control state.
func DefaultStudentQuery() StudentQuery {
	return StudentQuery{Metric: MetricSleepHours, Trendline: true}
}
