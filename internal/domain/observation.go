package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Provenance records where a series came from.
type Provenance string

const (
	ProvenanceReal      Provenance = "real"
	ProvenanceSynthetic Provenance = "synthetic"
)

// Series labels. Synthetic labels carry the "(example)" tag so the dashboard
// can tell readers the numbers are placeholders.
const (
	LabelSSTExample      = "Sea surface temperature (example)"
	LabelHeatDaysExample = "Seoul heat-wave days (example)"
	LabelSSTNOAA         = "NOAA sea surface temperature"
	LabelHeatDaysKMA     = "KMA Seoul heat-wave days"
	LabelSleepHours      = "Mean sleep hours"
	LabelMathScore       = "Math score"
	LabelEnglishScore    = "English score"
)

// Observation is the standardized (date, value, group, year) record.
type Observation struct {
	Date  time.Time `json:"date" yaml:"date"`
	Value float64   `json:"value" yaml:"value"`
	Label string    `json:"group" yaml:"group"`
	Year  int       `json:"year" yaml:"year"`
}

// NewObservation builds an observation whose Year is derived from date.
func NewObservation(date time.Time, value float64, label string) Observation {
	return Observation{Date: date, Value: value, Label: label, Year: date.Year()}
}

// Validate reports whether the observation satisfies the record invariants.
func (o Observation) Validate() error {
	switch {
	case o.Label == "":
		return errors.New("observation label is empty")
	case o.Date.IsZero():
		return errors.New("observation date is zero")
	case o.Year != o.Date.Year():
		return fmt.Errorf("observation year %d does not match date %s", o.Year, o.Date.Format(time.DateOnly))
	case math.IsNaN(o.Value) || math.IsInf(o.Value, 0):
		return fmt.Errorf("observation value for %s is not finite", o.Date.Format(time.DateOnly))
	}
	return nil
}

// Series is a chronological sequence of observations sharing one label.
type Series struct {
	Label        string        `json:"label" yaml:"label"`
	Provenance   Provenance    `json:"provenance" yaml:"provenance"`
	Observations []Observation `json:"observations" yaml:"observations"`
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Observations) }

// Values returns the observation values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Value
	}
	return out
}

// Years returns the observation years in order.
func (s Series) Years() []int {
	out := make([]int, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Year
	}
	return out
}

// Validate checks every observation and the shared-label invariant.
func (s Series) Validate() error {
	for i, o := range s.Observations {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("observation %d: %w", i, err)
		}
		if o.Label != s.Label {
			return fmt.Errorf("observation %d: label %q differs from series label %q", i, o.Label, s.Label)
		}
	}
	return nil
}

// Subject identifies an exam subject in the score panel.
type Subject string

const (
	SubjectMath    Subject = "math"
	SubjectEnglish Subject = "english"
)

// Label returns the human-readable metric label for the subject.
func (s Subject) Label() string {
	switch s {
	case SubjectMath:
		return LabelMathScore
	case SubjectEnglish:
		return LabelEnglishScore
	default:
		return string(s)
	}
}

// ScoreRow is one synthetic student in wide form.
type ScoreRow struct {
	Temperature  float64 `json:"temperature" yaml:"temperature"`
	MathScore    float64 `json:"math_score" yaml:"math_score"`
	EnglishScore float64 `json:"eng_score" yaml:"eng_score"`
}

// Score returns the row's value for subject.
func (r ScoreRow) Score(subject Subject) (float64, bool) {
	switch subject {
	case SubjectMath:
		return r.MathScore, true
	case SubjectEnglish:
		return r.EnglishScore, true
	default:
		return 0, false
	}
}

// ScoreObservation is one exam event in long form.
type ScoreObservation struct {
	Date        time.Time `json:"date" yaml:"date"`
	Temperature float64   `json:"temperature" yaml:"temperature"`
	Subject     Subject   `json:"subject" yaml:"subject"`
	Metric      string    `json:"metric" yaml:"metric"`
	Value       float64   `json:"value" yaml:"value"`
}

// SleepObservation is one year of mean sleep hours alongside that year's
// mean temperature.
type SleepObservation struct {
	Date        time.Time `json:"date" yaml:"date"`
	Year        int       `json:"year" yaml:"year"`
	Temperature float64   `json:"temperature" yaml:"temperature"`
	Value       float64   `json:"value" yaml:"value"`
	Metric      string    `json:"metric" yaml:"metric"`
}

// SleepSeries projects sleep observations onto the standardized series shape.
func SleepSeries(rows []SleepObservation) Series {
	s := Series{Label: LabelSleepHours, Provenance: ProvenanceSynthetic, Observations: make([]Observation, len(rows))}
	for i, r := range rows {
		s.Observations[i] = NewObservation(r.Date, r.Value, LabelSleepHours)
	}
	return s
}

func yearDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
