package domain

import (
	"math/rand/v2"
	"time"
)

// NormalizeYearRange returns the bounds in ascending order.
func NormalizeYearRange(yearMin, yearMax int) (int, int) {
	if yearMin > yearMax {
		return yearMax, yearMin
	}
	return yearMin, yearMax
}

// FilterByYearRange keeps observations with yearMin <= year <= yearMax.
// Inverted bounds are swapped first. The input series is not modified.
func FilterByYearRange(s Series, yearMin, yearMax int) Series {
	yearMin, yearMax = NormalizeYearRange(yearMin, yearMax)
	out := Series{Label: s.Label, Provenance: s.Provenance, Observations: make([]Observation, 0, len(s.Observations))}
	for _, o := range s.Observations {
		if o.Year >= yearMin && o.Year <= yearMax {
			out.Observations = append(out.Observations, o)
		}
	}
	return out
}

// DateWindow describes the days a reshaped row's date is drawn from:
// Anchor plus a uniform offset in [0, Days).
type DateWindow struct {
	Anchor time.Time
	Days   int
}

// Sample draws one date from the window. A window of zero days, or a nil
// rng, always yields the anchor.
func (w DateWindow) Sample(rng *rand.Rand) time.Time {
	if w.Days <= 0 || rng == nil {
		return w.Anchor
	}
	return w.Anchor.AddDate(0, 0, rng.IntN(w.Days))
}

// ReshapeWideToLong melts wide score rows into one ScoreObservation per
// (row, subject). Output is subject-major: every row for subjects[0], then
// every row for subjects[1], and so on. The temperature id column is carried
// onto each output row. Subjects the row type does not know are skipped.
func ReshapeWideToLong(rows []ScoreRow, subjects []Subject, window DateWindow, rng *rand.Rand) []ScoreObservation {
	out := make([]ScoreObservation, 0, len(rows)*len(subjects))
	for _, subj := range subjects {
		for _, r := range rows {
			v, ok := r.Score(subj)
			if !ok {
				continue
			}
			out = append(out, ScoreObservation{
				Temperature: r.Temperature,
				Subject:     subj,
				Metric:      subj.Label(),
				Value:       v,
			})
		}
	}
	// Dates are drawn after melting so the draw order matches the row order.
	for i := range out {
		out[i].Date = window.Sample(rng)
	}
	return out
}

// FilterScoresByMetric returns the long score rows for one subject.
func FilterScoresByMetric(rows []ScoreObservation, subject Subject) []ScoreObservation {
	out := make([]ScoreObservation, 0, len(rows)/2)
	for _, r := range rows {
		if r.Subject == subject {
			out = append(out, r)
		}
	}
	return out
}
