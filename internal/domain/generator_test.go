package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_OfficialSeries(t *testing.T) {
	g := NewGenerator(DefaultGeneratorParams())

	t.Run("sea surface temperature", func(t *testing.T) {
		s := g.SeaSurfaceTemperature()
		require.Equal(t, 24, s.Len())
		assert.Equal(t, LabelSSTExample, s.Label)
		assert.Equal(t, ProvenanceSynthetic, s.Provenance)
		require.NoError(t, s.Validate())

		first := s.Observations[0]
		assert.Equal(t, time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC), first.Date)
		assert.Equal(t, 2000, first.Year)
		assert.InDelta(t, 15.0, first.Value, 1e-12)

		last := s.Observations[23]
		assert.Equal(t, 2023, last.Year)
		assert.InDelta(t, 15.0+0.02*23+0.2*math.Sin(23.0/5.0), last.Value, 1e-12)
	})

	t.Run("heat wave days", func(t *testing.T) {
		s := g.HeatWaveDays()
		require.Equal(t, 24, s.Len())
		assert.Equal(t, LabelHeatDaysExample, s.Label)
		require.NoError(t, s.Validate())
		assert.InDelta(t, 5.0, s.Observations[0].Value, 1e-12)
		assert.InDelta(t, 5+0.5*10+2*math.Sin(10.0/3.0), s.Observations[10].Value, 1e-12)
	})

	t.Run("chronological", func(t *testing.T) {
		s := g.HeatWaveDays()
		for i := 1; i < s.Len(); i++ {
			assert.True(t, s.Observations[i].Date.After(s.Observations[i-1].Date))
		}
	})
}

func TestGenerator_Deterministic(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 2024, -7} {
		p := DefaultGeneratorParams()
		p.Seed = seed

		sleep1, scores1 := NewGenerator(p).StudentData()
		sleep2, scores2 := NewGenerator(p).StudentData()

		if diff := cmp.Diff(sleep1, sleep2); diff != "" {
			t.Fatalf("seed %d: sleep mismatch (-first +second):\n%s", seed, diff)
		}
		if diff := cmp.Diff(scores1, scores2); diff != "" {
			t.Fatalf("seed %d: scores mismatch (-first +second):\n%s", seed, diff)
		}
		if diff := cmp.Diff(NewGenerator(p).SeaSurfaceTemperature(), NewGenerator(p).SeaSurfaceTemperature()); diff != "" {
			t.Fatalf("seed %d: sst mismatch (-first +second):\n%s", seed, diff)
		}
	}
}

func TestGenerator_DifferentSeedsDiffer(t *testing.T) {
	a := DefaultGeneratorParams()
	b := DefaultGeneratorParams()
	b.Seed = 43

	rowsA := NewGenerator(a).ScoreRows()
	rowsB := NewGenerator(b).ScoreRows()
	assert.NotEqual(t, rowsA, rowsB)
}

func TestGenerator_SleepHoursScenario(t *testing.T) {
	g := NewGenerator(DefaultGeneratorParams())
	sleep, _ := g.StudentData()

	require.Len(t, sleep, 19)
	assert.Equal(t, 2005, sleep[0].Year)
	assert.Equal(t, 2023, sleep[18].Year)
	assert.Equal(t, time.Date(2005, time.July, 15, 0, 0, 0, 0, time.UTC), sleep[0].Date)

	temps := g.MeanTemperature()
	require.Len(t, temps, 19)
	meanTemp := mean(temps)
	const meanYear = 2014.0

	for i, row := range sleep {
		expected := 8.5 - 0.03*(temps[i]-meanTemp) - 0.02*(float64(row.Year)-meanYear)
		// Noise has standard deviation 0.08, so five sigma is a safe bound.
		assert.InDelta(t, expected, row.Value, 0.4, "year %d", row.Year)
		assert.Equal(t, temps[i], row.Temperature)
		assert.Equal(t, LabelSleepHours, row.Metric)
	}

	assert.InDelta(t, 8.5-0.03*(16-meanTemp)-0.02*(2005-meanYear), sleep[0].Value, 0.4)
}

func TestGenerator_ScorePanel(t *testing.T) {
	g := NewGenerator(DefaultGeneratorParams())
	_, scores := g.StudentData()

	require.Len(t, scores, 2*DefaultStudents)

	window := ExamDateAnchor.AddDate(0, 0, examDateWindowDays)
	for i, s := range scores {
		if i < DefaultStudents {
			assert.Equal(t, SubjectMath, s.Subject)
			assert.Equal(t, LabelMathScore, s.Metric)
		} else {
			assert.Equal(t, SubjectEnglish, s.Subject)
			assert.Equal(t, LabelEnglishScore, s.Metric)
		}
		assert.False(t, s.Date.Before(ExamDateAnchor))
		assert.True(t, s.Date.Before(window))
	}

	// Math scores fall with temperature in the generating formula.
	mathRows := FilterScoresByMetric(scores, SubjectMath)
	xs := make([]float64, len(mathRows))
	ys := make([]float64, len(mathRows))
	for i, r := range mathRows {
		xs[i], ys[i] = r.Temperature, r.Value
	}
	fit, err := FitLine(xs, ys)
	require.NoError(t, err)
	assert.Less(t, fit.Slope, 0.0)
}

func TestGenerator_ScoreRowsMatchStudentData(t *testing.T) {
	g := NewGenerator(DefaultGeneratorParams())
	rows := g.ScoreRows()
	_, scores := g.StudentData()

	require.Len(t, rows, DefaultStudents)
	for i, r := range rows {
		assert.Equal(t, r.Temperature, scores[i].Temperature)
		assert.Equal(t, r.MathScore, scores[i].Value)
		assert.Equal(t, r.EnglishScore, scores[DefaultStudents+i].Value)
	}
}

func TestNewGenerator_Normalizes(t *testing.T) {
	g := NewGenerator(GeneratorParams{
		Seed:          1,
		OfficialStart: 2010,
		OfficialEnd:   2005,
		StudentStart:  2020,
		StudentEnd:    2018,
	})

	p := g.Params()
	assert.Equal(t, 2005, p.OfficialStart)
	assert.Equal(t, 2010, p.OfficialEnd)
	assert.Equal(t, 2018, p.StudentStart)
	assert.Equal(t, 2020, p.StudentEnd)
	assert.Equal(t, DefaultStudents, p.Students)
	assert.Equal(t, 6, g.SeaSurfaceTemperature().Len())
}
