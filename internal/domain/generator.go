package domain

import (
	"math"
	"math/rand/v2"
	"time"
)

// Score panel constants.
const (
	DefaultStudents    = 200
	DefaultSeed        = 42
	examTempMean       = 25.0
	examTempStdDev     = 4.0
	scoreNoiseStdDev   = 6.0
	sleepNoiseStdDev   = 0.08
	examDateWindowDays = 30
)

// ExamDateAnchor is the first day of the window exam dates are drawn from.
var ExamDateAnchor = time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)

// GeneratorParams fixes everything the synthetic series depend on.
type GeneratorParams struct {
	Seed          int64 `json:"seed" yaml:"seed"`
	OfficialStart int   `json:"official_start" yaml:"official_start"`
	OfficialEnd   int   `json:"official_end" yaml:"official_end"`
	StudentStart  int   `json:"student_start" yaml:"student_start"`
	StudentEnd    int   `json:"student_end" yaml:"student_end"`
	Students      int   `json:"students" yaml:"students"`
}

// DefaultGeneratorParams returns seed 42, official years 2000-2023, student
// years 2005-2023 and 200 students.
func DefaultGeneratorParams() GeneratorParams {
	return GeneratorParams{
		Seed:          DefaultSeed,
		OfficialStart: 2000,
		OfficialEnd:   2023,
		StudentStart:  2005,
		StudentEnd:    2023,
		Students:      DefaultStudents,
	}
}

// Generator produces the placeholder series. It holds no mutable state; each
// call seeds a fresh PRNG, so equal params always yield identical output.
type Generator struct {
	params GeneratorParams
}

// NewGenerator normalizes inverted year ranges and a non-positive student count.
func NewGenerator(p GeneratorParams) *Generator {
	p.OfficialStart, p.OfficialEnd = NormalizeYearRange(p.OfficialStart, p.OfficialEnd)
	p.StudentStart, p.StudentEnd = NormalizeYearRange(p.StudentStart, p.StudentEnd)
	if p.Students <= 0 {
		p.Students = DefaultStudents
	}
	return &Generator{params: p}
}

// Params returns the normalized parameters.
func (g *Generator) Params() GeneratorParams { return g.params }

// SeaSurfaceTemperature returns the example SST series over the official range.
func (g *Generator) SeaSurfaceTemperature() Series {
	return g.official(LabelSSTExample, func(dy float64) float64 {
		return 15.0 + 0.02*dy + 0.2*math.Sin(dy/5.0)
	})
}

// HeatWaveDays returns the example heat-wave day counts over the official range.
func (g *Generator) HeatWaveDays() Series {
	return g.official(LabelHeatDaysExample, func(dy float64) float64 {
		return 5 + 0.5*dy + 2*math.Sin(dy/3.0)
	})
}

func (g *Generator) official(label string, f func(dy float64) float64) Series {
	y0 := g.params.OfficialStart
	s := Series{
		Label:        label,
		Provenance:   ProvenanceSynthetic,
		Observations: make([]Observation, 0, g.params.OfficialEnd-y0+1),
	}
	for year := y0; year <= g.params.OfficialEnd; year++ {
		s.Observations = append(s.Observations, NewObservation(yearDate(year, time.January, 1), f(float64(year-y0)), label))
	}
	return s
}

// MeanTemperature returns the noiseless yearly mean temperature over the
// student range, the input of the sleep-hours formula.
func (g *Generator) MeanTemperature() []float64 {
	y0 := g.params.StudentStart
	out := make([]float64, 0, g.params.StudentEnd-y0+1)
	for year := y0; year <= g.params.StudentEnd; year++ {
		dy := float64(year - y0)
		out = append(out, 16+0.05*dy+0.3*math.Sin(dy/4.0))
	}
	return out
}

// StudentData returns the sleep series and the long-form score panel. Both
// draw from one PRNG stream in a fixed order: sleep noise, exam temperatures,
// math noise, english noise, exam dates.
func (g *Generator) StudentData() ([]SleepObservation, []ScoreObservation) {
	rng := g.rand()
	sleep := g.sleep(rng)
	rows := g.scores(rng)
	window := DateWindow{Anchor: ExamDateAnchor, Days: examDateWindowDays}
	return sleep, ReshapeWideToLong(rows, []Subject{SubjectMath, SubjectEnglish}, window, rng)
}

// ScoreRows returns the wide score panel for the configured seed.
func (g *Generator) ScoreRows() []ScoreRow {
	rng := g.rand()
	g.sleep(rng)
	return g.scores(rng)
}

func (g *Generator) sleep(rng *rand.Rand) []SleepObservation {
	temps := g.MeanTemperature()
	y0 := g.params.StudentStart
	meanTemp := mean(temps)
	meanYear := float64(y0+g.params.StudentEnd) / 2

	out := make([]SleepObservation, len(temps))
	for i, t := range temps {
		year := y0 + i
		hours := 8.5 - 0.03*(t-meanTemp) - 0.02*(float64(year)-meanYear) + normal(rng, 0, sleepNoiseStdDev)
		out[i] = SleepObservation{
			Date:        yearDate(year, time.July, 15),
			Year:        year,
			Temperature: t,
			Value:       hours,
			Metric:      LabelSleepHours,
		}
	}
	return out
}

func (g *Generator) scores(rng *rand.Rand) []ScoreRow {
	n := g.params.Students
	rows := make([]ScoreRow, n)
	for i := range rows {
		rows[i].Temperature = normal(rng, examTempMean, examTempStdDev)
	}
	for i := range rows {
		rows[i].MathScore = 70 - 0.8*(rows[i].Temperature-examTempMean) + normal(rng, 0, scoreNoiseStdDev)
	}
	for i := range rows {
		rows[i].EnglishScore = 72 - 0.6*(rows[i].Temperature-examTempMean) + normal(rng, 0, scoreNoiseStdDev)
	}
	return rows
}

func (g *Generator) rand() *rand.Rand {
	seed := uint64(g.params.Seed)
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func normal(rng *rand.Rand, mu, sigma float64) float64 {
	return mu + sigma*rng.NormFloat64()
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
