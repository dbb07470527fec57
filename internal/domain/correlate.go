package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData marks a correlation or fit computed over too few points.
var ErrInsufficientData = errors.New("insufficient data")

// minPairs is the smallest joined sample a coefficient is reported for.
const minPairs = 2

// Correlation is a Pearson coefficient over two year-joined series. When
// Sufficient is false the coefficient is meaningless and Message explains why.
type Correlation struct {
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
	SampleSize  int     `json:"sample_size" yaml:"sample_size"`
	Strength    string  `json:"strength,omitempty" yaml:"strength,omitempty"`
	Sufficient  bool    `json:"sufficient" yaml:"sufficient"`
	Message     string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// Err returns ErrInsufficientData for the sentinel outcome, nil otherwise.
func (c Correlation) Err() error {
	if c.Sufficient {
		return nil
	}
	return ErrInsufficientData
}

// String formats the coefficient to three decimals, or the message.
func (c Correlation) String() string {
	if !c.Sufficient {
		return c.Message
	}
	return fmt.Sprintf("%.3f", c.Coefficient)
}

// JoinOnYear inner-joins two series on year. Duplicate years produce every
// pairing, in a's order.
func JoinOnYear(a, b Series) (xs, ys []float64, years []int) {
	byYear := make(map[int][]float64, len(b.Observations))
	for _, o := range b.Observations {
		byYear[o.Year] = append(byYear[o.Year], o.Value)
	}
	for _, o := range a.Observations {
		for _, v := range byYear[o.Year] {
			xs = append(xs, o.Value)
			ys = append(ys, v)
			years = append(years, o.Year)
		}
	}
	return xs, ys, years
}

// Correlate joins a and b on year and returns the Pearson coefficient of the
// two value columns. Fewer than two joined points, or a constant column,
// yields the insufficient-data sentinel instead of an error.
func Correlate(a, b Series) Correlation {
	xs, ys, _ := JoinOnYear(a, b)
	r, err := Pearson(xs, ys)
	if err != nil {
		return Correlation{
			SampleSize: len(xs),
			Message:    "not enough overlapping data to compute a correlation",
		}
	}
	return Correlation{
		Coefficient: r,
		SampleSize:  len(xs),
		Strength:    strength(r),
		Sufficient:  true,
	}
}

// Pearson returns the sample correlation of xs and ys, clamped to [-1, 1].
func Pearson(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("pearson: length mismatch %d != %d", len(xs), len(ys))
	}
	if len(xs) < minPairs {
		return 0, fmt.Errorf("pearson: %d points: %w", len(xs), ErrInsufficientData)
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, fmt.Errorf("pearson: zero variance: %w", ErrInsufficientData)
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r)), nil
}

func strength(r float64) string {
	switch a := math.Abs(r); {
	case a >= 0.7:
		return "strong"
	case a >= 0.4:
		return "moderate"
	case a >= 0.2:
		return "weak"
	default:
		return "negligible"
	}
}

// LinearFit is an ordinary least squares line y = Slope*x + Intercept.
type LinearFit struct {
	Slope     float64 `json:"slope" yaml:"slope"`
	Intercept float64 `json:"intercept" yaml:"intercept"`
	R2        float64 `json:"r2" yaml:"r2"`
	N         int     `json:"n" yaml:"n"`
}

// At evaluates the fitted line.
func (f LinearFit) At(x float64) float64 { return f.Slope*x + f.Intercept }

// FitLine computes the OLS trendline drawn over score scatter plots.
func FitLine(xs, ys []float64) (LinearFit, error) {
	if len(xs) != len(ys) {
		return LinearFit{}, fmt.Errorf("fit line: length mismatch %d != %d", len(xs), len(ys))
	}
	if len(xs) < minPairs {
		return LinearFit{}, fmt.Errorf("fit line: %d points: %w", len(xs), ErrInsufficientData)
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 {
		return LinearFit{}, fmt.Errorf("fit line: constant x: %w", ErrInsufficientData)
	}
	slope := sxy / sxx
	fit := LinearFit{Slope: slope, Intercept: my - slope*mx, N: len(xs)}
	if syy > 0 {
		fit.R2 = (sxy * sxy) / (sxx * syy)
	}
	return fit, nil
}
