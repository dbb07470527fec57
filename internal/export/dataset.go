// Package export renders dashboard data as CSV downloads, data-URI links,
// and JSON or YAML documents.
package export

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/heat-scores-dashboard/internal/domain"
)

// ErrUnknownDataset is returned for a dataset name that has no exporter.
var ErrUnknownDataset = errors.New("unknown dataset")

// Dataset names a downloadable table.
type Dataset string

const (
	DatasetSST          Dataset = "sst"
	DatasetHeatDays     Dataset = "heat-days"
	DatasetSleep        Dataset = "sleep"
	DatasetMathScore    Dataset = "math-score"
	DatasetEnglishScore Dataset = "english-score"
)

// Datasets lists every dataset in display order.
func Datasets() []Dataset {
	return []Dataset{DatasetSST, DatasetHeatDays, DatasetSleep, DatasetMathScore, DatasetEnglishScore}
}

// ParseDataset validates a dataset name.
func ParseDataset(s string) (Dataset, error) {
	for _, d := range Datasets() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDataset, s)
}

// Official reports whether the dataset belongs to the official-data tab.
func (d Dataset) Official() bool {
	return d == DatasetSST || d == DatasetHeatDays
}

// Subject returns the exam subject of a score dataset.
func (d Dataset) Subject() (domain.Subject, bool) {
	switch d {
	case DatasetMathScore:
		return domain.SubjectMath, true
	case DatasetEnglishScore:
		return domain.SubjectEnglish, true
	default:
		return "", false
	}
}

// Metric returns the student metric the dataset is drawn from.
func (d Dataset) Metric() (domain.Metric, bool) {
	switch d {
	case DatasetSleep:
		return domain.MetricSleepHours, true
	case DatasetMathScore:
		return domain.MetricMathScore, true
	case DatasetEnglishScore:
		return domain.MetricEnglishScore, true
	default:
		return "", false
	}
}

// FileName returns the download file name. Synthetic data keeps the
// "_example" suffix.
func (d Dataset) FileName(p domain.Provenance) string {
	var base string
	switch d {
	case DatasetSST:
		base = "noaa_sst"
	case DatasetHeatDays:
		base = "kma_heatdays"
	case DatasetSleep:
		base = "sleep_vs_temp"
	case DatasetMathScore:
		base = "math_vs_temp"
	case DatasetEnglishScore:
		base = "english_vs_temp"
	default:
		base = string(d)
	}
	if p == domain.ProvenanceReal {
		return base + ".csv"
	}
	return base + "_example.csv"
}
