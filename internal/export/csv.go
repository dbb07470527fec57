package export

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/couchcryptid/heat-scores-dashboard/internal/domain"
)

const (
	// ContentTypeCSV is served on download responses.
	ContentTypeCSV = "text/csv; charset=utf-8"

	dataURIPrefix = "data:file/csv;base64,"
)

// File is one rendered download.
type File struct {
	Dataset     Dataset `json:"dataset"`
	Name        string  `json:"name"`
	ContentType string  `json:"content_type"`
	Data        []byte  `json:"-"`
}

// Link is a self-contained download: the CSV inlined as a data URI.
type Link struct {
	Dataset  Dataset `json:"dataset"`
	FileName string  `json:"file_name"`
	Href     string  `json:"href"`
}

// Link converts the file into an inline download link.
func (f File) Link() Link {
	return Link{Dataset: f.Dataset, FileName: f.Name, Href: DataURI(f.Data)}
}

// DataURI base64-encodes CSV bytes into a data:file/csv URI.
func DataURI(data []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI reverses DataURI.
func DecodeDataURI(uri string) ([]byte, error) {
	if len(uri) < len(dataURIPrefix) || uri[:len(dataURIPrefix)] != dataURIPrefix {
		return nil, errors.New("not a csv data uri")
	}
	data, err := base64.StdEncoding.DecodeString(uri[len(dataURIPrefix):])
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	return data, nil
}

// Column headers, one per record shape.
var (
	SeriesHeader = []string{"date", "value", "group", "year"}
	SleepHeader  = []string{"date", "year", "temperature", "value", "metric"}
	ScoresHeader = []string{"date", "temperature", "value", "metric"}
)

// SeriesCSV renders a standardized series.
func SeriesCSV(s domain.Series) ([]byte, error) {
	rows := make([][]string, len(s.Observations))
	for i, o := range s.Observations {
		rows[i] = []string{formatDate(o.Date), formatFloat(o.Value), o.Label, strconv.Itoa(o.Year)}
	}
	return writeCSV(SeriesHeader, rows)
}

// SleepCSV renders the sleep-hours table.
func SleepCSV(obs []domain.SleepObservation) ([]byte, error) {
	rows := make([][]string, len(obs))
	for i, o := range obs {
		rows[i] = []string{formatDate(o.Date), strconv.Itoa(o.Year), formatFloat(o.Temperature), formatFloat(o.Value), o.Metric}
	}
	return writeCSV(SleepHeader, rows)
}

// ScoresCSV renders long-form exam rows.
func ScoresCSV(obs []domain.ScoreObservation) ([]byte, error) {
	rows := make([][]string, len(obs))
	for i, o := range obs {
		rows[i] = []string{formatDate(o.Date), formatFloat(o.Temperature), formatFloat(o.Value), o.Metric}
	}
	return writeCSV(ScoresHeader, rows)
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string { return t.Format(time.DateOnly) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
