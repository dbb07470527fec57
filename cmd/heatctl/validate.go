package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/couchcryptid/heat-scores-dashboard/internal/domain"
	"github.com/couchcryptid/heat-scores-dashboard/internal/export"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

// maxReported caps the per-phase error listing.
const maxReported = 20

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// table is a parsed export with its detected layout.
type table struct {
	header []string
	rows   [][]string
}

func (t table) col(name string) int { return slices.Index(t.header, name) }

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file.csv]",
		Short: "check an exported CSV against the record invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			return runValidate(cmd.OutOrStdout(), args[0], f)
		},
	}
}

func runValidate(out io.Writer, name string, r io.Reader) error {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%s: empty file", name)
	}
	t := table{header: records[0], rows: records[1:]}

	fmt.Fprintf(out, "=== Export Validation: %s ===\n\n", name)

	header := validateHeader(t)
	phases := []*phase{header}
	if header.passed() {
		phases = append(phases,
			validateRecords(t),
			validateLabels(t),
			validateOrder(t),
		)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-32s %s\n", p.name, status)
	}
	fmt.Fprintf(out, "\nRows: %d\n", len(t.rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxReported {
				fmt.Fprintf(out, "  ... %d more\n", len(p.errors)-maxReported)
				break
			}
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return nil
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return errValidationFailed
}

// validateHeader accepts the three export layouts.
func validateHeader(t table) *phase {
	p := &phase{name: "Header"}
	for _, h := range [][]string{export.SeriesHeader, export.SleepHeader, export.ScoresHeader} {
		if slices.Equal(t.header, h) {
			return p
		}
	}
	p.errorf("unrecognized header %v", t.header)
	return p
}

// validateRecords rebuilds each row as an Observation and checks it.
func validateRecords(t table) *phase {
	p := &phase{name: "Record invariants"}
	dateCol, valueCol, yearCol, labelCol, tempCol := t.col("date"), t.col("value"), t.col("year"), labelColumn(t), t.col("temperature")

	for i, row := range t.rows {
		line := i + 2
		if len(row) != len(t.header) {
			p.errorf("line %d: %d fields, want %d", line, len(row), len(t.header))
			continue
		}
		date, err := time.Parse(time.DateOnly, row[dateCol])
		if err != nil {
			p.errorf("line %d: invalid date %q", line, row[dateCol])
			continue
		}
		value, err := strconv.ParseFloat(row[valueCol], 64)
		if err != nil {
			p.errorf("line %d: invalid value %q", line, row[valueCol])
			continue
		}

		obs := domain.NewObservation(date, value, row[labelCol])
		if yearCol >= 0 {
			year, err := strconv.Atoi(row[yearCol])
			if err != nil {
				p.errorf("line %d: invalid year %q", line, row[yearCol])
				continue
			}
			obs.Year = year
		}
		if err := obs.Validate(); err != nil {
			p.errorf("line %d: %v", line, err)
		}

		if tempCol >= 0 {
			temp, err := strconv.ParseFloat(row[tempCol], 64)
			if err != nil || math.IsNaN(temp) || math.IsInf(temp, 0) {
				p.errorf("line %d: invalid temperature %q", line, row[tempCol])
			}
		}
	}
	return p
}

// validateLabels checks that every row shares one group or metric.
func validateLabels(t table) *phase {
	p := &phase{name: "Consistent label"}
	col := labelColumn(t)
	var first string
	for i, row := range t.rows {
		if col >= len(row) {
			continue
		}
		if i == 0 {
			first = row[col]
			continue
		}
		if row[col] != first {
			p.errorf("line %d: label %q differs from %q", i+2, row[col], first)
		}
	}
	return p
}

// validateOrder requires chronological rows for yearly tables. Exam rows
// carry sampled dates and are exempt.
func validateOrder(t table) *phase {
	p := &phase{name: "Chronological order"}
	if t.col("year") < 0 {
		return p
	}
	dateCol := t.col("date")
	var prev time.Time
	for i, row := range t.rows {
		if dateCol >= len(row) {
			continue
		}
		d, err := time.Parse(time.DateOnly, row[dateCol])
		if err != nil {
			continue
		}
		if d.Before(prev) {
			p.errorf("line %d: %s before %s", i+2, row[dateCol], prev.Format(time.DateOnly))
		}
		prev = d
	}
	return p
}

func labelColumn(t table) int {
	if c := t.col("group"); c >= 0 {
		return c
	}
	return t.col("metric")
}
