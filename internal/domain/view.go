package domain

import "time"

// View names used for snapshots and metrics.
const (
	ViewOfficial = "official"
	ViewStudent  = "student"
)

// OfficialView is the official-data tab: two year-filtered series and their
// correlation.
type OfficialView struct {
	RenderID    string      `json:"render_id" yaml:"render_id"`
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
	Years       YearRange   `json:"years" yaml:"years"`
	SST         Series      `json:"sst" yaml:"sst"`
	HeatDays    Series      `json:"heat_days" yaml:"heat_days"`
	Correlation Correlation `json:"correlation" yaml:"correlation"`
}

// StudentView is the student-data tab for one selected metric. Sleep is set
// for the sleep-hours metric, Scores otherwise; Fit is set when the trendline
// is requested and computable.
type StudentView struct {
	RenderID    string             `json:"render_id" yaml:"render_id"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Query       StudentQuery       `json:"query" yaml:"query"`
	Label       string             `json:"label" yaml:"label"`
	Sleep       []SleepObservation `json:"sleep,omitempty" yaml:"sleep,omitempty"`
	Scores      []ScoreObservation `json:"scores,omitempty" yaml:"scores,omitempty"`
	Fit         *LinearFit         `json:"fit,omitempty" yaml:"fit,omitempty"`
}

// Snapshot wraps a computed view for publication.
type Snapshot struct {
	RenderID    string    `json:"render_id"`
	View        string    `json:"view"`
	GeneratedAt time.Time `json:"generated_at"`
	Payload     any       `json:"payload"`
}
