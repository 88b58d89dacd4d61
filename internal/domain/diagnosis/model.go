package diagnosis

import (
	"time"

	"github.com/yanqian/samutthan/internal/domain/i18n"
	"github.com/yanqian/samutthan/internal/domain/samutthan"
	"github.com/yanqian/samutthan/pkg/metrics"
)

// BirthDateLayout is the calendar-date format accepted for birth dates.
const BirthDateLayout = "2006-01-02"

// Gender is the enumerated patient gender.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is one of the enumerated values.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// Profile is the patient identity captured on the first wizard step.
type Profile struct {
	Name      string            `json:"name"`
	BirthDate string            `json:"birthDate"`
	Gender    Gender            `json:"gender"`
	Element   samutthan.Element `json:"elementChaoRuean"`
}

// SymptomRecord holds the selected symptom labels, onset time and notes.
type SymptomRecord struct {
	Symptoms []string `json:"symptoms"`
	Onset    string   `json:"onset"`
	Notes    string   `json:"customNotes"`
}

// WeatherContext is the ambient Utu context.
type WeatherContext struct {
	TempC     int              `json:"temp"`
	Condition string           `json:"condition"`
	Season    samutthan.Season `json:"season"`
}

// Imbalance is the dominant dosha reported by the model.
type Imbalance string

const (
	ImbalancePitta Imbalance = "Pitta"
	ImbalanceWata  Imbalance = "Wata"
	ImbalanceSemha Imbalance = "Semha"
	ImbalanceMixed Imbalance = "Mixed"
)

// Imbalances lists the accepted imbalance values in schema order.
var Imbalances = []Imbalance{ImbalancePitta, ImbalanceWata, ImbalanceSemha, ImbalanceMixed}

// Valid reports whether i is one of the enumerated values.
func (i Imbalance) Valid() bool {
	for _, candidate := range Imbalances {
		if i == candidate {
			return true
		}
	}
	return false
}

// Recommendations are the three ordered self-care lists.
type Recommendations struct {
	Food      []string `json:"food"`
	Lifestyle []string `json:"lifestyle"`
	Herbs     []string `json:"herbs"`
}

// Result is the typed diagnosis returned by the external model.
type Result struct {
	Summary         string          `json:"summary"`
	Imbalance       Imbalance       `json:"imbalance"`
	Logic           string          `json:"logic"`
	Recommendations Recommendations `json:"recommendations"`
}

// Input is everything the service needs to request one diagnosis.
type Input struct {
	Profile Profile
	Record  SymptomRecord
	Weather WeatherContext
	Locale  i18n.Locale
}

// GenerateRequest is sent to the external generative model.
type GenerateRequest struct {
	Model          string
	Prompt         string
	Schema         *Schema
	Locale         i18n.Locale
	Temperature    float32
	ThinkingBudget int32
}

// GenerateResponse carries the raw model text and token usage.
type GenerateResponse struct {
	Text  string
	Usage metrics.TokenUsage
}

// Config wires runtime settings for the diagnosis domain.
type Config struct {
	Model          string
	Temperature    float32
	ThinkingBudget int32
	// Timeout bounds a single model call. Zero leaves the caller's deadline.
	Timeout  time.Duration
	Location *time.Location
}

// ParseBirthDate parses a YYYY-MM-DD birth date.
func ParseBirthDate(raw string) (time.Time, error) {
	return time.Parse(BirthDateLayout, raw)
}
