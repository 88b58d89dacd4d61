package wizard

import (
	"slices"
	"strings"
	"time"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/internal/domain/i18n"
	"github.com/yanqian/samutthan/internal/domain/samutthan"
	apperrors "github.com/yanqian/samutthan/pkg/errors"
)

// Step is the wizard position. Steps are numbered from 1 as shown to the patient.
type Step int

const (
	StepProfile Step = iota + 1
	StepSymptoms
	StepContext
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepProfile:
		return "profile"
	case StepSymptoms:
		return "symptoms"
	case StepContext:
		return "context"
	case StepResults:
		return "results"
	default:
		return "unknown"
	}
}

// Defaults applied to every new or reset session.
const (
	DefaultBirthDate = "1990-01-01"
	DefaultTempC     = 32
	DefaultCondition = "Sunny"
	onsetLayout      = "15:04"
)

// Session is the full state of one patient intake.
type Session struct {
	ID        string                   `json:"id"`
	Locale    i18n.Locale              `json:"locale"`
	Step      Step                     `json:"step"`
	Profile   diagnosis.Profile        `json:"profile"`
	Record    diagnosis.SymptomRecord  `json:"record"`
	Weather   diagnosis.WeatherContext `json:"weather"`
	Diagnosis *diagnosis.Result        `json:"diagnosis,omitempty"`
	Busy      bool                     `json:"busy"`
	ReportKey string                   `json:"reportKey,omitempty"`
	// ReportLocale is the language the stored report was rendered in.
	ReportLocale i18n.Locale `json:"reportLocale,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ProfileUpdate carries optional step 1 edits. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name      *string
	BirthDate *string
	Gender    *diagnosis.Gender
}

// ContextUpdate carries optional step 3 edits. Nil fields are left unchanged.
type ContextUpdate struct {
	Onset     *string
	TempC     *int
	Condition *string
}

// NewSession builds a session at step 1 with the intake defaults. The season
// is computed once here and never refreshed.
func NewSession(id string, locale i18n.Locale, now time.Time) Session {
	if !locale.Valid() {
		locale = i18n.DefaultLocale
	}
	s := Session{ID: id, Locale: locale, CreatedAt: now}
	s.applyDefaults(now)
	return s
}

func (s *Session) applyDefaults(now time.Time) {
	birth, _ := diagnosis.ParseBirthDate(DefaultBirthDate)
	s.Step = StepProfile
	s.Profile = diagnosis.Profile{
		BirthDate: DefaultBirthDate,
		Gender:    diagnosis.GenderMale,
		Element:   samutthan.BirthElement(birth),
	}
	s.Record = diagnosis.SymptomRecord{
		Symptoms: []string{},
		Onset:    now.Format(onsetLayout),
	}
	s.Weather = diagnosis.WeatherContext{
		TempC:     DefaultTempC,
		Condition: DefaultCondition,
		Season:    samutthan.CurrentSeason(now),
	}
	s.Diagnosis = nil
	s.Busy = false
	s.ReportKey = ""
	s.ReportLocale = ""
	s.UpdatedAt = now
}

// Next advances one step. Entering Results requires a diagnosis, so Next
// from Context is refused here.
func (s *Session) Next() error {
	switch s.Step {
	case StepProfile:
		if strings.TrimSpace(s.Profile.Name) == "" {
			return s.refuse(i18n.MsgNameRequired)
		}
		s.Step = StepSymptoms
	case StepSymptoms:
		if len(s.Record.Symptoms) == 0 {
			return s.refuse(i18n.MsgSymptomRequired)
		}
		s.Step = StepContext
	case StepContext:
		return apperrors.Wrap(apperrors.CodeTransitionRefused, "diagnosis required", nil)
	default:
		return apperrors.Wrap(apperrors.CodeTransitionRefused, "no further step", nil)
	}
	return nil
}

// Back moves one step backwards. Results and Profile have no back transition.
func (s *Session) Back() error {
	switch s.Step {
	case StepSymptoms:
		s.Step = StepProfile
	case StepContext:
		s.Step = StepSymptoms
	default:
		return apperrors.Wrap(apperrors.CodeTransitionRefused, "cannot go back from "+s.Step.String(), nil)
	}
	return nil
}

// Reset restarts the intake from Results, keeping the session id and locale.
func (s *Session) Reset(now time.Time) error {
	if s.Step != StepResults {
		return apperrors.Wrap(apperrors.CodeTransitionRefused, "reset is only available on results", nil)
	}
	s.applyDefaults(now)
	return nil
}

// Complete stores the diagnosis and enters Results.
func (s *Session) Complete(result diagnosis.Result) error {
	if err := s.requireStep(StepContext); err != nil {
		return err
	}
	s.Diagnosis = &result
	s.Step = StepResults
	return nil
}

// UpdateProfile applies step 1 edits. A malformed birth date is ignored and
// the previous value kept.
func (s *Session) UpdateProfile(update ProfileUpdate) error {
	if err := s.requireStep(StepProfile); err != nil {
		return err
	}
	if update.Gender != nil && !update.Gender.Valid() {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "gender must be Male, Female or Other", nil)
	}
	if update.Name != nil {
		s.Profile.Name = *update.Name
	}
	if update.BirthDate != nil {
		if birth, err := diagnosis.ParseBirthDate(*update.BirthDate); err == nil {
			s.Profile.BirthDate = *update.BirthDate
			s.Profile.Element = samutthan.BirthElement(birth)
		}
	}
	if update.Gender != nil {
		s.Profile.Gender = *update.Gender
	}
	return nil
}

// ToggleSymptom adds the localised label for key, or removes it when present.
func (s *Session) ToggleSymptom(key string) error {
	if err := s.requireStep(StepSymptoms); err != nil {
		return err
	}
	label, ok := i18n.SymptomLabel(key, s.Locale)
	if !ok {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "unknown symptom "+key, nil)
	}
	if idx := slices.Index(s.Record.Symptoms, label); idx >= 0 {
		s.Record.Symptoms = slices.Delete(s.Record.Symptoms, idx, idx+1)
		return nil
	}
	s.Record.Symptoms = append(s.Record.Symptoms, label)
	return nil
}

// UpdateNotes replaces the free-text notes on steps 2 and 3.
func (s *Session) UpdateNotes(notes string) error {
	if s.Step != StepSymptoms && s.Step != StepContext {
		return s.mismatch()
	}
	s.Record.Notes = notes
	return nil
}

// UpdateContext applies step 3 edits.
func (s *Session) UpdateContext(update ContextUpdate) error {
	if err := s.requireStep(StepContext); err != nil {
		return err
	}
	if update.Onset != nil {
		s.Record.Onset = *update.Onset
	}
	if update.TempC != nil {
		s.Weather.TempC = *update.TempC
	}
	if update.Condition != nil {
		s.Weather.Condition = *update.Condition
	}
	return nil
}

// SetLocale switches the display language. Allowed at any step.
func (s *Session) SetLocale(locale i18n.Locale) error {
	if !locale.Valid() {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "unsupported locale "+string(locale), nil)
	}
	s.Locale = locale
	return nil
}

// DiagnosisInput assembles the request for the diagnosis service.
func (s *Session) DiagnosisInput() diagnosis.Input {
	return diagnosis.Input{
		Profile: s.Profile,
		Record:  s.Record,
		Weather: s.Weather,
		Locale:  s.Locale,
	}
}

func (s *Session) requireStep(step Step) error {
	if s.Step != step {
		return s.mismatch()
	}
	return nil
}

func (s *Session) mismatch() error {
	return apperrors.Wrap(apperrors.CodeStepMismatch, "not allowed on step "+s.Step.String(), nil)
}

func (s *Session) refuse(key i18n.MessageKey) error {
	return apperrors.Wrap(apperrors.CodeTransitionRefused, i18n.Message(key, s.Locale), nil)
}
