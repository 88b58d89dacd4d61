package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/internal/domain/i18n"
	"github.com/yanqian/samutthan/internal/domain/samutthan"
	apperrors "github.com/yanqian/samutthan/pkg/errors"
)

var fixedNow = time.Date(2024, 4, 10, 9, 15, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("id-1", "", fixedNow)

	require.Equal(t, StepProfile, s.Step)
	require.Equal(t, i18n.LocaleThai, s.Locale)
	require.Empty(t, s.Profile.Name)
	require.Equal(t, "1990-01-01", s.Profile.BirthDate)
	require.Equal(t, diagnosis.GenderMale, s.Profile.Gender)
	require.Equal(t, samutthan.ElementFire, s.Profile.Element)
	require.Empty(t, s.Record.Symptoms)
	require.Equal(t, "09:15", s.Record.Onset)
	require.Equal(t, 32, s.Weather.TempC)
	require.Equal(t, "Sunny", s.Weather.Condition)
	require.Equal(t, samutthan.SeasonKimhanta, s.Weather.Season)
	require.Nil(t, s.Diagnosis)
}

func TestNextRequiresName(t *testing.T) {
	s := NewSession("id", i18n.LocaleEnglish, fixedNow)

	err := s.Next()
	require.True(t, apperrors.IsCode(err, apperrors.CodeTransitionRefused))
	require.Equal(t, "Please enter a name.", apperrors.MessageOf(err))
	require.Equal(t, StepProfile, s.Step)

	require.NoError(t, s.UpdateProfile(ProfileUpdate{Name: ptr("   ")}))
	require.Error(t, s.Next())

	require.NoError(t, s.UpdateProfile(ProfileUpdate{Name: ptr("Somchai")}))
	require.NoError(t, s.Next())
	require.Equal(t, StepSymptoms, s.Step)
}

func TestNextBlockedUntilSymptomSelected(t *testing.T) {
	s := NewSession("id", i18n.LocaleEnglish, fixedNow)
	s.Step = StepSymptoms

	require.True(t, apperrors.IsCode(s.Next(), apperrors.CodeTransitionRefused))

	require.NoError(t, s.ToggleSymptom("headache"))
	require.Equal(t, []string{"Headache"}, s.Record.Symptoms)
	require.NoError(t, s.Next())
	require.Equal(t, StepContext, s.Step)
}

func TestToggleRemovesExisting(t *testing.T) {
	s := NewSession("id", i18n.LocaleThai, fixedNow)
	s.Step = StepSymptoms

	require.NoError(t, s.ToggleSymptom("fever"))
	require.NoError(t, s.ToggleSymptom("cough"))
	require.NoError(t, s.ToggleSymptom("fever"))
	require.Equal(t, []string{"ไอ"}, s.Record.Symptoms)

	err := s.ToggleSymptom("unknown")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestNextFromContextNeedsDiagnosis(t *testing.T) {
	s := NewSession("id", i18n.LocaleThai, fixedNow)
	s.Step = StepContext
	require.True(t, apperrors.IsCode(s.Next(), apperrors.CodeTransitionRefused))

	s.Step = StepResults
	require.True(t, apperrors.IsCode(s.Next(), apperrors.CodeTransitionRefused))
}

func TestBackTransitions(t *testing.T) {
	s := NewSession("id", i18n.LocaleThai, fixedNow)

	require.True(t, apperrors.IsCode(s.Back(), apperrors.CodeTransitionRefused))

	s.Step = StepContext
	require.NoError(t, s.Back())
	require.Equal(t, StepSymptoms, s.Step)
	require.NoError(t, s.Back())
	require.Equal(t, StepProfile, s.Step)

	s.Step = StepResults
	require.Error(t, s.Back())
	require.Equal(t, StepResults, s.Step)
}

func TestResetOnlyFromResults(t *testing.T) {
	s := NewSession("id", i18n.LocaleEnglish, fixedNow)
	s.Step = StepContext
	require.True(t, apperrors.IsCode(s.Reset(fixedNow), apperrors.CodeTransitionRefused))

	s.Profile.Name = "Somchai"
	s.Record.Symptoms = []string{"Fever"}
	s.Weather.TempC = 36
	require.NoError(t, s.Complete(diagnosis.Result{Imbalance: diagnosis.ImbalancePitta}))
	s.ReportKey = "reports/id/file.pdf"

	later := fixedNow.Add(3 * time.Hour)
	require.NoError(t, s.Reset(later))
	require.Equal(t, "id", s.ID)
	require.Equal(t, i18n.LocaleEnglish, s.Locale)
	require.Equal(t, StepProfile, s.Step)
	require.Empty(t, s.Profile.Name)
	require.Empty(t, s.Record.Symptoms)
	require.Equal(t, 32, s.Weather.TempC)
	require.Equal(t, "12:15", s.Record.Onset)
	require.Nil(t, s.Diagnosis)
	require.Empty(t, s.ReportKey)
}

func TestMalformedBirthDateIgnored(t *testing.T) {
	s := NewSession("id", i18n.LocaleThai, fixedNow)

	require.NoError(t, s.UpdateProfile(ProfileUpdate{BirthDate: ptr("1985-08-20")}))
	require.Equal(t, "1985-08-20", s.Profile.BirthDate)
	require.Equal(t, samutthan.ElementWater, s.Profile.Element)

	require.NoError(t, s.UpdateProfile(ProfileUpdate{BirthDate: ptr("20/08/1985")}))
	require.Equal(t, "1985-08-20", s.Profile.BirthDate)
	require.Equal(t, samutthan.ElementWater, s.Profile.Element)
}

func TestUpdateProfileRejectsGender(t *testing.T) {
	s := NewSession("id", i18n.LocaleThai, fixedNow)
	err := s.UpdateProfile(ProfileUpdate{Gender: ptr(diagnosis.Gender("x")), Name: ptr("A")})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Empty(t, s.Profile.Name)
}

func TestMutatorsAreStepGated(t *testing.T) {
	s := NewSession("id", i18n.LocaleThai, fixedNow)

	require.True(t, apperrors.IsCode(s.ToggleSymptom("fever"), apperrors.CodeStepMismatch))
	require.True(t, apperrors.IsCode(s.UpdateNotes("x"), apperrors.CodeStepMismatch))
	require.True(t, apperrors.IsCode(s.UpdateContext(ContextUpdate{TempC: ptr(30)}), apperrors.CodeStepMismatch))

	s.Step = StepSymptoms
	require.True(t, apperrors.IsCode(s.UpdateProfile(ProfileUpdate{Name: ptr("A")}), apperrors.CodeStepMismatch))
	require.NoError(t, s.UpdateNotes("since yesterday"))

	s.Step = StepContext
	require.NoError(t, s.UpdateNotes("worse at night"))
	require.NoError(t, s.UpdateContext(ContextUpdate{Onset: ptr("23:30"), TempC: ptr(29), Condition: ptr("Rainy")}))
	require.Equal(t, "worse at night", s.Record.Notes)
	require.Equal(t, "23:30", s.Record.Onset)
	require.Equal(t, 29, s.Weather.TempC)
	require.Equal(t, "Rainy", s.Weather.Condition)
}

func TestSetLocaleAnyStep(t *testing.T) {
	s := NewSession("id", i18n.LocaleThai, fixedNow)
	s.Step = StepResults
	require.NoError(t, s.SetLocale(i18n.LocaleEnglish))
	require.Equal(t, i18n.LocaleEnglish, s.Locale)
	require.True(t, apperrors.IsCode(s.SetLocale("fr"), apperrors.CodeInvalidInput))
}

func TestStepString(t *testing.T) {
	require.Equal(t, "profile", StepProfile.String())
	require.Equal(t, "results", StepResults.String())
	require.Equal(t, "unknown", Step(9).String())
}
