package wizard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/internal/domain/i18n"
	"github.com/yanqian/samutthan/internal/domain/report"
	"github.com/yanqian/samutthan/internal/domain/weather"
	apperrors "github.com/yanqian/samutthan/pkg/errors"
)

type stubStore struct {
	sessions map[string]Session
	saves    []Session
	// strictCtx makes Save fail on a done context, as the network stores do.
	strictCtx bool
	onSave    func(Session)
}

func newStubStore() *stubStore {
	return &stubStore{sessions: map[string]Session{}}
}

func (s *stubStore) Create(_ context.Context, session Session) error {
	if _, ok := s.sessions[session.ID]; ok {
		return ErrSessionExists
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *stubStore) Get(_ context.Context, id string) (Session, bool, error) {
	session, ok := s.sessions[id]
	return session, ok, nil
}

func (s *stubStore) Save(ctx context.Context, session Session) error {
	if s.strictCtx && ctx.Err() != nil {
		return ctx.Err()
	}
	s.sessions[session.ID] = session
	s.saves = append(s.saves, session)
	if s.onSave != nil {
		s.onSave(session)
	}
	return nil
}

func (s *stubStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

type stubDiagnoser struct {
	result diagnosis.Result
	err    error
	calls  int
	last   diagnosis.Input
	during func()
	ctxErr error
}

func (s *stubDiagnoser) Analyze(ctx context.Context, in diagnosis.Input) (diagnosis.Result, error) {
	s.calls++
	s.last = in
	if s.during != nil {
		s.during()
	}
	s.ctxErr = ctx.Err()
	return s.result, s.err
}

type stubWeather struct {
	reading weather.Reading
	err     error
}

func (s stubWeather) Current(context.Context, float64, float64) (weather.Reading, error) {
	return s.reading, s.err
}

type stubReports struct {
	err       error
	exports   int
	opened    int
	stored    map[string]report.Artifact
	discarded []string
}

func (s *stubReports) Export(_ context.Context, sessionID string, src report.Source) (report.Artifact, error) {
	s.exports++
	if s.err != nil {
		return report.Artifact{}, s.err
	}
	name := report.FileName(src.Profile.Name)
	artifact := report.Artifact{Key: report.ObjectKey(sessionID, name), FileName: name, ContentType: report.ContentType, Data: []byte("%PDF-" + string(src.Locale))}
	if s.stored == nil {
		s.stored = map[string]report.Artifact{}
	}
	s.stored[artifact.Key] = artifact
	return artifact, nil
}

func (s *stubReports) Open(_ context.Context, key string) (report.Artifact, error) {
	s.opened++
	artifact, ok := s.stored[key]
	if !ok {
		return report.Artifact{}, errors.New("no such report")
	}
	return artifact, nil
}

func (s *stubReports) Discard(_ context.Context, key string) error {
	s.discarded = append(s.discarded, key)
	delete(s.stored, key)
	return nil
}

type fixture struct {
	svc       *service
	store     *stubStore
	diagnoser *stubDiagnoser
	reports   *stubReports
}

func newFixture(w weather.Provider) *fixture {
	f := &fixture{
		store: newStubStore(),
		diagnoser: &stubDiagnoser{result: diagnosis.Result{
			Summary:   "Heat",
			Imbalance: diagnosis.ImbalancePitta,
			Logic:     "Hot season",
			Recommendations: diagnosis.Recommendations{
				Food: []string{"a"}, Lifestyle: []string{"b"}, Herbs: []string{"c"},
			},
		}},
		reports: &stubReports{},
	}
	if w == nil {
		w = stubWeather{reading: weather.Reading{TempC: 30}}
	}
	f.svc = &service{
		store:     f.store,
		diagnoser: f.diagnoser,
		weather:   w,
		reports:   f.reports,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       func() time.Time { return fixedNow },
		newID:     func() string { return "sess-1" },
	}
	return f
}

// walkToContext drives a new session through steps 1 and 2.
func (f *fixture) walkToContext(t *testing.T, locale i18n.Locale) Session {
	t.Helper()
	ctx := context.Background()
	session, err := f.svc.Start(ctx, locale)
	require.NoError(t, err)
	_, err = f.svc.UpdateProfile(ctx, session.ID, ProfileUpdate{Name: ptr("Somchai")})
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, session.ID)
	require.NoError(t, err)
	_, err = f.svc.ToggleSymptom(ctx, session.ID, "fever")
	require.NoError(t, err)
	session, err = f.svc.Next(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, StepContext, session.Step)
	return session
}

func TestStartPersistsSession(t *testing.T) {
	f := newFixture(nil)
	session, err := f.svc.Start(context.Background(), i18n.LocaleEnglish)
	require.NoError(t, err)
	require.Equal(t, "sess-1", session.ID)

	got, err := f.svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Equal(t, StepProfile, got.Step)
	require.Equal(t, i18n.LocaleEnglish, got.Locale)
}

func TestGetUnknownSession(t *testing.T) {
	f := newFixture(nil)
	_, err := f.svc.Get(context.Background(), "missing")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSymptomStepBlocksThenUnblocks(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	session, err := f.svc.Start(ctx, i18n.LocaleEnglish)
	require.NoError(t, err)

	_, err = f.svc.UpdateProfile(ctx, session.ID, ProfileUpdate{Name: ptr("Somchai")})
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, session.ID)
	require.NoError(t, err)

	_, err = f.svc.Next(ctx, session.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeTransitionRefused))

	_, err = f.svc.ToggleSymptom(ctx, session.ID, "headache")
	require.NoError(t, err)
	session, err = f.svc.Next(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, StepContext, session.Step)
}

func TestNextFromContextRunsDiagnosis(t *testing.T) {
	f := newFixture(nil)
	session := f.walkToContext(t, i18n.LocaleEnglish)

	session, err := f.svc.Next(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, StepResults, session.Step)
	require.NotNil(t, session.Diagnosis)
	require.Equal(t, diagnosis.ImbalancePitta, session.Diagnosis.Imbalance)
	require.False(t, session.Busy)
	require.Equal(t, 1, f.diagnoser.calls)
	require.Equal(t, []string{"Fever"}, f.diagnoser.last.Record.Symptoms)
	require.Equal(t, i18n.LocaleEnglish, f.diagnoser.last.Locale)

	stored := f.store.sessions[session.ID]
	require.Equal(t, StepResults, stored.Step)
}

func TestDiagnoseFailureStaysOnContext(t *testing.T) {
	f := newFixture(nil)
	f.diagnoser.err = errors.New("upstream 500")
	session := f.walkToContext(t, i18n.LocaleThai)

	session, err := f.svc.Diagnose(context.Background(), session.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeAnalysisFailed))
	require.Equal(t, i18n.Message(i18n.MsgAnalysisFailed, i18n.LocaleThai), apperrors.MessageOf(err))
	require.Equal(t, StepContext, session.Step)
	require.Nil(t, session.Diagnosis)

	stored := f.store.sessions[session.ID]
	require.Equal(t, StepContext, stored.Step)
	require.False(t, stored.Busy)

	f.diagnoser.err = nil
	session, err = f.svc.Diagnose(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, StepResults, session.Step)
}

func TestDiagnoseMarksBusyDuringCall(t *testing.T) {
	f := newFixture(nil)
	session := f.walkToContext(t, i18n.LocaleEnglish)
	before := len(f.store.saves)

	_, err := f.svc.Diagnose(context.Background(), session.ID)
	require.NoError(t, err)
	require.True(t, f.store.saves[before].Busy)
	require.False(t, f.store.saves[len(f.store.saves)-1].Busy)
}

func TestBusySessionRejectsDiagnose(t *testing.T) {
	f := newFixture(nil)
	session := f.walkToContext(t, i18n.LocaleEnglish)
	stored := f.store.sessions[session.ID]
	stored.Busy = true
	f.store.sessions[session.ID] = stored

	_, err := f.svc.Diagnose(context.Background(), session.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeBusy))
	require.Zero(t, f.diagnoser.calls)
}

func TestDiagnoseWrongStep(t *testing.T) {
	f := newFixture(nil)
	session, err := f.svc.Start(context.Background(), i18n.LocaleEnglish)
	require.NoError(t, err)

	_, err = f.svc.Diagnose(context.Background(), session.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStepMismatch))
	require.Zero(t, f.diagnoser.calls)
}

func TestBackThroughService(t *testing.T) {
	f := newFixture(nil)
	session := f.walkToContext(t, i18n.LocaleEnglish)

	session, err := f.svc.Back(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, StepSymptoms, session.Step)
	require.Equal(t, []string{"Fever"}, session.Record.Symptoms)
}

func TestResetDiscardsReport(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	session := f.walkToContext(t, i18n.LocaleEnglish)

	_, err := f.svc.Reset(ctx, session.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeTransitionRefused))

	_, err = f.svc.Next(ctx, session.ID)
	require.NoError(t, err)
	artifact, err := f.svc.ExportReport(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, "reports/sess-1/ThaiMed_Report_Somchai.pdf", artifact.Key)
	require.Equal(t, artifact.Key, f.store.sessions[session.ID].ReportKey)

	session, err = f.svc.Reset(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, StepProfile, session.Step)
	require.Equal(t, []string{artifact.Key}, f.reports.discarded)
	require.Empty(t, f.store.sessions[session.ID].ReportKey)
}

func TestExportReportRequiresResults(t *testing.T) {
	f := newFixture(nil)
	session := f.walkToContext(t, i18n.LocaleEnglish)

	_, err := f.svc.ExportReport(context.Background(), session.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStepMismatch))
	require.Zero(t, f.reports.exports)
}

func TestExportReportFailureIsLocalised(t *testing.T) {
	f := newFixture(nil)
	f.reports.err = errors.New("disk full")
	session := f.walkToContext(t, i18n.LocaleEnglish)
	_, err := f.svc.Next(context.Background(), session.ID)
	require.NoError(t, err)

	_, err = f.svc.ExportReport(context.Background(), session.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeReportFailed))
	require.Equal(t, "PDF generation failed", apperrors.MessageOf(err))
	require.False(t, f.store.sessions[session.ID].Busy)
	require.Empty(t, f.store.sessions[session.ID].ReportKey)
}

func TestApplyLocationUpdatesWeather(t *testing.T) {
	f := newFixture(stubWeather{reading: weather.Reading{TempC: 27, Condition: "Rainy"}})
	session := f.walkToContext(t, i18n.LocaleEnglish)

	session, err := f.svc.ApplyLocation(context.Background(), session.ID, 13.7, 100.5)
	require.NoError(t, err)
	require.Equal(t, 27, session.Weather.TempC)
	require.Equal(t, "Rainy", session.Weather.Condition)
}

func TestApplyLocationKeepsConditionWhenUnreported(t *testing.T) {
	f := newFixture(stubWeather{reading: weather.Reading{TempC: 26}})
	session := f.walkToContext(t, i18n.LocaleEnglish)

	session, err := f.svc.ApplyLocation(context.Background(), session.ID, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 26, session.Weather.TempC)
	require.Equal(t, DefaultCondition, session.Weather.Condition)
}

func TestApplyLocationSwallowsFailure(t *testing.T) {
	f := newFixture(stubWeather{err: errors.New("denied")})
	session := f.walkToContext(t, i18n.LocaleEnglish)

	session, err := f.svc.ApplyLocation(context.Background(), session.ID, 0, 0)
	require.NoError(t, err)
	require.Equal(t, DefaultTempC, session.Weather.TempC)
}

func TestSetLocaleThroughService(t *testing.T) {
	f := newFixture(nil)
	session, err := f.svc.Start(context.Background(), i18n.LocaleThai)
	require.NoError(t, err)

	session, err = f.svc.SetLocale(context.Background(), session.ID, i18n.LocaleEnglish)
	require.NoError(t, err)
	require.Equal(t, i18n.LocaleEnglish, f.store.sessions[session.ID].Locale)
}

func TestDiagnoseOutlivesCallerCancel(t *testing.T) {
	f := newFixture(nil)
	f.store.strictCtx = true
	session := f.walkToContext(t, i18n.LocaleEnglish)

	ctx, cancel := context.WithCancel(context.Background())
	f.diagnoser.during = cancel

	session, err := f.svc.Diagnose(ctx, session.ID)
	require.NoError(t, err)
	require.NoError(t, f.diagnoser.ctxErr)
	require.Equal(t, StepResults, session.Step)

	stored := f.store.sessions[session.ID]
	require.Equal(t, StepResults, stored.Step)
	require.False(t, stored.Busy)
}

func TestFailedDiagnoseAfterCancelAllowsRetry(t *testing.T) {
	f := newFixture(nil)
	f.store.strictCtx = true
	f.diagnoser.err = errors.New("upstream 503")
	session := f.walkToContext(t, i18n.LocaleEnglish)

	ctx, cancel := context.WithCancel(context.Background())
	f.diagnoser.during = cancel

	_, err := f.svc.Diagnose(ctx, session.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeAnalysisFailed))
	require.False(t, f.store.sessions[session.ID].Busy)

	f.diagnoser.err = nil
	f.diagnoser.during = nil
	session, err = f.svc.Diagnose(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, StepResults, session.Step)
}

func TestStaleBusyFlagIsTakenOver(t *testing.T) {
	f := newFixture(nil)
	session := f.walkToContext(t, i18n.LocaleEnglish)
	stored := f.store.sessions[session.ID]
	stored.Busy = true
	stored.UpdatedAt = fixedNow.Add(-busyLease - time.Minute)
	f.store.sessions[session.ID] = stored

	session, err := f.svc.Diagnose(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, StepResults, session.Step)
	require.Equal(t, 1, f.diagnoser.calls)
}

func TestExportReportOutlivesCallerCancel(t *testing.T) {
	f := newFixture(nil)
	session := f.walkToContext(t, i18n.LocaleEnglish)
	_, err := f.svc.Next(context.Background(), session.ID)
	require.NoError(t, err)

	f.store.strictCtx = true
	ctx, cancel := context.WithCancel(context.Background())
	// Cancel as soon as the busy flag lands, before the export runs.
	f.store.onSave = func(s Session) {
		if s.Busy {
			cancel()
		}
	}

	artifact, err := f.svc.ExportReport(ctx, session.ID)
	require.NoError(t, err)
	require.NotEmpty(t, artifact.Data)
	require.False(t, f.store.sessions[session.ID].Busy)
	require.Equal(t, artifact.Key, f.store.sessions[session.ID].ReportKey)
}

func TestExportReportServesStoredCopy(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	session := f.walkToContext(t, i18n.LocaleEnglish)
	_, err := f.svc.Next(ctx, session.ID)
	require.NoError(t, err)

	first, err := f.svc.ExportReport(ctx, session.ID)
	require.NoError(t, err)
	second, err := f.svc.ExportReport(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, f.reports.exports)
	require.Equal(t, 1, f.reports.opened)

	_, err = f.svc.SetLocale(ctx, session.ID, i18n.LocaleThai)
	require.NoError(t, err)
	third, err := f.svc.ExportReport(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, 2, f.reports.exports)
	require.Equal(t, []byte("%PDF-th"), third.Data)
	require.Equal(t, i18n.LocaleThai, f.store.sessions[session.ID].ReportLocale)
}

func TestExportReportRendersAgainWhenStoredCopyIsGone(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	session := f.walkToContext(t, i18n.LocaleEnglish)
	_, err := f.svc.Next(ctx, session.ID)
	require.NoError(t, err)

	first, err := f.svc.ExportReport(ctx, session.ID)
	require.NoError(t, err)
	delete(f.reports.stored, first.Key)

	_, err = f.svc.ExportReport(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, 2, f.reports.exports)
}

func TestEndDeletesSessionAndReport(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	session := f.walkToContext(t, i18n.LocaleEnglish)
	_, err := f.svc.Next(ctx, session.ID)
	require.NoError(t, err)
	artifact, err := f.svc.ExportReport(ctx, session.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.End(ctx, session.ID))
	require.Equal(t, []string{artifact.Key}, f.reports.discarded)
	require.NotContains(t, f.store.sessions, session.ID)

	err = f.svc.End(ctx, session.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
