package wizard

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/internal/domain/i18n"
	"github.com/yanqian/samutthan/internal/domain/report"
	"github.com/yanqian/samutthan/internal/domain/weather"
	apperrors "github.com/yanqian/samutthan/pkg/errors"
	"github.com/yanqian/samutthan/pkg/util"
)

// Service drives the four step intake for persisted sessions.
type Service interface {
	Start(ctx context.Context, locale i18n.Locale) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (Session, error)
	ToggleSymptom(ctx context.Context, id, key string) (Session, error)
	UpdateNotes(ctx context.Context, id, notes string) (Session, error)
	UpdateContext(ctx context.Context, id string, update ContextUpdate) (Session, error)
	SetLocale(ctx context.Context, id string, locale i18n.Locale) (Session, error)
	Next(ctx context.Context, id string) (Session, error)
	Back(ctx context.Context, id string) (Session, error)
	Reset(ctx context.Context, id string) (Session, error)
	Diagnose(ctx context.Context, id string) (Session, error)
	ApplyLocation(ctx context.Context, id string, lat, lon float64) (Session, error)
	ExportReport(ctx context.Context, id string) (report.Artifact, error)
	End(ctx context.Context, id string) error
}

// busyLease bounds how long a busy flag blocks new work. A flag older than
// this was left behind by a request that never released it.
const busyLease = 10 * time.Minute

// Config wires runtime settings for the wizard.
type Config struct {
	Location *time.Location
}

type service struct {
	store     Store
	diagnoser diagnosis.Service
	weather   weather.Provider
	reports   report.Service
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires the wizard domain.
func NewService(cfg Config, store Store, diagnoser diagnosis.Service, provider weather.Provider, reports report.Service, logger *slog.Logger) Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		store:     store,
		diagnoser: diagnoser,
		weather:   provider,
		reports:   reports,
		logger:    logger.With("component", "wizard.service"),
		now:       util.Clock(loc),
		newID:     func() string { return uuid.NewString() },
	}
}

func (s *service) Start(ctx context.Context, locale i18n.Locale) (Session, error) {
	session := NewSession(s.newID(), locale, s.now())
	if err := s.store.Create(ctx, session); err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeStoreError, "failed to create session", err)
	}
	s.logger.Info("session started", "session_id", session.ID, "locale", session.Locale)
	return session, nil
}

func (s *service) Get(ctx context.Context, id string) (Session, error) {
	return s.load(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error { return sess.UpdateProfile(update) })
}

func (s *service) ToggleSymptom(ctx context.Context, id, key string) (Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error { return sess.ToggleSymptom(key) })
}

func (s *service) UpdateNotes(ctx context.Context, id, notes string) (Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error { return sess.UpdateNotes(notes) })
}

func (s *service) UpdateContext(ctx context.Context, id string, update ContextUpdate) (Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error { return sess.UpdateContext(update) })
}

func (s *service) SetLocale(ctx context.Context, id string, locale i18n.Locale) (Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error { return sess.SetLocale(locale) })
}

func (s *service) Next(ctx context.Context, id string) (Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if session.Step == StepContext {
		return s.diagnose(ctx, session)
	}
	if err := session.Next(); err != nil {
		return session, err
	}
	return session, s.save(ctx, &session)
}

func (s *service) Back(ctx context.Context, id string) (Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error { return sess.Back() })
}

func (s *service) Reset(ctx context.Context, id string) (Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	reportKey := session.ReportKey
	if err := session.Reset(s.now()); err != nil {
		return session, err
	}
	if reportKey != "" {
		if err := s.reports.Discard(ctx, reportKey); err != nil {
			s.logger.Warn("failed to discard report", "session_id", id, "key", reportKey, "error", err)
		}
	}
	return session, s.save(ctx, &session)
}

func (s *service) Diagnose(ctx context.Context, id string) (Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	return s.diagnose(ctx, session)
}

func (s *service) diagnose(ctx context.Context, session Session) (Session, error) {
	if session.Step != StepContext {
		return session, session.mismatch()
	}
	if err := s.acquire(ctx, &session); err != nil {
		return session, err
	}

	// The model call and the release outlive a disconnected caller so the
	// busy flag is always cleared.
	work := context.WithoutCancel(ctx)
	result, err := s.diagnoser.Analyze(work, session.DiagnosisInput())
	session.Busy = false
	if err != nil {
		s.logger.Error("diagnosis failed", "session_id", session.ID, "error", err)
		s.release(work, &session)
		return session, apperrors.Wrap(apperrors.CodeAnalysisFailed, i18n.Message(i18n.MsgAnalysisFailed, session.Locale), err)
	}

	if err := session.Complete(result); err != nil {
		s.release(work, &session)
		return session, err
	}
	return session, s.save(work, &session)
}

func (s *service) ApplyLocation(ctx context.Context, id string, lat, lon float64) (Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	reading, err := s.weather.Current(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("weather lookup failed", "session_id", id, "error", err)
		return session, nil
	}
	session.Weather.TempC = reading.TempC
	if reading.Condition != "" {
		session.Weather.Condition = reading.Condition
	}
	if err := s.save(ctx, &session); err != nil {
		s.logger.Warn("failed to save weather", "session_id", id, "error", err)
	}
	return session, nil
}

func (s *service) ExportReport(ctx context.Context, id string) (report.Artifact, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return report.Artifact{}, err
	}
	if session.Step != StepResults || session.Diagnosis == nil {
		return report.Artifact{}, session.mismatch()
	}
	if session.ReportKey != "" && session.ReportLocale == session.Locale {
		artifact, err := s.reports.Open(ctx, session.ReportKey)
		if err == nil {
			return artifact, nil
		}
		s.logger.Warn("stored report unavailable, rendering again", "session_id", id, "key", session.ReportKey, "error", err)
	}
	if err := s.acquire(ctx, &session); err != nil {
		return report.Artifact{}, err
	}

	work := context.WithoutCancel(ctx)
	artifact, exportErr := s.reports.Export(work, session.ID, report.Source{
		Profile: session.Profile,
		Weather: session.Weather,
		Result:  *session.Diagnosis,
		Locale:  session.Locale,
	})
	session.Busy = false
	if exportErr == nil {
		session.ReportKey = artifact.Key
		session.ReportLocale = session.Locale
	}
	s.release(work, &session)
	if exportErr != nil {
		s.logger.Error("report export failed", "session_id", session.ID, "error", exportErr)
		return report.Artifact{}, apperrors.Wrap(apperrors.CodeReportFailed, i18n.Message(i18n.MsgReportFailed, session.Locale), exportErr)
	}
	return artifact, nil
}

// End discards the stored report and forgets the session.
func (s *service) End(ctx context.Context, id string) error {
	session, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if session.ReportKey != "" {
		if err := s.reports.Discard(ctx, session.ReportKey); err != nil {
			s.logger.Warn("failed to discard report", "session_id", id, "key", session.ReportKey, "error", err)
		}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeStoreError, "failed to delete session", err)
	}
	s.logger.Info("session ended", "session_id", id)
	return nil
}

// acquire marks the session busy and persists the flag. A flag held past
// busyLease is taken over.
func (s *service) acquire(ctx context.Context, session *Session) error {
	if session.Busy {
		if s.now().Sub(session.UpdatedAt) < busyLease {
			return apperrors.Wrap(apperrors.CodeBusy, i18n.Message(i18n.MsgBusy, session.Locale), nil)
		}
		s.logger.Warn("taking over stale busy flag", "session_id", session.ID, "since", session.UpdatedAt)
	}
	session.Busy = true
	return s.save(ctx, session)
}

// release persists a session whose busy flag was cleared, logging failures.
func (s *service) release(ctx context.Context, session *Session) {
	if err := s.save(ctx, session); err != nil {
		s.logger.Error("failed to release session", "session_id", session.ID, "error", err)
	}
}

func (s *service) mutate(ctx context.Context, id string, fn func(*Session) error) (Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if err := fn(&session); err != nil {
		return session, err
	}
	return session, s.save(ctx, &session)
}

func (s *service) load(ctx context.Context, id string) (Session, error) {
	session, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeStoreError, "failed to load session", err)
	}
	if !ok {
		return Session{}, apperrors.Wrap(apperrors.CodeNotFound, "session not found", nil)
	}
	return session, nil
}

func (s *service) save(ctx context.Context, session *Session) error {
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, *session); err != nil {
		return apperrors.Wrap(apperrors.CodeStoreError, "failed to save session", err)
	}
	return nil
}
