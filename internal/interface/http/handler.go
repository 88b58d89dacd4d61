package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/internal/domain/i18n"
	"github.com/yanqian/samutthan/internal/domain/report"
	"github.com/yanqian/samutthan/internal/domain/session"
	"github.com/yanqian/samutthan/internal/domain/wizard"
)

// Handler wires the HTTP transport to the wizard service.
type Handler struct {
	wizardSvc wizard.Service
	issuer    session.Issuer
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(wizardSvc wizard.Service, issuer session.Issuer, logger *slog.Logger) *Handler {
	return &Handler{
		wizardSvc: wizardSvc,
		issuer:    issuer,
		logger:    logger.With("component", "http.handler"),
	}
}

type startRequest struct {
	Locale string `json:"locale"`
}

type startResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Session   sessionView `json:"session"`
}

type localeRequest struct {
	Locale string `json:"locale" binding:"required"`
}

type profileRequest struct {
	Name      *string `json:"name"`
	BirthDate *string `json:"birthDate"`
	Gender    *string `json:"gender"`
}

type toggleRequest struct {
	Key string `json:"key" binding:"required"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type contextRequest struct {
	Onset     *string `json:"onset"`
	TempC     *int    `json:"temp"`
	Condition *string `json:"condition"`
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type sessionLabels struct {
	Gender  string `json:"gender"`
	Element string `json:"element"`
	Season  string `json:"season"`
}

type sessionView struct {
	ID         string                   `json:"id"`
	Locale     i18n.Locale              `json:"locale"`
	Step       wizard.Step              `json:"step"`
	StepName   string                   `json:"stepName"`
	Profile    diagnosis.Profile        `json:"profile"`
	Record     diagnosis.SymptomRecord  `json:"record"`
	Weather    diagnosis.WeatherContext `json:"weather"`
	Diagnosis  *diagnosis.Result        `json:"diagnosis,omitempty"`
	BadgeColor *report.RGB              `json:"badgeColor,omitempty"`
	Busy       bool                     `json:"busy"`
	Labels     sessionLabels            `json:"labels"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

func toView(s wizard.Session) sessionView {
	view := sessionView{
		ID:        s.ID,
		Locale:    s.Locale,
		Step:      s.Step,
		StepName:  s.Step.String(),
		Profile:   s.Profile,
		Record:    s.Record,
		Weather:   s.Weather,
		Diagnosis: s.Diagnosis,
		Busy:      s.Busy,
		Labels: sessionLabels{
			Gender:  i18n.GenderLabel(string(s.Profile.Gender), s.Locale),
			Element: i18n.ElementLabel(s.Profile.Element, s.Locale),
			Season:  i18n.SeasonLabel(s.Weather.Season, s.Locale),
		},
		UpdatedAt: s.UpdatedAt,
	}
	if s.Diagnosis != nil {
		color := report.BadgeColor(s.Diagnosis.Imbalance)
		view.BadgeColor = &color
	}
	return view
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Symptoms returns the selectable symptom catalogue.
func (h *Handler) Symptoms(c *gin.Context) {
	locale := i18n.ParseLocale(c.Query("locale"))
	c.JSON(http.StatusOK, gin.H{"locale": locale, "symptoms": i18n.Symptoms(locale)})
}

// StartSession creates a wizard session and returns its bearer token.
func (h *Handler) StartSession(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}

	sess, err := h.wizardSvc.Start(c.Request.Context(), i18n.ParseLocale(req.Locale))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	token, expiresAt, err := h.issuer.Issue(sess.ID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, startResponse{Token: token, ExpiresAt: expiresAt, Session: toView(sess)})
}

// GetSession returns the current wizard state.
func (h *Handler) GetSession(c *gin.Context) {
	h.respond(c)(h.wizardSvc.Get(c.Request.Context(), sessionID(c)))
}

// SetLocale switches the session language.
func (h *Handler) SetLocale(c *gin.Context) {
	var req localeRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.wizardSvc.SetLocale(c.Request.Context(), sessionID(c), i18n.Locale(req.Locale)))
}

// UpdateProfile applies step 1 edits.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}
	update := wizard.ProfileUpdate{Name: req.Name, BirthDate: req.BirthDate}
	if req.Gender != nil {
		gender := diagnosis.Gender(*req.Gender)
		update.Gender = &gender
	}
	h.respond(c)(h.wizardSvc.UpdateProfile(c.Request.Context(), sessionID(c), update))
}

// ToggleSymptom adds or removes a symptom on step 2.
func (h *Handler) ToggleSymptom(c *gin.Context) {
	var req toggleRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.wizardSvc.ToggleSymptom(c.Request.Context(), sessionID(c), req.Key))
}

// UpdateNotes replaces the free-text notes.
func (h *Handler) UpdateNotes(c *gin.Context) {
	var req notesRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.wizardSvc.UpdateNotes(c.Request.Context(), sessionID(c), req.Notes))
}

// UpdateContext applies step 3 edits.
func (h *Handler) UpdateContext(c *gin.Context) {
	var req contextRequest
	if !bindJSON(c, &req) {
		return
	}
	update := wizard.ContextUpdate{Onset: req.Onset, TempC: req.TempC, Condition: req.Condition}
	h.respond(c)(h.wizardSvc.UpdateContext(c.Request.Context(), sessionID(c), update))
}

// ApplyLocation refreshes the temperature from the patient's coordinates.
func (h *Handler) ApplyLocation(c *gin.Context) {
	var req locationRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.wizardSvc.ApplyLocation(c.Request.Context(), sessionID(c), *req.Latitude, *req.Longitude))
}

// Next advances the wizard. From step 3 this runs the diagnosis.
func (h *Handler) Next(c *gin.Context) {
	h.respond(c)(h.wizardSvc.Next(c.Request.Context(), sessionID(c)))
}

// Back returns to the previous step.
func (h *Handler) Back(c *gin.Context) {
	h.respond(c)(h.wizardSvc.Back(c.Request.Context(), sessionID(c)))
}

// Diagnose runs the diagnosis from step 3.
func (h *Handler) Diagnose(c *gin.Context) {
	h.respond(c)(h.wizardSvc.Diagnose(c.Request.Context(), sessionID(c)))
}

// Reset restarts the intake from the results step.
func (h *Handler) Reset(c *gin.Context) {
	h.respond(c)(h.wizardSvc.Reset(c.Request.Context(), sessionID(c)))
}

// EndSession forgets the session and its stored report.
func (h *Handler) EndSession(c *gin.Context) {
	if err := h.wizardSvc.End(c.Request.Context(), sessionID(c)); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadReport streams the PDF report, rendering it on first request.
func (h *Handler) DownloadReport(c *gin.Context) {
	artifact, err := h.wizardSvc.ExportReport(c.Request.Context(), sessionID(c))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	disposition := "attachment; filename*=UTF-8''" + url.PathEscape(artifact.FileName)
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

func (h *Handler) respond(c *gin.Context) func(wizard.Session, error) {
	return func(sess wizard.Session, err error) {
		if err != nil {
			abortWithError(c, fromDomainError(err))
			return
		}
		c.JSON(http.StatusOK, toView(sess))
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false
	}
	return true
}
