package diagnosis

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/samutthan/internal/domain/samutthan"
	apperrors "github.com/yanqian/samutthan/pkg/errors"
	"github.com/yanqian/samutthan/pkg/util"
)

// Service requests a Samutthan 4 diagnosis from the external model.
type Service interface {
	Analyze(ctx context.Context, in Input) (Result, error)
}

// Generator is the boundary to a generative model with structured output.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

type service struct {
	cfg       Config
	generator Generator
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the diagnosis domain.
func NewService(cfg Config, generator Generator, logger *slog.Logger) Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		cfg:       cfg,
		generator: generator,
		logger:    logger.With("component", "diagnosis.service"),
		now:       util.Clock(loc),
	}
}

func (s *service) Analyze(ctx context.Context, in Input) (Result, error) {
	birth, err := ParseBirthDate(in.Profile.BirthDate)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "birth date must be formatted as YYYY-MM-DD", err)
	}

	factors := samutthan.Classify(birth, in.Record.Onset, s.now())
	prompt := BuildPrompt(PromptInput{
		Profile: in.Profile,
		Record:  in.Record,
		Weather: in.Weather,
		Factors: factors,
		Locale:  in.Locale,
	})

	s.logger.Info("diagnosis requested",
		"locale", in.Locale,
		"symptoms", len(in.Record.Symptoms),
		"age_group", factors.AgeGroup,
		"kala", factors.Kala,
		"prompt_bytes", len(prompt),
	)

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	resp, err := s.generator.Generate(ctx, GenerateRequest{
		Model:          s.cfg.Model,
		Prompt:         prompt,
		Schema:         ResponseSchema(),
		Locale:         in.Locale,
		Temperature:    s.cfg.Temperature,
		ThinkingBudget: s.cfg.ThinkingBudget,
	})
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeAnalysisFailed, "diagnosis request failed", err)
	}

	result, err := DecodeResult(resp.Text)
	if err != nil {
		s.logger.Warn("diagnosis response rejected", "error", err, "response_bytes", len(resp.Text))
		return Result{}, apperrors.Wrap(apperrors.CodeAnalysisFailed, "diagnosis response malformed", err)
	}

	if !resp.Usage.IsZero() {
		s.logger.Info("diagnosis completed", append([]any{"imbalance", result.Imbalance}, resp.Usage.LogAttrs()...)...)
	} else {
		s.logger.Info("diagnosis completed", "imbalance", result.Imbalance)
	}
	return result, nil
}
