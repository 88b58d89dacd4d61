package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/internal/domain/report"
	"github.com/yanqian/samutthan/internal/domain/session"
	"github.com/yanqian/samutthan/internal/domain/weather"
	"github.com/yanqian/samutthan/internal/domain/wizard"
	"github.com/yanqian/samutthan/internal/infra/config"
	"github.com/yanqian/samutthan/internal/infra/llm/chatgpt"
	"github.com/yanqian/samutthan/internal/infra/llm/gemini"
	"github.com/yanqian/samutthan/internal/infra/objectstore"
	"github.com/yanqian/samutthan/internal/infra/report/pdf"
	"github.com/yanqian/samutthan/internal/infra/sessionstore"
	"github.com/yanqian/samutthan/internal/infra/weather/openmeteo"
	"github.com/yanqian/samutthan/pkg/util"
)

// bangkokOffset is used when the host lacks the tz database.
const bangkokOffset = 7 * time.Hour

func provideClinicLocation(cfg *config.Config) *time.Location {
	return util.LoadLocation(cfg.Clinic.Timezone, bangkokOffset)
}

func provideDiagnosisConfig(cfg *config.Config, loc *time.Location) diagnosis.Config {
	return diagnosis.Config{
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		ThinkingBudget: cfg.LLM.ThinkingBudget,
		Timeout:        cfg.LLM.Timeout,
		Location:       loc,
	}
}

func provideGenerator(cfg *config.Config, logger *slog.Logger) (diagnosis.Generator, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		return nil, fmt.Errorf("llm api key is required for provider %q", cfg.LLM.Provider)
	}
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("diagnosis provider selected", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
		return chatgpt.NewGenerator(client), nil
	case config.ProviderGemini:
		generator, err := gemini.NewGenerator(context.Background(), cfg.LLM.APIKey, cfg.LLM.BaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("diagnosis provider selected", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
		return generator, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
}

func provideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
	}
}

func provideWizardConfig(loc *time.Location) wizard.Config {
	return wizard.Config{Location: loc}
}

func provideSessionStore(cfg *config.Config, logger *slog.Logger) wizard.Store {
	ttl := cfg.Session.TTL
	fallback := func() wizard.Store { return sessionstore.NewMemoryStore(ttl) }

	switch cfg.Session.Store {
	case config.StoreValkey:
		opt, err := buildValkeyOptions(cfg.Session.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return fallback()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return fallback()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
			return fallback()
		}
		logger.Info("session valkey store enabled", "addr", cfg.Session.Valkey.Addr)
		return sessionstore.NewValkeyStore(client, cfg.Session.Valkey.Prefix, ttl)
	case config.StorePostgres:
		pool, err := openPostgresPool(cfg.Session.Postgres)
		if err != nil {
			logger.Error("postgres unavailable, falling back to memory store", "error", err)
			return fallback()
		}
		store := sessionstore.NewPostgresStore(pool, ttl)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare session table, falling back to memory store", "error", err)
			pool.Close()
			return fallback()
		}
		logger.Info("session postgres store enabled")
		return store
	default:
		logger.Info("session store in memory", "ttl", ttl)
		return fallback()
	}
}

func openPostgresPool(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideWeatherProvider(cfg *config.Config) weather.Provider {
	if cfg.Weather.Provider == config.WeatherOpenMeteo {
		return openmeteo.NewClient(cfg.Weather.BaseURL)
	}
	return weather.NewRandomProvider(nil)
}

func provideReportRenderer(cfg *config.Config, logger *slog.Logger) report.Renderer {
	renderer := pdf.NewRenderer(cfg.Report.FontPath)
	if renderer.FontPath() == "" {
		logger.Warn("no Thai font found, Thai reports will fail until report.fontPath is set")
	} else {
		logger.Info("report font selected", "path", renderer.FontPath())
	}
	return renderer
}

func provideReportStorage(cfg *config.Config, logger *slog.Logger) report.ObjectStorage {
	if cfg.Report.Storage == config.StorageS3 {
		s3 := cfg.Report.S3
		storage, err := objectstore.NewS3Storage(s3.Endpoint, s3.AccessKey, s3.SecretKey, s3.Bucket, s3.Region, logger)
		if err != nil {
			logger.Error("failed to init s3 storage, using memory storage", "error", err)
			return objectstore.NewMemoryStorage()
		}
		logger.Info("report s3 storage enabled", "bucket", s3.Bucket)
		return storage
	}
	return objectstore.NewMemoryStorage()
}
