package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Clinic  ClinicConfig  `yaml:"clinic"`
	Session SessionConfig `yaml:"session"`
	Weather WeatherConfig `yaml:"weather"`
	Report  ReportConfig  `yaml:"report"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	MaxBodyBytes   int64           `yaml:"maxBodyBytes"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default models per provider, used when llm.model is left empty.
const (
	DefaultGeminiModel = "gemini-3-pro-preview"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// LLMConfig selects and configures the diagnosis model.
type LLMConfig struct {
	Provider       string        `yaml:"provider"`
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	Temperature    float32       `yaml:"temperature"`
	ThinkingBudget int32         `yaml:"thinkingBudget"`
	Timeout        time.Duration `yaml:"timeout"`
}

// ClinicConfig holds clinic-local settings.
type ClinicConfig struct {
	Timezone string `yaml:"timezone"`
}

// Session stores.
const (
	StoreMemory   = "memory"
	StoreValkey   = "valkey"
	StorePostgres = "postgres"
)

// SessionConfig controls wizard session tokens and persistence.
type SessionConfig struct {
	Secret   string         `yaml:"secret"`
	TTL      time.Duration  `yaml:"ttl"`
	Store    string         `yaml:"store"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// ValkeyConfig contains connection information for session storage.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Weather providers.
const (
	WeatherRandom    = "random"
	WeatherOpenMeteo = "openmeteo"
)

// WeatherConfig selects the geolocation temperature source.
type WeatherConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"baseUrl"`
}

// Report storages.
const (
	StorageMemory = "memory"
	StorageS3     = "s3"
)

// ReportConfig controls PDF rendering and storage.
type ReportConfig struct {
	FontPath string   `yaml:"fontPath"`
	Storage  string   `yaml:"storage"`
	S3       S3Config `yaml:"s3"`
}

// S3Config addresses an S3-compatible bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	cfg.fillProviderDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	} else if v := os.Getenv("API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_THINKING_BUDGET"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.ThinkingBudget = int32(parsed)
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}
	if v := os.Getenv("CLINIC_TIMEZONE"); v != "" {
		cfg.Clinic.Timezone = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = parsed
		}
	}
	if v := os.Getenv("SESSION_STORE"); v != "" {
		cfg.Session.Store = strings.ToLower(v)
	}
	if v := os.Getenv("SESSION_VALKEY_ADDR"); v != "" {
		cfg.Session.Valkey.Addr = v
	}
	if v := os.Getenv("SESSION_POSTGRES_DSN"); v != "" {
		cfg.Session.Postgres.DSN = v
	}
	if v := os.Getenv("SESSION_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Session.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("WEATHER_PROVIDER"); v != "" {
		cfg.Weather.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("REPORT_FONT_PATH"); v != "" {
		cfg.Report.FontPath = v
	}
	if v := os.Getenv("REPORT_STORAGE"); v != "" {
		cfg.Report.Storage = strings.ToLower(v)
	}
	if v := os.Getenv("R2_ENDPOINT"); v != "" {
		cfg.Report.S3.Endpoint = v
	}
	if v := os.Getenv("R2_ACCESS_KEY_ID"); v != "" {
		cfg.Report.S3.AccessKey = v
	}
	if v := os.Getenv("R2_SECRET_ACCESS_KEY"); v != "" {
		cfg.Report.S3.SecretKey = v
	}
	if v := os.Getenv("R2_BUCKET"); v != "" {
		cfg.Report.S3.Bucket = v
	}
	if v := os.Getenv("R2_REGION"); v != "" {
		cfg.Report.S3.Region = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   90 * time.Second,
			MaxBodyBytes:   1 << 20,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Provider:       ProviderGemini,
			ThinkingBudget: 4000,
		},
		Clinic: ClinicConfig{
			Timezone: "Asia/Bangkok",
		},
		Session: SessionConfig{
			TTL:   2 * time.Hour,
			Store: StoreMemory,
			Valkey: ValkeyConfig{
				Prefix: "samutthan:session",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Weather: WeatherConfig{
			Provider: WeatherRandom,
		},
		Report: ReportConfig{
			Storage: StorageMemory,
			S3: S3Config{
				Region: "auto",
			},
		},
	}
}

// fillProviderDefaults picks the model for the chosen provider when none is set.
func (c *Config) fillProviderDefaults() {
	if strings.TrimSpace(c.LLM.Model) != "" {
		return
	}
	switch c.LLM.Provider {
	case ProviderOpenAI:
		c.LLM.Model = DefaultOpenAIModel
	case ProviderGemini:
		c.LLM.Model = DefaultGeminiModel
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be %q or %q", ProviderGemini, ProviderOpenAI)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.ThinkingBudget < 0 {
		return errors.New("llm.thinkingBudget cannot be negative")
	}
	if c.LLM.Provider == ProviderOpenAI && strings.HasPrefix(c.LLM.Model, "gemini") {
		return fmt.Errorf("llm.model %q is a gemini model but llm.provider is %q", c.LLM.Model, c.LLM.Provider)
	}
	if c.LLM.Timeout < 0 {
		return errors.New("llm.timeout cannot be negative")
	}
	if _, err := time.LoadLocation(c.Clinic.Timezone); err != nil {
		return fmt.Errorf("clinic.timezone: %w", err)
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	switch c.Session.Store {
	case StoreMemory:
	case StoreValkey:
		if strings.TrimSpace(c.Session.Valkey.Addr) == "" {
			return errors.New("session.valkey.addr cannot be empty when store is valkey")
		}
	case StorePostgres:
		if strings.TrimSpace(c.Session.Postgres.DSN) == "" {
			return errors.New("session.postgres.dsn cannot be empty when store is postgres")
		}
	default:
		return fmt.Errorf("session.store %q is not supported", c.Session.Store)
	}
	switch c.Weather.Provider {
	case WeatherRandom, WeatherOpenMeteo:
	default:
		return fmt.Errorf("weather.provider %q is not supported", c.Weather.Provider)
	}
	switch c.Report.Storage {
	case StorageMemory:
	case StorageS3:
		if strings.TrimSpace(c.Report.S3.Endpoint) == "" || strings.TrimSpace(c.Report.S3.Bucket) == "" {
			return errors.New("report.s3.endpoint and report.s3.bucket are required when storage is s3")
		}
	default:
		return fmt.Errorf("report.storage %q is not supported", c.Report.Storage)
	}
	return nil
}
