package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Naver     NaverConfig     `mapstructure:"naver"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds server-related configuration.
// A zero RequestTimeout leaves requests without a deadline; upstream calls carry their own timeouts.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// NaverConfig holds shopping search API configuration.
// Empty credentials switch the client to simulated products.
type NaverConfig struct {
	ClientID      string        `mapstructure:"client_id"`
	ClientSecret  string        `mapstructure:"client_secret"`
	BaseURL       string        `mapstructure:"base_url"`
	Display       int           `mapstructure:"display"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
}

// LLMConfig holds language model configuration.
// An empty API key switches intent generation to simulation and disables the refiner and judge.
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	EnableJudge bool          `mapstructure:"enable_judge"`
}

// PipelineConfig holds the retrieval and matching knobs
type PipelineConfig struct {
	MaxAttempts         int           `mapstructure:"max_attempts"`
	MinProducts         int           `mapstructure:"min_products"`
	AttemptDelay        time.Duration `mapstructure:"attempt_delay"`
	MaxIntents          int           `mapstructure:"max_intents"`
	DiversityCap        int           `mapstructure:"diversity_cap"`
	LowerBoundInclusive bool          `mapstructure:"lower_bound_inclusive"`
	ConfidenceBonus     float64       `mapstructure:"confidence_bonus"`
	RelevanceBonus      float64       `mapstructure:"relevance_bonus"`
	MinTitleLength      int           `mapstructure:"min_title_length"`
	JudgeCandidates     int           `mapstructure:"judge_candidates"`
	USDToKRW            float64       `mapstructure:"usd_to_krw"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// TelemetryConfig holds tracing configuration
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/giftgenie/")

	// GIFTGENIE_NAVER_CLIENT_ID maps to naver.client_id
	v.SetEnvPrefix("GIFTGENIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment when present.
// Variables that are already set keep their values.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values.
// Every key needs a default, even an empty one, so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout", "0s")

	// Naver defaults
	v.SetDefault("naver.client_id", "")
	v.SetDefault("naver.client_secret", "")
	v.SetDefault("naver.base_url", "https://openapi.naver.com")
	v.SetDefault("naver.display", 30)
	v.SetDefault("naver.timeout", "10s")
	v.SetDefault("naver.rate_per_second", 10)
	v.SetDefault("naver.burst", 3)

	// LLM defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.enable_judge", true)

	// Pipeline defaults
	v.SetDefault("pipeline.max_attempts", 5)
	v.SetDefault("pipeline.min_products", 3)
	v.SetDefault("pipeline.attempt_delay", "500ms")
	v.SetDefault("pipeline.max_intents", 3)
	v.SetDefault("pipeline.diversity_cap", 3)
	v.SetDefault("pipeline.lower_bound_inclusive", true)
	v.SetDefault("pipeline.confidence_bonus", 0.15)
	v.SetDefault("pipeline.relevance_bonus", 0.05)
	v.SetDefault("pipeline.min_title_length", 5)
	v.SetDefault("pipeline.judge_candidates", 5)
	v.SetDefault("pipeline.usd_to_krw", 1300)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("telemetry.enabled", false)
}

// validate validates the configuration
func validate(config *Config) error {
	p := config.Pipeline

	if p.MaxAttempts < 1 || p.MaxAttempts > 5 {
		return fmt.Errorf("pipeline.max_attempts must be between 1 and 5, got: %d", p.MaxAttempts)
	}
	if p.MinProducts < 1 {
		return fmt.Errorf("pipeline.min_products must be positive, got: %d", p.MinProducts)
	}
	if p.AttemptDelay < 0 {
		return fmt.Errorf("pipeline.attempt_delay must not be negative, got: %s", p.AttemptDelay)
	}
	if p.MaxIntents < 1 {
		return fmt.Errorf("pipeline.max_intents must be positive, got: %d", p.MaxIntents)
	}
	if p.DiversityCap < 1 {
		return fmt.Errorf("pipeline.diversity_cap must be positive, got: %d", p.DiversityCap)
	}
	if p.ConfidenceBonus < 0 || p.ConfidenceBonus > 1 {
		return fmt.Errorf("pipeline.confidence_bonus must be between 0 and 1, got: %v", p.ConfidenceBonus)
	}
	if p.USDToKRW <= 0 {
		return fmt.Errorf("pipeline.usd_to_krw must be positive, got: %v", p.USDToKRW)
	}

	if config.Server.RequestTimeout < 0 {
		return fmt.Errorf("server.request_timeout must not be negative, got: %s", config.Server.RequestTimeout)
	}

	if config.Naver.Display < 1 || config.Naver.Display > 300 {
		return fmt.Errorf("naver.display must be between 1 and 300, got: %d", config.Naver.Display)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}

// SearchConfigured reports whether shopping search credentials are present.
func (c *Config) SearchConfigured() bool {
	return c.Naver.ClientID != "" && c.Naver.ClientSecret != ""
}

// LLMConfigured reports whether a language model key is present.
func (c *Config) LLMConfigured() bool {
	return strings.TrimSpace(c.LLM.APIKey) != ""
}
