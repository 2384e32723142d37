package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Groq    GroqConfig    `yaml:"groq" mapstructure:"groq"`
	Scorer  ScorerConfig  `yaml:"scorer" mapstructure:"scorer"`
	Pricing PricingConfig `yaml:"pricing" mapstructure:"pricing"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// GroqConfig holds Groq API settings.
type GroqConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// ScorerConfig configures the deterministic lead scorer weights.
// Weights sum to 1.
type ScorerConfig struct {
	BudgetWeight   float64 `yaml:"budget_weight" mapstructure:"budget_weight"`
	TimelineWeight float64 `yaml:"timeline_weight" mapstructure:"timeline_weight"`
	UrgencyWeight  float64 `yaml:"urgency_weight" mapstructure:"urgency_weight"`
}

// PricingConfig configures the dynamic pricing engine.
type PricingConfig struct {
	BaseMargin       float64 `yaml:"base_margin" mapstructure:"base_margin"`
	CompetitorFactor float64 `yaml:"competitor_factor" mapstructure:"competitor_factor"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GROWTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	// The key has no meaningful default but must be registered so
	// AutomaticEnv resolves GROWTH_GROQ_KEY during Unmarshal.
	v.SetDefault("groq.key", "")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("groq.temperature", 0.7)
	v.SetDefault("scorer.budget_weight", 0.40)
	v.SetDefault("scorer.timeline_weight", 0.35)
	v.SetDefault("scorer.urgency_weight", 0.25)
	v.SetDefault("pricing.base_margin", 0.4)
	v.SetDefault("pricing.competitor_factor", 0.3)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
