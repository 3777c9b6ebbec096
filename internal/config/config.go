package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Evaluator selection for the fraud scoring path.
const (
	EvaluatorModel = "model"
	EvaluatorRules = "rules"
	EvaluatorBoth  = "both"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Fraud    FraudConfig    `mapstructure:"fraud"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type FraudConfig struct {
	ModelPath string  `mapstructure:"model_path"`
	Threshold float64 `mapstructure:"threshold"`
	Evaluator string  `mapstructure:"evaluator"`
}

type AlertsConfig struct {
	Workers int `mapstructure:"workers"`
}

// Load reads configuration from an optional yaml file plus FINANCE_*
// environment variables, on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("database.path", "finance.db")
	v.SetDefault("auth.jwt_secret", "fallback_jwt_secret_key")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("fraud.model_path", "fraud_model.json")
	v.SetDefault("fraud.threshold", 0.7)
	v.SetDefault("fraud.evaluator", EvaluatorModel)
	v.SetDefault("alerts.workers", 3)

	v.SetEnvPrefix("FINANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Fraud.Threshold <= 0 || c.Fraud.Threshold >= 1 {
		return fmt.Errorf("fraud.threshold must be in (0,1), got %v", c.Fraud.Threshold)
	}

	switch c.Fraud.Evaluator {
	case EvaluatorModel, EvaluatorRules, EvaluatorBoth:
	default:
		return fmt.Errorf("fraud.evaluator must be one of %s|%s|%s, got %q",
			EvaluatorModel, EvaluatorRules, EvaluatorBoth, c.Fraud.Evaluator)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %v", c.Auth.TokenTTL)
	}
	if c.Alerts.Workers <= 0 {
		return fmt.Errorf("alerts.workers must be positive, got %d", c.Alerts.Workers)
	}

	return nil
}
