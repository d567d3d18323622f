// Package config provides YAML and environment based configuration for Tenco.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names, matching the Slack app's token terminology.
const (
	EnvVerificationToken = "VERIFICATION_TOKEN"
	EnvBotToken          = "BOT_USER_OAUTH_TOKEN"
)

// Config is the top-level Tenco configuration. Structural settings come
// from tenco.yaml; secrets come from the environment (or a .env file) only.
type Config struct {
	Port      int        `yaml:"port"`
	Schedules []Schedule `yaml:"schedules"`

	VerificationToken string `yaml:"-"`
	BotToken          string `yaml:"-"`
}

// Schedule defines one unattended roll call: a channel and a standard
// 5-field cron expression.
type Schedule struct {
	Channel string `yaml:"channel"`
	Cron    string `yaml:"cron"`
}

// Load reads the optional YAML config at path and the required secrets from
// the environment, returning a validated Config. A missing config file is
// not an error: the defaults cover a plain HTTP-only deployment.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()
	cfg.VerificationToken = os.Getenv(EnvVerificationToken)
	cfg.BotToken = os.Getenv(EnvBotToken)

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
}

func (c *Config) validate() error {
	var errs []string
	if c.VerificationToken == "" {
		errs = append(errs, EnvVerificationToken+" is required")
	}
	if c.BotToken == "" {
		errs = append(errs, EnvBotToken+" is required")
	}
	for i, s := range c.Schedules {
		if s.Channel == "" {
			errs = append(errs, fmt.Sprintf("schedules[%d].channel is required", i))
		}
		if s.Cron == "" {
			errs = append(errs, fmt.Sprintf("schedules[%d].cron is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
