// Package config provides configuration management for the watcher.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBlogURL           = errors.New("blog.url is required")
	ErrMissingBlogStateFile     = errors.New("blog.state_file is required")
	ErrMissingVacancyStateFile  = errors.New("vacancy.state_file is required")
	ErrNoProperties             = errors.New("at least one vacancy target property is required")
	ErrPropertyMissingID        = errors.New("property id is required")
	ErrPropertyMissingURL       = errors.New("property url is required")
	ErrPropertyMissingName      = errors.New("property name is required")
	ErrPropertyMissingWard      = errors.New("property ward is required")
	ErrDuplicatePropertyID      = errors.New("property ids must be unique")
	ErrMissingRoomRule          = errors.New("vacancy.room_selector or vacancy.room_pattern is required")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidSMTPPort          = errors.New("mail.smtp_port must be between 1 and 65535")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be one of: text, color, json")
)

// Config represents the complete watcher configuration.
type Config struct {
	Watcher WatcherConfig `yaml:"watcher"`
}

// WatcherConfig contains the settings for both pipelines.
type WatcherConfig struct {
	Blog    BlogConfig    `yaml:"blog"`
	Vacancy VacancyConfig `yaml:"vacancy"`
	Retry   RetryPolicy   `yaml:"retry"`
	Mail    MailConfig    `yaml:"mail"`
	Logging LoggingConfig `yaml:"logging"`
}

// BlogConfig describes the article pipeline target.
type BlogConfig struct {
	URL       string `yaml:"url"`
	BaseURL   string `yaml:"base_url"`
	StateFile string `yaml:"state_file"`
}

// TargetProperty is one entry of the fixed target identifier set. Detection
// iterates these entries in declaration order, regardless of which ids appear
// in fetched data.
type TargetProperty struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Ward string `yaml:"ward"`
	URL  string `yaml:"url"`
}

// VacancyConfig describes the property vacancy pipeline.
type VacancyConfig struct {
	StateFile    string           `yaml:"state_file"`
	RoomSelector string           `yaml:"room_selector"`
	RoomPattern  string           `yaml:"room_pattern"`
	Properties   []TargetProperty `yaml:"properties"`
}

// RetryPolicy defines fetch retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// MailConfig defines how notifications are delivered. Account identity and
// the recipient come from the environment, never from this file.
type MailConfig struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	Enabled  bool   `yaml:"enabled"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Watcher.Mail.SMTPHost == "" {
		c.Watcher.Mail.SMTPHost = "smtp.gmail.com"
	}

	if c.Watcher.Mail.SMTPPort == 0 {
		c.Watcher.Mail.SMTPPort = 465
	}

	if c.Watcher.Retry.MaxAttempts == 0 {
		c.Watcher.Retry = RetryPolicy{
			MaxAttempts:       3,
			InitialDelayMs:    500,
			MaxDelayMs:        30000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        30,
		}
	}

	if c.Watcher.Logging.Level == "" {
		c.Watcher.Logging.Level = "info"
	}

	if c.Watcher.Logging.Format == "" {
		c.Watcher.Logging.Format = "text"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Watcher.Blog.URL == "" {
		return ErrMissingBlogURL
	}

	if c.Watcher.Blog.StateFile == "" {
		return ErrMissingBlogStateFile
	}

	if c.Watcher.Vacancy.StateFile == "" {
		return ErrMissingVacancyStateFile
	}

	if len(c.Watcher.Vacancy.Properties) == 0 {
		return ErrNoProperties
	}

	seen := map[string]bool{}

	for i, prop := range c.Watcher.Vacancy.Properties {
		if prop.ID == "" {
			return fmt.Errorf("%w: properties[%d]", ErrPropertyMissingID, i)
		}

		if prop.URL == "" {
			return fmt.Errorf("%w: properties[%d]", ErrPropertyMissingURL, i)
		}

		if prop.Name == "" {
			return fmt.Errorf("%w: properties[%d]", ErrPropertyMissingName, i)
		}

		if prop.Ward == "" {
			return fmt.Errorf("%w: properties[%d]", ErrPropertyMissingWard, i)
		}

		if seen[prop.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicatePropertyID, prop.ID)
		}

		seen[prop.ID] = true
	}

	if c.Watcher.Vacancy.RoomSelector == "" && c.Watcher.Vacancy.RoomPattern == "" {
		return ErrMissingRoomRule
	}

	if c.Watcher.Vacancy.RoomPattern != "" {
		if _, err := regexp.Compile(c.Watcher.Vacancy.RoomPattern); err != nil {
			return fmt.Errorf("vacancy.room_pattern is invalid regex: %w", err)
		}
	}

	if c.Watcher.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Watcher.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Watcher.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Watcher.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Watcher.Mail.SMTPPort < 1 || c.Watcher.Mail.SMTPPort > 65535 {
		return ErrInvalidSMTPPort
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Watcher.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{"text": true, "color": true, "json": true}
	if !validFormats[c.Watcher.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the per-request timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Blog: %s, Properties: %d, MaxAttempts: %d}",
		c.Watcher.Blog.URL,
		len(c.Watcher.Vacancy.Properties),
		c.Watcher.Retry.MaxAttempts,
	)
}
