// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string
	SessionTTL  time.Duration

	// Escalation presentation.
	NotifyEmail      string
	SubjectPrefix    string
	LoginTicketURL   string
	LoginTicketLabel string

	// Issue tracker. Missing credentials degrade ticket submission to a
	// skipped outcome; they never block startup.
	Jira JiraConfig
}

// JiraConfig holds tracker connection settings.
type JiraConfig struct {
	BaseURL    string
	Email      string
	APIToken   string
	ProjectKey string
	IssueType  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	ttlMinutes := getEnvInt("SESSION_TTL_MINUTES", 60)
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/intake.db"),
		SessionTTL:  time.Duration(ttlMinutes) * time.Minute,

		NotifyEmail:      getEnv("IT_NOTIFY_EMAIL", ""),
		SubjectPrefix:    getEnv("EMAIL_SUBJECT_PREFIX", "[IT Intake]"),
		LoginTicketURL:   getEnv("LOGIN_TICKET_URL", ""),
		LoginTicketLabel: getEnv("LOGIN_TICKET_LABEL", "Open access ticket"),

		Jira: JiraConfig{
			BaseURL:    getEnv("JIRA_BASE_URL", "https://jira.livenation.com"),
			Email:      getEnv("JIRA_EMAIL", ""),
			APIToken:   getEnv("JIRA_API_TOKEN", ""),
			ProjectKey: getEnv("JIRA_PROJECT_KEY", "FXCCIT"),
			IssueType:  getEnv("JIRA_ISSUE_TYPE", "Bug"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SubjectPrefix == "" {
		return fmt.Errorf("EMAIL_SUBJECT_PREFIX cannot be empty")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
