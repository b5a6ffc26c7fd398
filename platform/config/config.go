// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// GitHubConfig provides settings for the GitHub source adapter.
type GitHubConfig interface {
	GetGitHubAPIURL() string
	GetGitHubToken() string
	GetGitHubSearchQuery() string
	GetGitHubPageSize() int
}

// EligibilityConfig provides settings for the candidate filter.
type EligibilityConfig interface {
	GetLeadKeywords() []string
	GetMaxStaleDays() int
}

// PacingConfig provides delays between external calls.
type PacingConfig interface {
	GetItemPace() time.Duration
	GetPagePace() time.Duration
	GetSendPace() time.Duration
}

// ScoringConfig provides settings for the AI qualification engine.
type ScoringConfig interface {
	GetScoreAPIKey() string
	GetScoreAPIURL() string
	GetScoreModel() string
	GetAutoApproveThreshold() float64
	GetAutoRejectThreshold() float64
	IsScoringEnabled() bool
}

// EmailConfig provides settings for outbound email.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// OutreachConfig provides settings for the outreach gate and approval links.
type OutreachConfig interface {
	GetAppBaseURL() string
	GetOperatorEmail() string
	GetApprovalTokenSecret() string
	GetApprovalTokenTTL() time.Duration
}

// IMAPConfig provides settings for the inbox reply watcher.
type IMAPConfig interface {
	GetIMAPHost() string
	GetIMAPPort() int
	GetIMAPUsername() string
	GetIMAPPassword() string
	IsInboxEnabled() bool
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetAcquireInterval() time.Duration
	GetQualifyInterval() time.Duration
	GetSendInterval() time.Duration
	GetInboxInterval() time.Duration
	GetAcquireStartPage() int
	GetAcquirePageCount() int
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketExports() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Config struct
// =============================================================================

type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	GitHubAPIURL      string
	GitHubToken       string
	GitHubSearchQuery string
	GitHubPageSize    int

	LeadKeywords []string
	MaxStaleDays int

	ItemPace time.Duration
	PagePace time.Duration
	SendPace time.Duration

	ScoreAPIKey          string
	ScoreAPIURL          string
	ScoreModel           string
	AutoApproveThreshold float64
	AutoRejectThreshold  float64

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string

	AppBaseURL          string
	OperatorEmail       string
	ApprovalTokenSecret string
	ApprovalTokenTTL    time.Duration

	IMAPHost     string
	IMAPPort     int
	IMAPUsername string
	IMAPPassword string

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int
	AcquireInterval  time.Duration
	QualifyInterval  time.Duration
	SendInterval     time.Duration
	InboxInterval    time.Duration
	AcquireStartPage int
	AcquirePageCount int

	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinioBucketExports string
}

// Load reads configuration from the environment (and .env if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		GitHubAPIURL:      getEnv("GITHUB_API_URL", "https://api.github.com"),
		GitHubToken:       getEnv("GITHUB_TOKEN", ""),
		GitHubSearchQuery: getEnv("GITHUB_SEARCH_QUERY", "n8n in:name,description,topics"),
		GitHubPageSize:    mustInt(getEnv("GITHUB_PAGE_SIZE", "30")),

		LeadKeywords: splitCSV(getEnv("LEAD_KEYWORDS", "n8n,n8n-nodes,n8n-node,n8n-workflow")),
		MaxStaleDays: mustInt(getEnv("MAX_STALE_DAYS", "90")),

		ItemPace: mustDuration(getEnv("ITEM_PACE", "1s")),
		PagePace: mustDuration(getEnv("PAGE_PACE", "2s")),
		SendPace: mustDuration(getEnv("SEND_PACE", "1s")),

		ScoreAPIKey:          getEnv("SCORE_API_KEY", ""),
		ScoreAPIURL:          getEnv("SCORE_API_URL", ""),
		ScoreModel:           getEnv("SCORE_MODEL", ""),
		AutoApproveThreshold: mustFloat(getEnv("SCORE_AUTO_APPROVE", "0.8")),
		AutoRejectThreshold:  mustFloat(getEnv("SCORE_AUTO_REJECT", "0.3")),

		EmailEnabled:     emailEnabled && smtpHost != "",
		SMTPHost:         smtpHost,
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Devscout"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),

		AppBaseURL:          getEnv("APP_BASE_URL", "http://localhost:8080"),
		OperatorEmail:       getEnv("OPERATOR_EMAIL", ""),
		ApprovalTokenSecret: getEnv("APPROVAL_TOKEN_SECRET", ""),
		ApprovalTokenTTL:    mustDuration(getEnv("APPROVAL_TOKEN_TTL", "72h")),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     mustInt(getEnv("IMAP_PORT", "993")),
		IMAPUsername: getEnv("IMAP_USERNAME", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),

		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		AcquireInterval:  mustDuration(getEnv("ACQUIRE_INTERVAL", "6h")),
		QualifyInterval:  mustDuration(getEnv("QUALIFY_INTERVAL", "1h")),
		SendInterval:     mustDuration(getEnv("SEND_INTERVAL", "0")),
		InboxInterval:    mustDuration(getEnv("INBOX_INTERVAL", "10m")),
		AcquireStartPage: mustInt(getEnv("ACQUIRE_START_PAGE", "1")),
		AcquirePageCount: mustInt(getEnv("ACQUIRE_PAGE_COUNT", "3")),

		MinIOEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:        strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketExports: getEnv("MINIO_BUCKET_EXPORTS", "lead-exports"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AutoRejectThreshold >= cfg.AutoApproveThreshold {
		return nil, fmt.Errorf("SCORE_AUTO_REJECT (%v) must be below SCORE_AUTO_APPROVE (%v)",
			cfg.AutoRejectThreshold, cfg.AutoApproveThreshold)
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.EmailEnabled && cfg.ApprovalTokenSecret == "" {
		return nil, fmt.Errorf("APPROVAL_TOKEN_SECRET is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string       { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool     { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string  { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool   { return c.CORSAllowCreds }

func (c *Config) GetGitHubAPIURL() string      { return c.GitHubAPIURL }
func (c *Config) GetGitHubToken() string       { return c.GitHubToken }
func (c *Config) GetGitHubSearchQuery() string { return c.GitHubSearchQuery }
func (c *Config) GetGitHubPageSize() int       { return c.GitHubPageSize }

func (c *Config) GetLeadKeywords() []string { return c.LeadKeywords }
func (c *Config) GetMaxStaleDays() int      { return c.MaxStaleDays }

func (c *Config) GetItemPace() time.Duration { return c.ItemPace }
func (c *Config) GetPagePace() time.Duration { return c.PagePace }
func (c *Config) GetSendPace() time.Duration { return c.SendPace }

func (c *Config) GetScoreAPIKey() string            { return c.ScoreAPIKey }
func (c *Config) GetScoreAPIURL() string            { return c.ScoreAPIURL }
func (c *Config) GetScoreModel() string             { return c.ScoreModel }
func (c *Config) GetAutoApproveThreshold() float64  { return c.AutoApproveThreshold }
func (c *Config) GetAutoRejectThreshold() float64   { return c.AutoRejectThreshold }
func (c *Config) IsScoringEnabled() bool            { return c.ScoreAPIKey != "" }

func (c *Config) GetEmailEnabled() bool      { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string        { return c.SMTPHost }
func (c *Config) GetSMTPPort() int           { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string    { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string    { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string   { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

func (c *Config) GetAppBaseURL() string              { return c.AppBaseURL }
func (c *Config) GetOperatorEmail() string           { return c.OperatorEmail }
func (c *Config) GetApprovalTokenSecret() string     { return c.ApprovalTokenSecret }
func (c *Config) GetApprovalTokenTTL() time.Duration { return c.ApprovalTokenTTL }

func (c *Config) GetIMAPHost() string     { return c.IMAPHost }
func (c *Config) GetIMAPPort() int        { return c.IMAPPort }
func (c *Config) GetIMAPUsername() string { return c.IMAPUsername }
func (c *Config) GetIMAPPassword() string { return c.IMAPPassword }
func (c *Config) IsInboxEnabled() bool    { return c.IMAPHost != "" && c.IMAPUsername != "" }

func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool         { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string         { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int          { return c.AsynqConcurrency }
func (c *Config) GetAcquireInterval() time.Duration { return c.AcquireInterval }
func (c *Config) GetQualifyInterval() time.Duration { return c.QualifyInterval }
func (c *Config) GetSendInterval() time.Duration    { return c.SendInterval }
func (c *Config) GetInboxInterval() time.Duration   { return c.InboxInterval }
func (c *Config) GetAcquireStartPage() int          { return c.AcquireStartPage }
func (c *Config) GetAcquirePageCount() int          { return c.AcquirePageCount }

func (c *Config) GetMinIOEndpoint() string     { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string    { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string    { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool         { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketExports() string { return c.MinioBucketExports }
func (c *Config) IsMinIOEnabled() bool         { return c.MinIOEndpoint != "" }

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
