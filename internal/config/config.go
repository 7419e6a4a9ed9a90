package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mendapp/mend/internal/service/bucket"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	LLM          LLMConfig          `yaml:"llm"`
	Signals      SignalsConfig      `yaml:"signals"`
	Patterns     PatternsConfig     `yaml:"patterns"`
	Reflection   ReflectionConfig   `yaml:"reflection"`
	Bucket       BucketConfig       `yaml:"bucket"`
	Compose      ComposeConfig      `yaml:"compose"`
	Conversation ConversationConfig `yaml:"conversation"`
	Log          LogConfig          `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                int      `yaml:"port"`
	Host                string   `yaml:"host"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	ShutdownTimeoutSecs int      `yaml:"shutdown_timeout_seconds"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr returns host:port for the listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	URL                    string `yaml:"url"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// ConnMaxLifetime returns the configured lifetime as a duration
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// RedisConfig holds Redis settings. URL wins over Addr.
type RedisConfig struct {
	URL    string `yaml:"url"`
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// Enabled reports whether any Redis endpoint is configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Addr != ""
}

// LLMConfig selects the text-completion provider.
type LLMConfig struct {
	Provider       string `yaml:"provider"` // "openai" or "bedrock"
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	MaxRetries     int    `yaml:"max_retries"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SignalsConfig holds signal extraction settings.
type SignalsConfig struct {
	// Timezone is an IANA zone name, or "IST" for UTC+05:30.
	Timezone string `yaml:"timezone"`
}

// Location resolves Timezone.
func (c SignalsConfig) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.Timezone) {
	case "", "IST":
		return time.FixedZone("IST", 5*60*60+30*60), nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("signals timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// PatternsConfig holds snapshot cache settings.
type PatternsConfig struct {
	CacheBackend string `yaml:"cache_backend"` // "memory" or "redis"
	TTLSeconds   int    `yaml:"ttl_seconds"`
}

// TTL returns the snapshot memo lifetime.
func (c PatternsConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ReflectionConfig holds reflection throttle settings.
type ReflectionConfig struct {
	ThrottleBackend  string `yaml:"throttle_backend"` // "memory" or "redis"
	CooldownMinutes  int    `yaml:"cooldown_minutes"`
	SessionIdleHours int    `yaml:"session_idle_hours"`
}

// Cooldown returns the minimum time between two fires for one client.
func (c ReflectionConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownMinutes) * time.Minute
}

// SessionIdle returns how long an untouched session is kept.
func (c ReflectionConfig) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleHours) * time.Hour
}

// BucketConfig holds the bucket scoring weights.
type BucketConfig struct {
	Weights bucket.Weights `yaml:"weights"`
}

// ComposeConfig holds reply generation settings.
type ComposeConfig struct {
	Temperature           float64 `yaml:"temperature"`
	DraftMaxTokens        int     `yaml:"draft_max_tokens"`
	RewriteMaxTokens      int     `yaml:"rewrite_max_tokens"`
	PromptWordLimit       int     `yaml:"prompt_word_limit"`
	WordCeiling           int     `yaml:"word_ceiling"`
	HistoryLimit          int     `yaml:"history_limit"`
	SummaryTimeoutSeconds int     `yaml:"summary_timeout_seconds"`
}

// SummaryTimeout returns the background summary deadline.
func (c ComposeConfig) SummaryTimeout() time.Duration {
	return time.Duration(c.SummaryTimeoutSeconds) * time.Second
}

// ConversationConfig selects where per-user snapshot and preference rows live.
type ConversationConfig struct {
	Backend       string `yaml:"backend"` // "postgres" or "dynamodb"
	DynamoDBTable string `yaml:"dynamodb_table"`
	AWSRegion     string `yaml:"aws_region"`
	AWSProfile    string `yaml:"aws_profile"` // Empty string uses default credential chain (IAM role on ECS)
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c ConversationConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	// On ECS/Lambda, don't use a profile - use IAM role
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
	// RedactPII is on unless explicitly disabled.
	RedactPII *bool `yaml:"redact_pii"`
}

// Redact reports whether PII redaction is enabled.
func (c LogConfig) Redact() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.ShutdownTimeoutSecs == 0 {
		cfg.Server.ShutdownTimeoutSecs = 30
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 20
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes == 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "mend"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Model == "" && cfg.LLM.Provider == "openai" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = 2
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 60
	}
	if cfg.Signals.Timezone == "" {
		cfg.Signals.Timezone = "IST"
	}
	if cfg.Patterns.CacheBackend == "" {
		cfg.Patterns.CacheBackend = "memory"
	}
	if cfg.Patterns.TTLSeconds == 0 {
		cfg.Patterns.TTLSeconds = 300
	}
	if cfg.Reflection.ThrottleBackend == "" {
		cfg.Reflection.ThrottleBackend = "memory"
	}
	if cfg.Reflection.CooldownMinutes == 0 {
		cfg.Reflection.CooldownMinutes = 10
	}
	if cfg.Reflection.SessionIdleHours == 0 {
		cfg.Reflection.SessionIdleHours = 6
	}
	if cfg.Bucket.Weights.Strong == 0 {
		cfg.Bucket.Weights.Strong = bucket.DefaultWeights().Strong
	}
	if cfg.Bucket.Weights.Supporting == 0 {
		cfg.Bucket.Weights.Supporting = bucket.DefaultWeights().Supporting
	}
	if cfg.Compose.Temperature == 0 {
		cfg.Compose.Temperature = 0.7
	}
	if cfg.Compose.DraftMaxTokens == 0 {
		cfg.Compose.DraftMaxTokens = 400
	}
	if cfg.Compose.RewriteMaxTokens == 0 {
		cfg.Compose.RewriteMaxTokens = 400
	}
	if cfg.Compose.PromptWordLimit == 0 {
		cfg.Compose.PromptWordLimit = 120
	}
	if cfg.Compose.WordCeiling == 0 {
		cfg.Compose.WordCeiling = 130
	}
	if cfg.Compose.HistoryLimit == 0 {
		cfg.Compose.HistoryLimit = 20
	}
	if cfg.Compose.SummaryTimeoutSeconds == 0 {
		cfg.Compose.SummaryTimeoutSeconds = 20
	}
	if cfg.Conversation.Backend == "" {
		cfg.Conversation.Backend = "postgres"
	}
	if cfg.Conversation.DynamoDBTable == "" {
		cfg.Conversation.DynamoDBTable = "mend-conversations"
	}
	if cfg.Conversation.AWSRegion == "" {
		cfg.Conversation.AWSRegion = "us-west-2"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (cfg *Config) applyEnv() {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.LLM.Region = v
		cfg.Conversation.AWSRegion = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
