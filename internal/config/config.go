package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`

	// Reports
	ReportDir string `yaml:"report_dir"`

	// Language models
	LLMProvider     string        `yaml:"llm_provider"`
	LLMAPIKey       string        `yaml:"llm_api_key"`
	LLMBaseURL      string        `yaml:"llm_base_url"`
	SummaryModel    string        `yaml:"summary_model"`
	GenerationModel string        `yaml:"generation_model"`
	LLMTemperature  float32       `yaml:"llm_temperature"`
	LLMTimeout      time.Duration `yaml:"llm_timeout"`
	VertexProject   string        `yaml:"vertex_project"`
	VertexRegion    string        `yaml:"vertex_region"`

	// S3 report mirror, disabled when S3Endpoint is empty
	S3Endpoint        string `yaml:"s3_endpoint"`
	S3AccessKeyID     string `yaml:"s3_access_key_id"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key"`
	S3BucketName      string `yaml:"s3_bucket_name"`
	S3Region          string `yaml:"s3_region"`
	S3UseSSL          bool   `yaml:"s3_use_ssl"`

	// Inbox directory, disabled when WatchDir is empty
	WatchDir    string        `yaml:"watch_dir"`
	WatchSettle time.Duration `yaml:"watch_settle"`

	// Upload limits
	MaxFileSize int64 `yaml:"max_file_size"`

	// Comma-separated list in the environment; empty allows any origin
	CORSOrigins []string `yaml:"cors_origins"`
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		DatabaseURL:     "data/legal-summarizer.db",
		LogLevel:        "info",
		ReportDir:       "reports",
		LLMProvider:     "openrouter",
		SummaryModel:    "openai/gpt-4o-mini",
		GenerationModel: "openai/gpt-4o-mini",
		LLMTemperature:  0.7,
		LLMTimeout:      120 * time.Second,
		VertexRegion:    "us-central1",
		S3BucketName:    "legal-reports",
		WatchSettle:     2 * time.Second,
		MaxFileSize:     10 << 20,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_PATH (if set), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.ReportDir = getEnv("REPORT_DIR", cfg.ReportDir)
	cfg.LLMProvider = getEnv("LLM_PROVIDER", cfg.LLMProvider)
	cfg.LLMAPIKey = getEnv("LLM_API_KEY", getEnv("OPENROUTER_API_KEY", cfg.LLMAPIKey))
	cfg.LLMBaseURL = getEnv("LLM_BASE_URL", cfg.LLMBaseURL)
	cfg.SummaryModel = getEnv("SUMMARY_MODEL", cfg.SummaryModel)
	cfg.GenerationModel = getEnv("GENERATION_MODEL", cfg.GenerationModel)
	cfg.LLMTemperature = getEnvAsFloat32("LLM_TEMPERATURE", cfg.LLMTemperature)
	cfg.LLMTimeout = getEnvAsDuration("LLM_TIMEOUT", cfg.LLMTimeout)
	cfg.VertexProject = getEnv("VERTEX_PROJECT", cfg.VertexProject)
	cfg.VertexRegion = getEnv("VERTEX_REGION", cfg.VertexRegion)
	cfg.S3Endpoint = getEnv("S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3AccessKeyID = getEnv("S3_ACCESS_KEY_ID", cfg.S3AccessKeyID)
	cfg.S3SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", cfg.S3SecretAccessKey)
	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", cfg.S3BucketName)
	cfg.S3Region = getEnv("S3_REGION", cfg.S3Region)
	cfg.S3UseSSL = getEnvAsBool("S3_USE_SSL", cfg.S3UseSSL)
	cfg.WatchDir = getEnv("WATCH_DIR", cfg.WatchDir)
	cfg.WatchSettle = getEnvAsDuration("WATCH_SETTLE", cfg.WatchSettle)
	cfg.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", cfg.MaxFileSize)
	cfg.CORSOrigins = getEnvAsList("CORS_ORIGINS", cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "openrouter", "openai":
		if c.LLMAPIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required for provider %s", c.LLMProvider)
		}
	case "ollama":
	case "vertex":
		if c.VertexProject == "" {
			return fmt.Errorf("VERTEX_PROJECT is required for provider vertex")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return nil
}

// MirrorEnabled reports whether reports are copied to object storage.
func (c *Config) MirrorEnabled() bool {
	return c.S3Endpoint != ""
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
