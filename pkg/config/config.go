package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for sqlmend.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (the PostgreSQL database queries run against)
	Database DatabaseConfig `yaml:"database"`

	// LLM configuration (completion + embedding endpoints)
	LLM LLMConfig `yaml:"llm"`

	// Pipeline configuration (retry budget, retrieval width, result limits)
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// DatabaseConfig holds PostgreSQL configuration for the target database.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"sqlmend"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"sqlmend"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// LLMConfig holds the completion and embedding model endpoints.
// Provider selects the completion backend; embeddings always go through the
// OpenAI-compatible endpoint since Anthropic does not serve embeddings.
type LLMConfig struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`

	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML

	EmbeddingEndpoint string `yaml:"embedding_endpoint" env:"EMBEDDING_ENDPOINT" env-default:""`
	EmbeddingModel    string `yaml:"embedding_model" env:"EMBEDDING_MODEL" env-default:"text-embedding-3-small"`
	EmbeddingAPIKey   string `yaml:"-" env:"EMBEDDING_API_KEY"` // Secret - falls back to APIKey

	MaxTokens   int     `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"2048"`
	Temperature float64 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.1"`
}

// PipelineConfig holds generate-execute-repair loop settings.
type PipelineConfig struct {
	// DefaultMaxRetries is the repair budget used when a request does not
	// specify one. A session makes at most DefaultMaxRetries+1 attempts.
	DefaultMaxRetries int `yaml:"default_max_retries" env:"DEFAULT_MAX_RETRIES" env-default:"3"`

	// MaxRetriesCeiling caps the per-request retry budget to bound cost.
	MaxRetriesCeiling int `yaml:"max_retries_ceiling" env:"MAX_RETRIES_CEILING" env-default:"5"`

	// TopK is how many schema units are retrieved into the prompt.
	TopK int `yaml:"top_k" env:"SCHEMA_TOP_K" env-default:"5"`

	// RowLimit caps the number of rows returned from a generated query.
	// Zero means unlimited.
	RowLimit int `yaml:"row_limit" env:"QUERY_ROW_LIMIT" env-default:"1000"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// If config.yaml does not exist, configuration comes from environment variables
// and defaults alone.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate checks cross-field constraints cleanenv cannot express.
func (c *Config) validate() error {
	if c.LLM.Provider != "openai" && c.LLM.Provider != "anthropic" {
		return fmt.Errorf("unknown llm provider %q (expected openai or anthropic)", c.LLM.Provider)
	}
	if c.Pipeline.DefaultMaxRetries < 0 {
		return fmt.Errorf("default_max_retries must be >= 0")
	}
	if c.Pipeline.MaxRetriesCeiling < c.Pipeline.DefaultMaxRetries {
		return fmt.Errorf("max_retries_ceiling (%d) must be >= default_max_retries (%d)",
			c.Pipeline.MaxRetriesCeiling, c.Pipeline.DefaultMaxRetries)
	}
	if c.Pipeline.TopK < 1 {
		return fmt.Errorf("top_k must be >= 1")
	}
	return nil
}

// EmbeddingCredentials returns the endpoint and key used for embedding calls,
// falling back to the completion endpoint configuration when unset.
func (c *LLMConfig) EmbeddingCredentials() (endpoint, apiKey string) {
	endpoint = c.EmbeddingEndpoint
	if endpoint == "" {
		endpoint = c.Endpoint
	}
	apiKey = c.EmbeddingAPIKey
	if apiKey == "" {
		apiKey = c.APIKey
	}
	return endpoint, apiKey
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode, c.MaxConnections,
	)
}
