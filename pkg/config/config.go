// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProjectName = "ETL Data Cleaner"
	Version     = "0.1"
)

// Source types accepted by SOURCE_TYPE
const (
	SourcePostgres  = "postgres"
	SourceSnowflake = "snowflake"
	SourceCSV       = "csv"
	SourceXLSX      = "xlsx"
)

// Config represents the application configuration
type Config struct {
	Source SourceConfig

	// Database connections, loaded only when a component needs them
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig

	Output  OutputConfig
	Cleaner CleanerConfig

	// Record stage operations into the cleaned_on_ingress table
	AuditEnabled bool
	// Where fitted transformer parameters are written; empty disables
	TransformerPath string

	// Logging
	LogDir    string
	LogLevel  string
	LogFormat string
}

// SourceConfig describes where the input table comes from
type SourceConfig struct {
	Type         string
	Path         string // csv and xlsx
	Sheet        string // xlsx, empty means the first sheet
	Query        string // postgres and snowflake
	QueryTimeout time.Duration
}

// OutputConfig describes where the cleaned table is written
type OutputConfig struct {
	Schema    string
	Table     string // empty disables writing
	BatchSize int
	// Check row count and column types after writing
	Verify bool
}

// CleanerConfig holds the pipeline thresholds
type CleanerConfig struct {
	PresenceThreshold      float64
	IQRMultiplier          float64
	CoercionTolerance      float64
	TemporalParseThreshold float64
	IdentifierRatio        float64
	MaxCategories          int
	RareCategoryFrequency  float64
	NearIdentifierRatio    float64
	TemporalImputation     string
}

// LoadConfig loads configuration from an optional .env file and environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Source: SourceConfig{
			Type:         strings.ToLower(getEnv("SOURCE_TYPE", SourceCSV)),
			Path:         getEnv("SOURCE_PATH", ""),
			Sheet:        getEnv("SOURCE_SHEET", ""),
			Query:        getEnv("SOURCE_QUERY", ""),
			QueryTimeout: time.Duration(getEnvAsInt("SOURCE_QUERY_TIMEOUT_SECONDS", 300)) * time.Second,
		},
		Output: OutputConfig{
			Schema:    getEnv("OUTPUT_SCHEMA", "public"),
			Table:     getEnv("OUTPUT_TABLE", ""),
			BatchSize: getEnvAsInt("OUTPUT_BATCH_SIZE", 1000),
			Verify:    getEnvAsBool("OUTPUT_VERIFY", true),
		},
		Cleaner: CleanerConfig{
			PresenceThreshold:      getEnvAsFloat("CLEANER_PRESENCE_THRESHOLD", 0.30),
			IQRMultiplier:          getEnvAsFloat("CLEANER_IQR_MULTIPLIER", 1.5),
			CoercionTolerance:      getEnvAsFloat("CLEANER_COERCION_TOLERANCE", 0.01),
			TemporalParseThreshold: getEnvAsFloat("CLEANER_TEMPORAL_PARSE_THRESHOLD", 0.50),
			IdentifierRatio:        getEnvAsFloat("CLEANER_IDENTIFIER_RATIO", 0.95),
			MaxCategories:          getEnvAsInt("CLEANER_MAX_CATEGORIES", 100),
			RareCategoryFrequency:  getEnvAsFloat("CLEANER_RARE_CATEGORY_FREQUENCY", 0.005),
			NearIdentifierRatio:    getEnvAsFloat("CLEANER_NEAR_IDENTIFIER_RATIO", 0.99),
			TemporalImputation:     getEnv("CLEANER_TEMPORAL_IMPUTATION", "none"),
		},
		AuditEnabled:    getEnvAsBool("AUDIT_ENABLED", false),
		TransformerPath: getEnv("TRANSFORMER_PATH", ""),
		LogDir:          getEnv("LOG_DIR", "logs"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}

	if cfg.Source.Type == SourceSnowflake {
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load Snowflake configuration: %w", err)
		}
		cfg.Snowflake = snowConfig
	}

	if cfg.NeedsPostgres() {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load PostgreSQL configuration: %w", err)
		}
		cfg.Postgres = pgConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NeedsPostgres reports whether any component uses the PostgreSQL connection
func (c *Config) NeedsPostgres() bool {
	return c.Source.Type == SourcePostgres || c.Output.Table != "" || c.AuditEnabled
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceCSV, SourceXLSX:
		if c.Source.Path == "" {
			return fmt.Errorf("SOURCE_PATH is required for %s sources", c.Source.Type)
		}
	case SourcePostgres, SourceSnowflake:
		if c.Source.Query == "" {
			return fmt.Errorf("SOURCE_QUERY is required for %s sources", c.Source.Type)
		}
	default:
		return fmt.Errorf("unknown source type %q", c.Source.Type)
	}

	if c.Source.Type == SourceSnowflake && c.Snowflake == nil {
		return errors.New("snowflake configuration is required")
	}

	if c.NeedsPostgres() && c.Postgres == nil {
		return errors.New("postgreSQL configuration is required")
	}

	if c.Output.BatchSize <= 0 {
		return errors.New("output batch size must be positive")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
