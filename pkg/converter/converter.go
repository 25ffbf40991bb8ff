// pkg/converter/converter.go
package converter

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// TypeConverter maps between database column types and column kinds
type TypeConverter struct {
	logger *zap.Logger
	// Configuration options
	config TypeConverterConfig
}

// TypeConverterConfig provides configuration options for type conversion
type TypeConverterConfig struct {
	// Store temporal columns as TIMESTAMP WITH TIME ZONE
	TimestampWithZone bool
	// Whether to treat empty strings as NULL
	EmptyStringAsNull bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() TypeConverterConfig {
	return TypeConverterConfig{
		TimestampWithZone: true,
		EmptyStringAsNull: true,
	}
}

// NewTypeConverter creates a new TypeConverter with default configuration
func NewTypeConverter(logger *zap.Logger) *TypeConverter {
	return NewTypeConverterWithConfig(logger, DefaultConfig())
}

// NewTypeConverterWithConfig creates a TypeConverter with custom configuration
func NewTypeConverterWithConfig(logger *zap.Logger, config TypeConverterConfig) *TypeConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TypeConverter{
		logger: logger,
		config: config,
	}
}

// KindForDatabaseType maps a Postgres or Snowflake type name to a column kind.
// Unrecognized types map to KindUnknown so the kind is inferred from values.
func (c *TypeConverter) KindForDatabaseType(dbType string) model.ColumnKind {
	if dbType == "" {
		return model.KindUnknown
	}

	baseType := getBaseType(strings.ToUpper(dbType))
	if kind, ok := databaseKinds[baseType]; ok {
		return kind
	}

	c.logger.Debug("Unknown database type encountered, inferring from values",
		zap.String("databaseType", dbType))
	return model.KindUnknown
}

// PostgresType returns the PostgreSQL column type used to store a kind
func (c *TypeConverter) PostgresType(kind model.ColumnKind) string {
	switch kind {
	case model.KindNumeric:
		return "DOUBLE PRECISION"
	case model.KindTemporal:
		if c.config.TimestampWithZone {
			return "TIMESTAMP WITH TIME ZONE"
		}
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// GenerateColumnDefinitions creates PostgreSQL column definitions for a table
func (c *TypeConverter) GenerateColumnDefinitions(table *model.Table) ([]string, error) {
	if table == nil {
		return nil, fmt.Errorf("table cannot be nil")
	}

	definitions := make([]string, 0, table.ColumnCount())
	for _, col := range table.Columns {
		def := fmt.Sprintf("%s %s NULL",
			quoteIdentifier(col.Name),
			c.PostgresType(col.Kind))
		definitions = append(definitions, def)
	}

	return definitions, nil
}

// quoteIdentifier properly quotes and escapes a PostgreSQL identifier
func quoteIdentifier(name string) string {
	return pq.QuoteIdentifier(strings.ToLower(name))
}

// QuoteIdentifier exposes identifier quoting to other packages
func QuoteIdentifier(name string) string {
	return quoteIdentifier(name)
}
