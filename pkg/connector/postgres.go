// pkg/connector/postgres.go
package connector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/config"
	"github.com/David-Botos/data-cleaner/pkg/converter"
	"github.com/David-Botos/data-cleaner/pkg/model"
)

// maxBindParameters is the PostgreSQL limit on parameters per statement
const maxBindParameters = 65535

// PostgresConnector implements the DatabaseConnector interface for PostgreSQL
type PostgresConnector struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
}

// NewPostgresConnector creates and initializes a new PostgreSQL connector
func NewPostgresConnector(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PostgresConnector, error) {
	if cfg == nil {
		return nil, errors.New("postgres configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("postgres-connector")

	// Log connection attempt
	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User),
		zap.String("driver", cfg.Driver))

	db, err := sqlx.Open(cfg.Driver, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	ApplyConnectionSettings(
		db,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	// Set statement timeout if configured
	if cfg.StatementTimeout > 0 {
		_, err = db.ExecContext(
			ctx,
			fmt.Sprintf("SET statement_timeout = %d", cfg.StatementTimeout.Milliseconds()),
		)
		if err != nil {
			logger.Warn("Failed to set statement timeout", zap.Error(err))
		}
	}

	// Verify connection
	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	connector := &PostgresConnector{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	LogConnectionStats(logger, cfg.Database, db)
	return connector, nil
}

// DB returns the underlying database connection
func (c *PostgresConnector) DB() *sqlx.DB {
	return c.db
}

// Validate verifies the PostgreSQL connection
func (c *PostgresConnector) Validate(ctx context.Context) error {
	var version string
	if err := c.db.GetContext(ctx, &version, "SELECT version()"); err != nil {
		return fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}

	c.logger.Info("PostgreSQL connection validated",
		zap.String("version", version),
		zap.String("database", c.cfg.Database),
		zap.String("host", c.cfg.Host),
		zap.Int("port", c.cfg.Port))

	return nil
}

// Close closes the database connection
func (c *PostgresConnector) Close() error {
	c.logger.Info("Closing PostgreSQL connection")
	LogConnectionStats(c.logger, c.cfg.Database, c.db)
	return c.db.Close()
}

// ensureSchema creates a schema if it doesn't exist
func (c *PostgresConnector) ensureSchema(ctx context.Context, schema string) error {
	_, err := c.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+converter.QuoteIdentifier(schema))
	return err
}

// ExecWithTimeout executes a statement with a timeout
func (c *PostgresConnector) ExecWithTimeout(
	ctx context.Context,
	query string,
	timeout time.Duration,
	args ...interface{},
) (sql.Result, error) {
	return execWithTimeout(ctx, c.db, query, timeout, args...)
}

// QueryWithTimeout executes a query with a timeout; cancel must be
// called once the rows are consumed
func (c *PostgresConnector) QueryWithTimeout(
	ctx context.Context,
	query string,
	timeout time.Duration,
	args ...interface{},
) (*sqlx.Rows, context.CancelFunc, error) {
	return queryWithTimeout(ctx, c.db, query, timeout, args...)
}

// BatchInsert performs a bulk insert into a table
func (c *PostgresConnector) BatchInsert(
	ctx context.Context,
	schema string,
	table string,
	columns []string,
	valueRows [][]interface{},
	batchSize int,
) (int64, error) {
	if len(valueRows) == 0 || len(columns) == 0 {
		return 0, nil
	}

	if batchSize <= 0 {
		batchSize = 1000
	}
	if batchSize*len(columns) > maxBindParameters {
		batchSize = maxBindParameters / len(columns)
		if batchSize == 0 {
			return 0, fmt.Errorf("table has %d columns, more than one insert can bind", len(columns))
		}
	}

	// Build the base query
	fullTableName := qualifiedName(schema, table)
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = converter.QuoteIdentifier(col)
	}
	columnStr := strings.Join(quoted, ", ")

	var totalRowsInserted int64

	// Process in batches
	for i := 0; i < len(valueRows); i += batchSize {
		end := i + batchSize
		if end > len(valueRows) {
			end = len(valueRows)
		}

		currentBatch := valueRows[i:end]

		// Build placeholders for this batch
		placeholders := make([]string, len(currentBatch))
		args := make([]interface{}, 0, len(currentBatch)*len(columns))

		for j, row := range currentBatch {
			rowPlaceholders := make([]string, len(columns))
			for k, val := range row {
				paramIndex := j*len(columns) + k + 1
				rowPlaceholders[k] = fmt.Sprintf("$%d", paramIndex)
				args = append(args, val)
			}
			placeholders[j] = fmt.Sprintf("(%s)", strings.Join(rowPlaceholders, ", "))
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			fullTableName, columnStr, strings.Join(placeholders, ", "))

		result, err := c.ExecWithTimeout(ctx, query, 30*time.Second, args...)
		if err != nil {
			return totalRowsInserted, fmt.Errorf("batch insert failed: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.logger.Warn("Couldn't get rows affected", zap.Error(err))
		} else {
			totalRowsInserted += rowsAffected
		}
	}

	return totalRowsInserted, nil
}

// CreateTableIfNotExists creates a table with the specified columns if it doesn't exist
func (c *PostgresConnector) CreateTableIfNotExists(
	ctx context.Context,
	schema string,
	table string,
	columnDefs []string,
) error {
	fullTableName := qualifiedName(schema, table)

	var exists bool
	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables 
			WHERE table_schema = $1 AND table_name = $2
		)
	`
	if err := c.db.GetContext(ctx, &exists, query, strings.ToLower(schema), strings.ToLower(table)); err != nil {
		return fmt.Errorf("failed to check if table exists: %w", err)
	}

	if exists {
		c.logger.Debug("Table already exists", zap.String("table", fullTableName))
		return nil
	}

	createSQL := fmt.Sprintf(
		"CREATE TABLE %s (\n\t%s\n)",
		fullTableName,
		strings.Join(columnDefs, ",\n\t"),
	)

	if _, err := c.ExecWithTimeout(ctx, createSQL, 30*time.Second); err != nil {
		return fmt.Errorf("failed to create table %s: %w", fullTableName, err)
	}

	c.logger.Info("Created table", zap.String("table", fullTableName))
	return nil
}

// WriteTable creates the destination table from the column kinds and
// inserts every row
func (c *PostgresConnector) WriteTable(
	ctx context.Context,
	conv *converter.TypeConverter,
	schema string,
	name string,
	table *model.Table,
	batchSize int,
) (int64, error) {
	if table == nil {
		return 0, errors.New("table cannot be nil")
	}

	if err := c.ensureSchema(ctx, schema); err != nil {
		return 0, fmt.Errorf("failed to create/verify schema %s: %w", schema, err)
	}

	defs, err := conv.GenerateColumnDefinitions(table)
	if err != nil {
		return 0, err
	}
	if err := c.CreateTableIfNotExists(ctx, schema, name, defs); err != nil {
		return 0, err
	}

	rows := make([][]interface{}, table.RowCount())
	for r := range rows {
		row := make([]interface{}, table.ColumnCount())
		for i, col := range table.Columns {
			v, err := conv.ConvertValueForPostgres(col.Values[r], col.Kind)
			if err != nil {
				return 0, fmt.Errorf("row %d, column %s: %w", r, col.Name, err)
			}
			row[i] = v
		}
		rows[r] = row
	}

	inserted, err := c.BatchInsert(ctx, schema, name, table.Names(), rows, batchSize)
	if err != nil {
		return inserted, err
	}

	c.logger.Info("Wrote cleaned table",
		zap.String("table", qualifiedName(schema, name)),
		zap.Int64("rows", inserted))
	return inserted, nil
}

func qualifiedName(schema, table string) string {
	return converter.QuoteIdentifier(schema) + "." + converter.QuoteIdentifier(table)
}
