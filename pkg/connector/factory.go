// pkg/connector/factory.go
package connector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/config"
)

// ConnectorFactory creates database connectors
type ConnectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger) *ConnectorFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSnowflakeConnector creates a new Snowflake connector
func (f *ConnectorFactory) CreateSnowflakeConnector(ctx context.Context) (*SnowflakeConnector, error) {
	f.logger.Info("Creating Snowflake connector")

	connector, err := NewSnowflakeConnector(ctx, f.cfg.Snowflake, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
	}

	return connector, nil
}

// CreatePostgresConnector creates a new PostgreSQL connector
func (f *ConnectorFactory) CreatePostgresConnector(ctx context.Context) (*PostgresConnector, error) {
	f.logger.Info("Creating PostgreSQL connector")

	connector, err := NewPostgresConnector(ctx, f.cfg.Postgres, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
	}

	return connector, nil
}

// CreateSourceConnector creates the connector for a database source.
// A Postgres source reuses pg when it is already open.
func (f *ConnectorFactory) CreateSourceConnector(ctx context.Context, pg *PostgresConnector) (DatabaseConnector, error) {
	switch f.cfg.Source.Type {
	case config.SourceSnowflake:
		return f.CreateSnowflakeConnector(ctx)
	case config.SourcePostgres:
		if pg != nil {
			return pg, nil
		}
		return f.CreatePostgresConnector(ctx)
	default:
		return nil, fmt.Errorf("source type %q is not a database source", f.cfg.Source.Type)
	}
}
