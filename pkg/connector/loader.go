// pkg/connector/loader.go
package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/converter"
	"github.com/David-Botos/data-cleaner/pkg/model"
)

// LoadTable runs query on conn and maps the result set into a table.
// Column kinds come from the driver's type names; unknown types are
// inferred from the values.
func LoadTable(
	ctx context.Context,
	conn DatabaseConnector,
	conv *converter.TypeConverter,
	query string,
	timeout time.Duration,
	logger *zap.Logger,
) (*model.Table, error) {
	if conn == nil {
		return nil, errors.New("connector cannot be nil")
	}
	if conv == nil {
		conv = converter.NewTypeConverter(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	start := time.Now()
	rows, cancel, err := conn.QueryWithTimeout(ctx, query, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to execute source query: %w", err)
	}
	defer cancel()
	defer rows.Close()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	columns := make([]*model.Column, len(columnTypes))
	for i, ct := range columnTypes {
		columns[i] = &model.Column{
			Name: ct.Name(),
			Kind: conv.KindForDatabaseType(ct.DatabaseTypeName()),
		}
	}

	rowNum := 0
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", rowNum, err)
		}
		rowNum++
		for i, v := range values {
			columns[i].Values = append(columns[i].Values, conv.NormalizeDriverValue(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	table, err := model.NewTable(columns...)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}

	logger.Info("Loaded source table",
		zap.Int("rows", table.RowCount()),
		zap.Int("columns", table.ColumnCount()),
		zap.Duration("duration", time.Since(start)))
	return table, nil
}
