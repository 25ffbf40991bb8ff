// pkg/transfer/verifier.go
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/connector"
	"github.com/David-Botos/data-cleaner/pkg/converter"
	"github.com/David-Botos/data-cleaner/pkg/model"
)

// StructureDiscrepancy represents a column whose stored type does not
// match the kind of the cleaned column
type StructureDiscrepancy struct {
	ColumnName   string
	ExpectedKind model.ColumnKind
	ActualType   string
	IsMissing    bool
}

// VerificationReport contains the results of a table verification
type VerificationReport struct {
	Schema                 string
	Table                  string
	VerificationTime       time.Time
	RowCountMatches        bool
	ExpectedRowCount       int64
	TargetRowCount         int64
	StructureMatches       bool
	StructureDiscrepancies []StructureDiscrepancy
	Duration               time.Duration
}

// Passed reports whether every check succeeded
func (r *VerificationReport) Passed() bool {
	return r.RowCountMatches && r.StructureMatches
}

// Verifier checks a written table against the cleaned table it came from
type Verifier struct {
	target  connector.DatabaseConnector
	conv    *converter.TypeConverter
	logger  *zap.Logger
	timeout time.Duration
}

// columnInfo is one row of information_schema.columns
type columnInfo struct {
	Name     string `db:"column_name"`
	DataType string `db:"data_type"`
}

// NewVerifier creates a new verifier
func NewVerifier(target connector.DatabaseConnector, conv *converter.TypeConverter, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conv == nil {
		conv = converter.NewTypeConverter(logger)
	}
	return &Verifier{
		target:  target,
		conv:    conv,
		logger:  logger,
		timeout: time.Minute * 5, // Default 5-minute timeout
	}
}

// WithTimeout sets a custom timeout for verification queries
func (v *Verifier) WithTimeout(timeout time.Duration) *Verifier {
	v.timeout = timeout
	return v
}

// CountRows returns the number of rows in schema.table, or zero when
// the table does not exist yet
func (v *Verifier) CountRows(ctx context.Context, schema, table string) (int64, error) {
	exists, err := v.tableExists(ctx, schema, table)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s",
		converter.QuoteIdentifier(schema), converter.QuoteIdentifier(table))

	var count int64
	if err := v.queryScalar(ctx, &count, countQuery); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

func (v *Verifier) tableExists(ctx context.Context, schema, table string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)
	`
	var exists bool
	if err := v.queryScalar(ctx, &exists, query, strings.ToLower(schema), strings.ToLower(table)); err != nil {
		return false, fmt.Errorf("failed to check if table exists: %w", err)
	}
	return exists, nil
}

func (v *Verifier) queryScalar(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	rows, cancel, err := v.target.QueryWithTimeout(ctx, query, v.timeout, args...)
	if err != nil {
		return err
	}
	defer cancel()
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return errors.New("no results returned")
	}
	if err := rows.Scan(dest); err != nil {
		return err
	}
	return rows.Err()
}

// VerifyRowCount checks that the target holds exactly expected rows
func (v *Verifier) VerifyRowCount(ctx context.Context, schema, table string, expected int64) (bool, int64, error) {
	v.logger.Info("Verifying row count",
		zap.String("schema", schema),
		zap.String("table", table))

	count, err := v.CountRows(ctx, schema, table)
	if err != nil {
		return false, 0, err
	}

	matches := count == expected
	if !matches {
		v.logger.Warn("Row count mismatch",
			zap.String("table", table),
			zap.Int64("expected", expected),
			zap.Int64("actual", count))
	}
	return matches, count, nil
}

// VerifyStructure compares the stored column types with the kinds of
// the cleaned table
func (v *Verifier) VerifyStructure(
	ctx context.Context,
	schema, table string,
	expected *model.Table,
) (bool, []StructureDiscrepancy, error) {
	if expected == nil {
		return false, nil, errors.New("expected table cannot be nil")
	}

	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`
	rows, cancel, err := v.target.QueryWithTimeout(ctx, query, v.timeout, strings.ToLower(schema), strings.ToLower(table))
	if err != nil {
		return false, nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer cancel()
	defer rows.Close()

	actual := make(map[string]string)
	for rows.Next() {
		var info columnInfo
		if err := rows.StructScan(&info); err != nil {
			return false, nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		actual[strings.ToLower(info.Name)] = info.DataType
	}
	if err := rows.Err(); err != nil {
		return false, nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	var discrepancies []StructureDiscrepancy
	for _, col := range expected.Columns {
		want := col.Kind
		if want == model.KindUnknown {
			// unclassified columns are stored as text
			want = model.KindText
		}

		dataType, ok := actual[strings.ToLower(col.Name)]
		if !ok {
			discrepancies = append(discrepancies, StructureDiscrepancy{
				ColumnName:   col.Name,
				ExpectedKind: want,
				IsMissing:    true,
			})
			continue
		}
		if got := v.conv.KindForDatabaseType(dataType); got != want {
			discrepancies = append(discrepancies, StructureDiscrepancy{
				ColumnName:   col.Name,
				ExpectedKind: want,
				ActualType:   dataType,
			})
		}
	}

	for _, d := range discrepancies {
		v.logger.Warn("Structure discrepancy",
			zap.String("table", table),
			zap.String("column", d.ColumnName),
			zap.String("expected", d.ExpectedKind.String()),
			zap.String("actual", d.ActualType),
			zap.Bool("missing", d.IsMissing))
	}

	return len(discrepancies) == 0, discrepancies, nil
}

// VerifyTable runs every check on a table written from expected.
// baseline is the row count the target held before the write.
func (v *Verifier) VerifyTable(
	ctx context.Context,
	schema, table string,
	expected *model.Table,
	baseline int64,
) (*VerificationReport, error) {
	if expected == nil {
		return nil, errors.New("expected table cannot be nil")
	}

	start := time.Now()
	report := &VerificationReport{
		Schema:           schema,
		Table:            table,
		VerificationTime: start,
		ExpectedRowCount: baseline + int64(expected.RowCount()),
	}

	matches, count, err := v.VerifyRowCount(ctx, schema, table, report.ExpectedRowCount)
	if err != nil {
		return nil, fmt.Errorf("row count verification failed: %w", err)
	}
	report.RowCountMatches = matches
	report.TargetRowCount = count

	structureOK, discrepancies, err := v.VerifyStructure(ctx, schema, table, expected)
	if err != nil {
		return nil, fmt.Errorf("structure verification failed: %w", err)
	}
	report.StructureMatches = structureOK
	report.StructureDiscrepancies = discrepancies
	report.Duration = time.Since(start)

	v.logger.Info("Verification completed",
		zap.String("table", table),
		zap.Bool("passed", report.Passed()),
		zap.Int64("rows", report.TargetRowCount),
		zap.Duration("duration", report.Duration))

	return report, nil
}
