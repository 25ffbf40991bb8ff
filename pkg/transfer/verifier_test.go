package transfer

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// mockConnector serves queries from a sqlmock database
type mockConnector struct {
	db *sqlx.DB
}

func (m *mockConnector) DB() *sqlx.DB                   { return m.db }
func (m *mockConnector) Validate(context.Context) error { return nil }
func (m *mockConnector) Close() error                   { return m.db.Close() }

func (m *mockConnector) QueryWithTimeout(ctx context.Context, query string, timeout time.Duration, args ...interface{}) (*sqlx.Rows, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	rows, err := m.db.QueryxContext(ctx, query, args...)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return rows, cancel, nil
}

func (m *mockConnector) ExecWithTimeout(ctx context.Context, query string, timeout time.Duration, args ...interface{}) (sql.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return m.db.ExecContext(ctx, query, args...)
}

func newMockVerifier(t *testing.T) (*Verifier, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conn := &mockConnector{db: sqlx.NewDb(db, "postgres")}
	t.Cleanup(func() { conn.Close() })
	return NewVerifier(conn, nil, zaptest.NewLogger(t)).WithTimeout(time.Second), mock
}

func cleanedTable(t *testing.T) *model.Table {
	t.Helper()
	when := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	table, err := model.NewTable(
		&model.Column{Name: "revenue", Values: []any{-1.0, 1.0}},
		&model.Column{Name: "segment", Values: []any{"a", "b"}},
		&model.Column{Name: "seen", Values: []any{when, when}},
	)
	require.NoError(t, err)
	return table
}

func expectCount(mock sqlmock.Sqlmock, count int64) {
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("public", "cleaned").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "public"."cleaned"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func TestVerifyTablePasses(t *testing.T) {
	v, mock := newMockVerifier(t)
	expectCount(mock, 5)
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "cleaned").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("revenue", "double precision").
			AddRow("segment", "text").
			AddRow("seen", "timestamp with time zone"))

	report, err := v.VerifyTable(context.Background(), "public", "cleaned", cleanedTable(t), 3)
	require.NoError(t, err)

	assert.True(t, report.Passed())
	assert.Equal(t, int64(5), report.ExpectedRowCount)
	assert.Equal(t, int64(5), report.TargetRowCount)
	assert.Empty(t, report.StructureDiscrepancies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyTableReportsDiscrepancies(t *testing.T) {
	v, mock := newMockVerifier(t)
	expectCount(mock, 1)
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "cleaned").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("revenue", "double precision").
			AddRow("segment", "integer"))

	report, err := v.VerifyTable(context.Background(), "public", "cleaned", cleanedTable(t), 0)
	require.NoError(t, err)

	assert.False(t, report.Passed())
	assert.False(t, report.RowCountMatches)
	assert.Equal(t, int64(2), report.ExpectedRowCount)
	assert.Equal(t, []StructureDiscrepancy{
		{ColumnName: "segment", ExpectedKind: model.KindText, ActualType: "integer"},
		{ColumnName: "seen", ExpectedKind: model.KindTemporal, IsMissing: true},
	}, report.StructureDiscrepancies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountRowsMissingTable(t *testing.T) {
	v, mock := newMockVerifier(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("public", "fresh").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	count, err := v.CountRows(context.Background(), "public", "fresh")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountRowsQueryError(t *testing.T) {
	v, mock := newMockVerifier(t)
	mock.ExpectQuery("SELECT EXISTS").WillReturnError(errors.New("connection refused"))

	_, err := v.CountRows(context.Background(), "public", "cleaned")
	assert.Error(t, err)
}

func TestVerifyTableRejectsNil(t *testing.T) {
	v, _ := newMockVerifier(t)
	_, err := v.VerifyTable(context.Background(), "public", "cleaned", nil, 0)
	assert.Error(t, err)
}
