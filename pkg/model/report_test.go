package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportSeedsKeys(t *testing.T) {
	r := NewReport(10, 3)

	for _, key := range []string{
		KeyColumnsRenamed, KeyColumnsDropped, KeyNullsImputed, KeyOutliersTreated,
		KeyValuesCoercedToNull, KeyImputedByRules, KeyFinalFeatures,
	} {
		value, ok := r.DataQualitySummary[key]
		assert.True(t, ok, key)
		assert.Zero(t, value, key)
	}
	assert.Contains(t, r.RowsDeleted, KeyDuplicates)
	assert.Equal(t, 10, r.InitialRowCount)
	assert.Equal(t, 3, r.InitialColCount)
}

func TestReportCounters(t *testing.T) {
	r := NewReport(0, 0)
	r.AddSummary(KeyNullsImputed, 2)
	r.AddSummary(KeyNullsImputed, 3)
	r.SetSummary(KeyOutliersTreated, 4)
	r.SetSummary(KeyOutliersTreated, 1)

	assert.Equal(t, 5, r.Summary(KeyNullsImputed))
	assert.Equal(t, 1, r.Summary(KeyOutliersTreated))
	assert.Zero(t, r.Summary("absent"))

	var nilReport *Report
	assert.Zero(t, nilReport.Summary(KeyNullsImputed))
	assert.Zero(t, nilReport.Deleted(KeyDuplicates))
}

func TestErrorSummaryPreservesOrder(t *testing.T) {
	summary := ErrorSummary{
		{Key: "== ROWS ==", Section: true},
		{Key: "final_rows", Value: 7},
		{Key: "original_rows", Value: 9},
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Equal(t, `{"== ROWS ==":"","final_rows":7,"original_rows":9}`, string(data))

	value, ok := summary.Get("original_rows")
	assert.True(t, ok)
	assert.Equal(t, 9, value)

	_, ok = summary.Get("== ROWS ==")
	assert.False(t, ok)
}

func TestReportJSONHasFixedKeys(t *testing.T) {
	r := NewReport(1, 1)
	r.ErrorSummary = ErrorSummary{{Key: "final_rows", Value: 1}}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"data_quality_summary", "rows_deleted", "initial_row_count", "initial_col_count", "error_summary"} {
		assert.Contains(t, decoded, key)
	}
}

func TestWriteTable(t *testing.T) {
	r := NewReport(0, 0)
	r.ErrorSummary = ErrorSummary{
		{Key: "ROWS", Section: true},
		{Key: "original_rows", Value: 12},
	}

	var buf bytes.Buffer
	require.NoError(t, r.WriteTable(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ROWS", strings.TrimSpace(lines[0]))
	assert.Equal(t, []string{"original_rows", "12"}, strings.Fields(lines[1]))
}
