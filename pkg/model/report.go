// pkg/model/report.go
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Summary counter keys of the data quality summary
const (
	KeyColumnsRenamed      = "columns_renamed"
	KeyColumnsDropped      = "columns_dropped_due_to_nuls"
	KeyNullsImputed        = "nuls_imputed"
	KeyOutliersTreated     = "outliers_treated"
	KeyValuesCoercedToNull = "values_coerced_to_null"
	KeyImputedByRules      = "imputed_by_rules"
	KeyFinalFeatures       = "final_features_count"

	KeyDuplicates = "duplicates"
)

// summaryKeys lists the pre-seeded counters in presentation order
var summaryKeys = []string{
	KeyColumnsRenamed,
	KeyColumnsDropped,
	KeyNullsImputed,
	KeyOutliersTreated,
	KeyValuesCoercedToNull,
	KeyImputedByRules,
	KeyFinalFeatures,
}

// Report accumulates pipeline statistics
type Report struct {
	DataQualitySummary map[string]int `json:"data_quality_summary"`
	RowsDeleted        map[string]int `json:"rows_deleted"`
	InitialRowCount    int            `json:"initial_row_count"`
	InitialColCount    int            `json:"initial_col_count"`
	ErrorSummary       ErrorSummary   `json:"error_summary,omitempty"`
}

// NewReport returns a report with every counter key present and zero
func NewReport(rows, cols int) *Report {
	r := &Report{
		DataQualitySummary: make(map[string]int, len(summaryKeys)),
		RowsDeleted:        map[string]int{KeyDuplicates: 0},
		InitialRowCount:    rows,
		InitialColCount:    cols,
	}
	for _, key := range summaryKeys {
		r.DataQualitySummary[key] = 0
	}
	return r
}

// Summary returns a counter, zero when absent
func (r *Report) Summary(key string) int {
	if r == nil || r.DataQualitySummary == nil {
		return 0
	}
	return r.DataQualitySummary[key]
}

// SetSummary overwrites a counter
func (r *Report) SetSummary(key string, value int) {
	if r.DataQualitySummary == nil {
		r.DataQualitySummary = make(map[string]int)
	}
	r.DataQualitySummary[key] = value
}

// AddSummary increments a counter
func (r *Report) AddSummary(key string, delta int) {
	r.SetSummary(key, r.Summary(key)+delta)
}

// Deleted returns a rows_deleted counter, zero when absent
func (r *Report) Deleted(key string) int {
	if r == nil || r.RowsDeleted == nil {
		return 0
	}
	return r.RowsDeleted[key]
}

// SetDeleted overwrites a rows_deleted counter
func (r *Report) SetDeleted(key string, value int) {
	if r.RowsDeleted == nil {
		r.RowsDeleted = make(map[string]int)
	}
	r.RowsDeleted[key] = value
}

// SummaryEntry is one line of the error summary. Section entries are
// decorative headers and carry no value.
type SummaryEntry struct {
	Key     string
	Value   int
	Section bool
}

// ErrorSummary is an ordered list of summary entries
type ErrorSummary []SummaryEntry

// Keys returns entry keys in order
func (s ErrorSummary) Keys() []string {
	keys := make([]string, len(s))
	for i, e := range s {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the value for key
func (s ErrorSummary) Get(key string) (int, bool) {
	for _, e := range s {
		if e.Key == key && !e.Section {
			return e.Value, true
		}
	}
	return 0, false
}

// MarshalJSON encodes the summary as an object preserving entry order
func (s ErrorSummary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if e.Section {
			buf.WriteString(`""`)
		} else {
			fmt.Fprintf(&buf, "%d", e.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteTable prints the error summary as an aligned two-column table
func (r *Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range r.ErrorSummary {
		if e.Section {
			fmt.Fprintf(tw, "%s\t\n", e.Key)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\n", e.Key, e.Value)
	}
	return tw.Flush()
}
