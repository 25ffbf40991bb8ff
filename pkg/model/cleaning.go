// pkg/model/cleaning.go
package model

import (
	"time"
)

// Cleaning operation names recorded in the audit trail
const (
	OpRename           = "column_rename"
	OpDeduplicate      = "duplicate_removal"
	OpDropColumn       = "column_drop"
	OpMeanImputation   = "mean_imputation"
	OpTextImputation   = "placeholder_imputation"
	OpMedianImputation = "median_imputation"
	OpClip             = "outlier_clipping"
	OpCoerceNumeric    = "type_coercion_numeric"
	OpCoerceTemporal   = "type_coercion_temporal"
	OpCollapse         = "category_collapse"
	OpScale            = "standard_scaling"
	OpOneHot           = "one_hot_encoding"
)

// CleaningOperation represents a single data cleaning operation
type CleaningOperation struct {
	RunID             string    `db:"run_id"`             // Identifies the pipeline run
	Stage             string    `db:"stage"`              // Pipeline stage that performed the operation
	ColumnName        string    `db:"column_name"`        // Column that was cleaned
	OriginalValue     string    `db:"original_value"`     // Original value or column name (may be empty)
	NewValue          string    `db:"new_value"`          // New value after cleaning
	AffectedRows      int       `db:"affected_rows"`      // Number of values touched
	CleaningOperation string    `db:"cleaning_operation"` // Type of cleaning performed (e.g., "mean_imputation")
	CleaningReason    string    `db:"cleaning_reason"`    // Reason for cleaning (e.g., "missing_value")
	CleanedAt         time.Time `db:"cleaned_at"`         // When the cleaning occurred
}
