// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/model"
	"github.com/David-Botos/data-cleaner/pkg/transform"
)

// TemporalImputation selects how missing temporal values are filled
type TemporalImputation string

const (
	TemporalImputeNone   TemporalImputation = "none"
	TemporalImputeMedian TemporalImputation = "median"
)

// Options holds the thresholds used by the pipeline stages
type Options struct {
	// Columns with fewer non-missing values than this share of rows are dropped
	PresenceThreshold float64
	// Outlier bounds are Q1 - k*IQR and Q3 + k*IQR
	IQRMultiplier float64
	// A text column becomes numeric when parsing loses less than this share of rows
	CoercionTolerance float64
	// A text column becomes temporal when more than this share of rows parse as dates
	TemporalParseThreshold float64
	// Text columns at or above this distinct ratio are identifiers
	IdentifierRatio float64
	// Text columns with more distinct values than this get rare categories collapsed
	MaxCategories int
	// Categories below this relative frequency are relabeled
	RareCategoryFrequency float64
	// Columns above this distinct ratio are excluded from scaling and encoding
	NearIdentifierRatio float64

	TextPlaceholder    string
	RareCategoryLabel  string
	TemporalImputation TemporalImputation
}

// DefaultOptions returns the standard pipeline thresholds
func DefaultOptions() Options {
	return Options{
		PresenceThreshold:      0.30,
		IQRMultiplier:          1.5,
		CoercionTolerance:      0.01,
		TemporalParseThreshold: 0.50,
		IdentifierRatio:        0.95,
		MaxCategories:          100,
		RareCategoryFrequency:  0.005,
		NearIdentifierRatio:    0.99,
		TextPlaceholder:        "unknown",
		RareCategoryLabel:      "Other",
		TemporalImputation:     TemporalImputeNone,
	}
}

// Validate ensures the options are usable
func (o Options) Validate() error {
	ratios := map[string]float64{
		"presence threshold":       o.PresenceThreshold,
		"coercion tolerance":       o.CoercionTolerance,
		"temporal parse threshold": o.TemporalParseThreshold,
		"identifier ratio":         o.IdentifierRatio,
		"rare category frequency":  o.RareCategoryFrequency,
		"near identifier ratio":    o.NearIdentifierRatio,
	}
	for name, v := range ratios {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
		}
	}
	if o.IQRMultiplier < 0 {
		return errors.New("IQR multiplier cannot be negative")
	}
	if o.MaxCategories < 0 {
		return errors.New("max categories cannot be negative")
	}
	switch o.TemporalImputation {
	case TemporalImputeNone, TemporalImputeMedian:
	default:
		return fmt.Errorf("unknown temporal imputation %q", o.TemporalImputation)
	}
	return nil
}

// StageMetric captures the cost and effect of one pipeline stage
type StageMetric struct {
	Stage    string
	Duration time.Duration
	Rows     int
	Columns  int
}

// TableCleaner runs the cleaning pipeline over a private copy of a table.
// It is not safe for concurrent use.
type TableCleaner struct {
	table  *model.Table
	report *model.Report
	errors []error

	opts        Options
	logger      *zap.Logger
	runID       string
	operations  []model.CleaningOperation
	metrics     []StageMetric
	transformer *transform.FeatureTransformer
}

// NewTableCleaner copies input and prepares an empty, fully keyed report
func NewTableCleaner(input *model.Table, opts Options, logger *zap.Logger) (*TableCleaner, error) {
	if input == nil {
		return nil, errors.New("input table cannot be nil")
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input table: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cleaner options: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	table := input.Clone()
	runID := uuid.New().String()

	return &TableCleaner{
		table:       table,
		report:      model.NewReport(table.RowCount(), table.ColumnCount()),
		errors:      []error{},
		opts:        opts,
		logger:      logger.Named("cleaner").With(zap.String("run_id", runID)),
		runID:       runID,
		transformer: transform.NewFeatureTransformer(),
	}, nil
}

// RunPipeline executes every stage in order and returns the cleaned
// table, the report and the error list
func (c *TableCleaner) RunPipeline() (*model.Table, *model.Report, []error) {
	c.logger.Info("Starting cleaning pipeline",
		zap.Int("rows", c.table.RowCount()),
		zap.Int("columns", c.table.ColumnCount()))

	stages := []struct {
		name string
		run  func()
	}{
		{"rename_columns", c.RenameColumns},
		{"remove_duplicates", c.RemoveDuplicates},
		{"handle_null_values", c.HandleNullValues},
		{"handle_outliers", c.HandleOutliers},
		{"validate_datatypes", c.ValidateDatatypes},
		// type inference can introduce new missing values
		{"handle_null_values", c.HandleNullValues},
		{"validate_business_rules", c.ValidateBusinessRules},
		{"standardize_features", c.StandardizeFeatures},
		{"generate_error_summary", c.GenerateErrorSummary},
		{"generate_report", func() { c.GenerateReport() }},
	}

	for _, stage := range stages {
		start := time.Now()
		stage.run()
		metric := StageMetric{
			Stage:    stage.name,
			Duration: time.Since(start),
			Rows:     c.table.RowCount(),
			Columns:  c.table.ColumnCount(),
		}
		c.metrics = append(c.metrics, metric)
		c.logger.Debug("Stage completed",
			zap.String("stage", metric.Stage),
			zap.Duration("duration", metric.Duration),
			zap.Int("rows", metric.Rows),
			zap.Int("columns", metric.Columns))
	}

	return c.table, c.report, c.errors
}

// Table returns the working table
func (c *TableCleaner) Table() *model.Table { return c.table }

// Report returns the report
func (c *TableCleaner) Report() *model.Report { return c.report }

// Errors returns the error list
func (c *TableCleaner) Errors() []error { return c.errors }

// Operations returns the audit trail collected so far
func (c *TableCleaner) Operations() []model.CleaningOperation { return c.operations }

// Metrics returns per-stage timings of the last run
func (c *TableCleaner) Metrics() []StageMetric { return c.metrics }

// Transformer returns the feature transformer fitted by StandardizeFeatures
func (c *TableCleaner) Transformer() *transform.FeatureTransformer { return c.transformer }

// RunID identifies this cleaner's run in logs and audit records
func (c *TableCleaner) RunID() string { return c.runID }
