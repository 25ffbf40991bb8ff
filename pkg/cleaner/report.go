// pkg/cleaner/report.go
package cleaner

import (
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// Error summary keys in presentation order
const (
	SectionRows    = "===== ROWS ====="
	SectionValues  = "===== VALUES ====="
	SectionColumns = "===== COLUMNS ====="

	SummaryOriginalRows    = "original_rows"
	SummaryFinalRows       = "final_rows"
	SummaryDuplicates      = "rows_deleted_duplicates"
	SummaryNullsImputed    = "nuls_imputed"
	SummaryNullsCoerced    = "nuls_created_by_coercion"
	SummaryOutliers        = "outliers_treated"
	SummaryCollapsed       = "categories_collapsed"
	SummaryOriginalColumns = "original_columns"
	SummaryFinalColumns    = "final_columns"
)

// GenerateErrorSummary assembles the ordered summary from the report
func (c *TableCleaner) GenerateErrorSummary() {
	r := c.report
	c.report.ErrorSummary = model.ErrorSummary{
		{Key: SectionRows, Section: true},
		{Key: SummaryOriginalRows, Value: r.InitialRowCount},
		{Key: SummaryFinalRows, Value: c.table.RowCount()},
		{Key: SummaryDuplicates, Value: r.Deleted(model.KeyDuplicates)},
		{Key: SectionValues, Section: true},
		{Key: SummaryNullsImputed, Value: r.Summary(model.KeyNullsImputed)},
		{Key: SummaryNullsCoerced, Value: r.Summary(model.KeyValuesCoercedToNull)},
		{Key: SummaryOutliers, Value: r.Summary(model.KeyOutliersTreated)},
		{Key: SummaryCollapsed, Value: r.Summary(model.KeyImputedByRules)},
		{Key: SectionColumns, Section: true},
		{Key: SummaryOriginalColumns, Value: r.InitialColCount},
		{Key: SummaryFinalColumns, Value: c.table.ColumnCount()},
	}
}

// GenerateReport refreshes the error summary, logs it and returns the report
func (c *TableCleaner) GenerateReport() *model.Report {
	c.GenerateErrorSummary()

	fields := make([]zap.Field, 0, len(c.report.ErrorSummary))
	for _, e := range c.report.ErrorSummary {
		if e.Section {
			continue
		}
		fields = append(fields, zap.Int(e.Key, e.Value))
	}
	c.logger.Info("Data quality report", fields...)

	return c.report
}
