// pkg/cleaner/features.go
package cleaner

import (
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// excludedColumns returns numeric and text columns whose distinct ratio
// marks them as near-identifiers
func (c *TableCleaner) excludedColumns() map[string]bool {
	rows := c.table.RowCount()
	excluded := make(map[string]bool)
	for _, col := range c.table.Columns {
		if col.Kind != model.KindNumeric && col.Kind != model.KindText {
			continue
		}
		if ratio(col.DistinctCount(), rows) > c.opts.NearIdentifierRatio {
			excluded[col.Name] = true
		}
	}
	return excluded
}

// StandardizeFeatures scales numeric columns and one-hot encodes text
// columns. Near-identifier and temporal columns are appended unchanged.
func (c *TableCleaner) StandardizeFeatures() {
	excluded := c.excludedColumns()

	transformed, err := c.transformer.FitApply(c.table, excluded)
	if err != nil {
		// the transformer was fitted on this very table, so this only
		// happens on a broken invariant; keep the table as it is
		c.logger.Error("Failed to standardize features", zap.Error(err))
		c.report.SetSummary(model.KeyFinalFeatures, c.table.ColumnCount())
		return
	}

	for _, s := range c.transformer.Scalers {
		c.record("standardize_features", s.Column, model.OpScale, "feature_scaling", "", "", c.table.RowCount())
	}
	for _, e := range c.transformer.Encoders {
		c.record("standardize_features", e.Column, model.OpOneHot, "categorical_encoding", "", "", len(e.Categories))
	}

	c.table = transformed
	c.report.SetSummary(model.KeyFinalFeatures, c.table.ColumnCount())

	excludedNames := make([]string, 0, len(excluded))
	for name := range excluded {
		excludedNames = append(excludedNames, name)
	}
	c.logger.Info("Standardized features",
		zap.Int("scaled", len(c.transformer.Scalers)),
		zap.Int("encoded", len(c.transformer.Encoders)),
		zap.Strings("excluded", excludedNames),
		zap.Int("final_features", c.table.ColumnCount()))
}
