// pkg/cleaner/rules.go
package cleaner

import (
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// ValidateBusinessRules collapses rare categories of high-cardinality text
// columns into a single label. Identifier-like columns are left alone.
func (c *TableCleaner) ValidateBusinessRules() {
	rows := c.table.RowCount()
	collapsed := 0

	for _, col := range c.table.Columns {
		if col.Kind != model.KindText || rows == 0 {
			continue
		}

		counts := make(map[string]int)
		for _, v := range col.Values {
			if s, ok := v.(string); ok {
				counts[s]++
			}
		}

		if ratio(len(counts), rows) >= c.opts.IdentifierRatio {
			continue
		}
		if len(counts) <= c.opts.MaxCategories {
			continue
		}

		rare := make(map[string]bool)
		for category, n := range counts {
			if ratio(n, rows) < c.opts.RareCategoryFrequency {
				rare[category] = true
			}
		}
		if len(rare) == 0 {
			continue
		}

		relabeled := 0
		for i, v := range col.Values {
			if s, ok := v.(string); ok && rare[s] {
				col.Values[i] = c.opts.RareCategoryLabel
				relabeled++
			}
		}

		collapsed += len(rare)
		c.record("validate_business_rules", col.Name, model.OpCollapse, "rare_category", "", c.opts.RareCategoryLabel, relabeled)
		c.logger.Debug("Collapsed rare categories",
			zap.String("column", col.Name),
			zap.Int("categories", len(rare)),
			zap.Int("rows", relabeled))
	}

	c.report.AddSummary(model.KeyImputedByRules, collapsed)
	c.logger.Info("Validated business rules", zap.Int("categories_collapsed", collapsed))
}
