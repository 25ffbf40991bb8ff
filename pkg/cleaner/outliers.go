// pkg/cleaner/outliers.go
package cleaner

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// HandleOutliers clips numeric values into the IQR fences and counts
// how many values were outside them
func (c *TableCleaner) HandleOutliers() {
	total := 0
	for _, col := range c.table.Columns {
		if col.Kind != model.KindNumeric {
			continue
		}
		sorted := sortedFloats(col)
		if len(sorted) == 0 {
			continue
		}
		q1 := quantile(sorted, 0.25)
		q3 := quantile(sorted, 0.75)
		iqr := q3 - q1
		lower := q1 - c.opts.IQRMultiplier*iqr
		upper := q3 + c.opts.IQRMultiplier*iqr

		clipped := 0
		for i, v := range col.Values {
			f, ok := v.(float64)
			if !ok || model.IsMissing(f) {
				continue
			}
			switch {
			case f < lower:
				col.Values[i] = lower
				clipped++
			case f > upper:
				col.Values[i] = upper
				clipped++
			}
		}

		if clipped > 0 {
			c.record("handle_outliers", col.Name, model.OpClip, "outside_iqr_bounds", "",
				fmt.Sprintf("[%s, %s]", formatFloat(lower), formatFloat(upper)), clipped)
			c.logger.Debug("Clipped outliers",
				zap.String("column", col.Name),
				zap.Float64("lower", lower),
				zap.Float64("upper", upper),
				zap.Int("count", clipped))
		}
		total += clipped
	}

	c.report.SetSummary(model.KeyOutliersTreated, total)
	c.logger.Info("Handled outliers", zap.Int("treated", total))
}
