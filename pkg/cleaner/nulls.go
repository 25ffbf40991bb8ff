// pkg/cleaner/nulls.go
package cleaner

import (
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// HandleNullValues drops mostly empty columns and imputes the rest.
// Numeric columns get their mean, text columns the placeholder and
// temporal columns follow the configured temporal imputation.
func (c *TableCleaner) HandleNullValues() {
	rows := c.table.RowCount()
	minPresent := c.opts.PresenceThreshold * float64(rows)

	kept := c.table.Columns[:0]
	var dropped []string
	for _, col := range c.table.Columns {
		if float64(col.Present()) < minPresent {
			dropped = append(dropped, col.Name)
			c.record("handle_null_values", col.Name, model.OpDropColumn, "below_presence_threshold", "", "", col.MissingCount())
			continue
		}
		kept = append(kept, col)
	}
	c.table.Columns = kept

	imputed := 0
	for _, col := range c.table.Columns {
		missing := col.MissingCount()
		if missing == 0 {
			continue
		}
		switch col.Kind {
		case model.KindNumeric:
			values := col.Floats()
			if len(values) == 0 {
				continue
			}
			mean := stat.Mean(values, nil)
			fillMissing(col, mean)
			imputed += missing
			c.record("handle_null_values", col.Name, model.OpMeanImputation, "missing_value", "", formatFloat(mean), missing)
		case model.KindText:
			fillMissing(col, c.opts.TextPlaceholder)
			imputed += missing
			c.record("handle_null_values", col.Name, model.OpTextImputation, "missing_value", "", c.opts.TextPlaceholder, missing)
		case model.KindTemporal:
			if c.opts.TemporalImputation != TemporalImputeMedian {
				continue
			}
			median, ok := medianTime(col)
			if !ok {
				continue
			}
			fillMissing(col, median)
			imputed += missing
			c.record("handle_null_values", col.Name, model.OpMedianImputation, "missing_value", "", median.Format(time.RFC3339), missing)
		}
	}

	c.report.SetSummary(model.KeyColumnsDropped, len(dropped))
	c.report.AddSummary(model.KeyNullsImputed, imputed)
	c.logger.Info("Handled null values",
		zap.Strings("dropped_columns", dropped),
		zap.Int("imputed", imputed))
}

func fillMissing(col *model.Column, value any) {
	for i, v := range col.Values {
		if model.IsMissing(v) {
			col.Values[i] = value
		}
	}
}

// medianTime returns the lower median of the present timestamps
func medianTime(col *model.Column) (time.Time, bool) {
	var times []time.Time
	for _, v := range col.Values {
		if t, ok := v.(time.Time); ok && !t.IsZero() {
			times = append(times, t)
		}
	}
	if len(times) == 0 {
		return time.Time{}, false
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times[(len(times)-1)/2], true
}
