// pkg/cleaner/datatypes.go
package cleaner

import (
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

var nonNumericChars = regexp.MustCompile(`[^\d.\-]`)

// parseNumeric strips everything except digits, dots and minus signs and
// parses what remains
func parseNumeric(s string) (float64, bool) {
	cleaned := nonNumericChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ValidateDatatypes reclassifies text columns whose content is numeric or
// temporal. Entries that fail the committed parse become missing.
func (c *TableCleaner) ValidateDatatypes() {
	rows := c.table.RowCount()
	missingBefore := c.table.MissingCount()

	for _, col := range c.table.Columns {
		if col.Kind != model.KindText || rows == 0 {
			continue
		}

		numeric := make([]any, len(col.Values))
		newlyMissing := 0
		for i, v := range col.Values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if f, parsed := parseNumeric(s); parsed {
				numeric[i] = f
			} else {
				newlyMissing++
			}
		}

		if ratio(newlyMissing, rows) < c.opts.CoercionTolerance {
			col.Values = numeric
			col.Kind = model.KindNumeric
			c.record("validate_datatypes", col.Name, model.OpCoerceNumeric, "numeric_content", model.KindText.String(), model.KindNumeric.String(), newlyMissing)
			c.logger.Debug("Column coerced to numeric", zap.String("column", col.Name), zap.Int("coerced_to_null", newlyMissing))
			continue
		}

		temporal := make([]any, len(col.Values))
		parsed := 0
		for i, v := range col.Values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if t, ok := model.ParseTime(s); ok {
				temporal[i] = t
				parsed++
			}
		}

		if ratio(parsed, rows) > c.opts.TemporalParseThreshold {
			col.Values = temporal
			col.Kind = model.KindTemporal
			c.record("validate_datatypes", col.Name, model.OpCoerceTemporal, "temporal_content", model.KindText.String(), model.KindTemporal.String(), rows-parsed)
			c.logger.Debug("Column coerced to temporal", zap.String("column", col.Name), zap.Int("parsed", parsed))
		}
	}

	created := c.table.MissingCount() - missingBefore
	c.report.SetSummary(model.KeyValuesCoercedToNull, created)
	c.logger.Info("Validated datatypes", zap.Int("values_coerced_to_null", created))
}
