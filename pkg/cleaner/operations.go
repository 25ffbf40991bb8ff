// pkg/cleaner/operations.go
package cleaner

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// record appends an audit entry for an action that touched affected values
func (c *TableCleaner) record(stage, column, operation, reason, original, newValue string, affected int) {
	c.operations = append(c.operations, model.CleaningOperation{
		RunID:             c.runID,
		Stage:             stage,
		ColumnName:        column,
		OriginalValue:     original,
		NewValue:          newValue,
		AffectedRows:      affected,
		CleaningOperation: operation,
		CleaningReason:    reason,
		CleanedAt:         time.Now().UTC(),
	})
}

// ratio divides safely, returning 0 for an empty denominator
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// quantile returns the q-th quantile of sorted values using linear
// interpolation between closest ranks
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// sortedFloats returns the non-missing numeric values of col in ascending order
func sortedFloats(col *model.Column) []float64 {
	values := col.Floats()
	sort.Float64s(values)
	return values
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
