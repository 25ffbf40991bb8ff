// pkg/cleaner/structure.go
package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

var nameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9_ ]`)

// normalizeColumnName trims, drops punctuation, joins words with
// underscores and lowercases. Underscores survive so normalized names
// are fixed points.
func normalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = nameDisallowed.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

// RenameColumns normalizes column names and keeps them unique
func (c *TableCleaner) RenameColumns() {
	used := make(map[string]bool, len(c.table.Columns))
	normalized := make([]string, len(c.table.Columns))
	for i, col := range c.table.Columns {
		name := normalizeColumnName(col.Name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i)
		}
		normalized[i] = name
	}

	// names that are already unique keep priority over generated suffixes
	for i, name := range normalized {
		if used[name] {
			later := normalized[i+1:]
			name = model.UniqueName(name, func(candidate string) bool {
				return used[candidate] || contains(later, candidate)
			})
		}
		used[name] = true

		col := c.table.Columns[i]
		if col.Name != name {
			c.record("rename_columns", name, model.OpRename, "non_normalized_name", col.Name, name, 0)
			col.Name = name
		}
	}

	c.report.SetSummary(model.KeyColumnsRenamed, c.table.ColumnCount())
	c.logger.Info("Renamed columns", zap.Strings("columns", c.table.Names()))
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// RemoveDuplicates drops exact duplicate rows, keeping the first occurrence
func (c *TableCleaner) RemoveDuplicates() {
	rows := c.table.RowCount()
	keep := make([]bool, rows)
	seen := make(map[string]struct{}, rows)
	removed := 0

	for r := 0; r < rows; r++ {
		var key strings.Builder
		for _, col := range c.table.Columns {
			key.WriteString(model.ValueKey(col.Values[r]))
			key.WriteByte('\x1f')
		}
		k := key.String()
		if _, dup := seen[k]; dup {
			removed++
			continue
		}
		seen[k] = struct{}{}
		keep[r] = true
	}

	if removed > 0 {
		c.table.KeepRows(keep)
		c.record("remove_duplicates", "", model.OpDeduplicate, "exact_duplicate_row", "", "", removed)
	}

	c.report.SetDeleted(model.KeyDuplicates, removed)
	c.logger.Info("Removed duplicate rows", zap.Int("removed", removed))
}
