// pkg/converter/mapping.go
package converter

import (
	"strings"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// databaseKinds maps base type names reported by Postgres and Snowflake
// drivers to column kinds
var databaseKinds = map[string]model.ColumnKind{
	// numeric
	"NUMBER":           model.KindNumeric,
	"NUMERIC":          model.KindNumeric,
	"DECIMAL":          model.KindNumeric,
	"FIXED":            model.KindNumeric,
	"INT":              model.KindNumeric,
	"INT2":             model.KindNumeric,
	"INT4":             model.KindNumeric,
	"INT8":             model.KindNumeric,
	"INTEGER":          model.KindNumeric,
	"SMALLINT":         model.KindNumeric,
	"BIGINT":           model.KindNumeric,
	"FLOAT":            model.KindNumeric,
	"FLOAT4":           model.KindNumeric,
	"FLOAT8":           model.KindNumeric,
	"REAL":             model.KindNumeric,
	"DOUBLE":           model.KindNumeric,
	"DOUBLE PRECISION": model.KindNumeric,
	"MONEY":            model.KindNumeric,

	// temporal
	"DATE":          model.KindTemporal,
	"DATETIME":      model.KindTemporal,
	"TIMESTAMP":     model.KindTemporal,
	"TIMESTAMPTZ":   model.KindTemporal,
	"TIMESTAMP_NTZ": model.KindTemporal,
	"TIMESTAMP_TZ":  model.KindTemporal,
	"TIMESTAMP_LTZ": model.KindTemporal,

	// text
	"TEXT":      model.KindText,
	"VARCHAR":   model.KindText,
	"CHAR":      model.KindText,
	"BPCHAR":    model.KindText,
	"STRING":    model.KindText,
	"UUID":      model.KindText,
	"BOOL":      model.KindText,
	"BOOLEAN":   model.KindText,
	"JSON":      model.KindText,
	"JSONB":     model.KindText,
	"VARIANT":   model.KindText,
	"OBJECT":    model.KindText,
	"ARRAY":     model.KindText,
	"TIME":      model.KindText,
	"TIMETZ":    model.KindText,
	"INTERVAL":  model.KindText,
	"CHARACTER": model.KindText,
}

// getBaseType extracts the base type from a complex type definition
func getBaseType(fullType string) string {
	parts := strings.Split(fullType, "(")
	base := strings.TrimSpace(parts[0])
	switch {
	case strings.HasPrefix(base, "CHARACTER VARYING"):
		return "VARCHAR"
	case strings.HasPrefix(base, "TIMESTAMP WITH"), strings.HasPrefix(base, "TIMESTAMP WITHOUT"):
		return "TIMESTAMP"
	case strings.HasPrefix(base, "_"):
		// Postgres array types are reported with a leading underscore
		return "ARRAY"
	}
	return base
}
