// pkg/converter/values.go
package converter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// NormalizeDriverValue converts a value scanned from a database driver
// into a plain Go value suitable for a table column
func (c *TypeConverter) NormalizeDriverValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return c.normalizeString(string(v))
	case string:
		return c.normalizeString(v)
	case bool:
		return cast.ToString(v)
	case time.Time, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		// arrays, objects and variants arrive as Go composites
		text, err := c.convertToJSON(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return text
	}
}

func (c *TypeConverter) normalizeString(s string) interface{} {
	if c.config.EmptyStringAsNull && strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// ConvertValueForPostgres converts a column value to a PostgreSQL compatible value
func (c *TypeConverter) ConvertValueForPostgres(value interface{}, kind model.ColumnKind) (interface{}, error) {
	// Handle NULL values
	if model.IsMissing(value) {
		return nil, nil
	}

	switch kind {
	case model.KindNumeric:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %T to numeric: %w", value, err)
		}
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("cannot store infinite value %v", f)
		}
		return f, nil
	case model.KindTemporal:
		t, ok := value.(time.Time)
		if !ok {
			return nil, fmt.Errorf("cannot convert %T to timestamp", value)
		}
		return t, nil
	default:
		return c.convertToText(value)
	}
}

// convertToText converts a value to text/string
func (c *TypeConverter) convertToText(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return c.convertToJSON(v)
		}
		return s, nil
	}
}
