// pkg/converter/array.go
package converter

import (
	"encoding/json"
	"fmt"
)

// convertToJSON renders arrays, objects and other composites as JSON text
func (c *TypeConverter) convertToJSON(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		return string(jsonBytes), nil
	}
}
