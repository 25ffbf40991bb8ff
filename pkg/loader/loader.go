// pkg/loader/loader.go
package loader

import (
	"errors"
	"strconv"
	"strings"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// buildTable turns a header and string records into a table. Columns
// whose present cells all parse as numbers become numeric; everything
// else stays text for the pipeline to classify.
func buildTable(header []string, records [][]string) (*model.Table, error) {
	if len(header) == 0 {
		return nil, errors.New("header row is empty")
	}

	columns := make([]*model.Column, len(header))
	for i, name := range header {
		values := make([]any, len(records))
		for r, record := range records {
			if i < len(record) && !model.IsNullToken(record[i]) {
				values[r] = record[i]
			}
		}
		kind := sniffKind(values)
		if kind == model.KindNumeric {
			for r, v := range values {
				if s, ok := v.(string); ok {
					values[r], _ = strconv.ParseFloat(strings.TrimSpace(s), 64)
				}
			}
		}
		columns[i] = &model.Column{Name: name, Kind: kind, Values: values}
	}

	return model.NewTable(columns...)
}

func sniffKind(values []any) model.ColumnKind {
	present := 0
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		present++
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return model.KindText
		}
	}
	if present == 0 {
		return model.KindUnknown
	}
	return model.KindNumeric
}
