// pkg/loader/csv.go
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// ReadCSV reads a comma separated table with a header row
func ReadCSV(r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv input is empty")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv records: %w", err)
	}

	return buildTable(header, records)
}

// ReadCSVFile reads a CSV file from disk
func ReadCSVFile(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}
