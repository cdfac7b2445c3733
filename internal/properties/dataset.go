// Package properties holds the custom-property lookup dataset: a CSV table
// mapping device serial numbers to property key/value pairs, loaded once per
// process and matched against devices by exact serial number.
package properties

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one record of the custom properties dataset. The JSON tags mirror
// the CSV column names so matched rows round-trip into the webhook response
// unchanged.
type Row struct {
	SerialNumber string `json:"SerialNumber"`
	PropertyName string `json:"Propertyname"`
	Value        string `json:"Value"`
}

// required CSV columns, matched case-insensitively
const (
	columnSerialNumber = "serialnumber"
	columnPropertyName = "propertyname"
	columnValue        = "value"
)

// ParseCSV reads the dataset from r. The first record must be a header row
// containing at least SerialNumber, Propertyname and Value columns; extra
// columns are ignored.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset is empty, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	serialIdx, propIdx, valueIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))) {
		case columnSerialNumber:
			serialIdx = i
		case columnPropertyName:
			propIdx = i
		case columnValue:
			valueIdx = i
		}
	}
	if serialIdx < 0 || propIdx < 0 || valueIdx < 0 {
		return nil, fmt.Errorf("header must contain SerialNumber, Propertyname and Value columns, got %v", header)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, Row{
			SerialNumber: record[serialIdx],
			PropertyName: record[propIdx],
			Value:        record[valueIdx],
		})
	}

	return rows, nil
}

// LoadFile reads and parses the dataset file at path.
func LoadFile(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	return ParseCSV(file)
}

// Match returns the subset of rows whose SerialNumber exactly equals serial,
// preserving dataset order. An empty serial never matches.
func Match(rows []Row, serial string) []Row {
	if serial == "" {
		return nil
	}

	var matched []Row
	for _, row := range rows {
		if row.SerialNumber == serial {
			matched = append(matched, row)
		}
	}
	return matched
}
