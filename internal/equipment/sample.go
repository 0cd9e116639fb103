package equipment

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//go:embed sample.json
var sampleJSON []byte

// SampleDataset returns the built-in fixture of site equipment.
func SampleDataset() (*Dataset, error) {
	ds, err := DecodeDataset(bytes.NewReader(sampleJSON))
	if err != nil {
		return nil, fmt.Errorf("load built-in dataset: %w", err)
	}
	return ds, nil
}

// LoadDatasetFile reads a JSON array of records from path.
func LoadDatasetFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = file.Close() }()

	ds, err := DecodeDataset(file)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return ds, nil
}

// DecodeDataset decodes and validates a JSON array of records.
func DecodeDataset(r io.Reader) (*Dataset, error) {
	var records []Record
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return NewDataset(records)
}
