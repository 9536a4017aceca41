// Package filestore implements loading and saving the flat-file JSON
// documents every other component reads and writes, plus the spreadsheet
// ingestion path for the evaluator's test-case input. JSON handling follows
// the same convention used throughout internal/autopoiesis and
// internal/usage — json.MarshalIndent with a two-space indent — extended
// with an html-unescaped encoder so non-ASCII project content (issue
// titles, Chinese test-case fields) round-trips literally instead of being
// \u-escaped.
package filestore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"issuelens/internal/dataset"
	"issuelens/internal/errs"
	"issuelens/internal/logging"
)

// LoadJSON reads a JSON document into v. A missing file is not an error:
// v is left at its zero value. A malformed file fails with a ParseError.
func LoadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.FilestoreDebug("LoadJSON: %s missing, returning zero value", path)
			return nil
		}
		return fmt.Errorf("filestore: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errs.Parse(path, err)
	}
	return nil
}

// SaveJSON writes v to path as pretty-printed, non-ASCII-preserved JSON,
// creating parent directories as needed.
func SaveJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("filestore: mkdir %s: %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("filestore: marshal %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("filestore: write %s: %w", path, err)
	}
	logging.FilestoreDebug("SaveJSON: wrote %s (%d bytes)", path, buf.Len())
	return nil
}

// LoadDataset loads the canonical issue dataset from path (absolute or
// project-relative, resolved by the caller via config.Paths.DataFile).
func LoadDataset(path string) (*dataset.Dataset, error) {
	var d dataset.Dataset
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.InputMissing(path, err)
		}
		return nil, fmt.Errorf("filestore: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errs.Parse(path, err)
	}
	logging.Filestore("LoadDataset: %s (%d stories, %d bugs)", path, len(d.Stories), len(d.Bugs))
	return &d, nil
}

// SaveDataset persists the dataset wholesale, replacing any prior content.
func SaveDataset(path string, d *dataset.Dataset) error {
	return SaveJSON(path, d)
}
