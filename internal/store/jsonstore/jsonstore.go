package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/clientdash/internal/model"
)

// JSON seed files for the mock store. Single file, human-readable, the same
// shape the HTTP API returns: an array of records.

// DefaultFileName is used when a directory is given instead of a file.
const DefaultFileName = "clients.json"

// Resolve turns a path that may name a directory into the seed file path.
func Resolve(path string) (string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		return filepath.Join(wd, DefaultFileName), nil
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return filepath.Join(path, DefaultFileName), nil
	}
	return path, nil
}

// Load reads records from path. A missing file yields an empty slice.
func Load(path string) ([]model.Record, error) {
	p, err := Resolve(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Record{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var records []model.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("json unmarshal %s: %w", p, err)
	}
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("%s: record %d has no id", p, i)
		}
		if !r.Status.Valid() {
			return nil, fmt.Errorf("%s: record %s has invalid status %q", p, r.ID, r.Status)
		}
	}
	return records, nil
}

// Save writes records to path atomically (temp file + rename).
func Save(path string, records []model.Record) error {
	p, err := Resolve(path)
	if err != nil {
		return err
	}
	if records == nil {
		records = []model.Record{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
