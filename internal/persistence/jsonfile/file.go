// Package jsonfile implements the flat-file persistence layer. Each store
// owns a single JSON document that is read once at startup and rewritten
// wholesale after every mutation.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	tmpSuffix       = ".tmp"
	filePermissions = 0o644
)

// writeJSON serialises v pretty-printed and replaces path with the result.
// The document is written to a temporary sibling first and renamed into
// place so a crash mid-write cannot leave a truncated file behind.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp := path + tmpSuffix
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// readJSON loads path into v. Absence of the file is reported with
// os.ErrNotExist so callers can bootstrap an empty store; any other read or
// decode failure propagates.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
