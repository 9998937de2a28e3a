// ABOUTME: CSV persistence for exported mark rows
// ABOUTME: Overwrites the target file through a temp file and rename

package marks

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ExportError reports a failed write of a marks file.
// The recorder that produced the rows is never modified by a failed export.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export marks to %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// IsExportError reports whether err is an ExportError
func IsExportError(err error) bool {
	var e *ExportError
	return errors.As(err, &e)
}

// EncodeCSV renders rows as CSV bytes
func EncodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteCSV writes rows to path, replacing any existing file.
// The parent directory is created if needed.
func WriteCSV(path string, rows [][]string) error {
	data, err := EncodeCSV(rows)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}

	if err := writeFileReplace(path, data); err != nil {
		return &ExportError{Path: path, Err: err}
	}

	return nil
}

// Save exports r and writes it to path, returning the number of marks written
func Save(path string, r *Recorder) (int, error) {
	if err := WriteCSV(path, r.Export()); err != nil {
		return 0, err
	}

	return r.Len(), nil
}

// writeFileReplace writes data next to path and renames it into place so a
// failed write never truncates the previous file
func writeFileReplace(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write marks: %w", err)
	}

	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}

	return nil
}
