// ABOUTME: Tests for marks CSV writing
// ABOUTME: Checks file contents, overwrite semantics and export failures

package marks

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteCSVContents(t *testing.T) {
	r := NewRecorder(250)
	r.Record(0)
	r.Record(1500)
	r.Record(2000)

	path := filepath.Join(t.TempDir(), "nested", "marks.csv")

	n, err := Save(path, r)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if n != 3 {
		t.Errorf("Expected 3 marks written, got %d", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "timestamp_seconds\n0.000\n1.500\n2.000\n"
	if string(data) != want {
		t.Errorf("Unexpected CSV contents:\n%q\nwant:\n%q", data, want)
	}
}

func TestWriteCSVOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marks.csv")

	if err := os.WriteFile(path, []byte("old content that is longer\n1\n2\n3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRecorder(250)
	r.Record(12345)

	if _, err := Save(path, r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "timestamp_seconds\n12.345\n" {
		t.Errorf("Expected file to be replaced, got %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Errorf("Expected only the marks file to remain, found %d entries", len(entries))
	}
}

func TestWriteCSVEmptyLogWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marks.csv")

	if _, err := Save(path, NewRecorder(250)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "timestamp_seconds\n" {
		t.Errorf("Expected header only, got %q", data)
	}
}

func TestWriteCSVFailureLeavesRecorderIntact(t *testing.T) {
	dir := t.TempDir()

	// A regular file where the parent directory should be
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRecorder(250)
	r.Record(1000)
	r.Record(2000)

	_, err := Save(filepath.Join(blocker, "marks.csv"), r)
	if err == nil {
		t.Fatal("Expected export to fail")
	}

	if !IsExportError(err) {
		t.Errorf("Expected ExportError, got %T: %v", err, err)
	}

	if r.Len() != 2 {
		t.Errorf("Expected recorder to keep 2 marks, got %d", r.Len())
	}
}
