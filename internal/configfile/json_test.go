package configfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadJSONMissing(t *testing.T) {
	doc, err := ReadJSON(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("ReadJSON(missing) error = %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("ReadJSON(missing) = %v, want empty doc", doc)
	}
}

func TestReadJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON(empty) error = %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("ReadJSON(empty) = %v, want empty doc", doc)
	}
}

func TestReadJSONCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	raw := `"{not json`
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := ReadJSON(path)
	var cerr *CorruptError
	if !errors.As(err, &cerr) {
		t.Fatalf("ReadJSON(corrupt) error = %v, want *CorruptError", err)
	}
	if cerr.BackupPath == "" {
		t.Fatal("no backup path recorded")
	}
	if !strings.Contains(cerr.Error(), cerr.BackupPath) {
		t.Errorf("error message %q does not name backup %q", cerr.Error(), cerr.BackupPath)
	}
	if !strings.Contains(filepath.Base(cerr.BackupPath), ".corrupt-") {
		t.Errorf("backup name %q missing .corrupt- marker", cerr.BackupPath)
	}

	// Backup holds the original bytes; original untouched.
	backup, err := os.ReadFile(cerr.BackupPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != raw {
		t.Errorf("backup = %q, want %q", backup, raw)
	}
	orig, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(orig) != raw {
		t.Errorf("original = %q, want %q", orig, raw)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "cfg.json")
	want := Doc{"providers": map[string]interface{}{"custom": "kept"}}
	if err := WriteJSON(path, want); err != nil {
		t.Fatalf("WriteJSON error = %v", err)
	}
	got, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON error = %v", err)
	}
	providers, ok := got["providers"].(map[string]interface{})
	if !ok || providers["custom"] != "kept" {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestWriteJSONLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	if err := WriteJSON(path, Doc{"a": float64(1)}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "cfg.json" {
		t.Errorf("dir entries = %v, want only cfg.json", entries)
	}
}

func TestReadJSON5TolerantParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json5")
	raw := "{\n  // a comment\n  agents: { defaults: { model: \"x\" } },\n}\n"
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadJSON5(path)
	if err != nil {
		t.Fatalf("ReadJSON5 error = %v", err)
	}
	if _, ok := doc["agents"]; !ok {
		t.Errorf("ReadJSON5 = %v, want agents key", doc)
	}
}
