package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"booktrack/internal/catalog"
)

// WriteCatalog writes entries to path in the stored format.
func WriteCatalog(t testing.TB, path string, entries ...catalog.Entry) {
	t.Helper()

	data, err := catalog.Encode(catalog.NewCollection(entries...))
	if err != nil {
		t.Fatalf("encode catalog: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadCatalog decodes the catalog at path. A missing file yields nil.
func ReadCatalog(t testing.TB, path string) []catalog.Entry {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read %s: %v", path, err)
	}
	var entries []catalog.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return entries
}

// EndDate returns a pointer to date for building completed entries.
func EndDate(date string) *string {
	return &date
}
