package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

// WriteDir writes every document of d under root in the layout the
// dashboard reads, and returns root.
func (d Dataset) WriteDir(t *testing.T, root string) string {
	t.Helper()

	if d.Index != nil {
		WriteJSON(t, filepath.Join(root, "data_index.json"), d.Index)
	}
	for name, doc := range d.Regions {
		WriteJSON(t, filepath.Join(root, "regions", name+".json"), doc)
	}
	for name, doc := range d.Cuisines {
		WriteJSON(t, filepath.Join(root, "cuisines", name+"_analysis.json"), doc)
	}
	for p, doc := range d.Competitive {
		WriteJSON(t, filepath.Join(root, "competitive", p.Region+"_"+p.Cuisine+".json"), doc)
	}
	return root
}

// TempDataDir writes d into a fresh temporary directory.
func (d Dataset) TempDataDir(t *testing.T) string {
	t.Helper()
	return d.WriteDir(t, t.TempDir())
}

// WriteJSON marshals v to path, creating parent directories.
func WriteJSON(t *testing.T, path string, v any) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
// Useful for comparing structs that may have different Go representations
// but equivalent JSON forms.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}
