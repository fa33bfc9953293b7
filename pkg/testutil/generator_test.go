package testutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/plateview/pkg/model"
)

func TestGenerateDefault(t *testing.T) {
	ds := NewDefault().Generate()

	if got := len(ds.Index.Regions()); got != 4 {
		t.Errorf("regions = %d, want 4", got)
	}
	if got := len(ds.Index.Cuisines()); got != 4 {
		t.Errorf("cuisines = %d, want 4", got)
	}
	if err := ds.Index.Validate(); err != nil {
		t.Fatalf("generated index invalid: %v", err)
	}
	if got := len(ds.Competitive); got != 16 {
		t.Errorf("competitive docs = %d, want 16 (full coverage)", got)
	}
	for _, r := range ds.Index.Regions() {
		if ds.Regions[r] == nil {
			t.Errorf("region %s has no document", r)
		}
	}
}

func TestGenerateDeterminism(t *testing.T) {
	cfg := GeneratorConfig{Seed: 7, Regions: 3, Cuisines: 5, CompetitiveCoverage: 0.5}
	a := New(cfg).Generate()
	b := New(cfg).Generate()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same config produced different datasets")
	}
	AssertJSONEqual(t, a.Pairs(), b.Pairs())
}

func TestGenerateCoverage(t *testing.T) {
	none := New(GeneratorConfig{Regions: 2, Cuisines: 2, CompetitiveCoverage: -1}).Generate()
	if len(none.Competitive) != 0 {
		t.Errorf("negative coverage produced %d docs", len(none.Competitive))
	}

	partial := New(GeneratorConfig{Seed: 3, Regions: 6, Cuisines: 8, CompetitiveCoverage: 0.5}).Generate()
	if n := len(partial.Competitive); n == 0 || n == 48 {
		t.Errorf("partial coverage produced %d of 48 docs", n)
	}
}

func TestGenerateMissingRegions(t *testing.T) {
	ds := New(GeneratorConfig{Regions: 2, MissingRegions: []string{"Ghost"}}).Generate()
	if !ds.Index.HasRegion("Ghost") {
		t.Fatal("missing region should be listed in the index")
	}
	if ds.Regions["Ghost"] != nil {
		t.Fatal("missing region should have no document")
	}
}

func TestCuisineCap(t *testing.T) {
	ds := New(GeneratorConfig{Cuisines: 100}).Generate()
	if got := len(ds.Index.Cuisines()); got != len(CuisineNames) {
		t.Errorf("cuisines = %d, want %d", got, len(CuisineNames))
	}
}

func TestWriteDirLayout(t *testing.T) {
	root := Austin().TempDataDir(t)

	for _, rel := range []string{
		"data_index.json",
		"regions/Austin.json",
		"cuisines/Mexican_analysis.json",
		"cuisines/Thai_analysis.json",
		"competitive/Austin_Mexican.json",
	} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "regions", "Denver.json")); !os.IsNotExist(err) {
		t.Errorf("Denver should have no document, stat err = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "data_index.json"))
	if err != nil {
		t.Fatal(err)
	}
	var idx model.DataIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		t.Fatalf("index is not JSON: %v", err)
	}
	if err := idx.Validate(); err != nil {
		t.Fatalf("written index invalid: %v", err)
	}
}

func TestPairsSorted(t *testing.T) {
	ds := NewDefault().Generate()
	pairs := ds.Pairs()
	for i := 1; i < len(pairs); i++ {
		prev, cur := pairs[i-1], pairs[i]
		if prev.Region > cur.Region || (prev.Region == cur.Region && prev.Cuisine >= cur.Cuisine) {
			t.Fatalf("pairs not sorted at %d: %v then %v", i, prev, cur)
		}
	}
}
