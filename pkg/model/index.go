// Package model defines the documents plateview reads: the data index that
// lists selectable regions and cuisines, and the per-region, per-cuisine and
// per-pair analytics documents behind the dashboard panels.
//
// Every field that may be missing from a document is a pointer, a nil slice
// or a nil map. Callers match on presence explicitly instead of relying on
// zero values.
package model

import (
	"errors"
	"fmt"
)

// DataIndex is the top-level manifest. It is loaded once per session.
type DataIndex struct {
	Metadata map[string]any `json:"metadata,omitempty"`
	Coverage *Coverage      `json:"coverage,omitempty"`
}

// Coverage describes which regions and cuisines have documents.
type Coverage struct {
	Regions  *RegionCoverage  `json:"regions,omitempty"`
	Cuisines *CuisineCoverage `json:"cuisines,omitempty"`
}

// RegionCoverage lists region identifiers in display order.
type RegionCoverage struct {
	TopRegions   []string `json:"top_regions,omitempty"`
	TotalRegions *Count   `json:"total_regions,omitempty"`
}

// CuisineCoverage lists cuisine identifiers in display order.
type CuisineCoverage struct {
	MainCuisines  []string `json:"main_cuisines,omitempty"`
	TotalCuisines *Count   `json:"total_cuisines,omitempty"`
}

// Index validation errors.
var (
	ErrMissingCoverage = errors.New("data index has no coverage section")
	ErrNoRegions       = errors.New("data index lists no regions")
	ErrNoCuisines      = errors.New("data index lists no cuisines")
)

// Validate checks that the index can populate both selectors.
func (d *DataIndex) Validate() error {
	if d == nil || d.Coverage == nil {
		return ErrMissingCoverage
	}
	if d.Coverage.Regions == nil || len(d.Coverage.Regions.TopRegions) == 0 {
		return ErrNoRegions
	}
	if d.Coverage.Cuisines == nil || len(d.Coverage.Cuisines.MainCuisines) == 0 {
		return ErrNoCuisines
	}
	for i, r := range d.Coverage.Regions.TopRegions {
		if r == "" {
			return fmt.Errorf("region %d has an empty identifier", i)
		}
	}
	for i, c := range d.Coverage.Cuisines.MainCuisines {
		if c == "" {
			return fmt.Errorf("cuisine %d has an empty identifier", i)
		}
	}
	return nil
}

// Regions returns the selectable regions in index order.
func (d *DataIndex) Regions() []string {
	if d == nil || d.Coverage == nil || d.Coverage.Regions == nil {
		return nil
	}
	return d.Coverage.Regions.TopRegions
}

// Cuisines returns the selectable cuisines in index order.
func (d *DataIndex) Cuisines() []string {
	if d == nil || d.Coverage == nil || d.Coverage.Cuisines == nil {
		return nil
	}
	return d.Coverage.Cuisines.MainCuisines
}

// HasRegion reports whether id is listed in the index.
func (d *DataIndex) HasRegion(id string) bool {
	for _, r := range d.Regions() {
		if r == id {
			return true
		}
	}
	return false
}
