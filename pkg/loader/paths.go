package loader

import (
	"fmt"
	"strings"
)

// IndexPath is the data index location relative to the data root.
const IndexPath = "data_index.json"

// RegionPath returns the regional document path.
func RegionPath(region string) string {
	return "regions/" + region + ".json"
}

// CuisinePath returns the cuisine document path.
func CuisinePath(cuisine string) string {
	return "cuisines/" + cuisine + "_analysis.json"
}

// CompetitivePath returns the competitive document path for a pair.
func CompetitivePath(region, cuisine string) string {
	return "competitive/" + region + "_" + cuisine + ".json"
}

func checkIdentifier(kind, id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%s %q: %w", kind, id, ErrInvalidIdentifier)
	}
	return nil
}
