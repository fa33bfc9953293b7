package version

import (
	"strings"
	"testing"
)

func TestStringStartsWithVersion(t *testing.T) {
	if !strings.HasPrefix(String(), Version) {
		t.Fatalf("String() = %q, want prefix %q", String(), Version)
	}
}
