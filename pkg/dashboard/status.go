package dashboard

import "fmt"

// Status is the dashboard's overall state as shown on the status line.
type Status int

const (
	// StatusInitializing is the state until the data index resolves.
	StatusInitializing Status = iota
	// StatusInitFailed is terminal: the index could not be loaded.
	StatusInitFailed
	// StatusIdle waits for a region selection.
	StatusIdle
	// StatusLoading has a fetch chain in flight.
	StatusLoading
	// StatusReady shows the latest successful selection.
	StatusReady
	// StatusError shows the latest selection's failure.
	StatusError
)

var statusNames = [...]string{"initializing", "init_failed", "idle", "loading", "ready", "error"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Interactive reports whether selections are accepted.
func (s Status) Interactive() bool {
	return s != StatusInitializing && s != StatusInitFailed
}

// Status line messages.
const (
	msgInitializing   = "Loading data index..."
	msgSelectRegion   = "Select a region to begin"
	msgSelectCuisine  = "Select a cuisine for competitive analysis"
	msgLoadingRegion  = "Loading %s..."
	msgLoadingCuisine = "Loading %s in %s..."
	msgRegionLoaded   = "%s loaded. Select a cuisine for competitive analysis"
	msgCuisineLoaded  = "%s in %s loaded"
	msgIndexFailed    = "Failed to initialize: %v"
	msgRegionFailed   = "Failed to load %s: %v"
	msgCuisineFailed  = "Failed to load %s in %s: %v"
)
