package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/plateview/pkg/dashboard"
	"github.com/vanderheijden86/plateview/pkg/watcher"
)

// indexLoadedMsg carries the data index load result.
type indexLoadedMsg struct {
	res dashboard.IndexResult
}

// regionLoadedMsg carries a region fetch result.
type regionLoadedMsg struct {
	res dashboard.RegionResult
}

// cuisineLoadedMsg carries a cuisine fetch chain result.
type cuisineLoadedMsg struct {
	res dashboard.CuisineResult
}

// DataChangedMsg is sent when documents change in a watched data directory.
type DataChangedMsg struct{}

// clipboardMsg reports the outcome of copying insights.
type clipboardMsg struct {
	err error
}

// The commands below run in their own goroutines. They only touch the
// fetcher through the request values; the controller itself is applied to
// in Update.

func loadIndexCmd(ctx context.Context, c *dashboard.Controller) tea.Cmd {
	return func() tea.Msg {
		return indexLoadedMsg{res: c.FetchIndex(ctx)}
	}
}

func loadRegionCmd(ctx context.Context, req *dashboard.RegionRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	return func() tea.Msg {
		return regionLoadedMsg{res: req.Run(ctx)}
	}
}

func loadCuisineCmd(ctx context.Context, req *dashboard.CuisineRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	return func() tea.Msg {
		return cuisineLoadedMsg{res: req.Run(ctx)}
	}
}

// WatchDataCmd waits for the next change from w.
func WatchDataCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changed()
		return DataChangedMsg{}
	}
}
