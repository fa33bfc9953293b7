package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/plateview/pkg/chart"
	"github.com/vanderheijden86/plateview/pkg/dashboard"
	"github.com/vanderheijden86/plateview/pkg/loader"
	"github.com/vanderheijden86/plateview/pkg/model"
)

func intPtr(v int) *model.Count   { c := model.Count(v); return &c }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

type stubFetcher struct {
	index       *model.DataIndex
	regions     map[string]*model.RegionalDocument
	cuisines    map[string]*model.CuisineDocument
	competitive map[string]*model.CompetitiveDocument
}

func (f *stubFetcher) LoadIndex(ctx context.Context) (*model.DataIndex, error) {
	return f.index, nil
}

func (f *stubFetcher) Region(ctx context.Context, region string) (*model.RegionalDocument, error) {
	if doc, ok := f.regions[region]; ok {
		return doc, nil
	}
	return nil, &loader.FetchError{Status: 404, URL: "regions/" + region + ".json"}
}

func (f *stubFetcher) Cuisine(ctx context.Context, cuisine string) (*model.CuisineDocument, error) {
	if doc, ok := f.cuisines[cuisine]; ok {
		return doc, nil
	}
	return nil, &loader.FetchError{Status: 404, URL: "cuisines/" + cuisine + "_analysis.json"}
}

func (f *stubFetcher) Competitive(ctx context.Context, region, cuisine string) (*model.CompetitiveDocument, error) {
	if doc, ok := f.competitive[region+"/"+cuisine]; ok {
		return doc, nil
	}
	return nil, &loader.FetchError{Status: 404, URL: "competitive/" + region + "_" + cuisine + ".json"}
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		index: &model.DataIndex{Coverage: &model.Coverage{
			Regions:  &model.RegionCoverage{TopRegions: []string{"Austin", "Denver"}},
			Cuisines: &model.CuisineCoverage{MainCuisines: []string{"Mexican", "Thai"}},
		}},
		regions: map[string]*model.RegionalDocument{
			"Austin": {
				Region:         "Austin",
				MarketOverview: &model.MarketOverview{TotalRestaurants: intPtr(40), CuisineDiversity: intPtr(8)},
			},
		},
		cuisines: map[string]*model.CuisineDocument{
			"Mexican": {
				Cuisine:        "Mexican",
				MarketOverview: &model.CuisineMarketOverview{TotalRestaurants: intPtr(5200), AverageRating: floatPtr(4.1)},
			},
			"Thai": {Cuisine: "Thai", NationalOverview: &model.NationalOverview{TotalRestaurants: intPtr(900)}},
		},
		competitive: map[string]*model.CompetitiveDocument{
			"Austin/Mexican": {
				KeyCompetitors: []model.Competitor{
					{Name: "Taco Joint", Rating: floatPtr(4.6), ReviewCount: intPtr(300)},
					{Name: "Casa", Rating: floatPtr(3.9), ReviewCount: intPtr(120)},
				},
				MarketSaturation:             &model.MarketSaturation{Level: strPtr("high")},
				DifferentiationOpportunities: []model.DifferentiationOpportunity{
					{Opportunity: "Late-night menu", ImplementationDifficulty: "low"},
				},
			},
		},
	}
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	charts := chart.NewTextGrapher()
	ctrl := dashboard.New(newStubFetcher(), chart.NewRegistry(charts), dashboard.DefaultOptions())
	return NewModel(context.Background(), ctrl, charts, opts)
}

// drive runs cmd and feeds every load result back into m until no
// fetches remain. Other messages (spinner ticks, clipboard) are dropped.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case indexLoadedMsg, regionLoadedMsg, cuisineLoadedMsg:
			updated, next := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, next)
		}
	}
	return m
}

// loaded returns a model with the index applied.
func loaded(t *testing.T, opts Options) Model {
	t.Helper()
	m := newTestModel(t, opts)
	return drive(t, m, loadIndexCmd(m.ctx, m.ctrl))
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// =============================================================================
// Loading and selection
// =============================================================================

func TestModelStartsInitializing(t *testing.T) {
	m := newTestModel(t, Options{})
	if status, _ := m.Controller().Status(); status != dashboard.StatusInitializing {
		t.Fatalf("status = %v", status)
	}
	if m.Init() == nil {
		t.Fatal("Init should return a command")
	}
}

func TestModelIndexPopulatesRegions(t *testing.T) {
	m := loaded(t, Options{})

	if got := len(m.regions.Items()); got != 2 {
		t.Fatalf("region items = %d, want 2", got)
	}
	if got := len(m.cuisines.Items()); got != 0 {
		t.Fatalf("cuisine items = %d before a region loads", got)
	}
	if status, msg := m.Controller().Status(); status != dashboard.StatusIdle || msg != "Select a region to begin" {
		t.Fatalf("status = %v %q", status, msg)
	}
}

func TestModelEnterSelectsRegion(t *testing.T) {
	m := loaded(t, Options{})

	m, cmd := press(t, m, keyEnter)
	if status, _ := m.Controller().Status(); status != dashboard.StatusLoading {
		t.Fatalf("status after enter = %v", status)
	}
	m = drive(t, m, cmd)

	if region, _ := m.Controller().Selection(); region != "Austin" {
		t.Fatalf("region = %q", region)
	}
	if status, _ := m.Controller().Status(); status != dashboard.StatusReady {
		t.Fatalf("status = %v", status)
	}
	if got := len(m.cuisines.Items()); got != 2 {
		t.Errorf("cuisine items = %d, want 2", got)
	}
	if !strings.Contains(m.insights.View(), "Market Size") {
		t.Errorf("insights pane missing regional insights:\n%s", m.insights.View())
	}
}

func TestModelCursorThenEnter(t *testing.T) {
	m := loaded(t, Options{})

	m, _ = press(t, m, keyDown)
	m, cmd := press(t, m, keyEnter)
	m = drive(t, m, cmd)

	// Denver has no document: the region fails but stays selected.
	region, _ := m.Controller().Selection()
	if region != "Denver" {
		t.Fatalf("region = %q", region)
	}
	if status, _ := m.Controller().Status(); status != dashboard.StatusError {
		t.Fatalf("status = %v", status)
	}
	if len(m.cuisines.Items()) != 0 {
		t.Error("cuisine selector should stay empty after a failed region")
	}
}

func TestModelPreselection(t *testing.T) {
	m := loaded(t, Options{Region: "Austin", Cuisine: "Mexican"})

	region, cuisine := m.Controller().Selection()
	if region != "Austin" || cuisine != "Mexican" {
		t.Fatalf("selection = %q/%q", region, cuisine)
	}
	v := m.Controller().Snapshot()
	if v.Status != dashboard.StatusReady || v.Competitive.Mode != dashboard.ModeContent {
		t.Fatalf("status = %v competitive = %s", v.Status, v.Competitive.Mode)
	}
	if m.pendingRegion != "" || m.pendingCuisine != "" {
		t.Error("pending selections should be consumed")
	}
}

func TestModelPreselectedCuisineDroppedAfterRegionFailure(t *testing.T) {
	m := loaded(t, Options{Region: "Denver", Cuisine: "Mexican"})
	if status, _ := m.Controller().Status(); status != dashboard.StatusError {
		t.Fatalf("status = %v", status)
	}
	if m.pendingCuisine != "" {
		t.Fatalf("pending cuisine = %q after failed region", m.pendingCuisine)
	}

	m = drive(t, m, m.selectRegion("Austin"))
	region, cuisine := m.Controller().Selection()
	if region != "Austin" || cuisine != "" {
		t.Fatalf("selection = %q/%q, want Austin with no cuisine", region, cuisine)
	}
}

func TestModelPreselectedCuisineDroppedOnOtherRegion(t *testing.T) {
	m := newTestModel(t, Options{Region: "Austin", Cuisine: "Mexican"})
	m.ctrl.ApplyIndex(m.ctrl.FetchIndex(m.ctx))
	m.regions.SetItems(choiceItems(m.ctrl.Index().Regions()))

	// The user picks a region before the preselection runs.
	m = drive(t, m, m.selectRegion("Denver"))
	if m.pendingRegion != "" || m.pendingCuisine != "" {
		t.Fatalf("pending = %q/%q", m.pendingRegion, m.pendingCuisine)
	}
	if _, cuisine := m.Controller().Selection(); cuisine != "" {
		t.Fatalf("cuisine = %q", cuisine)
	}
}

func TestModelEscClearsRegion(t *testing.T) {
	m := loaded(t, Options{Region: "Austin"})

	m, cmd := press(t, m, keyEsc)
	if cmd != nil {
		if _, ok := cmd().(regionLoadedMsg); ok {
			t.Fatal("deselect must not fetch")
		}
	}
	if region, _ := m.Controller().Selection(); region != "" {
		t.Fatalf("region = %q", region)
	}
	if len(m.cuisines.Items()) != 0 {
		t.Error("cuisine selector should be emptied")
	}
	if status, _ := m.Controller().Status(); status != dashboard.StatusIdle {
		t.Fatalf("status = %v", status)
	}
}

func TestModelEscInCuisinesKeepsRegion(t *testing.T) {
	m := loaded(t, Options{Region: "Austin", Cuisine: "Mexican"})

	m, _ = press(t, m, keyTab)
	if m.FocusState() != "cuisines" {
		t.Fatalf("focus = %s", m.FocusState())
	}
	m, _ = press(t, m, keyEsc)

	region, cuisine := m.Controller().Selection()
	if region != "Austin" || cuisine != "" {
		t.Fatalf("selection = %q/%q", region, cuisine)
	}
	if m.Controller().Snapshot().Competitive.Mode != dashboard.ModeEmpty {
		t.Error("competitive panel should be empty after clearing the cuisine")
	}
}

func TestModelCuisineFailureShowsErrorPanels(t *testing.T) {
	m := loaded(t, Options{Region: "Austin"})

	m, _ = press(t, m, keyTab)
	m, _ = press(t, m, keyDown)
	m, cmd := press(t, m, keyEnter)
	m = drive(t, m, cmd)

	v := m.Controller().Snapshot()
	if v.CuisineInfo.Mode != dashboard.ModeError || v.Competitive.Mode != dashboard.ModeError {
		t.Fatalf("modes = %s/%s", v.CuisineInfo.Mode, v.Competitive.Mode)
	}
	if v.Ecosystem.Mode != dashboard.ModeContent {
		t.Error("ecosystem panel should keep its content")
	}
	if !strings.Contains(m.View(), "✗") {
		t.Error("view should render the panel error marker")
	}
}

// =============================================================================
// Focus, keys and messages
// =============================================================================

func TestModelFocusCycle(t *testing.T) {
	m := newTestModel(t, Options{})

	want := []string{"cuisines", "insights", "regions"}
	for _, w := range want {
		m, _ = press(t, m, keyTab)
		if m.FocusState() != w {
			t.Fatalf("focus = %s, want %s", m.FocusState(), w)
		}
	}
	m, _ = press(t, m, keyShiftTab)
	if m.FocusState() != "insights" {
		t.Fatalf("shift+tab focus = %s", m.FocusState())
	}
}

func TestModelFocusLeavesCuisinesOnRegionClear(t *testing.T) {
	m := loaded(t, Options{Region: "Austin"})
	m, _ = press(t, m, keyTab)

	m.selectRegion("")
	if m.FocusState() != "regions" {
		t.Fatalf("focus = %s", m.FocusState())
	}
}

func TestModelHelpToggle(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = press(t, m, runeKey("?"))
	if !m.showHelp || !m.help.ShowAll {
		t.Fatal("help should be shown")
	}
	m, _ = press(t, m, runeKey("?"))
	if m.showHelp {
		t.Fatal("help should be hidden")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := press(t, m, runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestModelDataChangedHint(t *testing.T) {
	m := newTestModel(t, Options{})
	updated, cmd := m.Update(DataChangedMsg{})
	m = updated.(Model)
	if m.Hint() != hintDataChanged {
		t.Fatalf("hint = %q", m.Hint())
	}
	if cmd != nil {
		t.Error("no watcher, no re-arm")
	}
}

func TestModelClipboardHint(t *testing.T) {
	m := newTestModel(t, Options{})
	updated, _ := m.Update(clipboardMsg{})
	if got := updated.(Model).Hint(); got != hintCopied {
		t.Fatalf("hint = %q", got)
	}
}

func TestModelSelectionClearsHint(t *testing.T) {
	m := loaded(t, Options{})
	m.hint = hintDataChanged
	m, _ = press(t, m, keyEnter)
	if m.Hint() != "" {
		t.Fatalf("hint = %q", m.Hint())
	}
}

// =============================================================================
// Rendering
// =============================================================================

func TestModelViewLayouts(t *testing.T) {
	for _, size := range []tea.WindowSizeMsg{{Width: 160, Height: 50}, {Width: 80, Height: 30}} {
		m := loaded(t, Options{Region: "Austin", Cuisine: "Mexican"})
		updated, _ := m.Update(size)
		m = updated.(Model)

		out := m.View()
		for _, want := range []string{titleEcosystem, titleCompetitive, "plateview"} {
			if !strings.Contains(out, want) {
				t.Errorf("%dx%d view missing %q", size.Width, size.Height, want)
			}
		}
		if got := m.layout().panelCols; (size.Width >= WideViewThreshold) != (got == 2) {
			t.Errorf("%dx%d panel columns = %d", size.Width, size.Height, got)
		}
	}
}

func TestModelMarkdownInsights(t *testing.T) {
	m := loaded(t, Options{Region: "Austin", Markdown: true})
	if m.md == nil {
		t.Fatal("markdown renderer not created")
	}
	if strings.TrimSpace(m.insights.View()) == "" {
		t.Fatal("insights pane is empty")
	}
}

func TestWriteReport(t *testing.T) {
	m := loaded(t, Options{Region: "Austin", Cuisine: "Mexican"})

	var sb strings.Builder
	if err := WriteReport(&sb, m.Controller().Snapshot(), m.charts, 80); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"Mexican in Austin", titleOpportunities, "Late-night menu", "Cuisine Market", "Taco Joint"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	// Cuisine insights replace the regional ones.
	if strings.Contains(out, "Market Size") {
		t.Errorf("regional insight still present after cuisine load:\n%s", out)
	}
}

func TestWriteReportBeforeSelection(t *testing.T) {
	m := loaded(t, Options{})

	var sb strings.Builder
	if err := WriteReport(&sb, m.Controller().Snapshot(), nil, 0); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if !strings.Contains(sb.String(), emptyEcosystem) {
		t.Errorf("report should show empty panels:\n%s", sb.String())
	}
	if strings.Contains(sb.String(), "Insights") {
		t.Error("no insights section before a region loads")
	}
}
