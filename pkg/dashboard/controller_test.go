package dashboard

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/vanderheijden86/plateview/pkg/analysis"
	"github.com/vanderheijden86/plateview/pkg/chart"
	"github.com/vanderheijden86/plateview/pkg/loader"
	"github.com/vanderheijden86/plateview/pkg/model"
)

func intPtr(v int) *model.Count   { c := model.Count(v); return &c }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

// fakeFetcher serves fixture documents and records every call in order.
type fakeFetcher struct {
	index    *model.DataIndex
	indexErr error

	regions     map[string]*model.RegionalDocument
	cuisines    map[string]*model.CuisineDocument
	competitive map[string]*model.CompetitiveDocument

	calls []string
}

func (f *fakeFetcher) LoadIndex(ctx context.Context) (*model.DataIndex, error) {
	f.calls = append(f.calls, "index")
	if f.indexErr != nil {
		return nil, &loader.IndexLoadError{Err: f.indexErr}
	}
	return f.index, nil
}

func (f *fakeFetcher) Region(ctx context.Context, region string) (*model.RegionalDocument, error) {
	f.calls = append(f.calls, "region:"+region)
	if doc, ok := f.regions[region]; ok {
		return doc, nil
	}
	return nil, &loader.FetchError{Status: 404, URL: "http://data/regions/" + region + ".json"}
}

func (f *fakeFetcher) Cuisine(ctx context.Context, cuisine string) (*model.CuisineDocument, error) {
	f.calls = append(f.calls, "cuisine:"+cuisine)
	if doc, ok := f.cuisines[cuisine]; ok {
		return doc, nil
	}
	return nil, &loader.FetchError{Status: 404, URL: "http://data/cuisines/" + cuisine + "_analysis.json"}
}

func (f *fakeFetcher) Competitive(ctx context.Context, region, cuisine string) (*model.CompetitiveDocument, error) {
	f.calls = append(f.calls, "competitive:"+region+"/"+cuisine)
	if doc, ok := f.competitive[region+"/"+cuisine]; ok {
		return doc, nil
	}
	return nil, &loader.FetchError{Status: 404, URL: fmt.Sprintf("http://data/competitive/%s_%s.json", region, cuisine)}
}

func austinFixture() *fakeFetcher {
	return &fakeFetcher{
		index: &model.DataIndex{Coverage: &model.Coverage{
			Regions:  &model.RegionCoverage{TopRegions: []string{"Austin", "Denver"}},
			Cuisines: &model.CuisineCoverage{MainCuisines: []string{"Mexican", "Thai"}},
		}},
		regions: map[string]*model.RegionalDocument{
			"Austin": {
				Region:         "Austin",
				MarketOverview: &model.MarketOverview{TotalRestaurants: intPtr(40), CuisineDiversity: intPtr(8)},
			},
			"Denver": {
				Region:         "Denver",
				MarketOverview: &model.MarketOverview{TotalRestaurants: intPtr(500), CuisineDiversity: intPtr(25)},
			},
		},
		cuisines: map[string]*model.CuisineDocument{
			"Mexican": {
				Cuisine:        "Mexican",
				MarketOverview: &model.CuisineMarketOverview{
					TotalRestaurants: intPtr(5200),
					AverageRating:    floatPtr(4.1),
				},
				PopularDishes: &model.PopularDishes{Popularity: []model.DishPopularity{
					{Dish: "Tacos", Mentions: intPtr(120)},
					{Dish: "Mole", Mentions: intPtr(45)},
				}},
				RegionalVariations: map[string]model.RegionalStats{
					"Austin": {RestaurantCount: intPtr(14)},
				},
			},
			"Thai": {Cuisine: "Thai", NationalOverview: &model.NationalOverview{TotalRestaurants: intPtr(900)}},
		},
		competitive: map[string]*model.CompetitiveDocument{
			"Austin/Mexican": {
				KeyCompetitors: []model.Competitor{
					{Name: "Taco Joint", Rating: floatPtr(4.6), ReviewCount: intPtr(300)},
					{Name: "Casa", Rating: floatPtr(3.9), ReviewCount: intPtr(120)},
					{Name: "Cantina", Stars: floatPtr(3.4)},
				},
				MarketSaturation:             &model.MarketSaturation{Level: strPtr("high")},
				DifferentiationOpportunities: []model.DifferentiationOpportunity{
					{Opportunity: "Late-night menu", ImplementationDifficulty: "low"},
				},
				MenuOptimization: &model.MenuOptimization{
					StrategicRecommendations: []model.StrategicRecommendation{{Recommendation: "Add vegan options"}},
				},
			},
		},
	}
}

func newTestController(t *testing.T, f *fakeFetcher) (*Controller, *chart.Registry) {
	t.Helper()
	charts := chart.NewRegistry(chart.NewTextGrapher())
	c := New(f, charts, DefaultOptions())
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return c, charts
}

func liveSlots(r *chart.Registry) string {
	parts := make([]string, 0, 4)
	for _, s := range r.Live() {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ",")
}

// =============================================================================
// Initialization
// =============================================================================

func TestInitialize(t *testing.T) {
	c, charts := newTestController(t, austinFixture())

	v := c.Snapshot()
	if v.Status != StatusIdle || v.Message != msgSelectRegion {
		t.Fatalf("status = %v %q", v.Status, v.Message)
	}
	if strings.Join(v.Regions, ",") != "Austin,Denver" {
		t.Errorf("regions = %v", v.Regions)
	}
	if v.CuisineEnabled || v.Cuisines != nil {
		t.Error("cuisine selector must be disabled before a region loads")
	}
	if len(charts.Live()) != 0 {
		t.Errorf("no charts expected, got %v", charts.Live())
	}
}

func TestInitialize_FailureIsTerminal(t *testing.T) {
	f := austinFixture()
	f.indexErr = errors.New("connection refused")
	c := New(f, chart.NewRegistry(chart.NewTextGrapher()), DefaultOptions())

	if err := c.Initialize(context.Background()); loader.Kind(err) != loader.KindIndex {
		t.Fatalf("expected index error, got %v", err)
	}
	status, msg := c.Status()
	if status != StatusInitFailed || !strings.Contains(msg, "connection refused") {
		t.Fatalf("status = %v %q", status, msg)
	}

	if req := c.SelectRegion("Austin"); req != nil {
		t.Fatal("selection must be ignored after init failure")
	}
	if err := c.ChooseRegion(context.Background(), "Austin"); !errors.Is(err, ErrNotInteractive) {
		t.Errorf("ChooseRegion err = %v", err)
	}
	if status, _ := c.Status(); status != StatusInitFailed {
		t.Errorf("status changed to %v", status)
	}

	// A late index result cannot revive the dashboard.
	c.ApplyIndex(IndexResult{Index: f.index})
	if status, _ := c.Status(); status != StatusInitFailed {
		t.Errorf("status changed to %v", status)
	}
}

func TestSelectBeforeIndexIgnored(t *testing.T) {
	f := austinFixture()
	c := New(f, chart.NewRegistry(chart.NewTextGrapher()), DefaultOptions())

	if req := c.SelectRegion("Austin"); req != nil {
		t.Fatal("selection before the index loads must be ignored")
	}
	if c.Generation() != 0 {
		t.Errorf("generation bumped to %d", c.Generation())
	}
}

// =============================================================================
// Region selection
// =============================================================================

func TestSelectRegion_AustinScenario(t *testing.T) {
	f := austinFixture()
	c, charts := newTestController(t, f)

	req := c.SelectRegion("Austin")
	if req == nil {
		t.Fatal("expected a request")
	}
	if status, msg := c.Status(); status != StatusLoading || msg != "Loading Austin..." {
		t.Fatalf("status = %v %q", status, msg)
	}
	if !c.ApplyRegion(req.Run(context.Background())) {
		t.Fatal("fresh result was dropped")
	}

	v := c.Snapshot()
	if v.Status != StatusReady || v.Message != "Austin loaded. Select a cuisine for competitive analysis" {
		t.Fatalf("status = %v %q", v.Status, v.Message)
	}
	if v.Ecosystem.Mode != ModeContent {
		t.Fatalf("ecosystem mode = %s", v.Ecosystem.Mode)
	}
	want := analysis.EcosystemScores{Diversity: 100, Opportunity: 70, Saturation: "Medium", CustomerLevel: "Moderate"}
	if *v.Ecosystem.Scores != want {
		t.Errorf("scores = %+v, want %+v", *v.Ecosystem.Scores, want)
	}
	if !v.CuisineEnabled || strings.Join(v.Cuisines, ",") != "Mexican,Thai" {
		t.Errorf("cuisine selector = %v %v", v.CuisineEnabled, v.Cuisines)
	}
	if v.CuisineInfo.Mode != ModeEmpty || v.Competitive.Mode != ModeEmpty || v.Opportunities.Mode != ModeEmpty {
		t.Error("dependent panels must be empty after a region load")
	}
	if len(v.Insights) == 0 || v.Insights[0].Title != "Market Size" {
		t.Errorf("insights = %+v", v.Insights)
	}
	if got := liveSlots(charts); got != "ecosystem" {
		t.Errorf("live charts = %s", got)
	}
}

func TestSelectRegion_Failure(t *testing.T) {
	c, charts := newTestController(t, austinFixture())

	err := c.ChooseRegion(context.Background(), "Nowhere")
	var fe *loader.FetchError
	if !errors.As(err, &fe) || fe.Status != 404 {
		t.Fatalf("expected 404 fetch error, got %v", err)
	}

	v := c.Snapshot()
	if v.Status != StatusError || !strings.Contains(v.Message, "Failed to load Nowhere") {
		t.Fatalf("status = %v %q", v.Status, v.Message)
	}
	if v.Ecosystem.Mode != ModeEmpty || v.CuisineEnabled {
		t.Error("a failed region leaves panels empty and the cuisine selector disabled")
	}
	if len(charts.Live()) != 0 {
		t.Errorf("live charts = %v", charts.Live())
	}

	// Still interactive: a fresh selection retries.
	if err := c.ChooseRegion(context.Background(), "Austin"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if status, _ := c.Status(); status != StatusReady {
		t.Errorf("status = %v", status)
	}
}

func TestDeselectRoundTrip(t *testing.T) {
	f := austinFixture()
	c, charts := newTestController(t, f)
	initial := c.Snapshot()

	for _, region := range f.index.Regions() {
		if err := c.ChooseRegion(context.Background(), region); err != nil {
			t.Fatalf("%s: %v", region, err)
		}
		if region == "Austin" {
			if err := c.ChooseCuisine(context.Background(), "Mexican"); err != nil {
				t.Fatalf("cuisine: %v", err)
			}
		}
		if err := c.ChooseRegion(context.Background(), ""); err != nil {
			t.Fatalf("deselect: %v", err)
		}

		if got := c.Snapshot(); !reflect.DeepEqual(got, initial) {
			t.Errorf("%s: snapshot after deselect = %+v, want %+v", region, got, initial)
		}
		if len(charts.Live()) != 0 {
			t.Errorf("%s: charts survived deselect: %v", region, charts.Live())
		}
		if r, cu := c.Selection(); r != "" || cu != "" {
			t.Errorf("%s: selection = %q/%q", region, r, cu)
		}
	}
}

func TestSelectRegion_ResetsCuisine(t *testing.T) {
	c, _ := newTestController(t, austinFixture())
	if err := c.ChooseRegion(context.Background(), "Austin"); err != nil {
		t.Fatal(err)
	}
	if err := c.ChooseCuisine(context.Background(), "Mexican"); err != nil {
		t.Fatal(err)
	}

	req := c.SelectRegion("Denver")
	if _, cuisine := c.Selection(); cuisine != "" {
		t.Errorf("cuisine = %q after region change", cuisine)
	}
	v := c.Snapshot()
	if v.Ecosystem.Mode != ModeEmpty || v.CuisineInfo.Mode != ModeEmpty || v.Insights != nil {
		t.Error("selecting a region must clear every panel before the fetch resolves")
	}
	c.ApplyRegion(req.Run(context.Background()))
}

// =============================================================================
// Cuisine selection
// =============================================================================

func TestSelectCuisine_Success(t *testing.T) {
	f := austinFixture()
	c, charts := newTestController(t, f)
	if err := c.ChooseRegion(context.Background(), "Austin"); err != nil {
		t.Fatal(err)
	}
	f.calls = nil

	if err := c.ChooseCuisine(context.Background(), "Mexican"); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(f.calls, " "); got != "cuisine:Mexican competitive:Austin/Mexican" {
		t.Errorf("fetch order = %s", got)
	}

	v := c.Snapshot()
	if v.Status != StatusReady || v.Message != "Mexican in Austin loaded" {
		t.Fatalf("status = %v %q", v.Status, v.Message)
	}
	if v.CuisineInfo.Mode != ModeContent || v.CuisineInfo.Display.Source != analysis.CuisineSourceCompetitors {
		t.Errorf("cuisine panel = %+v", v.CuisineInfo)
	}
	if len(v.CuisineInfo.Display.Competitors) != 3 {
		t.Errorf("expected 3 competitors, got %d", len(v.CuisineInfo.Display.Competitors))
	}
	if v.Competitive.Mode != ModeContent || v.Competitive.Summary == nil || v.Competitive.Summary.Leader != "Taco Joint" {
		t.Errorf("competitive panel = %+v", v.Competitive)
	}
	if v.Opportunities.Mode != ModeContent || len(v.Opportunities.Recommendations) != 1 {
		t.Errorf("opportunities panel = %+v", v.Opportunities)
	}
	if v.Insights[0].Title != "Cuisine Market" {
		t.Errorf("expected comprehensive insights, got %+v", v.Insights)
	}
	if got := liveSlots(charts); got != "competitive,cuisine,ecosystem,opportunities" {
		t.Errorf("live charts = %s", got)
	}
}

func TestSelectCuisine_FallbackSource(t *testing.T) {
	f := austinFixture()
	f.competitive["Austin/Thai"] = &model.CompetitiveDocument{}
	c, charts := newTestController(t, f)
	if err := c.ChooseRegion(context.Background(), "Austin"); err != nil {
		t.Fatal(err)
	}
	if err := c.ChooseCuisine(context.Background(), "Thai"); err != nil {
		t.Fatal(err)
	}

	v := c.Snapshot()
	if v.CuisineInfo.Display == nil || v.CuisineInfo.Display.Source != analysis.CuisineSourceNational {
		t.Errorf("cuisine panel = %+v", v.CuisineInfo)
	}
	if v.Competitive.Mode != ModeEmpty || v.Opportunities.Mode != ModeEmpty {
		t.Error("empty competitive document leaves its panels empty")
	}
	if got := liveSlots(charts); got != "ecosystem" {
		t.Errorf("live charts = %s", got)
	}
	if !analysis.IsPlaceholder(v.Insights) {
		t.Errorf("insights = %+v", v.Insights)
	}
}

func TestSelectCuisine_Competitive404(t *testing.T) {
	f := austinFixture()
	delete(f.competitive, "Austin/Mexican")
	c, charts := newTestController(t, f)
	if err := c.ChooseRegion(context.Background(), "Austin"); err != nil {
		t.Fatal(err)
	}
	before := c.Snapshot().Ecosystem

	err := c.ChooseCuisine(context.Background(), "Mexican")
	if loader.Kind(err) != loader.KindFetch {
		t.Fatalf("expected fetch error, got %v", err)
	}

	v := c.Snapshot()
	if v.Status != StatusError || !strings.Contains(v.Message, "HTTP 404") {
		t.Fatalf("status = %v %q", v.Status, v.Message)
	}
	for name, p := range map[string]PanelState{
		"cuisine":       v.CuisineInfo.PanelState,
		"competitive":   v.Competitive.PanelState,
		"opportunities": v.Opportunities.PanelState,
	} {
		if p.Mode != ModeError || !strings.Contains(p.Error, "HTTP 404") {
			t.Errorf("%s panel = %+v", name, p)
		}
	}
	if !reflect.DeepEqual(v.Ecosystem, before) {
		t.Errorf("ecosystem changed: %+v -> %+v", before, v.Ecosystem)
	}
	if got := liveSlots(charts); got != "ecosystem" {
		t.Errorf("live charts = %s", got)
	}
	if v.Insights[0].Title != "Market Size" {
		t.Error("regional insights stay when the cuisine chain fails")
	}
}

func TestSelectCuisine_FailureAbortsChain(t *testing.T) {
	f := austinFixture()
	c, _ := newTestController(t, f)
	if err := c.ChooseRegion(context.Background(), "Austin"); err != nil {
		t.Fatal(err)
	}
	f.calls = nil

	if err := c.ChooseCuisine(context.Background(), "Korean"); err == nil {
		t.Fatal("expected an error")
	}
	if got := strings.Join(f.calls, " "); got != "cuisine:Korean" {
		t.Errorf("competitive fetch must not run after a cuisine failure: %s", got)
	}
}

func TestSelectCuisine_Empty(t *testing.T) {
	c, charts := newTestController(t, austinFixture())
	if err := c.ChooseRegion(context.Background(), "Austin"); err != nil {
		t.Fatal(err)
	}
	if err := c.ChooseCuisine(context.Background(), "Mexican"); err != nil {
		t.Fatal(err)
	}

	if req := c.SelectCuisine(""); req != nil {
		t.Fatal("empty cuisine must not start a fetch")
	}
	v := c.Snapshot()
	if v.Status != StatusReady || v.Message != msgSelectCuisine {
		t.Fatalf("status = %v %q", v.Status, v.Message)
	}
	if v.Ecosystem.Mode != ModeContent {
		t.Error("ecosystem must survive a cuisine deselect")
	}
	if v.CuisineInfo.Mode != ModeEmpty || v.Competitive.Mode != ModeEmpty || v.Opportunities.Mode != ModeEmpty {
		t.Error("dependent panels must be empty")
	}
	if got := liveSlots(charts); got != "ecosystem" {
		t.Errorf("live charts = %s", got)
	}
}

func TestSelectCuisine_WithoutRegion(t *testing.T) {
	c, _ := newTestController(t, austinFixture())
	if req := c.SelectCuisine("Mexican"); req != nil {
		t.Fatal("cuisine selection without a region must be ignored")
	}
	if err := c.ChooseCuisine(context.Background(), "Mexican"); !errors.Is(err, ErrCuisineDisabled) {
		t.Errorf("err = %v", err)
	}
}

// =============================================================================
// Generations
// =============================================================================

func TestStaleRegionResultDropped(t *testing.T) {
	c, charts := newTestController(t, austinFixture())
	ctx := context.Background()

	reqA := c.SelectRegion("Austin")
	reqB := c.SelectRegion("Denver")
	resA := reqA.Run(ctx)
	resB := reqB.Run(ctx)

	if !c.ApplyRegion(resB) {
		t.Fatal("latest result was dropped")
	}
	if c.ApplyRegion(resA) {
		t.Fatal("superseded result was applied")
	}

	v := c.Snapshot()
	if v.Region != "Denver" || v.Message != "Denver loaded. Select a cuisine for competitive analysis" {
		t.Errorf("region = %s %q", v.Region, v.Message)
	}
	if v.Ecosystem.Scores.Opportunity != 50 {
		t.Errorf("ecosystem shows the stale region: %+v", v.Ecosystem.Scores)
	}
	if got := liveSlots(charts); got != "ecosystem" {
		t.Errorf("live charts = %s", got)
	}
}

func TestStaleCuisineResultDropped(t *testing.T) {
	f := austinFixture()
	f.competitive["Austin/Thai"] = &model.CompetitiveDocument{}
	c, _ := newTestController(t, f)
	ctx := context.Background()
	if err := c.ChooseRegion(ctx, "Austin"); err != nil {
		t.Fatal(err)
	}

	reqMex := c.SelectCuisine("Mexican")
	resMex := reqMex.Run(ctx)
	reqThai := c.SelectCuisine("Thai")

	if c.ApplyCuisine(resMex) {
		t.Fatal("superseded cuisine result was applied")
	}
	if status, _ := c.Status(); status != StatusLoading {
		t.Errorf("status = %v", status)
	}
	if !c.ApplyCuisine(reqThai.Run(ctx)) {
		t.Fatal("latest cuisine result was dropped")
	}
}

func TestCuisineResultDroppedAfterDeselect(t *testing.T) {
	c, charts := newTestController(t, austinFixture())
	ctx := context.Background()
	if err := c.ChooseRegion(ctx, "Austin"); err != nil {
		t.Fatal(err)
	}

	req := c.SelectCuisine("Mexican")
	c.SelectRegion("")
	if c.ApplyCuisine(req.Run(ctx)) {
		t.Fatal("cuisine result applied after region deselect")
	}
	if len(charts.Live()) != 0 {
		t.Errorf("live charts = %v", charts.Live())
	}
}

func TestChartsNeverStack(t *testing.T) {
	c, charts := newTestController(t, austinFixture())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.ChooseRegion(ctx, "Austin"); err != nil {
			t.Fatal(err)
		}
		if err := c.ChooseCuisine(ctx, "Mexican"); err != nil {
			t.Fatal(err)
		}
		if err := c.ChooseCuisine(ctx, "Mexican"); err != nil {
			t.Fatal(err)
		}
	}
	if len(charts.Live()) != 4 {
		t.Errorf("live charts = %v", charts.Live())
	}
}
