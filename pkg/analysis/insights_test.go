package analysis

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/plateview/pkg/model"
)

func titles(insights []Insight) []string {
	out := make([]string, len(insights))
	for i, in := range insights {
		out[i] = in.Title
	}
	return out
}

func TestRegionalInsights_Order(t *testing.T) {
	doc := &model.RegionalDocument{
		CuisineLandscape: &model.CuisineLandscape{
			DominantCuisines: []string{"Mexican", "American", "Italian", "Chinese"},
		},
		MarketOpportunities: []model.MarketOpportunity{
			{Cuisine: "Thai", Potential: "high", Reason: "few competitors"},
			{Cuisine: "Greek", Potential: "medium"},
		},
		CompetitiveEnvironment: &model.CompetitiveEnvironment{CompetitionIntensity: strPtr("very_high")},
		MarketOverview:         &model.MarketOverview{TotalRestaurants: intPtr(40)},
	}

	got := RegionalInsights(doc)
	want := []string{"Market Size", "Competitive Environment", "Market Opportunity", "Cuisine Landscape"}
	if strings.Join(titles(got), "|") != strings.Join(want, "|") {
		t.Fatalf("order = %v, want %v", titles(got), want)
	}

	if got[0].Description != "40 restaurants with an average rating of N/A across N/A reviews." {
		t.Errorf("market size = %q", got[0].Description)
	}
	if got[1].Description != "Competition intensity is very high and overall quality is unknown." {
		t.Errorf("competition = %q", got[1].Description)
	}
	if got[2].Description != "Thai shows high potential: few competitors (1 more identified)." {
		t.Errorf("opportunity = %q", got[2].Description)
	}
	if got[3].Description != "Dominant: Mexican, American, Italian +1. Emerging: N/A." {
		t.Errorf("landscape = %q", got[3].Description)
	}
}

func TestRegionalInsights_Partial(t *testing.T) {
	got := RegionalInsights(&model.RegionalDocument{
		CuisineLandscape: &model.CuisineLandscape{EmergingCuisines: []string{"Korean"}},
	})
	if len(got) != 1 || got[0].Title != "Cuisine Landscape" {
		t.Fatalf("unexpected insights %+v", got)
	}

	// An empty opportunity list is not an insight.
	got = RegionalInsights(&model.RegionalDocument{MarketOpportunities: []model.MarketOpportunity{}})
	if !IsPlaceholder(got) {
		t.Fatalf("expected placeholder, got %+v", got)
	}
}

func TestRegionalInsights_Placeholder(t *testing.T) {
	for _, doc := range []*model.RegionalDocument{nil, {}} {
		got := RegionalInsights(doc)
		if !IsPlaceholder(got) {
			t.Errorf("expected placeholder for %+v, got %+v", doc, got)
		}
	}
}

func TestComprehensiveInsights_Order(t *testing.T) {
	cuisine := &model.CuisineDocument{MarketOverview: &model.CuisineMarketOverview{
		TotalRestaurants: intPtr(5200),
		AverageRating:    floatPtr(4.12),
		MarketShare:      floatPtr(0.124),
		GrowthTrend:      strPtr("growing"),
	}}
	comp := &model.CompetitiveDocument{
		MenuOptimization: &model.MenuOptimization{
			StrategicRecommendations: []model.StrategicRecommendation{
				{Recommendation: "Add vegan options", Rationale: strPtr("rising demand"), Priority: strPtr("high")},
				{Recommendation: "Ignored"},
			},
			RegionalContext: &model.RegionalContext{PricePoint: strPtr("mid_range")},
		},
		MarketSaturation: &model.MarketSaturation{Level: strPtr("high"), SaturationScore: floatPtr(7.25)},
	}

	got := ComprehensiveInsights(cuisine, comp)
	want := []string{"Cuisine Market", "Market Saturation", "Regional Context", "Top Recommendation"}
	if strings.Join(titles(got), "|") != strings.Join(want, "|") {
		t.Fatalf("order = %v, want %v", titles(got), want)
	}

	if got[0].Description != "5200 restaurants nationally, average rating 4.1, market share 12.4%, growth trend growing." {
		t.Errorf("cuisine market = %q", got[0].Description)
	}
	if got[1].Description != "Saturation is high (score 7.2)." && got[1].Description != "Saturation is high (score 7.3)." {
		t.Errorf("saturation = %q", got[1].Description)
	}
	if got[2].Description != "Price point mid range, dining style unknown." {
		t.Errorf("context = %q", got[2].Description)
	}
	if got[3].Description != "Add vegan options (rising demand) [priority: high]" {
		t.Errorf("recommendation = %q", got[3].Description)
	}
}

func TestComprehensiveInsights_Placeholder(t *testing.T) {
	if !IsPlaceholder(ComprehensiveInsights(nil, nil)) {
		t.Error("expected placeholder for missing documents")
	}
	got := ComprehensiveInsights(&model.CuisineDocument{}, &model.CompetitiveDocument{
		MenuOptimization: &model.MenuOptimization{},
	})
	if !IsPlaceholder(got) {
		t.Errorf("expected placeholder, got %+v", got)
	}
}
