package analysis

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/plateview/pkg/model"
)

func intPtr(v int) *model.Count   { c := model.Count(v); return &c }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestDiversityScore(t *testing.T) {
	tests := []struct {
		name      string
		overview  *model.MarketOverview
		landscape *model.CuisineLandscape
		want      int
	}{
		{"nil inputs", nil, nil, 0},
		{"capped at 100", &model.MarketOverview{TotalRestaurants: intPtr(40), CuisineDiversity: intPtr(8)}, nil, 100},
		{"ratio", &model.MarketOverview{TotalRestaurants: intPtr(1000), CuisineDiversity: intPtr(25)}, nil, 25},
		{"emerging bonus", &model.MarketOverview{TotalRestaurants: intPtr(1000), CuisineDiversity: intPtr(25)},
			&model.CuisineLandscape{EmergingCuisines: []string{"Korean", "Peruvian"}}, 35},
		{"bonus clamped", &model.MarketOverview{TotalRestaurants: intPtr(100), CuisineDiversity: intPtr(10)},
			&model.CuisineLandscape{EmergingCuisines: []string{"a", "b", "c"}}, 100},
		{"zero restaurants", &model.MarketOverview{TotalRestaurants: intPtr(0), CuisineDiversity: intPtr(3)}, nil, 100},
		{"missing diversity", &model.MarketOverview{TotalRestaurants: intPtr(50)}, nil, 0},
		{"rounds half up", &model.MarketOverview{TotalRestaurants: intPtr(2000), CuisineDiversity: intPtr(25)}, nil, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DiversityScore(tt.overview, tt.landscape); got != tt.want {
				t.Errorf("DiversityScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDiversityScore_Bounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ov := &model.MarketOverview{}
		if rapid.Bool().Draw(t, "hasTotal") {
			ov.TotalRestaurants = intPtr(rapid.IntRange(-1000, 1_000_000).Draw(t, "total"))
		}
		if rapid.Bool().Draw(t, "hasDiversity") {
			ov.CuisineDiversity = intPtr(rapid.IntRange(-1000, 1_000_000).Draw(t, "diversity"))
		}
		land := &model.CuisineLandscape{
			EmergingCuisines: rapid.SliceOfN(rapid.String(), 0, 40).Draw(t, "emerging"),
		}

		got := DiversityScore(ov, land)
		if got < 0 || got > 100 {
			t.Fatalf("DiversityScore out of range: %d", got)
		}
	})
}

func TestOpportunityScore(t *testing.T) {
	high := model.MarketOpportunity{Cuisine: "Thai", Potential: "high"}
	low := model.MarketOpportunity{Cuisine: "Greek", Potential: "low"}

	tests := []struct {
		name  string
		opps  []model.MarketOpportunity
		total *model.Count
		want  int
	}{
		{"empty small market", nil, intPtr(30), 70},
		{"empty medium market", nil, intPtr(75), 60},
		{"empty large market", nil, intPtr(500), 50},
		{"missing total", nil, nil, 50},
		{"one low", []model.MarketOpportunity{low}, intPtr(500), 60},
		{"one high", []model.MarketOpportunity{high}, intPtr(500), 75},
		{"clamped", []model.MarketOpportunity{high, high, high}, intPtr(10), 100},
		{"boundary 50 is medium", nil, intPtr(50), 60},
		{"boundary 100 is large", nil, intPtr(100), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ov *model.MarketOverview
			if tt.total != nil {
				ov = &model.MarketOverview{TotalRestaurants: tt.total}
			}
			if got := OpportunityScore(tt.opps, ov); got != tt.want {
				t.Errorf("OpportunityScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOpportunityScore_Bounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		opps := make([]model.MarketOpportunity, n)
		for i := range opps {
			opps[i].Potential = rapid.SampledFrom([]string{"high", "medium", "low", ""}).Draw(t, "potential")
		}
		ov := &model.MarketOverview{TotalRestaurants: intPtr(rapid.Int().Draw(t, "total"))}

		got := OpportunityScore(opps, ov)
		if got < 0 || got > 100 {
			t.Fatalf("OpportunityScore out of range: %d", got)
		}
	})
}

func TestSaturationLevel(t *testing.T) {
	tests := []struct {
		in   *string
		want string
	}{
		{strPtr("low"), "Low"},
		{strPtr("medium"), "Medium"},
		{strPtr("high"), "High"},
		{strPtr("very_high"), "Very High"},
		{strPtr("Very High"), "Very High"},
		{strPtr("extreme"), "Medium"},
		{nil, "Medium"},
	}
	for _, tt := range tests {
		if got := SaturationLevel(tt.in); got != tt.want {
			t.Errorf("SaturationLevel(%v) = %q, want %q", deref(tt.in), got, tt.want)
		}
	}
}

func TestCustomerLevel(t *testing.T) {
	tests := []struct {
		in   *string
		want string
	}{
		{strPtr("low"), "Basic"},
		{strPtr("medium"), "Moderate"},
		{strPtr("high"), "Sophisticated"},
		{strPtr("very_high"), "Expert"},
		{strPtr(""), "Moderate"},
		{nil, "Moderate"},
	}
	for _, tt := range tests {
		if got := CustomerLevel(tt.in); got != tt.want {
			t.Errorf("CustomerLevel(%v) = %q, want %q", deref(tt.in), got, tt.want)
		}
	}
}

func TestScoreRegion_AustinScenario(t *testing.T) {
	doc := &model.RegionalDocument{
		MarketOverview: &model.MarketOverview{TotalRestaurants: intPtr(40), CuisineDiversity: intPtr(8)},
	}

	got := ScoreRegion(doc)
	want := EcosystemScores{Diversity: 100, Opportunity: 70, Saturation: "Medium", CustomerLevel: "Moderate"}
	if got != want {
		t.Errorf("ScoreRegion = %+v, want %+v", got, want)
	}
}

func TestScoreRegion_CompetitiveEnvironment(t *testing.T) {
	doc := &model.RegionalDocument{
		CompetitiveEnvironment: &model.CompetitiveEnvironment{
			CompetitionIntensity: strPtr("very_high"),
			OverallQuality:       strPtr("high"),
		},
	}
	got := ScoreRegion(doc)
	if got.Saturation != "Very High" || got.CustomerLevel != "Sophisticated" {
		t.Errorf("unexpected levels %+v", got)
	}
	if got.CompetitionIntensity != "very_high" || got.OverallQuality != "high" {
		t.Errorf("raw fields not carried: %+v", got)
	}
	if ScoreRegion(nil).Opportunity != 50 {
		t.Error("nil document should score the base opportunity")
	}
}

func TestSaturationIndex(t *testing.T) {
	if SaturationIndex("Very High") != 100 || SaturationIndex("Low") != 25 || SaturationIndex("bogus") != 50 {
		t.Error("unexpected saturation index mapping")
	}
}
