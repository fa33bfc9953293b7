// Package testutil provides deterministic data-directory fixtures.
// Generated datasets use the same layout the dashboard reads, so tests can
// point a directory source at them.
package testutil

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/vanderheijden86/plateview/pkg/model"
)

// Pair identifies a competitive document.
type Pair struct {
	Region  string
	Cuisine string
}

// Dataset is a full set of documents.
type Dataset struct {
	Index       *model.DataIndex
	Regions     map[string]*model.RegionalDocument
	Cuisines    map[string]*model.CuisineDocument
	Competitive map[Pair]*model.CompetitiveDocument
}

// GeneratorConfig controls dataset generation.
type GeneratorConfig struct {
	Seed     int64 // Random seed for determinism (0 = use 42)
	Regions  int   // Number of regions (default 4)
	Cuisines int   // Number of cuisines, capped at len(CuisineNames) (default 4)
	// CompetitiveCoverage is the fraction of region/cuisine pairs that get a
	// competitive document. Negative means none; zero means all.
	CompetitiveCoverage float64
	// MissingRegions lists regions that appear in the index without a
	// document, to exercise fetch failures.
	MissingRegions []string
}

// CuisineNames are the identifiers generated cuisines draw from.
var CuisineNames = []string{"Mexican", "Thai", "Italian", "Japanese", "Indian", "Chinese", "French", "Korean"}

var saturationLevels = []string{"low", "medium", "high", "very_high"}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{Seed: 42, Regions: 4, Cuisines: 4}
}

// Generator creates datasets.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.Regions <= 0 {
		cfg.Regions = 4
	}
	if cfg.Cuisines <= 0 {
		cfg.Cuisines = 4
	}
	if cfg.Cuisines > len(CuisineNames) {
		cfg.Cuisines = len(CuisineNames)
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// RegionName returns the identifier of generated region i.
func RegionName(i int) string {
	return fmt.Sprintf("Region%02d", i+1)
}

// Generate builds a dataset. The same config always yields the same data.
func (g *Generator) Generate() Dataset {
	ds := Dataset{
		Regions:     make(map[string]*model.RegionalDocument),
		Cuisines:    make(map[string]*model.CuisineDocument),
		Competitive: make(map[Pair]*model.CompetitiveDocument),
	}

	regions := make([]string, 0, g.cfg.Regions+len(g.cfg.MissingRegions))
	for i := 0; i < g.cfg.Regions; i++ {
		regions = append(regions, RegionName(i))
	}
	cuisines := append([]string(nil), CuisineNames[:g.cfg.Cuisines]...)

	for _, r := range regions {
		ds.Regions[r] = g.region(r, cuisines)
	}
	regions = append(regions, g.cfg.MissingRegions...)

	for _, c := range cuisines {
		ds.Cuisines[c] = g.cuisine(c, regions[:g.cfg.Regions])
	}

	for _, r := range regions[:g.cfg.Regions] {
		for _, c := range cuisines {
			if g.cfg.CompetitiveCoverage < 0 {
				continue
			}
			if g.cfg.CompetitiveCoverage > 0 && g.rng.Float64() >= g.cfg.CompetitiveCoverage {
				continue
			}
			ds.Competitive[Pair{r, c}] = g.competitive(r, c)
		}
	}

	ds.Index = &model.DataIndex{
		Metadata: map[string]any{"generator_seed": g.cfg.Seed},
		Coverage: &model.Coverage{
			Regions:  &model.RegionCoverage{TopRegions: regions, TotalRegions: intPtr(len(regions))},
			Cuisines: &model.CuisineCoverage{MainCuisines: cuisines, TotalCuisines: intPtr(len(cuisines))},
		},
	}
	return ds
}

func (g *Generator) region(name string, cuisines []string) *model.RegionalDocument {
	total := 20 + g.rng.Intn(600)
	diversity := 3 + g.rng.Intn(30)
	shuffled := append([]string(nil), cuisines...)
	g.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	doc := &model.RegionalDocument{
		Region:         name,
		MarketOverview: &model.MarketOverview{
			TotalRestaurants: intPtr(total),
			CuisineDiversity: intPtr(diversity),
			AverageRating:    floatPtr(3 + g.rng.Float64()*2),
		},
		CuisineLandscape: &model.CuisineLandscape{
			DominantCuisines:    shuffled[:1],
			UnderservedCuisines: shuffled[len(shuffled)-1:],
		},
	}
	for _, c := range shuffled[1:] {
		potential := "medium"
		if g.rng.Intn(2) == 0 {
			potential = "High"
		}
		doc.MarketOpportunities = append(doc.MarketOpportunities, model.MarketOpportunity{
			Cuisine:   c,
			Potential: potential,
			Reason:    "gap in " + name,
		})
	}
	return doc
}

func (g *Generator) cuisine(name string, regions []string) *model.CuisineDocument {
	doc := &model.CuisineDocument{
		Cuisine:        name,
		MarketOverview: &model.CuisineMarketOverview{
			TotalRestaurants: intPtr(100 + g.rng.Intn(5000)),
			AverageRating:    floatPtr(3 + g.rng.Float64()*2),
			MarketShare:      floatPtr(g.rng.Float64() * 0.3),
		},
		PopularDishes:      &model.PopularDishes{},
		RegionalVariations: make(map[string]model.RegionalStats),
	}
	for i := 0; i < 3+g.rng.Intn(5); i++ {
		doc.PopularDishes.Popularity = append(doc.PopularDishes.Popularity, model.DishPopularity{
			Dish:     fmt.Sprintf("%s dish %d", name, i+1),
			Mentions: intPtr(1 + g.rng.Intn(200)),
		})
	}
	for _, r := range regions {
		doc.RegionalVariations[r] = model.RegionalStats{
			RestaurantCount: intPtr(1 + g.rng.Intn(50)),
			AverageRating:   floatPtr(3 + g.rng.Float64()*2),
		}
	}
	return doc
}

func (g *Generator) competitive(region, cuisine string) *model.CompetitiveDocument {
	doc := &model.CompetitiveDocument{
		Metadata:         &model.CompetitiveMetadata{Region: region, Cuisine: cuisine},
		MarketSaturation: &model.MarketSaturation{
			Level: strPtr(saturationLevels[g.rng.Intn(len(saturationLevels))]),
		},
	}
	for i := 0; i < 2+g.rng.Intn(6); i++ {
		doc.KeyCompetitors = append(doc.KeyCompetitors, model.Competitor{
			Name:        fmt.Sprintf("%s %s #%d", region, cuisine, i+1),
			Rating:      floatPtr(float64(25+g.rng.Intn(26)) / 10),
			ReviewCount: intPtr(g.rng.Intn(800)),
		})
	}
	doc.DifferentiationOpportunities = []model.DifferentiationOpportunity{
		{Opportunity: "Late-night " + cuisine, ImplementationDifficulty: "low"},
	}
	return doc
}

// Pairs returns the competitive pairs in region, cuisine order.
func (d Dataset) Pairs() []Pair {
	out := make([]Pair, 0, len(d.Competitive))
	for p := range d.Competitive {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return out[i].Cuisine < out[j].Cuisine
	})
	return out
}

// Austin returns the small hand-written dataset most scenario tests use:
// Austin has a document and Denver does not; Mexican has full coverage in
// Austin while Thai only has a national overview and no competitive data.
func Austin() Dataset {
	return Dataset{
		Index: &model.DataIndex{Coverage: &model.Coverage{
			Regions:  &model.RegionCoverage{TopRegions: []string{"Austin", "Denver"}},
			Cuisines: &model.CuisineCoverage{MainCuisines: []string{"Mexican", "Thai"}},
		}},
		Regions: map[string]*model.RegionalDocument{
			"Austin": {
				Region:           "Austin",
				MarketOverview:   &model.MarketOverview{TotalRestaurants: intPtr(40), CuisineDiversity: intPtr(8)},
				CuisineLandscape: &model.CuisineLandscape{UnderservedCuisines: []string{"Thai"}},
			},
		},
		Cuisines: map[string]*model.CuisineDocument{
			"Mexican": {
				Cuisine:        "Mexican",
				MarketOverview: &model.CuisineMarketOverview{TotalRestaurants: intPtr(5200), AverageRating: floatPtr(4.1)},
				PopularDishes:  &model.PopularDishes{Popularity: []model.DishPopularity{
					{Dish: "Tacos", Mentions: intPtr(120)},
					{Dish: "Mole", Mentions: intPtr(45)},
				}},
			},
			"Thai": {Cuisine: "Thai", NationalOverview: &model.NationalOverview{TotalRestaurants: intPtr(900)}},
		},
		Competitive: map[Pair]*model.CompetitiveDocument{
			{"Austin", "Mexican"}: {
				KeyCompetitors: []model.Competitor{
					{Name: "Taco Joint", Rating: floatPtr(4.6), ReviewCount: intPtr(300)},
					{Name: "Casa", Rating: floatPtr(3.9)},
				},
				MarketSaturation:             &model.MarketSaturation{Level: strPtr("high")},
				DifferentiationOpportunities: []model.DifferentiationOpportunity{
					{Opportunity: "Late-night menu", ImplementationDifficulty: "low"},
				},
			},
		},
	}
}

func intPtr(v int) *model.Count   { c := model.Count(v); return &c }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
