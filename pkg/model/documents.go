package model

// RegionalDocument describes one regional restaurant market.
type RegionalDocument struct {
	Region                 string                  `json:"region,omitempty"`
	MarketOverview         *MarketOverview         `json:"market_overview,omitempty"`
	CompetitiveEnvironment *CompetitiveEnvironment `json:"competitive_environment,omitempty"`
	CuisineLandscape       *CuisineLandscape       `json:"cuisine_landscape,omitempty"`
	MarketOpportunities    []MarketOpportunity     `json:"market_opportunities,omitempty"`
}

// MarketOverview summarises a regional market.
type MarketOverview struct {
	TotalRestaurants  *Count         `json:"total_restaurants,omitempty"`
	CuisineDiversity  *Count         `json:"cuisine_diversity,omitempty"`
	AverageRating     *float64       `json:"average_rating,omitempty"`
	TotalReviews      *Count         `json:"total_reviews,omitempty"`
	PriceDistribution map[string]int `json:"price_distribution,omitempty"`
}

// CompetitiveEnvironment holds the categorical competition fields.
type CompetitiveEnvironment struct {
	CompetitionIntensity *string  `json:"competition_intensity,omitempty"`
	OverallQuality       *string  `json:"overall_quality,omitempty"`
	ChainPenetration     *float64 `json:"chain_penetration,omitempty"`
	HighlyRatedCount     *Count   `json:"highly_rated_count,omitempty"`
}

// CuisineLandscape lists dominant and emerging cuisines in a region.
type CuisineLandscape struct {
	DominantCuisines    []string `json:"dominant_cuisines,omitempty"`
	EmergingCuisines    []string `json:"emerging_cuisines,omitempty"`
	UnderservedCuisines []string `json:"underserved_cuisines,omitempty"`
}

// MarketOpportunity is one suggested cuisine opening in a region.
type MarketOpportunity struct {
	Cuisine   string `json:"cuisine"`
	Potential string `json:"potential"`
	Reason    string `json:"reason,omitempty"`
}

// CuisineDocument describes one cuisine across all regions.
type CuisineDocument struct {
	Cuisine            string                   `json:"cuisine,omitempty"`
	MarketOverview     *CuisineMarketOverview   `json:"market_overview,omitempty"`
	PopularDishes      *PopularDishes           `json:"popular_dishes,omitempty"`
	RegionalVariations map[string]RegionalStats `json:"regional_variations,omitempty"`
	NationalOverview   *NationalOverview        `json:"national_overview,omitempty"`
}

// CuisineMarketOverview is the national market picture for a cuisine.
type CuisineMarketOverview struct {
	TotalRestaurants *Count   `json:"total_restaurants,omitempty"`
	AverageRating    *float64 `json:"average_rating,omitempty"`
	MarketShare      *float64 `json:"market_share,omitempty"`
	GrowthTrend      *string  `json:"growth_trend,omitempty"`
}

// PopularDishes wraps the dish popularity ranking.
type PopularDishes struct {
	Popularity []DishPopularity `json:"popularity,omitempty"`
}

// DishPopularity is how often a dish is mentioned in reviews.
type DishPopularity struct {
	Dish     string   `json:"dish"`
	Mentions *Count   `json:"mentions,omitempty"`
	Score    *float64 `json:"score,omitempty"`
}

// RegionalStats is a cuisine's footprint in one region.
type RegionalStats struct {
	RestaurantCount *Count   `json:"restaurant_count,omitempty"`
	AverageRating   *float64 `json:"average_rating,omitempty"`
	AveragePrice    *string  `json:"average_price,omitempty"`
	MarketShare     *float64 `json:"market_share,omitempty"`
	TopRestaurants  []string `json:"top_restaurants,omitempty"`
}

// NationalOverview is the cuisine's nationwide footprint.
type NationalOverview struct {
	TotalRestaurants *Count   `json:"total_restaurants,omitempty"`
	AverageRating    *float64 `json:"average_rating,omitempty"`
	RegionsCovered   *Count   `json:"regions_covered,omitempty"`
	TopRegions       []string `json:"top_regions,omitempty"`
}

// CompetitiveDocument describes one cuisine inside one region.
type CompetitiveDocument struct {
	Metadata                     *CompetitiveMetadata         `json:"metadata,omitempty"`
	KeyCompetitors               []Competitor                 `json:"key_competitors,omitempty"`
	MarketSaturation             *MarketSaturation            `json:"market_saturation,omitempty"`
	MenuOptimization             *MenuOptimization            `json:"menu_optimization,omitempty"`
	DifferentiationOpportunities []DifferentiationOpportunity `json:"differentiation_opportunities,omitempty"`
}

// CompetitiveMetadata identifies the pair a competitive document covers.
type CompetitiveMetadata struct {
	Region          string  `json:"region,omitempty"`
	Cuisine         string  `json:"cuisine,omitempty"`
	DataQuality     *string `json:"data_quality,omitempty"`
	RestaurantCount *Count  `json:"restaurant_count,omitempty"`
}

// Competitor is one named restaurant in a competitive document.
type Competitor struct {
	Name           string   `json:"name"`
	Rating         *float64 `json:"rating,omitempty"`
	Stars          *float64 `json:"stars,omitempty"`
	ReviewCount    *Count   `json:"review_count,omitempty"`
	MarketPosition string   `json:"market_position,omitempty"`
	KeyStrengths   []string `json:"key_strengths,omitempty"`
	KeyWeaknesses  []string `json:"key_weaknesses,omitempty"`
}

// Score returns the competitor's rating, falling back to stars.
func (c Competitor) Score() (float64, bool) {
	switch {
	case c.Rating != nil:
		return *c.Rating, true
	case c.Stars != nil:
		return *c.Stars, true
	default:
		return 0, false
	}
}

// MarketSaturation describes how crowded a pair's market is.
type MarketSaturation struct {
	Level             *string  `json:"level,omitempty"`
	SaturationScore   *float64 `json:"saturation_score,omitempty"`
	RestaurantsPer10k *float64 `json:"restaurants_per_10k,omitempty"`
	Description       *string  `json:"description,omitempty"`
}

// MenuOptimization carries menu advice for a pair.
type MenuOptimization struct {
	RegionalContext          *RegionalContext          `json:"regional_context,omitempty"`
	StrategicRecommendations []StrategicRecommendation `json:"strategic_recommendations,omitempty"`
}

// RegionalContext is the local backdrop for menu decisions.
type RegionalContext struct {
	PricePoint       *string  `json:"price_point,omitempty"`
	DiningStyle      *string  `json:"dining_style,omitempty"`
	LocalPreferences []string `json:"local_preferences,omitempty"`
}

// StrategicRecommendation is one ranked menu recommendation.
type StrategicRecommendation struct {
	Recommendation string  `json:"recommendation"`
	Rationale      *string `json:"rationale,omitempty"`
	Priority       *string `json:"priority,omitempty"`
}

// DifferentiationOpportunity is a gap a new entrant could exploit.
type DifferentiationOpportunity struct {
	Opportunity              string `json:"opportunity"`
	MarketDemand             string `json:"market_demand,omitempty"`
	CompetitiveAdvantage     string `json:"competitive_advantage,omitempty"`
	ImplementationDifficulty string `json:"implementation_difficulty,omitempty"`
	RegionSpecific           bool   `json:"region_specific,omitempty"`
}
