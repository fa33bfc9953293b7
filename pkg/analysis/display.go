package analysis

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/plateview/pkg/chart"
	"github.com/vanderheijden86/plateview/pkg/model"
)

// DefaultTopCompetitors is how many competitors the cuisine panel lists.
const DefaultTopCompetitors = 5

// CuisineSource says which dataset the cuisine panel is built from.
type CuisineSource string

const (
	CuisineSourceNone        CuisineSource = "none"
	CuisineSourceCompetitors CuisineSource = "key_competitors"
	CuisineSourceRegional    CuisineSource = "regional_variations"
	CuisineSourceNational    CuisineSource = "national_overview"
)

// CuisineDisplay is the data behind the cuisine panel. Exactly one of the
// payload fields is set, matching Source.
type CuisineDisplay struct {
	Source      CuisineSource           `json:"source"`
	Competitors []model.Competitor      `json:"competitors,omitempty"`
	Regional    *model.RegionalStats    `json:"regional,omitempty"`
	National    *model.NationalOverview `json:"national,omitempty"`
}

// HasData reports whether the panel has anything to show.
func (d CuisineDisplay) HasData() bool {
	return d.Source != CuisineSourceNone
}

// SelectCuisineDisplay picks the cuisine panel's dataset in fixed priority:
// the top key competitors, then the region's entry in regional_variations,
// then national_overview.
func SelectCuisineDisplay(cuisine *model.CuisineDocument, comp *model.CompetitiveDocument, region string, topN int) CuisineDisplay {
	if topN <= 0 {
		topN = DefaultTopCompetitors
	}

	if comp != nil && len(comp.KeyCompetitors) > 0 {
		n := min(topN, len(comp.KeyCompetitors))
		return CuisineDisplay{Source: CuisineSourceCompetitors, Competitors: comp.KeyCompetitors[:n]}
	}
	if cuisine != nil {
		if stats, ok := cuisine.RegionalVariations[region]; ok {
			return CuisineDisplay{Source: CuisineSourceRegional, Regional: &stats}
		}
		if cuisine.NationalOverview != nil {
			return CuisineDisplay{Source: CuisineSourceNational, National: cuisine.NationalOverview}
		}
	}
	return CuisineDisplay{Source: CuisineSourceNone}
}

// HasCompetitiveData reports whether the competitive panel has content.
func HasCompetitiveData(comp *model.CompetitiveDocument) bool {
	return comp != nil && (len(comp.KeyCompetitors) > 0 || comp.MarketSaturation != nil)
}

// HasOpportunityData reports whether the opportunities panel has content.
func HasOpportunityData(comp *model.CompetitiveDocument) bool {
	if comp == nil {
		return false
	}
	if len(comp.DifferentiationOpportunities) > 0 {
		return true
	}
	return comp.MenuOptimization != nil && len(comp.MenuOptimization.StrategicRecommendations) > 0
}

// CompetitorSummary aggregates the rated key competitors.
type CompetitorSummary struct {
	Count        int     `json:"count"`
	Rated        int     `json:"rated"`
	MeanRating   float64 `json:"mean_rating"`
	ReviewWeight float64 `json:"review_weighted_rating"`
	TotalReviews int     `json:"total_reviews"`
	Leader       string  `json:"leader,omitempty"`
}

// SummarizeCompetitors returns rating statistics for competitors. ok is false
// when no competitor has a rating or stars value. When no rated competitor
// reports reviews the weighted mean equals the plain mean.
func SummarizeCompetitors(competitors []model.Competitor) (CompetitorSummary, bool) {
	sum := CompetitorSummary{Count: len(competitors)}

	var ratings, weights []float64
	var anyWeight bool
	best := -1.0
	for _, c := range competitors {
		score, ok := c.Score()
		if !ok {
			continue
		}
		ratings = append(ratings, score)

		var w float64
		if c.ReviewCount != nil && *c.ReviewCount > 0 {
			w = float64(*c.ReviewCount)
			sum.TotalReviews += c.ReviewCount.Int()
			anyWeight = true
		}
		weights = append(weights, w)

		if score > best {
			best = score
			sum.Leader = c.Name
		}
	}
	if len(ratings) == 0 {
		return sum, false
	}

	sum.Rated = len(ratings)
	sum.MeanRating = stat.Mean(ratings, nil)
	if anyWeight {
		sum.ReviewWeight = stat.Mean(ratings, weights)
	} else {
		sum.ReviewWeight = sum.MeanRating
	}
	return sum, true
}

// =============================================================================
// Chart datasets
// =============================================================================

const (
	colorDiversity   = "#4f46e5"
	colorRatingGood  = "#10b981"
	colorRatingFair  = "#f59e0b"
	colorRatingPoor  = "#ef4444"
	ratingScale      = 5.0
	ratingGoodCutoff = 4.0
	ratingFairCutoff = 3.0
)

// EcosystemDataset builds the four-axis ecosystem radar. sophistication is
// the configured Customer Sophistication axis value.
func EcosystemDataset(s EcosystemScores, sophistication int) chart.Dataset {
	return chart.Dataset{
		Kind:   chart.Radar,
		Title:  "Market Ecosystem",
		Labels: []string{"Cuisine Diversity", "Market Opportunity", "Market Saturation", "Customer Sophistication"},
		Values: []float64{
			float64(s.Diversity),
			float64(s.Opportunity),
			SaturationIndex(s.Saturation),
			float64(clamp(sophistication, 0, 100)),
		},
		Colors: []string{colorDiversity},
		Max:    100,
	}
}

// CuisineDataset charts the cuisine's most mentioned dishes. ok is false when
// the document lists no dish popularity.
func CuisineDataset(doc *model.CuisineDocument, limit int) (chart.Dataset, bool) {
	if doc == nil || doc.PopularDishes == nil {
		return chart.Dataset{}, false
	}

	ds := chart.Dataset{Kind: chart.Bar, Title: "Popular Dishes"}
	for _, d := range doc.PopularDishes.Popularity {
		var v float64
		switch {
		case d.Mentions != nil:
			v = float64(*d.Mentions)
		case d.Score != nil:
			v = *d.Score
		default:
			continue
		}
		if v < 0 || d.Dish == "" {
			continue
		}
		ds.Labels = append(ds.Labels, d.Dish)
		ds.Values = append(ds.Values, v)
		if limit > 0 && len(ds.Values) == limit {
			break
		}
	}
	return ds, len(ds.Values) > 0
}

// CompetitiveDataset charts the ratings of the top competitors on a 0-5
// scale, colored by rating band.
func CompetitiveDataset(comp *model.CompetitiveDocument, topN int) (chart.Dataset, bool) {
	if comp == nil {
		return chart.Dataset{}, false
	}
	if topN <= 0 {
		topN = DefaultTopCompetitors
	}

	ds := chart.Dataset{Kind: chart.Bar, Title: "Competitor Ratings", Max: ratingScale}
	for _, c := range comp.KeyCompetitors {
		score, ok := c.Score()
		if !ok || score < 0 {
			continue
		}
		ds.Labels = append(ds.Labels, c.Name)
		ds.Values = append(ds.Values, score)
		ds.Colors = append(ds.Colors, ratingColor(score))
		if len(ds.Values) == topN {
			break
		}
	}
	return ds, len(ds.Values) > 0
}

// OpportunitiesDataset charts differentiation opportunities by
// implementation difficulty.
func OpportunitiesDataset(comp *model.CompetitiveDocument) (chart.Dataset, bool) {
	if comp == nil || len(comp.DifferentiationOpportunities) == 0 {
		return chart.Dataset{}, false
	}

	counts := make(map[string]int)
	for _, o := range comp.DifferentiationOpportunities {
		counts[difficultyLabel(o.ImplementationDifficulty)]++
	}

	order := []string{"Low", "Medium", "High"}
	for label := range counts {
		if label != "Low" && label != "Medium" && label != "High" {
			order = append(order, label)
		}
	}
	sort.Strings(order[3:])

	colors := map[string]string{"Low": colorRatingGood, "Medium": colorRatingFair, "High": colorRatingPoor}
	ds := chart.Dataset{Kind: chart.Doughnut, Title: "Implementation Difficulty"}
	for _, label := range order {
		n, ok := counts[label]
		if !ok {
			continue
		}
		ds.Labels = append(ds.Labels, label)
		ds.Values = append(ds.Values, float64(n))
		ds.Colors = append(ds.Colors, colors[label])
	}
	return ds, true
}

func difficultyLabel(s string) string {
	switch normalizeLevel(s) {
	case "low", "easy":
		return "Low"
	case "medium", "moderate":
		return "Medium"
	case "high", "hard":
		return "High"
	case "":
		return "Unspecified"
	default:
		return strings.TrimSpace(s)
	}
}

func ratingColor(r float64) string {
	switch {
	case r >= ratingGoodCutoff:
		return colorRatingGood
	case r >= ratingFairCutoff:
		return colorRatingFair
	default:
		return colorRatingPoor
	}
}

// FormatRating renders an optional rating with one decimal or "N/A".
func FormatRating(r *float64) string {
	if r == nil {
		return na
	}
	return fmt.Sprintf("%.1f", *r)
}
