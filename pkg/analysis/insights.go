package analysis

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/plateview/pkg/model"
)

const (
	na      = "N/A"
	unknown = "unknown"

	// landscapeListLimit caps cuisine names quoted in one insight.
	landscapeListLimit = 3
)

// Insight is one titled observation shown in the insights panel.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PlaceholderInsight stands in for an empty insight list.
var PlaceholderInsight = Insight{
	Title:       "No insights yet",
	Description: "Not enough data is available for this selection to generate insights.",
}

// RegionalInsights describes a region. Checks run in a fixed order: market
// overview, competitive environment, market opportunities, cuisine
// landscape. Each present section yields one insight.
func RegionalInsights(doc *model.RegionalDocument) []Insight {
	var out []Insight
	if doc == nil {
		return withPlaceholder(out)
	}

	if ov := doc.MarketOverview; ov != nil {
		out = append(out, Insight{
			Title: "Market Size",
			Description: fmt.Sprintf("%s restaurants with an average rating of %s across %s reviews.",
				formatInt(ov.TotalRestaurants), FormatRating(ov.AverageRating), formatInt(ov.TotalReviews)),
		})
	}

	if env := doc.CompetitiveEnvironment; env != nil {
		out = append(out, Insight{
			Title: "Competitive Environment",
			Description: fmt.Sprintf("Competition intensity is %s and overall quality is %s.",
				humanize(env.CompetitionIntensity), humanize(env.OverallQuality)),
		})
	}

	if opps := doc.MarketOpportunities; len(opps) > 0 {
		top := opps[0]
		desc := fmt.Sprintf("%s shows %s potential", orDefault(top.Cuisine, unknown), orDefault(top.Potential, unknown))
		if top.Reason != "" {
			desc += ": " + top.Reason
		}
		if len(opps) > 1 {
			desc += fmt.Sprintf(" (%d more identified)", len(opps)-1)
		}
		out = append(out, Insight{Title: "Market Opportunity", Description: desc + "."})
	}

	if land := doc.CuisineLandscape; land != nil {
		out = append(out, Insight{
			Title: "Cuisine Landscape",
			Description: fmt.Sprintf("Dominant: %s. Emerging: %s.",
				joinLimited(land.DominantCuisines), joinLimited(land.EmergingCuisines)),
		})
	}

	return withPlaceholder(out)
}

// ComprehensiveInsights describes a region x cuisine pair. Checks run in a
// fixed order: cuisine market overview, market saturation, menu regional
// context, top strategic recommendation.
func ComprehensiveInsights(cuisine *model.CuisineDocument, comp *model.CompetitiveDocument) []Insight {
	var out []Insight

	if cuisine != nil && cuisine.MarketOverview != nil {
		ov := cuisine.MarketOverview
		out = append(out, Insight{
			Title: "Cuisine Market",
			Description: fmt.Sprintf("%s restaurants nationally, average rating %s, market share %s, growth trend %s.",
				formatInt(ov.TotalRestaurants), FormatRating(ov.AverageRating), formatPercent(ov.MarketShare), humanize(ov.GrowthTrend)),
		})
	}

	if comp != nil && comp.MarketSaturation != nil {
		sat := comp.MarketSaturation
		desc := fmt.Sprintf("Saturation is %s (score %s).", humanize(sat.Level), formatFloat(sat.SaturationScore))
		if sat.Description != nil && *sat.Description != "" {
			desc += " " + *sat.Description
		}
		out = append(out, Insight{Title: "Market Saturation", Description: desc})
	}

	if comp != nil && comp.MenuOptimization != nil && comp.MenuOptimization.RegionalContext != nil {
		rc := comp.MenuOptimization.RegionalContext
		desc := fmt.Sprintf("Price point %s, dining style %s.", humanize(rc.PricePoint), humanize(rc.DiningStyle))
		if len(rc.LocalPreferences) > 0 {
			desc += " Locals favor " + joinLimited(rc.LocalPreferences) + "."
		}
		out = append(out, Insight{Title: "Regional Context", Description: desc})
	}

	if comp != nil && comp.MenuOptimization != nil && len(comp.MenuOptimization.StrategicRecommendations) > 0 {
		rec := comp.MenuOptimization.StrategicRecommendations[0]
		desc := orDefault(rec.Recommendation, na)
		if rec.Rationale != nil && *rec.Rationale != "" {
			desc += " (" + *rec.Rationale + ")"
		}
		if rec.Priority != nil && *rec.Priority != "" {
			desc += " [priority: " + humanize(rec.Priority) + "]"
		}
		out = append(out, Insight{Title: "Top Recommendation", Description: desc})
	}

	return withPlaceholder(out)
}

// IsPlaceholder reports whether insights is just the placeholder.
func IsPlaceholder(insights []Insight) bool {
	return len(insights) == 1 && insights[0] == PlaceholderInsight
}

func withPlaceholder(out []Insight) []Insight {
	if len(out) == 0 {
		return []Insight{PlaceholderInsight}
	}
	return out
}

func formatInt(v *model.Count) string {
	if v == nil {
		return na
	}
	return fmt.Sprintf("%d", *v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return na
	}
	return fmt.Sprintf("%.1f", *v)
}

// formatPercent renders a share given either as a fraction (0.12) or a
// percentage (12).
func formatPercent(v *float64) string {
	if v == nil {
		return na
	}
	p := *v
	if p <= 1 {
		p *= 100
	}
	return fmt.Sprintf("%.1f%%", p)
}

// humanize turns "very_high" into "very high"; nil or blank is "unknown".
func humanize(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return unknown
	}
	return strings.ReplaceAll(strings.TrimSpace(*s), "_", " ")
}

func joinLimited(items []string) string {
	if len(items) == 0 {
		return na
	}
	if len(items) > landscapeListLimit {
		return strings.Join(items[:landscapeListLimit], ", ") + fmt.Sprintf(" +%d", len(items)-landscapeListLimit)
	}
	return strings.Join(items, ", ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
