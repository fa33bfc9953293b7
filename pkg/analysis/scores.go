// Package analysis derives plateview's scores, panel display data, chart
// datasets and insight text from loaded documents.
//
// Everything here is pure: no I/O, no mutation of the documents. Missing
// optional fields are matched explicitly and fall back to the documented
// defaults.
package analysis

import (
	"math"
	"strings"

	"github.com/vanderheijden86/plateview/pkg/model"
)

// Scoring constants. These are calibration values, not derived quantities;
// changing any of them changes every rendered score.
const (
	diversityScale       = 1000.0
	emergingCuisineBonus = 5

	opportunityBase        = 50
	opportunityPerEntry    = 10
	opportunityHighBonus   = 15
	smallMarketBonus       = 20
	smallMarketThreshold   = 50
	mediumMarketBonus      = 10
	mediumMarketThreshold  = 100
	highPotential          = "high"
	defaultSaturationLevel = "Medium"
	defaultCustomerLevel   = "Moderate"
)

var saturationLevels = map[string]string{
	"low":       "Low",
	"medium":    "Medium",
	"high":      "High",
	"very_high": "Very High",
}

var customerLevels = map[string]string{
	"low":       "Basic",
	"medium":    "Moderate",
	"high":      "Sophisticated",
	"very_high": "Expert",
}

// saturationIndex places each saturation label on the 0-100 radar axis.
var saturationIndex = map[string]float64{
	"Low":       25,
	"Medium":    50,
	"High":      75,
	"Very High": 100,
}

// EcosystemScores are the four derived region metrics plus the raw
// categorical fields they came from.
type EcosystemScores struct {
	Diversity     int    `json:"diversity"`
	Opportunity   int    `json:"opportunity"`
	Saturation    string `json:"saturation"`
	CustomerLevel string `json:"customer_level"`

	// Raw inputs, "" when absent.
	CompetitionIntensity string `json:"competition_intensity,omitempty"`
	OverallQuality       string `json:"overall_quality,omitempty"`
}

// ScoreRegion computes all four scores for a regional document.
func ScoreRegion(doc *model.RegionalDocument) EcosystemScores {
	if doc == nil {
		doc = &model.RegionalDocument{}
	}

	var intensity, quality *string
	if env := doc.CompetitiveEnvironment; env != nil {
		intensity = env.CompetitionIntensity
		quality = env.OverallQuality
	}

	return EcosystemScores{
		Diversity:            DiversityScore(doc.MarketOverview, doc.CuisineLandscape),
		Opportunity:          OpportunityScore(doc.MarketOpportunities, doc.MarketOverview),
		Saturation:           SaturationLevel(intensity),
		CustomerLevel:        CustomerLevel(quality),
		CompetitionIntensity: deref(intensity),
		OverallQuality:       deref(quality),
	}
}

// DiversityScore rewards cuisine variety relative to restaurant count:
//
//	clamp(round(min(100, diversity/max(total,1)*1000) + 5*len(emerging)), 0, 100)
//
// A missing diversity or total counts as zero.
func DiversityScore(overview *model.MarketOverview, landscape *model.CuisineLandscape) int {
	var diversity, total int
	if overview != nil {
		if overview.CuisineDiversity != nil {
			diversity = overview.CuisineDiversity.Int()
		}
		if overview.TotalRestaurants != nil {
			total = overview.TotalRestaurants.Int()
		}
	}

	var emerging int
	if landscape != nil {
		emerging = len(landscape.EmergingCuisines)
	}

	base := math.Min(100, float64(diversity)/float64(max(total, 1))*diversityScale)
	return clamp(int(math.Round(base+float64(emergingCuisineBonus*emerging))), 0, 100)
}

// SaturationLevel maps competition_intensity to a display label. Unknown or
// missing input is "Medium".
func SaturationLevel(intensity *string) string {
	if intensity == nil {
		return defaultSaturationLevel
	}
	if level, ok := saturationLevels[normalizeLevel(*intensity)]; ok {
		return level
	}
	return defaultSaturationLevel
}

// OpportunityScore starts at 50, adds 10 per opportunity and 15 more per
// high-potential one, then a small-market bonus of 20 below 50 restaurants
// or 10 below 100. A missing restaurant total earns no market bonus.
func OpportunityScore(opportunities []model.MarketOpportunity, overview *model.MarketOverview) int {
	score := opportunityBase
	for _, o := range opportunities {
		score += opportunityPerEntry
		if strings.EqualFold(strings.TrimSpace(o.Potential), highPotential) {
			score += opportunityHighBonus
		}
	}

	if overview != nil && overview.TotalRestaurants != nil {
		switch total := overview.TotalRestaurants.Int(); {
		case total < smallMarketThreshold:
			score += smallMarketBonus
		case total < mediumMarketThreshold:
			score += mediumMarketBonus
		}
	}
	return clamp(score, 0, 100)
}

// CustomerLevel maps overall_quality to a customer sophistication label.
// Unknown or missing input is "Moderate".
func CustomerLevel(quality *string) string {
	if quality == nil {
		return defaultCustomerLevel
	}
	if level, ok := customerLevels[normalizeLevel(*quality)]; ok {
		return level
	}
	return defaultCustomerLevel
}

// SaturationIndex converts a saturation label to its radar value.
func SaturationIndex(level string) float64 {
	if v, ok := saturationIndex[level]; ok {
		return v
	}
	return saturationIndex[defaultSaturationLevel]
}

// normalizeLevel folds "Very High", "very-high" and "VERY_HIGH" to
// "very_high".
func normalizeLevel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
