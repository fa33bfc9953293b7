package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/plateview/pkg/analysis"
	"github.com/vanderheijden86/plateview/pkg/chart"
	"github.com/vanderheijden86/plateview/pkg/dashboard"
)

// Panel titles in grid order.
const (
	titleEcosystem     = "Market Ecosystem"
	titleCuisine       = "Cuisine"
	titleCompetitive   = "Competitive Landscape"
	titleOpportunities = "Opportunities"
)

const (
	emptyEcosystem     = "Select a region to see its market ecosystem."
	emptyCuisine       = "Select a cuisine to see its market."
	emptyCompetitive   = "No competitor data for this selection."
	emptyOpportunities = "No opportunities identified for this selection."
)

// panelBodies renders the four panel bodies for v at the given inner width.
// Charts are read back from the text grapher.
func panelBodies(t Theme, v dashboard.View, charts *chart.TextGrapher, width int) [4]string {
	chartView := func(slot chart.Slot) string {
		if charts == nil {
			return ""
		}
		return charts.View(slot, width)
	}
	return [4]string{
		ecosystemBody(t, v.Ecosystem, chartView(chart.SlotEcosystem)),
		cuisineBody(t, v.CuisineInfo, v.Region, chartView(chart.SlotCuisine)),
		competitiveBody(t, v.Competitive, chartView(chart.SlotCompetitive)),
		opportunitiesBody(t, v.Opportunities, chartView(chart.SlotOpportunities)),
	}
}

func modeBody(t Theme, st dashboard.PanelState, empty string) (string, bool) {
	switch st.Mode {
	case dashboard.ModeError:
		return t.ErrorText.Render("✗ " + st.Error), true
	case dashboard.ModeEmpty:
		return t.MutedText.Render(empty), true
	}
	return "", false
}

func joinSections(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

func ecosystemBody(t Theme, p dashboard.EcosystemPanel, chartView string) string {
	if body, ok := modeBody(t, p.PanelState, emptyEcosystem); ok {
		return body
	}
	s := p.Scores
	badges := []string{
		RenderBadge(t, "Diversity", fmt.Sprintf("%d", s.Diversity), t.Primary),
		RenderBadge(t, "Opportunity", fmt.Sprintf("%d", s.Opportunity), t.Success),
		RenderBadge(t, "Saturation", s.Saturation, t.SaturationColor(s.Saturation)),
		RenderBadge(t, "Customers", s.CustomerLevel, t.Info),
	}
	return joinSections(
		badges[0]+"  "+badges[1]+"\n"+badges[2]+"  "+badges[3],
		chartView,
	)
}

func cuisineBody(t Theme, p dashboard.CuisinePanel, region string, chartView string) string {
	if body, ok := modeBody(t, p.PanelState, emptyCuisine); ok {
		return body
	}

	var lines []string
	if m := p.Market; m != nil {
		lines = append(lines,
			RenderBadge(t, "Restaurants", formatCount(m.TotalRestaurants), t.Primary)+"  "+
				RenderBadge(t, "Avg", analysis.FormatRating(m.AverageRating), t.Success)+"  "+
				RenderBadge(t, "Share", formatShare(m.MarketShare), t.Info))
	}

	d := p.Display
	switch d.Source {
	case analysis.CuisineSourceCompetitors:
		lines = append(lines, t.MutedText.Render("Top competitors"))
		for i, c := range d.Competitors {
			score, ok := c.Score()
			rating := "N/A"
			if ok {
				rating = fmt.Sprintf("%.1f★", score)
			}
			lines = append(lines, fmt.Sprintf("%d. %s  %s", i+1, c.Name, rating))
		}
	case analysis.CuisineSourceRegional:
		r := d.Regional
		lines = append(lines,
			t.MutedText.Render("In "+region),
			fmt.Sprintf("Restaurants %s · rating %s · price %s · share %s",
				formatCount(r.RestaurantCount), analysis.FormatRating(r.AverageRating), orNA(r.AveragePrice), formatShare(r.MarketShare)))
		if len(r.TopRestaurants) > 0 {
			lines = append(lines, "Top: "+strings.Join(r.TopRestaurants, ", "))
		}
	case analysis.CuisineSourceNational:
		n := d.National
		lines = append(lines,
			t.MutedText.Render("Nationwide"),
			fmt.Sprintf("Restaurants %s · rating %s · regions %s",
				formatCount(n.TotalRestaurants), analysis.FormatRating(n.AverageRating), formatCount(n.RegionsCovered)))
		if len(n.TopRegions) > 0 {
			lines = append(lines, "Top regions: "+strings.Join(n.TopRegions, ", "))
		}
	}
	return joinSections(strings.Join(lines, "\n"), chartView)
}

func competitiveBody(t Theme, p dashboard.CompetitivePanel, chartView string) string {
	if body, ok := modeBody(t, p.PanelState, emptyCompetitive); ok {
		return body
	}

	var lines []string
	if sat := p.Saturation; sat != nil {
		level := orNA(sat.Level)
		line := RenderBadge(t, "Saturation", level, t.Warning)
		if sat.SaturationScore != nil {
			line += fmt.Sprintf("  (score %.1f)", *sat.SaturationScore)
		}
		lines = append(lines, line)
		if sat.Description != nil && *sat.Description != "" {
			lines = append(lines, t.MutedText.Render(*sat.Description))
		}
	}
	if s := p.Summary; s != nil {
		lines = append(lines, fmt.Sprintf("%d competitors, %d rated · mean %.2f · review-weighted %.2f",
			s.Count, s.Rated, s.MeanRating, s.ReviewWeight))
		if s.Leader != "" {
			lines = append(lines, RenderBadge(t, "Leader", s.Leader, t.Success))
		}
	}
	return joinSections(strings.Join(lines, "\n"), chartView)
}

func opportunitiesBody(t Theme, p dashboard.OpportunitiesPanel, chartView string) string {
	if body, ok := modeBody(t, p.PanelState, emptyOpportunities); ok {
		return body
	}

	var lines []string
	for _, o := range p.Opportunities {
		line := "• " + o.Opportunity
		if o.ImplementationDifficulty != "" {
			line += t.MutedText.Render(" [" + o.ImplementationDifficulty + "]")
		}
		lines = append(lines, line)
	}
	for _, r := range p.Recommendations {
		line := "→ " + r.Recommendation
		if r.Priority != nil {
			line += t.MutedText.Render(" (" + *r.Priority + ")")
		}
		lines = append(lines, line)
	}
	return joinSections(strings.Join(lines, "\n"), chartView)
}
