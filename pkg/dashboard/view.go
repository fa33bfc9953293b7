package dashboard

import (
	"github.com/vanderheijden86/plateview/pkg/analysis"
	"github.com/vanderheijden86/plateview/pkg/model"
)

// Mode is a panel's display mode.
type Mode string

const (
	ModeEmpty   Mode = "empty"
	ModeContent Mode = "content"
	ModeError   Mode = "error"
)

// PanelState is the part every panel shares.
type PanelState struct {
	Mode  Mode   `json:"mode"`
	Error string `json:"error,omitempty"`
}

// EcosystemPanel shows the region's derived scores.
type EcosystemPanel struct {
	PanelState
	Scores         *analysis.EcosystemScores `json:"scores,omitempty"`
	Sophistication int                       `json:"customer_sophistication,omitempty"`
}

// CuisinePanel shows the cuisine's dataset chosen by priority.
type CuisinePanel struct {
	PanelState
	Display *analysis.CuisineDisplay     `json:"display,omitempty"`
	Market  *model.CuisineMarketOverview `json:"market_overview,omitempty"`
}

// CompetitivePanel shows key competitors and market saturation.
type CompetitivePanel struct {
	PanelState
	Competitors []model.Competitor          `json:"competitors,omitempty"`
	Summary     *analysis.CompetitorSummary `json:"summary,omitempty"`
	Saturation  *model.MarketSaturation     `json:"market_saturation,omitempty"`
}

// OpportunitiesPanel shows differentiation opportunities and strategic
// recommendations.
type OpportunitiesPanel struct {
	PanelState
	Opportunities   []model.DifferentiationOpportunity `json:"differentiation_opportunities,omitempty"`
	Recommendations []model.StrategicRecommendation    `json:"strategic_recommendations,omitempty"`
}

// View is an immutable rendering of the controller state.
type View struct {
	Status  Status `json:"status"`
	Message string `json:"message"`

	Region   string   `json:"region,omitempty"`
	Cuisine  string   `json:"cuisine,omitempty"`
	Regions  []string `json:"regions,omitempty"`
	Cuisines []string `json:"cuisines,omitempty"`

	// CuisineEnabled is false while the cuisine selector shows its placeholder.
	CuisineEnabled bool `json:"cuisine_enabled"`

	Ecosystem     EcosystemPanel     `json:"ecosystem"`
	CuisineInfo   CuisinePanel       `json:"cuisine_panel"`
	Competitive   CompetitivePanel   `json:"competitive"`
	Opportunities OpportunitiesPanel `json:"opportunities"`

	// Insights is nil until a region loads.
	Insights []analysis.Insight `json:"insights,omitempty"`
}

// Snapshot recomputes every panel from the latest documents. Panel modes are
// never stored; they are derived here on each call.
func (c *Controller) Snapshot() View {
	v := View{
		Status:         c.status,
		Message:        c.message,
		Region:         c.region,
		Cuisine:        c.cuisine,
		Regions:        c.index.Regions(),
		CuisineEnabled: c.CuisineSelectorEnabled(),
		Ecosystem:      c.ecosystemPanel(),
		CuisineInfo:    c.cuisinePanel(),
		Competitive:    c.competitivePanel(),
		Opportunities:  c.opportunitiesPanel(),
		Insights:       c.insights(),
	}
	if v.CuisineEnabled {
		v.Cuisines = c.index.Cuisines()
	}
	return v
}

func (c *Controller) ecosystemPanel() EcosystemPanel {
	if c.regionDoc == nil {
		return EcosystemPanel{PanelState: PanelState{Mode: ModeEmpty}}
	}
	scores := c.scores
	return EcosystemPanel{
		PanelState:     PanelState{Mode: ModeContent},
		Scores:         &scores,
		Sophistication: c.opts.CustomerSophistication,
	}
}

func (c *Controller) errorState() (PanelState, bool) {
	if c.cuisineErr == nil {
		return PanelState{}, false
	}
	return PanelState{Mode: ModeError, Error: c.cuisineErr.Error()}, true
}

func (c *Controller) cuisinePanel() CuisinePanel {
	if st, ok := c.errorState(); ok {
		return CuisinePanel{PanelState: st}
	}
	if c.cuisineDoc == nil {
		return CuisinePanel{PanelState: PanelState{Mode: ModeEmpty}}
	}

	display := analysis.SelectCuisineDisplay(c.cuisineDoc, c.competitiveDoc, c.region, c.opts.TopCompetitors)
	if !display.HasData() {
		return CuisinePanel{PanelState: PanelState{Mode: ModeEmpty}}
	}
	return CuisinePanel{
		PanelState: PanelState{Mode: ModeContent},
		Display:    &display,
		Market:     c.cuisineDoc.MarketOverview,
	}
}

func (c *Controller) competitivePanel() CompetitivePanel {
	if st, ok := c.errorState(); ok {
		return CompetitivePanel{PanelState: st}
	}
	comp := c.competitiveDoc
	if !analysis.HasCompetitiveData(comp) {
		return CompetitivePanel{PanelState: PanelState{Mode: ModeEmpty}}
	}

	p := CompetitivePanel{
		PanelState: PanelState{Mode: ModeContent},
		Saturation: comp.MarketSaturation,
	}
	if n := min(c.opts.TopCompetitors, len(comp.KeyCompetitors)); n > 0 {
		p.Competitors = comp.KeyCompetitors[:n]
	}
	if sum, ok := analysis.SummarizeCompetitors(comp.KeyCompetitors); ok {
		p.Summary = &sum
	}
	return p
}

func (c *Controller) opportunitiesPanel() OpportunitiesPanel {
	if st, ok := c.errorState(); ok {
		return OpportunitiesPanel{PanelState: st}
	}
	comp := c.competitiveDoc
	if !analysis.HasOpportunityData(comp) {
		return OpportunitiesPanel{PanelState: PanelState{Mode: ModeEmpty}}
	}

	p := OpportunitiesPanel{
		PanelState:    PanelState{Mode: ModeContent},
		Opportunities: comp.DifferentiationOpportunities,
	}
	if comp.MenuOptimization != nil {
		p.Recommendations = comp.MenuOptimization.StrategicRecommendations
	}
	return p
}

// insights prefers the comprehensive set once a cuisine has loaded.
func (c *Controller) insights() []analysis.Insight {
	if c.comprehensiveIn != nil {
		return c.comprehensiveIn
	}
	return c.regionalIn
}
