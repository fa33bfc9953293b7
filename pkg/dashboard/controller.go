// Package dashboard holds plateview's selection state and keeps the four
// panels, both selectors, the status line and the charts consistent with
// the latest successfully loaded region and cuisine.
//
// The Controller is not safe for concurrent use. A single goroutine (the
// bubbletea Update loop, or the caller in headless mode) owns it. Fetching
// is split off so it can run elsewhere:
//
//	req := c.SelectRegion("Austin")     // owner goroutine: commit selection
//	res := req.Run(ctx)                 // any goroutine: fetch documents
//	applied := c.ApplyRegion(res)       // owner goroutine: render, or drop if stale
//
// Every selection bumps a generation counter. Results carry the generation
// they were started under and are discarded when a newer selection exists.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanderheijden86/plateview/pkg/analysis"
	"github.com/vanderheijden86/plateview/pkg/chart"
	"github.com/vanderheijden86/plateview/pkg/debug"
	"github.com/vanderheijden86/plateview/pkg/loader"
	"github.com/vanderheijden86/plateview/pkg/logging"
	"github.com/vanderheijden86/plateview/pkg/model"
)

// Fetcher loads documents. *loader.Fetcher implements it.
type Fetcher interface {
	LoadIndex(ctx context.Context) (*model.DataIndex, error)
	Region(ctx context.Context, region string) (*model.RegionalDocument, error)
	Cuisine(ctx context.Context, cuisine string) (*model.CuisineDocument, error)
	Competitive(ctx context.Context, region, cuisine string) (*model.CompetitiveDocument, error)
}

// Options tunes rendering.
type Options struct {
	// CustomerSophistication is the radar's Customer Sophistication axis.
	CustomerSophistication int
	// TopCompetitors caps competitor lists and charts.
	TopCompetitors int
	// DishLimit caps the popular dishes chart.
	DishLimit int
}

// DefaultOptions returns the stock rendering options.
func DefaultOptions() Options {
	return Options{
		CustomerSophistication: 70,
		TopCompetitors:         analysis.DefaultTopCompetitors,
		DishLimit:              8,
	}
}

// Controller is the dashboard's application state.
type Controller struct {
	fetcher Fetcher
	charts  *chart.Registry
	opts    Options

	index   *model.DataIndex
	status  Status
	message string

	region  string
	cuisine string
	gen     uint64

	regionDoc  *model.RegionalDocument
	scores     analysis.EcosystemScores
	regionalIn []analysis.Insight

	cuisineDoc      *model.CuisineDocument
	competitiveDoc  *model.CompetitiveDocument
	cuisineErr      error
	comprehensiveIn []analysis.Insight
}

// New creates a controller in StatusInitializing.
func New(f Fetcher, charts *chart.Registry, opts Options) *Controller {
	if opts.TopCompetitors <= 0 {
		opts.TopCompetitors = analysis.DefaultTopCompetitors
	}
	return &Controller{
		fetcher: f,
		charts:  charts,
		opts:    opts,
		status:  StatusInitializing,
		message: msgInitializing,
	}
}

// Status returns the current status and status-line message.
func (c *Controller) Status() (Status, string) {
	return c.status, c.message
}

// Selection returns the committed region and cuisine ("" when unset).
func (c *Controller) Selection() (region, cuisine string) {
	return c.region, c.cuisine
}

// Generation returns the current selection generation.
func (c *Controller) Generation() uint64 {
	return c.gen
}

// Index returns the loaded data index, or nil.
func (c *Controller) Index() *model.DataIndex {
	return c.index
}

// CuisineSelectorEnabled reports whether a cuisine may be selected: a region
// is committed and its document loaded.
func (c *Controller) CuisineSelectorEnabled() bool {
	return c.status.Interactive() && c.region != "" && c.regionDoc != nil
}

// =============================================================================
// Data index
// =============================================================================

// IndexResult is the outcome of loading the data index.
type IndexResult struct {
	Index *model.DataIndex
	Err   error
}

// FetchIndex loads the data index. It only touches the fetcher and is safe
// to call from any goroutine.
func (c *Controller) FetchIndex(ctx context.Context) IndexResult {
	idx, err := c.fetcher.LoadIndex(ctx)
	return IndexResult{Index: idx, Err: err}
}

// ApplyIndex commits the index. Failure is terminal. Results arriving after
// initialization are ignored.
func (c *Controller) ApplyIndex(res IndexResult) {
	if c.status != StatusInitializing {
		return
	}
	if res.Err != nil {
		logError(res.Err, "data index load failed")
		c.status = StatusInitFailed
		c.message = fmt.Sprintf(msgIndexFailed, res.Err)
		return
	}
	c.index = res.Index
	c.status = StatusIdle
	c.message = msgSelectRegion
}

// =============================================================================
// Region selection
// =============================================================================

// RegionRequest is a committed region selection waiting for its document.
type RegionRequest struct {
	Gen    uint64
	Region string

	fetcher Fetcher
}

// RegionResult is the outcome of a RegionRequest.
type RegionResult struct {
	Gen    uint64
	Region string
	Doc    *model.RegionalDocument
	Err    error
}

// Run fetches the regional document. Safe to call from any goroutine.
func (r *RegionRequest) Run(ctx context.Context) RegionResult {
	doc, err := r.fetcher.Region(ctx, r.Region)
	return RegionResult{Gen: r.Gen, Region: r.Region, Doc: doc, Err: err}
}

// SelectRegion commits a region selection and clears every panel and chart.
// An empty region is the deselect reset and returns nil. Selections before
// the index loads or after it failed are ignored and also return nil.
func (c *Controller) SelectRegion(region string) *RegionRequest {
	defer debug.LogEnterExit("SelectRegion")()
	if !c.status.Interactive() {
		logging.Debug().Str("region", region).Str("status", c.status.String()).Msg("region selection ignored")
		return nil
	}

	c.gen++
	c.region = region
	c.cuisine = ""
	c.clearRegion()
	c.clearCuisine()
	c.charts.DestroyAll()

	if region == "" {
		c.status = StatusIdle
		c.message = msgSelectRegion
		return nil
	}

	c.status = StatusLoading
	c.message = fmt.Sprintf(msgLoadingRegion, region)
	return &RegionRequest{Gen: c.gen, Region: region, fetcher: c.fetcher}
}

// ApplyRegion renders a region result. It returns false when the result is
// stale and was dropped.
func (c *Controller) ApplyRegion(res RegionResult) bool {
	if res.Gen != c.gen || res.Region != c.region {
		logging.Debug().Uint64("gen", res.Gen).Uint64("current", c.gen).Str("region", res.Region).Msg("stale region result dropped")
		return false
	}

	if res.Err != nil {
		logError(res.Err, "region fetch failed", "region", res.Region)
		c.status = StatusError
		c.message = fmt.Sprintf(msgRegionFailed, res.Region, res.Err)
		return true
	}

	c.regionDoc = res.Doc
	c.scores = analysis.ScoreRegion(res.Doc)
	c.regionalIn = analysis.RegionalInsights(res.Doc)
	c.renderChart(chart.SlotEcosystem, analysis.EcosystemDataset(c.scores, c.opts.CustomerSophistication), true)

	c.status = StatusReady
	c.message = fmt.Sprintf(msgRegionLoaded, res.Region)
	return true
}

// =============================================================================
// Cuisine selection
// =============================================================================

// CuisineRequest is a committed cuisine selection waiting for its documents.
type CuisineRequest struct {
	Gen     uint64
	Region  string
	Cuisine string

	fetcher Fetcher
}

// CuisineResult is the outcome of a CuisineRequest.
type CuisineResult struct {
	Gen         uint64
	Region      string
	Cuisine     string
	CuisineDoc  *model.CuisineDocument
	Competitive *model.CompetitiveDocument
	Err         error
}

// Run fetches the cuisine document and then the competitive document, in
// that order. The first failure aborts the chain. Safe to call from any
// goroutine.
func (r *CuisineRequest) Run(ctx context.Context) CuisineResult {
	res := CuisineResult{Gen: r.Gen, Region: r.Region, Cuisine: r.Cuisine}

	cuisineDoc, err := r.fetcher.Cuisine(ctx, r.Cuisine)
	if err != nil {
		res.Err = err
		return res
	}
	comp, err := r.fetcher.Competitive(ctx, r.Region, r.Cuisine)
	if err != nil {
		res.Err = err
		return res
	}

	res.CuisineDoc = cuisineDoc
	res.Competitive = comp
	return res
}

// SelectCuisine commits a cuisine selection for the current region and
// clears the cuisine, competitive and opportunities panels. The ecosystem
// panel is untouched. An empty cuisine clears those panels and returns nil.
// Selections while the cuisine selector is disabled are ignored.
func (c *Controller) SelectCuisine(cuisine string) *CuisineRequest {
	defer debug.LogEnterExit("SelectCuisine")()
	if !c.CuisineSelectorEnabled() {
		logging.Debug().Str("cuisine", cuisine).Str("region", c.region).Msg("cuisine selection ignored")
		return nil
	}

	c.gen++
	c.cuisine = cuisine
	c.clearCuisine()
	for _, slot := range []chart.Slot{chart.SlotCuisine, chart.SlotCompetitive, chart.SlotOpportunities} {
		c.charts.Destroy(slot)
	}

	if cuisine == "" {
		c.status = StatusReady
		c.message = msgSelectCuisine
		return nil
	}

	c.status = StatusLoading
	c.message = fmt.Sprintf(msgLoadingCuisine, cuisine, c.region)
	return &CuisineRequest{Gen: c.gen, Region: c.region, Cuisine: cuisine, fetcher: c.fetcher}
}

// ApplyCuisine renders a cuisine result. It returns false when the result is
// stale and was dropped.
func (c *Controller) ApplyCuisine(res CuisineResult) bool {
	if res.Gen != c.gen || res.Region != c.region || res.Cuisine != c.cuisine {
		logging.Debug().Uint64("gen", res.Gen).Uint64("current", c.gen).Str("cuisine", res.Cuisine).Msg("stale cuisine result dropped")
		return false
	}

	if res.Err != nil {
		logError(res.Err, "cuisine fetch chain failed", "region", res.Region, "cuisine", res.Cuisine)
		c.cuisineErr = res.Err
		c.status = StatusError
		c.message = fmt.Sprintf(msgCuisineFailed, res.Cuisine, res.Region, res.Err)
		return true
	}

	c.cuisineDoc = res.CuisineDoc
	c.competitiveDoc = res.Competitive

	ds, ok := analysis.CuisineDataset(res.CuisineDoc, c.opts.DishLimit)
	c.renderChart(chart.SlotCuisine, ds, ok)
	ds, ok = analysis.CompetitiveDataset(res.Competitive, c.opts.TopCompetitors)
	c.renderChart(chart.SlotCompetitive, ds, ok)
	ds, ok = analysis.OpportunitiesDataset(res.Competitive)
	c.renderChart(chart.SlotOpportunities, ds, ok)

	c.comprehensiveIn = analysis.ComprehensiveInsights(res.CuisineDoc, res.Competitive)

	c.status = StatusReady
	c.message = fmt.Sprintf(msgCuisineLoaded, res.Cuisine, res.Region)
	return true
}

// =============================================================================
// Synchronous helpers
// =============================================================================

// Initialize loads the index in the calling goroutine.
func (c *Controller) Initialize(ctx context.Context) error {
	res := c.FetchIndex(ctx)
	c.ApplyIndex(res)
	return res.Err
}

// ChooseRegion selects and loads a region in the calling goroutine.
func (c *Controller) ChooseRegion(ctx context.Context, region string) error {
	req := c.SelectRegion(region)
	if req == nil {
		if region != "" {
			return fmt.Errorf("region %q: %w", region, ErrNotInteractive)
		}
		return nil
	}
	res := req.Run(ctx)
	c.ApplyRegion(res)
	return res.Err
}

// ChooseCuisine selects and loads a cuisine in the calling goroutine.
func (c *Controller) ChooseCuisine(ctx context.Context, cuisine string) error {
	req := c.SelectCuisine(cuisine)
	if req == nil {
		if cuisine != "" {
			return fmt.Errorf("cuisine %q: %w", cuisine, ErrCuisineDisabled)
		}
		return nil
	}
	res := req.Run(ctx)
	c.ApplyCuisine(res)
	return res.Err
}

// Errors returned by the synchronous helpers when a selection is ignored.
var (
	ErrNotInteractive  = errors.New("dashboard is not accepting selections")
	ErrCuisineDisabled = errors.New("no region loaded")
)

// =============================================================================
// Internals
// =============================================================================

func (c *Controller) clearRegion() {
	c.regionDoc = nil
	c.scores = analysis.EcosystemScores{}
	c.regionalIn = nil
}

func (c *Controller) clearCuisine() {
	c.cuisineDoc = nil
	c.competitiveDoc = nil
	c.cuisineErr = nil
	c.comprehensiveIn = nil
}

// renderChart renders ds into slot when ok, and empties the slot otherwise.
// Chart failures are logged and never change panel state.
func (c *Controller) renderChart(slot chart.Slot, ds chart.Dataset, ok bool) {
	if !ok {
		c.charts.Destroy(slot)
		return
	}
	if err := c.charts.Render(slot, ds); err != nil {
		logging.Warn().Err(err).Str("slot", string(slot)).Msg("chart render failed")
	}
}

// logError records a handler-boundary error with its classification.
func logError(err error, msg string, kv ...string) {
	ev := logging.Error().Err(err).Str("kind", loader.Kind(err))

	var fe *loader.FetchError
	if errors.As(err, &fe) {
		ev = ev.Int("status", fe.Status).Str("url", fe.URL)
	}
	var se *loader.StructuralError
	if errors.As(err, &se) {
		ev = ev.Str("url", se.URL).Str("reason", se.Reason)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		ev = ev.Str(kv[i], kv[i+1])
	}
	ev.Msg(msg)
}
