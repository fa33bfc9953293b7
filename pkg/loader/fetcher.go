// Package loader fetches plateview's JSON documents from a data source,
// decodes them into pkg/model types and caches them for the session.
//
// Every document kind follows the same protocol: consult the cache under the
// document's key, fetch on a miss, classify failures as FetchError or
// StructuralError, and store successes. Concurrent misses for one key share
// a single request.
package loader

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vanderheijden86/plateview/internal/datasource"
	"github.com/vanderheijden86/plateview/pkg/debug"
	"github.com/vanderheijden86/plateview/pkg/logging"
	"github.com/vanderheijden86/plateview/pkg/metrics"
	"github.com/vanderheijden86/plateview/pkg/model"
)

// Options configures a Fetcher.
type Options struct {
	// Clock supplies the v=<unix millis> timestamp appended to cuisine and
	// competitive requests. Defaults to time.Now.
	Clock func() time.Time
}

// Fetcher loads documents through a Source and a session Cache.
type Fetcher struct {
	src   datasource.Source
	cache *Cache
	group singleflight.Group
	now   func() time.Time
}

// NewFetcher creates a fetcher with an empty cache.
func NewFetcher(src datasource.Source, opts Options) *Fetcher {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Fetcher{
		src:   src,
		cache: NewCache(),
		now:   now,
	}
}

// Cache returns the fetcher's session cache.
func (f *Fetcher) Cache() *Cache { return f.cache }

// Source returns the underlying data source.
func (f *Fetcher) Source() datasource.Source { return f.src }

// LoadIndex fetches and validates the data index. It bypasses the cache;
// the caller holds the result for the session. Every failure is an
// *IndexLoadError.
func (f *Fetcher) LoadIndex(ctx context.Context) (*model.DataIndex, error) {
	defer metrics.Timer(metrics.IndexLoad)()

	var idx model.DataIndex
	resp, err := f.get(ctx, IndexPath, false, &idx)
	if err != nil {
		return nil, &IndexLoadError{Err: err}
	}
	if err := idx.Validate(); err != nil {
		return nil, &IndexLoadError{Err: &StructuralError{URL: resp.URL, Reason: err.Error(), Err: err}}
	}

	logging.Info().
		Str("source", f.src.Location()).
		Int("regions", len(idx.Regions())).
		Int("cuisines", len(idx.Cuisines())).
		Msg("data index loaded")
	return &idx, nil
}

// Region returns the regional document for region.
func (f *Fetcher) Region(ctx context.Context, region string) (*model.RegionalDocument, error) {
	defer metrics.Timer(metrics.RegionFetch)()
	if err := checkIdentifier("region", region); err != nil {
		return nil, err
	}
	return fetchCached[model.RegionalDocument](ctx, f, RegionKey(region), RegionPath(region), false, metrics.RegionCache)
}

// Cuisine returns the cuisine document for cuisine.
func (f *Fetcher) Cuisine(ctx context.Context, cuisine string) (*model.CuisineDocument, error) {
	defer metrics.Timer(metrics.CuisineFetch)()
	if err := checkIdentifier("cuisine", cuisine); err != nil {
		return nil, err
	}
	return fetchCached[model.CuisineDocument](ctx, f, CuisineKey(cuisine), CuisinePath(cuisine), true, metrics.CuisineCache)
}

// Competitive returns the competitive document for a region x cuisine pair.
func (f *Fetcher) Competitive(ctx context.Context, region, cuisine string) (*model.CompetitiveDocument, error) {
	defer metrics.Timer(metrics.CompetitiveFetch)()
	if err := checkIdentifier("region", region); err != nil {
		return nil, err
	}
	if err := checkIdentifier("cuisine", cuisine); err != nil {
		return nil, err
	}
	return fetchCached[model.CompetitiveDocument](ctx, f, CompetitiveKey(region, cuisine), CompetitivePath(region, cuisine), true, metrics.CompetitiveCache)
}

// fetchCached returns the cached *T for key, or fetches path, decodes it
// into a fresh T and caches the pointer. A hit returns the exact pointer
// stored by the first fetch.
func fetchCached[T any](ctx context.Context, f *Fetcher, key, path string, bust bool, cm *metrics.CacheMetric) (*T, error) {
	if doc, ok := f.cache.Get(key); ok {
		cm.Hit()
		return doc.(*T), nil
	}

	v, err, _ := f.group.Do(key, func() (any, error) {
		// A flight that finished between the Get above and Do has already
		// stored the document.
		if doc, ok := f.cache.Get(key); ok {
			cm.Hit()
			return doc, nil
		}
		cm.Miss()

		doc := new(T)
		if _, err := f.get(ctx, path, bust, doc); err != nil {
			return nil, err
		}
		f.cache.Put(key, doc)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

func (f *Fetcher) get(ctx context.Context, path string, bust bool, v any) (*datasource.Response, error) {
	var query url.Values
	if bust {
		query = url.Values{"v": {strconv.FormatInt(f.now().UnixMilli(), 10)}}
	}

	start := time.Now()
	resp, err := f.src.Get(ctx, path, query)
	debug.LogTiming(path, time.Since(start))
	if err != nil {
		return nil, &FetchError{URL: f.src.URL(path, query), Err: err}
	}
	if !resp.OK() {
		return resp, &FetchError{Status: resp.Status, URL: resp.URL}
	}
	if err := decodeDocument(resp, v); err != nil {
		return resp, err
	}

	logging.Debug().Str("url", resp.URL).Int("bytes", len(resp.Body)).Msg("document fetched")
	return resp, nil
}
