package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/plateview/pkg/chart"
	"github.com/vanderheijden86/plateview/pkg/dashboard"
	"github.com/vanderheijden86/plateview/pkg/metrics"
	"github.com/vanderheijden86/plateview/pkg/version"
)

// selection is the startup region and cuisine from the command line.
type selection struct {
	Region  string
	Cuisine string
}

// load initializes ctrl and applies the selection synchronously. The
// controller keeps whatever state the last step produced, so a failed
// fetch still leaves a meaningful snapshot.
func (s selection) load(ctx context.Context, ctrl *dashboard.Controller) error {
	if err := ctrl.Initialize(ctx); err != nil {
		return err
	}
	if s.Region == "" {
		return nil
	}
	if err := ctrl.ChooseRegion(ctx, s.Region); err != nil {
		return err
	}
	if s.Cuisine == "" {
		return nil
	}
	return ctrl.ChooseCuisine(ctx, s.Cuisine)
}

// robotOutput is the -robot JSON document.
type robotOutput struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Version     string           `json:"version"`
	Dashboard   dashboard.View   `json:"dashboard"`
	Charts      []chartOutput    `json:"charts"`
	Error       string           `json:"error,omitempty"`
	Metrics     metrics.Snapshot `json:"metrics"`
}

type chartOutput struct {
	Slot    chart.Slot    `json:"slot"`
	Dataset chart.Dataset `json:"dataset"`
}

// runRobot loads the selection headlessly and writes the dashboard as JSON.
// Fetch failures are reported inside the document.
func runRobot(ctx context.Context, w io.Writer, f dashboard.Fetcher, opts dashboard.Options, sel selection) error {
	registry := chart.NewRegistry(chart.NewTextGrapher())
	ctrl := dashboard.New(f, registry, opts)

	out := robotOutput{
		GeneratedAt: time.Now().UTC(),
		Version:     version.Version,
		Charts:      []chartOutput{},
	}
	if err := sel.load(ctx, ctrl); err != nil {
		out.Error = err.Error()
	}
	out.Dashboard = ctrl.Snapshot()
	for _, slot := range registry.Live() {
		ds, _ := registry.Dataset(slot)
		out.Charts = append(out.Charts, chartOutput{Slot: slot, Dataset: ds})
	}
	out.Metrics = metrics.Collect()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// runExport loads the selection and writes one file per live chart into dir.
func runExport(ctx context.Context, w io.Writer, f dashboard.Fetcher, opts dashboard.Options, sel selection, dir, format string) error {
	var g chart.Grapher
	var err error
	switch strings.ToLower(format) {
	case "svg":
		g, err = chart.NewSVGGrapher(dir)
	case "png":
		g, err = chart.NewPNGGrapher(dir)
	default:
		return fmt.Errorf("unknown export format %q (want svg or png)", format)
	}
	if err != nil {
		return err
	}

	registry := chart.NewRegistry(g)
	ctrl := dashboard.New(f, registry, opts)
	if err := sel.load(ctx, ctrl); err != nil {
		return err
	}

	live := registry.Live()
	if len(live) == 0 {
		return errors.New("no charts to export; pass -region (and -cuisine)")
	}
	for _, slot := range live {
		fmt.Fprintln(w, filepath.Join(dir, string(slot)+"."+strings.ToLower(format)))
	}
	return nil
}
