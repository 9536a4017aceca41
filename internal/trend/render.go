package trend

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"issuelens/internal/chartrender"
	"issuelens/internal/dataset"
	"issuelens/internal/logging"
)

// Result is the trend render's full output: the JSON aggregate plus the rendered chart's
// location (returns the JSON aggregate plus the file path and a
// file:// URL").
type Result struct {
	Aggregate Aggregate `json:"aggregate"`
	FilePath  string    `json:"file_path"`
	FileURL   string    `json:"file_url"`
}

// Render computes the aggregate for kind/chartKind/field over [since,
// until], renders it to a go-echarts line chart, rasterizes that chart via
// chartrender, and writes the PNG to
// <timeTrendDir>/<kind>_<chartKind>_<timestamp>.png.
func Render(ctx context.Context, timeTrendDir string, d *dataset.Dataset, kind dataset.Kind, chartKind ChartKind, field TimeField, since, until *time.Time) (Result, error) {
	timer := logging.StartTimer(logging.CategoryTrend, "Render")
	defer timer.Stop()

	agg := Compute(d, kind, field, since, until)

	label := ChartKindLabel(string(kind))
	html, err := buildHTML(agg, label, chartKind)
	if err != nil {
		return Result{}, err
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	filename := fmt.Sprintf("%s_%s_%s.png", kind, chartKind, stamp)
	outPath := filepath.Join(timeTrendDir, filename)

	if err := chartrender.RenderHTMLToPNG(ctx, html, outPath, chartrender.Options{}); err != nil {
		return Result{}, err
	}

	logging.Trend("Render: %s/%s -> %s (%d dates, %d kept, %d dropped)", kind, chartKind, outPath, len(agg.Dates), agg.Kept, agg.Dropped)

	return Result{
		Aggregate: agg,
		FilePath:  outPath,
		FileURL:   "file://" + outPath,
	}, nil
}
