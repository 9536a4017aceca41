package trend

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// priorityColors are the three fixed colors used for the
// priority chart kind (high/medium/low, in that order).
var priorityColors = []string{"#d94e4e", "#e6a23c", "#67c23a"}

// statusPalette is cycled over the top-N statuses for the status chart
// kind.
var statusPalette = []string{"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de", "#3ba272", "#fc8452", "#9a60b4"}

const maxStatusSeries = 8

// denseDateThreshold is the point past which dates are "sparse" no longer:
// below it every date gets its own axis label, at or above it labels are
// auto-thinned so a multi-month range doesn't overlap into illegibility.
const denseDateThreshold = 30

// axisLabelInterval returns the go-echarts x-axis label interval for n
// dates: "0" shows every label (n below the sparse/dense threshold), a
// larger step skips enough labels that a dense range stays readable.
func axisLabelInterval(n int) string {
	if n < denseDateThreshold {
		return "0"
	}
	step := n / denseDateThreshold
	if step < 1 {
		step = 1
	}
	return fmt.Sprintf("%d", step)
}

// buildHTML renders agg as a go-echarts line chart (time on the x-axis) and
// returns the full standalone HTML document go-echarts produces, ready to
// be screenshotted by chartrender.
func buildHTML(agg Aggregate, kind ChartKindLabel, chartKind ChartKind) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s — %s trend", kind, chartKind)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "date",
			AxisLabel: &opts.AxisLabel{
				Interval: axisLabelInterval(len(agg.Dates)),
				Rotate:   45,
			},
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1150px", Height: "650px"}),
	)
	line.SetXAxis(agg.Dates)

	switch chartKind {
	case ChartKindPriority:
		line.SetGlobalOptions(charts.WithColorsOpts(opts.Colors(priorityColors)))
		for _, bucket := range []string{"high", "medium", "low"} {
			line.AddSeries(bucket, priorityPoints(agg, bucket))
		}
	case ChartKindStatus:
		statuses := topStatuses(agg, maxStatusSeries)
		line.SetGlobalOptions(charts.WithColorsOpts(opts.Colors(statusPalette)))
		for _, status := range statuses {
			line.AddSeries(status, statusPoints(agg, status))
		}
	default:
		line.AddSeries("total", totalPoints(agg))
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("trend: render chart: %w", err)
	}
	return buf.String(), nil
}

// ChartKindLabel is the human-readable dataset kind used in the chart
// title ("story" / "bug").
type ChartKindLabel string

func totalPoints(agg Aggregate) []opts.LineData {
	points := make([]opts.LineData, len(agg.Dates))
	for i, d := range agg.Dates {
		points[i] = opts.LineData{Value: agg.Buckets[d].Total}
	}
	return points
}

func priorityPoints(agg Aggregate, bucket string) []opts.LineData {
	points := make([]opts.LineData, len(agg.Dates))
	for i, d := range agg.Dates {
		points[i] = opts.LineData{Value: agg.Buckets[d].PriorityCounts[bucket]}
	}
	return points
}

func statusPoints(agg Aggregate, status string) []opts.LineData {
	points := make([]opts.LineData, len(agg.Dates))
	for i, d := range agg.Dates {
		points[i] = opts.LineData{Value: agg.Buckets[d].StatusCounts[status]}
	}
	return points
}

// topStatuses returns the n statuses with the highest dataset-wide total
// count, so a noisy long tail of one-off statuses doesn't blow out the
// chart's legend.
func topStatuses(agg Aggregate, n int) []string {
	totals := make(map[string]int)
	for _, d := range agg.Dates {
		for status, c := range agg.Buckets[d].StatusCounts {
			totals[status] += c
		}
	}
	statuses := make([]string, 0, len(totals))
	for s := range totals {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool {
		if totals[statuses[i]] != totals[statuses[j]] {
			return totals[statuses[i]] > totals[statuses[j]]
		}
		return statuses[i] < statuses[j]
	})
	if len(statuses) > n {
		statuses = statuses[:n]
	}
	return statuses
}
