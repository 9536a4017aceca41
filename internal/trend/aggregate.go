// Package trend implements per-calendar-date aggregation of the issue
// dataset plus rendering a time-trend chart to a PNG via
// issuelens/internal/chartrender.
package trend

import (
	"sort"
	"strings"
	"time"

	"issuelens/internal/dataset"
)

// TimeField selects which per-record timestamp drives the aggregation.
type TimeField string

const (
	TimeFieldCreated  TimeField = "created"
	TimeFieldModified TimeField = "modified"
	TimeFieldBegin    TimeField = "begin"
	TimeFieldDue      TimeField = "due"
)

// ChartKind selects what the rendered chart (and, by extension, the
// per-date breakdown) emphasizes.
type ChartKind string

const (
	ChartKindCount    ChartKind = "count"
	ChartKindPriority ChartKind = "priority"
	ChartKindStatus   ChartKind = "status"
)

// DateBucket is one calendar date's rollup.
type DateBucket struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	New            int            `json:"new"`
	PriorityCounts map[string]int `json:"priority_counts"`
	StatusCounts   map[string]int `json:"status_counts"`
}

// Aggregate is the trend JSON result: an ordered list of dates plus the
// per-date buckets, and the count of records dropped for lacking a
// parseable time field or falling outside [since, until]
// (kept + dropped == input size).
type Aggregate struct {
	Dates   []string              `json:"dates"`
	Buckets map[string]DateBucket `json:"buckets"`
	Kept    int                   `json:"kept"`
	Dropped int                   `json:"dropped"`
}

// doneTokens are substrings (checked case-insensitively, and as-is for
// Chinese) that mark a status as "completed" in either script.
var doneTokens = []string{"done", "completed", "closed", "resolved", "已完成", "已关闭", "已解决", "完成", "结束"}

// priorityLexicon maps the three coarse buckets to the literal substrings
// that identify them, across both common priority-label conventions
// (P0..P3 and 高/中/低).
var priorityLexicon = map[string][]string{
	"high":   {"p0", "p1", "urgent", "critical", "highest", "高", "紧急", "严重"},
	"medium": {"p2", "medium", "中", "normal"},
	"low":    {"p3", "p4", "low", "minor", "低", "轻微"},
}

// timeLayouts are tried in order; the canonical format is
// "YYYY-MM-DD[ HH:MM:SS]".
var timeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

func parseRecordTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fieldValue(r dataset.Record, field TimeField) string {
	switch field {
	case TimeFieldModified:
		return r.Modified()
	case TimeFieldBegin:
		return r.Begin()
	case TimeFieldDue:
		return r.Due()
	default:
		return r.Created()
	}
}

func isCompleted(status string) bool {
	lower := strings.ToLower(status)
	for _, tok := range doneTokens {
		if strings.Contains(lower, strings.ToLower(tok)) || strings.Contains(status, tok) {
			return true
		}
	}
	return false
}

func priorityBucket(priority string) string {
	lower := strings.ToLower(priority)
	for _, bucket := range []string{"high", "medium", "low"} {
		for _, tok := range priorityLexicon[bucket] {
			if strings.Contains(lower, strings.ToLower(tok)) || strings.Contains(priority, tok) {
				return bucket
			}
		}
	}
	return "unclassified"
}

// Compute implements the grouping step: parse the selected time field,
// drop records whose value is empty, unparseable, or outside [since, until],
// and roll the rest up by calendar date.
func Compute(d *dataset.Dataset, kind dataset.Kind, field TimeField, since, until *time.Time) Aggregate {
	buckets := make(map[string]DateBucket)
	kept, dropped := 0, 0

	for _, r := range d.Records(kind) {
		t, ok := parseRecordTime(fieldValue(r, field))
		if !ok {
			dropped++
			continue
		}
		day := t.Truncate(24 * time.Hour)
		if since != nil && day.Before(since.Truncate(24*time.Hour)) {
			dropped++
			continue
		}
		if until != nil && day.After(until.Truncate(24*time.Hour)) {
			dropped++
			continue
		}

		key := day.Format("2006-01-02")
		b := buckets[key]
		if b.PriorityCounts == nil {
			b.PriorityCounts = make(map[string]int)
		}
		if b.StatusCounts == nil {
			b.StatusCounts = make(map[string]int)
		}
		b.Total++
		b.New++
		if isCompleted(r.Status()) {
			b.Completed++
		}
		b.PriorityCounts[priorityBucket(r.Priority())]++
		if status := r.Status(); status != "" {
			b.StatusCounts[status]++
		}
		buckets[key] = b
		kept++
	}

	dates := make([]string, 0, len(buckets))
	for k := range buckets {
		dates = append(dates, k)
	}
	sort.Strings(dates)

	return Aggregate{Dates: dates, Buckets: buckets, Kept: kept, Dropped: dropped}
}
