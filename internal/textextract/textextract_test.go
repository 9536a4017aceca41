package textextract

import (
	"strings"
	"testing"

	"issuelens/internal/dataset"
)

func TestProjectStory(t *testing.T) {
	r := dataset.Record{Kind: dataset.KindStory, Fields: map[string]interface{}{
		"id":          "S1",
		"title":       "订单列表分页",
		"description": "",
		"status":      "open",
		"priority":    "P1",
		"creator":     "alice",
		"created":     "2025-01-01 00:00:00",
	}}
	got := Project(r)
	if !strings.HasPrefix(got, "type story | id S1 | name 订单列表分页") {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if strings.Contains(got, "description") {
		t.Fatalf("expected empty description to be dropped: %q", got)
	}
	if !strings.Contains(got, "status open") || !strings.Contains(got, "priority P1") {
		t.Fatalf("missing expected fields: %q", got)
	}
	if strings.Contains(got, "iteration") {
		t.Fatalf("expected empty iteration to be dropped: %q", got)
	}
}

func TestProjectBugUsesReporterLabel(t *testing.T) {
	r := dataset.Record{Kind: dataset.KindBug, Fields: map[string]interface{}{
		"id":       "B1",
		"title":    "支付回调超时",
		"severity": "high",
		"reporter": "bob",
	}}
	got := Project(r)
	if !strings.Contains(got, "reporter bob") {
		t.Fatalf("expected reporter label, got %q", got)
	}
	if !strings.HasPrefix(got, "type bug | id B1 | title 支付回调超时") {
		t.Fatalf("unexpected prefix: %q", got)
	}
}

func TestProjectAllJoinsWithPipe(t *testing.T) {
	records := []dataset.Record{
		{Kind: dataset.KindStory, Fields: map[string]interface{}{"id": "S1"}},
		{Kind: dataset.KindStory, Fields: map[string]interface{}{"id": "S2"}},
	}
	got := ProjectAll(records)
	if !strings.Contains(got, "id S1") || !strings.Contains(got, "id S2") {
		t.Fatalf("expected both records projected: %q", got)
	}
}
