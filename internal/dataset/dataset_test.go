package dataset

import (
	"encoding/json"
	"testing"
)

func TestDatasetRoundTrip(t *testing.T) {
	raw := `{
		"stories": [{"id":"S1","title":"Add login","status":"open","priority":"P1","creator":"alice","custom_field":"kept"}],
		"bugs": [{"id":"B1","title":"Crash on save","status":"closed","severity":"high","reporter":"bob"}]
	}`

	var d Dataset
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(d.Stories) != 1 || len(d.Bugs) != 1 {
		t.Fatalf("expected 1 story and 1 bug, got %d/%d", len(d.Stories), len(d.Bugs))
	}

	story := d.Stories[0]
	if story.Kind != KindStory {
		t.Fatalf("expected story kind stamped, got %v", story.Kind)
	}
	if story.ID() != "S1" || story.Title() != "Add login" || story.Creator() != "alice" {
		t.Fatalf("unexpected story accessors: %+v", story)
	}
	if story.Get("custom_field") != "kept" {
		t.Fatalf("expected unknown field preserved, got %q", story.Get("custom_field"))
	}

	bug := d.Bugs[0]
	if bug.Kind != KindBug {
		t.Fatalf("expected bug kind stamped, got %v", bug.Kind)
	}
	if bug.Creator() != "bob" {
		t.Fatalf("expected bug Creator() to fall back to reporter, got %q", bug.Creator())
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var reloaded Dataset
	if err := json.Unmarshal(out, &reloaded); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if reloaded.Stories[0].Get("custom_field") != "kept" {
		t.Fatalf("expected unknown field to survive a round trip")
	}
}

func TestDatasetEmpty(t *testing.T) {
	var d Dataset
	if !d.Empty() {
		t.Fatalf("zero-value dataset should be empty")
	}
	d.Stories = append(d.Stories, Record{Kind: KindStory, Fields: map[string]interface{}{"id": "S1"}})
	if d.Empty() {
		t.Fatalf("dataset with a story should not be empty")
	}
}
