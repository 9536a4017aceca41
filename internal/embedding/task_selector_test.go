package embedding

import "testing"

func TestSelectTaskType(t *testing.T) {
	if got := SelectTaskType(true); got != TaskTypeQuery {
		t.Fatalf("SelectTaskType(query)=%q, want %q", got, TaskTypeQuery)
	}
	if got := SelectTaskType(false); got != TaskTypeDocument {
		t.Fatalf("SelectTaskType(document)=%q, want %q", got, TaskTypeDocument)
	}
}
