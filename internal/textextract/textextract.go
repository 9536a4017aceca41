// Package textextract implements projecting one issue record to the
// single joined string the vector index embeds and overview/evaluator read as context. It is a
// small, pure string-formatting function — grounded on the same
// "decide what text represents a record" idea behind
// internal/embedding/task_selector.go, but implemented directly since no
// library applies to straight field concatenation.
package textextract

import (
	"fmt"
	"strings"

	"issuelens/internal/dataset"
)

type field struct {
	label string
	value string
}

// Project concatenates a record's non-empty canonical fields into one
// string, separator " | " between fields and " " between a field's label
// and its value. "type <kind>" and "id <id>" are always present,
// regardless of whether the id itself is empty.
func Project(r dataset.Record) string {
	fields := []field{
		{"type", string(r.Kind)},
		{"id", r.ID()},
	}

	if r.Kind == dataset.KindBug {
		fields = append(fields,
			field{"title", r.Title()},
			field{"description", r.Description()},
			field{"priority", r.Priority()},
			field{"severity", r.Severity()},
			field{"status", r.Status()},
			field{"reporter", r.Creator()},
			field{"regression", r.Regression()},
			field{"created", r.Created()},
			field{"modified", r.Modified()},
		)
	} else {
		fields = append(fields,
			field{"name", r.Title()},
			field{"description", r.Description()},
			field{"status", r.Status()},
			field{"priority", r.Priority()},
			field{"creator", r.Creator()},
			field{"iteration", r.Iteration()},
			field{"created", r.Created()},
			field{"modified", r.Modified()},
		)
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		// type and id are always emitted even when empty; every other
		// field is dropped when empty.
		if f.value == "" && f.label != "type" && f.label != "id" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", f.label, f.value))
	}
	return strings.Join(parts, " | ")
}

// ProjectAll projects each record and joins the results with " | ",
// matching the vector index's "join chunk texts with ' | '" build step.
func ProjectAll(records []dataset.Record) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = Project(r)
	}
	return strings.Join(parts, " | ")
}
