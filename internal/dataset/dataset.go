// Package dataset defines the issue-tracker data model: the story/bug
// records ingested from the external project-management platform and the
// dataset document that bundles them. The wire schema is issuelens's own —
// the external tracker's REST payload is out of scope and is projected
// into this shape by the ingestion step before anything in this repo sees
// it.
package dataset

import "encoding/json"

// Kind distinguishes the two record families the whole pipeline operates
// on. A Record's Kind is never itself a JSON field: it is implied by which
// of Dataset's two arrays the record lives in.
type Kind string

const (
	KindStory Kind = "story"
	KindBug   Kind = "bug"
)

// Record is one issue-tracker record. Fields holds the full decoded JSON
// object: known fields are read through the typed accessors below,
// everything else (any field the ingestion step happened to carry over) is
// preserved verbatim so it can be echoed back as part of a chunk's
// original_items.
type Record struct {
	Kind   Kind
	Fields map[string]interface{}
}

// MarshalJSON serializes a Record as its raw field map; Kind is not part of
// the wire representation (see above).
func (r Record) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Fields)
}

// UnmarshalJSON decodes a Record from its raw field map. Kind must be set
// by the caller (Dataset.UnmarshalJSON does this based on which array the
// record came from).
func (r *Record) UnmarshalJSON(b []byte) error {
	m := make(map[string]interface{})
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	r.Fields = m
	return nil
}

func (r Record) str(key string) string {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// ID returns the record's stable identifier.
func (r Record) ID() string { return r.str("id") }

// Title returns the record's title (story name / bug title).
func (r Record) Title() string { return r.str("title") }

// Description returns the record's rich description.
func (r Record) Description() string { return r.str("description") }

// Status returns the opaque status label.
func (r Record) Status() string { return r.str("status") }

// Priority returns the opaque, kind-specific priority label.
func (r Record) Priority() string { return r.str("priority") }

// Creator returns the story's creator / the bug's reporter.
func (r Record) Creator() string {
	if v := r.str("creator"); v != "" {
		return v
	}
	return r.str("reporter")
}

// Severity returns the bug's severity (empty for stories).
func (r Record) Severity() string { return r.str("severity") }

// Iteration returns the story's iteration id (empty for bugs).
func (r Record) Iteration() string { return r.str("iteration") }

// Due returns the story's due date (empty for bugs).
func (r Record) Due() string { return r.str("due") }

// Begin returns the story's begin date (empty for bugs).
func (r Record) Begin() string { return r.str("begin") }

// Regression returns the bug's regression number (empty for stories).
func (r Record) Regression() string { return r.str("regression") }

// Created returns the record's creation timestamp, "YYYY-MM-DD HH:MM:SS".
func (r Record) Created() string { return r.str("created") }

// Modified returns the record's last-modified timestamp.
func (r Record) Modified() string { return r.str("modified") }

// Get returns an arbitrary field by its semantic name, empty string if
// absent or non-string. Used by components (trend's time-field selection) that
// need to address a field generically.
func (r Record) Get(field string) string { return r.str(field) }

// Dataset is the persisted issue-dataset document: two ordered
// sequences of records, stories and bugs. Regeneration replaces it
// wholesale; it is never mutated incrementally.
type Dataset struct {
	Stories []Record
	Bugs    []Record
}

type datasetWire struct {
	Stories []Record `json:"stories"`
	Bugs    []Record `json:"bugs"`
}

// MarshalJSON serializes the dataset as {"stories": [...], "bugs": [...]}.
func (d Dataset) MarshalJSON() ([]byte, error) {
	w := datasetWire{Stories: d.Stories, Bugs: d.Bugs}
	if w.Stories == nil {
		w.Stories = []Record{}
	}
	if w.Bugs == nil {
		w.Bugs = []Record{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the dataset and stamps each record's Kind.
func (d *Dataset) UnmarshalJSON(b []byte) error {
	var w datasetWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	for i := range w.Stories {
		w.Stories[i].Kind = KindStory
	}
	for i := range w.Bugs {
		w.Bugs[i].Kind = KindBug
	}
	d.Stories = w.Stories
	d.Bugs = w.Bugs
	return nil
}

// Records returns the records of one kind.
func (d Dataset) Records(kind Kind) []Record {
	if kind == KindBug {
		return d.Bugs
	}
	return d.Stories
}

// Empty reports whether the dataset has no records of either kind, the
// boundary case every operation must handle.
func (d Dataset) Empty() bool {
	return len(d.Stories) == 0 && len(d.Bugs) == 0
}
