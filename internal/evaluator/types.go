// Package evaluator implements loading a rubric and a requirement
// knowledge base, building dynamic prompts, splitting test cases into
// token-bounded batches, calling the LLM, and parsing its Markdown-table
// replies into per-case, per-field scores plus a priority-compliance
// verdict.
package evaluator

import (
	"time"

	"issuelens/internal/rubric"
)

// TestCase is one row loaded from the spreadsheet, normalized to
// the canonical field names filestore's column remap produces.
type TestCase struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Precondition  string `json:"precondition"`
	Steps         string `json:"steps"`
	Expected      string `json:"expected"`
	Priority      string `json:"priority"`
}

// FieldEvaluation is one row of the LLM's per-case Markdown table:
// one of 用例标题/前置条件/步骤描述/预期结果, its original content, a 0-10 score, and a
// suggestion.
type FieldEvaluation struct {
	Field      string `json:"field"`
	Content    string `json:"content"`
	Score      int    `json:"score"`
	Suggestion string `json:"suggestion"`
}

// CaseEvaluation is one test case's evaluated result. Evaluations is empty
// and ParseError is set when the batch reply's table for this case could
// not be parsed (recorded as a ParseError, not fatal).
type CaseEvaluation struct {
	CaseID      string            `json:"case_id"`
	BatchIndex  int               `json:"batch_index"`
	Evaluations []FieldEvaluation `json:"evaluations"`
	ParseError  string            `json:"parse_error,omitempty"`
}

// BatchError records one batch's API failure ("per-batch failures
// are recorded ... evaluation of subsequent batches proceeds").
type BatchError struct {
	BatchIndex int    `json:"batch_index"`
	Message    string `json:"message"`
}

// PriorityBucket is one priority label's observed share and compliance
// against the rubric.
type PriorityBucket struct {
	Count      int     `json:"count"`
	Percent    float64 `json:"percent"`
	Compliant  bool    `json:"is_compliant"`
	Rule       rubric.PriorityRange `json:"rule"`
}

// PriorityAnalysis is the aggregate priority-mix compliance report.
type PriorityAnalysis struct {
	Distribution map[string]PriorityBucket `json:"distribution"`
	AllCompliant bool                      `json:"all_compliant"`
}

// Result is the evaluation's full output, persisted via filestore to
// local_data/Proceed_TestCase_<timestamp>.json.
type Result struct {
	RunID       string           `json:"run_id"`
	Evaluations []CaseEvaluation `json:"evaluations"`
	TotalCases  int              `json:"total_cases"`
	StartedAt   time.Time        `json:"started_at"`
	EndedAt     time.Time        `json:"ended_at"`
	Priority    PriorityAnalysis `json:"priority_analysis"`
	Rubric      rubric.Config    `json:"rubric_snapshot"`
	BatchErrors []BatchError     `json:"batch_errors,omitempty"`
}
