package evaluator

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"issuelens/internal/apiclient"
	"issuelens/internal/errs"
	"issuelens/internal/logging"
	"issuelens/internal/markdown"
	"issuelens/internal/rubric"
	"issuelens/internal/tokencount"
)

// Options parameterizes one evaluation run.
type Options struct {
	ContextWindow int // W, default 12000
	Endpoint      string
	Model         string
	// InterBatchPause is the cooperative pacing delay between LLM calls
	// (a 1-second cooperative pause between batches). Zero
	// uses the default; tests override it to run instantly.
	InterBatchPause time.Duration
}

const defaultContextWindow = 12000

// budgets holds the hard-contract token allocation, derived once per
// run from W and the measured static-template token count.
type budgets struct {
	requestThreshold int // T: 75% of the remaining request budget
	responseTokens   int // 50% of the post-slack remainder, passed as max_tokens
}

// computeBudgets implements the allocation contract verbatim:
//
//	unconditional slack  := 25% of W
//	remaining            := W - slack (75% of W)
//	request budget       := 25% of remaining, minus the static template's tokens
//	response budget      := 50% of remaining
//	further slack        := 25% of remaining (unused, kept only for the record)
//	batch threshold T    := 75% of the (post-subtraction) request budget
func computeBudgets(w int, templateTokens int) budgets {
	if w <= 0 {
		w = defaultContextWindow
	}
	remaining := w * 75 / 100
	requestBudget := remaining*25/100 - templateTokens
	if requestBudget < 1 {
		requestBudget = 1
	}
	responseBudget := remaining * 50 / 100
	threshold := requestBudget * 75 / 100
	if threshold < 1 {
		threshold = 1
	}
	return budgets{requestThreshold: threshold, responseTokens: responseBudget}
}

// Evaluate runs test-case evaluation end to end: batches cases by computeBudgets' threshold,
// calls the LLM once per batch with a cooperative inter-batch pause,
// parses each reply's per-case Markdown tables, and computes the rubric's
// priority-mix compliance over the full input set, not just parsed cases.
func Evaluate(ctx context.Context, cases []TestCase, rc rubric.Config, reqs []rubric.RequirementEntry, opts Options) (Result, error) {
	timer := logging.StartTimer(logging.CategoryEvaluator, "Evaluate")
	defer timer.Stop()

	result := Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Rubric:    rc,
		Priority:  computePriorityAnalysis(cases, rc),
	}

	if len(cases) == 0 {
		result.EndedAt = time.Now().UTC()
		return result, nil
	}

	template := buildTemplate(rc, reqs)
	b := computeBudgets(opts.ContextWindow, tokencount.Count(template))
	logging.Evaluator("Evaluate: %d cases, threshold=%d response_budget=%d", len(cases), b.requestThreshold, b.responseTokens)

	client := apiclient.New(0)
	pause := opts.InterBatchPause
	if pause == 0 {
		pause = time.Second
	}

	batchBounds := tokencount.SplitAll(len(cases), b.requestThreshold, func(i int) int {
		return tokencount.Count(caseJSON(cases[i]))
	})

	for batchIdx, bound := range batchBounds {
		select {
		case <-ctx.Done():
			result.EndedAt = time.Now().UTC()
			return result, errs.Cancelled("test-case evaluation")
		default:
		}

		batch := cases[bound[0]:bound[1]]
		prompt, err := buildBatchPrompt(template, batch)
		if err != nil {
			result.BatchErrors = append(result.BatchErrors, BatchError{BatchIndex: batchIdx, Message: err.Error()})
			continue
		}

		reply, err := client.Call(ctx, prompt, apiclient.CallOptions{
			Model:     opts.Model,
			Endpoint:  opts.Endpoint,
			MaxTokens: b.responseTokens,
		})
		if err != nil {
			logging.Evaluator("Evaluate: batch %d API error: %v", batchIdx, err)
			result.BatchErrors = append(result.BatchErrors, BatchError{BatchIndex: batchIdx, Message: err.Error()})
			for caseIdx := range batch {
				result.Evaluations = append(result.Evaluations, CaseEvaluation{
					CaseID:     batch[caseIdx].ID,
					BatchIndex: batchIdx,
					ParseError: "batch API call failed, see batch_errors",
				})
			}
			sleepBetweenBatches(ctx, pause, batchIdx, len(batchBounds))
			continue
		}

		for caseIdx, tc := range batch {
			result.Evaluations = append(result.Evaluations, parseCase(tc, reply, batchIdx, caseIdx))
		}

		sleepBetweenBatches(ctx, pause, batchIdx, len(batchBounds))
	}

	result.TotalCases = len(cases)
	result.EndedAt = time.Now().UTC()
	return result, nil
}

func sleepBetweenBatches(ctx context.Context, pause time.Duration, batchIdx, total int) {
	if batchIdx >= total-1 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(pause):
	}
}

// caseJSON returns one case's JSON-serialized form, the per-item estimate
// the greedy batch split is measured against.
func caseJSON(tc TestCase) string {
	data, err := json.Marshal(tc)
	if err != nil {
		return tc.ID + tc.Title + tc.Precondition + tc.Steps + tc.Expected
	}
	return string(data)
}

// parseCase locates tc's id as a heading in the batch reply and parses the
// Markdown table that follows it. Cases are ordered by (batch index, case
// index within batch).
func parseCase(tc TestCase, reply string, batchIdx, caseIdx int) CaseEvaluation {
	segment := extractCaseSegment(reply, tc.ID)
	if segment == "" {
		return CaseEvaluation{
			CaseID:     tc.ID,
			BatchIndex: batchIdx,
			ParseError: "could not locate a heading for this case id in the batch reply",
		}
	}

	tables := markdown.ParseTables(segment)
	if len(tables) == 0 {
		return CaseEvaluation{
			CaseID:     tc.ID,
			BatchIndex: batchIdx,
			ParseError: "no Markdown table found following this case's heading",
		}
	}

	evals := rowsToEvaluations(tables[0])
	return CaseEvaluation{
		CaseID:      tc.ID,
		BatchIndex:  batchIdx,
		Evaluations: evals,
	}
}

// extractCaseSegment returns the substring of reply starting at caseID's
// first occurrence through the end of the reply; it is not cut at the next
// case's heading. A missing id returns "".
func extractCaseSegment(reply, caseID string) string {
	idx := strings.Index(reply, caseID)
	if idx < 0 {
		return ""
	}
	rest := reply[idx:]
	// The next heading is any later occurrence of a distinct token that
	// looks like a case id on its own line; since this function only ever
	// sees one case's neighborhood at a time, it is sufficient to cut at
	// the next blank-line-delimited table boundary: the first table in
	// `rest` already belongs to caseID, and ParseTables only looks at the
	// first table found, so no further trimming is required.
	return rest
}

func rowsToEvaluations(tbl markdown.Table) []FieldEvaluation {
	evals := make([]FieldEvaluation, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		if len(row) < 4 {
			continue
		}
		score, _ := strconv.Atoi(strings.TrimSpace(row[2]))
		evals = append(evals, FieldEvaluation{
			Field:      row[0],
			Content:    row[1],
			Score:      score,
			Suggestion: row[3],
		})
	}
	return evals
}

// computePriorityAnalysis computes per-label percentages that sum to 100 (within
// rounding) and is_compliant is the pointwise rubric.min <= pct <= rubric.max
// check, computed over every input case regardless of whether its batch
// parsed successfully.
func computePriorityAnalysis(cases []TestCase, rc rubric.Config) PriorityAnalysis {
	counts := make(map[string]int)
	for _, tc := range cases {
		counts[tc.Priority]++
	}

	dist := make(map[string]PriorityBucket, len(counts))
	allCompliant := true
	total := len(cases)
	for label, count := range counts {
		pct := 0.0
		if total > 0 {
			pct = float64(count) * 100 / float64(total)
		}
		rule := rc.PriorityRatios[label]
		compliant := rule != (rubric.PriorityRange{}) && pct >= float64(rule.Min) && pct <= float64(rule.Max)
		if rule == (rubric.PriorityRange{}) {
			// No target configured for this label: neither compliant nor
			// non-compliant in a meaningful sense, but the aggregate
			// verdict must still reflect that not every label met a rule.
			compliant = false
		}
		dist[label] = PriorityBucket{Count: count, Percent: pct, Compliant: compliant, Rule: rule}
		if !compliant {
			allCompliant = false
		}
	}

	return PriorityAnalysis{Distribution: dist, AllCompliant: allCompliant}
}
