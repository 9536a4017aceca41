package evaluator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"issuelens/internal/rubric"
)

// staticTemplate is the fixed portion of every batch prompt: rubric
// thresholds plus a compact rendering of the requirement knowledge base.
// Its measured token count must be subtracted from the
// request budget before the batch threshold is derived, so buildTemplate
// and buildBatchPrompt share this exact text — what gets measured is what
// gets sent.
func buildTemplate(rc rubric.Config, reqs []rubric.RequirementEntry) string {
	var b strings.Builder
	b.WriteString("You are a QA reviewer scoring software test cases against a rubric. ")
	b.WriteString("For each test case below, evaluate its four fields — 用例标题 (title), ")
	b.WriteString("前置条件 (precondition), 步骤描述 (steps), 预期结果 (expected result) — against this rubric:\n\n")
	fmt.Fprintf(&b, "- title must be at most %d characters\n", rc.TitleMaxLength)
	fmt.Fprintf(&b, "- the step description must describe at most %d steps\n", rc.MaxSteps)
	b.WriteString("- target priority mix across the whole set:\n")
	for _, label := range sortedPriorityLabels(rc.PriorityRatios) {
		r := rc.PriorityRatios[label]
		fmt.Fprintf(&b, "  - %s: %d%%-%d%%\n", label, r.Min, r.Max)
	}

	if len(reqs) > 0 {
		b.WriteString("\nKnown requirements this test suite should trace to:\n")
		for _, r := range reqs {
			fmt.Fprintf(&b, "- [%s] %s (priority %s): %s\n", r.ID, r.Title, r.Priority, r.Description)
		}
	}

	b.WriteString("\nFor EACH test case, print its case id as a heading, then a Markdown table with\n")
	b.WriteString("exactly these rows (one per field) and these columns:\n\n")
	b.WriteString("| 字段 | 内容 | 评分(0-10) | 建议 |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	b.WriteString("| 用例标题 | <original title> | <0-10> | <suggestion or 无> |\n")
	b.WriteString("| 前置条件 | <original precondition> | <0-10> | <suggestion or 无> |\n")
	b.WriteString("| 步骤描述 | <original steps> | <0-10> | <suggestion or 无> |\n")
	b.WriteString("| 预期结果 | <original expected> | <0-10> | <suggestion or 无> |\n")
	b.WriteString("\nTest cases to evaluate (JSON array):\n")
	return b.String()
}

func sortedPriorityLabels(m map[string]rubric.PriorityRange) []string {
	labels := make([]string, 0, len(m))
	for k := range m {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// buildBatchPrompt appends one batch's JSON-serialized test cases to the
// static template, leaving the case payload as a placeholder filled per batch.
func buildBatchPrompt(template string, batch []TestCase) (string, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("evaluator: marshal batch: %w", err)
	}
	return template + string(data), nil
}
