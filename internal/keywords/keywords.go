// Package keywords implements tokenizing the dataset's text into ranked
// term frequencies. There is no CJK word-segmentation library anywhere in
// the retrieved example pack (no jieba/gse equivalent; the one segmenter
// that did turn up, blevesearch/segment, walks Unicode text-segmentation
// boundaries rather than Chinese words and does not match the
// "split Han-script runs into multi-character terms" rule), so the
// tokenizer below is a direct rune-range implementation, grounded on the
// stdlib unicode package rather than any pack dependency.
package keywords

import (
	"sort"
	"strings"
	"unicode"

	"issuelens/internal/dataset"
	"issuelens/internal/logging"
)

// FieldSet selects which string fields of a record feed the tokenizer.
type FieldSet int

const (
	// FieldSetCore covers the title and description only.
	FieldSetCore FieldSet = iota
	// FieldSetExtended adds status, priority, creator/reporter, severity,
	// and iteration on top of the core fields.
	FieldSetExtended
)

// Result is the keyword analysis output document.
type Result struct {
	TotalTokens           int                 `json:"total_tokens"`
	UniqueTokens          int                 `json:"unique_tokens"`
	HighFrequencyTokens   []TokenCount        `json:"high_frequency_tokens"`
	FrequencyDistribution map[string]int      `json:"frequency_distribution"`
	Top20Tokens           []TokenCount        `json:"top_20_tokens"`
	CategoryKeywords      map[string][]string `json:"category_keywords"`
}

// TokenCount pairs a term with its occurrence count.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// frequencyBins are the fixed bin labels, checked widest-first.
var frequencyBins = []struct {
	label string
	min   int
}{
	{"100+", 100},
	{"50-99", 50},
	{"20-49", 20},
	{"10-19", 10},
	{"5-9", 5},
	{"1-4", 1},
}

// categoryVocabulary is the small fixed set of category labels and the
// literal vocabulary that puts a high-frequency token into that category,
// extended to the bilingual issue-tracker vocabulary this repo actually
// projects.
var categoryVocabulary = map[string][]string{
	"defect":      {"defect", "bug", "缺陷", "故障", "异常"},
	"requirement": {"requirement", "需求", "story", "功能"},
	"module":      {"module", "模块", "组件", "component"},
	"user":        {"user", "用户", "客户", "account"},
	"test":        {"test", "测试", "用例", "case"},
}

// Analyze tokenizes the selected fields of every record,
// filter, and produce frequency statistics. Running Analyze twice over the
// same dataset and parameters returns identical counts since
// tokenization and stop-list filtering are pure functions of the input
// text.
func Analyze(d *dataset.Dataset, fields FieldSet, minFrequency int) Result {
	counts := make(map[string]int)
	total := 0

	for _, kind := range []dataset.Kind{dataset.KindStory, dataset.KindBug} {
		for _, r := range d.Records(kind) {
			text := selectedText(r, fields)
			for _, tok := range tokenize(text) {
				if !keep(tok) {
					continue
				}
				counts[tok]++
				total++
			}
		}
	}

	ordered := make([]TokenCount, 0, len(counts))
	for tok, c := range counts {
		ordered = append(ordered, TokenCount{Token: tok, Count: c})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Count != ordered[j].Count {
			return ordered[i].Count > ordered[j].Count
		}
		return ordered[i].Token < ordered[j].Token
	})

	high := make([]TokenCount, 0)
	for _, tc := range ordered {
		if tc.Count >= minFrequency {
			high = append(high, tc)
		}
	}

	top20 := ordered
	if len(top20) > 20 {
		top20 = top20[:20]
	}

	dist := make(map[string]int, len(frequencyBins))
	for _, b := range frequencyBins {
		dist[b.label] = 0
	}
	for _, tc := range ordered {
		dist[binFor(tc.Count)]++
	}

	categories := make(map[string][]string, len(categoryVocabulary))
	for label, vocab := range categoryVocabulary {
		var matched []string
		for _, tc := range high {
			if matchesVocabulary(tc.Token, vocab) {
				matched = append(matched, tc.Token)
			}
		}
		categories[label] = matched
	}

	logging.Keywords("Analyze: %d tokens, %d unique, %d high-frequency (min=%d)", total, len(counts), len(high), minFrequency)

	return Result{
		TotalTokens:           total,
		UniqueTokens:          len(counts),
		HighFrequencyTokens:   high,
		FrequencyDistribution: dist,
		Top20Tokens:           top20,
		CategoryKeywords:      categories,
	}
}

func binFor(count int) string {
	for _, b := range frequencyBins {
		if count >= b.min {
			return b.label
		}
	}
	return frequencyBins[len(frequencyBins)-1].label
}

func matchesVocabulary(token string, vocab []string) bool {
	for _, v := range vocab {
		if token == v || strings.Contains(token, v) {
			return true
		}
	}
	return false
}

func selectedText(r dataset.Record, fields FieldSet) string {
	parts := []string{r.Title(), r.Description()}
	if fields == FieldSetExtended {
		parts = append(parts, r.Status(), r.Priority(), r.Creator(), r.Severity(), r.Iteration())
	}
	return strings.Join(parts, " ")
}

// tokenize splits text into Han-script runs (each run becomes one
// multi-character term) and Latin/digit tokens (kept whole), discarding
// everything else (punctuation, whitespace) as a separator.
func tokenize(text string) []string {
	var tokens []string
	var buf []rune
	var bufIsHan bool

	flush := func() {
		if len(buf) == 0 {
			return
		}
		tokens = append(tokens, string(buf))
		buf = buf[:0]
	}

	for _, r := range text {
		switch {
		case isHan(r):
			if len(buf) > 0 && !bufIsHan {
				flush()
			}
			bufIsHan = true
			buf = append(buf, r)
		case isLatinOrDigit(r):
			if len(buf) > 0 && bufIsHan {
				flush()
			}
			bufIsHan = false
			buf = append(buf, unicode.ToLower(r))
		default:
			flush()
		}
	}
	flush()
	return tokens
}

func isHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

func isLatinOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// keep drops single characters, pure-digit tokens, and stop-list entries.
func keep(tok string) bool {
	runes := []rune(tok)
	if len(runes) <= 1 {
		return false
	}
	if isAllDigits(tok) {
		return false
	}
	if stopWords[tok] {
		return false
	}
	return true
}

func isAllDigits(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
