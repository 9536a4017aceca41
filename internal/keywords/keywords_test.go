package keywords

import (
	"testing"

	"issuelens/internal/dataset"
)

func rec(kind dataset.Kind, title, description string) dataset.Record {
	return dataset.Record{Kind: kind, Fields: map[string]interface{}{
		"title":       title,
		"description": description,
	}}
}

func TestTokenizeSplitsHanRunsAndKeepsLatinWhole(t *testing.T) {
	toks := tokenize("订单列表分页 Order API v2")
	want := []string{"订单列表分页", "order", "api", "v2"}
	if len(toks) != len(want) {
		t.Fatalf("tokenize: got %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Fatalf("tokenize[%d] = %q, want %q", i, toks[i], want[i])
		}
	}
}

func TestKeepDropsSingleCharsDigitsAndStopWords(t *testing.T) {
	cases := map[string]bool{
		"a":    false,
		"1234": false,
		"的":    false,
		"the":  false,
		"订单":   true,
		"order": true,
	}
	for tok, want := range cases {
		if got := keep(tok); got != want {
			t.Errorf("keep(%q) = %v, want %v", tok, got, want)
		}
	}
}

func TestAnalyzeCountsAndBins(t *testing.T) {
	d := &dataset.Dataset{
		Stories: []dataset.Record{
			rec(dataset.KindStory, "订单列表分页", "订单列表分页 测试 测试 测试"),
			rec(dataset.KindStory, "订单详情页", "订单详情页 加载 很慢"),
		},
		Bugs: []dataset.Record{
			rec(dataset.KindBug, "支付回调超时", "支付 回调 超时 测试"),
		},
	}

	result := Analyze(d, FieldSetCore, 2)

	if result.TotalTokens == 0 {
		t.Fatal("expected non-zero total tokens")
	}

	var testCount int
	for _, tc := range result.Top20Tokens {
		if tc.Token == "测试" {
			testCount = tc.Count
		}
	}
	if testCount < 2 {
		t.Fatalf("expected 测试 to repeat at least twice, got %d in top20: %+v", testCount, result.Top20Tokens)
	}

	var foundHigh bool
	for _, tc := range result.HighFrequencyTokens {
		if tc.Count < 2 {
			t.Fatalf("high-frequency token %q has count %d < min_frequency 2", tc.Token, tc.Count)
		}
		foundHigh = true
	}
	if !foundHigh {
		t.Fatal("expected at least one high-frequency token")
	}

	sum := 0
	for _, c := range result.FrequencyDistribution {
		sum += c
	}
	if sum != result.UniqueTokens {
		t.Fatalf("frequency distribution bins sum to %d, want %d (unique token count)", sum, result.UniqueTokens)
	}

	if test, ok := result.CategoryKeywords["test"]; !ok || len(test) == 0 {
		t.Fatalf("expected the 'test' category to include 测试, got %+v", result.CategoryKeywords["test"])
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	d := &dataset.Dataset{
		Stories: []dataset.Record{rec(dataset.KindStory, "订单列表分页", "订单 分页 测试")},
	}
	a := Analyze(d, FieldSetCore, 1)
	b := Analyze(d, FieldSetCore, 1)
	if a.TotalTokens != b.TotalTokens || a.UniqueTokens != b.UniqueTokens {
		t.Fatalf("Analyze is not idempotent: %+v vs %+v", a, b)
	}
}

func TestAnalyzeEmptyDatasetSucceeds(t *testing.T) {
	result := Analyze(&dataset.Dataset{}, FieldSetCore, 1)
	if result.TotalTokens != 0 || result.UniqueTokens != 0 || len(result.HighFrequencyTokens) != 0 {
		t.Fatalf("expected zero counts for an empty dataset, got %+v", result)
	}
}

func TestExtendedFieldSetIncludesStatusAndPriority(t *testing.T) {
	r := dataset.Record{Kind: dataset.KindBug, Fields: map[string]interface{}{
		"title":    "登录失败",
		"priority": "紧急处理",
	}}
	d := &dataset.Dataset{Bugs: []dataset.Record{r}}

	core := Analyze(d, FieldSetCore, 1)
	extended := Analyze(d, FieldSetExtended, 1)
	if extended.TotalTokens <= core.TotalTokens {
		t.Fatalf("expected extended field set to tokenize more text than core: core=%d extended=%d", core.TotalTokens, extended.TotalTokens)
	}
}
