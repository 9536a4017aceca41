package evaluator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuelens/internal/rubric"
)

func sampleRubric() rubric.Config {
	return rubric.Config{
		TitleMaxLength: 60,
		MaxSteps:       10,
		PriorityRatios: map[string]rubric.PriorityRange{
			"P0": {Min: 10, Max: 20},
			"P1": {Min: 60, Max: 70},
			"P2": {Min: 10, Max: 30},
		},
	}
}

func caseTableReply(caseID string) string {
	return caseID + "\n\n" +
		"| 字段 | 内容 | 评分(0-10) | 建议 |\n" +
		"| --- | --- | --- | --- |\n" +
		"| 用例标题 | 登录页面加载 | 8 | 无 |\n" +
		"| 前置条件 | 已打开浏览器 | 9 | 无 |\n" +
		"| 步骤描述 | 输入账号密码点击登录 | 7 | 补充异常分支 |\n" +
		"| 预期结果 | 成功进入首页 | 8 | 无 |\n"
}

func TestComputePriorityAnalysisCompliant(t *testing.T) {
	cases := make([]TestCase, 0, 20)
	for i := 0; i < 2; i++ {
		cases = append(cases, TestCase{ID: "p0", Priority: "P0"})
	}
	for i := 0; i < 14; i++ {
		cases = append(cases, TestCase{ID: "p1", Priority: "P1"})
	}
	for i := 0; i < 4; i++ {
		cases = append(cases, TestCase{ID: "p2", Priority: "P2"})
	}

	analysis := computePriorityAnalysis(cases, sampleRubric())
	assert.True(t, analysis.AllCompliant)
	assert.InDelta(t, 10.0, analysis.Distribution["P0"].Percent, 0.001)
	assert.InDelta(t, 70.0, analysis.Distribution["P1"].Percent, 0.001)
	assert.InDelta(t, 20.0, analysis.Distribution["P2"].Percent, 0.001)

	sum := 0.0
	for _, b := range analysis.Distribution {
		sum += b.Percent
	}
	assert.InDelta(t, 100.0, sum, 0.001)
}

func TestEvaluateEmptyCases(t *testing.T) {
	res, err := Evaluate(context.Background(), nil, sampleRubric(), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalCases)
	assert.Empty(t, res.Evaluations)
}

func TestEvaluateSingleBatchParsesTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": caseTableReply("TC-001") + "\n\n" + caseTableReply("TC-002")}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	os.Setenv("DS_KEY", "test-key")
	defer os.Unsetenv("DS_KEY")

	cases := []TestCase{
		{ID: "TC-001", Title: "登录页面加载", Priority: "P0"},
		{ID: "TC-002", Title: "订单详情页加载", Priority: "P1"},
	}

	res, err := Evaluate(context.Background(), cases, sampleRubric(), nil, Options{
		Endpoint:        srv.URL,
		InterBatchPause: time.Millisecond,
	})
	require.NoError(t, err)
	require.Len(t, res.Evaluations, 2)
	assert.Equal(t, "TC-001", res.Evaluations[0].CaseID)
	require.Len(t, res.Evaluations[0].Evaluations, 4)
	assert.Equal(t, 8, res.Evaluations[0].Evaluations[0].Score)
	assert.Empty(t, res.Evaluations[0].ParseError)
	assert.NotEmpty(t, res.RunID)
}

func TestEvaluateUnparseableReplyRecordsNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "sorry, I can't help with that."}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	os.Setenv("DS_KEY", "test-key")
	defer os.Unsetenv("DS_KEY")

	cases := []TestCase{{ID: "TC-404", Title: "x", Priority: "P1"}}
	res, err := Evaluate(context.Background(), cases, sampleRubric(), nil, Options{
		Endpoint:        srv.URL,
		InterBatchPause: time.Millisecond,
	})
	require.NoError(t, err)
	require.Len(t, res.Evaluations, 1)
	assert.Empty(t, res.Evaluations[0].Evaluations)
	assert.NotEmpty(t, res.Evaluations[0].ParseError)
}

func TestComputeBudgetsMatchesContract(t *testing.T) {
	b := computeBudgets(12000, 500)
	// remaining = 9000; requestBudget = 2250-500=1750; threshold=1312 (75% of 1750)
	assert.Equal(t, 4500, b.responseTokens)
	assert.Equal(t, 1312, b.requestThreshold)
}
