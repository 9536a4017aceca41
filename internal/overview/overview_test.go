package overview

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

	"issuelens/internal/apiclient"
	"issuelens/internal/dataset"
)

func record(kind dataset.Kind, id, title, created string) dataset.Record {
	return dataset.Record{Kind: kind, Fields: map[string]interface{}{
		"id": id, "title": title, "created": created, "status": "open",
	}}
}

func fakeLLMServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerateEmptyRange(t *testing.T) {
	d := &dataset.Dataset{
		Stories: []dataset.Record{record(dataset.KindStory, "S1", "s", "2025-01-01 00:00:00")},
	}
	client := apiclient.New(time.Second)
	res, err := Generate(context.Background(), d, client, Options{Since: "2030-01-01", Until: "2030-01-02"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Groups)
	assert.Equal(t, "No records in the requested time range.", res.Digest)
}

func TestGenerateSingleCallFitsBudget(t *testing.T) {
	srv := fakeLLMServer(t, "Digest: one story and one bug, both open.")
	defer srv.Close()
	os.Setenv("DS_KEY", "test-key")
	defer os.Unsetenv("DS_KEY")

	d := &dataset.Dataset{
		Stories: []dataset.Record{record(dataset.KindStory, "S1", "订单列表分页", "2025-01-01 00:00:00")},
		Bugs:    []dataset.Record{record(dataset.KindBug, "B1", "支付回调超时", "2025-01-01 00:00:00")},
	}
	client := apiclient.New(5 * time.Second)
	res, err := Generate(context.Background(), d, client, Options{Endpoint: srv.URL, Budget: 12000})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Groups)
	assert.Equal(t, 1, res.StoriesConsidered)
	assert.Equal(t, 1, res.BugsConsidered)
	assert.Contains(t, res.Digest, "Digest")
}

func TestGenerateSplitsWhenOverBudget(t *testing.T) {
	srv := fakeLLMServer(t, "summary paragraph")
	defer srv.Close()
	os.Setenv("DS_KEY", "test-key")
	defer os.Unsetenv("DS_KEY")

	var stories []dataset.Record
	for i := 0; i < 50; i++ {
		stories = append(stories, record(dataset.KindStory, "S", "a fairly long title describing story work item number", "2025-01-01 00:00:00"))
	}
	d := &dataset.Dataset{Stories: stories}
	client := apiclient.New(5 * time.Second)
	res, err := Generate(context.Background(), d, client, Options{Endpoint: srv.URL, Budget: 300})
	require.NoError(t, err)
	assert.Greater(t, res.Groups, 1)
}
