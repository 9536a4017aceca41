package vectorindex

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"issuelens/internal/dataset"
	"issuelens/internal/errs"
)

// fakeEngine embeds text deterministically by hashing characters into a
// small fixed-dimension vector, just enough for cosine-similarity
// ordering to be meaningful in tests without a real model.
type fakeEngine struct{ dim int }

func (f *fakeEngine) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, f.dim)
	for _, r := range text {
		v[int(r)%f.dim]++
	}
	return v, nil
}

func (f *fakeEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEngine) Dimensions() int { return f.dim }
func (f *fakeEngine) Name() string    { return "fake-test-engine" }

func storyRecord(id, title string) dataset.Record {
	return dataset.Record{Kind: dataset.KindStory, Fields: map[string]interface{}{"id": id, "title": title}}
}

func bugRecord(id, title string) dataset.Record {
	return dataset.Record{Kind: dataset.KindBug, Fields: map[string]interface{}{"id": id, "title": title}}
}

func TestBuildQueryScenario(t *testing.T) {
	d := &dataset.Dataset{
		Stories: []dataset.Record{
			storyRecord("S1", "订单列表分页"),
			storyRecord("S2", "订单详情页加载慢"),
		},
		Bugs: []dataset.Record{
			bugRecord("B1", "支付回调超时"),
		},
	}

	base := filepath.Join(t.TempDir(), "test-index")
	engine := &fakeEngine{dim: 32}

	stats, err := Build(context.Background(), base, d, 2, engine)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.ChunkCount != 2 {
		t.Fatalf("expected 2 chunks (1 story chunk + 1 bug chunk), got %d", stats.ChunkCount)
	}

	idx, err := Load(base, engine.Dimensions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(idx.Metadata) != 2 || len(idx.Vectors) != 2 {
		t.Fatalf("expected 2 metadata/vector rows, got %d/%d", len(idx.Metadata), len(idx.Vectors))
	}
	if idx.Metadata[0].Kind != dataset.KindStory || idx.Metadata[0].ItemCount != 2 {
		t.Fatalf("expected first chunk to be the 2-record story chunk, got %+v", idx.Metadata[0])
	}
	if idx.Metadata[1].Kind != dataset.KindBug || idx.Metadata[1].ItemCount != 1 {
		t.Fatalf("expected second chunk to be the 1-record bug chunk, got %+v", idx.Metadata[1])
	}

	results, err := Search(context.Background(), idx, engine, "订单", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Score < -1 || r.Score > 1 {
			t.Fatalf("score out of [-1,1]: %v", r.Score)
		}
	}
	if results[0].Metadata.Kind != dataset.KindStory {
		t.Fatalf("expected the story chunk to rank first for a 订单 query, got %+v", results[0].Metadata)
	}
}

func TestBuildEmptyDatasetSucceeds(t *testing.T) {
	base := filepath.Join(t.TempDir(), "empty-index")
	engine := &fakeEngine{dim: 8}

	stats, err := Build(context.Background(), base, &dataset.Dataset{}, 10, engine)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.ChunkCount != 0 {
		t.Fatalf("expected 0 chunks, got %d", stats.ChunkCount)
	}

	idx, err := Load(base, engine.Dimensions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(idx.Metadata) != 0 || len(idx.Vectors) != 0 {
		t.Fatalf("expected empty metadata/vectors, got %d/%d", len(idx.Metadata), len(idx.Vectors))
	}
}

func TestSearchMissingIndexIsInputMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"), 8)
	ce, ok := errs.As(err)
	if !ok || ce.Kind != errs.KindInputMissing {
		t.Fatalf("expected KindInputMissing, got %v", err)
	}
}

func TestRebuildYieldsSameChunkIDs(t *testing.T) {
	d := &dataset.Dataset{Stories: []dataset.Record{storyRecord("S1", "订单列表分页")}}
	engine := &fakeEngine{dim: 16}

	base1 := filepath.Join(t.TempDir(), "idx1")
	base2 := filepath.Join(t.TempDir(), "idx2")

	if _, err := Build(context.Background(), base1, d, 10, engine); err != nil {
		t.Fatalf("Build 1: %v", err)
	}
	if _, err := Build(context.Background(), base2, d, 10, engine); err != nil {
		t.Fatalf("Build 2: %v", err)
	}

	idx1, _ := Load(base1, engine.Dimensions())
	idx2, _ := Load(base2, engine.Dimensions())
	if idx1.Metadata[0].ChunkID != idx2.Metadata[0].ChunkID {
		t.Fatalf("expected stable chunk ids across rebuilds: %q != %q", idx1.Metadata[0].ChunkID, idx2.Metadata[0].ChunkID)
	}
	if idx1.Metadata[0].DebugTag == idx2.Metadata[0].DebugTag {
		t.Fatalf("expected DebugTag to vary across rebuilds (it is a non-semantic uuid)")
	}
}

func TestStatsAt(t *testing.T) {
	d := &dataset.Dataset{Stories: []dataset.Record{storyRecord("S1", "t")}}
	base := filepath.Join(t.TempDir(), "stats-index")
	engine := &fakeEngine{dim: 8}
	if _, err := Build(context.Background(), base, d, 10, engine); err != nil {
		t.Fatalf("Build: %v", err)
	}
	stats, err := StatsAt(base)
	if err != nil {
		t.Fatalf("StatsAt: %v", err)
	}
	if stats.ChunkCount != 1 || !strings.Contains(stats.ModelName, "fake") {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
