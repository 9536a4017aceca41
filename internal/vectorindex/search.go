package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"issuelens/internal/embedding"
	"issuelens/internal/errs"
	"issuelens/internal/logging"
)

// Index is an immutable, loaded snapshot of one build's sidecars, ready
// for brute-force queries. Load it once per query operation; a rebuild
// swaps the files on disk but never mutates an already-loaded Index.
type Index struct {
	Descriptor Descriptor
	Metadata   []ChunkMetadata
	Vectors    [][]float32
}

// Load reads the three sidecars at base and validates their invariants:
// len(metadata) == len(vectors), and,
// when expectedDim > 0, that the stored dimension matches it.
func Load(base string, expectedDim int) (*Index, error) {
	indexPath, metadataPath, configPath := basePaths(base)

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, errs.InputMissing(base, err)
		}
		return nil, fmt.Errorf("vectorindex: stat %s: %w", configPath, err)
	}

	if _, err := os.Stat(indexPath); err != nil {
		return nil, errs.IndexCorrupt(base, err)
	}

	var descriptor Descriptor
	if err := loadDescriptor(configPath, &descriptor); err != nil {
		return nil, errs.IndexCorrupt(base, err)
	}

	metadata, err := readMetadataLines(metadataPath)
	if err != nil {
		return nil, errs.IndexCorrupt(base, err)
	}

	vectors, err := readVectors(indexPath)
	if err != nil {
		return nil, errs.IndexCorrupt(base, err)
	}

	if len(metadata) != len(vectors) || len(metadata) != descriptor.ChunkCount {
		return nil, errs.IndexCorrupt(base, fmt.Errorf(
			"metadata rows=%d, vector rows=%d, descriptor chunk_count=%d must all agree",
			len(metadata), len(vectors), descriptor.ChunkCount))
	}

	if expectedDim > 0 && descriptor.ChunkCount > 0 && descriptor.VectorDimension != expectedDim {
		return nil, errs.IndexIncompatible(base, descriptor.VectorDimension, expectedDim)
	}

	logging.Index("Load: %s -> %d chunks (model=%s, dim=%d)", base, descriptor.ChunkCount, descriptor.ModelName, descriptor.VectorDimension)
	return &Index{Descriptor: descriptor, Metadata: metadata, Vectors: vectors}, nil
}

func loadDescriptor(path string, out *Descriptor) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// StatsAt reads only the descriptor at base, without loading vectors or
// metadata — the supplemented standalone "stats" operation.
func StatsAt(base string) (Stats, error) {
	_, _, configPath := basePaths(base)
	var d Descriptor
	if err := loadDescriptor(configPath, &d); err != nil {
		if os.IsNotExist(err) {
			return Stats{}, errs.InputMissing(base, err)
		}
		return Stats{}, errs.IndexCorrupt(base, err)
	}
	return Stats{
		ModelName:       d.ModelName,
		ChunkCount:      d.ChunkCount,
		VectorDimension: d.VectorDimension,
		CreatedAt:       d.CreatedAt,
	}, nil
}

// Search embeds query with engine.Embed (no query-specific task type is
// selected), L2-normalizes it, and
// returns the top-k chunks by inner product against idx's vectors —
// exactly cosine similarity, since both sides are unit-length (scores
// land in [-1, 1]).
func Search(ctx context.Context, idx *Index, engine embedding.EmbeddingEngine, query string, k int) ([]SearchResult, error) {
	if k <= 0 {
		k = 10
	}

	vec, err := engine.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: embed query: %w", err)
	}
	vec = l2Normalize(vec)

	results := make([]SearchResult, 0, len(idx.Vectors))
	for i, v := range idx.Vectors {
		score, err := innerProduct(vec, v)
		if err != nil {
			continue
		}
		results = append(results, SearchResult{Score: score, Metadata: idx.Metadata[i]})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	logging.IndexDebug("Search: query=%q k=%d -> %d results", query, k, len(results))
	return results, nil
}

func innerProduct(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectorindex: dimension mismatch %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum, nil
}
