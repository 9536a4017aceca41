package vectorindex

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"issuelens/internal/dataset"
	"issuelens/internal/embedding"
	"issuelens/internal/errs"
	"issuelens/internal/filestore"
	"issuelens/internal/logging"
)

// Build implements the index build contract: chunk the dataset, embed every
// chunk in one batch, L2-normalize, and write the three sidecar files
// under base. Writing happens to temp paths first and is swapped into
// place only once every sidecar has been produced successfully, so a
// failed build never leaves the previous index half-overwritten.
func Build(ctx context.Context, base string, d *dataset.Dataset, chunkSize int, engine embedding.EmbeddingEngine) (Stats, error) {
	timer := logging.StartTimer(logging.CategoryIndex, "Build")
	defer timer.Stop()

	var chunks []ChunkMetadata
	chunks = append(chunks, buildChunks(dataset.KindStory, d.Stories, chunkSize)...)
	chunks = append(chunks, buildChunks(dataset.KindBug, d.Bugs, chunkSize)...)

	logging.Index("Build: %d stories, %d bugs, chunk_size=%d -> %d chunks", len(d.Stories), len(d.Bugs), chunkSize, len(chunks))

	dimension := engine.Dimensions()
	vectors := make([][]float32, 0, len(chunks))
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}
		embedded, err := engine.EmbedBatch(ctx, texts)
		if err != nil {
			if ctx.Err() != nil {
				return Stats{}, errs.Cancelled("index build")
			}
			return Stats{}, fmt.Errorf("vectorindex: embed batch: %w", err)
		}
		for _, v := range embedded {
			vectors = append(vectors, l2Normalize(v))
		}
		if len(vectors) > 0 {
			dimension = len(vectors[0])
		}
	}

	indexPath, metadataPath, configPath := basePaths(base)
	tmpIndex, tmpMetadata, tmpConfig := indexPath+".tmp", metadataPath+".tmp", configPath+".tmp"
	defer os.Remove(tmpIndex)
	defer os.Remove(tmpMetadata)
	defer os.Remove(tmpConfig)

	if err := writeVectors(tmpIndex, vectors); err != nil {
		return Stats{}, err
	}
	if err := writeMetadataLines(tmpMetadata, chunks); err != nil {
		return Stats{}, err
	}

	descriptor := Descriptor{
		ModelName:        engine.Name(),
		ChunkCount:       len(chunks),
		VectorDimension:  dimension,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
		MetadataEncoding: "jsonl",
	}
	if err := filestore.SaveJSON(tmpConfig, descriptor); err != nil {
		return Stats{}, err
	}

	for _, pair := range [][2]string{{tmpIndex, indexPath}, {tmpMetadata, metadataPath}, {tmpConfig, configPath}} {
		if err := os.Rename(pair[0], pair[1]); err != nil {
			return Stats{}, fmt.Errorf("vectorindex: swap %s into place: %w", pair[1], err)
		}
	}

	logging.Index("Build: wrote %d chunks (dimension=%d) to %s", len(chunks), dimension, base)
	return Stats{
		ModelName:       descriptor.ModelName,
		ChunkCount:      descriptor.ChunkCount,
		VectorDimension: descriptor.VectorDimension,
		CreatedAt:       descriptor.CreatedAt,
	}, nil
}

func writeMetadataLines(path string, chunks []ChunkMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vectorindex: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, c := range chunks {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("vectorindex: encode metadata: %w", err)
		}
	}
	return w.Flush()
}

func readMetadataLines(path string) ([]ChunkMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []ChunkMetadata
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c ChunkMetadata
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("vectorindex: decode metadata line: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, scanner.Err()
}

// l2Normalize returns a copy of v scaled to unit length. A zero vector is
// returned unchanged (its similarity to anything is defined as 0 by
// internal/embedding.CosineSimilarity).
func l2Normalize(v []float32) []float32 {
	var sumSq float64
	for _, f := range v {
		sumSq += float64(f) * float64(f)
	}
	if sumSq == 0 {
		return append([]float32(nil), v...)
	}
	norm := math.Sqrt(sumSq)
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}
