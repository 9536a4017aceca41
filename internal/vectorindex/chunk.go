package vectorindex

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"issuelens/internal/dataset"
	"issuelens/internal/textextract"
)

// buildChunks splits records of one kind into consecutive groups of up to
// chunkSize, computing each chunk's canonical text and deterministic id.
// Chunk indices start at 0 for each call, since stories and bugs are
// chunked independently.
func buildChunks(kind dataset.Kind, records []dataset.Record, chunkSize int) []ChunkMetadata {
	if chunkSize <= 0 {
		chunkSize = 10
	}

	var chunks []ChunkMetadata
	for start := 0; start < len(records); start += chunkSize {
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}
		group := records[start:end]

		text := textextract.ProjectAll(group)
		ids := make([]string, len(group))
		for i, r := range group {
			ids[i] = r.ID()
		}

		idx := len(chunks)
		chunks = append(chunks, ChunkMetadata{
			ChunkID:    chunkID(kind, idx, text),
			DebugTag:   uuid.NewString(),
			Kind:       kind,
			ChunkIndex: idx,
			ItemIDs:    ids,
			ItemCount:  len(group),
			Original:   append([]dataset.Record(nil), group...),
			Text:       text,
		})
	}
	return chunks
}

// chunkID derives a stable identifier from kind, chunk index, and a content
// hash, so rebuilding the same dataset with the same K yields the same ids
// even though DebugTag changes on every build.
func chunkID(kind dataset.Kind, index int, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s-%04d-%s", kind, index, hex.EncodeToString(sum[:])[:12])
}
