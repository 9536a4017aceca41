// Package vectorindex implements chunking an issue dataset, embedding
// the chunks, and persisting a flat inner-product index with sidecar
// metadata, answering brute-force top-k queries against it.
//
// Storage is grounded on internal/store/local_vector.go and
// internal/store/vec_compat.go's approach to vectors-in-sqlite: a
// modernc.org/sqlite (cgo-free) database holding one BLOB-encoded float32
// row per chunk, in chunk order, decoded with the same
// encoding/binary.LittleEndian convention vec_compat.go's decodeFloat32
// uses. There is no ANN virtual table here: a flat inner-product index,
// which a brute-force scan over the BLOB rows already is, fits this
// dataset's scale, so the vec0 compatibility shim is not wired in (see
// DESIGN.md).
package vectorindex

import "issuelens/internal/dataset"

// ChunkMetadata describes one chunk in the index; index row i corresponds
// to metadata entry i.
type ChunkMetadata struct {
	ChunkID   string          `json:"chunk_id"`
	DebugTag  string          `json:"debug_tag"` // google/uuid, non-semantic
	Kind      dataset.Kind    `json:"kind"`
	ChunkIndex int            `json:"chunk_index"`
	ItemIDs   []string        `json:"item_ids"`
	ItemCount int             `json:"item_count"`
	Original  []dataset.Record `json:"original_items"`
	Text      string          `json:"text"`
}

// Descriptor is the <base>.config.json sidecar.
type Descriptor struct {
	ModelName        string `json:"model_name"`
	ChunkCount       int    `json:"chunk_count"`
	VectorDimension  int    `json:"vector_dimension"`
	CreatedAt        string `json:"created_at"`
	MetadataEncoding string `json:"metadata_encoding"` // always "jsonl" here
}

// SearchResult is one row of a query response.
type SearchResult struct {
	Score    float64       `json:"score"`
	Metadata ChunkMetadata `json:"chunk_metadata"`
}

// Stats summarizes an index without loading its vectors into memory,
// exposed standalone as a lightweight "stats" operation.
type Stats struct {
	ModelName       string `json:"model_name"`
	ChunkCount      int    `json:"chunk_count"`
	VectorDimension int    `json:"vector_dimension"`
	CreatedAt       string `json:"created_at"`
}

func basePaths(base string) (indexPath, metadataPath, configPath string) {
	return base + ".index", base + ".metadata.jsonl", base + ".config.json"
}
