package embedding

import "issuelens/internal/logging"

// =============================================================================
// TASK TYPE SELECTION
// =============================================================================

// GenAI's embedding models accept a task_type hint that biases the resulting
// vector geometry toward the intended use. issuelens only ever embeds two
// kinds of text against the same index: the chunk text written at build time
// and the query text read at search time, so the selection collapses to a
// single boolean.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

// SelectTaskType returns the GenAI task type for an embedding call. isQuery
// is true when embedding a search query; false when
// embedding chunk text during an index build.
func SelectTaskType(isQuery bool) string {
	if isQuery {
		logging.EmbeddingDebug("SelectTaskType: query embedding -> %s", TaskTypeQuery)
		return TaskTypeQuery
	}
	logging.EmbeddingDebug("SelectTaskType: document embedding -> %s", TaskTypeDocument)
	return TaskTypeDocument
}
