package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"issuelens/internal/embedding"
	"issuelens/internal/errs"
	"issuelens/internal/filestore"
	"issuelens/internal/metrics"
	"issuelens/internal/vectorindex"
)

var (
	indexName      string
	indexChunkSize int
	indexDataset   string
	searchTopK     int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "build and query the semantic-search vector index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "chunk the dataset, embed every chunk, and persist the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := filestore.LoadDataset(paths.DataFile(indexDataset))
		if err != nil {
			return printResult(fail(err))
		}

		engine, err := embedding.NewEngine(embeddingConfig())
		if err != nil {
			return printResult(fail(err))
		}

		chunkSize := indexChunkSize
		if chunkSize <= 0 {
			chunkSize = cfg.Index.ChunkSize
		}

		metrics.IndexBuildsTotal.Inc()
		start := time.Now()
		stats, err := vectorindex.Build(cmd.Context(), paths.VectorIndexBase(indexName), d, chunkSize, engine)
		metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			return printResult(fail(err))
		}

		return printResult(errs.Success(stats))
	},
}

var indexQueryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "top-k semantic search against a built index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := embedding.NewEngine(embeddingConfig())
		if err != nil {
			return printResult(fail(err))
		}

		idx, err := vectorindex.Load(paths.VectorIndexBase(indexName), engine.Dimensions())
		if err != nil {
			return printResult(fail(err))
		}

		results, err := vectorindex.Search(cmd.Context(), idx, engine, args[0], searchTopK)
		if err != nil {
			return printResult(fail(err))
		}

		return printResult(errs.Success(results))
	},
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "report chunk count, vector dimension, and total records for a built index",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := vectorindex.StatsAt(paths.VectorIndexBase(indexName))
		if err != nil {
			return printResult(fail(err))
		}
		return printResult(errs.Success(stats))
	},
}

func embeddingConfig() embedding.Config {
	ec := embedding.Config{
		Provider:       cfg.Embedding.Provider,
		OllamaEndpoint: cfg.Embedding.OllamaEndpoint,
		OllamaModel:    cfg.Embedding.OllamaModel,
		GenAIAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GenAIModel:     cfg.Embedding.GenAIModel,
		TaskType:       cfg.Embedding.TaskType,
		ModelsRoot:     paths.ModelsDir(),
	}
	return ec
}

func init() {
	indexCmd.PersistentFlags().StringVar(&indexName, "name", "issues", "vector index base name under local_data/vector_data/")
	indexBuildCmd.Flags().IntVar(&indexChunkSize, "chunk-size", 0, "records per chunk (0 uses config default)")
	indexBuildCmd.Flags().StringVar(&indexDataset, "dataset", "local_data/issues.json", "project-relative path to the canonical issue dataset")
	indexQueryCmd.Flags().IntVar(&searchTopK, "top-k", 10, "number of results to return")

	indexCmd.AddCommand(indexBuildCmd, indexQueryCmd, indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}
