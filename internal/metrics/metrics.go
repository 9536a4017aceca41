// Package metrics exposes a small set of prometheus counters/histograms on
// issuelens's longer-running CLI operations (index build, test-case
// evaluation), optionally served over HTTP — a standalone, optional
// surface, not itself part of any operation's output (scope excludes
// the tool-invocation transport; this is purely an operator-facing
// side-channel).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	IndexBuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "issuelens_index_builds_total",
		Help: "Number of vector index builds attempted.",
	})
	IndexBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "issuelens_index_build_duration_seconds",
		Help: "Wall-clock duration of vector index builds.",
	})
	EvaluationRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "issuelens_evaluation_runs_total",
		Help: "Number of test-case evaluation runs attempted.",
	})
	EvaluationBatchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "issuelens_evaluation_batch_errors_total",
		Help: "Number of per-batch errors (failed LLM calls or prompt builds) across all evaluation runs; per-case parse errors are not counted.",
	})
)

func init() {
	registry.MustRegister(
		IndexBuildsTotal,
		IndexBuildDuration,
		EvaluationRunsTotal,
		EvaluationBatchErrorsTotal,
	)
}

// Serve starts a /metrics HTTP endpoint on addr. It blocks; callers run it
// in its own goroutine, the way one-off operator tooling in the pack spins
// up a side-channel prometheus server alongside its main work.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
