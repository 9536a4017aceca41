package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"issuelens/internal/apiclient"
	"issuelens/internal/errs"
	"issuelens/internal/evaluator"
	"issuelens/internal/filestore"
	"issuelens/internal/metrics"
	"issuelens/internal/rubric"
)

var (
	evaluateSpreadsheet string
	evaluateWindow      int
	evaluateEndpoint    string
	evaluateModel       string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <test-cases.xlsx>",
	Short: "score a spreadsheet of test cases against the rubric and requirement knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cases, err := evaluator.LoadTestCases(args[0])
		if err != nil {
			return printResult(fail(err))
		}

		rc, err := rubric.LoadConfig(paths.RubricPath())
		if err != nil {
			return printResult(fail(err))
		}
		reqs, err := rubric.LoadRequirements(paths.RequirementKBPath())
		if err != nil {
			return printResult(fail(err))
		}

		window := evaluateWindow
		if window <= 0 {
			window = cfg.Tokens.EvaluatorWindow
		}
		endpoint := evaluateEndpoint
		if endpoint == "" {
			endpoint = cfg.LLM.Endpoint
		}
		model := evaluateModel
		if model == "" && apiclient.DetectProvider(endpoint).Name == "deepseek" {
			model = cfg.LLM.Model
		}

		metrics.EvaluationRunsTotal.Inc()
		res, err := evaluator.Evaluate(cmd.Context(), cases, rc, reqs, evaluator.Options{
			ContextWindow: window,
			Endpoint:      endpoint,
			Model:         model,
		})
		if err != nil {
			return printResult(fail(err))
		}
		metrics.EvaluationBatchErrorsTotal.Add(float64(len(res.BatchErrors)))

		outPath := paths.DataFile(fmt.Sprintf("local_data/Proceed_TestCase_%s.json", time.Now().UTC().Format("20060102T150405Z")))
		if err := filestore.SaveJSON(outPath, res); err != nil {
			return printResult(fail(err))
		}

		return printResult(errs.Success(map[string]interface{}{
			"result": res,
			"path":   outPath,
		}))
	},
}

func init() {
	evaluateCmd.Flags().IntVar(&evaluateWindow, "window", 0, "LLM context-window size W (0 uses config default)")
	evaluateCmd.Flags().StringVar(&evaluateEndpoint, "endpoint", "", "LLM endpoint override (empty uses config default)")
	evaluateCmd.Flags().StringVar(&evaluateModel, "model", "", "LLM model override (empty uses the detected provider's default)")
	rootCmd.AddCommand(evaluateCmd)
}
