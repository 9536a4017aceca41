package main

import (
	"time"

	"github.com/spf13/cobra"

	"issuelens/internal/apiclient"
	"issuelens/internal/errs"
	"issuelens/internal/filestore"
	"issuelens/internal/overview"
)

var (
	overviewDataset  string
	overviewSince    string
	overviewUntil    string
	overviewBudget   int
	overviewEndpoint string
	overviewModel    string
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "produce a short LLM digest of a time-filtered slice of the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := filestore.LoadDataset(paths.DataFile(overviewDataset))
		if err != nil {
			return printResult(fail(err))
		}

		budget := overviewBudget
		if budget <= 0 {
			budget = cfg.Tokens.OverviewBudget
		}
		endpoint := overviewEndpoint
		if endpoint == "" {
			endpoint = cfg.LLM.Endpoint
		}
		model := overviewModel
		if model == "" && apiclient.DetectProvider(endpoint).Name == "deepseek" {
			model = cfg.LLM.Model
		}

		client := apiclient.New(time.Duration(cfg.LLM.TimeoutSeconds) * time.Second)
		res, err := overview.Generate(cmd.Context(), d, client, overview.Options{
			Since:    overviewSince,
			Until:    overviewUntil,
			Budget:   budget,
			Endpoint: endpoint,
			Model:    model,
		})
		if err != nil {
			return printResult(fail(err))
		}

		return printResult(errs.Success(res))
	},
}

func init() {
	overviewCmd.Flags().StringVar(&overviewDataset, "dataset", "local_data/issues.json", "project-relative path to the canonical issue dataset")
	overviewCmd.Flags().StringVar(&overviewSince, "since", "", "inclusive start date, YYYY-MM-DD")
	overviewCmd.Flags().StringVar(&overviewUntil, "until", "", "inclusive end date, YYYY-MM-DD")
	overviewCmd.Flags().IntVar(&overviewBudget, "budget", 0, "max total tokens (0 uses config default)")
	overviewCmd.Flags().StringVar(&overviewEndpoint, "endpoint", "", "LLM endpoint override (empty uses config default)")
	overviewCmd.Flags().StringVar(&overviewModel, "model", "", "LLM model override (empty uses the detected provider's default)")
	rootCmd.AddCommand(overviewCmd)
}
