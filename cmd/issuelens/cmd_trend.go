package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"issuelens/internal/dataset"
	"issuelens/internal/errs"
	"issuelens/internal/filestore"
	"issuelens/internal/trend"
)

var (
	trendDataset string
	trendKind    string
	trendChart   string
	trendField   string
	trendSince   string
	trendUntil   string
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "group the dataset by day and dimension, writing a chart file",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := filestore.LoadDataset(paths.DataFile(trendDataset))
		if err != nil {
			return printResult(fail(err))
		}

		kind := dataset.KindStory
		if trendKind == "bug" {
			kind = dataset.KindBug
		}

		since, err := parseOptionalDate(trendSince)
		if err != nil {
			return printResult(fail(errs.InputMalformed("--since", "since", err)))
		}
		until, err := parseOptionalDate(trendUntil)
		if err != nil {
			return printResult(fail(errs.InputMalformed("--until", "until", err)))
		}

		res, err := trend.Render(cmd.Context(), paths.TimeTrendDir(), d, kind, trend.ChartKind(trendChart), trend.TimeField(trendField), since, until)
		if err != nil {
			return printResult(fail(err))
		}

		return printResult(errs.Success(res))
	},
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD: %w", err)
	}
	return &t, nil
}

func init() {
	trendCmd.Flags().StringVar(&trendDataset, "dataset", "local_data/issues.json", "project-relative path to the canonical issue dataset")
	trendCmd.Flags().StringVar(&trendKind, "kind", "story", "story or bug")
	trendCmd.Flags().StringVar(&trendChart, "chart", "count", "count, priority, or status")
	trendCmd.Flags().StringVar(&trendField, "field", "created", "created, modified, begin, or due")
	trendCmd.Flags().StringVar(&trendSince, "since", "", "inclusive start date, YYYY-MM-DD")
	trendCmd.Flags().StringVar(&trendUntil, "until", "", "inclusive end date, YYYY-MM-DD")
	rootCmd.AddCommand(trendCmd)
}
