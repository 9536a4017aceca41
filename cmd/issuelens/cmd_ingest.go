package main

import (
	"github.com/spf13/cobra"

	"issuelens/internal/dataset"
	"issuelens/internal/errs"
	"issuelens/internal/filestore"
)

var ingestOutput string

var ingestCmd = &cobra.Command{
	Use:   "ingest <input-dataset.json>",
	Short: "load a dataset document and persist it as the canonical issue dataset, replacing any prior one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var d dataset.Dataset
		if err := filestore.LoadJSON(args[0], &d); err != nil {
			return printResult(fail(err))
		}

		outPath := paths.DataFile(ingestOutput)
		if err := filestore.SaveDataset(outPath, &d); err != nil {
			return printResult(fail(err))
		}

		return printResult(errs.Success(map[string]interface{}{
			"path":    outPath,
			"stories": len(d.Stories),
			"bugs":    len(d.Bugs),
		}))
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOutput, "output", "local_data/issues.json", "project-relative path for the persisted dataset")
	rootCmd.AddCommand(ingestCmd)
}
