package main

import (
	"github.com/spf13/cobra"

	"issuelens/internal/errs"
	"issuelens/internal/filestore"
	"issuelens/internal/keywords"
)

var (
	keywordsDataset  string
	keywordsExtended bool
	keywordsMinFreq  int
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "tokenize the dataset and report ranked term frequencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := filestore.LoadDataset(paths.DataFile(keywordsDataset))
		if err != nil {
			return printResult(fail(err))
		}

		fields := keywords.FieldSetCore
		if keywordsExtended {
			fields = keywords.FieldSetExtended
		}

		result := keywords.Analyze(d, fields, keywordsMinFreq)
		return printResult(errs.Success(result))
	},
}

func init() {
	keywordsCmd.Flags().StringVar(&keywordsDataset, "dataset", "local_data/issues.json", "project-relative path to the canonical issue dataset")
	keywordsCmd.Flags().BoolVar(&keywordsExtended, "extended", false, "use the extended field set instead of core (title+description only)")
	keywordsCmd.Flags().IntVar(&keywordsMinFreq, "min-frequency", 5, "minimum occurrence count for a token to count as high-frequency")
	rootCmd.AddCommand(keywordsCmd)
}
