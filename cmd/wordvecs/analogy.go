package main

import (
	"github.com/spf13/cobra"
)

func NewAnalogyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analogy <model> <word1> <word2> <word3>",
		Short: "Answer word analogies",
		Long: `Find the words that are to word3 as word2 is to word1.

The query words are excluded from the results unless they are
listed with --keep.`,
		Example: `  wordvecs analogy model.fifu man king woman`,
		Args:    cobra.ExactArgs(4),
		RunE:    makeAnalogyRunner(a),
	}
	searchFlags(cmd)
	cmd.Flags().StringSlice("keep", nil, "Query words which may appear in the results")
	return cmd
}

func makeAnalogyRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		opts, err := a.searchOptions(cmd)
		if err != nil {
			return err
		}

		model, err := a.loadModel(args[0])
		if err != nil {
			return err
		}
		defer model.Close()

		keep, _ := cmd.Flags().GetStringSlice("keep")
		kept := map[string]bool{}
		for _, w := range keep {
			kept[w] = true
		}
		var words [3]string
		var mask [3]bool
		for i := range words {
			words[i] = args[i+1]
			mask[i] = !kept[words[i]]
		}

		results, err := model.AnalogyMasked(words, mask, opts)
		if err != nil {
			return err
		}
		return outputResults(cmd, results)
	}
}
