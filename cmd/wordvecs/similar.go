package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/unixpickle/wordvecs"
)

func NewSimilarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <model> <word>",
		Short: "Find the most similar words",
		Long: `Find the words most similar to a word.

With --vector, the remaining arguments are the components of
a query embedding instead of a word.`,
		Example: `  wordvecs similar model.fifu king -n 5
  wordvecs similar model.fifu --vector 0.1 0.2 0.3`,
		Args: cobra.MinimumNArgs(2),
		RunE: makeSimilarRunner(a),
	}
	searchFlags(cmd)
	cmd.Flags().Bool("vector", false, "Treat the arguments as an embedding")
	cmd.Flags().StringSlice("skip", nil, "Words to exclude from the results")
	return cmd
}

func makeSimilarRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetStringSlice("skip")
		opts, err := a.searchOptions(cmd, wordvecs.Skip(skip))
		if err != nil {
			return err
		}

		model, err := a.loadModel(args[0])
		if err != nil {
			return err
		}
		defer model.Close()

		var results []wordvecs.Result
		if vector, _ := cmd.Flags().GetBool("vector"); vector {
			vec, err := parseVector(args[1:])
			if err != nil {
				return err
			}
			results, err = model.EmbeddingSimilarity(vec, opts)
			if err != nil {
				return err
			}
		} else {
			if len(args) != 2 {
				return fmt.Errorf("expected exactly one word, got %d", len(args)-1)
			}
			results, err = model.WordSimilarity(args[1], opts)
			if err != nil {
				return err
			}
		}
		return outputResults(cmd, results)
	}
}

func parseVector(args []string) ([]float32, error) {
	vec := make([]float32, len(args))
	for i, arg := range args {
		x, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return nil, fmt.Errorf("parse component %d: %w", i, err)
		}
		vec[i] = float32(x)
	}
	return vec, nil
}
