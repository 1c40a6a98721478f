package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/unixpickle/wordvecs"
)

func NewEmbedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed <model> <word>...",
		Short: "Print word embeddings",
		Long: `Print the embedding of each word.

With --mean, print the average embedding of the words instead.
With --text, the words are joined and tokenized first.`,
		Args: cobra.MinimumNArgs(2),
		RunE: makeEmbedRunner(a),
	}
	cmd.Flags().Bool("mean", false, "Print the mean embedding of all words")
	cmd.Flags().Bool("text", false, "Tokenize the arguments as text and print their mean embedding")
	cmd.Flags().Bool("lowercase", false, "Lowercase tokens when using --text")
	return cmd
}

func makeEmbedRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		model, err := a.loadModel(args[0])
		if err != nil {
			return err
		}
		defer model.Close()

		words := args[1:]
		mean, _ := cmd.Flags().GetBool("mean")
		text, _ := cmd.Flags().GetBool("text")
		if mean || text {
			var vec []float32
			var coverage float32
			if text {
				lower, _ := cmd.Flags().GetBool("lowercase")
				tok := &wordvecs.Tokenizer{Lowercase: lower}
				vec, coverage, err = model.MeanEmbeddingText(strings.Join(words, " "), tok)
			} else {
				vec, coverage, err = model.MeanEmbeddingBatch(words)
			}
			if err != nil {
				return err
			}
			a.logger.Debug("mean embedding", "coverage", coverage)
			return outputMean(cmd, vec, coverage)
		}

		vecs, found := model.EmbeddingBatch(words)
		return outputEmbeddings(cmd, words, vecs, found)
	}
}

func outputMean(cmd *cobra.Command, vec []float32, coverage float32) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return outputJSON(cmd, map[string]any{
			"embedding": vec,
			"coverage":  coverage,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "coverage: %.4f\n%s\n", coverage, formatVector(vec))
	return nil
}

func outputEmbeddings(cmd *cobra.Command, words []string, vecs [][]float32, found []bool) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		out := make([]map[string]any, 0, len(words))
		for i, w := range words {
			entry := map[string]any{"word": w, "found": found[i]}
			if found[i] {
				entry["embedding"] = vecs[i]
			}
			out = append(out, entry)
		}
		return outputJSON(cmd, out)
	}

	out := cmd.OutOrStdout()
	for i, w := range words {
		if !found[i] {
			fmt.Fprintf(out, "%s (not found)\n", w)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", w, formatVector(vecs[i]))
	}
	return nil
}
