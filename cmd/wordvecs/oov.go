package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/unixpickle/wordvecs"
)

func NewOOVCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oov <model> <corpus>",
		Short: "Report vocabulary coverage of a corpus",
		Long: `Tokenize a text corpus and report how many of its tokens the
model can embed, along with the most common missing tokens.`,
		Args: cobra.ExactArgs(2),
		RunE: makeOOVRunner(a),
	}
	cmd.Flags().IntP("number", "n", 10, "Number of missing tokens to list")
	cmd.Flags().Bool("lowercase", false, "Lowercase tokens")
	cmd.Flags().Bool("drop-punctuation", false, "Drop punctuation instead of splitting it off")
	return cmd
}

func makeOOVRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		model, err := a.loadModel(args[0])
		if err != nil {
			return err
		}
		defer model.Close()

		tok := &wordvecs.Tokenizer{}
		tok.Lowercase, _ = cmd.Flags().GetBool("lowercase")
		if drop, _ := cmd.Flags().GetBool("drop-punctuation"); drop {
			tok.PunctuationMode = wordvecs.DropPunctuation
		}

		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		counts, err := wordvecs.CountTokens(f, tok)
		if err != nil {
			return fmt.Errorf("count tokens: %w", err)
		}

		n, _ := cmd.Flags().GetInt("number")
		oov := counts.OutOfVocabulary(model)
		coverage := counts.Coverage(model)
		missing := oov.MostCommon(n)
		a.logger.Debug("counted tokens", "unique", len(counts), "missing", len(oov))

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			top := make([]map[string]any, 0, len(missing))
			for _, w := range missing {
				top = append(top, map[string]any{"token": w, "count": oov[w]})
			}
			return outputJSON(cmd, map[string]any{
				"coverage":   coverage,
				"unique":     len(counts),
				"oov_unique": len(oov),
				"oov":        top,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "coverage: %.4f (%d of %d unique tokens missing)\n",
			coverage, len(oov), len(counts))
		for _, w := range missing {
			fmt.Fprintf(out, "%8d  %s\n", oov[w], w)
		}
		return nil
	}
}
