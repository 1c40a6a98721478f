package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unixpickle/wordvecs"
)

func NewConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a model to another format",
		Long: `Read a model in the input format (--format) and write it in the
output format (--to).

Models can be written as native_binary, word2vec_binary, plain_text,
plain_text_with_dims or floret_text. Floret models have no words, so
they can only be written as native_binary or floret_text.`,
		Example: `  wordvecs convert -f word2vec vectors.bin vectors.fifu
  wordvecs convert -f floret --to floret vectors.floret copy.floret`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			toName, _ := cmd.Flags().GetString("to")
			to, err := wordvecs.ParseFormat(toName)
			if err != nil {
				return err
			}

			model, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			defer model.Close()

			if err := model.Save(args[1], to); err != nil {
				return err
			}
			a.logger.Info("converted model", "from", args[0], "to", args[1], "format", to)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d words to %s\n", model.WordsLen(), args[1])
			return nil
		},
	}
	cmd.Flags().String("to", wordvecs.NativeBinary.String(), "Output format")
	return cmd
}
