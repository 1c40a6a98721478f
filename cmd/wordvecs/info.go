package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func NewInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <model>",
		Short: "Show model information",
		Long:  `Show the dimensionality, size and metadata of a model.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			defer model.Close()

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return outputJSON(cmd, map[string]any{
					"dims":      model.Dims(),
					"len":       model.Len(),
					"words_len": model.WordsLen(),
					"vocab_len": model.VocabLen(),
					"metadata":  model.Metadata(),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dims:      %d\n", model.Dims())
			fmt.Fprintf(out, "len:       %d\n", model.Len())
			fmt.Fprintf(out, "words:     %d\n", model.WordsLen())
			fmt.Fprintf(out, "vocab len: %d\n", model.VocabLen())

			metadata := model.Metadata()
			if len(metadata) == 0 {
				return nil
			}
			keys := make([]string, 0, len(metadata))
			for k := range metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(out, "metadata:")
			for _, k := range keys {
				fmt.Fprintf(out, "  %s = %v\n", k, metadata[k])
			}
			return nil
		},
	}
}
