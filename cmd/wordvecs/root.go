package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/unixpickle/wordvecs"
)

// app is the state shared by all commands, set up before
// any of them runs.
type app struct {
	cfg    *Config
	logger *slog.Logger
}

func NewRootCmd(version string) *cobra.Command {
	a := &app{cfg: DefaultConfig(), logger: slog.Default()}

	rootCmd := &cobra.Command{
		Use:           "wordvecs",
		Short:         "Query pretrained word embeddings",
		Long:          `Look up, compare and convert word embeddings in finalfusion, word2vec, fastText and text formats.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	rootCmd.AddCommand(
		NewInfoCmd(a),
		NewEmbedCmd(a),
		NewSimilarCmd(a),
		NewAnalogyCmd(a),
		NewOOVCmd(a),
		NewConvertCmd(a),
	)
	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("format", "f", "", "Model format (default from config, else native_binary)")
	cmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output")
}

func (a *app) setup(cmd *cobra.Command) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	path, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		cfg.Format, _ = cmd.Flags().GetString("format")
	}
	a.cfg = cfg
	a.logger.Debug("configured", "config", path, "format", cfg.Format)
	return nil
}

func (a *app) loadModel(path string) (*wordvecs.Model, error) {
	format, err := wordvecs.ParseFormat(a.cfg.Format)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	model, err := wordvecs.Load(path, format)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded model",
		"path", path,
		"format", format,
		"words", model.WordsLen(),
		"rows", model.Len(),
		"dims", model.Dims(),
		"elapsed", time.Since(start))
	return model, nil
}

// searchFlags adds the flags shared by search commands.
func searchFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("number", "n", 0, "Maximum results (default from config)")
	cmd.Flags().StringP("metric", "m", "", "Similarity metric (default from config)")
	cmd.Flags().Int("batch-size", 0, "Rows scored per batch")
}

// searchOptions merges the config with the search flags.
func (a *app) searchOptions(cmd *cobra.Command, extra ...wordvecs.Option) (wordvecs.SearchOptions, error) {
	metricName := a.cfg.Metric
	if cmd.Flags().Changed("metric") {
		metricName, _ = cmd.Flags().GetString("metric")
	}
	metric, err := wordvecs.ParseMetric(metricName)
	if err != nil {
		return wordvecs.SearchOptions{}, err
	}

	opts := []wordvecs.Option{
		wordvecs.Limit(a.cfg.Limit),
		wordvecs.SimilarityType(metric),
		wordvecs.BatchSize(a.cfg.BatchSize),
	}
	if cmd.Flags().Changed("number") {
		n, _ := cmd.Flags().GetInt("number")
		opts = append(opts, wordvecs.Limit(n))
	}
	if cmd.Flags().Changed("batch-size") {
		n, _ := cmd.Flags().GetInt("batch-size")
		opts = append(opts, wordvecs.BatchSize(n))
	}
	opts = append(opts, extra...)
	return wordvecs.FoldOptions(opts), nil
}

func outputResults(cmd *cobra.Command, results []wordvecs.Result) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		out := make([]map[string]any, 0, len(results))
		for _, r := range results {
			out = append(out, map[string]any{
				"word":  r.Word,
				"score": r.Score,
			})
		}
		return outputJSON(cmd, out)
	}

	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%.4f  %s\n", r.Score, r.Word)
	}
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatVector(vec []float32) string {
	var res []byte
	for i, x := range vec {
		if i > 0 {
			res = append(res, ' ')
		}
		res = fmt.Appendf(res, "%g", x)
	}
	return string(res)
}
