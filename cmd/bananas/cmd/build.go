package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bananas-dict/bananas/internal/dataset"
	"github.com/bananas-dict/bananas/internal/lexicon"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <senses.csv>",
	Short: "Build a dataset from a CSV of word senses",
	Long: `Build the SQLite dataset every other command reads.

The CSV needs a header row with the columns word, definition, pos and
edition (in any order). Each row is one sense of one word in one edition.
Senses of the same word are merged; the edition column must name an
edition id from the config.

Encodings:
  legacy   text:code;text:code (rejects ':' and ';' inside senses)
  json     [{"text": ..., "pos": ...}]

Example:
  bananas build senses.csv
  bananas build senses.csv --out words.sqlite --encoding json`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().String("out", "", "output file (default is dataset.path from the config)")
	buildCmd.Flags().String("encoding", lexicon.EncodingLegacy, "definitions encoding: legacy or json")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.Dataset.Path
	}
	encoding, _ := cmd.Flags().GetString("encoding")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening senses: %w", err)
	}
	defer f.Close()

	senses, err := dataset.ReadSenses(f)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	start := time.Now()
	stats, err := dataset.Build(out, cfg.Editions, senses, dataset.BuildOptions{
		Encoding: encoding,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Built %s in %s\n", out, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(w, "  %d words, %d senses\n", stats.Words, stats.Senses)
	for _, e := range cfg.Editions {
		fmt.Fprintf(w, "  %-10s %d words\n", e.ID, stats.PerEdition[e.ID])
	}
	return nil
}
