package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bananas-dict/bananas/internal/dataset"
	"github.com/spf13/cobra"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess <edition>=<defs.json>...",
	Short: "Turn NASPA definition files into a senses CSV",
	Long: `Resolve NASPA definition files into the CSV that 'bananas build' reads.

Each argument pairs an edition id from the config with a definitions file
of the form {"words": [[word, root, pos, num, definition], ...]}.

Derived forms whose definition is a "< ROOT" reference inherit the
definition of their root. Definitions lose their '*' and '#' markers and
parts of speech are written with spaces ("verb past participle").

Example:
  bananas preprocess nwl2020=nwl2020-defs.json nwl2023=nwl2023-defs.json --out senses.csv
  bananas build senses.csv --encoding json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreprocess,
}

func init() {
	rootCmd.AddCommand(preprocessCmd)
	preprocessCmd.Flags().StringP("out", "o", "", "output file (default is stdout)")
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	known := make(map[string]bool, len(cfg.Editions))
	for _, e := range cfg.Editions {
		known[e.ID] = true
	}

	var senses []dataset.Sense
	for _, arg := range args {
		edition, path, ok := strings.Cut(arg, "=")
		if !ok || edition == "" || path == "" {
			return fmt.Errorf("argument %q: want <edition>=<defs.json>", arg)
		}
		if !known[edition] {
			return fmt.Errorf("argument %q: unknown edition %q", arg, edition)
		}

		entries, err := readEntries(path)
		if err != nil {
			return err
		}
		resolved, stats := dataset.Resolve(entries, edition)
		senses = append(senses, resolved...)

		logger.Info("edition resolved",
			slog.String("edition", edition),
			slog.Int("roots", stats.Roots),
			slog.Int("derived", stats.Derived),
			slog.Int("unresolved", stats.Unresolved),
		)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return dataset.WriteSenses(cmd.OutOrStdout(), senses)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := dataset.WriteSenses(f, senses); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readEntries(path string) ([]dataset.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening definitions: %w", err)
	}
	defer f.Close()

	entries, err := dataset.ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
