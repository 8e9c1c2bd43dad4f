package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <word>...",
	Short: "Show edition membership and definitions for words",
	Long: `Look up one or more words and display:
  - Whether each tracked edition contains the word
  - Its definitions, with the part of speech

Words are lowercased before lookup. Unknown words are reported as
not found rather than as an error.

Example:
  bananas lookup ka
  bananas lookup qi za ok`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg, newLogger(cfg, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	styled := isTerminal(out)

	for i, arg := range args {
		word, err := store.Lookup(strings.ToLower(strings.TrimSpace(arg)))
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		printWord(out, word, store.Editions(), styled)
	}
	return nil
}
