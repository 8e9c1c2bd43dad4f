package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errWordAbsent = errors.New("word not found")

var checkCmd = &cobra.Command{
	Use:   "check <word>",
	Short: "Check whether a word is playable",
	Long: `Check a single word against the tracked editions.

Prints yes or no per edition. The exit status is 0 when the word is in
the dataset and 1 when it is not, so the command can be used in scripts:

  bananas check qi && echo playable`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg, newLogger(cfg, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer store.Close()

	name := strings.ToLower(strings.TrimSpace(args[0]))
	ok, err := store.Exists(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !ok {
		for _, e := range store.Editions() {
			fmt.Fprintf(out, "%s\t%s\n", e.ID, yesNo(false))
		}
		// Exit status carries the answer; no error text.
		cmd.SilenceErrors = true
		return errWordAbsent
	}

	word, err := store.Lookup(name)
	if err != nil {
		return err
	}
	for _, e := range store.Editions() {
		fmt.Fprintf(out, "%s\t%s\n", e.ID, yesNo(word.InEdition(e.ID)))
	}
	return nil
}
