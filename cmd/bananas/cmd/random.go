package cmd

import (
	"github.com/spf13/cobra"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a random word of a given length",
	Long: `Pick a word uniformly at random among all words with exactly the
given number of letters. Defaults to start.length from the config (2).

Example:
  bananas random
  bananas random --length 7`,
	Args: cobra.NoArgs,
	RunE: runRandom,
}

func init() {
	rootCmd.AddCommand(randomCmd)
	randomCmd.Flags().IntP("length", "n", 0, "number of letters (default is start.length)")
}

func runRandom(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg, newLogger(cfg, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer store.Close()

	length, _ := cmd.Flags().GetInt("length")
	if !cmd.Flags().Changed("length") {
		length = cfg.Start.Length
	}

	word, err := store.Sample(length)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printWord(out, word, store.Editions(), isTerminal(out))
	return nil
}
