// Package cmd contains all CLI commands for Bananas.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bananas-dict/bananas/internal/config"
	"github.com/bananas-dict/bananas/internal/logging"
	"github.com/bananas-dict/bananas/internal/tui"
	"github.com/bananas-dict/bananas/internal/wordstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bananas",
	Short: "Look up words in the NASPA Scrabble word lists",
	Long: `Bananas checks words against the NASPA Word Lists and shows their
definitions.

For each word it tells you which editions of the list contain it
(NWL2020, NWL2023) and what the word means.

Running 'bananas' without arguments launches the interactive TUI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/bananas)")
	pf.String("db", "", "dataset file (overrides dataset.path)")
	pf.Bool("verbose", false, "verbose output")
	pf.String("log-format", "", "log format: text or json")

	viper.BindPFlag("db", pf.Lookup("db"))
	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("log_format", pf.Lookup("log-format"))
}

// initConfig reads in ENV variables and resolves the config directory.
func initConfig() {
	if cfgDir != "" {
		viper.Set("config_dir", cfgDir)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("BANANAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadConfig reads config.yaml and applies flag and environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadDir(getConfigDir())
	if err != nil {
		return nil, err
	}

	if db := viper.GetString("db"); db != "" {
		cfg.Dataset.Path = db
	}
	if viper.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}
	if format := viper.GetString("log_format"); format != "" {
		cfg.Log.Format = format
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logging.New(cfg.Log, w)
}

// openStore opens the configured dataset. Failing here is fatal for every
// command that reads words.
func openStore(cfg *config.Config, logger *slog.Logger) (*wordstore.Store, error) {
	store, err := wordstore.Open(cfg.Dataset.Path, cfg.Editions, wordstore.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("%w\nRun 'bananas build <senses.csv>' to create a dataset, or pass --db", err)
	}
	return store, nil
}

// runTUI launches the interactive TUI.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Log lines would corrupt the alt screen.
	store, err := openStore(cfg, logging.NewNop())
	if err != nil {
		return err
	}
	defer store.Close()

	initial, err := store.Sample(cfg.Start.Length)
	if err != nil {
		return fmt.Errorf("choosing initial word: %w", err)
	}

	return tui.Run(store, initial, cfg.Start.Length)
}
