package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bananas-dict/bananas/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize Bananas configuration",
	Long: `Initialize Bananas configuration in your config directory.

This writes config.yaml with the default settings:
  - dataset.path   (where 'bananas build' writes and every command reads)
  - editions       (NWL2020 and NWL2023 membership columns)
  - log, server and start sections

Edit the file to point at your dataset or to track other editions.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	path := filepath.Join(configDir, config.FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.EnsureConfigDir(configDir); err != nil {
		return err
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Run 'bananas build <senses.csv>' to create the dataset")
	fmt.Fprintln(out, "  2. Run 'bananas lookup <word>' to check a word")

	return nil
}
