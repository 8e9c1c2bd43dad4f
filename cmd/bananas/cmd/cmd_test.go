package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bananas-dict/bananas/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sensesCSV = `word,definition,pos,edition
ka,informal exclamation,interj,nwl2020
qi,vital force,n,nwl2020
qi,vital force,n,nwl2023
cat,a small carnivorous mammal,n,nwl2023
`

// resetFlags restores every flag in the command tree to its default so runs
// do not leak values or Changed state into each other.
func resetFlags(t *testing.T, c *cobra.Command) {
	t.Helper()

	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(t, sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(t, rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// buildFixture builds a dataset through the build command and returns the
// config dir and dataset path.
func buildFixture(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "senses.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sensesCSV), 0o644))

	db := filepath.Join(dir, "data", "words.sqlite")
	out, err := execute(t, "build", csvPath, "--config", dir, "--out", db)
	require.NoError(t, err)
	assert.Contains(t, out, "3 words, 3 senses")
	assert.Contains(t, out, "nwl2020")
	return dir, db
}

func TestBuildAndLookup(t *testing.T) {
	dir, db := buildFixture(t)

	out, err := execute(t, "lookup", "KA", "zzzz", "--config", dir, "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "ka\n")
	assert.Contains(t, out, "NASPA Word List (2020): yes")
	assert.Contains(t, out, "NASPA Word List (2023): no")
	assert.Contains(t, out, "interjection • informal exclamation")
	assert.Contains(t, out, "zzzz (not found)")
}

func TestCheck(t *testing.T) {
	dir, db := buildFixture(t)

	out, err := execute(t, "check", "qi", "--config", dir, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "nwl2020\tyes\nnwl2023\tyes\n", out)

	out, err = execute(t, "check", "cat", "--config", dir, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "nwl2020\tno\nnwl2023\tyes\n", out)

	out, err = execute(t, "check", "zzzz", "--config", dir, "--db", db)
	require.ErrorIs(t, err, errWordAbsent)
	assert.Equal(t, "nwl2020\tno\nnwl2023\tno\n", out)
}

func TestRandom(t *testing.T) {
	dir, db := buildFixture(t)

	out, err := execute(t, "random", "--length", "3", "--config", dir, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "cat\n")

	_, err = execute(t, "random", "--length", "9", "--config", dir, "--db", db)
	assert.Error(t, err)
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	dir, db := buildFixture(t)

	_, err := execute(t, "random", "--length", "9", "--config", dir, "--db", db)
	require.Error(t, err)

	out, err := execute(t, "random", "--config", dir, "--db", db)
	require.NoError(t, err)
	assert.Regexp(t, `^(ka|qi)\n`, out)

	_, err = execute(t, "lookup", "ka", "--config", dir)
	require.Error(t, err, "--db from the previous run must not be reused")
}

func TestMissingDatasetFailsFast(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "lookup", "ka", "--config", dir, "--db", filepath.Join(dir, "nope.sqlite"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bananas build")
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bananas")

	out, err := execute(t, "init", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, config.FileName)

	cfg, err := config.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = execute(t, "init", "--config", dir)
	assert.Error(t, err)

	_, err = execute(t, "init", "--config", dir, "--force")
	assert.NoError(t, err)
}

func TestBuild_BadCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("word,definition\nka,x\n"), 0o644))

	_, err := execute(t, "build", csvPath, "--config", dir, "--out", filepath.Join(dir, "x.sqlite"))
	assert.Error(t, err)
}

const naspaDefs = `{"words": [
	["BAT", "BAT", "verb_present", 1, "to hit a baseball*"],
	["BATS", "BAT", "verb_present_third", 1, "< BAT"]
]}`

func TestPreprocessThenBuild(t *testing.T) {
	dir := t.TempDir()
	defs := filepath.Join(dir, "nwl2020-defs.json")
	require.NoError(t, os.WriteFile(defs, []byte(naspaDefs), 0o644))
	csvPath := filepath.Join(dir, "senses.csv")

	_, err := execute(t, "preprocess", "nwl2020="+defs, "--config", dir, "--out", csvPath)
	require.NoError(t, err)

	db := filepath.Join(dir, "words.sqlite")
	_, err = execute(t, "build", csvPath, "--config", dir, "--out", db, "--encoding", "json")
	require.NoError(t, err)

	out, err := execute(t, "lookup", "bats", "--config", dir, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "verb present third • to hit a baseball\n")
	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, "*")
}

func TestPreprocess_BadArguments(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "preprocess", "defs.json", "--config", dir)
	assert.Error(t, err)

	_, err = execute(t, "preprocess", "csw21=defs.json", "--config", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown edition")
}
