// Package main is the entry point for the Bananas CLI.
package main

import (
	"os"

	"github.com/bananas-dict/bananas/cmd/bananas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
