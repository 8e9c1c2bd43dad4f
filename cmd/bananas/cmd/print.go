package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bananas-dict/bananas/internal/lexicon"
	"github.com/bananas-dict/bananas/internal/tui"
	"golang.org/x/term"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func editionLabel(e lexicon.Edition) string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// printWord writes a word card. Plain output is stable for scripts; styled
// output reuses the TUI palette.
func printWord(w io.Writer, word lexicon.Word, editions []lexicon.Edition, styled bool) {
	if styled {
		printStyled(w, word, editions)
		return
	}

	if word.Found() {
		fmt.Fprintln(w, word.Name)
	} else {
		fmt.Fprintf(w, "%s (not found)\n", word.Name)
	}
	for _, e := range editions {
		fmt.Fprintf(w, "  %s: %s\n", editionLabel(e), yesNo(word.InEdition(e.ID)))
	}
	if word.Found() {
		for _, d := range word.Definitions {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}

func printStyled(w io.Writer, word lexicon.Word, editions []lexicon.Edition) {
	var b strings.Builder

	b.WriteString(tui.HeadwordStyle.Render(word.Name))
	if !word.Found() {
		b.WriteString(" ")
		b.WriteString(tui.HelpStyle.Render("(not found)"))
	}
	b.WriteString("\n")

	for _, e := range editions {
		verdict := tui.NoStyle.Render("No")
		if word.InEdition(e.ID) {
			verdict = tui.YesStyle.Render("Yes")
		}
		b.WriteString("  ")
		b.WriteString(tui.EditionStyle.Render(editionLabel(e)))
		b.WriteString(verdict)
		b.WriteString("\n")
	}

	if word.Found() {
		for _, d := range word.Definitions {
			b.WriteString("  ")
			b.WriteString(tui.PosStyle.Render(d.PartOfSpeech))
			b.WriteString(" • ")
			b.WriteString(tui.DefinitionStyle.Render(d.Text))
			b.WriteString("\n")
		}
	}

	fmt.Fprint(w, b.String())
}
