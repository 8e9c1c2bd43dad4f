// Package tui provides an interactive terminal UI for Bananas.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bananas-dict/bananas/internal/clipboard"
	"github.com/bananas-dict/bananas/internal/lexicon"
	"github.com/bananas-dict/bananas/internal/tui/banner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// defaultWidth is used before the first WindowSizeMsg arrives.
const defaultWidth = 80

// Dictionary is what the TUI needs from a word store.
type Dictionary interface {
	Lookup(name string) (lexicon.Word, error)
	Sample(length int) (lexicon.Word, error)
	Editions() []lexicon.Edition
}

type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// Model is the Bubble Tea model for the Bananas TUI.
type Model struct {
	input    textinput.Model
	dict     Dictionary
	editions []lexicon.Edition

	word         lexicon.Word
	sampleLength int
	err          error

	// Clipboard
	copyText func(string) error
	copied   bool

	width  int
	height int
	ready  bool
}

// New creates a new TUI model showing initial. ctrl+r samples words of
// sampleLength letters.
func New(dict Dictionary, initial lexicon.Word, sampleLength int) Model {
	ti := textinput.New()
	ti.Placeholder = "Search NASPA dictionary..."
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 32
	ti.PromptStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(ColorAccent)

	return Model{
		input:        ti,
		dict:         dict,
		editions:     dict.Editions(),
		word:         initial,
		sampleLength: sampleLength,
		copyText:     clipboard.Write,
	}
}

// WithClipboard replaces the function ctrl+y copies the card with.
func (m Model) WithClipboard(fn func(string) error) Model {
	m.copyText = fn
	return m
}

// Run starts the TUI and blocks until the user quits.
func Run(dict Dictionary, initial lexicon.Word, sampleLength int) error {
	p := tea.NewProgram(New(dict, initial, sampleLength), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// Word returns the word on the card.
func (m Model) Word() lexicon.Word {
	return m.word
}

// Query returns the current search input.
func (m Model) Query() string {
	return m.input.Value()
}

// Err returns the last lookup error, if any.
func (m Model) Err() error {
	return m.err
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.lookup()
			return m, nil
		case "ctrl+r":
			m.sample()
			return m, nil
		case "ctrl+y":
			if err := m.copyText(cardText(m.word)); err != nil {
				m.err = err
				return m, nil
			}
			m.copied = true
			return m, clearCopiedAfter(2 * time.Second)
		}

	case clearCopiedMsg:
		m.copied = false
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// The search bar only ever holds lowercase a-z.
	if v := m.input.Value(); v != "" {
		if clean := lexicon.SanitizeHeadword(v); clean != v {
			m.input.SetValue(clean)
			m.input.CursorEnd()
		}
	}

	return m, cmd
}

func (m *Model) lookup() {
	name := m.input.Value()
	if name == "" {
		return
	}

	word, err := m.dict.Lookup(name)
	if err != nil {
		m.err = err
		return
	}
	m.word = word
	m.err = nil
}

func (m *Model) sample() {
	word, err := m.dict.Sample(m.sampleLength)
	if err != nil {
		m.err = err
		return
	}
	m.word = word
	m.err = nil
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	header := TitleStyle.Render(" Bananas ") + "  " +
		SubtitleStyle.Render("NASPA word lookup")
	b.WriteString(header)
	b.WriteString("\n")

	b.WriteString(CardStyle.Render(m.renderCard()))
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("  " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := HelpStyle.Render("  enter: look up • ctrl+r: random • ctrl+y: copy • esc: quit")
	if m.copied {
		help += "  " + CopiedStyle.Render("Copied!")
	}
	b.WriteString(help)

	return b.String()
}

// contentWidth is the usable width inside the card.
func (m Model) contentWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	// border + padding on both sides
	w -= 6
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) renderCard() string {
	var b strings.Builder
	width := m.contentWidth()

	b.WriteString(m.renderHeadword(width))
	b.WriteString("\n")
	b.WriteString(DividerStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	for _, e := range m.editions {
		label := e.Name
		if label == "" {
			label = e.ID
		}
		verdict := NoStyle.Render("No")
		if m.word.InEdition(e.ID) {
			verdict = YesStyle.Render("Yes")
		}
		b.WriteString(EditionStyle.Render(runewidth.Truncate(label, 27, "…")))
		b.WriteString(verdict)
		b.WriteString("\n")
	}

	if !m.word.Found() {
		return strings.TrimRight(b.String(), "\n")
	}

	b.WriteString("\n")
	for i, d := range m.word.Definitions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderDefinition(d, width))
	}

	return b.String()
}

// renderHeadword draws the word as a banner when it fits, otherwise as a
// single bold line truncated to width.
func (m Model) renderHeadword(width int) string {
	if art := banner.Cached(m.word.Name, width); art != "" {
		return HeadwordStyle.Render(art)
	}
	return HeadwordStyle.Render(runewidth.Truncate(m.word.Name, width, "…"))
}

func (m Model) renderDefinition(d lexicon.Definition, width int) string {
	pos := PosStyle.Render(d.PartOfSpeech)
	prefix := runewidth.StringWidth(d.PartOfSpeech) + 3
	if prefix >= width {
		return pos + " • " + DefinitionStyle.Render(wordWrap(d.Text, width))
	}

	lines := strings.Split(wordWrap(d.Text, width-prefix), "\n")
	indent := strings.Repeat(" ", prefix)
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return pos + " • " + DefinitionStyle.Render(strings.Join(lines, "\n"))
}

// cardText is the plain-text card placed on the clipboard.
func cardText(w lexicon.Word) string {
	var b strings.Builder
	b.WriteString(w.Name)
	for _, d := range w.Definitions {
		b.WriteString("\n")
		b.WriteString(d.String())
	}
	return b.String()
}

func wordWrap(s string, width int) string {
	if width <= 0 {
		width = 60
	}
	var lines []string
	var currentLine strings.Builder
	currentWidth := 0

	words := strings.Fields(s)
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)
		if currentWidth+wordWidth+1 > width && currentWidth > 0 {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			currentLine.WriteString(" ")
			currentWidth++
		}
		currentLine.WriteString(word)
		currentWidth += wordWidth
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n")
}
