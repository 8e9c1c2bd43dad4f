package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // Red - titles, "No"
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - subtitles, prompt
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - headword
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorSuccess   = lipgloss.Color("#a8e6cf") // Green - "Yes"
	ColorText      = lipgloss.Color("#f1faee") // Light text
	ColorLabel     = lipgloss.Color("#a8dadc") // Label color
	ColorBg        = lipgloss.Color("#1a1a2e") // Dark background
	ColorBorder    = lipgloss.Color("#3d5a80") // Border color
)

// Title styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBg).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)
)

// Word card styles
var (
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			Margin(1, 0)

	HeadwordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	EditionStyle = lipgloss.NewStyle().
			Foreground(ColorLabel).
			Width(28)

	YesStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	NoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	PosStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Italic(true)

	DefinitionStyle = lipgloss.NewStyle().
			Foreground(ColorText)
)

// Status styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	CopiedStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)
)
