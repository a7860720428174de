package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/memos/pkg/memos"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorGrayDim  = "#8796b0"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"
	colorYellow   = "#ffd580"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorRed))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGrayDim))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGrayDim))

	// Cards
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorGray)).
			Padding(0, 1)
	cardSelectedStyle = cardStyle.
				BorderForeground(lipgloss.Color(colorBlue))
	cardTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorWhite))
	cardPreviewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGrayDim))
	tagStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	moreTagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGrayDim))
	editButtonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	deleteButtonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim))

	// Viewer
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBlue)).
			Padding(0, 1)
	viewerTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true).
				Foreground(lipgloss.Color(colorWhite))
	primaryButtonStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorBlue))
	dangerButtonStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color(colorWhite)).
				Background(lipgloss.Color(colorRed))
)

// paletteColors holds foreground and border colours per category palette.
func paletteColors(p memos.Palette) (fg, border string) {
	switch p {
	case memos.PaletteBlue:
		return colorBlue, colorBlue
	case memos.PaletteGreen:
		return colorGreen, colorGreenDim
	case memos.PalettePurple:
		return colorPurple, colorPurple
	case memos.PaletteYellow:
		return colorYellow, colorYellow
	default:
		return colorGrayDim, colorGray
	}
}

// categoryBadge renders the category label in its palette colours.
func categoryBadge(code string) string {
	info := memos.LookupCategory(code)
	fg, _ := paletteColors(info.Palette)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Render("● " + info.Label)
}
