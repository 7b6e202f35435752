package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorMauve
	colorBrand   = colorMauve
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
)

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	runNameStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle)

	statusStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	sectionBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	valueStyle = lipgloss.NewStyle().Foreground(colorPeach)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(colorSubtext0).
				Bold(true)

	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	scrollStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

	dimStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

	lipglossSpinnerStyle = lipgloss.NewStyle().Foreground(colorAccent)

	runningStyle  = lipgloss.NewStyle().Foreground(colorSky).Bold(true)
	finishedStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	failedStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	barStyle    = lipgloss.NewStyle().Foreground(colorTeal)
	sparkStyle  = lipgloss.NewStyle().Foreground(colorBlue)
	dirStyle    = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	okSpanStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

func runStatusStyle(status string) lipgloss.Style {
	switch status {
	case "RUNNING":
		return runningStyle
	case "FINISHED":
		return finishedStyle
	case "FAILED", "KILLED":
		return failedStyle
	}
	return dimStyle
}
