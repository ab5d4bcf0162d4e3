package ui

import "github.com/charmbracelet/lipgloss"

var (
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	green     = lipgloss.Color("#04B575")
	fuchsia   = lipgloss.Color("#EE6FF8")
	gray      = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gray)

	activeFrameStyle = frameStyle.BorderForeground(fuchsia)

	guideStyle = lipgloss.NewStyle().Foreground(gray)

	statusStyle = lipgloss.NewStyle().Foreground(statusBarNoteFg)

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))

	helpViewStyle = lipgloss.NewStyle().
			Foreground(statusBarNoteFg).
			Padding(0, 2)
)

// FocalStyle returns the style used for the focal letter. Color is a color
// name or a hex value.
func FocalStyle(color string) lipgloss.Style {
	if color == "" {
		color = "red"
	}
	if c, ok := ansiColors[color]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

var ansiColors = map[string]lipgloss.Color{
	"black":   lipgloss.Color("0"),
	"red":     lipgloss.Color("9"),
	"green":   lipgloss.Color("10"),
	"yellow":  lipgloss.Color("11"),
	"blue":    lipgloss.Color("12"),
	"magenta": lipgloss.Color("13"),
	"cyan":    lipgloss.Color("14"),
	"white":   lipgloss.Color("15"),
}
