// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#F3F4F6"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#A0A0A0"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#696969"}

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4A4A4A"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#6C3AF5", Dark: "#8B5CF6"}

	// Brand accent, used for the active tab, selection and the spinner
	AccentColor = lipgloss.AdaptiveColor{Light: "#6C3AF5", Dark: "#8B5CF6"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Buttons
	ButtonTextColor        = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor   = lipgloss.AdaptiveColor{Light: "#6C3AF5", Dark: "#6C3AF5"}
	ButtonDisabledBgColor  = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#2D2D2D"}
	ButtonSecondaryBgColor = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#2D3436"}

	// Diagram
	DiagramNodeColor = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#F3F4F6"}
	DiagramEdgeColor = lipgloss.AdaptiveColor{Light: "#6C3AF5", Dark: "#8B5CF6"}

	// Styles built from the colors above; see rebuildStyles.
	TitleStyle           lipgloss.Style
	MutedStyle           lipgloss.Style
	ErrorStyle           lipgloss.Style
	PanelStyle           lipgloss.Style
	PanelFocusedStyle    lipgloss.Style
	TabStyle             lipgloss.Style
	TabActiveStyle       lipgloss.Style
	PrimaryButtonStyle   lipgloss.Style
	SecondaryButtonStyle lipgloss.Style
	DisabledButtonStyle  lipgloss.Style
	SelectedOptionStyle  lipgloss.Style
	OptionStyle          lipgloss.Style
	DiagramStyle         lipgloss.Style
	SpinnerStyle         lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(StatusErrorColor).
		Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderDefaultColor)
	PanelFocusedStyle = PanelStyle.BorderForeground(BorderFocusColor)

	TabStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(TextSecondaryColor)
	TabActiveStyle = TabStyle.Bold(true).Foreground(AccentColor).Underline(true)

	baseButton := lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(ButtonTextColor)
	PrimaryButtonStyle = baseButton.Background(ButtonPrimaryBgColor)
	SecondaryButtonStyle = baseButton.Background(ButtonSecondaryBgColor)
	DisabledButtonStyle = baseButton.Bold(false).Foreground(TextMutedColor).Background(ButtonDisabledBgColor)

	OptionStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(TextSecondaryColor)
	SelectedOptionStyle = OptionStyle.Bold(true).Foreground(ButtonTextColor).Background(AccentColor)

	DiagramStyle = lipgloss.NewStyle().Foreground(DiagramNodeColor)
	SpinnerStyle = lipgloss.NewStyle().Foreground(AccentColor)
}
