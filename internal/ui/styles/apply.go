package styles

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Preset string
	Mode   string
	Colors map[string]string
}

// Preset is a named set of color overrides.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets are the built-in themes. "default" keeps the adaptive colors.
var Presets = map[string]Preset{
	"default": {
		Name:        "default",
		Description: "Adaptive light/dark palette",
		Colors:      map[ColorToken]string{},
	},
	"high-contrast": {
		Name:        "high-contrast",
		Description: "High contrast for accessibility",
		Colors: map[ColorToken]string{
			TokenTextPrimary:       "#FFFFFF",
			TokenTextSecondary:     "#FFFFFF",
			TokenTextMuted:         "#C0C0C0",
			TokenBorderDefault:     "#FFFFFF",
			TokenBorderFocus:       "#FFFF00",
			TokenAccent:            "#FFFF00",
			TokenStatusSuccess:     "#00FF00",
			TokenStatusWarning:     "#FFFF00",
			TokenStatusError:       "#FF0000",
			TokenStatusInfo:        "#00FFFF",
			TokenButtonText:        "#000000",
			TokenButtonPrimaryBg:   "#FFFF00",
			TokenButtonSecondaryBg: "#C0C0C0",
			TokenButtonDisabledBg:  "#404040",
			TokenDiagramNode:       "#FFFFFF",
			TokenDiagramEdge:       "#FFFF00",
		},
	},
}

// ApplyTheme applies a preset, then individual overrides, then rebuilds
// every style. Mode "light" or "dark" forces the terminal background
// detection result.
func ApplyTheme(cfg ThemeConfig) error {
	colors := map[ColorToken]string{}

	if cfg.Preset != "" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	switch cfg.Mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}

	applyColors(colors)
	rebuildStyles()
	return nil
}

func applyColors(colors map[ColorToken]string) {
	targets := map[ColorToken][]*lipgloss.AdaptiveColor{
		TokenTextPrimary:       {&TextPrimaryColor},
		TokenTextSecondary:     {&TextSecondaryColor},
		TokenTextMuted:         {&TextMutedColor},
		TokenBorderDefault:     {&BorderDefaultColor},
		TokenBorderFocus:       {&BorderFocusColor},
		TokenAccent:            {&AccentColor},
		TokenStatusSuccess:     {&StatusSuccessColor},
		TokenStatusWarning:     {&StatusWarningColor},
		TokenStatusError:       {&StatusErrorColor},
		TokenStatusInfo:        {&StatusInfoColor},
		TokenButtonText:        {&ButtonTextColor},
		TokenButtonPrimaryBg:   {&ButtonPrimaryBgColor},
		TokenButtonSecondaryBg: {&ButtonSecondaryBgColor},
		TokenButtonDisabledBg:  {&ButtonDisabledBgColor},
		TokenDiagramNode:       {&DiagramNodeColor},
		TokenDiagramEdge:       {&DiagramEdgeColor},
	}
	for token, hex := range colors {
		for _, c := range targets[token] {
			*c = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
		}
	}
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 32)
	return err == nil
}
