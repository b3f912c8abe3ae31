package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens users can override in their config.
const (
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	TokenAccent ColorToken = "accent"

	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"
	TokenStatusInfo    ColorToken = "status.info"

	TokenButtonText        ColorToken = "button.text"
	TokenButtonPrimaryBg   ColorToken = "button.primary.bg"
	TokenButtonSecondaryBg ColorToken = "button.secondary.bg"
	TokenButtonDisabledBg  ColorToken = "button.disabled.bg"

	TokenDiagramNode ColorToken = "diagram.node"
	TokenDiagramEdge ColorToken = "diagram.edge"
)

// AllTokens lists every valid token.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary, TokenTextSecondary, TokenTextMuted,
		TokenBorderDefault, TokenBorderFocus,
		TokenAccent,
		TokenStatusSuccess, TokenStatusWarning, TokenStatusError, TokenStatusInfo,
		TokenButtonText, TokenButtonPrimaryBg, TokenButtonSecondaryBg, TokenButtonDisabledBg,
		TokenDiagramNode, TokenDiagramEdge,
	}
}

func isValidToken(t ColorToken) bool {
	for _, valid := range AllTokens() {
		if t == valid {
			return true
		}
	}
	return false
}
