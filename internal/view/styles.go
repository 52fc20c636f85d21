// Package view is the pure projection of a Model snapshot to a terminal
// screen. Nothing here mutates application state; every function takes a
// model.Snapshot (or data derived from one) and returns a string.
package view

import (
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/feltlabs/weft/internal/constants"
)

// overallProgress renders the header's completion bar. It is driven purely
// by ViewAs against a freshly computed ratio each frame; weft has no use
// for the animated Update/Tick half of bubbles/progress since the bar only
// ever needs to reflect the Model's current snapshot, not ease toward it.
var overallProgress = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

// Semantic colors, adaptive to the terminal's light/dark background.
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	StyleBold      = lipgloss.NewStyle().Bold(true)
	StyleDim       = lipgloss.NewStyle().Faint(true)
	StyleReverse   = lipgloss.NewStyle().Reverse(true)
	StyleHeader    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	StyleSelection = lipgloss.NewStyle().Reverse(true)
)

// CheckNoColor disables lipgloss color output when the terminal declares it
// unsupported, following https://no-color.org/.
func CheckNoColor() {
	if !hasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func hasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// statusIcon and statusColor give every step status triple redundancy:
// icon, color and text are never the sole signal for a state.
func statusIcon(s constants.StepStatus) string {
	switch s {
	case constants.StepPending:
		return "○"
	case constants.StepRunning:
		return "●"
	case constants.StepSuccess:
		return "✓"
	case constants.StepFailed:
		return "✗"
	case constants.StepKilled:
		return "■"
	case constants.StepSkipped:
		return "—"
	default:
		return "?"
	}
}

func statusColor(s constants.StepStatus) lipgloss.AdaptiveColor {
	switch s {
	case constants.StepRunning:
		return ColorPrimary
	case constants.StepSuccess:
		return ColorSuccess
	case constants.StepFailed:
		return ColorError
	case constants.StepKilled:
		return ColorWarning
	case constants.StepSkipped, constants.StepPending:
		return ColorMuted
	default:
		return ColorMuted
	}
}

// FormatStatus renders a status as "<icon> <TEXT>", colored, giving a
// reader icon + color + text redundantly for every state.
func FormatStatus(s constants.StepStatus) string {
	return styleFor(s).Render(statusIcon(s) + " " + s.String())
}

// styleFor returns the lipgloss style carrying a status's semantic color.
func styleFor(s constants.StepStatus) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColor(s))
}
