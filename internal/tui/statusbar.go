package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(entryCount int, backend string, hints string, width int, busy bool) string {
	left := fmt.Sprintf(" %d件", entryCount)
	if backend != "" {
		left += " · " + backend
	}
	if busy {
		left += " (分析中...)"
	}

	right := " " + hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

// renderMessageBar shows a one-off notice or error in place of the status bar.
func renderMessageBar(msg string, isErr bool, width int) string {
	style := lipgloss.NewStyle().Foreground(colorGreen)
	if isErr {
		style = lipgloss.NewStyle().Foreground(colorAccent)
	}
	return statusBarStyle.Width(width).Render(style.Render(msg))
}
