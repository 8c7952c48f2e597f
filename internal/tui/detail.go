package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/kanjo/internal/cache"
	"github.com/matheuskafuri/kanjo/internal/stats"
)

func renderDetail(e *cache.Entry, now time.Time, width, height int) string {
	if e == nil {
		return centerText("まだ分析履歴がありません。", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	result := labelStyle(e.Label).Bold(true).Render(FormatResult(e.Label, e.Score))
	title := detailTitleStyle.Width(contentWidth).Render(result)

	meta := e.Timestamp
	if t, ok := stats.ParseTimestamp(e.Timestamp); ok {
		meta += " · " + relativeTime(t, now)
	}
	if meta == "" {
		meta = "日時なし"
	}

	// lipgloss wraps by display width, so CJK text without spaces still breaks.
	body := detailBodyStyle.Width(contentWidth).Render(e.Text)

	content := lipgloss.JoinVertical(lipgloss.Left, title, detailMetaStyle.Render(meta), "", body)

	lines := strings.Split(content, "\n")
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
