package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/kanjo/internal/analyzer"
	"github.com/matheuskafuri/kanjo/internal/textutil"
)

// Emoji returns the face shown next to a sentiment label.
func Emoji(label string) string {
	switch label {
	case "positive":
		return "😊"
	case "negative":
		return "😢"
	default:
		return "🤔"
	}
}

// FormatResult renders a label and score the way every view shows them.
func FormatResult(label string, score float64) string {
	return fmt.Sprintf("%s 感情: %s（スコア: %.2f）", Emoji(label), label, score)
}

// CacheNotice describes where a result came from.
func CacheNotice(cached bool) string {
	if cached {
		return "✅ キャッシュから結果を取得しました"
	}
	return "🔍 新しく分析しました"
}

func relativeTime(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "たった今"
	case d < time.Hour:
		return fmt.Sprintf("%d分前", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d時間前", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d日前", int(d.Hours()/24))
	default:
		return t.Format("01/02")
	}
}

// oneLine collapses newlines so multi-line input fits a list row.
func renderBatchRow(r analyzer.BatchRow, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	prefix := "  "
	if selected {
		prefix = "> "
	}
	head := fmt.Sprintf("%s%d. ✍️ ", prefix, r.Index+1)
	text := itemTextStyle.Render(head + textutil.Truncate(textutil.OneLine(r.Text), min(60, width-len([]rune(head)))))

	var result string
	if r.Err != nil {
		result = "   → " + itemErrorStyle.Render(textutil.Truncate("エラー: "+r.Err.Error(), width-5))
	} else {
		result = "   → " + labelStyle(r.Label).Render(fmt.Sprintf("感情: %s（スコア: %.2f）", r.Label, r.Score))
	}
	return text + "\n" + result
}

func renderBatch(rows []analyzer.BatchRow, path string, cursor, height, width int) string {
	if path == "" {
		return centerText("o でCSVを読み込んで一括分析", width, height)
	}
	if len(rows) == 0 {
		return centerText("分析対象のテキストがありません", width, height)
	}

	header := itemTimeStyle.Render(fmt.Sprintf(" %s · %d件", path, len(rows)))

	// Each row is 2 lines
	itemHeight := 2
	visible := (height - 1) / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(rows) {
		end = len(rows)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	b.WriteString(header)
	for i := start; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(renderBatchRow(rows[i], i == cursor, width))
	}
	return b.String()
}

func centerText(s string, width, height int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + itemTimeStyle.Render(s)
}
