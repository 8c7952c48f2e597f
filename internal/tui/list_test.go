package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/kanjo/internal/analyzer"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "たった今"},
		{now.Add(-5 * time.Minute), "5分前"},
		{now.Add(-3 * time.Hour), "3時間前"},
		{now.Add(-2 * 24 * time.Hour), "2日前"},
		{time.Date(2025, 5, 15, 0, 0, 0, 0, time.Local), "05/15"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t, now)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		label string
		score float64
		want  string
	}{
		{"positive", 0.987, "😊 感情: positive（スコア: 0.99）"},
		{"negative", 0.5, "😢 感情: negative（スコア: 0.50）"},
		{"neutral", 0.61, "🤔 感情: neutral（スコア: 0.61）"},
		{"mixed", 0.7, "🤔 感情: mixed（スコア: 0.70）"},
	}
	for _, tt := range tests {
		if got := FormatResult(tt.label, tt.score); got != tt.want {
			t.Errorf("FormatResult(%q, %v) = %q, want %q", tt.label, tt.score, got, tt.want)
		}
	}
}

func TestCacheNotice(t *testing.T) {
	if got := CacheNotice(true); got != "✅ キャッシュから結果を取得しました" {
		t.Errorf("unexpected cached notice %q", got)
	}
	if got := CacheNotice(false); !strings.Contains(got, "新しく分析") {
		t.Errorf("unexpected new-analysis notice %q", got)
	}
}

func TestRenderBatch(t *testing.T) {
	rows := []analyzer.BatchRow{
		{Index: 0, Text: "今日は最高の一日でした", Label: "positive", Score: 0.95},
		{Index: 1, Text: "壊れた行", Err: errors.New("status 500")},
	}
	out := renderBatch(rows, "tweets.csv", 0, 20, 80)

	for _, want := range []string{"tweets.csv", "2件", "1. ✍️ 今日は最高の一日でした", "感情: positive（スコア: 0.95）", "エラー: status 500"} {
		if !strings.Contains(out, want) {
			t.Errorf("batch view missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBatchScrollsToCursor(t *testing.T) {
	var rows []analyzer.BatchRow
	for i := 0; i < 20; i++ {
		rows = append(rows, analyzer.BatchRow{Index: i, Text: "行", Label: "neutral", Score: 0.5})
	}
	// header + 3 rows of 2 lines
	out := renderBatch(rows, "x.csv", 10, 7, 80)
	if !strings.Contains(out, "> 11. ") {
		t.Errorf("expected cursor row to be visible:\n%s", out)
	}
	if strings.Contains(out, " 1. ") {
		t.Errorf("expected first row to be scrolled out:\n%s", out)
	}
}

func TestRenderBatchEmptyStates(t *testing.T) {
	if out := renderBatch(nil, "", 0, 10, 60); !strings.Contains(out, "CSV") {
		t.Errorf("expected load hint, got %q", out)
	}
	if out := renderBatch(nil, "a.csv", 0, 10, 60); !strings.Contains(out, "ありません") {
		t.Errorf("expected empty notice, got %q", out)
	}
}
