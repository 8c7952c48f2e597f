package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type tab int

const (
	tabResults tab = iota
	tabDistribution
	tabTimeline
	tabBatch
)

var tabTitles = []string{"結果一覧", "感情分布", "スコア推移", "バッチ"}

type tabBar struct {
	active tab
}

func (t *tabBar) set(i int) {
	if i >= 0 && i < len(tabTitles) {
		t.active = tab(i)
	}
}

func (t *tabBar) next() {
	t.active = tab((int(t.active) + 1) % len(tabTitles))
}

func (t *tabBar) prev() {
	t.active = tab((int(t.active) + len(tabTitles) - 1) % len(tabTitles))
}

func (t *tabBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, title := range tabTitles {
		style := tabInactiveStyle
		if tab(i) == t.active {
			style = tabActiveStyle
		}
		part := style.Render(fmt.Sprintf("%d %s", i+1, title))

		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorTabBg).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
