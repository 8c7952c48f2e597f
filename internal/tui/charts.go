package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/kanjo/internal/stats"
)

const (
	scoreMin = 0.5
	scoreMax = 1.0

	timeAxisLayout = "01/02 15:04"
	yAxisWidth     = 6 // "1.00 ┤"
)

// renderDistribution draws one horizontal bar per label, longest first.
func renderDistribution(counts []stats.LabelCount, width, height int) string {
	if len(counts) == 0 {
		return centerText("データが不足しています。", width, height)
	}

	labelW, maxCount := 0, 0
	for _, c := range counts {
		labelW = max(labelW, lipgloss.Width(c.Label))
		maxCount = max(maxCount, c.Count)
	}
	countW := len(fmt.Sprint(maxCount)) + 1 // "12件"
	barW := width - labelW - countW - 6
	if barW < 1 {
		barW = 1
	}

	lines := []string{chartTitleStyle.Render("感情の分布"), ""}
	for _, c := range counts {
		n := int(math.Round(float64(c.Count) / float64(maxCount) * float64(barW)))
		if n < 1 {
			n = 1
		}
		label := c.Label + strings.Repeat(" ", labelW-lipgloss.Width(c.Label))
		bar := labelStyle(c.Label).Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf(" %s │%s %d件", label, bar, c.Count))
	}
	return strings.Join(lines, "\n")
}

type plotCell struct {
	label string
	set   bool
}

// renderTimeline plots score against time. The y axis is fixed to
// [0.5, 1.0]; lower scores sit on the bottom row.
func renderTimeline(points []stats.Point, width, height int) string {
	if len(points) == 0 {
		return centerText("時系列グラフに必要なデータがまだありません。", width, height)
	}

	// title line, x axis line, x labels
	plotH := height - 3
	plotW := width - yAxisWidth - 1
	if plotH < 3 {
		plotH = 3
	}
	if plotW < 10 {
		plotW = 10
	}

	grid := make([][]plotCell, plotH)
	for i := range grid {
		grid[i] = make([]plotCell, plotW)
	}

	first, last := points[0].Time, points[len(points)-1].Time
	span := last.Sub(first)
	for _, p := range points {
		x := plotW / 2
		if span > 0 {
			x = int(math.Round(float64(p.Time.Sub(first)) / float64(span) * float64(plotW-1)))
		}
		grid[scoreRow(p.Score, plotH)][x] = plotCell{label: p.Label, set: true}
	}

	var b strings.Builder
	b.WriteString(chartTitleStyle.Render("感情スコアの推移"))
	b.WriteString("  ")
	b.WriteString(labelStyle("positive").Render("● positive"))
	b.WriteString(" ")
	b.WriteString(labelStyle("negative").Render("● negative"))
	b.WriteString("\n")

	for row := range grid {
		b.WriteString(axisStyle.Render(yTick(row, plotH)))
		for _, c := range grid[row] {
			if c.set {
				b.WriteString(labelStyle(c.label).Render("●"))
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(strings.Repeat(" ", yAxisWidth-1) + "└" + strings.Repeat("─", plotW)))
	b.WriteString("\n")
	b.WriteString(axisStyle.Render(xLabels(first.Format(timeAxisLayout), last.Format(timeAxisLayout), span > 0, plotW)))
	return b.String()
}

// scoreRow maps a score onto a grid row, row 0 being scoreMax.
func scoreRow(score float64, rows int) int {
	s := math.Min(math.Max(score, scoreMin), scoreMax)
	r := int(math.Round((scoreMax - s) / (scoreMax - scoreMin) * float64(rows-1)))
	return r
}

func yTick(row, rows int) string {
	switch row {
	case 0:
		return fmt.Sprintf("%.2f ┤", scoreMax)
	case rows / 2:
		return fmt.Sprintf("%.2f ┤", scoreMax-(scoreMax-scoreMin)*float64(row)/float64(rows-1))
	case rows - 1:
		return fmt.Sprintf("%.2f ┤", scoreMin)
	default:
		return strings.Repeat(" ", yAxisWidth-1) + "│"
	}
}

func xLabels(first, last string, spread bool, plotW int) string {
	indent := strings.Repeat(" ", yAxisWidth)
	if !spread {
		pad := max(0, plotW/2-len(first)/2)
		return indent + strings.Repeat(" ", pad) + first
	}
	gap := max(1, plotW-len(first)-len(last))
	return indent + first + strings.Repeat(" ", gap) + last
}
