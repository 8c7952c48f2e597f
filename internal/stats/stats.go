// Package stats aggregates cached results for the distribution and
// time-series views.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/matheuskafuri/kanjo/internal/cache"
)

type LabelCount struct {
	Label string
	Count int
}

// Point is one result placed on the time axis.
type Point struct {
	Time  time.Time
	Text  string
	Label string
	Score float64
}

type LabelSummary struct {
	Label     string
	Count     int
	MeanScore float64
}

type Summary struct {
	Total  int
	Labels []LabelSummary
}

// Distribution counts entries per label, skipping entries without one.
// Labels are ordered by count, then by first appearance.
func Distribution(entries []cache.Entry) []LabelCount {
	var out []LabelCount
	index := make(map[string]int)
	for _, e := range entries {
		if e.Label == "" {
			continue
		}
		i, ok := index[e.Label]
		if !ok {
			i = len(out)
			index[e.Label] = i
			out = append(out, LabelCount{Label: e.Label})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

var timestampLayouts = []string{
	cache.TimestampLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a stored timestamp in local time. It accepts the
// layout kanjo writes plus a few common variants.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Timeline returns entries whose timestamp parses, oldest first. Entries with
// a missing or malformed timestamp are dropped.
func Timeline(entries []cache.Entry) []Point {
	var pts []Point
	for _, e := range entries {
		t, ok := ParseTimestamp(e.Timestamp)
		if !ok {
			continue
		}
		pts = append(pts, Point{Time: t, Text: e.Text, Label: e.Label, Score: e.Score})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Time.Before(pts[j].Time) })
	return pts
}

func Summarize(entries []cache.Entry) Summary {
	s := Summary{Total: len(entries)}
	sums := make(map[string]float64)
	for _, lc := range Distribution(entries) {
		s.Labels = append(s.Labels, LabelSummary{Label: lc.Label, Count: lc.Count})
	}
	for _, e := range entries {
		sums[e.Label] += e.Score
	}
	for i := range s.Labels {
		l := &s.Labels[i]
		l.MeanScore = sums[l.Label] / float64(l.Count)
	}
	return s
}
