package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matheuskafuri/kanjo/internal/config"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{"<a href=\"url\">Link</a> text", "Link text"},
	}
	for _, tt := range tests {
		got := stripHTML(tt.input)
		if got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestItemText(t *testing.T) {
	tests := []struct {
		title, desc, want string
	}{
		{"見出し", "本文", "見出し\n本文"},
		{"見出し", "", "見出し"},
		{"見出し", "見出し", "見出し"},
		{"", "本文", "本文"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := itemText(tt.title, tt.desc); got != tt.want {
			t.Errorf("itemText(%q, %q) = %q, want %q", tt.title, tt.desc, got, tt.want)
		}
	}
}

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>テスト</title>
  <item>
    <title>景気が回復</title>
    <description>&lt;p&gt;株価が上昇しました&lt;/p&gt;</description>
    <link>https://example.com/1</link>
    <pubDate>Mon, 02 Jun 2025 09:00:00 +0900</pubDate>
  </item>
  <item>
    <title>台風が接近</title>
    <link>https://example.com/2</link>
    <pubDate>Sun, 01 Jun 2025 09:00:00 +0900</pubDate>
  </item>
  <item>
    <title></title>
  </item>
</channel>
</rss>`

func TestRSSFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testRSS))
	}))
	defer srv.Close()

	items, err := NewRSSFetcher().Fetch(context.Background(), config.Source{Name: "test", URL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Text != "景気が回復\n株価が上昇しました" {
		t.Errorf("unexpected text %q", items[0].Text)
	}
	if items[0].Source != "test" || items[0].Link != "https://example.com/1" {
		t.Errorf("unexpected item %+v", items[0])
	}
	if items[1].Text != "台風が接近" {
		t.Errorf("unexpected text %q", items[1].Text)
	}
	if items[0].Published.IsZero() {
		t.Error("expected published time to be parsed")
	}
}

type stubFetcher map[string][]Item

func (s stubFetcher) Fetch(_ context.Context, src config.Source) ([]Item, error) {
	items, ok := s[src.Name]
	if !ok {
		return nil, errors.New("fetching " + src.Name + ": unreachable")
	}
	return items, nil
}

func TestFetchAll(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }
	f := stubFetcher{
		"a": {{Source: "a", Text: "古い", Published: day(1)}},
		"b": {{Source: "b", Text: "新しい", Published: day(3)}, {Source: "b", Text: "中間", Published: day(2)}},
	}
	sources := []config.Source{{Name: "a"}, {Name: "b"}, {Name: "down"}}

	res := FetchAll(context.Background(), f, sources)
	if len(res.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", res.Errors)
	}
	got := res.Texts()
	want := []string{"新しい", "中間", "古い"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
