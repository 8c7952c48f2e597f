// Package feed pulls headlines from RSS/Atom sources so they can be run
// through the classifier as a batch.
package feed

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/matheuskafuri/kanjo/internal/config"
	"github.com/matheuskafuri/kanjo/internal/textutil"
	"github.com/mmcdole/gofeed"
)

// maxTextRunes keeps item text within what the sentiment models accept.
const maxTextRunes = 400

type Item struct {
	Source    string
	Title     string
	Text      string
	Link      string
	Published time.Time
}

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]Item, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser()}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]Item, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		var pub time.Time
		if it.PublishedParsed != nil {
			pub = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			pub = *it.UpdatedParsed
		}

		desc := it.Description
		if desc == "" {
			desc = it.Content
		}
		title := stripHTML(it.Title)
		text := itemText(title, stripHTML(desc))
		if text == "" {
			continue
		}

		items = append(items, Item{
			Source:    source.Name,
			Title:     title,
			Text:      textutil.Truncate(text, maxTextRunes),
			Link:      it.Link,
			Published: pub,
		})
	}
	return items, nil
}

// itemText joins headline and summary into the text that gets classified.
func itemText(title, desc string) string {
	switch {
	case title == "":
		return desc
	case desc == "" || desc == title:
		return title
	default:
		return title + "\n" + desc
	}
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return textutil.OneLine(b.String())
}

type FetchResult struct {
	Items  []Item
	Errors []error
}

// Texts returns the text of every item, in result order.
func (r FetchResult) Texts() []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Text
	}
	return out
}

// FetchAll fetches every source concurrently. A failing source is recorded
// in Errors and does not stop the others. Items are ordered newest first.
func FetchAll(ctx context.Context, f Fetcher, sources []config.Source) FetchResult {
	var (
		mu     sync.Mutex
		result FetchResult
		wg     sync.WaitGroup
	)

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			items, err := f.Fetch(ctx, s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			result.Items = append(result.Items, items...)
		}(src)
	}

	wg.Wait()
	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].Published.After(result.Items[j].Published)
	})
	return result
}
