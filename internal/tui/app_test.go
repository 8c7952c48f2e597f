package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matheuskafuri/kanjo/internal/analyzer"
	"github.com/matheuskafuri/kanjo/internal/cache"
	"github.com/matheuskafuri/kanjo/internal/classifier"
	"github.com/matheuskafuri/kanjo/internal/config"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Model:        config.ModelConfig{Provider: "lexicon", Timeout: "5s"},
		Cache:        config.CacheConfig{Backend: "json"},
		ExportPath:   filepath.Join(dir, "out.csv"),
		ImportColumn: "text",
	}
	log, _ := test.NewNullLogger()
	svc := analyzer.New(cache.OpenJSON(filepath.Join(dir, "cache.json")), classifier.NewLexicon(), analyzer.WithLogger(log))

	a := NewApp(RunOpts{Cfg: cfg, Service: svc})
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return a
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and feeds its message back into the app, following any
// command the update returns. Batches and ticks are skipped.
func drain(a *App, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case nil, tea.BatchMsg:
			return
		}
		_, cmd = a.Update(msg)
	}
}

func TestAnalyzeFlow(t *testing.T) {
	a := newTestApp(t)
	a.input.SetValue("今日はとても楽しい")

	_, cmd := a.Update(key("ctrl+s"))
	require.NotNil(t, cmd)
	assert.True(t, a.busy)

	drain(a, a.analyzeCmd("今日はとても楽しい"))
	assert.False(t, a.busy)
	require.NotNil(t, a.last)
	assert.False(t, a.last.Cached)
	assert.Equal(t, "positive", a.last.Result.Label)
	require.Len(t, a.entries, 1)

	drain(a, a.analyzeCmd("今日はとても楽しい"))
	assert.True(t, a.last.Cached)
	assert.Len(t, a.entries, 1)
	assert.Contains(t, a.View(), "キャッシュから結果を取得しました")
}

func TestAnalyzeIgnoresBlankInput(t *testing.T) {
	a := newTestApp(t)
	a.input.SetValue("   ")

	_, cmd := a.Update(key("ctrl+s"))
	assert.Nil(t, cmd)
	assert.False(t, a.busy)
}

func TestTabNavigation(t *testing.T) {
	a := newTestApp(t)

	// Keys go to the input while it has focus
	a.Update(key("2"))
	assert.Equal(t, tabResults, a.tabs.active)
	assert.Equal(t, "2", a.input.Value())

	a.Update(key("esc"))
	assert.Equal(t, focusTabs, a.focus)

	a.Update(key("3"))
	assert.Equal(t, tabTimeline, a.tabs.active)
	a.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabBatch, a.tabs.active)
	a.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabResults, a.tabs.active)

	a.Update(key("i"))
	assert.Equal(t, focusInput, a.focus)
}

func TestResetNeedsConfirmation(t *testing.T) {
	a := newTestApp(t)
	drain(a, a.analyzeCmd("最悪"))
	require.Len(t, a.entries, 1)
	a.Update(key("esc"))

	a.Update(key("R"))
	assert.Equal(t, modeConfirmReset, a.mode)
	_, cmd := a.Update(key("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, modeNormal, a.mode)
	assert.Len(t, a.entries, 1)

	a.Update(key("R"))
	_, cmd = a.Update(key("y"))
	drain(a, cmd)
	assert.Empty(t, a.entries)
	assert.Nil(t, a.last)
	assert.Equal(t, "✅ キャッシュを初期化しました", a.notice)
}

func TestExport(t *testing.T) {
	a := newTestApp(t)
	drain(a, a.analyzeCmd("嬉しい"))
	a.Update(key("esc"))

	_, cmd := a.Update(key("e"))
	drain(a, cmd)

	data, err := os.ReadFile(a.cfg.ExportPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\ufefftext,label,score,timestamp\n"))
	assert.Contains(t, string(data), "嬉しい,positive,")
	assert.Contains(t, a.notice, "1件")
}

func TestBatchFromCSV(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), "tweets.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,text\n1,楽しい\n2,悲しい\n"), 0o644))
	a.Update(key("esc"))

	a.Update(key("o"))
	assert.Equal(t, modePrompt, a.mode)
	a.pathInput.SetValue(path)
	_, cmd := a.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, a.busy)

	drain(a, a.batchCmd(path))
	assert.False(t, a.busy)
	assert.Equal(t, tabBatch, a.tabs.active)
	require.Len(t, a.batchRows, 2)
	assert.Equal(t, "positive", a.batchRows[0].Label)
	assert.Equal(t, "negative", a.batchRows[1].Label)
	assert.Empty(t, a.entries, "batch analysis must not touch the cache")
}

func TestBatchMissingColumnShowsError(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,body\n1,x\n"), 0o644))

	drain(a, a.batchCmd(path))
	require.Error(t, a.err)
	assert.Contains(t, a.View(), "column not found")
}

func TestBusyBlocksSecondAnalysisAndReset(t *testing.T) {
	a := newTestApp(t)
	a.input.SetValue("今日はとても楽しい")

	_, cmd := a.Update(key("ctrl+s"))
	require.NotNil(t, cmd)
	require.True(t, a.busy)

	// A failed export or reload must not release the in-flight analysis.
	a.Update(errMsg{err: errors.New("export failed")})
	assert.True(t, a.busy)
	assert.EqualError(t, a.err, "export failed")

	_, cmd = a.Update(key("ctrl+s"))
	assert.Nil(t, cmd, "second analysis started while one is in flight")

	a.Update(key("esc"))
	_, cmd = a.Update(key("R"))
	assert.Nil(t, cmd)
	assert.Equal(t, modeNormal, a.mode)
	_, cmd = a.Update(key("e"))
	assert.Nil(t, cmd)
	_, cmd = a.Update(key("o"))
	assert.Nil(t, cmd)
	assert.Equal(t, modeNormal, a.mode)

	a.Update(taskErrMsg{err: errors.New("model unavailable")})
	assert.False(t, a.busy)

	a.Update(key("i"))
	_, cmd = a.Update(key("ctrl+s"))
	assert.NotNil(t, cmd)
	assert.True(t, a.busy)
}

func TestResetConfirmIgnoredWhileBusy(t *testing.T) {
	a := newTestApp(t)
	drain(a, a.analyzeCmd("最悪"))
	require.Len(t, a.entries, 1)
	a.Update(key("esc"))

	a.Update(key("R"))
	require.Equal(t, modeConfirmReset, a.mode)
	a.busy = true
	_, cmd := a.Update(key("y"))
	assert.Nil(t, cmd)
	assert.Equal(t, modeNormal, a.mode)
	assert.Len(t, a.entries, 1)
}
