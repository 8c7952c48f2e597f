package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/kanjo/internal/analyzer"
	"github.com/matheuskafuri/kanjo/internal/cache"
	"github.com/matheuskafuri/kanjo/internal/classifier"
	"github.com/matheuskafuri/kanjo/internal/config"
	"github.com/matheuskafuri/kanjo/internal/csvio"
	"github.com/matheuskafuri/kanjo/internal/stats"
	"github.com/matheuskafuri/kanjo/internal/textutil"
)

type focusPane int

const (
	focusInput focusPane = iota
	focusTabs
)

type mode int

const (
	modeNormal mode = iota
	modePrompt
	modeConfirmReset
	modeHelp
)

const inputHeight = 3

type App struct {
	cfg     *config.Config
	svc     *analyzer.Service
	entries []cache.Entry
	focus   focusPane
	mode    mode

	width  int
	height int

	// Sub-components
	input     textarea.Model
	pathInput textinput.Model
	results   table.Model
	spinner   spinner.Model
	tabs      tabBar

	// State
	busy        bool
	last        *analyzer.Outcome
	batchRows   []analyzer.BatchRow
	batchPath   string
	batchCursor int
	notice      string
	err         error
	now         func() time.Time
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg     *config.Config
	Service *analyzer.Service
}

func NewApp(opts RunOpts) *App {
	ta := textarea.New()
	ta.Placeholder = "テキストを入力してください（1行でも長文でもOK）"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "path/to/tweets.csv"
	ti.Prompt = promptStyle.Render("CSV: ")
	ti.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	tbl := table.New(
		table.WithColumns(resultColumns(80)),
		table.WithFocused(true),
	)

	return &App{
		cfg:       opts.Cfg,
		svc:       opts.Service,
		input:     ta,
		pathInput: ti,
		results:   tbl,
		spinner:   sp,
		focus:     focusInput,
		now:       time.Now,
	}
}

func resultColumns(width int) []table.Column {
	const labelW, scoreW, timeW = 10, 6, 19
	textW := width - labelW - scoreW - timeW - 8 // cell padding
	if textW < 10 {
		textW = 10
	}
	return []table.Column{
		{Title: "テキスト", Width: textW},
		{Title: "感情", Width: labelW},
		{Title: "スコア", Width: scoreW},
		{Title: "日時", Width: timeW},
	}
}

func resultRows(entries []cache.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{textutil.OneLine(e.Text), e.Label, fmt.Sprintf("%.2f", e.Score), e.Timestamp}
	}
	return rows
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadEntriesCmd(), textarea.Blink)
}

func (a *App) loadEntriesCmd() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		entries, err := svc.Entries()
		if err != nil {
			return errMsg{err: err}
		}
		return entriesLoadedMsg{entries: entries}
	}
}

// analyzeCmd captures the input text into the closure so later edits don't race.
func (a *App) analyzeCmd(text string) tea.Cmd {
	svc := a.svc
	timeout := classifier.RequestBudget(a.cfg)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		out, err := svc.Analyze(ctx, text)
		if err != nil {
			return taskErrMsg{err: err}
		}
		return analyzedMsg{outcome: out}
	}
}

func (a *App) exportCmd() tea.Cmd {
	svc := a.svc
	path := a.cfg.ExportPath
	return func() tea.Msg {
		entries, err := svc.Entries()
		if err != nil {
			return errMsg{err: err}
		}
		f, err := os.Create(path)
		if err != nil {
			return errMsg{err: fmt.Errorf("creating %s: %w", path, err)}
		}
		if err := csvio.WriteEntries(f, entries); err != nil {
			f.Close()
			return errMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return errMsg{err: err}
		}
		return exportDoneMsg{path: path, count: len(entries)}
	}
}

func (a *App) batchCmd(path string) tea.Cmd {
	svc := a.svc
	column := a.cfg.ImportColumn
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return taskErrMsg{err: fmt.Errorf("opening %s: %w", path, err)}
		}
		defer f.Close()

		texts, err := csvio.ReadTexts(f, column)
		if err != nil {
			return taskErrMsg{err: err}
		}
		rows, err := svc.AnalyzeBatch(context.Background(), texts, analyzer.BatchOptions{})
		if err != nil {
			return taskErrMsg{err: err}
		}
		return batchDoneMsg{path: path, rows: rows}
	}
}

func (a *App) resetCmd() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		if err := svc.Reset(); err != nil {
			return errMsg{err: err}
		}
		return resetDoneMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case entriesLoadedMsg:
		a.entries = msg.entries
		a.results.SetRows(resultRows(a.entries))
		if a.results.Cursor() >= len(a.entries) {
			a.results.SetCursor(max(0, len(a.entries)-1))
		}
		return a, nil

	case analyzedMsg:
		a.busy = false
		out := msg.outcome
		a.last = &out
		a.notice = ""
		return a, a.loadEntriesCmd()

	case exportDoneMsg:
		a.notice = fmt.Sprintf("📥 %d件を %s に書き出しました", msg.count, msg.path)
		return a, nil

	case batchDoneMsg:
		a.busy = false
		a.batchRows = msg.rows
		a.batchPath = msg.path
		a.batchCursor = 0
		a.tabs.active = tabBatch
		a.notice = fmt.Sprintf("🧠 %d件を分析しました", len(msg.rows))
		return a, nil

	case resetDoneMsg:
		a.last = nil
		a.notice = "✅ キャッシュを初期化しました"
		a.results.SetCursor(0)
		return a, a.loadEntriesCmd()

	case taskErrMsg:
		a.busy = false
		a.err = msg.err
		return a, nil

	case errMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.busy {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	switch {
	case a.mode == modePrompt:
		a.pathInput, cmd = a.pathInput.Update(msg)
	case a.focus == focusInput:
		a.input, cmd = a.input.Update(msg)
	}
	return a, cmd
}

func (a *App) resize() {
	a.input.SetWidth(a.width - 4)
	a.pathInput.Width = a.width - 10

	listWidth := int(float64(a.width) * 0.6)
	a.results.SetColumns(resultColumns(listWidth - 2))
	a.results.SetWidth(listWidth - 2)
	a.results.SetHeight(a.contentHeight())
}

// contentHeight is the height available to the active tab inside its border.
func (a *App) contentHeight() int {
	// header, input pane, result lines, tab bar, status bar, pane borders
	h := a.height - 1 - (inputHeight + 2) - 2 - 1 - 1 - 2
	if h < 3 {
		h = 3
	}
	return h
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	switch a.mode {
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	case modePrompt:
		return a.handlePromptKey(msg)
	case modeConfirmReset:
		a.mode = modeNormal
		if msg.String() == "y" && !a.busy {
			return a, a.resetCmd()
		}
		a.notice = "キャンセルしました"
		return a, nil
	}

	if a.focus == focusInput {
		return a.handleInputKey(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "i":
		a.focus = focusInput
		return a, a.input.Focus()
	case "1", "2", "3", "4":
		a.tabs.set(int(msg.String()[0] - '1'))
		return a, nil
	case "tab", "right", "l":
		a.tabs.next()
		return a, nil
	case "shift+tab", "left", "h":
		a.tabs.prev()
		return a, nil
	case "e":
		if a.busy {
			return a, nil
		}
		a.notice = ""
		return a, a.exportCmd()
	case "o":
		if a.busy {
			return a, nil
		}
		a.mode = modePrompt
		a.pathInput.SetValue("")
		return a, a.pathInput.Focus()
	case "R":
		if a.busy {
			return a, nil
		}
		a.mode = modeConfirmReset
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	switch a.tabs.active {
	case tabResults:
		var cmd tea.Cmd
		a.results, cmd = a.results.Update(msg)
		return a, cmd
	case tabBatch:
		switch msg.String() {
		case "j", "down":
			if a.batchCursor < len(a.batchRows)-1 {
				a.batchCursor++
			}
		case "k", "up":
			if a.batchCursor > 0 {
				a.batchCursor--
			}
		}
	}
	return a, nil
}

func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.focus = focusTabs
		a.input.Blur()
		return a, nil
	case "ctrl+s":
		text := a.input.Value()
		if a.busy || strings.TrimSpace(text) == "" {
			return a, nil
		}
		a.busy = true
		a.notice = ""
		return a, tea.Batch(a.analyzeCmd(text), a.spinner.Tick)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.pathInput.Blur()
		return a, nil
	case "enter":
		path := strings.TrimSpace(a.pathInput.Value())
		a.mode = modeNormal
		a.pathInput.Blur()
		if path == "" {
			return a, nil
		}
		a.busy = true
		a.notice = ""
		return a, tea.Batch(a.batchCmd(path), a.spinner.Tick)
	}

	var cmd tea.Cmd
	a.pathInput, cmd = a.pathInput.Update(msg)
	return a, cmd
}

func (a *App) selected() *cache.Entry {
	c := a.results.Cursor()
	if c < 0 || c >= len(a.entries) {
		return nil
	}
	return &a.entries[c]
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  kanjo")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	// Header
	headerLeft := headerStyle.Render("🧠 日本語感情分析")
	headerRight := headerModelStyle.Render(a.cfg.Model.Provider + " ")
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	// Input pane
	inputStyle := inputPaneStyle
	if a.focus == focusInput {
		inputStyle = inputPaneActiveStyle
	}
	input := inputStyle.Width(a.width - 2).Render(a.input.View())

	result := renderResult(a.last)

	content := a.renderTab()

	// Status bar
	var status string
	switch {
	case a.err != nil:
		status = renderMessageBar(a.err.Error(), true, a.width)
	case a.mode == modePrompt:
		status = a.pathInput.View()
	case a.mode == modeConfirmReset:
		status = renderMessageBar("🗑️ キャッシュを初期化しますか？ (y/N)", true, a.width)
	case a.notice != "":
		status = renderMessageBar(a.notice, false, a.width)
	default:
		status = renderStatusBar(len(a.entries), a.cfg.Cache.Backend, a.hints(), a.width, a.busy)
		if a.busy {
			status = a.spinner.View() + " " + status
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, input, result, a.tabs.render(a.width), content, status)
}

func (a *App) hints() string {
	if a.focus == focusInput {
		return "ctrl+s 分析  esc 移動"
	}
	return "i 入力  1-4 タブ  e 書出  o 読込  R 初期化  ? ヘルプ  q 終了"
}

func renderResult(out *analyzer.Outcome) string {
	if out == nil {
		return noticeStyle.Render(helpDimStyle.Render("ctrl+s で分析")) + "\n"
	}
	notice := noticeStyle.Render(CacheNotice(out.Cached))
	line := resultStyle.Foreground(labelColor(out.Result.Label)).
		Render(FormatResult(out.Result.Label, out.Result.Score))
	return notice + "\n" + line
}

func (a *App) renderTab() string {
	h := a.contentHeight()
	w := a.width - 2

	var body string
	switch a.tabs.active {
	case tabResults:
		if len(a.entries) == 0 {
			body = centerText("まだ分析履歴がありません。", w-2, h)
			break
		}
		listWidth := int(float64(a.width) * 0.6)
		detailWidth := a.width - listWidth - 1
		list := listPaneStyle.Width(listWidth - 2).Height(h).Render(a.results.View())
		detail := detailPaneStyle.Width(detailWidth - 2).Height(h).
			Render(renderDetail(a.selected(), a.now(), detailWidth-4, h))
		return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
	case tabDistribution:
		body = renderDistribution(stats.Distribution(a.entries), w-2, h)
	case tabTimeline:
		body = renderTimeline(stats.Timeline(a.entries), w-2, h)
	case tabBatch:
		body = renderBatch(a.batchRows, a.batchPath, a.batchCursor, h, w-2)
	}
	return listPaneStyle.Width(w).Height(h).Render(body)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("kanjo")
	dim := helpDimStyle

	help := title + dim.Render(" キーボード操作") + "\n\n" +
		dim.Render("入力") + "\n" +
		"  ctrl+s        分析する\n" +
		"  esc           タブ操作へ移動\n\n" +
		dim.Render("タブ") + "\n" +
		"  i             入力欄へ戻る\n" +
		"  1-4, ←/→      タブ切り替え\n" +
		"  j/k, ↑/↓      行の移動\n\n" +
		dim.Render("操作") + "\n" +
		"  e             結果をCSVに書き出す (" + a.cfg.ExportPath + ")\n" +
		"  o             CSVを読み込んで一括分析\n" +
		"  R             キャッシュを初期化\n\n" +
		dim.Render("全般") + "\n" +
		"  ?             このヘルプ\n" +
		"  q, ctrl+c     終了"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
