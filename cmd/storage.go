package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/matheuskafuri/kanjo/internal/browser"
	"github.com/matheuskafuri/kanjo/internal/cache"
	"github.com/matheuskafuri/kanjo/internal/csvio"
	"github.com/matheuskafuri/kanjo/internal/stats"
	"github.com/matheuskafuri/kanjo/internal/textutil"
	"github.com/spf13/cobra"
)

var (
	flagListLimit  int
	flagResetYes   bool
	flagExportOpen bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached results",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.svc.Entries()
		if err != nil {
			return err
		}
		writeEntryTable(cmd.OutOrStdout(), entries, flagListLimit)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics and the label distribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		path := s.cfg.CachePath()
		st, err := cache.ReadStats(s.store, path)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}
		entries, err := s.svc.Entries()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Cache: %s (%s)\n", path, s.cfg.Cache.Backend)
		fmt.Fprintf(w, "Entries: %d\n", st.Entries)
		fmt.Fprintf(w, "Size: %s\n", formatBytes(st.Size))
		writeSummary(w, stats.Summarize(entries))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every cached result",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagResetYes && !confirm(os.Stdin, cmd.OutOrStdout(), "🗑️ キャッシュを初期化しますか？ (y/N): ") {
			fmt.Fprintln(cmd.OutOrStdout(), "キャンセルしました")
			return nil
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.svc.Reset(); err != nil {
			return fmt.Errorf("resetting cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ キャッシュを初期化しました")
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write cached results to CSV",
	Long:  "Write every cached result as text,label,score,timestamp. The path defaults to export_path from the config; \"-\" writes to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		path := s.cfg.ExportPath
		if len(args) == 1 {
			path = args[0]
		}
		entries, err := s.svc.Entries()
		if err != nil {
			return err
		}

		if path == "-" {
			return csvio.WriteEntries(cmd.OutOrStdout(), entries)
		}
		if err := writeFile(path, func(w io.Writer) error { return csvio.WriteEntries(w, entries) }); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📥 %d件を %s に書き出しました\n", len(entries), path)
		if flagExportOpen {
			return browser.Open(path)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&flagListLimit, "limit", 0, "show only the most recent n results")
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "skip the confirmation prompt")
	exportCmd.Flags().BoolVar(&flagExportOpen, "open", false, "open the written file with the default application")
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprint(w, prompt)
	line, _ := bufio.NewReader(r).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// writeEntryTable prints entries oldest first. A positive limit keeps only
// the newest limit entries.
func writeEntryTable(w io.Writer, entries []cache.Entry, limit int) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "まだ分析履歴がありません。")
		return
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	t := newTable("テキスト", "感情", "スコア", "日時")
	for _, e := range entries {
		t.Row(textutil.Truncate(textutil.OneLine(e.Text), 40), e.Label, fmt.Sprintf("%.2f", e.Score), e.Timestamp)
	}
	fmt.Fprintln(w, t.Render())
}

func writeSummary(w io.Writer, sum stats.Summary) {
	if len(sum.Labels) == 0 {
		return
	}
	t := newTable("感情", "件数", "平均スコア")
	for _, l := range sum.Labels {
		t.Row(l.Label, fmt.Sprint(l.Count), fmt.Sprintf("%.2f", l.MeanScore))
	}
	fmt.Fprintln(w, t.Render())
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
