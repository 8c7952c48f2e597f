package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matheuskafuri/kanjo/internal/analyzer"
	"github.com/matheuskafuri/kanjo/internal/csvio"
	"github.com/matheuskafuri/kanjo/internal/textutil"
	"github.com/spf13/cobra"
)

var (
	flagImportColumn string
	flagImportSave   bool
	flagImportOut    string
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Analyze every text in a CSV column",
	Long: `Read the texts of one CSV column and classify each of them in order.
Results are printed as they arrive. By default the cache is left untouched;
--save stores every new result like the analyze command does.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		column := s.cfg.ImportColumn
		if flagImportColumn != "" {
			column = flagImportColumn
		}
		texts, err := csvio.ReadTexts(f, column)
		if err != nil {
			return err
		}
		s.log.WithField("rows", len(texts)).Info("importing CSV")

		return runBatch(cmd.Context(), s.svc, texts, flagImportSave, flagImportOut, cmd.OutOrStdout())
	},
}

func init() {
	importCmd.Flags().StringVar(&flagImportColumn, "column", "", "CSV column holding the texts (default from config)")
	importCmd.Flags().BoolVar(&flagImportSave, "save", false, "store results in the cache")
	importCmd.Flags().StringVar(&flagImportOut, "out", "", "also write results to this CSV file")
}

// runBatch classifies texts, printing each row as it finishes, and writes
// the rows to outPath when one is given.
func runBatch(ctx context.Context, svc *analyzer.Service, texts []string, save bool, outPath string, w io.Writer) error {
	if len(texts) == 0 {
		fmt.Fprintln(w, "分析対象のテキストがありません")
		return nil
	}

	failed := 0
	rows, err := svc.AnalyzeBatch(ctx, texts, analyzer.BatchOptions{
		Save: save,
		OnRow: func(r analyzer.BatchRow) {
			fmt.Fprintf(w, "%d. ✍️ %s\n", r.Index+1, textutil.Truncate(textutil.OneLine(r.Text), 60))
			if r.Err != nil {
				failed++
				fmt.Fprintf(w, "→ エラー: %v\n", r.Err)
				return
			}
			fmt.Fprintf(w, "→ 感情: %s（スコア: %.2f）\n", r.Label, r.Score)
		},
	})
	if err != nil {
		return fmt.Errorf("batch stopped after %d of %d rows: %w", len(rows), len(texts), err)
	}

	if outPath != "" {
		if err := writeFile(outPath, func(f io.Writer) error { return csvio.WriteBatch(f, rows) }); err != nil {
			return err
		}
		fmt.Fprintf(w, "📥 %d件を %s に書き出しました\n", len(rows), outPath)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d rows failed", failed, len(rows))
	}
	return nil
}
