package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matheuskafuri/kanjo/internal/analyzer"
	"github.com/matheuskafuri/kanjo/internal/classifier"
	"github.com/matheuskafuri/kanjo/internal/tui"
	"github.com/spf13/cobra"
)

var flagAnalyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze one text, reading stdin when no text is given",
	Long: `Classify a single text. Arguments are joined with spaces; with no arguments the
whole of stdin is used. A text that was analyzed before is answered from the
cache without calling the model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(args, os.Stdin)
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), classifier.RequestBudget(s.cfg))
		defer cancel()
		return runAnalyze(ctx, s.svc, text, flagAnalyzeJSON, cmd.OutOrStdout())
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagAnalyzeJSON, "json", false, "print the result as JSON")
}

// inputText joins args, or reads r when there are none. A single trailing
// newline from stdin is dropped so piped text matches typed text.
func inputText(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

type analyzeOutput struct {
	Text      string  `json:"text"`
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	Timestamp string  `json:"timestamp"`
	Cached    bool    `json:"cached"`
}

func runAnalyze(ctx context.Context, svc *analyzer.Service, text string, asJSON bool, w io.Writer) error {
	out, err := svc.Analyze(ctx, text)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc.Encode(analyzeOutput{
			Text:      out.Text,
			Label:     out.Result.Label,
			Score:     out.Result.Score,
			Timestamp: out.Result.Timestamp,
			Cached:    out.Cached,
		})
	}

	fmt.Fprintln(w, tui.CacheNotice(out.Cached))
	fmt.Fprintln(w, tui.FormatResult(out.Result.Label, out.Result.Score))
	return nil
}
