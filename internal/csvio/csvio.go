// Package csvio reads texts to analyse from CSV and writes results back out.
// Output files start with a UTF-8 BOM so spreadsheet tools detect the
// encoding of Japanese text.
package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matheuskafuri/kanjo/internal/analyzer"
	"github.com/matheuskafuri/kanjo/internal/cache"
)

const bom = "\ufeff"

// ErrMissingColumn is returned when the header lacks the requested column.
var ErrMissingColumn = errors.New("column not found in CSV header")

// ReadTexts returns the non-empty cells of column, in file order.
func ReadTexts(r io.Reader, column string) ([]string, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %q (empty file)", ErrMissingColumn, column)
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	col := -1
	for i, h := range header {
		if strings.TrimSpace(h) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}

	var texts []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		if col >= len(rec) || strings.TrimSpace(rec[col]) == "" {
			continue
		}
		texts = append(texts, rec[col])
	}
	return texts, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(bom)); err == nil && string(b) == bom {
		br.Discard(len(bom))
	}
	return br
}

// WriteEntries writes cached results as text,label,score,timestamp.
func WriteEntries(w io.Writer, entries []cache.Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Text, e.Label, formatScore(e.Score), e.Timestamp})
	}
	return write(w, []string{"text", "label", "score", "timestamp"}, rows)
}

// WriteBatch writes batch rows as text,label,score,error. Failed rows leave
// label and score empty.
func WriteBatch(w io.Writer, rows []analyzer.BatchRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r.Err != nil {
			out = append(out, []string{r.Text, "", "", r.Err.Error()})
			continue
		}
		out = append(out, []string{r.Text, r.Label, formatScore(r.Score), ""})
	}
	return write(w, []string{"text", "label", "score", "error"}, out)
}

func write(w io.Writer, header []string, rows [][]string) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
