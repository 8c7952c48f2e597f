package analyzer

import (
	"context"

	"github.com/matheuskafuri/kanjo/internal/classifier"
	"github.com/sirupsen/logrus"
)

// BatchRow is the result for one text of a batch, in input order.
type BatchRow struct {
	Index int
	Text  string
	Label string
	Score float64
	// Cached is only set when the batch runs with Save.
	Cached bool
	Err    error
}

type BatchOptions struct {
	// Save routes every row through Analyze so results land in the cache.
	// Without it the cache is neither read nor written.
	Save bool
	// OnRow is called after each row, in order.
	OnRow func(BatchRow)
}

// AnalyzeBatch classifies texts in order. A failing row records its error
// and the batch continues; a done ctx stops the batch and is returned with
// the rows finished so far.
func (s *Service) AnalyzeBatch(ctx context.Context, texts []string, opts BatchOptions) ([]BatchRow, error) {
	memo := classifier.NewMemo(s.classifier, len(texts))
	rows := make([]BatchRow, 0, len(texts))

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		row := BatchRow{Index: i, Text: text}
		if opts.Save {
			out, err := s.Analyze(ctx, text)
			row.Err = err
			row.Label, row.Score, row.Cached = out.Result.Label, out.Result.Score, out.Cached
		} else {
			p, err := memo.Classify(ctx, text)
			row.Err = err
			row.Label, row.Score = p.Label, p.Score
		}
		if row.Err != nil {
			s.log.WithFields(logrus.Fields{"row": i, "error": row.Err}).Warn("batch row failed")
		}

		rows = append(rows, row)
		if opts.OnRow != nil {
			opts.OnRow(row)
		}
	}

	s.log.WithFields(logrus.Fields{"rows": len(rows), "save": opts.Save}).Info("batch finished")
	return rows, nil
}
