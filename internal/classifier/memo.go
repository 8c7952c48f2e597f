package classifier

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMemoSize = 1024

// Memo remembers recent predictions by exact text so repeated rows in a
// batch hit the model once. It does not touch the persistent cache.
type Memo struct {
	next  Classifier
	cache *lru.Cache[string, Prediction]
}

func NewMemo(next Classifier, size int) *Memo {
	if size <= 0 {
		size = defaultMemoSize
	}
	cache, _ := lru.New[string, Prediction](size)
	return &Memo{next: next, cache: cache}
}

func (m *Memo) Classify(ctx context.Context, text string) (Prediction, error) {
	if p, ok := m.cache.Get(text); ok {
		return p, nil
	}
	p, err := m.next.Classify(ctx, text)
	if err != nil {
		return Prediction{}, err
	}
	m.cache.Add(text, p)
	return p, nil
}
