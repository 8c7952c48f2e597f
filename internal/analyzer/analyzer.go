// Package analyzer ties the classifier to the result cache: a text is
// classified once, and every later request for the same text is answered
// from the cache.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/kanjo/internal/cache"
	"github.com/matheuskafuri/kanjo/internal/classifier"
	"github.com/sirupsen/logrus"
)

// ErrEmptyInput is returned for text that is blank after trimming.
var ErrEmptyInput = errors.New("input text is empty")

// Outcome is the answer to one Analyze call.
type Outcome struct {
	Text   string
	Result cache.Result
	// Cached is true when Result came from the cache and the model was not called.
	Cached bool
}

type Service struct {
	store      cache.Store
	classifier classifier.Classifier
	log        logrus.FieldLogger
	now        func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

func New(store cache.Store, c classifier.Classifier, opts ...Option) *Service {
	s := &Service{
		store:      store,
		classifier: c,
		log:        logrus.StandardLogger(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Analyze returns the cached result for text, or classifies it and caches
// the result. The cache key is text exactly as given.
func (s *Service) Analyze(ctx context.Context, text string) (Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return Outcome{}, ErrEmptyInput
	}

	res, ok, err := s.store.Get(text)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading cache: %w", err)
	}
	if ok {
		s.log.WithFields(logrus.Fields{"label": res.Label, "score": res.Score}).Debug("cache hit")
		return Outcome{Text: text, Result: res, Cached: true}, nil
	}

	p, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return Outcome{}, fmt.Errorf("classifying: %w", err)
	}

	res = cache.Result{
		Label:     p.Label,
		Score:     p.Score,
		Timestamp: s.now().Format(cache.TimestampLayout),
	}
	stored, err := s.store.PutIfAbsent(text, res)
	if err != nil {
		return Outcome{}, fmt.Errorf("writing cache: %w", err)
	}
	if !stored {
		// Another writer got there first; its result is the canonical one.
		prev, ok, err := s.store.Get(text)
		if err != nil {
			return Outcome{}, fmt.Errorf("reading cache: %w", err)
		}
		if ok {
			return Outcome{Text: text, Result: prev, Cached: true}, nil
		}
	}

	s.log.WithFields(logrus.Fields{"label": res.Label, "score": res.Score}).Info("analyzed new text")
	return Outcome{Text: text, Result: res}, nil
}

// Entries returns every cached result in insertion order.
func (s *Service) Entries() ([]cache.Entry, error) {
	entries, err := s.store.All()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	return entries, nil
}

// Reset deletes the whole cache.
func (s *Service) Reset() error {
	if err := s.store.Reset(); err != nil {
		return err
	}
	s.log.Info("cache reset")
	return nil
}
