package analyzer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheuskafuri/kanjo/internal/cache"
	"github.com/matheuskafuri/kanjo/internal/classifier"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	calls []string
	pred  map[string]classifier.Prediction
	err   map[string]error
}

func (f *fakeClassifier) Classify(_ context.Context, text string) (classifier.Prediction, error) {
	f.calls = append(f.calls, text)
	if err, ok := f.err[text]; ok {
		return classifier.Prediction{}, err
	}
	if p, ok := f.pred[text]; ok {
		return p, nil
	}
	return classifier.Prediction{Label: classifier.Neutral, Score: 0.6}, nil
}

var fixedNow = time.Date(2025, 6, 1, 9, 30, 15, 0, time.Local)

func newTestService(t *testing.T, fc *fakeClassifier) (*Service, cache.Store) {
	t.Helper()
	store := cache.OpenJSON(filepath.Join(t.TempDir(), "cache.json"))
	log, _ := test.NewNullLogger()
	return New(store, fc, WithClock(func() time.Time { return fixedNow }), WithLogger(log)), store
}

func TestAnalyzeNewText(t *testing.T) {
	fc := &fakeClassifier{pred: map[string]classifier.Prediction{
		"楽しい": {Label: classifier.Positive, Score: 0.97},
	}}
	svc, store := newTestService(t, fc)

	out, err := svc.Analyze(context.Background(), "楽しい")
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, "楽しい", out.Text)
	assert.Equal(t, cache.Result{Label: "positive", Score: 0.97, Timestamp: "2025-06-01 09:30:15"}, out.Result)

	stored, ok, err := store.Get("楽しい")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, out.Result, stored)
}

func TestAnalyzeCachedTextSkipsModel(t *testing.T) {
	fc := &fakeClassifier{}
	svc, _ := newTestService(t, fc)

	first, err := svc.Analyze(context.Background(), "普通の日")
	require.NoError(t, err)

	// Model would now answer differently; the cache must win.
	fc.pred = map[string]classifier.Prediction{"普通の日": {Label: classifier.Negative, Score: 0.99}}
	svc.now = func() time.Time { return fixedNow.Add(time.Hour) }

	second, err := svc.Analyze(context.Background(), "普通の日")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result, second.Result)
	assert.Len(t, fc.calls, 1)
}

func TestAnalyzeKeyIsUntrimmedInput(t *testing.T) {
	fc := &fakeClassifier{}
	svc, store := newTestService(t, fc)

	_, err := svc.Analyze(context.Background(), "  空白  ")
	require.NoError(t, err)

	_, ok, err := store.Get("空白")
	require.NoError(t, err)
	assert.False(t, ok, "trimmed key must not be stored")

	_, ok, err = store.Get("  空白  ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"  空白  "}, fc.calls)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	fc := &fakeClassifier{}
	svc, _ := newTestService(t, fc)

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := svc.Analyze(context.Background(), in)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Empty(t, fc.calls)
}

func TestAnalyzeClassifierError(t *testing.T) {
	boom := errors.New("model unavailable")
	fc := &fakeClassifier{err: map[string]error{"失敗": boom}}
	svc, store := newTestService(t, fc)

	_, err := svc.Analyze(context.Background(), "失敗")
	assert.ErrorIs(t, err, boom)

	entries, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, entries, "failed analysis must not be cached")
}

// racedStore behaves as if another writer stored the text between the
// miss and the put.
type racedStore struct {
	cache.Store
	gets     int
	prev     cache.Result
	reGetErr error
}

func (r *racedStore) Get(string) (cache.Result, bool, error) {
	r.gets++
	if r.gets == 1 {
		return cache.Result{}, false, nil
	}
	if r.reGetErr != nil {
		return cache.Result{}, false, r.reGetErr
	}
	return r.prev, true, nil
}

func (r *racedStore) PutIfAbsent(string, cache.Result) (bool, error) { return false, nil }

func TestAnalyzeLostRaceReturnsStoredResult(t *testing.T) {
	prev := cache.Result{Label: "negative", Score: 0.8, Timestamp: "2025-05-31 12:00:00"}
	store := &racedStore{prev: prev}
	log, _ := test.NewNullLogger()
	svc := New(store, &fakeClassifier{}, WithLogger(log))

	out, err := svc.Analyze(context.Background(), "同時")
	require.NoError(t, err)
	assert.True(t, out.Cached)
	assert.Equal(t, prev, out.Result)
}

func TestAnalyzeLostRaceReadError(t *testing.T) {
	readErr := errors.New("disk gone")
	store := &racedStore{reGetErr: readErr}
	log, _ := test.NewNullLogger()
	svc := New(store, &fakeClassifier{}, WithLogger(log))

	_, err := svc.Analyze(context.Background(), "同時")
	assert.ErrorIs(t, err, readErr)
}

func TestEntriesAndReset(t *testing.T) {
	svc, _ := newTestService(t, &fakeClassifier{})
	for _, text := range []string{"一", "二", "三"} {
		_, err := svc.Analyze(context.Background(), text)
		require.NoError(t, err)
	}

	entries, err := svc.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "一", entries[0].Text)
	assert.Equal(t, "三", entries[2].Text)

	require.NoError(t, svc.Reset())
	entries, err = svc.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyzeBatchWithoutSave(t *testing.T) {
	fc := &fakeClassifier{
		pred: map[string]classifier.Prediction{"良い": {Label: classifier.Positive, Score: 0.9}},
		err:  map[string]error{"壊れた": errors.New("bad input")},
	}
	svc, store := newTestService(t, fc)

	var seen []int
	rows, err := svc.AnalyzeBatch(context.Background(), []string{"良い", "壊れた", "良い", "普通"}, BatchOptions{
		OnRow: func(r BatchRow) { seen = append(seen, r.Index) },
	})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []int{0, 1, 2, 3}, seen)
	assert.Equal(t, "positive", rows[0].Label)
	assert.Error(t, rows[1].Err)
	assert.Equal(t, "positive", rows[2].Label)
	assert.Equal(t, "neutral", rows[3].Label)
	// Duplicate row is memoised; the failing row is not
	assert.Equal(t, []string{"良い", "壊れた", "普通"}, fc.calls)

	entries, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, entries, "batch without save must not write the cache")
}

func TestAnalyzeBatchWithSave(t *testing.T) {
	fc := &fakeClassifier{}
	svc, store := newTestService(t, fc)

	_, err := svc.Analyze(context.Background(), "既知")
	require.NoError(t, err)

	rows, err := svc.AnalyzeBatch(context.Background(), []string{"既知", "新規"}, BatchOptions{Save: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Cached)
	assert.False(t, rows[1].Cached)

	entries, err := store.All()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAnalyzeBatchStopsOnCancel(t *testing.T) {
	fc := &fakeClassifier{}
	svc, _ := newTestService(t, fc)

	ctx, cancel := context.WithCancel(context.Background())
	rows, err := svc.AnalyzeBatch(ctx, []string{"一", "二", "三"}, BatchOptions{
		OnRow: func(r BatchRow) {
			if r.Index == 0 {
				cancel()
			}
		},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, rows, 1)
}
