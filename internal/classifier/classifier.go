package classifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/matheuskafuri/kanjo/internal/config"
	"github.com/matheuskafuri/kanjo/internal/retry"
	"github.com/sirupsen/logrus"
)

// Sentiment labels produced by the built-in providers. Remote models may
// return other neutral variants; those are passed through lowercased.
const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

// ErrNotConfigured is returned when a remote provider has no API key.
var ErrNotConfigured = errors.New("model API key not configured")

// Prediction is a single classification: a label and the model's confidence.
type Prediction struct {
	Label string
	Score float64
}

// Classifier assigns a sentiment label to a text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

// StatusError is a non-200 response from a model API.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API %d: %s", e.Provider, e.Code, e.Body)
}

// New creates the Classifier named by cfg.Model.Provider.
func retryConfig(cfg *config.Config) retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.Model.Retries
	return rc
}

// RequestBudget is the deadline one Classify call needs to finish every
// attempt and backoff wait.
func RequestBudget(cfg *config.Config) time.Duration {
	return retryConfig(cfg).Budget(cfg.TimeoutDuration())
}

func New(cfg *config.Config, log logrus.FieldLogger) (Classifier, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.Model.Provider == "lexicon" {
		return NewLexicon(), nil
	}

	apiKey := cfg.APIKey()
	client := &http.Client{Timeout: cfg.TimeoutDuration()}
	opts := retry.Options{
		Config:    retryConfig(cfg),
		Retryable: Retryable,
		Logger: func(msg string, args ...interface{}) {
			log.WithField("provider", cfg.Model.Provider).Warnf(msg, args...)
		},
		Name: cfg.Model.Provider,
	}

	switch cfg.Model.Provider {
	case "", "huggingface":
		// The public inference router accepts anonymous calls at a low rate.
		return &huggingFace{
			endpoint: orDefault(cfg.Model.Endpoint, DefaultHuggingFaceEndpoint),
			model:    orDefault(cfg.Model.Name, DefaultHuggingFaceModel),
			apiKey:   apiKey,
			client:   client,
			retry:    opts,
			log:      log,
		}, nil
	case "claude":
		if apiKey == "" {
			return nil, fmt.Errorf("claude: %w", ErrNotConfigured)
		}
		return &claudeProvider{
			endpoint: orDefault(cfg.Model.Endpoint, "https://api.anthropic.com/v1"),
			apiKey:   apiKey,
			model:    orDefault(cfg.Model.Name, "claude-haiku-4-5-20251001"),
			client:   client,
			retry:    opts,
		}, nil
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai: %w", ErrNotConfigured)
		}
		return &openaiProvider{
			endpoint: orDefault(cfg.Model.Endpoint, "https://api.openai.com/v1"),
			apiKey:   apiKey,
			model:    orDefault(cfg.Model.Name, "gpt-4o-mini"),
			client:   client,
			retry:    opts,
		}, nil
	default:
		return nil, fmt.Errorf("unknown model provider: %q (valid: huggingface, openai, claude, lexicon)", cfg.Model.Provider)
	}
}

// NormalizeLabel lowercases a model label and folds common spellings of
// the three polarities onto Positive, Negative and Neutral.
func NormalizeLabel(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	switch l {
	case "positive", "pos", "ポジティブ", "肯定":
		return Positive
	case "negative", "neg", "ネガティブ", "否定":
		return Negative
	case "neutral", "neu", "ニュートラル", "中立":
		return Neutral
	}
	return l
}

// Retryable reports whether err is worth another attempt: rate limiting,
// server errors and transport failures.
func Retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne net.Error
	return errors.As(err, &ne)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
