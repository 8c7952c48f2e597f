package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/matheuskafuri/kanjo/internal/retry"
	"github.com/sirupsen/logrus"
)

const (
	DefaultHuggingFaceEndpoint = "https://router.huggingface.co/hf-inference/models"
	DefaultHuggingFaceModel    = "jarvisx17/japanese-sentiment-analysis"
)

// huggingFace calls a text-classification pipeline on the Hugging Face
// inference API.
type huggingFace struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	retry    retry.Options
	log      logrus.FieldLogger
}

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (h *huggingFace) Classify(ctx context.Context, text string) (Prediction, error) {
	return retry.Do(ctx, h.retry, func(attempt int) (Prediction, error) {
		h.log.WithFields(logrus.Fields{"model": h.model, "attempt": attempt, "chars": len([]rune(text))}).Debug("huggingface classify")
		return h.call(ctx, text)
	})
}

func (h *huggingFace) call(ctx context.Context, text string) (Prediction, error) {
	body, _ := json.Marshal(hfRequest{Inputs: text})

	url := strings.TrimRight(h.endpoint, "/") + "/" + h.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("huggingface API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Prediction{}, &StatusError{Provider: "huggingface", Code: resp.StatusCode, Body: string(b)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Prediction{}, fmt.Errorf("reading huggingface response: %w", err)
	}
	return parseHFResponse(data)
}

// parseHFResponse accepts both the nested [[{label,score}]] shape returned
// for a single input and the flat [{label,score}] shape, and returns the
// highest-scoring label.
func parseHFResponse(data []byte) (Prediction, error) {
	var scores []hfScore

	var nested [][]hfScore
	if err := json.Unmarshal(data, &nested); err == nil && len(nested) > 0 {
		scores = nested[0]
	} else if err := json.Unmarshal(data, &scores); err != nil {
		return Prediction{}, fmt.Errorf("decoding huggingface response: %w", err)
	}

	if len(scores) == 0 {
		return Prediction{}, fmt.Errorf("empty huggingface response")
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return Prediction{Label: NormalizeLabel(best.Label), Score: best.Score}, nil
}
