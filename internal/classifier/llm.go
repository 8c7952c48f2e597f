package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/matheuskafuri/kanjo/internal/retry"
	"github.com/matheuskafuri/kanjo/internal/textutil"
)

const classifyPrompt = `Classify the sentiment of the following Japanese text as positive, negative or neutral, and give your confidence as a number between 0 and 1.

Format your response EXACTLY like this:
LABEL: <positive|negative|neutral>
SCORE: <confidence>

Text: %s`

// parsePrediction reads the LABEL/SCORE lines of an LLM reply. A missing
// or unparsable SCORE yields 0.
func parsePrediction(text string) (Prediction, error) {
	var p Prediction
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "*` "))
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "LABEL:"):
			p.Label = NormalizeLabel(strings.TrimSpace(line[len("LABEL:"):]))
		case strings.HasPrefix(upper, "SCORE:"):
			f, err := strconv.ParseFloat(strings.TrimSpace(line[len("SCORE:"):]), 64)
			if err == nil {
				p.Score = clamp01(f)
			}
		}
	}
	if p.Label == "" {
		return Prediction{}, fmt.Errorf("no LABEL in model reply: %q", textutil.Truncate(text, 80))
	}
	return p, nil
}

// --- Claude provider ---

type claudeProvider struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	retry    retry.Options
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *claudeProvider) Classify(ctx context.Context, text string) (Prediction, error) {
	reply, err := retry.Do(ctx, c.retry, func(int) (string, error) {
		return c.call(ctx, fmt.Sprintf(classifyPrompt, text))
	})
	if err != nil {
		return Prediction{}, err
	}
	return parsePrediction(reply)
}

func (c *claudeProvider) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: 32,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.endpoint, "/")+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &StatusError{Provider: "claude", Code: resp.StatusCode, Body: string(b)}
	}

	var cr claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Content) == 0 {
		return "", fmt.Errorf("empty claude response")
	}
	return cr.Content[0].Text, nil
}

// --- OpenAI provider ---

type openaiProvider struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	retry    retry.Options
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *openaiProvider) Classify(ctx context.Context, text string) (Prediction, error) {
	reply, err := retry.Do(ctx, o.retry, func(int) (string, error) {
		return o.call(ctx, fmt.Sprintf(classifyPrompt, text))
	})
	if err != nil {
		return Prediction{}, err
	}
	return parsePrediction(reply)
}

func (o *openaiProvider) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(openaiRequest{
		Model:    o.model,
		Messages: []openaiMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(o.endpoint, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &StatusError{Provider: "openai", Code: resp.StatusCode, Body: string(b)}
	}

	var or openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", err
	}
	if len(or.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return or.Choices[0].Message.Content, nil
}
