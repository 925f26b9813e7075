package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Tejas1331/stock-volatility-ai/internal/store"
	"github.com/Tejas1331/stock-volatility-ai/internal/trace"
)

// Summarizer produces news summaries via the OpenAI chat completions API.
type Summarizer struct {
	cfg *store.Config
}

func NewSummarizer(cfg *store.Config) *Summarizer {
	return &Summarizer{cfg: cfg}
}

func (s *Summarizer) Summarize(ctx context.Context, ticker, date string, headlines []string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.LLM.TimeoutSeconds)*time.Second)
	defer cancel()

	system := fmt.Sprintf(`You are given news headlines published around %s.

IMPORTANT:
- Base your reasoning strictly on the provided headlines.
- If the headlines are insufficient to explain volatility, explicitly state that.
- Do NOT infer context from outdated events.

Summarize possible drivers of stock volatility for %s.`, date, ticker)

	body := map[string]any{
		"model":       s.cfg.LLM.Model,
		"messages":    []map[string]string{{"role": "system", "content": system}, {"role": "user", "content": strings.Join(headlines, "\n")}},
		"temperature": s.cfg.LLM.Temperature,
		"max_tokens":  s.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	out := strings.TrimSpace(r.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("empty summary")
	}
	return out, nil
}
