package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Tejas1331/stock-volatility-ai/internal/store"
	"github.com/Tejas1331/stock-volatility-ai/internal/trace"
)

// Summarizer produces news summaries with the Gemini API.
type Summarizer struct {
	cfg    *store.Config
	client *genai.Client
}

// NewSummarizer creates a Gemini-backed summarizer. GOOGLE_API_KEY must be set.
func NewSummarizer(ctx context.Context, cfg *store.Config) (*Summarizer, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GOOGLE_API_KEY missing")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Summarizer{cfg: cfg, client: client}, nil
}

// Summarize asks the model for possible volatility drivers, constrained to
// the provided headlines only.
func (s *Summarizer) Summarize(ctx context.Context, ticker, date string, headlines []string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.LLM.TimeoutSeconds)*time.Second)
	defer cancel()

	system := fmt.Sprintf(`You are given news headlines published around %s.

IMPORTANT:
- Base your reasoning strictly on the provided headlines.
- If the headlines are insufficient to explain volatility, explicitly state that.
- Do NOT infer context from outdated events.

Summarize possible drivers of stock volatility for %s.`, date, ticker)

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(s.cfg.LLM.Temperature),
		MaxOutputTokens:   int32(s.cfg.LLM.MaxTokens),
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{genai.NewPartFromText(strings.Join(headlines, "\n"))},
	}}

	resp, err := s.client.Models.GenerateContent(ctx, s.cfg.LLM.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	var out strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					out.WriteString(part.Text)
				}
			}
			if out.Len() > 0 {
				break
			}
		}
	}
	if out.Len() == 0 {
		return "", errors.New("no summary generated")
	}
	return strings.TrimSpace(out.String()), nil
}
