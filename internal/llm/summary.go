// Package llm provides the optional Gemini-backed summary enhancement used
// when seeding destinations. The application works fully without it.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const summaryModel = "gemini-2.0-flash"

// SummaryEnhancer rewrites a destination blurb into a richer summary.
type SummaryEnhancer interface {
	EnhanceSummary(ctx context.Context, placeName, cityName, editorial string) (string, error)
	Enabled() bool
}

// GeminiEnhancer calls the Gemini API for summary enhancement.
type GeminiEnhancer struct {
	client *genai.Client
	logger *slog.Logger
}

// NewGeminiEnhancer creates an enhancer backed by Gemini.
func NewGeminiEnhancer(ctx context.Context, apiKey string, logger *slog.Logger) (*GeminiEnhancer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiEnhancer{client: client, logger: logger}, nil
}

func (g *GeminiEnhancer) Enabled() bool { return true }

// EnhanceSummary asks Gemini for a two-sentence traveller-facing summary.
func (g *GeminiEnhancer) EnhanceSummary(ctx context.Context, placeName, cityName, editorial string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a vivid two-sentence travel summary for %s, a weekend getaway near %s, India. "+
			"Plain text only, no markdown. Source notes: %s",
		placeName, cityName, editorial)

	resp, err := g.client.Models.GenerateContent(ctx, summaryModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty summary response")
	}
	return text, nil
}

// NoopEnhancer is used when no Gemini key is configured; callers fall back to
// their template summaries.
type NoopEnhancer struct{}

func (NoopEnhancer) Enabled() bool { return false }

func (NoopEnhancer) EnhanceSummary(_ context.Context, _, _, editorial string) (string, error) {
	return editorial, nil
}
