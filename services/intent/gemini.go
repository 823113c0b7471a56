package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nexusschedule/models"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const extractionPrompt = `Extract a scheduling intent from the user message below.
Respond with ONLY a JSON object, no prose, with these fields:
  intent: one of "book_appointment", "reschedule_appointment", "cancel_appointment", "find_provider", "unknown"
  service: requested service name, or ""
  date: calendar date as YYYY-MM-DD, or ""
  time: time of day as HH:MM in 24h form, or ""
  timePreference: one of "morning", "afternoon", "evening", or ""
  urgency: one of "low", "medium", "high"
  confidence: number between 0 and 1

User message: %q`

// GeminiExtractor asks a generative model for a structured intent and falls
// back to keyword extraction when the model call or parse fails.
type GeminiExtractor struct {
	model    *genai.GenerativeModel
	fallback *KeywordExtractor
	logger   *zap.Logger
}

func NewGeminiExtractor(apiKey string, logger *zap.Logger) (*GeminiExtractor, error) {
	if logger == nil {
		logger = zap.L()
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiExtractor{
		model:    client.GenerativeModel("models/gemini-1.5-pro"),
		fallback: &KeywordExtractor{},
		logger:   logger,
	}, nil
}

func (g *GeminiExtractor) Extract(ctx context.Context, text string) (models.BookingIntent, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(extractionPrompt, text)))
	if err != nil {
		g.logger.Warn("model extraction failed, using keyword fallback", zap.Error(err))
		return g.fallback.Extract(ctx, text)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		g.logger.Warn("model returned no candidates, using keyword fallback")
		return g.fallback.Extract(ctx, text)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	var result models.BookingIntent
	if err := json.Unmarshal([]byte(stripFences(sb.String())), &result); err != nil {
		g.logger.Warn("model returned unparseable intent, using keyword fallback",
			zap.Error(err))
		return g.fallback.Extract(ctx, text)
	}
	result.OriginalText = text
	if result.Intent == "" {
		result.Intent = models.IntentUnknown
	}
	return result, nil
}

// stripFences removes a markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
