package logic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"ubicomp-backend/internal/common"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"
)

// ErrNoAPIKey fails the chat closed when the client sent no credential.
var ErrNoAPIKey = errors.New("API key not provided")

// TraitBand classifies a 0-100 big-five score. Band edges are inclusive
// on the upper side: 70 is high, 40 is moderate.
func TraitBand(score int) string {
	switch {
	case score >= 70:
		return "high"
	case score >= 40:
		return "moderate"
	default:
		return "low"
	}
}

// PersonalityLine renders all five traits as "trait: band (value/100)",
// comma-joined. Traits are sorted so the prompt is deterministic.
func PersonalityLine(bigFive map[string]int) string {
	traits := make([]string, 0, len(bigFive))
	for trait := range bigFive {
		traits = append(traits, trait)
	}
	sort.Strings(traits)
	parts := make([]string, 0, len(traits))
	for _, trait := range traits {
		value := bigFive[trait]
		parts = append(parts, fmt.Sprintf("%s: %s (%d/100)", trait, TraitBand(value), value))
	}
	return strings.Join(parts, ", ")
}

// BuildPersonaPrompt assembles the persona-conditioning system prompt
// for one simulated student. The weekly description goes in verbatim.
func BuildPersonaPrompt(studentID string, bigFive map[string]int, week int, weeklyDesc string) string {
	return fmt.Sprintf(common.PersonaPrompt,
		strings.ToUpper(studentID), PersonalityLine(bigFive), week, weeklyDesc)
}

func newGeminiClient(ctx context.Context, apiKey string) (*googleai.GoogleAI, error) {
	return googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(common.GeminiModel),
	)
}

// ChatWithGemini sends one user turn under the given system prompt.
func ChatWithGemini(ctx context.Context, apiKey, systemPrompt, message string) (string, error) {
	if apiKey == "" {
		return "", ErrNoAPIKey
	}
	llm, err := newGeminiClient(ctx, apiKey)
	if err != nil {
		return "", err
	}
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, message),
	}
	resp, err := llm.GenerateContent(ctx, content,
		llms.WithTemperature(0.9),
		llms.WithTopP(1.0),
		llms.WithTopK(1),
		llms.WithMaxTokens(2048),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", common.GeminiModel)
	}
	return resp.Choices[0].Content, nil
}

// GeminiTestResult is the in-band report of the connectivity probe.
type GeminiTestResult struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// TestGeminiConnection probes the Gemini API with a fixed prompt. It
// never returns an error; failures go into the result. The probe keeps
// its own generation parameters on purpose, separate from /api/chat.
func TestGeminiConnection(ctx context.Context, apiKey string) GeminiTestResult {
	if apiKey == "" {
		return GeminiTestResult{
			Success: false,
			Error:   "API key not provided. Pass the api_key query parameter.",
		}
	}
	llm, err := newGeminiClient(ctx, apiKey)
	if err != nil {
		return GeminiTestResult{Success: false, Error: fmt.Sprintf("Connection test failed: %v", err)}
	}
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, common.TesterPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, common.TesterMessage),
	}
	resp, err := llm.GenerateContent(ctx, content,
		llms.WithTemperature(0.1),
		llms.WithTopP(0.95),
		llms.WithTopK(2),
		llms.WithMaxTokens(50),
	)
	if err != nil {
		return GeminiTestResult{Success: false, Error: fmt.Sprintf("Connection test failed: %v", err)}
	}
	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Content
	}
	return GeminiTestResult{
		Success:  true,
		Response: text,
		Message:  "Gemini API connection successful!",
	}
}
