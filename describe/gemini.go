package describe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"tunesmith/analysis"
)

const geminiModel = "gemini-2.5-flash"

const systemPrompt = `You are the analysis assistant of a music studio application.
Users upload an audio clip; you receive a compact set of signal descriptors
(spectral centroid, zero-crossing rate, mel-scale coefficients, a polyphony
flag and format metadata) and help with:
- Describing the character of the uploaded audio in plain language
- Drafting prompts for a text-to-music generation model

Be concrete and musical: talk about brightness, noisiness, texture and mood,
never about the raw numbers. Keep responses under 120 words.`

// GeminiProvider delegates descriptions and prompt drafting to the hosted
// Gemini API.
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider builds the hosted provider. GEMINI_API_KEY must be set.
func NewGeminiProvider(ctx context.Context) (*GeminiProvider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client}, nil
}

func (g *GeminiProvider) Name() string { return "hosted" }

func (g *GeminiProvider) Describe(ctx context.Context, features *analysis.FeatureResult) (string, error) {
	message := "Describe the character of an audio clip with these descriptors: " + featureSummary(features)
	return g.generate(ctx, message)
}

func (g *GeminiProvider) DraftPrompt(ctx context.Context, features *analysis.FeatureResult, style string) (string, error) {
	message := "Draft a single text-to-music generation prompt (one sentence, no preamble) " +
		"for a new track inspired by an audio clip with these descriptors: " + featureSummary(features)
	if style != "" {
		message += ". Steer the prompt toward this style: " + style
	}
	return g.generate(ctx, message)
}

func (g *GeminiProvider) generate(ctx context.Context, message string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleModel),
		Temperature:       genai.Ptr(float32(0.7)),
		TopP:              genai.Ptr(float32(0.8)),
		TopK:              genai.Ptr(float32(40)),
		MaxOutputTokens:   int32(200),
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		geminiModel,
		[]*genai.Content{genai.NewContentFromText(message, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from %s", geminiModel)
	}
	return strings.ReplaceAll(text, "*", ""), nil
}
