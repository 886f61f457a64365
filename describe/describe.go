// Package describe turns analysis results into human-readable descriptions
// and text-to-music prompts. Two providers exist: Hosted delegates to the
// Gemini API, Mock derives deterministic text from the feature values so the
// app degrades gracefully when no API key is configured. The provider is
// selected once at startup, never as a hidden runtime branch.
package describe

import (
	"context"
	"fmt"
	"log"
	"os"

	"tunesmith/analysis"
)

// Provider drafts descriptions and generation prompts from feature results.
type Provider interface {
	// Name identifies the provider in responses and logs ("hosted", "mock").
	Name() string
	// Describe returns a short prose description of the analyzed audio.
	Describe(ctx context.Context, features *analysis.FeatureResult) (string, error)
	// DraftPrompt returns a text-to-music prompt reflecting the analyzed
	// audio, optionally steered toward the given style.
	DraftPrompt(ctx context.Context, features *analysis.FeatureResult, style string) (string, error)
}

// NewFromEnv selects the provider at startup: Hosted when GEMINI_API_KEY is
// set, Mock otherwise.
func NewFromEnv(ctx context.Context) Provider {
	if os.Getenv("GEMINI_API_KEY") != "" {
		provider, err := NewGeminiProvider(ctx)
		if err == nil {
			log.Println("describe: using hosted Gemini provider")
			return provider
		}
		log.Printf("describe: failed to initialize Gemini provider, using mock: %v", err)
	} else {
		log.Println("describe: GEMINI_API_KEY not set, using mock provider")
	}
	return NewMockProvider()
}

// featureSummary renders the feature values the way both providers feed them
// into prompt text.
func featureSummary(features *analysis.FeatureResult) string {
	return fmt.Sprintf(
		"spectral centroid %.0f Hz, zero-crossing rate %.4f, polyphonic: %t, "+
			"duration %.1f s, sample rate %d Hz, %d channel(s)",
		features.SpectralCentroid,
		features.ZeroCrossingRate,
		features.Polyphonic,
		features.Duration,
		features.SampleRate,
		features.Channels,
	)
}
