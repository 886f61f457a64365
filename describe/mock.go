package describe

import (
	"context"
	"fmt"
	"strings"

	"tunesmith/analysis"
)

// MockProvider derives descriptions deterministically from the feature
// values. It keeps the wizard usable without any API key and gives tests a
// stable provider to assert against.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Describe(_ context.Context, features *analysis.FeatureResult) (string, error) {
	if features == nil {
		return "", fmt.Errorf("no features to describe")
	}
	return fmt.Sprintf("A %s, %s %s clip of %.1f seconds.",
		brightness(features.SpectralCentroid),
		noisiness(features.ZeroCrossingRate),
		texture(features.Polyphonic),
		features.Duration,
	), nil
}

func (m *MockProvider) DraftPrompt(_ context.Context, features *analysis.FeatureResult, style string) (string, error) {
	if features == nil {
		return "", fmt.Errorf("no features to draft a prompt from")
	}
	parts := []string{
		fmt.Sprintf("%s instrumental track", capitalize(texture(features.Polyphonic))),
		fmt.Sprintf("%s timbre", brightness(features.SpectralCentroid)),
		fmt.Sprintf("%s character", noisiness(features.ZeroCrossingRate)),
	}
	if style != "" {
		parts = append(parts, style+" style")
	}
	return strings.Join(parts, ", "), nil
}

func brightness(centroid float64) string {
	switch {
	case centroid < 500:
		return "dark"
	case centroid < 2000:
		return "warm"
	case centroid < 5000:
		return "bright"
	default:
		return "brilliant"
	}
}

func noisiness(zcr float64) string {
	switch {
	case zcr < 0.05:
		return "smooth"
	case zcr < 0.15:
		return "lively"
	default:
		return "noisy"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func texture(polyphonic bool) string {
	if polyphonic {
		return "chordal"
	}
	return "melodic"
}
