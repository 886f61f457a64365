package describe

import (
	"context"
	"strings"
	"testing"

	"tunesmith/analysis"
)

func testFeatures(centroid, zcr float64, polyphonic bool) *analysis.FeatureResult {
	return &analysis.FeatureResult{
		SpectralCentroid: centroid,
		ZeroCrossingRate: zcr,
		Polyphonic:       polyphonic,
		SampleRate:       44100,
		Channels:         1,
		BitDepth:         analysis.BitDepth,
		Duration:         2.5,
	}
}

func TestMockDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		features *analysis.FeatureResult
		contains []string
	}{
		{"dark smooth melodic", testFeatures(200, 0.01, false), []string{"dark", "smooth", "melodic"}},
		{"bright lively chordal", testFeatures(3000, 0.1, true), []string{"bright", "lively", "chordal"}},
		{"brilliant noisy", testFeatures(8000, 0.5, false), []string{"brilliant", "noisy"}},
		{"warm", testFeatures(1000, 0.01, false), []string{"warm"}},
	}

	mock := NewMockProvider()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mock.Describe(context.Background(), tt.features)
			if err != nil {
				t.Fatalf("Describe returned error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("description %q does not mention %q", got, want)
				}
			}
		})
	}
}

func TestMockDescribeIsDeterministic(t *testing.T) {
	t.Parallel()

	mock := NewMockProvider()
	features := testFeatures(1500, 0.08, true)

	first, err := mock.Describe(context.Background(), features)
	if err != nil {
		t.Fatalf("Describe returned error: %v", err)
	}
	second, err := mock.Describe(context.Background(), features)
	if err != nil {
		t.Fatalf("Describe returned error: %v", err)
	}
	if first != second {
		t.Errorf("descriptions differ for identical input:\n%q\n%q", first, second)
	}
}

func TestMockDraftPrompt(t *testing.T) {
	t.Parallel()

	mock := NewMockProvider()
	got, err := mock.DraftPrompt(context.Background(), testFeatures(3000, 0.01, true), "lofi")
	if err != nil {
		t.Fatalf("DraftPrompt returned error: %v", err)
	}
	for _, want := range []string{"Chordal", "bright", "smooth", "lofi"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt %q does not mention %q", got, want)
		}
	}

	noStyle, err := mock.DraftPrompt(context.Background(), testFeatures(3000, 0.01, true), "")
	if err != nil {
		t.Fatalf("DraftPrompt returned error: %v", err)
	}
	if strings.Contains(noStyle, "style") {
		t.Errorf("prompt %q mentions a style although none was requested", noStyle)
	}
}

func TestMockRejectsNilFeatures(t *testing.T) {
	t.Parallel()

	mock := NewMockProvider()
	if _, err := mock.Describe(context.Background(), nil); err == nil {
		t.Error("Describe(nil) should fail")
	}
	if _, err := mock.DraftPrompt(context.Background(), nil, ""); err == nil {
		t.Error("DraftPrompt(nil) should fail")
	}
}
