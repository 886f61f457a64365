package musicgen

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"path/filepath"

	"tunesmith/analysis"
	"tunesmith/decode"
	"tunesmith/utils"
)

// MockGenerator synthesizes a deterministic chord into a local WAV file. The
// same prompt and seed always produce the same audio, which keeps the wizard
// and the tests reproducible without a hosted service.
type MockGenerator struct {
	outputDir string
}

const mockSampleRate = 22050

func NewMockGenerator(outputDir string) *MockGenerator {
	if outputDir == "" {
		outputDir = filepath.Join("tmp", "generated")
	}
	return &MockGenerator{outputDir: outputDir}
}

func (g *MockGenerator) Name() string { return "mock" }

func (g *MockGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := utils.CreateFolder(g.outputDir); err != nil {
		return nil, err
	}

	seed := promptSeed(req.Prompt, req.Seed)
	buf := synthesize(seed, req.DurationSec)

	fileName := fmt.Sprintf("track_%016x.wav", seed)
	path := filepath.Join(g.outputDir, fileName)
	if err := decode.WriteWAV(path, buf); err != nil {
		return nil, fmt.Errorf("failed to write generated track: %w", err)
	}

	return &Result{
		AudioURL:    "/generated/" + fileName,
		DurationSec: req.DurationSec,
		Model:       "mock-synth",
	}, nil
}

// OutputDir returns the directory generated tracks are written to, so the
// HTTP layer can serve it.
func (g *MockGenerator) OutputDir() string { return g.outputDir }

// promptSeed folds the prompt (and optional explicit seed) into a single
// value that picks the chord.
func promptSeed(prompt string, seed *int64) uint64 {
	h := fnv.New64a()
	h.Write([]byte(prompt))
	if seed != nil {
		fmt.Fprintf(h, "|%d", *seed)
	}
	return h.Sum64()
}

// synthesize renders a three-note chord with a gentle exponential decay. The
// root note is derived from the seed and kept within a musical range.
func synthesize(seed uint64, seconds float64) *analysis.SampleBuffer {
	root := 110.0 * math.Pow(2, float64(seed%25)/12.0) // A2 through A4
	freqs := []float64{root, root * 5 / 4, root * 3 / 2}

	n := int(seconds * mockSampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / mockSampleRate
		envelope := math.Exp(-0.5 * t)
		for _, f := range freqs {
			samples[i] += 0.2 * envelope * math.Sin(2*math.Pi*f*t)
		}
	}

	return &analysis.SampleBuffer{
		Channels:   [][]float64{samples},
		SampleRate: mockSampleRate,
	}
}
