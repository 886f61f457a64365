// Package musicgen reaches the hosted text-to-music service. The hosted
// generator is a plain HTTP JSON client; the mock generator synthesizes a
// deterministic WAV locally so the wizard works end to end without any
// service configured. As with the describe providers, the variant is chosen
// explicitly at startup.
package musicgen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
)

// Request carries the generation parameters. DurationSec and Temperature fall
// back to defaults when zero; Seed is optional.
type Request struct {
	Prompt      string
	DurationSec float64
	Temperature float64
	Seed        *int64
}

// Result points at the generated audio. AudioURL is either an absolute URL
// returned by the hosted service or a server-relative path for mock output.
type Result struct {
	AudioURL    string
	DurationSec float64
	Model       string
}

// Generator produces a playable track from a text prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Result, error)
}

const (
	DefaultDurationSec = 10.0
	MaxDurationSec     = 30.0
	DefaultTemperature = 1.0
)

// ErrInvalidRequest is returned for requests no generator can act on.
var ErrInvalidRequest = errors.New("invalid generation request")

// normalize validates the request and fills defaults. Durations are clamped
// to the service ceiling rather than rejected.
func (r *Request) normalize() error {
	if r.Prompt == "" {
		return fmt.Errorf("%w: prompt must not be empty", ErrInvalidRequest)
	}
	if r.DurationSec < 0 || r.Temperature < 0 {
		return fmt.Errorf("%w: duration and temperature must not be negative", ErrInvalidRequest)
	}
	if r.DurationSec == 0 {
		r.DurationSec = DefaultDurationSec
	}
	if r.DurationSec > MaxDurationSec {
		r.DurationSec = MaxDurationSec
	}
	if r.Temperature == 0 {
		r.Temperature = DefaultTemperature
	}
	return nil
}

// NewFromEnv selects the generator at startup: Hosted when MUSICGEN_URL and
// MUSICGEN_API_KEY are set, Mock otherwise.
func NewFromEnv(outputDir string) Generator {
	url := os.Getenv("MUSICGEN_URL")
	apiKey := os.Getenv("MUSICGEN_API_KEY")
	if url != "" && apiKey != "" {
		log.Printf("musicgen: using hosted generator at %s", url)
		return NewHostedGenerator(url, apiKey)
	}
	log.Println("musicgen: MUSICGEN_URL/MUSICGEN_API_KEY not set, using mock generator")
	return NewMockGenerator(outputDir)
}
