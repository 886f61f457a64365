package musicgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHostedGenerate(t *testing.T) {
	t.Parallel()

	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected Content-Type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{
			AudioURL: "https://cdn.example.com/track.wav",
			Model:    "musicgen-large",
		})
	}))
	defer server.Close()

	gen := NewHostedGenerator(server.URL, "secret")
	seed := int64(99)
	result, err := gen.Generate(context.Background(), Request{
		Prompt:      "warm lofi piano",
		DurationSec: 12,
		Temperature: 0.8,
		Seed:        &seed,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if got.Prompt != "warm lofi piano" || got.DurationSec != 12 || got.Temperature != 0.8 {
		t.Errorf("service received %+v", got)
	}
	if got.Seed == nil || *got.Seed != 99 {
		t.Errorf("seed not forwarded: %+v", got.Seed)
	}
	if result.AudioURL != "https://cdn.example.com/track.wav" {
		t.Errorf("AudioURL = %q", result.AudioURL)
	}
	if result.Model != "musicgen-large" {
		t.Errorf("Model = %q", result.Model)
	}
	if result.DurationSec != 12 {
		t.Errorf("DurationSec = %g, expected 12", result.DurationSec)
	}
}

func TestHostedGenerateAppliesDefaultsAndClamps(t *testing.T) {
	t.Parallel()

	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(generateResponse{AudioURL: "https://cdn.example.com/t.wav"})
	}))
	defer server.Close()

	gen := NewHostedGenerator(server.URL, "secret")

	if _, err := gen.Generate(context.Background(), Request{Prompt: "x"}); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got.DurationSec != DefaultDurationSec || got.Temperature != DefaultTemperature {
		t.Errorf("defaults not applied: %+v", got)
	}

	if _, err := gen.Generate(context.Background(), Request{Prompt: "x", DurationSec: 300}); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got.DurationSec != MaxDurationSec {
		t.Errorf("duration not clamped: %g", got.DurationSec)
	}
}

func TestHostedGenerateErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(generateResponse{Error: "quota exceeded"})
	}))
	defer server.Close()

	gen := NewHostedGenerator(server.URL, "secret")
	_, err := gen.Generate(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error %q does not surface the service message", err)
	}
}

func TestHostedGenerateRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	gen := NewHostedGenerator("http://localhost:0", "secret")
	_, err := gen.Generate(context.Background(), Request{})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestHostedHealthCheck(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gen := NewHostedGenerator(server.URL, "secret")
	if err := gen.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck returned error: %v", err)
	}
}
