package musicgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// generateRequest is the wire format of the hosted generation endpoint.
type generateRequest struct {
	Prompt      string  `json:"prompt"`
	DurationSec float64 `json:"durationSec"`
	Temperature float64 `json:"temperature"`
	Seed        *int64  `json:"seed,omitempty"`
}

type generateResponse struct {
	AudioURL string `json:"audioUrl"`
	Model    string `json:"model,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HostedGenerator calls the text-to-music service over HTTP.
type HostedGenerator struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHostedGenerator(baseURL, apiKey string) *HostedGenerator {
	return &HostedGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			// generation regularly takes tens of seconds
			Timeout: 120 * time.Second,
		},
	}
}

func (g *HostedGenerator) Name() string { return "hosted" }

// HealthCheck verifies the generation service is reachable.
func (g *HostedGenerator) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("generation service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generation service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (g *HostedGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(generateRequest{
		Prompt:      req.Prompt,
		DurationSec: req.DurationSec,
		Temperature: req.Temperature,
		Seed:        req.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read generation response: %w", err)
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse generation response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		message := decoded.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("generation service returned status %d: %s", resp.StatusCode, message)
	}
	if decoded.AudioURL == "" {
		return nil, fmt.Errorf("generation service returned no audio URL")
	}

	return &Result{
		AudioURL:    decoded.AudioURL,
		DurationSec: req.DurationSec,
		Model:       decoded.Model,
	}, nil
}
