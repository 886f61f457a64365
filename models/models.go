package models

import (
	"time"

	"tunesmith/analysis"
)

// UploadData is the payload the browser emits when the user drops an audio
// file onto the wizard. Audio is the base64-encoded file contents; the format
// is sniffed server-side, FileName and MimeType are informational only.
type UploadData struct {
	Audio    string `json:"audio"`
	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// AnalysisSummary is returned to the client once an uploaded file has been
// decoded and analyzed.
type AnalysisSummary struct {
	Features    *analysis.FeatureResult `json:"features"`
	Description string                  `json:"description,omitempty"`
	Provider    string                  `json:"provider,omitempty"`
	LatencyMs   float64                 `json:"latencyMs"`
}

// PromptRequest asks the describe provider to draft a text-to-music prompt
// in the given style from the latest analysis.
type PromptRequest struct {
	Style string `json:"style,omitempty"`
}

// PromptDraft carries a drafted generation prompt back to the client.
type PromptDraft struct {
	Prompt   string `json:"prompt"`
	Provider string `json:"provider"`
}

// GenerateRequest carries the parameters for a text-to-music generation call.
type GenerateRequest struct {
	Prompt      string  `json:"prompt"`
	DurationSec float64 `json:"durationSec,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Seed        *int64  `json:"seed,omitempty"`
}

// TrackInfo identifies a generated track for playback and download.
type TrackInfo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title,omitempty"`
	AudioURL    string    `json:"audioUrl"`
	DurationSec float64   `json:"durationSec"`
	Prompt      string    `json:"prompt"`
	Provider    string    `json:"provider"`
	CreatedAt   time.Time `json:"createdAt"`
}
