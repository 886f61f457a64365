package workflow

import (
	"errors"
	"testing"

	"tunesmith/analysis"
	"tunesmith/models"
)

func TestLinearProgression(t *testing.T) {
	t.Parallel()

	s := NewSession()
	steps := []struct {
		event Event
		want  Step
	}{
		{EventUploaded, StepAnalyze},
		{EventAnalyzed, StepGenerate},
		{EventGenerated, StepResult},
	}
	for _, tt := range steps {
		if err := s.Apply(tt.event); err != nil {
			t.Fatalf("Apply(%v) returned error: %v", tt.event, err)
		}
		if s.Step != tt.want {
			t.Fatalf("after %v: step = %v, expected %v", tt.event, s.Step, tt.want)
		}
	}
}

func TestInvalidTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup []Event
		event Event
	}{
		{"analyze before upload", nil, EventAnalyzed},
		{"generate before upload", nil, EventGenerated},
		{"generate before analysis", []Event{EventUploaded}, EventGenerated},
		{"upload twice", []Event{EventUploaded}, EventUploaded},
		{"advance past result", []Event{EventUploaded, EventAnalyzed, EventGenerated}, EventGenerated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			for _, e := range tt.setup {
				if err := s.Apply(e); err != nil {
					t.Fatalf("setup Apply(%v) failed: %v", e, err)
				}
			}
			if err := s.Apply(tt.event); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestResetClearsArtifacts(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.Apply(EventUploaded); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	s.FileName = "clip.wav"
	s.Features = &analysis.FeatureResult{SampleRate: 44100}
	if err := s.Apply(EventAnalyzed); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	s.Description = "a warm clip"
	s.Prompt = "warm piano"
	s.Track = &models.TrackInfo{ID: "abc"}

	if err := s.Apply(EventReset); err != nil {
		t.Fatalf("Apply(EventReset) failed: %v", err)
	}
	if s.Step != StepUpload {
		t.Errorf("step after reset = %v, expected %v", s.Step, StepUpload)
	}
	if s.FileName != "" || s.Features != nil || s.Description != "" || s.Prompt != "" || s.Track != nil {
		t.Errorf("reset did not clear artifacts: %+v", s)
	}
}

func TestResetIsAlwaysLegal(t *testing.T) {
	t.Parallel()

	for _, setup := range [][]Event{
		nil,
		{EventUploaded},
		{EventUploaded, EventAnalyzed},
		{EventUploaded, EventAnalyzed, EventGenerated},
	} {
		s := NewSession()
		for _, e := range setup {
			if err := s.Apply(e); err != nil {
				t.Fatalf("setup Apply(%v) failed: %v", e, err)
			}
		}
		if err := s.Apply(EventReset); err != nil {
			t.Errorf("reset after %v failed: %v", setup, err)
		}
	}
}

func TestReachedAnalysis(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if s.ReachedAnalysis() {
		t.Error("fresh session reports analysis artifacts")
	}
	s.Apply(EventUploaded)
	if s.ReachedAnalysis() {
		t.Error("uploaded-only session reports analysis artifacts")
	}
	s.Apply(EventAnalyzed)
	if !s.ReachedAnalysis() {
		t.Error("analyzed session does not report analysis artifacts")
	}
	s.Apply(EventGenerated)
	if !s.ReachedAnalysis() {
		t.Error("completed session does not report analysis artifacts")
	}
}
