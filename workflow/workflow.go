// Package workflow tracks the wizard's linear four-step progression for one
// client connection. State lives in an explicit Session value owned by the
// transport layer; there is no global store. Transitions are defined by a
// reducer so that skipping a step (generating before analyzing, for example)
// fails loudly instead of producing a half-initialized session.
package workflow

import (
	"errors"
	"fmt"

	"tunesmith/analysis"
	"tunesmith/models"
)

// Step is one of the four wizard states.
type Step int

const (
	StepUpload Step = iota
	StepAnalyze
	StepGenerate
	StepResult
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepAnalyze:
		return "analyze"
	case StepGenerate:
		return "generate"
	case StepResult:
		return "result"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Event advances (or resets) the wizard.
type Event int

const (
	// EventUploaded fires when an upload was decoded successfully.
	EventUploaded Event = iota
	// EventAnalyzed fires when feature extraction completed.
	EventAnalyzed
	// EventGenerated fires when a track came back from the generator.
	EventGenerated
	// EventReset returns to the upload step and discards all artifacts.
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventUploaded:
		return "uploaded"
	case EventAnalyzed:
		return "analyzed"
	case EventGenerated:
		return "generated"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// ErrInvalidTransition is returned when an event does not apply to the
// session's current step.
var ErrInvalidTransition = errors.New("invalid workflow transition")

// Session holds the wizard state and every artifact produced so far.
type Session struct {
	Step        Step
	FileName    string
	Features    *analysis.FeatureResult
	Description string
	Prompt      string
	Track       *models.TrackInfo
}

// NewSession returns a session at the upload step.
func NewSession() *Session {
	return &Session{Step: StepUpload}
}

// transitions maps each step to the single event that advances it.
var transitions = map[Step]Event{
	StepUpload:   EventUploaded,
	StepAnalyze:  EventAnalyzed,
	StepGenerate: EventGenerated,
}

// Apply advances the session by one event. EventReset is legal from any step
// and clears all artifacts; every other event is only legal on the step it
// completes.
func (s *Session) Apply(event Event) error {
	if event == EventReset {
		*s = Session{Step: StepUpload}
		return nil
	}

	expected, ok := transitions[s.Step]
	if !ok || event != expected {
		return fmt.Errorf("%w: event %q not allowed in step %q", ErrInvalidTransition, event, s.Step)
	}
	s.Step++
	return nil
}

// ReachedAnalysis reports whether analysis artifacts are available, i.e. the
// session has moved past the analyze step.
func (s *Session) ReachedAnalysis() bool {
	return s.Step >= StepGenerate
}
