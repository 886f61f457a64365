package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"log/slog"
	"sync"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"github.com/mdobak/go-xerrors"

	"tunesmith/analysis"
	"tunesmith/decode"
	"tunesmith/describe"
	"tunesmith/models"
	"tunesmith/musicgen"
	"tunesmith/utils"
	"tunesmith/workflow"
)

// studioController owns one workflow session per connected socket and drives
// the upload → analyze → generate wizard over socket.io events.
type studioController struct {
	describer describe.Provider
	generator musicgen.Generator

	mu       sync.Mutex
	sessions map[string]*clientSession
}

// clientSession pairs the workflow state with its own lock. Heavy handlers
// run in spawned goroutines, so two rapid events on one socket would
// otherwise race on the session fields; each handler holds the lock for its
// whole run, which serializes events per socket.
type clientSession struct {
	mu sync.Mutex
	workflow.Session
}

func newStudioController(describer describe.Provider, generator musicgen.Generator) *studioController {
	return &studioController{
		describer: describer,
		generator: generator,
		sessions:  make(map[string]*clientSession),
	}
}

func (c *studioController) session(socket socketio.Conn) *clientSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[socket.ID()]
	if !ok {
		s = &clientSession{Session: *workflow.NewSession()}
		c.sessions[socket.ID()] = s
	}
	return s
}

func (c *studioController) dropSession(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

func (c *studioController) emitWorkflowState(socket socketio.Conn) {
	session := c.session(socket)
	session.mu.Lock()
	step := session.Step.String()
	session.mu.Unlock()
	emitStep(socket, step)
}

func emitStep(socket socketio.Conn, step string) {
	socket.Emit("workflowState", map[string]string{"step": step})
}

func emitError(socket socketio.Conn, message string) {
	socket.Emit("studioError", map[string]string{"message": message})
}

// handleNewUpload decodes the base64 payload, runs feature extraction and
// asks the describe provider for a prose description. Upload and analysis
// advance the wizard in one pass: the browser has nothing to do between them.
func (c *studioController) handleNewUpload(socket socketio.Conn, payload string) {
	logger := utils.GetLogger()
	ctx := context.Background()

	if payload == "" {
		logger.ErrorContext(ctx, "no data received in newUpload event")
		emitError(socket, "no audio data received")
		return
	}

	var upload models.UploadData
	if err := json.Unmarshal([]byte(payload), &upload); err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "failed to parse upload payload", slog.Any("error", err))
		emitError(socket, "invalid upload payload")
		return
	}

	raw, err := base64.StdEncoding.DecodeString(upload.Audio)
	if err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "failed to decode base64 audio", slog.Any("error", err))
		emitError(socket, "invalid audio payload")
		return
	}

	started := time.Now()

	buf, err := decode.Bytes(raw)
	if err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "failed to decode audio", slog.Any("error", err))
		emitError(socket, "unable to decode audio")
		return
	}

	session := c.session(socket)
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Step != workflow.StepUpload {
		// a fresh upload restarts the wizard
		if err := session.Apply(workflow.EventReset); err != nil {
			emitError(socket, "unable to reset workflow")
			return
		}
	}
	if err := session.Apply(workflow.EventUploaded); err != nil {
		logger.ErrorContext(ctx, "workflow rejected upload", slog.Any("error", xerrors.New(err)))
		emitError(socket, err.Error())
		return
	}
	session.FileName = upload.FileName

	logger.InfoContext(ctx, "decoded upload",
		slog.String("socketID", socket.ID()),
		slog.String("fileName", upload.FileName),
		slog.Int("sampleRate", buf.SampleRate),
		slog.Int("channels", buf.NumChannels()),
		slog.Float64("duration", buf.Duration()),
	)

	features, err := analysis.Analyze(buf, analysis.Config{})
	if err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "failed to extract features", slog.Any("error", err))
		emitError(socket, "unable to analyze audio")
		return
	}
	if err := session.Apply(workflow.EventAnalyzed); err != nil {
		emitError(socket, err.Error())
		return
	}
	session.Features = features

	description, err := c.describer.Describe(ctx, features)
	if err != nil {
		// the description is decoration; the analysis is still useful
		logger.WarnContext(ctx, "describe provider failed",
			slog.String("provider", c.describer.Name()),
			slog.Any("error", xerrors.New(err)),
		)
	} else {
		session.Description = description
	}

	latency := time.Since(started).Seconds() * 1000
	logger.InfoContext(ctx, "analysis complete",
		slog.String("socketID", socket.ID()),
		slog.Float64("latency_ms", latency),
		slog.Float64("spectralCentroid", features.SpectralCentroid),
		slog.Float64("zeroCrossingRate", features.ZeroCrossingRate),
		slog.Bool("polyphonic", features.Polyphonic),
	)

	socket.Emit("analysisComplete", models.AnalysisSummary{
		Features:    features,
		Description: session.Description,
		Provider:    c.describer.Name(),
		LatencyMs:   latency,
	})
	emitStep(socket, session.Step.String())
}

// handleDraftPrompt asks the describe provider for a text-to-music prompt
// based on the session's analysis.
func (c *studioController) handleDraftPrompt(socket socketio.Conn, payload string) {
	logger := utils.GetLogger()
	ctx := context.Background()

	session := c.session(socket)
	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.ReachedAnalysis() || session.Features == nil {
		emitError(socket, "analyze an upload before drafting a prompt")
		return
	}

	var req models.PromptRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			emitError(socket, "invalid prompt request")
			return
		}
	}

	prompt, err := c.describer.DraftPrompt(ctx, session.Features, req.Style)
	if err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "failed to draft prompt", slog.Any("error", err))
		emitError(socket, "unable to draft a prompt")
		return
	}
	session.Prompt = prompt

	socket.Emit("promptDrafted", models.PromptDraft{
		Prompt:   prompt,
		Provider: c.describer.Name(),
	})
}

// handleGenerateTrack forwards the prompt to the generator and completes the
// wizard.
func (c *studioController) handleGenerateTrack(socket socketio.Conn, payload string) {
	logger := utils.GetLogger()
	ctx := context.Background()

	session := c.session(socket)
	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.ReachedAnalysis() {
		emitError(socket, "analyze an upload before generating")
		return
	}

	var req models.GenerateRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		emitError(socket, "invalid generation request")
		return
	}
	if req.Prompt == "" {
		req.Prompt = session.Prompt
	}

	started := time.Now()
	result, err := c.generator.Generate(ctx, musicgen.Request{
		Prompt:      req.Prompt,
		DurationSec: req.DurationSec,
		Temperature: req.Temperature,
		Seed:        req.Seed,
	})
	if err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "generation failed",
			slog.String("provider", c.generator.Name()),
			slog.Any("error", err),
		)
		emitError(socket, "music generation failed")
		return
	}

	track := &models.TrackInfo{
		ID:          utils.GenerateUniqueID(),
		AudioURL:    result.AudioURL,
		DurationSec: result.DurationSec,
		Prompt:      req.Prompt,
		Provider:    c.generator.Name(),
		CreatedAt:   time.Now().UTC(),
	}

	if session.Step == workflow.StepGenerate {
		if err := session.Apply(workflow.EventGenerated); err != nil {
			emitError(socket, err.Error())
			return
		}
	}
	session.Track = track

	logger.InfoContext(ctx, "generation complete",
		slog.String("socketID", socket.ID()),
		slog.String("provider", c.generator.Name()),
		slog.String("trackID", track.ID),
		slog.Float64("latency_ms", time.Since(started).Seconds()*1000),
	)

	socket.Emit("trackReady", track)
	emitStep(socket, session.Step.String())
}

func (c *studioController) handleReset(socket socketio.Conn) {
	session := c.session(socket)
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.Apply(workflow.EventReset); err != nil {
		emitError(socket, err.Error())
		return
	}
	log.Printf("workflow reset for socket %s\n", socket.ID())
	emitStep(socket, session.Step.String())
}
