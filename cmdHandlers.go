package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/mdobak/go-xerrors"

	"tunesmith/analysis"
	"tunesmith/decode"
	"tunesmith/describe"
	"tunesmith/models"
	"tunesmith/musicgen"
	"tunesmith/utils"
)

type apiError struct {
	Message string `json:"message"`
}

// maxUploadBytes bounds multipart uploads; browser clips are small.
const maxUploadBytes = 64 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Message: message})
}

func corsPreflight(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// newAnalyzeHandler accepts a multipart upload ("audio" field), decodes it,
// runs feature extraction and attaches the provider's description.
func newAnalyzeHandler(describer describe.Provider) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()

		if corsPreflight(w, r) {
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			logger.ErrorContext(ctx, "failed to parse multipart form", slog.Any("error", xerrors.New(err)))
			writeJSONError(w, http.StatusBadRequest, "invalid upload payload")
			return
		}

		file, _, err := r.FormFile("audio")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "no audio file provided")
			return
		}
		defer file.Close()

		raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			logger.ErrorContext(ctx, "failed to read uploaded file", slog.Any("error", xerrors.New(err)))
			writeJSONError(w, http.StatusInternalServerError, "failed to read upload")
			return
		}

		started := time.Now()

		buf, err := decode.Bytes(raw)
		if err != nil {
			logger.ErrorContext(ctx, "failed to decode upload", slog.Any("error", xerrors.New(err)))
			writeJSONError(w, http.StatusUnprocessableEntity, "unable to decode audio")
			return
		}

		features, err := analysis.Analyze(buf, analysis.Config{})
		if err != nil {
			logger.ErrorContext(ctx, "failed to analyze upload", slog.Any("error", xerrors.New(err)))
			writeJSONError(w, http.StatusUnprocessableEntity, "unable to analyze audio")
			return
		}

		description, err := describer.Describe(ctx, features)
		if err != nil {
			logger.WarnContext(ctx, "describe provider failed",
				slog.String("provider", describer.Name()),
				slog.Any("error", xerrors.New(err)),
			)
			description = ""
		}

		writeJSON(w, http.StatusOK, models.AnalysisSummary{
			Features:    features,
			Description: description,
			Provider:    describer.Name(),
			LatencyMs:   time.Since(started).Seconds() * 1000,
		})
	}
}

// newGenerateHandler proxies a generation request to the configured
// generator.
func newGenerateHandler(generator musicgen.Generator) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if corsPreflight(w, r) {
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req models.GenerateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid generation request")
			return
		}

		started := time.Now()
		result, err := generator.Generate(ctx, musicgen.Request{
			Prompt:      req.Prompt,
			DurationSec: req.DurationSec,
			Temperature: req.Temperature,
			Seed:        req.Seed,
		})
		if err != nil {
			logger.ErrorContext(ctx, "generation failed",
				slog.String("provider", generator.Name()),
				slog.Any("error", xerrors.New(err)),
			)
			writeJSONError(w, http.StatusBadGateway, "music generation failed")
			return
		}

		logger.InfoContext(ctx, "generation complete",
			slog.String("provider", generator.Name()),
			slog.Float64("latency_ms", time.Since(started).Seconds()*1000),
		)

		writeJSON(w, http.StatusOK, models.TrackInfo{
			ID:          utils.GenerateUniqueID(),
			AudioURL:    result.AudioURL,
			DurationSec: result.DurationSec,
			Prompt:      req.Prompt,
			Provider:    generator.Name(),
			CreatedAt:   time.Now().UTC(),
		})
	}
}

func serve(protocol, port string) {
	protocol = strings.ToLower(protocol)
	allowOriginFunc := func(r *http.Request) bool {
		return true
	}

	ctx := context.Background()
	describer := describe.NewFromEnv(ctx)
	generatedDir := utils.GetEnv("GENERATED_DIR", "tmp/generated")
	generator := musicgen.NewFromEnv(generatedDir)

	controller := newStudioController(describer, generator)

	server := socketio.NewServer(&engineio.Options{
		PingTimeout:  60 * time.Second,
		PingInterval: 25 * time.Second,
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: allowOriginFunc,
			},
			&polling.Transport{
				CheckOrigin: allowOriginFunc,
			},
		},
	})

	server.OnConnect("/", func(socket socketio.Conn) error {
		socket.SetContext("")
		log.Printf("CONNECTED: %s, remote addr: %s\n", socket.ID(), socket.RemoteAddr())
		controller.emitWorkflowState(socket)
		return nil
	})

	server.OnEvent("/", "newUpload", func(socket socketio.Conn, msg string) {
		log.Printf("newUpload received from %s, data length: %d\n", socket.ID(), len(msg))
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("panic in handleNewUpload for socket %s: %v\n", socket.ID(), r)
					emitError(socket, "internal server error during processing")
				}
			}()
			controller.handleNewUpload(socket, msg)
		}()
	})

	server.OnEvent("/", "draftPrompt", func(socket socketio.Conn, msg string) {
		controller.handleDraftPrompt(socket, msg)
	})

	server.OnEvent("/", "generateTrack", func(socket socketio.Conn, msg string) {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("panic in handleGenerateTrack for socket %s: %v\n", socket.ID(), r)
					emitError(socket, "internal server error during generation")
				}
			}()
			controller.handleGenerateTrack(socket, msg)
		}()
	})

	server.OnEvent("/", "resetWorkflow", func(socket socketio.Conn) {
		controller.handleReset(socket)
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("socket error:", e)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		controller.dropSession(s.ID())
		log.Printf("socket disconnected - ID: %s, reason: %s\n", s.ID(), reason)
	})

	go func() {
		if err := server.Serve(); err != nil {
			log.Fatalf("socketio listen error: %s\n", err)
		}
	}()
	defer server.Close()

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	mux.HandleFunc("/api/audio/analyze", newAnalyzeHandler(describer))
	mux.HandleFunc("/api/music/generate", newGenerateHandler(generator))
	mux.Handle("/generated/", http.StripPrefix("/generated/", http.FileServer(http.Dir(generatedDir))))
	mux.Handle("/", http.FileServer(http.Dir("static")))

	serveHTTP(server, protocol == "https", port, mux)
}

func serveHTTP(socketServer *socketio.Server, serveHTTPS bool, port string, handler http.Handler) {
	if handler == nil {
		handler = socketServer
	}
	if serveHTTPS {
		httpsServer := &http.Server{
			Addr: ":" + port,
			TLSConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			Handler: handler,
		}

		certKey := utils.GetEnv("CERT_KEY", "")
		certFile := utils.GetEnv("CERT_FILE", "")
		if certKey == "" || certFile == "" {
			log.Fatal("Missing cert")
		}

		log.Printf("Starting HTTPS server on :%s\n", port)
		if err := httpsServer.ListenAndServeTLS(certFile, certKey); err != nil {
			log.Fatalf("HTTPS server ListenAndServeTLS: %v", err)
		}
		return
	}

	log.Printf("Starting HTTP server on port %v", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("HTTP server ListenAndServe: %v", err)
	}
}
