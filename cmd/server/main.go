package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"babelroom/domain"
	"babelroom/observability"
	"babelroom/providers"
	"babelroom/repositories"
	"babelroom/runtime/workers"
	"babelroom/session"
	"babelroom/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. This pattern is preferred over calling os.Exit
// or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories, providers, stats
	meetingRepo := repositories.NewMeetingRepository(db, log)
	participantRepo := repositories.NewParticipantRepository(db, log)
	segmentRepo := repositories.NewSegmentRepository(db, log)

	httpClient := &http.Client{Timeout: config.ProviderTimeout + time.Second}
	stats := observability.NewPipelineStats()
	segments := make(chan domain.Segment, config.SegmentBufferSize)

	registry := session.NewSessionRegistry(session.Dependencies{
		Providers: session.Providers{
			Transcriber: providers.NewHTTPTranscriber(config.TranscribeURL, httpClient, config.ProviderTimeout),
			Translator:  providers.NewHTTPTranslator(config.TranslateURL, httpClient, config.ProviderTimeout),
			Synthesizer: providers.NewHTTPSynthesizer(config.SynthesizeURL, httpClient, config.ProviderTimeout),
		},
		Meetings:     meetingRepo,
		Participants: participantRepo,
		Segments:     segments,
		Stats:        stats,
		Log:          log,
	})

	// 4. Supervision: segment persistence and telemetry run off the delivery path
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewStorageWorker(segments, segmentRepo, stats, log))
	sup.Add(workers.NewTelemetryWorker(log, config.MetricInterval, stats))

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supervisorDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supervisorDone)
	}()

	// 6. HTTP Server Setup
	meetingHandler := transport.NewMeetingHandler(log, meetingRepo)
	wsHandler := transport.NewWSHandler(log, registry, config.ConnectionBufferSize)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /meetings", meetingHandler.Create)
	mux.HandleFunc("GET /meetings/{id}", meetingHandler.Get)
	mux.Handle("GET /ws/meetings/{id}", wsHandler)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: mux}

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown error", "error", err)
	}
	sup.Stop()
	<-supervisorDone
	log.Info("Program stopped cleanly")

	return nil
}
