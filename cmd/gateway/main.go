package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"speech-result-gateway/internal/app"
	"speech-result-gateway/internal/config"
	"speech-result-gateway/internal/engine"
	"speech-result-gateway/internal/engine/google"
	"speech-result-gateway/internal/engine/mock"
	"speech-result-gateway/internal/engine/whisper"
	"speech-result-gateway/internal/events"
	httpapi "speech-result-gateway/internal/http"
	"speech-result-gateway/internal/observability"
	"speech-result-gateway/internal/observability/metrics"
	"speech-result-gateway/internal/service/session"
)

// frameBytes is one 20 ms frame of 16-bit mono audio at 8 kHz.
const frameBytes = 320

func main() {
	audioPath := flag.String("audio", "", "path to a raw LINEAR16 audio file to stream; empty streams silence")
	tenantId := flag.String("tenant", "tenant-local", "tenant id attached to published events")
	flag.Parse()

	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		application.Logger.Fatal().Err(err).Msg("startup failed")
	}
	logger := application.Logger

	publisher := events.New(&events.Config{
		Enabled:       cfg.Kafka.Enabled,
		Brokers:       cfg.Kafka.Brokers,
		TopicResults:  cfg.Kafka.TopicResults,
		TopicCanceled: cfg.Kafka.TopicCanceled,
		Principal:     cfg.Kafka.Principal,
	})
	defer publisher.Close()

	obs := observability.NewServer(":" + cfg.Service.MetricsPort)
	obs.Start()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      httpapi.NewRouter(application),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recognizer, err := newRecognizer(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.Engine.Provider).Msg("failed to create engine")
	}

	interactionId := uuid.NewString()
	gen := session.NewGenerator()
	handler := session.NewHandlerWithLimits(
		recognizer, publisher, gen,
		interactionId, *tenantId, gen.Next(interactionId),
		session.Limits{
			MaxInterims: cfg.SessionLimits.MaxInterims,
			MaxDuration: cfg.SessionLimits.MaxDuration,
		},
	)

	if err := handler.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start recognition session")
	}
	metrics.DefaultMetrics.RecordSessionStart()
	if g, ok := recognizer.(*google.Engine); ok {
		go g.Listen()
	}

	logger.Info().
		Str("interactionId", interactionId).
		Str("sessionId", handler.SessionId()).
		Str("provider", cfg.Engine.Provider).
		Msg("recognition session started")

	streamDone := make(chan struct{})
	go func() {
		defer close(streamDone)
		if err := streamAudio(ctx, handler, *audioPath); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("audio stream ended with error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		logger.Info().Msg("signal received, shutting down")
	case <-streamDone:
		logger.Info().Msg("audio stream finished, shutting down")
	}
	cancel()

	if err := handler.Close(); err != nil {
		logger.Error().Err(err).Msg("session close error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	_ = obs.Shutdown(shutdownCtx)
	application.Shutdown()
}

// newRecognizer builds the engine selected by configuration.
func newRecognizer(ctx context.Context, cfg *config.Config) (engine.Recognizer, error) {
	switch cfg.Engine.Provider {
	case "mock":
		return mock.New(), nil
	case "google":
		return google.New(ctx, google.Config{
			LanguageCode:   cfg.Engine.LanguageCode,
			SampleRateHz:   cfg.Engine.SampleRateHz,
			InterimResults: cfg.Engine.InterimResults,
			AudioEncoding:  cfg.Engine.AudioEncoding,
		})
	case "whisper":
		if cfg.Engine.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("whisper provider requires OPENAI_API_KEY")
		}
		return whisper.New(whisper.Config{
			APIKey:       cfg.Engine.OpenAIAPIKey,
			Model:        cfg.Engine.WhisperModel,
			Language:     cfg.Engine.LanguageCode,
			SampleRateHz: int(cfg.Engine.SampleRateHz),
		}), nil
	default:
		return nil, fmt.Errorf("unknown engine provider %q", cfg.Engine.Provider)
	}
}

// streamAudio feeds 20 ms frames into the session at real-time cadence.
// With no audio file, silence frames are streamed; the mock engine
// scripts its own transcripts regardless of frame content.
func streamAudio(ctx context.Context, handler *session.Handler, path string) error {
	var audio []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read audio file: %w", err)
		}
		audio = data
	}

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	offset := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		frame := make([]byte, frameBytes)
		if audio != nil {
			if offset >= len(audio) {
				return nil
			}
			n := copy(frame, audio[offset:])
			frame = frame[:n]
			offset += n
		}

		if err := handler.SendAudio(ctx, frame); err != nil {
			return err
		}
	}
}
