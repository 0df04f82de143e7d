package whisper

import (
	"context"
	"errors"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"speech-result-gateway/internal/result"
)

type fakeTranscriber struct {
	resp openai.AudioResponse
	err  error

	mu    sync.Mutex
	calls int
	got   openai.AudioRequest
}

func (f *fakeTranscriber) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.got = req
	return f.resp, f.err
}

type recordingCallback struct {
	mu      sync.Mutex
	records []*result.Record
	errs    []error
}

func (c *recordingCallback) OnResult(rec *result.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

func (c *recordingCallback) OnError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func newTestEngine(ft *fakeTranscriber) *Engine {
	cfg := DefaultConfig()
	return &Engine{client: ft, cfg: cfg}
}

func TestEngine_TranscribesOnClose(t *testing.T) {
	ft := &fakeTranscriber{resp: openai.AudioResponse{Text: "thank you very much"}}
	e := newTestEngine(ft)
	cb := &recordingCallback{}
	ctx := context.Background()

	e.Start(ctx, cb)
	// One second of 8 kHz 16-bit mono audio.
	e.SendAudio(ctx, make([]byte, 16000))

	if ft.calls != 0 {
		t.Fatal("expected no transcription before Close")
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if ft.calls != 1 {
		t.Fatalf("expected 1 transcription call, got %d", ft.calls)
	}
	if len(cb.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(cb.records))
	}

	rec := cb.records[0]
	if rec.Reason() != result.ReasonRecognized {
		t.Errorf("expected Recognized, got %v", rec.Reason())
	}
	if rec.Text() != "thank you very much" {
		t.Errorf("unexpected text %q", rec.Text())
	}
	if rec.DurationMillis() != 1000 {
		t.Errorf("expected duration 1000 ms, got %d", rec.DurationMillis())
	}
	if rec.JSON() == "" {
		t.Error("expected raw json payload on record")
	}
	if got := rec.Properties().GetString("model"); got != openai.Whisper1 {
		t.Errorf("expected model property %q, got %q", openai.Whisper1, got)
	}
}

func TestEngine_RequestShape(t *testing.T) {
	ft := &fakeTranscriber{resp: openai.AudioResponse{Text: "ok"}}
	e := newTestEngine(ft)
	e.cfg.Language = "es"
	cb := &recordingCallback{}
	ctx := context.Background()

	e.Start(ctx, cb)
	e.SendAudio(ctx, make([]byte, 320))
	e.Close()

	if ft.got.Model != openai.Whisper1 {
		t.Errorf("expected model %q, got %q", openai.Whisper1, ft.got.Model)
	}
	if ft.got.Language != "es" {
		t.Errorf("expected language 'es', got %q", ft.got.Language)
	}
	if ft.got.Reader == nil {
		t.Error("expected audio reader on request")
	}
}

func TestEngine_EmptyBufferSkipsTranscription(t *testing.T) {
	ft := &fakeTranscriber{}
	e := newTestEngine(ft)
	cb := &recordingCallback{}

	e.Start(context.Background(), cb)
	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if ft.calls != 0 {
		t.Error("expected no transcription call for empty buffer")
	}
	if len(cb.records) != 0 {
		t.Error("expected no records for empty buffer")
	}
}

func TestEngine_TranscriptionFailure(t *testing.T) {
	apiErr := errors.New("rate limited")
	ft := &fakeTranscriber{err: apiErr}
	e := newTestEngine(ft)
	cb := &recordingCallback{}
	ctx := context.Background()

	e.Start(ctx, cb)
	e.SendAudio(ctx, make([]byte, 320))

	if err := e.Close(); !errors.Is(err, apiErr) {
		t.Fatalf("expected Close to return the API error, got %v", err)
	}

	if len(cb.records) != 1 {
		t.Fatalf("expected 1 canceled record, got %d", len(cb.records))
	}
	rec := cb.records[0]
	if rec.Reason() != result.ReasonCanceled {
		t.Errorf("expected Canceled, got %v", rec.Reason())
	}
	if got := rec.ErrorDetails(); got != "rate limited" {
		t.Errorf("expected error details 'rate limited', got %q", got)
	}
	if len(cb.errs) != 1 {
		t.Fatalf("expected OnError to be called once, got %d", len(cb.errs))
	}
}

func TestEngine_Close_Idempotent(t *testing.T) {
	ft := &fakeTranscriber{resp: openai.AudioResponse{Text: "ok"}}
	e := newTestEngine(ft)
	cb := &recordingCallback{}
	ctx := context.Background()

	e.Start(ctx, cb)
	e.SendAudio(ctx, make([]byte, 320))
	e.Close()
	e.Close()

	if ft.calls != 1 {
		t.Errorf("expected single transcription call, got %d", ft.calls)
	}
}

func TestEngine_NoAudioAcceptedAfterClose(t *testing.T) {
	ft := &fakeTranscriber{resp: openai.AudioResponse{Text: "ok"}}
	e := newTestEngine(ft)
	ctx := context.Background()

	e.Start(ctx, &recordingCallback{})
	e.Close()

	if err := e.SendAudio(ctx, make([]byte, 320)); err != nil {
		t.Errorf("expected SendAudio after close to be a no-op, got %v", err)
	}
	if e.buf.Len() != 0 {
		t.Error("expected buffer to stay empty after close")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != openai.Whisper1 {
		t.Errorf("expected default model %q, got %q", openai.Whisper1, cfg.Model)
	}
	if cfg.Language != "en" {
		t.Errorf("expected default language 'en', got %s", cfg.Language)
	}
	if cfg.SampleRateHz != 8000 {
		t.Errorf("expected default sample rate 8000, got %d", cfg.SampleRateHz)
	}
}
