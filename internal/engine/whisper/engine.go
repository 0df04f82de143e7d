// Package whisper provides a batch recognition engine over the OpenAI
// transcription API. Audio is buffered for the whole session and
// transcribed in one request when the session closes, producing a
// single final record.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"speech-result-gateway/internal/engine"
	"speech-result-gateway/internal/properties"
	"speech-result-gateway/internal/result"
)

// Config holds batch transcription settings.
type Config struct {
	APIKey       string
	Model        string
	Language     string
	SampleRateHz int // of the buffered LINEAR16 audio, for duration derivation
}

// DefaultConfig returns defaults matching the mock and Google engines.
func DefaultConfig() Config {
	return Config{
		Model:        openai.Whisper1,
		Language:     "en",
		SampleRateHz: 8000,
	}
}

// transcriber is the slice of the OpenAI client the engine uses;
// narrowed for testability.
type transcriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Engine implements engine.Recognizer for batch transcription.
type Engine struct {
	client transcriber
	cfg    Config

	mu     sync.Mutex
	cb     engine.Callback
	buf    bytes.Buffer
	closed bool
}

// New creates a whisper engine.
func New(cfg Config) *Engine {
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	if cfg.SampleRateHz <= 0 {
		cfg.SampleRateHz = 8000
	}
	return &Engine{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
	}
}

// Start registers the callback receiver.
func (e *Engine) Start(ctx context.Context, cb engine.Callback) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cb = cb
	return nil
}

// SendAudio buffers audio bytes until the session closes. Batch
// transcription produces no interim records.
func (e *Engine) SendAudio(ctx context.Context, audio []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	_, err := e.buf.Write(audio)
	return err
}

// Close transcribes the buffered audio and emits the final record. A
// transcription failure emits a canceled record before OnError.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed || e.cb == nil {
		e.closed = true
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	audio := e.buf.Bytes()
	cb := e.cb
	e.mu.Unlock()

	if len(audio) == 0 {
		return nil
	}

	resp, err := e.client.CreateTranscription(context.Background(), openai.AudioRequest{
		Model:    e.cfg.Model,
		Reader:   bytes.NewReader(audio),
		FilePath: "audio.wav",
		Language: e.cfg.Language,
	})
	if err != nil {
		if rec, cerr := result.NewRecord(e.canceledRaw(err)); cerr == nil {
			cb.OnResult(rec)
		}
		cb.OnError(err)
		return err
	}

	rec, err := result.NewRecord(e.finalRaw(resp, len(audio)))
	if err != nil {
		cb.OnError(err)
		return err
	}
	cb.OnResult(rec)
	return nil
}

// finalRaw shapes the API response into a recognized raw handle. The
// duration is derived from the buffered byte count (16-bit mono PCM).
func (e *Engine) finalRaw(resp openai.AudioResponse, audioBytes int) *engine.Raw {
	durationMs := uint64(audioBytes) * 1000 / uint64(e.cfg.SampleRateHz*2)

	store := properties.NewMapStore()
	store.SetBool("interim", false)
	store.SetString("model", e.cfg.Model)
	if data, err := json.Marshal(resp); err == nil {
		store.SetString(result.PropJSON, string(data))
	}

	return &engine.Raw{
		ID:         uuid.NewString(),
		Transcript: resp.Text,
		Duration:   durationMs * 10000,
		Code:       int(result.ReasonRecognized),
		Store:      store,
	}
}

func (e *Engine) canceledRaw(err error) *engine.Raw {
	store := properties.NewMapStore()
	store.SetString(result.PropErrorDetails, err.Error())
	store.SetString("model", e.cfg.Model)

	return &engine.Raw{
		ID:    uuid.NewString(),
		Code:  int(result.ReasonCanceled),
		Store: store,
	}
}
