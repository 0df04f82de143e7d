// Package google provides a Google Cloud Speech-to-Text recognition
// engine that shapes streaming responses into result records.
package google

import (
	"context"
	"errors"
	"io"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/google/uuid"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"

	"speech-result-gateway/internal/engine"
	"speech-result-gateway/internal/properties"
	"speech-result-gateway/internal/result"
)

// Config holds streaming recognition settings.
type Config struct {
	LanguageCode   string
	SampleRateHz   int32
	InterimResults bool
	AudioEncoding  string
}

// DefaultConfig returns sensible defaults for telephony audio.
func DefaultConfig() Config {
	return Config{
		LanguageCode:   "en-US",
		SampleRateHz:   8000,
		InterimResults: true,
		AudioEncoding:  "LINEAR16",
	}
}

// parseAudioEncoding maps an encoding name onto the protobuf enum,
// falling back to LINEAR16 for unknown names.
func parseAudioEncoding(name string) speechpb.RecognitionConfig_AudioEncoding {
	switch name {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "AMR":
		return speechpb.RecognitionConfig_AMR
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}

// Engine implements engine.Recognizer using Google Cloud
// Speech-to-Text streaming recognition.
type Engine struct {
	client *speech.Client
	stream speechpb.Speech_StreamingRecognizeClient
	cb     engine.Callback
	cfg    Config
}

// New creates a Google engine. Requires GOOGLE_APPLICATION_CREDENTIALS
// to be set in the environment.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{client: c, cfg: cfg}, nil
}

// Start opens the streaming session and sends the initial config.
func (e *Engine) Start(ctx context.Context, cb engine.Callback) error {
	stream, err := e.client.StreamingRecognize(ctx)
	if err != nil {
		return err
	}
	e.stream = stream
	e.cb = cb

	return stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        parseAudioEncoding(e.cfg.AudioEncoding),
					SampleRateHertz: e.cfg.SampleRateHz,
					LanguageCode:    e.cfg.LanguageCode,
				},
				InterimResults: e.cfg.InterimResults,
			},
		},
	})
}

// SendAudio forwards audio bytes into the streaming session.
func (e *Engine) SendAudio(ctx context.Context, audio []byte) error {
	return e.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
}

// Close half-closes the streaming session.
func (e *Engine) Close() error {
	if e.stream != nil {
		return e.stream.CloseSend()
	}
	return nil
}

// Listen receives streaming responses, shapes them into records and
// invokes the callback. Run in a separate goroutine after Start. A
// stream error produces a canceled record before OnError; a clean EOF
// ends the loop silently.
func (e *Engine) Listen() {
	for {
		resp, err := e.stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			if rec, cerr := result.NewRecord(canceledRaw(err)); cerr == nil {
				e.cb.OnResult(rec)
			}
			e.cb.OnError(err)
			return
		}

		for _, res := range resp.Results {
			rec, err := result.NewRecord(mapResult(res))
			if err != nil {
				e.cb.OnError(err)
				continue
			}
			e.cb.OnResult(rec)
		}
	}
}

// mapResult shapes one streaming result into a raw handle. The full
// protobuf message is preserved as JSON under the "json" property.
func mapResult(res *speechpb.StreamingRecognitionResult) *engine.Raw {
	store := properties.NewMapStore()

	if data, err := protojson.Marshal(res); err == nil {
		store.SetString(result.PropJSON, string(data))
	}
	store.SetBool("interim", !res.IsFinal)
	if res.LanguageCode != "" {
		store.SetString("language", res.LanguageCode)
	}

	var durationTicks uint64
	if end := res.ResultEndTime; end != nil {
		durationTicks = uint64(end.AsDuration().Nanoseconds() / 100)
	}

	raw := &engine.Raw{
		ID:       uuid.NewString(),
		Duration: durationTicks,
		Store:    store,
	}

	if len(res.Alternatives) == 0 {
		raw.Code = int(result.ReasonNoMatch)
		return raw
	}

	alt := res.Alternatives[0]
	raw.Transcript = alt.Transcript
	if res.IsFinal {
		raw.Code = int(result.ReasonRecognized)
	} else {
		raw.Code = int(result.ReasonIntermediateResult)
	}
	return raw
}

// canceledRaw shapes a stream error into a canceled raw handle. The
// gRPC status carries the error details exposed on the record.
func canceledRaw(err error) *engine.Raw {
	st := status.Convert(err)

	store := properties.NewMapStore()
	store.SetString(result.PropErrorDetails, st.Message())
	store.SetInt("grpc code", int(st.Code()))

	return &engine.Raw{
		ID:    uuid.NewString(),
		Code:  int(result.ReasonCanceled),
		Store: store,
	}
}
