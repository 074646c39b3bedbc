// Package media turns voice messages into text the orchestrator can treat as
// if the contact had typed it.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/inovatech/concierge/pkg/logging"
)

var ingestTracer = otel.Tracer("concierge.internal.media.ingestor")

const (
	downloadTimeout   = 30 * time.Second
	transcribeTimeout = 90 * time.Second
	maxAudioBytes     = 16 << 20 // provider caps voice notes well below this
	audioFileName     = "voice-message.ogg"
)

// The two placeholders must stay textually distinct so support can tell a
// download problem from a transcription problem when following up manually.
const (
	// DownloadFailedMessage asks the user to resend the audio.
	DownloadFailedMessage = "Não consegui baixar seu áudio. Pode enviar novamente?"

	// TranscriptionFailedMessage asks the user to repeat themselves.
	TranscriptionFailedMessage = "Não consegui entender seu áudio. Pode repetir, por favor?"
)

type transcriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Ingestor downloads a remote audio resource and transcribes it through an
// external speech-to-text service.
type Ingestor struct {
	httpClient  *http.Client
	clientToken string
	transcriber transcriber
	model       string
	logger      *logging.Logger
}

// NewIngestor builds an ingestor. clientToken authenticates media downloads
// against the messaging provider.
func NewIngestor(transcriber transcriber, clientToken, model string, logger *logging.Logger) *Ingestor {
	if transcriber == nil {
		panic("media: transcriber cannot be nil")
	}
	if model == "" {
		model = openai.Whisper1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Ingestor{
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
		clientToken: clientToken,
		transcriber: transcriber,
		model:       model,
		logger:      logger,
	}
}

// Ingest fetches the audio at the given URL and returns its transcript
// verbatim. Failures never propagate: each step degrades to its own fixed
// placeholder so the conversation can continue.
func (i *Ingestor) Ingest(ctx context.Context, audioURL string) string {
	ctx, span := ingestTracer.Start(ctx, "media.ingest")
	defer span.End()
	span.SetAttributes(attribute.String("concierge.audio_url", audioURL))

	data, err := i.download(ctx, audioURL)
	if err != nil {
		span.RecordError(err)
		i.logger.Error("audio download failed", "error", err, "url", audioURL)
		return DownloadFailedMessage
	}

	text, err := i.transcribe(ctx, data)
	if err != nil {
		span.RecordError(err)
		i.logger.Error("audio transcription failed", "error", err)
		return TranscriptionFailedMessage
	}
	return text
}

func (i *Ingestor) download(ctx context.Context, audioURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("media: build download request: %w", err)
	}
	if i.clientToken != "" {
		req.Header.Set("Client-Token", i.clientToken)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("media: download failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, fmt.Errorf("media: read audio body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty audio body")
	}
	return data, nil
}

func (i *Ingestor) transcribe(ctx context.Context, data []byte) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, transcribeTimeout)
	defer cancel()

	resp, err := i.transcriber.CreateTranscription(callCtx, openai.AudioRequest{
		Model:    i.model,
		FilePath: audioFileName,
		Reader:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("media: transcription failed: %w", err)
	}
	return resp.Text, nil
}
