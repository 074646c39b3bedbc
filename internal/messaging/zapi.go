package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/inovatech/concierge/pkg/logging"
)

var zapiTracer = otel.Tracer("concierge.internal.messaging.zapi")

const defaultZAPIBaseURL = "https://api.z-api.io"

// ZAPISender posts WhatsApp text messages through the Z-API send-text
// endpoint. Auth is the instance id and token in the path plus the
// Client-Token header.
type ZAPISender struct {
	baseURL     string
	instanceID  string
	token       string
	clientToken string
	httpClient  *http.Client
	logger      *logging.Logger
}

// NewZAPISender builds a sender for the Z-API V2 send-text endpoint.
func NewZAPISender(instanceID, token, clientToken string, logger *logging.Logger) *ZAPISender {
	if logger == nil {
		logger = logging.Default()
	}
	return &ZAPISender{
		baseURL:     defaultZAPIBaseURL,
		instanceID:  instanceID,
		token:       token,
		clientToken: clientToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL points the sender at a different host, for tests.
func (s *ZAPISender) WithBaseURL(baseURL string) *ZAPISender {
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

// SendText delivers one message to a contact. There is no retry; a timeout is
// treated like any other failure.
func (s *ZAPISender) SendText(ctx context.Context, phone, message string) error {
	if s.instanceID == "" || s.token == "" {
		return errors.New("messaging: zapi credentials missing")
	}
	if phone == "" {
		return errors.New("messaging: phone required")
	}
	if strings.TrimSpace(message) == "" {
		return errors.New("messaging: message required")
	}

	ctx, span := zapiTracer.Start(ctx, "messaging.zapi.send_text")
	defer span.End()
	span.SetAttributes(attribute.String("concierge.to", phone))

	body, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("messaging: marshal send-text payload: %w", err)
	}

	url := fmt.Sprintf("%s/instances/%s/token/%s/send-text", s.baseURL, s.instanceID, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("messaging: build send-text request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.clientToken != "" {
		req.Header.Set("Client-Token", s.clientToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("messaging: send-text failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("messaging: send-text failed: status %d, body: %s", resp.StatusCode, string(respBody))
		span.RecordError(err)
		return err
	}

	s.logger.Info("whatsapp message sent", "to", phone)
	return nil
}
