package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovatech/concierge/internal/conversation"
	"github.com/inovatech/concierge/internal/messaging"
	"github.com/inovatech/concierge/pkg/logging"
)

type mockProcessor struct {
	outcome conversation.Outcome
	events  []messaging.InboundEvent
}

func (m *mockProcessor) Process(_ context.Context, ev messaging.InboundEvent) conversation.Outcome {
	m.events = append(m.events, ev)
	return m.outcome
}

type mockDeduper struct {
	first bool
	err   error
	seen  []string
}

func (m *mockDeduper) MarkSeen(_ context.Context, messageID string) (bool, error) {
	m.seen = append(m.seen, messageID)
	return m.first, m.err
}

func postWebhook(t *testing.T, h *WhatsAppHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/whatsapp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestWhatsAppHandler_AcksProcessedEvent(t *testing.T) {
	processor := &mockProcessor{outcome: conversation.OutcomeReplied}
	h := NewWhatsAppHandler(processor, nil, logging.New("error"))

	rec := postWebhook(t, h, `{"phone":"551","messageId":"M1","text":{"message":"oi"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody(t, rec))
	require.Len(t, processor.events, 1)
	assert.Equal(t, messaging.EventText, processor.events[0].Kind)
	assert.Equal(t, "oi", processor.events[0].Text)
}

func TestWhatsAppHandler_MissingPhoneIs400(t *testing.T) {
	processor := &mockProcessor{}
	h := NewWhatsAppHandler(processor, nil, logging.New("error"))

	rec := postWebhook(t, h, `{"text":{"message":"oi"}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"detail": "Número ausente"}, decodeBody(t, rec))
	assert.Empty(t, processor.events)
}

func TestWhatsAppHandler_MalformedBodyIs400(t *testing.T) {
	h := NewWhatsAppHandler(&mockProcessor{}, nil, logging.New("error"))

	rec := postWebhook(t, h, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWhatsAppHandler_DuplicateDeliveryIsAckedWithoutProcessing(t *testing.T) {
	processor := &mockProcessor{}
	dedup := &mockDeduper{first: false}
	h := NewWhatsAppHandler(processor, dedup, logging.New("error"))

	rec := postWebhook(t, h, `{"phone":"551","messageId":"M1","text":{"message":"oi"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody(t, rec))
	assert.Equal(t, []string{"M1"}, dedup.seen)
	assert.Empty(t, processor.events, "duplicate must not reach the orchestrator")
}

func TestWhatsAppHandler_DedupFailureStillProcesses(t *testing.T) {
	processor := &mockProcessor{outcome: conversation.OutcomeReplied}
	dedup := &mockDeduper{err: errors.New("redis down")}
	h := NewWhatsAppHandler(processor, dedup, logging.New("error"))

	rec := postWebhook(t, h, `{"phone":"551","messageId":"M1","text":{"message":"oi"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, processor.events, 1)
}

func TestWhatsAppHandler_NoMessageIDSkipsDedup(t *testing.T) {
	processor := &mockProcessor{outcome: conversation.OutcomeReplied}
	dedup := &mockDeduper{first: false}
	h := NewWhatsAppHandler(processor, dedup, logging.New("error"))

	postWebhook(t, h, `{"phone":"551","text":{"message":"oi"}}`)

	assert.Empty(t, dedup.seen)
	assert.Len(t, processor.events, 1)
}

func TestWhatsAppHandler_FailedOutcomeStillAcks(t *testing.T) {
	processor := &mockProcessor{outcome: conversation.OutcomeFailed}
	h := NewWhatsAppHandler(processor, nil, logging.New("error"))

	rec := postWebhook(t, h, `{"phone":"551","text":{"message":"oi"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody(t, rec))
}
