package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inovatech/concierge/internal/conversation"
	"github.com/inovatech/concierge/internal/messaging"
	"github.com/inovatech/concierge/pkg/logging"
)

// EventProcessor drives one inbound event to a terminal outcome.
type EventProcessor interface {
	Process(ctx context.Context, ev messaging.InboundEvent) conversation.Outcome
}

// Deduper filters redelivered webhook messages.
type Deduper interface {
	MarkSeen(ctx context.Context, messageID string) (bool, error)
}

// WhatsAppHandler receives the messaging provider's webhook. Apart from a
// missing contact id, every failure is absorbed: the provider always gets a
// success acknowledgment.
type WhatsAppHandler struct {
	processor EventProcessor
	dedup     Deduper
	logger    *logging.Logger
}

// NewWhatsAppHandler creates the /whatsapp webhook handler. dedup is optional.
func NewWhatsAppHandler(processor EventProcessor, dedup Deduper, logger *logging.Logger) *WhatsAppHandler {
	if processor == nil {
		panic("handlers: event processor cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WhatsAppHandler{processor: processor, dedup: dedup, logger: logger}
}

type webhookAck struct {
	Status string `json:"status"`
}

type webhookError struct {
	Detail string `json:"detail"`
}

// Handle serves POST /whatsapp.
func (h *WhatsAppHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var payload messaging.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("failed to decode webhook payload", "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest, webhookError{Detail: "corpo inválido"})
		return
	}

	ev, err := messaging.ParseWebhook(payload)
	if err != nil {
		if errors.Is(err, messaging.ErrMissingPhone) {
			writeJSON(w, h.logger, http.StatusBadRequest, webhookError{Detail: "Número ausente"})
			return
		}
		h.logger.Error("failed to parse webhook payload", "error", err)
		writeJSON(w, h.logger, http.StatusOK, webhookAck{Status: "ok"})
		return
	}

	// Drop provider redeliveries before they reach the AI. A dedup failure
	// is treated as "not seen": a duplicate reply beats a dropped message.
	if h.dedup != nil && ev.MessageID != "" {
		first, err := h.dedup.MarkSeen(r.Context(), ev.MessageID)
		if err != nil {
			h.logger.Error("dedup check failed", "error", err, "message_id", ev.MessageID)
		} else if !first {
			h.logger.Info("duplicate webhook delivery dropped", "message_id", ev.MessageID)
			writeJSON(w, h.logger, http.StatusOK, webhookAck{Status: "ok"})
			return
		}
	}

	outcome := h.processor.Process(r.Context(), ev)
	h.logger.Info("webhook processed", "contact", ev.Phone, "kind", ev.Kind, "outcome", outcome)

	writeJSON(w, h.logger, http.StatusOK, webhookAck{Status: "ok"})
}
