package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/inovatech/concierge/internal/conversation"
	"github.com/inovatech/concierge/internal/leads"
	"github.com/inovatech/concierge/pkg/logging"
)

// chatTimeout bounds the AI call made on behalf of a web chat turn. The
// webhook path allows itself a larger budget; web callers are waiting on the
// response.
const chatTimeout = 60 * time.Second

// ChatHandler serves the stateless web chat endpoint: the caller supplies the
// history, we run one completion + classification turn.
type ChatHandler struct {
	completer conversation.Completer
	leads     leads.Repository
	logger    *logging.Logger
}

// NewChatHandler creates the /chat handler.
func NewChatHandler(completer conversation.Completer, leadsRepo leads.Repository, logger *logging.Logger) *ChatHandler {
	if completer == nil {
		panic("handlers: completer cannot be nil")
	}
	if leadsRepo == nil {
		panic("handlers: leads repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{completer: completer, leads: leadsRepo, logger: logger}
}

type chatRequest struct {
	Mensagem  string                     `json:"mensagem"`
	Historico []conversation.ChatMessage `json:"historico"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Handle serves POST /chat.
func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode chat request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Mensagem) == "" {
		http.Error(w, "mensagem is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	reply := h.completer.Complete(ctx, conversation.SystemPrompt, req.Historico, req.Mensagem)

	var replyText string
	switch cls := conversation.Classify(reply); cls.Kind {
	case conversation.ClassLead:
		if lead, err := h.leads.Create(ctx, cls.Lead); err != nil {
			h.logger.Error("failed to persist lead", "error", err)
			replyText = conversation.LeadNotRegisteredMessage
		} else {
			h.logger.Info("lead captured", "lead_id", lead.ID, "servico", lead.Servico)
			replyText = conversation.LeadConfirmationMessage
		}
	case conversation.ClassText:
		replyText = cls.Text
	default:
		replyText = conversation.ClarificationMessage
	}

	writeJSON(w, h.logger, http.StatusOK, chatResponse{Reply: replyText})
}

func writeJSON(w http.ResponseWriter, logger *logging.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write JSON response", "error", err)
	}
}
