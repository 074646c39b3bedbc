package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/inovatech/concierge/pkg/logging"
)

var gatewayTracer = otel.Tracer("concierge.internal.conversation.gateway")

// defaultCompletionTimeout bounds a single completion call. Callers with a
// tighter budget pass a context deadline of their own.
const defaultCompletionTimeout = 90 * time.Second

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Gateway produces replies from an OpenAI-compatible completion endpoint
// (OpenRouter in production). It absorbs every failure into the fixed
// fallback text so callers always have a reply to act on.
type Gateway struct {
	client  chatCompleter
	model   string
	timeout time.Duration
	logger  *logging.Logger
}

// GatewayOption configures the gateway.
type GatewayOption func(*Gateway)

// WithCompletionTimeout overrides the per-call timeout.
func WithCompletionTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// NewGateway builds a gateway around an OpenAI-compatible chat client.
func NewGateway(client chatCompleter, model string, logger *logging.Logger, opts ...GatewayOption) *Gateway {
	if client == nil {
		panic("conversation: chat client cannot be nil")
	}
	if model == "" {
		panic("conversation: model required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	g := &Gateway{
		client:  client,
		model:   model,
		timeout: defaultCompletionTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Complete sends system prompt + history + the new user message and returns
// the reply. History entries with roles other than user/assistant are
// silently dropped. The returned RawReply is never an error: transport
// failures, non-2xx statuses, and malformed envelopes all collapse into the
// fallback text.
func (g *Gateway) Complete(ctx context.Context, systemPrompt string, history []ChatMessage, userMessage string) RawReply {
	ctx, span := gatewayTracer.Start(ctx, "conversation.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("concierge.model", g.model),
		attribute.Int("concierge.history_len", len(history)),
	)

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range history {
		if msg.Role != ChatRoleUser && msg.Role != ChatRoleAssistant {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: messages,
	})
	if err != nil {
		span.RecordError(err)
		g.logger.Error("completion call failed", "error", err, "model", g.model)
		return RawReply{Text: FallbackMessage}
	}
	if len(resp.Choices) == 0 {
		err := errors.New("conversation: completion returned no choices")
		span.RecordError(err)
		g.logger.Error("completion returned no choices", "model", g.model)
		return RawReply{Text: FallbackMessage}
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	// A JSON "null" unmarshals into a nil map; that is still a plain reply.
	var object map[string]any
	if err := json.Unmarshal([]byte(content), &object); err == nil && object != nil {
		return RawReply{Object: object}
	}
	return RawReply{Text: content}
}
