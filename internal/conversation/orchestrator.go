package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/inovatech/concierge/internal/leads"
	"github.com/inovatech/concierge/internal/messaging"
	"github.com/inovatech/concierge/internal/observability/metrics"
	"github.com/inovatech/concierge/internal/session"
	"github.com/inovatech/concierge/pkg/logging"
)

var orchestratorTracer = otel.Tracer("concierge.internal.conversation.orchestrator")

const (
	// completionBudget bounds the AI call made on behalf of a webhook event.
	completionBudget = 90 * time.Second
	// deliveryBudget bounds the outbound provider send.
	deliveryBudget = 30 * time.Second
	// defaultSnooze is how long an operator message pauses the bot.
	defaultSnooze = 30 * time.Minute
)

// Outcome is the terminal state of processing one inbound event.
type Outcome string

const (
	// OutcomeIgnored means the event carried nothing to act on.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeManualMode means a human is handling this contact; no AI ran.
	OutcomeManualMode Outcome = "manual_mode"
	// OutcomeReplied means a reply was produced (delivery may still have
	// failed; failures are logged and swallowed).
	OutcomeReplied Outcome = "replied"
	// OutcomeFailed means input validation rejected the event.
	OutcomeFailed Outcome = "failed"
)

// Completer produces an AI reply for a prompt, history, and user message.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []ChatMessage, userMessage string) RawReply
}

// MediaIngestor resolves an audio URL into user-message text.
type MediaIngestor interface {
	Ingest(ctx context.Context, audioURL string) string
}

// ReplySender delivers replies back to the contact.
type ReplySender interface {
	SendText(ctx context.Context, phone, message string) error
}

// Orchestrator runs the per-event intake state machine. It is stateless
// across invocations; the only persisted state is the per-contact session
// row. Events for the same contact are serialized with an in-process lock so
// concurrent webhook deliveries cannot lose session writes.
type Orchestrator struct {
	completer Completer
	media     MediaIngestor
	sessions  session.Store
	leads     leads.Repository
	sender    ReplySender
	metrics   *metrics.ConversationMetrics
	logger    *logging.Logger

	snoozeDuration time.Duration
	now            func() time.Time

	contactLocks sync.Map // phone -> *sync.Mutex
}

// OrchestratorOption configures the orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithSnoozeDuration overrides how long an operator echo pauses the bot.
func WithSnoozeDuration(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.snoozeDuration = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMetrics attaches the conversation metric set.
func WithMetrics(m *metrics.ConversationMetrics) OrchestratorOption {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// NewOrchestrator wires the state machine around its collaborators. media
// and sender may be nil only when the deployment handles no audio and sends
// no replies (e.g. tests); the store and repository are required.
func NewOrchestrator(completer Completer, media MediaIngestor, sessions session.Store, leadsRepo leads.Repository, sender ReplySender, logger *logging.Logger, opts ...OrchestratorOption) *Orchestrator {
	if completer == nil {
		panic("conversation: completer cannot be nil")
	}
	if sessions == nil {
		panic("conversation: session store cannot be nil")
	}
	if leadsRepo == nil {
		panic("conversation: leads repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	o := &Orchestrator{
		completer:      completer,
		media:          media,
		sessions:       sessions,
		leads:          leadsRepo,
		sender:         sender,
		logger:         logger,
		snoozeDuration: defaultSnooze,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process drives one inbound event through the state machine and returns its
// terminal outcome. All external failures are absorbed: the caller can always
// acknowledge the webhook.
func (o *Orchestrator) Process(ctx context.Context, ev messaging.InboundEvent) Outcome {
	ctx, span := orchestratorTracer.Start(ctx, "conversation.process")
	defer span.End()
	span.SetAttributes(
		attribute.String("concierge.event_kind", string(ev.Kind)),
		attribute.String("concierge.contact", ev.Phone),
	)

	o.metrics.ObserveInbound(string(ev.Kind))
	outcome := o.process(ctx, ev)
	o.metrics.ObserveOutcome(string(outcome))
	span.SetAttributes(attribute.String("concierge.outcome", string(outcome)))
	return outcome
}

func (o *Orchestrator) process(ctx context.Context, ev messaging.InboundEvent) Outcome {
	// Receive: a contact id is the one hard requirement.
	if ev.Phone == "" {
		o.logger.Error("inbound event without contact id")
		return OutcomeFailed
	}

	unlock := o.lockContact(ev.Phone)
	defer unlock()

	now := o.now().UTC()

	// Classify input.
	switch ev.Kind {
	case messaging.EventOperatorEcho:
		// A human took over; pause the bot for this contact and stay quiet.
		until := now.Add(o.snoozeDuration)
		if err := o.sessions.Snooze(ctx, ev.Phone, until); err != nil {
			o.logger.Error("failed to snooze contact", "error", err, "contact", ev.Phone)
		}
		o.logger.Info("manual mode activated", "contact", ev.Phone, "until", until)
		return OutcomeManualMode
	case messaging.EventUnsupported:
		o.logger.Debug("ignoring unsupported event", "contact", ev.Phone)
		return OutcomeIgnored
	}

	// Media resolution: the transcript (or its failure placeholder) becomes
	// the effective user message.
	content := ev.Text
	if ev.Kind == messaging.EventAudio {
		if o.media == nil {
			o.logger.Warn("audio event with no ingestor configured", "contact", ev.Phone)
			return OutcomeIgnored
		}
		content = o.media.Ingest(ctx, ev.AudioURL)
	}

	// Fetch session. A read failure degrades to an empty session rather than
	// dropping the message.
	sess, err := o.sessions.Get(ctx, ev.Phone)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		o.logger.Error("failed to load session", "error", err, "contact", ev.Phone)
		sess = nil
	}

	// Snooze check.
	if sess != nil && sess.Snoozed(now) {
		o.logger.Info("conversation in manual mode", "contact", ev.Phone, "until", sess.SnoozedUntil)
		return OutcomeManualMode
	}

	// Expiry check: stale history reads as empty; the row itself is only
	// replaced on the next write.
	var working []session.Entry
	if sess != nil && !sess.Stale(now) {
		working = sess.History
	}

	// AI call.
	callCtx, cancel := context.WithTimeout(ctx, completionBudget)
	start := o.now()
	reply := o.completer.Complete(callCtx, SystemPrompt, historyMessages(working), content)
	cancel()
	o.metrics.ObserveCompletionLatency(o.now().Sub(start).Seconds())

	// Classify response and pick the reply text.
	var replyText string
	switch cls := Classify(reply); cls.Kind {
	case ClassLead:
		replyText = o.persistLead(ctx, ev.Phone, cls.Lead)
	case ClassText:
		replyText = cls.Text
		working = session.AppendPair(working, content, cls.Text)
		if err := o.sessions.Upsert(ctx, ev.Phone, working, nil); err != nil {
			o.logger.Error("failed to persist session", "error", err, "contact", ev.Phone)
		}
	default:
		replyText = ClarificationMessage
	}

	o.deliver(ctx, ev.Phone, replyText)
	return OutcomeReplied
}

// persistLead saves a completed intake and returns the reply to send. On
// success the session history is cleared so the next message starts a fresh
// intake thread.
func (o *Orchestrator) persistLead(ctx context.Context, phone string, candidate *leads.Candidate) string {
	lead, err := o.leads.Create(ctx, candidate)
	if err != nil {
		o.logger.Error("failed to persist lead", "error", err, "contact", phone)
		return LeadNotRegisteredMessage
	}
	o.metrics.ObserveLeadCaptured()
	o.logger.Info("lead captured", "lead_id", lead.ID, "contact", phone, "servico", lead.Servico)

	if err := o.sessions.Upsert(ctx, phone, nil, nil); err != nil {
		o.logger.Error("failed to reset session after lead", "error", err, "contact", phone)
	}
	return LeadConfirmationMessage
}

// deliver sends the reply. Delivery failures are logged and swallowed; the
// webhook must still acknowledge success.
func (o *Orchestrator) deliver(ctx context.Context, phone, message string) {
	if o.sender == nil || message == "" {
		return
	}
	sendCtx, cancel := context.WithTimeout(ctx, deliveryBudget)
	defer cancel()

	if err := o.sender.SendText(sendCtx, phone, message); err != nil {
		o.metrics.ObserveDeliveryFailure()
		o.logger.Error("failed to deliver reply", "error", err, "contact", phone)
	}
}

func (o *Orchestrator) lockContact(phone string) func() {
	value, _ := o.contactLocks.LoadOrStore(phone, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func historyMessages(entries []session.Entry) []ChatMessage {
	if len(entries) == 0 {
		return nil
	}
	out := make([]ChatMessage, 0, len(entries))
	for _, e := range entries {
		out = append(out, ChatMessage{Role: e.Role, Content: e.Content})
	}
	return out
}
