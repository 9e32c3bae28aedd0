package estimate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"junkbutler/models"
	ai "junkbutler/services/intelligence"

	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 2 * time.Second
	DefaultMaxTurns    = 40
)

const (
	retryNotice        = "Connection hiccup! Retrying... (Attempt %d/%d)"
	downgradeNotice    = "I'm having trouble with my AI capabilities right now. Let's continue with the guided estimate instead."
	reconnectNotice    = "Reconnecting to my AI brain..."
	resetNotice        = "I've reset our conversation to avoid hitting my limits. Let's start fresh! What junk can I help you remove today?"
	emptyReplyFallback = "I seem to be having trouble formulating a response. Let me try again. What details can you provide about your junk removal needs?"
)

// Observer receives the live output of a conversational turn.
type Observer interface {
	OnDelta(text string)
	OnMessage(msg models.DialogueMessage)
	OnBanner(banner models.ErrorBanner)
	OnEstimate(est models.CompletedEstimate)
	// OnDiscard tells the client to drop the deltas of an attempt that failed.
	OnDiscard()
}

type nopObserver struct{}

func (nopObserver) OnDelta(string)                      {}
func (nopObserver) OnMessage(models.DialogueMessage)    {}
func (nopObserver) OnBanner(models.ErrorBanner)         {}
func (nopObserver) OnEstimate(models.CompletedEstimate) {}
func (nopObserver) OnDiscard()                          {}

// Conversation drives the free-text mode against a language model, retrying
// transient failures and falling back when the provider stays down.
type Conversation struct {
	primary     ai.Streamer
	local       ai.Streamer
	bridge      *Bridge
	guided      *GuidedEngine
	maxAttempts int
	backoff     time.Duration
	maxTurns    int
	delays      Delays
	logger      *zap.Logger
}

type ConversationOption func(*Conversation)

func WithMaxAttempts(n int) ConversationOption {
	return func(c *Conversation) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithBackoff(d time.Duration) ConversationOption {
	return func(c *Conversation) { c.backoff = d }
}

func WithMaxTurns(n int) ConversationOption {
	return func(c *Conversation) {
		if n > 0 {
			c.maxTurns = n
		}
	}
}

// WithLocalFallback replaces the streamer used once the primary gives up.
func WithLocalFallback(s ai.Streamer) ConversationOption {
	return func(c *Conversation) { c.local = s }
}

func WithPacing(d Delays) ConversationOption {
	return func(c *Conversation) { c.delays = d }
}

func NewConversation(primary ai.Streamer, bridge *Bridge, guided *GuidedEngine, logger *zap.Logger, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		primary:     primary,
		local:       ai.NewLocal(),
		bridge:      bridge,
		guided:      guided,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		maxTurns:    DefaultMaxTurns,
		delays:      DefaultDelays,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send handles a free-text message. Before the guided flow has started it
// only gets an acknowledgement. Anywhere else in the guided flow it moves the
// dialogue to conversational mode, carrying the partial session along.
func (c *Conversation) Send(ctx context.Context, d *Dialogue, text string, obs Observer) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if d.Completed {
		return ErrAlreadyCompleted
	}
	if obs == nil {
		obs = nopObserver{}
	}

	if d.guidedAt(StepIdle) {
		obs.OnMessage(d.echo(text))
		if err := pause(ctx, c.delays.Ack); err != nil {
			return err
		}
		obs.OnMessage(d.say(idleAck))
		return nil
	}

	if m, ok := d.Mode.(GuidedMode); ok {
		c.logger.Info("estimate: switching to conversational mode",
			zap.String("session", d.ID), zap.Stringer("step", m.Step))
		d.Mode = ConversationalMode{ResumeStep: m.Step}
		d.Context = ai.DescribeSession(d.Session)
		d.Retries = 0
		d.Banner = nil
		if len(d.History) == 0 {
			d.History = []ai.ChatMessage{{Role: models.RoleAssistant, Content: ai.Greeting}}
			obs.OnMessage(d.reply(ai.Greeting))
		}
	}

	if len(d.History) >= c.maxTurns {
		c.resetHistory(d, obs)
	}
	obs.OnMessage(d.echo(text))
	d.History = append(d.History, ai.ChatMessage{Role: models.RoleUser, Content: text})
	return c.runTurn(ctx, d, obs)
}

// Retry re-runs the last unanswered user turn after the banner was shown.
func (c *Conversation) Retry(ctx context.Context, d *Dialogue, obs Observer) error {
	if d.Completed {
		return ErrAlreadyCompleted
	}
	if n := len(d.History); n == 0 || d.History[n-1].Role != models.RoleUser {
		return ErrNothingToRetry
	}
	if obs == nil {
		obs = nopObserver{}
	}

	d.Banner = nil
	d.Retries = 0
	retriesTotal.WithLabelValues("manual").Inc()
	if err := pause(ctx, c.delays.Reconnect); err != nil {
		return err
	}
	obs.OnMessage(d.say(reconnectNotice))

	if m, ok := d.Mode.(GuidedMode); ok {
		d.Mode = ConversationalMode{ResumeStep: m.Step}
	}
	return c.runTurn(ctx, d, obs)
}

func (c *Conversation) DismissBanner(d *Dialogue) {
	d.Banner = nil
}

// Reset clears the upstream history so a long conversation can continue.
func (c *Conversation) Reset(d *Dialogue, obs Observer) error {
	if _, ok := d.conversational(); !ok {
		return ErrInvalidStep
	}
	if obs == nil {
		obs = nopObserver{}
	}
	c.resetHistory(d, obs)
	return nil
}

func (c *Conversation) resetHistory(d *Dialogue, obs Observer) {
	c.logger.Info("estimate: resetting conversation history",
		zap.String("session", d.ID), zap.Int("turns", len(d.History)))
	d.History = []ai.ChatMessage{{Role: models.RoleAssistant, Content: resetNotice}}
	d.Retries = 0
	d.Banner = nil
	obs.OnMessage(d.reply(resetNotice))
}

func (c *Conversation) runTurn(ctx context.Context, d *Dialogue, obs Observer) error {
	system := ai.SystemPrompt(d.Context)
	for {
		streamed := false
		reply, err := c.primary.Stream(ctx, system, d.History, func(text string) {
			streamed = true
			obs.OnDelta(text)
		})
		if err == nil {
			return c.finishTurn(ctx, d, reply, obs)
		}
		if streamed {
			obs.OnDiscard()
		}

		category := ai.Classify(err)
		if category == ai.CategoryCanceled || ctx.Err() != nil {
			return err
		}
		if category == ai.CategoryConfig {
			return c.answerLocally(ctx, d, system, obs)
		}

		d.Retries++
		c.logger.Warn("estimate: assistant turn failed",
			zap.String("session", d.ID),
			zap.String("provider", c.primary.Name()),
			zap.String("category", string(category)),
			zap.Int("attempt", d.Retries),
			zap.Error(err))

		if d.Retries >= c.maxAttempts || !category.Retryable() {
			return c.giveUp(ctx, d, system, err, obs)
		}

		retriesTotal.WithLabelValues("automatic").Inc()
		obs.OnMessage(d.say(fmt.Sprintf(retryNotice, d.Retries+1, c.maxAttempts)))
		if err := pause(ctx, c.backoff); err != nil {
			return err
		}
	}
}

// giveUp raises the banner. A conversation that never got a reply goes back
// to the guided question it left and keeps the user turn for Retry; an
// established one is answered locally, leaving nothing to retry.
func (c *Conversation) giveUp(ctx context.Context, d *Dialogue, system string, cause error, obs Observer) error {
	m, _ := d.conversational()
	banner := models.ErrorBanner{
		Message:  ai.UserMessage(cause),
		Category: string(ai.Classify(cause)),
		CanRetry: !m.Established,
	}
	d.Banner = &banner
	obs.OnBanner(banner)

	if !m.Established {
		fallbacksTotal.WithLabelValues("guided").Inc()
		d.Mode = GuidedMode{Step: m.ResumeStep}
		obs.OnMessage(d.say(downgradeNotice))
		obs.OnMessage(c.guided.prompt(d, m.ResumeStep))
		return nil
	}

	fallbacksTotal.WithLabelValues("local").Inc()
	return c.answerLocally(ctx, d, system, obs)
}

func (c *Conversation) answerLocally(ctx context.Context, d *Dialogue, system string, obs Observer) error {
	reply, err := c.local.Stream(ctx, system, d.History, obs.OnDelta)
	if err != nil {
		return err
	}
	return c.finishTurn(ctx, d, reply, obs)
}

func (c *Conversation) finishTurn(ctx context.Context, d *Dialogue, reply string, obs Observer) error {
	d.Retries = 0
	if strings.TrimSpace(reply) == "" {
		reply = emptyReplyFallback
	}
	d.History = append(d.History, ai.ChatMessage{Role: models.RoleAssistant, Content: reply})
	msg := d.reply(reply)
	if m, ok := d.conversational(); ok && !m.Established {
		m.Established = true
		d.Mode = m
	}

	payload, visible, found := ExtractPayload(reply)
	if !found {
		obs.OnMessage(msg)
		return nil
	}
	d.StripPayload(msg.ID, visible)
	if visible != "" {
		msg.Text = visible
		obs.OnMessage(msg)
	}
	if payload == nil {
		c.logger.Debug("estimate: reply carried JSON outside the estimate schema", zap.String("session", d.ID))
		return nil
	}

	candidate := sessionFromPayload(d.Session, payload)
	d.Session = candidate
	est, err := c.bridge.Complete(ctx, d, Candidate{Source: SourceConversational, Session: candidate})
	if err != nil {
		return err
	}
	if est != nil {
		obs.OnEstimate(*est)
	}
	return nil
}
