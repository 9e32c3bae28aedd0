package estimate

import (
	"context"
	"io"
	"sync"
	"time"

	"junkbutler/models"
	ai "junkbutler/services/intelligence"

	"go.uber.org/zap"
)

var refNow = time.Date(2025, time.June, 10, 15, 4, 0, 0, time.UTC)

// scriptedStreamer fails with errs in order, then answers with replies in
// order, repeating the last one.
type scriptedStreamer struct {
	mu        sync.Mutex
	name      string
	errs      []error
	replies   []string
	calls     int
	systems   []string
	histories [][]ai.ChatMessage
}

func (s *scriptedStreamer) Name() string {
	if s.name == "" {
		return "scripted"
	}
	return s.name
}

func (s *scriptedStreamer) Stream(ctx context.Context, system string, history []ai.ChatMessage, onDelta func(string)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.systems = append(s.systems, system)
	s.histories = append(s.histories, append([]ai.ChatMessage(nil), history...))

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.calls <= len(s.errs) {
		return "", s.errs[s.calls-1]
	}
	reply := ""
	if n := len(s.replies); n > 0 {
		i := s.calls - len(s.errs) - 1
		if i >= n {
			i = n - 1
		}
		reply = s.replies[i]
	}
	if onDelta != nil && reply != "" {
		onDelta(reply)
	}
	return reply, nil
}

func (s *scriptedStreamer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recorder is an Observer that keeps everything it is told.
type recorder struct {
	deltas    []string
	messages  []models.DialogueMessage
	banners   []models.ErrorBanner
	estimates []models.CompletedEstimate
	discards  int
}

func (r *recorder) OnDelta(text string)                     { r.deltas = append(r.deltas, text) }
func (r *recorder) OnMessage(msg models.DialogueMessage)    { r.messages = append(r.messages, msg) }
func (r *recorder) OnBanner(b models.ErrorBanner)           { r.banners = append(r.banners, b) }
func (r *recorder) OnEstimate(est models.CompletedEstimate) { r.estimates = append(r.estimates, est) }
func (r *recorder) OnDiscard()                              { r.discards++ }

func (r *recorder) texts() []string {
	out := make([]string, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m.Text)
	}
	return out
}

// completions collects what the bridge hands to its callback.
type completions struct {
	mu   sync.Mutex
	got  []models.CompletedEstimate
	fail error
}

func (c *completions) record(_ context.Context, est models.CompletedEstimate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, est)
	return c.fail
}

func (c *completions) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func newTestBridge(c *completions) *Bridge {
	return NewBridge(c.record, zap.NewNop(),
		WithClock(func() time.Time { return refNow }),
		WithLocation(time.UTC))
}

func newTestEngines(primary ai.Streamer, c *completions) (*GuidedEngine, *Conversation) {
	bridge := newTestBridge(c)
	guided := NewGuidedEngine(bridge, Delays{})
	convo := NewConversation(primary, bridge, guided, zap.NewNop(),
		WithBackoff(0),
		WithPacing(Delays{}),
		WithLocalFallback(ai.NewLocalStreamer(0, 0)))
	return guided, convo
}

// dialogueAt walks a fresh dialogue through the guided script up to step.
func dialogueAt(g *GuidedEngine, step Step) *Dialogue {
	ctx := context.Background()
	d := NewDialogue("dlg-1", refNow)
	if step >= StepQuantity {
		mustNil(g.Start(ctx, d))
	}
	if step >= StepItems {
		mustNil(g.SelectQuantity(ctx, d, "multiple"))
	}
	if step >= StepPhoto {
		mustNil(g.ToggleItem(ctx, d, "furniture"))
		mustNil(g.ContinueItems(ctx, d))
	}
	if step >= StepResale {
		mustNil(g.AddPhotos(ctx, d, []string{"local://dlg-1/couch.jpg"}))
	}
	return d
}

func mustNil(err error) {
	if err != nil {
		panic(err)
	}
}

// partialStreamer emits a delta and then fails for its first fails calls,
// answering reply afterwards.
type partialStreamer struct {
	fails int
	reply string
	calls int
}

func (s *partialStreamer) Name() string { return "partial" }

func (s *partialStreamer) Stream(ctx context.Context, _ string, _ []ai.ChatMessage, onDelta func(string)) (string, error) {
	s.calls++
	if s.calls <= s.fails {
		onDelta("Half a sen")
		return "", io.ErrUnexpectedEOF
	}
	onDelta(s.reply)
	return s.reply, nil
}
