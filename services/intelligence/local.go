// File: services/intelligence/local.go
package ai

import (
	"context"
	"strings"
	"time"
)

// LocalStreamer answers from canned replies chosen by keyword so the
// estimate chat stays usable without a provider.
type LocalStreamer struct {
	thinkDelay time.Duration
	charDelay  time.Duration
}

// NewLocalStreamer returns a streamer that waits thinkDelay and then emits
// its reply one character every charDelay.
func NewLocalStreamer(thinkDelay, charDelay time.Duration) *LocalStreamer {
	return &LocalStreamer{thinkDelay: thinkDelay, charDelay: charDelay}
}

func (s *LocalStreamer) Name() string { return "local" }

func (s *LocalStreamer) Stream(ctx context.Context, _ string, history []ChatMessage, onDelta func(string)) (string, error) {
	reply := CannedReply(lastUserTurn(history))

	if err := sleepCtx(ctx, s.thinkDelay); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, r := range reply {
		if err := sleepCtx(ctx, s.charDelay); err != nil {
			return "", err
		}
		sb.WriteRune(r)
		if onDelta != nil {
			onDelta(string(r))
		}
	}
	return sb.String(), nil
}

// CannedReply picks the scripted answer for the customer's last message.
func CannedReply(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsWord(lower, "hello") || containsWord(lower, "hi"):
		return "Greetings, human! I'm Junksworth, your personal junk removal butler. What treasures are you looking to part with today?"
	case containsAny(lower, "furniture", "couch", "sofa"):
		return "Ah, furniture! The silent witnesses to your questionable Netflix binges. A couch, is it? Do tell me more about this soon-to-be-departed sitting apparatus. Size? Condition? Any mysterious stains I should be aware of? *adjusts monocle*"
	case containsAny(lower, "price", "cost", "estimate"):
		return "Eager to discuss finances, I see! For a precise estimate, I'll need more details about your junk situation. What items are we talking about? Where are they located? The more specifics you provide, the more accurate my pricing powers become."
	default:
		return "Fascinating! Tell me more about these items you wish to banish from your life. The more details you provide, the better I can estimate the cost of making them... disappear. *dramatic butler gesture*"
	}
}

// containsWord matches w as a whole word so "hi" does not fire on "this".
func containsWord(s, w string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if f == w {
			return true
		}
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
