package estimate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"junkbutler/models"
	ai "junkbutler/services/intelligence"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func networkErr() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
}

func TestSendAtIdleIsAcknowledged(t *testing.T) {
	primary := &scriptedStreamer{}
	_, convo := newTestEngines(primary, &completions{})
	d := NewDialogue("dlg-1", refNow)
	rec := &recorder{}

	require.NoError(t, convo.Send(context.Background(), d, "hello?", rec))
	assert.Equal(t, []string{"hello?", idleAck}, rec.texts())
	assert.Equal(t, GuidedMode{Step: StepIdle}, d.Mode)
	assert.Zero(t, primary.Calls())
}

func TestSendSwitchesToConversationalWithContext(t *testing.T) {
	primary := &scriptedStreamer{replies: []string{"A couch, how daring. Where do you live?"}}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepPhoto)
	rec := &recorder{}

	require.NoError(t, convo.Send(context.Background(), d, "it's a big couch", rec))

	assert.Equal(t, ConversationalMode{ResumeStep: StepPhoto, Established: true}, d.Mode)
	assert.Equal(t, []string{ai.Greeting, "it's a big couch", "A couch, how daring. Where do you live?"}, rec.texts())
	assert.Equal(t, []string{"A couch, how daring. Where do you live?"}, rec.deltas)

	require.Equal(t, 1, primary.Calls())
	assert.Contains(t, primary.systems[0], "- Quantity: multiple")
	assert.Contains(t, primary.systems[0], "- Item types: furniture")
	history := primary.histories[0]
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleAssistant, history[0].Role)
	assert.Equal(t, models.RoleUser, history[1].Role)
	require.Len(t, d.History, 3)
}

func TestThreeFailuresBeforeEstablishedDowngrade(t *testing.T) {
	primary := &scriptedStreamer{errs: []error{networkErr(), networkErr(), networkErr()}}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepItems)
	rec := &recorder{}

	require.NoError(t, convo.Send(context.Background(), d, "I have a fridge", rec))

	assert.Equal(t, 3, primary.Calls())
	require.Len(t, rec.banners, 1)
	assert.Equal(t, "I'm having trouble connecting to my AI brain. Please check your internet connection.", rec.banners[0].Message)
	assert.Equal(t, string(ai.CategoryNetwork), rec.banners[0].Category)
	assert.True(t, rec.banners[0].CanRetry)
	assert.Equal(t, &rec.banners[0], d.Banner)

	assert.Equal(t, GuidedMode{Step: StepItems}, d.Mode)
	texts := rec.texts()
	assert.Equal(t, []string{
		ai.Greeting,
		"I have a fridge",
		"Connection hiccup! Retrying... (Attempt 2/3)",
		"Connection hiccup! Retrying... (Attempt 3/3)",
		downgradeNotice,
		itemsQuestion,
	}, texts)
	assert.Equal(t, ItemOptions, rec.messages[len(rec.messages)-1].Options)

	// The guided script carries on from where it was.
	require.NoError(t, g.ToggleItem(context.Background(), d, "appliances"))
}

func TestFailuresAfterEstablishedFallBackToLocal(t *testing.T) {
	primary := &scriptedStreamer{replies: []string{"Noted. Where is it?"}}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepQuantity)
	ctx := context.Background()

	require.NoError(t, convo.Send(ctx, d, "a sofa", nil))
	assert.Equal(t, ConversationalMode{ResumeStep: StepQuantity, Established: true}, d.Mode)

	primary.errs = []error{networkErr(), networkErr(), networkErr(), networkErr()}
	primary.calls = 0
	rec := &recorder{}
	require.NoError(t, convo.Send(ctx, d, "hello there", rec))

	assert.Equal(t, 3, primary.Calls())
	require.Len(t, rec.banners, 1)
	assert.IsType(t, ConversationalMode{}, d.Mode)
	last := rec.messages[len(rec.messages)-1]
	assert.Equal(t, models.RoleAssistant, last.Role)
	assert.Equal(t, ai.CannedReply("hello there"), last.Text)
	assert.Zero(t, d.Retries)

	// the local answer closed the turn, so the banner offers no retry
	assert.False(t, rec.banners[0].CanRetry)
	assert.False(t, d.Banner.CanRetry)
	assert.ErrorIs(t, convo.Retry(ctx, d, nil), ErrNothingToRetry)
}

func TestDowngradeBannerOffersRetry(t *testing.T) {
	primary := &scriptedStreamer{errs: []error{networkErr(), networkErr(), networkErr()}}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepItems)
	rec := &recorder{}

	require.NoError(t, convo.Send(context.Background(), d, "a sofa", rec))
	require.Len(t, rec.banners, 1)
	assert.True(t, rec.banners[0].CanRetry)
}

func TestFailedAttemptDeltasAreDiscarded(t *testing.T) {
	primary := &partialStreamer{fails: 2, reply: "All good now."}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepQuantity)
	rec := &recorder{}

	require.NoError(t, convo.Send(context.Background(), d, "a sofa", rec))
	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 2, rec.discards)
	assert.Equal(t, "All good now.", d.Messages[len(d.Messages)-1].Text)
}

func TestMissingCredentialAnswersLocallyWithoutBanner(t *testing.T) {
	primary := &scriptedStreamer{errs: []error{fmt.Errorf("xai: %w", ai.ErrMissingCredential)}}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepQuantity)
	rec := &recorder{}

	require.NoError(t, convo.Send(context.Background(), d, "I have a couch", rec))
	assert.Equal(t, 1, primary.Calls())
	assert.Empty(t, rec.banners)
	assert.Nil(t, d.Banner)
	assert.Equal(t, ai.CannedReply("I have a couch"), rec.messages[len(rec.messages)-1].Text)
	assert.Equal(t, ConversationalMode{ResumeStep: StepQuantity, Established: true}, d.Mode)
}

func TestUnsendableHistoryIsNotRetried(t *testing.T) {
	primary := &scriptedStreamer{errs: []error{fmt.Errorf("gemini: %w", ai.ErrInvalidHistory)}}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepQuantity)
	rec := &recorder{}

	require.NoError(t, convo.Send(context.Background(), d, "a sofa", rec))
	assert.Equal(t, 1, primary.Calls())
	require.Len(t, rec.banners, 1)
	assert.Equal(t, string(ai.CategoryInvalid), rec.banners[0].Category)
	assert.Equal(t, GuidedMode{Step: StepQuantity}, d.Mode)
}

func TestAuthFailureBannerMessage(t *testing.T) {
	authErr := &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}
	primary := &scriptedStreamer{errs: []error{authErr, authErr, authErr}}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepQuantity)
	rec := &recorder{}

	require.NoError(t, convo.Send(context.Background(), d, "hi", rec))
	assert.Equal(t, 3, primary.Calls())
	require.Len(t, rec.banners, 1)
	assert.Equal(t, "My AI brain is not properly configured. Please contact support.", rec.banners[0].Message)
}

func TestConversationalPayloadCompletesEstimate(t *testing.T) {
	primary := &scriptedStreamer{replies: []string{completeReply}}
	done := &completions{}
	g, convo := newTestEngines(primary, done)
	d := dialogueAt(g, StepResale)
	rec := &recorder{}

	require.NoError(t, convo.Send(context.Background(), d, "here is everything", rec))

	require.Len(t, rec.estimates, 1)
	est := rec.estimates[0]
	assert.Equal(t, SourceConversational, est.Source)
	assert.Equal(t, []string{"couch", "armchair"}, est.Items)
	assert.Equal(t, []string{"local://dlg-1/couch.jpg"}, est.Photos)
	assert.Equal(t, "12:00 PM - 2:00 PM", est.PickupTimeSlot)
	assert.Equal(t, "Springfield", est.Address.City)
	assert.Equal(t, "IL", est.Address.State)
	assert.Equal(t, "62701", est.Address.Zip)
	assert.Equal(t, 1, done.count())

	last := d.Messages[len(d.Messages)-1]
	assert.Equal(t, "Splendid, your estimate is ready.", last.Text)
	assert.Equal(t, d.History[len(d.History)-1].Content, completeReply)

	assert.ErrorIs(t, convo.Send(context.Background(), d, "thanks", rec), ErrAlreadyCompleted)
	assert.Equal(t, 1, done.count())
}

func TestPayloadOnlyReplyIsRemovedFromTranscript(t *testing.T) {
	primary := &scriptedStreamer{replies: []string{`{"item_details": {"type": "fridge", "quantity": 1}}`}}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepQuantity)
	rec := &recorder{}

	require.NoError(t, convo.Send(context.Background(), d, "a fridge", rec))
	assert.Equal(t, "a fridge", d.Messages[len(d.Messages)-1].Text)
	assert.False(t, d.Completed)
	assert.Equal(t, []string{"fridge"}, d.Session.Items)
	assert.Equal(t, models.QuantitySingle, d.Session.Quantity)
}

func TestReplyJSONOutsideSchemaIsStripped(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "cost as string", reply: `All set! {"item_details": {"type": "sofa", "quantity": 1}, "estimated_cost": "130", "location": "1 Elm St"}`},
		{name: "other shape", reply: `All set! {"items": ["sofa"], "price": 130}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := &completions{}
			primary := &scriptedStreamer{replies: []string{tt.reply}}
			g, convo := newTestEngines(primary, done)
			d := dialogueAt(g, StepQuantity)
			rec := &recorder{}

			require.NoError(t, convo.Send(context.Background(), d, "a sofa", rec))
			last := d.Messages[len(d.Messages)-1]
			assert.Equal(t, "All set!", last.Text)
			assert.NotContains(t, last.Text, "{")
			assert.Equal(t, "All set!", rec.messages[len(rec.messages)-1].Text)
			assert.Zero(t, done.count())
			assert.Empty(t, d.Session.Items)
			assert.False(t, d.Completed)
		})
	}
}

func TestEmptyReplyIsReplaced(t *testing.T) {
	primary := &scriptedStreamer{replies: []string{"  "}}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepQuantity)

	require.NoError(t, convo.Send(context.Background(), d, "hm", nil))
	assert.Equal(t, emptyReplyFallback, d.Messages[len(d.Messages)-1].Text)
}

func TestManualRetryAfterDowngrade(t *testing.T) {
	primary := &scriptedStreamer{
		errs:    []error{networkErr(), networkErr(), networkErr()},
		replies: []string{"Back online. Tell me about the fridge."},
	}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepQuantity)
	ctx := context.Background()

	require.NoError(t, convo.Send(ctx, d, "I have a fridge", nil))
	require.NotNil(t, d.Banner)
	require.IsType(t, GuidedMode{}, d.Mode)

	rec := &recorder{}
	require.NoError(t, convo.Retry(ctx, d, rec))
	assert.Nil(t, d.Banner)
	assert.Equal(t, []string{reconnectNotice, "Back online. Tell me about the fridge."}, rec.texts())
	assert.Equal(t, ConversationalMode{ResumeStep: StepQuantity, Established: true}, d.Mode)
	assert.Equal(t, 4, primary.Calls())

	assert.ErrorIs(t, convo.Retry(ctx, d, rec), ErrNothingToRetry)
}

func TestRetryWithoutHistory(t *testing.T) {
	g, convo := newTestEngines(&scriptedStreamer{}, &completions{})
	d := dialogueAt(g, StepQuantity)
	assert.ErrorIs(t, convo.Retry(context.Background(), d, nil), ErrNothingToRetry)
}

func TestHistoryResetsPastMaxTurns(t *testing.T) {
	primary := &scriptedStreamer{replies: []string{"Go on."}}
	bridge := newTestBridge(&completions{})
	guided := NewGuidedEngine(bridge, Delays{})
	convo := NewConversation(primary, bridge, guided, zap.NewNop(),
		WithBackoff(0), WithPacing(Delays{}), WithMaxTurns(4))
	d := dialogueAt(guided, StepQuantity)
	ctx := context.Background()

	require.NoError(t, convo.Send(ctx, d, "one", nil))
	require.NoError(t, convo.Send(ctx, d, "two", nil))
	require.Len(t, d.History, 5)

	rec := &recorder{}
	require.NoError(t, convo.Send(ctx, d, "three", rec))
	assert.Equal(t, []string{resetNotice, "three", "Go on."}, rec.texts())
	require.Len(t, d.History, 3)
	assert.Equal(t, resetNotice, d.History[0].Content)
}

func TestResetRequiresConversationalMode(t *testing.T) {
	g, convo := newTestEngines(&scriptedStreamer{replies: []string{"ok"}}, &completions{})
	d := dialogueAt(g, StepQuantity)
	assert.ErrorIs(t, convo.Reset(d, nil), ErrInvalidStep)

	require.NoError(t, convo.Send(context.Background(), d, "hi", nil))
	require.NoError(t, convo.Reset(d, nil))
	assert.Equal(t, []ai.ChatMessage{{Role: models.RoleAssistant, Content: resetNotice}}, d.History)
}

func TestCancelledTurnKeepsNoPartialReply(t *testing.T) {
	primary := &scriptedStreamer{replies: []string{"never seen"}}
	g, convo := newTestEngines(primary, &completions{})
	d := dialogueAt(g, StepQuantity)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := convo.Send(ctx, d, "a desk", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, d.Banner)
	last := d.History[len(d.History)-1]
	assert.Equal(t, models.RoleUser, last.Role)
	assert.Equal(t, "a desk", last.Content)
}

func TestSendRejectsEmptyText(t *testing.T) {
	_, convo := newTestEngines(&scriptedStreamer{}, &completions{})
	assert.ErrorIs(t, convo.Send(context.Background(), NewDialogue("x", refNow), "   ", nil), ErrEmptyMessage)
}
