package handlers

import (
	"context"
	"errors"
	"net/http"

	"junkbutler/models"
	"junkbutler/services/estimate"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SSE event names.
const (
	eventToken    = "token"
	eventMessage  = "message"
	eventBanner   = "banner"
	eventEstimate = "estimate"
	eventDiscard  = "discard"
	eventError    = "error"
	eventDone     = "done"
)

// sseObserver forwards dialogue progress to the client as server-sent events.
// It runs on the request goroutine, so writes never interleave.
type sseObserver struct {
	c *gin.Context
}

func (o *sseObserver) send(event string, data any) {
	o.c.SSEvent(event, data)
	o.c.Writer.Flush()
}

func (o *sseObserver) OnDelta(text string) { o.send(eventToken, gin.H{"text": text}) }

func (o *sseObserver) OnMessage(msg models.DialogueMessage) { o.send(eventMessage, msg) }

func (o *sseObserver) OnBanner(b models.ErrorBanner) { o.send(eventBanner, b) }

func (o *sseObserver) OnEstimate(est models.CompletedEstimate) { o.send(eventEstimate, est) }

// OnDiscard drops the token events received since the last message.
func (o *sseObserver) OnDiscard() { o.send(eventDiscard, gin.H{}) }

// stream answers 404 before opening the stream, then reports the final view
// or the failure as the last event.
func (h *EstimateHandler) stream(c *gin.Context, id string, run func(context.Context, estimate.Observer) (*estimate.View, error)) {
	ctx := c.Request.Context()
	if _, err := h.Svc.Get(ctx, id); err != nil {
		estimateError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	obs := &sseObserver{c: c}
	v, err := run(ctx, obs)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			getLogger(c).Info("Client left during streamed turn", zap.String("session", id))
			return
		}
		getLogger(c).Warn("Streamed turn failed", zap.String("session", id), zap.Error(err))
		obs.send(eventError, gin.H{"error": err.Error()})
		return
	}
	obs.send(eventDone, respond(v))
}
