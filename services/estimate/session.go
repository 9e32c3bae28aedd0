package estimate

import (
	"context"
	"encoding/json"
	"time"

	"junkbutler/models"
	ai "junkbutler/services/intelligence"
)

// Dialogue is one estimate conversation: the mode it is in, the session being
// assembled, the visible transcript and the upstream chat history.
type Dialogue struct {
	ID        string                    `json:"id"`
	Mode      Mode                      `json:"-"`
	Session   models.EstimateSession    `json:"session"`
	Messages  []models.DialogueMessage  `json:"messages"`
	History   []ai.ChatMessage          `json:"history,omitempty"`
	Context   string                    `json:"context,omitempty"`
	Retries   int                       `json:"retries"`
	Banner    *models.ErrorBanner       `json:"banner,omitempty"`
	Completed bool                      `json:"completed"`
	Result    *models.CompletedEstimate `json:"result,omitempty"`
	CreatedAt time.Time                 `json:"createdAt"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

// NewDialogue returns an idle guided dialogue.
func NewDialogue(id string, now time.Time) *Dialogue {
	return &Dialogue{
		ID:        id,
		Mode:      GuidedMode{Step: StepIdle},
		Session:   models.EstimateSession{Items: []string{}, Photos: []string{}},
		Messages:  []models.DialogueMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type dialogueFields Dialogue

func (d Dialogue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		dialogueFields
		Mode modeRecord `json:"mode"`
	}{dialogueFields(d), recordMode(d.Mode)})
}

func (d *Dialogue) UnmarshalJSON(data []byte) error {
	aux := struct {
		*dialogueFields
		Mode modeRecord `json:"mode"`
	}{dialogueFields: (*dialogueFields)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m, err := aux.Mode.mode()
	if err != nil {
		return err
	}
	d.Mode = m
	return nil
}

// Step is the guided step the dialogue is at, or would resume at when it
// leaves conversational mode.
func (d *Dialogue) Step() Step {
	switch m := d.Mode.(type) {
	case GuidedMode:
		return m.Step
	case ConversationalMode:
		return m.ResumeStep
	}
	return StepIdle
}

func (d *Dialogue) guidedAt(step Step) bool {
	m, ok := d.Mode.(GuidedMode)
	return ok && m.Step == step
}

func (d *Dialogue) conversational() (ConversationalMode, bool) {
	m, ok := d.Mode.(ConversationalMode)
	return m, ok
}

// View is the client-facing projection of a dialogue.
type View struct {
	SessionID string                    `json:"sessionId"`
	Mode      string                    `json:"mode"`
	Step      string                    `json:"step"`
	Messages  []models.DialogueMessage  `json:"messages"`
	Banner    *models.ErrorBanner       `json:"banner,omitempty"`
	Session   models.EstimateSession    `json:"session"`
	Estimate  *models.CompletedEstimate `json:"estimate,omitempty"`
}

func (d *Dialogue) View() View {
	return View{
		SessionID: d.ID,
		Mode:      d.Mode.Name(),
		Step:      d.Step().String(),
		Messages:  d.Messages,
		Banner:    d.Banner,
		Session:   d.Session,
		Estimate:  d.Result,
	}
}

// Delays pace the scripted replies the way a person typing would.
type Delays struct {
	Init       time.Duration
	Step       time.Duration
	Photo      time.Duration
	Completion time.Duration
	Reconnect  time.Duration
	Ack        time.Duration
}

var DefaultDelays = Delays{
	Init:       300 * time.Millisecond,
	Step:       800 * time.Millisecond,
	Photo:      time.Second,
	Completion: 1500 * time.Millisecond,
	Reconnect:  1500 * time.Millisecond,
	Ack:        time.Second,
}

func pause(ctx context.Context, d time.Duration) error {
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
