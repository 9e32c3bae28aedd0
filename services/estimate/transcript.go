package estimate

import (
	"time"

	"junkbutler/models"

	"github.com/google/uuid"
)

func (d *Dialogue) push(role models.MessageRole, text string, options []models.Option, photos []string) models.DialogueMessage {
	msg := models.DialogueMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Options:   options,
		Photos:    photos,
		CreatedAt: time.Now().UTC(),
	}
	d.Messages = append(d.Messages, msg)
	return msg
}

// say appends a message from the service itself: scripted prompts and notices.
func (d *Dialogue) say(text string) models.DialogueMessage {
	return d.push(models.RoleSystem, text, nil, nil)
}

func (d *Dialogue) ask(text string, options []models.Option) models.DialogueMessage {
	return d.push(models.RoleSystem, text, options, nil)
}

func (d *Dialogue) echo(text string, photos ...string) models.DialogueMessage {
	return d.push(models.RoleUser, text, nil, photos)
}

func (d *Dialogue) reply(text string) models.DialogueMessage {
	return d.push(models.RoleAssistant, text, nil, nil)
}

// StripPayload replaces the text of message id with its visible prose. When
// nothing visible remains the message is dropped. Reports whether id was found.
func (d *Dialogue) StripPayload(id, visible string) bool {
	for i := range d.Messages {
		if d.Messages[i].ID != id {
			continue
		}
		if visible == "" {
			d.Messages = append(d.Messages[:i], d.Messages[i+1:]...)
		} else {
			d.Messages[i].Text = visible
		}
		return true
	}
	return false
}
