package tasks

import (
	"testing"

	"junkbutler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingConfirmationTaskCarriesPayload(t *testing.T) {
	in := models.BookingConfirmationPayload{
		BookingID: "B123",
		Email:     "jane@example.com",
		Date:      "2025-06-11",
		TimeSlot:  "12:00 PM - 2:00 PM",
	}
	task, opts, err := NewBookingConfirmationTask(in)
	require.NoError(t, err)
	assert.Equal(t, TypeBookingConfirmation, task.Type())
	assert.Len(t, opts, 2)

	out, err := ParseBookingConfirmation(task)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMarkdownSweepTask(t *testing.T) {
	task := NewMarkdownSweepTask()
	assert.Equal(t, TypeMarkdownSweep, task.Type())
	assert.Empty(t, task.Payload())
}
