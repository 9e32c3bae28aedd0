package tasks

import (
	"encoding/json"
	"time"

	"junkbutler/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingConfirmation = "booking:confirmation"
	TypeMarkdownSweep       = "marketplace:markdown_sweep"
)

// Enqueuer is the slice of *asynq.Client the services depend on.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewBookingConfirmationTask(payload models.BookingConfirmationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirmation, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(time.Minute)}

	return task, opts, nil
}

func ParseBookingConfirmation(task *asynq.Task) (models.BookingConfirmationPayload, error) {
	var p models.BookingConfirmationPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}

// NewMarkdownSweepTask carries no payload; the handler uses the time it runs.
func NewMarkdownSweepTask() *asynq.Task {
	return asynq.NewTask(TypeMarkdownSweep, nil)
}
