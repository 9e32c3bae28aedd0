package booking

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"junkbutler/models"

	"go.uber.org/zap"
)

// Submission is what a field-service backend answers for a created job.
type Submission struct {
	BookingID string
	Message   string
}

// Submitter creates the job in the scheduling backend.
type Submitter interface {
	Name() string
	Submit(ctx context.Context, rec models.BookingRecord) (*Submission, error)
}

// MockSubmitter stands in for the scheduling backend when none is enabled.
type MockSubmitter struct {
	Delay  time.Duration
	Logger *zap.Logger
}

func (m *MockSubmitter) Name() string { return "mock" }

func (m *MockSubmitter) Submit(ctx context.Context, rec models.BookingRecord) (*Submission, error) {
	if m.Delay > 0 {
		t := time.NewTimer(m.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	id := fmt.Sprintf("B%d", rand.Intn(100000))
	if m.Logger != nil {
		m.Logger.Info("Mock booking created",
			zap.String("bookingId", id), zap.String("date", rec.Date), zap.String("timeSlot", rec.TimeSlot),
			zap.Strings("items", rec.Items))
	}
	return &Submission{BookingID: id, Message: "Booking successfully created (Mock)"}, nil
}
