package booking

import (
	"context"
	"fmt"

	"junkbutler/models"
	"junkbutler/services/normalizer"
	"junkbutler/services/tasks"

	"go.uber.org/zap"
)

// Create validates rec, submits it to the scheduling backend and records it.
// Persistence and the confirmation task run after a successful submission; their
// failures are logged and do not undo the booking.
func (s *DefaultBookingService) Create(ctx context.Context, rec models.BookingRecord) (*models.BookingResult, error) {
	if err := s.Validator.Validate(rec, s.Now()); err != nil {
		return nil, err
	}
	rec.Phone = normalizer.NormalizePhone(rec.Phone, s.Region)

	provider := s.Submitter.Name()
	sub, err := s.Submitter.Submit(ctx, rec)
	if err != nil {
		bookingsTotal.WithLabelValues(provider, "failed").Inc()
		s.Logger.Error("booking: submission failed", zap.String("provider", provider), zap.Error(err))
		return nil, fmt.Errorf("submit booking: %w", err)
	}
	bookingsTotal.WithLabelValues(provider, "created").Inc()

	logger := s.Logger.With(zap.String("bookingId", sub.BookingID), zap.String("provider", provider))
	if s.Repo != nil {
		record := models.Booking{
			BookingID: sub.BookingID,
			Provider:  provider,
			Record:    rec,
			Status:    models.BookingStatusScheduled,
			CreatedAt: s.Now().UTC(),
		}
		if _, err := s.Repo.Create(ctx, record); err != nil {
			logger.Error("booking: failed to store submitted booking", zap.Error(err))
		}
	}
	s.enqueueConfirmation(logger, sub.BookingID, rec)

	logger.Info("booking: created", zap.String("date", rec.Date), zap.String("timeSlot", rec.TimeSlot))
	return &models.BookingResult{Success: true, BookingID: sub.BookingID, Message: sub.Message}, nil
}

func (s *DefaultBookingService) enqueueConfirmation(logger *zap.Logger, bookingID string, rec models.BookingRecord) {
	if s.Tasks == nil {
		return
	}
	task, opts, err := tasks.NewBookingConfirmationTask(models.BookingConfirmationPayload{
		BookingID: bookingID,
		Email:     rec.Email,
		Date:      rec.Date,
		TimeSlot:  rec.TimeSlot,
	})
	if err != nil {
		logger.Error("booking: failed to build confirmation task", zap.Error(err))
		return
	}
	if _, err := s.Tasks.Enqueue(task, opts...); err != nil {
		logger.Error("booking: failed to enqueue confirmation", zap.Error(err))
	}
}

// UpcomingPickups lists bookings from today onward in the service's time zone.
func (s *DefaultBookingService) UpcomingPickups(ctx context.Context) ([]models.Booking, error) {
	today := normalizer.FormatDate(s.Now().In(s.Location))
	return s.Repo.ListUpcoming(ctx, today)
}

func (s *DefaultBookingService) CheckServiceArea(zip string) (*AreaCheck, error) {
	return s.Area.Check(zip)
}
