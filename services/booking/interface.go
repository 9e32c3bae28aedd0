package booking

import (
	"context"
	"time"

	bookingRepo "junkbutler/database/repository/bookings"
	"junkbutler/models"
	"junkbutler/services/tasks"

	"go.uber.org/zap"
)

// BookingService submits pickup bookings and serves the admin pickup view.
type BookingService interface {
	Create(ctx context.Context, rec models.BookingRecord) (*models.BookingResult, error)
	UpcomingPickups(ctx context.Context) ([]models.Booking, error)
	CheckServiceArea(zip string) (*AreaCheck, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Submitter Submitter
	Repo      bookingRepo.BookingRepository
	Tasks     tasks.Enqueuer
	Validator *Validator
	Area      ServiceArea
	Region    string
	Location  *time.Location
	Now       func() time.Time
	Logger    *zap.Logger
}

func NewBookingService(sub Submitter, repo bookingRepo.BookingRepository, queue tasks.Enqueuer, area ServiceArea, loc *time.Location, logger *zap.Logger) *DefaultBookingService {
	if loc == nil {
		loc = time.Local
	}
	return &DefaultBookingService{
		Submitter: sub,
		Repo:      repo,
		Tasks:     queue,
		Validator: NewValidator(loc),
		Area:      area,
		Location:  loc,
		Now:       time.Now,
		Logger:    logger,
	}
}
