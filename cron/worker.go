package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"junkbutler/config"
	bookingRepo "junkbutler/database/repository/bookings"
	"junkbutler/services/marketplace"
	"junkbutler/services/notification"
	"junkbutler/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Handlers carries what the background tasks need.
type Handlers struct {
	Bookings    bookingRepo.BookingRepository
	Mailer      notification.Mailer
	Marketplace marketplace.MarketplaceService
	Now         func() time.Time
	Logger      *zap.Logger
}

// QueueRedisOpt points asynq at the queue database.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux routes task types to their handlers.
func NewMux(h *Handlers) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmation, h.handleBookingConfirmation)
	mux.HandleFunc(tasks.TypeMarkdownSweep, h.handleMarkdownSweep)
	return mux
}

// InitWorker runs the task server and the daily scheduler in the background.
// The returned func stops both.
func InitWorker(h *Handlers) func() {
	logger := h.Logger.Named("worker")
	redisOpts := QueueRedisOpt()

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: config.Location()})
	if _, err := scheduler.Register("@daily", tasks.NewMarkdownSweepTask()); err != nil {
		logger.Error("Failed to register markdown sweep", zap.Error(err))
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	go monitorRedisConnection(monitorCtx, logger)

	mux := NewMux(h)
	go func() {
		logger.Info("Starting task worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("Failed to start task worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Task worker not started; background tasks are disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("Scheduler stopped", zap.Error(err))
		}
	}()

	return func() {
		stopMonitor()
		scheduler.Shutdown()
		srv.Shutdown()
	}
}

func (h *Handlers) handleBookingConfirmation(ctx context.Context, task *asynq.Task) error {
	p, err := tasks.ParseBookingConfirmation(task)
	if err != nil {
		h.Logger.Error("Invalid booking confirmation payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	logger := h.Logger.With(zap.String("bookingId", p.BookingID))

	b, err := h.Bookings.GetByBookingID(ctx, p.BookingID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		logger.Warn("Booking for confirmation not found")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}
	if b.ConfirmedAt != nil {
		logger.Info("Booking already confirmed")
		return nil
	}

	if err := h.Mailer.SendBookingConfirmation(ctx, *b); err != nil {
		logger.Error("Failed to send booking confirmation", zap.Error(err))
		return err
	}
	if err := h.Bookings.MarkConfirmed(ctx, p.BookingID, h.Now().UTC()); err != nil {
		logger.Error("Failed to mark booking confirmed", zap.Error(err))
		return err
	}
	logger.Info("Booking confirmation sent", zap.String("date", p.Date), zap.String("timeSlot", p.TimeSlot))
	return nil
}

func (h *Handlers) handleMarkdownSweep(ctx context.Context, task *asynq.Task) error {
	res, err := h.Marketplace.ApplyMarkdowns(ctx, h.Now())
	if err != nil {
		h.Logger.Error("Markdown sweep failed", zap.Error(err))
		return err
	}
	h.Logger.Info("Markdown sweep done", zap.Strings("donated", res.Donated))
	return nil
}

// monitorRedisConnection pings the queue database periodically to surface outages.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("Redis queue connection lost", zap.Error(err))
			}
		}
	}
}
