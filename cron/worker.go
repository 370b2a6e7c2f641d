package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"venuebook/config"
	userRepo "venuebook/database/repository/user"
	"venuebook/models"
	"venuebook/services/booking"
	"venuebook/services/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitWorker runs the async worker in the background: booking event fan-out
// and the delayed payment reconciliation sweep.
func InitWorker(users userRepo.UserRepository, bookingSvc booking.BookingService, logger *zap.Logger) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingEvent, handleBookingEvent(users, logger))
	mux.HandleFunc(tasks.TypePaymentSweep, handlePaymentSweep(bookingSvc, logger))

	go func() {
		logger.Info("starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("async worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					log.Fatal("async worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleBookingEvent turns a queued booking event into an inbox entry on the
// recipient's user document.
func handleBookingEvent(users userRepo.UserRepository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var event models.BookingEvent
		if err := json.Unmarshal(task.Payload(), &event); err != nil {
			logger.Error("invalid booking event payload", zap.Error(err))
			return err
		}

		n := models.Notification{
			ID:      uuid.New().String(),
			Type:    event.Type,
			Message: event.Message,
			Data: map[string]string{
				"bookingId": event.BookingID,
				"venueId":   event.VenueID,
			},
			CreatedAt: time.Now(),
			Read:      false,
		}
		if err := users.AppendNotification(ctx, event.RecipientID, n); err != nil {
			logger.Warn("failed to deliver booking event",
				zap.String("recipient", event.RecipientID),
				zap.String("booking", event.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

// handlePaymentSweep re-runs verification for a transaction that may still be
// pending. Verification is idempotent, so a transaction the user already
// verified is a no-op.
func handlePaymentSweep(bookingSvc booking.BookingService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.PaymentSweepPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid payment sweep payload", zap.Error(err))
			return err
		}
		return bookingSvc.ReconcilePending(ctx, p.TransactionRef)
	}
}
