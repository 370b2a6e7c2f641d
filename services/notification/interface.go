package notification

import (
	"context"
	"fmt"

	"venuebook/models"
	"venuebook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationService publishes booking lifecycle events. Delivery is
// fire-and-forget: a failed publish is logged by the caller and never rolls
// back booking or transaction state.
type NotificationService interface {
	PublishBookingEvent(ctx context.Context, event models.BookingEvent) error
}

// AsynqNotificationService enqueues events onto the shared task queue; the
// worker process turns them into user inbox entries.
type AsynqNotificationService struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqNotificationService(client *asynq.Client, logger *zap.Logger) (*AsynqNotificationService, error) {
	if client == nil {
		return nil, fmt.Errorf("notification service initialization error: asynq client is nil")
	}
	return &AsynqNotificationService{Client: client, Logger: logger}, nil
}

func (s *AsynqNotificationService) PublishBookingEvent(ctx context.Context, event models.BookingEvent) error {
	task, err := tasks.NewBookingEventTask(event)
	if err != nil {
		return fmt.Errorf("failed to build booking event task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue booking event: %w", err)
	}
	s.Logger.Debug("booking event enqueued",
		zap.String("type", event.Type), zap.String("booking", event.BookingID))
	return nil
}
