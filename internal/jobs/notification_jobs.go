package jobs

import (
	"context"
	"strconv"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/logger"
)

const (
	maxDeliveryAttempts = 5
	outboxBatchSize     = 100
)

// FlushNotificationOutbox retries email delivery for notifications whose
// immediate dispatch failed. The cron interval spaces the attempts; after
// maxDeliveryAttempts a notification is marked FAILED and left for the
// in-app feed only.
func (jr *JobRunner) FlushNotificationOutbox() {
	jr.runWithRecovery("FlushNotificationOutbox", func() {
		ctx := context.Background()

		pending, err := jr.store.NotificationRepository.ListPendingDelivery(ctx, maxDeliveryAttempts, outboxBatchSize)
		if err != nil {
			logger.Error("Failed to query pending notifications", "error", err)
			return
		}

		sent, failed := 0, 0
		for i := range pending {
			note := &pending[i]
			attempts := note.Attempts + 1

			user, err := jr.store.UserRepository.GetByID(ctx, note.UserID)
			if err != nil {
				logger.Error("Failed to resolve notification recipient",
					"notification_id", note.ID, "user_id", note.UserID, "error", err)
				jr.markAttempt(ctx, note.ID, attempts)
				failed++
				continue
			}

			if err := jr.services.Email.SendWorkflowStepNotification(ctx, user.Email, user.Name, note.Title, note.Message); err != nil {
				logger.Warn("Notification delivery failed",
					"notification_id", note.ID, "attempts", attempts, "error", err)
				jr.markAttempt(ctx, note.ID, attempts)
				failed++
				continue
			}

			if err := jr.store.NotificationRepository.MarkDelivery(ctx, note.ID, domain.DeliveryStatusSent, attempts); err != nil {
				logger.Error("Failed to mark notification sent", "notification_id", note.ID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Notification outbox flushed", "sent", sent, "failed", failed)
	})
}

func (jr *JobRunner) markAttempt(ctx context.Context, noteID, attempts int32) {
	status := domain.DeliveryStatusPending
	if attempts >= maxDeliveryAttempts {
		status = domain.DeliveryStatusFailed
	}
	if err := jr.store.NotificationRepository.MarkDelivery(ctx, noteID, status, attempts); err != nil {
		logger.Error("Failed to record delivery attempt", "notification_id", noteID, "error", err)
	}
}

func itoa(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}
