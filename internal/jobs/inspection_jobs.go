package jobs

import (
	"context"
	"time"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/logger"
)

// SendInspectionReminders emails every participant of inspections scheduled
// within the next 24 hours.
func (jr *JobRunner) SendInspectionReminders() {
	jr.runWithRecovery("SendInspectionReminders", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		upcoming, err := jr.store.ListScheduledBetween(ctx, now, now.Add(24*time.Hour))
		if err != nil {
			logger.Error("Failed to query upcoming inspections", "error", err)
			return
		}

		count := 0
		for i := range upcoming {
			insp := &upcoming[i]
			recipients := []int32{insp.OwnerID, insp.RenterID}
			if insp.InspectorID != nil {
				recipients = append(recipients, *insp.InspectorID)
			}
			for _, userID := range recipients {
				user, err := jr.store.UserRepository.GetByID(ctx, userID)
				if err != nil {
					logger.Error("Failed to resolve reminder recipient",
						"inspection_id", insp.ID, "user_id", userID, "error", err)
					continue
				}
				if err := jr.services.Email.SendInspectionReminder(ctx, user.Email, user.Name, insp.ID, insp.ScheduledAt); err != nil {
					logger.Error("Failed to send inspection reminder",
						"inspection_id", insp.ID, "user_id", userID, "error", err)
					continue
				}
				count++
			}
		}
		logger.Info("Inspection reminders sent", "count", count)
	})
}

// EscalateOverdueInspections notifies owner and inspector about pending
// inspections whose scheduled time passed more than a day ago. The status
// itself stays untouched; only the state machine writes it.
func (jr *JobRunner) EscalateOverdueInspections() {
	jr.runWithRecovery("EscalateOverdueInspections", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().Add(-24 * time.Hour)

		query := `
			SELECT i.id, i.owner_id, i.inspector_id, i.scheduled_at
			FROM inspections i
			WHERE i.status = $1 AND i.scheduled_at < $2
		`
		rows, err := jr.db.QueryContext(ctx, query, domain.InspectionStatusPending, cutoff)
		if err != nil {
			logger.Error("Failed to query overdue inspections", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				inspectionID int32
				ownerID      int32
				inspectorID  *int32
				scheduledAt  time.Time
			)
			if err := rows.Scan(&inspectionID, &ownerID, &inspectorID, &scheduledAt); err != nil {
				logger.Error("Failed to scan overdue inspection", "error", err)
				continue
			}

			recipients := []int32{ownerID}
			if inspectorID != nil {
				recipients = append(recipients, *inspectorID)
			}
			for _, userID := range recipients {
				note := &domain.Notification{
					UserID:  userID,
					Title:   "Inspection Overdue",
					Message: "An inspection scheduled for " + scheduledAt.Format(time.RFC1123) + " has not started yet",
					Attributes: map[string]string{
						"type":          "INSPECTION_OVERDUE",
						"inspection_id": itoa(inspectionID),
					},
					DeliveryStatus: domain.DeliveryStatusPending,
				}
				if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
					logger.Error("Failed to record overdue notification",
						"inspection_id", inspectionID, "user_id", userID, "error", err)
					continue
				}
				count++
			}
		}
		if err := rows.Err(); err != nil {
			logger.Error("Overdue inspection scan failed", "error", err)
		}
		logger.Info("Overdue inspections escalated", "notifications", count)
	})
}
